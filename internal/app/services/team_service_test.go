package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateJoinCode(t *testing.T) {
	code, err := generateJoinCode()
	require.NoError(t, err)
	require.Len(t, code, joinCodeLength)

	for _, c := range code {
		require.True(t, strings.ContainsRune(joinCodeAlphabet, c),
			"join code contains character outside alphabet: %q", c)
	}
}

func TestGenerateJoinCodeUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := generateJoinCode()
		require.NoError(t, err)
		require.False(t, seen[code], "duplicate join code generated: %s", code)
		seen[code] = true
	}
}
