package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "tpmanager", cfg.Database.DBName)
	require.Equal(t, 4, cfg.Assignment.MaxMembersPerTeam)
	require.Equal(t, "Equipo", cfg.Assignment.TeamNamePrefix)
	require.Equal(t, "tpmanager.app", cfg.JWT.Issuer)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: "9090"
assignment:
  max_members_per_team: 6
  team_name_prefix: "Grupo"
webhook:
  task_events_url: "https://hooks.example.com/tasks"
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, 6, cfg.Assignment.MaxMembersPerTeam)
	require.Equal(t, "Grupo", cfg.Assignment.TeamNamePrefix)
	require.Equal(t, "https://hooks.example.com/tasks", cfg.Webhook.TaskEventsURL)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("ASSIGNMENT_MAX_MEMBERS_PER_TEAM", "5")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	require.Equal(t, "7070", cfg.Server.Port)
	require.Equal(t, 5, cfg.Assignment.MaxMembersPerTeam)
}

func TestMissingJWTSecretFails(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	err := validateConfig(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "JWT secret")
}

func TestInvalidMaxMembersFails(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.JWT.Secret = "s"
	cfg.Assignment.MaxMembersPerTeam = 0
	err := validateConfig(cfg)
	require.Error(t, err)
}
