package seed

import (
	"context"
	"errors"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/tpmanager/backend/internal/app/models"
	appRepos "github.com/tpmanager/backend/internal/app/repositories"
	"github.com/tpmanager/backend/internal/pkg/apperrors"
	"github.com/tpmanager/backend/internal/pkg/auth"
)

const defaultAdminEmail = "admin@tpmanager.app"

// CreateDefaultData creates the default admin account if it doesn't exist.
// The password comes from ADMIN_PASSWORD; without it no admin is seeded.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		lgr.Info().Msg("ADMIN_PASSWORD not set, skipping default admin seed")
		return nil
	}

	userRepo := appRepos.NewUserRepository(dbPool)

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	adminID, err := userRepo.CreateUser(ctx, &appModels.User{
		Email:    defaultAdminEmail,
		Password: hashed,
		Name:     "Administrator",
		Role:     appModels.RoleAdmin,
		IsActive: true,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			lgr.Debug().Str("email", defaultAdminEmail).Msg("Default admin already exists")
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating default admin")
		return err
	}

	lgr.Info().Int64("userID", adminID).Str("email", defaultAdminEmail).Msg("Default admin created")
	return nil
}
