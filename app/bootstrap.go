// app/bootstrap.go
package app

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"Gin_postgres_redis_material_tracker/db"
	"Gin_postgres_redis_material_tracker/models"
)

// BootstrapFirstAdmin seeds an administrator account on an empty deployment.
// No-op when an admin already exists or BOOTSTRAP_ADMIN_USERNAME is unset.
func BootstrapFirstAdmin(ctx context.Context, repo *db.Repo) {
	username := os.Getenv("BOOTSTRAP_ADMIN_USERNAME")
	if username == "" {
		return
	}
	n, err := repo.CountAdmins(ctx)
	if err != nil {
		log.Error().Err(err).Msg("bootstrap: count admins")
		return
	}
	if n > 0 {
		return
	}

	u := &models.User{
		ID:          uuid.NewString(),
		Username:    username,
		DisplayName: username,
		Role:        models.RoleAdmin,
		Status:      models.UserActive,
	}
	if err := repo.CreateUser(ctx, u); err != nil {
		log.Error().Err(err).Msg("bootstrap: create admin")
		return
	}
	log.Info().Str("username", username).Msg("bootstrap: created first admin")
}
