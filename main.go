package main

import (
	"Gin_postgres_redis_material_tracker/app"
	"Gin_postgres_redis_material_tracker/config"
	"Gin_postgres_redis_material_tracker/db"
	"Gin_postgres_redis_material_tracker/routes"
	"context"
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	config.LoadEnv()

	application := app.MustNew()
	defer application.Close()

	app.BootstrapFirstAdmin(context.Background(), db.NewRepo(application.DB))

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	routes.RegisterRoutes(r, application)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	log.Info().Str("port", port).Msg("listening")
	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
