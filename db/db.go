package db

import (
	"Gin_postgres_redis_material_tracker/models"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := Migrate(conn); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate models")
	}
	log.Info().Msg("database connected")
	return conn
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Item{},
		&models.PendingRequest{},
		&models.HistoryEntry{},
	); err != nil {
		return err
	}

	// At most one open request per (item, requester, type). Resolved
	// requests are deleted, so the plain composite index is enough.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_open_per_tuple
	  ON %s (item_id, requested_by, type);
	`, models.PendingRequestTable, models.PendingRequestTable)).Error; err != nil {
		return err
	}

	// Audit reads are per item, most recent first.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_item_createdat_desc
	  ON %s (item_id, created_at DESC);
	`, models.HistoryTable, models.HistoryTable)).Error; err != nil {
		return err
	}

	return nil
}
