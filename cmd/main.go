package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Foodgram-Backend/cmd/config"
	migration "Foodgram-Backend/cmd/database/migrate"
	"Foodgram-Backend/internal/logging"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/storage"
)

func main() {
	utils.LoadConfig()
	logging.Init(logging.Config{
		Level:  utils.GetConfig("LOG_LEVEL"),
		Format: utils.GetConfig("LOG_FORMAT"),
		Output: os.Stdout,
	})

	db, err := config.ConnectDB()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect database")
	}
	if err := migration.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("failed to migrate database")
	}

	s3, err := storage.NewAwsS3(context.Background())
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to configure image store")
	}

	app, err := config.NewApp(db, s3)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build app")
	}

	go func() {
		addr := ":" + utils.GetConfig("APP_PORT")
		logging.Info().Str("addr", addr).Msg("listening")
		if err := app.Listen(addr); err != nil {
			logging.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logging.Error().Err(err).Msg("shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
