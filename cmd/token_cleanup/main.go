package main

import (
	"context"
	"time"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/domain/auth"
	"foodgram/internal/pkg/logger"
)

// Удаляет из списка отозванных токенов записи, срок жизни которых истёк.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("foodgram-token-cleanup", "production").WithError(err).Fatal("load config failed")
	}
	log := logger.New("foodgram-token-cleanup", cfg.AppEnv)

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}
	if err := database.Migrate(db, auth.Models()...); err != nil {
		log.WithError(err).Fatal("migrate revoked_tokens failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// сервису не нужны пользователи и jwt, только репозиторий
	svc := auth.NewService(nil, auth.NewRepository(db), nil, log)
	removed, err := svc.PurgeExpired(ctx, time.Now())
	if err != nil {
		log.WithError(err).Fatal("cleanup revoked_tokens failed")
	}
	log.WithField("revoked_tokens", removed).Info("token cleanup completed")
}
