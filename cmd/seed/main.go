package main

import (
	"context"
	"flag"
	"os"

	"foodgram/internal/bootstrap"
	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/pkg/logger"
	"foodgram/internal/pkg/validator"
	"foodgram/internal/seed"
)

func main() {
	ingredientsPath := flag.String("ingredients", "data/ingredients.json", "ingredients file (.json or .csv); empty to skip")
	tagsPath := flag.String("tags", "", "tags file (.json); empty to skip")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New("foodgram-seed", "production").WithError(err).Fatal("load config failed")
	}
	log := logger.New("foodgram-seed", cfg.AppEnv)
	validator.Init()

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}
	log.Info("running AutoMigrate...")
	if err := database.Migrate(db, bootstrap.Models()...); err != nil {
		log.WithError(err).Fatal("AutoMigrate failed")
	}

	ctx := context.Background()
	failed := false

	if *ingredientsPath != "" {
		n, err := seed.IngredientsFile(ctx, db, *ingredientsPath)
		if err != nil {
			log.WithError(err).WithField("file", *ingredientsPath).Error("ingredients import failed")
			failed = true
		} else {
			log.WithField("added", n).Info("ingredients imported")
		}
	}

	if *tagsPath != "" {
		n, err := seed.TagsFile(ctx, db, *tagsPath)
		if err != nil {
			log.WithError(err).WithField("file", *tagsPath).Error("tags import failed")
			failed = true
		} else {
			log.WithField("added", n).Info("tags imported")
		}
	}

	if failed {
		os.Exit(1)
	}
}
