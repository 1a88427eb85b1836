package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/habbababbai/entertainment-tracker/internal/server"
	"github.com/habbababbai/entertainment-tracker/internal/server/config"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("startup error: %v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
