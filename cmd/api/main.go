package main

import (
	"context"
	"log"

	"causelist-backend/internal/bootstrap"
	"causelist-backend/internal/shared/config"
	"causelist-backend/internal/shared/server"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to build app: %v", err)
	}
	defer app.Close()

	addr := server.Addr(cfg)
	log.Printf("Starting API server on %s", addr)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
