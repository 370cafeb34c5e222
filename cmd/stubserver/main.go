package main

import (
	"log"

	"pawmart/internal/config"
	"pawmart/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	store := server.NewStore()
	if err := store.Seed(); err != nil {
		log.Fatalf("Failed to seed store: %v", err)
	}

	srv := server.New(cfg.Server, store)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
