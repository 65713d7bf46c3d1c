package main

import (
	"log"

	"github.com/medigraph/medigraph-api/internal/config"
	"github.com/medigraph/medigraph-api/internal/server"
)

func main() {
	log.Println("Starting MediGraph API...")

	// Load Configuration
	cfg := config.Load()

	app := server.New(cfg)
	if err := app.Run(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
