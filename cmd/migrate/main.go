// Command migrate applies the database schema. In production the server
// does not automigrate on startup, so this is run as a deploy step.
package main

import (
	"log"

	"quad/internal/config"
	"quad/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Printf("Schema applied for %d models", len(database.PersistentModels()))
}
