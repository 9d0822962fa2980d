package main

import (
	"log"

	"smart-notes-be/internal/config"
	"smart-notes-be/internal/model"
	"smart-notes-be/pkg/database"
)

func main() {
	cfg := config.Load()

	db, driver, err := database.Open(cfg.Database.Connection, cfg.Database.SQLitePath)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}
	defer database.Close(db)

	log.Printf("Running AutoMigrate on %s...", driver)
	if err := database.Migrate(db, model.All()...); err != nil {
		log.Fatal("Error: Migration failed:", err)
	}
	log.Println("Migration complete.")
}
