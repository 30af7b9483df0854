package main

import (
	"ejn_hub/internal/config" // Custom import path (Config)
	"ejn_hub/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logging library
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration

	conn, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		logrus.Fatalf("%v", err)
	}
}
