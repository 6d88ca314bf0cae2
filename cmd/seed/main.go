// Seeds the authorization table with accessKey/clientId pairings.
// Usage: go run ./cmd/seed DCE123:partner-123 DCE456:partner-456
package main

import (
	"log"
	"os"
	"strings"

	"dce-cancel-be/internal/config"
	"dce-cancel-be/internal/model"
	"dce-cancel-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	table := cfg.Cancel.AuthTableName
	if err := db.Table(table).AutoMigrate(&model.Authorization{}); err != nil {
		log.Fatalf("Error: Failed to migrate %s: %v", table, err)
	}

	pairs := os.Args[1:]
	if len(pairs) == 0 {
		color.Yellow("Nothing to seed. Pass pairings as accessKey:clientId arguments.")
		return
	}

	color.Cyan("Seeding %s...", table)
	for _, pair := range pairs {
		accessKey, clientID, ok := strings.Cut(pair, ":")
		if !ok || accessKey == "" || clientID == "" {
			color.Red("Skipping malformed pairing %q (want accessKey:clientId)", pair)
			continue
		}

		// Composite primary key makes re-seeding idempotent
		var existing model.Authorization
		if err := db.Table(table).
			Where("access_key = ? AND client_id = ?", accessKey, clientID).
			First(&existing).Error; err == nil {
			color.Yellow("Pairing %s:%s already exists, skipping...", accessKey, clientID)
			continue
		}

		record := model.Authorization{AccessKey: accessKey, ClientID: clientID}
		if err := db.Table(table).Create(&record).Error; err != nil {
			color.Red("Failed to seed %s:%s: %v", accessKey, clientID, err)
			continue
		}
		color.Green("Seeded %s:%s", accessKey, clientID)
	}
}
