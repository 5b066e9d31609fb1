package main

// Run database migrations:
//   go run ./cmd/migrate
// Print the applied schema version:
//   go run ./cmd/migrate -status

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"internship-ats/internal/shared/config"
	"internship-ats/internal/shared/storage/db"
)

func main() {
	status := flag.Bool("status", false, "print the current schema version and exit")
	flag.Parse()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Printf("DATABASE_URL is required")
		os.Exit(1)
	}
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if !*status {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			log.Printf("failed to run migrations: %v", err)
			os.Exit(1)
		}
	}

	version, err := db.SchemaVersion(sqlDB)
	if err != nil {
		log.Printf("failed to read schema version: %v", err)
		os.Exit(1)
	}
	fmt.Printf("schema version %d\n", version)
}
