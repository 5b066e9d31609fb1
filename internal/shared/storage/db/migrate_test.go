package db

import (
	"context"
	"io/fs"
	"strings"
	"testing"
)

func TestRunMigrationsNilDatabase(t *testing.T) {
	if err := RunMigrations(context.Background(), nil); err != nil {
		t.Fatalf("expected nil database to be a no-op, got %v", err)
	}
}

func TestEmbeddedMigrationsCreateResumeRecords(t *testing.T) {
	data, err := fs.ReadFile(migrationFiles, "migrations/00001_create_resume_records.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	body := string(data)
	for _, want := range []string{"-- +goose Up", "CREATE TABLE IF NOT EXISTS resume_records", "collection TEXT NOT NULL", "-- +goose Down"} {
		if !strings.Contains(body, want) {
			t.Fatalf("migration missing %q", want)
		}
	}
}
