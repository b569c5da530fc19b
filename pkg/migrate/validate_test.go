package migrate_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parshwa-io/adminconsole-backend/pkg/migrate"
)

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations failed validation: %v", err)
	}
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "not_a_version_create_things.sql")
	if err := os.WriteFile(bad, []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatal("expected validation error for invalid filename")
	}
}

func TestValidateDirRejectsMissingDownSection(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "20260901000002_add_things.sql")
	if err := os.WriteFile(bad, []byte("-- +goose Up\nCREATE TABLE things (id INT);\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatal("expected validation error for missing down section")
	}
}
