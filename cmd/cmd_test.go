package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Rana718/schoolseed/internal/export"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSchemaPrint(t *testing.T) {
	out, err := execute(t, "schema", "print", "--provider", "mysql")
	if err != nil {
		t.Fatalf("schema print failed: %v", err)
	}
	if !strings.Contains(out, "BIGINT AUTO_INCREMENT PRIMARY KEY") {
		t.Errorf("expected mysql DDL, got:\n%s", out)
	}
	if strings.Index(out, "CREATE TABLE IF NOT EXISTS users") > strings.Index(out, "CREATE TABLE IF NOT EXISTS grades") {
		t.Error("users must be created before grades")
	}
}

func TestSchemaDropNeedsForce(t *testing.T) {
	if _, err := execute(t, "schema", "drop", "--provider", "sqlite", "--dbname", filepath.Join(t.TempDir(), "x")); err == nil {
		t.Fatal("expected drop without --force to fail")
	}
}

func TestSeedWithoutSchema(t *testing.T) {
	dbname := filepath.Join(t.TempDir(), "empty")
	_, err := execute(t, "seed", "--provider", "sqlite", "--dbname", dbname, "--bcrypt-cost", "4", "--output", "")
	if err == nil || !strings.Contains(err.Error(), "tables missing") {
		t.Fatalf("expected a missing tables error, got %v", err)
	}
}

func TestSeedSQLiteEndToEnd(t *testing.T) {
	dir := t.TempDir()
	dbname := filepath.Join(dir, "school")
	manifest := filepath.Join(dir, "run.json")
	conn := []string{"--provider", "sqlite", "--dbname", dbname}

	if _, err := execute(t, append([]string{"schema", "create"}, conn...)...); err != nil {
		t.Fatalf("schema create failed: %v", err)
	}

	args := append([]string{"seed"}, conn...)
	args = append(args, "--students", "6", "--teachers", "2", "--grades", "30", "--days", "14",
		"--bcrypt-cost", "4", "--output", manifest)
	if _, err := execute(t, args...); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	data, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
	var m export.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("manifest is not JSON: %v", err)
	}
	if m.Counts.Users != 9 || m.Counts.Students != 6 || m.Counts.Grades != 30 {
		t.Errorf("unexpected counts %+v", m.Counts)
	}
	if m.Provider != "sqlite" || m.Seed != 42 {
		t.Errorf("unexpected manifest header %+v", m)
	}

	// a second run hits the unique emails and rolls back
	if _, err := execute(t, args...); err == nil {
		t.Error("expected re-seeding a populated database to fail")
	}

	if _, err := execute(t, append([]string{"schema", "drop", "--force"}, conn...)...); err != nil {
		t.Fatalf("schema drop failed: %v", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, Version) {
		t.Errorf("expected version %s in %q", Version, out)
	}
}
