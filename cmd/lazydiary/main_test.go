package main

import (
	"context"
	"path/filepath"
	"testing"
)

func TestExecuteClosesStoreWhenCommandFails(t *testing.T) {
	dir := t.TempDir()
	args := []string{
		"--config", filepath.Join(dir, "config.toml"),
		"--db", filepath.Join(dir, "lazydiary.db"),
		"--diary", "1",
		"page", "show", "2024-01-01",
	}

	a, err := execute(context.Background(), args)
	if err == nil {
		t.Fatalf("expected showing a missing page to fail")
	}
	if a == nil {
		t.Fatalf("expected the app to have been built")
	}
	if err := a.store.DB.PingContext(context.Background()); err == nil {
		t.Fatalf("expected the database to be closed after a failed command")
	}
}

func TestExecuteClosesStoreOnSuccess(t *testing.T) {
	dir := t.TempDir()
	args := []string{
		"--config", filepath.Join(dir, "config.toml"),
		"--db", filepath.Join(dir, "lazydiary.db"),
		"diary", "list",
	}

	a, err := execute(context.Background(), args)
	if err != nil {
		t.Fatalf("diary list: %v", err)
	}
	if err := a.store.DB.PingContext(context.Background()); err == nil {
		t.Fatalf("expected the database to be closed after the command")
	}
}
