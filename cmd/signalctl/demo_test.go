package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quotely/signal/internal/config"
)

func TestRunDemo(t *testing.T) {
	if err := runDemo(t.Context(), slog.New(slog.DiscardHandler)); err != nil {
		t.Fatalf("runDemo failed: %v", err)
	}
}

func TestOpenStoreDrivers(t *testing.T) {
	store, closeStore, err := openStore(config.StoreConfig{Driver: config.DriverMemory})
	if err != nil || store == nil {
		t.Fatalf("memory store: %v", err)
	}
	if err := closeStore(); err != nil {
		t.Errorf("close memory store: %v", err)
	}

	path := filepath.Join(t.TempDir(), "signals.db")
	store, closeStore, err = openStore(config.StoreConfig{Driver: config.DriverSQLite, Path: path})
	if err != nil {
		t.Fatalf("sqlite store: %v", err)
	}
	if err := store.Put(t.Context(), "k", []byte("v")); err != nil {
		t.Errorf("put: %v", err)
	}
	if err := closeStore(); err != nil {
		t.Errorf("close sqlite store: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	t.Chdir(t.TempDir())

	path := ""
	cmd := configCmd(&path)
	cmd.SetArgs([]string{"init"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if _, err := os.Stat(config.ConfigFileName); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	cmd = configCmd(&path)
	cmd.SetArgs([]string{"init"})
	if err := cmd.Execute(); err == nil {
		t.Error("second init should fail without --force")
	}

	cmd = configCmd(&path)
	cmd.SetArgs([]string{"init", "--force"})
	if err := cmd.Execute(); err != nil {
		t.Errorf("init --force: %v", err)
	}
}

func TestVersionShort(t *testing.T) {
	var out strings.Builder
	cmd := versionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--short"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) == "" {
		t.Error("version --short printed nothing")
	}
}
