package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func setupTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, ".config", "quill")
	if err := os.MkdirAll(cfgDir, 0700); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", dir)
	return filepath.Join(cfgDir, "config.json")
}

func TestConfigPath(t *testing.T) {
	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".config", "quill", "config.json")
	got := configPath()
	if got != want {
		t.Errorf("configPath() = %q, want %q", got, want)
	}
}

func TestLoadNonExistent(t *testing.T) {
	setupTestConfig(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	if len(cfg.RecentFiles) != 0 {
		t.Errorf("expected 0 recent files, got %d", len(cfg.RecentFiles))
	}
}

func TestSaveAndLoad(t *testing.T) {
	setupTestConfig(t)

	cfg := &Config{
		RecentFiles:      []string{"/tmp/notes.txt", "admin@web01:/etc/motd"},
		DefaultExtension: "md",
	}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded.RecentFiles) != 2 {
		t.Fatalf("expected 2 recent files, got %d", len(loaded.RecentFiles))
	}
	if loaded.RecentFiles[0] != "/tmp/notes.txt" {
		t.Errorf("RecentFiles[0] = %q, want %q", loaded.RecentFiles[0], "/tmp/notes.txt")
	}
	if loaded.DefaultExtension != "md" {
		t.Errorf("DefaultExtension = %q, want %q", loaded.DefaultExtension, "md")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	cfgFile := setupTestConfig(t)

	if err := os.WriteFile(cfgFile, []byte("{invalid json"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() should not return error for invalid JSON, got %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() should return empty config for invalid JSON")
	}
	if len(cfg.RecentFiles) != 0 {
		t.Errorf("expected 0 recent files for invalid JSON, got %d", len(cfg.RecentFiles))
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	cfg := &Config{}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	p := filepath.Join(dir, ".config", "quill", "config.json")
	if _, err := os.Stat(p); os.IsNotExist(err) {
		t.Errorf("expected config file to exist at %s", p)
	}
}

func TestSaveFilePermissions(t *testing.T) {
	setupTestConfig(t)

	cfg := &Config{RecentFiles: []string{"a.txt"}}
	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(configPath())
	if err != nil {
		t.Fatal(err)
	}
	perm := info.Mode().Perm()
	if perm != 0600 {
		t.Errorf("config file perm = %o, want 0600", perm)
	}
}

func TestSaveProducesValidJSON(t *testing.T) {
	setupTestConfig(t)

	cfg := &Config{
		RecentFiles:      []string{"a.go"},
		DefaultExtension: "rs",
		FiletypesPath:    "/etc/quill/filetypes.txt",
	}
	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(configPath())
	if err != nil {
		t.Fatal(err)
	}
	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("saved file is not valid JSON: %v", err)
	}
	if loaded.FiletypesPath != "/etc/quill/filetypes.txt" {
		t.Errorf("FiletypesPath = %q", loaded.FiletypesPath)
	}
}

func TestAddRecentNew(t *testing.T) {
	cfg := &Config{}
	cfg.AddRecent("a.txt")
	if len(cfg.RecentFiles) != 1 {
		t.Fatalf("expected 1, got %d", len(cfg.RecentFiles))
	}
	if cfg.RecentFiles[0] != "a.txt" {
		t.Errorf("RecentFiles[0] = %q, want %q", cfg.RecentFiles[0], "a.txt")
	}
}

func TestAddRecentDeduplicates(t *testing.T) {
	cfg := &Config{RecentFiles: []string{"a.txt", "b.txt"}}
	cfg.AddRecent("b.txt")
	if len(cfg.RecentFiles) != 2 {
		t.Fatalf("expected 2 (deduplicated), got %d", len(cfg.RecentFiles))
	}
	if cfg.RecentFiles[0] != "b.txt" {
		t.Errorf("first = %q, want b.txt", cfg.RecentFiles[0])
	}
}

func TestAddRecentPrependsNew(t *testing.T) {
	cfg := &Config{RecentFiles: []string{"a.txt"}}
	cfg.AddRecent("b.txt")
	if len(cfg.RecentFiles) != 2 {
		t.Fatalf("expected 2, got %d", len(cfg.RecentFiles))
	}
	if cfg.RecentFiles[0] != "b.txt" {
		t.Errorf("first entry = %q, want %q", cfg.RecentFiles[0], "b.txt")
	}
}

func TestAddRecentMaxTen(t *testing.T) {
	cfg := &Config{}
	for i := 0; i < 12; i++ {
		cfg.AddRecent(fmt.Sprintf("f%d.txt", i))
	}
	if len(cfg.RecentFiles) != 10 {
		t.Errorf("expected max 10 recent, got %d", len(cfg.RecentFiles))
	}
	if cfg.RecentFiles[0] != "f11.txt" {
		t.Errorf("first = %q, want f11.txt", cfg.RecentFiles[0])
	}
}

func TestAddRecentIgnoresEmpty(t *testing.T) {
	cfg := &Config{RecentFiles: []string{"a.txt"}}
	cfg.AddRecent("")
	if len(cfg.RecentFiles) != 1 {
		t.Errorf("expected 1, got %d", len(cfg.RecentFiles))
	}
}

func TestSaveExtensionDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.SaveExtension(); got != "txt" {
		t.Errorf("SaveExtension() = %q, want txt", got)
	}
	cfg.DefaultExtension = "md"
	if got := cfg.SaveExtension(); got != "md" {
		t.Errorf("SaveExtension() = %q, want md", got)
	}
}
