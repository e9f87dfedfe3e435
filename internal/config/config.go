package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const maxRecentFiles = 10

// Config holds persisted editor settings.
type Config struct {
	// RecentFiles lists previously opened files or remote targets, most
	// recent first.
	RecentFiles []string `json:"recent_files"`
	// DefaultExtension is applied by the save-as format prompt when the
	// user enters nothing. Empty means "txt".
	DefaultExtension string `json:"default_extension,omitempty"`
	// FiletypesPath points at a user filetype mapping file consulted before
	// the built-in highlight profiles.
	FiletypesPath string `json:"filetypes_path,omitempty"`
}

func configPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "quill", "config.json")
}

// Load reads the config from disk. A missing or unparsable file yields an
// empty config, not an error.
func Load() (*Config, error) {
	p := configPath()
	data, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return &Config{}, nil
	}
	return &cfg, nil
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	p := configPath()
	if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(p, data, 0600); err != nil {
		return err
	}
	FixOwnership(p)
	return nil
}

// AddRecent moves name to the front of the recent-files list, deduplicating
// and capping the list.
func (c *Config) AddRecent(name string) {
	if name == "" {
		return
	}
	out := []string{name}
	for _, f := range c.RecentFiles {
		if f != name {
			out = append(out, f)
		}
	}
	if len(out) > maxRecentFiles {
		out = out[:maxRecentFiles]
	}
	c.RecentFiles = out
}

// SaveExtension returns the extension the format prompt defaults to.
func (c *Config) SaveExtension() string {
	if c.DefaultExtension == "" {
		return "txt"
	}
	return c.DefaultExtension
}
