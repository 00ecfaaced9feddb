package config

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

const (
	prmonDir       = ".prmon"
	configFileName = "config.json"
	watchFileName  = "watchlist.json"
)

// Config holds the persisted settings: an optional API token, the poll
// interval and an optional override for the watch list location.
type Config struct {
	// GithubToken is optional; without it the public API quota of 60
	// requests/hour applies.
	GithubToken     string `json:"github_token"`
	RefreshInterval int    `json:"refresh_interval" validate:"min=10,max=300"`
	WatchFile       string `json:"watch_file,omitempty"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{RefreshInterval: 30}
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, prmonDir, configFileName), nil
}

// WatchFilePath resolves the watch list location, preferring the
// configured override.
func (c *Config) WatchFilePath() (string, error) {
	if c.WatchFile != "" {
		return c.WatchFile, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, prmonDir, watchFileName), nil
}

// Load reads the given config file. A missing file is not an error; the
// defaults apply.
func Load(configFile string) (*Config, error) {
	f, err := os.Open(configFile)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	defer f.Close()
	return read(f)
}

func read(r io.Reader) (*Config, error) {
	c := Default()
	if err := json.NewDecoder(r).Decode(c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the field constraints, in particular the refresh
// interval bounds of 10 to 300 seconds.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// String renders the config as indented JSON with the token redacted.
func (c *Config) String() (string, error) {
	view := *c
	if view.GithubToken != "" {
		view.GithubToken = "<redacted>"
	}
	b, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Generate writes an example config in the default location if one does
// not already exist.
func Generate() error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(configPath); err == nil {
		return errors.New("config already exists at " + configPath)
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(Default(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, b, 0644)
}

// OpenOnEditor opens the config file with $EDITOR.
func OpenOnEditor() error {
	confPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	cmd := exec.Command(textEditorName(), confPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	return cmd.Run()
}

func textEditorName() string {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	return editor
}
