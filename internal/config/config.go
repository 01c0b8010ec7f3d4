package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ErrTemplateWritten is returned by Load on first run, after a commented
// template config has been written for the user to fill in.
var ErrTemplateWritten = errors.New("config template written")

// ErrPlaceholderValues is returned when the config still carries the
// template's placeholder credentials.
var ErrPlaceholderValues = errors.New("config contains placeholder values")

const (
	placeholderID     = "ClientIdHere"
	placeholderSecret = "SecretHere"
)

type Config struct {
	Spotify SpotifyConfig `toml:"spotify"`
	Server  ServerConfig  `toml:"server"`
	UI      UIConfig      `toml:"ui"`
}

type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

type ServerConfig struct {
	// Port the websocket listens on. The Resonite side must use the same
	// port, and it must differ from the redirect URI's port.
	Port int `toml:"port"`
}

type UIConfig struct {
	Debug     bool `toml:"debug"`
	RefreshMS int  `toml:"refresh_ms"`
	PollMS    int  `toml:"poll_ms"`
}

func DefaultConfig() *Config {
	return &Config{
		Spotify: SpotifyConfig{
			ClientID:     placeholderID,
			ClientSecret: placeholderSecret,
			RedirectURI:  "http://localhost:8000/callback",
		},
		Server: ServerConfig{
			Port: 6969,
		},
		UI: UIConfig{
			Debug:     false,
			RefreshMS: 40,
			PollMS:    1000,
		},
	}
}

func ConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "resonify"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config. When no config exists yet a template is written and
// ErrTemplateWritten is returned so the caller can tell the user to fill it
// in and exit.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := writeTemplate(path); err != nil {
				return nil, fmt.Errorf("write config template: %w", err)
			}
			return nil, ErrTemplateWritten
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Spotify.ClientID == "" || c.Spotify.ClientID == placeholderID ||
		c.Spotify.ClientSecret == "" || c.Spotify.ClientSecret == placeholderSecret {
		return ErrPlaceholderValues
	}

	redirect, err := url.Parse(c.Spotify.RedirectURI)
	if err != nil {
		return fmt.Errorf("invalid redirect URI: %w", err)
	}
	if redirect.Port() == fmt.Sprint(c.Server.Port) {
		return fmt.Errorf("invalid port %d: already used by the callback URI", c.Server.Port)
	}

	if c.UI.RefreshMS <= 0 {
		c.UI.RefreshMS = 40
	}
	if c.UI.PollMS <= 0 {
		c.UI.PollMS = 1000
	}
	return nil
}

const template = `# Resonify configuration.
#
# You'll find your Client ID and Client Secret in your Spotify application
# developer panel under Settings. Under the same menu, the "Redirect" section
# lets you hook up the link the API redirects to once connected.
[spotify]
client_id = "ClientIdHere"
client_secret = "SecretHere"
redirect_uri = "http://localhost:8000/callback"

# The websocket port the Resonite client connects through. It MUST match the
# port configured in Resonite and differ from the redirect URI's port.
[server]
port = 6969

[ui]
debug = false
refresh_ms = 40
poll_ms = 1000
`

func writeTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(template), 0o600)
}
