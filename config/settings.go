package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server   ServerSettings   `json:"server"`
	Database DatabaseSettings `json:"database"`
	Metadata MetadataSettings `json:"metadata"`
	Player   PlayerSettings   `json:"player"`
	Torrents TorrentsSettings `json:"torrents"`
	Auth     AuthSettings     `json:"auth"`
	Log      LogConfig        `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// DatabaseSettings defines the MongoDB connection.
type DatabaseSettings struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

type MetadataSettings struct {
	TMDBAPIKey      string `json:"tmdbApiKey"`
	KinopoiskAPIKey string `json:"kinopoiskApiKey"`
	KinopoiskAPIURL string `json:"kinopoiskApiUrl"`
	Language        string `json:"language"`
}

// PlayerSettings configures the embed endpoint playback URLs are built
// against. An empty Base is an operator misconfiguration: the resolver
// refuses to construct URLs without it.
type PlayerSettings struct {
	Base string `json:"base"`
}

// TorrentsSettings configures the torrent aggregator API.
type TorrentsSettings struct {
	URL    string `json:"url"`
	APIKey string `json:"apiKey"`
}

type AuthSettings struct {
	JWTSecret              string `json:"jwtSecret"`
	TokenTTLHours          int    `json:"tokenTtlHours"`
	VerificationTTLMinutes int    `json:"verificationTtlMinutes"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	File       string `json:"file"`
	Level      string `json:"level"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

// DefaultSettings returns sane defaults for a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Server:   ServerSettings{Host: "0.0.0.0", Port: 8090},
		Database: DatabaseSettings{URI: "mongodb://localhost:27017", Name: "kinolab"},
		Metadata: MetadataSettings{
			KinopoiskAPIURL: "https://kinopoiskapiunofficial.tech",
			Language:        "ru-RU",
		},
		Player:   PlayerSettings{},
		Torrents: TorrentsSettings{},
		Auth: AuthSettings{
			TokenTTLHours:          72,
			VerificationTTLMinutes: 30,
		},
		Log: LogConfig{
			File:       "cache/logs/backend.log",
			Level:      "info",
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		},
	}
}

// Manager loads and persists settings to a JSON file.
type Manager struct {
	path string
}

func NewManager(configPath string) *Manager {
	return &Manager{path: configPath}
}

// EnsureDir ensures the parent directory exists.
func (m *Manager) EnsureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Load reads the settings file from disk or creates defaults if missing.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}
	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		defaults := DefaultSettings()
		if err := m.Save(defaults); err != nil {
			return Settings{}, err
		}
		return defaults, nil
	}

	f, err := os.Open(m.path)
	if err != nil {
		return Settings{}, err
	}
	defer f.Close()

	s := DefaultSettings()
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return Settings{}, err
	}

	if s.Auth.TokenTTLHours <= 0 {
		s.Auth.TokenTTLHours = DefaultSettings().Auth.TokenTTLHours
	}
	if s.Auth.VerificationTTLMinutes <= 0 {
		s.Auth.VerificationTTLMinutes = DefaultSettings().Auth.VerificationTTLMinutes
	}

	return s, nil
}

// Save writes the settings to disk atomically.
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if err := m.EnsureDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, m.path)
}
