package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	m := NewManager(path)

	settings, err := m.Load()
	require.NoError(t, err)
	require.Equal(t, 8090, settings.Server.Port)
	require.Equal(t, "mongodb://localhost:27017", settings.Database.URI)
	require.Equal(t, "https://kinopoiskapiunofficial.tech", settings.Metadata.KinopoiskAPIURL)

	// The defaults file must now exist on disk.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	m := NewManager(path)

	settings := DefaultSettings()
	settings.Server.Port = 9999
	settings.Metadata.TMDBAPIKey = "tmdb-key"
	settings.Player.Base = "https://player.example"
	require.NoError(t, m.Save(settings))

	loaded, err := m.Load()
	require.NoError(t, err)
	require.Equal(t, 9999, loaded.Server.Port)
	require.Equal(t, "tmdb-key", loaded.Metadata.TMDBAPIKey)
	require.Equal(t, "https://player.example", loaded.Player.Base)
}

func TestLoadRestoresMissingTTLs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"auth":{"tokenTtlHours":0}}`), 0o644))

	loaded, err := NewManager(path).Load()
	require.NoError(t, err)
	require.Equal(t, 72, loaded.Auth.TokenTTLHours)
	require.Equal(t, 30, loaded.Auth.VerificationTTLMinutes)
}

func TestLoadWithoutPathFails(t *testing.T) {
	_, err := NewManager("").Load()
	require.Error(t, err)
}
