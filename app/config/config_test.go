package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every YATUBE_ variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{KeyAddr, KeyDataDir, KeyPostsPerPage, KeySecretKey, KeySessionTTL, KeyDebug, KeyLoginRatePerMinute, KeyLoginBurst} {
		name := EnvPrefix + "_" + strings.ToUpper(key)
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("YATUBE_DEBUG", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Addr)
	assert.Equal(t, "data/badger", cfg.DataDir)
	assert.Equal(t, 10, cfg.PostsPerPage)
	assert.Equal(t, 336*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.DevSecret)
	assert.NotEmpty(t, cfg.SecretKey)
}

func TestLoadRequiresSecretOutsideDebug(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	_, err := Load("")
	assert.ErrorIs(t, err, ErrMissingSecretKey)

	cfg, err := Read("")
	require.NoError(t, err)
	assert.Empty(t, cfg.SecretKey)
	assert.False(t, cfg.DevSecret)
}

func TestLoadLayers(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "yatube.ini")
	content := "[server]\naddr = :9000\n\n[blog]\nposts_per_page = 5\nsecret_key = from-file\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	t.Run("file over defaults", func(t *testing.T) {
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.Addr)
		assert.Equal(t, 5, cfg.PostsPerPage)
		assert.Equal(t, "from-file", cfg.SecretKey)
		assert.False(t, cfg.DevSecret)
	})

	t.Run("environment over file", func(t *testing.T) {
		t.Setenv("YATUBE_POSTS_PER_PAGE", "3")
		t.Setenv("YATUBE_SESSION_TTL", "1h")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.PostsPerPage)
		assert.Equal(t, time.Hour, cfg.SessionTTL)
		assert.Equal(t, ":9000", cfg.Addr)
	})

	t.Run("dotenv file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("YATUBE_ADDR=:7000\n"), 0600))
		t.Cleanup(func() { os.Unsetenv("YATUBE_ADDR") })

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":7000", cfg.Addr)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.ini"))
		assert.Error(t, err)
	})

	t.Run("invalid page size", func(t *testing.T) {
		t.Setenv("YATUBE_POSTS_PER_PAGE", "0")
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	for _, debug := range []bool{true, false} {
		logger, err := NewLogger(debug)
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
