// Package config loads application settings.
//
// Values are layered, lowest precedence first: built-in defaults, an optional
// INI file, then YATUBE_* environment variables. A .env file in the working
// directory is loaded into the environment before anything else.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-ini/ini"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "YATUBE"

const (
	KeyAddr               = "addr"
	KeyDataDir            = "data_dir"
	KeyPostsPerPage       = "posts_per_page"
	KeySecretKey          = "secret_key"
	KeySessionTTL         = "session_ttl"
	KeyDebug              = "debug"
	KeyLoginRatePerMinute = "login_rate_per_minute"
	KeyLoginBurst         = "login_burst"
)

// devSecretKey signs sessions in debug mode when no key is configured.
const devSecretKey = "yatube-insecure-development-key"

var ErrMissingSecretKey = errors.New("config: secret_key must be set unless debug is enabled")

type Config struct {
	Addr               string
	DataDir            string
	PostsPerPage       int
	SecretKey          string
	SessionTTL         time.Duration
	Debug              bool
	LoginRatePerMinute int
	LoginBurst         int

	// DevSecret is true when SecretKey is the built-in development key.
	DevSecret bool
}

func defaults(vp *viper.Viper) {
	vp.SetDefault(KeyAddr, ":8000")
	vp.SetDefault(KeyDataDir, "data/badger")
	vp.SetDefault(KeyPostsPerPage, 10)
	vp.SetDefault(KeySecretKey, "")
	vp.SetDefault(KeySessionTTL, "336h")
	vp.SetDefault(KeyDebug, false)
	vp.SetDefault(KeyLoginRatePerMinute, 10)
	vp.SetDefault(KeyLoginBurst, 5)
}

// Load reads the configuration. path names an optional INI file; an empty
// path skips the file layer, a missing file is an error.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.requireSecret(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read is Load without the secret key check, for commands that never sign
// sessions.
func Read(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	vp := viper.New()
	defaults(vp)

	if path != "" {
		values, err := readINI(path)
		if err != nil {
			return nil, err
		}
		if err := vp.MergeConfigMap(values); err != nil {
			return nil, fmt.Errorf("config: merge %s: %w", path, err)
		}
	}

	vp.SetEnvPrefix(EnvPrefix)
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()

	cfg := &Config{
		Addr:               vp.GetString(KeyAddr),
		DataDir:            vp.GetString(KeyDataDir),
		PostsPerPage:       vp.GetInt(KeyPostsPerPage),
		SecretKey:          vp.GetString(KeySecretKey),
		SessionTTL:         vp.GetDuration(KeySessionTTL),
		Debug:              vp.GetBool(KeyDebug),
		LoginRatePerMinute: vp.GetInt(KeyLoginRatePerMinute),
		LoginBurst:         vp.GetInt(KeyLoginBurst),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.PostsPerPage < 1 {
		return fmt.Errorf("config: %s must be positive, got %d", KeyPostsPerPage, c.PostsPerPage)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: %s must be positive, got %s", KeySessionTTL, c.SessionTTL)
	}
	if c.LoginRatePerMinute < 1 || c.LoginBurst < 1 {
		return fmt.Errorf("config: login rate and burst must be positive")
	}
	return nil
}

func (c *Config) requireSecret() error {
	if c.SecretKey == "" {
		if !c.Debug {
			return ErrMissingSecretKey
		}
		c.SecretKey = devSecretKey
		c.DevSecret = true
	}
	return nil
}

// readINI flattens every section of the file into one key space, so
// "[server] addr" and a top-level "addr" both set the addr key.
func readINI(path string) (map[string]interface{}, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	values := make(map[string]interface{})
	for _, section := range file.Sections() {
		for _, key := range section.Keys() {
			values[strings.ToLower(key.Name())] = key.Value()
		}
	}
	return values, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}
