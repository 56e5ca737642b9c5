package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/bnema/folio-admin-cli/internal/adapters/logger"
)

const (
	KeyAPIBaseURL     = "api.base_url"
	KeyAPITimeout     = "api.timeout"
	KeySessionPath    = "session.path"
	KeySecretsBackend = "secrets.backend"
	KeySecretsDir     = "secrets.dir"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
	KeyLogOutput      = "log.output"

	EnvPrefix      = "FA"
	DefaultBaseURL = "http://localhost:5000"
	DefaultTimeout = 15 * time.Second

	configDir  = ".folio-admin"
	configFile = "config.toml"
)

var validBackends = map[string]struct{}{"chain": {}, "file": {}, "pass": {}}

type Options struct {
	// Home overrides the user home directory.
	Home string
	// ConfigFile overrides ~/.folio-admin/config.toml.
	ConfigFile string
	// EnvFile is loaded into the process environment when it exists.
	// Variables already set are never overwritten.
	EnvFile string
}

type Config struct {
	APIBaseURL     string
	APITimeout     time.Duration
	SessionPath    string
	SecretsBackend string
	SecretsDir     string
	Log            logger.Config

	v *viper.Viper
}

// Load resolves settings from defaults, the config file, an optional .env
// file and FA_ prefixed environment variables, in increasing precedence.
func Load(opts Options) (*Config, error) {
	home := opts.Home
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
	}

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := logger.DefaultConfig()
	v.SetDefault(KeyAPIBaseURL, DefaultBaseURL)
	v.SetDefault(KeyAPITimeout, DefaultTimeout)
	v.SetDefault(KeySessionPath, filepath.Join(home, configDir, "session.toml"))
	v.SetDefault(KeySecretsBackend, "chain")
	v.SetDefault(KeySecretsDir, filepath.Join(home, configDir, "secrets"))
	v.SetDefault(KeyLogLevel, defaults.Level)
	v.SetDefault(KeyLogFormat, defaults.Format)
	v.SetDefault(KeyLogOutput, defaults.Output)

	path := opts.ConfigFile
	if path == "" {
		path = filepath.Join(home, configDir, configFile)
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		APIBaseURL:     strings.TrimSpace(v.GetString(KeyAPIBaseURL)),
		APITimeout:     v.GetDuration(KeyAPITimeout),
		SessionPath:    expandHome(v.GetString(KeySessionPath), home),
		SecretsBackend: strings.ToLower(strings.TrimSpace(v.GetString(KeySecretsBackend))),
		SecretsDir:     expandHome(v.GetString(KeySecretsDir), home),
		Log: logger.Config{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
			Output: v.GetString(KeyLogOutput),
		},
		v: v,
	}
	// Keep the repository key in sync with the expanded path.
	v.Set(KeySessionPath, cfg.SessionPath)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Viper exposes the resolved settings to adapters that read their own keys.
func (c *Config) Viper() *viper.Viper {
	return c.v
}

func (c *Config) validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("%s must not be empty", KeyAPIBaseURL)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyAPITimeout, c.APITimeout)
	}
	if _, ok := validBackends[c.SecretsBackend]; !ok {
		return fmt.Errorf("%s must be one of chain, file, pass; got %q", KeySecretsBackend, c.SecretsBackend)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	return nil
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
