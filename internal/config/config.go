package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "ration"

	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendSupabase = "supabase"

	minSecretKeyLength = 32
)

var (
	ErrSecretKeyMissing     = errors.New("secret_key is required")
	ErrSecretKeyPlaceholder = errors.New("secret_key uses an insecure placeholder")
	ErrSecretKeyTooShort    = fmt.Errorf("secret_key must be at least %d characters", minSecretKeyLength)
	ErrAdminPasswordMissing = errors.New("admin_password is required")
	ErrUnknownBackend       = errors.New("unknown store backend")
	ErrSupabaseCredentials  = errors.New("store.url and store.key are required for the supabase backend")
	ErrInvalidPort          = errors.New("port must be between 1 and 65535")
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type StoreConfig struct {
	Backend string        `mapstructure:"backend"`
	DSN     string        `mapstructure:"dsn"`
	URL     string        `mapstructure:"url"`
	Key     string        `mapstructure:"key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ImportConfig struct {
	RowByRow bool `mapstructure:"row_by_row"`
}

type Config struct {
	Port            string       `mapstructure:"port"`
	SecretKey       string       `mapstructure:"secret_key"`
	AdminPassword   string       `mapstructure:"admin_password"`
	DefaultLanguage string       `mapstructure:"default_language"`
	CookieSecure    bool         `mapstructure:"cookie_secure"`
	LogLevel        string       `mapstructure:"log_level"`
	TemplatesDir    string       `mapstructure:"templates_dir"`
	LocalesDir      string       `mapstructure:"locales_dir"`
	StaticDir       string       `mapstructure:"static_dir"`
	Store           StoreConfig  `mapstructure:"store"`
	Import          ImportConfig `mapstructure:"import"`
}

func Defaults() map[string]any {
	return map[string]any{
		"port":              "8080",
		"secret_key":        "",
		"admin_password":    "",
		"default_language":  "en",
		"cookie_secure":     false,
		"log_level":         "info",
		"templates_dir":     "internal/templates",
		"locales_dir":       "internal/i18n/locales",
		"static_dir":        "web/static",
		"store.backend":     BackendSQLite,
		"store.dsn":         "data/rationportal.db",
		"store.url":         "",
		"store.key":         "",
		"store.timeout":     "10s",
		"import.row_by_row": false,
	}
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"port":          "port",
	"log-level":     "log_level",
	"store-backend": "store.backend",
	"store-dsn":     "store.dsn",
	"store-url":     "store.url",
	"row-by-row":    "import.row_by_row",
}

// Load layers defaults, an optional rationportal.yaml, RATION_* environment
// variables and the command's flags, in that order of precedence.
func Load(cmd *cobra.Command, configFile string) (Config, error) {
	var cfg Config
	v := viper.New()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigName("rationportal")
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/rationportal")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		if err := bindFlags(v, cmd.Flags()); err != nil {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if key == "" {
			continue
		}
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func (cfg *Config) normalize() {
	cfg.Port = strings.TrimSpace(cfg.Port)
	cfg.DefaultLanguage = strings.ToLower(strings.TrimSpace(cfg.DefaultLanguage))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	cfg.Store.DSN = strings.TrimSpace(cfg.Store.DSN)
	cfg.Store.URL = strings.TrimSpace(cfg.Store.URL)
	cfg.Store.Key = strings.TrimSpace(cfg.Store.Key)
}

// Validate checks what every command needs to reach the store.
func (cfg Config) Validate() error {
	switch cfg.Store.Backend {
	case BackendSQLite, BackendPostgres:
		if cfg.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for the %s backend", cfg.Store.Backend)
		}
	case BackendSupabase:
		if cfg.Store.URL == "" || cfg.Store.Key == "" {
			return ErrSupabaseCredentials
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownBackend, cfg.Store.Backend)
	}
	return nil
}

// ValidateServer adds the checks the web server needs on top of Validate.
func (cfg Config) ValidateServer() error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, err := ResolvePort(cfg.Port); err != nil {
		return err
	}
	if err := ValidateSecretKey(cfg.SecretKey); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.AdminPassword) == "" {
		return ErrAdminPasswordMissing
	}
	return nil
}

func ValidateSecretKey(secret string) error {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return ErrSecretKeyMissing
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(trimmed)]; insecure {
		return ErrSecretKeyPlaceholder
	}
	if len(trimmed) < minSecretKeyLength {
		return ErrSecretKeyTooShort
	}
	return nil
}

func ResolvePort(raw string) (string, error) {
	port := strings.TrimSpace(raw)
	if port == "" {
		return "8080", nil
	}
	value, err := strconv.Atoi(port)
	if err != nil || value < 1 || value > 65535 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPort, raw)
	}
	return port, nil
}
