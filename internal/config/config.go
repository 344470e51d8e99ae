// Package config loads planportal settings. Sources are layered: built-in
// defaults, then a YAML file, then a .env file, then PLANPORTAL_*
// environment variables. Later sources win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/planportal/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ConsistencyBestEffort    = "best_effort"
	ConsistencyTransactional = "transactional"
)

type StorageConfig struct {
	TimeoutMs      int `yaml:"timeout_ms" validate:"gte=0"`
	MaxRetries     int `yaml:"max_retries" validate:"gte=0,lte=10"`
	RetryBackoffMs int `yaml:"retry_backoff_ms" validate:"gte=0"`
}

func (s StorageConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

func (s StorageConfig) Backoff() time.Duration {
	return time.Duration(s.RetryBackoffMs) * time.Millisecond
}

type WorkflowConfig struct {
	Consistency           string `yaml:"consistency" validate:"oneof=best_effort transactional"`
	AllowResubmitApproved bool   `yaml:"allow_resubmit_approved"`
}

type NotificationsConfig struct {
	Dedupe bool `yaml:"dedupe"`
}

type LogConfig struct {
	UseCases bool   `yaml:"use_cases"`
	Level    string `yaml:"level" validate:"oneof=debug info warn error"`
}

// SlogLevel maps the configured level name onto slog.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type Config struct {
	DBPath         string `yaml:"db_path" validate:"required"`
	PrincipalToken string `yaml:"principal_token" validate:"required"`
	// RoleSubscriptions maps a role to the broadcast tokens it reads.
	RoleSubscriptions map[string][]string `yaml:"role_subscriptions" validate:"dive,keys,oneof=principal coordinator,endkeys,dive,required"`
	LinkPrefix        string              `yaml:"link_prefix" validate:"required,startswith=/"`

	Storage       StorageConfig       `yaml:"storage"`
	Workflow      WorkflowConfig      `yaml:"workflow"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Log           LogConfig           `yaml:"log"`
}

// Default returns the built-in configuration. The database lives under
// ~/.planportal unless overridden.
func Default() Config {
	return Config{
		DBPath:         filepath.Join(homeDir(), ".planportal", "planportal.db"),
		PrincipalToken: "admin",
		RoleSubscriptions: map[string][]string{
			"principal": {"admin"},
		},
		LinkPrefix: "/plan",
		Storage: StorageConfig{
			TimeoutMs:      5000,
			MaxRetries:     2,
			RetryBackoffMs: 100,
		},
		Workflow: WorkflowConfig{
			Consistency:           ConsistencyBestEffort,
			AllowResubmitApproved: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the effective configuration from every source.
func Load() (Config, error) {
	cfg := Default()

	path := os.Getenv("PLANPORTAL_CONFIG")
	explicit := path != ""
	if !explicit {
		path = filepath.Join(homeDir(), ".planportal", "config.yaml")
	}
	if err := LoadFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	envFile := os.Getenv("PLANPORTAL_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("loading %s: %w", envFile, err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile merges a YAML file into cfg. Keys absent from the file keep
// their current values.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.DBPath = expandHome(cfg.DBPath)
	return nil
}

// ApplyEnv overlays PLANPORTAL_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv("PLANPORTAL_DB"); v != "" {
		cfg.DBPath = expandHome(v)
	}
	if v := os.Getenv("PLANPORTAL_PRINCIPAL_TOKEN"); v != "" {
		cfg.PrincipalToken = v
	}
	if v := os.Getenv("PLANPORTAL_LINK_PREFIX"); v != "" {
		cfg.LinkPrefix = v
	}
	if v := os.Getenv("PLANPORTAL_CONSISTENCY"); v != "" {
		cfg.Workflow.Consistency = v
	}
	if v := os.Getenv("PLANPORTAL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"PLANPORTAL_STORAGE_TIMEOUT_MS", &cfg.Storage.TimeoutMs},
		{"PLANPORTAL_STORAGE_MAX_RETRIES", &cfg.Storage.MaxRetries},
		{"PLANPORTAL_STORAGE_RETRY_BACKOFF_MS", &cfg.Storage.RetryBackoffMs},
	}
	for _, e := range ints {
		if v := os.Getenv(e.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", e.name, err)
			}
			*e.dst = n
		}
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"PLANPORTAL_ALLOW_RESUBMIT_APPROVED", &cfg.Workflow.AllowResubmitApproved},
		{"PLANPORTAL_DEDUPE", &cfg.Notifications.Dedupe},
		{"PLANPORTAL_LOG_USE_CASES", &cfg.Log.UseCases},
	}
	for _, e := range bools {
		if v := os.Getenv(e.name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", e.name, err)
			}
			*e.dst = b
		}
	}
	return nil
}

// Subscriptions converts role_subscriptions into the domain form.
func (c Config) Subscriptions() domain.Subscriptions {
	subs := make(domain.Subscriptions, len(c.RoleSubscriptions)+1)
	for role, tokens := range c.RoleSubscriptions {
		subs[domain.Role(role)] = append([]string(nil), tokens...)
	}
	// Principals always read the channel the workflow broadcasts to.
	if c.PrincipalToken != "" && !slices.Contains(subs[domain.RolePrincipal], c.PrincipalToken) {
		subs[domain.RolePrincipal] = append(subs[domain.RolePrincipal], c.PrincipalToken)
	}
	return subs
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate rejects out-of-range values, naming the first offending key.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid config %s: failed %q check (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
	}
	return fmt.Errorf("invalid config: %w", err)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		return filepath.Join(homeDir(), strings.TrimPrefix(p, "~"))
	}
	return p
}
