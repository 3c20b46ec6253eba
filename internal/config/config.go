package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Target is one monitored URL with its own name and check interval.
type Target struct {
	URL      string
	Name     string
	Interval time.Duration
}

// Config is the validated runtime configuration shared by all monitors.
type Config struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	LogDir     string
	LogLevel   string
	Addr       string // status API bind address; empty disables the API
	Targets    []Target
}

// Raw document shapes as they appear in the config file. Durations are
// strings ("10s") and are parsed after validation.
type rawTarget struct {
	URL      string `mapstructure:"url"`
	Name     string `mapstructure:"name"`
	Interval string `mapstructure:"interval"`
}

type rawConfig struct {
	Timeout    string      `mapstructure:"timeout"`
	MaxRetries int         `mapstructure:"max_retries"`
	RetryDelay string      `mapstructure:"retry_delay"`
	LogDir     string      `mapstructure:"log_dir"`
	LogLevel   string      `mapstructure:"log_level"`
	Addr       string      `mapstructure:"addr"`
	Targets    []rawTarget `mapstructure:"targets"`

	// Legacy single-target document form: a top-level url/name/interval
	// instead of a targets list.
	URL      string `mapstructure:"url"`
	Name     string `mapstructure:"name"`
	Interval string `mapstructure:"interval"`
}

// ErrNoTargets is returned by Load when the document yields no usable target.
var ErrNoTargets = errors.New("no targets configured for monitoring")

// Load reads the config document, validates it, and returns the runtime
// configuration. Invalid target entries are skipped with an ERROR log; Load
// fails only when the global settings are invalid or no usable target
// remains.
func Load(path string, logger *zap.Logger) (*Config, error) {
	return load(path, logger, true)
}

// LoadGlobals loads global settings only, tolerating an empty target list.
// Used when the command line supplies the target.
func LoadGlobals(path string, logger *zap.Logger) (*Config, error) {
	return load(path, logger, false)
}

func load(path string, logger *zap.Logger, requireTargets bool) (*Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	v := viper.New()
	v.SetDefault("timeout", "10s")
	v.SetDefault("max_retries", 3)
	v.SetDefault("retry_delay", "5s")
	v.SetDefault("log_dir", "logs")
	v.SetDefault("log_level", LogLevelInfo)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvPrefix("UPTIME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			logger.Info("config file not found, using defaults")
		} else {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else {
		logger.Info("loaded config file", zap.String("file", v.ConfigFileUsed()))
	}

	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := raw.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg := &Config{
		Timeout:    mustDuration(raw.Timeout),
		MaxRetries: raw.MaxRetries,
		RetryDelay: mustDuration(raw.RetryDelay),
		LogDir:     raw.LogDir,
		LogLevel:   raw.LogLevel,
		Addr:       raw.Addr,
	}

	entries := raw.Targets
	if len(entries) == 0 && raw.URL != "" {
		entries = []rawTarget{{URL: raw.URL, Name: raw.Name, Interval: raw.Interval}}
	}

	seen := make(map[string]struct{}, len(entries))
	for i, rt := range entries {
		t, err := buildTarget(rt)
		if err != nil {
			logger.Error("skipping invalid target",
				zap.Int("index", i),
				zap.String("url", rt.URL),
				zap.Error(err))
			continue
		}
		if _, dup := seen[t.Name]; dup {
			logger.Error("skipping duplicate target",
				zap.Int("index", i),
				zap.String("name", t.Name))
			continue
		}
		seen[t.Name] = struct{}{}
		cfg.Targets = append(cfg.Targets, t)
	}

	if requireTargets && len(cfg.Targets) == 0 {
		return nil, ErrNoTargets
	}
	return cfg, nil
}

func (r *rawConfig) validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Timeout, validation.Required, validation.By(validateDuration)),
		validation.Field(&r.MaxRetries, validation.Required, validation.Min(1)),
		validation.Field(&r.RetryDelay, validation.By(validateNonNegativeDuration)),
		validation.Field(&r.LogLevel,
			validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)),
	)
}

func buildTarget(rt rawTarget) (Target, error) {
	err := validation.ValidateStruct(&rt,
		validation.Field(&rt.URL, validation.Required, validation.By(validateTargetURL)),
		validation.Field(&rt.Interval, validation.By(validateOptionalDuration)),
	)
	if err != nil {
		return Target{}, err
	}

	t := Target{
		URL:      strings.TrimSpace(rt.URL),
		Name:     strings.TrimSpace(rt.Name),
		Interval: 60 * time.Second,
	}
	if t.Name == "" {
		t.Name = t.URL
	}
	if rt.Interval != "" {
		t.Interval = mustDuration(rt.Interval)
	}
	return t, nil
}

func validateDuration(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return validation.NewError("validation_invalid_duration",
			"must be a valid duration (e.g., 10s, 1m)")
	}
	if d <= 0 {
		return validation.NewError("validation_invalid_duration", "must be positive")
	}
	return nil
}

func validateOptionalDuration(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}
	if s == "" {
		return nil
	}
	return validateDuration(s)
}

func validateNonNegativeDuration(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return validation.NewError("validation_invalid_duration",
			"must be a valid duration (e.g., 5s, 500ms)")
	}
	if d < 0 {
		return validation.NewError("validation_invalid_duration", "cannot be negative")
	}
	return nil
}

func validateTargetURL(value interface{}) error {
	raw, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme",
			"URL must use http or https scheme")
	}
	if u.Host == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}
	return nil
}

// mustDuration is only called on values that already passed validation.
func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
