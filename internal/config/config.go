// Package config loads gymform settings with Viper.
//
// Precedence: CLI flags > GYMFORM_* env vars (a .env file may supply them)
// > ./gymform.yml > XDG global gymform.yml > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix  = "GYMFORM"
	fileName   = "gymform"
	DotEnvPath = ".env"
)

type SupabaseConfig struct {
	URL   string `mapstructure:"url" yaml:"url"`
	Key   string `mapstructure:"key" yaml:"key"`
	Table string `mapstructure:"table" yaml:"table"`
}

type WebhookConfig struct {
	WorkoutURL  string        `mapstructure:"workout_url" yaml:"workout_url"`
	MealURL     string        `mapstructure:"meal_url" yaml:"meal_url"`
	CombinedURL string        `mapstructure:"combined_url" yaml:"combined_url"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type StripeConfig struct {
	SecretKey     string `mapstructure:"secret_key" yaml:"secret_key"`
	PriceWorkout  string `mapstructure:"price_workout" yaml:"price_workout"`
	PriceMeal     string `mapstructure:"price_meal" yaml:"price_meal"`
	PriceCombined string `mapstructure:"price_combined" yaml:"price_combined"`
	SuccessURL    string `mapstructure:"success_url" yaml:"success_url"`
	CancelURL     string `mapstructure:"cancel_url" yaml:"cancel_url"`
}

type AnalyticsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	PixelID string `mapstructure:"pixel_id" yaml:"pixel_id"`
}

// Config holds every gymform setting.
type Config struct {
	DBPath           string        `mapstructure:"db_path" yaml:"db_path"`
	LogLevel         string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile          string        `mapstructure:"log_file" yaml:"log_file"`
	LoadingDuration  time.Duration `mapstructure:"loading_duration" yaml:"loading_duration"`
	PlanDuration     time.Duration `mapstructure:"plan_duration" yaml:"plan_duration"`
	AutoAdvanceDelay time.Duration `mapstructure:"auto_advance_delay" yaml:"auto_advance_delay"`

	Supabase  SupabaseConfig  `mapstructure:"supabase" yaml:"supabase"`
	Webhook   WebhookConfig   `mapstructure:"webhook" yaml:"webhook"`
	Stripe    StripeConfig    `mapstructure:"stripe" yaml:"stripe"`
	Analytics AnalyticsConfig `mapstructure:"analytics" yaml:"analytics"`
}

// defaults lists every key with its default value. It doubles as the list of
// keys bound to environment variables.
func defaults() map[string]any {
	return map[string]any{
		"db_path":            defaultDBPath(),
		"log_level":          "info",
		"log_file":           "",
		"loading_duration":   90 * time.Second,
		"plan_duration":      5 * time.Second,
		"auto_advance_delay": 300 * time.Millisecond,

		"supabase.url":   "",
		"supabase.key":   "",
		"supabase.table": "gym_form_submissions",

		"webhook.workout_url":  "",
		"webhook.meal_url":     "",
		"webhook.combined_url": "",
		"webhook.timeout":      15 * time.Second,

		"stripe.secret_key":     "",
		"stripe.price_workout":  "",
		"stripe.price_meal":     "",
		"stripe.price_combined": "",
		"stripe.success_url":    "http://localhost:8080/success?token={TOKEN}",
		"stripe.cancel_url":     "http://localhost:8080/cancel",

		"analytics.enabled":  true,
		"analytics.pixel_id": "",
	}
}

// flagKeys maps persistent CLI flags to config keys.
var flagKeys = map[string]string{
	"db":        "db_path",
	"log-level": "log_level",
	"log-file":  "log_file",
}

// Load reads configuration from the standard locations. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	return LoadFrom(flags, GlobalPath(), ProjectPath(), DotEnvPath)
}

// LoadFrom is Load with explicit file locations. Missing files are skipped.
func LoadFrom(flags *pflag.FlagSet, globalPath, projectPath, dotEnvPath string) (*Config, error) {
	if dotEnvPath != "" && fileExists(dotEnvPath) {
		// godotenv.Load never overrides variables already set.
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, fmt.Errorf("loading %s: %w", dotEnvPath, err)
		}
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName(fileName)

	for key, val := range defaults() {
		v.SetDefault(key, val)
		env := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	if globalPath != "" && fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}
	if projectPath != "" && fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration produced by defaults alone.
func Default() *Config {
	cfg, err := LoadFrom(nil, "", "", "")
	if err != nil {
		// Defaults are static and always valid.
		return &Config{DBPath: defaultDBPath(), LogLevel: "info", LoadingDuration: 90 * time.Second}
	}
	return cfg
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	var errs []error
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path must not be empty"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LoadingDuration <= 0 {
		errs = append(errs, fmt.Errorf("loading_duration must be positive, got %s", c.LoadingDuration))
	}
	if c.PlanDuration < 0 || c.AutoAdvanceDelay < 0 || c.Webhook.Timeout < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// GlobalPath returns $XDG_CONFIG_HOME/gymform/gymform.yml, falling back to
// ~/.config/gymform/gymform.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, fileName, fileName+".yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", fileName, fileName+".yml")
}

// ProjectPath returns ./gymform.yml.
func ProjectPath() string {
	return fileName + ".yml"
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".gymform", "gymform.db")
	}
	return filepath.Join(home, ".gymform", "gymform.db")
}

// fileConfig mirrors Config with durations spelled as strings ("90s") so the
// written YAML stays readable.
type fileConfig struct {
	DBPath           string          `yaml:"db_path"`
	LogLevel         string          `yaml:"log_level"`
	LogFile          string          `yaml:"log_file"`
	LoadingDuration  string          `yaml:"loading_duration"`
	PlanDuration     string          `yaml:"plan_duration"`
	AutoAdvanceDelay string          `yaml:"auto_advance_delay"`
	Supabase         SupabaseConfig  `yaml:"supabase"`
	Webhook          fileWebhook     `yaml:"webhook"`
	Stripe           StripeConfig    `yaml:"stripe"`
	Analytics        AnalyticsConfig `yaml:"analytics"`
}

type fileWebhook struct {
	WorkoutURL  string `yaml:"workout_url"`
	MealURL     string `yaml:"meal_url"`
	CombinedURL string `yaml:"combined_url"`
	Timeout     string `yaml:"timeout"`
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	fc := fileConfig{
		DBPath:           cfg.DBPath,
		LogLevel:         cfg.LogLevel,
		LogFile:          cfg.LogFile,
		LoadingDuration:  cfg.LoadingDuration.String(),
		PlanDuration:     cfg.PlanDuration.String(),
		AutoAdvanceDelay: cfg.AutoAdvanceDelay.String(),
		Supabase:         cfg.Supabase,
		Webhook: fileWebhook{
			WorkoutURL:  cfg.Webhook.WorkoutURL,
			MealURL:     cfg.Webhook.MealURL,
			CombinedURL: cfg.Webhook.CombinedURL,
			Timeout:     cfg.Webhook.Timeout.String(),
		},
		Stripe:    cfg.Stripe,
		Analytics: cfg.Analytics,
	}
	data, err := yaml.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// Write saves cfg to path, creating parent directories. It refuses to
// overwrite an existing file unless force is set.
func Write(path string, cfg *Config, force bool) error {
	if !force && fileExists(path) {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	// Secrets may live here.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
