package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(nil, "", "", "")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 90*time.Second, cfg.LoadingDuration)
	assert.Equal(t, 300*time.Millisecond, cfg.AutoAdvanceDelay)
	assert.Equal(t, 15*time.Second, cfg.Webhook.Timeout)
	assert.Equal(t, "gym_form_submissions", cfg.Supabase.Table)
	assert.True(t, cfg.Analytics.Enabled)
	assert.True(t, strings.HasSuffix(cfg.DBPath, "gymform.db"))
}

func TestLoadFrom_Precedence(t *testing.T) {
	dir := t.TempDir()
	global := filepath.Join(dir, "global", "gymform.yml")
	project := filepath.Join(dir, "gymform.yml")
	writeFile(t, global, "log_level: debug\nloading_duration: 30s\nsupabase:\n  url: https://global.supabase.co\n  table: global_table\n")
	writeFile(t, project, "loading_duration: 10s\nsupabase:\n  table: project_table\n")
	t.Setenv("GYMFORM_SUPABASE_TABLE", "env_table")
	t.Setenv("GYMFORM_WEBHOOK_TIMEOUT", "2s")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	require.NoError(t, flags.Parse([]string{"--log-level", "warn"}))

	cfg, err := LoadFrom(flags, global, project, "")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel, "flag beats global file")
	assert.Equal(t, 10*time.Second, cfg.LoadingDuration, "project beats global")
	assert.Equal(t, "https://global.supabase.co", cfg.Supabase.URL, "global fills what project leaves out")
	assert.Equal(t, "env_table", cfg.Supabase.Table, "env beats files")
	assert.Equal(t, 2*time.Second, cfg.Webhook.Timeout)
}

func TestLoadFrom_UnchangedFlagDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	project := filepath.Join(dir, "gymform.yml")
	writeFile(t, project, "log_level: error\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := LoadFrom(flags, "", project, "")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoadFrom_DotEnv(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	writeFile(t, dotenv, "GYMFORM_STRIPE_PRICE_MEAL=price_meal_123\n")
	t.Cleanup(func() { _ = os.Unsetenv("GYMFORM_STRIPE_PRICE_MEAL") })

	cfg, err := LoadFrom(nil, "", "", dotenv)
	require.NoError(t, err)
	assert.Equal(t, "price_meal_123", cfg.Stripe.PriceMeal)
}

func TestLoadFrom_Invalid(t *testing.T) {
	dir := t.TempDir()
	project := filepath.Join(dir, "gymform.yml")
	writeFile(t, project, "log_level: chatty\nloading_duration: 0s\n")

	_, err := LoadFrom(nil, "", project, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
	assert.Contains(t, err.Error(), "loading_duration")
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "gymform.yml")
	cfg := Default()
	cfg.LoadingDuration = 45 * time.Second
	cfg.Stripe.PriceWorkout = "price_w"

	require.NoError(t, Write(path, cfg, false))
	assert.Error(t, Write(path, cfg, false), "existing file is not overwritten")
	require.NoError(t, Write(path, cfg, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "loading_duration: 45s")

	loaded, err := LoadFrom(nil, "", path, "")
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, loaded.LoadingDuration)
	assert.Equal(t, "price_w", loaded.Stripe.PriceWorkout)
}

func TestGlobalPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, filepath.Join("/custom/config", "gymform", "gymform.yml"), GlobalPath())
	assert.Equal(t, "gymform.yml", ProjectPath())
}

func TestNewLogger(t *testing.T) {
	logger, closer, err := NewLogger(&Config{LogLevel: "info"})
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError), "no log file means discard")

	path := filepath.Join(t.TempDir(), "logs", "gymform.log")
	logger, closer, err = NewLogger(&Config{LogLevel: "warn", LogFile: path})
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("submission failed", "kind", "webhook")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "kind=webhook")

	_, _, err = NewLogger(&Config{LogLevel: "loud"})
	assert.Error(t, err)
}
