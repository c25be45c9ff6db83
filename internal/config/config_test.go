package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var keys = []string{
	"DATA_DIR", "RATES_DIR", "PLOTS_DIR", "RATES_FILE_MODE", "RATES_HASH",
	"SOURCE_URL", "SOURCE_FORMAT", "REQUEST_TIMEOUT",
	"RETRY_NUM", "RETRY_DURATION", "CRON_SPEC", "LOCATION", "SYNC_TARGET",
}

// clearEnv blanks every OHMYCASH_ variable, empty values count as unset
func clearEnv(t *testing.T) {
	t.Helper()

	for _, k := range keys {
		t.Setenv(envPrefix+"_"+k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("missing explicit env file accepted")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.DataDir != "data" || cfg.RatesDir != filepath.Join("data", "rates") || cfg.PlotsDir != filepath.Join("data", "plots") {
		t.Errorf("dirs got %q %q %q", cfg.DataDir, cfg.RatesDir, cfg.PlotsDir)
	}

	if cfg.RatesFileMode != 0o644 || cfg.RatesHash != "md5" {
		t.Errorf("rates files got %v %q", cfg.RatesFileMode, cfg.RatesHash)
	}

	if cfg.SourceFormat != "html" || cfg.SourceURL != nil {
		t.Errorf("source got %q %v", cfg.SourceFormat, cfg.SourceURL)
	}

	if cfg.RequestTimeout != 10*time.Second || cfg.RetryNum != 1 || cfg.RetryDuration != 5*time.Second {
		t.Errorf("timings got %v %d %v", cfg.RequestTimeout, cfg.RetryNum, cfg.RetryDuration)
	}

	if cfg.CronSpec != "0 12 * * *" || cfg.Location.String() != "Europe/Moscow" {
		t.Errorf("schedule got %q %s", cfg.CronSpec, cfg.Location)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), "test.env")
	content := "OHMYCASH_DATA_DIR=/srv/cash\nOHMYCASH_SOURCE_FORMAT=xml\nOHMYCASH_RETRY_NUM=4\nOTHER_KEY=x\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("OHMYCASH_RETRY_NUM", "2")
	t.Setenv("OHMYCASH_SOURCE_URL", "http://127.0.0.1:8080/daily/")
	t.Setenv("OHMYCASH_REQUEST_TIMEOUT", "1500ms")
	t.Setenv("OHMYCASH_RATES_FILE_MODE", "600")
	t.Setenv("OHMYCASH_RATES_HASH", "SHA1")

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.DataDir != "/srv/cash" || cfg.RatesDir != filepath.Join("/srv/cash", "rates") {
		t.Errorf("dirs got %q %q", cfg.DataDir, cfg.RatesDir)
	}

	if cfg.SourceFormat != "xml" {
		t.Errorf("format got %q", cfg.SourceFormat)
	}

	if cfg.RetryNum != 2 {
		t.Errorf("retry num got %d, want 2", cfg.RetryNum)
	}

	if cfg.SourceURL == nil || cfg.SourceURL.Host != "127.0.0.1:8080" {
		t.Errorf("source url got %v", cfg.SourceURL)
	}

	if cfg.RequestTimeout != 1500*time.Millisecond {
		t.Errorf("timeout got %v", cfg.RequestTimeout)
	}

	if cfg.RatesFileMode != 0o600 || cfg.RatesHash != "sha1" {
		t.Errorf("rates files got %v %q", cfg.RatesFileMode, cfg.RatesHash)
	}
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "test_format", key: "OHMYCASH_SOURCE_FORMAT", value: "json"},
		{name: "test_url", key: "OHMYCASH_SOURCE_URL", value: "cbr.ru/daily"},
		{name: "test_location", key: "OHMYCASH_LOCATION", value: "Mars/Olympus"},
		{name: "test_retry_duration", key: "OHMYCASH_RETRY_DURATION", value: "-1s"},
		{name: "test_file_mode_not_octal", key: "OHMYCASH_RATES_FILE_MODE", value: "0699"},
		{name: "test_file_mode_too_wide", key: "OHMYCASH_RATES_FILE_MODE", value: "4755"},
		{name: "test_hash", key: "OHMYCASH_RATES_HASH", value: "crc32"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			if _, err := Load(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error got %v, want %v", err, ErrInvalidConfig)
			}
		})
	}
}
