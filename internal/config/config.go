package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/mrzlkvvv/OhMyCash/internal/hashio"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "OHMYCASH"
	defaultEnvFile = ".env"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the command line settings
type Config struct {
	DataDir  string
	RatesDir string
	PlotsDir string

	RatesFileMode os.FileMode
	RatesHash     string

	SourceURL    *url.URL
	SourceFormat string

	RequestTimeout time.Duration
	RetryNum       uint64
	RetryDuration  time.Duration

	CronSpec string
	Location *time.Location

	SyncTarget string
}

// Load reads OHMYCASH_* variables from the environment. Values from the env files, or from .env
// when none are given, fill in what the environment leaves unset
func Load(envFiles ...string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("RATES_DIR", "")
	v.SetDefault("PLOTS_DIR", "")
	v.SetDefault("RATES_FILE_MODE", "0644")
	v.SetDefault("RATES_HASH", "md5")
	v.SetDefault("SOURCE_URL", "")
	v.SetDefault("SOURCE_FORMAT", "html")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
	v.SetDefault("RETRY_NUM", 1)
	v.SetDefault("RETRY_DURATION", "5s")
	v.SetDefault("CRON_SPEC", "0 12 * * *")
	v.SetDefault("LOCATION", "Europe/Moscow")
	v.SetDefault("SYNC_TARGET", "")

	if err := mergeEnvFiles(v, envFiles); err != nil {
		return Config{}, err
	}

	cfg := Config{
		DataDir:        v.GetString("DATA_DIR"),
		RatesDir:       v.GetString("RATES_DIR"),
		PlotsDir:       v.GetString("PLOTS_DIR"),
		RatesHash:      strings.ToLower(v.GetString("RATES_HASH")),
		SourceFormat:   strings.ToLower(v.GetString("SOURCE_FORMAT")),
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		RetryNum:       v.GetUint64("RETRY_NUM"),
		RetryDuration:  v.GetDuration("RETRY_DURATION"),
		CronSpec:       v.GetString("CRON_SPEC"),
		SyncTarget:     v.GetString("SYNC_TARGET"),
	}

	if cfg.RatesDir == "" {
		cfg.RatesDir = filepath.Join(cfg.DataDir, "rates")
	}

	if cfg.PlotsDir == "" {
		cfg.PlotsDir = filepath.Join(cfg.DataDir, "plots")
	}

	switch cfg.SourceFormat {
	case "html", "xml":
	default:
		return Config{}, fmt.Errorf("%w: SOURCE_FORMAT %q, want html or xml", ErrInvalidConfig, cfg.SourceFormat)
	}

	if raw := v.GetString("SOURCE_URL"); raw != "" {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return Config{}, fmt.Errorf("%w: SOURCE_URL %q", ErrInvalidConfig, raw)
		}
		cfg.SourceURL = u
	}

	mode, err := strconv.ParseUint(v.GetString("RATES_FILE_MODE"), 8, 32)
	if err != nil || mode == 0 || mode > 0o777 {
		return Config{}, fmt.Errorf("%w: RATES_FILE_MODE %q, want octal permission bits", ErrInvalidConfig, v.GetString("RATES_FILE_MODE"))
	}
	cfg.RatesFileMode = os.FileMode(mode)

	if _, err := hashio.HashFuncByName(cfg.RatesHash); err != nil {
		return Config{}, fmt.Errorf("%w: RATES_HASH: %v", ErrInvalidConfig, err)
	}

	if cfg.RetryDuration <= 0 {
		return Config{}, fmt.Errorf("%w: RETRY_DURATION must be positive", ErrInvalidConfig)
	}

	loc, err := time.LoadLocation(v.GetString("LOCATION"))
	if err != nil {
		return Config{}, fmt.Errorf("%w: LOCATION: %v", ErrInvalidConfig, err)
	}
	cfg.Location = loc

	return cfg, nil
}

// mergeEnvFiles places the env file values below the process environment
func mergeEnvFiles(v *viper.Viper, envFiles []string) error {
	optional := len(envFiles) == 0
	if optional {
		envFiles = []string{defaultEnvFile}
	}

	values, err := godotenv.Read(envFiles...)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("read env files: %w", err)
	}

	settings := make(map[string]interface{}, len(values))
	for k, val := range values {
		if key := strings.TrimPrefix(k, envPrefix+"_"); key != k {
			settings[strings.ToLower(key)] = val
		}
	}

	if err := v.MergeConfigMap(settings); err != nil {
		return fmt.Errorf("merge env files: %w", err)
	}

	return nil
}
