// Package config loads application configuration from flags, environment
// variables, an optional .prtimeline.yaml file and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the tool reads by default.
const EnvPrefix = "PRTIMELINE"

// Viper keys. Flag names match these keys.
const (
	KeyToken          = "token"
	KeyHost           = "host"
	KeyAPIURL         = "api-url"
	KeyAppID          = "app-id"
	KeyAppKey         = "app-private-key"
	KeyAppKeyPath     = "app-private-key-path"
	KeyRepo           = "repo"
	KeyFormat         = "format"
	KeyOutputFile     = "output-file"
	KeyPublish        = "publish"
	KeySkipDraft      = "skip-draft"
	KeyColor          = "color"
	KeyToday          = "today"
	KeyHTTPTimeout    = "http-timeout"
	KeyMaxRetries     = "max-retries"
	KeyVerbose        = "verbose"
	KeyConfigFile     = "config"
	defaultConfigName = ".prtimeline"
	defaultFormat     = "text"

	// TodayLayout is the accepted format of the today override.
	TodayLayout = "2006-01-02"
)

// Config holds the resolved and validated configuration.
type Config struct {
	GitHubToken       string
	GitHubHost        string
	APIBaseURL        string
	AppID             int64
	AppPrivateKey     string
	AppPrivateKeyPath string
	Repo              string
	Format            string // Lower-cased; checked against the known renderers by the caller.
	OutputFile        string
	Publish           bool
	SkipDraft         bool
	Color             bool
	Today             time.Time // UTC midnight. Zero means use the wall clock.
	HTTPTimeout       time.Duration
	MaxRetries        int
	Verbose           bool
}

// HasAppCredentials returns true when GitHub App authentication is configured.
// App credentials take precedence over a token.
func (c *Config) HasAppCredentials() bool {
	return c.AppID != 0 && (c.AppPrivateKey != "" || c.AppPrivateKeyPath != "")
}

// Clock returns the clock used to close open windows: the frozen Today when
// set, the wall clock otherwise.
func (c *Config) Clock() func() time.Time {
	if c.Today.IsZero() {
		return time.Now
	}
	frozen := c.Today
	return func() time.Time { return frozen }
}

// LoadDotEnv loads variables from the given .env files without overriding
// variables already present in the environment. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Init prepares v: config file lookup, environment bindings and defaults.
// configFile, when non-empty, replaces the .prtimeline.yaml search.
func Init(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Well-known variables shared with gh and other GitHub tooling.
	bindings := map[string][]string{
		KeyToken:      {"GITHUB_TOKEN", "GH_TOKEN"},
		KeyHost:       {"GH_HOST"},
		KeyAppID:      {"GITHUB_APP_ID"},
		KeyAppKey:     {"GITHUB_APP_KEY"},
		KeyAppKeyPath: {"GITHUB_APP_KEY_PATH"},
	}
	for key, names := range bindings {
		envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		if err := v.BindEnv(append([]string{key, envKey}, names...)...); err != nil {
			return fmt.Errorf("binding environment for %s: %w", key, err)
		}
	}

	v.SetDefault(KeyHost, "github.com")
	v.SetDefault(KeyFormat, defaultFormat)
	v.SetDefault(KeyPublish, false)
	v.SetDefault(KeySkipDraft, false)
	v.SetDefault(KeyColor, true)
	v.SetDefault(KeyHTTPTimeout, 30*time.Second)
	v.SetDefault(KeyMaxRetries, 5)
	v.SetDefault(KeyVerbose, false)

	return nil
}

// Load reads the config file (if any) and returns a validated Config built
// from defaults, file, environment and bound flags, in increasing priority.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	format := strings.ToLower(strings.TrimSpace(v.GetString(KeyFormat)))
	if format == "" {
		return nil, fmt.Errorf("%s must not be empty", KeyFormat)
	}

	var today time.Time
	if s := strings.TrimSpace(v.GetString(KeyToday)); s != "" {
		var err error
		today, err = time.ParseInLocation(TodayLayout, s, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%s must be YYYY-MM-DD, got %q", KeyToday, s)
		}
	}

	timeout := v.GetDuration(KeyHTTPTimeout)
	if timeout <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %s", KeyHTTPTimeout, v.GetString(KeyHTTPTimeout))
	}

	retries := v.GetInt(KeyMaxRetries)
	if retries < 1 {
		return nil, fmt.Errorf("%s must be at least 1, got %d", KeyMaxRetries, retries)
	}

	var appID int64
	if s := strings.TrimSpace(v.GetString(KeyAppID)); s != "" {
		appID = v.GetInt64(KeyAppID)
		if appID <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer, got %q", KeyAppID, s)
		}
	}

	keyPath := strings.TrimSpace(v.GetString(KeyAppKeyPath))
	if keyPath != "" {
		if _, err := os.Stat(keyPath); err != nil {
			return nil, fmt.Errorf("%s: %w", KeyAppKeyPath, err)
		}
	}

	return &Config{
		GitHubToken:       strings.TrimSpace(v.GetString(KeyToken)),
		GitHubHost:        v.GetString(KeyHost),
		APIBaseURL:        strings.TrimSpace(v.GetString(KeyAPIURL)),
		AppID:             appID,
		AppPrivateKey:     v.GetString(KeyAppKey),
		AppPrivateKeyPath: keyPath,
		Repo:              strings.TrimSpace(v.GetString(KeyRepo)),
		Format:            format,
		OutputFile:        v.GetString(KeyOutputFile),
		Publish:           v.GetBool(KeyPublish),
		SkipDraft:         v.GetBool(KeySkipDraft),
		Color:             v.GetBool(KeyColor),
		Today:             today,
		HTTPTimeout:       timeout,
		MaxRetries:        retries,
		Verbose:           v.GetBool(KeyVerbose),
	}, nil
}
