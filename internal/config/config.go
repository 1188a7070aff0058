// Package config loads link checker settings from defaults, an optional
// config.yaml, a .env file, LINKCHECK_* environment variables and flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/yingtu35/link-checker/internal/browser"
	"github.com/yingtu35/link-checker/internal/linkcheck"
	"github.com/yingtu35/link-checker/internal/webscraper"
	"github.com/yingtu35/link-checker/pkg/domain"
)

const EnvPrefix = "LINKCHECK"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	BaseURL           string         `mapstructure:"base_url"`
	TargetPath        string         `mapstructure:"target_path"`
	ReferenceDomain   string         `mapstructure:"reference_domain"`
	Engine            browser.Engine `mapstructure:"engine"`
	Headless          bool           `mapstructure:"headless"`
	NavigationTimeout time.Duration  `mapstructure:"navigation_timeout"`
	ReadyTimeout      time.Duration  `mapstructure:"ready_timeout"`
	RequestTimeout    time.Duration  `mapstructure:"request_timeout"`
	MaxRedirects      int            `mapstructure:"max_redirects"`
	CheckDelay        time.Duration  `mapstructure:"check_delay"`
	UserAgent         string         `mapstructure:"user_agent"`
	Log               LogConfig      `mapstructure:"log"`
}

type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Development bool     `mapstructure:"development"`
	OutputPaths []string `mapstructure:"output_paths"` // zap sink URLs, stderr when empty
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", webscraper.DefaultBaseURL)
	v.SetDefault("target_path", webscraper.DefaultTargetPath)
	v.SetDefault("reference_domain", "")
	v.SetDefault("engine", string(browser.EngineDynamic))
	v.SetDefault("headless", true)
	v.SetDefault("navigation_timeout", webscraper.DefaultNavigationTimeout)
	v.SetDefault("ready_timeout", webscraper.DefaultReadyTimeout)
	v.SetDefault("request_timeout", linkcheck.DefaultRequestTimeout)
	v.SetDefault("max_redirects", linkcheck.DefaultMaxRedirects)
	v.SetDefault("check_delay", linkcheck.DefaultDelay)
	v.SetDefault("user_agent", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("log.output_paths", []string{})
}

// Load reads the .env file and configFile (or ./config.yaml when empty),
// both optional, and decodes v into a validated Config.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	_ = godotenv.Load()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.normalizeReferenceDomain(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalizeReferenceDomain reduces an explicit reference_domain (a URL,
// host:port or www. host) to the bare host IsExternal compares against, and
// derives it from base_url when unset.
func (c *Config) normalizeReferenceDomain() error {
	if strings.TrimSpace(c.ReferenceDomain) == "" {
		if d, err := domain.GetDomain(c.BaseURL); err == nil {
			c.ReferenceDomain = d
		}
		return nil
	}
	d, err := domain.GetDomain(strings.TrimSpace(c.ReferenceDomain))
	if err != nil {
		return fmt.Errorf("%w: reference_domain %q: %w", ErrInvalidConfig, c.ReferenceDomain, err)
	}
	c.ReferenceDomain = d
	return nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: base_url %q must be an absolute http(s) URL", ErrInvalidConfig, c.BaseURL)
	}
	if _, err := browser.ParseEngine(string(c.Engine)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.ReferenceDomain == "" {
		return fmt.Errorf("%w: reference_domain is empty", ErrInvalidConfig)
	}
	for name, d := range map[string]time.Duration{
		"navigation_timeout": c.NavigationTimeout,
		"ready_timeout":      c.ReadyTimeout,
		"request_timeout":    c.RequestTimeout,
		"check_delay":        c.CheckDelay,
	} {
		if d < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, name)
		}
	}
	if c.MaxRedirects < 0 {
		return fmt.Errorf("%w: max_redirects must not be negative", ErrInvalidConfig)
	}
	return nil
}

// PageOptions maps the config onto the page object options.
func (c *Config) PageOptions() webscraper.Options {
	return webscraper.Options{
		BaseURL:           c.BaseURL,
		Path:              c.TargetPath,
		ReferenceDomain:   c.ReferenceDomain,
		NavigationTimeout: c.NavigationTimeout,
		ReadyTimeout:      c.ReadyTimeout,
	}
}

// CheckOptions maps the config onto the validation loop options.
func (c *Config) CheckOptions() linkcheck.Options {
	return linkcheck.Options{
		RequestTimeout: c.RequestTimeout,
		MaxRedirects:   c.MaxRedirects,
		Delay:          c.CheckDelay,
	}
}
