package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nekruzvatanshoev/shipcalc/pkg/shipcalc/geocode"
	"github.com/nekruzvatanshoev/shipcalc/pkg/shipcalc/pricing"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. SHIPCALC_GEOCODER_CONTACT
const EnvPrefix = "SHIPCALC"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Geocoder GeocoderConfig `mapstructure:"geocoder"`
	Pricing  PricingConfig  `mapstructure:"pricing"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type GeocoderConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Contact    string        `mapstructure:"contact"`
	Attempts   int           `mapstructure:"attempts"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type PricingConfig struct {
	Origin string `mapstructure:"origin"`
}

// SetDefaults registers the default value of every key on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("geocoder.base_url", geocode.DefaultBaseURL)
	v.SetDefault("geocoder.contact", "")
	v.SetDefault("geocoder.attempts", geocode.DefaultAttempts)
	v.SetDefault("geocoder.retry_delay", time.Duration(0))
	v.SetDefault("geocoder.timeout", 10*time.Second)
	v.SetDefault("pricing.origin", pricing.OriginAddress)
}

// Load reads the configuration from v: flags bound to it, SHIPCALC_* environment
// variables and, when configFile is set, that file.
func Load(v *viper.Viper, configFile string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Server.Address == "" {
		errs = append(errs, errors.New("server.address must not be empty"))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must not be negative"))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		errs = append(errs, fmt.Errorf("log.format must be json or text, got %q", c.Log.Format))
	}
	if c.Geocoder.BaseURL == "" {
		errs = append(errs, errors.New("geocoder.base_url must not be empty"))
	}
	if c.Geocoder.Attempts < 1 {
		errs = append(errs, fmt.Errorf("geocoder.attempts must be at least 1, got %d", c.Geocoder.Attempts))
	}
	if c.Geocoder.RetryDelay < 0 {
		errs = append(errs, errors.New("geocoder.retry_delay must not be negative"))
	}
	if c.Geocoder.Timeout < 0 {
		errs = append(errs, errors.New("geocoder.timeout must not be negative"))
	}
	if strings.TrimSpace(c.Pricing.Origin) == "" {
		errs = append(errs, errors.New("pricing.origin must not be empty"))
	}
	return errors.Join(errs...)
}
