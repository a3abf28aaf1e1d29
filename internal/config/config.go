// Package config loads service settings: built-in defaults, then an optional
// YAML file, then environment variables.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"

	"ArtfulStore/internal/storage"
)

const (
	ServiceCatalog    = "catalog"
	ServiceStorefront = "storefront"
	ServiceGateway    = "gateway"

	minSecretLen = 32
)

type Config struct {
	Service string `koanf:"service"`
	Port    string `koanf:"port"`

	Log struct {
		Level       string `koanf:"level"`
		Development bool   `koanf:"development"`
	} `koanf:"log"`

	Session struct {
		Secret string        `koanf:"secret"`
		TTL    time.Duration `koanf:"ttl"`
	} `koanf:"session"`

	CatalogURL    string `koanf:"catalog_url"`
	StorefrontURL string `koanf:"storefront_url"`

	Storage storage.Config `koanf:"storage"`

	Metrics struct {
		Enabled bool   `koanf:"enabled"`
		Token   string `koanf:"token"`
	} `koanf:"metrics"`

	Cart struct {
		AddDelay   time.Duration `koanf:"add_delay"`
		IdleTTL    time.Duration `koanf:"idle_ttl"`
		SweepEvery time.Duration `koanf:"sweep_every"`
	} `koanf:"cart"`

	Checkout struct {
		Delay      time.Duration `koanf:"delay"`
		RateLimit  int           `koanf:"rate_limit"`
		RateWindow time.Duration `koanf:"rate_window"`
	} `koanf:"checkout"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// envKeys maps the environment variables the services have always read to
// config paths. Anything else in the environment is ignored.
var envKeys = map[string]string{
	"PORT":                 "port",
	"LOG_LEVEL":            "log.level",
	"LOG_DEVELOPMENT":      "log.development",
	"SESSION_SECRET":       "session.secret",
	"SESSION_TTL":          "session.ttl",
	"CATALOG_URL":          "catalog_url",
	"STOREFRONT_URL":       "storefront_url",
	"STORAGE_DRIVER":       "storage.driver",
	"STORAGE_PATH":         "storage.path",
	"DATABASE_URL":         "storage.dsn",
	"METRICS_ENABLED":      "metrics.enabled",
	"METRICS_TOKEN":        "metrics.token",
	"ADD_DELAY":            "cart.add_delay",
	"CART_IDLE_TTL":        "cart.idle_ttl",
	"CART_SWEEP_EVERY":     "cart.sweep_every",
	"CHECKOUT_DELAY":       "checkout.delay",
	"CHECKOUT_RATE_LIMIT":  "checkout.rate_limit",
	"CHECKOUT_RATE_WINDOW": "checkout.rate_window",
	"CORS_ORIGINS":         "cors_origins",
}

var defaultPorts = map[string]string{
	ServiceGateway:    "8080",
	ServiceCatalog:    "8082",
	ServiceStorefront: "8083",
}

func Default(service string) Config {
	var c Config
	c.Service = service
	c.Port = defaultPorts[service]
	c.Log.Level = "info"
	c.Session.TTL = 30 * 24 * time.Hour
	c.CatalogURL = "http://localhost:8082"
	c.StorefrontURL = "http://localhost:8083"
	c.Storage.Driver = storage.DriverMemory
	c.Cart.IdleTTL = 30 * time.Minute
	c.Cart.SweepEvery = time.Minute
	c.Checkout.Delay = 1500 * time.Millisecond
	c.Checkout.RateLimit = 10
	c.Checkout.RateWindow = time.Minute
	return c
}

// Load builds the config for service. path names a YAML file; when empty,
// CONFIG_FILE is consulted, and with neither only defaults and env apply.
func Load(service, path string) (Config, error) {
	cfg := Default(service)
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, errors.Wrapf(err, "read config file %s", path)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			return envKeys[key], value
		},
	}), nil); err != nil {
		return Config{}, errors.Wrap(err, "load env variables")
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}); err != nil {
		return Config{}, errors.Wrapf(err, "unmarshal %s config", service)
	}

	cfg.Service = service
	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.Service == ServiceStorefront && len(c.Session.Secret) < minSecretLen {
		return errors.Errorf("SESSION_SECRET is required and must be at least %d chars", minSecretLen)
	}
	switch strings.ToLower(c.Storage.Driver) {
	case "", storage.DriverMemory, storage.DriverFile, storage.DriverSQLite:
	case storage.DriverPostgres:
		if c.Storage.DSN == "" {
			return errors.New("DATABASE_URL is required for the postgres storage driver")
		}
	default:
		return errors.Wrapf(storage.ErrUnknownDriver, "driver %q", c.Storage.Driver)
	}
	if c.Checkout.RateLimit < 0 || c.Checkout.Delay < 0 || c.Cart.AddDelay < 0 {
		return errors.New("delays and rate limits must not be negative")
	}
	if c.Service == ServiceStorefront && (c.Cart.IdleTTL <= 0 || c.Cart.SweepEvery <= 0) {
		return errors.New("cart idle_ttl and sweep_every must be positive")
	}
	return nil
}

func (c Config) Addr() string { return ":" + c.Port }

func trimAll(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
