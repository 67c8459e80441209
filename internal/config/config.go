// Package config provides runtime configuration values for the service.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rogerio-castellano/vending-machine/internal/obs"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "VEND"

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config holds configuration knobs for the HTTP server, the stores and the
// purchase pipeline.
type Config struct {
	HTTPAddr          string
	ShutdownTimeout   time.Duration
	RequestsPerSecond float64
	Burst             int

	StoreDriver string
	DatabaseURL string
	Seed        bool

	RedisAddr string
	CacheTTL  time.Duration

	Cooldown        time.Duration
	ProcessingDelay time.Duration
	LockKey         string
	MachineID       string

	OTLPEndpoint string
	ServiceName  string

	LogLevel slog.Level
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", 15*time.Second)
	v.SetDefault("http.requests_per_second", 5.0)
	v.SetDefault("http.burst", 10)

	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.seed", true)

	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.ttl", 30*time.Second)

	v.SetDefault("purchase.cooldown", 5*time.Second)
	v.SetDefault("purchase.processing_delay", 5*time.Second)
	v.SetDefault("purchase.lock_key", "GlobalMachineLock")
	v.SetDefault("purchase.machine_id", "machine-001")

	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.service_name", "vending-service")

	v.SetDefault("log.level", "info")
}

// Load reads configuration from defaults, an optional YAML file named by
// --config, VEND_* environment variables and command-line flags, in
// increasing order of precedence.
func Load(args []string) (Config, error) {
	fs := pflag.NewFlagSet("vending-service", pflag.ContinueOnError)
	configFile := fs.String("config", "", "path to a YAML configuration file")
	fs.String("addr", "", "listen address (overrides http.addr)")
	fs.String("store", "", "store driver: memory or postgres (overrides store.driver)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if *configFile != "" {
		v.SetConfigFile(*configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", *configFile, err)
		}
	}

	if err := v.BindPFlag("http.addr", fs.Lookup("addr")); err != nil {
		return Config{}, err
	}
	if err := v.BindPFlag("store.driver", fs.Lookup("store")); err != nil {
		return Config{}, err
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	level, err := obs.ParseLevel(v.GetString("log.level"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTPAddr:          v.GetString("http.addr"),
		ShutdownTimeout:   v.GetDuration("http.shutdown_timeout"),
		RequestsPerSecond: v.GetFloat64("http.requests_per_second"),
		Burst:             v.GetInt("http.burst"),

		StoreDriver: strings.ToLower(strings.TrimSpace(v.GetString("store.driver"))),
		DatabaseURL: v.GetString("store.database_url"),
		Seed:        v.GetBool("store.seed"),

		RedisAddr: v.GetString("cache.redis_addr"),
		CacheTTL:  v.GetDuration("cache.ttl"),

		Cooldown:        v.GetDuration("purchase.cooldown"),
		ProcessingDelay: v.GetDuration("purchase.processing_delay"),
		LockKey:         v.GetString("purchase.lock_key"),
		MachineID:       v.GetString("purchase.machine_id"),

		OTLPEndpoint: v.GetString("telemetry.otlp_endpoint"),
		ServiceName:  v.GetString("telemetry.service_name"),

		LogLevel: level,
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http.addr must not be empty"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("http.shutdown_timeout must be positive"))
	}
	if c.RequestsPerSecond <= 0 {
		errs = append(errs, errors.New("http.requests_per_second must be positive"))
	}
	if c.Burst <= 0 {
		errs = append(errs, errors.New("http.burst must be positive"))
	}
	switch c.StoreDriver {
	case DriverMemory:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("store.database_url is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.driver %q", c.StoreDriver))
	}
	if c.RedisAddr != "" && c.CacheTTL <= 0 {
		errs = append(errs, errors.New("cache.ttl must be positive"))
	}
	if c.Cooldown <= 0 {
		errs = append(errs, errors.New("purchase.cooldown must be positive"))
	}
	if c.ProcessingDelay < 0 {
		errs = append(errs, errors.New("purchase.processing_delay must not be negative"))
	}
	if strings.TrimSpace(c.LockKey) == "" {
		errs = append(errs, errors.New("purchase.lock_key must not be empty"))
	}
	if strings.TrimSpace(c.MachineID) == "" {
		errs = append(errs, errors.New("purchase.machine_id must not be empty"))
	}
	return errors.Join(errs...)
}
