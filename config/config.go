// Package config loads routebrokerd's settings from layered sources:
// built-in defaults, an optional YAML file, and command-line flags, in
// that override order. Grounded on the teacher's `cli/konf` package.
package config

import (
	"time"

	lib "github.com/nil-go/konf"
	"github.com/nil-go/konf/provider/file"
	pflagP "github.com/nil-go/konf/provider/pflag"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"go.bryk.io/routebroker/errors"
)

// HTTP holds settings for the producer-ingest/consumer-long-poll transport.
type HTTP struct {
	ListenAddress   string        `yaml:"listen_address"`
	MaxPollTimeout  time.Duration `yaml:"max_poll_timeout"`
	IngestRateLimit float64       `yaml:"ingest_rate_limit"`
	IngestRateBurst int           `yaml:"ingest_rate_burst"`
}

// AMQP holds settings for the optional downstream mirror. The mirror is
// disabled unless URL is non-empty.
type AMQP struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

// Log holds structured-logging settings.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Metrics holds settings for the Prometheus exposition endpoint.
type Metrics struct {
	ListenAddress string `yaml:"listen_address"`
}

// Config is the daemon's complete runtime configuration.
type Config struct {
	Priorities     []string `yaml:"priorities"`
	MaxTopicLength int      `yaml:"max_topic_length"`
	HTTP           HTTP     `yaml:"http"`
	AMQP           AMQP     `yaml:"amqp"`
	Log            Log      `yaml:"log"`
	Metrics        Metrics  `yaml:"metrics"`
}

// defaults returns a Config populated with the baseline values named in
// SPEC_FULL.md §6, the floor every other source overrides from.
func defaults() Config {
	return Config{
		Priorities:     []string{"connected", "igp", "other"},
		MaxTopicLength: 200,
		HTTP: HTTP{
			ListenAddress:   ":8080",
			MaxPollTimeout:  20 * time.Second,
			IngestRateLimit: 0,
			IngestRateBurst: 0,
		},
		Log: Log{
			Level:  "info",
			Format: "json",
		},
		Metrics: Metrics{
			ListenAddress: ":9090",
		},
	}
}

// Load builds a Config by layering an optional YAML file at path (skipped
// if path is empty; a missing file is an error) over the built-in
// defaults, then layering
// flags set on fs over that, matching the teacher's "defaults -> file ->
// flags" precedence.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	cfg := defaults()

	k := lib.New(lib.WithTagName("yaml"))
	if path != "" {
		if err := k.Load(file.New(path, file.WithUnmarshal(yaml.Unmarshal))); err != nil {
			return nil, errors.Wrapf(err, "load config file %q", path)
		}
	}
	if fs != nil {
		if err := k.Load(pflagP.New(k, pflagP.WithFlagSet(fs))); err != nil {
			return nil, errors.Wrap(err, "load flag overrides")
		}
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal configuration")
	}
	return &cfg, nil
}

// RegisterFlags binds the subset of Config fields operators commonly
// override at the command line onto fs, for use with Load.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("http.listen_address", ":8080", "address the HTTP transport listens on")
	fs.Duration("http.max_poll_timeout", 20*time.Second, "maximum long-poll timeout accepted from consumers")
	fs.Float64("http.ingest_rate_limit", 0, "max accepted POST /v1/routes requests per second; 0 disables the limiter")
	fs.Int("http.ingest_rate_burst", 0, "token bucket burst size for the ingest rate limiter")
	fs.String("amqp.url", "", "AMQP broker URL; empty disables the mirror")
	fs.String("amqp.exchange", "", "AMQP exchange notices are published to")
	fs.String("log.level", "info", "log verbosity: debug, info, warning, error")
	fs.String("log.format", "json", "log output format: json or pretty")
	fs.String("metrics.listen_address", ":9090", "address the Prometheus endpoint listens on")
}
