// Package config holds the collection mapping and engine tuning. There
// should be a single Config per process; it is read-only after Load returns.
package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"github.com/imdario/mergo"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultChunkSize      = 500
	DefaultMaxAttempts    = 4
	DefaultConcurrency    = 8
	DefaultRequestTimeout = 30 * time.Second

	DefaultNumWorkers    = 4
	DefaultBatchSize     = 100
	DefaultFlushInterval = 5 * time.Second
)

var (
	ErrInvalidChunkSize   = errors.New("bulk.chunk_size must be between 1 and 10000")
	ErrInvalidMaxAttempts = errors.New("bulk.max_attempts must be > 0")
	ErrEmptyCollections   = errors.New("collections mapping cannot be empty")
)

// DefaultBackoff is the wait before each retry of a failed bulk request
var DefaultBackoff = []Duration{
	Duration(100 * time.Millisecond),
	Duration(200 * time.Millisecond),
	Duration(500 * time.Millisecond),
	Duration(1000 * time.Millisecond),
}

type Config struct {
	Collections CollectionMapping `yaml:"collections"`
	Bulk        BulkConfig        `yaml:"bulk"`
	Relay       RelayConfig       `yaml:"relay"`
}

// CollectionMapping maps a source table to the index collection it feeds.
// Tables absent from the mapping are skipped.
type CollectionMapping map[string]string

// Collection returns the target collection for a table
func (c CollectionMapping) Collection(table string) (string, bool) {
	collection, ok := c[table]
	return collection, ok && collection != ""
}

type BulkConfig struct {
	ChunkSize      int        `yaml:"chunk_size"`
	MaxAttempts    int        `yaml:"max_attempts"`
	Concurrency    int        `yaml:"concurrency"`
	RequestTimeout Duration   `yaml:"request_timeout"`
	Backoff        []Duration `yaml:"backoff"`
}

type RelayConfig struct {
	NumWorkers    int      `yaml:"num_workers"`
	BatchSize     int      `yaml:"batch_size"`
	FlushInterval Duration `yaml:"flush_interval"`
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %s", s, err)
	}

	*d = Duration(parsed)

	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// DefaultCollections is the mapping used when no config file is given
func DefaultCollections() CollectionMapping {
	return CollectionMapping{
		"Listings": "listings",
		"Bookings": "events",
		"Users":    "actors",
	}
}

// Defaults returns a fully populated config
func Defaults() *Config {
	backoff := make([]Duration, len(DefaultBackoff))
	copy(backoff, DefaultBackoff)

	return &Config{
		Collections: DefaultCollections(),
		Bulk: BulkConfig{
			ChunkSize:      DefaultChunkSize,
			MaxAttempts:    DefaultMaxAttempts,
			Concurrency:    DefaultConcurrency,
			RequestTimeout: Duration(DefaultRequestTimeout),
			Backoff:        backoff,
		},
		Relay: RelayConfig{
			NumWorkers:    DefaultNumWorkers,
			BatchSize:     DefaultBatchSize,
			FlushInterval: Duration(DefaultFlushInterval),
		},
	}
}

// Load reads a YAML config file and fills unset values from Defaults. An
// empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Defaults(), nil
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read config file '%s'", path)
	}

	return Parse(data)
}

// Parse decodes YAML config data and fills unset values from Defaults
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "unable to parse config")
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

func (c *Config) applyDefaults() error {
	defaults := Defaults()

	// An explicit mapping replaces the defaults instead of extending them
	if len(c.Collections) == 0 {
		c.Collections = defaults.Collections
	}

	if err := mergo.Merge(&c.Bulk, defaults.Bulk); err != nil {
		return errors.Wrap(err, "unable to apply bulk defaults")
	}

	if err := mergo.Merge(&c.Relay, defaults.Relay); err != nil {
		return errors.Wrap(err, "unable to apply relay defaults")
	}

	return nil
}

func (c *Config) Validate() error {
	if len(c.Collections) == 0 {
		return ErrEmptyCollections
	}

	if c.Bulk.ChunkSize <= 0 || c.Bulk.ChunkSize > 10000 {
		return ErrInvalidChunkSize
	}

	if c.Bulk.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	return nil
}

// BackoffDurations converts the configured backoff schedule
func (b BulkConfig) BackoffDurations() []time.Duration {
	out := make([]time.Duration, 0, len(b.Backoff))

	for _, d := range b.Backoff {
		out = append(out, time.Duration(d))
	}

	return out
}

// Exists determines if a config file exists
func Exists(path string) bool {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false
	}

	return true
}
