// Package kafka consumes serialized stream records from Kafka topics and
// hands them to the relay workers.
package kafka

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/pkg/errors"
	skafka "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
	"github.com/sirupsen/logrus"
)

const (
	BackendName = "kafka"

	DefaultTimeout        = 10 * time.Second
	DefaultCommitInterval = 5 * time.Second
	DefaultMaxWait        = 1 * time.Second
)

var (
	ErrMissingBrokers = errors.New("You must specify at least one broker address")
	ErrMissingTopic   = errors.New("You must specify at least one topic")
	ErrMissingGroupID = errors.New("consumer group id is required when reading multiple topics")
	ErrMissingSASL    = errors.New("SASL password is required when a SASL username is set")
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . IReader
type IReader interface {
	FetchMessage(ctx context.Context) (skafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

type Config struct {
	Brokers []string
	Topics  []string

	// GroupID enables consumer group reads. Offsets are only committed with
	// a group, and only once every record of a message has been handled.
	GroupID string

	Timeout        time.Duration
	CommitInterval time.Duration
	MaxWait        time.Duration
	MinBytes       int
	MaxBytes       int

	TLSSkipVerify bool
	SASLUsername  string
	SASLPassword  string

	// SASLType is "plain" or "scram"
	SASLType string

	// Reader overrides the reader built from the config
	Reader IReader
}

type Kafka struct {
	cfg     *Config
	reader  IReader
	offsets *offsetTracker
	log     *logrus.Entry
}

func New(cfg *Config) (*Kafka, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate kafka config")
	}

	reader := cfg.Reader

	if reader == nil {
		dialer, err := newDialer(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "unable to create new dialer")
		}

		reader = NewReader(dialer, cfg)
	}

	return &Kafka{
		cfg:     cfg,
		reader:  reader,
		offsets: newOffsetTracker(),
		log:     logrus.WithField("backend", BackendName),
	}, nil
}

func (k *Kafka) Name() string {
	return BackendName
}

func (k *Kafka) Close(_ context.Context) error {
	return k.reader.Close()
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("kafka config cannot be nil")
	}

	if cfg.Reader == nil {
		if len(cfg.Brokers) == 0 {
			return ErrMissingBrokers
		}

		if len(cfg.Topics) == 0 {
			return ErrMissingTopic
		}

		if len(cfg.Topics) > 1 && cfg.GroupID == "" {
			return ErrMissingGroupID
		}

		if cfg.SASLUsername != "" && cfg.SASLPassword == "" {
			return ErrMissingSASL
		}
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.CommitInterval <= 0 {
		cfg.CommitInterval = DefaultCommitInterval
	}

	if cfg.MaxWait <= 0 {
		cfg.MaxWait = DefaultMaxWait
	}

	return nil
}

func NewReader(dialer *skafka.Dialer, cfg *Config) *skafka.Reader {
	rc := skafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		CommitInterval: cfg.CommitInterval,
		Dialer:         dialer,
		MaxWait:        cfg.MaxWait,
		MinBytes:       cfg.MinBytes,
		MaxBytes:       cfg.MaxBytes,
	}

	if cfg.GroupID != "" {
		rc.GroupTopics = cfg.Topics
		rc.GroupID = cfg.GroupID
	} else {
		rc.Topic = cfg.Topics[0]
	}

	return skafka.NewReader(rc)
}

// getAuthenticationMechanism returns the SASL config for kafka.Dialer if a
// username is set, nil otherwise
func getAuthenticationMechanism(cfg *Config) (sasl.Mechanism, error) {
	if cfg.SASLUsername == "" {
		return nil, nil
	}

	switch strings.ToLower(cfg.SASLType) {
	case "scram":
		return scram.Mechanism(scram.SHA512, cfg.SASLUsername, cfg.SASLPassword)
	default:
		return plain.Mechanism{
			Username: cfg.SASLUsername,
			Password: cfg.SASLPassword,
		}, nil
	}
}

func newDialer(cfg *Config) (*skafka.Dialer, error) {
	dialer := &skafka.Dialer{
		Timeout: cfg.Timeout,
	}

	if cfg.TLSSkipVerify {
		dialer.TLS = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	auth, err := getAuthenticationMechanism(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to get auth mechanism")
	}

	dialer.SASLMechanism = auth

	return dialer, nil
}
