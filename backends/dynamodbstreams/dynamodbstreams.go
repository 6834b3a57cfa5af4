// Package dynamodbstreams polls a DynamoDB stream directly, for deployments
// that do not run behind a stream trigger.
package dynamodbstreams

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodbstreams"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/batchcorp/searchsync/checkpoint"
	"github.com/batchcorp/searchsync/util"
)

const (
	BackendName = "dynamodb-streams"

	DefaultPollInterval         = time.Second
	DefaultBatchSize            = 100
	DefaultShardRefreshInterval = time.Minute

	// GetRecords hard limit
	MaxBatchSize = 1000
)

var (
	ErrMissingStreamARN  = errors.New("stream ARN cannot be empty")
	ErrInvalidBatchSize  = errors.New("batch size cannot exceed 1000")
	ErrInvalidStartPoint = errors.New("start position must be LATEST or TRIM_HORIZON")
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . IStreamsAPI
type IStreamsAPI interface {
	DescribeStreamWithContext(ctx aws.Context, input *dynamodbstreams.DescribeStreamInput, opts ...request.Option) (*dynamodbstreams.DescribeStreamOutput, error)
	GetShardIteratorWithContext(ctx aws.Context, input *dynamodbstreams.GetShardIteratorInput, opts ...request.Option) (*dynamodbstreams.GetShardIteratorOutput, error)
	GetRecordsWithContext(ctx aws.Context, input *dynamodbstreams.GetRecordsInput, opts ...request.Option) (*dynamodbstreams.GetRecordsOutput, error)
}

type Config struct {
	StreamARN string
	Region    string

	// Shard limits the read to a single shard; all shards are read when empty
	Shard string

	// StartPosition applies to shards without a checkpoint
	StartPosition string

	BatchSize    int64
	PollInterval time.Duration

	// ShardRefreshInterval is how often the shard list is re-read when
	// reading every shard
	ShardRefreshInterval time.Duration

	// Checkpoints defaults to an in-memory store
	Checkpoints checkpoint.Store

	// Backoff is used between retries of recoverable read errors
	Backoff util.BackoffPolicy

	// Client overrides the client built from the AWS session
	Client IStreamsAPI
}

type DynamoDBStreams struct {
	cfg    *Config
	client IStreamsAPI
	log    *logrus.Entry
}

func New(cfg *Config) (*DynamoDBStreams, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate options")
	}

	client := cfg.Client

	if client == nil {
		sessOpts := session.Options{
			SharedConfigState: session.SharedConfigEnable,
		}

		if cfg.Region != "" {
			sessOpts.Config.Region = aws.String(cfg.Region)
		}

		sess, err := session.NewSessionWithOptions(sessOpts)
		if err != nil {
			return nil, errors.Wrap(err, "unable to create AWS session")
		}

		client = dynamodbstreams.New(sess)
	}

	return &DynamoDBStreams{
		cfg:    cfg,
		client: client,
		log:    logrus.WithField("backend", BackendName),
	}, nil
}

func (d *DynamoDBStreams) Name() string {
	return BackendName
}

func (d *DynamoDBStreams) Close(_ context.Context) error {
	// Not needed. AWS clients are REST calls
	return nil
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("dynamodb streams config cannot be nil")
	}

	if cfg.StreamARN == "" {
		return ErrMissingStreamARN
	}

	if cfg.BatchSize > MaxBatchSize {
		return ErrInvalidBatchSize
	}

	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	switch cfg.StartPosition {
	case "":
		cfg.StartPosition = dynamodbstreams.ShardIteratorTypeLatest
	case dynamodbstreams.ShardIteratorTypeLatest, dynamodbstreams.ShardIteratorTypeTrimHorizon:
	default:
		return ErrInvalidStartPoint
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	if cfg.ShardRefreshInterval <= 0 {
		cfg.ShardRefreshInterval = DefaultShardRefreshInterval
	}

	if cfg.Checkpoints == nil {
		cfg.Checkpoints = checkpoint.NewMemory()
	}

	if cfg.Backoff.Durations == nil {
		cfg.Backoff = util.StreamReconnectPolicy
	}

	return nil
}
