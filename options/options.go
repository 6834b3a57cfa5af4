// Package options holds every CLI flag and environment variable searchsync
// accepts. It only performs "light" validation; see the validate package for
// the rest.
package options

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
)

var (
	VERSION = "UNSET"
)

type CLIOptions struct {
	Debug  bool   `help:"Enable debug output" env:"SEARCHSYNC_DEBUG"`
	Config string `help:"Path to a YAML config file with the collection mapping and tuning" env:"SEARCHSYNC_CONFIG"`

	SearchAddresses          []string      `help:"Search engine address(es)" env:"SEARCHSYNC_SEARCH_ADDRESSES" default:"http://localhost:9200"`
	SearchUsername           string        `help:"Search engine basic auth username" env:"SEARCHSYNC_SEARCH_USERNAME"`
	SearchPassword           string        `help:"Search engine basic auth password" env:"SEARCHSYNC_SEARCH_PASSWORD"`
	SearchTimeout            time.Duration `help:"Server side timeout sent with each bulk request" env:"SEARCHSYNC_SEARCH_TIMEOUT"`
	SearchInsecureSkipVerify bool          `help:"Skip TLS verification of the search engine" env:"SEARCHSYNC_SEARCH_INSECURE_SKIP_VERIFY"`
	SearchSignAWS            bool          `help:"Sign requests for Amazon OpenSearch Service" env:"SEARCHSYNC_SEARCH_SIGN_AWS"`

	AWSRegion string `help:"AWS region (defaults to the shared AWS config)" env:"AWS_REGION"`

	MetricsCloudWatch bool   `help:"Emit batch metrics to CloudWatch" env:"SEARCHSYNC_METRICS_CLOUDWATCH"`
	MetricsNamespace  string `help:"CloudWatch metrics namespace" env:"SEARCHSYNC_METRICS_NAMESPACE" default:"SearchSync"`

	DLQQueueName       string `help:"SQS queue receiving failed records" env:"SEARCHSYNC_DLQ_QUEUE_NAME"`
	DLQRemoteAccountID string `help:"AWS account owning the DLQ queue, if not the caller's" env:"SEARCHSYNC_DLQ_REMOTE_ACCOUNT_ID"`

	Lambda LambdaOptions `cmd:"" help:"Run as a DynamoDB stream trigger handler"`
	Relay  RelayOptions  `cmd:"" help:"Continuously relay records from a feed into the search index"`
	Apply  ApplyOptions  `cmd:"" help:"Apply stream records stored in a JSON file"`
}

type LambdaOptions struct{}

type RelayOptions struct {
	NumWorkers          int           `help:"Number of relay workers (overrides config)" env:"SEARCHSYNC_RELAY_NUM_WORKERS"`
	BatchSize           int           `help:"Records per batch (overrides config)" env:"SEARCHSYNC_RELAY_BATCH_SIZE"`
	FlushInterval       time.Duration `help:"Flush a partial batch after this long (overrides config)" env:"SEARCHSYNC_RELAY_FLUSH_INTERVAL"`
	ListenAddress       string        `help:"Address the health, version and metrics API listens on" env:"SEARCHSYNC_RELAY_LISTEN_ADDRESS" default:":8080"`
	StatsReportInterval time.Duration `help:"How often to log relay throughput" env:"SEARCHSYNC_RELAY_STATS_REPORT_INTERVAL" default:"5s"`

	DynamoDBStreams DynamoDBStreamsOptions `cmd:"" name:"dynamodb-streams" help:"Poll a DynamoDB stream"`
	Kafka           KafkaOptions           `cmd:"" help:"Consume stream records from Kafka"`
}

type DynamoDBStreamsOptions struct {
	StreamARN     string        `help:"DynamoDB stream ARN" env:"SEARCHSYNC_DYNAMODB_STREAM_ARN" required:""`
	Shard         string        `help:"Only read this shard" env:"SEARCHSYNC_DYNAMODB_SHARD"`
	StartPosition string        `help:"Where to start shards without a checkpoint (LATEST or TRIM_HORIZON)" env:"SEARCHSYNC_DYNAMODB_START_POSITION" default:"LATEST"`
	ReadBatchSize int64         `help:"Records per GetRecords call" env:"SEARCHSYNC_DYNAMODB_READ_BATCH_SIZE" default:"100"`
	PollInterval  time.Duration `help:"Wait between empty polls" env:"SEARCHSYNC_DYNAMODB_POLL_INTERVAL" default:"1s"`

	ShardRefreshInterval time.Duration `help:"How often to look for new shards" env:"SEARCHSYNC_DYNAMODB_SHARD_REFRESH_INTERVAL" default:"1m"`

	RedisAddress  string        `help:"Redis address for shard checkpoints (in-memory when empty)" env:"SEARCHSYNC_REDIS_ADDRESS"`
	RedisUsername string        `help:"Redis username" env:"SEARCHSYNC_REDIS_USERNAME"`
	RedisPassword string        `help:"Redis password" env:"SEARCHSYNC_REDIS_PASSWORD"`
	RedisDatabase int           `help:"Redis database" env:"SEARCHSYNC_REDIS_DATABASE"`
	CheckpointTTL time.Duration `help:"Expire checkpoints after this long (0 keeps them)" env:"SEARCHSYNC_CHECKPOINT_TTL"`
}

type KafkaOptions struct {
	Brokers        []string      `help:"Kafka broker address(es)" env:"SEARCHSYNC_KAFKA_BROKERS" default:"localhost:9092"`
	Topics         []string      `help:"Topic(s) carrying stream records" env:"SEARCHSYNC_KAFKA_TOPICS" required:""`
	GroupID        string        `help:"Consumer group id" env:"SEARCHSYNC_KAFKA_GROUP_ID" default:"searchsync"`
	Timeout        time.Duration `help:"Dial timeout" env:"SEARCHSYNC_KAFKA_TIMEOUT" default:"10s"`
	CommitInterval time.Duration `help:"Offset commit interval" env:"SEARCHSYNC_KAFKA_COMMIT_INTERVAL" default:"5s"`
	MaxWait        time.Duration `help:"Max time to wait for new data" env:"SEARCHSYNC_KAFKA_MAX_WAIT" default:"1s"`
	MinBytes       int           `help:"Minimum fetch size" env:"SEARCHSYNC_KAFKA_MIN_BYTES" default:"1"`
	MaxBytes       int           `help:"Maximum fetch size" env:"SEARCHSYNC_KAFKA_MAX_BYTES" default:"1048576"`
	TLSSkipVerify  bool          `help:"Skip TLS verification" env:"SEARCHSYNC_KAFKA_TLS_SKIP_VERIFY"`
	SASLUsername   string        `help:"SASL username" env:"SEARCHSYNC_KAFKA_SASL_USERNAME"`
	SASLPassword   string        `help:"SASL password" env:"SEARCHSYNC_KAFKA_SASL_PASSWORD"`
	SASLType       string        `help:"SASL mechanism (plain or scram)" env:"SEARCHSYNC_KAFKA_SASL_TYPE" default:"plain"`
}

type ApplyOptions struct {
	File    string `help:"JSON file holding a stream event, a record array or a single record" required:""`
	DryRun  bool   `help:"Print the write operations instead of applying them"`
	NoColor bool   `help:"Disable colorized dry-run output"`
}

// New parses args and returns the kong context (for the selected command)
// and the populated options.
func New(args []string) (*kong.Context, *CLIOptions, error) {
	cliOpts := &CLIOptions{}

	maybeDisplayVersion(args)

	k, err := kong.New(
		cliOpts,
		kong.Name("searchsync"),
		kong.Description("Mirror DynamoDB stream mutations into a search index"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to create new kong instance")
	}

	kongCtx, err := k.Parse(args)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to parse CLI options")
	}

	return kongCtx, cliOpts, nil
}

func maybeDisplayVersion(args []string) {
	for _, f := range args {
		if f == "--version" {
			fmt.Println(VERSION)
			os.Exit(0)
		}
	}
}
