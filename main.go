package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/batchcorp/searchsync/api"
	"github.com/batchcorp/searchsync/backends/dynamodbstreams"
	"github.com/batchcorp/searchsync/backends/file"
	"github.com/batchcorp/searchsync/backends/kafka"
	"github.com/batchcorp/searchsync/backends/lambda"
	"github.com/batchcorp/searchsync/builder"
	"github.com/batchcorp/searchsync/bulk"
	"github.com/batchcorp/searchsync/checkpoint"
	"github.com/batchcorp/searchsync/config"
	"github.com/batchcorp/searchsync/dlq"
	"github.com/batchcorp/searchsync/enrich"
	"github.com/batchcorp/searchsync/metrics"
	"github.com/batchcorp/searchsync/options"
	"github.com/batchcorp/searchsync/printer"
	"github.com/batchcorp/searchsync/relay"
	"github.com/batchcorp/searchsync/search"
	"github.com/batchcorp/searchsync/stats"
	"github.com/batchcorp/searchsync/util"
	"github.com/batchcorp/searchsync/validate"
)

const shutdownTimeout = 10 * time.Second

func main() {
	kongCtx, cliOpts, err := options.New(os.Args[1:])
	if err != nil {
		logrus.Fatalf("Unable to handle CLI input: %s", err)
	}

	util.SetupLogging(cliOpts.Debug)

	if err := validate.CLIOptions(cliOpts); err != nil {
		logrus.Fatalf("Unable to validate CLI options: %s", err)
	}

	cfg, err := config.Load(cliOpts.Config)
	if err != nil {
		logrus.Fatalf("Unable to load config: %s", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cmd := kongCtx.Command()

	switch cmd {
	case "lambda":
		err = runLambda(cliOpts, cfg)
	case "relay dynamodb-streams":
		err = runDynamoDBStreams(ctx, cliOpts, cfg)
	case "relay kafka":
		err = runKafka(ctx, cliOpts, cfg)
	case "apply":
		err = runApply(ctx, cliOpts, cfg)
	default:
		logrus.Fatalf("Unrecognized command: %s", cmd)
	}

	if err != nil {
		logrus.Fatalf("Unable to complete command '%s': %s", cmd, err)
	}
}

func runLambda(cliOpts *options.CLIOptions, cfg *config.Config) error {
	r, err := newRelay(cliOpts, cfg, false)
	if err != nil {
		return err
	}

	l, err := lambda.New(r)
	if err != nil {
		return errors.Wrap(err, "unable to create lambda handler")
	}

	l.Start()

	return nil
}

func runDynamoDBStreams(ctx context.Context, cliOpts *options.CLIOptions, cfg *config.Config) error {
	streamOpts := &cliOpts.Relay.DynamoDBStreams

	if err := validate.RelayOptions(&cliOpts.Relay); err != nil {
		return errors.Wrap(err, "unable to validate relay options")
	}

	if err := validate.DynamoDBStreamsOptions(streamOpts); err != nil {
		return errors.Wrap(err, "unable to validate dynamodb streams options")
	}

	r, err := newRelay(cliOpts, cfg, true)
	if err != nil {
		return err
	}

	var store checkpoint.Store = checkpoint.NewMemory()

	if streamOpts.RedisAddress != "" {
		redisStore, err := checkpoint.NewRedis(&checkpoint.RedisConfig{
			Address:  streamOpts.RedisAddress,
			Username: streamOpts.RedisUsername,
			Password: streamOpts.RedisPassword,
			Database: streamOpts.RedisDatabase,
			TTL:      streamOpts.CheckpointTTL,
		})
		if err != nil {
			return errors.Wrap(err, "unable to create checkpoint store")
		}

		defer redisStore.Close()

		store = redisStore
	}

	backend, err := dynamodbstreams.New(&dynamodbstreams.Config{
		StreamARN:     streamOpts.StreamARN,
		Region:        cliOpts.AWSRegion,
		Shard:         streamOpts.Shard,
		StartPosition: streamOpts.StartPosition,
		BatchSize:     streamOpts.ReadBatchSize,
		PollInterval:  streamOpts.PollInterval,
		Checkpoints:   store,

		ShardRefreshInterval: streamOpts.ShardRefreshInterval,
	})
	if err != nil {
		return errors.Wrap(err, "unable to create dynamodb streams backend")
	}

	srv, err := startRelayServices(ctx, &cliOpts.Relay)
	if err != nil {
		return err
	}

	defer shutdown(srv)

	printer.PrintRelayOptions("relay dynamodb-streams", cliOpts)

	return backend.Relay(ctx, r)
}

func runKafka(ctx context.Context, cliOpts *options.CLIOptions, cfg *config.Config) error {
	kafkaOpts := &cliOpts.Relay.Kafka

	if err := validate.RelayOptions(&cliOpts.Relay); err != nil {
		return errors.Wrap(err, "unable to validate relay options")
	}

	if err := validate.KafkaOptions(kafkaOpts); err != nil {
		return errors.Wrap(err, "unable to validate kafka options")
	}

	r, err := newRelay(cliOpts, cfg, true)
	if err != nil {
		return err
	}

	backend, err := kafka.New(&kafka.Config{
		Brokers:        kafkaOpts.Brokers,
		Topics:         kafkaOpts.Topics,
		GroupID:        kafkaOpts.GroupID,
		Timeout:        kafkaOpts.Timeout,
		CommitInterval: kafkaOpts.CommitInterval,
		MaxWait:        kafkaOpts.MaxWait,
		MinBytes:       kafkaOpts.MinBytes,
		MaxBytes:       kafkaOpts.MaxBytes,
		TLSSkipVerify:  kafkaOpts.TLSSkipVerify,
		SASLUsername:   kafkaOpts.SASLUsername,
		SASLPassword:   kafkaOpts.SASLPassword,
		SASLType:       kafkaOpts.SASLType,
	})
	if err != nil {
		return errors.Wrap(err, "unable to create kafka backend")
	}

	defer backend.Close(ctx)

	srv, err := startRelayServices(ctx, &cliOpts.Relay)
	if err != nil {
		return err
	}

	defer shutdown(srv)

	wg := r.StartWorkers(ctx)

	printer.PrintRelayOptions("relay kafka", cliOpts)

	err = backend.Relay(ctx, r)

	// Workers flush what they hold once ctx is done
	wg.Wait()

	return err
}

func runApply(ctx context.Context, cliOpts *options.CLIOptions, cfg *config.Config) error {
	if err := validate.ApplyOptions(&cliOpts.Apply); err != nil {
		return errors.Wrap(err, "unable to validate apply options")
	}

	r, err := newRelay(cliOpts, cfg, false)
	if err != nil {
		return err
	}

	f, err := file.New(&file.Config{
		Path:    cliOpts.Apply.File,
		NoColor: cliOpts.Apply.NoColor,
	})
	if err != nil {
		return errors.Wrap(err, "unable to create file backend")
	}

	if cliOpts.Apply.DryRun {
		return f.DryRun(r)
	}

	sm, err := f.Apply(ctx, r)
	if err != nil {
		return err
	}

	printer.New().PrintSummary(sm)

	if sm.FailedRecords > 0 {
		return errors.Errorf("%d of %d records failed", sm.FailedRecords, sm.BatchSize)
	}

	return nil
}

// newRelay wires the pipeline shared by every command: search client, bulk
// executor, builder, metrics sinks and the optional DLQ.
func newRelay(cliOpts *options.CLIOptions, cfg *config.Config, relayMode bool) (*relay.Relay, error) {
	searchCfg := &search.Config{
		Addresses:          cliOpts.SearchAddresses,
		Username:           cliOpts.SearchUsername,
		Password:           cliOpts.SearchPassword,
		Timeout:            cliOpts.SearchTimeout,
		InsecureSkipVerify: cliOpts.SearchInsecureSkipVerify,
	}

	if cliOpts.SearchSignAWS {
		searchCfg.SignAWSRegion = cliOpts.AWSRegion
	}

	client, err := search.New(searchCfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create search client")
	}

	executor, err := bulk.New(&bulk.Config{
		Client:         client,
		ChunkSize:      cfg.Bulk.ChunkSize,
		MaxAttempts:    cfg.Bulk.MaxAttempts,
		Concurrency:    cfg.Bulk.Concurrency,
		RequestTimeout: time.Duration(cfg.Bulk.RequestTimeout),
		Backoff:        util.BackoffPolicy{Durations: cfg.Bulk.BackoffDurations()},
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to create bulk executor")
	}

	b, err := builder.New(cfg.Collections, enrich.New())
	if err != nil {
		return nil, errors.Wrap(err, "unable to create builder")
	}

	sink, err := newSink(cliOpts, relayMode)
	if err != nil {
		return nil, err
	}

	relayCfg := &relay.Config{
		Builder:       b,
		Executor:      executor,
		Sink:          sink,
		NumWorkers:    cfg.Relay.NumWorkers,
		BatchSize:     cfg.Relay.BatchSize,
		FlushInterval: time.Duration(cfg.Relay.FlushInterval),
	}

	// CLI values override the config file
	if cliOpts.Relay.NumWorkers > 0 {
		relayCfg.NumWorkers = cliOpts.Relay.NumWorkers
	}

	if cliOpts.Relay.BatchSize > 0 {
		relayCfg.BatchSize = cliOpts.Relay.BatchSize
	}

	if cliOpts.Relay.FlushInterval > 0 {
		relayCfg.FlushInterval = cliOpts.Relay.FlushInterval
	}

	if cliOpts.DLQQueueName != "" {
		d, err := dlq.New(&dlq.Config{
			QueueName:       cliOpts.DLQQueueName,
			RemoteAccountID: cliOpts.DLQRemoteAccountID,
			Region:          cliOpts.AWSRegion,
		})
		if err != nil {
			return nil, errors.Wrap(err, "unable to create dlq")
		}

		relayCfg.DLQ = d
	}

	r, err := relay.New(relayCfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create relay")
	}

	return r, nil
}

func newSink(cliOpts *options.CLIOptions, relayMode bool) (metrics.Sink, error) {
	sinks := metrics.Multi{metrics.NewLog()}

	if relayMode {
		sinks = append(sinks, metrics.NewPrometheus())
	}

	if cliOpts.MetricsCloudWatch {
		cw, err := metrics.NewCloudWatch(&metrics.CloudWatchConfig{
			Namespace: cliOpts.MetricsNamespace,
			Region:    cliOpts.AWSRegion,
		})
		if err != nil {
			return nil, errors.Wrap(err, "unable to create cloudwatch sink")
		}

		sinks = append(sinks, cw)
	}

	return sinks, nil
}

func startRelayServices(ctx context.Context, relayOpts *options.RelayOptions) (*http.Server, error) {
	stats.Start(ctx, relayOpts.StatsReportInterval)

	srv, err := api.Start(relayOpts.ListenAddress, options.VERSION)
	if err != nil {
		return nil, errors.Wrap(err, "unable to start API server")
	}

	return srv, nil
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("unable to shutdown API server: %s", err)
	}
}
