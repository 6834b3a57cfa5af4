// Package metrics emits per-batch sync metrics to one or more sinks.
package metrics

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/batchcorp/searchsync/prometheus"
	"github.com/batchcorp/searchsync/types"
)

const DefaultNamespace = "SearchSync"

var (
	ErrMissingNamespace = errors.New("CloudWatch namespace cannot be empty")
	ErrNilMetrics       = errors.New("metrics cannot be nil")
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . Sink
type Sink interface {
	Emit(ctx context.Context, m *types.SyncMetrics) error
}

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . ICloudWatchAPI
type ICloudWatchAPI interface {
	PutMetricDataWithContext(ctx aws.Context, input *cloudwatch.PutMetricDataInput, opts ...request.Option) (*cloudwatch.PutMetricDataOutput, error)
}

type CloudWatchConfig struct {
	Namespace string

	// Region is optional; the shared AWS config is used when empty
	Region string

	// Client overrides the client built from the AWS session
	Client ICloudWatchAPI
}

// CloudWatch publishes one datum per counter for every batch
type CloudWatch struct {
	namespace string
	client    ICloudWatchAPI
	log       *logrus.Entry
}

func NewCloudWatch(cfg *CloudWatchConfig) (*CloudWatch, error) {
	if err := validateCloudWatchConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate cloudwatch config")
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

		client = cloudwatch.New(sess)
	}

	return &CloudWatch{
		namespace: cfg.Namespace,
		client:    client,
		log:       logrus.WithField("pkg", "metrics"),
	}, nil
}

func validateCloudWatchConfig(cfg *CloudWatchConfig) error {
	if cfg == nil {
		return errors.New("cloudwatch config cannot be nil")
	}

	if cfg.Namespace == "" {
		return ErrMissingNamespace
	}

	return nil
}

// Datums converts batch metrics into CloudWatch metric data
func Datums(m *types.SyncMetrics, ts time.Time) []*cloudwatch.MetricDatum {
	datum := func(name string, value float64, unit string) *cloudwatch.MetricDatum {
		return &cloudwatch.MetricDatum{
			MetricName: aws.String(name),
			Value:      aws.Float64(value),
			Unit:       aws.String(unit),
			Timestamp:  aws.Time(ts),
		}
	}

	return []*cloudwatch.MetricDatum{
		datum("ProcessedRecords", float64(m.ProcessedRecords), cloudwatch.StandardUnitCount),
		datum("FailedRecords", float64(m.FailedRecords), cloudwatch.StandardUnitCount),
		datum("BatchSize", float64(m.BatchSize), cloudwatch.StandardUnitCount),
		datum("ProcessingTimeMs", float64(m.ProcessingTimeMs), cloudwatch.StandardUnitMilliseconds),
	}
}

func (c *CloudWatch) Emit(ctx context.Context, m *types.SyncMetrics) error {
	if m == nil {
		return ErrNilMetrics
	}

	_, err := c.client.PutMetricDataWithContext(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(c.namespace),
		MetricData: Datums(m, time.Now().UTC()),
	})
	if err != nil {
		return errors.Wrap(err, "unable to put metric data")
	}

	return nil
}

// Prometheus records batch metrics into the process-wide registry
type Prometheus struct{}

func NewPrometheus() *Prometheus {
	prometheus.InitPrometheusMetrics()
	return &Prometheus{}
}

func (p *Prometheus) Emit(_ context.Context, m *types.SyncMetrics) error {
	if m == nil {
		return ErrNilMetrics
	}

	prometheus.IncrPromCounter(prometheus.SyncBatches, 1)
	prometheus.IncrPromCounter(prometheus.SyncProcessedRecords, float64(m.ProcessedRecords))
	prometheus.IncrPromCounter(prometheus.SyncFailedRecords, float64(m.FailedRecords))
	prometheus.SetPromGauge(prometheus.SyncLastBatchSize, float64(m.BatchSize))
	prometheus.ObservePromHistogram(prometheus.SyncBatchDuration, float64(m.ProcessingTimeMs)/1000)

	return nil
}

// Log writes batch metrics as a structured log line
type Log struct {
	log *logrus.Entry
}

func NewLog() *Log {
	return &Log{log: logrus.WithField("pkg", "metrics")}
}

func (l *Log) Emit(_ context.Context, m *types.SyncMetrics) error {
	if m == nil {
		return ErrNilMetrics
	}

	l.log.WithFields(logrus.Fields{
		"batchId":          m.BatchID,
		"processedRecords": m.ProcessedRecords,
		"failedRecords":    m.FailedRecords,
		"batchSize":        m.BatchSize,
		"processingTimeMs": m.ProcessingTimeMs,
	}).Info("batch synced")

	return nil
}

// Multi fans out to every sink; all sinks are attempted and the first
// error is returned.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, sm *types.SyncMetrics) error {
	var first error

	for _, s := range m {
		if s == nil {
			continue
		}

		if err := s.Emit(ctx, sm); err != nil && first == nil {
			first = err
		}
	}

	return first
}
