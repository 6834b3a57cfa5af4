package metrics_test

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/batchcorp/searchsync/metrics"
	"github.com/batchcorp/searchsync/metrics/metricsfakes"
	"github.com/batchcorp/searchsync/types"
)

var _ = Describe("Metrics", func() {
	var m *types.SyncMetrics

	BeforeEach(func() {
		m = &types.SyncMetrics{
			BatchID:          "b-1",
			ProcessedRecords: 7,
			FailedRecords:    3,
			BatchSize:        10,
			ProcessingTimeMs: 250,
		}
	})

	Context("NewCloudWatch", func() {
		It("requires a namespace", func() {
			_, err := metrics.NewCloudWatch(&metrics.CloudWatchConfig{})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(metrics.ErrMissingNamespace.Error()))
		})

		It("rejects a nil config", func() {
			_, err := metrics.NewCloudWatch(nil)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("Datums", func() {
		It("produces one datum per counter", func() {
			ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
			datums := metrics.Datums(m, ts)

			Expect(datums).To(HaveLen(4))

			values := map[string]float64{}
			for _, d := range datums {
				Expect(aws.TimeValue(d.Timestamp)).To(Equal(ts))
				values[aws.StringValue(d.MetricName)] = aws.Float64Value(d.Value)
			}

			Expect(values).To(Equal(map[string]float64{
				"ProcessedRecords": 7,
				"FailedRecords":    3,
				"BatchSize":        10,
				"ProcessingTimeMs": 250,
			}))

			Expect(aws.StringValue(datums[3].Unit)).To(Equal("Milliseconds"))
		})
	})

	Context("CloudWatch.Emit", func() {
		It("puts metric data into the namespace", func() {
			fake := &metricsfakes.FakeICloudWatchAPI{}

			cw, err := metrics.NewCloudWatch(&metrics.CloudWatchConfig{
				Namespace: "Test",
				Client:    fake,
			})
			Expect(err).ToNot(HaveOccurred())

			Expect(cw.Emit(context.Background(), m)).To(Succeed())
			Expect(fake.PutMetricDataWithContextCallCount()).To(Equal(1))

			_, input, _ := fake.PutMetricDataWithContextArgsForCall(0)
			Expect(aws.StringValue(input.Namespace)).To(Equal("Test"))
			Expect(input.MetricData).To(HaveLen(4))
		})

		It("wraps client errors", func() {
			fake := &metricsfakes.FakeICloudWatchAPI{}
			fake.PutMetricDataWithContextReturns(nil, errors.New("throttled"))

			cw, err := metrics.NewCloudWatch(&metrics.CloudWatchConfig{Namespace: "Test", Client: fake})
			Expect(err).ToNot(HaveOccurred())

			err = cw.Emit(context.Background(), m)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("throttled"))
		})

		It("rejects nil metrics", func() {
			cw, err := metrics.NewCloudWatch(&metrics.CloudWatchConfig{
				Namespace: "Test",
				Client:    &metricsfakes.FakeICloudWatchAPI{},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(cw.Emit(context.Background(), nil)).To(Equal(metrics.ErrNilMetrics))
		})
	})

	Context("Multi", func() {
		It("emits to every sink and returns the first error", func() {
			first := &metricsfakes.FakeSink{}
			second := &metricsfakes.FakeSink{}
			second.EmitReturns(errors.New("boom"))
			third := &metricsfakes.FakeSink{}

			err := metrics.Multi{first, second, nil, third}.Emit(context.Background(), m)

			Expect(err).To(MatchError("boom"))
			Expect(first.EmitCallCount()).To(Equal(1))
			Expect(second.EmitCallCount()).To(Equal(1))
			Expect(third.EmitCallCount()).To(Equal(1))

			_, got := third.EmitArgsForCall(0)
			Expect(got).To(Equal(m))
		})
	})

	Context("Prometheus and Log", func() {
		It("accept metrics", func() {
			Expect(metrics.NewPrometheus().Emit(context.Background(), m)).To(Succeed())
			Expect(metrics.NewLog().Emit(context.Background(), m)).To(Succeed())
		})
	})
})
