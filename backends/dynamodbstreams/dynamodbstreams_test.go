package dynamodbstreams_test

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	awsstreams "github.com/aws/aws-sdk-go/service/dynamodbstreams"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/batchcorp/searchsync/backends/backendsfakes"
	"github.com/batchcorp/searchsync/backends/dynamodbstreams"
	"github.com/batchcorp/searchsync/backends/dynamodbstreams/streamsfakes"
	"github.com/batchcorp/searchsync/checkpoint"
	"github.com/batchcorp/searchsync/types"
	"github.com/batchcorp/searchsync/util"
)

const streamARN = "arn:aws:dynamodb:us-east-1:123456789012:table/Listings/stream/2024-01-01T00:00:00.000"

func streamRecord(id, seq string) *awsstreams.Record {
	return &awsstreams.Record{
		EventID:   aws.String("evt-" + id),
		EventName: aws.String("INSERT"),
		AwsRegion: aws.String("us-east-1"),
		Dynamodb: &awsstreams.StreamRecord{
			Keys:           map[string]*dynamodb.AttributeValue{"id": {S: aws.String(id)}},
			NewImage:       map[string]*dynamodb.AttributeValue{"id": {S: aws.String(id)}},
			SequenceNumber: aws.String(seq),
		},
	}
}

func iterator(it string) func(context.Context, *awsstreams.GetShardIteratorInput, ...request.Option) (*awsstreams.GetShardIteratorOutput, error) {
	return func(context.Context, *awsstreams.GetShardIteratorInput, ...request.Option) (*awsstreams.GetShardIteratorOutput, error) {
		return &awsstreams.GetShardIteratorOutput{ShardIterator: aws.String(it)}, nil
	}
}

func relayInBackground(ctx context.Context, d *dynamodbstreams.DynamoDBStreams, h *backendsfakes.FakeHandler) chan error {
	done := make(chan error, 1)

	go func() {
		done <- d.Relay(ctx, h)
	}()

	return done
}

// shardIterator hands out "it-<shardId>"
func shardIterator(_ context.Context, in *awsstreams.GetShardIteratorInput, _ ...request.Option) (*awsstreams.GetShardIteratorOutput, error) {
	return &awsstreams.GetShardIteratorOutput{ShardIterator: aws.String("it-" + aws.StringValue(in.ShardId))}, nil
}

// shardPages closes s-1 after one record and keeps s-2 open after one record
func shardPages(ctx context.Context, in *awsstreams.GetRecordsInput, _ ...request.Option) (*awsstreams.GetRecordsOutput, error) {
	switch aws.StringValue(in.ShardIterator) {
	case "it-s-1":
		return &awsstreams.GetRecordsOutput{
			Records: []*awsstreams.Record{streamRecord("s-1", "1")},
		}, nil
	case "it-s-2":
		return &awsstreams.GetRecordsOutput{
			Records:           []*awsstreams.Record{streamRecord("s-2", "2")},
			NextShardIterator: aws.String("it-s-2-tail"),
		}, nil
	}

	return &awsstreams.GetRecordsOutput{NextShardIterator: in.ShardIterator}, nil
}

var _ = Describe("DynamoDB Streams Backend", func() {
	var (
		fakeStreams *streamsfakes.FakeIStreamsAPI
		fakeHandler *backendsfakes.FakeHandler
		store       *checkpoint.Memory
		cfg         *dynamodbstreams.Config
	)

	BeforeEach(func() {
		fakeStreams = &streamsfakes.FakeIStreamsAPI{}
		fakeStreams.GetShardIteratorWithContextStub = iterator("it-1")

		fakeHandler = &backendsfakes.FakeHandler{}
		fakeHandler.HandleBatchReturns(&types.SyncMetrics{}, nil)

		store = checkpoint.NewMemory()

		cfg = &dynamodbstreams.Config{
			StreamARN:    streamARN,
			Shard:        "shard-1",
			PollInterval: time.Millisecond,
			Checkpoints:  store,
			Backoff:      util.BackoffPolicy{Durations: []time.Duration{0}},
			Client:       fakeStreams,
		}
	})

	Context("New", func() {
		It("validates the config", func() {
			_, err := dynamodbstreams.New(&dynamodbstreams.Config{})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(dynamodbstreams.ErrMissingStreamARN.Error()))

			_, err = dynamodbstreams.New(&dynamodbstreams.Config{StreamARN: streamARN, BatchSize: 5000})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(dynamodbstreams.ErrInvalidBatchSize.Error()))

			_, err = dynamodbstreams.New(&dynamodbstreams.Config{StreamARN: streamARN, StartPosition: "AT_TIMESTAMP"})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(dynamodbstreams.ErrInvalidStartPoint.Error()))
		})

		It("applies defaults", func() {
			c := &dynamodbstreams.Config{StreamARN: streamARN, Client: fakeStreams}
			_, err := dynamodbstreams.New(c)
			Expect(err).ToNot(HaveOccurred())
			Expect(c.StartPosition).To(Equal(awsstreams.ShardIteratorTypeLatest))
			Expect(c.BatchSize).To(Equal(int64(dynamodbstreams.DefaultBatchSize)))
			Expect(c.Checkpoints).ToNot(BeNil())
		})
	})

	Context("Relay", func() {
		It("hands pages to the handler and checkpoints the last sequence", func() {
			fakeStreams.GetRecordsWithContextReturnsOnCall(0, &awsstreams.GetRecordsOutput{
				Records:           []*awsstreams.Record{streamRecord("a", "100"), streamRecord("b", "101")},
				NextShardIterator: aws.String("it-2"),
			}, nil)
			fakeStreams.GetRecordsWithContextReturnsOnCall(1, &awsstreams.GetRecordsOutput{}, nil)

			d, err := dynamodbstreams.New(cfg)
			Expect(err).ToNot(HaveOccurred())

			Expect(d.Relay(context.Background(), fakeHandler)).To(Succeed())

			Expect(fakeHandler.HandleBatchCallCount()).To(Equal(1))
			_, records := fakeHandler.HandleBatchArgsForCall(0)
			Expect(records).To(HaveLen(2))
			Expect(records[0].EventSourceARN).To(Equal(streamARN))
			Expect(records[1].Change.SequenceNumber).To(Equal("101"))

			_, in, _ := fakeStreams.GetRecordsWithContextArgsForCall(1)
			Expect(aws.StringValue(in.ShardIterator)).To(Equal("it-2"))

			seq, err := store.Get(context.Background(), streamARN, "shard-1")
			Expect(err).ToNot(HaveOccurred())
			Expect(seq).To(Equal("101"))
		})

		It("resumes after the stored checkpoint", func() {
			Expect(store.Set(context.Background(), streamARN, "shard-1", "55")).To(Succeed())
			fakeStreams.GetRecordsWithContextReturns(&awsstreams.GetRecordsOutput{}, nil)

			d, err := dynamodbstreams.New(cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(d.Relay(context.Background(), fakeHandler)).To(Succeed())

			_, in, _ := fakeStreams.GetShardIteratorWithContextArgsForCall(0)
			Expect(aws.StringValue(in.ShardIteratorType)).To(Equal(awsstreams.ShardIteratorTypeAfterSequenceNumber))
			Expect(aws.StringValue(in.SequenceNumber)).To(Equal("55"))
		})

		It("recovers from an expired iterator", func() {
			fakeStreams.GetRecordsWithContextReturnsOnCall(0, nil,
				awserr.New(awsstreams.ErrCodeExpiredIteratorException, "expired", nil))
			fakeStreams.GetRecordsWithContextReturnsOnCall(1, &awsstreams.GetRecordsOutput{
				Records: []*awsstreams.Record{streamRecord("a", "7")},
			}, nil)

			d, err := dynamodbstreams.New(cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(d.Relay(context.Background(), fakeHandler)).To(Succeed())

			Expect(fakeStreams.GetShardIteratorWithContextCallCount()).To(Equal(2))
			Expect(fakeHandler.HandleBatchCallCount()).To(Equal(1))
		})

		It("stops on unrecoverable errors", func() {
			fakeStreams.GetRecordsWithContextReturns(nil, errors.New("access denied"))

			d, err := dynamodbstreams.New(cfg)
			Expect(err).ToNot(HaveOccurred())

			err = d.Relay(context.Background(), fakeHandler)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("access denied"))
		})

		It("does not checkpoint a page the handler rejected", func() {
			fakeHandler.HandleBatchReturnsOnCall(0, nil, errors.New("boom"))
			fakeHandler.HandleBatchReturnsOnCall(1, &types.SyncMetrics{}, nil)

			fakeStreams.GetRecordsWithContextReturnsOnCall(0, &awsstreams.GetRecordsOutput{
				Records:           []*awsstreams.Record{streamRecord("a", "9")},
				NextShardIterator: aws.String("it-2"),
			}, nil)
			fakeStreams.GetRecordsWithContextReturnsOnCall(1, &awsstreams.GetRecordsOutput{
				Records: []*awsstreams.Record{streamRecord("a", "9")},
			}, nil)

			d, err := dynamodbstreams.New(cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(d.Relay(context.Background(), fakeHandler)).To(Succeed())

			Expect(fakeHandler.HandleBatchCallCount()).To(Equal(2))
			Expect(fakeStreams.GetShardIteratorWithContextCallCount()).To(Equal(2))

			seq, _ := store.Get(context.Background(), streamARN, "shard-1")
			Expect(seq).To(Equal("9"))
		})

		It("reads every shard when none is configured", func() {
			cfg.Shard = ""

			fakeStreams.DescribeStreamWithContextReturnsOnCall(0, &awsstreams.DescribeStreamOutput{
				StreamDescription: &awsstreams.StreamDescription{
					Shards:               []*awsstreams.Shard{{ShardId: aws.String("s-1")}},
					LastEvaluatedShardId: aws.String("s-1"),
				},
			}, nil)
			fakeStreams.DescribeStreamWithContextReturnsOnCall(1, &awsstreams.DescribeStreamOutput{
				StreamDescription: &awsstreams.StreamDescription{
					Shards: []*awsstreams.Shard{{ShardId: aws.String("s-2")}},
				},
			}, nil)
			fakeStreams.GetRecordsWithContextReturns(&awsstreams.GetRecordsOutput{}, nil)

			d, err := dynamodbstreams.New(cfg)
			Expect(err).ToNot(HaveOccurred())

			ctx, cancel := context.WithCancel(context.Background())
			done := relayInBackground(ctx, d, fakeHandler)

			Eventually(fakeStreams.GetShardIteratorWithContextCallCount).Should(Equal(2))

			_, in, _ := fakeStreams.DescribeStreamWithContextArgsForCall(1)
			Expect(aws.StringValue(in.ExclusiveStartShardId)).To(Equal("s-1"))

			cancel()
			Eventually(done).Should(Receive(BeNil()))
		})

		It("reads a child shard only after its parent closed", func() {
			cfg.Shard = ""
			cfg.ShardRefreshInterval = time.Hour

			fakeStreams.DescribeStreamWithContextReturns(&awsstreams.DescribeStreamOutput{
				StreamDescription: &awsstreams.StreamDescription{
					Shards: []*awsstreams.Shard{
						{ShardId: aws.String("s-2"), ParentShardId: aws.String("s-1")},
						{ShardId: aws.String("s-1")},
					},
				},
			}, nil)
			fakeStreams.GetShardIteratorWithContextStub = shardIterator
			fakeStreams.GetRecordsWithContextStub = shardPages

			d, err := dynamodbstreams.New(cfg)
			Expect(err).ToNot(HaveOccurred())

			ctx, cancel := context.WithCancel(context.Background())
			done := relayInBackground(ctx, d, fakeHandler)

			Eventually(fakeHandler.HandleBatchCallCount).Should(Equal(2))

			_, first, _ := fakeStreams.GetShardIteratorWithContextArgsForCall(0)
			Expect(aws.StringValue(first.ShardId)).To(Equal("s-1"))

			_, second, _ := fakeStreams.GetShardIteratorWithContextArgsForCall(1)
			Expect(aws.StringValue(second.ShardId)).To(Equal("s-2"))

			_, records := fakeHandler.HandleBatchArgsForCall(1)
			Expect(records[0].EventID).To(Equal("evt-s-2"))

			cancel()
			Eventually(done).Should(Receive(BeNil()))
		})

		It("picks up child shards created after startup", func() {
			cfg.Shard = ""
			cfg.ShardRefreshInterval = time.Hour

			parentOnly := &awsstreams.DescribeStreamOutput{
				StreamDescription: &awsstreams.StreamDescription{
					Shards: []*awsstreams.Shard{{ShardId: aws.String("s-1")}},
				},
			}

			fakeStreams.DescribeStreamWithContextReturnsOnCall(0, parentOnly, nil)
			fakeStreams.DescribeStreamWithContextReturns(&awsstreams.DescribeStreamOutput{
				StreamDescription: &awsstreams.StreamDescription{
					Shards: []*awsstreams.Shard{
						{ShardId: aws.String("s-1")},
						{ShardId: aws.String("s-2"), ParentShardId: aws.String("s-1")},
					},
				},
			}, nil)
			fakeStreams.GetShardIteratorWithContextStub = shardIterator
			fakeStreams.GetRecordsWithContextStub = shardPages

			d, err := dynamodbstreams.New(cfg)
			Expect(err).ToNot(HaveOccurred())

			ctx, cancel := context.WithCancel(context.Background())
			done := relayInBackground(ctx, d, fakeHandler)

			Eventually(fakeHandler.HandleBatchCallCount).Should(Equal(2))
			Expect(fakeStreams.DescribeStreamWithContextCallCount()).To(BeNumerically(">=", 2))

			Eventually(func() string {
				seq, _ := store.Get(context.Background(), streamARN, "s-2")
				return seq
			}).Should(Equal("2"))

			cancel()
			Eventually(done).Should(Receive(BeNil()))

			// Closed parents are not read again
			Expect(fakeStreams.GetShardIteratorWithContextCallCount()).To(Equal(2))
		})
	})

	Context("ToStreamRecord", func() {
		It("copies identifiers and images", func() {
			r := dynamodbstreams.ToStreamRecord(streamRecord("a", "1"), streamARN)
			Expect(r.EventID).To(Equal("evt-a"))
			Expect(r.EventName).To(Equal("INSERT"))
			Expect(r.AWSRegion).To(Equal("us-east-1"))
			Expect(r.Change.Keys).To(HaveKey("id"))
			Expect(r.Change.SequenceNumber).To(Equal("1"))
		})
	})
})
