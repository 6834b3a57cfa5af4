package kafka_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	skafka "github.com/segmentio/kafka-go"

	"github.com/batchcorp/searchsync/backends/backendsfakes"
	"github.com/batchcorp/searchsync/backends/kafka"
	"github.com/batchcorp/searchsync/backends/kafka/kafkafakes"
	"github.com/batchcorp/searchsync/types"
)

const event = `{"Records": [
	{"eventID": "1", "eventName": "INSERT", "eventSourceARN": "arn:aws:dynamodb:us-east-1:1:table/Listings/stream/x",
	 "dynamodb": {"Keys": {"id": {"S": "a"}}, "NewImage": {"id": {"S": "a"}}}},
	{"eventID": "2", "eventName": "REMOVE", "eventSourceARN": "arn:aws:dynamodb:us-east-1:1:table/Listings/stream/x",
	 "dynamodb": {"Keys": {"id": {"S": "b"}}}}
]}`

const record = `{"eventID": "3", "eventName": "MODIFY", "eventSourceARN": "arn:aws:dynamodb:us-east-1:1:table/Listings/stream/x",
	"dynamodb": {"Keys": {"id": {"S": "c"}}, "NewImage": {"id": {"S": "c"}}}}`

var _ = Describe("Kafka", func() {
	Context("New", func() {
		It("validates brokers and topics", func() {
			_, err := kafka.New(&kafka.Config{Topics: []string{"t"}})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(kafka.ErrMissingBrokers.Error()))

			_, err = kafka.New(&kafka.Config{Brokers: []string{"localhost:9092"}})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(kafka.ErrMissingTopic.Error()))
		})

		It("requires a group id for multiple topics", func() {
			_, err := kafka.New(&kafka.Config{Brokers: []string{"localhost:9092"}, Topics: []string{"a", "b"}})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(kafka.ErrMissingGroupID.Error()))
		})

		It("requires a SASL password alongside a username", func() {
			_, err := kafka.New(&kafka.Config{
				Brokers:      []string{"localhost:9092"},
				Topics:       []string{"a"},
				SASLUsername: "user",
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(kafka.ErrMissingSASL.Error()))
		})

		It("builds a reader with SCRAM auth", func() {
			k, err := kafka.New(&kafka.Config{
				Brokers:      []string{"localhost:9092"},
				Topics:       []string{"a"},
				SASLUsername: "user",
				SASLPassword: "hunter2",
				SASLType:     "scram",
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(k.Name()).To(Equal(kafka.BackendName))
			Expect(k.Close(context.Background())).To(Succeed())
		})
	})

	Context("Relay", func() {
		var (
			ctx    context.Context
			cancel context.CancelFunc
			fake   *kafkafakes.FakeIReader
			queue  *backendsfakes.FakeQueue
			queued chan *types.QueuedRecord
		)

		BeforeEach(func() {
			ctx, cancel = context.WithCancel(context.Background())

			fake = &kafkafakes.FakeIReader{}

			queued = make(chan *types.QueuedRecord, 10)
			queue = &backendsfakes.FakeQueue{}
			queue.EnqueueStub = func(_ context.Context, rec *types.QueuedRecord) error {
				queued <- rec
				return nil
			}
		})

		AfterEach(func() {
			cancel()
		})

		// fetchThenStop serves msgs in order, then cancels ctx
		fetchThenStop := func(msgs ...skafka.Message) {
			fake.FetchMessageCalls(func(ctx context.Context) (skafka.Message, error) {
				n := fake.FetchMessageCallCount()
				if n <= len(msgs) {
					return msgs[n-1], nil
				}

				cancel()
				return skafka.Message{}, ctx.Err()
			})
		}

		It("enqueues decoded records and commits skipped messages", func() {
			fetchThenStop(
				skafka.Message{Topic: "cdc", Partition: 0, Offset: 0, Value: []byte("garbage")},
				skafka.Message{Topic: "cdc", Partition: 0, Offset: 1, Value: []byte(event)},
			)

			k, err := kafka.New(&kafka.Config{Reader: fake, GroupID: "searchsync"})
			Expect(err).ToNot(HaveOccurred())

			Expect(k.Relay(ctx, queue)).To(Succeed())

			Expect(queued).To(HaveLen(2))
			first := <-queued
			second := <-queued
			Expect(first.Record.EventID).To(Equal("1"))
			Expect(second.Record.EventID).To(Equal("2"))

			// The undecodable message is committed right away
			Expect(fake.CommitMessagesCallCount()).To(Equal(1))
			_, msgs := fake.CommitMessagesArgsForCall(0)
			Expect(msgs[0].Offset).To(Equal(int64(0)))

			first.Done()
			Expect(fake.CommitMessagesCallCount()).To(Equal(1))

			second.Done()
			Expect(fake.CommitMessagesCallCount()).To(Equal(2))
			_, msgs = fake.CommitMessagesArgsForCall(1)
			Expect(msgs[0].Offset).To(Equal(int64(1)))
		})

		It("never commits past a message that is still being handled", func() {
			fetchThenStop(
				skafka.Message{Topic: "cdc", Partition: 3, Offset: 10, Value: []byte(event)},
				skafka.Message{Topic: "cdc", Partition: 3, Offset: 11, Value: []byte(record)},
			)

			k, err := kafka.New(&kafka.Config{Reader: fake, GroupID: "searchsync"})
			Expect(err).ToNot(HaveOccurred())

			Expect(k.Relay(ctx, queue)).To(Succeed())
			Expect(queued).To(HaveLen(3))

			fromTen1, fromTen2, fromEleven := <-queued, <-queued, <-queued

			fromEleven.Done()
			fromTen1.Done()
			Expect(fake.CommitMessagesCallCount()).To(Equal(0))

			fromTen2.Done()
			Expect(fake.CommitMessagesCallCount()).To(Equal(1))

			_, msgs := fake.CommitMessagesArgsForCall(0)
			Expect(msgs).To(HaveLen(1))
			Expect(msgs[0].Partition).To(Equal(3))
			Expect(msgs[0].Offset).To(Equal(int64(11)))
		})

		It("does not commit without a consumer group", func() {
			fetchThenStop(skafka.Message{Topic: "cdc", Offset: 4, Value: []byte(record)})

			k, err := kafka.New(&kafka.Config{Reader: fake})
			Expect(err).ToNot(HaveOccurred())

			Expect(k.Relay(ctx, queue)).To(Succeed())
			(<-queued).Done()

			Expect(fake.CommitMessagesCallCount()).To(Equal(0))
		})

		It("stops once the queue is shut", func() {
			fake.FetchMessageReturns(skafka.Message{Value: []byte(event)}, nil)
			queue.EnqueueStub = nil
			queue.EnqueueReturns(context.Canceled)

			k, err := kafka.New(&kafka.Config{Reader: fake})
			Expect(err).ToNot(HaveOccurred())

			Expect(k.Relay(ctx, queue)).To(Succeed())
			Expect(queue.EnqueueCallCount()).To(Equal(1))
		})

		It("retries fetch errors until cancelled", func() {
			kafka.RetryReadInterval = time.Millisecond

			fake.FetchMessageCalls(func(context.Context) (skafka.Message, error) {
				if fake.FetchMessageCallCount() >= 3 {
					cancel()
				}
				return skafka.Message{}, errors.New("broker unavailable")
			})

			k, err := kafka.New(&kafka.Config{Reader: fake})
			Expect(err).ToNot(HaveOccurred())

			Expect(k.Relay(ctx, queue)).To(Succeed())
			Expect(fake.FetchMessageCallCount()).To(BeNumerically(">=", 3))
		})
	})
})
