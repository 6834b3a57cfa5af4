package kafka

import (
	"context"
	"sync/atomic"
	"time"

	skafka "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/batchcorp/searchsync/backends"
	"github.com/batchcorp/searchsync/prometheus"
	"github.com/batchcorp/searchsync/stats"
	"github.com/batchcorp/searchsync/types"
)

var RetryReadInterval = 5 * time.Second

// Relay fetches messages until ctx is cancelled, enqueueing every stream
// record they contain. A message's offset is committed once all of its
// records (and every earlier message of the partition) have been handled.
// Messages that do not decode are logged, skipped and committed.
func (k *Kafka) Relay(ctx context.Context, q backends.Queue) error {
	for {
		msg, err := k.reader.FetchMessage(ctx)
		if err != nil {
			// Shutdown cancelled, exit so we don't spam logs with context cancelled errors
			if ctx.Err() != nil {
				k.log.Debug("Received shutdown signal, exiting relayer")
				return nil
			}

			prometheus.IncrPromCounter(prometheus.SyncBatchErrors, 1)

			k.log.Errorf("unable to fetch kafka message: %s; retrying in %s", err, RetryReadInterval)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(RetryReadInterval):
			}

			continue
		}

		k.offsets.track(msg)

		records, err := backends.DecodeRecords(msg.Value)
		if err != nil {
			k.log.WithFields(logrus.Fields{
				"topic":     msg.Topic,
				"partition": msg.Partition,
				"offset":    msg.Offset,
			}).Errorf("unable to decode kafka message - skipping: %s", err)

			k.ack(msg)

			continue
		}

		stats.Incr("kafka-relay-consumer", len(records))

		done := doneAfter(len(records), func() { k.ack(msg) })

		for _, r := range records {
			if err := q.Enqueue(ctx, &types.QueuedRecord{Record: r, Done: done}); err != nil {
				// Unacknowledged records are redelivered after a restart
				return nil
			}
		}
	}
}

// ack marks a message handled and commits the partition's new low watermark
func (k *Kafka) ack(msg skafka.Message) {
	commit, ok := k.offsets.done(msg)
	if !ok || k.cfg.GroupID == "" {
		return
	}

	// Called from relay workers, possibly after the relay ctx is done
	ctx, cancel := context.WithTimeout(context.Background(), k.cfg.Timeout)
	defer cancel()

	if err := k.reader.CommitMessages(ctx, commit); err != nil {
		k.log.WithFields(logrus.Fields{
			"topic":     commit.Topic,
			"partition": commit.Partition,
			"offset":    commit.Offset,
		}).Errorf("unable to commit offset: %s", err)
	}
}

// doneAfter returns a func that calls fn on its nth invocation
func doneAfter(n int, fn func()) func() {
	remaining := int32(n)

	return func() {
		if atomic.AddInt32(&remaining, -1) == 0 {
			fn()
		}
	}
}
