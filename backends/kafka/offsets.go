package kafka

import (
	"sync"

	skafka "github.com/segmentio/kafka-go"
)

type topicPartition struct {
	topic     string
	partition int
}

type partitionOffsets struct {
	// pending holds fetched, not yet committed messages in fetch order
	pending []skafka.Message
	handled map[int64]bool
}

// offsetTracker computes, per partition, the last message before which every
// fetched message has been handled. Committing past an unhandled message
// would lose it on restart.
type offsetTracker struct {
	mtx        sync.Mutex
	partitions map[topicPartition]*partitionOffsets
}

func newOffsetTracker() *offsetTracker {
	return &offsetTracker{
		partitions: make(map[topicPartition]*partitionOffsets),
	}
}

func (t *offsetTracker) track(msg skafka.Message) {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	key := topicPartition{topic: msg.Topic, partition: msg.Partition}

	p, ok := t.partitions[key]
	if !ok {
		p = &partitionOffsets{handled: make(map[int64]bool)}
		t.partitions[key] = p
	}

	p.pending = append(p.pending, msg)
}

// done marks msg handled and returns the message to commit, if the
// partition's watermark moved
func (t *offsetTracker) done(msg skafka.Message) (skafka.Message, bool) {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	p, ok := t.partitions[topicPartition{topic: msg.Topic, partition: msg.Partition}]
	if !ok {
		return skafka.Message{}, false
	}

	p.handled[msg.Offset] = true

	var (
		commit skafka.Message
		moved  bool
	)

	for len(p.pending) > 0 && p.handled[p.pending[0].Offset] {
		commit = p.pending[0]
		moved = true

		delete(p.handled, commit.Offset)
		p.pending = p.pending[1:]
	}

	return commit, moved
}
