// Package backends holds what the inbound feeds share: the batch handler
// they deliver to and decoding of serialized stream records.
package backends

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/batchcorp/searchsync/types"
	"github.com/batchcorp/searchsync/util"
)

var (
	ErrEmptyPayload = errors.New("payload is empty")
	ErrNoRecords    = errors.New("payload contains no stream records")
)

// Handler applies a batch of stream records. Implemented by relay.Relay.
//
//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . Handler
type Handler interface {
	HandleBatch(ctx context.Context, records []*types.StreamRecord) (*types.SyncMetrics, error)
}

// Queue accepts records for the relay workers. Implemented by relay.Relay.
//
//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . Queue
type Queue interface {
	Enqueue(ctx context.Context, rec *types.QueuedRecord) error
}

// DecodeRecords parses a payload holding stream records. Accepted shapes are
// a stream event ({"Records": [...]}), a JSON array of records, or a single
// record. Gzipped payloads are decompressed first.
func DecodeRecords(data []byte) ([]*types.StreamRecord, error) {
	data, err := util.MaybeGunzip(data)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}

	if data[0] == '[' {
		records := make([]*types.StreamRecord, 0)

		if err := json.Unmarshal(data, &records); err != nil {
			return nil, errors.Wrap(err, "unable to unmarshal record array")
		}

		return nonEmpty(records)
	}

	probe := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.Wrap(err, "unable to unmarshal payload")
	}

	if _, ok := probe["Records"]; ok {
		event := &types.StreamEvent{}

		if err := json.Unmarshal(data, event); err != nil {
			return nil, errors.Wrap(err, "unable to unmarshal stream event")
		}

		return nonEmpty(event.Records)
	}

	record := &types.StreamRecord{}

	if err := json.Unmarshal(data, record); err != nil {
		return nil, errors.Wrap(err, "unable to unmarshal stream record")
	}

	return []*types.StreamRecord{record}, nil
}

func nonEmpty(records []*types.StreamRecord) ([]*types.StreamRecord, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	return records, nil
}
