// Package router normalizes inbound stream records and partitions them by
// operation group and source table.
package router

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/batchcorp/searchsync/attr"
	"github.com/batchcorp/searchsync/types"
)

var ErrInvalidSourceARN = errors.New("unable to parse table name from event source ARN")

type OperationGroup string

const (
	UpsertLike OperationGroup = "upsert"
	DeleteLike OperationGroup = "delete"
)

type GroupKey struct {
	Group OperationGroup
	Table string
}

func (g GroupKey) String() string {
	return string(g.Group) + "/" + g.Table
}

var log = logrus.WithField("pkg", "router")

// ParseTableName extracts the table from an identifier of the form
// arn:aws:dynamodb:<region>:<account>:table/<tableName>/stream/<label>
func ParseTableName(arn string) (string, error) {
	idx := strings.Index(arn, "table/")
	if idx < 0 {
		return "", errors.Wrapf(ErrInvalidSourceARN, "'%s'", arn)
	}

	rest := arn[idx+len("table/"):]

	if end := strings.Index(rest, "/"); end >= 0 {
		rest = rest[:end]
	}

	if rest == "" {
		return "", errors.Wrapf(ErrInvalidSourceARN, "'%s'", arn)
	}

	return rest, nil
}

// Classify maps an operation kind to its group
func Classify(kind types.OperationKind) (OperationGroup, bool) {
	switch kind {
	case types.OperationInsert, types.OperationModify:
		return UpsertLike, true
	case types.OperationRemove:
		return DeleteLike, true
	}

	return "", false
}

// FromStreamRecords converts inbound records into mutation events. Records
// that cannot be converted are returned as failed results instead.
func FromStreamRecords(records []*types.StreamRecord) ([]*types.MutationEvent, []types.ProcessingResult) {
	events := make([]*types.MutationEvent, 0, len(records))
	failed := make([]types.ProcessingResult, 0)

	for i, r := range records {
		ev, err := FromStreamRecord(r)
		if err != nil {
			failed = append(failed, types.Failed(recordID(r, i), &types.RecordError{
				Stage: types.StageRoute,
				Cause: err,
			}, 0))

			log.WithFields(logrus.Fields{
				"index": i,
				"id":    recordID(r, i),
			}).Warnf("unable to convert stream record: %s", err)

			continue
		}

		events = append(events, ev)
	}

	return events, failed
}

func FromStreamRecord(r *types.StreamRecord) (*types.MutationEvent, error) {
	if r == nil {
		return nil, types.ErrNilRecord
	}

	if r.Change == nil {
		return nil, types.ErrMissingChanges
	}

	table, err := ParseTableName(r.EventSourceARN)
	if err != nil {
		return nil, err
	}

	return &types.MutationEvent{
		EventID:        r.EventID,
		Kind:           types.OperationKind(r.EventName),
		SourceTable:    table,
		Keys:           r.Change.Keys,
		NewImage:       r.Change.NewImage,
		OldImage:       r.Change.OldImage,
		SequenceNumber: r.Change.SequenceNumber,
	}, nil
}

func recordID(r *types.StreamRecord, i int) string {
	if r != nil {
		if r.Change != nil {
			if id, err := attr.KeyID(r.Change.Keys); err == nil {
				return id
			}
		}

		if r.EventID != "" {
			return r.EventID
		}
	}

	return fmt.Sprintf("record-%d", i)
}

// Route partitions events by (group, table). Events are first folded per
// entity id so that only the last event for an id in batch order survives;
// this keeps a delete followed by a re-insert of the same id from racing.
// Events with an unknown kind are logged and dropped.
func Route(events []*types.MutationEvent) map[GroupKey][]*types.MutationEvent {
	known := make([]*types.MutationEvent, 0, len(events))

	for _, ev := range events {
		if ev == nil {
			continue
		}

		if _, ok := Classify(ev.Kind); !ok {
			log.WithFields(logrus.Fields{
				"eventID": ev.EventID,
				"kind":    ev.Kind,
				"table":   ev.SourceTable,
			}).Warn("dropping event with unrecognized operation kind")
			continue
		}

		known = append(known, ev)
	}

	groups := make(map[GroupKey][]*types.MutationEvent)

	for _, ev := range Fold(known) {
		group, _ := Classify(ev.Kind)
		key := GroupKey{Group: group, Table: ev.SourceTable}
		groups[key] = append(groups[key], ev)
	}

	return groups
}

// Fold keeps only the last event per (table, id), preserving the relative
// order of the survivors. Events whose id cannot be resolved are kept so the
// builder can record them as failures.
func Fold(events []*types.MutationEvent) []*types.MutationEvent {
	last := make(map[string]int, len(events))

	for i, ev := range events {
		if k, ok := entityKey(ev); ok {
			last[k] = i
		}
	}

	out := make([]*types.MutationEvent, 0, len(last))

	for i, ev := range events {
		k, ok := entityKey(ev)
		if ok && last[k] != i {
			log.WithFields(logrus.Fields{
				"eventID": ev.EventID,
				"table":   ev.SourceTable,
			}).Debug("superseded by a later event for the same id")
			continue
		}

		out = append(out, ev)
	}

	return out
}

func entityKey(ev *types.MutationEvent) (string, bool) {
	id, err := attr.KeyID(ev.Keys)
	if err != nil {
		return "", false
	}

	return ev.SourceTable + "\x00" + id, true
}
