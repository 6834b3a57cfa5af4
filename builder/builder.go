// Package builder turns routed mutation events into index write operations.
package builder

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/batchcorp/searchsync/attr"
	"github.com/batchcorp/searchsync/config"
	"github.com/batchcorp/searchsync/enrich"
	"github.com/batchcorp/searchsync/router"
	"github.com/batchcorp/searchsync/types"
)

const IDField = "id"

var (
	ErrMissingMapping  = errors.New("collection mapping cannot be nil")
	ErrMissingEnricher = errors.New("enricher cannot be nil")
)

type Builder struct {
	mapping  config.CollectionMapping
	enricher *enrich.Enricher
	log      *logrus.Entry
}

func New(mapping config.CollectionMapping, enricher *enrich.Enricher) (*Builder, error) {
	if mapping == nil {
		return nil, ErrMissingMapping
	}

	if enricher == nil {
		return nil, ErrMissingEnricher
	}

	return &Builder{
		mapping:  mapping,
		enricher: enricher,
		log:      logrus.WithField("pkg", "builder"),
	}, nil
}

// Build emits write operations for one (group, table) pair, in event order.
// Records that cannot be turned into an operation are returned as failed
// results; an unmapped table yields nothing.
func (b *Builder) Build(key router.GroupKey, events []*types.MutationEvent) ([]*types.WriteOperation, []types.ProcessingResult) {
	collection, ok := b.mapping.Collection(key.Table)
	if !ok {
		b.log.WithFields(logrus.Fields{
			"table":  key.Table,
			"events": len(events),
		}).Warn("no collection mapped for table - skipping")

		return nil, nil
	}

	ops := make([]*types.WriteOperation, 0, len(events))
	failed := make([]types.ProcessingResult, 0)

	for _, ev := range events {
		id, err := attr.KeyID(ev.Keys)
		if err != nil {
			failed = append(failed, types.Failed(ev.EventID, &types.RecordError{
				Stage:      types.StageBuild,
				Collection: collection,
				Cause:      err,
			}, 0))

			b.log.WithFields(logrus.Fields{
				"table":   key.Table,
				"eventID": ev.EventID,
			}).Errorf("unable to resolve primary key: %s", err)

			continue
		}

		if key.Group == router.DeleteLike {
			ops = append(ops, &types.WriteOperation{
				Action:     types.ActionDelete,
				Collection: collection,
				ID:         id,
			})

			continue
		}

		if ev.NewImage == nil {
			b.log.WithFields(logrus.Fields{
				"table": key.Table,
				"id":    id,
			}).Warn("upsert event has no new image - skipping")

			continue
		}

		doc, err := b.Document(id, collection, ev)
		if err != nil {
			failed = append(failed, types.Failed(id, &types.RecordError{
				Stage:      types.StageDecode,
				Collection: collection,
				Cause:      err,
			}, 0))

			b.log.WithFields(logrus.Fields{
				"table": key.Table,
				"id":    id,
			}).Errorf("unable to decode new image: %s", err)

			continue
		}

		ops = append(ops, &types.WriteOperation{
			Action:     types.ActionUpsert,
			Collection: collection,
			ID:         id,
			Document:   doc,
		})
	}

	return ops, failed
}

// Document decodes and enriches an event's new image
func (b *Builder) Document(id, collection string, ev *types.MutationEvent) (types.Document, error) {
	decoded, err := attr.DecodeMap(ev.NewImage)
	if err != nil {
		return nil, err
	}

	doc := types.Document(decoded)
	doc[IDField] = id

	return b.enricher.Enrich(doc, collection), nil
}
