// Package relay coordinates a batch of stream records end-to-end: route,
// build, execute, aggregate and report.
package relay

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/batchcorp/searchsync/attr"
	"github.com/batchcorp/searchsync/builder"
	"github.com/batchcorp/searchsync/metrics"
	"github.com/batchcorp/searchsync/prometheus"
	"github.com/batchcorp/searchsync/router"
	"github.com/batchcorp/searchsync/stats"
	"github.com/batchcorp/searchsync/types"
)

const (
	DefaultNumWorkers = 4

	DefaultFlushInterval = 5 * time.Second
	DefaultBatchSize     = 100 // number of records to batch
)

var (
	ErrNilBatch        = errors.New("record batch cannot be nil")
	ErrMissingBuilder  = errors.New("Builder cannot be nil")
	ErrMissingExecutor = errors.New("Executor cannot be nil")
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . IExecutor
type IExecutor interface {
	Execute(ctx context.Context, ops []*types.WriteOperation) []types.ProcessingResult
}

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . IPublisher
type IPublisher interface {
	Publish(ctx context.Context, batchID string, results []types.ProcessingResult) (int, error)
}

type Relay struct {
	Config *Config

	// One queue per worker; records for the same id always share a queue
	queues []chan *types.QueuedRecord

	log *logrus.Entry
}

type Config struct {
	Builder  *builder.Builder
	Executor IExecutor

	// Sink receives SyncMetrics once per batch; optional
	Sink metrics.Sink

	// DLQ receives failed results once per batch; optional
	DLQ IPublisher

	NumWorkers    int
	BatchSize     int
	FlushInterval time.Duration
}

func New(relayCfg *Config) (*Relay, error) {
	if err := validateConfig(relayCfg); err != nil {
		return nil, errors.Wrap(err, "unable to complete relay config validation")
	}

	queues := make([]chan *types.QueuedRecord, relayCfg.NumWorkers)
	for i := range queues {
		queues[i] = make(chan *types.QueuedRecord, relayCfg.BatchSize)
	}

	return &Relay{
		Config: relayCfg,
		queues: queues,
		log:    logrus.WithField("pkg", "relay"),
	}, nil
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("Relay config cannot be nil")
	}

	if cfg.Builder == nil {
		return ErrMissingBuilder
	}

	if cfg.Executor == nil {
		return ErrMissingExecutor
	}

	if cfg.NumWorkers <= 0 {
		logrus.Warningf("NumWorkers cannot be <= 0 - setting to default '%d'", DefaultNumWorkers)
		cfg.NumWorkers = DefaultNumWorkers
	}

	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultFlushInterval
	}

	return nil
}

// HandleBatch applies one batch of stream records. Record level failures are
// carried in the returned metrics; only batch level failures return an error.
func (r *Relay) HandleBatch(ctx context.Context, records []*types.StreamRecord) (sm *types.SyncMetrics, err error) {
	if records == nil {
		r.log.Error("received nil record batch")
		prometheus.IncrPromCounter(prometheus.SyncBatchErrors, 1)

		return nil, ErrNilBatch
	}

	start := time.Now()
	batchID := uuid.New().String()

	llog := r.log.WithFields(logrus.Fields{
		"batchId":   batchID,
		"batchSize": len(records),
	})

	defer func() {
		if p := recover(); p != nil {
			llog.Errorf("panic while handling batch: %v", p)
			prometheus.IncrPromCounter(prometheus.SyncBatchErrors, 1)

			sm = nil
			err = fmt.Errorf("panic while handling batch '%s': %v", batchID, p)
		}
	}()

	llog.Debug("batch received")

	plan := r.Plan(records)
	results := plan.Results

	resultsMtx := &sync.Mutex{}
	g := &errgroup.Group{}

	for _, group := range plan.Groups {
		llog.WithFields(logrus.Fields{
			"group": group.Key.Group,
			"table": group.Key.Table,
			"ops":   len(group.Ops),
		}).Debug("built group")

		if len(group.Ops) == 0 {
			continue
		}

		ops := group.Ops

		g.Go(func() error {
			executed := r.execute(ctx, llog, ops)

			resultsMtx.Lock()
			results = append(results, executed...)
			resultsMtx.Unlock()

			return nil
		})
	}

	_ = g.Wait()

	sm = Aggregate(batchID, len(records), results, time.Since(start))

	llog.WithFields(logrus.Fields{
		"processedRecords": sm.ProcessedRecords,
		"failedRecords":    sm.FailedRecords,
		"processingTimeMs": sm.ProcessingTimeMs,
	}).Info("batch handled")

	r.report(ctx, llog, sm, results)

	return sm, nil
}

// execute runs one group; a panic fails every operation of the group
func (r *Relay) execute(ctx context.Context, llog *logrus.Entry, ops []*types.WriteOperation) (results []types.ProcessingResult) {
	defer func() {
		if p := recover(); p != nil {
			llog.Errorf("panic while executing group: %v", p)
			prometheus.IncrPromCounter(prometheus.SyncBatchErrors, 1)

			results = PanicResults(ops, p)
		}
	}()

	return r.Config.Executor.Execute(ctx, ops)
}

// PanicResults fails every operation with the recovered panic value
func PanicResults(ops []*types.WriteOperation, p interface{}) []types.ProcessingResult {
	results := make([]types.ProcessingResult, 0, len(ops))

	for _, op := range ops {
		results = append(results, types.Failed(op.ID, &types.RecordError{
			Stage:      types.StageTransport,
			Collection: op.Collection,
			Cause:      fmt.Errorf("panic: %v", p),
		}, 0))
	}

	return results
}

// BatchPlan is a batch converted, routed and built but not yet executed
type BatchPlan struct {
	Groups []*GroupPlan

	// Results holds the records that failed before execution
	Results []types.ProcessingResult
}

type GroupPlan struct {
	Key router.GroupKey
	Ops []*types.WriteOperation
}

// Plan converts, routes and builds a batch. Groups are ordered by key.
func (r *Relay) Plan(records []*types.StreamRecord) *BatchPlan {
	events, results := router.FromStreamRecords(records)
	groups := router.Route(events)

	keys := make([]router.GroupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})

	plan := &BatchPlan{
		Groups:  make([]*GroupPlan, 0, len(keys)),
		Results: results,
	}

	for _, key := range keys {
		ops, failed := r.Config.Builder.Build(key, groups[key])
		plan.Results = append(plan.Results, failed...)
		plan.Groups = append(plan.Groups, &GroupPlan{Key: key, Ops: ops})
	}

	return plan
}

// Aggregate counts successes and failures for a batch
func Aggregate(batchID string, batchSize int, results []types.ProcessingResult, elapsed time.Duration) *types.SyncMetrics {
	sm := &types.SyncMetrics{
		BatchID:          batchID,
		BatchSize:        batchSize,
		ProcessingTimeMs: elapsed.Milliseconds(),
	}

	for _, res := range results {
		if res.Success {
			sm.ProcessedRecords++
		} else {
			sm.FailedRecords++
		}
	}

	return sm
}

// report emits metrics and dead-letters failures. Neither can fail the batch.
func (r *Relay) report(ctx context.Context, llog *logrus.Entry, sm *types.SyncMetrics, results []types.ProcessingResult) {
	stats.Incr("processed-records", sm.ProcessedRecords)
	stats.Incr("failed-records", sm.FailedRecords)

	if r.Config.Sink != nil {
		if err := r.Config.Sink.Emit(ctx, sm); err != nil {
			llog.Errorf("unable to emit batch metrics: %s", err)
		}
	}

	if r.Config.DLQ == nil || sm.FailedRecords == 0 {
		return
	}

	n, err := r.Config.DLQ.Publish(ctx, sm.BatchID, results)
	if err != nil {
		llog.Errorf("unable to publish failed records to dlq (%d published): %s", n, err)
		return
	}

	llog.WithField("published", n).Debug("failed records sent to dlq")
}

// Enqueue hands a record to the worker owning its (table, id), blocking while
// that worker's queue is full. Records for one id are applied in the order
// they were enqueued.
func (r *Relay) Enqueue(ctx context.Context, rec *types.QueuedRecord) error {
	if rec == nil || rec.Record == nil {
		return types.ErrNilRecord
	}

	select {
	case r.queues[r.Worker(rec.Record)] <- rec:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Worker returns the index of the worker that owns a record
func (r *Relay) Worker(rec *types.StreamRecord) int {
	if len(r.queues) == 1 {
		return 0
	}

	return int(xxhash.Sum64String(OrderingKey(rec)) % uint64(len(r.queues)))
}

// OrderingKey identifies the entity a record changes. Records whose primary
// key cannot be resolved fall back to their event id.
func OrderingKey(rec *types.StreamRecord) string {
	table, err := router.ParseTableName(rec.EventSourceARN)
	if err != nil {
		table = rec.EventSourceARN
	}

	if rec.Change != nil {
		if id, err := attr.KeyID(rec.Change.Keys); err == nil {
			return table + "\x00" + id
		}
	}

	return table + "\x00" + rec.EventID
}

// StartWorkers launches NumWorkers loops, each draining its own queue.
// Workers exit and flush what they hold once ctx is cancelled; the returned
// WaitGroup is done after all of them have exited.
func (r *Relay) StartWorkers(ctx context.Context) *sync.WaitGroup {
	wg := &sync.WaitGroup{}

	for i := 0; i != r.Config.NumWorkers; i++ {
		r.log.WithField("workerId", i).Debug("starting worker")

		wg.Add(1)

		go func(id int) {
			defer wg.Done()
			r.Run(ctx, id)
		}(i)
	}

	return wg
}

func (r *Relay) Run(ctx context.Context, id int) {
	llog := r.log.WithField("relayId", id)

	llog.Debug("Relayer started")

	prometheus.IncrPromGauge(prometheus.SyncRelayWorkers)
	defer prometheus.DecrPromGauge(prometheus.SyncRelayWorkers)

	queueCh := r.queues[id]
	queue := make([]*types.QueuedRecord, 0)

	// Flush on size when records arrive quickly, on the ticker when they don't
	flushTicker := time.NewTicker(r.Config.FlushInterval)
	defer flushTicker.Stop()

	for {
		select {
		case rec := <-queueCh:
			queue = append(queue, rec)

			// Max queue size reached
			if len(queue) >= r.Config.BatchSize {
				llog.Debugf("%d: max queue size reached - flushing!", id)

				r.flush(ctx, queue)

				queue = make([]*types.QueuedRecord, 0)

				// Reset ticker (so time-based flush doesn't occur)
				flushTicker.Reset(r.Config.FlushInterval)
			}
		case <-flushTicker.C:
			if len(queue) != 0 {
				llog.Debugf("%d: flush ticker hit and queue not empty - flushing!", id)

				r.flush(ctx, queue)

				queue = make([]*types.QueuedRecord, 0)
			}
		case <-ctx.Done():
			queue = drain(queueCh, queue)

			if len(queue) != 0 {
				llog.Debugf("%d: shutting down - flushing %d records", id, len(queue))

				// Original ctx is done; give the final flush its own deadline
				flushCtx, cancel := context.WithTimeout(context.Background(), r.Config.FlushInterval)
				r.flush(flushCtx, queue)
				cancel()
			}

			llog.Debug("Relayer exiting")

			return
		}
	}
}

// drain appends whatever is already buffered in queueCh
func drain(queueCh chan *types.QueuedRecord, queue []*types.QueuedRecord) []*types.QueuedRecord {
	for {
		select {
		case rec := <-queueCh:
			queue = append(queue, rec)
		default:
			return queue
		}
	}
}

// flush handles a batch and acknowledges its records. Records of a batch
// that failed as a whole are not acknowledged so the feed can redeliver them.
func (r *Relay) flush(ctx context.Context, queue []*types.QueuedRecord) {
	if len(queue) < 1 {
		r.log.Error("asked to flush empty record queue - bug?")
		return
	}

	records := make([]*types.StreamRecord, 0, len(queue))
	for _, rec := range queue {
		records = append(records, rec.Record)
	}

	if _, err := r.HandleBatch(ctx, records); err != nil {
		r.log.WithField("err", err).Error("unable to handle record batch")
		return
	}

	for _, rec := range queue {
		if rec.Done != nil {
			rec.Done()
		}
	}
}
