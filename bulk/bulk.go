// Package bulk applies write operations to the search engine in bounded,
// concurrently dispatched chunks with retry and per-item reconciliation.
package bulk

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/batchcorp/searchsync/prometheus"
	"github.com/batchcorp/searchsync/search"
	"github.com/batchcorp/searchsync/types"
	"github.com/batchcorp/searchsync/util"
)

const (
	DefaultChunkSize      = 500
	DefaultMaxAttempts    = 4
	DefaultConcurrency    = 8
	DefaultRequestTimeout = 30 * time.Second
)

var (
	ErrMissingClient = errors.New("search client cannot be nil")
	ErrMissingItem   = errors.New("operation missing from bulk response")
)

type Config struct {
	Client search.IClient

	// ChunkSize is the max number of operations per bulk call
	ChunkSize int

	// MaxAttempts is the total number of tries for a chunk, first included
	MaxAttempts int

	// Concurrency bounds the number of in-flight bulk calls
	Concurrency int

	// RequestTimeout applies to each individual bulk call
	RequestTimeout time.Duration

	Backoff util.BackoffPolicy
}

type Executor struct {
	cfg      *Config
	requests int64
	log      *logrus.Entry
}

func New(cfg *Config) (*Executor, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate executor config")
	}

	return &Executor{
		cfg: cfg,
		log: logrus.WithField("pkg", "bulk"),
	}, nil
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("executor config cannot be nil")
	}

	if cfg.Client == nil {
		return ErrMissingClient
	}

	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}

	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}

	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	if cfg.Backoff.Durations == nil {
		cfg.Backoff = util.BulkRetryPolicy
	}

	return nil
}

// Requests returns the number of bulk calls made so far
func (e *Executor) Requests() int64 {
	return atomic.LoadInt64(&e.requests)
}

// Chunk splits operations into slices of at most size entries
func Chunk(ops []*types.WriteOperation, size int) [][]*types.WriteOperation {
	if size <= 0 {
		size = DefaultChunkSize
	}

	chunks := make([][]*types.WriteOperation, 0, (len(ops)+size-1)/size)

	for start := 0; start < len(ops); start += size {
		end := start + size
		if end > len(ops) {
			end = len(ops)
		}

		chunks = append(chunks, ops[start:end])
	}

	return chunks
}

// Execute applies operations and returns exactly one result per operation.
// Chunks are independent, so results carry no cross-chunk ordering.
func (e *Executor) Execute(ctx context.Context, ops []*types.WriteOperation) []types.ProcessingResult {
	if len(ops) == 0 {
		return []types.ProcessingResult{}
	}

	chunks := Chunk(ops, e.cfg.ChunkSize)
	perChunk := make([][]types.ProcessingResult, len(chunks))

	g := &errgroup.Group{}
	g.SetLimit(e.cfg.Concurrency)

	for i, chunk := range chunks {
		i, chunk := i, chunk

		g.Go(func() error {
			defer func() {
				if p := recover(); p != nil {
					e.log.WithField("chunk", i).Errorf("panic while executing chunk: %v", p)
					perChunk[i] = panicResults(i, chunk, p)
				}
			}()

			perChunk[i] = e.executeChunk(ctx, i, chunk)
			return nil
		})
	}

	// Chunk failures are carried in results, never returned
	_ = g.Wait()

	results := make([]types.ProcessingResult, 0, len(ops))
	for _, r := range perChunk {
		results = append(results, r...)
	}

	return results
}

func (e *Executor) executeChunk(ctx context.Context, chunkIdx int, chunk []*types.WriteOperation) []types.ProcessingResult {
	llog := e.log.WithFields(logrus.Fields{
		"chunk": chunkIdx,
		"size":  len(chunk),
	})

	results := make([]types.ProcessingResult, 0, len(chunk))

	// Encode per operation so a single unencodable document only fails itself
	sendable := make([]*types.WriteOperation, 0, len(chunk))
	body := make([]byte, 0)

	for i, op := range chunk {
		data, err := search.EncodeBulk([]*types.WriteOperation{op})
		if err != nil {
			results = append(results, types.Failed(recordID(chunkIdx, i, op, ""), &types.RecordError{
				Stage:      types.StageBuild,
				Collection: op.Collection,
				Cause:      err,
			}, 0))

			continue
		}

		sendable = append(sendable, op)
		body = append(body, data...)
	}

	if len(sendable) == 0 {
		return results
	}

	var lastErr error
	failures := 0

	for attempt := 0; attempt < e.cfg.MaxAttempts; attempt++ {
		resp, err := e.bulk(ctx, body)
		if err == nil {
			return append(results, e.reconcile(llog, chunkIdx, sendable, resp, failures)...)
		}

		lastErr = err
		failures++

		prometheus.IncrPromCounter(prometheus.SyncBulkErrors, 1)

		llog.WithField("attempt", attempt+1).Warnf("bulk request failed [retry %d/%d]: %s",
			failures, e.cfg.MaxAttempts, err)

		if attempt == e.cfg.MaxAttempts-1 {
			break
		}

		if err := e.cfg.Backoff.Wait(ctx, attempt); err != nil {
			llog.Warnf("giving up on chunk: %s", err)
			break
		}
	}

	llog.Errorf("unable to complete bulk request [reached max retries (%d)]: %s", e.cfg.MaxAttempts, lastErr)

	for i, op := range sendable {
		results = append(results, types.Failed(recordID(chunkIdx, i, op, ""), &types.RecordError{
			Stage:      types.StageTransport,
			Collection: op.Collection,
			Cause:      lastErr,
		}, failures))
	}

	return results
}

func panicResults(chunkIdx int, chunk []*types.WriteOperation, p interface{}) []types.ProcessingResult {
	results := make([]types.ProcessingResult, 0, len(chunk))

	for i, op := range chunk {
		results = append(results, types.Failed(recordID(chunkIdx, i, op, ""), &types.RecordError{
			Stage:      types.StageTransport,
			Collection: op.Collection,
			Cause:      fmt.Errorf("panic: %v", p),
		}, 0))
	}

	return results
}

func (e *Executor) bulk(ctx context.Context, body []byte) (*search.BulkResponse, error) {
	atomic.AddInt64(&e.requests, 1)
	prometheus.IncrPromCounter(prometheus.SyncBulkRequests, 1)

	callCtx, cancel := context.WithTimeout(ctx, e.cfg.RequestTimeout)
	defer cancel()

	resp, err := e.cfg.Client.Bulk(callCtx, body)
	if err != nil {
		return nil, err
	}

	if resp == nil {
		return nil, errors.New("bulk call returned no response")
	}

	return resp, nil
}

// reconcile maps per-item outcomes back onto the submitted operations by
// position. Item failures are not retried.
func (e *Executor) reconcile(llog *logrus.Entry, chunkIdx int, ops []*types.WriteOperation, resp *search.BulkResponse, retries int) []types.ProcessingResult {
	results := make([]types.ProcessingResult, 0, len(ops))

	if !resp.Errors {
		for i, op := range ops {
			results = append(results, types.ProcessingResult{
				RecordID:   recordID(chunkIdx, i, op, itemID(resp, i)),
				Success:    true,
				RetryCount: retries,
			})
		}

		return results
	}

	failed := 0

	for i, op := range ops {
		if i >= len(resp.Items) {
			failed++
			results = append(results, types.Failed(recordID(chunkIdx, i, op, ""), &types.RecordError{
				Stage:      types.StageItem,
				Collection: op.Collection,
				Cause:      ErrMissingItem,
			}, retries))
			continue
		}

		item := resp.Items[i]
		id := recordID(chunkIdx, i, op, item.ID)

		if !item.Failed() {
			results = append(results, types.ProcessingResult{
				RecordID:   id,
				Success:    true,
				RetryCount: retries,
			})
			continue
		}

		failed++
		results = append(results, types.Failed(id, &types.RecordError{
			Stage:      types.StageItem,
			Collection: op.Collection,
			Status:     item.Status,
			Type:       item.ErrorType,
			Reason:     item.ErrorReason,
		}, retries))
	}

	prometheus.IncrPromCounter(prometheus.SyncItemErrors, float64(failed))

	llog.Warnf("bulk request partially failed: %d/%d items rejected", failed, len(ops))

	return results
}

func itemID(resp *search.BulkResponse, i int) string {
	if i < len(resp.Items) {
		return resp.Items[i].ID
	}

	return ""
}

// recordID prefers the id echoed back by the engine, then the id we sent,
// and falls back to a position-derived identifier.
func recordID(chunkIdx, itemIdx int, op *types.WriteOperation, echoed string) string {
	if echoed != "" {
		return echoed
	}

	if op != nil && op.ID != "" {
		return op.ID
	}

	return fmt.Sprintf("chunk-%d-item-%d", chunkIdx, itemIdx)
}
