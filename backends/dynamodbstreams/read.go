package dynamodbstreams

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodbstreams"
	"github.com/pkg/errors"

	"github.com/batchcorp/searchsync/backends"
	"github.com/batchcorp/searchsync/stats"
	"github.com/batchcorp/searchsync/types"
	"github.com/batchcorp/searchsync/util"
)

type shard struct {
	ID       string
	ParentID string
}

// getShards returns every shard of the stream, following pagination
func (d *DynamoDBStreams) getShards(ctx context.Context) ([]shard, error) {
	out := make([]shard, 0)

	var lastShardID *string

	for {
		resp, err := d.client.DescribeStreamWithContext(ctx, &dynamodbstreams.DescribeStreamInput{
			StreamArn:             aws.String(d.cfg.StreamARN),
			ExclusiveStartShardId: lastShardID,
		})
		if err != nil {
			return nil, errors.Wrap(err, "unable to describe stream")
		}

		if resp == nil || resp.StreamDescription == nil {
			return out, nil
		}

		for _, s := range resp.StreamDescription.Shards {
			out = append(out, shard{
				ID:       util.DerefString(s.ShardId),
				ParentID: util.DerefString(s.ParentShardId),
			})
		}

		lastShardID = resp.StreamDescription.LastEvaluatedShardId
		if lastShardID == nil {
			return out, nil
		}
	}
}

// getShardIterator resumes after lastSequenceNumber when one is known, and
// starts at the configured position otherwise
func (d *DynamoDBStreams) getShardIterator(ctx context.Context, shardID, lastSequenceNumber string) (*string, error) {
	input := &dynamodbstreams.GetShardIteratorInput{
		StreamArn:         aws.String(d.cfg.StreamARN),
		ShardId:           aws.String(shardID),
		ShardIteratorType: aws.String(d.cfg.StartPosition),
	}

	if lastSequenceNumber != "" {
		input.ShardIteratorType = aws.String(dynamodbstreams.ShardIteratorTypeAfterSequenceNumber)
		input.SequenceNumber = aws.String(lastSequenceNumber)
	}

	resp, err := d.client.GetShardIteratorWithContext(ctx, input)
	if err != nil {
		return nil, err
	}

	return resp.ShardIterator, nil
}

// Relay reads the configured shard, or every shard of the stream, handing
// each page of records to h. A shard's checkpoint only advances after h
// accepted the page.
//
// When reading every shard, the shard list is refreshed on an interval and
// whenever a shard closes, so child shards created by the stream are picked
// up. A child is only read once its parent has closed. Relay returns when
// ctx is cancelled.
func (d *DynamoDBStreams) Relay(ctx context.Context, h backends.Handler) error {
	if h == nil {
		return errors.New("handler cannot be nil")
	}

	if d.cfg.Shard != "" {
		return d.readShard(ctx, d.cfg.Shard, h)
	}

	st := &shardState{
		running:  make(map[string]bool),
		finished: make(map[string]bool),
		doneCh:   make(chan shardResult),
	}

	var wg sync.WaitGroup
	defer wg.Wait()

	if err := d.launchShards(ctx, h, st, &wg); err != nil {
		return errors.Wrap(err, "unable to get shards")
	}

	refresh := time.NewTicker(d.cfg.ShardRefreshInterval)
	defer refresh.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case res := <-st.doneCh:
			delete(st.running, res.shardID)

			if res.err != nil {
				// Retried from its checkpoint on the next refresh
				d.log.WithField("shard", res.shardID).Errorf("shard read stopped: %s", res.err)
				continue
			}

			st.finished[res.shardID] = true
		case <-refresh.C:
		}

		if err := d.launchShards(ctx, h, st, &wg); err != nil {
			d.log.Warnf("unable to refresh shards: %s", err)
		}
	}
}

type shardResult struct {
	shardID string
	err     error
}

// shardState is only touched by the Relay loop
type shardState struct {
	running  map[string]bool
	finished map[string]bool
	doneCh   chan shardResult
}

// launchShards starts a reader for every listed shard that is neither running
// nor finished, and whose parent (if still listed) has finished.
func (d *DynamoDBStreams) launchShards(ctx context.Context, h backends.Handler, st *shardState, wg *sync.WaitGroup) error {
	shards, err := d.getShards(ctx)
	if err != nil {
		return err
	}

	listed := make(map[string]bool, len(shards))
	for _, s := range shards {
		listed[s.ID] = true
	}

	// Trimmed shards drop out of the listing
	for id := range st.finished {
		if !listed[id] {
			delete(st.finished, id)
		}
	}

	for _, s := range shards {
		if st.running[s.ID] || st.finished[s.ID] {
			continue
		}

		if s.ParentID != "" && listed[s.ParentID] && !st.finished[s.ParentID] {
			continue
		}

		st.running[s.ID] = true
		wg.Add(1)

		go func(shardID string) {
			defer wg.Done()

			d.log.Debugf("Launching read for shard '%s'", shardID)

			err := d.readShard(ctx, shardID, h)

			select {
			case st.doneCh <- shardResult{shardID: shardID, err: err}:
			case <-ctx.Done():
			}
		}(s.ID)
	}

	return nil
}

func (d *DynamoDBStreams) readShard(ctx context.Context, shardID string, h backends.Handler) error {
	llog := d.log.WithField("shard", shardID)

	lastSequenceNumber, err := d.cfg.Checkpoints.Get(ctx, d.cfg.StreamARN, shardID)
	if err != nil {
		return errors.Wrap(err, "unable to load checkpoint")
	}

	shardIterator, err := d.getShardIterator(ctx, shardID, lastSequenceNumber)
	if err != nil {
		return errors.Wrap(err, "unable to create shard iterator")
	}

	llog.Infof("Waiting for records (resuming after '%s')...", lastSequenceNumber)

	retries := 0

	for {
		if ctx.Err() != nil {
			return nil
		}

		resp, err := d.client.GetRecordsWithContext(ctx, &dynamodbstreams.GetRecordsInput{
			ShardIterator: shardIterator,
			Limit:         aws.Int64(d.cfg.BatchSize),
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			// Some errors are recoverable
			if !canRetry(err) {
				return errors.Wrap(err, "unable to get records")
			}

			llog.Warnf("recoverable read error: %s", err)

			if err := d.cfg.Backoff.Wait(ctx, retries); err != nil {
				return nil
			}

			retries++

			// Pick up where the last accepted page left off
			shardIterator, err = d.getShardIterator(ctx, shardID, lastSequenceNumber)
			if err != nil {
				return errors.Wrap(err, "unable to create shard iterator")
			}

			continue
		}

		retries = 0

		if len(resp.Records) > 0 {
			records := make([]*types.StreamRecord, 0, len(resp.Records))
			for _, r := range resp.Records {
				records = append(records, ToStreamRecord(r, d.cfg.StreamARN))
			}

			if _, err := h.HandleBatch(ctx, records); err != nil {
				llog.Errorf("unable to handle batch, re-reading from last checkpoint: %s", err)

				if err := d.cfg.Backoff.Wait(ctx, 0); err != nil {
					return nil
				}

				shardIterator, err = d.getShardIterator(ctx, shardID, lastSequenceNumber)
				if err != nil {
					return errors.Wrap(err, "unable to create shard iterator")
				}

				continue
			}

			stats.Incr("dynamodb-streams-consumer", len(records))

			if last := records[len(records)-1]; last.Change != nil && last.Change.SequenceNumber != "" {
				lastSequenceNumber = last.Change.SequenceNumber
			}

			if err := d.cfg.Checkpoints.Set(ctx, d.cfg.StreamARN, shardID, lastSequenceNumber); err != nil {
				llog.Errorf("unable to save checkpoint: %s", err)
			}
		}

		// A closed shard has no next iterator
		if resp.NextShardIterator == nil {
			llog.Info("Shard closed, stopping read")
			return nil
		}

		shardIterator = resp.NextShardIterator

		if len(resp.Records) == 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(d.cfg.PollInterval):
			}
		}
	}
}

// ToStreamRecord converts a polled record into the shape delivered by stream
// triggers. The stream ARN stands in for the event source ARN.
func ToStreamRecord(r *dynamodbstreams.Record, streamARN string) *types.StreamRecord {
	out := &types.StreamRecord{
		EventID:        util.DerefString(r.EventID),
		EventName:      util.DerefString(r.EventName),
		EventSource:    util.DerefString(r.EventSource),
		EventSourceARN: streamARN,
		AWSRegion:      util.DerefString(r.AwsRegion),
	}

	if r.Dynamodb != nil {
		out.Change = &types.StreamChange{
			Keys:           r.Dynamodb.Keys,
			NewImage:       r.Dynamodb.NewImage,
			OldImage:       r.Dynamodb.OldImage,
			SequenceNumber: util.DerefString(r.Dynamodb.SequenceNumber),
			StreamViewType: util.DerefString(r.Dynamodb.StreamViewType),
		}
	}

	return out
}

// canRetry determines if an error is recoverable
func canRetry(err error) bool {
	aerr, ok := errors.Cause(err).(awserr.Error)
	if !ok {
		return false
	}

	switch aerr.Code() {
	case dynamodbstreams.ErrCodeExpiredIteratorException,
		dynamodbstreams.ErrCodeLimitExceededException,
		dynamodbstreams.ErrCodeInternalServerError:
		return true
	}

	return false
}
