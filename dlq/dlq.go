// Package dlq publishes records that could not be applied to an SQS queue
// for out-of-band remediation.
package dlq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/batchcorp/searchsync/prometheus"
	"github.com/batchcorp/searchsync/types"
)

// MaxBatchEntries is the SQS limit for SendMessageBatch
const MaxBatchEntries = 10

var (
	ErrMissingQueue = errors.New("SQS queue name cannot be empty")
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . ISQSAPI
type ISQSAPI interface {
	GetQueueUrlWithContext(ctx aws.Context, input *sqs.GetQueueUrlInput, opts ...request.Option) (*sqs.GetQueueUrlOutput, error)
	SendMessageBatchWithContext(ctx aws.Context, input *sqs.SendMessageBatchInput, opts ...request.Option) (*sqs.SendMessageBatchOutput, error)
}

type Config struct {
	QueueName       string
	RemoteAccountID string
	Region          string

	// Client overrides the client built from the AWS session
	Client ISQSAPI
}

// Message is the JSON body published for each failed record
type Message struct {
	BatchID    string `json:"batchId"`
	RecordID   string `json:"recordId"`
	Stage      string `json:"stage,omitempty"`
	Collection string `json:"collection,omitempty"`
	Status     int    `json:"status,omitempty"`
	Error      string `json:"error"`
	RetryCount int    `json:"retryCount"`
	FailedAt   string `json:"failedAt"`
}

type DLQ struct {
	cfg      *Config
	client   ISQSAPI
	queueURL *string
	urlMtx   *sync.Mutex
	log      *logrus.Entry
}

func New(cfg *Config) (*DLQ, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate dlq config")
	}

	client := cfg.Client

	if client == nil {
		sessOpts := session.Options{
			SharedConfigState: session.SharedConfigEnable,
		}

		if cfg.Region != "" {
			sessOpts.Config.Region = aws.String(cfg.Region)
		}

		sess, err := session.NewSessionWithOptions(sessOpts)
		if err != nil {
			return nil, errors.Wrap(err, "unable to create AWS session")
		}

		client = sqs.New(sess)
	}

	return &DLQ{
		cfg:    cfg,
		client: client,
		urlMtx: &sync.Mutex{},
		log:    logrus.WithField("pkg", "dlq"),
	}, nil
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("dlq config cannot be nil")
	}

	if cfg.QueueName == "" {
		return ErrMissingQueue
	}

	return nil
}

// NewMessages turns failed results into queue messages; successes are skipped
func NewMessages(batchID string, results []types.ProcessingResult, now time.Time) []*Message {
	out := make([]*Message, 0)

	for _, r := range results {
		if r.Success {
			continue
		}

		msg := &Message{
			BatchID:    batchID,
			RecordID:   r.RecordID,
			Error:      r.Error(),
			RetryCount: r.RetryCount,
			FailedAt:   now.UTC().Format(time.RFC3339),
		}

		if r.Err != nil {
			msg.Stage = string(r.Err.Stage)
			msg.Collection = r.Err.Collection
			msg.Status = r.Err.Status
		}

		out = append(out, msg)
	}

	return out
}

// Publish sends every failed result to the queue in batches of
// MaxBatchEntries. The number of published messages is returned.
func (d *DLQ) Publish(ctx context.Context, batchID string, results []types.ProcessingResult) (int, error) {
	messages := NewMessages(batchID, results, time.Now())
	if len(messages) == 0 {
		return 0, nil
	}

	queueURL, err := d.getQueueURL(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "unable to get queue url")
	}

	published := 0

	for start := 0; start < len(messages); start += MaxBatchEntries {
		end := start + MaxBatchEntries
		if end > len(messages) {
			end = len(messages)
		}

		n, err := d.sendBatch(ctx, queueURL, start, messages[start:end])
		published += n

		if err != nil {
			prometheus.IncrPromCounter(prometheus.SyncDLQErrors, 1)
			return published, errors.Wrapf(err, "unable to publish dlq batch starting at %d", start)
		}
	}

	return published, nil
}

// DeduplicationID derives a FIFO dedupe id that fits SQS's 128 character
// [a-zA-Z0-9-] limit whatever the record id looks like
func DeduplicationID(batchID, recordID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(batchID+"\x00"+recordID)).String()
}

func (d *DLQ) sendBatch(ctx context.Context, queueURL *string, offset int, messages []*Message) (int, error) {
	entries := make([]*sqs.SendMessageBatchRequestEntry, 0, len(messages))

	for i, msg := range messages {
		body, err := json.Marshal(msg)
		if err != nil {
			return 0, errors.Wrapf(err, "unable to marshal dlq message for record '%s'", msg.RecordID)
		}

		entry := &sqs.SendMessageBatchRequestEntry{
			Id:          aws.String(fmt.Sprintf("msg-%d", offset+i)),
			MessageBody: aws.String(string(body)),
		}

		// Required for FIFO queues, rejected by standard queues
		if strings.HasSuffix(d.cfg.QueueName, ".fifo") {
			entry.MessageGroupId = aws.String(msg.BatchID)
			entry.MessageDeduplicationId = aws.String(DeduplicationID(msg.BatchID, msg.RecordID))
		}

		entries = append(entries, entry)
	}

	out, err := d.client.SendMessageBatchWithContext(ctx, &sqs.SendMessageBatchInput{
		QueueUrl: queueURL,
		Entries:  entries,
	})
	if err != nil {
		return 0, err
	}

	if len(out.Failed) > 0 {
		for _, f := range out.Failed {
			d.log.WithField("entry", aws.StringValue(f.Id)).Errorf("dlq entry rejected: %s",
				aws.StringValue(f.Message))
		}

		return len(out.Successful), fmt.Errorf("%d dlq entries rejected", len(out.Failed))
	}

	return len(entries), nil
}

func (d *DLQ) getQueueURL(ctx context.Context) (*string, error) {
	d.urlMtx.Lock()
	defer d.urlMtx.Unlock()

	if d.queueURL != nil {
		return d.queueURL, nil
	}

	input := &sqs.GetQueueUrlInput{
		QueueName: aws.String(d.cfg.QueueName),
	}

	if d.cfg.RemoteAccountID != "" {
		input.QueueOwnerAWSAccountId = aws.String(d.cfg.RemoteAccountID)
	}

	resultURL, err := d.client.GetQueueUrlWithContext(ctx, input)
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == sqs.ErrCodeQueueDoesNotExist {
			return nil, errors.Wrap(aerr, "unable to find queue name")
		}

		return nil, err
	}

	d.queueURL = resultURL.QueueUrl

	return d.queueURL, nil
}
