package types

import (
	"fmt"

	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/pkg/errors"
)

var (
	ErrNilRecord      = errors.New("stream record cannot be nil")
	ErrMissingChanges = errors.New("stream record is missing dynamodb change data")
)

// OperationKind is the change type reported by the stream
type OperationKind string

const (
	OperationInsert OperationKind = "INSERT"
	OperationModify OperationKind = "MODIFY"
	OperationRemove OperationKind = "REMOVE"
)

// Action is the bulk action a WriteOperation turns into
type Action string

const (
	ActionUpsert Action = "index"
	ActionDelete Action = "delete"
)

// Stage identifies where in the pipeline a record failed
type Stage string

const (
	StageRoute     Stage = "route"
	StageDecode    Stage = "decode"
	StageBuild     Stage = "build"
	StageTransport Stage = "transport"
	StageItem      Stage = "item"
)

// StreamEvent is the payload delivered by a DynamoDB stream trigger
type StreamEvent struct {
	Records []*StreamRecord `json:"Records"`
}

// StreamRecord is a single change record as serialized by DynamoDB Streams
type StreamRecord struct {
	EventID        string        `json:"eventID"`
	EventName      string        `json:"eventName"`
	EventSource    string        `json:"eventSource,omitempty"`
	EventSourceARN string        `json:"eventSourceARN"`
	AWSRegion      string        `json:"awsRegion,omitempty"`
	Change         *StreamChange `json:"dynamodb"`
}

type StreamChange struct {
	Keys           map[string]*dynamodb.AttributeValue `json:"Keys"`
	NewImage       map[string]*dynamodb.AttributeValue `json:"NewImage,omitempty"`
	OldImage       map[string]*dynamodb.AttributeValue `json:"OldImage,omitempty"`
	SequenceNumber string                              `json:"SequenceNumber,omitempty"`
	StreamViewType string                              `json:"StreamViewType,omitempty"`
}

// QueuedRecord is a stream record waiting for a relay worker. Done, when set,
// is called once the batch holding the record has been handled.
type QueuedRecord struct {
	Record *StreamRecord
	Done   func()
}

// MutationEvent is one captured change, normalized from a StreamRecord
type MutationEvent struct {
	EventID        string
	Kind           OperationKind
	SourceTable    string
	Keys           map[string]*dynamodb.AttributeValue
	NewImage       map[string]*dynamodb.AttributeValue
	OldImage       map[string]*dynamodb.AttributeValue
	SequenceNumber string
}

// Document is a plain document written to the search index
type Document map[string]interface{}

// Copy returns a shallow copy of the document
func (d Document) Copy() Document {
	out := make(Document, len(d))

	for k, v := range d {
		out[k] = v
	}

	return out
}

type WriteOperation struct {
	Action     Action   `json:"action"`
	Collection string   `json:"collection"`
	ID         string   `json:"id"`
	Document   Document `json:"document,omitempty"`
}

// RecordError describes why a single record could not be applied
type RecordError struct {
	Stage      Stage
	Collection string
	Status     int
	Type       string
	Reason     string
	Cause      error
}

func (e *RecordError) Error() string {
	msg := string(e.Stage)

	if e.Collection != "" {
		msg += " [" + e.Collection + "]"
	}

	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}

	if e.Type != "" {
		msg += ": " + e.Type
	}

	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

func (e *RecordError) Unwrap() error {
	return e.Cause
}

// ProcessingResult is the outcome of applying one record
type ProcessingResult struct {
	RecordID   string       `json:"recordId"`
	Success    bool         `json:"success"`
	Err        *RecordError `json:"-"`
	RetryCount int          `json:"retryCount"`
}

// Error returns the failure message, or an empty string on success
func (p ProcessingResult) Error() string {
	if p.Err == nil {
		return ""
	}

	return p.Err.Error()
}

// Failed builds a failed result for the given record
func Failed(recordID string, err *RecordError, retries int) ProcessingResult {
	return ProcessingResult{
		RecordID:   recordID,
		Success:    false,
		Err:        err,
		RetryCount: retries,
	}
}

// SyncMetrics is produced once per handled batch
type SyncMetrics struct {
	BatchID          string `json:"batchId"`
	ProcessedRecords int    `json:"processedRecords"`
	FailedRecords    int    `json:"failedRecords"`
	BatchSize        int    `json:"batchSize"`
	ProcessingTimeMs int64  `json:"processingTimeMs"`
}
