// Package search talks to the search engine's bulk API.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/batchcorp/searchsync/types"
)

var (
	ErrEmptyBody       = errors.New("bulk response body is empty")
	ErrInvalidResponse = errors.New("bulk response is not valid JSON")
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . IClient
type IClient interface {
	// Bulk submits an NDJSON bulk body. An error means the request as a whole
	// failed; item level failures are reported in the response.
	Bulk(ctx context.Context, body []byte) (*BulkResponse, error)
}

type BulkResponse struct {
	Took   int64
	Errors bool
	Items  []BulkItem
}

type BulkItem struct {
	Action      string
	Index       string
	ID          string
	Status      int
	ErrorType   string
	ErrorReason string
}

// Failed reports whether the item was rejected. A delete of a missing
// document is not a failure.
func (i BulkItem) Failed() bool {
	if i.Action == string(types.ActionDelete) && i.Status == 404 && i.ErrorType == "" {
		return false
	}

	return i.Status < 200 || i.Status > 299 || i.ErrorType != ""
}

// TransportError is returned when the bulk endpoint answers with a non-2xx
// status for the whole request.
type TransportError struct {
	Status int
	Body   string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("bulk request failed with status %d: %s", e.Status, e.Body)
}

type actionMeta struct {
	Index string `json:"_index"`
	ID    string `json:"_id"`
}

// EncodeBulk renders operations as an NDJSON bulk body: an action line per
// operation, followed by the document for upserts.
func EncodeBulk(ops []*types.WriteOperation) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)

	for i, op := range ops {
		meta := map[string]actionMeta{
			string(op.Action): {Index: op.Collection, ID: op.ID},
		}

		if err := enc.Encode(meta); err != nil {
			return nil, errors.Wrapf(err, "unable to encode action for operation %d", i)
		}

		if op.Action != types.ActionUpsert {
			continue
		}

		if err := enc.Encode(op.Document); err != nil {
			return nil, errors.Wrapf(err, "unable to encode document for operation %d (id '%s')", i, op.ID)
		}
	}

	return buf.Bytes(), nil
}

// ParseBulkResponse reads the per-item outcome of a bulk call
func ParseBulkResponse(body []byte) (*BulkResponse, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyBody
	}

	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidResponse
	}

	res := gjson.ParseBytes(body)

	resp := &BulkResponse{
		Took:   res.Get("took").Int(),
		Errors: res.Get("errors").Bool(),
		Items:  make([]BulkItem, 0),
	}

	res.Get("items").ForEach(func(_, item gjson.Result) bool {
		// Each item is a single-key object keyed by its action
		item.ForEach(func(action, v gjson.Result) bool {
			resp.Items = append(resp.Items, BulkItem{
				Action:      action.String(),
				Index:       v.Get("_index").String(),
				ID:          v.Get("_id").String(),
				Status:      int(v.Get("status").Int()),
				ErrorType:   v.Get("error.type").String(),
				ErrorReason: v.Get("error.reason").String(),
			})

			return false
		})

		return true
	})

	return resp, nil
}
