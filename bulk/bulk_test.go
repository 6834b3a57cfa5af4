package bulk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/batchcorp/searchsync/search"
	"github.com/batchcorp/searchsync/search/searchfakes"
	"github.com/batchcorp/searchsync/types"
	"github.com/batchcorp/searchsync/util"
)

func newOps(n int) []*types.WriteOperation {
	ops := make([]*types.WriteOperation, 0, n)

	for i := 0; i < n; i++ {
		ops = append(ops, &types.WriteOperation{
			Action:     types.ActionUpsert,
			Collection: "listings",
			ID:         fmt.Sprintf("l-%d", i),
			Document:   types.Document{"id": fmt.Sprintf("l-%d", i)},
		})
	}

	return ops
}

func okResponse(ops int) *search.BulkResponse {
	resp := &search.BulkResponse{Items: make([]search.BulkItem, 0, ops)}
	for i := 0; i < ops; i++ {
		resp.Items = append(resp.Items, search.BulkItem{Action: "index", Status: 201})
	}

	return resp
}

func newExecutor(client search.IClient, chunkSize int) *Executor {
	e, err := New(&Config{
		Client:      client,
		ChunkSize:   chunkSize,
		MaxAttempts: 4,
		Concurrency: 2,
		Backoff:     util.BackoffPolicy{Durations: []time.Duration{0}},
	})
	Expect(err).ToNot(HaveOccurred())

	return e
}

var _ = Describe("Bulk", func() {
	Context("New", func() {
		It("requires a client", func() {
			_, err := New(&Config{})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(ErrMissingClient.Error()))
		})

		It("applies defaults", func() {
			e, err := New(&Config{Client: &searchfakes.FakeIClient{}})
			Expect(err).ToNot(HaveOccurred())
			Expect(e.cfg.ChunkSize).To(Equal(DefaultChunkSize))
			Expect(e.cfg.MaxAttempts).To(Equal(DefaultMaxAttempts))
			Expect(e.cfg.Concurrency).To(Equal(DefaultConcurrency))
			Expect(e.cfg.RequestTimeout).To(Equal(DefaultRequestTimeout))
			Expect(e.cfg.Backoff).To(Equal(util.BulkRetryPolicy))
		})
	})

	Context("Chunk", func() {
		It("splits into ceil(n/size) chunks of at most size", func() {
			for _, n := range []int{1, 499, 500, 501, 1200} {
				chunks := Chunk(newOps(n), 500)
				Expect(chunks).To(HaveLen(int(math.Ceil(float64(n) / 500))))

				total := 0
				for _, c := range chunks {
					Expect(len(c)).To(BeNumerically("<=", 500))
					total += len(c)
				}
				Expect(total).To(Equal(n))
			}
		})

		It("returns nothing for no operations", func() {
			Expect(Chunk(nil, 500)).To(BeEmpty())
		})
	})

	Context("Execute", func() {
		It("does not call the client for empty input", func() {
			fake := &searchfakes.FakeIClient{}
			results := newExecutor(fake, 500).Execute(context.Background(), nil)

			Expect(results).To(BeEmpty())
			Expect(fake.BulkCallCount()).To(Equal(0))
		})

		It("sends one request per chunk and reports every operation", func() {
			fake := &searchfakes.FakeIClient{}
			fake.BulkStub = func(_ context.Context, _ []byte) (*search.BulkResponse, error) {
				return okResponse(2), nil
			}

			e := newExecutor(fake, 2)
			results := e.Execute(context.Background(), newOps(5))

			Expect(fake.BulkCallCount()).To(Equal(3))
			Expect(e.Requests()).To(Equal(int64(3)))
			Expect(results).To(HaveLen(5))

			ids := make([]string, 0)
			for _, r := range results {
				Expect(r.Success).To(BeTrue())
				ids = append(ids, r.RecordID)
			}
			Expect(ids).To(ConsistOf("l-0", "l-1", "l-2", "l-3", "l-4"))
		})

		It("fails a chunk whose client panics without failing the others", func() {
			fake := &searchfakes.FakeIClient{}
			fake.BulkStub = func(_ context.Context, body []byte) (*search.BulkResponse, error) {
				if bytes.Contains(body, []byte(`"l-0"`)) {
					panic("connection pool corrupted")
				}

				return okResponse(2), nil
			}

			results := newExecutor(fake, 2).Execute(context.Background(), newOps(4))

			Expect(results).To(HaveLen(4))

			failed := 0
			for _, r := range results {
				if !r.Success {
					failed++
					Expect(r.Err.Stage).To(Equal(types.StageTransport))
					Expect(r.Error()).To(ContainSubstring("connection pool corrupted"))
				}
			}

			Expect(failed).To(Equal(2))
		})

		It("retries failed requests and reports the retry count", func() {
			fake := &searchfakes.FakeIClient{}
			fake.BulkReturnsOnCall(0, nil, errors.New("connection reset"))
			fake.BulkReturnsOnCall(1, nil, &search.TransportError{Status: 503})
			fake.BulkReturnsOnCall(2, okResponse(3), nil)

			results := newExecutor(fake, 500).Execute(context.Background(), newOps(3))

			Expect(fake.BulkCallCount()).To(Equal(3))
			Expect(results).To(HaveLen(3))

			for _, r := range results {
				Expect(r.Success).To(BeTrue())
				Expect(r.RetryCount).To(Equal(2))
			}
		})

		It("fails the whole chunk once attempts are exhausted", func() {
			fake := &searchfakes.FakeIClient{}
			fake.BulkReturns(nil, &search.TransportError{Status: 429, Body: "too many requests"})

			results := newExecutor(fake, 500).Execute(context.Background(), newOps(3))

			Expect(fake.BulkCallCount()).To(Equal(4))
			Expect(results).To(HaveLen(3))

			for _, r := range results {
				Expect(r.Success).To(BeFalse())
				Expect(r.RetryCount).To(Equal(4))
				Expect(r.Err.Stage).To(Equal(types.StageTransport))
				Expect(r.Error()).To(ContainSubstring("429"))
			}
		})

		It("reconciles item failures by position without retrying", func() {
			resp := okResponse(5)
			resp.Errors = true
			resp.Items[1] = search.BulkItem{Action: "index", ID: "l-1", Status: 400,
				ErrorType: "mapper_parsing_exception", ErrorReason: "failed to parse field [rating]"}
			resp.Items[3] = search.BulkItem{Action: "index", ID: "l-3", Status: 429,
				ErrorType: "es_rejected_execution_exception"}

			fake := &searchfakes.FakeIClient{}
			fake.BulkReturns(resp, nil)

			results := newExecutor(fake, 500).Execute(context.Background(), newOps(5))

			Expect(fake.BulkCallCount()).To(Equal(1))
			Expect(results).To(HaveLen(5))

			failed := 0
			for i, r := range results {
				if i == 1 || i == 3 {
					Expect(r.Success).To(BeFalse())
					Expect(r.Err.Stage).To(Equal(types.StageItem))
					failed++
					continue
				}
				Expect(r.Success).To(BeTrue())
			}
			Expect(failed).To(Equal(2))

			Expect(results[1].RecordID).To(Equal("l-1"))
			Expect(results[1].Err.Status).To(Equal(400))
			Expect(results[1].Err.Type).To(Equal("mapper_parsing_exception"))
			Expect(results[1].Err.Reason).To(Equal("failed to parse field [rating]"))
		})

		It("treats a delete of a missing document as success", func() {
			ops := []*types.WriteOperation{
				{Action: types.ActionDelete, Collection: "listings", ID: "gone"},
			}

			fake := &searchfakes.FakeIClient{}
			fake.BulkReturns(&search.BulkResponse{
				Errors: true,
				Items:  []search.BulkItem{{Action: "delete", ID: "gone", Status: 404}},
			}, nil)

			results := newExecutor(fake, 500).Execute(context.Background(), ops)
			Expect(results).To(HaveLen(1))
			Expect(results[0].Success).To(BeTrue())
		})

		It("fails operations missing from a short response", func() {
			fake := &searchfakes.FakeIClient{}
			fake.BulkReturns(&search.BulkResponse{
				Errors: true,
				Items:  []search.BulkItem{{Action: "index", ID: "l-0", Status: 201}},
			}, nil)

			results := newExecutor(fake, 500).Execute(context.Background(), newOps(2))
			Expect(results).To(HaveLen(2))
			Expect(results[0].Success).To(BeTrue())
			Expect(results[1].Success).To(BeFalse())
			Expect(results[1].RecordID).To(Equal("l-1"))
			Expect(errors.Is(results[1].Err, ErrMissingItem)).To(BeTrue())
		})

		It("isolates operations whose document cannot be encoded", func() {
			ops := newOps(2)
			ops[0].Document["bad"] = make(chan int)

			fake := &searchfakes.FakeIClient{}
			fake.BulkReturns(okResponse(1), nil)

			results := newExecutor(fake, 500).Execute(context.Background(), ops)
			Expect(results).To(HaveLen(2))
			Expect(fake.BulkCallCount()).To(Equal(1))

			Expect(results[0].RecordID).To(Equal("l-0"))
			Expect(results[0].Success).To(BeFalse())
			Expect(results[0].Err.Stage).To(Equal(types.StageBuild))
			Expect(results[1].Success).To(BeTrue())
		})

		It("synthesizes an id when neither the operation nor the response has one", func() {
			ops := newOps(1)
			ops[0].ID = ""

			fake := &searchfakes.FakeIClient{}
			fake.BulkReturns(okResponse(1), nil)

			results := newExecutor(fake, 500).Execute(context.Background(), ops)
			Expect(results[0].RecordID).To(Equal("chunk-0-item-0"))
		})
	})
})
