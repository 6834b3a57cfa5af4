package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
)

var _ = Describe("Config", func() {
	Context("Load", func() {
		It("returns defaults for an empty path", func() {
			cfg, err := Load("")
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg).To(Equal(Defaults()))
			Expect(cfg.Bulk.BackoffDurations()).To(Equal([]time.Duration{
				100 * time.Millisecond,
				200 * time.Millisecond,
				500 * time.Millisecond,
				time.Second,
			}))
		})

		It("reads a file and fills in unset values", func() {
			dir, err := ioutil.TempDir("", "searchsync-config")
			Expect(err).ToNot(HaveOccurred())
			defer os.RemoveAll(dir)

			path := filepath.Join(dir, "searchsync.yaml")
			Expect(ioutil.WriteFile(path, []byte(`
collections:
  Listings: listings-v2
bulk:
  chunk_size: 250
  request_timeout: 10s
relay:
  flush_interval: 1s
`), 0600)).To(Succeed())

			Expect(Exists(path)).To(BeTrue())

			cfg, err := Load(path)
			Expect(err).ToNot(HaveOccurred())

			Expect(cfg.Collections).To(Equal(CollectionMapping{"Listings": "listings-v2"}))
			Expect(cfg.Bulk.ChunkSize).To(Equal(250))
			Expect(cfg.Bulk.RequestTimeout).To(Equal(Duration(10 * time.Second)))
			Expect(cfg.Bulk.MaxAttempts).To(Equal(DefaultMaxAttempts))
			Expect(cfg.Bulk.Backoff).To(Equal(DefaultBackoff))
			Expect(cfg.Relay.FlushInterval).To(Equal(Duration(time.Second)))
			Expect(cfg.Relay.BatchSize).To(Equal(DefaultBatchSize))
		})

		It("errors on a missing file", func() {
			_, err := Load("/does/not/exist.yaml")
			Expect(err).To(HaveOccurred())
		})

		It("rejects bad durations", func() {
			_, err := Parse([]byte("bulk:\n  request_timeout: soon\n"))
			Expect(err).To(HaveOccurred())
		})

		It("validates chunk size", func() {
			_, err := Parse([]byte("bulk:\n  chunk_size: 20000\n"))
			Expect(errors.Cause(err)).To(Equal(ErrInvalidChunkSize))
		})
	})

	Context("CollectionMapping", func() {
		It("looks up collections", func() {
			m := CollectionMapping{"Listings": "listings", "Audit": ""}

			c, ok := m.Collection("Listings")
			Expect(ok).To(BeTrue())
			Expect(c).To(Equal("listings"))

			_, ok = m.Collection("Audit")
			Expect(ok).To(BeFalse())

			_, ok = m.Collection("Payments")
			Expect(ok).To(BeFalse())
		})
	})
})
