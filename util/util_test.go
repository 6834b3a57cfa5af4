package util

import (
	"bytes"
	"compress/gzip"
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Utility Package", func() {
	Context("DerefString", func() {
		It("handles nil", func() {
			Expect(DerefString(nil)).To(Equal(""))
			Expect(DerefString(aws.String("x"))).To(Equal("x"))
		})
	})

	Context("MaybeGunzip", func() {
		It("passes plain data through", func() {
			out, err := MaybeGunzip([]byte(`{"a":1}`))
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal([]byte(`{"a":1}`)))
		})

		It("decompresses gzip data", func() {
			var b bytes.Buffer
			gz := gzip.NewWriter(&b)
			_, err := gz.Write([]byte(`{"a":1}`))
			Expect(err).ToNot(HaveOccurred())
			Expect(gz.Close()).To(Succeed())

			out, err := MaybeGunzip(b.Bytes())
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal([]byte(`{"a":1}`)))
		})

		It("errors on a truncated gzip stream", func() {
			_, err := MaybeGunzip([]byte{0x1f, 0x8b, 0x00})
			Expect(err).To(HaveOccurred())
		})
	})

	Context("BackoffPolicy", func() {
		It("repeats the last duration", func() {
			Expect(BulkRetryPolicy.Duration(0)).To(Equal(100 * time.Millisecond))
			Expect(BulkRetryPolicy.Duration(2)).To(Equal(500 * time.Millisecond))
			Expect(BulkRetryPolicy.Duration(10)).To(Equal(time.Second))
			Expect(BackoffPolicy{}.Duration(3)).To(Equal(time.Duration(0)))
		})

		It("stops waiting when the context is done", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := BackoffPolicy{[]time.Duration{time.Hour}}.Wait(ctx, 0)
			Expect(err).To(Equal(context.Canceled))
		})
	})
})
