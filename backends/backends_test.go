package backends

import (
	"bytes"
	"compress/gzip"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

const record = `{
	"eventID": "1",
	"eventName": "INSERT",
	"eventSourceARN": "arn:aws:dynamodb:us-east-1:123:table/Listings/stream/2024",
	"dynamodb": {
		"Keys": {"id": {"S": "l-1"}},
		"NewImage": {"id": {"S": "l-1"}, "rating": {"N": "4"}, "tags": {"SS": ["a", "b"]}}
	}
}`

var _ = Describe("Backends", func() {
	Context("DecodeRecords", func() {
		It("decodes a stream event", func() {
			records, err := DecodeRecords([]byte(`{"Records": [` + record + `,` + record + `]}`))
			Expect(err).ToNot(HaveOccurred())
			Expect(records).To(HaveLen(2))
			Expect(records[0].EventName).To(Equal("INSERT"))
			Expect(*records[0].Change.Keys["id"].S).To(Equal("l-1"))
			Expect(*records[0].Change.NewImage["rating"].N).To(Equal("4"))
			Expect(records[0].Change.NewImage["tags"].SS).To(HaveLen(2))
		})

		It("decodes an array and a single record", func() {
			records, err := DecodeRecords([]byte(`[` + record + `]`))
			Expect(err).ToNot(HaveOccurred())
			Expect(records).To(HaveLen(1))

			records, err = DecodeRecords([]byte(record))
			Expect(err).ToNot(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].EventID).To(Equal("1"))
		})

		It("decodes gzipped payloads", func() {
			buf := &bytes.Buffer{}
			w := gzip.NewWriter(buf)
			_, err := w.Write([]byte(record))
			Expect(err).ToNot(HaveOccurred())
			Expect(w.Close()).To(Succeed())

			records, err := DecodeRecords(buf.Bytes())
			Expect(err).ToNot(HaveOccurred())
			Expect(records).To(HaveLen(1))
		})

		It("rejects empty and malformed payloads", func() {
			_, err := DecodeRecords([]byte("  "))
			Expect(err).To(Equal(ErrEmptyPayload))

			_, err = DecodeRecords([]byte(`{"Records": []}`))
			Expect(err).To(Equal(ErrNoRecords))

			_, err = DecodeRecords([]byte(`{not json`))
			Expect(err).To(HaveOccurred())
		})
	})
})
