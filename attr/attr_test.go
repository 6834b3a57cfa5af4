package attr

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
)

var _ = Describe("Attr", func() {
	Context("Decode", func() {
		It("decodes scalars", func() {
			v, err := Decode(&dynamodb.AttributeValue{S: aws.String("hello")})
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal("hello"))

			v, err = Decode(&dynamodb.AttributeValue{N: aws.String("4.5")})
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(4.5))

			v, err = Decode(&dynamodb.AttributeValue{BOOL: aws.Bool(false)})
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(false))

			v, err = Decode(&dynamodb.AttributeValue{NULL: aws.Bool(true)})
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(BeNil())
		})

		It("decodes sets", func() {
			v, err := Decode(&dynamodb.AttributeValue{SS: aws.StringSlice([]string{"a", "b"})})
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal([]string{"a", "b"}))

			v, err = Decode(&dynamodb.AttributeValue{NS: aws.StringSlice([]string{"1", "2.5"})})
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal([]float64{1, 2.5}))

			v, err = Decode(&dynamodb.AttributeValue{B: []byte("hi")})
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal("aGk="))
		})

		It("decodes nested lists and maps", func() {
			av := &dynamodb.AttributeValue{
				M: map[string]*dynamodb.AttributeValue{
					"tags": {L: []*dynamodb.AttributeValue{
						{S: aws.String("x")},
						{N: aws.String("3")},
					}},
					"owner": {M: map[string]*dynamodb.AttributeValue{
						"name": {S: aws.String("ana")},
					}},
				},
			}

			v, err := Decode(av)
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(map[string]interface{}{
				"tags":  []interface{}{"x", float64(3)},
				"owner": map[string]interface{}{"name": "ana"},
			}))
		})

		It("propagates malformed numbers with the attribute path", func() {
			_, err := DecodeMap(map[string]*dynamodb.AttributeValue{
				"stats": {M: map[string]*dynamodb.AttributeValue{
					"count": {N: aws.String("12abc")},
				}},
			})

			Expect(err).To(HaveOccurred())
			Expect(errors.Cause(err)).To(Equal(ErrInvalidNumber))
			Expect(err.Error()).To(ContainSubstring("stats.count"))
		})

		It("rejects numbers that are not plain decimals", func() {
			for _, n := range []string{"NaN", "Inf", "-Infinity", "0x1p-2", "1_000", "1e400", ""} {
				_, err := Decode(&dynamodb.AttributeValue{N: aws.String(n)})
				Expect(errors.Cause(err)).To(Equal(ErrInvalidNumber), n)
			}

			v, err := Decode(&dynamodb.AttributeValue{N: aws.String("-1.5E3")})
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(-1500.0))
		})

		It("errors on an attribute with no type", func() {
			_, err := Decode(&dynamodb.AttributeValue{})
			Expect(errors.Cause(err)).To(Equal(ErrEmptyAttribute))

			_, err = Decode(nil)
			Expect(errors.Cause(err)).To(Equal(ErrEmptyAttribute))
		})
	})

	Context("Encode", func() {
		It("round trips plain values", func() {
			plain := map[string]interface{}{
				"title":   "Sunny loft",
				"rating":  4.5,
				"active":  true,
				"deleted": nil,
				"photos":  []interface{}{"a.jpg", float64(2)},
				"address": map[string]interface{}{"city": "Lisbon", "floor": float64(3)},
				"labels":  []string{"wifi", "pool"},
				"sizes":   []float64{10, 20.5},
			}

			image, err := EncodeMap(plain)
			Expect(err).ToNot(HaveOccurred())

			decoded, err := DecodeMap(image)
			Expect(err).ToNot(HaveOccurred())
			Expect(decoded).To(Equal(plain))

			again, err := EncodeMap(decoded)
			Expect(err).ToNot(HaveOccurred())
			Expect(again).To(Equal(image))
		})

		It("rejects unsupported types", func() {
			_, err := Encode(struct{}{})
			Expect(errors.Cause(err)).To(Equal(ErrUnsupportedType))
		})
	})
})

var _ = Describe("KeyID", func() {
	It("resolves string and number keys", func() {
		id, err := KeyID(map[string]*dynamodb.AttributeValue{"id": {S: aws.String("abc")}})
		Expect(err).ToNot(HaveOccurred())
		Expect(id).To(Equal("abc"))

		id, err = KeyID(map[string]*dynamodb.AttributeValue{"pk": {N: aws.String("42")}})
		Expect(err).ToNot(HaveOccurred())
		Expect(id).To(Equal("42"))
	})

	It("rejects composite, empty and non-scalar keys", func() {
		_, err := KeyID(map[string]*dynamodb.AttributeValue{
			"pk": {S: aws.String("a")},
			"sk": {S: aws.String("b")},
		})
		Expect(errors.Cause(err)).To(Equal(ErrInvalidKey))

		_, err = KeyID(nil)
		Expect(errors.Cause(err)).To(Equal(ErrInvalidKey))

		_, err = KeyID(map[string]*dynamodb.AttributeValue{"id": {BOOL: aws.Bool(true)}})
		Expect(errors.Cause(err)).To(Equal(ErrInvalidKey))
	})
})
