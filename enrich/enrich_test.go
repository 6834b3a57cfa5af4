package enrich

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/batchcorp/searchsync/types"
)

var _ = Describe("Enricher", func() {
	var (
		e   *Enricher
		now time.Time
	)

	BeforeEach(func() {
		now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
		e = New()
		e.Now = func() time.Time { return now }
	})

	Context("Enrich", func() {
		It("never mutates its input", func() {
			in := types.Document{"id": "1", "rating": 4.0}

			out := e.Enrich(in, "listings")

			Expect(in).To(Equal(types.Document{"id": "1", "rating": 4.0}))
			Expect(out).To(HaveKey("score"))
		})

		It("only stamps lastSyncedAt for unregistered collections", func() {
			out := e.Enrich(types.Document{"id": "1", "lastSyncedAt": "old"}, "reviews")

			Expect(out).To(Equal(types.Document{
				"id":           "1",
				"lastSyncedAt": "2024-03-15T12:00:00.000Z",
			}))
		})

		It("uses registered enrichers", func() {
			e.Register("reviews", func(_ *Enricher, out types.Document) {
				out["lastSyncedAt"] = "overwritten later"
				out["custom"] = true
			})

			out := e.Enrich(types.Document{"id": "1"}, "reviews")
			Expect(out["custom"]).To(BeTrue())
			Expect(out["lastSyncedAt"]).To(Equal("2024-03-15T12:00:00.000Z"))
		})
	})

	Context("listings", func() {
		It("computes the popularity score", func() {
			out := e.Enrich(types.Document{
				"id":          "1",
				"rating":      4.5,
				"reviewCount": float64(20),
				"createdAt":   now.Add(-30 * 24 * time.Hour).Format(time.RFC3339),
			}, "listings")

			want := (4.5 * math.Log(21)) / math.Log(31)
			Expect(out["score"]).To(BeNumerically("~", want, 0.01))
			Expect(out["score"]).To(BeNumerically("~", 3.73, 0.01))
		})

		It("scores zero without rating or reviews", func() {
			out := e.Enrich(types.Document{"id": "1"}, "listings")
			Expect(out["score"]).To(BeNumerically("==", 0))
		})

		It("treats a missing createdAt as a year old", func() {
			score, err := ListingScore(types.Document{"rating": 5.0, "reviewCount": 9.0}, now)
			Expect(err).ToNot(HaveOccurred())
			Expect(score).To(BeNumerically("~", 5*math.Log(10)/math.Log(366), 1e-9))
		})

		It("accepts epoch creation times and clamps age to one day", func() {
			score, err := ListingScore(types.Document{
				"rating":      2.0,
				"reviewCount": 1.0,
				"createdAt":   float64(now.Unix()),
			}, now)
			Expect(err).ToNot(HaveOccurred())
			Expect(score).To(BeNumerically("~", 2*math.Log(2)/math.Log(2), 1e-9))
		})

		It("omits the score but keeps other fields when rating is malformed", func() {
			out := e.Enrich(types.Document{
				"id":     "1",
				"rating": []string{"bad"},
				"title":  "Cozy Cabin by the lake",
			}, "listings")

			Expect(out).ToNot(HaveKey("score"))
			Expect(out["tags"]).To(Equal([]string{"cabin", "cozy", "lake", "the"}))
			Expect(out).To(HaveKey("lastSyncedAt"))
		})

		It("omits a score that is not a finite number", func() {
			out := e.Enrich(types.Document{
				"id":          "1",
				"rating":      4.5,
				"reviewCount": -1.0,
				"title":       "Harbour view flat",
			}, "listings")

			Expect(out).ToNot(HaveKey("score"))
			Expect(out["tags"]).To(Equal([]string{"flat", "harbour", "view"}))

			out = e.Enrich(types.Document{"id": "1", "rating": 0.0, "reviewCount": -1.0}, "listings")
			Expect(out).ToNot(HaveKey("score"))
			Expect(out).To(HaveKey("lastSyncedAt"))
		})

		It("derives de-duplicated tags from title and category", func() {
			tags, err := ListingTags(types.Document{
				"title":    "Loft loft in the Old Town",
				"category": "Apartment",
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(tags).To(Equal([]string{"apartment", "loft", "old", "the", "town"}))
		})
	})

	Context("events", func() {
		It("derives time buckets from startTime", func() {
			out := e.Enrich(types.Document{
				"id":        "b1",
				"startTime": "2024-03-17T09:30:00Z",
			}, "events")

			Expect(out["dayOfWeek"]).To(Equal(0))
			Expect(out["monthOfYear"]).To(Equal(3))
			Expect(out["hourOfDay"]).To(Equal(9))
			Expect(out["timeSlot"]).To(Equal("9:00-10:00"))
		})

		It("skips buckets without a start time", func() {
			out := e.Enrich(types.Document{"id": "b1"}, "events")
			Expect(out).ToNot(HaveKey("timeSlot"))
		})

		It("skips buckets for an unparsable start time", func() {
			out := e.Enrich(types.Document{"id": "b1", "startTime": "tomorrow"}, "events")
			Expect(out).ToNot(HaveKey("dayOfWeek"))
			Expect(out).To(HaveKey("lastSyncedAt"))
		})
	})

	Context("actors", func() {
		It("flags providers with completed activity", func() {
			out := e.Enrich(types.Document{
				"id":                "u1",
				"role":              "provider",
				"completedSessions": float64(3),
			}, "actors")
			Expect(out["hasActivity"]).To(BeTrue())

			out = e.Enrich(types.Document{"id": "u2", "role": "host"}, "actors")
			Expect(out["hasActivity"]).To(BeFalse())
		})

		It("ignores non-providers", func() {
			out := e.Enrich(types.Document{"id": "u1", "role": "guest", "completedBookings": 4.0}, "actors")
			Expect(out).ToNot(HaveKey("hasActivity"))
		})
	})
})
