// Package enrich computes derived, collection-specific fields for documents
// before they are written to the search index.
package enrich

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/batchcorp/searchsync/types"
)

const (
	LastSyncedAtField = "lastSyncedAt"

	// Used when a listing has no creation time
	DefaultListingAgeDays = 365.0
)

var (
	ErrFieldMissing = errors.New("field missing")
	ErrFieldType    = errors.New("unexpected field type")
	ErrNotFinite    = errors.New("derived value is not a finite number")
)

// Func derives fields for a single collection by writing into out. Field
// level failures should go through Enricher.Derive.
type Func func(e *Enricher, out types.Document)

type Enricher struct {
	// Now is the clock used for age and freshness fields
	Now func() time.Time

	mtx       *sync.RWMutex
	enrichers map[string]Func
	log       *logrus.Entry
}

// New returns an Enricher with the listings, events and actors rules registered
func New() *Enricher {
	e := &Enricher{
		Now:       time.Now,
		mtx:       &sync.RWMutex{},
		enrichers: make(map[string]Func),
		log:       logrus.WithField("pkg", "enrich"),
	}

	e.Register("listings", enrichListing)
	e.Register("events", enrichEvent)
	e.Register("actors", enrichActor)

	return e
}

// Register adds or replaces the enricher for a collection
func (e *Enricher) Register(collection string, fn Func) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	e.enrichers[collection] = fn
}

// Enrich returns an augmented copy of doc. The input is never modified and
// enrichment never fails; lastSyncedAt is always stamped last.
func (e *Enricher) Enrich(doc types.Document, collection string) types.Document {
	out := doc.Copy()

	e.mtx.RLock()
	fn, ok := e.enrichers[collection]
	e.mtx.RUnlock()

	if ok {
		fn(e, out)
	}

	out[LastSyncedAtField] = e.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00")

	return out
}

// Derive runs a single field derivation; on error the field is left unset.
// NaN and infinite numbers count as errors since they cannot be indexed.
func (e *Enricher) Derive(out types.Document, field string, fn func() (interface{}, error)) {
	v, err := fn()
	if f, ok := v.(float64); ok && err == nil && (math.IsNaN(f) || math.IsInf(f, 0)) {
		err = errors.Wrapf(ErrNotFinite, "%v", f)
	}

	if err != nil {
		e.log.WithFields(logrus.Fields{
			"field": field,
			"id":    out["id"],
		}).Debugf("skipping enrichment field: %s", err)
		return
	}

	out[field] = v
}

func enrichListing(e *Enricher, out types.Document) {
	e.Derive(out, "score", func() (interface{}, error) {
		return ListingScore(out, e.Now())
	})

	e.Derive(out, "tags", func() (interface{}, error) {
		return ListingTags(out)
	})
}

// ListingScore ranks a listing by rating, review volume and age:
//
//	score = rating * ln(reviewCount+1) / ln(max(1, ageInDays)+1)
func ListingScore(doc types.Document, now time.Time) (float64, error) {
	rating, err := numberOr(doc, "rating", 0)
	if err != nil {
		return 0, err
	}

	reviews, err := numberOr(doc, "reviewCount", 0)
	if err != nil {
		return 0, err
	}

	age := DefaultListingAgeDays

	if v, ok := doc["createdAt"]; ok && v != nil {
		created, err := timeField(doc, "createdAt")
		if err != nil {
			return 0, err
		}

		age = math.Max(1, now.Sub(created).Hours()/24)
	}

	return (rating * math.Log(reviews+1)) / math.Log(math.Max(1, age)+1), nil
}

// ListingTags derives lower-cased, de-duplicated search tags from the title
// (tokens longer than 2 characters) and the category.
func ListingTags(doc types.Document) ([]string, error) {
	seen := make(map[string]struct{})

	if title, ok := doc["title"].(string); ok {
		for _, token := range strings.Fields(strings.ToLower(title)) {
			if len(token) > 2 {
				seen[token] = struct{}{}
			}
		}
	}

	if category, ok := doc["category"].(string); ok && category != "" {
		seen[strings.ToLower(category)] = struct{}{}
	}

	if len(seen) == 0 {
		return nil, errors.Wrap(ErrFieldMissing, "no title or category")
	}

	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}

	sort.Strings(tags)

	return tags, nil
}

func enrichEvent(e *Enricher, out types.Document) {
	if v, ok := out["startTime"]; !ok || v == nil {
		return
	}

	start, err := timeField(out, "startTime")
	if err != nil {
		e.log.WithField("id", out["id"]).Debugf("skipping time bucket fields: %s", err)
		return
	}

	start = start.UTC()

	out["dayOfWeek"] = int(start.Weekday())
	out["monthOfYear"] = int(start.Month())
	out["hourOfDay"] = start.Hour()
	out["timeSlot"] = TimeSlot(start.Hour())
}

// TimeSlot returns an hour-granularity label such as "9:00-10:00"
func TimeSlot(hour int) string {
	return strconv.Itoa(hour) + ":00-" + strconv.Itoa(hour+1) + ":00"
}

var (
	providerRoles    = map[string]bool{"provider": true, "host": true}
	activityCounters = []string{"completedBookings", "completedSessions", "completedOrders"}
)

func enrichActor(e *Enricher, out types.Document) {
	role, _ := out["role"].(string)
	if !providerRoles[strings.ToLower(role)] {
		return
	}

	e.Derive(out, "hasActivity", func() (interface{}, error) {
		for _, counter := range activityCounters {
			n, err := numberOr(out, counter, 0)
			if err != nil {
				return nil, err
			}

			if n > 0 {
				return true, nil
			}
		}

		return false, nil
	})
}

func numberOr(doc types.Document, field string, def float64) (float64, error) {
	v, ok := doc[field]
	if !ok || v == nil {
		return def, nil
	}

	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, errors.Wrapf(ErrFieldType, "%s: %s", field, err)
		}
		return f, nil
	}

	return 0, errors.Wrapf(ErrFieldType, "%s is %T", field, v)
}

// timeField accepts RFC3339 strings or epoch seconds / milliseconds
func timeField(doc types.Document, field string) (time.Time, error) {
	switch t := doc[field].(type) {
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}, errors.Wrapf(ErrFieldType, "%s: %s", field, err)
		}
		return parsed, nil
	case float64:
		return epoch(int64(t)), nil
	case int64:
		return epoch(t), nil
	case int:
		return epoch(int64(t)), nil
	case nil:
		return time.Time{}, errors.Wrap(ErrFieldMissing, field)
	}

	return time.Time{}, errors.Wrapf(ErrFieldType, "%s is %T", field, doc[field])
}

// Values above this are treated as milliseconds (year 33658 in seconds)
const epochMillisThreshold = 1e12

func epoch(v int64) time.Time {
	if v >= epochMillisThreshold {
		return time.UnixMilli(v)
	}

	return time.Unix(v, 0)
}
