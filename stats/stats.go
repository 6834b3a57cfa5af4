// Singleton so that it's easier to use in other packages
package stats

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/relistan/go-director"
	"github.com/sirupsen/logrus"
)

const DefaultReportInterval = 10 * time.Second

var (
	mutex    = &sync.Mutex{}
	counters = make(map[string]int)
	log      = logrus.WithField("pkg", "stats")
)

// Start logs and resets every counter once per interval until ctx is done
func Start(ctx context.Context, reportInterval time.Duration) {
	if reportInterval <= 0 {
		reportInterval = DefaultReportInterval
	}

	looper := director.NewTimedLooper(director.FOREVER, reportInterval, make(chan error, 1))

	log.Debug("Launching stats reporter")

	go func() {
		<-ctx.Done()
		looper.Quit()
	}()

	go looper.Loop(func() error {
		report(reportInterval)
		return nil
	})
}

func report(interval time.Duration) {
	snapshot := Reset()

	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		value := snapshot[name]

		log.WithFields(logrus.Fields{
			"counter":   name,
			"perSecond": PerSecond(value, interval),
		}).Infof("STATS [%s]: %d / %s", name, value, interval)
	}
}

// PerSecond returns the rate of value over interval
func PerSecond(value int, interval time.Duration) float64 {
	if interval <= 0 {
		return 0
	}

	return float64(value) / interval.Seconds()
}

func Incr(name string, value int) {
	if value == 0 {
		return
	}

	mutex.Lock()
	defer mutex.Unlock()

	counters[name] += value
}

// Reset returns the current counter values and zeroes them
func Reset() map[string]int {
	mutex.Lock()
	defer mutex.Unlock()

	snapshot := make(map[string]int, len(counters))

	for name, value := range counters {
		snapshot[name] = value
		counters[name] = 0
	}

	return snapshot
}
