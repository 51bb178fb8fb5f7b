package environment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tmpllc001/focusmetrics/internal/domain"
	"github.com/tmpllc001/focusmetrics/internal/ports"
)

const (
	bucketCap      = 100
	recordCap      = 500
	heatmapWindow  = 200
	persistTimeout = 5 * time.Second

	hourMinSamples    = 3
	hourThreshold     = 70.0
	weekdayMinSamples = 2
	weekdayThreshold  = 65.0
)

// perfRecord is one finalized session's performance with its calendar tag.
type perfRecord struct {
	Time        time.Time             `json:"time"`
	Performance float64               `json:"performance"`
	Tag         domain.EnvironmentTag `json:"tag"`
}

// Correlator tags sessions with calendar context and maintains rolling
// performance-by-bucket maps for optimal-time detection.
type Correlator struct {
	mu     sync.Mutex
	clock  func() time.Time
	store  ports.SnapshotStore
	logger ports.Logger

	hours    map[int][]float64
	weekdays map[time.Weekday][]float64
	months   map[time.Month][]float64
	records  []perfRecord
}

// NewCorrelator builds a correlator and loads its persisted snapshot.
func NewCorrelator(store ports.SnapshotStore, logger ports.Logger) *Correlator {
	c := &Correlator{
		clock:    time.Now,
		store:    store,
		logger:   logger,
		hours:    make(map[int][]float64),
		weekdays: make(map[time.Weekday][]float64),
		months:   make(map[time.Month][]float64),
	}
	var doc snapshotDocument
	if err := store.Load(context.Background(), ports.SnapshotEnvironment, &doc); err == nil {
		if doc.Hours != nil {
			c.hours = doc.Hours
		}
		if doc.Weekdays != nil {
			c.weekdays = doc.Weekdays
		}
		if doc.Months != nil {
			c.months = doc.Months
		}
		c.records = doc.Records
	} else if logger != nil {
		logger.Debug(fmt.Sprintf("no environment snapshot loaded: %v", err))
	}
	return c
}

// SessionEnded folds a finalized record into the bucket maps. Bucket
// value lists are capped with oldest-first eviction.
func (c *Correlator) SessionEnded(rec domain.SessionRecord) {
	if !rec.Finalized {
		return
	}
	perf := rec.Performance()
	tag := rec.Environment

	c.mu.Lock()
	c.hours[tag.Hour] = appendCapped(c.hours[tag.Hour], perf)
	c.weekdays[tag.Weekday] = appendCapped(c.weekdays[tag.Weekday], perf)
	c.months[tag.Month] = appendCapped(c.months[tag.Month], perf)
	c.records = append(c.records, perfRecord{Time: rec.StartTime, Performance: perf, Tag: tag})
	if len(c.records) > recordCap {
		c.records = c.records[len(c.records)-recordCap:]
	}
	doc := c.snapshotLocked()
	c.mu.Unlock()

	go c.persist(doc)
}

func appendCapped(vs []float64, v float64) []float64 {
	vs = append(vs, v)
	if len(vs) > bucketCap {
		vs = vs[len(vs)-bucketCap:]
	}
	return vs
}

// OptimalWindow is the best-performing recurring time slot found so far.
type OptimalWindow struct {
	Kind    string       `json:"kind"` // "hour" or "weekday"
	Hour    int          `json:"hour,omitempty"`
	Weekday time.Weekday `json:"weekday,omitempty"`
	Mean    float64      `json:"mean"`
	Samples int          `json:"samples"`

	Insufficient *domain.InsufficientData `json:"insufficient,omitempty"`
}

// DetectOptimalWindow returns the top qualifying time slot: hours need at
// least three samples with mean above 70, weekdays two samples above 65.
func (c *Correlator) DetectOptimalWindow() OptimalWindow {
	c.mu.Lock()
	defer c.mu.Unlock()

	best := OptimalWindow{}
	for hour, vs := range c.hours {
		if len(vs) < hourMinSamples {
			continue
		}
		m := mean(vs)
		if m > hourThreshold && m > best.Mean {
			best = OptimalWindow{Kind: "hour", Hour: hour, Mean: m, Samples: len(vs)}
		}
	}
	if best.Kind != "" {
		return best
	}
	for wd, vs := range c.weekdays {
		if len(vs) < weekdayMinSamples {
			continue
		}
		m := mean(vs)
		if m > weekdayThreshold && m > best.Mean {
			best = OptimalWindow{Kind: "weekday", Weekday: wd, Mean: m, Samples: len(vs)}
		}
	}
	if best.Kind != "" {
		return best
	}
	return OptimalWindow{Insufficient: &domain.InsufficientData{
		Required: hourMinSamples,
		Actual:   len(c.records),
		What:     "qualifying sessions",
	}}
}

// Insights summarizes when the user performs best.
type Insights struct {
	LookbackDays   int                `json:"lookback_days"`
	Sessions       int                `json:"sessions"`
	BestTimePeriod domain.TimePeriod  `json:"best_time_period,omitempty"`
	BestPeriodMean float64            `json:"best_period_mean,omitempty"`
	WeekdayMean    float64            `json:"weekday_mean"`
	WeekendMean    float64            `json:"weekend_mean"`
	Recommendation string             `json:"recommendation,omitempty"`

	Insufficient *domain.InsufficientData `json:"insufficient,omitempty"`
}

// GetInsights analyzes the lookback window for best time-of-day bucket
// and weekday-versus-weekend performance.
func (c *Correlator) GetInsights(lookbackDays int) Insights {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	cutoff := c.clock().AddDate(0, 0, -lookbackDays)

	c.mu.Lock()
	var recent []perfRecord
	for _, r := range c.records {
		if r.Time.After(cutoff) {
			recent = append(recent, r)
		}
	}
	c.mu.Unlock()

	out := Insights{LookbackDays: lookbackDays, Sessions: len(recent)}
	if len(recent) == 0 {
		out.Insufficient = &domain.InsufficientData{Required: 1, Actual: 0, What: "sessions in window"}
		return out
	}

	byPeriod := make(map[domain.TimePeriod][]float64)
	var weekday, weekend []float64
	for _, r := range recent {
		byPeriod[r.Tag.TimePeriod] = append(byPeriod[r.Tag.TimePeriod], r.Performance)
		if r.Tag.IsWeekend {
			weekend = append(weekend, r.Performance)
		} else {
			weekday = append(weekday, r.Performance)
		}
	}

	for period, vs := range byPeriod {
		if m := mean(vs); m > out.BestPeriodMean {
			out.BestTimePeriod = period
			out.BestPeriodMean = m
		}
	}
	out.WeekdayMean = mean(weekday)
	out.WeekendMean = mean(weekend)

	diff := out.WeekdayMean - out.WeekendMean
	switch {
	case len(weekday) > 0 && len(weekend) > 0 && diff > 10:
		out.Recommendation = fmt.Sprintf("Weekday sessions run %.0f points stronger; keep demanding work on weekdays.", diff)
	case len(weekday) > 0 && len(weekend) > 0 && diff < -10:
		out.Recommendation = fmt.Sprintf("Weekend sessions run %.0f points stronger; protect that weekend time.", -diff)
	case out.BestTimePeriod != "":
		out.Recommendation = fmt.Sprintf("Performance peaks in the %s; schedule demanding work there.", out.BestTimePeriod)
	}
	return out
}

// HeatmapCell is the mean performance for one (weekday, hour) slot.
type HeatmapCell struct {
	Weekday time.Weekday `json:"weekday"`
	Hour    int          `json:"hour"`
	Mean    float64      `json:"mean"`
	Samples int          `json:"samples"`
}

// Heatmap computes (weekday, hour) means over the most recent records,
// reporting only slots with at least two samples.
func (c *Correlator) Heatmap() []HeatmapCell {
	c.mu.Lock()
	recent := c.records
	if len(recent) > heatmapWindow {
		recent = recent[len(recent)-heatmapWindow:]
	}
	recent = append([]perfRecord(nil), recent...)
	c.mu.Unlock()

	type key struct {
		wd   time.Weekday
		hour int
	}
	sums := make(map[key]float64)
	counts := make(map[key]int)
	for _, r := range recent {
		k := key{r.Tag.Weekday, r.Tag.Hour}
		sums[k] += r.Performance
		counts[k]++
	}

	var cells []HeatmapCell
	for k, n := range counts {
		if n < 2 {
			continue
		}
		cells = append(cells, HeatmapCell{
			Weekday: k.wd,
			Hour:    k.hour,
			Mean:    sums[k] / float64(n),
			Samples: n,
		})
	}
	return cells
}

func (c *Correlator) snapshotLocked() snapshotDocument {
	doc := snapshotDocument{
		Hours:     make(map[int][]float64, len(c.hours)),
		Weekdays:  make(map[time.Weekday][]float64, len(c.weekdays)),
		Months:    make(map[time.Month][]float64, len(c.months)),
		Records:   append([]perfRecord(nil), c.records...),
		UpdatedAt: c.clock(),
	}
	for k, v := range c.hours {
		doc.Hours[k] = append([]float64(nil), v...)
	}
	for k, v := range c.weekdays {
		doc.Weekdays[k] = append([]float64(nil), v...)
	}
	for k, v := range c.months {
		doc.Months[k] = append([]float64(nil), v...)
	}
	return doc
}

func (c *Correlator) persist(doc snapshotDocument) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := c.store.Save(ctx, ports.SnapshotEnvironment, doc); err != nil && c.logger != nil {
		c.logger.Error(fmt.Sprintf("failed to persist environment snapshot: %v", err))
	}
}

type snapshotDocument struct {
	Hours     map[int][]float64          `json:"hours"`
	Weekdays  map[time.Weekday][]float64 `json:"weekdays"`
	Months    map[time.Month][]float64   `json:"months"`
	Records   []perfRecord               `json:"records"`
	UpdatedAt time.Time                  `json:"last_updated"`
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
