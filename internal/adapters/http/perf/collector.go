package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// Kind distinguishes HTTP requests from store queries.
type Kind uint8

const (
	KindRequest Kind = iota
	KindQuery
)

// Entry is a single timing sample.
type Entry struct {
	Kind       Kind
	Label      string // "GET /attendance/daily-report" or "SELECT attendance"
	StatusCode int    // 0 for queries
	Failed     bool
	DurationMs float64
	Timestamp  time.Time
}

// Collector keeps the most recent samples in a fixed ring.
// Record never blocks on aggregation; Snapshot does the work on read.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	pos     int
	count   atomic.Int64
}

// NewCollector creates a collector holding up to size samples.
// PRE: size > 0 (non-positive means DefaultRingSize)
// POST: Returns a ready-to-use collector
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{entries: make([]Entry, size)}
}

// Record stores a sample, overwriting the oldest once full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % len(c.entries)
	c.mu.Unlock()
	c.count.Add(1)
}

// TotalRecorded returns the number of samples ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return c.count.Load()
}

// Snapshot is the aggregate served to administrators.
type Snapshot struct {
	Since          time.Time   `json:"since"`
	TotalRecorded  int64       `json:"totalRecorded"`
	Requests       int         `json:"requests"`
	FailedRequests int         `json:"failedRequests"`
	RequestP50Ms   float64     `json:"requestP50Ms"`
	RequestP95Ms   float64     `json:"requestP95Ms"`
	RequestP99Ms   float64     `json:"requestP99Ms"`
	SlowestRoutes  []LabelStat `json:"slowestRoutes"`
	SlowestQueries []LabelStat `json:"slowestQueries"`
}

// LabelStat aggregates timing for one route or query label.
type LabelStat struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Failed  int     `json:"failed"`
	AvgMs   float64 `json:"avgMs"`
	MaxMs   float64 `json:"maxMs"`
	totalMs float64
}

// Snapshot aggregates samples taken at or after since.
// PRE: topN > 0
// POST: Returns percentiles over requests and the topN slowest labels by average
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Entry, len(c.entries))
	copy(buf, c.entries)
	c.mu.Unlock()

	routes := make(map[string]*LabelStat)
	queries := make(map[string]*LabelStat)
	var durations []float64
	snap := Snapshot{Since: since, TotalRecorded: c.TotalRecorded()}

	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		group := queries
		if e.Kind == KindRequest {
			group = routes
			durations = append(durations, e.DurationMs)
			snap.Requests++
			if e.Failed {
				snap.FailedRequests++
			}
		}
		s, ok := group[e.Label]
		if !ok {
			s = &LabelStat{Label: e.Label}
			group[e.Label] = s
		}
		s.Count++
		s.totalMs += e.DurationMs
		s.MaxMs = math.Max(s.MaxMs, e.DurationMs)
		if e.Failed {
			s.Failed++
		}
	}

	snap.SlowestRoutes = topByAvg(routes, topN)
	snap.SlowestQueries = topByAvg(queries, topN)
	if len(durations) > 0 {
		sort.Float64s(durations)
		snap.RequestP50Ms = percentile(durations, 50)
		snap.RequestP95Ms = percentile(durations, 95)
		snap.RequestP99Ms = percentile(durations, 99)
	}
	return snap
}

// percentile interpolates the p-th percentile of a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower, upper := int(math.Floor(idx)), int(math.Ceil(idx))
	if lower == upper {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

func topByAvg(stats map[string]*LabelStat, n int) []LabelStat {
	list := make([]LabelStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.totalMs / float64(s.Count)
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].AvgMs == list[j].AvgMs {
			return list[i].Label < list[j].Label
		}
		return list[i].AvgMs > list[j].AvgMs
	})
	if n > 0 && len(list) > n {
		list = list[:n]
	}
	return list
}
