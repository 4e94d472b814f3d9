package observability

import (
	"sort"
	"sync"
	"time"
)

// Sample describes one served request.
type Sample struct {
	Method  string
	Route   string
	Status  int
	Latency time.Duration
	// ErrorCode is the error code written in the response body, if any.
	ErrorCode string
}

// Metrics aggregates request samples per route in memory.
type Metrics struct {
	mu      sync.Mutex
	started time.Time
	routes  map[routeKey]*routeStats
}

type routeKey struct {
	method string
	route  string
}

type routeStats struct {
	statuses map[int]int64
	errors   map[string]int64
	count    int64
	total    time.Duration
	max      time.Duration
}

// RouteSnapshot is the exported view of one route's counters.
type RouteSnapshot struct {
	Method       string           `json:"method"`
	Route        string           `json:"route"`
	Requests     int64            `json:"requests"`
	Statuses     map[int]int64    `json:"statuses"`
	Errors       map[string]int64 `json:"errors,omitempty"`
	AvgLatencyMs float64          `json:"avgLatencyMs"`
	MaxLatencyMs float64          `json:"maxLatencyMs"`
}

// MetricsSnapshot is a point-in-time copy of all counters, routes sorted by
// route then method.
type MetricsSnapshot struct {
	UptimeSeconds int64           `json:"uptimeSeconds"`
	Routes        []RouteSnapshot `json:"routes"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{started: time.Now(), routes: make(map[routeKey]*routeStats)}
}

// Observe records one request. A nil receiver discards the sample.
func (m *Metrics) Observe(s Sample) {
	if m == nil {
		return
	}
	key := routeKey{method: s.Method, route: s.Route}

	m.mu.Lock()
	defer m.mu.Unlock()
	stats, ok := m.routes[key]
	if !ok {
		stats = &routeStats{statuses: map[int]int64{}, errors: map[string]int64{}}
		m.routes[key] = stats
	}
	stats.count++
	stats.statuses[s.Status]++
	stats.total += s.Latency
	if s.Latency > stats.max {
		stats.max = s.Latency
	}
	if s.ErrorCode != "" {
		stats.errors[s.ErrorCode]++
	}
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Routes: []RouteSnapshot{}}
	if m == nil {
		return snap
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap.UptimeSeconds = int64(time.Since(m.started).Seconds())
	for key, stats := range m.routes {
		route := RouteSnapshot{
			Method:       key.method,
			Route:        key.route,
			Requests:     stats.count,
			Statuses:     make(map[int]int64, len(stats.statuses)),
			MaxLatencyMs: millis(stats.max),
		}
		if stats.count > 0 {
			route.AvgLatencyMs = millis(stats.total) / float64(stats.count)
		}
		for status, n := range stats.statuses {
			route.Statuses[status] = n
		}
		if len(stats.errors) > 0 {
			route.Errors = make(map[string]int64, len(stats.errors))
			for code, n := range stats.errors {
				route.Errors[code] = n
			}
		}
		snap.Routes = append(snap.Routes, route)
	}
	sort.Slice(snap.Routes, func(i, j int) bool {
		a, b := snap.Routes[i], snap.Routes[j]
		if a.Route != b.Route {
			return a.Route < b.Route
		}
		return a.Method < b.Method
	})
	return snap
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
