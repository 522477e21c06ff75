package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu              sync.Mutex
	requestCount    map[string]int64
	requestDuration map[string]time.Duration
	errorCount      map[string]int64
	eventCount      map[string]int64
	eventFailures   map[string]int64
}

// Snapshot is a point-in-time copy of every counter.
type Snapshot struct {
	Requests          map[string]int64 `json:"requests"`
	RequestDurationMs map[string]int64 `json:"request_duration_ms"`
	Errors            map[string]int64 `json:"errors"`
	EventsForwarded   map[string]int64 `json:"events_forwarded"`
	EventFailures     map[string]int64 `json:"event_failures"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:    make(map[string]int64),
		requestDuration: make(map[string]time.Duration),
		errorCount:      make(map[string]int64),
		eventCount:      make(map[string]int64),
		eventFailures:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.requestDuration[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordEventForwarded counts an event delivered to a sink.
func (m *Metrics) RecordEventForwarded(sink, eventType string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventCount[sink+"|"+eventType]++
}

// RecordEventFailure counts a failed sink delivery.
func (m *Metrics) RecordEventFailure(sink, eventType string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventFailures[sink+"|"+eventType]++
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	durations := make(map[string]int64, len(m.requestDuration))
	for k, v := range m.requestDuration {
		durations[k] = v.Milliseconds()
	}
	return Snapshot{
		Requests:          copyCounts(m.requestCount),
		RequestDurationMs: durations,
		Errors:            copyCounts(m.errorCount),
		EventsForwarded:   copyCounts(m.eventCount),
		EventFailures:     copyCounts(m.eventFailures),
	}
}

func copyCounts(src map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
