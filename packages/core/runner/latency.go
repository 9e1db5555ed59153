package runner

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Latency collects check evaluation times in microseconds.
type Latency struct {
	mu        sync.Mutex
	histogram *hdrhistogram.Histogram
}

// LatencySummary holds percentiles of the recorded evaluation times.
type LatencySummary struct {
	Count int64
	P50   time.Duration
	P90   time.Duration
	P95   time.Duration
	P99   time.Duration
	Min   time.Duration
	Max   time.Duration
	Mean  time.Duration
}

func NewLatency() *Latency {
	return &Latency{
		// 1us to 10 minutes, 3 significant digits
		histogram: hdrhistogram.New(1, 600_000_000, 3),
	}
}

func (l *Latency) Record(d time.Duration) {
	us := d.Microseconds()
	if us < 1 {
		us = 1
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.histogram.RecordValue(us)
}

// Merge adds the values recorded by other.
func (l *Latency) Merge(other *Latency) {
	other.mu.Lock()
	snap := other.histogram.Export()
	other.mu.Unlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.histogram.Merge(hdrhistogram.Import(snap))
}

// Summary returns nil when nothing was recorded.
func (l *Latency) Summary() *LatencySummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	h := l.histogram
	if h.TotalCount() == 0 {
		return nil
	}
	us := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }
	return &LatencySummary{
		Count: h.TotalCount(),
		P50:   us(h.ValueAtQuantile(50)),
		P90:   us(h.ValueAtQuantile(90)),
		P95:   us(h.ValueAtQuantile(95)),
		P99:   us(h.ValueAtQuantile(99)),
		Min:   us(h.Min()),
		Max:   us(h.Max()),
		Mean:  time.Duration(h.Mean() * float64(time.Microsecond)),
	}
}
