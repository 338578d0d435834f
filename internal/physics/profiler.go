package physics

import (
	"sort"
	"time"
)

// Profiler sums the time spent per named activity.
type Profiler struct {
	times map[string]time.Duration
}

// NewProfiler creates an empty profiler.
func NewProfiler() *Profiler {
	return &Profiler{times: make(map[string]time.Duration)}
}

// Log adds d to the activity's total.
func (p *Profiler) Log(activity string, d time.Duration) {
	p.times[activity] += d
}

// Track starts timing activity and returns a func that stops and logs it.
func (p *Profiler) Track(activity string) func() {
	start := time.Now()
	return func() {
		p.Log(activity, time.Since(start))
	}
}

// Times returns a copy of the totals.
func (p *Profiler) Times() map[string]time.Duration {
	out := make(map[string]time.Duration, len(p.times))
	for k, v := range p.times {
		out[k] = v
	}
	return out
}

// Activities returns the activity names in sorted order.
func (p *Profiler) Activities() []string {
	names := make([]string, 0, len(p.times))
	for k := range p.times {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Clear drops all totals.
func (p *Profiler) Clear() {
	for k := range p.times {
		delete(p.times, k)
	}
}
