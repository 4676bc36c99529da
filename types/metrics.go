package types

import "sync/atomic"

// Metrics receives one call per cache event.
type Metrics interface {

	// Hit is called when a key is served from memory.
	Hit()

	// Miss is called when a key is not in memory, before any read-through load.
	Miss()

	// Eviction is called when the eviction policy pushes a key out to make room.
	Eviction()

	// LoadError is called when the backing store fails a read-through load.
	LoadError()
}

/*
NoopMetrics ignores every event.
The engine substitutes it for a nil Metrics so callers never nil-check.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()       {}
func (NoopMetrics) Miss()      {}
func (NoopMetrics) Eviction()  {}
func (NoopMetrics) LoadError() {}

// Counters is a Metrics that keeps running totals. Safe for concurrent use.
type Counters struct {
	hits, misses, evictions, loadErrors atomic.Int64
}

func (c *Counters) Hit()       { c.hits.Add(1) }
func (c *Counters) Miss()      { c.misses.Add(1) }
func (c *Counters) Eviction()  { c.evictions.Add(1) }
func (c *Counters) LoadError() { c.loadErrors.Add(1) }

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	Hits, Misses, Evictions, LoadErrors int64
}

func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Evictions:  c.evictions.Load(),
		LoadErrors: c.loadErrors.Load(),
	}
}

// HitRatio returns hits / (hits + misses), or 0 before any lookup.
func (s Snapshot) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
