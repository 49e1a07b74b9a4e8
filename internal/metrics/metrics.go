package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// CartLifecycle counts cart state transitions since process start.
type CartLifecycle struct {
	Created       Counter
	Reused        Counter
	Reopened      Counter
	Cleared       Counter
	ItemsUpserted Counter
	ItemsRemoved  Counter
	TableUpdates  Counter
	TableFailures Counter
}

// Snapshot returns the current counter values keyed by name.
func (m *CartLifecycle) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"carts_created":         m.Created.Load(),
		"carts_reused":          m.Reused.Load(),
		"carts_reopened":        m.Reopened.Load(),
		"carts_cleared":         m.Cleared.Load(),
		"items_upserted":        m.ItemsUpserted.Load(),
		"items_removed":         m.ItemsRemoved.Load(),
		"table_updates":         m.TableUpdates.Load(),
		"table_update_failures": m.TableFailures.Load(),
	}
}
