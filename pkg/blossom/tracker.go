package blossom

// eventTracker detects stale queue entries with a generation counter.
// Every scheduled event captures the owner's generation at enqueue time;
// any state change that invalidates pending events bumps the generation,
// and a dequeued event whose captured generation no longer matches is
// silently discarded. This replaces tracking sets of live event handles
// with a single comparison.
type eventTracker struct {
	gen uint64
}

// invalidate discards all pending events owned by this tracker.
func (t *eventTracker) invalidate() { t.gen++ }

// current returns the generation to stamp onto a newly scheduled event.
func (t *eventTracker) current() uint64 { return t.gen }

// isCurrent reports whether an event stamped with gen is still valid.
func (t *eventTracker) isCurrent(gen uint64) bool { return t.gen == gen }
