package blossom

import "container/heap"

// eventKind orders simultaneous events deterministically: node look-events
// fire before region shrink-events at the same time.
type eventKind uint8

const (
	eventLookAtNode eventKind = iota
	eventLookAtShrinkingRegion
)

// event is one pending timeline entry. Exactly one of node or region is
// set, according to kind. gen is the owner's tracker generation at enqueue
// time; a mismatch at dequeue marks the event stale.
type event struct {
	time  int64
	kind  eventKind
	owner int // node index or region id, the deterministic tie-break key
	gen   uint64

	node   *DetectorNode
	region *Region
}

// eventQueue is a binary min-heap of pending events ordered by
// (time, kind, owner). Stale entries are removed lazily at pop time, the
// same lazy-deletion discipline used by heap-based shortest-path solvers.
type eventQueue []event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.time != b.time {
		return a.time < b.time
	}
	if a.kind != b.kind {
		return a.kind < b.kind
	}
	return a.owner < b.owner
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(event)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	*q = old[:n-1]
	return ev
}

func (q *eventQueue) push(ev event) { heap.Push(q, ev) }

func (q *eventQueue) pop() event { return heap.Pop(q).(event) }
