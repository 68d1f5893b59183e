package usecase

import (
	"sort"
	"sync"
)

type ActivityKind string

const (
	ActivityUploading ActivityKind = "uploading"
	ActivityScreening ActivityKind = "screening"
	ActivityAnalyzing ActivityKind = "analyzing"
	ActivityFetching  ActivityKind = "fetching"
	ActivityChatting  ActivityKind = "chatting"
)

var activityKinds = []ActivityKind{
	ActivityUploading,
	ActivityScreening,
	ActivityAnalyzing,
	ActivityFetching,
	ActivityChatting,
}

// Activity counts in-flight operations per kind. A kind is busy while its
// count is above zero.
type Activity struct {
	mu       sync.Mutex
	counts   map[ActivityKind]int
	onChange func(map[ActivityKind]bool)
}

func NewActivity(onChange func(map[ActivityKind]bool)) *Activity {
	return &Activity{counts: make(map[ActivityKind]int), onChange: onChange}
}

// Begin marks kind busy and returns the func that ends it.
func (a *Activity) Begin(kind ActivityKind) func() {
	a.update(kind, 1)
	var once sync.Once
	return func() {
		once.Do(func() { a.update(kind, -1) })
	}
}

func (a *Activity) Snapshot() map[ActivityKind]bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *Activity) Busy() []ActivityKind {
	snap := a.Snapshot()
	out := make([]ActivityKind, 0, len(snap))
	for k, busy := range snap {
		if busy {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (a *Activity) update(kind ActivityKind, delta int) {
	a.mu.Lock()
	before := a.counts[kind] > 0
	a.counts[kind] += delta
	if a.counts[kind] < 0 {
		a.counts[kind] = 0
	}
	after := a.counts[kind] > 0
	var snap map[ActivityKind]bool
	if before != after && a.onChange != nil {
		snap = a.snapshotLocked()
	}
	a.mu.Unlock()

	if snap != nil {
		a.onChange(snap)
	}
}

func (a *Activity) snapshotLocked() map[ActivityKind]bool {
	out := make(map[ActivityKind]bool, len(activityKinds))
	for _, k := range activityKinds {
		out[k] = a.counts[k] > 0
	}
	return out
}
