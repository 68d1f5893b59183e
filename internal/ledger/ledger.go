package ledger

import (
	"errors"
	"sort"
	"sync"
	"time"

	"screening-sync/internal/domain/assignment"
)

var (
	ErrNotFound     = errors.New("assignment not found")
	ErrInvalidInput = errors.New("invalid input")
)

type Ledger struct {
	mu    sync.RWMutex
	items map[assignment.Key]assignment.Assignment
	now   func() time.Time
}

func New() *Ledger {
	return &Ledger{items: make(map[assignment.Key]assignment.Assignment), now: time.Now}
}

func NewWithClock(now func() time.Time) *Ledger {
	l := New()
	if now != nil {
		l.now = now
	}
	return l
}

// Assign creates the (candidate, job) pair or updates it in place. A nil
// score leaves an existing score untouched.
func (l *Ledger) Assign(candidateID, jobID string, score *int) (assignment.Assignment, error) {
	if candidateID == "" || jobID == "" {
		return assignment.Assignment{}, ErrInvalidInput
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	k := assignment.Key{CandidateID: candidateID, JobID: jobID}
	now := l.now().UTC()

	a, ok := l.items[k]
	if !ok {
		a = assignment.Assignment{
			CandidateID: candidateID,
			JobID:       jobID,
			Status:      assignment.StatusNew,
			CreatedAt:   now,
		}
	}
	if score != nil {
		v := *score
		a.Score = &v
	}
	a.UpdatedAt = now
	l.items[k] = a
	return a.Clone(), nil
}

func (l *Ledger) SetStatus(candidateID, jobID string, status assignment.Status, note string) (assignment.Assignment, error) {
	status, err := assignment.ParseStatus(string(status))
	if err != nil {
		return assignment.Assignment{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	k := assignment.Key{CandidateID: candidateID, JobID: jobID}
	a, ok := l.items[k]
	if !ok {
		return assignment.Assignment{}, ErrNotFound
	}
	if a.Status == status {
		return a.Clone(), nil
	}

	now := l.now().UTC()
	a.History = append(a.History, assignment.StatusChange{From: a.Status, To: status, ChangedAt: now, Note: note})
	a.Status = status
	a.UpdatedAt = now
	if status == assignment.StatusHired && a.HiredAt == nil {
		a.HiredAt = &now
	}
	l.items[k] = a
	return a.Clone(), nil
}

func (l *Ledger) Get(candidateID, jobID string) (assignment.Assignment, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.items[assignment.Key{CandidateID: candidateID, JobID: jobID}]
	if !ok {
		return assignment.Assignment{}, false
	}
	return a.Clone(), true
}

// Put stores an assignment as given, replacing any existing pair. Used when
// restoring a persisted workspace.
func (l *Ledger) Put(a assignment.Assignment) {
	if a.CandidateID == "" || a.JobID == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items[a.Key()] = a.Clone()
}

func (l *Ledger) RemoveCandidate(candidateID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for k := range l.items {
		if k.CandidateID == candidateID {
			delete(l.items, k)
			n++
		}
	}
	return n
}

func (l *Ledger) RemoveJob(jobID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for k := range l.items {
		if k.JobID == jobID {
			delete(l.items, k)
			n++
		}
	}
	return n
}

// Rekey moves every assignment of fromID to toID. If toID already has an
// assignment for the same job, the existing one is kept.
func (l *Ledger) Rekey(fromID, toID string) {
	if fromID == "" || toID == "" || fromID == toID {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, a := range l.items {
		if k.CandidateID != fromID {
			continue
		}
		delete(l.items, k)
		nk := assignment.Key{CandidateID: toID, JobID: k.JobID}
		if _, exists := l.items[nk]; exists {
			continue
		}
		a.CandidateID = toID
		l.items[nk] = a
	}
}

func (l *Ledger) All() []assignment.Assignment {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]assignment.Assignment, 0, len(l.items))
	for _, a := range l.items {
		out = append(out, a.Clone())
	}
	sortAssignments(out)
	return out
}

func (l *Ledger) ForJob(jobID string) []assignment.Assignment {
	return l.filter(func(a assignment.Assignment) bool { return a.JobID == jobID })
}

func (l *Ledger) ForCandidate(candidateID string) []assignment.Assignment {
	return l.filter(func(a assignment.Assignment) bool { return a.CandidateID == candidateID })
}

func (l *Ledger) CountByJob() map[string]int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]int)
	for k := range l.items {
		out[k.JobID]++
	}
	return out
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

func (l *Ledger) filter(keep func(assignment.Assignment) bool) []assignment.Assignment {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]assignment.Assignment, 0)
	for _, a := range l.items {
		if keep(a) {
			out = append(out, a.Clone())
		}
	}
	sortAssignments(out)
	return out
}

func sortAssignments(items []assignment.Assignment) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].JobID != items[j].JobID {
			return items[i].JobID < items[j].JobID
		}
		return items[i].CandidateID < items[j].CandidateID
	})
}
