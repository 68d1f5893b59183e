package interview

import (
	"sync"
	"time"
)

type Interview struct {
	ID                   string
	CandidateID          string
	Transcript           string
	SentimentScore       float64
	ConfidenceScore      float64
	ClarityScore         *float64
	EnthusiasmScore      *float64
	ProfessionalismScore *float64
	CreatedAt            time.Time

	seq uint64
}

// Registry keeps every interview it is given. Candidate references are not
// checked, so interviews for unknown candidates are retained as-is.
type Registry struct {
	mu    sync.RWMutex
	items []Interview
	next  uint64
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Add(iv Interview) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	iv.seq = r.next
	r.items = append(r.items, iv)
}

// Latest returns the newest interview for a candidate by CreatedAt. When two
// share a timestamp the one added last wins.
func (r *Registry) Latest(candidateID string) (Interview, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best Interview
	found := false
	for _, iv := range r.items {
		if iv.CandidateID != candidateID {
			continue
		}
		if !found || iv.CreatedAt.After(best.CreatedAt) || (iv.CreatedAt.Equal(best.CreatedAt) && iv.seq > best.seq) {
			best = iv
			found = true
		}
	}
	return best, found
}

func (r *Registry) ForCandidate(candidateID string) []Interview {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Interview, 0)
	for _, iv := range r.items {
		if iv.CandidateID == candidateID {
			out = append(out, iv)
		}
	}
	return out
}

func (r *Registry) All() []Interview {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Interview(nil), r.items...)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *Registry) RemoveCandidate(candidateID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.items[:0]
	removed := 0
	for _, iv := range r.items {
		if iv.CandidateID == candidateID {
			removed++
			continue
		}
		kept = append(kept, iv)
	}
	r.items = kept
	return removed
}

func (r *Registry) Rekey(fromID, toID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].CandidateID == fromID {
			r.items[i].CandidateID = toID
		}
	}
}
