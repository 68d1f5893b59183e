package store

import (
	"sort"

	"screening-sync/internal/domain/candidate"
)

type Snapshot struct {
	Candidates []candidate.Candidate
	Tombstones []string
}

// Snapshot captures every record including those pending deletion.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := Snapshot{
		Candidates: make([]candidate.Candidate, 0, len(s.items)),
		Tombstones: make([]string, 0, len(s.tombstones)),
	}
	for _, c := range s.items {
		out.Candidates = append(out.Candidates, c.Clone())
	}
	for id := range s.tombstones {
		out.Tombstones = append(out.Tombstones, id)
	}
	sort.Slice(out.Candidates, func(i, j int) bool { return out.Candidates[i].ID < out.Candidates[j].ID })
	sort.Strings(out.Tombstones)
	return out
}

// Restore loads a snapshot into an empty store. Pending deletes are rolled
// back since the remote call that owned them is gone.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]candidate.Candidate, len(snap.Candidates))
	s.touched = make(map[string]uint64, len(snap.Candidates))
	s.tombstones = make(map[string]struct{}, len(snap.Tombstones))
	s.version++

	for _, id := range snap.Tombstones {
		s.tombstones[id] = struct{}{}
	}
	for _, c := range snap.Candidates {
		if c.ID == "" {
			continue
		}
		if _, dead := s.tombstones[c.ID]; dead {
			continue
		}
		next := c.Clone()
		switch next.Provenance {
		case "", candidate.ProvenancePendingDelete:
			next.Provenance = defaultProvenance(next.ID)
		}
		s.items[next.ID] = next
		s.touched[next.ID] = s.version
	}
}
