package store

import (
	"errors"
	"slices"
	"sort"
	"sync"

	"screening-sync/internal/domain/candidate"
)

var (
	ErrNotFound = errors.New("candidate not found")
	ErrDeleted  = errors.New("candidate was deleted")
)

// Cascade receives candidate removals and id changes so dependent records
// (assignments, interviews) follow the store.
type Cascade interface {
	RemoveCandidate(candidateID string) int
	Rekey(fromID, toID string)
}

type Store struct {
	mu         sync.RWMutex
	items      map[string]candidate.Candidate
	tombstones map[string]struct{}
	touched    map[string]uint64
	version    uint64
	cascades   []Cascade
}

func New(cascades ...Cascade) *Store {
	s := &Store{
		items:      make(map[string]candidate.Candidate),
		tombstones: make(map[string]struct{}),
		touched:    make(map[string]uint64),
	}
	for _, c := range cascades {
		if c != nil {
			s.cascades = append(s.cascades, c)
		}
	}
	return s
}

func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Get returns a visible candidate. Records pending deletion are hidden.
func (s *Store) Get(id string) (candidate.Candidate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.items[id]
	if !ok || c.Provenance == candidate.ProvenancePendingDelete {
		return candidate.Candidate{}, false
	}
	return c.Clone(), true
}

// List returns visible candidates sorted by id.
func (s *Store) List() []candidate.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]candidate.Candidate, 0, len(s.items))
	for _, c := range s.items {
		if c.Provenance == candidate.ProvenancePendingDelete {
			continue
		}
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visibleLocked()
}

func (s *Store) HasLocalData() bool {
	return s.Len() > 0
}

func (s *Store) IsDeleted(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tombstones[id]
	return ok
}

// Upsert inserts an unseen id or folds the incoming record into the
// existing one. Identical data leaves the version unchanged.
func (s *Store) Upsert(c candidate.Candidate) (candidate.Candidate, error) {
	if c.ID == "" {
		return candidate.Candidate{}, candidate.ErrEmptyID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertLocked(c)
}

// Merge unions raw and screened remote records into the store.
func (s *Store) Merge(raw, screened []candidate.Candidate) int {
	merged := candidate.Merge(raw, screened)

	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.version
	for _, c := range merged {
		if _, err := s.upsertLocked(c); err != nil {
			continue
		}
	}
	return int(s.version - before)
}

// SetAll replaces the server-backed contents of the store. Known records are
// overlaid rather than overwritten, tombstoned ids are dropped and local-only
// placeholders survive.
func (s *Store) SetAll(cands []candidate.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(cands, nil)
}

// ApplyFetch is SetAll for a fetch that started at startVersion. Records
// touched after that point keep their local state.
func (s *Store) ApplyFetch(startVersion uint64, cands []candidate.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(cands, func(id string) bool { return s.touched[id] > startVersion })
}

// Remove purges a candidate, tombstones its id and cascades the removal.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	s.removeLocked(id)
	return nil
}

// BeginDelete hides a confirmed candidate while the remote delete runs.
func (s *Store) BeginDelete(id string) error {
	return s.transition(id, candidate.ProvenancePendingDelete)
}

func (s *Store) CommitDelete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	if err := c.Transition(candidate.ProvenanceDeleted); err != nil {
		return err
	}
	s.removeLocked(id)
	return nil
}

func (s *Store) AbortDelete(id string) error {
	return s.transition(id, candidate.ProvenanceConfirmed)
}

// Confirm replaces a local-only placeholder with the record the server
// returned for it. Dependent records are moved to the server id.
func (s *Store) Confirm(localID string, server candidate.Candidate) (candidate.Candidate, error) {
	if server.ID == "" {
		return candidate.Candidate{}, candidate.ErrEmptyID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	local, ok := s.items[localID]
	if !ok {
		return candidate.Candidate{}, ErrNotFound
	}
	if _, dead := s.tombstones[server.ID]; dead {
		return candidate.Candidate{}, ErrDeleted
	}
	if err := local.Transition(candidate.ProvenanceConfirmed); err != nil {
		return candidate.Candidate{}, err
	}

	next := candidate.Overlay(local, server)
	next.ID = server.ID
	next.Provenance = candidate.ProvenanceConfirmed
	if existing, ok := s.items[server.ID]; ok && localID != server.ID {
		next = candidate.Overlay(existing, next)
		next.Provenance = candidate.ProvenanceConfirmed
	}

	delete(s.items, localID)
	delete(s.touched, localID)
	s.version++
	s.items[next.ID] = next
	s.touched[next.ID] = s.version

	if localID != next.ID {
		for _, c := range s.cascades {
			c.Rekey(localID, next.ID)
		}
	}
	return next.Clone(), nil
}

// ResetScoresForJob turns every candidate scored against jobID back into a
// raw candidate.
func (s *Store) ResetScoresForJob(jobID string) int {
	if jobID == "" {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	reset := make([]string, 0)
	for id, c := range s.items {
		if c.ScoredJobID != jobID {
			continue
		}
		c.ResetScore()
		s.items[id] = c
		reset = append(reset, id)
	}
	if len(reset) > 0 {
		s.version++
		for _, id := range reset {
			s.touched[id] = s.version
		}
	}
	return len(reset)
}

func (s *Store) upsertLocked(c candidate.Candidate) (candidate.Candidate, error) {
	if _, dead := s.tombstones[c.ID]; dead {
		return candidate.Candidate{}, ErrDeleted
	}

	existing, ok := s.items[c.ID]
	var next candidate.Candidate
	if !ok {
		next = c.Clone()
		if next.Provenance == "" {
			next.Provenance = defaultProvenance(next.ID)
		}
	} else {
		next = candidate.Overlay(existing, c)
		next.Provenance = existing.Provenance
		if equal(existing, next) {
			return existing.Clone(), nil
		}
	}

	s.version++
	s.items[next.ID] = next
	s.touched[next.ID] = s.version
	return next.Clone(), nil
}

func (s *Store) replaceLocked(cands []candidate.Candidate, keepLocal func(id string) bool) {
	next := make(map[string]candidate.Candidate, len(cands))
	for _, c := range cands {
		if c.ID == "" {
			continue
		}
		if _, dead := s.tombstones[c.ID]; dead {
			continue
		}
		in := c.Clone()
		if existing, ok := s.items[c.ID]; ok {
			if existing.Provenance == candidate.ProvenancePendingDelete || (keepLocal != nil && keepLocal(c.ID)) {
				next[c.ID] = existing
				continue
			}
			in = candidate.Overlay(existing, c)
		}
		in.Provenance = candidate.ProvenanceConfirmed
		next[c.ID] = in
	}

	for id, existing := range s.items {
		if _, ok := next[id]; ok {
			continue
		}
		if existing.Provenance == candidate.ProvenanceLocalOnly ||
			existing.Provenance == candidate.ProvenancePendingDelete ||
			(keepLocal != nil && keepLocal(id)) {
			next[id] = existing
		}
	}

	dropped := make([]string, 0)
	for id := range s.items {
		if _, ok := next[id]; !ok {
			dropped = append(dropped, id)
		}
	}

	s.version++
	touched := make(map[string]uint64, len(next))
	for id := range next {
		if prev, ok := s.touched[id]; ok && keepLocal != nil && keepLocal(id) {
			touched[id] = prev
			continue
		}
		touched[id] = s.version
	}
	s.items = next
	s.touched = touched

	// The server no longer has these. They are not tombstoned so a later
	// fetch may bring them back, but nothing may keep referring to them.
	sort.Strings(dropped)
	for _, id := range dropped {
		for _, c := range s.cascades {
			c.RemoveCandidate(id)
		}
	}
}

func (s *Store) removeLocked(id string) {
	delete(s.items, id)
	delete(s.touched, id)
	s.tombstones[id] = struct{}{}
	s.version++
	for _, c := range s.cascades {
		c.RemoveCandidate(id)
	}
}

func (s *Store) transition(id string, to candidate.Provenance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	if err := c.Transition(to); err != nil {
		return err
	}
	s.version++
	s.items[id] = c
	s.touched[id] = s.version
	return nil
}

func (s *Store) visibleLocked() int {
	n := 0
	for _, c := range s.items {
		if c.Provenance != candidate.ProvenancePendingDelete {
			n++
		}
	}
	return n
}

func defaultProvenance(id string) candidate.Provenance {
	if candidate.IsLocalID(id) {
		return candidate.ProvenanceLocalOnly
	}
	return candidate.ProvenanceConfirmed
}

func equal(a, b candidate.Candidate) bool {
	return a.ID == b.ID &&
		a.Name == b.Name &&
		a.Email == b.Email &&
		a.Phone == b.Phone &&
		a.Education == b.Education &&
		a.Experience == b.Experience &&
		a.Score == b.Score &&
		a.ScoredJobID == b.ScoredJobID &&
		a.Provenance == b.Provenance &&
		slices.Equal(a.Skills, b.Skills) &&
		slices.Equal(a.SkillMatches, b.SkillMatches)
}
