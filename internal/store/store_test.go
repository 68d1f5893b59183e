package store

import (
	"errors"
	"reflect"
	"testing"

	"screening-sync/internal/domain/candidate"
)

type fakeCascade struct {
	removed []string
	rekeyed [][2]string
}

func (f *fakeCascade) RemoveCandidate(id string) int {
	f.removed = append(f.removed, id)
	return 1
}

func (f *fakeCascade) Rekey(from, to string) {
	f.rekeyed = append(f.rekeyed, [2]string{from, to})
}

func TestUpsert_InsertAndOverlay(t *testing.T) {
	s := New()

	if _, err := s.Upsert(candidate.Candidate{ID: "c1", Name: "Ana", Score: 80, SkillMatches: []string{"Go"}, ScoredJobID: "j1"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := s.Upsert(candidate.Candidate{ID: "c1", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Upsert overlay: %v", err)
	}

	if got.Name != "Ana" || got.Email != "ana@example.com" {
		t.Fatalf("unexpected descriptive fields: %+v", got)
	}
	if got.Score != 80 || got.ScoredJobID != "j1" {
		t.Fatalf("raw upsert clobbered score: %+v", got)
	}
	if got.Provenance != candidate.ProvenanceConfirmed {
		t.Fatalf("expected confirmed, got %s", got.Provenance)
	}
}

func TestUpsert_EmptyID(t *testing.T) {
	s := New()
	if _, err := s.Upsert(candidate.Candidate{}); !errors.Is(err, candidate.ErrEmptyID) {
		t.Fatalf("expected ErrEmptyID, got %v", err)
	}
}

func TestMerge_IdenticalDataIsNoop(t *testing.T) {
	s := New()
	raw := []candidate.Candidate{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	screened := []candidate.Candidate{{ID: "a", Name: "A", Score: 70, SkillMatches: []string{"SQL"}, ScoredJobID: "j1"}}

	if n := s.Merge(raw, screened); n != 2 {
		t.Fatalf("expected 2 changes, got %d", n)
	}
	before := s.List()
	v := s.Version()

	if n := s.Merge(raw, screened); n != 0 {
		t.Fatalf("expected no changes on re-merge, got %d", n)
	}
	if s.Version() != v {
		t.Fatalf("version moved on identical merge: %d -> %d", v, s.Version())
	}
	if !reflect.DeepEqual(before, s.List()) {
		t.Fatalf("store drifted on identical merge")
	}
}

func TestRemove_CascadesAndTombstones(t *testing.T) {
	cascade := &fakeCascade{}
	s := New(cascade)
	_, _ = s.Upsert(candidate.Candidate{ID: "c1", Name: "Ana"})

	if err := s.Remove("c1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := s.Get("c1"); ok {
		t.Fatalf("expected candidate gone")
	}
	if !reflect.DeepEqual(cascade.removed, []string{"c1"}) {
		t.Fatalf("expected cascade for c1, got %v", cascade.removed)
	}
	if _, err := s.Upsert(candidate.Candidate{ID: "c1", Name: "Ana"}); !errors.Is(err, ErrDeleted) {
		t.Fatalf("expected ErrDeleted on resurrect, got %v", err)
	}
	if err := s.Remove("c1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetAll_KeepsLocalOnlyAndDropsTombstoned(t *testing.T) {
	s := New()
	local := candidate.NewLocalID()
	_, _ = s.Upsert(candidate.Candidate{ID: local, Name: "Draft"})
	_, _ = s.Upsert(candidate.Candidate{ID: "gone", Name: "Gone"})
	_ = s.Remove("gone")

	s.SetAll([]candidate.Candidate{{ID: "gone", Name: "Gone"}, {ID: "srv-1", Name: "Srv"}})

	got := s.List()
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %+v", got)
	}
	if _, ok := s.Get("gone"); ok {
		t.Fatalf("tombstoned id came back")
	}
	lc, ok := s.Get(local)
	if !ok || lc.Provenance != candidate.ProvenanceLocalOnly {
		t.Fatalf("local placeholder lost: %+v ok=%v", lc, ok)
	}
}

func TestApplyFetch_StaleResponseAfterDelete(t *testing.T) {
	s := New()
	_, _ = s.Upsert(candidate.Candidate{ID: "c1", Name: "Ana"})
	_, _ = s.Upsert(candidate.Candidate{ID: "c2", Name: "Ben"})

	start := s.Version()
	// A delete lands while the fetch is in flight.
	_ = s.Remove("c2")
	s.ApplyFetch(start, []candidate.Candidate{{ID: "c1", Name: "Ana"}, {ID: "c2", Name: "Ben"}})

	if s.Len() != 1 {
		t.Fatalf("expected 1 candidate after stale fetch, got %d", s.Len())
	}
	if _, ok := s.Get("c2"); ok {
		t.Fatalf("deleted candidate resurrected by stale fetch")
	}
}

func TestApplyFetch_KeepsRecordsTouchedAfterStart(t *testing.T) {
	s := New()
	_, _ = s.Upsert(candidate.Candidate{ID: "c1", Name: "Ana"})

	start := s.Version()
	_, _ = s.Upsert(candidate.Candidate{ID: "c1", Score: 88, SkillMatches: []string{"Go"}, ScoredJobID: "j1"})
	_, _ = s.Upsert(candidate.Candidate{ID: "c3", Name: "New"})
	s.ApplyFetch(start, []candidate.Candidate{{ID: "c1", Name: "Ana"}})

	c1, _ := s.Get("c1")
	if c1.Score != 88 {
		t.Fatalf("fetch regressed score: %+v", c1)
	}
	if _, ok := s.Get("c3"); !ok {
		t.Fatalf("record added during fetch was dropped")
	}
}

func TestDeleteLifecycle(t *testing.T) {
	cascade := &fakeCascade{}
	s := New(cascade)
	_, _ = s.Upsert(candidate.Candidate{ID: "c1", Name: "Ana"})

	if err := s.BeginDelete("c1"); err != nil {
		t.Fatalf("BeginDelete: %v", err)
	}
	if s.Len() != 0 || s.HasLocalData() {
		t.Fatalf("pending delete still visible")
	}
	if err := s.AbortDelete("c1"); err != nil {
		t.Fatalf("AbortDelete: %v", err)
	}
	if _, ok := s.Get("c1"); !ok {
		t.Fatalf("rollback did not restore candidate")
	}

	_ = s.BeginDelete("c1")
	if err := s.CommitDelete("c1"); err != nil {
		t.Fatalf("CommitDelete: %v", err)
	}
	if len(cascade.removed) != 1 {
		t.Fatalf("expected one cascade, got %v", cascade.removed)
	}
	if !s.IsDeleted("c1") {
		t.Fatalf("expected tombstone")
	}
}

func TestCommitDelete_RequiresPending(t *testing.T) {
	s := New()
	_, _ = s.Upsert(candidate.Candidate{ID: "c1"})
	if err := s.CommitDelete("c1"); !errors.Is(err, candidate.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestConfirm_RekeysPlaceholder(t *testing.T) {
	cascade := &fakeCascade{}
	s := New(cascade)
	local := candidate.NewLocalID()
	_, _ = s.Upsert(candidate.Candidate{ID: local, Name: "Ana", Phone: "555"})

	got, err := s.Confirm(local, candidate.Candidate{ID: "srv-7", Name: "Ana M.", Skills: []string{"Go"}})
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if got.ID != "srv-7" || got.Phone != "555" || got.Name != "Ana M." {
		t.Fatalf("unexpected confirmed record: %+v", got)
	}
	if _, ok := s.Get(local); ok {
		t.Fatalf("placeholder still present")
	}
	if len(cascade.rekeyed) != 1 || cascade.rekeyed[0] != [2]string{local, "srv-7"} {
		t.Fatalf("unexpected rekey calls: %v", cascade.rekeyed)
	}
}

func TestResetScoresForJob(t *testing.T) {
	s := New()
	_, _ = s.Upsert(candidate.Candidate{ID: "c1", Score: 70, ScoredJobID: "j1", SkillMatches: []string{"Go"}})
	_, _ = s.Upsert(candidate.Candidate{ID: "c2", Score: 60, ScoredJobID: "j2"})

	if n := s.ResetScoresForJob("j1"); n != 1 {
		t.Fatalf("expected 1 reset, got %d", n)
	}
	c1, _ := s.Get("c1")
	if c1.IsScreened() || c1.ScoredJobID != "" || c1.SkillMatches != nil {
		t.Fatalf("expected raw candidate, got %+v", c1)
	}
	c2, _ := s.Get("c2")
	if c2.Score != 60 {
		t.Fatalf("unrelated candidate reset: %+v", c2)
	}
}

func TestSnapshotRestore(t *testing.T) {
	s := New()
	_, _ = s.Upsert(candidate.Candidate{ID: "c1", Name: "Ana"})
	_, _ = s.Upsert(candidate.Candidate{ID: "c2", Name: "Ben"})
	_ = s.Remove("c2")
	_, _ = s.Upsert(candidate.Candidate{ID: "c3"})
	_ = s.BeginDelete("c3")

	restored := New()
	restored.Restore(s.Snapshot())

	if restored.Len() != 2 {
		t.Fatalf("expected 2 visible after restore, got %d", restored.Len())
	}
	if !restored.IsDeleted("c2") {
		t.Fatalf("tombstone not restored")
	}
	c3, ok := restored.Get("c3")
	if !ok || c3.Provenance != candidate.ProvenanceConfirmed {
		t.Fatalf("pending delete not rolled back: %+v ok=%v", c3, ok)
	}
}

func TestSetAll_RawFetchKeepsExistingScore(t *testing.T) {
	s := New()
	_, _ = s.Upsert(candidate.Candidate{ID: "c1", Name: "Ana", Score: 77, ScoredJobID: "j1"})

	s.SetAll([]candidate.Candidate{{ID: "c1", Name: "Ana Maria"}})

	c1, _ := s.Get("c1")
	if c1.Name != "Ana Maria" || c1.Score != 77 {
		t.Fatalf("raw fetch clobbered score: %+v", c1)
	}
}

func TestSetAll_CascadesCandidatesTheServerDropped(t *testing.T) {
	cascade := &fakeCascade{}
	s := New(cascade)
	local := candidate.NewLocalID()
	_, _ = s.Upsert(candidate.Candidate{ID: local, Name: "Draft"})
	_, _ = s.Upsert(candidate.Candidate{ID: "r1", Name: "Ana"})
	_, _ = s.Upsert(candidate.Candidate{ID: "r2", Name: "Ben"})

	s.SetAll([]candidate.Candidate{{ID: "r1", Name: "Ana"}})

	if _, ok := s.Get("r2"); ok {
		t.Fatalf("expected r2 gone")
	}
	if !reflect.DeepEqual(cascade.removed, []string{"r2"}) {
		t.Fatalf("expected cascade for r2 only, got %v", cascade.removed)
	}
	if s.IsDeleted("r2") {
		t.Fatalf("dropped record must not be tombstoned")
	}

	s.SetAll([]candidate.Candidate{{ID: "r1", Name: "Ana"}, {ID: "r2", Name: "Ben"}})
	if _, ok := s.Get("r2"); !ok {
		t.Fatalf("server record could not return")
	}
}

func TestApplyFetch_DoesNotCascadeRecordsKeptLocally(t *testing.T) {
	cascade := &fakeCascade{}
	s := New(cascade)
	_, _ = s.Upsert(candidate.Candidate{ID: "c1", Name: "Ana"})

	start := s.Version()
	_, _ = s.Upsert(candidate.Candidate{ID: "c2", Name: "Added during fetch"})
	s.ApplyFetch(start, []candidate.Candidate{{ID: "c1", Name: "Ana"}})

	if len(cascade.removed) != 0 {
		t.Fatalf("expected no cascade, got %v", cascade.removed)
	}
}
