package usecase

import (
	"sort"

	"screening-sync/internal/repository"
	"screening-sync/internal/store"
)

// Snapshot captures the durable part of the workspace. Fetch state, the
// dashboard hint and activity are not kept.
func (w *Workspace) Snapshot() repository.WorkspaceSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	st := w.store.Snapshot()
	snap := repository.WorkspaceSnapshot{
		SessionID:     w.id,
		StoreVersion:  w.store.Version(),
		Candidates:    st.Candidates,
		Tombstones:    st.Tombstones,
		Jobs:          w.jobsLocked(),
		JobTombstones: make([]string, 0, len(w.jobTombstones)),
		ActiveJobID:   w.activeJobID,
		Assignments:   w.ledger.All(),
		Interviews:    w.interviews.All(),
	}
	for id := range w.jobTombstones {
		snap.JobTombstones = append(snap.JobTombstones, id)
	}
	sort.Strings(snap.JobTombstones)
	return snap
}

// Restore loads a snapshot into a fresh workspace.
func (w *Workspace) Restore(snap repository.WorkspaceSnapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.store.Restore(store.Snapshot{Candidates: snap.Candidates, Tombstones: snap.Tombstones})
	for _, id := range snap.JobTombstones {
		w.jobTombstones[id] = struct{}{}
	}
	for _, j := range snap.Jobs {
		if _, dead := w.jobTombstones[j.ID]; dead || j.ID == "" {
			continue
		}
		w.jobs[j.ID] = j.Clone()
	}
	if _, ok := w.jobs[snap.ActiveJobID]; ok {
		w.activeJobID = snap.ActiveJobID
	}
	for _, a := range snap.Assignments {
		if _, ok := w.jobs[a.JobID]; !ok {
			continue
		}
		if _, ok := w.store.Get(a.CandidateID); !ok {
			continue
		}
		w.ledger.Put(a)
	}
	for _, iv := range snap.Interviews {
		w.interviews.Add(iv)
	}
}
