package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"screening-sync/internal/domain/assignment"
	"screening-sync/internal/ledger"
)

// Assign links a candidate to a job in the ledger. Both must exist.
func (w *Workspace) Assign(ctx context.Context, candidateID, jobID string, score *int) (assignment.Assignment, error) {
	if _, ok := w.store.Get(candidateID); !ok {
		return assignment.Assignment{}, fmt.Errorf("%w: candidate", ErrNotFound)
	}

	w.mu.Lock()
	if _, ok := w.jobs[jobID]; !ok {
		w.mu.Unlock()
		return assignment.Assignment{}, fmt.Errorf("%w: job", ErrNotFound)
	}
	a, err := w.ledger.Assign(candidateID, jobID, score)
	w.mu.Unlock()
	if err != nil {
		return assignment.Assignment{}, mapLedgerErr(err)
	}

	w.notify(EventJobsChanged, nil)
	w.save(ctx)
	return a, nil
}

func (w *Workspace) SetAssignmentStatus(ctx context.Context, candidateID, jobID, status, note string) (assignment.Assignment, error) {
	st, err := assignment.ParseStatus(status)
	if err != nil {
		return assignment.Assignment{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	a, err := w.ledger.SetStatus(candidateID, jobID, st, note)
	if err != nil {
		return assignment.Assignment{}, mapLedgerErr(err)
	}
	w.notify(EventJobsChanged, nil)
	w.save(ctx)
	w.logInfo("set_status", logrus.Fields{"candidate_id": candidateID, "job_id": jobID, "to": st})
	return a, nil
}

// Apply files an application for a candidate on the remote and records the
// assignment. Without a remote only the assignment is recorded.
func (w *Workspace) Apply(ctx context.Context, jobID, resumeID string) (assignment.Assignment, error) {
	if _, ok := w.jobExists(jobID); !ok {
		return assignment.Assignment{}, fmt.Errorf("%w: job", ErrNotFound)
	}
	c, ok := w.store.Get(resumeID)
	if !ok {
		return assignment.Assignment{}, fmt.Errorf("%w: candidate", ErrNotFound)
	}

	if remote, token, ok := w.remoteCall(); ok {
		if _, err := remote.ApplyToJob(ctx, token, jobID, c.ID); err != nil {
			if rerr := w.remoteErr("apply", err); !errors.Is(rerr, ErrLocalOnly) {
				return assignment.Assignment{}, rerr
			}
		}
	}

	var score *int
	if c.IsScreened() && c.ScoredJobID == jobID {
		s := c.Score
		score = &s
	}
	return w.Assign(ctx, c.ID, jobID, score)
}

func (w *Workspace) Assignments(jobID string) []assignment.Assignment {
	if jobID == "" {
		return w.ledger.All()
	}
	return w.ledger.ForJob(jobID)
}

func (w *Workspace) LedgerMetrics() ledger.Metrics {
	w.mu.Lock()
	jobs := w.jobsLocked()
	w.mu.Unlock()
	return w.ledger.Metrics(jobs, w.now())
}

func mapLedgerErr(err error) error {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ledger.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrValidation, err)
	default:
		return err
	}
}
