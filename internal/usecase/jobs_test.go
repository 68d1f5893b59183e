package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"screening-sync/internal/domain/assignment"
	"screening-sync/internal/domain/candidate"
	"screening-sync/internal/domain/job"
)

func TestScreenJobs_PartialFailureKeepsEarlierJobs(t *testing.T) {
	remote := &mockRemote{
		resumes: []candidate.Candidate{{ID: "r1"}, {ID: "r2"}, {ID: "r3"}},
		jobs:    []job.Job{{ID: "A", Title: "Backend"}, {ID: "B", Title: "Frontend"}},
		screen: map[string][]candidate.Candidate{"A": {
			{ID: "r1", Score: 88, SkillMatches: []string{"Go"}},
			{ID: "r2", Score: 64},
			{ID: "r3", Score: 41},
		}},
		screenErr: map[string]error{"B": errors.New("upstream 500")},
	}
	w := newTestWorkspace(remote)
	ctx := context.Background()
	if _, err := w.Sync(ctx, false); err != nil {
		t.Fatalf("sync: %v", err)
	}

	summary, err := w.ScreenJobs(ctx, []string{"A", "B"}, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if summary.Failed != 1 || len(summary.Results) != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if a := summary.Results[0]; a.JobID != "A" || a.Scored != 3 || a.Err != nil {
		t.Fatalf("unexpected outcome for A: %+v", a)
	}
	if b := summary.Results[1]; b.JobID != "B" || !errors.Is(b.Err, ErrRemote) {
		t.Fatalf("unexpected outcome for B: %+v", b)
	}

	for _, id := range []string{"r1", "r2", "r3"} {
		v, err := w.GetCandidate(id)
		if err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
		if !v.Candidate.IsScreened() || v.Candidate.ScoredJobID != "A" {
			t.Fatalf("expected %s scored for A, got %+v", id, v.Candidate)
		}
	}
	items := w.Assignments("A")
	if len(items) != 3 {
		t.Fatalf("expected 3 assignments for A, got %d", len(items))
	}
	for _, a := range items {
		if a.Status != assignment.StatusScreening {
			t.Fatalf("expected screening status, got %s", a.Status)
		}
	}
	if len(w.Assignments("B")) != 0 {
		t.Fatalf("expected no assignments for B")
	}
}

func TestScreenJobs_LocalOnly(t *testing.T) {
	w := newTestWorkspace(nil)
	if _, err := w.ScreenJobs(context.Background(), []string{"A"}, nil); !errors.Is(err, ErrLocalOnly) {
		t.Fatalf("expected ErrLocalOnly, got %v", err)
	}
}

func TestScreenJobs_UnknownJobReported(t *testing.T) {
	remote := &mockRemote{resumes: []candidate.Candidate{{ID: "r1"}}}
	w := newTestWorkspace(remote)
	if _, err := w.Sync(context.Background(), false); err != nil {
		t.Fatalf("sync: %v", err)
	}
	summary, err := w.ScreenJobs(context.Background(), []string{"missing"}, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if summary.Failed != 1 || !errors.Is(summary.Results[0].Err, ErrNotFound) {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if remote.called("ScreenCandidates") != 0 {
		t.Fatalf("expected no screen call")
	}
}

func TestCreateJob_LocalWhenUnavailable(t *testing.T) {
	w := newTestWorkspace(nil)
	j, err := w.CreateJob(context.Background(), CreateJobInput{Title: "Dev", Description: "Go", RequiredSkills: []string{" Go ", ""}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !job.IsLocalID(j.ID) || j.Status != job.StatusOpen {
		t.Fatalf("unexpected job: %+v", j)
	}
	if len(j.RequiredSkills) != 1 || j.RequiredSkills[0] != "Go" {
		t.Fatalf("expected cleaned skills, got %v", j.RequiredSkills)
	}
	if _, err := w.CreateJob(context.Background(), CreateJobInput{Title: "x"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := w.CreateJob(context.Background(), CreateJobInput{Title: "x", Description: "y", Status: "paused"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for status, got %v", err)
	}
}

func TestCreateJob_UsesServerRecord(t *testing.T) {
	remote := &mockRemote{created: job.Job{ID: "srv-1", Title: "Dev", Status: job.StatusOpen}}
	w := newTestWorkspace(remote)
	j, err := w.CreateJob(context.Background(), CreateJobInput{Title: "Dev", Description: "Go"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if j.ID != "srv-1" || !j.CreatedAt.Equal(testNow) {
		t.Fatalf("unexpected job: %+v", j)
	}

	remote.createErr = errors.New("boom")
	if _, err := w.CreateJob(context.Background(), CreateJobInput{Title: "Dev", Description: "Go"}); !errors.Is(err, ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
	if len(w.ListJobs()) != 1 {
		t.Fatalf("expected failed create to leave jobs alone")
	}
}

func TestDeleteJob_ResetsScoresAndActivePointer(t *testing.T) {
	w := screenedWorkspace(t, 82)
	ctx := context.Background()
	if err := w.SetActiveJob(ctx, "j1"); err != nil {
		t.Fatalf("set active: %v", err)
	}

	if err := w.DeleteJob(ctx, "j1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	v, _ := w.GetCandidate("r1")
	if v.Candidate.IsScreened() || v.Candidate.ScoredJobID != "" {
		t.Fatalf("expected raw candidate, got %+v", v.Candidate)
	}
	if w.ActiveJobID() != "" {
		t.Fatalf("expected active job cleared")
	}
	if len(w.Assignments("")) != 0 {
		t.Fatalf("expected assignments removed")
	}

	if _, err := w.Sync(ctx, true); err != nil {
		t.Fatalf("resync: %v", err)
	}
	if _, err := w.GetJob("j1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted job to stay gone, got %v", err)
	}
}

func TestDeleteJob_RemoteFailureKeepsJob(t *testing.T) {
	w := screenedWorkspace(t, 82)
	w.remote.(*mockRemote).deleteJobErr = errors.New("boom")
	if err := w.DeleteJob(context.Background(), "j1"); !errors.Is(err, ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
	if _, err := w.GetJob("j1"); err != nil {
		t.Fatalf("expected job kept, got %v", err)
	}
}

func TestSetActiveJob(t *testing.T) {
	w := newTestWorkspace(nil)
	if err := w.SetActiveJob(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	j, _ := w.CreateJob(context.Background(), CreateJobInput{Title: "Dev", Description: "Go"})
	if err := w.SetActiveJob(context.Background(), j.ID); err != nil || w.ActiveJobID() != j.ID {
		t.Fatalf("expected active %s, got %q %v", j.ID, w.ActiveJobID(), err)
	}
	if err := w.SetActiveJob(context.Background(), ""); err != nil || w.ActiveJobID() != "" {
		t.Fatalf("expected cleared pointer")
	}
}

func TestResults_SortedByFinalScore(t *testing.T) {
	remote := &mockRemote{
		resumes: []candidate.Candidate{{ID: "r1", Name: "A"}, {ID: "r2", Name: "B"}},
		jobs:    []job.Job{{ID: "j1", Title: "Dev"}},
		screen:  map[string][]candidate.Candidate{"j1": {{ID: "r1", Score: 60}, {ID: "r2", Score: 70}}},
	}
	w := newTestWorkspace(remote)
	ctx := context.Background()
	if _, err := w.Sync(ctx, false); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if _, err := w.ScreenJobs(ctx, []string{"j1"}, nil); err != nil {
		t.Fatalf("screen: %v", err)
	}
	if _, err := w.AddManualInterview(ctx, ManualInterviewInput{CandidateID: "r1", SentimentScore: 100, ConfidenceScore: 100}); err != nil {
		t.Fatalf("interview: %v", err)
	}

	rows, err := w.Results(ctx, "j1")
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Candidate.ID != "r1" || rows[0].FinalScore != 76 || !rows[0].HasInterview {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Candidate.ID != "r2" || rows[1].FinalScore != 70 {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
	if _, err := w.Results(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLedgerMetrics_ThroughWorkspace(t *testing.T) {
	remote := &mockRemote{
		resumes: []candidate.Candidate{{ID: "r1"}},
		jobs:    []job.Job{{ID: "j1", Title: "Dev", Status: job.StatusOpen, CreatedAt: testNow.Add(-72 * time.Hour)}},
	}
	w := newTestWorkspace(remote)
	ctx := context.Background()
	if _, err := w.Sync(ctx, false); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if _, err := w.Apply(ctx, "j1", "r1"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if remote.called("ApplyToJob") != 1 {
		t.Fatalf("expected remote apply")
	}

	m := w.LedgerMetrics()
	if m.OldestOpenJob == nil || m.OldestOpenJob.JobID != "j1" || m.OldestOpenJob.ElapsedDays != 3 {
		t.Fatalf("unexpected oldest open job: %+v", m.OldestOpenJob)
	}
	if _, err := w.SetAssignmentStatus(ctx, "r1", "j1", "hired", ""); err != nil {
		t.Fatalf("set status: %v", err)
	}
	m = w.LedgerMetrics()
	if m.AvgDaysToFill == nil || *m.AvgDaysToFill != 3 {
		t.Fatalf("expected 3 days to fill, got %v", m.AvgDaysToFill)
	}
	if m.OldestOpenJob != nil {
		t.Fatalf("expected no open job without hires, got %+v", m.OldestOpenJob)
	}
	if _, err := w.SetAssignmentStatus(ctx, "r1", "j1", "bogus", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSync_CandidateGoneFromServerLeavesNoTrace(t *testing.T) {
	remote := &mockRemote{
		resumes: []candidate.Candidate{{ID: "r1"}, {ID: "r2"}},
		jobs:    []job.Job{{ID: "A", Title: "Backend", Status: job.StatusOpen}},
		screen: map[string][]candidate.Candidate{"A": {
			{ID: "r1", Score: 80},
			{ID: "r2", Score: 70},
		}},
	}
	w := newTestWorkspace(remote)
	ctx := context.Background()
	if _, err := w.Sync(ctx, false); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if _, err := w.ScreenJobs(ctx, []string{"A"}, nil); err != nil {
		t.Fatalf("screen: %v", err)
	}
	if _, err := w.AddManualInterview(ctx, ManualInterviewInput{CandidateID: "r2", SentimentScore: 60, ConfidenceScore: 60}); err != nil {
		t.Fatalf("interview: %v", err)
	}

	remote.resumes = []candidate.Candidate{{ID: "r1"}}
	if _, err := w.Sync(ctx, true); err != nil {
		t.Fatalf("resync: %v", err)
	}

	if _, err := w.GetCandidate("r2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected r2 gone, got %v", err)
	}
	if got := len(w.Assignments("A")); got != 1 {
		t.Fatalf("expected 1 assignment for A, got %d", got)
	}
	if got := len(w.Interviews("r2")); got != 0 {
		t.Fatalf("expected no interviews for r2, got %d", got)
	}
	jobs := w.ListJobs()
	if len(jobs) != 1 || jobs[0].CandidateCount != 1 {
		t.Fatalf("expected candidate_count 1, got %+v", jobs)
	}
	total := 0
	for _, sc := range w.LedgerMetrics().Pipeline {
		total += sc.Count
	}
	if total != 1 {
		t.Fatalf("pipeline still counts a dropped candidate: %+v", w.LedgerMetrics().Pipeline)
	}
}
