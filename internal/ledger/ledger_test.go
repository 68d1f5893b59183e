package ledger

import (
	"errors"
	"testing"
	"time"

	"screening-sync/internal/domain/assignment"
	"screening-sync/internal/domain/job"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLedger() (*Ledger, *fakeClock) {
	clk := &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	return NewWithClock(clk.now), clk
}

func intPtr(v int) *int { return &v }

func TestAssign_DedupesPerCandidateAndJob(t *testing.T) {
	l, _ := newTestLedger()

	if _, err := l.Assign("c1", "j1", intPtr(70)); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	a, err := l.Assign("c1", "j1", intPtr(82))
	if err != nil {
		t.Fatalf("Assign again: %v", err)
	}

	if l.Len() != 1 {
		t.Fatalf("expected 1 assignment, got %d", l.Len())
	}
	if a.Score == nil || *a.Score != 82 {
		t.Fatalf("expected score 82, got %v", a.Score)
	}
	if a.Status != assignment.StatusNew {
		t.Fatalf("expected status new, got %s", a.Status)
	}
}

func TestAssign_NilScoreKeepsExisting(t *testing.T) {
	l, _ := newTestLedger()
	_, _ = l.Assign("c1", "j1", intPtr(64))
	a, _ := l.Assign("c1", "j1", nil)
	if a.Score == nil || *a.Score != 64 {
		t.Fatalf("expected score 64 kept, got %v", a.Score)
	}
}

func TestAssign_RejectsEmptyIDs(t *testing.T) {
	l, _ := newTestLedger()
	if _, err := l.Assign("", "j1", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSetStatus_AppendsHistoryAndStampsHire(t *testing.T) {
	l, clk := newTestLedger()
	_, _ = l.Assign("c1", "j1", nil)

	clk.advance(24 * time.Hour)
	if _, err := l.SetStatus("c1", "j1", assignment.StatusInterview, "phone screen"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	clk.advance(24 * time.Hour)
	hired, err := l.SetStatus("c1", "j1", assignment.StatusHired, "")
	if err != nil {
		t.Fatalf("SetStatus hired: %v", err)
	}
	firstHire := *hired.HiredAt

	clk.advance(24 * time.Hour)
	_, _ = l.SetStatus("c1", "j1", assignment.StatusOffer, "")
	clk.advance(24 * time.Hour)
	again, _ := l.SetStatus("c1", "j1", assignment.StatusHired, "")

	if len(again.History) != 4 {
		t.Fatalf("expected 4 history entries, got %d", len(again.History))
	}
	if again.History[0].From != assignment.StatusNew || again.History[0].To != assignment.StatusInterview {
		t.Fatalf("unexpected first change: %+v", again.History[0])
	}
	if !again.HiredAt.Equal(firstHire) {
		t.Fatalf("expected hire stamp kept at %v, got %v", firstHire, again.HiredAt)
	}
}

func TestSetStatus_Errors(t *testing.T) {
	l, _ := newTestLedger()
	if _, err := l.SetStatus("c1", "j1", assignment.StatusHired, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	_, _ = l.Assign("c1", "j1", nil)
	if _, err := l.SetStatus("c1", "j1", assignment.Status("bogus"), ""); !errors.Is(err, assignment.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestSetStatus_StoresCanonicalStatus(t *testing.T) {
	l, clk := newTestLedger()
	_, _ = l.Assign("c1", "j1", nil)
	_, _ = l.SetStatus("c1", "j1", assignment.StatusScreening, "")

	a, err := l.SetStatus("c1", "j1", assignment.Status("applied"), "reapplied")
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if a.Status != assignment.StatusNew {
		t.Fatalf("expected %q, got %q", assignment.StatusNew, a.Status)
	}
	if last := a.History[len(a.History)-1]; last.To != assignment.StatusNew {
		t.Fatalf("history recorded raw status: %+v", last)
	}

	m := ComputeMetrics(l.All(), nil, clk.now())
	counted := 0
	for _, sc := range m.Pipeline {
		counted += sc.Count
	}
	if counted != 1 {
		t.Fatalf("expected the assignment counted once, got %+v", m.Pipeline)
	}
}

func TestRemoveCandidateAndJob(t *testing.T) {
	l, _ := newTestLedger()
	_, _ = l.Assign("c1", "j1", nil)
	_, _ = l.Assign("c1", "j2", nil)
	_, _ = l.Assign("c2", "j1", nil)

	if n := l.RemoveCandidate("c1"); n != 2 {
		t.Fatalf("expected 2 removed, got %d", n)
	}
	if n := l.RemoveJob("j1"); n != 1 {
		t.Fatalf("expected 1 removed, got %d", n)
	}
	if l.Len() != 0 {
		t.Fatalf("expected empty ledger, got %d", l.Len())
	}
}

func TestRekey_MovesAssignments(t *testing.T) {
	l, _ := newTestLedger()
	_, _ = l.Assign("local-1", "j1", intPtr(50))
	l.Rekey("local-1", "srv-9")

	if _, ok := l.Get("local-1", "j1"); ok {
		t.Fatalf("expected old key gone")
	}
	a, ok := l.Get("srv-9", "j1")
	if !ok || a.CandidateID != "srv-9" {
		t.Fatalf("expected rekeyed assignment, got %+v ok=%v", a, ok)
	}
}

func TestCountByJob(t *testing.T) {
	l, _ := newTestLedger()
	_, _ = l.Assign("c1", "j1", nil)
	_, _ = l.Assign("c2", "j1", nil)
	_, _ = l.Assign("c3", "j2", nil)

	got := l.CountByJob()
	if got["j1"] != 2 || got["j2"] != 1 {
		t.Fatalf("unexpected counts: %v", got)
	}
}

func TestMetrics_NoHires(t *testing.T) {
	l, clk := newTestLedger()
	jobs := []job.Job{{ID: "j1", Title: "Backend", Status: job.StatusOpen, CreatedAt: clk.t}}
	_, _ = l.Assign("c1", "j1", nil)

	clk.advance(10 * 24 * time.Hour)
	m := l.Metrics(jobs, clk.t)

	if m.AvgDaysToFill != nil {
		t.Fatalf("expected no average, got %d", *m.AvgDaysToFill)
	}
	if got := m.AvgDaysToFillLabel(); got != NoValuePlaceholder {
		t.Fatalf("expected placeholder, got %q", got)
	}
	if m.OldestOpenJob == nil || m.OldestOpenJob.JobID != "j1" || m.OldestOpenJob.ElapsedDays != 10 {
		t.Fatalf("unexpected oldest open job: %+v", m.OldestOpenJob)
	}
	if len(m.Pipeline) != len(assignment.Statuses) {
		t.Fatalf("expected zero-filled pipeline, got %d entries", len(m.Pipeline))
	}
	if m.Pipeline[0].Status != assignment.StatusNew || m.Pipeline[0].Count != 1 {
		t.Fatalf("unexpected new count: %+v", m.Pipeline[0])
	}
}

func TestMetrics_AverageDaysToFill(t *testing.T) {
	l, clk := newTestLedger()
	start := clk.t
	jobs := []job.Job{
		{ID: "j1", Status: job.StatusOpen, CreatedAt: start},
		{ID: "j2", Status: job.StatusClosed, CreatedAt: start},
		{ID: "j3", Status: job.StatusOpen, CreatedAt: start.Add(-30 * 24 * time.Hour)},
	}
	_, _ = l.Assign("c1", "j1", nil)
	_, _ = l.Assign("c2", "j2", nil)
	_, _ = l.Assign("c3", "j1", nil)

	clk.advance(4 * 24 * time.Hour)
	_, _ = l.SetStatus("c1", "j1", assignment.StatusHired, "")
	clk.advance(3 * 24 * time.Hour)
	_, _ = l.SetStatus("c2", "j2", assignment.StatusHired, "")
	_, _ = l.SetStatus("c3", "j1", assignment.StatusHired, "")

	m := l.Metrics(jobs, clk.t)
	// j1 filled after 4 days (earliest hire), j2 after 7: mean 5.5 rounds to 6.
	if m.AvgDaysToFill == nil || *m.AvgDaysToFill != 6 {
		t.Fatalf("expected avg 6, got %v", m.AvgDaysToFill)
	}
	if got := m.AvgDaysToFillLabel(); got != "6 days" {
		t.Fatalf("unexpected label %q", got)
	}
	if m.OldestOpenJob == nil || m.OldestOpenJob.JobID != "j3" {
		t.Fatalf("expected j3 oldest open, got %+v", m.OldestOpenJob)
	}
}
