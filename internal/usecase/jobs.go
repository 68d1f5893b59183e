package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"screening-sync/internal/domain/assignment"
	"screening-sync/internal/domain/candidate"
	"screening-sync/internal/domain/job"
	"screening-sync/internal/domain/scoring"
	"screening-sync/internal/infrastructure/screening"
)

type CreateJobInput struct {
	Title          string
	Description    string
	RequiredSkills []string
	Experience     string
	Status         string
}

type JobOutcome struct {
	JobID   string
	Title   string
	Scored  int
	Dropped int
	Err     error
}

// ScreeningSummary reports a bulk screening run job by job.
type ScreeningSummary struct {
	Results []JobOutcome
	Failed  int
}

type ResultRow struct {
	Candidate      candidate.Candidate
	Status         assignment.Status
	ResumeScore    int
	FinalScore     int
	Recommendation scoring.Recommendation
	HasInterview   bool
}

func (w *Workspace) CreateJob(ctx context.Context, in CreateJobInput) (job.Job, error) {
	title := strings.TrimSpace(in.Title)
	desc := strings.TrimSpace(in.Description)
	if title == "" || desc == "" {
		return job.Job{}, fmt.Errorf("%w: title and description are required", ErrValidation)
	}
	status, err := job.ParseStatus(strings.TrimSpace(in.Status))
	if err != nil {
		return job.Job{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	created := job.Job{
		ID:             job.NewLocalID(),
		Title:          title,
		Description:    desc,
		RequiredSkills: cleanList(in.RequiredSkills),
		Experience:     strings.TrimSpace(in.Experience),
		Status:         status,
		CreatedAt:      w.now(),
	}

	if remote, token, ok := w.remoteCall(); ok {
		server, err := remote.CreateJobDescription(ctx, token, screening.JobRequest{
			Title:              created.Title,
			Description:        created.Description,
			RequiredSkills:     created.RequiredSkills,
			ExperienceRequired: created.Experience,
			Status:             string(created.Status),
		})
		switch {
		case err == nil:
			created = server
			if created.CreatedAt.IsZero() {
				created.CreatedAt = w.now()
			}
		case errors.Is(err, screening.ErrUnavailable):
		default:
			w.logWarn("create_job", err)
			return job.Job{}, fmt.Errorf("%w: %v", ErrRemote, err)
		}
	}

	w.mu.Lock()
	w.jobs[created.ID] = created.Clone()
	w.mu.Unlock()

	w.notify(EventJobsChanged, nil)
	w.save(ctx)
	w.logInfo("create_job", logrus.Fields{"job_id": created.ID})
	return created, nil
}

func (w *Workspace) ListJobs() []job.Job {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.jobsLocked()
}

func (w *Workspace) GetJob(id string) (job.Job, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.jobs[id]; !ok {
		return job.Job{}, ErrNotFound
	}
	for _, j := range w.jobsLocked() {
		if j.ID == id {
			return j, nil
		}
	}
	return job.Job{}, ErrNotFound
}

// DeleteJob removes the job remotely and locally. Candidates scored against
// it become raw again, its assignments go and the active pointer is cleared
// if it pointed here.
func (w *Workspace) DeleteJob(ctx context.Context, id string) error {
	w.mu.Lock()
	_, ok := w.jobs[id]
	w.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	if remote, token, ok := w.remoteCall(); ok && !job.IsLocalID(id) {
		err := remote.DeleteJobDescription(ctx, token, id)
		if err != nil && !errors.Is(err, screening.ErrUnavailable) && !screening.IsNotFound(err) {
			w.logWarn("delete_job", err)
			return fmt.Errorf("%w: %v", ErrRemote, err)
		}
	}

	w.mu.Lock()
	w.removeJobLocked(id)
	w.mu.Unlock()

	w.dropHint(ctx)
	w.notify(EventJobsChanged, map[string]string{"deleted": id})
	w.notify(EventCandidatesChanged, nil)
	w.save(ctx)
	w.logInfo("delete_job", logrus.Fields{"job_id": id})
	return nil
}

func (w *Workspace) removeJobLocked(id string) {
	delete(w.jobs, id)
	w.jobTombstones[id] = struct{}{}
	w.ledger.RemoveJob(id)
	w.store.ResetScoresForJob(id)
	if w.activeJobID == id {
		w.activeJobID = ""
	}
}

func (w *Workspace) ActiveJobID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.activeJobID
}

// SetActiveJob points the workspace at a job. An empty id clears it.
func (w *Workspace) SetActiveJob(ctx context.Context, id string) error {
	w.mu.Lock()
	if id != "" {
		if _, ok := w.jobs[id]; !ok {
			w.mu.Unlock()
			return ErrNotFound
		}
	}
	w.activeJobID = id
	w.mu.Unlock()

	w.notify(EventJobsChanged, map[string]string{"active_job_id": id})
	w.save(ctx)
	return nil
}

// applyJobsLocked replaces the server-held jobs with a fetched list. Local
// jobs stay, deleted ids never come back, and jobs the server dropped take
// their scores and assignments with them.
func (w *Workspace) applyJobsLocked(fetched []job.Job) {
	incoming := make(map[string]job.Job, len(fetched))
	for _, j := range fetched {
		if j.ID == "" {
			continue
		}
		if _, dead := w.jobTombstones[j.ID]; dead {
			continue
		}
		incoming[j.ID] = j.Clone()
	}
	for id := range w.jobs {
		if job.IsLocalID(id) {
			continue
		}
		if _, ok := incoming[id]; !ok {
			delete(w.jobs, id)
			w.ledger.RemoveJob(id)
			w.store.ResetScoresForJob(id)
			if w.activeJobID == id {
				w.activeJobID = ""
			}
		}
	}
	for id, j := range incoming {
		w.jobs[id] = j
	}
}

func (w *Workspace) jobExists(id string) (job.Job, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	j, ok := w.jobs[id]
	return j, ok
}

// ScreenJobs screens candidates against each job in turn. A failing job is
// reported in the summary and later jobs still run. Results of jobs that
// succeeded are kept.
func (w *Workspace) ScreenJobs(ctx context.Context, jobIDs, resumeIDs []string) (ScreeningSummary, error) {
	jobIDs = cleanList(jobIDs)
	if len(jobIDs) == 0 {
		return ScreeningSummary{}, fmt.Errorf("%w: at least one job is required", ErrValidation)
	}
	remote, token, ok := w.remoteCall()
	if !ok {
		return ScreeningSummary{}, ErrLocalOnly
	}

	ids := w.screenableIDs(cleanList(resumeIDs))
	if len(ids) == 0 {
		return ScreeningSummary{}, fmt.Errorf("%w: no uploaded candidates to screen", ErrValidation)
	}

	end := w.activity.Begin(ActivityScreening)
	defer end()

	summary := ScreeningSummary{Results: make([]JobOutcome, 0, len(jobIDs))}
	for _, jobID := range jobIDs {
		outcome := w.screenOne(ctx, remote, token, jobID, ids)
		if outcome.Err != nil {
			summary.Failed++
		}
		summary.Results = append(summary.Results, outcome)
	}

	w.dropHint(ctx)
	w.notify(EventCandidatesChanged, nil)
	w.notify(EventJobsChanged, nil)
	w.save(ctx)
	w.logInfo("screen_jobs", logrus.Fields{"jobs": len(jobIDs), "failed": summary.Failed})
	return summary, nil
}

func (w *Workspace) screenOne(ctx context.Context, remote screening.Client, token, jobID string, resumeIDs []string) JobOutcome {
	j, ok := w.jobExists(jobID)
	if !ok {
		return JobOutcome{JobID: jobID, Err: ErrNotFound}
	}
	outcome := JobOutcome{JobID: jobID, Title: j.Title}
	if job.IsLocalID(jobID) {
		outcome.Err = fmt.Errorf("%w: job exists only locally", ErrLocalOnly)
		return outcome
	}

	batch, err := remote.ScreenCandidates(ctx, token, jobID, resumeIDs)
	if err != nil {
		w.logWarn("screen_job", err)
		outcome.Err = fmt.Errorf("%w: %v", ErrRemote, err)
		return outcome
	}
	outcome.Dropped = batch.Dropped

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, still := w.jobs[jobID]; !still {
		outcome.Err = ErrJobDeleted
		return outcome
	}
	outcome.Scored = w.applyScoredLocked(jobID, batch.Candidates)
	return outcome
}

// applyScoredLocked stores scored candidates for a job and records them in
// the ledger. It returns how many screened candidates were applied.
func (w *Workspace) applyScoredLocked(jobID string, cands []candidate.Candidate) int {
	scored := withJob(cands, jobID)
	w.store.Merge(nil, scored)

	n := 0
	for _, c := range scored {
		if !c.IsScreened() {
			continue
		}
		if _, ok := w.store.Get(c.ID); !ok {
			continue
		}
		score := c.Score
		a, err := w.ledger.Assign(c.ID, jobID, &score)
		if err != nil {
			w.logWarn("assign_scored", err)
			continue
		}
		if a.Status == assignment.StatusNew {
			if _, err := w.ledger.SetStatus(c.ID, jobID, assignment.StatusScreening, "screened"); err != nil {
				w.logWarn("assign_scored", err)
			}
		}
		n++
	}
	return n
}

func (w *Workspace) screenableIDs(requested []string) []string {
	if len(requested) == 0 {
		out := make([]string, 0)
		for _, c := range w.store.List() {
			if c.Provenance == candidate.ProvenanceConfirmed {
				out = append(out, c.ID)
			}
		}
		return out
	}
	out := make([]string, 0, len(requested))
	for _, id := range requested {
		c, ok := w.store.Get(id)
		if ok && c.Provenance == candidate.ProvenanceConfirmed {
			out = append(out, id)
		}
	}
	return out
}

// Results lists the candidates assigned to a job by final score. When the
// remote is reachable its stored results are merged first; a failed fetch
// falls back to local data.
func (w *Workspace) Results(ctx context.Context, jobID string) ([]ResultRow, error) {
	if _, ok := w.jobExists(jobID); !ok {
		return nil, ErrNotFound
	}

	if remote, token, ok := w.remoteCall(); ok && !job.IsLocalID(jobID) {
		batch, err := remote.GetScreeningResults(ctx, token, jobID)
		if err != nil {
			if !errors.Is(err, screening.ErrUnavailable) {
				w.logWarn("fetch_results", err)
			}
		} else {
			w.mu.Lock()
			if _, still := w.jobs[jobID]; still {
				w.applyScoredLocked(jobID, batch.Candidates)
			}
			w.mu.Unlock()
		}
	}

	rows := make([]ResultRow, 0)
	for _, a := range w.ledger.ForJob(jobID) {
		c, ok := w.store.Get(a.CandidateID)
		if !ok {
			continue
		}
		resume := 0
		switch {
		case a.Score != nil:
			resume = *a.Score
		case c.ScoredJobID == jobID:
			resume = c.Score
		}
		final := w.finalScore(c.ID, resume)
		_, hasIV := w.interviews.Latest(c.ID)
		rows = append(rows, ResultRow{
			Candidate:      c,
			Status:         a.Status,
			ResumeScore:    resume,
			FinalScore:     final,
			Recommendation: scoring.Recommend(final),
			HasInterview:   hasIV,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].FinalScore != rows[j].FinalScore {
			return rows[i].FinalScore > rows[j].FinalScore
		}
		return rows[i].Candidate.ID < rows[j].Candidate.ID
	})
	return rows, nil
}
