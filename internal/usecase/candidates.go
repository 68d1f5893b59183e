package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"screening-sync/internal/domain/candidate"
	"screening-sync/internal/domain/scoring"
	"screening-sync/internal/infrastructure/screening"
	"screening-sync/internal/store"
)

type UploadResumeInput struct {
	FileName string
	Content  []byte
	Fields   screening.ResumeFields
}

type CandidateView struct {
	Candidate      candidate.Candidate
	FinalScore     int
	Recommendation scoring.Recommendation
	HasInterview   bool
}

type CandidateFilter struct {
	MinScore *int
	Skill    string
	Screened *bool
}

type SyncMode string

const (
	SyncRemote    SyncMode = "remote"
	SyncLocalOnly SyncMode = "local_only"
	SyncSkipped   SyncMode = "skipped"
)

type SyncResult struct {
	Mode       SyncMode
	Candidates int
	Jobs       int
	Dropped    int
}

// UploadResume inserts a local placeholder, sends the file to the remote
// and swaps the placeholder for the server record. Without a remote the
// placeholder stays as a local-only candidate. A failed upload removes it.
func (w *Workspace) UploadResume(ctx context.Context, in UploadResumeInput) (CandidateView, error) {
	if err := validateFile(in.FileName, len(in.Content), resumeExtensions, w.settings.MaxResumeBytes); err != nil {
		return CandidateView{}, err
	}
	end := w.activity.Begin(ActivityUploading)
	defer end()

	placeholder := candidate.Candidate{
		ID:         candidate.NewLocalID(),
		Name:       strings.TrimSpace(in.Fields.Name),
		Email:      strings.TrimSpace(in.Fields.Email),
		Phone:      strings.TrimSpace(in.Fields.Phone),
		Skills:     cleanList(in.Fields.Skills),
		Education:  strings.TrimSpace(in.Fields.Education),
		Experience: strings.TrimSpace(in.Fields.Experience),
		Provenance: candidate.ProvenanceLocalOnly,
	}
	if placeholder.Name == "" {
		placeholder.Name = strings.TrimSuffix(in.FileName, fileExt(in.FileName))
	}
	hint, before := w.currentHint(ctx), w.store.Version()
	if _, err := w.store.Upsert(placeholder); err != nil {
		return CandidateView{}, err
	}
	w.notify(EventCandidatesChanged, nil)

	remote, token, ok := w.remoteCall()
	if !ok {
		w.dropHint(ctx)
		w.save(ctx)
		return w.view(placeholder), nil
	}

	server, err := remote.UploadResume(ctx, token, in.FileName, in.Content, in.Fields)
	if errors.Is(err, screening.ErrUnavailable) {
		w.dropHint(ctx)
		w.save(ctx)
		return w.view(placeholder), nil
	}
	if err != nil {
		_ = w.store.Remove(placeholder.ID)
		w.keepHint(ctx, hint, before)
		w.notify(EventCandidatesChanged, nil)
		w.logWarn("upload_resume", err)
		return CandidateView{}, fmt.Errorf("%w: %v", ErrRemote, err)
	}

	confirmed, err := w.store.Confirm(placeholder.ID, server)
	if err != nil {
		_ = w.store.Remove(placeholder.ID)
		w.keepHint(ctx, hint, before)
		w.notify(EventCandidatesChanged, nil)
		w.logWarn("confirm_upload", err)
		return CandidateView{}, fmt.Errorf("%w: %v", ErrRemote, err)
	}
	w.dropHint(ctx)
	w.notify(EventCandidatesChanged, nil)
	w.save(ctx)
	w.logInfo("upload_resume", logrus.Fields{"candidate_id": confirmed.ID})
	return w.view(confirmed), nil
}

func (w *Workspace) ListCandidates(f CandidateFilter) []CandidateView {
	skill := strings.ToLower(strings.TrimSpace(f.Skill))
	out := make([]CandidateView, 0)
	for _, c := range w.store.List() {
		v := w.view(c)
		if f.Screened != nil && c.IsScreened() != *f.Screened {
			continue
		}
		if f.MinScore != nil && v.FinalScore < *f.MinScore {
			continue
		}
		if skill != "" && !hasSkill(c.Skills, skill) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func (w *Workspace) GetCandidate(id string) (CandidateView, error) {
	c, ok := w.store.Get(id)
	if !ok {
		return CandidateView{}, ErrNotFound
	}
	return w.view(c), nil
}

// DeleteCandidate hides the candidate, deletes it remotely, then purges it
// with its assignments and interviews. A failed remote delete restores it.
func (w *Workspace) DeleteCandidate(ctx context.Context, id string) error {
	c, ok := w.store.Get(id)
	if !ok {
		return ErrNotFound
	}

	if c.Provenance == candidate.ProvenanceLocalOnly {
		if err := w.store.Remove(id); err != nil {
			return mapStoreErr(err)
		}
		w.afterCandidateDelete(ctx, id)
		return nil
	}

	if err := w.store.BeginDelete(id); err != nil {
		return mapStoreErr(err)
	}
	w.notify(EventCandidatesChanged, nil)

	if remote, token, ok := w.remoteCall(); ok {
		err := remote.DeleteResume(ctx, token, id)
		if err != nil && !errors.Is(err, screening.ErrUnavailable) && !screening.IsNotFound(err) {
			if abortErr := w.store.AbortDelete(id); abortErr != nil {
				w.logWarn("abort_delete", abortErr)
			}
			w.notify(EventCandidatesChanged, nil)
			w.logWarn("delete_candidate", err)
			return fmt.Errorf("%w: %v", ErrRemote, err)
		}
	}

	if err := w.store.CommitDelete(id); err != nil {
		return mapStoreErr(err)
	}
	w.afterCandidateDelete(ctx, id)
	return nil
}

func (w *Workspace) afterCandidateDelete(ctx context.Context, id string) {
	w.dropHint(ctx)
	w.notify(EventCandidatesChanged, map[string]string{"deleted": id})
	w.save(ctx)
	w.logInfo("delete_candidate", logrus.Fields{"candidate_id": id})
}

// Sync pulls candidates and jobs from the remote. Unless force is set it
// runs once per session. A failed fetch leaves local state as it was.
func (w *Workspace) Sync(ctx context.Context, force bool) (SyncResult, error) {
	remote, token, ok := w.remoteCall()
	if !ok {
		return SyncResult{Mode: SyncLocalOnly, Candidates: w.store.Len()}, nil
	}
	if !w.fetch.Begin(force) {
		return SyncResult{Mode: SyncSkipped, Candidates: w.store.Len()}, nil
	}
	end := w.activity.Begin(ActivityFetching)
	defer end()

	start := w.store.Version()

	resumes, err := remote.GetResumes(ctx, token)
	if err != nil {
		w.fetch.Fail()
		if errors.Is(err, screening.ErrUnavailable) {
			return SyncResult{Mode: SyncLocalOnly, Candidates: w.store.Len()}, nil
		}
		w.logWarn("sync_resumes", err)
		return SyncResult{}, fmt.Errorf("%w: %v", ErrRemote, err)
	}

	jobs, err := remote.ListJobDescriptions(ctx, token)
	if err != nil {
		w.fetch.Fail()
		w.logWarn("sync_jobs", err)
		return SyncResult{}, fmt.Errorf("%w: %v", ErrRemote, err)
	}

	var screened []candidate.Candidate
	dropped := resumes.Dropped
	if active := w.ActiveJobID(); active != "" && !candidate.IsLocalID(active) {
		results, err := remote.GetScreeningResults(ctx, token, active)
		if err != nil {
			w.fetch.Fail()
			w.logWarn("sync_results", err)
			return SyncResult{}, fmt.Errorf("%w: %v", ErrRemote, err)
		}
		dropped += results.Dropped
		screened = withJob(results.Candidates, active)
	}

	w.mu.Lock()
	w.store.ApplyFetch(start, candidate.Merge(resumes.Candidates, screened))
	w.applyJobsLocked(jobs)
	clean := w.store.Version() == start+1
	w.mu.Unlock()

	if clean {
		w.fetchHint(ctx, remote, token)
	} else {
		w.dropHint(ctx)
	}

	w.fetch.Complete()
	w.notify(EventCandidatesChanged, nil)
	w.notify(EventJobsChanged, nil)
	w.save(ctx)

	res := SyncResult{Mode: SyncRemote, Candidates: w.store.Len(), Jobs: len(jobs), Dropped: dropped}
	w.logInfo("sync", logrus.Fields{"candidates": res.Candidates, "jobs": res.Jobs, "dropped": res.Dropped})
	return res, nil
}

func (w *Workspace) view(c candidate.Candidate) CandidateView {
	final := w.finalScore(c.ID, c.Score)
	_, hasIV := w.interviews.Latest(c.ID)
	return CandidateView{
		Candidate:      c,
		FinalScore:     final,
		Recommendation: scoring.Recommend(final),
		HasInterview:   hasIV,
	}
}

func withJob(cands []candidate.Candidate, jobID string) []candidate.Candidate {
	out := make([]candidate.Candidate, 0, len(cands))
	for _, c := range cands {
		if c.IsScreened() {
			c.ScoredJobID = jobID
		}
		out = append(out, c)
	}
	return out
}

func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrDeleted):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, candidate.ErrInvalidTransition):
		return fmt.Errorf("%w: %v", ErrValidation, err)
	default:
		return err
	}
}

func hasSkill(skills []string, want string) bool {
	for _, s := range skills {
		if strings.ToLower(strings.TrimSpace(s)) == want {
			return true
		}
	}
	return false
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func fileExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}
