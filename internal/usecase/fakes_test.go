package usecase

import (
	"context"
	"sync"
	"time"

	"screening-sync/internal/dashboard"
	"screening-sync/internal/domain/candidate"
	"screening-sync/internal/domain/interview"
	"screening-sync/internal/domain/job"
	"screening-sync/internal/infrastructure/screening"
	"screening-sync/internal/repository"
)

type mockRemote struct {
	uploaded     candidate.Candidate
	uploadErr    error
	resumes      []candidate.Candidate
	resumesErr   error
	deleteErr    error
	jobs         []job.Job
	jobsErr      error
	created      job.Job
	createErr    error
	deleteJobErr error
	screen       map[string][]candidate.Candidate
	screenErr    map[string]error
	results      map[string][]candidate.Candidate
	stats        dashboard.Aggregate
	statsErr     error
	interviewID  string
	processed    interview.Interview
	applyErr     error
	chat         func(ctx context.Context) (screening.ChatResponse, error)

	mu    sync.Mutex
	calls []string
}

func (m *mockRemote) record(name string) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	m.mu.Unlock()
}

func (m *mockRemote) called(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (m *mockRemote) UploadResume(context.Context, string, string, []byte, screening.ResumeFields) (candidate.Candidate, error) {
	m.record("UploadResume")
	return m.uploaded, m.uploadErr
}
func (m *mockRemote) GetResumes(context.Context, string) (screening.CandidateBatch, error) {
	m.record("GetResumes")
	return screening.CandidateBatch{Candidates: m.resumes}, m.resumesErr
}
func (m *mockRemote) DeleteResume(context.Context, string, string) error {
	m.record("DeleteResume")
	return m.deleteErr
}
func (m *mockRemote) CreateJobDescription(context.Context, string, screening.JobRequest) (job.Job, error) {
	m.record("CreateJobDescription")
	return m.created, m.createErr
}
func (m *mockRemote) ListJobDescriptions(context.Context, string) ([]job.Job, error) {
	m.record("ListJobDescriptions")
	return m.jobs, m.jobsErr
}
func (m *mockRemote) DeleteJobDescription(context.Context, string, string) error {
	m.record("DeleteJobDescription")
	return m.deleteJobErr
}
func (m *mockRemote) ScreenCandidates(_ context.Context, _ string, jobID string, _ []string) (screening.CandidateBatch, error) {
	m.record("ScreenCandidates")
	if err := m.screenErr[jobID]; err != nil {
		return screening.CandidateBatch{}, err
	}
	return screening.CandidateBatch{Candidates: m.screen[jobID]}, nil
}
func (m *mockRemote) GetScreeningResults(_ context.Context, _ string, jobID string) (screening.CandidateBatch, error) {
	m.record("GetScreeningResults")
	return screening.CandidateBatch{Candidates: m.results[jobID]}, nil
}
func (m *mockRemote) GetDashboardStats(context.Context, string) (dashboard.Aggregate, error) {
	m.record("GetDashboardStats")
	return m.stats, m.statsErr
}
func (m *mockRemote) UploadInterview(context.Context, string, string, string, []byte) (string, error) {
	m.record("UploadInterview")
	return m.interviewID, nil
}
func (m *mockRemote) ProcessInterview(context.Context, string, string) (interview.Interview, error) {
	m.record("ProcessInterview")
	return m.processed, nil
}
func (m *mockRemote) ApplyToJob(_ context.Context, _ string, jobID, resumeID string) (screening.ApplicationDTO, error) {
	m.record("ApplyToJob")
	return screening.ApplicationDTO{JobID: jobID, ResumeID: resumeID, Status: "applied"}, m.applyErr
}
func (m *mockRemote) SendChatMessage(ctx context.Context, _ string, req screening.ChatRequest) (screening.ChatResponse, error) {
	m.record("SendChatMessage")
	if m.chat != nil {
		return m.chat(ctx)
	}
	return screening.ChatResponse{Message: "echo: " + req.Message}, nil
}

var _ screening.Client = (*mockRemote)(nil)

type memRepo struct {
	mu    sync.Mutex
	snaps map[string]repository.WorkspaceSnapshot
	saves int
}

func newMemRepo() *memRepo {
	return &memRepo{snaps: make(map[string]repository.WorkspaceSnapshot)}
}

func (r *memRepo) Save(_ context.Context, snap repository.WorkspaceSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	r.snaps[snap.SessionID] = snap
	return nil
}
func (r *memRepo) Load(_ context.Context, id string) (repository.WorkspaceSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap, ok := r.snaps[id]
	if !ok {
		return repository.WorkspaceSnapshot{}, repository.ErrSnapshotNotFound
	}
	return snap, nil
}
func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.snaps, id)
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Notify(_ string, event string, _ any) {
	n.mu.Lock()
	n.events = append(n.events, event)
	n.mu.Unlock()
}

func (n *recordingNotifier) count(event string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, e := range n.events {
		if e == event {
			c++
		}
	}
	return c
}

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newTestWorkspace(remote screening.Client) *Workspace {
	w := NewWorkspace("s1", Deps{
		Remote: remote,
		Now:    func() time.Time { return testNow },
	})
	if remote != nil {
		w.SetToken("token")
	}
	return w
}

func intPtr(v int) *int { return &v }

func notFoundErr() error {
	return &screening.StatusError{StatusCode: 404, Body: "not found"}
}
