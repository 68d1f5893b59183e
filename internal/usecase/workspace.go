package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"screening-sync/internal/dashboard"
	"screening-sync/internal/domain/interview"
	"screening-sync/internal/domain/job"
	"screening-sync/internal/domain/scoring"
	"screening-sync/internal/infrastructure/cache"
	"screening-sync/internal/infrastructure/screening"
	"screening-sync/internal/ledger"
	"screening-sync/internal/store"
)

const (
	EventCandidatesChanged = "candidates_changed"
	EventJobsChanged       = "jobs_changed"
	EventActivity          = "activity"
)

// Notifier pushes change events to the clients of one session.
type Notifier interface {
	Notify(sessionID, event string, payload any)
}

type Settings struct {
	TopThreshold   int
	TopLimit       int
	MaxResumeBytes int64
	MaxAudioBytes  int64
}

func (s Settings) withDefaults() Settings {
	if s.TopThreshold <= 0 {
		s.TopThreshold = dashboard.DefaultTopThreshold
	}
	if s.TopLimit <= 0 {
		s.TopLimit = dashboard.DefaultTopLimit
	}
	if s.MaxResumeBytes <= 0 {
		s.MaxResumeBytes = 10 << 20
	}
	if s.MaxAudioBytes <= 0 {
		s.MaxAudioBytes = 50 << 20
	}
	return s
}

// Deps are shared by every workspace. Remote, Hints and Notifier may be nil.
type Deps struct {
	Remote   screening.Client
	Hints    cache.HintStore
	Notifier Notifier
	Logger   *logrus.Logger
	Now      func() time.Time
	Settings Settings
}

// Workspace is the application state of one session: candidate store,
// assignment ledger, jobs, interviews and dashboard fetch state. mu
// serializes multi-step mutations; remote calls run without it.
type Workspace struct {
	id string

	mu            sync.Mutex
	token         string
	store         *store.Store
	ledger        *ledger.Ledger
	interviews    *interview.Registry
	jobs          map[string]job.Job
	jobTombstones map[string]struct{}
	activeJobID   string
	hint          *dashboard.Aggregate
	fetch         *dashboard.FetchGuard

	chatMu     sync.Mutex
	chatCancel context.CancelFunc
	chatSeq    uint64

	activity *Activity
	remote   screening.Client
	hints    cache.HintStore
	notifier Notifier
	logger   *logrus.Logger
	now      func() time.Time
	settings Settings

	persist func(ctx context.Context, w *Workspace)
}

func NewWorkspace(id string, deps Deps) *Workspace {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	w := &Workspace{
		id:            id,
		ledger:        ledger.NewWithClock(now),
		interviews:    interview.NewRegistry(),
		jobs:          make(map[string]job.Job),
		jobTombstones: make(map[string]struct{}),
		fetch:         dashboard.NewFetchGuard(),
		remote:        deps.Remote,
		hints:         deps.Hints,
		notifier:      deps.Notifier,
		logger:        logger,
		now:           now,
		settings:      deps.Settings.withDefaults(),
	}
	w.store = store.New(w.ledger, w.interviews)
	w.activity = NewActivity(func(snap map[ActivityKind]bool) {
		w.notify(EventActivity, snap)
	})
	return w
}

func (w *Workspace) ID() string {
	return w.id
}

func (w *Workspace) SetToken(token string) {
	w.mu.Lock()
	w.token = token
	w.mu.Unlock()
}

func (w *Workspace) currentToken() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.token
}

// RemoteEnabled reports whether remote calls can be attempted for this
// session.
func (w *Workspace) RemoteEnabled() bool {
	return w.remote != nil && w.currentToken() != ""
}

func (w *Workspace) Activity() map[ActivityKind]bool {
	return w.activity.Snapshot()
}

func (w *Workspace) notify(event string, payload any) {
	if w.notifier == nil {
		return
	}
	w.notifier.Notify(w.id, event, payload)
}

func (w *Workspace) save(ctx context.Context) {
	if w.persist == nil {
		return
	}
	w.persist(ctx, w)
}

// dropHint forgets the server aggregate after a local add or delete.
func (w *Workspace) dropHint(ctx context.Context) {
	w.mu.Lock()
	w.hint = nil
	w.mu.Unlock()
	if w.hints != nil {
		if err := w.hints.Drop(ctx, w.id); err != nil {
			w.logWarn("drop_hint", err)
		}
	}
}

func (w *Workspace) finalScore(candidateID string, resume int) int {
	iv, ok := w.interviews.Latest(candidateID)
	if !ok {
		return scoring.Compose(resume, nil)
	}
	return scoring.Compose(resume, &scoring.InterviewScores{Sentiment: iv.SentimentScore, Confidence: iv.ConfidenceScore})
}

func (w *Workspace) jobsLocked() []job.Job {
	counts := w.ledger.CountByJob()
	out := make([]job.Job, 0, len(w.jobs))
	for _, j := range w.jobs {
		c := j.Clone()
		c.CandidateCount = counts[j.ID]
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (w *Workspace) remoteCall() (screening.Client, string, bool) {
	token := w.currentToken()
	if w.remote == nil || token == "" {
		return nil, "", false
	}
	return w.remote, token, true
}

func (w *Workspace) logWarn(step string, err error) {
	w.logger.WithFields(logrus.Fields{
		"component": "workspace",
		"session":   w.id,
		"step":      step,
		"status":    "error",
		"err":       err,
	}).Warn("workspace step failed")
}

func (w *Workspace) logInfo(step string, fields logrus.Fields) {
	f := logrus.Fields{"component": "workspace", "session": w.id, "step": step, "status": "ok"}
	for k, v := range fields {
		f[k] = v
	}
	w.logger.WithFields(f).Info("workspace step done")
}
