package usecase

import (
	"context"

	"screening-sync/internal/dashboard"
	"screening-sync/internal/infrastructure/screening"
)

type DashboardView struct {
	Stats      dashboard.Stats
	FetchState dashboard.FetchState
	LocalOnly  bool
}

// Dashboard runs the initial sync once per session and projects the store.
// A failed sync is logged and the local projection is still returned.
func (w *Workspace) Dashboard(ctx context.Context) DashboardView {
	if w.fetch.State() == dashboard.NotFetched {
		if _, err := w.Sync(ctx, false); err != nil {
			w.logWarn("dashboard_sync", err)
		}
	}
	return w.dashboardView(ctx)
}

// RefreshDashboard forces a sync before projecting.
func (w *Workspace) RefreshDashboard(ctx context.Context) (DashboardView, error) {
	if _, err := w.Sync(ctx, true); err != nil {
		return w.dashboardView(ctx), err
	}
	return w.dashboardView(ctx), nil
}

func (w *Workspace) dashboardView(ctx context.Context) DashboardView {
	cands := w.store.List()
	finals := make(map[string]int, len(cands))
	for _, c := range cands {
		finals[c.ID] = w.finalScore(c.ID, c.Score)
	}
	stats := dashboard.Compute(dashboard.Input{
		Candidates:     cands,
		FinalScores:    finals,
		InterviewCount: w.interviews.Len(),
		HasLocalData:   w.store.HasLocalData(),
		StoreVersion:   w.store.Version(),
		Hint:           w.currentHint(ctx),
		TopThreshold:   w.settings.TopThreshold,
		TopLimit:       w.settings.TopLimit,
	})
	return DashboardView{
		Stats:      stats,
		FetchState: w.fetch.State(),
		LocalOnly:  !w.RemoteEnabled(),
	}
}

// currentHint returns the in-memory aggregate, falling back to the shared
// cache when this process has not fetched one for the session.
func (w *Workspace) currentHint(ctx context.Context) *dashboard.Aggregate {
	w.mu.Lock()
	h := w.hint
	w.mu.Unlock()
	if h != nil || w.hints == nil {
		return h
	}
	cached, err := w.hints.Get(ctx, w.id)
	if err != nil {
		w.logWarn("load_hint", err)
		return nil
	}
	return cached
}

// fetchHint asks the remote for its aggregate and stamps it with the store
// version seen before the call, so any later local change invalidates it.
func (w *Workspace) fetchHint(ctx context.Context, remote screening.Client, token string) {
	version := w.store.Version()
	agg, err := remote.GetDashboardStats(ctx, token)
	if err != nil {
		w.logWarn("fetch_stats", err)
		return
	}
	agg.StoreVersion = version
	agg.FetchedAt = w.now()

	w.mu.Lock()
	w.hint = &agg
	w.mu.Unlock()
	if w.hints != nil {
		if err := w.hints.Put(ctx, w.id, agg); err != nil {
			w.logWarn("store_hint", err)
		}
	}
}

// keepHint re-stamps a hint that was trusted at version before, for when a
// local change has been rolled back and the store holds the same data again.
func (w *Workspace) keepHint(ctx context.Context, h *dashboard.Aggregate, before uint64) {
	if h == nil || h.StoreVersion != before {
		return
	}
	agg := *h
	agg.StoreVersion = w.store.Version()

	w.mu.Lock()
	w.hint = &agg
	w.mu.Unlock()
	if w.hints != nil {
		if err := w.hints.Put(ctx, w.id, agg); err != nil {
			w.logWarn("store_hint", err)
		}
	}
}
