package dto

import (
	"sort"

	"screening-sync/internal/dashboard"
	"screening-sync/internal/usecase"
)

type DashboardResponse struct {
	dashboard.Stats
	FetchState string `json:"fetch_state"`
	LocalOnly  bool   `json:"local_only"`
}

func NewDashboardResponse(v usecase.DashboardView) DashboardResponse {
	return DashboardResponse{Stats: v.Stats, FetchState: string(v.FetchState), LocalOnly: v.LocalOnly}
}

type ActivityResponse struct {
	Busy  []string        `json:"busy"`
	Kinds map[string]bool `json:"kinds"`
}

func NewActivityResponse(snap map[usecase.ActivityKind]bool) ActivityResponse {
	out := ActivityResponse{Busy: make([]string, 0), Kinds: make(map[string]bool, len(snap))}
	for k, busy := range snap {
		out.Kinds[string(k)] = busy
		if busy {
			out.Busy = append(out.Busy, string(k))
		}
	}
	sort.Strings(out.Busy)
	return out
}
