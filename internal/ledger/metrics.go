package ledger

import (
	"math"
	"strconv"
	"time"

	"screening-sync/internal/domain/assignment"
	"screening-sync/internal/domain/job"
)

const NoValuePlaceholder = "—"

type StatusCount struct {
	Status assignment.Status
	Count  int
}

type OpenJobAge struct {
	JobID       string
	Title       string
	ElapsedDays int
}

type Metrics struct {
	Pipeline      []StatusCount
	AvgDaysToFill *int
	OldestOpenJob *OpenJobAge
}

// AvgDaysToFillLabel renders the average for display. No hires yields the
// placeholder rather than "0".
func (m Metrics) AvgDaysToFillLabel() string {
	if m.AvgDaysToFill == nil {
		return NoValuePlaceholder
	}
	if *m.AvgDaysToFill == 1 {
		return "1 day"
	}
	return strconv.Itoa(*m.AvgDaysToFill) + " days"
}

// Metrics derives pipeline breakdown and time-to-hire figures from the
// current assignments and the given jobs. Nothing is cached.
func (l *Ledger) Metrics(jobs []job.Job, now time.Time) Metrics {
	return ComputeMetrics(l.All(), jobs, now)
}

func ComputeMetrics(items []assignment.Assignment, jobs []job.Job, now time.Time) Metrics {
	counts := make(map[assignment.Status]int, len(assignment.Statuses))
	firstHire := make(map[string]time.Time)
	for _, a := range items {
		counts[a.Status]++
		if a.Status != assignment.StatusHired {
			continue
		}
		hiredAt := a.UpdatedAt
		if a.HiredAt != nil {
			hiredAt = *a.HiredAt
		}
		if prev, ok := firstHire[a.JobID]; !ok || hiredAt.Before(prev) {
			firstHire[a.JobID] = hiredAt
		}
	}

	out := Metrics{Pipeline: make([]StatusCount, 0, len(assignment.Statuses))}
	for _, st := range assignment.Statuses {
		out.Pipeline = append(out.Pipeline, StatusCount{Status: st, Count: counts[st]})
	}

	var totalDays float64
	filled := 0
	for _, j := range jobs {
		hiredAt, ok := firstHire[j.ID]
		if !ok {
			continue
		}
		totalDays += daysBetween(j.CreatedAt, hiredAt)
		filled++
	}
	if filled > 0 {
		avg := int(math.Floor(totalDays/float64(filled) + 0.5))
		out.AvgDaysToFill = &avg
	}

	for _, j := range jobs {
		if !j.IsOpen() {
			continue
		}
		if _, hired := firstHire[j.ID]; hired {
			continue
		}
		elapsed := int(math.Floor(daysBetween(j.CreatedAt, now)))
		if out.OldestOpenJob == nil || elapsed > out.OldestOpenJob.ElapsedDays {
			out.OldestOpenJob = &OpenJobAge{JobID: j.ID, Title: j.Title, ElapsedDays: elapsed}
		}
	}

	return out
}

func daysBetween(from, to time.Time) float64 {
	d := to.Sub(from).Hours() / 24
	if d < 0 {
		return 0
	}
	return d
}
