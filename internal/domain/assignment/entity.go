package assignment

import (
	"errors"
	"time"
)

var ErrInvalidStatus = errors.New("invalid assignment status")

type Status string

const (
	StatusNew       Status = "new"
	StatusScreening Status = "screening"
	StatusInterview Status = "interview"
	StatusOffer     Status = "offer"
	StatusHired     Status = "hired"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

// Statuses lists every pipeline status in display order.
var Statuses = []Status{
	StatusNew,
	StatusScreening,
	StatusInterview,
	StatusOffer,
	StatusHired,
	StatusRejected,
	StatusWithdrawn,
}

func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	// "applied" is what the candidate portal calls a fresh application.
	if s == "applied" {
		return StatusNew, nil
	}
	return "", ErrInvalidStatus
}

type StatusChange struct {
	From      Status
	To        Status
	ChangedAt time.Time
	Note      string
}

type Assignment struct {
	CandidateID string
	JobID       string
	Status      Status
	Score       *int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	HiredAt     *time.Time
	History     []StatusChange
}

type Key struct {
	CandidateID string
	JobID       string
}

func (a Assignment) Key() Key {
	return Key{CandidateID: a.CandidateID, JobID: a.JobID}
}

func (a Assignment) Clone() Assignment {
	out := a
	if a.Score != nil {
		v := *a.Score
		out.Score = &v
	}
	if a.HiredAt != nil {
		v := *a.HiredAt
		out.HiredAt = &v
	}
	if a.History != nil {
		out.History = append([]StatusChange(nil), a.History...)
	}
	return out
}
