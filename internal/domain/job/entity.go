package job

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalIDPrefix marks jobs created while the remote was unavailable.
const LocalIDPrefix = "local-"

var ErrInvalidStatus = errors.New("invalid job status")

type Status string

const (
	StatusDraft  Status = "draft"
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusDraft, StatusOpen, StatusClosed:
		return Status(s), nil
	case "":
		return StatusOpen, nil
	default:
		return "", ErrInvalidStatus
	}
}

type Job struct {
	ID             string
	Title          string
	Description    string
	RequiredSkills []string
	Experience     string
	Status         Status
	CreatedAt      time.Time

	// CandidateCount mirrors the ledger and is refreshed on read.
	CandidateCount int
}

func NewLocalID() string {
	return LocalIDPrefix + uuid.NewString()
}

func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}

func (j Job) IsOpen() bool {
	return j.Status == StatusOpen
}

func (j Job) Clone() Job {
	out := j
	if j.RequiredSkills != nil {
		out.RequiredSkills = append([]string(nil), j.RequiredSkills...)
	}
	return out
}
