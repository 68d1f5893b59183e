package candidate

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

const LocalIDPrefix = "local-"

var (
	ErrInvalidTransition = errors.New("invalid provenance transition")
	ErrEmptyID           = errors.New("empty candidate id")
)

type Provenance string

const (
	ProvenanceLocalOnly     Provenance = "local_only"
	ProvenanceConfirmed     Provenance = "confirmed"
	ProvenancePendingDelete Provenance = "pending_delete"
	ProvenanceDeleted       Provenance = "deleted"
)

type Candidate struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Skills       []string
	Education    string
	Experience   string
	Score        int
	SkillMatches []string
	ScoredJobID  string
	Provenance   Provenance
}

func NewLocalID() string {
	return LocalIDPrefix + uuid.NewString()
}

func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}

// IsScreened reports whether the candidate carries a job-contextual score.
func (c Candidate) IsScreened() bool {
	return c.Score > 0
}

func (c Candidate) Clone() Candidate {
	out := c
	if c.Skills != nil {
		out.Skills = append([]string(nil), c.Skills...)
	}
	if c.SkillMatches != nil {
		out.SkillMatches = append([]string(nil), c.SkillMatches...)
	}
	return out
}

// ResetScore turns a screened candidate back into a raw one.
func (c *Candidate) ResetScore() {
	c.Score = 0
	c.SkillMatches = nil
	c.ScoredJobID = ""
}

func (p Provenance) CanTransition(to Provenance) bool {
	switch p {
	case ProvenanceLocalOnly:
		return to == ProvenanceConfirmed || to == ProvenanceDeleted
	case ProvenanceConfirmed:
		return to == ProvenancePendingDelete
	case ProvenancePendingDelete:
		return to == ProvenanceDeleted || to == ProvenanceConfirmed
	default:
		return false
	}
}

func (c *Candidate) Transition(to Provenance) error {
	from := c.Provenance
	if from == "" {
		from = ProvenanceConfirmed
	}
	if !from.CanTransition(to) {
		return ErrInvalidTransition
	}
	c.Provenance = to
	return nil
}
