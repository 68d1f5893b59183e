package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"screening-sync/internal/domain/candidate"
	"screening-sync/internal/domain/interview"
	"screening-sync/internal/infrastructure/screening"
)

type UploadInterviewInput struct {
	CandidateID string
	FileName    string
	Content     []byte
}

type ManualInterviewInput struct {
	CandidateID          string
	Transcript           string
	SentimentScore       float64
	ConfidenceScore      float64
	ClarityScore         *float64
	EnthusiasmScore      *float64
	ProfessionalismScore *float64
}

// UploadInterview sends a recording for transcription and analysis and
// records the analysed interview for the candidate.
func (w *Workspace) UploadInterview(ctx context.Context, in UploadInterviewInput) (interview.Interview, error) {
	if strings.TrimSpace(in.CandidateID) == "" {
		return interview.Interview{}, fmt.Errorf("%w: candidate_id is required", ErrValidation)
	}
	if err := validateFile(in.FileName, len(in.Content), audioExtensions, w.settings.MaxAudioBytes); err != nil {
		return interview.Interview{}, err
	}
	c, ok := w.store.Get(in.CandidateID)
	if !ok {
		return interview.Interview{}, ErrNotFound
	}
	if c.Provenance != candidate.ProvenanceConfirmed {
		return interview.Interview{}, fmt.Errorf("%w: candidate is not uploaded yet", ErrLocalOnly)
	}
	remote, token, ok := w.remoteCall()
	if !ok {
		return interview.Interview{}, ErrLocalOnly
	}

	end := w.activity.Begin(ActivityAnalyzing)
	defer end()

	id, err := remote.UploadInterview(ctx, token, c.ID, in.FileName, in.Content)
	if err != nil {
		return interview.Interview{}, w.remoteErr("upload_interview", err)
	}
	iv, err := remote.ProcessInterview(ctx, token, id)
	if err != nil {
		return interview.Interview{}, w.remoteErr("process_interview", err)
	}
	if iv.ID == "" {
		iv.ID = id
	}
	if iv.CandidateID == "" {
		iv.CandidateID = c.ID
	}
	if iv.CreatedAt.IsZero() {
		iv.CreatedAt = w.now()
	}

	w.interviews.Add(iv)
	w.dropHint(ctx)
	w.notify(EventCandidatesChanged, map[string]string{"interview": iv.ID})
	w.save(ctx)
	w.logInfo("upload_interview", logrus.Fields{"candidate_id": c.ID, "interview_id": iv.ID})
	return iv, nil
}

// AddManualInterview records an interview whose scores were entered by
// hand. The candidate does not have to exist yet.
func (w *Workspace) AddManualInterview(ctx context.Context, in ManualInterviewInput) (interview.Interview, error) {
	if strings.TrimSpace(in.CandidateID) == "" {
		return interview.Interview{}, fmt.Errorf("%w: candidate_id is required", ErrValidation)
	}
	scores := []*float64{&in.SentimentScore, &in.ConfidenceScore, in.ClarityScore, in.EnthusiasmScore, in.ProfessionalismScore}
	for _, s := range scores {
		if s != nil && (*s < 0 || *s > 100) {
			return interview.Interview{}, fmt.Errorf("%w: scores must be between 0 and 100", ErrValidation)
		}
	}

	iv := interview.Interview{
		ID:                   uuid.NewString(),
		CandidateID:          strings.TrimSpace(in.CandidateID),
		Transcript:           in.Transcript,
		SentimentScore:       in.SentimentScore,
		ConfidenceScore:      in.ConfidenceScore,
		ClarityScore:         in.ClarityScore,
		EnthusiasmScore:      in.EnthusiasmScore,
		ProfessionalismScore: in.ProfessionalismScore,
		CreatedAt:            w.now(),
	}
	w.interviews.Add(iv)
	w.dropHint(ctx)
	w.notify(EventCandidatesChanged, map[string]string{"interview": iv.ID})
	w.save(ctx)
	return iv, nil
}

func (w *Workspace) Interviews(candidateID string) []interview.Interview {
	return w.interviews.ForCandidate(candidateID)
}

func (w *Workspace) remoteErr(step string, err error) error {
	if errors.Is(err, screening.ErrUnavailable) {
		return ErrLocalOnly
	}
	w.logWarn(step, err)
	return fmt.Errorf("%w: %v", ErrRemote, err)
}
