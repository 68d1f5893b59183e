package screening

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestClient(t *testing.T, h http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL + "/"}, quietLogger())
}

func TestClient_UnavailableWithoutTokenOrURL(t *testing.T) {
	c := NewClient(Options{}, quietLogger())
	if _, err := c.GetResumes(context.Background(), "tok"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable without base url, got %v", err)
	}

	called := false
	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })
	if _, err := c.GetResumes(context.Background(), ""); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable without token, got %v", err)
	}
	if called {
		t.Fatalf("request should not be sent without token")
	}
}

func TestClient_ScreenCandidates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/jobs/j1/screen" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("unexpected auth header %q", got)
		}
		var body screenRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if len(body.ResumeIDs) != 2 {
			t.Errorf("expected 2 resume ids, got %v", body.ResumeIDs)
		}
		_, _ = io.WriteString(w, `[
			{"id":"r1","name":"Ana","skills":["Go"],"score":81.5,"skill_matches":["Go"]},
			{"resume_id":"r2","name":"Ben","score":59.4,"skillMatches":[{"skill":"SQL","is_matched":true},{"skill":"K8s","is_matched":false}]},
			{"name":"no id","score":10}
		]`)
	})

	batch, err := c.ScreenCandidates(context.Background(), "tok", "j1", []string{"r1", "r2"})
	if err != nil {
		t.Fatalf("ScreenCandidates: %v", err)
	}
	if batch.Dropped != 1 {
		t.Fatalf("expected 1 dropped, got %d", batch.Dropped)
	}
	if len(batch.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(batch.Candidates))
	}
	r1, r2 := batch.Candidates[0], batch.Candidates[1]
	if r1.ID != "r1" || r1.Score != 82 || len(r1.SkillMatches) != 1 {
		t.Fatalf("unexpected r1: %+v", r1)
	}
	if r2.ID != "r2" || r2.Score != 59 || len(r2.SkillMatches) != 1 || r2.SkillMatches[0] != "SQL" {
		t.Fatalf("unexpected r2: %+v", r2)
	}
}

func TestClient_GetResumesReadsParsedData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"r1","file_name":"a.pdf","is_parsed":true,
			"parsed_data":{"name":"Ana","email":"ana@example.com","skills":["Go","SQL"]}}]`)
	})

	batch, err := c.GetResumes(context.Background(), "tok")
	if err != nil {
		t.Fatalf("GetResumes: %v", err)
	}
	got := batch.Candidates[0]
	if got.Name != "Ana" || got.Email != "ana@example.com" || len(got.Skills) != 2 || got.IsScreened() {
		t.Fatalf("unexpected candidate: %+v", got)
	}
}

func TestClient_StatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Resume not found"}`)
	})

	err := c.DeleteResume(context.Background(), "tok", "r1")
	if !errors.Is(err, ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClient_DashboardStatsKeepsMissingFieldsNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/reports/dashboard/stats" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"total_resumes":4,"average_score":71.25,
			"skills_distribution":[{"skill":"Go","count":3}]}`)
	})

	agg, err := c.GetDashboardStats(context.Background(), "tok")
	if err != nil {
		t.Fatalf("GetDashboardStats: %v", err)
	}
	if agg.TotalCandidates == nil || *agg.TotalCandidates != 4 {
		t.Fatalf("unexpected total: %v", agg.TotalCandidates)
	}
	if agg.TotalScreened != nil || agg.Buckets != nil {
		t.Fatalf("missing fields should stay nil: %+v", agg)
	}
	if len(agg.Skills) != 1 {
		t.Fatalf("unexpected skills: %+v", agg.Skills)
	}
}

func TestClient_DashboardStatsRejectsBadShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"total_resumes":"many"}`)
	})
	if _, err := c.GetDashboardStats(context.Background(), "tok"); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestClient_ProcessInterview(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/interviews/iv1/process" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"id":"iv1","resume_id":"r1","transcript":"hello",
			"analysis":{"sentiment_score":90,"confidence_score":50,"clarity_score":70},
			"created_at":"2024-03-01T10:00:00Z"}`)
	})

	iv, err := c.ProcessInterview(context.Background(), "tok", "iv1")
	if err != nil {
		t.Fatalf("ProcessInterview: %v", err)
	}
	if iv.CandidateID != "r1" || iv.SentimentScore != 90 || iv.ConfidenceScore != 50 {
		t.Fatalf("unexpected interview: %+v", iv)
	}
	if iv.ClarityScore == nil || *iv.ClarityScore != 70 || iv.EnthusiasmScore != nil {
		t.Fatalf("unexpected optional scores: %+v", iv)
	}
}

func TestClient_UploadResumeMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
		} else {
			defer f.Close()
			if hdr.Filename != "cv.pdf" {
				t.Errorf("unexpected filename %q", hdr.Filename)
			}
		}
		if r.FormValue("skills") != "Go,SQL" {
			t.Errorf("unexpected skills %q", r.FormValue("skills"))
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"r9","file_name":"cv.pdf","is_parsed":true,"parsed_data":{"name":"Ana"}}`)
	})

	got, err := c.UploadResume(context.Background(), "tok", "cv.pdf", []byte("%PDF"), ResumeFields{Skills: []string{"Go", "SQL"}})
	if err != nil {
		t.Fatalf("UploadResume: %v", err)
	}
	if got.ID != "r9" || got.Name != "Ana" {
		t.Fatalf("unexpected candidate: %+v", got)
	}
}
