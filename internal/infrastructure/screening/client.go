package screening

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"screening-sync/internal/dashboard"
	"screening-sync/internal/domain/candidate"
	"screening-sync/internal/domain/interview"
	"screening-sync/internal/domain/job"
)

var (
	// ErrUnavailable means no remote is configured or the caller has no
	// token. Callers fall back to local-only behavior.
	ErrUnavailable    = errors.New("remote screening service unavailable")
	ErrRemote         = errors.New("remote screening request failed")
	ErrInvalidPayload = errors.New("invalid remote payload")
)

type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote status=%d body=%s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrRemote }

func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// CandidateBatch is a normalized candidate listing. Dropped counts items
// that failed shape validation.
type CandidateBatch struct {
	Candidates []candidate.Candidate
	Dropped    int
}

type Client interface {
	UploadResume(ctx context.Context, token, fileName string, content []byte, fields ResumeFields) (candidate.Candidate, error)
	GetResumes(ctx context.Context, token string) (CandidateBatch, error)
	DeleteResume(ctx context.Context, token, resumeID string) error
	CreateJobDescription(ctx context.Context, token string, req JobRequest) (job.Job, error)
	ListJobDescriptions(ctx context.Context, token string) ([]job.Job, error)
	DeleteJobDescription(ctx context.Context, token, jobID string) error
	ScreenCandidates(ctx context.Context, token, jobID string, resumeIDs []string) (CandidateBatch, error)
	GetScreeningResults(ctx context.Context, token, jobID string) (CandidateBatch, error)
	GetDashboardStats(ctx context.Context, token string) (dashboard.Aggregate, error)
	UploadInterview(ctx context.Context, token, resumeID, fileName string, content []byte) (string, error)
	ProcessInterview(ctx context.Context, token, interviewID string) (interview.Interview, error)
	ApplyToJob(ctx context.Context, token, jobID, resumeID string) (ApplicationDTO, error)
	SendChatMessage(ctx context.Context, token string, req ChatRequest) (ChatResponse, error)
}

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	Burst     int
}

type httpClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	logger  *logrus.Logger
}

// NewClient returns a client for the remote backend. An empty base URL still
// yields a usable client whose calls return ErrUnavailable.
func NewClient(opts Options, logger *logrus.Logger) Client {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return &httpClient{
		baseURL: strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
		logger:  logger,
	}
}

func (c *httpClient) UploadResume(ctx context.Context, token, fileName string, content []byte, fields ResumeFields) (candidate.Candidate, error) {
	form := map[string]string{
		"name":       fields.Name,
		"email":      fields.Email,
		"phone":      fields.Phone,
		"education":  fields.Education,
		"experience": fields.Experience,
	}
	if len(fields.Skills) > 0 {
		form["skills"] = strings.Join(fields.Skills, ",")
	}
	body, contentType, err := multipartBody(fileName, content, form)
	if err != nil {
		return candidate.Candidate{}, err
	}
	b, err := c.do(ctx, token, http.MethodPost, "/api/resumes/upload", body, contentType)
	if err != nil {
		return candidate.Candidate{}, err
	}
	return decodeCandidate(b)
}

func (c *httpClient) GetResumes(ctx context.Context, token string) (CandidateBatch, error) {
	b, err := c.do(ctx, token, http.MethodGet, "/api/resumes/", nil, "")
	if err != nil {
		return CandidateBatch{}, err
	}
	return c.decodeCandidates("resumes", b)
}

func (c *httpClient) DeleteResume(ctx context.Context, token, resumeID string) error {
	_, err := c.do(ctx, token, http.MethodDelete, "/api/resumes/"+url.PathEscape(resumeID), nil, "")
	return err
}

func (c *httpClient) CreateJobDescription(ctx context.Context, token string, req JobRequest) (job.Job, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return job.Job{}, err
	}
	b, err := c.do(ctx, token, http.MethodPost, "/api/jobs/", bytes.NewReader(payload), "application/json")
	if err != nil {
		return job.Job{}, err
	}
	if err := validateDoc(schemaJob, b); err != nil {
		return job.Job{}, err
	}
	var dto JobDTO
	if err := json.Unmarshal(b, &dto); err != nil {
		return job.Job{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return NormalizeJob(dto)
}

func (c *httpClient) ListJobDescriptions(ctx context.Context, token string) ([]job.Job, error) {
	b, err := c.do(ctx, token, http.MethodGet, "/api/jobs/", nil, "")
	if err != nil {
		return nil, err
	}
	items, dropped, err := validateItems(schemaJob, b)
	if err != nil {
		return nil, err
	}
	out := make([]job.Job, 0, len(items))
	for _, it := range items {
		var dto JobDTO
		if err := json.Unmarshal(it, &dto); err != nil {
			dropped++
			continue
		}
		j, err := NormalizeJob(dto)
		if err != nil {
			dropped++
			continue
		}
		out = append(out, j)
	}
	c.logDropped("jobs", dropped)
	return out, nil
}

func (c *httpClient) DeleteJobDescription(ctx context.Context, token, jobID string) error {
	_, err := c.do(ctx, token, http.MethodDelete, "/api/jobs/"+url.PathEscape(jobID), nil, "")
	return err
}

func (c *httpClient) ScreenCandidates(ctx context.Context, token, jobID string, resumeIDs []string) (CandidateBatch, error) {
	payload, err := json.Marshal(screenRequest{ResumeIDs: resumeIDs})
	if err != nil {
		return CandidateBatch{}, err
	}
	b, err := c.do(ctx, token, http.MethodPost, "/api/jobs/"+url.PathEscape(jobID)+"/screen", bytes.NewReader(payload), "application/json")
	if err != nil {
		return CandidateBatch{}, err
	}
	return c.decodeCandidates("screen", b)
}

func (c *httpClient) GetScreeningResults(ctx context.Context, token, jobID string) (CandidateBatch, error) {
	b, err := c.do(ctx, token, http.MethodGet, "/api/jobs/"+url.PathEscape(jobID)+"/results", nil, "")
	if err != nil {
		return CandidateBatch{}, err
	}
	return c.decodeCandidates("results", b)
}

func (c *httpClient) GetDashboardStats(ctx context.Context, token string) (dashboard.Aggregate, error) {
	b, err := c.do(ctx, token, http.MethodGet, "/api/reports/dashboard/stats", nil, "")
	if err != nil {
		return dashboard.Aggregate{}, err
	}
	if err := validateDoc(schemaDashboardStats, b); err != nil {
		return dashboard.Aggregate{}, err
	}
	var dto DashboardStatsDTO
	if err := json.Unmarshal(b, &dto); err != nil {
		return dashboard.Aggregate{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return NormalizeDashboardStats(dto), nil
}

func (c *httpClient) UploadInterview(ctx context.Context, token, resumeID, fileName string, content []byte) (string, error) {
	body, contentType, err := multipartBody(fileName, content, nil)
	if err != nil {
		return "", err
	}
	path := "/api/interviews/upload?resume_id=" + url.QueryEscape(resumeID)
	b, err := c.do(ctx, token, http.MethodPost, path, body, contentType)
	if err != nil {
		return "", err
	}
	var dto InterviewDTO
	if err := json.Unmarshal(b, &dto); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if strings.TrimSpace(dto.ID) == "" {
		return "", fmt.Errorf("%w: interview upload without id", ErrInvalidPayload)
	}
	return dto.ID, nil
}

func (c *httpClient) ProcessInterview(ctx context.Context, token, interviewID string) (interview.Interview, error) {
	b, err := c.do(ctx, token, http.MethodPost, "/api/interviews/"+url.PathEscape(interviewID)+"/process", nil, "")
	if err != nil {
		return interview.Interview{}, err
	}
	if err := validateDoc(schemaInterview, b); err != nil {
		return interview.Interview{}, err
	}
	var dto InterviewDTO
	if err := json.Unmarshal(b, &dto); err != nil {
		return interview.Interview{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return NormalizeInterview(dto)
}

func (c *httpClient) ApplyToJob(ctx context.Context, token, jobID, resumeID string) (ApplicationDTO, error) {
	path := "/api/candidate/jobs/" + url.PathEscape(jobID) + "/apply"
	if resumeID != "" {
		path += "?resume_id=" + url.QueryEscape(resumeID)
	}
	b, err := c.do(ctx, token, http.MethodPost, path, nil, "")
	if err != nil {
		return ApplicationDTO{}, err
	}
	var out ApplicationDTO
	if err := json.Unmarshal(b, &out); err != nil {
		return ApplicationDTO{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return out, nil
}

func (c *httpClient) SendChatMessage(ctx context.Context, token string, req ChatRequest) (ChatResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return ChatResponse{}, err
	}
	b, err := c.do(ctx, token, http.MethodPost, "/api/chat/message", bytes.NewReader(payload), "application/json")
	if err != nil {
		return ChatResponse{}, err
	}
	var out ChatResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return ChatResponse{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return out, nil
}

func (c *httpClient) do(ctx context.Context, token, method, path string, body io.Reader, contentType string) ([]byte, error) {
	if c == nil || c.client == nil || c.baseURL == "" {
		return nil, ErrUnavailable
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnavailable
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"component": "screening",
			"method":    method,
			"endpoint":  path,
			"err":       err,
		}).Warn("remote request error")
		return nil, fmt.Errorf("%w: %v", ErrRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		bodyStr := strings.TrimSpace(string(rb))
		c.logger.WithFields(logrus.Fields{
			"component": "screening",
			"method":    method,
			"endpoint":  path,
			"status":    resp.StatusCode,
			"body":      bodyStr,
		}).Warn("remote request failed")
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: bodyStr}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrRemote, err)
	}
	return b, nil
}

func (c *httpClient) decodeCandidates(op string, b []byte) (CandidateBatch, error) {
	items, dropped, err := validateItems(schemaCandidate, b)
	if err != nil {
		return CandidateBatch{}, err
	}
	out := CandidateBatch{Candidates: make([]candidate.Candidate, 0, len(items))}
	for _, it := range items {
		cand, err := decodeCandidate(it)
		if err != nil {
			dropped++
			continue
		}
		out.Candidates = append(out.Candidates, cand)
	}
	out.Dropped = dropped
	c.logDropped(op, dropped)
	return out, nil
}

func (c *httpClient) logDropped(op string, n int) {
	if n == 0 {
		return
	}
	c.logger.WithFields(logrus.Fields{
		"component": "screening",
		"op":        op,
		"dropped":   n,
	}).Warn("dropped invalid remote items")
}

func decodeCandidate(b []byte) (candidate.Candidate, error) {
	if err := validateDoc(schemaCandidate, b); err != nil {
		return candidate.Candidate{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return candidate.Candidate{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return NormalizeCandidate(raw)
}

func multipartBody(fileName string, content []byte, fields map[string]string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(content); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var _ Client = (*httpClient)(nil)
