package cvmatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/jobtrail-backend/internal/platform/envutil"
	"github.com/yungbote/jobtrail-backend/internal/platform/httpx"
	"github.com/yungbote/jobtrail-backend/internal/platform/logger"
)

type HTTPScorerConfig struct {
	Name        string
	URL         string
	APIKey      string
	MaxRetries  int
	BaseBackoff time.Duration
}

func HTTPScorerConfigFromEnv() HTTPScorerConfig {
	return HTTPScorerConfig{
		Name:       envutil.String("CV_SCORER_NAME", "external"),
		URL:        envutil.String("CV_SCORER_URL", ""),
		APIKey:     envutil.String("CV_SCORER_API_KEY", ""),
		MaxRetries: envutil.Int("CV_SCORER_MAX_RETRIES", 1),
	}
}

// HTTPScorer posts {resume_text, job_description} as JSON and expects an
// ExternalResult back.
type HTTPScorer struct {
	log        *logger.Logger
	cfg        HTTPScorerConfig
	httpClient *http.Client
}

func NewHTTPScorer(log *logger.Logger, cfg HTTPScorerConfig) (*HTTPScorer, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	cfg.URL = strings.TrimSpace(cfg.URL)
	if cfg.URL == "" {
		return nil, fmt.Errorf("missing CV_SCORER_URL")
	}
	if cfg.Name == "" {
		cfg.Name = "external"
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 200 * time.Millisecond
	}
	// No client timeout: the Analyzer bounds every call through ctx.
	return &HTTPScorer{log: log.With("client", "HTTPScorer"), cfg: cfg, httpClient: &http.Client{}}, nil
}

func (s *HTTPScorer) Name() string { return s.cfg.Name }

type scoreRequest struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
}

type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cv scorer http %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) HTTPStatusCode() int { return e.StatusCode }

func (s *HTTPScorer) Score(ctx context.Context, resume, jobDescription string) (ExternalResult, error) {
	body, err := json.Marshal(scoreRequest{ResumeText: resume, JobDescription: jobDescription})
	if err != nil {
		return ExternalResult{}, err
	}
	backoff := s.cfg.BaseBackoff
	for attempt := 0; ; attempt++ {
		res, resp, err := s.doOnce(ctx, body)
		if err == nil {
			return res, nil
		}
		if !httpx.IsRetryableError(err) || attempt >= s.cfg.MaxRetries {
			return ExternalResult{}, err
		}
		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 2*time.Second))
		s.log.Warn("cv scorer request retrying", "attempt", attempt+1, "sleep", sleepFor.String(), "error", err.Error())
		if serr := httpx.Sleep(ctx, sleepFor); serr != nil {
			return ExternalResult{}, errors.Join(err, serr)
		}
		backoff *= 2
	}
}

func (s *HTTPScorer) doOnce(ctx context.Context, body []byte) (ExternalResult, *http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return ExternalResult{}, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return ExternalResult{}, nil, err
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
	if readErr != nil {
		return ExternalResult{}, resp, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(raw))
		if len(msg) > 500 {
			msg = msg[:500] + "..."
		}
		return ExternalResult{}, resp, &StatusError{StatusCode: resp.StatusCode, Body: msg}
	}
	var out ExternalResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return ExternalResult{}, resp, fmt.Errorf("decode cv scorer response: %w", err)
	}
	return out, resp, nil
}
