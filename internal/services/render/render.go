// Package render tracks jobs submitted to the external rendering engine.
// The engine itself is opaque: this package only submits composition
// payloads and polls per-job progress, recording transitions on the
// persisted job row. Every renderer call is attempted exactly once; there
// is no retry policy.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/wondertales/video-service/internal/composition"
	"github.com/wondertales/video-service/internal/config"
	"github.com/wondertales/video-service/internal/types"
	"github.com/wondertales/video-service/internal/types/assets"
)

// Progress is the renderer's view of one job.
type Progress struct {
	Status    string  `json:"status"`
	Progress  float64 `json:"progress"`
	OutputURL string  `json:"output_url"`
	Error     string  `json:"error"`
}

// Client talks to the rendering engine.
type Client interface {
	Submit(ctx context.Context, payload composition.Payload) (string, error)
	Progress(ctx context.Context, renderID string) (Progress, error)
}

// JobStore is the slice of storage the render service needs.
type JobStore interface {
	GetProject(id string) (types.StoryProject, error)
	CreateRenderJob(projectID, renderID string) (string, error)
	GetRenderJobByRenderID(renderID string) (types.RenderJob, error)
	UpdateRenderJob(job types.RenderJob) error
	ListActiveRenderJobs() ([]types.RenderJob, error)
}

// EventPublisher receives terminal render outcomes for broadcast.
type EventPublisher interface {
	PublishRenderCompleted(renderID, projectID string, status types.RenderStatus, outputURL string) error
}

// StatusResult is the wire shape of the render-status endpoint.
type StatusResult struct {
	RenderID   string  `json:"render_id"`
	Status     string  `json:"status"`
	Progress   float64 `json:"progress"`
	OutputURL  string  `json:"output_url,omitempty"`
	Error      string  `json:"error,omitempty"`
	Done       bool    `json:"done"`
	FatalError bool    `json:"fatal_error"`
}

type Service struct {
	store     JobStore
	client    Client
	publisher EventPublisher
}

// NewService creates the render service. publisher may be nil.
func NewService(store JobStore, client Client, publisher EventPublisher) *Service {
	return &Service{store: store, client: client, publisher: publisher}
}

// Submit builds the composition payload for a project and hands it to the
// renderer, persisting a job row keyed by the renderer's identifier.
func (s *Service) Submit(ctx context.Context, projectID string, wa assets.WishButtonAssets) (string, error) {
	project, err := s.store.GetProject(projectID)
	if err != nil {
		return "", err
	}

	payload, err := composition.BuildPayload(project, wa)
	if err != nil {
		return "", err
	}

	renderID, err := s.client.Submit(ctx, payload)
	if err != nil {
		return "", fmt.Errorf("failed to submit render: %w", err)
	}

	if _, err := s.store.CreateRenderJob(projectID, renderID); err != nil {
		return "", err
	}

	slog.Info("Render submitted", slog.String("project_id", projectID), slog.String("render_id", renderID))
	return renderID, nil
}

// Status looks up the job for an external render identifier, polls the
// renderer once, records any transition, and reports the current state.
// Jobs already in a terminal state are reported from storage without
// another renderer call.
func (s *Service) Status(ctx context.Context, renderID string) (StatusResult, error) {
	job, err := s.store.GetRenderJobByRenderID(renderID)
	if err != nil {
		return StatusResult{}, err
	}

	if job.Status.Terminal() {
		return resultFromJob(job), nil
	}

	job, err = s.advance(ctx, job)
	if err != nil {
		return StatusResult{}, err
	}
	return resultFromJob(job), nil
}

// PollActive advances every non-terminal job once. A failure on one job is
// logged and does not stop the sweep.
func (s *Service) PollActive(ctx context.Context) {
	jobs, err := s.store.ListActiveRenderJobs()
	if err != nil {
		slog.Error("Failed to list active render jobs", slog.String("error", err.Error()))
		return
	}

	for _, job := range jobs {
		if _, err := s.advance(ctx, job); err != nil {
			slog.Error("Failed to advance render job",
				slog.String("render_id", job.RenderID), slog.String("error", err.Error()))
		}
	}
}

// advance polls the renderer for one job and persists the transition.
func (s *Service) advance(ctx context.Context, job types.RenderJob) (types.RenderJob, error) {
	progress, err := s.client.Progress(ctx, job.RenderID)
	if err != nil {
		return job, fmt.Errorf("renderer query failed: %w", err)
	}

	now := time.Now().UTC()

	switch progress.Status {
	case "done", "completed":
		job.Status = types.RenderCompleted
		job.Progress = 100
		job.OutputURL = progress.OutputURL
		job.CompletedAt = &now
	case "failed", "error":
		job.Status = types.RenderFailed
		job.Error = progress.Error
		job.FailedAt = &now
	case "rendering":
		job.Progress = progress.Progress
		if job.Status != types.RenderRendering {
			job.Status = types.RenderRendering
			job.StartedAt = &now
		}
	default:
		job.Progress = progress.Progress
	}

	if err := s.store.UpdateRenderJob(job); err != nil {
		return job, err
	}

	if job.Status.Terminal() && s.publisher != nil {
		if err := s.publisher.PublishRenderCompleted(job.RenderID, job.ProjectID, job.Status, job.OutputURL); err != nil {
			slog.Error("Failed to publish render completion event",
				slog.String("render_id", job.RenderID), slog.String("error", err.Error()))
		}
	}

	return job, nil
}

func resultFromJob(job types.RenderJob) StatusResult {
	return StatusResult{
		RenderID:   job.RenderID,
		Status:     string(job.Status),
		Progress:   job.Progress,
		OutputURL:  job.OutputURL,
		Error:      job.Error,
		Done:       job.Status == types.RenderCompleted,
		FatalError: job.Status == types.RenderFailed,
	}
}

// HTTPClient is the production renderer client.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPClient(cfg config.Renderer) *HTTPClient {
	return &HTTPClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) Submit(ctx context.Context, payload composition.Payload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/renders", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("renderer returned status %d", resp.StatusCode)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.ID, nil
}

func (c *HTTPClient) Progress(ctx context.Context, renderID string) (Progress, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/renders/"+renderID, nil)
	if err != nil {
		return Progress{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Progress{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Progress{}, fmt.Errorf("renderer returned status %d", resp.StatusCode)
	}

	var progress Progress
	if err := json.NewDecoder(resp.Body).Decode(&progress); err != nil {
		return Progress{}, err
	}
	return progress, nil
}
