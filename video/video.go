package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ai-pipeline/config"
	"ai-pipeline/events"
)

const (
	placeholderVideoURL     = "https://placeholder.video/not-generated"
	placeholderThumbnailURL = "https://placeholder.video/thumbnail.jpg"
)

// Synthesizer turns a summary into a narrated video through an external
// rendering provider. When the provider is unconfigured or fails, it degrades
// to placeholder media so the pipeline keeps moving. Execute never fails.
type Synthesizer struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func New(cfg config.AppConfig) *Synthesizer {
	return &Synthesizer{
		baseURL: strings.TrimSuffix(cfg.VideoServiceURL, "/"),
		apiKey:  cfg.VideoApiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type generateRequest struct {
	Text       string `json:"text"`
	Template   string `json:"template"`
	Format     string `json:"format"`
	Resolution string `json:"resolution"`
}

type generateResponse struct {
	VideoURL     string `json:"videoUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Duration     int    `json:"duration"`
}

// StatusResponse reports the rendering state of a previously submitted video.
type StatusResponse struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
}

// Execute renders the summary into a video. Provider failures are logged and
// replaced by placeholder media, never surfaced as job failures.
func (s *Synthesizer) Execute(ctx context.Context, job events.VideoJob) (events.VideoResult, error) {
	script := buildScript(job.SummaryResult)

	if s.baseURL == "" {
		config.Logger.Infof("video provider not configured, using placeholder for job %s", job.JobID)
		return placeholderResult(job.JobID), nil
	}

	generated, err := s.generate(ctx, script, job.VideoTemplate)
	if err != nil {
		config.Logger.Warnf("video generation failed for job %s, using placeholder: %v", job.JobID, err)
		return placeholderResult(job.JobID), nil
	}

	return events.VideoResult{
		JobID:        job.JobID,
		VideoURL:     generated.VideoURL,
		ThumbnailURL: generated.ThumbnailURL,
		Duration:     generated.Duration,
		GeneratedAt:  time.Now(),
	}, nil
}

func (s *Synthesizer) generate(ctx context.Context, script, template string) (generateResponse, error) {
	if template == "" {
		template = "default"
	}

	body, err := json.Marshal(generateRequest{
		Text:       script,
		Template:   template,
		Format:     "mp4",
		Resolution: "1920x1080",
	})
	if err != nil {
		return generateResponse{}, fmt.Errorf("marshal video payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return generateResponse{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return generateResponse{}, fmt.Errorf("video provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return generateResponse{}, fmt.Errorf("video provider error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return generateResponse{}, fmt.Errorf("decode video response: %w", err)
	}
	if out.VideoURL == "" {
		return generateResponse{}, fmt.Errorf("video provider returned no video url")
	}
	return out, nil
}

// CheckStatus queries the rendering state of a submitted video.
func (s *Synthesizer) CheckStatus(ctx context.Context, videoID string) (StatusResponse, error) {
	if s.baseURL == "" {
		return StatusResponse{}, fmt.Errorf("video provider not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/status/"+videoID, nil)
	if err != nil {
		return StatusResponse{}, fmt.Errorf("new request: %w", err)
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return StatusResponse{}, fmt.Errorf("video status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return StatusResponse{}, fmt.Errorf("video status error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var out StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return StatusResponse{}, fmt.Errorf("decode status response: %w", err)
	}
	return out, nil
}

// buildScript assembles the narration text: summary first, then numbered key
// points when any exist.
func buildScript(summary events.SummaryResult) string {
	var b strings.Builder
	b.WriteString(summary.Summary)

	if len(summary.KeyPoints) > 0 {
		b.WriteString("\n\nPontos principais:\n")
		for i, point := range summary.KeyPoints {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, point))
		}
	}
	return b.String()
}

func placeholderResult(jobID string) events.VideoResult {
	return events.VideoResult{
		JobID:        jobID,
		VideoURL:     placeholderVideoURL,
		ThumbnailURL: placeholderThumbnailURL,
		Duration:     0,
		GeneratedAt:  time.Now(),
	}
}
