package contentclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"ai-pipeline/config"
)

// Client is a thin client over the content platform HTTP API. It knows
// nothing about the pipeline; it only creates and mutates content records.
//
// baseURL example: http://content_service:3000
type Client struct {
	httpClient *http.Client
	baseURL    string
	secret     string
}

var ErrNotFound = errors.New("resource not found")

func New(cfg config.AppConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    cfg.ContentAPIURL,
		secret:     cfg.ContentAPISecret,
	}
}

// CreateContentParams is the payload for content creation. New records always
// start in draft status. Source is the pre-joined attribution string; the
// content API takes it as a single field, not a list.
type CreateContentParams struct {
	Type     string   `json:"type"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Source   string   `json:"source,omitempty"`
	MediaURL string   `json:"media_url,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Status   string   `json:"status"`
}

type ContentItem struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	PublishAt *time.Time `json:"publish_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type UpdateContentParams struct {
	Status    string     `json:"status,omitempty"`
	PublishAt *time.Time `json:"publish_at,omitempty"`
}

func (c *Client) CreateContent(ctx context.Context, params CreateContentParams) (ContentItem, error) {
	if params.Status == "" {
		params.Status = "draft"
	}

	body, err := json.Marshal(params)
	if err != nil {
		return ContentItem{}, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/contents", bytes.NewReader(body))
	if err != nil {
		return ContentItem{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ContentItem{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return ContentItem{}, fmt.Errorf("content-api CreateContent: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var out ContentItem
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ContentItem{}, err
	}
	if out.ID == "" {
		return ContentItem{}, fmt.Errorf("content-api CreateContent: response missing id")
	}
	return out, nil
}

// UpdateContent patches a content record. Returns ErrNotFound when the id is
// unknown.
func (c *Client) UpdateContent(ctx context.Context, id string, params UpdateContentParams) error {
	body, err := json.Marshal(params)
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPatch, path.Join("/api/v1/contents", id), bytes.NewReader(body))
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("content-api UpdateContent: status=%d body=%s", resp.StatusCode, string(payload))
	}
}

func (c *Client) UpdateStatus(ctx context.Context, id, status string) error {
	return c.UpdateContent(ctx, id, UpdateContentParams{Status: status})
}

// DeleteContent removes a content record. Returns ErrNotFound when the id is
// unknown.
func (c *Client) DeleteContent(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, path.Join("/api/v1/contents", id), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("content-api DeleteContent: status=%d body=%s", resp.StatusCode, string(payload))
	}
}

func (c *Client) newRequest(ctx context.Context, method, p string, body io.Reader) (*http.Request, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, err
	}
	u.Path = path.Join(u.Path, p)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.secret != "" {
		req.Header.Set("Authorization", "Bearer "+c.secret)
	}
	return req, nil
}
