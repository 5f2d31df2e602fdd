package usermem

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandevgo/recall/internal/core"
	"github.com/sandevgo/recall/pkg/retry"
)

// Client talks to a mem0-style personalization API. The engine treats
// it as an optional collaborator: interactions are pushed after tasks,
// retrieval feeds prompt construction.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	retrier *retry.Retrier
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		retrier: retry.NewDefaultRetrier(),
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type addRequest struct {
	Messages  []message         `json:"messages"`
	UserID    string            `json:"user_id"`
	OrgID     string            `json:"org_id,omitempty"`
	ProjectID string            `json:"project_id,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type searchRequest struct {
	Query     string `json:"query"`
	UserID    string `json:"user_id"`
	OrgID     string `json:"org_id,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
	Limit     int    `json:"limit"`
}

type searchResult struct {
	ID        string            `json:"id"`
	Memory    string            `json:"memory"`
	Score     float32           `json:"score"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func (c *Client) AddInteraction(ctx context.Context, user core.UserScope, text string, metadata map[string]string) error {
	if user.UserID == "" {
		return fmt.Errorf("%w: user memory requires a user id", core.ErrConfiguration)
	}

	req := addRequest{
		Messages:  []message{{Role: "user", Content: text}},
		UserID:    user.UserID,
		OrgID:     user.OrgID,
		ProjectID: user.ProjectID,
		Metadata:  metadata,
	}

	return c.retrier.Do(ctx, func() error {
		resp, err := c.doRequest(ctx, http.MethodPost, "/v1/memories/", req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			body, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("%w: user memory add: http %d: %s", core.ErrStorage, resp.StatusCode, string(body))
		}
		return nil
	})
}

func (c *Client) Retrieve(ctx context.Context, user core.UserScope, query string, limit int) ([]core.MemoryItem, error) {
	req := searchRequest{
		Query:     query,
		UserID:    user.UserID,
		OrgID:     user.OrgID,
		ProjectID: user.ProjectID,
		Limit:     limit,
	}

	var results []searchResult
	err := c.retrier.Do(ctx, func() error {
		resp, err := c.doRequest(ctx, http.MethodPost, "/v1/memories/search/", req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%w: user memory search: http %d: %s", core.ErrStorage, resp.StatusCode, string(data))
		}
		results = results[:0]
		return json.Unmarshal(data, &results)
	})
	if err != nil {
		return nil, err
	}

	items := make([]core.MemoryItem, 0, len(results))
	for _, res := range results {
		items = append(items, core.MemoryItem{
			ID:        res.ID,
			Content:   res.Memory,
			Metadata:  res.Metadata,
			CreatedAt: res.CreatedAt,
			Relevance: res.Score,
		})
	}
	return items, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	return resp, nil
}
