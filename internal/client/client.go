package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/soullift/soul-hug/backend/internal/handler/composeapi"
	"github.com/soullift/soul-hug/backend/internal/model/hug"
	"github.com/soullift/soul-hug/backend/internal/service/compose"
)

// Client talks to a running Soul Hug backend and satisfies the wizard's
// SessionAPI and ComposeAPI ports.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Create provisions a session.
func (c *Client) Create(ctx context.Context, seed hug.Session) (hug.Session, error) {
	var session hug.Session
	_, err := c.do(ctx, http.MethodPost, "/api/sessions", seed, &session)
	return session, err
}

// Get fetches a session; the server vivifies a stub on a miss.
func (c *Client) Get(ctx context.Context, id string) (hug.Session, error) {
	var session hug.Session
	_, err := c.do(ctx, http.MethodGet, "/api/sessions/"+id, nil, &session)
	return session, err
}

// Patch applies a partial update.
func (c *Client) Patch(ctx context.Context, id string, patch hug.Patch) (hug.Session, error) {
	var session hug.Session
	_, err := c.do(ctx, http.MethodPatch, "/api/sessions/"+id, patch, &session)
	return session, err
}

// GeneratePrompts requests a prompt set.
func (c *Client) GeneratePrompts(ctx context.Context, req compose.PromptRequest) (compose.PromptResult, error) {
	var body struct {
		Prompts []hug.Prompt `json:"prompts"`
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/generate-prompts", req, &body)
	if err != nil {
		return compose.PromptResult{}, err
	}
	return compose.PromptResult{Prompts: body.Prompts, Degraded: degraded(resp)}, nil
}

// Weave requests a woven first draft.
func (c *Client) Weave(ctx context.Context, req compose.WeaveRequest) (compose.MessageResult, error) {
	return c.message(ctx, "/api/ai-weave", req)
}

// Stitch requests a refinement of an existing draft.
func (c *Client) Stitch(ctx context.Context, req compose.StitchRequest) (compose.MessageResult, error) {
	return c.message(ctx, "/api/ai-stitch", req)
}

// FetchMusic downloads a track's audio for local mixing.
func (c *Client) FetchMusic(ctx context.Context, trackID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/music/"+trackID, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("music fetch failed with status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) message(ctx context.Context, path string, payload interface{}) (compose.MessageResult, error) {
	var body struct {
		Message string `json:"message"`
	}
	resp, err := c.do(ctx, http.MethodPost, path, payload, &body)
	if err != nil {
		return compose.MessageResult{}, err
	}
	return compose.MessageResult{Message: body.Message, Degraded: degraded(resp)}, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if errBody.Error == "" {
			errBody.Error = http.StatusText(resp.StatusCode)
		}
		return resp, fmt.Errorf("%s %s: %s", method, path, errBody.Error)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp, nil
}

func degraded(resp *http.Response) bool {
	return resp != nil && resp.Header.Get(composeapi.DegradedHeader) == "true"
}
