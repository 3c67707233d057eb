package notify

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
)

// ErrNotConfigured is returned when no bot gateway base URL is set.
var ErrNotConfigured = errors.New("bot gateway is not configured")

// Gateway delivers fire-and-forget notifications through the messenger bot.
// Calls are made after the workflow transaction has committed; failures are
// logged by the caller and never affect workflow state.
type Gateway interface {
	// DocumentReady triggers the ready-document flow for the user.
	DocumentReady(ctx context.Context, maxUserID int64) error
	// Notify sends a plain text message to the user.
	Notify(ctx context.Context, maxUserID int64, text string) error
}

type botGateway struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewBotGateway creates a Gateway talking to the bot's internal HTTP API.
func NewBotGateway(baseURL, token string) Gateway {
	return &botGateway{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (g *botGateway) DocumentReady(ctx context.Context, maxUserID int64) error {
	return g.post(ctx, fmt.Sprintf("/notify/ready/%d", maxUserID), nil)
}

func (g *botGateway) Notify(ctx context.Context, maxUserID int64, text string) error {
	payload := map[string]string{"text": strings.TrimSpace(text)}
	return g.post(ctx, fmt.Sprintf("/notify/%d", maxUserID), payload)
}

func (g *botGateway) post(ctx context.Context, path string, payload interface{}) error {
	if g.baseURL == "" {
		return ErrNotConfigured
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal notify payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build notify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("bot gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("bot gateway rejected request: %s: %s", resp.Status, string(data))
	}
	return nil
}
