// Package github reads an account's public activity feed from the GitHub REST API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// PushEvent is the event type GitHub records for pushed commits.
const PushEvent = "PushEvent"

// MaxPerPage is the largest page size the events endpoint accepts.
const MaxPerPage = 100

// Event is one record of the public events feed. Only the fields the live
// metrics consume are decoded.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Repo      struct {
		Name string `json:"name"`
	} `json:"repo"`
}

// StatusError is returned when GitHub answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("github: unexpected status %s", e.Status)
}

// Client calls the GitHub REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a Client. token may be empty for unauthenticated access.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// PublicEvents returns the most recent public events for actor, newest first.
func (c *Client) PublicEvents(ctx context.Context, actor string, perPage int) ([]Event, error) {
	if perPage < 1 || perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	endpoint := fmt.Sprintf("%s/users/%s/events/public?per_page=%s",
		c.baseURL, url.PathEscape(actor), strconv.Itoa(perPage))

	req, err := c.newRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch events for %s: %w", actor, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var events []Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("decode events for %s: %w", actor, err)
	}
	return events, nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}
