// Package client talks to the trainer HTTP API and drives the terminal review shell.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sigongjoa/Concept-Gacha/internal/models"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error: %d %s", e.Status, e.Message)
}

// Client is a small JSON client for the trainer API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for baseURL. A nil httpClient gets a 10s timeout client.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// do sends body (if non-nil) as JSON and decodes the response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	return nil
}

// ListStudents returns every student.
func (c *Client) ListStudents(ctx context.Context) ([]models.Student, error) {
	var out []models.Student
	if err := c.do(ctx, http.MethodGet, "/api/students", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DrawCard asks the server for a weighted random card of studentID.
func (c *Client) DrawCard(ctx context.Context, studentID string) (models.Card, error) {
	var out models.Card
	err := c.do(ctx, http.MethodGet, "/api/students/"+url.PathEscape(studentID)+"/cards/random", nil, &out)
	return out, err
}

// SubmitOutcome records a review result for cardID and returns the moved card.
func (c *Client) SubmitOutcome(ctx context.Context, cardID string, success bool) (models.Card, error) {
	var out models.Card
	body := map[string]bool{"success": success}
	err := c.do(ctx, http.MethodPatch, "/api/cards/"+url.PathEscape(cardID), body, &out)
	return out, err
}

// StudentStats returns the per-box counts of studentID.
func (c *Client) StudentStats(ctx context.Context, studentID string) (models.StudentStats, error) {
	var out models.StudentStats
	err := c.do(ctx, http.MethodGet, "/api/students/"+url.PathEscape(studentID)+"/stats", nil, &out)
	return out, err
}
