// Package client talks to the roster HTTP API.
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

	"github.com/alimgiray/roster/internal/models"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL, e.g. http://localhost:5001
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx answer from the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// ListPeople fetches the roster, optionally bounded by signup date
func (c *Client) ListPeople(ctx context.Context, filter models.PersonFilter) ([]*models.Person, error) {
	query := url.Values{}
	if filter.StartDate != "" {
		query.Set("startDate", filter.StartDate)
	}
	if filter.EndDate != "" {
		query.Set("endDate", filter.EndDate)
	}

	path := "/people"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var people []*models.Person
	if _, err := c.do(ctx, http.MethodGet, path, nil, &people); err != nil {
		return nil, err
	}
	return people, nil
}

// UpsertPerson posts a person and reports whether it was created or updated
func (c *Client) UpsertPerson(ctx context.Context, input *models.PersonInput) (*models.Person, models.UpsertStatus, error) {
	var person models.Person
	status, err := c.do(ctx, http.MethodPost, "/people", input, &person)
	if err != nil {
		return nil, "", err
	}
	if status == http.StatusCreated {
		return &person, models.StatusCreated, nil
	}
	return &person, models.StatusUpdated, nil
}

// RenamePerson updates the person at email, moving it when req.NewEmail differs
func (c *Client) RenamePerson(ctx context.Context, email string, req *models.RenameRequest) (*models.Person, error) {
	var person models.Person
	if _, err := c.do(ctx, http.MethodPut, "/people/"+url.PathEscape(email), req, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

// DeletePerson removes the person at email
func (c *Client) DeletePerson(ctx context.Context, email string) error {
	_, err := c.do(ctx, http.MethodDelete, "/people/"+url.PathEscape(email), nil, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Message = payload.Error
		}
		return resp.StatusCode, apiErr
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// Upserter adapts the client to services.Upserter for bulk imports
type Upserter struct {
	ctx    context.Context
	client *Client
}

func (c *Client) Upserter(ctx context.Context) *Upserter {
	return &Upserter{ctx: ctx, client: c}
}

func (u *Upserter) Upsert(input *models.PersonInput) (*models.Person, models.UpsertStatus, error) {
	return u.client.UpsertPerson(u.ctx, input)
}
