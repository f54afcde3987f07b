// Package testrail uploads a generated test suite into TestRail through
// its JSON API v2.
package testrail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// UploadError reports a failed TestRail API call.
type UploadError struct {
	Status  int
	Message string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("TestRail API error (status %d): %s", e.Status, e.Message)
}

// Client is a minimal TestRail API v2 client using basic auth with an
// account email and API key.
type Client struct {
	baseURL    string
	user       string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a TestRail client for an instance base URL such as
// https://example.testrail.io.
func NewClient(baseURL, user, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		user:    user,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Section is a TestRail section within a suite.
type Section struct {
	ID      int    `json:"id"`
	SuiteID int    `json:"suite_id"`
	Name    string `json:"name"`
}

// sectionsPage is the paginated get_sections response.
type sectionsPage struct {
	Sections []Section `json:"sections"`
}

// Case is a created TestRail case.
type Case struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// StepSeparated is one row of custom_steps_separated.
type StepSeparated struct {
	Content  string `json:"content"`
	Expected string `json:"expected"`
}

// CasePayload is the body of an add_case request. Separated steps and
// the text fallback are mutually exclusive; buildCasePayload picks one.
type CasePayload struct {
	Title               string          `json:"title"`
	TypeID              int             `json:"type_id"`
	PriorityID          int             `json:"priority_id"`
	TemplateID          int             `json:"template_id,omitempty"`
	Refs                string          `json:"refs,omitempty"`
	CustomStepsSep      []StepSeparated `json:"custom_steps_separated,omitempty"`
	CustomSteps         string          `json:"custom_steps,omitempty"`
	CustomExpected      string          `json:"custom_expected,omitempty"`
	CustomPreconditions string          `json:"custom_preconds,omitempty"`
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	apiURL := fmt.Sprintf("%s/index.php?/api/v2/%s", c.baseURL, endpoint)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal TestRail request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to build TestRail request: %w", err)
	}
	req.SetBasicAuth(c.user, c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("TestRail request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read TestRail response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := string(respBody)
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return &UploadError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode TestRail response: %w", err)
		}
	}
	return nil
}

// GetSections lists the sections of a suite.
func (c *Client) GetSections(ctx context.Context, projectID, suiteID int) ([]Section, error) {
	endpoint := fmt.Sprintf("get_sections/%d&suite_id=%d", projectID, suiteID)
	var page sectionsPage
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, err
	}
	return page.Sections, nil
}

// AddSection creates a section in a suite.
func (c *Client) AddSection(ctx context.Context, projectID, suiteID int, name string) (*Section, error) {
	endpoint := fmt.Sprintf("add_section/%d", projectID)
	body := map[string]any{
		"suite_id": suiteID,
		"name":     name,
	}
	var section Section
	if err := c.do(ctx, http.MethodPost, endpoint, body, &section); err != nil {
		return nil, err
	}
	return &section, nil
}

// AddCase creates a case inside a section.
func (c *Client) AddCase(ctx context.Context, sectionID int, payload *CasePayload) (*Case, error) {
	endpoint := fmt.Sprintf("add_case/%d", sectionID)
	var created Case
	if err := c.do(ctx, http.MethodPost, endpoint, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// SuiteURL returns the browser URL of a suite for receipts.
func (c *Client) SuiteURL(suiteID int) string {
	return fmt.Sprintf("%s/index.php?/suites/view/%d", c.baseURL, suiteID)
}

// BaseURL exposes the configured instance URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}
