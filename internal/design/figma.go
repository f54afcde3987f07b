// Package design implements the design-summarization stage: it pulls a
// Figma file, keeps the interactive parts of the node tree, and produces
// a natural-language summary for test planning.
package design

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"
)

// figmaURLPattern matches file and design share URLs and captures the file key.
var figmaURLPattern = regexp.MustCompile(`https://www\.figma\.com/(file|design)/([a-zA-Z0-9]+)`)

// ParseFigmaURL extracts the file key from a Figma share URL.
func ParseFigmaURL(url string) (string, error) {
	matches := figmaURLPattern.FindStringSubmatch(url)
	if matches == nil {
		return "", fmt.Errorf("not a recognized Figma file URL: %s", url)
	}
	return matches[2], nil
}

// Node is the subset of the Figma file tree the pipeline cares about.
type Node struct {
	ID                 string                     `json:"id"`
	Name               string                     `json:"name"`
	Type               string                     `json:"type"`
	Children           []Node                     `json:"children,omitempty"`
	Interactions       []json.RawMessage          `json:"interactions,omitempty"`
	StyleOverrideTable map[string]json.RawMessage `json:"styleOverrideTable,omitempty"`
}

// File is the top level of a Figma file API response.
type File struct {
	Name     string `json:"name"`
	Document Node   `json:"document"`
}

// Component is a flattened interactive element extracted from the tree.
type Component struct {
	Name             string `json:"name"`
	Type             string `json:"type"`
	InteractionCount int    `json:"interaction_count"`
	HasStyleVariants bool   `json:"has_style_variants"`
}

// FilterComponents walks the node tree and keeps elements that carry
// interactions or style overrides. Purely decorative nodes are dropped
// so the summary prompt stays small.
func FilterComponents(root Node) []Component {
	var components []Component
	var walk func(n Node)
	walk = func(n Node) {
		if len(n.Interactions) > 0 || len(n.StyleOverrideTable) > 0 {
			components = append(components, Component{
				Name:             n.Name,
				Type:             n.Type,
				InteractionCount: len(n.Interactions),
				HasStyleVariants: len(n.StyleOverrideTable) > 0,
			})
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(root)
	return components
}

// Client fetches files from the Figma REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewFigmaClient creates a Figma API client authenticated with a
// personal access token.
func NewFigmaClient(token string) *Client {
	return &Client{
		baseURL: "https://api.figma.com",
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetFile fetches a Figma file by key.
func (c *Client) GetFile(ctx context.Context, fileKey string) (*File, error) {
	url := fmt.Sprintf("%s/v1/files/%s", c.baseURL, fileKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build Figma request: %w", err)
	}
	req.Header.Set("X-Figma-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Figma file %s: %w", fileKey, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("Figma API returned %d for file %s: %s", resp.StatusCode, fileKey, string(body))
	}

	var file File
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode Figma file response: %w", err)
	}

	return &file, nil
}
