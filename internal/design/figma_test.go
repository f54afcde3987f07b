package design

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFigmaURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantKey string
		wantErr bool
	}{
		{
			name:    "file URL",
			url:     "https://www.figma.com/file/aBc123XyZ/My-App",
			wantKey: "aBc123XyZ",
		},
		{
			name:    "design URL",
			url:     "https://www.figma.com/design/Qw9rTy/Checkout?node-id=1-2",
			wantKey: "Qw9rTy",
		},
		{
			name:    "prototype URL rejected",
			url:     "https://www.figma.com/proto/aBc123/My-App",
			wantErr: true,
		},
		{
			name:    "unrelated URL rejected",
			url:     "https://example.com/file/abc",
			wantErr: true,
		},
		{
			name:    "empty string rejected",
			url:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ParseFigmaURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestFilterComponents(t *testing.T) {
	interaction := json.RawMessage(`{"trigger": "ON_CLICK"}`)
	override := map[string]json.RawMessage{"1": json.RawMessage(`{}`)}

	root := Node{
		ID:   "0:0",
		Name: "Document",
		Type: "DOCUMENT",
		Children: []Node{
			{
				ID:   "1:1",
				Name: "Login Frame",
				Type: "FRAME",
				Children: []Node{
					{
						ID:           "1:2",
						Name:         "Sign in button",
						Type:         "INSTANCE",
						Interactions: []json.RawMessage{interaction},
					},
					{
						ID:   "1:3",
						Name: "Decorative divider",
						Type: "RECTANGLE",
					},
					{
						ID:                 "1:4",
						Name:               "Email field",
						Type:               "TEXT",
						StyleOverrideTable: override,
					},
				},
			},
		},
	}

	components := FilterComponents(root)
	require.Len(t, components, 2)

	assert.Equal(t, "Sign in button", components[0].Name)
	assert.Equal(t, 1, components[0].InteractionCount)
	assert.False(t, components[0].HasStyleVariants)

	assert.Equal(t, "Email field", components[1].Name)
	assert.True(t, components[1].HasStyleVariants)
}

func TestFilterComponents_EmptyTree(t *testing.T) {
	assert.Empty(t, FilterComponents(Node{ID: "0:0", Type: "DOCUMENT"}))
}

func TestClient_GetFile(t *testing.T) {
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Figma-Token")
		assert.Equal(t, "/v1/files/abc123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "Checkout",
			"document": {"id": "0:0", "name": "Document", "type": "DOCUMENT"}
		}`))
	}))
	defer server.Close()

	client := NewFigmaClient("secret-token")
	client.baseURL = server.URL

	file, err := client.GetFile(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "Checkout", file.Name)
	assert.Equal(t, "DOCUMENT", file.Document.Type)
	assert.Equal(t, "secret-token", gotToken)
}

func TestClient_GetFile_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"err": "Invalid token"}`))
	}))
	defer server.Close()

	client := NewFigmaClient("bad-token")
	client.baseURL = server.URL

	_, err := client.GetFile(context.Background(), "abc123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
