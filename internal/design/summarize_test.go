package design

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/qa-agent/internal/llm"
	"github.com/jonathan/qa-agent/internal/pipeline"
	"github.com/jonathan/qa-agent/internal/session"
)

type fakeFetcher struct {
	file *File
	err  error
}

func (f *fakeFetcher) GetFile(_ context.Context, _ string) (*File, error) {
	return f.file, f.err
}

type fakeLLM struct {
	response string
	err      error
	prompt   string
}

func (f *fakeLLM) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

func (f *fakeLLM) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

func (f *fakeLLM) Close() error { return nil }

func interactiveFile() *File {
	return &File{
		Name: "Checkout",
		Document: Node{
			ID:   "0:0",
			Type: "DOCUMENT",
			Children: []Node{
				{
					ID:           "1:1",
					Name:         "Pay button",
					Type:         "INSTANCE",
					Interactions: []json.RawMessage{json.RawMessage(`{}`)},
				},
			},
		},
	}
}

func TestSummarizer_Run(t *testing.T) {
	client := &fakeLLM{response: "The screen has a Pay button."}
	summarizer := NewSummarizer(&fakeFetcher{file: interactiveFile()}, client)

	manifest := &session.Manifest{
		FigmaURL: "https://www.figma.com/design/abc123/Checkout",
	}

	outputs, err := summarizer.Run(context.Background(), manifest, nil)
	require.NoError(t, err)

	assert.Equal(t, "The screen has a Pay button.", string(outputs[session.KindFigmaSummary]))
	assert.Contains(t, client.prompt, "Pay button")
}

func TestSummarizer_Run_NoFigmaURL(t *testing.T) {
	summarizer := NewSummarizer(&fakeFetcher{}, &fakeLLM{})

	outputs, err := summarizer.Run(context.Background(), &session.Manifest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, NoFigmaPlaceholder, string(outputs[session.KindFigmaSummary]))
}

func TestSummarizer_Run_InvalidURL(t *testing.T) {
	summarizer := NewSummarizer(&fakeFetcher{}, &fakeLLM{})

	manifest := &session.Manifest{FigmaURL: "https://example.com/not-figma"}

	_, err := summarizer.Run(context.Background(), manifest, nil)
	var genErr *pipeline.GenerationError
	require.True(t, errors.As(err, &genErr))
}

func TestSummarizer_Run_FetchFailure(t *testing.T) {
	summarizer := NewSummarizer(&fakeFetcher{err: errors.New("network down")}, &fakeLLM{})

	manifest := &session.Manifest{
		FigmaURL: "https://www.figma.com/file/abc123/App",
	}

	_, err := summarizer.Run(context.Background(), manifest, nil)
	var genErr *pipeline.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.ErrorContains(t, genErr, "network down")
}

func TestSummarizer_Run_NoInteractiveComponents(t *testing.T) {
	file := &File{Name: "Static mock", Document: Node{ID: "0:0", Type: "DOCUMENT"}}
	client := &fakeLLM{}
	summarizer := NewSummarizer(&fakeFetcher{file: file}, client)

	manifest := &session.Manifest{
		FigmaURL: "https://www.figma.com/file/abc123/App",
	}

	outputs, err := summarizer.Run(context.Background(), manifest, nil)
	require.NoError(t, err)
	assert.Contains(t, string(outputs[session.KindFigmaSummary]), "no interactive components")
	// No LLM call was made
	assert.Empty(t, client.prompt)
}

func TestDemoSummarizer_Run(t *testing.T) {
	summarizer := NewDemoSummarizer()

	withURL := &session.Manifest{FigmaURL: "https://www.figma.com/file/abc123/App"}
	outputs, err := summarizer.Run(context.Background(), withURL, nil)
	require.NoError(t, err)
	assert.NotEqual(t, NoFigmaPlaceholder, string(outputs[session.KindFigmaSummary]))

	outputs, err = summarizer.Run(context.Background(), &session.Manifest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, NoFigmaPlaceholder, string(outputs[session.KindFigmaSummary]))
}
