// Package extraction implements the context-extraction stage: it reads a
// PRD document and distills the structured context later stages consume.
package extraction

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DocumentReader loads PRD content from a path. The text reader below
// handles plain text and markdown; richer formats (PDF and friends)
// plug in behind this interface.
type DocumentReader interface {
	Read(path string) (string, error)
}

// UnsupportedKindError indicates a PRD file extension no registered
// reader can handle.
type UnsupportedKindError struct {
	Path string
	Ext  string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported document kind %q for %s (supported: .txt, .md)", e.Ext, e.Path)
}

// TextReader reads .txt and .md documents and normalizes their content.
type TextReader struct{}

// NewTextReader returns a reader for plain text and markdown PRDs.
func NewTextReader() *TextReader {
	return &TextReader{}
}

// Read loads and cleans the document at path.
func (r *TextReader) Read(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".txt" && ext != ".md" {
		return "", &UnsupportedKindError{Path: path, Ext: ext}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("PRD file not found: %w", err)
		}
		return "", fmt.Errorf("failed to read PRD file: %w", err)
	}

	return CleanText(string(content)), nil
}

// CleanText cleans and normalizes text content while preserving structure
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	// 1. Normalize line endings (CRLF → LF)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")

	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	result := strings.Join(cleanedLines, "\n")

	// Remove excessive blank lines (max 2 consecutive)
	result = removeExcessiveBlankLines(result)

	return strings.TrimSpace(result)
}

// cleanLine cleans a single line while preserving structure
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")

	if strings.TrimSpace(line) == "" {
		return ""
	}

	// Preserve headings (Markdown # or ## etc.)
	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	// Preserve bullet lists (Markdown - or *)
	if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
		indent := len(line) - len(trimmed)
		if indent > 0 {
			return strings.Repeat(" ", indent) + trimmed
		}
		return trimmed
	}

	// For regular lines, normalize multiple spaces to single space
	// but preserve intentional indentation at start of line
	leadingSpace := len(line) - len(trimmed)
	content := regexp.MustCompile(`\s+`).ReplaceAllString(strings.TrimSpace(line), " ")
	if leadingSpace > 0 {
		return strings.Repeat(" ", leadingSpace) + content
	}
	return content
}

// removeExcessiveBlankLines reduces consecutive blank lines to max 2
func removeExcessiveBlankLines(content string) string {
	re := regexp.MustCompile(`\n\n\n+`)
	return re.ReplaceAllString(content, "\n\n")
}
