package source

import (
	"bytes"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
)

// Format is the markup a document is written in.
type Format string

const (
	FormatAuto     Format = ""
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// extensionFormats maps file extensions to the format they imply.
var extensionFormats = map[string]Format{
	".html":     FormatHTML,
	".htm":      FormatHTML,
	".xhtml":    FormatHTML,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
}

// ParseFormat accepts "", "auto", "html", "md" or "markdown".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "html", "htm":
		return FormatHTML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatForFile guesses the format from a filename, defaulting to HTML.
func FormatForFile(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	if f, ok := extensionFormats[ext]; ok {
		return f
	}
	return FormatHTML
}

// FormatForURL guesses the format from the URL path, defaulting to HTML.
func FormatForURL(rawURL string) Format {
	u, err := url.Parse(rawURL)
	if err != nil {
		return FormatHTML
	}
	return FormatForFile(path.Base(u.Path))
}

// renderMarkdown converts Markdown into an HTML fragment.
func renderMarkdown(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.New().Convert(src, &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
