// Package source resolves where a document comes from into its HTML text.
package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
)

// Kind is where a document is read from.
type Kind int

const (
	FromStdin Kind = iota
	FromText
	FromFile
	FromURL
)

// Source names a document and the markup it is written in.
type Source struct {
	Kind   Kind
	Value  string // literal text, file path or URL depending on Kind
	Format Format
}

func Stdin() Source           { return Source{Kind: FromStdin} }
func Text(doc string) Source  { return Source{Kind: FromText, Value: doc} }
func File(path string) Source { return Source{Kind: FromFile, Value: path} }
func URL(raw string) Source   { return Source{Kind: FromURL, Value: raw} }

// Resolver turns a Source into document text.
type Resolver struct {
	Stdin    io.Reader
	Fetcher  Fetcher
	MaxBytes int64
}

// Resolve reads the document and renders it to HTML if it is not already.
func (r *Resolver) Resolve(ctx context.Context, src Source) (string, error) {
	var (
		raw    []byte
		format = src.Format
		err    error
	)

	switch src.Kind {
	case FromText:
		raw = []byte(src.Value)
	case FromStdin:
		raw, err = r.readStdin()
	case FromFile:
		raw, err = r.readFile(src.Value)
		if format == FormatAuto {
			format = FormatForFile(src.Value)
		}
	case FromURL:
		raw, err = r.fetch(ctx, src.Value)
		if format == FormatAuto {
			format = FormatForURL(src.Value)
		}
	default:
		return "", fmt.Errorf("%w: source kind %d", ErrUnsupportedSource, src.Kind)
	}
	if err != nil {
		return "", err
	}
	if r.MaxBytes > 0 && int64(len(raw)) > r.MaxBytes {
		return "", fmt.Errorf("%w (%d bytes)", ErrTooLarge, r.MaxBytes)
	}

	switch format {
	case FormatAuto, FormatHTML:
		return string(raw), nil
	case FormatMarkdown:
		return renderMarkdown(raw)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// readStdin reads all lines and joins them with "\n", dropping the final
// line terminator.
func (r *Resolver) readStdin() ([]byte, error) {
	in := r.Stdin
	if in == nil {
		in = os.Stdin
	}

	maxLine := 1024 * 1024
	if r.MaxBytes > 0 && r.MaxBytes+1 > int64(maxLine) {
		maxLine = int(r.MaxBytes + 1)
	}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	var lines []string
	var size int64
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		size += int64(len(line)) + 1
		if r.MaxBytes > 0 && size > r.MaxBytes+1 {
			return nil, fmt.Errorf("read stdin: %w (%d bytes)", ErrTooLarge, r.MaxBytes)
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("read stdin: %w (line over %d bytes)", ErrTooLarge, maxLine)
		}
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return []byte(strings.Join(lines, "\n")), nil
}

func (r *Resolver) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	var in io.Reader = f
	if r.MaxBytes > 0 {
		in = io.LimitReader(f, r.MaxBytes+1)
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return data, nil
}

func (r *Resolver) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid url %q: %v", ErrUnsupportedSource, rawURL, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, fmt.Errorf("%w: url scheme %q", ErrUnsupportedSource, u.Scheme)
	}
	if r.Fetcher == nil {
		return nil, fmt.Errorf("%w: no fetcher configured for %s", ErrUnsupportedSource, rawURL)
	}
	return r.Fetcher.Fetch(ctx, rawURL)
}
