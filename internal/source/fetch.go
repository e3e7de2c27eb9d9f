package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gocolly/colly"
)

// Fetcher retrieves the body of a remote document.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// CollyFetcher downloads documents with a single-use colly collector.
type CollyFetcher struct {
	timeout   time.Duration
	userAgent string
	maxBytes  int64
	log       *slog.Logger
}

func NewCollyFetcher(timeout time.Duration, userAgent string, maxBytes int64, log *slog.Logger) *CollyFetcher {
	if log == nil {
		log = slog.Default()
	}
	return &CollyFetcher{
		timeout:   timeout,
		userAgent: userAgent,
		maxBytes:  maxBytes,
		log:       log,
	}
}

func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, rawURL, err)
	}

	opts := []func(*colly.Collector){colly.AllowURLRevisit()}
	if f.userAgent != "" {
		opts = append(opts, colly.UserAgent(f.userAgent))
	}
	if f.maxBytes > 0 {
		// One extra byte tells a body at the limit apart from a truncated one.
		opts = append(opts, colly.MaxBodySize(int(f.maxBytes)+1))
	}
	c := colly.NewCollector(opts...)
	c.WithTransport(&ctxTransport{ctx: ctx, base: http.DefaultTransport})
	if f.timeout > 0 {
		c.SetRequestTimeout(f.timeout)
	}

	var (
		body   []byte
		status int
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		f.log.Debug("fetch error", "url", rawURL, "status", status, "error", err)
	})

	start := time.Now()
	if err := c.Visit(rawURL); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFetch, rawURL, ctxErr)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, rawURL, err)
	}
	f.log.Debug("fetched document", "url", rawURL, "status", status, "bytes", len(body), "duration_ms", time.Since(start).Milliseconds())

	if f.maxBytes > 0 && int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%w: %s: %w (%d bytes)", ErrFetch, rawURL, ErrTooLarge, f.maxBytes)
	}
	return body, nil
}

// ctxTransport binds every request the collector makes to ctx.
type ctxTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t *ctxTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}
