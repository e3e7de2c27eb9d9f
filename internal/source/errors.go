package source

import "errors"

var (
	// ErrUnsupportedSource means the input source type is not implemented.
	ErrUnsupportedSource = errors.New("unsupported source")
	// ErrFetch means a remote document could not be retrieved.
	ErrFetch = errors.New("fetch failed")
	// ErrTooLarge means the document exceeds the configured size limit.
	ErrTooLarge = errors.New("document exceeds size limit")
	// ErrUnknownFormat means the document format is not html or markdown.
	ErrUnknownFormat = errors.New("unknown document format")
)
