package query

import (
	"errors"
	"fmt"
)

var (
	// ErrSelectorSyntax means the node selector is not valid CSS or XPath.
	ErrSelectorSyntax = errors.New("invalid selector syntax")
	// ErrDocumentParse means the document could not be parsed into a tree.
	ErrDocumentParse = errors.New("failed to parse document")
	// ErrEvaluation means a valid selector could not be applied to the document.
	ErrEvaluation = errors.New("failed to evaluate selector")
	// ErrUnknownKind means the selector kind is neither CSS nor XPath.
	ErrUnknownKind = errors.New("unknown selector kind")
)

// Error describes a failed query. It unwraps to both the category sentinel
// and the underlying engine error.
type Error struct {
	Kind     Kind
	Selector string
	Category error
	Err      error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %q: %v", e.Kind, e.Selector, e.Category)
	}
	return fmt.Sprintf("%s %q: %v: %v", e.Kind, e.Selector, e.Category, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Category}
	}
	return []error{e.Category, e.Err}
}

func newError(kind Kind, selector string, category, err error) *Error {
	return &Error{Kind: kind, Selector: selector, Category: category, Err: err}
}
