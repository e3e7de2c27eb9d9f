// Package query evaluates CSS selectors and XPath expressions against HTML
// documents and normalizes the matches into newline-joined strings.
package query

import (
	"strings"
)

// Node is a single match inside a backend's own document tree.
type Node interface {
	// Text returns the concatenated text of the node and its descendants.
	Text() string
	// Attr looks up one of the node's own attributes.
	Attr(name string) (string, bool)
}

// Matcher finds the nodes a selector addresses in a document.
type Matcher interface {
	Match(nodeSelector, document string) ([]Node, error)
}

// ForKind returns the matcher for a selector kind.
func ForKind(k Kind) (Matcher, error) {
	switch k {
	case KindCSS:
		return &CSSMatcher{}, nil
	case KindXPath:
		return &XPathMatcher{}, nil
	default:
		return nil, newError(k, "", ErrUnknownKind, nil)
	}
}

// Extract returns the text of n, or the value of the requested attribute.
// A node lacking the attribute yields nothing.
func Extract(n Node, p Parsed) (string, bool) {
	if !p.HasAttr {
		return n.Text(), true
	}
	return n.Attr(p.Attr)
}

// Collect runs sel against document and returns one value per matched node
// that yields one, in match order.
func Collect(sel Selector, document string) ([]string, error) {
	m, err := ForKind(sel.Kind)
	if err != nil {
		return nil, err
	}

	parsed := Split(sel.Raw)
	nodes, err := m.Match(parsed.Node, document)
	if err != nil {
		return nil, err
	}

	results := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if v, ok := Extract(n, parsed); ok {
			results = append(results, v)
		}
	}
	return results, nil
}

// Run runs sel against document and joins the results with newlines.
func Run(sel Selector, document string) (string, error) {
	results, err := Collect(sel, document)
	if err != nil {
		return "", err
	}
	return Join(results), nil
}

func Join(values []string) string {
	return strings.Join(values, "\n")
}
