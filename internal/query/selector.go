package query

import (
	"fmt"
	"strings"
)

// Kind selects which backend evaluates a selector.
type Kind int

const (
	KindCSS Kind = iota + 1
	KindXPath
)

func (k Kind) String() string {
	switch k {
	case KindCSS:
		return "css"
	case KindXPath:
		return "xpath"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps "css" or "xpath" to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "css":
		return KindCSS, nil
	case "xpath":
		return KindXPath, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Selector is a raw selector string tagged with the language it is written in.
type Selector struct {
	Kind Kind
	Raw  string
}

func CSS(raw string) Selector   { return Selector{Kind: KindCSS, Raw: raw} }
func XPath(raw string) Selector { return Selector{Kind: KindXPath, Raw: raw} }

// Parsed is a selector split at its attribute directive.
type Parsed struct {
	Node    string // selector addressing the nodes
	Attr    string // attribute to extract, valid when HasAttr
	HasAttr bool
}

// Split separates "node@attr" at the first '@'. Everything after that '@',
// including further '@' characters, is the attribute name.
func Split(raw string) Parsed {
	node, attr, found := strings.Cut(raw, "@")
	if !found {
		return Parsed{Node: raw}
	}
	return Parsed{Node: node, Attr: attr, HasAttr: true}
}
