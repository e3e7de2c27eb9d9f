package query

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// CSSMatcher matches CSS selectors using cascadia over a goquery document
// built from the input as a fragment.
type CSSMatcher struct{}

func (m *CSSMatcher) Match(nodeSelector, document string) ([]Node, error) {
	root, err := parseFragment(document)
	if err != nil {
		return nil, newError(KindCSS, nodeSelector, ErrDocumentParse, err)
	}
	doc := goquery.NewDocumentFromNode(root)

	if strings.TrimSpace(nodeSelector) == "" {
		return nil, newError(KindCSS, nodeSelector, ErrSelectorSyntax, errors.New("empty selector"))
	}
	// goquery's Find swallows compile errors and matches nothing, so compile
	// here to surface them.
	sel, err := cascadia.Compile(nodeSelector)
	if err != nil {
		return nil, newError(KindCSS, nodeSelector, ErrSelectorSyntax, err)
	}

	var nodes []Node
	doc.FindMatcher(sel).Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, cssNode{sel: s})
	})
	return nodes, nil
}

type cssNode struct {
	sel *goquery.Selection
}

func (n cssNode) Text() string {
	return n.sel.Text()
}

func (n cssNode) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}
