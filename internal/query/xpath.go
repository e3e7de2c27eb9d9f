package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// XPathMatcher evaluates XPath expressions over its own x/net/html tree.
type XPathMatcher struct{}

func (m *XPathMatcher) Match(nodeSelector, document string) (nodes []Node, err error) {
	doc, err := parseXPathDocument(document)
	if err != nil {
		return nil, newError(KindXPath, nodeSelector, ErrDocumentParse, err)
	}

	if strings.TrimSpace(nodeSelector) == "" {
		return nil, newError(KindXPath, nodeSelector, ErrSelectorSyntax, errors.New("empty expression"))
	}
	expr, err := xpath.Compile(nodeSelector)
	if err != nil {
		return nil, newError(KindXPath, nodeSelector, ErrSelectorSyntax, err)
	}

	// The engine panics on some expressions it compiled but cannot apply.
	defer func() {
		if r := recover(); r != nil {
			nodes = nil
			err = newError(KindXPath, nodeSelector, ErrEvaluation, fmt.Errorf("%v", r))
		}
	}()

	result := expr.Evaluate(htmlquery.CreateXPathNavigator(doc))
	iter, ok := result.(*xpath.NodeIterator)
	if !ok {
		return nil, newError(KindXPath, nodeSelector, ErrEvaluation,
			fmt.Errorf("expression yields %T, not a node-set", result))
	}

	for iter.MoveNext() {
		nav, ok := iter.Current().(*htmlquery.NodeNavigator)
		if !ok {
			continue
		}
		nodes = append(nodes, xpathNode{node: currentNode(nav)})
	}
	return nodes, nil
}

// currentNode resolves the navigator position to a node. Attribute positions
// become detached text nodes holding the attribute value.
func currentNode(nav *htmlquery.NodeNavigator) *html.Node {
	if nav.NodeType() == xpath.AttributeNode {
		return &html.Node{Type: html.TextNode, Data: nav.Value()}
	}
	return nav.Current()
}

type xpathNode struct {
	node *html.Node
}

func (n xpathNode) Text() string {
	return htmlquery.InnerText(n.node)
}

func (n xpathNode) Attr(name string) (string, bool) {
	if n.node.Type != html.ElementNode || !htmlquery.ExistsAttr(n.node, name) {
		return "", false
	}
	return htmlquery.SelectAttr(n.node, name), true
}

// parseXPathDocument builds the tree XPath expressions run against. Complete
// documents keep their html/head/body structure. Fragments go through
// parseFragment so that "/div" addresses a top-level <div>.
func parseXPathDocument(document string) (*html.Node, error) {
	if isFullDocument(document) {
		return htmlquery.Parse(strings.NewReader(document))
	}
	return parseFragment(document)
}

// parseFragment parses document in body context and hangs the resulting
// nodes directly off a document root, with no html/head/body wrappers.
func parseFragment(document string) (*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	children, err := html.ParseFragment(strings.NewReader(document), body)
	if err != nil {
		return nil, err
	}

	root := &html.Node{Type: html.DocumentNode}
	for _, c := range children {
		root.AppendChild(c)
	}
	return root, nil
}

// isFullDocument reports whether the first markup in document, ignoring
// whitespace and comments, is a doctype or an <html> or <head> tag.
func isFullDocument(document string) bool {
	z := html.NewTokenizer(strings.NewReader(document))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.DoctypeToken:
			return true
		case html.CommentToken:
			continue
		case html.TextToken:
			if strings.TrimSpace(string(z.Text())) != "" {
				return false
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Html, atom.Head:
				return true
			}
			return false
		default:
			return false
		}
	}
}
