package query

import (
	"errors"
	"testing"
)

func TestCSSMatcher_DocumentOrder(t *testing.T) {
	doc := `<section><p class="a">1</p><div><p class="b">2</p></div><p class="a">3</p></section>`
	m := &CSSMatcher{}
	nodes, err := m.Match("p", doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"1", "2", "3"}
	if len(nodes) != len(want) {
		t.Fatalf("expected %d nodes, got %d", len(want), len(nodes))
	}
	for i, w := range want {
		if nodes[i].Text() != w {
			t.Errorf("node[%d]: expected %q, got %q", i, w, nodes[i].Text())
		}
	}
}

func TestCSSMatcher_SelectorGroup(t *testing.T) {
	// A group still comes back in document order, not selector order.
	doc := `<h2>b</h2><h1>a</h1>`
	got, err := Collect(CSS("h1, h2"), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Join(got) != "b\na" {
		t.Errorf("expected %q, got %q", "b\na", Join(got))
	}
}

func TestCSSMatcher_TextIsNotNormalized(t *testing.T) {
	doc := "<p>  spaced\n  <i>out</i>  </p>"
	got, err := Run(CSS("p"), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "  spaced\n  out  " {
		t.Errorf("expected raw text, got %q", got)
	}
}

func TestCSSMatcher_OwnAttributesOnly(t *testing.T) {
	doc := `<div><a href="/x">link</a></div>`
	got, err := Run(CSS("div@href"), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected descendant attribute to be ignored, got %q", got)
	}

	got, err = Run(CSS("a@href"), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/x" {
		t.Errorf("expected %q, got %q", "/x", got)
	}
}

func TestCSSMatcher_AttributeWithAt(t *testing.T) {
	got, err := Run(CSS("div@a@b"), `<div a@b="v">x</div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "v" {
		t.Errorf("expected %q, got %q", "v", got)
	}
}

func TestCSSMatcher_InvalidSelectorDoesNotPanic(t *testing.T) {
	for _, sel := range []string{"div[", ":nth-child(", "#"} {
		_, err := (&CSSMatcher{}).Match(sel, citiesDoc)
		if !errors.Is(err, ErrSelectorSyntax) {
			t.Errorf("%q: expected ErrSelectorSyntax, got %v", sel, err)
		}
	}
}

func TestCSSMatcher_FragmentHasNoWrappers(t *testing.T) {
	for _, sel := range []string{"html", "head", "body"} {
		got, err := Collect(CSS(sel), `<div>x</div>`)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", sel, err)
		}
		if len(got) != 0 {
			t.Errorf("%s: expected no synthetic wrapper match, got %q", sel, got)
		}
	}
}

func TestCSSMatcher_FullDocumentContentStillMatches(t *testing.T) {
	doc := `<!DOCTYPE html><html><head><title>t</title></head><body><p>x</p></body></html>`
	got, err := Run(CSS("p"), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "x" {
		t.Errorf("expected %q, got %q", "x", got)
	}
}
