package query

import (
	"errors"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		raw     string
		node    string
		attr    string
		hasAttr bool
	}{
		{"div", "div", "", false},
		{"div@name", "div", "name", true},
		{"div@a@b", "div", "a@b", true},
		{"//li/div@href", "//li/div", "href", true},
		{"", "", "", false},
		{"@", "", "", true},
		{"div@", "div", "", true},
		{"@name", "", "name", true},
	}
	for _, tt := range tests {
		got := Split(tt.raw)
		if got.Node != tt.node || got.Attr != tt.attr || got.HasAttr != tt.hasAttr {
			t.Errorf("Split(%q) = %+v, want {Node:%q Attr:%q HasAttr:%v}", tt.raw, got, tt.node, tt.attr, tt.hasAttr)
		}
	}
}

func TestSplit_NodeHalfIsStable(t *testing.T) {
	// Splitting the node half again never finds another attribute.
	for _, raw := range []string{"div", "div@name", "div@a@b", "ul > li@data-id"} {
		first := Split(raw)
		again := Split(first.Node)
		if again.HasAttr || again.Node != first.Node {
			t.Errorf("re-splitting %q: got %+v", first.Node, again)
		}
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"css": KindCSS, "CSS": KindCSS, "xpath": KindXPath, "XPath": KindXPath} {
		got, err := ParseKind(in)
		if err != nil {
			t.Fatalf("ParseKind(%q): unexpected error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseKind(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseKind("jsonpath"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestKind_String(t *testing.T) {
	if KindCSS.String() != "css" || KindXPath.String() != "xpath" {
		t.Errorf("unexpected names: %q, %q", KindCSS, KindXPath)
	}
	if Kind(9).String() != "kind(9)" {
		t.Errorf("unexpected name for unknown kind: %q", Kind(9))
	}
}
