package tex2html

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func mustParseFragment(t *testing.T, content string) *html.Node {
	t.Helper()
	nodes, err := parseBodyNodes(content)
	if err != nil {
		t.Fatalf("parseBodyNodes(%q) error = %v", content, err)
	}
	container := newElement("div")
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container
}

func TestParseBodyNodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "bare fragment",
			content: `<p>one</p><p>two</p>`,
			want:    `<p>one</p><p>two</p>`,
		},
		{
			name:    "complete document",
			content: `<html><head><title>t</title></head><body><p>body only</p></body></html>`,
			want:    `<p>body only</p>`,
		},
		{
			name:    "mis-nested fragment recovers",
			content: `<p>open<div>block</div>`,
			want:    "block",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			container := mustParseFragment(t, tt.content)
			out, err := renderChildren(container)
			if err != nil {
				t.Fatalf("renderChildren() error = %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("rendered %q, want it to contain %q", out, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	t.Parallel()

	container := mustParseFragment(t, `<div id="w"><p>a</p><p>b</p></div><p>c</p>`)
	wrapper := findElement(container, "div")
	if wrapper == container {
		wrapper = wrapper.FirstChild
	}
	unwrap(wrapper)

	out, err := renderChildren(container)
	if err != nil {
		t.Fatal(err)
	}
	if out != `<p>a</p><p>b</p><p>c</p>` {
		t.Errorf("unwrap() result = %q", out)
	}
}

func TestHeadingLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag  string
		want int
	}{
		{"h1", 1}, {"h3", 3}, {"h6", 6},
		{"h7", 0}, {"p", 0}, {"header", 0}, {"h", 0},
	}
	for _, tt := range tests {
		if got := headingLevel(tt.tag); got != tt.want {
			t.Errorf("headingLevel(%q) = %d, want %d", tt.tag, got, tt.want)
		}
	}
}

func TestIsEmptyElement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{name: "truly empty", content: `<span id="x"></span>`, want: true},
		{name: "blank text only", content: "<span>   \n </span>", want: true},
		{name: "visible text", content: `<span>text</span>`, want: false},
		{name: "child element", content: `<span><b></b></span>`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			container := mustParseFragment(t, tt.content)
			span := findElement(container, "span")
			if span == nil {
				t.Fatal("span not parsed")
			}
			if got := isEmptyElement(span); got != tt.want {
				t.Errorf("isEmptyElement() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTextOfAndFirstText(t *testing.T) {
	t.Parallel()

	container := mustParseFragment(t, `<h2><span class="x">Deep</span> Title</h2>`)
	h := findElement(container, "h2")

	if got := textOf(h); got != "Deep Title" {
		t.Errorf("textOf() = %q, want Deep Title", got)
	}
	if got := firstText(h).Data; got != "Deep" {
		t.Errorf("firstText().Data = %q, want Deep", got)
	}

	empty := findElement(mustParseFragment(t, `<h1></h1>`), "h1")
	ft := firstText(empty)
	ft.Data = "inserted"
	if got := textOf(empty); got != "inserted" {
		t.Errorf("firstText() on empty element not writable, textOf = %q", got)
	}
}
