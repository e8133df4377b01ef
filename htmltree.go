package tex2html

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// The combiner works on a real HTML tree instead of string concatenation:
// naive joining can merge or mis-nest DOM fragments when a chunk's output
// opens an element the next chunk's output closes.

// parseBodyNodes parses a chunk's HTML output and returns its content nodes.
// Complete documents contribute their <body> children; bare fragments are
// parsed in body context.
func parseBodyNodes(content string) ([]*html.Node, error) {
	if strings.Contains(strings.ToLower(content), "<body") {
		doc, err := html.Parse(strings.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrHTMLParse, err)
		}
		body := findElement(doc, "body")
		if body == nil {
			return nil, fmt.Errorf("%w: document has no body", ErrHTMLParse)
		}
		return detachChildren(body), nil
	}

	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(content), ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTMLParse, err)
	}
	return nodes, nil
}

// findElement returns the first element with the given tag, depth-first.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// detachChildren removes and returns every child of n.
func detachChildren(n *html.Node) []*html.Node {
	var children []*html.Node
	for n.FirstChild != nil {
		c := n.FirstChild
		n.RemoveChild(c)
		children = append(children, c)
	}
	return children
}

// newElement creates a detached element node.
func newElement(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

// unwrap replaces n with its own children, preserving document order.
func unwrap(n *html.Node) {
	parent := n.Parent
	for n.FirstChild != nil {
		c := n.FirstChild
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
}

// headingLevel maps h1..h6 tags to their depth, 0 for anything else.
func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

// findHeadings collects h1..h6 elements under root in document order.
func findHeadings(root *html.Node) []*html.Node {
	var headings []*html.Node
	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && headingLevel(n.Data) > 0 {
			headings = append(headings, n)
		}
	})
	return headings
}

// walk visits every node under root in document order.
func walk(root *html.Node, visit func(*html.Node)) {
	visit(root)
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// attr returns the value of the named attribute, "" when absent.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// hasAttr reports whether the named attribute is present.
func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// setAttr sets or replaces the named attribute.
func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// textOf concatenates all text under n.
func textOf(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return strings.TrimSpace(b.String())
}

// firstText returns the first text node under n, creating one when the
// element is empty.
func firstText(n *html.Node) *html.Node {
	var found *html.Node
	var search func(*html.Node) bool
	search = func(c *html.Node) bool {
		if c.Type == html.TextNode {
			found = c
			return true
		}
		for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
			if search(gc) {
				return true
			}
		}
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if search(c) {
			return found
		}
	}
	t := &html.Node{Type: html.TextNode}
	n.AppendChild(t)
	return t
}

// isEmptyElement reports whether n has no children apart from blank text.
func isEmptyElement(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.TextNode || strings.TrimSpace(c.Data) != "" {
			return false
		}
	}
	return true
}

// renderChildren serializes the children of n to HTML.
func renderChildren(n *html.Node) (string, error) {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", fmt.Errorf("%w: render: %v", ErrCombineFailed, err)
		}
	}
	return b.String(), nil
}
