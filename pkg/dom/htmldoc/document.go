// Package htmldoc is a static document backend for the toggle engine. It
// parses HTML with golang.org/x/net/html and edits inline styles in place,
// so a page can be toggled offline and rendered back out.
//
// There is no layout engine. Element geometry comes from data-x, data-y,
// data-width and data-height attributes, falling back to the left, top,
// width and height inline style properties in px.
//
// Scope and filter selectors are matched with cascadia.
package htmldoc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/entrhq/togglekit/pkg/toggle"
)

// ErrNoGeometry is returned by Element.Box when the element carries no
// position or size information.
var ErrNoGeometry = errors.New("element has no geometry")

// Document is a parsed HTML tree. It is safe for concurrent use.
type Document struct {
	mu   sync.RWMutex
	root *html.Node
}

var _ toggle.Document = (*Document)(nil)

// Parse reads an HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString parses an HTML document held in s.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Open parses the HTML file at path.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Find returns the elements matching q in document order.
func (d *Document) Find(ctx context.Context, q toggle.Query) ([]toggle.Element, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	scope, err := compile(q.Scope)
	if err != nil {
		return nil, err
	}
	filter, err := compile(q.Filter)
	if err != nil {
		return nil, err
	}
	tag := strings.ToLower(strings.TrimSpace(q.Tag))
	if tag == "*" {
		tag = ""
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []toggle.Element
	var walk func(n *html.Node, inScope bool) error
	walk = func(n *html.Node, inScope bool) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if inScope &&
				(tag == "" || c.Data == tag) &&
				(filter == nil || filter.Match(c)) {
				out = append(out, &Element{doc: d, n: c})
			}
			childScope := inScope || (scope != nil && scope.Match(c))
			if err := walk(c, childScope); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(d.root, scope == nil); err != nil {
		return nil, err
	}
	return out, nil
}

// compile parses a selector list. An empty selector yields nil.
func compile(sel string) (cascadia.SelectorGroup, error) {
	sel = strings.TrimSpace(sel)
	if sel == "" {
		return nil, nil
	}
	group, err := cascadia.ParseGroup(sel)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", toggle.ErrInvalidQuery, sel, err)
	}
	return group, nil
}

// Render writes the document, including any visibility changes, to w.
func (d *Document) Render(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}
	return nil
}

// String renders the document to a string.
func (d *Document) String() string {
	var b strings.Builder
	if err := d.Render(&b); err != nil {
		return ""
	}
	return b.String()
}

func attr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}
