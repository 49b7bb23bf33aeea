package htmldoc

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/entrhq/togglekit/pkg/toggle"
)

// Element is a node of a Document.
type Element struct {
	doc *Document
	n   *html.Node
}

var _ toggle.Element = (*Element)(nil)

// Tag returns the element's lower-case tag name.
func (e *Element) Tag() string { return e.n.Data }

// Attr returns the value of attribute key, or "" when absent.
func (e *Element) Attr(key string) string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return attr(e.n, key)
}

// Visible reports false when the element or any ancestor is hidden by an
// inline display:none or the hidden attribute.
func (e *Element) Visible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()

	for n := e.n; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && hiddenSelf(n) {
			return false, nil
		}
	}
	return true, nil
}

// SetVisible edits the element's own inline style. Showing removes
// display:none and the hidden attribute but cannot reveal an element
// whose ancestor is hidden.
func (e *Element) SetVisible(ctx context.Context, visible bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	st := parseStyle(attr(e.n, "style"))
	if visible {
		if v, ok := st.get("display"); ok && v == "none" {
			st.remove("display")
		}
		removeAttr(e.n, "hidden")
	} else {
		st.set("display", "none")
	}

	if s := st.String(); s != "" {
		setAttr(e.n, "style", s)
	} else {
		removeAttr(e.n, "style")
	}
	return nil
}

// Box reads the element's declared geometry.
func (e *Element) Box(ctx context.Context) (toggle.Box, error) {
	if err := ctx.Err(); err != nil {
		return toggle.Box{}, err
	}
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()

	st := parseStyle(attr(e.n, "style"))
	var (
		box toggle.Box
		err error
	)
	for _, f := range []struct {
		data, prop string
		dst        *float64
	}{
		{"data-x", "left", &box.X},
		{"data-y", "top", &box.Y},
		{"data-width", "width", &box.Width},
		{"data-height", "height", &box.Height},
	} {
		if *f.dst, err = dimension(e.n, st, f.data, f.prop); err != nil {
			return toggle.Box{}, err
		}
	}
	return box, nil
}

func dimension(n *html.Node, st style, dataKey, prop string) (float64, error) {
	if v, ok := lookupAttr(n, dataKey); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q: %w", dataKey, v, err)
		}
		return f, nil
	}
	if v, ok := st.get(prop); ok {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q: %w", prop, v, err)
		}
		return f, nil
	}
	return 0, fmt.Errorf("%w: <%s> has neither %s nor style %s", ErrNoGeometry, n.Data, dataKey, prop)
}

func hiddenSelf(n *html.Node) bool {
	if _, ok := lookupAttr(n, "hidden"); ok {
		return true
	}
	v, ok := parseStyle(attr(n, "style")).get("display")
	return ok && v == "none"
}

// style is an ordered list of inline declarations.
type style []declaration

type declaration struct {
	prop, val string
}

func parseStyle(s string) style {
	var st style
	for _, part := range strings.Split(s, ";") {
		prop, val, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.TrimSpace(val)
		if prop == "" {
			continue
		}
		st.set(prop, val)
	}
	return st
}

// get returns the lower-cased value of prop without any !important flag.
func (st style) get(prop string) (string, bool) {
	for _, d := range st {
		if d.prop == prop {
			v := strings.ToLower(d.val)
			v = strings.TrimSpace(strings.TrimSuffix(v, "!important"))
			return v, true
		}
	}
	return "", false
}

func (st *style) set(prop, val string) {
	for i, d := range *st {
		if d.prop == prop {
			(*st)[i].val = val
			return
		}
	}
	*st = append(*st, declaration{prop: prop, val: val})
}

func (st *style) remove(prop string) {
	out := (*st)[:0]
	for _, d := range *st {
		if d.prop != prop {
			out = append(out, d)
		}
	}
	*st = out
}

func (st style) String() string {
	parts := make([]string, len(st))
	for i, d := range st {
		parts[i] = d.prop + ": " + d.val
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "; ") + ";"
}
