package toggle

import (
	"context"
	"errors"
	"strings"
)

// fakeElement is an in-memory element. parent is the id of its parent.
type fakeElement struct {
	id      string
	tag     string
	classes []string
	parent  string
	visible bool
	box     Box

	visibleErr error
	setErr     error
	boxErr     error
	sets       int
}

func (e *fakeElement) Visible(context.Context) (bool, error) {
	if e.visibleErr != nil {
		return false, e.visibleErr
	}
	return e.visible, nil
}

func (e *fakeElement) SetVisible(_ context.Context, visible bool) error {
	if e.setErr != nil {
		return e.setErr
	}
	e.sets++
	e.visible = visible
	return nil
}

func (e *fakeElement) Box(context.Context) (Box, error) {
	if e.boxErr != nil {
		return Box{}, e.boxErr
	}
	return e.box, nil
}

// fakeDoc understands single simple selectors: "#id", ".class" or "tag".
type fakeDoc struct {
	elems   []*fakeElement
	findErr error
	queries []Query
}

func (d *fakeDoc) byID(id string) *fakeElement {
	for _, e := range d.elems {
		if e.id == id {
			return e
		}
	}
	return nil
}

func (d *fakeDoc) Find(_ context.Context, q Query) ([]Element, error) {
	d.queries = append(d.queries, q)
	if d.findErr != nil {
		return nil, d.findErr
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var out []Element
	for _, e := range d.elems {
		if q.Tag != "" && q.Tag != "*" && !strings.EqualFold(q.Tag, e.tag) {
			continue
		}
		if !matchSimple(q.Filter, e) {
			continue
		}
		if q.Scope != "" && !d.hasAncestor(e, q.Scope) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (d *fakeDoc) hasAncestor(e *fakeElement, sel string) bool {
	for p := d.byID(e.parent); p != nil; p = d.byID(p.parent) {
		if matchSimple(sel, p) {
			return true
		}
	}
	return false
}

func matchSimple(sel string, e *fakeElement) bool {
	switch {
	case sel == "":
		return true
	case strings.HasPrefix(sel, "#"):
		return e.id == sel[1:]
	case strings.HasPrefix(sel, "."):
		for _, c := range e.classes {
			if c == sel[1:] {
				return true
			}
		}
		return false
	default:
		return strings.EqualFold(e.tag, sel)
	}
}

// formDoc builds the document from the end-to-end example: a #form with
// two visible selects, one near the origin area and one far away.
func formDoc() *fakeDoc {
	return &fakeDoc{elems: []*fakeElement{
		{id: "form", tag: "form", visible: true, box: Box{0, 0, 1000, 1000}},
		{id: "near", tag: "select", parent: "form", visible: true, box: Box{120, 120, 20, 20}},
		{id: "far", tag: "select", parent: "form", visible: true, box: Box{500, 500, 20, 20}},
	}}
}

var errBoom = errors.New("boom")
