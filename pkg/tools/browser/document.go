package browser

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/togglekit/pkg/dom"
	"github.com/entrhq/togglekit/pkg/toggle"
)

// PageDocument adapts a session's page to toggle.Document. Playwright calls
// are not cancellable, so the context is checked before each one.
type PageDocument struct {
	session *Session
}

var _ toggle.Document = (*PageDocument)(nil)

// Find runs the query as one CSS selector against the page.
func (d *PageDocument) Find(ctx context.Context, q toggle.Query) ([]toggle.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	css, err := q.CSS()
	if err != nil {
		return nil, err
	}

	d.session.UpdateLastUsed()
	handles, err := d.session.Page.QuerySelectorAll(css)
	if err != nil {
		return nil, fmt.Errorf("selector query failed: %w", err)
	}

	out := make([]toggle.Element, len(handles))
	for i, h := range handles {
		out[i] = &PageElement{handle: h}
	}
	return out, nil
}

// PageElement is a live element handle.
type PageElement struct {
	handle playwright.ElementHandle
}

var _ toggle.Element = (*PageElement)(nil)

func (e *PageElement) Visible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	v, err := e.handle.IsVisible()
	if err != nil {
		return false, fmt.Errorf("visibility check failed: %w", err)
	}
	return v, nil
}

func (e *PageElement) SetVisible(ctx context.Context, visible bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	script := dom.HideScript
	if visible {
		script = dom.ShowScript
	}
	if _, err := e.handle.Evaluate(script); err != nil {
		return fmt.Errorf("failed to set visibility: %w", err)
	}
	return nil
}

func (e *PageElement) Box(ctx context.Context) (toggle.Box, error) {
	if err := ctx.Err(); err != nil {
		return toggle.Box{}, err
	}
	v, err := e.handle.Evaluate(dom.BoxScript)
	if err != nil {
		return toggle.Box{}, fmt.Errorf("failed to measure element: %w", err)
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return toggle.Box{}, fmt.Errorf("unexpected box result %T", v)
	}

	var box toggle.Box
	for key, dst := range map[string]*float64{
		"x":      &box.X,
		"y":      &box.Y,
		"width":  &box.Width,
		"height": &box.Height,
	} {
		f, err := number(m[key])
		if err != nil {
			return toggle.Box{}, fmt.Errorf("box %s: %w", key, err)
		}
		*dst = f
	}
	return box, nil
}

// number converts a value returned by Evaluate. Integral numbers arrive as
// int, others as float64.
func number(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}
