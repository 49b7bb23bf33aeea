package toggle

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Element is a handle to one element of a Document.
type Element interface {
	// Visible reports whether the element is currently rendered.
	Visible(ctx context.Context) (bool, error)

	// SetVisible shows or hides the element.
	SetVisible(ctx context.Context, visible bool) error

	// Box returns the element's position and outer size.
	Box(ctx context.Context) (Box, error)
}

// Document resolves element queries. Implementations return distinct
// elements in document order and an empty slice when nothing matches.
type Document interface {
	Find(ctx context.Context, q Query) ([]Element, error)
}

// Query describes a set of elements: descendants of any element matching
// Scope that have tag Tag and match Filter. Empty fields do not constrain
// the result; an empty Scope means the whole document.
type Query struct {
	Scope  string
	Tag    string
	Filter string
}

var tagPattern = regexp.MustCompile(`^(\*|[A-Za-z][A-Za-z0-9-]*)$`)

func validateTag(tag string) error {
	if tag == "" || tagPattern.MatchString(tag) {
		return nil
	}
	return fmt.Errorf("%w: element type %q is not a tag name", ErrInvalidQuery, tag)
}

// Validate checks that Tag is a bare tag name.
func (q Query) Validate() error {
	return validateTag(strings.TrimSpace(q.Tag))
}

// CSS renders the query as a single selector for engines with a native
// selector implementation. Scope and Filter are wrapped in :is() so that
// selector lists keep their meaning and cannot bleed into each other.
func (q Query) CSS() (string, error) {
	if err := q.Validate(); err != nil {
		return "", err
	}

	scope := strings.TrimSpace(q.Scope)
	tag := strings.TrimSpace(q.Tag)
	filter := strings.TrimSpace(q.Filter)

	var subject string
	switch {
	case tag != "" && filter != "":
		subject = tag + ":is(" + filter + ")"
	case tag != "":
		subject = tag
	case filter != "":
		subject = ":is(" + filter + ")"
	default:
		subject = "*"
	}

	if scope == "" {
		return subject, nil
	}
	return ":is(" + scope + ") " + subject, nil
}

// ScopeQuery returns the query matching the scope elements themselves.
func (q Query) ScopeQuery() Query {
	return Query{Filter: q.Scope}
}

func (q Query) String() string {
	css, err := q.CSS()
	if err != nil {
		return fmt.Sprintf("invalid(%s|%s|%s)", q.Scope, q.Tag, q.Filter)
	}
	return css
}
