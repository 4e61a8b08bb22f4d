package templating

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnresolvedPlaceholder matches every
	// *UnresolvedPlaceholderError.
	ErrUnresolvedPlaceholder = errors.New("unresolved placeholder")

	// ErrUnexpandedMarker is returned by Resolve when the
	// document still holds a marker segment.
	ErrUnexpandedMarker = errors.New("unexpanded marker")
)

// Context maps placeholder names to replacement text.
type Context map[string]string

// Clone returns an independent copy of the context.
func (vars Context) Clone() Context {
	out := make(Context, len(vars))
	for key, val := range vars {
		out[key] = val
	}

	return out
}

// UnresolvedPlaceholderError names a placeholder with no
// context entry and no default.
type UnresolvedPlaceholderError struct {
	Name string
}

func (e *UnresolvedPlaceholderError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnresolvedPlaceholder, e.Name)
}

// Is reports whether target is ErrUnresolvedPlaceholder.
func (e *UnresolvedPlaceholderError) Is(target error) bool {
	return target == ErrUnresolvedPlaceholder
}

// Resolve substitutes every placeholder of doc from vars.
// It never substitutes an empty string for a missing key:
// the first missing name in document order is reported as
// an *UnresolvedPlaceholderError and no text is returned.
func Resolve(doc *Document, vars Context) (string, error) {
	const errCtx = "resolving placeholders"

	var sb strings.Builder

	for _, sg := range doc.segments {
		switch sg.Kind {
		case SegmentLiteral:
			sb.WriteString(sg.Text)
		case SegmentPlaceholder:
			val, ok := vars[sg.Placeholder.Name]
			if !ok {
				if !sg.Placeholder.HasDefault {
					return "", fmt.Errorf(
						"%s: %w",
						errCtx,
						&UnresolvedPlaceholderError{
							Name: sg.Placeholder.Name,
						},
					)
				}

				val = sg.Placeholder.Default
			}

			sb.WriteString(val)
		case SegmentMarker:
			return "", fmt.Errorf(
				"%s: %w: %s",
				errCtx, ErrUnexpandedMarker, sg.Marker.Token(),
			)
		}
	}

	return sb.String(), nil
}

// Missing lists, sorted, the placeholder names of doc that
// vars cannot satisfy.
func Missing(doc *Document, vars Context) []string {
	var out []string

	seen := make(map[string]struct{})

	for _, sg := range doc.segments {
		if sg.Kind != SegmentPlaceholder || sg.Placeholder.HasDefault {
			continue
		}

		if _, ok := vars[sg.Placeholder.Name]; ok {
			continue
		}

		if _, ok := seen[sg.Placeholder.Name]; ok {
			continue
		}

		seen[sg.Placeholder.Name] = struct{}{}
		out = append(out, sg.Placeholder.Name)
	}

	sort.Strings(out)

	return out
}
