package assembler

import (
	"errors"
	"fmt"

	"github.com/byte4ever/kalamine/layout"
	"github.com/byte4ever/kalamine/templating"
)

// ErrIncompleteLayout is returned when a marker has no
// layout fragment to expand into: no description was
// given, or the geometry view is unknown.
var ErrIncompleteLayout = errors.New("incomplete layout")

// Assemble validates desc and returns a copy of doc with
// every marker expanded. doc is not modified. desc may be
// nil only when doc has no markers.
func Assemble(
	doc *templating.Document,
	desc *layout.Description,
) (*templating.Document, error) {
	const errCtx = "assembling layout"

	if desc != nil {
		if err := desc.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	out, err := doc.Expand(func(mk templating.Marker) ([]string, error) {
		if desc == nil {
			return nil, fmt.Errorf(
				"%w: no layout description", ErrIncompleteLayout,
			)
		}

		switch mk.Kind {
		case templating.MarkerGeometry:
			return Drawing(desc, mk.Name)
		case templating.MarkerSymbols:
			return Symbols(desc), nil
		default:
			return nil, fmt.Errorf(
				"%w: marker kind %d", ErrIncompleteLayout, mk.Kind,
			)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return out, nil
}

// Render assembles desc into doc and resolves the
// placeholders from vars. Identical inputs produce
// byte-identical output.
func Render(
	doc *templating.Document,
	vars templating.Context,
	desc *layout.Description,
) (string, error) {
	const errCtx = "rendering"

	assembled, err := Assemble(doc, desc)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	out, err := templating.Resolve(assembled, vars)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return out, nil
}
