package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/byte4ever/kalamine/assembler"
	"github.com/byte4ever/kalamine/descriptor"
	"github.com/byte4ever/kalamine/templating"
	"github.com/byte4ever/kalamine/tpl"
)

// Dist file extensions.
const (
	xkbExt  = ".xkb_patch"
	jsonExt = ".json"
)

// renderXKB renders dsc through doc, or through the embedded
// template its layout needs when doc is nil.
func renderXKB(
	dsc *descriptor.Descriptor,
	doc *templating.Document,
) (string, error) {
	const errCtx = "rendering xkb"

	desc := dsc.Layout()

	if doc == nil {
		var err error

		doc, err = tpl.ForLayout(desc)
		if err != nil {
			return "", fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	vars := dsc.Context()

	out, err := assembler.Render(doc, vars, desc)
	if errors.Is(err, templating.ErrUnresolvedPlaceholder) {
		return "", fmt.Errorf(
			"%s: %s: %w (missing: %s)",
			errCtx, dsc.Path, err,
			strings.Join(templating.Missing(doc, vars), ", "),
		)
	}

	if err != nil {
		return "", fmt.Errorf("%s: %s: %w", errCtx, dsc.Path, err)
	}

	return out, nil
}

// renderJSON returns the JSON keymap of dsc.
func renderJSON(dsc *descriptor.Descriptor) ([]byte, error) {
	const errCtx = "rendering json"

	buf, err := dsc.Layout().MarshalKeymap(
		dsc.Name(), dsc.Meta[descriptor.KeyDescription],
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", errCtx, dsc.Path, err)
	}

	return buf, nil
}
