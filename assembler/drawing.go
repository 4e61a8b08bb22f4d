package assembler

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/byte4ever/kalamine/layout"
)

// Geometry views, named by the suffix of a
// KALAMINE::GEOMETRY_<view> marker.
const (
	ViewBase  = "base"
	ViewAltGr = "altgr"
	ViewFull  = "full"
)

//nolint:gochecknoglobals // read-only table
var views = map[string][]int{
	ViewBase:  {layout.Base, layout.Shift},
	ViewAltGr: {layout.Alt, layout.AltShift},
	ViewFull:  {layout.Base, layout.Shift, layout.Alt, layout.AltShift},
}

// Drawing renders the keys of desc on its geometry, one
// line per row from the top row down and keys left to
// right. Each key cell shows the levels selected by view;
// all cells share the display width of the widest
// symbol, so wide and combining characters stay aligned.
//
//	│ a A │ z Z │ e E │
func Drawing(desc *layout.Description, view string) ([]string, error) {
	levels, ok := views[view]
	if !ok {
		return nil, fmt.Errorf(
			"%w: unknown geometry view %q", ErrIncompleteLayout, view,
		)
	}

	width := 1

	for _, ke := range desc.Keys {
		for _, lv := range levels {
			width = max(width, runewidth.StringWidth(ke.Level(lv)))
		}
	}

	rows := desc.Shape().Rows
	lines := make([]string, 0, len(rows))

	for _, keys := range rows {
		var sb strings.Builder

		sb.WriteString("│")

		for _, pos := range keys {
			ke, _ := desc.Lookup(pos)

			for _, lv := range levels {
				sym := ke.Level(lv)

				sb.WriteByte(' ')
				sb.WriteString(sym)
				sb.WriteString(strings.Repeat(
					" ", width-runewidth.StringWidth(sym),
				))
			}

			sb.WriteString(" │")
		}

		lines = append(lines, sb.String())
	}

	return lines, nil
}
