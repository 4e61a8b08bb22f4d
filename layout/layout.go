package layout

import (
	"errors"
	"fmt"
	"sort"
)

// Symbol levels, in the fixed order renderers emit them.
const (
	Base = iota
	Shift
	Alt
	AltShift

	// MaxLevels is the number of levels a key can carry.
	MaxLevels
)

var (
	// ErrDuplicateKeyPosition matches every
	// *DuplicateKeyPositionError.
	ErrDuplicateKeyPosition = errors.New("duplicate key position")

	// ErrUnknownPosition is returned for a position that is
	// not part of the description's geometry.
	ErrUnknownPosition = errors.New("unknown key position")

	// ErrTooManyLevels is returned for an entry with more
	// than MaxLevels symbols.
	ErrTooManyLevels = errors.New("too many symbol levels")
)

// DuplicateKeyPositionError names a position claimed by
// more than one key entry.
type DuplicateKeyPositionError struct {
	Position string
}

func (e *DuplicateKeyPositionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicateKeyPosition, e.Position)
}

// Is reports whether target is ErrDuplicateKeyPosition.
func (e *DuplicateKeyPositionError) Is(target error) bool {
	return target == ErrDuplicateKeyPosition
}

// KeyEntry is one physical key and its symbols. Levels
// holds at most MaxLevels symbols; an empty string leaves
// a level undefined.
type KeyEntry struct {
	Position string   `json:"position" toml:"position" yaml:"position"`
	Levels   []string `json:"levels" toml:"levels" yaml:"levels"`
}

// Level returns the symbol at level lv, or "" when it is
// undefined.
func (ke KeyEntry) Level(lv int) string {
	if lv < 0 || lv >= len(ke.Levels) {
		return ""
	}

	return ke.Levels[lv]
}

// Description is an ordered list of key entries on a
// geometry. The zero value is an empty ISO layout.
type Description struct {
	Geometry string
	Keys     []KeyEntry
}

// Shape returns the geometry the description is laid out
// on.
func (desc *Description) Shape() *Geometry {
	return LookupGeometry(desc.Geometry)
}

// Validate checks that every position is known to the
// geometry, claimed once, and carries at most MaxLevels
// symbols.
func (desc *Description) Validate() error {
	const errCtx = "validating layout"

	geo := desc.Shape()
	seen := make(map[string]struct{}, len(desc.Keys))

	for _, ke := range desc.Keys {
		if _, ok := geo.Coord(ke.Position); !ok {
			return fmt.Errorf(
				"%s: %w: %q on %s",
				errCtx, ErrUnknownPosition, ke.Position, geo.Name,
			)
		}

		if _, dup := seen[ke.Position]; dup {
			return fmt.Errorf(
				"%s: %w",
				errCtx,
				&DuplicateKeyPositionError{Position: ke.Position},
			)
		}

		seen[ke.Position] = struct{}{}

		if len(ke.Levels) > MaxLevels {
			return fmt.Errorf(
				"%s: %w: %s has %d",
				errCtx, ErrTooManyLevels, ke.Position, len(ke.Levels),
			)
		}
	}

	return nil
}

// Sorted returns a copy of the entries in row-major order.
// Entries with positions unknown to the geometry sort
// last, in input order.
func (desc *Description) Sorted() []KeyEntry {
	geo := desc.Shape()

	out := make([]KeyEntry, len(desc.Keys))
	copy(out, desc.Keys)

	sort.SliceStable(out, func(i, j int) bool {
		ci, iok := geo.Coord(out[i].Position)
		cj, jok := geo.Coord(out[j].Position)

		switch {
		case iok && jok:
			return ci.Less(cj)
		default:
			return iok && !jok
		}
	})

	return out
}

// Lookup returns the entry at position.
func (desc *Description) Lookup(position string) (KeyEntry, bool) {
	for _, ke := range desc.Keys {
		if ke.Position == position {
			return ke, true
		}
	}

	return KeyEntry{}, false
}

// HasAltGr reports whether any key defines an alt or
// alt-shift symbol.
func (desc *Description) HasAltGr() bool {
	for _, ke := range desc.Keys {
		if ke.Level(Alt) != "" || ke.Level(AltShift) != "" {
			return true
		}
	}

	return false
}
