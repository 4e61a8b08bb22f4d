package layout

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Keymap is the JSON export of a layout, as consumed by
// web keyboard previews.
type Keymap struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Geometry    string              `json:"geometry"`
	Keymap      map[string][]string `json:"keymap"`
	AltGr       bool                `json:"altgr"`
}

// Keymap builds the JSON export. Every key carries
// MaxLevels symbols; undefined levels are empty strings.
func (desc *Description) Keymap(name, description string) Keymap {
	km := Keymap{
		Name:        name,
		Description: description,
		Geometry:    strings.ToLower(desc.Shape().Name),
		Keymap:      make(map[string][]string, len(desc.Keys)),
		AltGr:       desc.HasAltGr(),
	}

	for _, ke := range desc.Keys {
		levels := make([]string, MaxLevels)
		for lv := range levels {
			levels[lv] = ke.Level(lv)
		}

		km.Keymap[ke.Position] = levels
	}

	return km
}

// MarshalKeymap validates the description and encodes its
// Keymap as indented JSON.
func (desc *Description) MarshalKeymap(
	name, description string,
) ([]byte, error) {
	const errCtx = "marshaling keymap"

	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	buf, err := json.MarshalIndent(
		desc.Keymap(name, description), "", "  ",
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return append(buf, '\n'), nil
}
