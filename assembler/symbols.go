package assembler

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/byte4ever/kalamine/layout"
)

// NoSymbol fills levels a key does not define.
const NoSymbol = "NoSymbol"

// Keysym converts a level symbol to an XKB keysym. Empty
// levels become NoSymbol, ASCII letters and digits stay as
// typed, a space becomes "space", any other single
// character becomes its Unicode keysym (U00E6) and longer
// strings are taken as keysym names.
func Keysym(sym string) string {
	if sym == "" {
		return NoSymbol
	}

	r, size := utf8.DecodeRuneInString(sym)
	if size != len(sym) {
		return sym
	}

	switch {
	case r == ' ':
		return "space"
	case r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)):
		return sym
	default:
		return fmt.Sprintf("U%04X", r)
	}
}

// Statement renders one key definition, always with
// layout.MaxLevels symbols:
//
//	key <AD01> {[ a, A, ae, AE ]};
func Statement(ke layout.KeyEntry) string {
	syms := make([]string, layout.MaxLevels)
	for lv := range syms {
		syms[lv] = Keysym(ke.Level(lv))
	}

	return fmt.Sprintf(
		"key <%s> {[ %s ]};",
		ke.Position, strings.Join(syms, ", "),
	)
}

// Symbols renders the statements of desc in row-major
// order. An empty description yields no lines.
func Symbols(desc *layout.Description) []string {
	keys := desc.Sorted()

	out := make([]string, 0, len(keys))
	for _, ke := range keys {
		out = append(out, Statement(ke))
	}

	return out
}
