package assembler_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/kalamine/assembler"
	"github.com/byte4ever/kalamine/layout"
)

func TestKeysym(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: assembler.NoSymbol},
		{in: "a", want: "a"},
		{in: "Z", want: "Z"},
		{in: "7", want: "7"},
		{in: " ", want: "space"},
		{in: "!", want: "U0021"},
		{in: "æ", want: "U00E6"},
		{in: "ẞ", want: "U1E9E"},
		{in: "ae", want: "ae"},
		{in: "dead_acute", want: "dead_acute"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, assembler.Keysym(tt.in), "input %q", tt.in)
	}
}

func TestStatement_pads_missing_levels(t *testing.T) {
	t.Parallel()

	got := assembler.Statement(layout.KeyEntry{
		Position: "AC01",
		Levels:   []string{"a"},
	})

	assert.Equal(
		t,
		"key <AC01> {[ a, NoSymbol, NoSymbol, NoSymbol ]};",
		got,
	)
}

func TestStatement_undefined_middle_level(t *testing.T) {
	t.Parallel()

	got := assembler.Statement(layout.KeyEntry{
		Position: "AD03",
		Levels:   []string{"e", "E", "", "€"},
	})

	assert.Equal(
		t,
		"key <AD03> {[ e, E, NoSymbol, U20AC ]};",
		got,
	)
}

func TestSymbols_row_major(t *testing.T) {
	t.Parallel()

	desc := &layout.Description{Keys: []layout.KeyEntry{
		{Position: "SPCE", Levels: []string{" "}},
		{Position: "AB01", Levels: []string{"z"}},
		{Position: "AE02", Levels: []string{"2"}},
		{Position: "AE01", Levels: []string{"1"}},
	}}

	var got []string
	for _, st := range assembler.Symbols(desc) {
		got = append(got, strings.Fields(st)[1])
	}

	assert.Equal(
		t,
		[]string{"<AE01>", "<AE02>", "<AB01>", "<SPCE>"},
		got,
	)
}

func TestSymbols_empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, assembler.Symbols(&layout.Description{}))
}

func TestDrawing_one_line_per_row(t *testing.T) {
	t.Parallel()

	desc := &layout.Description{
		Geometry: layout.ERGO,
		Keys: []layout.KeyEntry{
			{Position: "AD01", Levels: []string{"q", "Q", "â", "Â"}},
		},
	}

	lines, err := assembler.Drawing(desc, assembler.ViewFull)
	require.NoError(t, err)

	geo := layout.LookupGeometry(layout.ERGO)
	require.Len(t, lines, len(geo.Rows))

	for idx, ln := range lines {
		assert.Equal(
			t, len(geo.Rows[idx]), strings.Count(ln, "│")-1,
			"row %d cell count", idx,
		)
	}

	assert.True(t, strings.HasPrefix(lines[1], "│ q Q â Â │"))
}

func TestDrawing_views_select_levels(t *testing.T) {
	t.Parallel()

	desc := &layout.Description{Keys: []layout.KeyEntry{
		{Position: "TLDE", Levels: []string{"²", "³", "¬", "¦"}},
	}}

	base, err := assembler.Drawing(desc, assembler.ViewBase)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(base[0], "│ ² ³ │"))

	altgr, err := assembler.Drawing(desc, assembler.ViewAltGr)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(altgr[0], "│ ¬ ¦ │"))
}

func TestDrawing_pads_to_widest_symbol(t *testing.T) {
	t.Parallel()

	desc := &layout.Description{Keys: []layout.KeyEntry{
		{Position: "AC01", Levels: []string{"a", "A"}},
		{Position: "AC02", Levels: []string{"ss", "S"}},
	}}

	lines, err := assembler.Drawing(desc, assembler.ViewBase)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(lines[2], "│ a  A  │ ss S  │    "))
}

func TestDrawing_unknown_view(t *testing.T) {
	t.Parallel()

	_, err := assembler.Drawing(&layout.Description{}, "1dk")
	require.ErrorIs(t, err, assembler.ErrIncompleteLayout)
}

func TestDrawing_aligns_wide_and_combining_symbols(t *testing.T) {
	t.Parallel()

	desc := &layout.Description{Keys: []layout.KeyEntry{
		{Position: "AC01", Levels: []string{"あ", "A"}},
		{Position: "AC02", Levels: []string{"e\u0301", "S"}},
	}}

	lines, err := assembler.Drawing(desc, assembler.ViewBase)
	require.NoError(t, err)

	assert.True(
		t,
		strings.HasPrefix(lines[2], "│ あ A  │ e\u0301  S  │    "),
		"got %q", lines[2],
	)
}
