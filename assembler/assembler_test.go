package assembler_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/kalamine/assembler"
	"github.com/byte4ever/kalamine/layout"
	"github.com/byte4ever/kalamine/templating"
	"github.com/byte4ever/kalamine/tpl"
)

// scenarioContext carries the eight metadata fields the
// embedded templates reference.
func scenarioContext() templating.Context {
	return templating.Context{
		"fileName":    "test",
		"url":         "http://x",
		"author":      "A",
		"version":     "1.0",
		"lastChange":  "2024",
		"license":     "MIT",
		"description": "Test Layout",
		"variant":     "test",
	}
}

func baseTemplate(tb testing.TB) *templating.Document {
	tb.Helper()

	doc, err := tpl.Get(tpl.Base)
	require.NoError(tb, err)

	return doc
}

func TestRender_empty_layout(t *testing.T) {
	t.Parallel()

	got, err := assembler.Render(
		baseTemplate(t), scenarioContext(), &layout.Description{},
	)
	require.NoError(t, err)

	assert.NotContains(t, got, "${")
	assert.NotContains(t, got, "KALAMINE::")

	for key, val := range scenarioContext() {
		assert.Contains(t, got, val, key)
	}

	assert.Contains(t, got, `xkb_symbols "test" {`)
	assert.Contains(t, got, "// test.xkb_patch\n")
	assert.NotContains(t, got, "key <")
	assert.Contains(
		t, got,
		"key.type[group1] = \"FOUR_LEVEL\";\n\n};\n",
	)
}

func TestRender_single_entry(t *testing.T) {
	t.Parallel()

	desc := &layout.Description{Keys: []layout.KeyEntry{
		{Position: "AD01", Levels: []string{"a", "A", "ae", "AE"}},
	}}

	got, err := assembler.Render(
		baseTemplate(t), scenarioContext(), desc,
	)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(got, "key <"))
	assert.Contains(t, got, "    key <AD01> {[ a, A, ae, AE ]};\n")
}

func TestRender_golden(t *testing.T) {
	t.Parallel()

	desc := &layout.Description{Keys: []layout.KeyEntry{
		{Position: "AD01", Levels: []string{"q", "Q"}},
		{Position: "AD02", Levels: []string{"w", "W"}},
		{Position: "AC01", Levels: []string{"a", "A"}},
		{Position: "AE01", Levels: []string{"1", "!"}},
		{Position: "TLDE", Levels: []string{"`", "~"}},
		{Position: "AB01", Levels: []string{"z", "Z"}},
		{Position: "SPCE", Levels: []string{" ", " "}},
	}}

	got, err := assembler.Render(
		baseTemplate(t), scenarioContext(), desc,
	)
	require.NoError(t, err)

	//nolint:gosec // test fixture path
	want, err := os.ReadFile(
		filepath.Join("testdata", "base_qwerty.golden"),
	)
	require.NoError(t, err)

	assert.Equal(t, string(want), got)
}

func TestRender_is_idempotent(t *testing.T) {
	t.Parallel()

	desc := &layout.Description{Keys: []layout.KeyEntry{
		{Position: "AC02", Levels: []string{"s", "S", "ß", "ẞ"}},
		{Position: "AC01", Levels: []string{"a", "A", "æ", "Æ"}},
		{Position: "AE01", Levels: []string{"1", "!"}},
	}}

	doc, err := tpl.ForLayout(desc)
	require.NoError(t, err)

	first, err := assembler.Render(doc, scenarioContext(), desc)
	require.NoError(t, err)

	second, err := assembler.Render(doc, scenarioContext(), desc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, `include "level3(ralt_switch)"`)
}

func TestRender_missing_placeholder(t *testing.T) {
	t.Parallel()

	vars := scenarioContext()
	delete(vars, "license")

	got, err := assembler.Render(
		baseTemplate(t), vars, &layout.Description{},
	)
	require.ErrorIs(t, err, templating.ErrUnresolvedPlaceholder)
	assert.Empty(t, got)

	var upe *templating.UnresolvedPlaceholderError

	require.ErrorAs(t, err, &upe)
	assert.Equal(t, "license", upe.Name)
}

func TestRender_duplicate_position(t *testing.T) {
	t.Parallel()

	desc := &layout.Description{Keys: []layout.KeyEntry{
		{Position: "AC01", Levels: []string{"a", "A"}},
		{Position: "AC01", Levels: []string{"q", "Q"}},
	}}

	got, err := assembler.Render(baseTemplate(t), scenarioContext(), desc)
	require.ErrorIs(t, err, layout.ErrDuplicateKeyPosition)
	assert.Empty(t, got)
}

func TestAssemble_duplicate_position_without_markers(t *testing.T) {
	t.Parallel()

	desc := &layout.Description{Keys: []layout.KeyEntry{
		{Position: "SPCE"},
		{Position: "SPCE"},
	}}

	_, err := assembler.Assemble(templating.MustParse("plain\n"), desc)
	require.ErrorIs(t, err, layout.ErrDuplicateKeyPosition)
}

func TestAssemble_nil_description(t *testing.T) {
	t.Parallel()

	_, err := assembler.Assemble(baseTemplate(t), nil)
	require.ErrorIs(t, err, assembler.ErrIncompleteLayout)

	doc, err := assembler.Assemble(
		templating.MustParse("no markers ${here}\n"), nil,
	)
	require.NoError(t, err)
	assert.Equal(t, "no markers ${here}\n", doc.String())
}

func TestAssemble_unknown_geometry_view(t *testing.T) {
	t.Parallel()

	doc := templating.MustParse("// KALAMINE::GEOMETRY_iso\n")

	_, err := assembler.Assemble(doc, &layout.Description{})
	require.ErrorIs(t, err, assembler.ErrIncompleteLayout)
	assert.Contains(t, err.Error(), `"iso"`)
}

func TestAssemble_keeps_marker_indent(t *testing.T) {
	t.Parallel()

	doc := templating.MustParse("{\n\tKALAMINE::LAYOUT\n}\n")
	desc := &layout.Description{Keys: []layout.KeyEntry{
		{Position: "AB02", Levels: []string{"x", "X"}},
		{Position: "AB01", Levels: []string{"w", "W"}},
	}}

	got, err := assembler.Assemble(doc, desc)
	require.NoError(t, err)

	assert.Equal(
		t,
		"{\n"+
			"\tkey <AB01> {[ w, W, NoSymbol, NoSymbol ]};\n"+
			"\tkey <AB02> {[ x, X, NoSymbol, NoSymbol ]};\n"+
			"}\n",
		got.String(),
	)
}

func TestAssemble_unknown_position(t *testing.T) {
	t.Parallel()

	desc := &layout.Description{Keys: []layout.KeyEntry{
		{Position: "FK01", Levels: []string{"F1"}},
	}}

	_, err := assembler.Assemble(baseTemplate(t), desc)
	require.ErrorIs(t, err, layout.ErrUnknownPosition)
}
