package templating

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/valyala/fasttemplate"
)

const (
	placeholderStart = "${"
	placeholderEnd   = "}"

	// MarkerPrefix introduces a structural insertion point.
	// A marker owns the whole line it appears on.
	MarkerPrefix = "KALAMINE::"

	geometryMarker = "GEOMETRY_"
	symbolsMarker  = "LAYOUT"
)

var (
	// ErrUnknownMarker is returned by Parse for a
	// KALAMINE:: token that names no known marker.
	ErrUnknownMarker = errors.New("unknown marker")

	// ErrUnterminatedPlaceholder is returned by Parse when
	// a "${" has no closing brace.
	ErrUnterminatedPlaceholder = errors.New(
		"unterminated placeholder",
	)
)

// SegmentKind tags the variant held by a Segment.
type SegmentKind int

const (
	// SegmentLiteral is verbatim text.
	SegmentLiteral SegmentKind = iota
	// SegmentPlaceholder is a ${name} substitution point.
	SegmentPlaceholder
	// SegmentMarker is a KALAMINE:: insertion point.
	SegmentMarker
)

// MarkerKind tags the variant held by a Marker.
type MarkerKind int

const (
	// MarkerGeometry is KALAMINE::GEOMETRY_<name>.
	MarkerGeometry MarkerKind = iota
	// MarkerSymbols is KALAMINE::LAYOUT.
	MarkerSymbols
)

// Marker identifies where layout-derived lines are spliced
// into a document.
type Marker struct {
	Kind MarkerKind
	// Name is the geometry view; empty for MarkerSymbols.
	Name string
	// Indent is the text preceding the marker on its line.
	// Every expanded line is prefixed with it.
	Indent string
	// Trailing is the blank text after the marker name. Only
	// blanks may follow a marker.
	Trailing string
}

// Token returns the marker as written in a template,
// without indent.
func (mk Marker) Token() string {
	if mk.Kind == MarkerGeometry {
		return MarkerPrefix + geometryMarker + mk.Name
	}

	return MarkerPrefix + symbolsMarker
}

// Placeholder is a named substitution point. Default is
// used when the context has no entry for Name and
// HasDefault is set (written ${name=default}).
type Placeholder struct {
	Name       string
	Default    string
	HasDefault bool
}

// Segment is one element of a parsed Document.
type Segment struct {
	Kind        SegmentKind
	Text        string
	Placeholder Placeholder
	Marker      Marker
}

// Document is a parsed template. It is immutable: every
// operation that changes content returns a new Document.
type Document struct {
	segments []Segment
}

// Parse splits src into literal, placeholder and marker
// segments in a single pass.
func Parse(src string) (*Document, error) {
	const errCtx = "parsing template"

	var (
		segs  []Segment
		chunk strings.Builder
	)

	flush := func() error {
		if chunk.Len() == 0 {
			return nil
		}

		parsed, err := tokenize(chunk.String())
		if err != nil {
			return err
		}

		segs = append(segs, parsed...)
		chunk.Reset()

		return nil
	}

	for _, line := range strings.SplitAfter(src, "\n") {
		body := strings.TrimSuffix(line, "\n")

		idx := strings.Index(body, MarkerPrefix)
		if idx < 0 {
			chunk.WriteString(line)
			continue
		}

		mk, err := parseMarker(body, idx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		if err := flush(); err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		segs = append(segs, Segment{
			Kind:   SegmentMarker,
			Marker: mk,
		})

		if len(body) < len(line) {
			chunk.WriteByte('\n')
		}
	}

	if err := flush(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return &Document{segments: mergeLiterals(segs)}, nil
}

// MustParse is like Parse but panics on error. It is meant
// for templates compiled into the binary.
func MustParse(src string) *Document {
	doc, err := Parse(src)
	if err != nil {
		panic(err)
	}

	return doc
}

func parseMarker(line string, idx int) (Marker, error) {
	rest := line[idx+len(MarkerPrefix):]

	end := 0
	for end < len(rest) && isIdentByte(rest[end]) {
		end++
	}

	name, trailing := rest[:end], rest[end:]

	if strings.TrimRight(trailing, " \t\r") != "" {
		return Marker{}, fmt.Errorf(
			"%w: %s%s followed by %q",
			ErrUnknownMarker, MarkerPrefix, name, trailing,
		)
	}

	switch {
	case name == symbolsMarker:
		return Marker{
			Kind:     MarkerSymbols,
			Indent:   line[:idx],
			Trailing: trailing,
		}, nil
	case strings.HasPrefix(name, geometryMarker) &&
		len(name) > len(geometryMarker):
		return Marker{
			Kind:     MarkerGeometry,
			Name:     strings.TrimPrefix(name, geometryMarker),
			Indent:   line[:idx],
			Trailing: trailing,
		}, nil
	default:
		return Marker{}, fmt.Errorf(
			"%w: %s%s", ErrUnknownMarker, MarkerPrefix, name,
		)
	}
}

func isIdentByte(ch byte) bool {
	return ch == '_' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}

// segmentWriter collects the literal text fasttemplate
// emits between tags.
type segmentWriter struct {
	segs *[]Segment
}

func (sw segmentWriter) Write(p []byte) (int, error) {
	if len(p) > 0 {
		*sw.segs = append(*sw.segs, Segment{
			Kind: SegmentLiteral,
			Text: string(p),
		})
	}

	return len(p), nil
}

// tokenize uses fasttemplate to split text on ${...} tags.
// Literal text reaches the writer and tags reach the tag
// function in source order.
func tokenize(text string) ([]Segment, error) {
	tpl, err := fasttemplate.NewTemplate(
		text, placeholderStart, placeholderEnd,
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%w: %s", ErrUnterminatedPlaceholder, err.Error(),
		)
	}

	var segs []Segment

	_, err = tpl.ExecuteFunc(
		segmentWriter{segs: &segs},
		func(_ io.Writer, tag string) (int, error) {
			segs = append(segs, Segment{
				Kind:        SegmentPlaceholder,
				Placeholder: parsePlaceholder(tag),
			})

			return 0, nil
		},
	)
	if err != nil {
		return nil, err
	}

	return segs, nil
}

func parsePlaceholder(tag string) Placeholder {
	name, def, found := strings.Cut(tag, "=")

	return Placeholder{
		Name:       name,
		Default:    def,
		HasDefault: found,
	}
}

// mergeLiterals joins adjacent literal segments and drops
// empty ones.
func mergeLiterals(segs []Segment) []Segment {
	out := make([]Segment, 0, len(segs))

	for _, sg := range segs {
		if sg.Kind == SegmentLiteral && sg.Text == "" {
			continue
		}

		last := len(out) - 1
		if sg.Kind == SegmentLiteral && last >= 0 &&
			out[last].Kind == SegmentLiteral {
			out[last].Text += sg.Text
			continue
		}

		out = append(out, sg)
	}

	return out
}

// Segments returns a copy of the segment sequence.
func (doc *Document) Segments() []Segment {
	out := make([]Segment, len(doc.segments))
	copy(out, doc.segments)

	return out
}

// Placeholders returns the sorted set of placeholder names
// referenced by the document.
func (doc *Document) Placeholders() []string {
	seen := make(map[string]struct{})

	var names []string

	for _, sg := range doc.segments {
		if sg.Kind != SegmentPlaceholder {
			continue
		}

		if _, ok := seen[sg.Placeholder.Name]; ok {
			continue
		}

		seen[sg.Placeholder.Name] = struct{}{}
		names = append(names, sg.Placeholder.Name)
	}

	sort.Strings(names)

	return names
}

// Markers returns the markers in document order.
func (doc *Document) Markers() []Marker {
	var out []Marker

	for _, sg := range doc.segments {
		if sg.Kind == SegmentMarker {
			out = append(out, sg.Marker)
		}
	}

	return out
}

// String renders the document back to template source.
// Parse(src).String() == src for every source Parse
// accepts.
func (doc *Document) String() string {
	var sb strings.Builder

	for _, sg := range doc.segments {
		switch sg.Kind {
		case SegmentLiteral:
			sb.WriteString(sg.Text)
		case SegmentPlaceholder:
			sb.WriteString(placeholderStart)
			sb.WriteString(sg.Placeholder.Name)

			if sg.Placeholder.HasDefault {
				sb.WriteByte('=')
				sb.WriteString(sg.Placeholder.Default)
			}

			sb.WriteString(placeholderEnd)
		case SegmentMarker:
			sb.WriteString(sg.Marker.Indent)
			sb.WriteString(sg.Marker.Token())
			sb.WriteString(sg.Marker.Trailing)
		}
	}

	return sb.String()
}

// ExpandFunc produces the lines that replace a marker.
type ExpandFunc func(mk Marker) ([]string, error)

// Expand returns a new document in which every marker is
// replaced by the lines fn returns. Each line is prefixed
// with the marker indent and terminated by a newline; the
// marker line itself, including its newline, is consumed.
// Expanded text is literal and never scanned for
// placeholders.
func (doc *Document) Expand(fn ExpandFunc) (*Document, error) {
	const errCtx = "expanding markers"

	out := make([]Segment, 0, len(doc.segments))
	dropNewline := false

	for _, sg := range doc.segments {
		if dropNewline && sg.Kind == SegmentLiteral {
			sg.Text = strings.TrimPrefix(sg.Text, "\n")
		}

		dropNewline = false

		if sg.Kind != SegmentMarker {
			out = append(out, sg)
			continue
		}

		lines, err := fn(sg.Marker)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %s: %w", errCtx, sg.Marker.Token(), err,
			)
		}

		var sb strings.Builder

		for _, ln := range lines {
			sb.WriteString(strings.TrimRight(
				sg.Marker.Indent+ln, " \t",
			))
			sb.WriteByte('\n')
		}

		out = append(out, Segment{
			Kind: SegmentLiteral,
			Text: sb.String(),
		})
		dropNewline = true
	}

	return &Document{segments: mergeLiterals(out)}, nil
}
