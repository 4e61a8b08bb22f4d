package descriptor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/byte4ever/kalamine/layout"
	"github.com/byte4ever/kalamine/stamper"
	"github.com/byte4ever/kalamine/templating"
)

// Metadata keys with generator-side meaning.
const (
	KeyName        = "name"
	KeyName8       = "name8"
	KeyFileName    = "fileName"
	KeyVariant     = "variant"
	KeyLastChange  = "lastChange"
	KeyAuthor      = "author"
	KeyLicense     = "license"
	KeyGeometry    = "geometry"
	KeyURL         = "url"
	KeyDescription = "description"
	KeyVersion     = "version"

	keyExtends = "extends"
	keyKeys    = "keys"
)

var (
	// ErrUnsupportedFormat is returned for a descriptor
	// that is neither TOML nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported descriptor format")

	// ErrExtendsCycle is returned when descriptors extend
	// each other in a loop.
	ErrExtendsCycle = errors.New("descriptor extends itself")

	// ErrAmbiguousValue is returned for a TOML metadata
	// value whose text cannot be recovered after decoding,
	// such as the float in version = 1.0.
	ErrAmbiguousValue = errors.New("metadata value must be a quoted string")
)

// Defaults are the metadata values a descriptor starts
// from. Empty fields are not set.
type Defaults struct {
	Author   string
	License  string
	Geometry string
	URL      string
}

// DefaultDefaults mirrors the generator's built-in
// metadata.
func DefaultDefaults() Defaults {
	return Defaults{
		Author:   "nobody",
		License:  "WTFPL - Do What The Fuck You Want Public License",
		Geometry: layout.ISO,
	}
}

// Loader reads descriptors. The zero value uses no
// defaults, no stamps and the current date.
type Loader struct {
	Defaults       Defaults
	StampInfoFiles []string
	// Now supplies lastChange when a descriptor has none.
	Now func() time.Time
}

// Descriptor is a loaded layout descriptor.
type Descriptor struct {
	Path string
	Meta templating.Context
	Keys []layout.KeyEntry
}

// Load reads path with the built-in defaults.
func Load(path string) (*Descriptor, error) {
	ld := Loader{Defaults: DefaultDefaults()}

	return ld.Load(path)
}

// Load reads the descriptor at path, follows its extends
// chain, applies defaults and derived fields, and stamps
// metadata values.
func (ld *Loader) Load(path string) (*Descriptor, error) {
	const errCtx = "loading descriptor"

	raw, err := readChain(path, make(map[string]struct{}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	meta := ld.defaults()
	for key, val := range raw.meta {
		meta[key] = val
	}

	ld.derive(meta, path)

	stamped, err := stamper.StampContext(ld.StampInfoFiles, meta)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return &Descriptor{
		Path: path,
		Meta: stamped,
		Keys: raw.keys,
	}, nil
}

func (ld *Loader) defaults() templating.Context {
	meta := make(templating.Context)

	set := func(key, val string) {
		if val != "" {
			meta[key] = val
		}
	}

	set(KeyAuthor, ld.Defaults.Author)
	set(KeyLicense, ld.Defaults.License)
	set(KeyGeometry, ld.Defaults.Geometry)
	set(KeyURL, ld.Defaults.URL)

	return meta
}

func (ld *Loader) derive(meta templating.Context, path string) {
	if meta[KeyName] == "" {
		base := filepath.Base(path)
		meta[KeyName] = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if meta[KeyName8] == "" {
		meta[KeyName8] = truncate(meta[KeyName], 8)
	}

	meta[KeyFileName] = strings.ToLower(meta[KeyName8])

	if meta[KeyVariant] == "" {
		meta[KeyVariant] = meta[KeyFileName]
	}

	if meta[KeyLastChange] == "" {
		now := time.Now
		if ld.Now != nil {
			now = ld.Now
		}

		meta[KeyLastChange] = now().Format(time.DateOnly)
	}

	meta[KeyGeometry] = layout.LookupGeometry(meta[KeyGeometry]).Name
}

func truncate(str string, n int) string {
	if utf8.RuneCountInString(str) <= n {
		return str
	}

	return string([]rune(str)[:n])
}

// Context returns a copy of the metadata, ready to be
// used as a substitution context.
func (dsc *Descriptor) Context() templating.Context {
	return dsc.Meta.Clone()
}

// Layout returns the layout description. Each call
// returns a new description.
func (dsc *Descriptor) Layout() *layout.Description {
	keys := make([]layout.KeyEntry, len(dsc.Keys))
	copy(keys, dsc.Keys)

	return &layout.Description{
		Geometry: dsc.Meta[KeyGeometry],
		Keys:     keys,
	}
}

// Name returns the layout name.
func (dsc *Descriptor) Name() string {
	return dsc.Meta[KeyName]
}

// FileName returns the base name of generated files.
func (dsc *Descriptor) FileName() string {
	return dsc.Meta[KeyFileName]
}

type rawDescriptor struct {
	meta    map[string]string
	keys    []layout.KeyEntry
	extends string
}

// readChain reads path and its ancestors, merging child
// over parent.
func readChain(
	path string,
	visited map[string]struct{},
) (*rawDescriptor, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	if _, ok := visited[abs]; ok {
		return nil, fmt.Errorf("%w: %s", ErrExtendsCycle, path)
	}

	visited[abs] = struct{}{}

	child, err := readFile(path)
	if err != nil {
		return nil, err
	}

	if child.extends == "" {
		return child, nil
	}

	parent, err := readChain(
		filepath.Join(filepath.Dir(path), child.extends), visited,
	)
	if err != nil {
		return nil, fmt.Errorf("extending %s: %w", child.extends, err)
	}

	return merge(parent, child), nil
}

func merge(parent, child *rawDescriptor) *rawDescriptor {
	out := &rawDescriptor{
		meta: make(map[string]string, len(parent.meta)+len(child.meta)),
	}

	for key, val := range parent.meta {
		out.meta[key] = val
	}

	for key, val := range child.meta {
		out.meta[key] = val
	}

	overrides := make(map[string]layout.KeyEntry, len(child.keys))
	for _, ke := range child.keys {
		overrides[ke.Position] = ke
	}

	for _, ke := range parent.keys {
		if ov, ok := overrides[ke.Position]; ok {
			ke = ov
			delete(overrides, ke.Position)
		}

		out.keys = append(out.keys, ke)
	}

	for _, ke := range child.keys {
		if _, ok := overrides[ke.Position]; ok {
			out.keys = append(out.keys, ke)
		}
	}

	return out
}
