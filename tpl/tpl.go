package tpl

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/byte4ever/kalamine/layout"
	"github.com/byte4ever/kalamine/templating"
)

// Template names.
const (
	Base = "base"
	Full = "full"
)

const ext = ".xkb_patch"

// ErrUnknownTemplate is returned by Get for a name with no
// embedded template.
var ErrUnknownTemplate = errors.New("unknown template")

//go:embed *.xkb_patch
var files embed.FS

//nolint:gochecknoglobals // parsed once, read-only afterwards
var (
	loadOnce sync.Once
	docs     map[string]*templating.Document
	loadErr  error
)

func load() {
	const errCtx = "loading templates"

	entries, err := files.ReadDir(".")
	if err != nil {
		loadErr = fmt.Errorf("%s: %w", errCtx, err)
		return
	}

	parsed := make(map[string]*templating.Document, len(entries))

	for _, en := range entries {
		src, err := files.ReadFile(en.Name())
		if err != nil {
			loadErr = fmt.Errorf("%s: %w", errCtx, err)
			return
		}

		doc, err := templating.Parse(string(src))
		if err != nil {
			loadErr = fmt.Errorf("%s: %s: %w", errCtx, en.Name(), err)
			return
		}

		parsed[strings.TrimSuffix(en.Name(), path.Ext(en.Name()))] = doc
	}

	docs = parsed
}

// Get returns the parsed template called name.
func Get(name string) (*templating.Document, error) {
	loadOnce.Do(load)

	if loadErr != nil {
		return nil, loadErr
	}

	doc, ok := docs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s%s", ErrUnknownTemplate, name, ext)
	}

	return doc, nil
}

// ForLayout selects the template a layout needs: Full when
// it defines AltGr levels, Base otherwise.
func ForLayout(desc *layout.Description) (*templating.Document, error) {
	if desc != nil && desc.HasAltGr() {
		return Get(Full)
	}

	return Get(Base)
}

// Names lists the embedded templates.
func Names() []string {
	loadOnce.Do(load)

	out := make([]string, 0, len(docs))
	for name := range docs {
		out = append(out, name)
	}

	sort.Strings(out)

	return out
}
