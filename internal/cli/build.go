package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/byte4ever/kalamine/descriptor"
	"github.com/byte4ever/kalamine/distfile"
)

var (
	// ErrStaleDist is returned by build --check when a dist
	// file is missing or differs from what would be written.
	ErrStaleDist = errors.New("dist files are not up to date")

	// ErrDuplicateFileName is returned when two descriptors
	// would write the same dist files.
	ErrDuplicateFileName = errors.New("duplicate layout file name")
)

type buildOptions struct {
	outDir string
	check  bool
}

func newBuildCmd(a *app) *cobra.Command {
	var opts buildOptions

	cmd := &cobra.Command{
		Use:   "build DESCRIPTOR...",
		Short: "Build XKB and JSON dist files from layout descriptors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.outDir == "" {
				opts.outDir = a.cfg.OutDir
			}

			return a.build(cmd.Context(), opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", "", "output directory (default from config)")
	cmd.Flags().BoolVar(&opts.check, "check", false, "verify dist files instead of writing them")

	return cmd
}

// build loads every descriptor, renders them concurrently
// (at most cfg.Parallelism at a time), and touches the dist
// directory only once every layout rendered.
func (a *app) build(
	ctx context.Context,
	opts buildOptions,
	paths []string,
) error {
	const errCtx = "building layouts"

	dscs, err := a.loadAll(paths)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	rendered := make([]map[string][]byte, len(dscs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Parallelism)

	for idx, dsc := range dscs {
		idx, dsc := idx, dsc

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			files, err := a.distFiles(dsc, opts.outDir)
			if err != nil {
				return err
			}

			rendered[idx] = files

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	files := make(map[string][]byte)
	for _, dist := range rendered {
		for path, content := range dist {
			files[path] = content
		}
	}

	if opts.check {
		return a.check(files)
	}

	for _, path := range sortedKeys(files) {
		changed, err := distfile.Write(path, files[path])
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		if changed {
			a.logger.Info("written", "file", path)
		} else {
			a.logger.Debug("unchanged", "file", path)
		}
	}

	return nil
}

// check reports every dist file that is missing or
// differs from its rendered content.
func (a *app) check(files map[string][]byte) error {
	const errCtx = "checking dist files"

	var stale []string

	for _, path := range sortedKeys(files) {
		ok, err := distfile.Verify(path, files[path])
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		if !ok {
			stale = append(stale, path)
		}
	}

	if len(stale) > 0 {
		return fmt.Errorf(
			"%s: %w: %s", errCtx, ErrStaleDist, strings.Join(stale, ", "),
		)
	}

	return nil
}

// loadAll reads the descriptors in order and rejects two
// of them sharing a file name.
func (a *app) loadAll(paths []string) ([]*descriptor.Descriptor, error) {
	ld := a.loader()
	owners := make(map[string]string, len(paths))
	out := make([]*descriptor.Descriptor, 0, len(paths))

	for _, path := range paths {
		dsc, err := ld.Load(path)
		if err != nil {
			return nil, err
		}

		if prev, dup := owners[dsc.FileName()]; dup {
			return nil, fmt.Errorf(
				"%w: %q used by %s and %s",
				ErrDuplicateFileName, dsc.FileName(), prev, path,
			)
		}

		owners[dsc.FileName()] = path

		a.logger.Debug("descriptor loaded", "path", path, "name", dsc.Name())
		out = append(out, dsc)
	}

	return out, nil
}

// distFiles maps each dist path of dsc to its content.
func (a *app) distFiles(
	dsc *descriptor.Descriptor,
	outDir string,
) (map[string][]byte, error) {
	xkb, err := renderXKB(dsc, nil)
	if err != nil {
		return nil, err
	}

	keymap, err := renderJSON(dsc)
	if err != nil {
		return nil, err
	}

	base := filepath.Join(outDir, dsc.FileName())

	return map[string][]byte{
		base + xkbExt:  []byte(xkb),
		base + jsonExt: keymap,
	}, nil
}

func sortedKeys(files map[string][]byte) []string {
	keys := make([]string, 0, len(files))
	for key := range files {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
