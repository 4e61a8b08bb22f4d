package cli

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/byte4ever/kalamine/templating"
	"github.com/byte4ever/kalamine/tpl"
)

type renderOptions struct {
	template string
	output   string
}

func newRenderCmd(a *app) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render DESCRIPTOR",
		Short: "Render one layout through the embedded or a custom template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(cmd.OutOrStdout(), opts, args[0])
		},
	}

	cmd.Flags().StringVarP(
		&opts.template, "template", "t", "",
		"embedded template ("+strings.Join(tpl.Names(), ", ")+") or template file (default: chosen from the layout)",
	)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (a *app) render(stdout io.Writer, opts renderOptions, path string) error {
	const errCtx = "render"

	dsc, err := a.loader().Load(path)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	doc, err := loadTemplate(opts.template)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	out, err := renderXKB(dsc, doc)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return a.emit(stdout, opts.output, []byte(out))
}

// loadTemplate returns nil for an empty name, the
// embedded template called name, or the parsed file at
// name.
func loadTemplate(name string) (*templating.Document, error) {
	if name == "" {
		return nil, nil
	}

	if slices.Contains(tpl.Names(), name) {
		return tpl.Get(name)
	}

	src, err := os.ReadFile(name) //nolint:gosec // template path comes from the CLI
	if err != nil {
		return nil, err
	}

	doc, err := templating.Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return doc, nil
}

// emit writes content to path, or to stdout when path is
// empty.
func (a *app) emit(stdout io.Writer, path string, content []byte) error {
	if path == "" {
		_, err := stdout.Write(content)

		return err
	}

	if err := os.WriteFile(path, content, 0o644); err != nil { //nolint:gosec // layouts are world-readable
		return err
	}

	a.logger.Info("written", "file", path)

	return nil
}
