package templating

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/byte4ever/kalamine/stamper"
)

// Engine expands ${name} templates using stamp info files
// and explicit variables. It handles plain placeholder
// templates only; templates with KALAMINE:: markers go
// through the assembler.
type Engine struct {
	StampInfoFiles []string
}

// Expand reads a template, substitutes placeholders, and
// writes the result. If outPath is empty it writes to
// stdout. If executable is true the output file receives
// mode 0777 instead of 0666.
//
// Processing order:
//  1. Load stamp files into a stamp map that seeds the
//     context.
//  2. For each variable NAME=VALUE, replace {KEY} stamp
//     references in VALUE and store it as both "NAME" and
//     "variables.NAME".
//  3. For each import NAME=filename, parse the file as a
//     template, resolve it against the variables, and
//     store it as "imports.NAME".
//  4. Resolve the template. Nothing is written when a
//     placeholder is unresolved.
func (en *Engine) Expand(
	tplPath string,
	outPath string,
	vars []string,
	imports []string,
	executable bool,
) error {
	const errCtx = "expanding template"

	stamps, err := stamper.LoadStamps(en.StampInfoFiles)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	// Stamps form the base context; variables and
	// imports override them.
	ctx := make(Context, len(stamps))
	for key, val := range stamps {
		ctx[key] = fmt.Sprint(val)
	}

	if err := resolveVars(vars, stamps, ctx); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := resolveImports(imports, ctx); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	tplContent, err := readTemplate(tplPath)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	doc, err := Parse(string(tplContent))
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	result, err := Resolve(doc, ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	out, closer, err := openOutput(outPath, executable)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if closer != nil {
		defer closer()
	}

	if _, err := io.WriteString(out, result); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// resolveVars processes --variable flags. Each value has
// its {KEY} stamp references replaced, then is stored as
// both "NAME" and "variables.NAME".
func resolveVars(
	vars []string,
	stamps map[string]interface{},
	ctx Context,
) error {
	const errCtx = "resolving variables"

	for _, vr := range vars {
		parts := strings.SplitN(vr, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf(
				"%s: variable must be VAR=value, got %s",
				errCtx, vr,
			)
		}

		val := stamper.Apply(parts[1], stamps)

		ctx[parts[0]] = val
		ctx["variables."+parts[0]] = val
	}

	return nil
}

// resolveImports processes --imports flags. Each import
// file is resolved against ctx and stored as
// "imports.NAME".
func resolveImports(
	imports []string,
	ctx Context,
) error {
	const errCtx = "resolving imports"

	for _, im := range imports {
		parts := strings.SplitN(im, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf(
				"%s: import must be NAME=filename, got %s",
				errCtx, im,
			)
		}

		content, err := os.ReadFile(parts[1]) //nolint:gosec // paths from CLI flags
		if err != nil {
			return fmt.Errorf(
				"%s: reading %s: %w",
				errCtx, parts[1], err,
			)
		}

		doc, err := Parse(string(content))
		if err != nil {
			return fmt.Errorf(
				"%s: %s: %w", errCtx, parts[1], err,
			)
		}

		val, err := Resolve(doc, ctx)
		if err != nil {
			return fmt.Errorf(
				"%s: %s: %w", errCtx, parts[1], err,
			)
		}

		ctx["imports."+parts[0]] = val
	}

	return nil
}

// readTemplate reads the template from a file path. If
// tplPath is empty it reads from stdin.
func readTemplate(
	tplPath string,
) ([]byte, error) {
	const errCtx = "reading template"

	if tplPath != "" {
		content, err := os.ReadFile(tplPath) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return content, nil
	}

	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: reading stdin: %w", errCtx, err,
		)
	}

	return content, nil
}

// openOutput returns a writer for the result. When
// outPath is empty it returns stdout. The returned
// closer function must be called to finalize the file
// (may be nil for stdout).
func openOutput(
	outPath string,
	executable bool,
) (io.Writer, func(), error) {
	const errCtx = "opening output"

	if outPath == "" {
		return os.Stdout, nil, nil
	}

	var perm os.FileMode = 0o666
	if executable {
		perm = 0o777
	}

	fi, err := os.OpenFile( //nolint:gosec // paths from CLI flags
		outPath,
		os.O_RDWR|os.O_CREATE|os.O_TRUNC,
		perm,
	)
	if err != nil {
		return nil, nil, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	return fi, func() {
		_ = fi.Close() //nolint:errcheck // best-effort close
	}, nil
}
