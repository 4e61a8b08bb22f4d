package stamper

import (
	"fmt"
	"os"
	"strings"

	"github.com/valyala/fasttemplate"
)

// LoadStamps reads workspace status files and merges them
// into a single map. Each line is "KEY VALUE" with the
// first space as delimiter. Lines without a space are
// silently skipped.
func LoadStamps(
	infoFiles []string,
) (map[string]interface{}, error) {
	const errCtx = "loading stamps"

	stamps := make(map[string]interface{})

	for _, sf := range infoFiles {
		content, err := os.ReadFile(sf) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		for _, line := range strings.Split(
			string(content), "\n",
		) {
			parts := strings.SplitN(line, " ", 2)
			if len(parts) == 2 {
				stamps[parts[0]] = parts[1]
			}
		}
	}

	return stamps, nil
}

// Apply substitutes {VAR} references in format from
// stamps. Unknown variables are preserved as-is.
func Apply(
	format string,
	stamps map[string]interface{},
) string {
	if len(stamps) == 0 || !strings.Contains(format, "{") {
		return format
	}

	return fasttemplate.ExecuteStringStd(
		format, "{", "}", stamps,
	)
}

// StampContext returns a copy of vars in which every value
// has its {VAR} references substituted from infoFiles.
// The input map is not modified.
func StampContext(
	infoFiles []string,
	vars map[string]string,
) (map[string]string, error) {
	const errCtx = "stamping context"

	stamps, err := LoadStamps(infoFiles)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	out := make(map[string]string, len(vars))
	for key, val := range vars {
		out[key] = Apply(val, stamps)
	}

	return out, nil
}
