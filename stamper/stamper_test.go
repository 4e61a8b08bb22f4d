package stamper_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/kalamine/stamper"
)

// writeTemp creates a temporary file with content and
// returns its path.
func writeTemp(
	tb testing.TB,
	dir string,
	name string,
	content string,
) string {
	tb.Helper()

	pa := filepath.Join(dir, name)
	require.NoError(
		tb,
		os.WriteFile(pa, []byte(content), 0o600),
	)

	return pa
}

func TestApply_substitutes_loaded_stamps(t *testing.T) {
	t.Parallel()

	sf := writeTemp(
		t, t.TempDir(), "status.txt",
		"BUILD_VERSION 0.6\nGIT_SHA deadbeef\n",
	)

	stamps, err := stamper.LoadStamps([]string{sf})
	require.NoError(t, err)

	assert.Equal(
		t,
		"v0.6 (deadbeef) {UNKNOWN}",
		stamper.Apply("v{BUILD_VERSION} ({GIT_SHA}) {UNKNOWN}", stamps),
	)
}

func TestLoadStamps_later_file_overrides_earlier(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sf1 := writeTemp(t, dir, "stable.txt", "VER 1.0\n")
	sf2 := writeTemp(t, dir, "volatile.txt", "VER 2.0\n")

	stamps, err := stamper.LoadStamps([]string{sf1, sf2})

	require.NoError(t, err)
	assert.Equal(t, "2.0", stamps["VER"])
}

func TestLoadStamps_missing_file(t *testing.T) {
	t.Parallel()

	_, err := stamper.LoadStamps([]string{"/nonexistent/stamp.txt"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading stamps")
}

func TestApply_leaves_placeholders_alone(t *testing.T) {
	t.Parallel()

	stamps := map[string]interface{}{"USER": "jane"}

	assert.Equal(
		t,
		"${author} built by jane",
		stamper.Apply("${author} built by {USER}", stamps),
	)
	assert.Equal(t, "no braces", stamper.Apply("no braces", stamps))
	assert.Equal(t, "{USER}", stamper.Apply("{USER}", nil))
}

func TestStampContext(t *testing.T) {
	t.Parallel()

	sf := writeTemp(
		t, t.TempDir(), "status.txt",
		"BUILD_USER jane\nBUILD_VERSION 2.1\n",
	)

	vars := map[string]string{
		"author":  "{BUILD_USER}",
		"version": "{BUILD_VERSION}-beta",
		"license": "MIT",
	}

	got, err := stamper.StampContext([]string{sf}, vars)
	require.NoError(t, err)

	assert.Equal(
		t,
		map[string]string{
			"author":  "jane",
			"version": "2.1-beta",
			"license": "MIT",
		},
		got,
	)
	assert.Equal(t, "{BUILD_USER}", vars["author"])
}

func TestStampContext_missing_file(t *testing.T) {
	t.Parallel()

	_, err := stamper.StampContext(
		[]string{"/nonexistent/status.txt"},
		map[string]string{"a": "b"},
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "stamping context")
}

func TestLoadStamps_skips_malformed_lines(t *testing.T) {
	t.Parallel()

	sf := writeTemp(
		t, t.TempDir(), "status.txt",
		"GOOD value\nBADLINE\n\nALSO_GOOD hello world\n",
	)

	stamps, err := stamper.LoadStamps([]string{sf})

	require.NoError(t, err)
	assert.Len(t, stamps, 2)
	assert.Equal(t, "value", stamps["GOOD"])
	assert.Equal(t, "hello world", stamps["ALSO_GOOD"])
}

func TestLoadStamps_nil_files(t *testing.T) {
	t.Parallel()

	stamps, err := stamper.LoadStamps(nil)

	require.NoError(t, err)
	assert.Empty(t, stamps)
}

func FuzzStampContext(f *testing.F) {
	f.Add("{a}{b}", "a", "x")
	f.Add("${name} {", "name", "World")
	f.Add("}", "k", "v")
	f.Add("", "key", "val")

	f.Fuzz(func(t *testing.T, value, key, stamp string) {
		if key == "" {
			return
		}

		sf := filepath.Join(t.TempDir(), "stamp.txt")
		if err := os.WriteFile(sf, []byte(key+" "+stamp+"\n"), 0o600); err != nil {
			return
		}

		_, _ = stamper.StampContext( //nolint:errcheck // fuzz: must not panic
			[]string{sf},
			map[string]string{"v": value},
		)
	})
}
