package descriptor

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/byte4ever/kalamine/layout"
)

func readFile(path string) (*rawDescriptor, error) {
	content, err := os.ReadFile(path) //nolint:gosec // descriptor paths come from the CLI
	if err != nil {
		return nil, err
	}

	var (
		meta map[string]string
		keys keysSection
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		meta, err = tomlMeta(content)
		if err == nil {
			err = toml.Unmarshal(content, &keys)
		}
	case ".yaml", ".yml":
		meta, err = yamlMeta(content)
		if err == nil {
			err = yaml.Unmarshal(content, &keys)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	raw := &rawDescriptor{
		meta: meta,
		keys: keys.Keys,
	}

	if ext, ok := meta[keyExtends]; ok {
		raw.extends = ext
		delete(meta, keyExtends)
	}

	return raw, nil
}

// tomlMeta returns the top-level scalar values of a TOML
// document. Floats are refused: 1.0 and 1.00 decode to
// the same number and the written text is lost.
func tomlMeta(content []byte) (map[string]string, error) {
	var tree map[string]interface{}

	if _, err := toml.Decode(string(content), &tree); err != nil {
		return nil, err
	}

	meta := make(map[string]string, len(tree))

	for key, val := range tree {
		if key == keyKeys {
			continue
		}

		switch typed := val.(type) {
		case string:
			meta[key] = typed
		case int64:
			meta[key] = strconv.FormatInt(typed, 10)
		case bool:
			meta[key] = strconv.FormatBool(typed)
		case time.Time:
			meta[key] = typed.Format(time.DateOnly)
		case float64:
			return nil, fmt.Errorf(
				"%w: %s = %v, write %s = \"...\"",
				ErrAmbiguousValue, key, typed, key,
			)
		}
	}

	return meta, nil
}

// yamlMeta returns the top-level scalar values of a YAML
// document as written in the source, so version: 1.10
// stays "1.10".
func yamlMeta(content []byte) (map[string]string, error) {
	file, err := parser.ParseBytes(content, 0)
	if err != nil {
		return nil, err
	}

	meta := make(map[string]string)

	if len(file.Docs) == 0 {
		return meta, nil
	}

	var values []*ast.MappingValueNode

	switch body := file.Docs[0].Body.(type) {
	case *ast.MappingNode:
		values = body.Values
	case *ast.MappingValueNode:
		values = []*ast.MappingValueNode{body}
	}

	for _, mv := range values {
		key := mv.Key.GetToken().Value
		if key == keyKeys {
			continue
		}

		if val, ok := yamlScalar(mv.Value); ok {
			meta[key] = val
		}
	}

	return meta, nil
}

// yamlScalar returns the source text of a scalar node.
// Nulls, aliases and collections are not metadata.
func yamlScalar(node ast.Node) (string, bool) {
	switch typed := node.(type) {
	case *ast.NullNode, *ast.AliasNode:
		return "", false
	case *ast.StringNode:
		return typed.Value, true
	case *ast.LiteralNode:
		return typed.Value.Value, true
	case *ast.TagNode:
		return yamlScalar(typed.Value)
	case *ast.AnchorNode:
		return yamlScalar(typed.Value)
	case ast.ScalarNode:
		return typed.GetToken().Value, true
	default:
		return "", false
	}
}

// keysSection decodes the key list of either format.
type keysSection struct {
	Keys []layout.KeyEntry `toml:"keys" yaml:"keys"`
}
