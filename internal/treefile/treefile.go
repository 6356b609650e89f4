// Package treefile reads parameter trees declared in YAML or TOML documents
// and builds parsers from them.
package treefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a tree file.
type Format int

const (
	// FormatAuto detects the format from the file extension.
	FormatAuto Format = iota
	FormatYAML
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// ErrFormat is returned for files whose format cannot be determined.
var ErrFormat = errors.New("unsupported tree file format")

// DetectFormat maps a file extension to a Format: ".yaml" and ".yml" are
// YAML, ".toml" is TOML. Anything else is FormatAuto.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatAuto
	}
}

// Tree is the document root.
type Tree struct {
	Program     string  `yaml:"program,omitempty" toml:"program"`
	Description string  `yaml:"description,omitempty" toml:"description"`
	Options     []Param `yaml:"options,omitempty" toml:"options"`
	Next        []Param `yaml:"next,omitempty" toml:"next"`
}

// Param declares one node of the tree.
type Param struct {
	Name        string   `yaml:"name,omitempty" toml:"name"`
	Description string   `yaml:"description,omitempty" toml:"description"`
	Type        string   `yaml:"type,omitempty" toml:"type"`
	Short       []string `yaml:"short,omitempty" toml:"short"`
	Long        []string `yaml:"long,omitempty" toml:"long"`
	Forms       []string `yaml:"forms,omitempty" toml:"forms"`
	Required    bool     `yaml:"required,omitempty" toml:"required"`
	Flag        bool     `yaml:"flag,omitempty" toml:"flag"`
	Default     *Scalar  `yaml:"default,omitempty" toml:"default"`
	Options     []Param  `yaml:"options,omitempty" toml:"options"`
	Next        []Param  `yaml:"next,omitempty" toml:"next"`
}

// Scalar is a default value. Documents may spell it as a string, a number
// or a boolean; it is kept as text and converted by the parameter's type.
type Scalar string

// UnmarshalYAML accepts any scalar node.
func (s *Scalar) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: default must be a scalar", n.Line)
	}
	*s = Scalar(n.Value)
	return nil
}

// UnmarshalTOML accepts strings, integers, floats and booleans.
func (s *Scalar) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		*s = Scalar(v)
	case int64, float64, bool:
		*s = Scalar(fmt.Sprint(v))
	default:
		return fmt.Errorf("default must be a scalar, not %T", v)
	}
	return nil
}

// Load reads the tree file at path, choosing the format by extension.
func Load(path string) (*Tree, error) {
	format := DetectFormat(path)
	if format == FormatAuto {
		return nil, fmt.Errorf("%w: %s", ErrFormat, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree file: %w", err)
	}

	t, err := Decode(content, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Decode parses a tree document. Unknown keys are rejected.
func Decode(content []byte, format Format) (*Tree, error) {
	t := &Tree{}

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(t); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("YAML parse error: %w", err)
		}

	case FormatTOML:
		md, err := toml.Decode(string(content), t)
		if err != nil {
			return nil, fmt.Errorf("TOML parse error: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("TOML parse error: unknown keys: %s",
				strings.Join(keys, ", "))
		}

	default:
		return nil, fmt.Errorf("%w: %s", ErrFormat, format)
	}

	return t, nil
}
