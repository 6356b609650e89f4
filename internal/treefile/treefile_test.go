package treefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
program: copy
description: Copy a file
options:
  - name: verbose
    short: [v]
    long: [verbose]
    flag: true
    description: Print progress
  - name: count
    short: [n]
    type: i32
    default: 3
next:
  - name: src
    required: true
    next:
      - name: dst
`

const sampleTOML = `
program = "copy"
description = "Copy a file"

[[options]]
name = "verbose"
short = ["v"]
long = ["verbose"]
flag = true
description = "Print progress"

[[options]]
name = "count"
short = ["n"]
type = "i32"
default = 3

[[next]]
name = "src"
required = true

[[next.next]]
name = "dst"
`

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"tree.yaml", FormatYAML},
		{"tree.YML", FormatYAML},
		{"/etc/app/tree.toml", FormatTOML},
		{"tree.json", FormatAuto},
		{"tree", FormatAuto},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectFormat(tt.path), tt.path)
	}
	assert.Equal(t, "toml", FormatTOML.String())
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		content string
		format  Format
	}{
		{"yaml", sampleYAML, FormatYAML},
		{"toml", sampleTOML, FormatTOML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Decode([]byte(tt.content), tt.format)
			require.NoError(t, err)

			assert.Equal(t, "copy", tree.Program)
			assert.Equal(t, "Copy a file", tree.Description)
			require.Len(t, tree.Options, 2)
			assert.Equal(t, []string{"v"}, tree.Options[0].Short)
			assert.True(t, tree.Options[0].Flag)
			require.NotNil(t, tree.Options[1].Default)
			assert.Equal(t, Scalar("3"), *tree.Options[1].Default)

			require.Len(t, tree.Next, 1)
			assert.True(t, tree.Next[0].Required)
			require.Len(t, tree.Next[0].Next, 1)
			assert.Equal(t, "dst", tree.Next[0].Next[0].Name)
		})
	}
}

func TestDecodeScalarDefaults(t *testing.T) {
	content := `
options:
  - {name: a, short: [a], default: "text"}
  - {name: b, short: [b], default: 1.5}
  - {name: c, short: [c], default: true}
`
	tree, err := Decode([]byte(content), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, Scalar("text"), *tree.Options[0].Default)
	assert.Equal(t, Scalar("1.5"), *tree.Options[1].Default)
	assert.Equal(t, Scalar("true"), *tree.Options[2].Default)

	content = `
[[options]]
name = "b"
default = 1.5

[[options]]
name = "c"
default = false
`
	tree, err = Decode([]byte(content), FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, Scalar("1.5"), *tree.Options[0].Default)
	assert.Equal(t, Scalar("false"), *tree.Options[1].Default)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		format  Format
	}{
		{"yaml unknown key", "options:\n  - name: a\n    colour: red\n", FormatYAML},
		{"yaml default not scalar", "options:\n  - name: a\n    default: [1, 2]\n", FormatYAML},
		{"yaml syntax", "options: [", FormatYAML},
		{"toml unknown key", "[[options]]\nname = \"a\"\ncolour = \"red\"\n", FormatTOML},
		{"toml default not scalar", "[[options]]\nname = \"a\"\ndefault = [1, 2]\n", FormatTOML},
		{"toml syntax", "[[options]\n", FormatTOML},
		{"auto", "program: x\n", FormatAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.content), tt.format)
			assert.Error(t, err)
		})
	}

	_, err := Decode(nil, FormatAuto)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestDecodeEmpty(t *testing.T) {
	tree, err := Decode(nil, FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, tree.Options)
	assert.Empty(t, tree.Next)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "tree.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML), 0o644))

	tree, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "copy", tree.Program)

	_, err = Load(filepath.Join(dir, "tree.json"))
	assert.ErrorIs(t, err, ErrFormat)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
