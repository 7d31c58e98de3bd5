package manifest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParse(t *testing.T) {
	data := `
package: example.com/cms
types:
  - name: Node
    constructors:
      - name: NewNode
        params:
          - {name: id, type: int64}
          - parent: "*Node"
  - name: Renderer
    kind: interface
  - name: Article
    base: Node
    interfaces: Renderer
    constructors:
      - name: newArticle
        exported: false
  - name: Page
    params: [T]
    interfaces: ["Collection[T]", Renderer]
`

	f, err := Parse([]byte(data))
	require.NoError(t, err)
	require.NotNil(t, f)

	assert.Equal(t, "1", f.Version)
	assert.Equal(t, "example.com/cms", f.Package)
	require.Len(t, f.Types, 4)

	node := f.Types[0]
	assert.Equal(t, "class", node.Kind)
	assert.False(t, node.IsGeneric())
	require.Len(t, node.Constructors, 1)
	assert.True(t, node.Constructors[0].IsExported())
	assert.Equal(t, ParamDecls{
		{Name: "id", Type: "int64"},
		{Name: "parent", Type: "*Node"},
	}, node.Constructors[0].Params)

	assert.Equal(t, "interface", f.Types[1].Kind)

	article := f.Types[2]
	assert.Equal(t, "Node", article.Base)
	assert.Equal(t, StringOrArray{"Renderer"}, article.Interfaces)
	assert.False(t, article.Constructors[0].IsExported())
	assert.Empty(t, article.Constructors[0].Params)

	page := f.Types[3]
	assert.True(t, page.IsGeneric())
	assert.Equal(t, StringOrArray{"Collection[T]", "Renderer"}, page.Interfaces)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "types: [\n"},
		{"interfaces map", "types:\n  - name: A\n    interfaces: {a: b}\n"},
		{"params scalar", "types:\n  - name: A\n    constructors:\n      - name: NewA\n        params: x\n"},
		{"param list item", "types:\n  - name: A\n    constructors:\n      - name: NewA\n        params: [x]\n"},
		{"param shorthand with two keys", "types:\n  - name: A\n    constructors:\n      - name: NewA\n        params: [{a: int, b: int}]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestStringOrArray(t *testing.T) {
	var s struct {
		A StringOrArray `yaml:"a"`
		B StringOrArray `yaml:"b"`
		C StringOrArray `yaml:"c"`
	}

	require.NoError(t, yaml.Unmarshal([]byte("a: x\nb: [first, second]\nc: \"\"\n"), &s))
	assert.Equal(t, StringOrArray{"x"}, s.A)
	assert.Equal(t, StringOrArray{"first", "second"}, s.B)
	assert.Empty(t, s.C)

	out, err := yaml.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), "a: x\n", "single values are written as scalars")

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, []any{"first", "second"}, back["b"])
}

func TestLoadFile_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "types.yaml")

	exported := false
	f := &File{
		Version: "1",
		Package: "example.com/cms",
		Types: []TypeDecl{
			{Name: "Node", Kind: "class"},
			{
				Name:       "Page",
				Kind:       "class",
				Params:     []string{"T"},
				Base:       "Node",
				Interfaces: StringOrArray{"Collection[T]"},
				Constructors: []ConstructorDecl{
					{Name: "newPage", Exported: &exported, Params: ParamDecls{{Name: "items", Type: "[]T"}}},
				},
			},
		},
	}

	require.NoError(t, WriteFile(f, path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, f, loaded)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
