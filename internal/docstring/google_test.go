package docstring

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

func TestGoogle_Archives(t *testing.T) {
	archives, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, archives)

	for _, path := range archives {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".txtar"), func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			require.NoError(t, err)
			files := make(map[string]string, len(ar.Files))
			for _, f := range ar.Files {
				files[f.Name] = string(f.Data)
			}
			require.Contains(t, files, "input")
			require.Contains(t, files, "want")

			got := Google(files["input"], DefaultConfig())
			want := strings.Split(strings.TrimSuffix(files["want"], "\n"), "\n")
			assert.Equal(t, want, got)
		})
	}
}

func TestGoogle_ConfigFlavours(t *testing.T) {
	tests := []struct {
		name  string
		input string
		cfg   Config
		want  []string
	}{
		{
			name:  "parameters field list",
			input: "Args:\n    x (int): first\n    y: second",
			cfg:   Config{},
			want: []string{
				":Parameters: * **x** (*int*) -- first",
				"             * **y** -- second",
				"",
			},
		},
		{
			name:  "single parameter without bullets",
			input: "Args:\n    x (int): first",
			cfg:   Config{},
			want:  []string{":Parameters: **x** (*int*) -- first", ""},
		},
		{
			name:  "inline return type",
			input: "Returns:\n    int: count",
			cfg:   Config{},
			want:  []string{":returns: *int* -- count", ""},
		},
		{
			name:  "untyped return",
			input: "Returns:\n    the rendered markup",
			cfg:   DefaultConfig(),
			want:  []string{":returns: the rendered markup", ""},
		},
		{
			name:  "keyword fields",
			input: "Keyword Args:\n    size (int): pixels",
			cfg:   DefaultConfig(),
			want:  []string{":keyword size: pixels", ":kwtype size: int", ""},
		},
		{
			name:  "keyword field list",
			input: "Kwargs:\n    size: pixels",
			cfg:   Config{},
			want:  []string{":Keyword Arguments: **size** -- pixels", ""},
		},
		{
			name:  "yields",
			input: "Yields:\n    str: lines",
			cfg:   DefaultConfig(),
			want:  []string{":Yields: *str* -- lines", ""},
		},
		{
			name:  "parameter without description",
			input: "Args:\n    x:",
			cfg:   DefaultConfig(),
			want:  []string{":param x:", ""},
		},
		{
			name:  "blank line inserted before section",
			input: "Summary.\nArgs:\n    x: first",
			cfg:   DefaultConfig(),
			want:  []string{"Summary.", "", ":param x: first", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Google(tt.input, tt.cfg))
		})
	}
}

func TestGoogle_Deterministic(t *testing.T) {
	input := "Renders.\n\n    Args:\n        x: one\n"
	first := Google(input, DefaultConfig())
	second := Google(input, DefaultConfig())
	assert.Equal(t, first, second)
}

func TestGoogle_Empty(t *testing.T) {
	assert.Empty(t, Google("", DefaultConfig()))
	assert.Empty(t, Google("   \n  \n", DefaultConfig()))
}

func TestCleanLines(t *testing.T) {
	got := cleanLines("  First line\n      indented\n    base\n")
	assert.Equal(t, []string{"First line", "  indented", "base"}, got)
}
