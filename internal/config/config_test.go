package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflare-ai/go-autojinja/internal/docstring"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "autojinja.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.String("template-path", "", "")
	flags.String("builder", "", "")
	flags.Bool("verbose", false, "")
	return flags
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "", cfg.TemplatePath)
	assert.Equal(t, DefaultBuilder, cfg.Builder)
	assert.Equal(t, DefaultSourceSuffix, cfg.SourceSuffix)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, docstring.DefaultConfig(), cfg.Docstring.Convert())
	assert.Empty(t, cfg.File)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
template_path: templates
builder: markdown
docstring:
  use_rtype: false
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, filepath.Join(dir, "templates"), cfg.TemplatePath)
	assert.Equal(t, "markdown", cfg.Builder)
	assert.True(t, cfg.Docstring.UseParam)
	assert.False(t, cfg.Docstring.UseRtype)
}

func TestLoad_DiscoversFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "builder: markdown\n")
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "autojinja.yaml", cfg.File)
	assert.Equal(t, "markdown", cfg.Builder)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "template_path: from-file\nbuilder: rst\n")

	t.Setenv("AUTOJINJA_TEMPLATE_PATH", "from-env")
	t.Setenv("AUTOJINJA_BUILDER", "markdown")
	t.Setenv("AUTOJINJA_DOCSTRING__USE_KEYWORD", "false")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.TemplatePath, "env values are not resolved against the file")
	assert.Equal(t, "markdown", cfg.Builder)
	assert.False(t, cfg.Docstring.UseKeyword)

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--template-path", "from-flag"}))

	cfg, err = Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.TemplatePath)
	assert.Equal(t, "markdown", cfg.Builder, "unchanged flags do not override env")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{name: "unknown builder", content: "builder: html\n", errSubstr: "Builder"},
		{name: "suffix without dot", content: "source_suffix: rst\n", errSubstr: "SourceSuffix"},
		{name: "malformed yaml", content: "builder: [\n", errSubstr: "error reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := Load(path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yaml")
}
