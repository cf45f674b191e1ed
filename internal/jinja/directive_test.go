package jinja

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflare-ai/go-autojinja/internal/docstring"
	"github.com/agentflare-ai/go-autojinja/internal/host"
	"github.com/agentflare-ai/go-autojinja/internal/testutil"
)

var formsRST = []string{
	"",
	".. jinja:template:: button",
	"",
	"   Renders a button.",
	"",
	"   :param label: The button label.",
	"   :type label: str",
	"   :param kind: Visual style.",
	"",
	"   :returns: HTML markup.",
	"   :rtype: str",
	"",
	`   button(label, kind="primary")`,
	"",
	"",
	".. jinja:template:: card",
	"",
	"   Shows a card.",
	"   card(title)",
	"",
	"",
}

func TestDirective_MakeRST(t *testing.T) {
	d := NewDirective(docstring.DefaultConfig())

	got, err := d.MakeRST("testdata", "forms.html")
	require.NoError(t, err)
	assert.Equal(t, formsRST, got)
}

func TestDirective_MakeRST_NoPairs(t *testing.T) {
	d := NewDirective(docstring.DefaultConfig())

	got, err := d.MakeRST("testdata", "plain.html")
	require.NoError(t, err)
	assert.Equal(t, []string{""}, got)
}

func TestDirective_MakeRST_UnsetRoot(t *testing.T) {
	d := NewDirective(docstring.DefaultConfig())

	got, err := d.MakeRST("", filepath.Join("testdata", "forms.html"))
	require.NoError(t, err)
	assert.Equal(t, []string{""}, got)

	_, err = d.MakeRST("", filepath.Join("testdata", "missing.html"))
	var accessErr *FileAccessError
	assert.True(t, errors.As(err, &accessErr))
}

func TestDirective_MakeRST_AbsolutePath(t *testing.T) {
	d := NewDirective(docstring.DefaultConfig())
	abs, err := filepath.Abs(filepath.Join("testdata", "forms.html"))
	require.NoError(t, err)

	got, err := d.MakeRST(filepath.Join("no", "such", "root"), abs)
	require.NoError(t, err)
	assert.Equal(t, formsRST, got)
}

func TestResolveTemplate(t *testing.T) {
	abs, err := filepath.Abs("forms.html")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("templates", "forms.html"), ResolveTemplate("templates", "forms.html"))
	assert.Equal(t, "forms.html", ResolveTemplate("", "forms.html"))
	assert.Equal(t, abs, ResolveTemplate("templates", abs))
}

func TestDirective_MakeRST_MissingTemplate(t *testing.T) {
	d := NewDirective(docstring.DefaultConfig())

	_, err := d.MakeRST("testdata", "missing.html")
	require.Error(t, err)
	var accessErr *FileAccessError
	require.True(t, errors.As(err, &accessErr))
	assert.Equal(t, filepath.Join("testdata", "missing.html"), accessErr.Path)
}

func TestEndpoints(t *testing.T) {
	opts := host.Options{OptionEndpoints: "a,b", OptionUndocEndpoints: "c"}

	endpoints, ok := Endpoints(opts)
	require.True(t, ok)
	assert.Equal(t, EndpointSet{"a": {}, "b": {}}, endpoints)
	assert.True(t, endpoints.Has("a"))
	assert.False(t, endpoints.Has("c"))
	assert.Equal(t, EndpointSet{"c": {}}, UndocEndpoints(opts))

	spaced, ok := Endpoints(host.Options{OptionEndpoints: "b ,  a"})
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, spaced.Sorted())
}

func TestEndpoints_Absent(t *testing.T) {
	endpoints, ok := Endpoints(host.Options{})
	assert.False(t, ok)
	assert.Nil(t, endpoints)

	undoc := UndocEndpoints(host.Options{})
	assert.NotNil(t, undoc)
	assert.Empty(t, undoc)

	empty, ok := Endpoints(host.Options{OptionEndpoints: ""})
	assert.True(t, ok, "an empty option is present, not absent")
	assert.Equal(t, EndpointSet{"": {}}, empty)
}

func newApp(t *testing.T, builder, root string) *host.App {
	t.Helper()
	app := host.New(builder, testutil.NewTestLogger(t))
	require.NoError(t, app.Setup(Setup))
	require.NoError(t, app.SetConfig(ConfigTemplatePath, root))
	return app
}

func TestDirective_ThroughHost(t *testing.T) {
	app := newApp(t, host.BuilderRST, "testdata")

	doc := []string{
		"Forms",
		"=====",
		"",
		".. autojinja:: forms.html",
		"   :endpoints: a, b",
		"   :undoc-endpoints: c",
		"",
		"Footer.",
	}
	got, err := app.Process("forms.rst", doc)
	require.NoError(t, err)

	want := append([]string{"Forms", "=====", ""}, formsRST...)
	want = append(want, "", "Footer.")
	assert.Equal(t, want, got)
}

func TestDirective_ThroughHostMarkdown(t *testing.T) {
	app := newApp(t, host.BuilderMarkdown, "testdata")

	got, err := app.Process("forms.rst", []string{".. autojinja:: forms.html"})
	require.NoError(t, err)

	out := strings.Join(got, "\n")
	assert.Contains(t, out, "### button")
	assert.Contains(t, out, "```jinja\nbutton(label, kind=\"primary\")\n```")
	assert.Contains(t, out, "- `label` (*str*) — The button label.")
	assert.Contains(t, out, "### card")
	assert.NotContains(t, out, ".. jinja:template::")
}

func TestDirective_ThroughHostErrors(t *testing.T) {
	app := newApp(t, host.BuilderRST, "testdata")

	_, err := app.Process("index.rst", []string{"intro", ".. autojinja:: missing.html"})
	require.Error(t, err)
	var derr *host.DirectiveError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, 2, derr.Line)
	var accessErr *FileAccessError
	assert.True(t, errors.As(err, &accessErr))

	_, err = app.Process("index.rst", []string{".. autojinja::"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 argument(s) required")

	_, err = app.Process("index.rst", []string{".. autojinja:: forms.html", "   :filter: x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown option: "filter"`)
}

func TestDirective_DegenerateMacroNames(t *testing.T) {
	dir := t.TempDir()
	src := "{{# doc #}}\n{% macro foo bar %}\n{{# unnamed #}}\n{% macro %}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "t.html"), []byte(src), 0o644))

	app := newApp(t, host.BuilderRST, dir)
	got, err := app.Process("index.rst", []string{".. autojinja:: t.html"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"",
		".. jinja:template:: foo bar",
		"",
		"   doc",
		"   foo bar",
		"",
		"",
	}, got)

	app = newApp(t, host.BuilderMarkdown, dir)
	got, err = app.Process("index.rst", []string{".. autojinja:: t.html"})
	require.NoError(t, err)
	out := strings.Join(got, "\n")
	assert.Contains(t, out, "### foo bar")
	assert.Contains(t, out, "```jinja\nfoo bar\n```")
}

func TestDirective_AcceptsContent(t *testing.T) {
	app := newApp(t, host.BuilderRST, "testdata")

	got, err := app.Process("index.rst", []string{".. autojinja:: plain.html", "", "   ignored content"})
	require.NoError(t, err)
	assert.Equal(t, []string{""}, got)
}
