package jinjadomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflare-ai/go-autojinja/internal/host"
)

func TestTemplateBlock(t *testing.T) {
	got := TemplateBlock("foo", []string{"Returns 1", "", "foo(x)"})
	assert.Equal(t, []string{
		"",
		".. jinja:template:: foo",
		"",
		"   Returns 1",
		"",
		"   foo(x)",
		"",
	}, got)

	assert.Equal(t, []string{"", ".. jinja:template:: bare", "", ""}, TemplateBlock("bare", nil))
}

func TestSetup(t *testing.T) {
	app := host.New(host.BuilderRST, nil)
	require.NoError(t, Setup(app))
	assert.True(t, app.HasDomain(Name))

	_, ok := app.Lookup("jinja:template")
	assert.True(t, ok)

	err := Setup(app)
	assert.ErrorIs(t, err, host.ErrAlreadyRegistered)
}

func TestTemplateDirective_RST(t *testing.T) {
	app := host.New(host.BuilderRST, nil)
	require.NoError(t, Setup(app))

	doc := append([]string{"Title"}, TemplateBlock("foo", []string{"Returns 1", "foo(x)"})...)
	got, err := app.Process("index.rst", doc)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestTemplateDirective_Markdown(t *testing.T) {
	app := host.New(host.BuilderMarkdown, nil)
	require.NoError(t, Setup(app))

	got, err := app.Process("index.rst", TemplateBlock("foo", []string{"Returns 1", "foo(x)"}))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"",
		"### foo",
		"",
		"```jinja",
		"foo(x)",
		"```",
		"",
		"Returns 1",
		"",
		"",
	}, got)
}

func TestTemplateDirective_NameWithSpaces(t *testing.T) {
	app := host.New(host.BuilderRST, nil)
	require.NoError(t, Setup(app))

	doc := TemplateBlock("foo bar", []string{"foo bar"})
	got, err := app.Process("index.rst", doc)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestTemplateDirective_RequiresName(t *testing.T) {
	app := host.New(host.BuilderRST, nil)
	require.NoError(t, Setup(app))

	_, err := app.Process("index.rst", []string{".. jinja:template::"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index.rst:1: jinja:template:")
}
