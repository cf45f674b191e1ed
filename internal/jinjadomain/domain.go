// Package jinjadomain provides the jinja domain and its template directive.
//
// Under the rst builder a jinja:template block is emitted unchanged for the
// downstream reST toolchain; under the markdown builder it is rendered as a
// Markdown section.
package jinjadomain

import (
	"github.com/agentflare-ai/go-autojinja/internal/host"
)

// Name is the domain prefix, as in "jinja:template".
const Name = "jinja"

// Setup registers the jinja domain on app.
func Setup(app *host.App) error {
	return app.AddDomain(&host.Domain{
		Name:  Name,
		Label: "Jinja",
		Directives: map[string]host.Directive{
			"template": TemplateDirective{},
		},
	})
}

// TemplateBlock wraps content in a jinja:template directive for name. The
// block is surrounded by blank lines and its content indented three spaces.
func TemplateBlock(name string, content []string) []string {
	lines := make([]string, 0, len(content)+4)
	lines = append(lines, "", ".. "+Name+":template:: "+name, "")
	for _, line := range content {
		if line == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, "   "+line)
	}
	return append(lines, "")
}

// TemplateDirective documents a single template or macro.
type TemplateDirective struct{}

// Spec takes the template name, which may contain spaces, as its argument.
func (TemplateDirective) Spec() host.Spec {
	return host.Spec{RequiredArguments: 1, FinalArgumentWhitespace: true, HasContent: true}
}

// Run returns the block itself, or its Markdown rendering under the markdown builder.
func (TemplateDirective) Run(inv *host.Invocation) (host.Result, error) {
	if inv.Builder == host.BuilderMarkdown {
		return host.Result{Lines: RenderMarkdown(inv.Arguments[0], inv.Content), Raw: true}, nil
	}
	return host.Result{Lines: inv.Block, Raw: true}, nil
}
