package jinja

import (
	"errors"

	"github.com/agentflare-ai/go-autojinja/internal/docstring"
	"github.com/agentflare-ai/go-autojinja/internal/host"
	"github.com/agentflare-ai/go-autojinja/internal/jinjadomain"
)

// Setup registers the jinja domain unless already present, the autojinja
// directive and the template_path config value. It is safe to call twice.
func Setup(app *host.App) error {
	return SetupWith(docstring.DefaultConfig())(app)
}

// SetupWith is Setup with a custom docstring configuration.
func SetupWith(cfg docstring.Config) host.Extension {
	return func(app *host.App) error {
		if !app.HasDomain(jinjadomain.Name) {
			if err := jinjadomain.Setup(app); err != nil {
				return err
			}
		}
		app.AddDirective(DirectiveName, NewDirective(cfg))
		err := app.AddConfigValue(ConfigTemplatePath, "", "")
		if err != nil && !errors.Is(err, host.ErrAlreadyRegistered) {
			return err
		}
		return nil
	}
}
