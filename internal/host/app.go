// Package host is a minimal reStructuredText directive host.
//
// An App holds the registry extensions plug into: domains, directives and
// declared configuration values. Process expands registered directives found
// in a document and passes every other line through unchanged, so the result
// can be handed to a full reST toolchain.
package host

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Builder names understood by directives.
const (
	BuilderRST      = "rst"
	BuilderMarkdown = "markdown"
)

// ErrAlreadyRegistered is returned when a domain or config value is added twice.
var ErrAlreadyRegistered = errors.New("already registered")

// Extension registers domains, directives and config values on an App.
type Extension func(app *App) error

// ConfigValue declares a configuration key an extension reads.
type ConfigValue struct {
	Name    string
	Default any
	// Rebuild names what must be rebuilt when the value changes; empty means nothing.
	Rebuild string
}

// Domain groups directives under a common prefix, e.g. "jinja:template".
type Domain struct {
	Name       string
	Label      string
	Directives map[string]Directive
}

// App is the registry and document processor.
type App struct {
	builder      string
	logger       *slog.Logger
	domains      map[string]*Domain
	directives   map[string]Directive
	configValues map[string]ConfigValue
	config       map[string]any
}

// New creates an App producing output for the named builder.
func New(builder string, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &App{
		builder:      builder,
		logger:       logger,
		domains:      make(map[string]*Domain),
		directives:   make(map[string]Directive),
		configValues: make(map[string]ConfigValue),
		config:       make(map[string]any),
	}
}

// Setup runs each extension in order and stops at the first error.
func (a *App) Setup(exts ...Extension) error {
	for _, ext := range exts {
		if err := ext(a); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) Builder() string { return a.builder }

func (a *App) Logger() *slog.Logger { return a.logger }

// HasDomain reports whether a domain with the given name is registered.
func (a *App) HasDomain(name string) bool {
	_, ok := a.domains[name]
	return ok
}

// AddDomain registers a domain. Registering the same name twice is an error.
func (a *App) AddDomain(d *Domain) error {
	if d == nil || d.Name == "" {
		return fmt.Errorf("domain name is required")
	}
	if a.HasDomain(d.Name) {
		return fmt.Errorf("domain %q: %w", d.Name, ErrAlreadyRegistered)
	}
	a.domains[d.Name] = d
	a.logger.Debug("registered domain", "domain", d.Name, "directives", len(d.Directives))
	return nil
}

// AddDirective registers a top-level directive, replacing any previous one.
func (a *App) AddDirective(name string, d Directive) {
	if _, ok := a.directives[name]; ok {
		a.logger.Warn("directive overridden", "directive", name)
	}
	a.directives[name] = d
}

// AddConfigValue declares a configuration key and sets it to its default.
func (a *App) AddConfigValue(name string, def any, rebuild string) error {
	if _, ok := a.configValues[name]; ok {
		return fmt.Errorf("config value %q: %w", name, ErrAlreadyRegistered)
	}
	a.configValues[name] = ConfigValue{Name: name, Default: def, Rebuild: rebuild}
	a.config[name] = def
	return nil
}

// SetConfig overrides a declared configuration value.
func (a *App) SetConfig(name string, value any) error {
	if _, ok := a.configValues[name]; !ok {
		return fmt.Errorf("unknown config value %q", name)
	}
	a.config[name] = value
	return nil
}

// ConfigValues lists declared configuration keys sorted by name.
func (a *App) ConfigValues() []ConfigValue {
	values := make([]ConfigValue, 0, len(a.configValues))
	for _, v := range a.configValues {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool { return values[i].Name < values[j].Name })
	return values
}

// Config returns a snapshot of the current configuration.
func (a *App) Config() Config {
	values := make(map[string]any, len(a.config))
	for k, v := range a.config {
		values[k] = v
	}
	return Config{values: values}
}

// Lookup resolves a directive name. Names of the form "domain:name" are looked
// up in the domain; bare names in the top-level registry.
func (a *App) Lookup(name string) (Directive, bool) {
	if domain, local, ok := strings.Cut(name, ":"); ok {
		d, ok := a.domains[domain]
		if !ok {
			return nil, false
		}
		dir, ok := d.Directives[local]
		return dir, ok
	}
	d, ok := a.directives[name]
	return d, ok
}

// Config is a read-only view of configuration values.
type Config struct {
	values map[string]any
}

// Value returns the raw value stored under name.
func (c Config) Value(name string) (any, bool) {
	v, ok := c.values[name]
	return v, ok
}

// String returns the value under name, or "" when unset or not a string.
func (c Config) String(name string) string {
	s, _ := c.values[name].(string)
	return s
}

// Bool returns the value under name, or false when unset or not a bool.
func (c Config) Bool(name string) bool {
	b, _ := c.values[name].(bool)
	return b
}
