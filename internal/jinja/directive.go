package jinja

import (
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/agentflare-ai/go-autojinja/internal/docstring"
	"github.com/agentflare-ai/go-autojinja/internal/host"
	"github.com/agentflare-ai/go-autojinja/internal/jinjadomain"
)

const (
	// DirectiveName is the directive registered by Setup.
	DirectiveName = "autojinja"
	// ConfigTemplatePath is the directory template arguments are resolved against.
	ConfigTemplatePath = "template_path"

	OptionEndpoints      = "endpoints"
	OptionUndocEndpoints = "undoc-endpoints"
)

var endpointSeparator = regexp.MustCompile(`\s*,\s*`)

// EndpointSet is a set of endpoint labels.
type EndpointSet map[string]struct{}

func parseEndpoints(value string) EndpointSet {
	set := make(EndpointSet)
	for _, name := range endpointSeparator.Split(value, -1) {
		set[name] = struct{}{}
	}
	return set
}

// Has reports whether name is in the set.
func (s EndpointSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the members in lexical order.
func (s EndpointSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Endpoints returns the endpoints option. ok is false when the option is
// absent, which means no filter rather than an empty one.
func Endpoints(opts host.Options) (set EndpointSet, ok bool) {
	value, ok := opts.Lookup(OptionEndpoints)
	if !ok {
		return nil, false
	}
	return parseEndpoints(value), true
}

// UndocEndpoints returns the undoc-endpoints option, empty when absent.
func UndocEndpoints(opts host.Options) EndpointSet {
	value, ok := opts.Lookup(OptionUndocEndpoints)
	if !ok {
		return EndpointSet{}
	}
	return parseEndpoints(value)
}

// Directive documents every macro of one template.
type Directive struct {
	Docstring docstring.Config
}

// NewDirective returns the autojinja directive using cfg for comment conversion.
func NewDirective(cfg docstring.Config) *Directive {
	return &Directive{Docstring: cfg}
}

// Spec takes the template path as its only argument.
func (d *Directive) Spec() host.Spec {
	return host.Spec{
		RequiredArguments: 1,
		HasContent:        true,
		Options:           []string{OptionEndpoints, OptionUndocEndpoints},
	}
}

// Run emits the jinja:template blocks of the named template.
func (d *Directive) Run(inv *host.Invocation) (host.Result, error) {
	logger := inv.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	// TODO: filter macros once templates can tag macros with endpoint labels;
	// until then both sets are parsed and reported only.
	if endpoints, ok := Endpoints(inv.Options); ok {
		logger.Debug("endpoint filter not applied", "endpoints", endpoints.Sorted())
	}
	if undoc := UndocEndpoints(inv.Options); len(undoc) > 0 {
		logger.Debug("endpoint filter not applied", "undoc_endpoints", undoc.Sorted())
	}

	lines, err := d.MakeRST(inv.Config.String(ConfigTemplatePath), inv.Arguments[0])
	if err != nil {
		return host.Result{}, err
	}
	return host.Result{Lines: lines}, nil
}

// ResolveTemplate joins path to root unless path is absolute.
func ResolveTemplate(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// MakeRST reads the template at path, relative to root, and returns one
// jinja:template block per documented macro followed by a blank line. With an
// empty root the template is still read but nothing is documented.
func (d *Directive) MakeRST(root, path string) ([]string, error) {
	pairs, err := ExtractFile(ResolveTemplate(root, path))
	if err != nil {
		return nil, err
	}
	var lines []string
	if root != "" {
		for _, doc := range Document(pairs, d.Docstring) {
			lines = append(lines, jinjadomain.TemplateBlock(doc.Name, doc.Doc)...)
		}
	}
	return append(lines, ""), nil
}
