package jinja

import (
	"regexp"
	"strings"

	"github.com/agentflare-ai/go-autojinja/internal/docstring"
)

// macroPattern captures the bare signature and the name of a macro
// declaration in its trimmed or untrimmed form. The signature ends at the
// first closing tag after the argument list, so a one-line macro keeps its
// body out of it.
var macroPattern = regexp.MustCompile(`^\{%-?\s*macro\s+((?P<name>[^(]*?)(?:\s*\(.*?\))?)\s*(?:-?%\}.*)?$`)

// Macro is the name and signature of a declared macro.
type Macro struct {
	Name      string
	Signature string
}

// ParseDeclaration reports whether line declares a macro and derives its name
// and signature. A declaration without parentheses yields the whole signature
// as the name.
func ParseDeclaration(line string) (Macro, bool) {
	m := macroPattern.FindStringSubmatch(line)
	if m == nil {
		return Macro{}, false
	}
	return Macro{
		Name:      strings.TrimSpace(m[macroPattern.SubexpIndex("name")]),
		Signature: strings.TrimSpace(m[1]),
	}, true
}

// MacroDoc is the documentation of one macro.
type MacroDoc struct {
	Name      string   `json:"name" yaml:"name"`
	Signature string   `json:"signature" yaml:"signature"`
	Line      int      `json:"line" yaml:"line"`
	Summary   string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Doc       []string `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// Document converts the macro pairs into documentation, dropping pairs whose
// declaration is not a macro or has no name. Doc ends with the bare signature.
func Document(pairs []Pair, cfg docstring.Config) []MacroDoc {
	var docs []MacroDoc
	for _, p := range pairs {
		macro, ok := ParseDeclaration(p.Declaration)
		if !ok || macro.Name == "" {
			continue
		}
		body := docstring.Google(p.Comment, cfg)
		docs = append(docs, MacroDoc{
			Name:      macro.Name,
			Signature: macro.Signature,
			Line:      p.Line,
			Summary:   summary(body),
			Doc:       append(body, macro.Signature),
		})
	}
	return docs
}

// summary returns the first sentence of the leading paragraph.
func summary(lines []string) string {
	var para []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, ":") || strings.HasPrefix(line, "..") {
			break
		}
		para = append(para, strings.TrimSpace(line))
	}
	text := strings.Join(para, " ")
	if idx := strings.Index(text, ". "); idx >= 0 {
		return strings.TrimSpace(text[:idx+1])
	}
	return strings.TrimSpace(text)
}
