// Package docstring converts Google-style docstrings into reStructuredText.
//
// The output follows the field-list conventions understood by Sphinx: parameters
// become :param:/:type: pairs, return values :returns:/:rtype:, and free-form
// sections such as Note or Warning become admonitions. Conversion is purely
// textual and deterministic for a given input and Config.
package docstring

import (
	"regexp"
	"strings"
)

// Config selects between the field-list flavours emitted for parameters,
// keyword arguments and return values.
type Config struct {
	// UseParam emits one :param: field per argument instead of a single
	// :Parameters: field holding a bullet list.
	UseParam bool
	// UseRtype splits the return type into a separate :rtype: field.
	UseRtype bool
	// UseKeyword emits :keyword:/:kwtype: fields for keyword arguments.
	UseKeyword bool
}

// DefaultConfig returns the configuration used for template comments.
func DefaultConfig() Config {
	return Config{UseParam: true, UseRtype: true, UseKeyword: true}
}

type sectionKind int

const (
	sectionParams sectionKind = iota
	sectionOtherParams
	sectionKeywords
	sectionReturns
	sectionYields
	sectionRaises
	sectionAdmonition
	sectionRubric
)

type sectionDef struct {
	kind  sectionKind
	label string
}

var sections = map[string]sectionDef{
	"args":              {sectionParams, "Parameters"},
	"arguments":         {sectionParams, "Parameters"},
	"parameters":        {sectionParams, "Parameters"},
	"params":            {sectionParams, "Parameters"},
	"other parameters":  {sectionOtherParams, "Other Parameters"},
	"keyword args":      {sectionKeywords, "Keyword Arguments"},
	"keyword arguments": {sectionKeywords, "Keyword Arguments"},
	"kwargs":            {sectionKeywords, "Keyword Arguments"},
	"return":            {sectionReturns, "Returns"},
	"returns":           {sectionReturns, "Returns"},
	"yield":             {sectionYields, "Yields"},
	"yields":            {sectionYields, "Yields"},
	"raise":             {sectionRaises, "Raises"},
	"raises":            {sectionRaises, "Raises"},
	"except":            {sectionRaises, "Raises"},
	"exceptions":        {sectionRaises, "Raises"},
	"attention":         {sectionAdmonition, "attention"},
	"caution":           {sectionAdmonition, "caution"},
	"danger":            {sectionAdmonition, "danger"},
	"error":             {sectionAdmonition, "error"},
	"hint":              {sectionAdmonition, "hint"},
	"important":         {sectionAdmonition, "important"},
	"note":              {sectionAdmonition, "note"},
	"notes":             {sectionAdmonition, "note"},
	"see also":          {sectionAdmonition, "seealso"},
	"tip":               {sectionAdmonition, "tip"},
	"todo":              {sectionAdmonition, "todo"},
	"warning":           {sectionAdmonition, "warning"},
	"warnings":          {sectionAdmonition, "warning"},
	"warn":              {sectionAdmonition, "warning"},
	"example":           {sectionRubric, "Example"},
	"examples":          {sectionRubric, "Examples"},
	"references":        {sectionRubric, "References"},
	"usage":             {sectionRubric, "Usage"},
}

var (
	sectionHeaderPattern = regexp.MustCompile(`^\s*([A-Za-z][A-Za-z ]*?)\s*:\s*$`)
	fieldPattern         = regexp.MustCompile(`^(\*{0,2}[\w.\[\]]+)\s*(?:\(([^)]*)\))?\s*:(?:\s+(.*))?$`)
	colonPattern         = regexp.MustCompile(`^(.+?):(?:\s+(.*))?$`)
)

type field struct {
	name string
	typ  string
	desc []string
}

// Google converts a Google-style docstring to reStructuredText lines. Output
// ending in a section keeps the section's trailing blank line, so text
// appended by the caller starts a new block.
func Google(text string, cfg Config) []string {
	p := &googleParser{cfg: cfg, lines: cleanLines(text)}
	p.parse()
	return p.out
}

type googleParser struct {
	cfg   Config
	lines []string
	pos   int
	out   []string
}

func (p *googleParser) parse() {
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if def, ok := p.sectionAt(p.pos); ok {
			p.pos++
			body := p.consumeSection(leadingWhitespace(line))
			p.emitSection(def, body)
			continue
		}
		p.out = append(p.out, line)
		p.pos++
	}
}

func isSectionHeader(line string) bool {
	m := sectionHeaderPattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	_, ok := sections[strings.ToLower(m[1])]
	return ok
}

// sectionAt reports whether the line at i opens a known section. The body of
// a section must be indented deeper than its header.
func (p *googleParser) sectionAt(i int) (sectionDef, bool) {
	m := sectionHeaderPattern.FindStringSubmatch(p.lines[i])
	if m == nil {
		return sectionDef{}, false
	}
	def, ok := sections[strings.ToLower(m[1])]
	if !ok {
		return sectionDef{}, false
	}
	header := leadingWhitespace(p.lines[i])
	for _, next := range p.lines[i+1:] {
		if strings.TrimSpace(next) == "" {
			continue
		}
		return def, leadingWhitespace(next) > header
	}
	return sectionDef{}, false
}

func (p *googleParser) consumeSection(headerIndent int) []string {
	var body []string
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if strings.TrimSpace(line) != "" && leadingWhitespace(line) <= headerIndent {
			break
		}
		body = append(body, line)
		p.pos++
	}
	return dedent(trimBlank(body))
}

func (p *googleParser) emitSection(def sectionDef, body []string) {
	if n := len(p.out); n > 0 && p.out[n-1] != "" {
		p.out = append(p.out, "")
	}
	var lines []string
	switch def.kind {
	case sectionParams:
		fields := parseFields(body)
		if p.cfg.UseParam {
			lines = docutilsParams(fields, "param", "type")
		} else {
			lines = formatFields(def.label, fields)
		}
	case sectionOtherParams:
		lines = formatFields(def.label, parseFields(body))
	case sectionKeywords:
		fields := parseFields(body)
		if p.cfg.UseKeyword {
			lines = docutilsParams(fields, "keyword", "kwtype")
		} else {
			lines = formatFields(def.label, fields)
		}
	case sectionReturns:
		lines = p.returns(parseReturn(body))
	case sectionYields:
		lines = formatFields(def.label, parseReturn(body))
	case sectionRaises:
		lines = raises(parseFields(body))
	case sectionAdmonition:
		lines = admonition(def.label, body)
	case sectionRubric:
		lines = []string{".. rubric:: " + def.label, ""}
		if len(body) > 0 {
			lines = append(lines, body...)
			lines = append(lines, "")
		}
	}
	p.out = append(p.out, lines...)
}

func (p *googleParser) returns(fields []field) []string {
	var lines []string
	for _, f := range fields {
		typ := f.typ
		if p.cfg.UseRtype {
			typ = ""
		}
		lines = append(lines, formatBlock(":returns: ", formatField("", typ, f.desc))...)
		if f.typ != "" && p.cfg.UseRtype {
			lines = append(lines, ":rtype: "+f.typ)
		}
	}
	if n := len(lines); n > 0 && lines[n-1] != "" {
		lines = append(lines, "")
	}
	return lines
}

// parseFields splits a section body into entries of the form
// "name (type): description" with optional indented continuation lines.
func parseFields(body []string) []field {
	var fields []field
	for i := 0; i < len(body); {
		line := body[i]
		i++
		if strings.TrimSpace(line) == "" {
			continue
		}
		var cont []string
		for i < len(body) && (strings.TrimSpace(body[i]) == "" || leadingWhitespace(body[i]) > 0) {
			cont = append(cont, body[i])
			i++
		}
		f := field{name: strings.TrimSpace(line)}
		var first string
		if m := fieldPattern.FindStringSubmatch(line); m != nil {
			f.name = m[1]
			f.typ = strings.TrimSpace(m[2])
			first = strings.TrimSpace(m[3])
		}
		f.desc = trimBlank(append([]string{first}, dedent(trimBlank(cont))...))
		fields = append(fields, f)
	}
	return fields
}

// parseReturn treats the whole body as a single "type: description" entry.
func parseReturn(body []string) []field {
	if len(body) == 0 {
		return nil
	}
	f := field{desc: body}
	if m := colonPattern.FindStringSubmatch(body[0]); m != nil && !strings.Contains(m[1], "`") {
		f.typ = strings.TrimSpace(m[1])
		f.desc = trimBlank(append([]string{strings.TrimSpace(m[2])}, body[1:]...))
	}
	return []field{f}
}

func docutilsParams(fields []field, role, typeRole string) []string {
	var lines []string
	for _, f := range fields {
		prefix := ":" + role + " " + f.name + ":"
		if len(f.desc) > 0 {
			lines = append(lines, formatBlock(prefix+" ", f.desc)...)
		} else {
			lines = append(lines, prefix)
		}
		if f.typ != "" {
			lines = append(lines, ":"+typeRole+" "+f.name+": "+f.typ)
		}
	}
	return append(lines, "")
}

func formatFields(label string, fields []field) []string {
	fieldType := ":" + label + ":"
	padding := strings.Repeat(" ", len(fieldType))
	multi := len(fields) > 1
	var lines []string
	for _, f := range fields {
		formatted := formatField(f.name, f.typ, f.desc)
		switch {
		case multi && len(lines) > 0:
			lines = append(lines, formatBlock(padding+" * ", formatted)...)
		case multi:
			lines = append(lines, formatBlock(fieldType+" * ", formatted)...)
		default:
			lines = append(lines, formatBlock(fieldType+" ", formatted)...)
		}
	}
	if n := len(lines); n > 0 && lines[n-1] != "" {
		lines = append(lines, "")
	}
	return lines
}

func formatField(name, typ string, desc []string) []string {
	sep := ""
	if len(desc) > 0 {
		sep = " -- "
	}
	var head string
	switch {
	case name != "" && typ != "":
		head = "**" + name + "** (" + emphasize(typ) + ")" + sep
	case name != "":
		head = "**" + name + "**" + sep
	case typ != "":
		head = emphasize(typ) + sep
	}
	if len(desc) == 0 {
		return []string{head}
	}
	return append([]string{head + desc[0]}, desc[1:]...)
}

func emphasize(typ string) string {
	if strings.Contains(typ, "`") {
		return typ
	}
	return "*" + typ + "*"
}

func raises(fields []field) []string {
	var lines []string
	for _, f := range fields {
		exc := f.typ
		if exc == "" {
			exc = f.name
		}
		prefix := ":raises " + exc + ":"
		if len(f.desc) > 0 {
			lines = append(lines, formatBlock(prefix+" ", f.desc)...)
		} else {
			lines = append(lines, prefix)
		}
	}
	return append(lines, "")
}

func admonition(name string, body []string) []string {
	switch len(body) {
	case 0:
		return []string{".. " + name + "::", ""}
	case 1:
		return []string{".. " + name + ":: " + strings.TrimSpace(body[0]), ""}
	}
	lines := []string{".. " + name + "::", ""}
	lines = append(lines, indent(body, 3)...)
	return append(lines, "")
}

// formatBlock prefixes the first line and pads the rest to the same column.
func formatBlock(prefix string, lines []string) []string {
	if len(lines) == 0 {
		return []string{strings.TrimRight(prefix, " ")}
	}
	padding := strings.Repeat(" ", len(prefix))
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		switch {
		case i == 0:
			out = append(out, strings.TrimRight(prefix+line, " "))
		case line == "":
			out = append(out, "")
		default:
			out = append(out, padding+line)
		}
	}
	return out
}
