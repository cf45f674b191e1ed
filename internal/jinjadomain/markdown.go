package jinjadomain

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var (
	fieldLinePattern  = regexp.MustCompile(`^:(\w+)(?:\s+([^:]+?))?:(?:\s+(.*))?$`)
	explicitPattern   = regexp.MustCompile(`^\.\.\s+([\w-]+)::\s*(.*)$`)
	admonitionHeading = map[string]string{
		"attention": "Attention",
		"caution":   "Caution",
		"danger":    "Danger",
		"error":     "Error",
		"hint":      "Hint",
		"important": "Important",
		"note":      "Note",
		"seealso":   "See also",
		"tip":       "Tip",
		"todo":      "Todo",
		"warning":   "Warning",
	}
)

type fieldEntry struct {
	name string
	typ  string
	desc string
}

// fieldGroup collects the field list of one docstring block.
type fieldGroup struct {
	params   []*fieldEntry
	keywords []*fieldEntry
	returns  string
	rtype    string
	raises   []*fieldEntry
	other    []*fieldEntry
}

func (g *fieldGroup) entry(list *[]*fieldEntry, name string) *fieldEntry {
	for _, e := range *list {
		if e.name == name {
			return e
		}
	}
	e := &fieldEntry{name: name}
	*list = append(*list, e)
	return e
}

func (g *fieldGroup) add(role, arg, text string) {
	switch role {
	case "param":
		g.entry(&g.params, arg).desc = text
	case "type":
		g.entry(&g.params, arg).typ = text
	case "keyword":
		g.entry(&g.keywords, arg).desc = text
	case "kwtype":
		g.entry(&g.keywords, arg).typ = text
	case "returns":
		g.returns = text
	case "rtype":
		g.rtype = text
	case "raises":
		g.raises = append(g.raises, &fieldEntry{name: arg, desc: text})
	default:
		g.other = append(g.other, &fieldEntry{name: role, desc: text})
	}
}

func (g *fieldGroup) empty() bool {
	return len(g.params) == 0 && len(g.keywords) == 0 && g.returns == "" && g.rtype == "" &&
		len(g.raises) == 0 && len(g.other) == 0
}

// RenderMarkdown renders the content of a jinja:template block. The last
// non-blank content line is the macro signature.
func RenderMarkdown(name string, content []string) []string {
	var buf bytes.Buffer
	body, signature := splitSignature(content)
	fmt.Fprintf(&buf, "### %s\n\n", name)
	writeCodeBlock(&buf, signature)
	renderBody(&buf, body)
	return append(strings.Split(strings.TrimRight(buf.String(), "\n"), "\n"), "")
}

func splitSignature(content []string) ([]string, string) {
	for i := len(content) - 1; i >= 0; i-- {
		if strings.TrimSpace(content[i]) != "" {
			return content[:i], strings.TrimSpace(content[i])
		}
	}
	return nil, ""
}

func renderBody(w io.Writer, lines []string) {
	var para []string
	flushPara := func() {
		if len(para) > 0 {
			fmt.Fprintf(w, "%s\n\n", strings.Join(para, "\n"))
			para = nil
		}
	}
	group := &fieldGroup{}
	flushFields := func() {
		if !group.empty() {
			renderFields(w, group)
			group = &fieldGroup{}
		}
	}

	for i := 0; i < len(lines); {
		line := lines[i]
		switch {
		case strings.TrimSpace(line) == "":
			flushPara()
			i++
		case fieldLinePattern.MatchString(line):
			flushPara()
			m := fieldLinePattern.FindStringSubmatch(line)
			cont, next := indentedBlock(lines, i+1)
			text := strings.Join(append([]string{m[3]}, cont...), " ")
			group.add(m[1], strings.TrimSpace(m[2]), strings.TrimSpace(text))
			i = next
		case explicitPattern.MatchString(line):
			flushPara()
			flushFields()
			m := explicitPattern.FindStringSubmatch(line)
			cont, next := indentedBlock(lines, i+1)
			renderExplicit(w, m[1], m[2], cont)
			i = next
		default:
			flushFields()
			para = append(para, line)
			i++
		}
	}
	flushPara()
	flushFields()
}

// indentedBlock returns the dedented lines indented below lines[start-1] and
// the index of the first line after them.
func indentedBlock(lines []string, start int) ([]string, int) {
	end := start
	for j := start; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) == "" {
			continue
		}
		if !strings.HasPrefix(lines[j], " ") {
			break
		}
		end = j + 1
	}
	var block []string
	for _, l := range lines[start:end] {
		block = append(block, strings.TrimSpace(l))
	}
	return block, end
}

func renderExplicit(w io.Writer, kind, arg string, body []string) {
	if kind == "rubric" {
		fmt.Fprintf(w, "#### %s\n\n", arg)
		return
	}
	heading, ok := admonitionHeading[kind]
	if !ok {
		heading = kind
	}
	text := trimEmpty(append([]string{arg}, body...))
	if len(text) == 0 {
		fmt.Fprintf(w, "> **%s**\n\n", heading)
		return
	}
	fmt.Fprintf(w, "> **%s:** %s\n", heading, text[0])
	for _, l := range text[1:] {
		if l == "" {
			fmt.Fprintln(w, ">")
			continue
		}
		fmt.Fprintf(w, "> %s\n", l)
	}
	fmt.Fprintln(w)
}

func renderFields(w io.Writer, g *fieldGroup) {
	renderEntries(w, "Parameters", g.params)
	renderEntries(w, "Keyword arguments", g.keywords)
	if g.returns != "" || g.rtype != "" {
		fmt.Fprintf(w, "**Returns**\n\n%s\n\n", returnLine(g.rtype, g.returns))
	}
	if len(g.raises) > 0 {
		fmt.Fprintf(w, "**Raises**\n\n")
		for _, e := range g.raises {
			fmt.Fprintln(w, bulletLine(e.name, "", e.desc))
		}
		fmt.Fprintln(w)
	}
	for _, e := range g.other {
		fmt.Fprintf(w, "**%s:** %s\n\n", e.name, e.desc)
	}
}

func renderEntries(w io.Writer, title string, entries []*fieldEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(w, "**%s**\n\n", title)
	for _, e := range entries {
		fmt.Fprintln(w, bulletLine(e.name, e.typ, e.desc))
	}
	fmt.Fprintln(w)
}

func returnLine(typ, desc string) string {
	switch {
	case typ != "" && desc != "":
		return fmt.Sprintf("- *%s* — %s", typ, desc)
	case typ != "":
		return fmt.Sprintf("- *%s*", typ)
	default:
		return "- " + desc
	}
}

func bulletLine(name, typ, desc string) string {
	head := fmt.Sprintf("- `%s`", name)
	if typ != "" {
		head += fmt.Sprintf(" (*%s*)", typ)
	}
	if desc == "" {
		return head
	}
	return head + " — " + desc
}

func writeCodeBlock(w io.Writer, code string) {
	if code == "" {
		return
	}
	fmt.Fprintf(w, "```jinja\n%s\n```\n\n", strings.TrimSpace(code))
}

func trimEmpty(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}
