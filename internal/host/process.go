package host

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// maxNesting bounds how often directive output is parsed again.
const maxNesting = 8

var (
	directivePattern = regexp.MustCompile(`^([ \t]*)\.\.[ \t]+([A-Za-z0-9][\w:.+-]*?)::(?:[ \t]+(.*?))?[ \t]*$`)
	optionPattern    = regexp.MustCompile(`^:([^:\s][^:]*):(?:[ \t]+(.*?))?[ \t]*$`)
)

// ErrNestingTooDeep is returned when directive output keeps expanding.
var ErrNestingTooDeep = errors.New("directive nesting too deep")

// Process expands every registered directive in lines. source names the
// document in error messages.
func (a *App) Process(source string, lines []string) ([]string, error) {
	return a.process(source, lines, 0, 0)
}

func (a *App) process(source string, lines []string, parentLine, depth int) ([]string, error) {
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); {
		m := directivePattern.FindStringSubmatch(lines[i])
		if m == nil {
			out = append(out, lines[i])
			i++
			continue
		}
		indent, name := m[1], m[2]
		end := blockEnd(lines, i, len(indent))
		d, ok := a.Lookup(name)
		if !ok {
			out = append(out, lines[i:end]...)
			i = end
			continue
		}

		line := i + 1
		if depth > 0 {
			line = parentLine
		}
		if depth >= maxNesting {
			return nil, &DirectiveError{Source: source, Line: line, Directive: name, Err: ErrNestingTooDeep}
		}
		inv, err := a.invocation(d.Spec(), name, m[3], unindent(lines[i:end], len(indent)))
		if err != nil {
			return nil, &DirectiveError{Source: source, Line: line, Directive: name, Err: err}
		}
		inv.Source = source
		inv.Line = line
		a.logger.Debug("running directive", "directive", name, "source", source, "line", line)

		res, err := d.Run(inv)
		if err != nil {
			return nil, &DirectiveError{Source: source, Line: line, Directive: name, Err: err}
		}
		emitted := res.Lines
		if !res.Raw {
			if emitted, err = a.process(source, emitted, line, depth+1); err != nil {
				return nil, err
			}
		}
		for _, l := range emitted {
			if l == "" {
				out = append(out, "")
				continue
			}
			out = append(out, indent+l)
		}
		i = end
	}
	return out, nil
}

func (a *App) invocation(spec Spec, name, argText string, block []string) (*Invocation, error) {
	inv := &Invocation{
		Name:    name,
		Options: Options{},
		Block:   block,
		Builder: a.builder,
		Config:  a.Config(),
		Logger:  a.logger.With("directive", name),
	}

	body := dedentBody(block[1:])
	j := 0
	for ; j < len(body); j++ {
		m := optionPattern.FindStringSubmatch(body[j])
		if m == nil {
			break
		}
		opt := m[1]
		if !slices.Contains(spec.Options, opt) {
			return nil, fmt.Errorf("unknown option: %q", opt)
		}
		if _, dup := inv.Options[opt]; dup {
			return nil, fmt.Errorf("duplicate option: %q", opt)
		}
		inv.Options[opt] = m[2]
	}
	for j < len(body) && strings.TrimSpace(body[j]) == "" {
		j++
	}
	inv.Content = body[j:]
	if len(inv.Content) > 0 && !spec.HasContent {
		return nil, errors.New("no content permitted")
	}

	args, err := splitArguments(spec, argText)
	if err != nil {
		return nil, err
	}
	inv.Arguments = args
	return inv, nil
}

func splitArguments(spec Spec, text string) ([]string, error) {
	limit := spec.RequiredArguments + spec.OptionalArguments
	var args []string
	if text = strings.TrimSpace(text); text != "" {
		args = strings.Fields(text)
	}
	if spec.FinalArgumentWhitespace && limit > 0 && len(args) > limit {
		parts := strings.SplitN(text, " ", limit)
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		args = parts
	}
	if len(args) < spec.RequiredArguments {
		return nil, fmt.Errorf("%d argument(s) required, %d supplied", spec.RequiredArguments, len(args))
	}
	if len(args) > limit {
		return nil, fmt.Errorf("maximum %d argument(s) allowed, %d supplied", limit, len(args))
	}
	return args, nil
}

// blockEnd returns the index after the last line indented deeper than the
// directive at start. Trailing blank lines are not part of the block.
func blockEnd(lines []string, start, indent int) int {
	end := start + 1
	for j := start + 1; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) == "" {
			continue
		}
		if leadingWhitespace(lines[j]) <= indent {
			break
		}
		end = j + 1
	}
	return end
}

func unindent(lines []string, n int) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if leadingWhitespace(line) >= n {
			out[i] = line[n:]
		} else {
			out[i] = strings.TrimLeft(line, " \t")
		}
	}
	return out
}

func dedentBody(lines []string) []string {
	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if n := leadingWhitespace(line); minIndent == -1 || n < minIndent {
			minIndent = n
		}
	}
	if minIndent <= 0 {
		return lines
	}
	return unindent(lines, minIndent)
}

func leadingWhitespace(line string) int {
	count := 0
	for _, r := range line {
		if r == ' ' || r == '\t' {
			count++
			continue
		}
		break
	}
	return count
}
