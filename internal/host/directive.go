package host

import (
	"fmt"
	"log/slog"
)

// Spec describes what a directive accepts.
type Spec struct {
	RequiredArguments int
	OptionalArguments int
	// FinalArgumentWhitespace lets the last argument contain spaces.
	FinalArgumentWhitespace bool
	HasContent              bool
	// Options lists the option names the directive understands.
	Options []string
}

// Directive expands one directive block.
type Directive interface {
	Spec() Spec
	Run(inv *Invocation) (Result, error)
}

// Result is the output of a directive. Unless Raw is set the lines are parsed
// again, so directives may emit other directives.
type Result struct {
	Lines []string
	Raw   bool
}

// Options holds the option fields of a directive block.
type Options map[string]string

// Lookup returns the value of an option and whether it was given at all.
func (o Options) Lookup(name string) (string, bool) {
	v, ok := o[name]
	return v, ok
}

// Invocation carries everything a directive needs to run.
type Invocation struct {
	Name      string
	Arguments []string
	Options   Options
	Content   []string
	// Block is the directive's source text with its indentation removed.
	Block   []string
	Source  string
	Line    int
	Builder string
	Config  Config
	Logger  *slog.Logger
}

// DirectiveError reports a failed directive together with its location.
type DirectiveError struct {
	Source    string
	Line      int
	Directive string
	Err       error
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %v", e.Source, e.Line, e.Directive, e.Err)
}

func (e *DirectiveError) Unwrap() error {
	return e.Err
}
