// Package jinja extracts macro documentation from Jinja templates and exposes
// it as the autojinja directive.
//
// A documented macro is a fenced comment directly followed by its declaration:
//
//	{{# Renders a button.
//
//	    Args:
//	        label (str): Button text.
//	#}}
//	{% macro button(label) %}
//
// The comment is read as a Google-style docstring and emitted as a
// jinja:template directive named after the macro.
package jinja

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	commentPattern = regexp.MustCompile(`(?s)\{\{#-?(.*?)-?#\}\}`)
	// The declaration must start on the line right after the comment.
	followPattern = regexp.MustCompile(`^(?:\r\n|\r|\n)([^\r\n]*\S[^\r\n]*)`)
)

// Pair is a fenced comment and the line that follows it.
type Pair struct {
	Comment     string
	Declaration string
	// Line is the 1-based line number of Declaration.
	Line int
}

// FileAccessError reports a template that could not be read.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("reading template %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// ExtractFile reads the template at path and returns its comment pairs.
func ExtractFile(path string) ([]Pair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	return Extract(string(data)), nil
}

// Extract returns the comment pairs of src in document order, or nil when
// there are none. A comment not followed by a non-blank line is skipped.
func Extract(src string) []Pair {
	var pairs []Pair
	for _, loc := range commentPattern.FindAllStringSubmatchIndex(src, -1) {
		end := loc[1]
		m := followPattern.FindStringSubmatchIndex(src[end:])
		if m == nil {
			continue
		}
		declStart := end + m[2]
		pairs = append(pairs, Pair{
			Comment:     src[loc[2]:loc[3]],
			Declaration: src[declStart : end+m[3]],
			Line:        strings.Count(src[:declStart], "\n") + 1,
		})
	}
	return pairs
}
