// # autojinja
//
// `autojinja` generates reference documentation for Jinja macros. A
// `{{# ... #}}` comment written on the line directly above a macro declaration
// is read as a Google-style docstring, converted to reStructuredText and
// emitted as a `jinja:template` block wherever a document asks for it with
//
//	.. autojinja:: forms.html
//
// Key capabilities:
//
//   - extract every comment/declaration pair of a template, keeping only the
//     pairs whose declaration is a macro.
//   - convert Args, Returns, Raises, Note and similar sections to the field
//     lists and admonitions Sphinx understands.
//   - expand `autojinja` directives in `.rst` documents, either one file or a
//     whole tree mirrored into an output directory.
//   - render the same documentation as Markdown with `--builder markdown` or
//     the `render` command.
//   - ship a Cobra-powered CLI with rich `--help`, `--version`, shell completion,
//     and a `gen-docs` helper for publishing the CLI reference itself.
//
// ## Usage
//
//	autojinja [--config FILE] [--template-path DIR] [--builder rst|markdown] <command>
//
// Examples:
//
//   - Expand the directives of a documentation tree:
//
//     autojinja --template-path templates build docs -o _build/docs
//
//   - Inspect what a single directive expands to:
//
//     autojinja --template-path templates directive forms.html
//
//   - List the documented macros of a template as YAML:
//
//     autojinja list forms.html --format yaml
//
//   - Write Markdown docs for several templates plus an index:
//
//     autojinja render forms.html layout/base.html -o docs/templates
//
// ## Configuration
//
// Settings are read from `autojinja.yaml` in the working directory (or the file
// named by `--config`), then `AUTOJINJA_*` environment variables, then flags:
//
//	template_path: templates   # relative to the config file
//	builder: rst               # rst or markdown
//	source_suffix: .rst
//	docstring:
//	  use_param: true
//	  use_rtype: true
//	  use_keyword: true
//
// Nested keys use a double underscore in the environment, e.g.
// `AUTOJINJA_DOCSTRING__USE_RTYPE=false`.
//
// When `template_path` is empty the templates named by directives are still
// read, but nothing is documented. `list` and `render` resolve their arguments
// against the working directory in that case.
//
// ## Shell Completion
//
// Autocompletion is provided via Cobra's generators:
//
//	autojinja completion bash        # bash
//	autojinja completion zsh         # zsh
//	autojinja completion fish | source
//	autojinja completion powershell | Out-String | Invoke-Expression
//
// ## CLI Docs
//
// `autojinja` can generate Markdown for each CLI command via `gen-docs`:
//
//	autojinja gen-docs ./docs/cli
//
// Every command becomes its own Markdown file under the provided directory.
package main
