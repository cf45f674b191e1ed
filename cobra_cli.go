package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	cobradoc "github.com/spf13/cobra/doc"

	"github.com/agentflare-ai/go-autojinja/internal/jinja"
)

const rootLongDesc = `
autojinja documents Jinja macros from the comments written above them.

A {{# ... #}} comment placed on the line directly before a macro declaration is
read as a Google-style docstring, converted to reStructuredText and emitted as a
jinja:template block wherever a document contains

  .. autojinja:: path/to/template.html

Templates are resolved against template_path, set in autojinja.yaml, through
AUTOJINJA_TEMPLATE_PATH or with --template-path. The CLI includes:

  • build: expand autojinja directives in .rst documents
  • directive, list and render: inspect or document a single template
  • Shell completion generation for bash, zsh, fish, and PowerShell
  • A gen-docs helper that can emit Markdown reference docs for the CLI itself
`

func newRootCmd(stdout io.Writer) *cobra.Command {
	app := &cliApp{stdout: stdout, stderr: os.Stderr}
	cmd := &cobra.Command{
		Use:           "autojinja",
		Short:         "Generate documentation for Jinja macros",
		Long:          strings.TrimSpace(rootLongDesc),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.DisableAutoGenTag = true
	cmd.Version = Version
	cmd.SetOut(stdout)
	cmd.SetErr(io.Discard)
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.PersistentFlags()
	flags.StringVar(&app.opts.configPath, "config", "", "config file (default: ./autojinja.yaml)")
	flags.String("template-path", "", "directory templates are resolved against")
	flags.String("builder", "", "output flavour for jinja:template blocks (rst|markdown)")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	_ = cmd.RegisterFlagCompletionFunc("builder", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"rst", "markdown"}, cobra.ShellCompDirectiveNoFileComp
	})

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		switch cmd.Name() {
		case "help", "completion", "gen-docs":
			return nil
		}
		return app.load(cmd)
	}

	cmd.AddCommand(newBuildCmd(app))
	cmd.AddCommand(newDirectiveCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newRenderCmd(app))
	cmd.AddCommand(newCompletionCmd(cmd))
	cmd.AddCommand(newDocsCmd(cmd))
	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newBuildCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [source]",
		Short: "Expand autojinja directives in reST documents",
		Long: strings.TrimSpace(`
Expand every autojinja directive in a document, or in every document below a
directory whose name ends in source_suffix (default .rst).

A single document is written to stdout or to the file named by -o. A directory
is mirrored into the directory named by -o; with the markdown builder output
files get a .md extension.

Example:

  autojinja build docs -o _build/docs
`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVarP(&app.opts.outputPath, "output", "o", "", "write output to file or directory instead of stdout")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		source := "."
		if len(args) == 1 {
			source = args[0]
		}
		return app.build(commandContext(cmd), source)
	}
	return cmd
}

func newDirectiveCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "directive <template>",
		Short: "Print the reST an autojinja directive expands to",
		Long: strings.TrimSpace(`
Run a single autojinja directive for the template and print the lines it emits,
exactly as build would splice them into a document.
`),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := cmd.Flags()
	flags.String(jinja.OptionEndpoints, "", "comma separated endpoint labels to document")
	flags.String(jinja.OptionUndocEndpoints, "", "comma separated endpoint labels to skip")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		var options []string
		for _, name := range []string{jinja.OptionEndpoints, jinja.OptionUndocEndpoints} {
			if flags.Changed(name) {
				value, _ := flags.GetString(name)
				options = append(options, ":"+name+": "+value)
			}
		}
		return app.directive(args[0], options)
	}
	return cmd
}

func newListCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "list <template>",
		Short:         "List the documented macros of a template",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVar(&app.opts.format, "format", formatTable, "output format (table|yaml|json)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{formatTable, formatYAML, formatJSON}, cobra.ShellCompDirectiveNoFileComp
	})
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return app.list(args[0])
	}
	return cmd
}

func newRenderCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <template>...",
		Short: "Render Markdown documentation for templates",
		Long: strings.TrimSpace(`
Render the documented macros of one or more templates as Markdown.

When -o points to a directory (or has no extension) one Markdown file is written
per template, plus a README.md linking to each of them.

Example:

  autojinja render forms.html layout.html -o docs/templates
`),
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVarP(&app.opts.outputPath, "output", "o", "", "write output Markdown to file or directory instead of stdout")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return app.render(commandContext(cmd), args)
	}
	return cmd
}

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	const (
		longDesc = `Generate shell completion scripts for autojinja.

The output should be evaluated by your shell. For example:

  # bash
  autojinja completion bash > /usr/local/etc/bash_completion.d/autojinja

  # zsh
  autojinja completion zsh > "${fpath[1]}/_autojinja"

  # fish
  autojinja completion fish | source

  # PowerShell
  autojinja completion powershell | Out-String | Invoke-Expression
`
	)
	cmd := &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion scripts",
		Long:                  longDesc,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return root.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return root.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return root.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return root.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell %q", args[0])
		}
	}
	return cmd
}

func newDocsCmd(root *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen-docs [directory]",
		Short: "Generate Markdown reference docs for the CLI",
		Long: strings.TrimSpace(`
Write a Markdown file per command (suitable for publishing CLI docs).

Example:

  autojinja gen-docs ./docs/cli
`),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		target := args[0]
		if target == "" {
			return fmt.Errorf("target directory is required")
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return err
		}
		return cobradoc.GenMarkdownTree(root, target)
	}
	return cmd
}
