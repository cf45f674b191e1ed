package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/agentflare-ai/go-autojinja/internal/config"
	"github.com/agentflare-ai/go-autojinja/internal/host"
	"github.com/agentflare-ai/go-autojinja/internal/jinja"
)

const (
	formatTable = "table"
	formatYAML  = "yaml"
	formatJSON  = "json"
)

type options struct {
	configPath string
	outputPath string
	format     string
}

type cliApp struct {
	stdout io.Writer
	stderr io.Writer
	opts   options
	cfg    *config.Config
	logger *slog.Logger
}

func run(argv []string, stdout io.Writer) error {
	cmd := newRootCmd(stdout)
	cmd.SetArgs(argv)
	return cmd.Execute()
}

func (app *cliApp) load(cmd *cobra.Command) error {
	cfg, err := config.Load(app.opts.configPath, cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}
	app.cfg = cfg
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	app.logger = slog.New(slog.NewTextHandler(app.stderr, &slog.HandlerOptions{Level: level}))
	if cfg.File != "" {
		app.logger.Debug("using config file", "path", cfg.File)
	}
	return nil
}

// newHost returns a directive host with the autojinja extension installed.
// An empty templatePath leaves every autojinja directive without output.
func (app *cliApp) newHost(builder, templatePath string) (*host.App, error) {
	h := host.New(builder, app.logger)
	if err := h.Setup(jinja.SetupWith(app.cfg.Docstring.Convert())); err != nil {
		return nil, err
	}
	if err := h.SetConfig(jinja.ConfigTemplatePath, templatePath); err != nil {
		return nil, err
	}
	return h, nil
}

// templateRoot is the directory templates named on the command line are
// resolved against.
func (app *cliApp) templateRoot() string {
	if app.cfg.TemplatePath == "" {
		return "."
	}
	return app.cfg.TemplatePath
}

func (app *cliApp) warnUnsetTemplatePath() {
	if app.cfg.TemplatePath == "" {
		app.logger.Warn("template_path is not set; autojinja directives produce no output")
	}
}

func (app *cliApp) build(ctx context.Context, source string) error {
	info, err := os.Stat(source)
	if err != nil {
		return err
	}
	app.warnUnsetTemplatePath()
	h, err := app.newHost(app.cfg.Builder, app.cfg.TemplatePath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		data, err := processFile(h, source)
		if err != nil {
			return err
		}
		return writeOutput(app.opts.outputPath, app.stdout, data)
	}
	if !wantsDirectoryOutput(app.opts.outputPath) {
		return errors.New("directory input requires -o pointing to a directory")
	}
	docs, err := app.collectDocs(ctx, h, source)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no %s documents found under %q", app.cfg.SourceSuffix, source)
	}
	return writeDocsToDir(app.opts.outputPath, docs)
}

type treeDoc struct {
	relPath string
	summary string
	content []byte
}

func (app *cliApp) collectDocs(ctx context.Context, h *host.App, root string) ([]treeDoc, error) {
	skip := absolutePath(app.opts.outputPath)
	var docs []treeDoc
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (strings.HasPrefix(d.Name(), ".") || absolutePath(path) == skip) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), app.cfg.SourceSuffix) {
			return nil
		}
		data, err := processFile(h, path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if app.cfg.Builder == host.BuilderMarkdown {
			rel = strings.TrimSuffix(rel, app.cfg.SourceSuffix) + ".md"
		}
		app.logger.Debug("built document", "source", path, "output", rel)
		docs = append(docs, treeDoc{relPath: rel, content: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func processFile(h *host.App, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	out, err := h.Process(path, lines)
	if err != nil {
		return nil, err
	}
	return []byte(strings.Join(out, "\n") + "\n"), nil
}

func (app *cliApp) directive(template string, opts []string) error {
	app.warnUnsetTemplatePath()
	h, err := app.newHost(host.BuilderRST, app.cfg.TemplatePath)
	if err != nil {
		return err
	}
	doc := []string{".. " + jinja.DirectiveName + ":: " + template}
	for _, opt := range opts {
		doc = append(doc, "   "+opt)
	}
	lines, err := h.Process(template, doc)
	if err != nil {
		return err
	}
	_, err = io.WriteString(app.stdout, strings.Join(lines, "\n")+"\n")
	return err
}

func (app *cliApp) list(template string) error {
	pairs, err := jinja.ExtractFile(jinja.ResolveTemplate(app.templateRoot(), template))
	if err != nil {
		return err
	}
	docs := jinja.Document(pairs, app.cfg.Docstring.Convert())
	switch app.opts.format {
	case "", formatTable:
		return renderTable(app.stdout, docs)
	case formatYAML:
		enc := yaml.NewEncoder(app.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(docs); err != nil {
			return err
		}
		return enc.Close()
	case formatJSON:
		enc := json.NewEncoder(app.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	default:
		return fmt.Errorf("unknown format %q (want %s, %s or %s)", app.opts.format, formatTable, formatYAML, formatJSON)
	}
}

func renderTable(w io.Writer, docs []jinja.MacroDoc) error {
	if len(docs) == 0 {
		_, _ = fmt.Fprintln(w, "(0 macros)")
		return nil
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Line", "Signature", "Summary"})
	for _, doc := range docs {
		t.AppendRow(table.Row{doc.Name, doc.Line, doc.Signature, doc.Summary})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d macros)\n", len(docs))
	return nil
}

func (app *cliApp) render(ctx context.Context, templates []string) error {
	h, err := app.newHost(host.BuilderMarkdown, app.templateRoot())
	if err != nil {
		return err
	}
	docs := make([]treeDoc, 0, len(templates))
	for _, template := range templates {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc, err := renderTemplate(h, template)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	if wantsDirectoryOutput(app.opts.outputPath) {
		if err := writeDocsToDir(app.opts.outputPath, docs); err != nil {
			return err
		}
		return writeIndex(app.opts.outputPath, docs)
	}
	var buf bytes.Buffer
	for i, doc := range docs {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.Write(doc.content)
	}
	return writeOutput(app.opts.outputPath, app.stdout, buf.Bytes())
}

func renderTemplate(h *host.App, template string) (treeDoc, error) {
	pairs, err := jinja.ExtractFile(jinja.ResolveTemplate(h.Config().String(jinja.ConfigTemplatePath), template))
	if err != nil {
		return treeDoc{}, err
	}
	var names []string
	for _, pair := range pairs {
		if m, ok := jinja.ParseDeclaration(pair.Declaration); ok && m.Name != "" {
			names = append(names, m.Name)
		}
	}

	lines, err := h.Process(template, []string{".. " + jinja.DirectiveName + ":: " + template})
	if err != nil {
		return treeDoc{}, err
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", filepath.ToSlash(template))
	if body := strings.TrimSpace(strings.Join(lines, "\n")); body != "" {
		buf.WriteString(body)
		buf.WriteString("\n")
	} else {
		buf.WriteString("_No documented macros._\n")
	}
	rel := strings.TrimSuffix(template, filepath.Ext(template)) + ".md"
	return treeDoc{relPath: rel, summary: strings.Join(names, ", "), content: buf.Bytes()}, nil
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func wantsDirectoryOutput(path string) bool {
	if path == "" || path == "-" {
		return false
	}
	info, err := os.Stat(path)
	if err == nil {
		return info.IsDir()
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false
	}
	if strings.HasSuffix(path, string(os.PathSeparator)) {
		return true
	}
	return filepath.Ext(path) == ""
}

func absolutePath(dir string) string {
	if dir == "" {
		return ""
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Clean(dir)
	}
	return abs
}

func writeDocsToDir(outDir string, docs []treeDoc) error {
	if outDir == "" {
		return errors.New("missing output directory")
	}
	for _, doc := range docs {
		target := filepath.Join(outDir, doc.relPath)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, doc.content, 0o644); err != nil {
			return err
		}
	}
	return nil
}

type tocEntry struct {
	title   string
	link    string
	summary string
}

func writeIndex(outDir string, docs []treeDoc) error {
	entries := make([]tocEntry, 0, len(docs))
	for _, doc := range docs {
		link := filepath.ToSlash(doc.relPath)
		entries = append(entries, tocEntry{
			title:   strings.TrimSuffix(link, ".md"),
			link:    link,
			summary: doc.summary,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].title < entries[j].title
	})
	return os.WriteFile(filepath.Join(outDir, "README.md"), buildTOC(entries), 0o644)
}

func buildTOC(entries []tocEntry) []byte {
	var buf bytes.Buffer
	buf.WriteString("## Templates\n\n")
	for _, entry := range entries {
		if entry.summary != "" {
			fmt.Fprintf(&buf, "- [%s](%s) — %s\n", entry.title, entry.link, entry.summary)
		} else {
			fmt.Fprintf(&buf, "- [%s](%s)\n", entry.title, entry.link)
		}
	}
	return buf.Bytes()
}
