// internal/view/engine.go
//
// Central view engine: template discovery, func-map injection, and
// rendering into a buffer.
//
// Public helpers
// --------------
//   - New      – parse every *.html under the template directory.
//   - Render   – execute one logical template and return the HTML.
//   - Reload   – re-parse the set and swap it in atomically.
//   - Has      – report whether a logical template exists.
//
// Lookup
// ------
// Callers pass the logical name (e.g. "index").  execName() runs
// "index.html" when the set contains that file, otherwise the root template
// "index" defined via {{ define }}.  Files in sub-directories (partials/)
// join the same set, so {{ template "head" }} works everywhere.
//
// Guarantees
// ----------
//   - html/template escapes every interpolated value.
//   - `missingkey=error`: a variable absent from the Context fails the
//     render instead of printing "<no value>".
//   - Output is produced into a buffer, so a failed render never leaks a
//     half-written page to the client.
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync/atomic"

	"github.com/Masterminds/sprig/v3"
	"github.com/tdewolff/minify/v2"
	minhtml "github.com/tdewolff/minify/v2/html"
)

// Context is the named-variable binding handed to a template.  Values are
// scalars or ordered record slices.
type Context map[string]any

// ErrTemplateNotFound is wrapped in *RenderError when a logical name has no
// template in the parsed set.
var ErrTemplateNotFound = errors.New("template not found")

// RenderError reports a template that is missing or failed to execute.
type RenderError struct {
	Template string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Options configure an Engine.
type Options struct {
	Dir         string // template root, searched recursively
	AssetPrefix string // URL prefix for the asset helper, default "/static/"
	Minify      bool   // minify rendered HTML
}

// Engine holds one parsed template set.  Safe for concurrent Render calls;
// Reload swaps the set without blocking renders already in progress.
type Engine struct {
	dir   string
	funcs template.FuncMap
	set   atomic.Pointer[template.Template]
	min   *minify.M
}

// New parses the template directory.  Any parse error is returned as-is so
// bootstrap can abort before serving.
func New(opts Options) (*Engine, error) {
	if opts.AssetPrefix == "" {
		opts.AssetPrefix = "/static/"
	}

	e := &Engine{
		dir:   opts.Dir,
		funcs: FuncMap(opts.AssetPrefix),
	}
	if opts.Minify {
		m := minify.New()
		m.Add("text/html", &minhtml.Minifier{
			KeepDocumentTags: true,
			KeepEndTags:      true,
			KeepQuotes:       true,
		})
		e.min = m
	}

	if err := e.Reload(); err != nil {
		return nil, err
	}
	return e, nil
}

// Reload parses the directory again and swaps the set on success.  On
// failure the previous set stays live.
func (e *Engine) Reload() error {
	files, err := CollectHTML(e.dir)
	if err != nil {
		return fmt.Errorf("scan templates %s: %w", e.dir, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("scan templates %s: no *.html files", e.dir)
	}

	t, err := template.New("").
		Option("missingkey=error").
		Funcs(e.funcs).
		ParseFiles(files...)
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	e.set.Store(t)
	return nil
}

// Has reports whether the logical template name resolves.
func (e *Engine) Has(name string) bool {
	t := e.set.Load()
	return t.Lookup(execName(t, name)) != nil
}

// Render executes the template named by the logical id with data.
func (e *Engine) Render(name string, data Context) (string, error) {
	t := e.set.Load()
	exec := execName(t, name)
	if t.Lookup(exec) == nil {
		return "", &RenderError{Template: name, Err: ErrTemplateNotFound}
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, exec, data); err != nil {
		return "", &RenderError{Template: name, Err: err}
	}

	if e.min == nil {
		return buf.String(), nil
	}
	var out bytes.Buffer
	if err := e.min.Minify("text/html", &out, &buf); err != nil {
		return "", &RenderError{Template: name, Err: fmt.Errorf("minify: %w", err)}
	}
	return out.String(), nil
}

//
// func-map
//

// FuncMap returns sprig's helpers plus the site's own.  Site helpers win on
// name clashes.
func FuncMap(assetPrefix string) template.FuncMap {
	fm := sprig.FuncMap()
	fm["asset"] = assetFunc(assetPrefix)
	return fm
}

// assetFunc resolves record image paths: absolute paths and URLs pass
// through, anything else is placed under the static prefix.
func assetFunc(prefix string) func(string) string {
	prefix = strings.TrimRight(prefix, "/") + "/"
	return func(p string) string {
		switch {
		case p == "":
			return ""
		case strings.HasPrefix(p, "/"), strings.Contains(p, "://"):
			return p
		default:
			return prefix + p
		}
	}
}

//
// helpers
//

// execName picks the template name to execute.
//
// Priority:
//  1. If the set has "<name>.html" (file-based template), run that.
//  2. Otherwise, fall back to "<name>" (root template defined in a file).
func execName(t *template.Template, name string) string {
	if tmpl := t.Lookup(name + ".html"); tmpl != nil {
		return name + ".html"
	}
	return name
}
