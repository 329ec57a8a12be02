// internal/page/page.go
//
// Page definitions and the pipeline that turns one into a template context.
//
// Context
// -------
// Every page on the site follows the same steps: run one or more fixed
// statements, map the rows, bind them under named keys next to a few
// constant values, and render one template.  A Page describes those steps
// as data, so handlers never repeat the sequence.
//
//   - Vars  – constant scalars copied into the context as-is.
//   - Data  – named Loaders, each producing one ordered record slice.
//
// Build runs the loaders in key order, so the statement sequence for a page
// is stable from one request to the next.  The first failing loader aborts
// the build and its error is returned unchanged (usually *store.QueryError
// or *record.RowDecodeError).
//
// Notes
// -----
//   - A Page is immutable after Catalogue() returns it and is shared by all
//     requests.
//   - Oxford commas, two spaces after periods.
package page

import (
	"context"
	"fmt"
	"sort"

	"github.com/lacasailpaese/vetrina/internal/record"
	"github.com/lacasailpaese/vetrina/internal/store"
	"github.com/lacasailpaese/vetrina/internal/view"
)

// Loader produces one context value from the data source.
type Loader func(ctx context.Context, src store.Source) (any, error)

// Rows builds a Loader that runs st with params and maps every row with m.
func Rows[T any](st store.Statement, params map[string]any, m record.Mapper[T]) Loader {
	return func(ctx context.Context, src store.Source) (any, error) {
		return store.Fetch(ctx, src, st, params, m)
	}
}

// Page is one routed page.
type Page struct {
	Name     string            // metrics and log label
	Path     string            // chi route pattern
	Template string            // logical template name
	Vars     map[string]any    // constant values
	Data     map[string]Loader // values read from the database
}

// Build assembles the render context for p.  Vars and Data must not share
// a key.
func (p Page) Build(ctx context.Context, src store.Source) (view.Context, error) {
	out := make(view.Context, len(p.Vars)+len(p.Data))
	for k, v := range p.Vars {
		out[k] = v
	}

	keys := make([]string, 0, len(p.Data))
	for k := range p.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, dup := out[k]; dup {
			return nil, fmt.Errorf("page %s: key %q bound twice", p.Name, k)
		}
		v, err := p.Data[k](ctx, src)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// Renderer is the part of *view.Engine the pipeline needs.
type Renderer interface {
	Render(name string, data view.Context) (string, error)
}

// Serve builds the context and renders the page.  The returned string is
// the complete HTML body; on error nothing has been written anywhere.
func (p Page) Serve(ctx context.Context, src store.Source, r Renderer) (string, error) {
	data, err := p.Build(ctx, src)
	if err != nil {
		return "", err
	}
	return r.Render(p.Template, data)
}
