// internal/view/watch.go
//
// Development-mode template reloader.
//
// Watch blocks until ctx is cancelled, re-parsing the template set whenever
// an *.html file under the template directory is written, created, removed,
// or renamed.  A failed parse is logged and the previous set stays live, so
// a half-saved file never takes the site down.
//
// Directories created after Watch starts are not picked up; restart the
// process after adding a new partials folder.

package view

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/lacasailpaese/vetrina/internal/metrics"
)

const reloadOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// Watch reloads e on template changes until ctx is done.
func (e *Engine) Watch(ctx context.Context, log *zap.SugaredLogger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("template watcher: %w", err)
	}
	defer w.Close()

	dirs, err := collectDirs(e.dir)
	if err != nil {
		return fmt.Errorf("template watcher: %w", err)
	}
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}
	log.Infow("template watcher online", "dir", e.dir, "dirs", len(dirs))

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(reloadOps) || !strings.EqualFold(filepath.Ext(ev.Name), ".html") {
				continue
			}
			if err := e.Reload(); err != nil {
				metrics.TemplateReloadsTotal.WithLabelValues("error").Inc()
				log.Errorw("template reload failed", "file", ev.Name, "err", err)
				continue
			}
			metrics.TemplateReloadsTotal.WithLabelValues("ok").Inc()
			log.Infow("templates reloaded", "file", ev.Name, "op", ev.Op.String())

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warnw("template watcher error", "err", err)
		}
	}
}
