package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/lacasailpaese/vetrina/internal/metrics"
	"github.com/lacasailpaese/vetrina/internal/page"
	"github.com/lacasailpaese/vetrina/internal/record"
	"github.com/lacasailpaese/vetrina/internal/requestinfo"
	"github.com/lacasailpaese/vetrina/internal/store"
	"github.com/lacasailpaese/vetrina/internal/view"
)

// ErrorBody is the only thing a client learns about a failed page.
const ErrorBody = "Errore nel rendering"

// pageHandler runs the pipeline for p.  The body is rendered in full before
// the first byte is written, so a client sees either the page or ErrorBody.
func pageHandler(p page.Page, src store.Source, r page.Renderer, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		html, err := p.Serve(req.Context(), src, r)
		if err != nil {
			kind := errorKind(err)
			metrics.PageErrorsTotal.WithLabelValues(p.Name, kind).Inc()

			fields := []any{"page", p.Name, "kind", kind, "err", err}
			if info := requestinfo.FromContext(req.Context()); info != nil {
				fields = append(fields, "request_id", info.ID)
			}
			log.Errorw("page failed", fields...)

			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, ErrorBody)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, html)
	}
}

// errorKind labels err for metrics and logs.
func errorKind(err error) string {
	var (
		qe *store.QueryError
		de *record.RowDecodeError
		re *view.RenderError
	)
	// Cancellation is checked first: the executor wraps it in *QueryError.
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.As(err, &qe):
		return "query"
	case errors.As(err, &de):
		return "decode"
	case errors.As(err, &re):
		return "render"
	default:
		return "internal"
	}
}

// healthHandler pings the data source with a short deadline.
func healthHandler(src store.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := src.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			io.WriteString(w, "database unavailable")
			return
		}
		io.WriteString(w, "ok")
	}
}
