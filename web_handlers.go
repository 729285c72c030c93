package main

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"onepager/internal/compose"
	"onepager/internal/export"
	"onepager/internal/layout"
	"onepager/internal/loader"
	"onepager/internal/render"
)

// WebHandler serves the rendered page and its exports.
type WebHandler struct {
	server *Server
}

// ReportPage renders the current state without waiting: the loading page
// refreshes itself until the session resolves.
func (h *WebHandler) ReportPage(w http.ResponseWriter, r *http.Request) {
	renderID := uuid.NewString()
	res := h.server.Session().Snapshot()

	status := http.StatusOK
	if res.State == loader.Error {
		logLoadError(r, res)
		status = http.StatusBadGateway
	}

	v, err := render.NewView(res, h.server.branding, renderID)
	if err != nil {
		h.composeError(w, r, err)
		return
	}
	v.Refresh = h.server.refresh

	var buf bytes.Buffer
	if err := render.HTML(&buf, v); err != nil {
		logger.Error("Template error", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Render-ID", renderID)
	w.Header().Set("X-Load-State", res.State.String())
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Export returns a handler that waits for the dataset and writes the
// document in format f.
func (h *WebHandler) Export(f export.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, ok := h.document(w, r)
		if !ok {
			return
		}

		renderID := uuid.NewString()
		out, err := h.server.exporter.Export(r.Context(), doc, f, renderID)
		if err != nil {
			logger.Error("Export failed", zap.Error(err), zap.String("format", string(f)))
			http.Error(w, "Export failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", f.ContentType())
		w.Header().Set("Content-Length", strconv.Itoa(len(out)))
		w.Header().Set("X-Render-ID", renderID)
		_, _ = w.Write(out)
	}
}

// Reload starts a new load and redirects back to the page.
func (h *WebHandler) Reload(w http.ResponseWriter, r *http.Request) {
	h.server.Reload()
	logger.Info("Dataset reload requested", zap.String("request_id", middleware.GetReqID(r.Context())))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// document waits for the current session and composes it. It writes the
// error response itself and reports false when there is no document.
func (h *WebHandler) document(w http.ResponseWriter, r *http.Request) (*compose.Document, bool) {
	res := h.server.Session().Load(r.Context())
	switch res.State {
	case loader.Loading:
		w.Header().Set("Retry-After", "1")
		http.Error(w, "Evaluation data is still loading.", http.StatusServiceUnavailable)
		return nil, false
	case loader.Error:
		logLoadError(r, res)
		http.Error(w, loader.ErrorMessage, http.StatusBadGateway)
		return nil, false
	}

	doc, err := compose.Build(res.Report, h.server.branding)
	if err != nil {
		h.composeError(w, r, err)
		return nil, false
	}
	return doc, true
}

func (h *WebHandler) composeError(w http.ResponseWriter, r *http.Request, err error) {
	logger.Error("Failed to compose report",
		zap.Error(err),
		zap.String("request_id", middleware.GetReqID(r.Context())))
	if errors.Is(err, layout.ErrPageOverflow) {
		http.Error(w, "Report does not fit on one page", http.StatusUnprocessableEntity)
		return
	}
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// logLoadError records the cause of a failed load. Users only ever see
// loader.ErrorMessage.
func logLoadError(r *http.Request, res loader.Result) {
	logger.Error("Evaluation data load failed",
		zap.Error(res.Err),
		zap.String("request_id", middleware.GetReqID(r.Context())))
}
