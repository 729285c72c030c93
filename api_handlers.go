package main

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"onepager/internal/insight"
	"onepager/internal/layout"
	"onepager/internal/loader"
	"onepager/internal/series"
)

// APIHandler handles JSON API requests
type APIHandler struct {
	server *Server
}

// reportResponse is the body of GET /api/report. Only the fields for the
// current state are set.
type reportResponse struct {
	State     string            `json:"state"`
	Message   string            `json:"message,omitempty"`
	Title     string            `json:"title,omitempty"`
	Overall   *series.Overall   `json:"overall,omitempty"`
	Questions []series.Question `json:"questions,omitempty"`
	Insights  *insight.Panel    `json:"insights,omitempty"`
	Fits      *bool             `json:"fits_one_page,omitempty"`
}

// Report returns the current load state and, once ready, the chart series
// and insight values. It never blocks on the load.
func (h *APIHandler) Report(w http.ResponseWriter, r *http.Request) {
	res := h.server.Session().Snapshot()
	body := reportResponse{State: res.State.String()}

	switch res.State {
	case loader.Error:
		logLoadError(r, res)
		body.Message = loader.ErrorMessage
		respondJSON(w, http.StatusBadGateway, body)
		return
	case loader.Loading:
		respondJSON(w, http.StatusAccepted, body)
		return
	}

	overall, questions := series.Build(res.Report)
	panel := insight.Build(res.Report)
	_, err := layout.Compose(len(questions), layout.A4)
	fits := err == nil

	body.Title = res.Report.DisplayTitle()
	body.Overall = &overall
	body.Questions = questions
	body.Insights = &panel
	body.Fits = &fits
	respondJSON(w, http.StatusOK, body)
}

// Health reports liveness together with the load state.
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"data":   h.server.Session().Snapshot().State.String(),
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("JSON encoding error", zap.Error(err))
	}
}
