package web

import (
	"net/http"
	"strconv"

	"github.com/digivantrix/campaigns/internal/core"
	"github.com/digivantrix/campaigns/internal/logging"
)

func (s *Server) handleTopCampaigns(w http.ResponseWriter, r *http.Request) {
	by := core.RankByCTR
	switch r.URL.Query().Get("by") {
	case "", "ctr":
	case "conversions":
		by = core.RankByConversions
	default:
		respondError(w, r, &core.ValidationError{Msg: "invalid by parameter, expected ctr or conversions"})
		return
	}

	limit := intQuery(r, "limit", 5)
	if limit > 100 {
		limit = 100
	}

	dr, err := dateRangeQuery(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	ranked, err := s.service.TopCampaigns(r.Context(), by, limit, dr)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ranked)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var clientID *int64
	if raw := r.URL.Query().Get("clientId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondError(w, r, &core.ValidationError{Msg: "invalid clientId"})
			return
		}
		clientID = &id
	}

	dr, err := dateRangeQuery(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	summary, err := s.service.CampaignSummary(r.Context(), clientID, dr)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	filter, err := metricFilterQuery(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="metrics.csv"`)

	if err := s.service.ExportMetrics(r.Context(), filter, w); err != nil {
		// Headers are already written, so the client sees a truncated body.
		logging.FromContext(r.Context()).Error("export failed", "error", err)
	}
}
