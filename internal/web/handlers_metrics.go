package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/digivantrix/campaigns/internal/core"
)

// handleUploadMetrics accepts a multipart form with a campaign_id field and
// a CSV file, and runs the atomic ingestion pipeline over it.
func (s *Server) handleUploadMetrics(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(w, r, &core.ValidationError{Msg: "invalid multipart form: " + err.Error()})
		return
	}

	rawID := r.FormValue("campaign_id")
	if rawID == "" {
		respondError(w, r, core.MissingFields("campaign_id"))
		return
	}
	campaignID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || campaignID <= 0 {
		respondError(w, r, &core.ValidationError{Msg: "invalid campaign_id"})
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, core.MissingFields("file"))
		return
	}
	defer file.Close()

	result, err := s.service.IngestMetrics(r.Context(), campaignID, file)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// metricFilterQuery reads the campaignId/from/to filter parameters shared by
// the list and export endpoints.
func metricFilterQuery(r *http.Request) (core.MetricFilter, error) {
	var filter core.MetricFilter
	if raw := r.URL.Query().Get("campaignId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filter, &core.ValidationError{Msg: "invalid campaignId"}
		}
		filter.CampaignID = &id
	}
	dr, err := dateRangeQuery(r)
	if err != nil {
		return filter, err
	}
	filter.Range = dr
	return filter, nil
}

func (s *Server) handleListMetrics(w http.ResponseWriter, r *http.Request) {
	filter, err := metricFilterQuery(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	page := intQuery(r, "page", 1)
	pageSize := intQuery(r, "pageSize", 50)
	if pageSize > 500 {
		pageSize = 500
	}

	result, err := s.service.ListMetrics(r.Context(), filter, page, pageSize)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetMetric(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	row, err := s.service.GetMetric(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			notFound(w, "Metric not found")
			return
		}
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleUpdateMetric(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var upd core.MetricUpdate
	if err := decodeJSON(r, &upd); err != nil {
		respondError(w, r, err)
		return
	}

	row, err := s.service.UpdateMetric(r.Context(), id, upd)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			notFound(w, "Metric not found")
			return
		}
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleDeleteMetric(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.service.DeleteMetric(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			notFound(w, "Metric not found")
			return
		}
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
