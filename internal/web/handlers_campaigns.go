package web

import (
	"errors"
	"net/http"

	"github.com/digivantrix/campaigns/internal/core"
	appmw "github.com/digivantrix/campaigns/internal/web/middleware"
)

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var p core.CampaignParams
	if err := decodeJSON(r, &p); err != nil {
		respondError(w, r, err)
		return
	}

	// The authenticated user owns the new campaign regardless of what
	// the body claims.
	if user := appmw.UserFrom(r.Context()); user != nil {
		p.CreatedBy = &user.ID
	}

	campaign, err := s.service.CreateCampaign(r.Context(), p)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, campaign)
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.service.ListCampaigns(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	campaign, err := s.service.GetCampaign(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			notFound(w, "Campaign not found")
			return
		}
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (s *Server) handleUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var p core.CampaignParams
	if err := decodeJSON(r, &p); err != nil {
		respondError(w, r, err)
		return
	}

	campaign, err := s.service.UpdateCampaign(r.Context(), id, p)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			notFound(w, "Campaign not found")
			return
		}
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (s *Server) handleDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.service.DeleteCampaign(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			notFound(w, "Campaign not found")
			return
		}
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
