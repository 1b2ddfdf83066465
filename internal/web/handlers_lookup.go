package web

import (
	"errors"
	"net/http"

	"github.com/digivantrix/campaigns/internal/core"
)

// Platforms and tags share the same shape: a named lookup row that
// campaigns reference through a join table.

type lookupRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreatePlatform(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	platform, err := s.service.CreatePlatform(r.Context(), req.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, platform)
}

func (s *Server) handleListPlatforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := s.service.ListPlatforms(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, platforms)
}

func (s *Server) handleDeletePlatform(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.service.DeletePlatform(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			notFound(w, "Platform not found")
			return
		}
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	tag, err := s.service.CreateTag(r.Context(), req.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.service.ListTags(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.service.DeleteTag(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			notFound(w, "Tag not found")
			return
		}
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
