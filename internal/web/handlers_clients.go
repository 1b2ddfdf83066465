package web

import (
	"errors"
	"net/http"

	"github.com/digivantrix/campaigns/internal/core"
)

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var p core.ClientParams
	if err := decodeJSON(r, &p); err != nil {
		respondError(w, r, err)
		return
	}

	client, err := s.service.CreateClient(r.Context(), p)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, client)
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.service.ListClients(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	client, err := s.service.GetClient(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			notFound(w, "Client not found")
			return
		}
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var p core.ClientParams
	if err := decodeJSON(r, &p); err != nil {
		respondError(w, r, err)
		return
	}

	client, err := s.service.UpdateClient(r.Context(), id, p)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			notFound(w, "Client not found")
			return
		}
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.service.DeleteClient(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			notFound(w, "Client not found")
			return
		}
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
