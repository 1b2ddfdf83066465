package web

import (
	"errors"
	"net/http"

	"github.com/digivantrix/campaigns/internal/core"
)

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var p core.UserParams
	if err := decodeJSON(r, &p); err != nil {
		respondError(w, r, err)
		return
	}

	user, err := s.service.CreateUser(r.Context(), p)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.service.ListUsers(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	user, err := s.service.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			notFound(w, "User not found")
			return
		}
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var p core.UserParams
	if err := decodeJSON(r, &p); err != nil {
		respondError(w, r, err)
		return
	}

	user, err := s.service.UpdateUser(r.Context(), id, p)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			notFound(w, "User not found")
			return
		}
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.service.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			notFound(w, "User not found")
			return
		}
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
