package web

import (
	"net/http"

	"github.com/digivantrix/campaigns/internal/logging"
	"github.com/google/uuid"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	session, user, err := s.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    session.Token.String(),
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   s.cfg.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	logging.FromContext(r.Context()).Info("user logged in",
		"user_id", user.ID, "username", user.Username)

	writeJSON(w, http.StatusOK, map[string]any{
		"token": session.Token.String(),
		"user":  user,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(r, s.cfg.Session.CookieName)
	if ok {
		if err := s.service.Logout(r.Context(), token); err != nil {
			respondError(w, r, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// sessionToken pulls the session token from the cookie or the
// X-Session-Token header, matching what appmw.SessionAuth accepts.
func sessionToken(r *http.Request, cookieName string) (uuid.UUID, bool) {
	raw := ""
	if c, err := r.Cookie(cookieName); err == nil {
		raw = c.Value
	} else if h := r.Header.Get("X-Session-Token"); h != "" {
		raw = h
	}
	if raw == "" {
		return uuid.Nil, false
	}
	token, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return token, true
}
