package server

import (
	"net/http"

	"github.com/google/uuid"
)

const sessionCookie = "duck_session"

// session resolves the caller's session id, issuing a new cookie when the
// browser doesn't carry one yet. Every handler goes through this single
// accessor, so downstream code can assume a usable id.
func (s *Server) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
