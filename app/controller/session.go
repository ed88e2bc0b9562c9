package controller

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	// SessionCookieName is the cookie carrying the cart session id
	SessionCookieName = "cart_session"
	// SessionHeader lets non-browser clients pass the session explicitly
	SessionHeader = "X-Cart-Session"

	sessionMaxAge = 30 * 24 * 60 * 60
)

// sessionID returns the caller's cart session, issuing a new one when the
// request carries none or an invalid one. The id is echoed in SessionHeader.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if id, ok := parseSession(r.Header.Get(SessionHeader)); ok {
		w.Header().Set(SessionHeader, id)
		return id
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if id, ok := parseSession(cookie.Value); ok {
			w.Header().Set(SessionHeader, id)
			return id
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(SessionHeader, id)
	return id
}

// parseSession accepts only canonical UUIDs so a session id is always safe
// to embed in a slot key
func parseSession(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
