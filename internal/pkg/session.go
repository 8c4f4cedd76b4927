package pkg

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	SessionCookieName = "user_session"
	sessionCookieTTL  = 24 * time.Hour
)

// GenerateNewSessionID - returns a random id for a browser session.
func GenerateNewSessionID() string {
	return uuid.NewString()
}

// SessionCookie - returns the session id carried by the request.
// When the request has none, a new id is generated and the cookie to hand out is returned with it.
func SessionCookie(req *http.Request) (string, *http.Cookie) {
	if cookie, err := req.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	sessionID := GenerateNewSessionID()

	return sessionID, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Expires:  time.Now().Add(sessionCookieTTL),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// SessionID - returns the session id from the request cookie, setting a new cookie when there is none.
func SessionID(writer http.ResponseWriter, req *http.Request) string {
	sessionID, cookie := SessionCookie(req)
	if cookie != nil {
		http.SetCookie(writer, cookie)
	}

	return sessionID
}
