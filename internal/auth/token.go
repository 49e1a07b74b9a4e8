package auth

import (
	"net/http"
	"strings"
)

const CookieName = "pos_access_token"

// ExtractAccessToken reads the staff token from the cookie, then the
// Authorization header, then the "token" query parameter. Browsers cannot set
// headers on websocket upgrades, so the dashboard feed uses the query form.
func ExtractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}

	if r.Header.Get("Upgrade") == "websocket" {
		return r.URL.Query().Get("token")
	}

	return ""
}
