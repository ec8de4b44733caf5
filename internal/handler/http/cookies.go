package http

import (
	"net/http"
	"time"

	"github.com/utafrali/AssistantGo/internal/domain"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"

	cookieMaxAge = 24 * time.Hour
)

// cookieWriter writes and clears the auth cookies. Tokens travel both in
// the response body and as cookies so browser and non-browser clients are
// served the same way.
type cookieWriter struct {
	secure bool
	domain string
}

func (c cookieWriter) set(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.domain,
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteNoneMode,
	})
}

func (c cookieWriter) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   c.domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteNoneMode,
	})
}

func (c cookieWriter) setAuthCookies(w http.ResponseWriter, pair domain.TokenPair) {
	c.set(w, accessTokenCookie, pair.AccessToken)
	c.set(w, refreshTokenCookie, pair.RefreshToken)
}

func (c cookieWriter) clearAuthCookies(w http.ResponseWriter) {
	c.clear(w, accessTokenCookie)
	c.clear(w, refreshTokenCookie)
}
