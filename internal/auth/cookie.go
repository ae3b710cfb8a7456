package auth

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "token"

// CookieFactory builds session cookies with one attribute set per deployment.
type CookieFactory struct {
	secure   bool
	sameSite http.SameSite
	maxAge   time.Duration
}

// NewCookieFactory returns Secure + SameSite=Strict cookies in production and
// SameSite=Lax otherwise. maxAge should not exceed the token validity.
func NewCookieFactory(production bool, maxAge time.Duration) *CookieFactory {
	f := &CookieFactory{
		secure:   production,
		sameSite: http.SameSiteLaxMode,
		maxAge:   maxAge,
	}
	if production {
		f.sameSite = http.SameSiteStrictMode
	}
	return f
}

// Session returns a cookie carrying token.
func (f *CookieFactory) Session(token string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(f.maxAge.Seconds()),
		Expires:  time.Now().Add(f.maxAge),
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: f.sameSite,
	}
}

// Cleared returns a cookie that makes the client drop the session.
func (f *CookieFactory) Cleared() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: f.sameSite,
	}
}
