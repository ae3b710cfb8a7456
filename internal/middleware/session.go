package middleware

import (
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/sondreb/foodie/internal/auth"
	apperrors "github.com/sondreb/foodie/internal/errors"
)

// ClaimsContextKey holds the verified *auth.Claims on the echo context.
const ClaimsContextKey = "claims"

// SessionVerifier is implemented by the auth service.
type SessionVerifier interface {
	VerifySession(token string) (*auth.Claims, error)
	RequireAdmin(token string) (*auth.Claims, error)
}

// Session requires a valid session cookie.
func Session(verifier SessionVerifier) echo.MiddlewareFunc {
	return cookieJWT(func(token string) (*auth.Claims, error) {
		return verifier.VerifySession(token)
	})
}

// Admin requires a valid session cookie whose claims carry the admin role.
func Admin(verifier SessionVerifier) echo.MiddlewareFunc {
	return cookieJWT(func(token string) (*auth.Claims, error) {
		return verifier.RequireAdmin(token)
	})
}

func cookieJWT(verify func(token string) (*auth.Claims, error)) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + auth.SessionCookieName,
		ContextKey:  ClaimsContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return verify(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			switch {
			case errors.Is(err, apperrors.ErrForbidden),
				errors.Is(err, apperrors.ErrSessionExpired),
				errors.Is(err, apperrors.ErrUnauthorized):
				return err
			}
			// Extraction failures mean no cookie was sent.
			return apperrors.ErrUnauthorized
		},
	})
}

// ClaimsFrom returns the claims stored by Session or Admin.
func ClaimsFrom(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(ClaimsContextKey).(*auth.Claims)
	return claims, ok && claims != nil
}
