package auth

import (
	"context"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "talksport/internal/errors"
)

const (
	// SessionCookieName is the cookie carrying the session token.
	SessionCookieName = "talksport_session"
	// claimsContextKey is where verified claims live on the echo context.
	claimsContextKey = "session"
)

// SessionVerifier resolves a user identity from a session token.
type SessionVerifier struct {
	jwtService *JWTService
	tokenStore TokenStoreInterface
}

// NewSessionVerifier creates a verifier backed by the JWT service and revocation store.
func NewSessionVerifier(jwtService *JWTService, tokenStore TokenStoreInterface) *SessionVerifier {
	return &SessionVerifier{jwtService: jwtService, tokenStore: tokenStore}
}

// Verify checks signature, expiry and revocation of a raw token.
// Every failure is reported as ErrUnauthenticated so callers cannot tell the cases apart.
func (v *SessionVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	claims, err := v.jwtService.ValidateToken(token)
	if err != nil {
		return nil, apperrors.ErrUnauthenticated
	}
	if v.tokenStore != nil {
		revoked, err := v.tokenStore.IsSessionRevoked(ctx, claims.ID)
		if err != nil || revoked {
			return nil, apperrors.ErrUnauthenticated
		}
	}
	return claims, nil
}

// Middleware rejects requests without a valid session.
func (v *SessionVerifier) Middleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(v.config(false))
}

// OptionalMiddleware attaches the session when one is valid and lets anonymous requests through.
func (v *SessionVerifier) OptionalMiddleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(v.config(true))
}

func (v *SessionVerifier) config(optional bool) echojwt.Config {
	return echojwt.Config{
		ContextKey:  claimsContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + SessionCookieName,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return v.Verify(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if optional {
				return nil
			}
			return apperrors.ErrUnauthenticated
		},
		ContinueOnIgnoredError: optional,
	}
}

// ClaimsFrom returns the verified claims attached by the middleware.
func ClaimsFrom(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// UserID returns the verified user id attached by the middleware.
func UserID(c echo.Context) (uint, bool) {
	claims, ok := ClaimsFrom(c)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}

// NewSessionCookie builds the HTTP-only cookie carrying a session token.
func NewSessionCookie(token string, expires time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearSessionCookie builds a cookie that removes the session cookie from the browser.
func ClearSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
