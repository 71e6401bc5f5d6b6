package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
)

// TokenVerifier verifies a Firebase ID token. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// Identity is the verified caller identity stored on the request context.
type Identity struct {
	UID    string
	Claims map[string]interface{}
}

const identityKey = "auth.identity"

// RequireAuth verifies the Authorization bearer token and stores the
// resulting identity on the echo context for downstream handlers.
func RequireAuth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No authorization token provided"})
			}

			idToken := strings.TrimPrefix(header, "Bearer ")
			decoded, err := verifier.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid authentication token"})
			}

			c.Set(identityKey, &Identity{UID: decoded.UID, Claims: decoded.Claims})
			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by RequireAuth.
func IdentityFrom(c echo.Context) (*Identity, bool) {
	identity, ok := c.Get(identityKey).(*Identity)
	return identity, ok
}
