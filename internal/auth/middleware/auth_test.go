package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	token *auth.Token
	err   error
	seen  string
}

func (f *fakeVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	f.seen = idToken
	return f.token, f.err
}

func setupAuthed(verifier TokenVerifier) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		identity, ok := IdentityFrom(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, echo.Map{"uid": identity.UID})
	}, RequireAuth(verifier))
	return e
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	e := setupAuthed(&fakeVerifier{})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "No authorization token provided")
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	e := setupAuthed(&fakeVerifier{err: errors.New("expired")})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer bad-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid authentication token")
}

func TestRequireAuth_ValidToken(t *testing.T) {
	verifier := &fakeVerifier{token: &auth.Token{UID: "user-123"}}
	e := setupAuthed(verifier)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "user-123")
	// the Bearer prefix is stripped before verification
	assert.Equal(t, "good-token", verifier.seen)
}
