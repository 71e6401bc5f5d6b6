package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firebase.google.com/go/v4/auth"
)

type fakeTokenAuthority struct {
	token     *auth.Token
	verifyErr error
}

func (f *fakeTokenAuthority) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	return f.token, f.verifyErr
}

func (f *fakeTokenAuthority) CustomToken(ctx context.Context, uid string) (string, error) {
	return "custom-" + uid, nil
}

func googleToken(uid string) *auth.Token {
	return &auth.Token{
		UID: uid,
		Claims: map[string]interface{}{
			"name":    "Alice",
			"email":   "alice@example.com",
			"picture": "https://example.com/alice.png",
		},
	}
}

func TestSignInWithGoogle_CreatesProfileOnFirstLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(&fakeTokenAuthority{token: googleToken("u1")}, repo, userTestLogger(t))

	resp, err := svc.SignInWithGoogle(context.Background(), "id-token")
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "User authenticated successfully", resp.Message)
	assert.Equal(t, "custom-u1", resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, "Alice", resp.User.Name)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.NotNil(t, resp.User.Coins)
	assert.Zero(t, repo.bumps)
}

func TestSignInWithGoogle_BumpsLastLoginOnReturn(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(&fakeTokenAuthority{token: googleToken("u1")}, repo, userTestLogger(t))

	_, err := svc.SignInWithGoogle(context.Background(), "id-token")
	require.NoError(t, err)
	_, err = svc.SignInWithGoogle(context.Background(), "id-token")
	require.NoError(t, err)

	assert.Len(t, repo.profiles, 1)
	assert.Equal(t, 1, repo.bumps)
}

func TestSignInWithGoogle_InvalidToken(t *testing.T) {
	svc := NewAuthService(&fakeTokenAuthority{verifyErr: errors.New("expired")}, newFakeUserRepo(), userTestLogger(t))

	_, err := svc.SignInWithGoogle(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
