package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/repository"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	clientRepo := repository.NewClientRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	svc := NewAuthService(clientRepo, sessionRepo, "test-secret", time.Hour)
	seedClient(t, db, "a@x.com", "p", "acme", true)
	seedClient(t, db, "off@x.com", "p", "acme", false)
	return svc
}

func TestLogin(t *testing.T) {
	svc := newAuthService(t)

	result, err := svc.Login(LoginInput{Email: "a@x.com", Password: "p"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "a@x.com", result.Session.Email)
	assert.Equal(t, "acme", result.Session.ClientGroup)
	assert.True(t, result.Session.ExpiresAt.After(time.Now()))
}

func TestLoginNormalizesEmail(t *testing.T) {
	svc := newAuthService(t)

	result, err := svc.Login(LoginInput{Email: "  A@X.COM ", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", result.Session.Email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Login(LoginInput{Email: "a@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = svc.Login(LoginInput{Email: "nobody@x.com", Password: "p"})
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestLoginRejectsInactiveClient(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Login(LoginInput{Email: "off@x.com", Password: "p"})
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestLoginRejectsEmptyInput(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Login(LoginInput{Email: "", Password: "p"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Login(LoginInput{Email: "a@x.com", Password: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuthenticate(t *testing.T) {
	svc := newAuthService(t)

	result, err := svc.Login(LoginInput{Email: "a@x.com", Password: "p"})
	require.NoError(t, err)

	session, err := svc.Authenticate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.Session.Token, session.Token)
	assert.Equal(t, result.Session.ClientID, session.ClientID)
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Authenticate("not-a-jwt")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc := newAuthService(t)

	result, err := svc.Login(LoginInput{Email: "a@x.com", Password: "p"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(result.Token))

	_, err = svc.Authenticate(result.Token)
	assert.ErrorIs(t, err, ErrSessionInvalid)

	// repeating logout is a no-op
	assert.NoError(t, svc.Logout(result.Token))
}

func TestAuthenticateRejectsExpiredSession(t *testing.T) {
	db := newTestDB(t)
	clientRepo := repository.NewClientRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	svc := NewAuthService(clientRepo, sessionRepo, "test-secret", time.Hour)
	seedClient(t, db, "a@x.com", "p", "acme", true)

	result, err := svc.Login(LoginInput{Email: "a@x.com", Password: "p"})
	require.NoError(t, err)

	require.NoError(t, db.Model(result.Session).Update("expires_at", time.Now().Add(-time.Minute)).Error)

	_, err = svc.Authenticate(result.Token)
	assert.ErrorIs(t, err, ErrSessionInvalid)

	// the expired row was removed on sight
	stale, err := sessionRepo.GetByToken(result.Session.Token)
	require.NoError(t, err)
	assert.Nil(t, stale)
}
