package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	svc := NewAuthService(testAuthConfig())

	_, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	first, err := svc.Login("admin", "secret")
	require.NoError(t, err)
	second, err := svc.Login("admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, first.HostID, second.HostID)
	assert.Equal(t, HostID("admin"), first.HostID)
	assert.NotEqual(t, HostID("admin"), HostID("other"))

	claims, err := svc.ValidateHostToken(first.Token)
	require.NoError(t, err)
	assert.Equal(t, first.HostID, claims.HostID)
}

func TestLoginDisabledWithoutPassword(t *testing.T) {
	cfg := testAuthConfig()
	cfg.HostPassword = ""
	svc := NewAuthService(cfg)

	_, err := svc.Login("admin", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRespondentToken(t *testing.T) {
	svc := NewAuthService(testAuthConfig())

	token, err := svc.GenerateRespondentToken("feedback", "resp-1", "anon")
	require.NoError(t, err)

	claims, err := svc.ValidateRespondentToken(token)
	require.NoError(t, err)
	assert.Equal(t, "feedback", claims.SurveyID)
	assert.Equal(t, "resp-1", claims.ResponseID)

	// A respondent token is not a host token
	_, err = svc.ValidateHostToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	svc := NewAuthService(testAuthConfig())
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }

	token, err := svc.GenerateRespondentToken("feedback", "resp-1", "")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateRespondentToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService(testAuthConfig())
	other.jwtSecret = []byte("different")
	_, err = other.ValidateRespondentToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
