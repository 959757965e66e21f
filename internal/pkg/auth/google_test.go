package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func googlePayload(claims map[string]interface{}) *idtoken.Payload {
	return &idtoken.Payload{
		Issuer:   "https://accounts.google.com",
		Subject:  "sub-123",
		Audience: "client-id",
		Claims:   claims,
	}
}

func TestIdentityFromPayload(t *testing.T) {
	identity, err := identityFromPayload(googlePayload(map[string]interface{}{
		"email":          "jane@gmail.com",
		"email_verified": true,
		"name":           "Jane",
		"picture":        "https://photos.example.com/jane.png",
	}))
	require.NoError(t, err)

	assert.Equal(t, "sub-123", identity.UID)
	assert.Equal(t, "jane@gmail.com", identity.Email)
	assert.Equal(t, "Jane", identity.DisplayName)
	assert.Equal(t, "https://photos.example.com/jane.png", identity.PhotoURL)
}

func TestIdentityFromPayload_NameFallsBackToEmail(t *testing.T) {
	identity, err := identityFromPayload(googlePayload(map[string]interface{}{
		"email":          "jane@gmail.com",
		"email_verified": true,
	}))
	require.NoError(t, err)

	assert.Equal(t, "jane@gmail.com", identity.DisplayName)
}

func TestIdentityFromPayload_UnverifiedEmailRejected(t *testing.T) {
	_, err := identityFromPayload(googlePayload(map[string]interface{}{
		"email":          "jane@gmail.com",
		"email_verified": false,
	}))
	assert.ErrorIs(t, err, ErrInvalidGoogleToken)
}

func TestIdentityFromPayload_MissingEmailRejected(t *testing.T) {
	_, err := identityFromPayload(googlePayload(map[string]interface{}{
		"email_verified": true,
	}))
	assert.ErrorIs(t, err, ErrInvalidGoogleToken)
}

func TestIdentityFromPayload_MissingSubjectRejected(t *testing.T) {
	payload := googlePayload(map[string]interface{}{
		"email":          "jane@gmail.com",
		"email_verified": true,
	})
	payload.Subject = ""

	_, err := identityFromPayload(payload)
	assert.ErrorIs(t, err, ErrInvalidGoogleToken)
}
