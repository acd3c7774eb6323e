package sessiontoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateParseRoundTrip(t *testing.T) {
	token, err := Generate("secret", "session-123", time.Hour)
	require.NoError(t, err)

	sid, err := Parse("secret", token)
	require.NoError(t, err)
	require.Equal(t, "session-123", sid)
}

func TestParseWrongSecret(t *testing.T) {
	token, err := Generate("secret", "session-123", time.Hour)
	require.NoError(t, err)

	_, err = Parse("another-secret", token)
	require.Error(t, err)
}

func TestParseExpiredToken(t *testing.T) {
	token, err := Generate("secret", "session-123", -time.Minute)
	require.NoError(t, err)

	_, err = Parse("secret", token)
	require.Error(t, err)
}

func TestParseGarbage(t *testing.T) {
	_, err := Parse("secret", "not-a-token")
	require.Error(t, err)
}

func TestParseEmptySessionID(t *testing.T) {
	token, err := Generate("secret", "", time.Hour)
	require.NoError(t, err)

	_, err = Parse("secret", token)
	require.Error(t, err)
}
