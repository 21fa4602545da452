package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tenant = "0f8fad5b-d9cb-469f-a165-70867728950e"

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	token, expiresAt, err := tm.GenerateToken(tenant, "user-42")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, tenant, claims.TenantID)
	assert.Equal(t, "user-42", claims.ActorID())
}

func TestParseTokenRejects(t *testing.T) {
	tm := NewTokenManager("secret", 5)

	other, _, err := NewTokenManager("other", 5).GenerateToken(tenant, "user-42")
	require.NoError(t, err)
	_, err = tm.ParseToken(other)
	assert.Error(t, err, "wrong secret")

	badTenant, _, err := tm.GenerateToken("acme", "user-42")
	require.NoError(t, err)
	_, err = tm.ParseToken(badTenant)
	assert.Error(t, err, "tenant must be a uuid")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		TenantID: tenant,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = tm.ParseToken(signed)
	assert.Error(t, err, "expired")
}

func TestParseTokenCanonicalizesTenant(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	canonical := "3f2504e0-4f89-11d3-9a0c-0305e82c3301"

	for _, raw := range []string{
		"3F2504E0-4F89-11D3-9A0C-0305E82C3301",
		"{3f2504e0-4f89-11d3-9a0c-0305e82c3301}",
		"urn:uuid:3f2504e0-4f89-11d3-9a0c-0305e82c3301",
		"3f2504e04f8911d39a0c0305e82c3301",
	} {
		token, _, err := tm.GenerateToken(raw, "user-42")
		require.NoError(t, err)

		claims, err := tm.ParseToken(token)
		require.NoError(t, err, raw)
		assert.Equal(t, canonical, claims.TenantID, raw)
	}
}
