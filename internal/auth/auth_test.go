package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/trendpress/trendpress/internal/tokens"
)

const secret = "operator-secret-32-bytes-xxxxxxxx"

func TestHMACVerifier_AcceptsMintedToken(t *testing.T) {
	raw, err := tokens.GenerateOperatorToken(secret, "cron", time.Minute)
	require.NoError(t, err)

	tok, err := NewHMACVerifier(secret).Verify(context.Background(), raw)
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "cron", claims["sub"])
}

func TestHMACVerifier_Rejects(t *testing.T) {
	v := NewHMACVerifier(secret)

	wrong, err := tokens.GenerateOperatorToken("some-other-secret-xxxxxxxxxxxxxxx", "cron", time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), wrong)
	require.Error(t, err)

	// no exp claim
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "cron"}).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), noExp)
	require.Error(t, err)

	// wrong algorithm
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"sub": "cron", "exp": time.Now().Add(time.Minute).Unix()}).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), hs512)
	require.Error(t, err)

	_, err = v.Verify(context.Background(), "not.a.jwt")
	require.Error(t, err)
}

func TestChain(t *testing.T) {
	raw, err := tokens.GenerateOperatorToken(secret, "cron", time.Minute)
	require.NoError(t, err)

	c := Chain{NewHMACVerifier("first-secret-xxxxxxxxxxxxxxxxxxxxx"), NewHMACVerifier(secret)}
	_, err = c.Verify(context.Background(), raw)
	require.NoError(t, err)

	_, err = Chain{NewHMACVerifier("first-secret-xxxxxxxxxxxxxxxxxxxxx")}.Verify(context.Background(), raw)
	require.ErrorContains(t, err, "token rejected")

	_, err = Chain{}.Verify(context.Background(), raw)
	require.Error(t, err)
}

func TestNewOIDCVerifier_DiscoveryFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewOIDCVerifier(context.Background(), srv.URL, "trendpress")
	require.ErrorContains(t, err, "failed to discover OIDC provider")
}
