package github_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghAdapter "github.com/ericfisherdev/prtimeline/internal/adapter/driven/github"
	"github.com/ericfisherdev/prtimeline/internal/domain/model"
)

func generateKey(t *testing.T) (*rsa.PrivateKey, []byte) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pemBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	return key, pemBytes
}

func TestResolveToken_Explicit(t *testing.T) {
	token, source, err := ghAdapter.ResolveToken("  ghp_explicit ", "github.com")

	require.NoError(t, err)
	assert.Equal(t, "ghp_explicit", token)
	assert.Equal(t, "config", source)
}

func TestResolveToken_FromEnvironment(t *testing.T) {
	t.Setenv("GH_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "ghp_from_env")

	token, _, err := ghAdapter.ResolveToken("", "github.com")

	require.NoError(t, err)
	assert.Equal(t, "ghp_from_env", token)
}

func TestLoadAppKey(t *testing.T) {
	_, pemBytes := generateKey(t)

	got, err := ghAdapter.LoadAppKey(string(pemBytes), "")
	require.NoError(t, err)
	assert.Equal(t, pemBytes, got)

	path := filepath.Join(t.TempDir(), "app.pem")
	require.NoError(t, os.WriteFile(path, pemBytes, 0o600))
	got, err = ghAdapter.LoadAppKey("", path)
	require.NoError(t, err)
	assert.Equal(t, pemBytes, got)
}

func TestLoadAppKey_Errors(t *testing.T) {
	_, err := ghAdapter.LoadAppKey("", "")
	assert.ErrorIs(t, err, model.ErrAuthMissing)

	_, err = ghAdapter.LoadAppKey("not a key", "")
	assert.ErrorIs(t, err, model.ErrAuthMissing)

	_, err = ghAdapter.LoadAppKey("", filepath.Join(t.TempDir(), "missing.pem"))
	assert.Error(t, err)
}

func TestInstallationToken(t *testing.T) {
	key, pemBytes := generateKey(t)

	verifyJWT := func(t *testing.T, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		parsed, err := jwt.Parse(raw, func(tok *jwt.Token) (any, error) {
			return &key.PublicKey, nil
		}, jwt.WithValidMethods([]string{"RS256"}))
		require.NoError(t, err)
		iss, err := parsed.Claims.GetIssuer()
		require.NoError(t, err)
		assert.Equal(t, "1234", iss)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/owner/repo/installation", func(w http.ResponseWriter, r *http.Request) {
		verifyJWT(t, r)
		writeJSON(w, http.StatusOK, map[string]any{"id": 99})
	})
	mux.HandleFunc("POST /app/installations/99/access_tokens", func(w http.ResponseWriter, r *http.Request) {
		verifyJWT(t, r)
		writeJSON(w, http.StatusCreated, map[string]any{
			"token":      "ghs_installation",
			"expires_at": "2030-01-01T00:00:00Z",
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	token, err := ghAdapter.InstallationToken(context.Background(), server.Client(), server.URL, 1234, pemBytes, "owner/repo")

	require.NoError(t, err)
	assert.Equal(t, "ghs_installation", token)
}

func TestInstallationToken_NotInstalled(t *testing.T) {
	_, pemBytes := generateKey(t)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/owner/repo/installation", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	_, err := ghAdapter.InstallationToken(context.Background(), server.Client(), server.URL, 1234, pemBytes, "owner/repo")

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrAuthMissing)
}

func TestInstallationToken_BadKey(t *testing.T) {
	_, err := ghAdapter.InstallationToken(context.Background(), http.DefaultClient, "", 1, []byte("garbage"), "owner/repo")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing app private key")
}
