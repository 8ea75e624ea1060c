package github

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/auth"
	"github.com/golang-jwt/jwt/v5"
	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/prtimeline/internal/domain/model"
)

// appJWTLifetime is the maximum lifetime GitHub accepts for an App JWT.
const appJWTLifetime = 10 * time.Minute

// ResolveToken returns the token to authenticate with and where it came from.
// An explicit token wins; otherwise go-gh looks at GH_TOKEN, GITHUB_TOKEN,
// GH_ENTERPRISE_TOKEN and the gh CLI credential store for host.
func ResolveToken(explicit, host string) (string, string, error) {
	if token := strings.TrimSpace(explicit); token != "" {
		return token, "config", nil
	}

	if host == "" {
		host = "github.com"
	}
	token, source := auth.TokenForHost(host)
	if token == "" {
		return "", "", fmt.Errorf("resolving token for %s: %w", host, model.ErrAuthMissing)
	}

	slog.Debug("github token resolved", "host", host, "source", source)
	return token, source, nil
}

// LoadAppKey returns the PEM-encoded App private key from inline content or,
// when inline is empty, from the file at path.
func LoadAppKey(inline, path string) ([]byte, error) {
	var key []byte
	switch {
	case strings.TrimSpace(inline) != "":
		key = []byte(inline)
	case path != "":
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("reading app private key: %w", err)
		}
		key = data
	default:
		return nil, fmt.Errorf("no app private key configured: %w", model.ErrAuthMissing)
	}

	if !bytes.Contains(key, []byte("PRIVATE KEY")) {
		return nil, fmt.Errorf("app private key does not look like a PEM private key: %w", model.ErrAuthMissing)
	}
	return key, nil
}

// NewAppClient authenticates as a GitHub App installation on repoFullName and
// returns a Client using the resulting installation token.
func NewAppClient(ctx context.Context, appID int64, privateKey []byte, repoFullName string, opts Options) (*Client, error) {
	httpClient := &http.Client{Timeout: opts.Timeout}
	token, err := InstallationToken(ctx, httpClient, opts.BaseURL, appID, privateKey, repoFullName)
	if err != nil {
		return nil, err
	}
	return NewClient(token, opts)
}

// InstallationToken exchanges an App JWT for an installation access token
// scoped to the installation that covers repoFullName. baseURL may be empty
// for api.github.com.
func InstallationToken(ctx context.Context, httpClient *http.Client, baseURL string, appID int64, privateKey []byte, repoFullName string) (string, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return "", err
	}

	signed, err := signAppJWT(appID, privateKey, time.Now())
	if err != nil {
		return "", err
	}

	client := gh.NewClient(httpClient).WithAuthToken(signed)
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return "", fmt.Errorf("parsing base URL: %w", err)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		client.BaseURL = u
	}

	inst, _, err := client.Apps.FindRepositoryInstallation(ctx, owner, repo)
	if err != nil {
		return "", fmt.Errorf("finding app installation for %s: %w: %w", repoFullName, model.ErrAuthMissing, err)
	}

	tok, _, err := client.Apps.CreateInstallationToken(ctx, inst.GetID(), nil)
	if err != nil {
		return "", fmt.Errorf("creating installation token for %s (installation %d): %w: %w", repoFullName, inst.GetID(), model.ErrAuthMissing, err)
	}

	slog.Info("authenticated as github app installation",
		"app_id", appID,
		"installation_id", inst.GetID(),
		"expires_at", tok.GetExpiresAt().Time,
	)
	return tok.GetToken(), nil
}

// signAppJWT creates the RS256 JWT GitHub expects for App authentication.
// iat is backdated a minute to tolerate clock drift.
func signAppJWT(appID int64, privateKey []byte, now time.Time) (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(privateKey)
	if err != nil {
		return "", fmt.Errorf("parsing app private key: %w", err)
	}

	claims := jwt.MapClaims{
		"iat": now.Add(-time.Minute).Unix(),
		"exp": now.Add(appJWTLifetime).Unix(),
		"iss": strconv.FormatInt(appID, 10),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("signing app JWT: %w", err)
	}
	return signed, nil
}
