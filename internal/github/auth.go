package github

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rlamana/create-agent/internal/apierr"
)

// AppAuth holds GitHub App authentication configuration. It mints one
// installation token per call and never refreshes it.
type AppAuth struct {
	AppID      string
	PrivateKey string
	API        APIConfig
}

// GenerateJWT creates a JWT token for GitHub App authentication
func (a *AppAuth) GenerateJWT() (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(a.PrivateKey))
	if err != nil {
		return "", apierr.Invalid("GITHUB_PRIVATE_KEY", "failed to parse private key: %v", err)
	}

	appID, err := strconv.ParseInt(strings.TrimSpace(a.AppID), 10, 64)
	if err != nil {
		return "", apierr.Invalid("GITHUB_APP_ID", "invalid app ID: %v", err)
	}

	// Backdate issuance to tolerate clock drift against GitHub.
	now := time.Now()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now.Add(-60 * time.Second)),
		ExpiresAt: jwt.NewNumericDate(now.Add(9 * time.Minute)),
		Issuer:    strconv.FormatInt(appID, 10),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signedToken, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT: %w", err)
	}

	return signedToken, nil
}

// Token looks up the App installation for the issue's repository and
// creates an installation access token for it.
func (a *AppAuth) Token(ctx context.Context, ref IssueRef) (string, error) {
	jwtToken, err := a.GenerateJWT()
	if err != nil {
		return "", err
	}

	client, err := a.API.client(jwtToken)
	if err != nil {
		return "", err
	}

	installation, _, err := client.Apps.FindRepositoryInstallation(ctx, ref.Owner, ref.Repo)
	if err != nil {
		return "", fmt.Errorf("find installation for %s: %w", ref.FullName(), err)
	}

	token, _, err := client.Apps.CreateInstallationToken(ctx, installation.GetID(), nil)
	if err != nil {
		return "", fmt.Errorf("create installation token: %w", err)
	}
	if token.GetToken() == "" {
		return "", fmt.Errorf("installation %d returned an empty token", installation.GetID())
	}
	return token.GetToken(), nil
}
