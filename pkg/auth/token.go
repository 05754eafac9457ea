/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package auth acquires JWTs from Keycloak via the client-credentials grant.
// Tokens expire after five minutes, which is shorter than the E2E pipeline;
// long-running fixtures must call FreshToken instead of Token.
package auth

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"
	"time"

	"github.com/Nerzal/gocloak/v13"
	"github.com/golang-jwt/jwt/v4"

	"github.com/insights-onprem/cost-e2e/pkg/platform"
)

// expirySkew is subtracted from the token expiry so a cached token is never
// handed out moments before it dies mid-request.
const expirySkew = 60 * time.Second

// loginFunc is swapped out in tests.
type loginFunc func(ctx context.Context) (string, error)

// TokenProvider mints service-account JWTs for the gateway.
type TokenProvider struct {
	Realm    string
	ClientID string

	login loginFunc

	mu        sync.Mutex
	cached    string
	expiresAt time.Time
}

// NewTokenProvider builds a provider against the configured Keycloak.
// TLS verification is skipped: on-prem installs routinely run Keycloak behind
// a self-signed route.
func NewTokenProvider(cfg platform.Config, clientSecret string) *TokenProvider {
	kc := gocloak.NewClient(cfg.KeycloakURL)
	kc.RestyClient().SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec

	p := &TokenProvider{
		Realm:    cfg.KeycloakRealm,
		ClientID: cfg.KeycloakClientID,
	}
	p.login = func(ctx context.Context) (string, error) {
		jwt, err := kc.LoginClient(ctx, p.ClientID, clientSecret, p.Realm)
		if err != nil {
			return "", fmt.Errorf("keycloak client-credentials login for %q failed: %w", p.ClientID, err)
		}
		return jwt.AccessToken, nil
	}
	return p
}

// Token returns a cached token while it is still comfortably within its
// lifetime, minting a new one otherwise. Suitable for short test bodies only.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != "" && time.Now().Before(p.expiresAt) {
		return p.cached, nil
	}

	token, err := p.login(ctx)
	if err != nil {
		return "", err
	}

	p.cached = token
	p.expiresAt = tokenExpiry(token).Add(-expirySkew)
	return token, nil
}

// FreshToken always mints a new token, bypassing the cache. Pipeline stages
// that follow minutes of polling must use this: a token minted at fixture
// setup is expired by the time the recommendations API is queried.
func (p *TokenProvider) FreshToken(ctx context.Context) (string, error) {
	token, err := p.login(ctx)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	p.cached = token
	p.expiresAt = tokenExpiry(token).Add(-expirySkew)
	p.mu.Unlock()
	return token, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// signature is Keycloak's concern, we only need the lifetime. An unparsable
// token is treated as already expired so it is never cached.
func tokenExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
