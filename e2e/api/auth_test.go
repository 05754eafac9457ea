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

package api

import (
	"crypto/tls"
	"net/http"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insights-onprem/cost-e2e/e2e/helpers"
	"github.com/insights-onprem/cost-e2e/pkg/auth"
)

func TestTokenAcquisition(t *testing.T) {
	s := helpers.SetupTest(t)

	token, err := s.Tokens().Token(s.Ctx)
	require.NoError(t, err, "Client-credentials login should succeed")
	require.NotEmpty(t, token, "Token should not be empty")

	// Tokens are short-lived, so a second call inside the expiry window must
	// hit the cache rather than Keycloak.
	again, err := s.Tokens().Token(s.Ctx)
	require.NoError(t, err)
	assert.Equal(t, token, again, "Second call within expiry should reuse the cached token")
}

func TestTokenSignatureVerifiesAgainstJWKS(t *testing.T) {
	s := helpers.SetupTest(t)

	token, err := s.Tokens().Token(s.Ctx)
	require.NoError(t, err, "Client-credentials login should succeed")

	err = auth.VerifySignature(s.Ctx, s.Cfg.KeycloakURL, s.Cfg.KeycloakRealm, token)
	assert.NoError(t, err, "Token should verify against the realm's JWKS endpoint")
}

func TestGatewayRejectsMissingToken(t *testing.T) {
	s := helpers.SetupTest(t, helpers.WithGateway())

	rest := resty.New().
		SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}). //nolint:gosec
		SetTimeout(30 * time.Second)

	resp, err := rest.R().SetContext(s.Ctx).Get(s.Cfg.CostAPIURL() + "/status/")
	require.NoError(t, err, "Request without a token should still complete")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode(),
		"Gateway should reject requests without a bearer token")
}

func TestGatewayRejectsGarbageToken(t *testing.T) {
	s := helpers.SetupTest(t, helpers.WithGateway())

	rest := resty.New().
		SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}). //nolint:gosec
		SetTimeout(30 * time.Second)

	resp, err := rest.R().
		SetContext(s.Ctx).
		SetAuthToken("not-a-jwt").
		Get(s.Cfg.CostAPIURL() + "/status/")
	require.NoError(t, err, "Request with a garbage token should still complete")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode(),
		"Gateway should reject unverifiable tokens")
}
