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

package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signedToken mints an HS256 token with the given lifetime. The provider only
// reads the exp claim, so the signing key is irrelevant.
func signedToken(t *testing.T, lifetime time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
		Subject:   "service-account-cost-management-operator",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test"))
	require.NoError(t, err)
	return token
}

func countingProvider(t *testing.T, lifetime time.Duration) (*TokenProvider, *int) {
	t.Helper()
	calls := 0
	p := &TokenProvider{Realm: "kubernetes", ClientID: "cost-management-operator"}
	p.login = func(context.Context) (string, error) {
		calls++
		return signedToken(t, lifetime), nil
	}
	return p, &calls
}

func TestTokenIsCachedWhileValid(t *testing.T) {
	p, calls := countingProvider(t, 5*time.Minute)

	first, err := p.Token(context.Background())
	require.NoError(t, err)
	second, err := p.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, *calls, "second call should hit the cache")
}

func TestShortLivedTokenIsNotCached(t *testing.T) {
	// Lifetime shorter than the skew means the cached entry is born expired.
	p, calls := countingProvider(t, 30*time.Second)

	_, err := p.Token(context.Background())
	require.NoError(t, err)
	_, err = p.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, *calls)
}

func TestFreshTokenBypassesCache(t *testing.T) {
	p, calls := countingProvider(t, 5*time.Minute)

	_, err := p.Token(context.Background())
	require.NoError(t, err)
	_, err = p.FreshToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, *calls, "FreshToken must always mint")
}

func TestLoginErrorIsSurfaced(t *testing.T) {
	p := &TokenProvider{Realm: "kubernetes", ClientID: "cost-management-operator"}
	p.login = func(context.Context) (string, error) {
		return "", fmt.Errorf("401 invalid_client")
	}

	_, err := p.Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_client")
}

func TestUnparsableTokenTreatedAsExpired(t *testing.T) {
	assert.True(t, tokenExpiry("garbage").IsZero())
}
