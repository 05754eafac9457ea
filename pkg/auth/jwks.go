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

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
)

// VerifySignature validates a token against the realm JWKS. Used by the auth
// smoke test to prove the gateway and the tests agree on the issuing realm.
func VerifySignature(ctx context.Context, keycloakURL, realm, token string) error {
	jwksURL := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/certs", keycloakURL, realm)

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{Ctx: ctx})
	if err != nil {
		return fmt.Errorf("fetching JWKS from %s: %w", jwksURL, err)
	}
	defer jwks.EndBackground()

	parsed, err := jwt.Parse(token, jwks.Keyfunc)
	if err != nil {
		return fmt.Errorf("token signature validation: %w", err)
	}
	if !parsed.Valid {
		return fmt.Errorf("token is not valid")
	}
	return nil
}
