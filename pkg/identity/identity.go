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

// Package identity builds X-Rh-Identity headers for the internal
// cost-management API. The header is a base64-encoded JSON assertion of org,
// account, and entitlement; internal services trust it in lieu of a JWT.
//
// The package also constructs deliberately broken headers so tests can
// exercise the documented authentication error taxonomy.
package identity

import (
	"encoding/base64"
	"encoding/json"
)

// Default org and account used by the suite. The backend provisions a tenant
// schema per org on first use, so keeping these stable lets successive runs
// share one tenant.
const (
	DefaultOrgID         = "12345"
	DefaultAccountNumber = "12345"
	DefaultEmail         = "cost-e2e@example.com"
)

// Identity mirrors the identity block the internal API expects.
type Identity struct {
	OrgID         string
	AccountNumber string
	Email         string
	Type          string
	IsOrgAdmin    bool
	Entitled      bool
	// omitEmail drops the email field entirely rather than sending "".
	omitEmail bool
	// omitEntitlements drops the entitlements block entirely.
	omitEntitlements bool
}

// Default returns the well-formed admin identity used by positive-path tests.
func Default() Identity {
	return Identity{
		OrgID:         DefaultOrgID,
		AccountNumber: DefaultAccountNumber,
		Email:         DefaultEmail,
		Type:          "User",
		IsOrgAdmin:    true,
		Entitled:      true,
	}
}

// NonAdmin returns an identity with is_org_admin false. Create operations
// against the internal sources API fail with 424 for non-admins.
func NonAdmin() Identity {
	id := Default()
	id.IsOrgAdmin = false
	return id
}

// WithoutEntitlement returns an identity lacking the cost_management
// entitlement block. The API answers 403.
func WithoutEntitlement() Identity {
	id := Default()
	id.omitEntitlements = true
	return id
}

// WithoutEmail returns an identity missing the email field. The API
// answers 401.
func WithoutEmail() Identity {
	id := Default()
	id.omitEmail = true
	return id
}

// WithOrg returns the default identity scoped to a different org.
func WithOrg(orgID, accountNumber string) Identity {
	id := Default()
	id.OrgID = orgID
	id.AccountNumber = accountNumber
	return id
}

type wireUser struct {
	Email      string `json:"email,omitempty"`
	IsOrgAdmin bool   `json:"is_org_admin"`
}

type wireIdentity struct {
	OrgID         string   `json:"org_id"`
	AccountNumber string   `json:"account_number"`
	Type          string   `json:"type"`
	User          wireUser `json:"user"`
}

type wireEntitlement struct {
	IsEntitled bool `json:"is_entitled"`
}

type wirePayload struct {
	Identity     wireIdentity               `json:"identity"`
	Entitlements map[string]wireEntitlement `json:"entitlements,omitempty"`
}

// JSON renders the identity payload without base64 encoding.
func (id Identity) JSON() ([]byte, error) {
	p := wirePayload{
		Identity: wireIdentity{
			OrgID:         id.OrgID,
			AccountNumber: id.AccountNumber,
			Type:          id.Type,
			User:          wireUser{IsOrgAdmin: id.IsOrgAdmin},
		},
	}
	if !id.omitEmail {
		p.Identity.User.Email = id.Email
	}
	if !id.omitEntitlements {
		p.Entitlements = map[string]wireEntitlement{
			"cost_management": {IsEntitled: id.Entitled},
		}
	}
	return json.Marshal(p)
}

// Header renders the base64 header value for X-Rh-Identity.
func (id Identity) Header() string {
	raw, err := id.JSON()
	if err != nil {
		// Marshal of a plain struct cannot fail; keep the signature simple.
		return ""
	}
	return base64.StdEncoding.EncodeToString(raw)
}

// MalformedBase64 returns a header value that is not valid base64.
// The API answers 403.
func MalformedBase64() string {
	return "not-valid-base64!!!"
}

// InvalidJSON returns valid base64 wrapping a non-JSON payload.
// The API answers 401.
func InvalidJSON() string {
	return base64.StdEncoding.EncodeToString([]byte("this is not json"))
}

// HeaderName is the canonical identity header name.
const HeaderName = "X-Rh-Identity"
