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

package helpers

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/insights-onprem/cost-e2e/pkg/auth"
	"github.com/insights-onprem/cost-e2e/pkg/db"
	"github.com/insights-onprem/cost-e2e/pkg/identity"
	"github.com/insights-onprem/cost-e2e/pkg/ingest"
	"github.com/insights-onprem/cost-e2e/pkg/kube"
	"github.com/insights-onprem/cost-e2e/pkg/platform"
	"github.com/insights-onprem/cost-e2e/pkg/storage"
)

// TestSetup bundles the per-test infrastructure: context with deadline,
// configuration, logger, and lazily built clients for the gateway, the
// internal API, and the databases.
//
// Typical usage:
//
//	func TestReports(t *testing.T) {
//	    s := helpers.SetupTest(t, helpers.WithGateway())
//	    resp, err := s.Gateway().List(s.Ctx, ingest.PathOCPCosts, nil)
//	    ...
//	}
type TestSetup struct {
	T   *testing.T
	Ctx context.Context
	Cfg platform.Config
	Log *zap.SugaredLogger

	gateway *ingest.Gateway
	tokens  *auth.TokenProvider
	api     *InternalAPI
	koku    *db.Config
	kruize  *db.Config
	store   *storage.Client
	cleanup *Cleanup
}

// SetupOption configures SetupTest.
type SetupOption func(*setupConfig)

type setupConfig struct {
	timeout        time.Duration
	skipE2ECheck   bool
	requireGateway bool
	requireKube    bool
}

// WithTimeout sets a custom test deadline (default MediumTestTimeout).
func WithTimeout(d time.Duration) SetupOption {
	return func(c *setupConfig) { c.timeout = d }
}

// WithShortTimeout is for quick API probes.
func WithShortTimeout() SetupOption {
	return func(c *setupConfig) { c.timeout = ShortTestTimeout }
}

// WithLongTimeout is for full pipeline runs.
func WithLongTimeout() SetupOption {
	return func(c *setupConfig) { c.timeout = LongTestTimeout }
}

// WithGateway skips the test when no external gateway URL is configured.
func WithGateway() SetupOption {
	return func(c *setupConfig) { c.requireGateway = true }
}

// WithKube skips the test when no kubeconfig is reachable. Tests that only
// hit the external gateway do not need cluster access.
func WithKube() SetupOption {
	return func(c *setupConfig) { c.requireKube = true }
}

// SkipE2ECheck disables the E2E_TEST gate, for helper self-tests.
func SkipE2ECheck() SetupOption {
	return func(c *setupConfig) { c.skipE2ECheck = true }
}

// SetupTest gates on E2E_TEST, loads configuration, and hands back a
// TestSetup whose context is cancelled when the test ends.
func SetupTest(t *testing.T, opts ...SetupOption) *TestSetup {
	t.Helper()

	sc := &setupConfig{timeout: MediumTestTimeout}
	for _, opt := range opts {
		opt(sc)
	}

	if !sc.skipE2ECheck && !IsE2EEnabled() {
		t.Skip("Skipping E2E test. Set E2E_TEST=true to run.")
	}

	cfg := GetConfig(t)
	if sc.requireGateway && cfg.GatewayURL == "" {
		t.Skip("Skipping: GATEWAY_URL is not set")
	}
	if sc.requireKube {
		if _, err := kube.Client(); err != nil {
			t.Skipf("Skipping: no cluster access (%v)", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), sc.timeout)
	t.Cleanup(cancel)

	return &TestSetup{
		T:   t,
		Ctx: ctx,
		Cfg: cfg,
		Log: Logger(),
	}
}

// Tokens returns the Keycloak token provider, skipping the test when no
// client secret is configured.
func (s *TestSetup) Tokens() *auth.TokenProvider {
	s.T.Helper()
	if s.tokens == nil {
		secret := s.Cfg.KeycloakClientSecret
		if secret == "" {
			s.T.Skip("Skipping: KEYCLOAK_CLIENT_SECRET is not set")
		}
		if s.Cfg.KeycloakURL == "" {
			s.T.Skip("Skipping: KEYCLOAK_URL is not set")
		}
		s.tokens = auth.NewTokenProvider(s.Cfg, secret)
	}
	return s.tokens
}

// Gateway returns the authenticated external gateway client.
func (s *TestSetup) Gateway() *ingest.Gateway {
	s.T.Helper()
	if s.gateway == nil {
		s.gateway = ingest.NewGateway(s.Cfg.GatewayURL, s.Tokens())
	}
	return s.gateway
}

// InternalAPI returns the in-cluster API client with the default admin
// identity, creating the runner pod on first use.
func (s *TestSetup) InternalAPI() *InternalAPI {
	s.T.Helper()
	if s.api == nil {
		if _, err := kube.EnsureRunnerPod(s.Ctx, s.Cfg.Namespace); err != nil {
			s.T.Fatalf("Failed to ensure runner pod: %v", err)
		}
		s.api = NewInternalAPI(s.Cfg, identity.Default())
	}
	return s.api
}

// KokuDB discovers the Koku database connection, caching the result.
func (s *TestSetup) KokuDB() *db.Config {
	s.T.Helper()
	if s.koku == nil {
		koku, err := db.Discover(s.Ctx, s.Cfg)
		if err != nil {
			s.T.Fatalf("Failed to discover Koku database: %v", err)
		}
		s.koku = koku
	}
	return s.koku
}

// KruizeDB discovers the Kruize database connection, caching the result.
func (s *TestSetup) KruizeDB() *db.Config {
	s.T.Helper()
	if s.kruize == nil {
		kruize, err := db.DiscoverKruize(s.Ctx, s.Cfg, s.KokuDB())
		if err != nil {
			s.T.Fatalf("Failed to discover Kruize database: %v", err)
		}
		s.kruize = kruize
	}
	return s.kruize
}

// Store returns the object-store client, or nil when no S3 endpoint is
// configured. Tests needing S3 must handle nil with a skip.
func (s *TestSetup) Store() *storage.Client {
	s.T.Helper()
	if s.store == nil && s.Cfg.S3Endpoint != "" {
		store, err := storage.New(s.Ctx, s.Cfg.S3Endpoint, s.Cfg.S3AccessKey, s.Cfg.S3SecretKey)
		if err != nil {
			s.T.Fatalf("Failed to build S3 client: %v", err)
		}
		s.store = store
	}
	return s.store
}

// Cleanup returns the cleanup orchestrator wired to every component the
// setup has access to.
func (s *TestSetup) Cleanup() *Cleanup {
	s.T.Helper()
	if s.cleanup == nil {
		s.cleanup = &Cleanup{
			Cfg:    s.Cfg,
			Log:    s.Log,
			API:    s.InternalAPI(),
			Koku:   s.KokuDB(),
			Kruize: s.KruizeDB(),
			Store:  s.Store(),
		}
	}
	return s.cleanup
}
