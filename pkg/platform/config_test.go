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

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NAMESPACE", "")
	t.Setenv("HELM_RELEASE_NAME", "")
	t.Setenv("PLATFORM", "")
	t.Setenv("E2E_CLEANUP_BEFORE", "")
	t.Setenv("E2E_CLEANUP_AFTER", "")

	cfg := Load()
	assert.Equal(t, "cost-onprem", cfg.Namespace)
	assert.Equal(t, "cost-onprem", cfg.ReleaseName)
	assert.Equal(t, PlatformKubernetes, cfg.Platform)
	assert.True(t, cfg.CleanupBefore, "pre-cleanup should default on")
	assert.True(t, cfg.CleanupAfter, "post-run cleanup should default on")
	assert.Equal(t, "kubernetes", cfg.KeycloakRealm)
	assert.Equal(t, "cost-management-operator", cfg.KeycloakClientID)
}

func TestInternalAPIURL(t *testing.T) {
	cfg := Config{Namespace: "cost", ReleaseName: "rel"}
	assert.Equal(t, "http://rel-koku-api.cost.svc:8000", cfg.InternalAPIURL())
}

func TestGatewayDerivedURLs(t *testing.T) {
	t.Setenv("GATEWAY_URL", "https://gw.example.com/api/")
	cfg := Load()
	assert.Equal(t, "https://gw.example.com/api/ingress/v1/upload", cfg.IngressUploadURL())
	assert.Equal(t, "https://gw.example.com/api/cost-management/v1", cfg.CostAPIURL())
}

func TestCleanupAfterDefaultsOn(t *testing.T) {
	// A run with no env set must clean up after itself, or every run leaves
	// sources, tenant rows, and uploaded objects behind.
	t.Setenv("E2E_CLEANUP_AFTER", "")
	assert.True(t, Load().CleanupAfter)

	t.Setenv("E2E_CLEANUP_AFTER", "false")
	assert.False(t, Load().CleanupAfter, "explicit opt-out is honored")
}

func TestBoolEnvParsing(t *testing.T) {
	t.Setenv("E2E_RESTART_SERVICES", "yes")
	t.Setenv("E2E_CLEANUP_BEFORE", "0")
	cfg := Load()
	assert.True(t, cfg.RestartServices)
	assert.False(t, cfg.CleanupBefore)
}

func TestDBCredentialsSecret(t *testing.T) {
	cfg := Config{ReleaseName: "cost-onprem"}
	assert.Equal(t, "cost-onprem-db-credentials", cfg.DBCredentialsSecret())
}
