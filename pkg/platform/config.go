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

// Package platform holds the per-session configuration of the cost-management
// deployment under test. Everything is resolved from environment variables
// once and passed around explicitly; tests never read os.Getenv directly.
package platform

import (
	"fmt"
	"os"
	"strings"
)

// PlatformKind distinguishes plain Kubernetes from OpenShift deployments.
// OpenShift exposes the gateway via a Route; Kubernetes via an Ingress or
// an explicitly configured URL.
type PlatformKind string

const (
	PlatformKubernetes PlatformKind = "kubernetes"
	PlatformOpenShift  PlatformKind = "openshift"
)

// Config is the immutable per-session view of the deployment under test.
type Config struct {
	// Namespace is where the cost-management chart is installed.
	Namespace string
	// ReleaseName is the Helm release name; service and secret names derive from it.
	ReleaseName string
	// KeycloakNamespace is where the Keycloak instance runs.
	KeycloakNamespace string
	// Platform selects OpenShift or plain Kubernetes behavior.
	Platform PlatformKind

	// GatewayURL is the external base URL (includes the /api route prefix).
	GatewayURL string
	// KeycloakURL is the external Keycloak base URL.
	KeycloakURL string
	// KeycloakRealm is the realm holding the service-account client.
	KeycloakRealm string
	// KeycloakClientID is the client-credentials client used for JWT auth.
	KeycloakClientID string
	// KeycloakClientSecret, when set, overrides keyring/secret lookup.
	KeycloakClientSecret string

	// S3Endpoint, S3AccessKey, S3SecretKey configure the in-cluster object store.
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	// KafkaBootstrap is the broker address for interpod topic checks.
	KafkaBootstrap string

	// CleanupBefore deletes prior test artifacts before the pipeline runs.
	CleanupBefore bool
	// CleanupAfter runs the full org-wide cleanup after the pipeline.
	CleanupAfter bool
	// RestartServices restarts processing deployments during cleanup.
	RestartServices bool
	// UseSimpleData forces the built-in generator instead of NISE.
	UseSimpleData bool
	// NiseStaticReport is the path to a static-report template for NISE.
	NiseStaticReport string
}

// Load resolves the session configuration from the environment.
func Load() Config {
	return Config{
		Namespace:            getEnvOrDefault("NAMESPACE", "cost-onprem"),
		ReleaseName:          getEnvOrDefault("HELM_RELEASE_NAME", "cost-onprem"),
		KeycloakNamespace:    getEnvOrDefault("KEYCLOAK_NAMESPACE", "keycloak"),
		Platform:             PlatformKind(getEnvOrDefault("PLATFORM", string(PlatformKubernetes))),
		GatewayURL:           strings.TrimSuffix(os.Getenv("GATEWAY_URL"), "/"),
		KeycloakURL:          strings.TrimSuffix(os.Getenv("KEYCLOAK_URL"), "/"),
		KeycloakRealm:        getEnvOrDefault("KEYCLOAK_REALM", "kubernetes"),
		KeycloakClientID:     getEnvOrDefault("KEYCLOAK_CLIENT_ID", "cost-management-operator"),
		KeycloakClientSecret: os.Getenv("KEYCLOAK_CLIENT_SECRET"),
		S3Endpoint:           os.Getenv("S3_ENDPOINT"),
		S3AccessKey:          os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:          os.Getenv("S3_SECRET_KEY"),
		KafkaBootstrap:       os.Getenv("KAFKA_BOOTSTRAP"),
		CleanupBefore:        boolEnv("E2E_CLEANUP_BEFORE", true),
		CleanupAfter:         boolEnv("E2E_CLEANUP_AFTER", true),
		RestartServices:      boolEnv("E2E_RESTART_SERVICES", false),
		UseSimpleData:        boolEnv("E2E_USE_SIMPLE_DATA", false),
		NiseStaticReport:     os.Getenv("E2E_NISE_STATIC_REPORT"),
	}
}

// InternalAPIURL returns the ClusterIP URL of the unified Koku API service,
// reachable only from inside the cluster (via the test-runner pod).
func (c Config) InternalAPIURL() string {
	return fmt.Sprintf("http://%s-koku-api.%s.svc:8000", c.ReleaseName, c.Namespace)
}

// IngressUploadURL returns the external upload endpoint.
func (c Config) IngressUploadURL() string {
	return c.GatewayURL + "/ingress/v1/upload"
}

// CostAPIURL returns the external cost-management API base, e.g.
// {gateway}/cost-management/v1. The gateway URL already carries the /api
// route prefix, so the path must not repeat it.
func (c Config) CostAPIURL() string {
	return c.GatewayURL + "/cost-management/v1"
}

// DBCredentialsSecret returns the name of the secret holding database
// credentials for both the Koku and Kruize databases.
func (c Config) DBCredentialsSecret() string {
	return c.ReleaseName + "-db-credentials"
}

// IsOpenShift reports whether the deployment runs on OpenShift.
func (c Config) IsOpenShift() bool {
	return c.Platform == PlatformOpenShift
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func boolEnv(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
