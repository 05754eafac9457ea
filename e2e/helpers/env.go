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

// Package helpers carries the shared plumbing for the end-to-end suite:
// environment gating, platform configuration, pipeline fixtures, the
// internal API client, and cleanup.
package helpers

import (
	"os"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/insights-onprem/cost-e2e/pkg/platform"
)

var (
	cfgOnce sync.Once
	cfg     platform.Config

	logOnce sync.Once
	logger  *zap.SugaredLogger
)

// IsE2EEnabled reports whether E2E tests should run. Tests call this (via
// SetupTest) and skip when the suite is not explicitly enabled, so a plain
// `go test ./...` stays green on machines without a deployment.
func IsE2EEnabled() bool {
	return os.Getenv("E2E_TEST") == "true"
}

// GetConfig loads the platform configuration once per process.
func GetConfig(t *testing.T) platform.Config {
	t.Helper()
	cfgOnce.Do(func() {
		cfg = platform.Load()
	})
	return cfg
}

// Logger returns the process-wide test logger.
func Logger() *zap.SugaredLogger {
	logOnce.Do(func() {
		logger = platform.NewLogger(os.Getenv("E2E_DEBUG") == "true")
	})
	return logger
}

// GetTestNamespace returns the namespace the platform is deployed in.
func GetTestNamespace(t *testing.T) string {
	return GetConfig(t).Namespace
}

// GetReleaseName returns the Helm release name of the deployment.
func GetReleaseName(t *testing.T) string {
	return GetConfig(t).ReleaseName
}
