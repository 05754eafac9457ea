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

// Package api contains E2E tests for the externally exposed gateway
// surfaces: ingress upload, report endpoints, tags, recommendations, and
// JWT authentication.
package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insights-onprem/cost-e2e/e2e/helpers"
	"github.com/insights-onprem/cost-e2e/pkg/datagen"
	"github.com/insights-onprem/cost-e2e/pkg/ingest"
)

// uploadPayload builds a small valid report tarball for upload tests. The
// cluster id is unique per call so uploads never collide with a concurrent
// pipeline run.
func uploadPayload(t *testing.T) (string, []byte) {
	t.Helper()
	clusterID := datagen.NewClusterID("e2e-upload")
	ds, err := datagen.SimpleDataset(t.TempDir(), clusterID)
	require.NoError(t, err, "Building simple dataset")
	payload, err := datagen.Package(ds)
	require.NoError(t, err, "Packaging dataset")
	return clusterID, payload
}

func TestIngressUploadAccepted(t *testing.T) {
	s := helpers.SetupTest(t, helpers.WithGateway())

	clusterID, payload := uploadPayload(t)
	result, err := s.Gateway().Upload(s.Ctx, payload, clusterID+".tar.gz", datagen.UploadMIMEType)
	if errors.Is(err, ingest.ErrServiceUnavailable) {
		t.Skip("Skipping: ingress upload service unavailable (503)")
	}
	require.NoError(t, err, "Upload should complete")

	assert.Equal(t, http.StatusAccepted, result.StatusCode, "Valid upload should be accepted: %s", result.Body)
	assert.NotEmpty(t, result.RequestID, "Accepted upload should return a request id")
}

func TestIngressUploadWrongMIMEType(t *testing.T) {
	s := helpers.SetupTest(t, helpers.WithGateway())

	clusterID, payload := uploadPayload(t)
	result, err := s.Gateway().Upload(s.Ctx, payload, clusterID+".tar.gz", "application/gzip")
	if errors.Is(err, ingest.ErrServiceUnavailable) {
		t.Skip("Skipping: ingress upload service unavailable (503)")
	}
	require.NoError(t, err, "Upload should complete")

	assert.Equal(t, http.StatusUnsupportedMediaType, result.StatusCode,
		"Upload with a non-HCCM MIME type should be rejected: %s", result.Body)
}

func TestIngressUploadWrongContentType(t *testing.T) {
	s := helpers.SetupTest(t, helpers.WithGateway())

	// Not multipart at all: the service rejects the request before looking
	// at the payload.
	result, err := s.Gateway().UploadRaw(s.Ctx, []byte("not a tarball"), "text/plain")
	if errors.Is(err, ingest.ErrServiceUnavailable) {
		t.Skip("Skipping: ingress upload service unavailable (503)")
	}
	require.NoError(t, err, "Request should complete")

	assert.Equal(t, http.StatusBadRequest, result.StatusCode,
		"Non-multipart upload should be rejected: %s", result.Body)
}
