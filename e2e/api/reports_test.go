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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insights-onprem/cost-e2e/e2e/helpers"
	"github.com/insights-onprem/cost-e2e/pkg/ingest"
)

// reportPaths are the OpenShift report endpoints the gateway exposes. Each
// returns the standard {meta, links, data} envelope even with no data.
var reportPaths = map[string]string{
	"costs":   ingest.PathOCPCosts,
	"compute": ingest.PathOCPCompute,
	"memory":  ingest.PathOCPMemory,
	"volumes": ingest.PathOCPVolumes,
}

func TestReportEndpointsReturnEnvelope(t *testing.T) {
	s := helpers.SetupTest(t, helpers.WithGateway())

	for name, path := range reportPaths {
		t.Run(name, func(t *testing.T) {
			resp, err := s.Gateway().List(s.Ctx, path, nil)
			require.NoError(t, err, "Report endpoint %s should answer", path)
			assert.NotNil(t, resp.Data, "Envelope should carry a data array")
			assert.GreaterOrEqual(t, resp.Meta.Count, 0, "Meta count should be present")
		})
	}
}

func TestReportCostsWithProjectFilter(t *testing.T) {
	s := helpers.SetupTest(t, helpers.WithGateway())

	resp, err := s.Gateway().List(s.Ctx, ingest.PathOCPCosts, map[string]string{
		"filter[project]": "no-such-project-e2e",
	})
	require.NoError(t, err, "Filtered report should answer")
	assert.NotNil(t, resp.Data, "Filter matching nothing still returns the envelope")
}

func TestReportCostsGroupByProject(t *testing.T) {
	s := helpers.SetupTest(t, helpers.WithGateway())

	resp, err := s.Gateway().List(s.Ctx, ingest.PathOCPCosts, map[string]string{
		"group_by[project]": "*",
	})
	require.NoError(t, err, "Grouped report should answer")
	assert.NotNil(t, resp.Data)
}

func TestReportCostsTimeScope(t *testing.T) {
	s := helpers.SetupTest(t, helpers.WithGateway())

	// Current month, daily resolution.
	resp, err := s.Gateway().List(s.Ctx, ingest.PathOCPCosts, map[string]string{
		"filter[time_scope_value]": "-1",
		"filter[time_scope_units]": "month",
		"filter[resolution]":       "daily",
	})
	require.NoError(t, err, "Time-scoped report should answer")
	assert.NotNil(t, resp.Data)
}

func TestReportInvalidQueryRejected(t *testing.T) {
	s := helpers.SetupTest(t, helpers.WithGateway())

	_, err := s.Gateway().List(s.Ctx, ingest.PathOCPCosts, map[string]string{
		"filter[resolution]": "hourly-nonsense",
	})
	require.Error(t, err, "Invalid resolution should be rejected")

	var statusErr *ingest.StatusError
	require.ErrorAs(t, err, &statusErr, "Rejection should be an HTTP status, not a transport failure")
	assert.Equal(t, 400, statusErr.StatusCode, "Invalid query parameter should yield 400")
}
