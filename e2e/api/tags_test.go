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

func TestTagsEndpointStructure(t *testing.T) {
	s := helpers.SetupTest(t, helpers.WithGateway())

	resp, err := s.Gateway().List(s.Ctx, ingest.PathOCPTags, nil)
	require.NoError(t, err, "Tags endpoint should answer")
	assert.NotNil(t, resp.Data, "Tags envelope should carry a data array")
}

func TestTagsWithKeyFilter(t *testing.T) {
	s := helpers.SetupTest(t, helpers.WithGateway())

	resp, err := s.Gateway().List(s.Ctx, ingest.PathOCPTags, map[string]string{
		"filter[key]": "app",
	})
	require.NoError(t, err, "Key-filtered tags should answer")
	assert.NotNil(t, resp.Data)
}

func TestReportsFilteredByTag(t *testing.T) {
	s := helpers.SetupTest(t, helpers.WithGateway())

	// Tag-based report filtering uses the tag: prefix in the filter key.
	resp, err := s.Gateway().List(s.Ctx, ingest.PathOCPCosts, map[string]string{
		"filter[tag:app]": "no-such-app-e2e",
	})
	require.NoError(t, err, "Tag-filtered report should answer")
	assert.NotNil(t, resp.Data, "Tag filter matching nothing still returns the envelope")
}

func TestReportsGroupedByTag(t *testing.T) {
	s := helpers.SetupTest(t, helpers.WithGateway())

	resp, err := s.Gateway().List(s.Ctx, ingest.PathOCPCosts, map[string]string{
		"group_by[tag:app]": "*",
	})
	require.NoError(t, err, "Tag-grouped report should answer")
	assert.NotNil(t, resp.Data)
}

func TestTagsMultipleFilters(t *testing.T) {
	s := helpers.SetupTest(t, helpers.WithGateway())

	resp, err := s.Gateway().List(s.Ctx, ingest.PathOCPTags, map[string]string{
		"filter[time_scope_value]": "-1",
		"filter[time_scope_units]": "month",
		"filter[key]":              "environment",
	})
	require.NoError(t, err, "Combined tag filters should answer")
	assert.NotNil(t, resp.Data)
}
