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
)

func TestRecommendationsListStructure(t *testing.T) {
	s := helpers.SetupTest(t, helpers.WithGateway())

	resp, recs, err := s.Gateway().Recommendations(s.Ctx, nil)
	require.NoError(t, err, "Recommendations endpoint should answer")
	assert.GreaterOrEqual(t, resp.Meta.Count, 0, "Meta count should be present")
	assert.Len(t, recs, len(resp.Data), "Every data element should decode")
}

func TestRecommendationsPagination(t *testing.T) {
	s := helpers.SetupTest(t, helpers.WithGateway())

	resp, recs, err := s.Gateway().Recommendations(s.Ctx, map[string]string{
		"limit": "2",
	})
	require.NoError(t, err, "Limited recommendations should answer")
	assert.Equal(t, 2, resp.Meta.Limit, "Requested limit should be echoed in meta")
	assert.LessOrEqual(t, len(recs), 2, "Page should respect the limit")
}

func TestRecommendationsFilterMatchesNothing(t *testing.T) {
	s := helpers.SetupTest(t, helpers.WithGateway())

	cases := map[string]map[string]string{
		"cluster":  {"cluster": "no-such-cluster-e2e"},
		"project":  {"project": "no-such-project-e2e"},
		"workload": {"workload": "no-such-workload-e2e"},
	}
	for name, params := range cases {
		t.Run(name, func(t *testing.T) {
			resp, recs, err := s.Gateway().Recommendations(s.Ctx, params)
			require.NoError(t, err, "Filtered recommendations should answer")
			assert.Equal(t, 0, resp.Meta.Count, "Unknown %s should match nothing", name)
			assert.Empty(t, recs)
		})
	}
}
