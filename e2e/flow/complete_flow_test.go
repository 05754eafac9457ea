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

// Package flow contains the end-to-end pipeline test: a report travels from
// upload through ingestion, summarization, and resource optimization, and
// the results surface on the external API.
package flow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insights-onprem/cost-e2e/e2e/helpers"
	"github.com/insights-onprem/cost-e2e/pkg/ingest"
)

// TestCompleteFlow drives one report through the whole platform. The stages
// build on each other, so this is a single test with ordered subtests
// rather than independent tests.
func TestCompleteFlow(t *testing.T) {
	s := helpers.SetupTest(t, helpers.WithGateway(), helpers.WithKube(), helpers.WithLongTimeout())

	result := helpers.RunPipeline(s)

	t.Run("ManifestMatchesUpload", func(t *testing.T) {
		require.NotNil(t, result.Manifest)
		assert.Equal(t, result.ClusterID, result.Manifest.ClusterID,
			"Manifest should reference the uploaded cluster")
		assert.Greater(t, result.Manifest.NumTotalFiles, 0,
			"Manifest should list the uploaded report files")
	})

	t.Run("TenantSchemaResolved", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(result.Schema, "org"),
			"Tenant schema %q should be org-scoped", result.Schema)
	})

	if result.Dataset.Simple {
		t.Log("Simple data run: summary and recommendation stages were skipped")
		return
	}

	t.Run("SummaryHasUsage", func(t *testing.T) {
		require.NotNil(t, result.Summary)
		assert.Greater(t, result.Summary.RowCount, 0, "Summary table should have rows")
		assert.NotEqual(t, "0", result.Summary.CPUCoreHours, "CPU core-hours should be non-zero")
	})

	t.Run("CostsVisibleOnGateway", func(t *testing.T) {
		resp, err := s.Gateway().ListFresh(s.Ctx, ingest.PathOCPCosts, map[string]string{
			"filter[cluster]": result.ClusterID,
		})
		require.NoError(t, err, "Cost report for the ingested cluster should answer")
		assert.NotNil(t, resp.Data)
	})

	t.Run("Recommendations", func(t *testing.T) {
		helpers.WaitForRecommendations(s, result.ClusterID)

		_, recs, err := s.Gateway().Recommendations(s.Ctx, map[string]string{
			"cluster": result.ClusterID,
		})
		require.NoError(t, err, "Recommendations for the ingested cluster should answer")
		for _, rec := range recs {
			assert.Contains(t, rec.ClusterUUID+rec.ClusterAlias, result.ClusterID[len(result.ClusterID)-8:],
				"Recommendation should belong to the test cluster")
		}
	})
}
