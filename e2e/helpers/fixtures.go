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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/insights-onprem/cost-e2e/pkg/datagen"
	"github.com/insights-onprem/cost-e2e/pkg/db"
	"github.com/insights-onprem/cost-e2e/pkg/ingest"
)

// PipelineResult carries everything a pipeline run produced, for follow-up
// assertions by the calling test.
type PipelineResult struct {
	ClusterID string
	Source    *ingest.Source
	Dataset   *datagen.Dataset
	Upload    ingest.UploadResult
	Manifest  *db.ManifestRow
	Schema    string
	Summary   *db.SummaryStats
}

// RunPipeline drives a complete ingest run: register a source, wait for the
// provider, generate and upload a report, then follow it through manifest,
// file processing, and daily summary. It fails the test on any hard error
// and skips when the environment cannot run the pipeline (no ingress, no
// NISE data worth summarizing). Cleanup is registered on the test.
func RunPipeline(s *TestSetup) *PipelineResult {
	t := s.T
	t.Helper()
	ctx := s.Ctx

	clusterID := datagen.NewClusterID("e2e-test")
	t.Logf("Pipeline run for cluster %s", clusterID)

	result := &PipelineResult{ClusterID: clusterID}
	koku := s.KokuDB()
	cleaner := s.Cleanup()

	if s.Cfg.RestartServices {
		RestartProcessingServices(ctx, t, s.Cfg)
	}
	if s.Cfg.CleanupBefore {
		cleaner.BeforeRun(ctx, t)
	}

	// Registration: source + cost-management application.
	api := s.InternalAPI()
	sourceTypeID, err := api.OpenShiftSourceTypeID(ctx)
	require.NoError(t, err, "Resolving openshift source type")
	appTypeID, err := api.CostManagementApplicationTypeID(ctx)
	require.NoError(t, err, "Resolving cost-management application type")

	source, err := RegisterSource(ctx, t, api, ingest.SourceCreate{
		Name:         SourceNameFor(clusterID),
		SourceTypeID: sourceTypeID,
		SourceRef:    clusterID,
	}, appTypeID)
	require.NoError(t, err, "Registering source for cluster %s", clusterID)
	result.Source = source
	t.Logf("Registered source %s (%s)", source.Name, source.ID)

	t.Cleanup(func() {
		if !s.Cfg.CleanupAfter {
			return
		}
		// Fresh context: the test context is usually expired by now.
		cleanupCtx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
		defer cancel()
		cleaner.AfterRun(cleanupCtx, t, source.ID.String(), clusterID)
	})

	// Source registration fans out over Kafka before Koku creates the
	// provider row; nothing downstream starts until it exists.
	err = WaitForStage(ctx, t, "provider creation", ProviderTimeout, ProviderInterval,
		func(ctx context.Context) (bool, error) {
			return koku.ProviderExists(ctx, clusterID)
		})
	require.NoError(t, err, "Provider was never created for cluster %s", clusterID)

	// Generate and upload the report payload.
	dataset, err := datagen.Generate(ctx, t.TempDir(), clusterID, datagen.NiseConfig{
		StaticReportFile: s.Cfg.NiseStaticReport,
		ROSData:          true,
	}, s.Cfg.UseSimpleData)
	require.NoError(t, err, "Generating report data")
	result.Dataset = dataset
	if dataset.FallbackReason != "" {
		t.Logf("Using simple generated data: %s", dataset.FallbackReason)
	}

	payload, err := datagen.Package(dataset)
	require.NoError(t, err, "Packaging report data")

	upload, err := s.Gateway().Upload(ctx, payload, clusterID+".tar.gz", datagen.UploadMIMEType)
	if errors.Is(err, ingest.ErrServiceUnavailable) {
		t.Skip("Skipping: ingress upload service unavailable (503)")
	}
	require.NoError(t, err, "Uploading report payload")
	require.True(t, upload.Accepted(), "Upload rejected with %d: %s", upload.StatusCode, upload.Body)
	result.Upload = upload
	t.Logf("Upload accepted, request id %s", upload.RequestID)

	// Manifest row appears once the listener picked the upload off Kafka.
	err = WaitForStage(ctx, t, "manifest creation", ManifestTimeout, ManifestInterval,
		func(ctx context.Context) (bool, error) {
			return koku.ManifestExists(ctx, clusterID)
		})
	require.NoError(t, err, "Manifest was never created for cluster %s", clusterID)

	manifest, err := koku.LatestManifest(ctx, clusterID)
	require.NoError(t, err, "Reading manifest for cluster %s", clusterID)
	result.Manifest = manifest
	t.Logf("Manifest %s with %d files", manifest.ID, manifest.NumTotalFiles)

	// File processing: poll until success, fail fast on a failed status.
	err = WaitForStage(ctx, t, "file processing", FileProcessingTimeout, FileProcessingInterval,
		func(ctx context.Context) (bool, error) {
			status, err := koku.LatestFileStatus(ctx, clusterID)
			if err != nil {
				return false, err
			}
			if status == db.FileStatusFailed {
				dumpFileStatuses(ctx, t, koku, clusterID)
				t.Fatalf("Report file processing failed for cluster %s", clusterID)
			}
			return status == db.FileStatusSuccess, nil
		})
	if err != nil {
		dumpFileStatuses(ctx, t, koku, clusterID)
		t.Fatalf("Timed out waiting for file processing of cluster %s: %v", clusterID, err)
	}

	// Tenant schema only resolves once the manifest is linked to a provider.
	err = WaitForStage(ctx, t, "tenant schema resolution", DefaultTimeout, DefaultInterval,
		func(ctx context.Context) (bool, error) {
			schema, err := koku.TenantSchema(ctx, clusterID)
			if err != nil {
				return false, err
			}
			result.Schema = schema
			return true, nil
		})
	require.NoError(t, err, "Resolving tenant schema for cluster %s", clusterID)
	t.Logf("Tenant schema %s", result.Schema)

	if dataset.Simple {
		// The minimal generated CSV exercises ingestion but not the
		// summary tasks; NISE data is required beyond this point.
		t.Logf("Simple data: skipping summary verification")
		return result
	}

	err = WaitForStage(ctx, t, "daily summary population", SummaryTimeout, SummaryInterval,
		func(ctx context.Context) (bool, error) {
			stats, err := koku.SummaryRowStats(ctx, result.Schema, clusterID)
			if err != nil {
				return false, err
			}
			result.Summary = stats
			return stats.RowCount > 0, nil
		})
	require.NoError(t, err, "Daily summary never populated for cluster %s", clusterID)
	t.Logf("Summary: %d rows, %s CPU core-hours, %s GB-hours",
		result.Summary.RowCount, result.Summary.CPUCoreHours, result.Summary.MemoryGBHours)

	return result
}

// WaitForRecommendations follows the ROS leg of the pipeline: Kruize
// experiments first, then generated recommendations. Distinct skip messages
// tell apart "ROS never saw the data" from "Kruize saw it but produced
// nothing", which have different owners.
func WaitForRecommendations(s *TestSetup, clusterID string) {
	t := s.T
	t.Helper()
	ctx := s.Ctx
	kruize := s.KruizeDB()

	err := WaitForStage(ctx, t, "kruize experiments", KruizeTimeout, KruizeInterval,
		func(ctx context.Context) (bool, error) {
			count, err := kruize.KruizeExperimentCount(ctx, clusterID)
			if err != nil {
				return false, err
			}
			return count > 0, nil
		})
	if err != nil {
		t.Skipf("Skipping recommendation checks: no Kruize experiments for %s (ROS processing may be disabled)", clusterID)
	}

	err = WaitForStage(ctx, t, "kruize recommendations", KruizeTimeout, KruizeInterval,
		func(ctx context.Context) (bool, error) {
			count, err := kruize.KruizeRecommendationCount(ctx, clusterID)
			if err != nil {
				return false, err
			}
			return count > 0, nil
		})
	if err != nil {
		t.Skipf("Skipping recommendation checks: experiments exist but no recommendations for %s (Kruize may still be within its monitoring window)", clusterID)
	}
}

func dumpFileStatuses(ctx context.Context, t *testing.T, koku *db.Config, clusterID string) {
	t.Helper()
	statuses, err := koku.FileStatuses(ctx, clusterID, 20)
	if err != nil {
		t.Logf("Could not read file statuses: %v", err)
		return
	}
	for _, st := range statuses {
		t.Logf("  file %s status=%d completed=%s", st.ReportName, st.Status, st.CompletedAt)
	}
}
