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
	"net/http"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/insights-onprem/cost-e2e/pkg/db"
	"github.com/insights-onprem/cost-e2e/pkg/identity"
	"github.com/insights-onprem/cost-e2e/pkg/kube"
	"github.com/insights-onprem/cost-e2e/pkg/platform"
	"github.com/insights-onprem/cost-e2e/pkg/storage"
)

// processingSelectors match the pods that hold pipeline state in memory.
// Restarting them clears wedged Kafka consumers between runs.
var processingSelectors = []string{
	"app.kubernetes.io/component=cost-processor",
	"app.kubernetes.io/component=ros-processor",
}

// Cleanup removes test residue from the deployment. Every step is
// best-effort: a failed cleanup is logged, never fatal, because a teardown
// that aborts halfway leaves more residue than one that limps through.
type Cleanup struct {
	Cfg    platform.Config
	Log    *zap.SugaredLogger
	API    *InternalAPI
	Koku   *db.Config
	Kruize *db.Config
	// Store is nil when no S3 endpoint is configured.
	Store *storage.Client
}

// DeleteStaleSources removes sources left behind by earlier runs, identified
// by the e2e name prefix. Returns how many it deleted.
func (c *Cleanup) DeleteStaleSources(ctx context.Context) int {
	sources, err := c.API.ListSources(ctx, nil)
	if err != nil {
		c.Log.Warnw("listing sources for stale cleanup failed", "error", err)
		return 0
	}
	deleted := 0
	for _, src := range sources {
		if !strings.HasPrefix(src.Name, SourceNamePrefix) {
			continue
		}
		resp, err := c.API.DeleteSource(ctx, src.ID.String())
		if err != nil {
			c.Log.Warnw("deleting stale source failed", "source", src.Name, "error", err)
			continue
		}
		if resp.OK() || resp.StatusCode == http.StatusNotFound {
			deleted++
		} else {
			c.Log.Warnw("deleting stale source rejected", "source", src.Name, "status", resp.StatusCode)
		}
	}
	return deleted
}

// BeforeRun clears org-wide processing records and stale sources so leftovers
// from crashed runs cannot satisfy this run's polling.
func (c *Cleanup) BeforeRun(ctx context.Context, t *testing.T) {
	t.Helper()
	if n := c.DeleteStaleSources(ctx); n > 0 {
		t.Logf("Pre-test cleanup removed %d stale sources", n)
	}
	if c.Koku != nil {
		c.Koku.CleanupOrg(ctx, c.Log, identity.DefaultOrgID)
	}
}

// AfterRun removes everything a pipeline run created for one cluster id:
// the source, database rows on both databases, and uploaded objects.
func (c *Cleanup) AfterRun(ctx context.Context, t *testing.T, sourceID, clusterID string) {
	t.Helper()
	if sourceID != "" {
		resp, err := c.API.DeleteSource(ctx, sourceID)
		switch {
		case err != nil:
			c.Log.Warnw("post-test source delete failed", "source_id", sourceID, "error", err)
		case resp.OK() || resp.StatusCode == http.StatusNotFound:
			t.Logf("Deleted source %s", sourceID)
		default:
			c.Log.Warnw("post-test source delete rejected", "source_id", sourceID, "status", resp.StatusCode)
		}
	}
	if c.Koku != nil {
		c.Koku.CleanupCluster(ctx, c.Log, clusterID)
	}
	if c.Kruize != nil {
		c.Kruize.CleanupKruizeCluster(ctx, c.Log, clusterID)
	}
	if c.Store != nil {
		c.Store.CleanupClusterObjects(ctx, c.Log, clusterID)
	}
}

// RestartProcessingServices bounces the pipeline consumers and waits for
// them to come back ready. Opt-in via E2E_RESTART_SERVICES.
func RestartProcessingServices(ctx context.Context, t *testing.T, cfg platform.Config) {
	t.Helper()
	for _, selector := range processingSelectors {
		if err := kube.RestartPods(ctx, cfg.Namespace, selector, DefaultTimeout); err != nil {
			t.Logf("Restarting %s failed: %v", selector, err)
		} else {
			t.Logf("Restarted pods matching %s", selector)
		}
	}
}
