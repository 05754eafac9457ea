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

package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// CleanupCluster removes processing records for one cluster id: file
// statuses, manifests, and the provider rows the registration created.
// Best-effort by design; failures are logged, never fatal, so teardown can
// continue with the remaining steps.
func (c *Config) CleanupCluster(ctx context.Context, log *zap.SugaredLogger, clusterID string) {
	statements := []string{
		fmt.Sprintf(`DELETE FROM reporting_common_costusagereportstatus
			WHERE manifest_id IN (
				SELECT id FROM reporting_common_costusagereportmanifest WHERE cluster_id = '%s')`, clusterID),
		fmt.Sprintf(`DELETE FROM reporting_common_costusagereportmanifest WHERE cluster_id = '%s'`, clusterID),
		fmt.Sprintf(`DELETE FROM api_provider
			WHERE authentication_id IN (
				SELECT id FROM api_providerauthentication WHERE credentials->>'cluster_id' = '%s')
			   OR additional_context->>'cluster_id' = '%s'`, clusterID, clusterID),
		fmt.Sprintf(`DELETE FROM api_providerauthentication WHERE credentials->>'cluster_id' = '%s'`, clusterID),
	}
	for _, stmt := range statements {
		if err := c.Exec(ctx, stmt); err != nil {
			log.Warnw("cleanup statement failed", "cluster_id", clusterID, "error", err)
		}
	}
}

// CleanupOrg removes processing records for every provider of an org. Used
// for pre-test cleanup so leftovers from crashed runs cannot poison polling.
func (c *Config) CleanupOrg(ctx context.Context, log *zap.SugaredLogger, orgID string) {
	statements := []string{
		fmt.Sprintf(`DELETE FROM reporting_common_costusagereportstatus
			WHERE manifest_id IN (
				SELECT m.id FROM reporting_common_costusagereportmanifest m
				JOIN api_provider p ON m.provider_id = p.uuid
				JOIN api_customer cu ON p.customer_id = cu.id
				WHERE cu.org_id = '%s')`, orgID),
		fmt.Sprintf(`DELETE FROM reporting_common_costusagereportmanifest
			WHERE provider_id IN (
				SELECT p.uuid FROM api_provider p
				JOIN api_customer cu ON p.customer_id = cu.id
				WHERE cu.org_id = '%s')`, orgID),
	}
	for _, stmt := range statements {
		if err := c.Exec(ctx, stmt); err != nil {
			log.Warnw("org cleanup statement failed", "org_id", orgID, "error", err)
		}
	}
}

// CleanupKruizeCluster removes Kruize experiments and recommendations for a
// cluster. Runs against the Kruize database config.
func (c *Config) CleanupKruizeCluster(ctx context.Context, log *zap.SugaredLogger, clusterID string) {
	statements := []string{
		fmt.Sprintf(`DELETE FROM kruize_recommendations WHERE cluster_name LIKE '%%%s%%'`, clusterID),
		fmt.Sprintf(`DELETE FROM kruize_experiments WHERE cluster_name LIKE '%%%s%%'`, clusterID),
	}
	for _, stmt := range statements {
		if err := c.Exec(ctx, stmt); err != nil {
			log.Warnw("kruize cleanup statement failed", "cluster_id", clusterID, "error", err)
		}
	}
}
