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
	"strconv"
)

// File processing status codes from the Koku ingestion pipeline.
const (
	FileStatusPending = 0
	FileStatusSuccess = 1
	FileStatusFailed  = 2
)

// ProviderExists reports whether a provider row references the cluster id,
// either through its authentication credentials or additional context.
// Provider creation happens asynchronously off a Kafka event after source
// registration.
func (c *Config) ProviderExists(ctx context.Context, clusterID string) (bool, error) {
	count, err := c.QueryCount(ctx, fmt.Sprintf(`
		SELECT COUNT(*) FROM api_provider p
		JOIN api_providerauthentication a ON p.authentication_id = a.id
		WHERE a.credentials->>'cluster_id' = '%s'
		   OR p.additional_context->>'cluster_id' = '%s'`, clusterID, clusterID))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ManifestRow is the latest upload manifest for a cluster.
type ManifestRow struct {
	ID            string
	AssemblyID    string
	ClusterID     string
	NumTotalFiles int
	CreatedAt     string
}

// ManifestExists reports whether any manifest row exists for the cluster.
func (c *Config) ManifestExists(ctx context.Context, clusterID string) (bool, error) {
	count, err := c.QueryCount(ctx, fmt.Sprintf(
		`SELECT COUNT(*) FROM reporting_common_costusagereportmanifest WHERE cluster_id = '%s'`, clusterID))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// LatestManifest returns the most recent manifest for the cluster.
func (c *Config) LatestManifest(ctx context.Context, clusterID string) (*ManifestRow, error) {
	rows, err := c.Query(ctx, fmt.Sprintf(`
		SELECT m.id, m.assembly_id, m.cluster_id, m.num_total_files, m.creation_datetime
		FROM reporting_common_costusagereportmanifest m
		WHERE m.cluster_id = '%s'
		ORDER BY m.creation_datetime DESC
		LIMIT 1`, clusterID))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows[0]) < 5 {
		return nil, fmt.Errorf("no manifest for cluster %s", clusterID)
	}
	row := rows[0]
	total, _ := strconv.Atoi(row[3])
	return &ManifestRow{
		ID:            row[0],
		AssemblyID:    row[1],
		ClusterID:     row[2],
		NumTotalFiles: total,
		CreatedAt:     row[4],
	}, nil
}

// LatestFileStatus returns the processing status of the newest manifest.
func (c *Config) LatestFileStatus(ctx context.Context, clusterID string) (int, error) {
	rows, err := c.Query(ctx, fmt.Sprintf(`
		SELECT s.status
		FROM reporting_common_costusagereportmanifest m
		JOIN reporting_common_costusagereportstatus s ON s.manifest_id = m.id
		WHERE m.cluster_id = '%s'
		ORDER BY m.creation_datetime DESC
		LIMIT 1`, clusterID))
	if err != nil {
		return FileStatusPending, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 || rows[0][0] == "" {
		return FileStatusPending, nil
	}
	return strconv.Atoi(rows[0][0])
}

// FileStatusRow is one report file's processing record.
type FileStatusRow struct {
	ReportName  string
	Status      int
	CompletedAt string
}

// FileStatuses lists per-file processing records for diagnostics on timeout.
func (c *Config) FileStatuses(ctx context.Context, clusterID string, limit int) ([]FileStatusRow, error) {
	rows, err := c.Query(ctx, fmt.Sprintf(`
		SELECT s.report_name, s.status, s.completed_datetime
		FROM reporting_common_costusagereportmanifest m
		JOIN reporting_common_costusagereportstatus s ON s.manifest_id = m.id
		WHERE m.cluster_id = '%s'
		ORDER BY s.completed_datetime DESC
		LIMIT %d`, clusterID, limit))
	if err != nil {
		return nil, err
	}
	statuses := make([]FileStatusRow, 0, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		status, _ := strconv.Atoi(row[1])
		statuses = append(statuses, FileStatusRow{ReportName: row[0], Status: status, CompletedAt: row[2]})
	}
	return statuses, nil
}

// TenantSchema resolves the per-tenant schema holding summary tables, via
// the manifest → provider → customer join.
func (c *Config) TenantSchema(ctx context.Context, clusterID string) (string, error) {
	rows, err := c.Query(ctx, fmt.Sprintf(`
		SELECT c.schema_name
		FROM reporting_common_costusagereportmanifest m
		JOIN api_provider p ON m.provider_id = p.uuid
		JOIN api_customer c ON p.customer_id = c.id
		WHERE m.cluster_id = '%s'
		LIMIT 1`, clusterID))
	if err != nil {
		return "", err
	}
	if len(rows) == 0 || len(rows[0]) == 0 || rows[0][0] == "" {
		return "", fmt.Errorf("manifest for %s is not linked to a provider/customer yet", clusterID)
	}
	return rows[0][0], nil
}

// SummaryStats aggregates the tenant summary table for a cluster.
type SummaryStats struct {
	RowCount      int
	CPUCoreHours  string
	MemoryGBHours string
}

// SummaryRowStats counts populated daily-summary rows for the cluster in
// the tenant schema.
func (c *Config) SummaryRowStats(ctx context.Context, schema, clusterID string) (*SummaryStats, error) {
	rows, err := c.Query(ctx, fmt.Sprintf(`
		SELECT COUNT(*),
		       COALESCE(SUM(pod_request_cpu_core_hours), 0),
		       COALESCE(SUM(pod_request_memory_gigabyte_hours), 0)
		FROM %s.reporting_ocpusagelineitem_daily_summary
		WHERE cluster_id = '%s'`, schema, clusterID))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows[0]) < 3 {
		return nil, fmt.Errorf("summary query returned no rows")
	}
	count, _ := strconv.Atoi(rows[0][0])
	return &SummaryStats{RowCount: count, CPUCoreHours: rows[0][1], MemoryGBHours: rows[0][2]}, nil
}

// KruizeExperimentCount counts Kruize experiments referencing the cluster.
// The experiment name embeds the cluster id, hence the LIKE.
func (c *Config) KruizeExperimentCount(ctx context.Context, clusterID string) (int, error) {
	return c.QueryCount(ctx, fmt.Sprintf(
		`SELECT COUNT(*) FROM kruize_experiments WHERE cluster_name LIKE '%%%s%%'`, clusterID))
}

// KruizeRecommendationCount counts generated recommendations for the cluster.
func (c *Config) KruizeRecommendationCount(ctx context.Context, clusterID string) (int, error) {
	return c.QueryCount(ctx, fmt.Sprintf(
		`SELECT COUNT(*) FROM kruize_recommendations WHERE cluster_name LIKE '%%%s%%'`, clusterID))
}
