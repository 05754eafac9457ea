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

package datagen

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClusterIDFormat(t *testing.T) {
	id := NewClusterID("e2e-test")
	matched, err := regexp.MatchString(`^e2e-test-\d{14}-[0-9a-f]{8}$`, id)
	require.NoError(t, err)
	assert.True(t, matched, "unexpected cluster id format: %s", id)

	assert.NotEqual(t, id, NewClusterID("e2e-test"), "ids must be unique")
}

func TestSimpleCSVShape(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	csv := SimpleCSV(now)

	lines := strings.Split(csv, "\n")
	require.Len(t, lines, 5, "header plus four interval rows")

	header := strings.Split(lines[0], ",")
	assert.Len(t, header, 37)
	assert.Equal(t, "report_period_start", header[0])
	assert.Equal(t, "memory_rss_usage_container_sum", header[36])

	for i, line := range lines[1:] {
		cols := strings.Split(line, ",")
		require.Len(t, cols, 37, "row %d has wrong column count", i)
	}

	// Fixed usage samples land in the cpu_usage_container_avg column.
	assert.Contains(t, lines[1], "0.247832")
	assert.Contains(t, lines[4], "398765432")
}

func TestSimpleCSVIntervalBoundaries(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	lines := strings.Split(SimpleCSV(now), "\n")

	first := strings.Split(lines[1], ",")
	// interval_start is 75 minutes before the anchor, interval_end 60.
	assert.Equal(t, "2026-08-28 10:45:00 -0000 UTC", first[2])
	assert.Equal(t, "2026-08-28 11:00:00 -0000 UTC", first[3])

	last := strings.Split(lines[4], ",")
	assert.Equal(t, "2026-08-28 11:30:00 -0000 UTC", last[2])
	assert.Equal(t, "2026-08-28 11:45:00 -0000 UTC", last[3])
}

func extractTarball(t *testing.T, payload []byte) map[string][]byte {
	t.Helper()
	gz, err := gzip.NewReader(bytes.NewReader(payload))
	require.NoError(t, err)
	tr := tar.NewReader(gz)

	entries := map[string][]byte{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		content, err := io.ReadAll(tr)
		require.NoError(t, err)
		entries[hdr.Name] = content
	}
	return entries
}

func TestPackageContainsManifestAndFiles(t *testing.T) {
	dir := t.TempDir()
	ds, err := SimpleDataset(dir, "test-cluster-x")
	require.NoError(t, err)

	payload, err := Package(ds)
	require.NoError(t, err)

	entries := extractTarball(t, payload)
	require.Contains(t, entries, "manifest.json")
	require.Contains(t, entries, "openshift_usage_report.csv")

	var manifest Manifest
	require.NoError(t, json.Unmarshal(entries["manifest.json"], &manifest))
	assert.Equal(t, "test-cluster-x", manifest.ClusterID)
	assert.Equal(t, []string{"openshift_usage_report.csv"}, manifest.Files)
	assert.True(t, manifest.Certified)
	assert.NotEmpty(t, manifest.UUID)
	assert.NotEmpty(t, manifest.Start)
	assert.NotEmpty(t, manifest.End)
}

func TestPackageRawFlattensNames(t *testing.T) {
	now := time.Now()
	payload, err := PackageRaw("c1", map[string]string{"report.csv": "a,b\n1,2\n"}, now.Add(-time.Hour), now)
	require.NoError(t, err)

	entries := extractTarball(t, payload)
	assert.Contains(t, entries, "manifest.json")
	assert.Equal(t, "a,b\n1,2\n", string(entries["report.csv"]))
}

func TestGenerateFallsBackWhenNiseMissing(t *testing.T) {
	dir := t.TempDir()
	ds, err := Generate(context.Background(), dir, "c2", NiseConfig{Binary: "definitely-not-installed-nise"}, false)
	require.NoError(t, err)

	assert.True(t, ds.Simple)
	assert.NotEmpty(t, ds.FallbackReason)
	assert.Equal(t, []string{"openshift_usage_report.csv"}, ds.CSVFiles)
}

func TestGenerateForceSimple(t *testing.T) {
	dir := t.TempDir()
	ds, err := Generate(context.Background(), dir, "c3", NiseConfig{}, true)
	require.NoError(t, err)
	assert.True(t, ds.Simple)
	assert.Equal(t, "simple data requested", ds.FallbackReason)
}

func TestRenderStaticReport(t *testing.T) {
	dir := t.TempDir()
	tmplPath := dir + "/template.yml"
	tmpl := "generators:\n  - OCPGenerator:\n      start_date: {{ .StartDate }}\n      end_date: {{ .EndDate }}\n"
	require.NoError(t, writeFile(dir, "template.yml", tmpl))

	start := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	out, err := RenderStaticReport(tmplPath, dir, start, end)
	require.NoError(t, err)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "start_date: 2026-08-27")
	assert.Contains(t, string(content), "end_date: 2026-08-28")
}

func TestRenderStaticReportRejectsBrokenYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeFile(dir, "bad.yml", "a: [unclosed\n"))
	_, err := RenderStaticReport(dir+"/bad.yml", dir, time.Now(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid YAML")
}
