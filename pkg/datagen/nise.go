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
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Dataset is the outcome of a generation run: CSV files on disk plus the time
// window they cover. FallbackReason is set when NISE could not be used and
// the simple generator produced the files instead; pipeline consumers use it
// to phrase diagnostic skips.
type Dataset struct {
	Dir            string
	ClusterID      string
	CSVFiles       []string
	PodUsageFiles  []string
	Start          time.Time
	End            time.Time
	Simple         bool
	FallbackReason string
}

// NiseConfig controls the external generator invocation.
type NiseConfig struct {
	// Binary is the nise executable; looked up on PATH when empty.
	Binary string
	// StaticReportFile is an optional report template; rendered through
	// RenderStaticReport when it contains template directives.
	StaticReportFile string
	// ROSData adds --ros-ocp-info so resource-optimization CSVs are produced.
	ROSData bool
	// Days is the report window length; defaults to 1.
	Days int
}

// NiseAvailable reports whether the external generator is installed.
func NiseAvailable(binary string) bool {
	if binary == "" {
		binary = "nise"
	}
	_, err := exec.LookPath(binary)
	return err == nil
}

// GenerateNise runs the external NISE generator for clusterID into dir.
// Any failure (missing binary, non-zero exit, empty output) returns an error;
// Generate wraps this with the simple-generator fallback.
func GenerateNise(ctx context.Context, dir, clusterID string, cfg NiseConfig) (*Dataset, error) {
	binary := cfg.Binary
	if binary == "" {
		binary = "nise"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil, fmt.Errorf("nise binary not found: %w", err)
	}

	days := cfg.Days
	if days <= 0 {
		days = 1
	}
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)

	args := []string{
		"report", "ocp",
		"--ocp-cluster-id", clusterID,
		"--insights-upload", dir,
		"--start-date", start.Format("2006-01-02"),
		"--end-date", end.Format("2006-01-02"),
	}
	if cfg.ROSData {
		args = append(args, "--ros-ocp-info")
	}
	if cfg.StaticReportFile != "" {
		rendered, err := RenderStaticReport(cfg.StaticReportFile, dir, start, end)
		if err != nil {
			return nil, fmt.Errorf("rendering static report: %w", err)
		}
		args = append(args, "--static-report-file", rendered)
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("nise failed: %w: %s", err, truncate(string(out), 500))
	}

	csvFiles, podUsage, err := collectCSVs(dir)
	if err != nil {
		return nil, err
	}
	if len(csvFiles) == 0 {
		return nil, fmt.Errorf("nise produced no CSV files in %s", dir)
	}

	return &Dataset{
		Dir:           dir,
		ClusterID:     clusterID,
		CSVFiles:      csvFiles,
		PodUsageFiles: podUsage,
		Start:         start,
		End:           end,
	}, nil
}

// Generate produces a dataset for clusterID, preferring NISE and falling back
// to the simple generator. forceSimple short-circuits straight to the
// fallback (E2E_USE_SIMPLE_DATA).
func Generate(ctx context.Context, dir, clusterID string, cfg NiseConfig, forceSimple bool) (*Dataset, error) {
	if forceSimple {
		ds, err := SimpleDataset(dir, clusterID)
		if err != nil {
			return nil, err
		}
		ds.FallbackReason = "simple data requested"
		return ds, nil
	}

	ds, niseErr := GenerateNise(ctx, dir, clusterID, cfg)
	if niseErr == nil {
		return ds, nil
	}

	ds, err := SimpleDataset(dir, clusterID)
	if err != nil {
		return nil, fmt.Errorf("nise failed (%v) and simple fallback failed: %w", niseErr, err)
	}
	ds.FallbackReason = niseErr.Error()
	return ds, nil
}

// collectCSVs walks dir for generated CSVs. NISE nests output under
// per-month directories, so the walk is recursive; returned names are
// relative to dir. Pod-usage files are reported separately because summary
// population depends on them specifically.
func collectCSVs(dir string) (all, podUsage []string, err error) {
	err = filepath.Walk(dir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".csv") {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return relErr
		}
		all = append(all, rel)
		if strings.Contains(info.Name(), "pod_usage") {
			podUsage = append(podUsage, rel)
		}
		return nil
	})
	return all, podUsage, err
}

func writeFile(dir, name, content string) error {
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
