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
	"strings"

	"github.com/insights-onprem/cost-e2e/pkg/kube"
)

// fieldSep keeps psql output parseable even when values contain commas.
const fieldSep = "|"

// Query runs sql inside the database pod via psql and returns parsed rows.
// Unaligned tuple-only output with an explicit separator makes parsing
// trivial. Row values are trimmed strings; callers convert types.
func (c *Config) Query(ctx context.Context, sql string) ([][]string, error) {
	result, err := kube.ExecInPod(ctx, c.Namespace, c.Pod, "",
		"psql", "-U", c.User, "-d", c.Database, "-t", "-A", "-F", fieldSep, "-c", sql)
	if err != nil {
		return nil, err
	}
	if result.Failed() {
		return nil, fmt.Errorf("psql failed: %v: %s", result.ExitErr, strings.TrimSpace(result.Stderr))
	}
	return parseRows(result.Stdout), nil
}

// QueryCount runs a single-value COUNT query and returns the integer.
func (c *Config) QueryCount(ctx context.Context, sql string) (int, error) {
	rows, err := c.Query(ctx, sql)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, fmt.Errorf("count query returned no rows")
	}
	count, err := strconv.Atoi(strings.TrimSpace(rows[0][0]))
	if err != nil {
		return 0, fmt.Errorf("count query returned non-numeric %q", rows[0][0])
	}
	return count, nil
}

// Exec runs a statement for its side effect (cleanup deletes). Errors are
// returned but callers usually log and continue.
func (c *Config) Exec(ctx context.Context, sql string) error {
	_, err := c.Query(ctx, sql)
	return err
}

func parseRows(output string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, fieldSep)
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		rows = append(rows, fields)
	}
	return rows
}
