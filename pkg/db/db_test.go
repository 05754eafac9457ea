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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServiceFQDN(t *testing.T) {
	tests := []struct {
		host      string
		ok        bool
		namespace string
		name      string
	}{
		{"postgresql.byoi-infra.svc.cluster.local", true, "byoi-infra", "postgresql"},
		{"postgresql.byoi-infra.svc", true, "byoi-infra", "postgresql"},
		{"cost-onprem-database.cost.svc.cluster.local", true, "cost", "cost-onprem-database"},
		{"cost-onprem-database", false, "", ""},
		{"svc.only", false, "", ""},
		{"a.svc", false, "", ""},
	}
	for _, tc := range tests {
		parsed, ok := parseServiceFQDN(tc.host)
		assert.Equal(t, tc.ok, ok, "host %q", tc.host)
		if tc.ok {
			assert.Equal(t, tc.namespace, parsed.Namespace, "host %q", tc.host)
			assert.Equal(t, tc.name, parsed.Name, "host %q", tc.host)
		}
	}
}

func TestParseRows(t *testing.T) {
	output := " 42|abc-assembly|test-cluster-1 \n 7|other|test-cluster-2 \n\n"
	rows := parseRows(output)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"42", "abc-assembly", "test-cluster-1"}, rows[0])
	assert.Equal(t, []string{"7", "other", "test-cluster-2"}, rows[1])
}

func TestParseRowsEmptyOutput(t *testing.T) {
	assert.Empty(t, parseRows("\n \n"))
}

func TestParseRowsPreservesEmptyFields(t *testing.T) {
	rows := parseRows("report.csv||2026-08-28")
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"report.csv", "", "2026-08-28"}, rows[0])
}
