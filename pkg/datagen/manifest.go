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

// Package datagen produces synthetic OCP cost/usage datasets for upload
// through the ingress endpoint. Two strategies exist: the external NISE
// generator (preferred, produces data rich enough to populate summary
// tables) and a built-in fixed-shape generator used as fallback.
package datagen

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UploadMIMEType is the MIME type insights-ingress-go requires for
// cost-management payloads. Anything else is rejected with 415.
const UploadMIMEType = "application/vnd.redhat.hccm.filename+tgz"

// Manifest describes one upload batch. Field names match the wire format the
// cost-management operator produces and the ingestion pipeline parses.
type Manifest struct {
	UUID            string   `json:"uuid"`
	ClusterID       string   `json:"cluster_id"`
	ClusterAlias    string   `json:"cluster_alias"`
	Date            string   `json:"date"`
	Files           []string `json:"files"`
	Certified       bool     `json:"certified"`
	OperatorVersion string   `json:"operator_version"`
	DailyReports    bool     `json:"daily_reports"`
	Start           string   `json:"start"`
	End             string   `json:"end"`
}

// NewManifest builds a manifest for the given cluster and file set over the
// [start, end] window.
func NewManifest(clusterID string, files []string, start, end time.Time) Manifest {
	alias := clusterID
	if len(alias) > 8 {
		alias = "e2e-" + alias[len(alias)-8:]
	}
	return Manifest{
		UUID:            uuid.NewString(),
		ClusterID:       clusterID,
		ClusterAlias:    alias,
		Date:            end.UTC().Format(time.RFC3339),
		Files:           files,
		Certified:       true,
		OperatorVersion: "1.0.0",
		DailyReports:    false,
		Start:           start.UTC().Format(time.RFC3339),
		End:             end.UTC().Format(time.RFC3339),
	}
}

// NewClusterID returns a unique cluster id. The timestamp plus uuid fragment
// keeps concurrent and successive runs from colliding, and the prefix makes
// leftover rows from crashed runs identifiable for cleanup.
func NewClusterID(prefix string) string {
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().UTC().Format("20060102150405"), uuid.NewString()[:8])
}
