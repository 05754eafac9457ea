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

import "time"

// Test-level timeouts. Pick with the setup options; the long timeout has to
// cover a complete ingest-to-recommendation pipeline run.
const (
	ShortTestTimeout  = 2 * time.Minute
	MediumTestTimeout = 10 * time.Minute
	LongTestTimeout   = 45 * time.Minute
)

// Per-stage budgets for the processing pipeline. Each stage polls until its
// deadline with the paired interval. The budgets reflect how long each stage
// takes on a loaded single-node cluster, with headroom.
const (
	// ProviderTimeout covers source registration propagating through Kafka
	// into a Koku provider row.
	ProviderTimeout  = 180 * time.Second
	ProviderInterval = 10 * time.Second

	// ManifestTimeout covers ingress upload to manifest row.
	ManifestTimeout  = 300 * time.Second
	ManifestInterval = 15 * time.Second

	// FileProcessingTimeout covers report file download and parsing.
	FileProcessingTimeout  = 600 * time.Second
	FileProcessingInterval = 30 * time.Second

	// SummaryTimeout covers the daily-summary aggregation task.
	SummaryTimeout  = 840 * time.Second
	SummaryInterval = 30 * time.Second

	// KruizeTimeout covers ROS pushing experiments into Kruize and Kruize
	// generating recommendations. Used for both stages.
	KruizeTimeout  = 240 * time.Second
	KruizeInterval = 20 * time.Second
)

// DefaultTimeout and DefaultInterval apply to waits without a stage budget.
const (
	DefaultTimeout  = 60 * time.Second
	DefaultInterval = 2 * time.Second
)
