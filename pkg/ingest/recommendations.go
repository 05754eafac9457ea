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

package ingest

import "context"

// Well-known report endpoint paths, relative to /cost-management/v1.
const (
	PathOCPCosts        = "/reports/openshift/costs/"
	PathOCPCompute      = "/reports/openshift/compute/"
	PathOCPMemory       = "/reports/openshift/memory/"
	PathOCPVolumes      = "/reports/openshift/volumes/"
	PathOCPTags         = "/tags/openshift/"
	PathRecommendations = "/recommendations/openshift"
	PathSources         = "/sources/"
)

// Recommendations lists ROS recommendations with a fresh token. The fresh
// token matters: this call typically follows the full pipeline wait and any
// cached token is long expired.
func (g *Gateway) Recommendations(ctx context.Context, params map[string]string) (*ListResponse, []Recommendation, error) {
	list, err := g.ListFresh(ctx, PathRecommendations, params)
	if err != nil {
		return nil, nil, err
	}
	var recs []Recommendation
	if err := list.DecodeData(&recs); err != nil {
		return nil, nil, err
	}
	return list, recs, nil
}
