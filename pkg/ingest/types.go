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

import "encoding/json"

// Meta is the pagination block every list endpoint returns.
type Meta struct {
	Count  int `json:"count"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ListResponse is the {meta, links, data} envelope shared by the
// cost-management list endpoints. Data stays raw; endpoint-specific helpers
// decode it.
type ListResponse struct {
	Meta  Meta              `json:"meta"`
	Links map[string]string `json:"links"`
	Data  []json.RawMessage `json:"data"`
}

// DecodeData unmarshals every data element into out (a pointer to a slice).
func (l *ListResponse) DecodeData(out any) error {
	raw, err := json.Marshal(l.Data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// Source is a registered integration record.
type Source struct {
	ID           json.Number `json:"id"`
	Name         string      `json:"name"`
	SourceTypeID json.Number `json:"source_type_id"`
	SourceRef    string      `json:"source_ref"`
	UID          string      `json:"uid"`
}

// SourceCreate is the POST body for registering a source.
type SourceCreate struct {
	Name         string `json:"name"`
	SourceTypeID string `json:"source_type_id"`
	SourceRef    string `json:"source_ref"`
}

// SourceType is an entry from /source_types.
type SourceType struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
}

// ApplicationType is an entry from /application_types.
type ApplicationType struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
}

// Recommendation is one entry from the recommendations list. Only the fields
// the tests assert on are decoded.
type Recommendation struct {
	ID           string `json:"id"`
	ClusterUUID  string `json:"cluster_uuid"`
	ClusterAlias string `json:"cluster_alias"`
	Project      string `json:"project"`
	Workload     string `json:"workload"`
	WorkloadType string `json:"workload_type"`
	Container    string `json:"container"`
}

// unmarshalLoose tolerates empty bodies; everything else is regular JSON.
func unmarshalLoose(body []byte, out any) error {
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}
