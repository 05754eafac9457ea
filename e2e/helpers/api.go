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

import (
	"context"
	"fmt"
	"net/http"

	"github.com/insights-onprem/cost-e2e/pkg/identity"
	"github.com/insights-onprem/cost-e2e/pkg/ingest"
	"github.com/insights-onprem/cost-e2e/pkg/kube"
	"github.com/insights-onprem/cost-e2e/pkg/platform"
)

// InternalAPI talks to the Koku API service from inside the cluster, with an
// identity header attached. The service is not exposed outside the cluster,
// so requests go through curl in the test-runner pod.
type InternalAPI struct {
	base    string
	session *kube.PodHTTP
}

// NewInternalAPI builds a client bound to the runner pod, sending the given
// identity on every request. EnsureRunnerPod must have succeeded first.
func NewInternalAPI(cfg platform.Config, id identity.Identity) *InternalAPI {
	session := kube.NewPodHTTP(cfg.Namespace, kube.RunnerPodName).
		WithHeader(identity.HeaderName, id.Header())
	return &InternalAPI{
		base:    cfg.InternalAPIURL() + "/api/cost-management/v1",
		session: session,
	}
}

// WithIdentity returns a client sending a different identity header. Used by
// the identity-enforcement tests.
func (a *InternalAPI) WithIdentity(header string) *InternalAPI {
	return &InternalAPI{
		base:    a.base,
		session: a.session.WithHeader(identity.HeaderName, header),
	}
}

// Status checks the API status endpoint.
func (a *InternalAPI) Status(ctx context.Context) (*kube.PodResponse, error) {
	return a.session.Get(ctx, a.base+"/status/", nil, nil)
}

// Get issues a GET against an API path, for tests probing arbitrary
// endpoints or error behavior.
func (a *InternalAPI) Get(ctx context.Context, path string, params map[string]string) (*kube.PodResponse, error) {
	return a.session.Get(ctx, a.base+path, params, nil)
}

// list fetches a list endpoint and decodes the standard envelope.
func (a *InternalAPI) list(ctx context.Context, path string, params map[string]string) (*ingest.ListResponse, error) {
	resp, err := a.session.Get(ctx, a.base+path, params, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("GET %s returned %d: %s", path, resp.StatusCode, resp.Body)
	}
	var out ingest.ListResponse
	if err := resp.JSON(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SourceTypes lists the known source types.
func (a *InternalAPI) SourceTypes(ctx context.Context) ([]ingest.SourceType, error) {
	envelope, err := a.list(ctx, "/source_types/", nil)
	if err != nil {
		return nil, err
	}
	var types []ingest.SourceType
	if err := envelope.DecodeData(&types); err != nil {
		return nil, err
	}
	return types, nil
}

// OpenShiftSourceTypeID finds the id of the "openshift" source type.
func (a *InternalAPI) OpenShiftSourceTypeID(ctx context.Context) (string, error) {
	types, err := a.SourceTypes(ctx)
	if err != nil {
		return "", err
	}
	for _, st := range types {
		if st.Name == "openshift" {
			return st.ID.String(), nil
		}
	}
	return "", fmt.Errorf("no openshift source type among %d source types", len(types))
}

// ApplicationTypes lists the known application types.
func (a *InternalAPI) ApplicationTypes(ctx context.Context) ([]ingest.ApplicationType, error) {
	envelope, err := a.list(ctx, "/application_types/", nil)
	if err != nil {
		return nil, err
	}
	var types []ingest.ApplicationType
	if err := envelope.DecodeData(&types); err != nil {
		return nil, err
	}
	return types, nil
}

// CostManagementApplicationTypeID finds the cost-management application type.
func (a *InternalAPI) CostManagementApplicationTypeID(ctx context.Context) (string, error) {
	types, err := a.ApplicationTypes(ctx)
	if err != nil {
		return "", err
	}
	for _, at := range types {
		if at.Name == "/insights/platform/cost-management" {
			return at.ID.String(), nil
		}
	}
	return "", fmt.Errorf("no cost-management application type among %d application types", len(types))
}

// ListSources lists sources, optionally filtered by query params.
func (a *InternalAPI) ListSources(ctx context.Context, params map[string]string) ([]ingest.Source, error) {
	envelope, err := a.list(ctx, "/sources/", params)
	if err != nil {
		return nil, err
	}
	var sources []ingest.Source
	if err := envelope.DecodeData(&sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// GetSource fetches one source. A 404 comes back as (nil, resp, nil) so
// callers can assert on the status without error gymnastics.
func (a *InternalAPI) GetSource(ctx context.Context, id string) (*ingest.Source, *kube.PodResponse, error) {
	resp, err := a.session.Get(ctx, a.base+"/sources/"+id+"/", nil, nil)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, resp, nil
	}
	if !resp.OK() {
		return nil, resp, fmt.Errorf("GET source %s returned %d: %s", id, resp.StatusCode, resp.Body)
	}
	var src ingest.Source
	if err := resp.JSON(&src); err != nil {
		return nil, resp, err
	}
	return &src, resp, nil
}

// CreateSource registers a source. The raw response is returned alongside the
// decoded source so callers can check the status code on conflict tests.
func (a *InternalAPI) CreateSource(ctx context.Context, create ingest.SourceCreate) (*ingest.Source, *kube.PodResponse, error) {
	resp, err := a.session.Post(ctx, a.base+"/sources/", create, nil)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, resp, nil
	}
	var src ingest.Source
	if err := resp.JSON(&src); err != nil {
		return nil, resp, err
	}
	return &src, resp, nil
}

// UpdateSource patches a source's name.
func (a *InternalAPI) UpdateSource(ctx context.Context, id, name string) (*kube.PodResponse, error) {
	return a.session.Put(ctx, a.base+"/sources/"+id+"/", map[string]string{"name": name}, nil)
}

// DeleteSource removes a source. Callers treat 404 as already-gone.
func (a *InternalAPI) DeleteSource(ctx context.Context, id string) (*kube.PodResponse, error) {
	return a.session.Delete(ctx, a.base+"/sources/"+id+"/", nil)
}

// CreateApplication attaches an application type to a source, which is what
// makes Koku start treating the source as a cost-management provider.
func (a *InternalAPI) CreateApplication(ctx context.Context, sourceID, applicationTypeID string) (*kube.PodResponse, error) {
	body := map[string]string{
		"source_id":           sourceID,
		"application_type_id": applicationTypeID,
	}
	return a.session.Post(ctx, a.base+"/applications/", body, nil)
}
