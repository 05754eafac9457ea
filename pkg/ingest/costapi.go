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

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// List GETs a cost-management list endpoint (path relative to
// /cost-management/v1, e.g. "/reports/openshift/costs/") and decodes the
// standard envelope. Non-2xx responses return an error carrying the status
// and a body prefix.
func (g *Gateway) List(ctx context.Context, path string, params map[string]string) (*ListResponse, error) {
	resp, err := g.get(ctx, path, params, false)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode(), Body: truncateBody(resp.String()), Path: path}
	}
	var out ListResponse
	if err := unmarshalLoose(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", path, err)
	}
	return &out, nil
}

// ListFresh is List with a freshly minted token, for calls made after
// minutes of pipeline polling.
func (g *Gateway) ListFresh(ctx context.Context, path string, params map[string]string) (*ListResponse, error) {
	resp, err := g.get(ctx, path, params, true)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode(), Body: truncateBody(resp.String()), Path: path}
	}
	var out ListResponse
	if err := unmarshalLoose(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", path, err)
	}
	return &out, nil
}

// GetStatus GETs a path and returns only the HTTP status, for tests that
// assert on status codes of negative paths.
func (g *Gateway) GetStatus(ctx context.Context, path string, params map[string]string) (int, string, error) {
	resp, err := g.get(ctx, path, params, false)
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode(), truncateBody(resp.String()), nil
}

func (g *Gateway) get(ctx context.Context, path string, params map[string]string, fresh bool) (*resty.Response, error) {
	req, err := g.authed(ctx, fresh)
	if err != nil {
		return nil, err
	}
	if len(params) > 0 {
		req.SetQueryParams(params)
	}
	resp, err := req.Get(g.base + "/cost-management/v1" + path)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	return resp, nil
}

// StatusError is a non-2xx API answer.
type StatusError struct {
	StatusCode int
	Body       string
	Path       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned %d: %s", e.Path, e.StatusCode, e.Body)
}
