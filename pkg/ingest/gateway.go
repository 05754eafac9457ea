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

// Package ingest is the HTTP client for the external gateway: the ingress
// upload endpoint and the cost-management API (reports, tags, sources,
// recommendations). All requests carry a Keycloak-issued bearer token.
package ingest

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrServiceUnavailable marks a 503 from the ingress endpoint. Callers treat
// it as "service not ready" and skip rather than fail.
var ErrServiceUnavailable = errors.New("ingress service unavailable")

// TokenSource supplies bearer tokens. Implemented by auth.TokenProvider.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	FreshToken(ctx context.Context) (string, error)
}

// staticToken adapts a fixed token string, for tests and the CLI.
type staticToken string

func (s staticToken) Token(context.Context) (string, error)      { return string(s), nil }
func (s staticToken) FreshToken(context.Context) (string, error) { return string(s), nil }

// StaticToken wraps a pre-acquired token as a TokenSource.
func StaticToken(token string) TokenSource { return staticToken(token) }

// Gateway is the authenticated client for the external route.
type Gateway struct {
	base   string
	rest   *resty.Client
	tokens TokenSource
}

// NewGateway builds a client for the gateway base URL (which already carries
// the /api route prefix). Self-signed route certificates are the norm
// on-prem, so TLS verification is off.
func NewGateway(baseURL string, tokens TokenSource) *Gateway {
	rest := resty.New().
		SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}). //nolint:gosec
		SetTimeout(60 * time.Second)
	return &Gateway{base: baseURL, rest: rest, tokens: tokens}
}

// Rest exposes the underlying client for tests that need raw requests.
func (g *Gateway) Rest() *resty.Client { return g.rest }

// BaseURL returns the configured gateway base.
func (g *Gateway) BaseURL() string { return g.base }

func (g *Gateway) authed(ctx context.Context, fresh bool) (*resty.Request, error) {
	var (
		token string
		err   error
	)
	if fresh {
		token, err = g.tokens.FreshToken(ctx)
	} else {
		token, err = g.tokens.Token(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("acquiring bearer token: %w", err)
	}
	return g.rest.R().SetContext(ctx).SetAuthToken(token), nil
}

// UploadResult captures what the ingress endpoint answered.
type UploadResult struct {
	StatusCode int
	Body       string
	RequestID  string
}

// Accepted reports whether the upload was queued for processing.
func (r UploadResult) Accepted() bool { return r.StatusCode == http.StatusAccepted }

// Upload POSTs a cost-management tarball to {gateway}/ingress/v1/upload as
// multipart field "file" with the required MIME type. A 503 returns
// ErrServiceUnavailable alongside the result; other statuses are returned
// for the caller to assert on.
func (g *Gateway) Upload(ctx context.Context, payload []byte, filename, mimeType string) (UploadResult, error) {
	req, err := g.authed(ctx, true)
	if err != nil {
		return UploadResult{}, err
	}

	resp, err := req.
		SetMultipartField("file", filename, mimeType, bytes.NewReader(payload)).
		Post(g.base + "/ingress/v1/upload")
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload request: %w", err)
	}

	result := UploadResult{
		StatusCode: resp.StatusCode(),
		Body:       truncateBody(resp.String()),
	}
	var envelope struct {
		RequestID string `json:"request_id"`
	}
	if jsonErr := unmarshalLoose(resp.Body(), &envelope); jsonErr == nil {
		result.RequestID = envelope.RequestID
	}

	if resp.StatusCode() == http.StatusServiceUnavailable {
		return result, ErrServiceUnavailable
	}
	return result, nil
}

// UploadRaw POSTs an arbitrary body with an arbitrary content type, used for
// the negative-path content-type checks. Like Upload, a 503 comes back as
// ErrServiceUnavailable so callers can skip instead of asserting on it.
func (g *Gateway) UploadRaw(ctx context.Context, body []byte, contentType string) (UploadResult, error) {
	req, err := g.authed(ctx, false)
	if err != nil {
		return UploadResult{}, err
	}

	resp, err := req.
		SetHeader("Content-Type", contentType).
		SetBody(body).
		Post(g.base + "/ingress/v1/upload")
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload request: %w", err)
	}
	result := UploadResult{StatusCode: resp.StatusCode(), Body: truncateBody(resp.String())}
	if resp.StatusCode() == http.StatusServiceUnavailable {
		return result, ErrServiceUnavailable
	}
	return result, nil
}

func truncateBody(s string) string {
	const max = 500
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
