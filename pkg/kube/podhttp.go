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

package kube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// codeMarker separates the response body from the status code in captured
// curl output. curl prints the body first, then the -w format string.
const codeMarker = "__HTTP_CODE__:"

// PodHTTP issues HTTP requests from inside the cluster by running curl in
// the test-runner pod. It mirrors a normal HTTP client's response model so
// tests stay agnostic to the transport.
type PodHTTP struct {
	Namespace string
	Pod       string
	Container string
	// Headers are sent with every request (e.g. X-Rh-Identity).
	Headers map[string]string
}

// NewPodHTTP returns a session bound to the test-runner pod.
func NewPodHTTP(namespace, pod string) *PodHTTP {
	return &PodHTTP{
		Namespace: namespace,
		Pod:       pod,
		Container: RunnerContainer,
		Headers:   map[string]string{},
	}
}

// WithHeader returns a copy of the session with an extra default header.
func (s *PodHTTP) WithHeader(name, value string) *PodHTTP {
	clone := *s
	clone.Headers = make(map[string]string, len(s.Headers)+1)
	for k, v := range s.Headers {
		clone.Headers[k] = v
	}
	clone.Headers[name] = value
	return &clone
}

// PodResponse is a reconstructed HTTP response. It is only ever non-nil for
// a completed HTTP exchange; transport failures (exec or curl did not run)
// surface as errors instead, never as fabricated status codes.
type PodResponse struct {
	StatusCode int
	Body       string
}

// OK reports a 2xx status.
func (r *PodResponse) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// JSON unmarshals the body into out.
func (r *PodResponse) JSON(out any) error {
	if err := json.Unmarshal([]byte(r.Body), out); err != nil {
		return fmt.Errorf("response is not valid JSON (status %d): %w: %s", r.StatusCode, err, truncate(r.Body, 200))
	}
	return nil
}

// Get issues a GET with optional query params.
func (s *PodHTTP) Get(ctx context.Context, rawURL string, params map[string]string, headers map[string]string) (*PodResponse, error) {
	return s.do(ctx, "GET", rawURL, params, headers, nil)
}

// Post issues a POST with a JSON body.
func (s *PodHTTP) Post(ctx context.Context, rawURL string, body any, headers map[string]string) (*PodResponse, error) {
	return s.do(ctx, "POST", rawURL, nil, headers, body)
}

// Put issues a PUT with a JSON body.
func (s *PodHTTP) Put(ctx context.Context, rawURL string, body any, headers map[string]string) (*PodResponse, error) {
	return s.do(ctx, "PUT", rawURL, nil, headers, body)
}

// Delete issues a DELETE.
func (s *PodHTTP) Delete(ctx context.Context, rawURL string, headers map[string]string) (*PodResponse, error) {
	return s.do(ctx, "DELETE", rawURL, nil, headers, nil)
}

func (s *PodHTTP) do(ctx context.Context, method, rawURL string, params, headers map[string]string, body any) (*PodResponse, error) {
	if len(params) > 0 {
		values := url.Values{}
		for k, v := range params {
			values.Set(k, v)
		}
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		rawURL += sep + values.Encode()
	}

	cmd := []string{"curl", "-s", "-X", method, "-w", codeMarker + "%{http_code}"}
	for k, v := range s.Headers {
		cmd = append(cmd, "-H", k+": "+v)
	}
	for k, v := range headers {
		cmd = append(cmd, "-H", k+": "+v)
	}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		cmd = append(cmd, "-H", "Content-Type: application/json", "-d", string(payload))
	}
	cmd = append(cmd, rawURL)

	result, err := ExecInPod(ctx, s.Namespace, s.Pod, s.Container, cmd...)
	if err != nil {
		return nil, fmt.Errorf("transport failure executing curl in %s/%s: %w", s.Namespace, s.Pod, err)
	}
	if result.Failed() {
		return nil, fmt.Errorf("curl could not reach %s: %v: %s", rawURL, result.ExitErr, truncate(result.Stderr, 200))
	}
	return ParseCurlOutput(result.Stdout)
}

// ParseCurlOutput splits captured curl output into body and status code.
// Output without the marker means curl did not complete an HTTP exchange;
// that is a transport failure, not a response.
func ParseCurlOutput(output string) (*PodResponse, error) {
	idx := strings.LastIndex(output, codeMarker)
	if idx < 0 {
		return nil, fmt.Errorf("no status marker in curl output: %s", truncate(output, 200))
	}
	codeStr := strings.TrimSpace(output[idx+len(codeMarker):])
	code, err := strconv.Atoi(codeStr)
	if err != nil || code == 0 {
		return nil, fmt.Errorf("invalid status code %q in curl output", codeStr)
	}
	return &PodResponse{StatusCode: code, Body: output[:idx]}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
