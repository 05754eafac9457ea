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
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/insights-onprem/cost-e2e/pkg/ingest"
	"github.com/insights-onprem/cost-e2e/pkg/kube"
)

const (
	sourceRetryMaxTries     = 5
	sourceRetryInitialDelay = 5 * time.Second
	sourceRetryMaxDelay     = 30 * time.Second
)

// sourceBackoff builds the retry policy for source registration: start at
// 5s, double each attempt, cap at 30s.
func sourceBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = sourceRetryInitialDelay
	b.Multiplier = 2
	b.MaxInterval = sourceRetryMaxDelay
	b.RandomizationFactor = 0
	return b
}

// retryableStatus reports whether a sources-API status is worth retrying.
// 5xx means the service is still warming up; 409 means a racing delete has
// not finished. Any other 4xx is a real request problem and retrying would
// just repeat it.
func retryableStatus(code int) bool {
	return code >= 500 || code == http.StatusConflict
}

// RegisterSource creates a source with retries and attaches the
// cost-management application to it. Transient failures (transport errors,
// 5xx, 409) back off and retry; other client errors abort immediately.
func RegisterSource(ctx context.Context, t *testing.T, api *InternalAPI, create ingest.SourceCreate, applicationTypeID string) (*ingest.Source, error) {
	t.Helper()

	src, err := backoff.Retry(ctx, func() (*ingest.Source, error) {
		src, resp, err := api.CreateSource(ctx, create)
		if err != nil {
			t.Logf("Source create attempt failed: %v", err)
			return nil, err
		}
		if src != nil {
			return src, nil
		}
		if retryableStatus(resp.StatusCode) {
			t.Logf("Source create returned %d, retrying: %s", resp.StatusCode, resp.Body)
			return nil, fmt.Errorf("source create returned %d", resp.StatusCode)
		}
		return nil, backoff.Permanent(fmt.Errorf("source create rejected with %d: %s", resp.StatusCode, resp.Body))
	}, backoff.WithBackOff(sourceBackoff()), backoff.WithMaxTries(sourceRetryMaxTries))
	if err != nil {
		return nil, fmt.Errorf("registering source %s: %w", create.Name, err)
	}

	_, err = backoff.Retry(ctx, func() (*kube.PodResponse, error) {
		resp, err := api.CreateApplication(ctx, src.ID.String(), applicationTypeID)
		if err != nil {
			return nil, err
		}
		if resp.OK() {
			return resp, nil
		}
		if retryableStatus(resp.StatusCode) {
			return nil, fmt.Errorf("application create returned %d", resp.StatusCode)
		}
		return nil, backoff.Permanent(fmt.Errorf("application create rejected with %d: %s", resp.StatusCode, resp.Body))
	}, backoff.WithBackOff(sourceBackoff()), backoff.WithMaxTries(sourceRetryMaxTries))
	if err != nil {
		return nil, fmt.Errorf("attaching application to source %s: %w", src.ID, err)
	}

	return src, nil
}
