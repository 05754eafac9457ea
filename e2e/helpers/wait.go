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
	"testing"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// WaitForCondition polls condition until it returns true, errors, or the
// timeout elapses. The condition is checked immediately before the first
// interval.
func WaitForCondition(ctx context.Context, condition func() (bool, error), timeout, interval time.Duration) error {
	return wait.PollUntilContextTimeout(ctx, interval, timeout, true, func(ctx context.Context) (bool, error) {
		return condition()
	})
}

// WaitForStage polls a pipeline stage with progress logging. Transient
// errors from the check keep the poll alive; only the deadline fails it.
// The elapsed time in the log lines makes pipeline stalls easy to spot in
// test output.
func WaitForStage(ctx context.Context, t *testing.T, stage string, timeout, interval time.Duration, check func(ctx context.Context) (bool, error)) error {
	t.Helper()
	start := time.Now()
	t.Logf("Waiting for %s (timeout %s, interval %s)", stage, timeout, interval)

	err := wait.PollUntilContextTimeout(ctx, interval, timeout, true, func(ctx context.Context) (bool, error) {
		done, err := check(ctx)
		elapsed := time.Since(start).Round(time.Second)
		if err != nil {
			t.Logf("  %s: still waiting after %s (%v)", stage, elapsed, err)
			return false, nil
		}
		if done {
			t.Logf("  %s: done after %s", stage, elapsed)
		}
		return done, nil
	})
	if err != nil {
		t.Logf("  %s: gave up after %s", stage, time.Since(start).Round(time.Second))
	}
	return err
}
