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
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

const (
	// RunnerPodName is the dedicated pod in-cluster HTTP calls run from.
	// A dedicated pod keeps tests isolated from application pods, which may
	// lack curl or restart mid-test.
	RunnerPodName      = "cost-e2e-runner"
	runnerContainer    = "runner"
	runnerImage        = "registry.access.redhat.com/ubi9/ubi-minimal:latest"
	runnerReadyTimeout = 3 * time.Minute
)

// RunnerContainer is the container name inside the test-runner pod.
const RunnerContainer = runnerContainer

// EnsureRunnerPod creates the long-lived test-runner pod if absent and waits
// until it is Ready. An existing pod from a prior run is reused.
func EnsureRunnerPod(ctx context.Context, namespace string) (string, error) {
	cli, err := Client()
	if err != nil {
		return "", err
	}

	var existing corev1.Pod
	err = cli.Get(ctx, client.ObjectKey{Namespace: namespace, Name: RunnerPodName}, &existing)
	switch {
	case err == nil:
		if existing.Status.Phase == corev1.PodRunning && isPodReady(&existing) {
			return RunnerPodName, nil
		}
		if existing.Status.Phase == corev1.PodFailed || existing.Status.Phase == corev1.PodSucceeded {
			// A dead runner from an interrupted run; replace it.
			if err := cli.Delete(ctx, &existing); err != nil {
				return "", fmt.Errorf("removing stale runner pod: %w", err)
			}
			if err := createRunnerPod(ctx, cli, namespace); err != nil {
				return "", err
			}
		}
	case apierrors.IsNotFound(err):
		if err := createRunnerPod(ctx, cli, namespace); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("checking for runner pod: %w", err)
	}

	if err := WaitForPodReady(ctx, namespace, "app="+RunnerPodName, runnerReadyTimeout); err != nil {
		return "", fmt.Errorf("runner pod did not become ready: %w", err)
	}
	return RunnerPodName, nil
}

func createRunnerPod(ctx context.Context, cli client.Client, namespace string) error {
	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      RunnerPodName,
			Namespace: namespace,
			Labels: map[string]string{
				"app":      RunnerPodName,
				"e2e-test": "true",
			},
		},
		Spec: corev1.PodSpec{
			RestartPolicy: corev1.RestartPolicyNever,
			Containers: []corev1.Container{{
				Name:    runnerContainer,
				Image:   runnerImage,
				Command: []string{"sleep", "infinity"},
				Resources: corev1.ResourceRequirements{
					Requests: corev1.ResourceList{
						corev1.ResourceCPU:    resource.MustParse("10m"),
						corev1.ResourceMemory: resource.MustParse("32Mi"),
					},
					Limits: corev1.ResourceList{
						corev1.ResourceCPU:    resource.MustParse("100m"),
						corev1.ResourceMemory: resource.MustParse("128Mi"),
					},
				},
			}},
		},
	}
	if err := cli.Create(ctx, pod); err != nil && !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("creating runner pod: %w", err)
	}
	return nil
}

// DeleteRunnerPod removes the test-runner pod. Best-effort; a missing pod is
// not an error.
func DeleteRunnerPod(ctx context.Context, namespace string) error {
	cli, err := Client()
	if err != nil {
		return err
	}
	pod := &corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: RunnerPodName, Namespace: namespace}}
	if err := cli.Delete(ctx, pod); err != nil && !apierrors.IsNotFound(err) {
		return err
	}
	return nil
}
