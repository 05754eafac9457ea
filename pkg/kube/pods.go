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
	"io"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/util/wait"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// ListPods returns pods in namespace matching the label selector
// (e.g. "app.kubernetes.io/component=cost-management-api").
func ListPods(ctx context.Context, namespace, selector string) ([]corev1.Pod, error) {
	cli, err := Client()
	if err != nil {
		return nil, err
	}
	parsed, err := labels.Parse(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}

	var list corev1.PodList
	if err := cli.List(ctx, &list,
		client.InNamespace(namespace),
		client.MatchingLabelsSelector{Selector: parsed}); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// FirstRunningPod returns the name of the first Running pod matching the
// selector, or an error when none exists.
func FirstRunningPod(ctx context.Context, namespace, selector string) (string, error) {
	pods, err := ListPods(ctx, namespace, selector)
	if err != nil {
		return "", err
	}
	for _, pod := range pods {
		if pod.Status.Phase == corev1.PodRunning {
			return pod.Name, nil
		}
	}
	return "", fmt.Errorf("no running pod matches %q in %s", selector, namespace)
}

// PodReady reports whether at least one pod matching the selector has the
// Ready condition true.
func PodReady(ctx context.Context, namespace, selector string) (bool, error) {
	pods, err := ListPods(ctx, namespace, selector)
	if err != nil {
		return false, err
	}
	for _, pod := range pods {
		if isPodReady(&pod) {
			return true, nil
		}
	}
	return false, nil
}

func isPodReady(pod *corev1.Pod) bool {
	if pod.Status.Phase != corev1.PodRunning {
		return false
	}
	for _, cond := range pod.Status.Conditions {
		if cond.Type == corev1.PodReady && cond.Status == corev1.ConditionTrue {
			return true
		}
	}
	return false
}

// WaitForPodReady polls until a pod matching the selector is Ready.
func WaitForPodReady(ctx context.Context, namespace, selector string, timeout time.Duration) error {
	return wait.PollUntilContextTimeout(ctx, 2*time.Second, timeout, true,
		func(ctx context.Context) (bool, error) {
			ready, err := PodReady(ctx, namespace, selector)
			if err != nil {
				// Listing can fail transiently during restarts; keep polling.
				return false, nil
			}
			return ready, nil
		})
}

// ScanPodLogs reads the recent log tail of the first pod matching the
// selector and reports whether needle occurs in it.
func ScanPodLogs(ctx context.Context, namespace, selector, needle string, tailLines int64) (bool, error) {
	cs, err := Clientset()
	if err != nil {
		return false, err
	}
	podName, err := FirstRunningPod(ctx, namespace, selector)
	if err != nil {
		return false, err
	}

	req := cs.CoreV1().Pods(namespace).GetLogs(podName, &corev1.PodLogOptions{TailLines: &tailLines})
	stream, err := req.Stream(ctx)
	if err != nil {
		return false, fmt.Errorf("streaming logs of %s: %w", podName, err)
	}
	defer func() { _ = stream.Close() }()

	logs, err := io.ReadAll(stream)
	if err != nil {
		return false, err
	}
	return strings.Contains(string(logs), needle), nil
}

// RestartPods deletes all pods matching the selector and waits for
// replacements to become Ready. Used by cleanup when E2E_RESTART_SERVICES is
// set, to flush processing state between runs.
func RestartPods(ctx context.Context, namespace, selector string, timeout time.Duration) error {
	cli, err := Client()
	if err != nil {
		return err
	}
	pods, err := ListPods(ctx, namespace, selector)
	if err != nil {
		return err
	}
	for _, pod := range pods {
		if err := cli.Delete(ctx, &pod); err != nil {
			return fmt.Errorf("deleting pod %s: %w", pod.Name, err)
		}
	}
	return WaitForPodReady(ctx, namespace, selector, timeout)
}

// SecretValue reads one key from a secret.
func SecretValue(ctx context.Context, namespace, name, key string) (string, error) {
	cli, err := Client()
	if err != nil {
		return "", err
	}
	var secret corev1.Secret
	if err := cli.Get(ctx, client.ObjectKey{Namespace: namespace, Name: name}, &secret); err != nil {
		return "", fmt.Errorf("getting secret %s/%s: %w", namespace, name, err)
	}
	value, ok := secret.Data[key]
	if !ok {
		keys := make([]string, 0, len(secret.Data))
		for k := range secret.Data {
			keys = append(keys, k)
		}
		return "", fmt.Errorf("secret %s/%s missing key %q (available: %v)", namespace, name, key, keys)
	}
	return string(value), nil
}
