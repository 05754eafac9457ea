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
	"bytes"
	"context"
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/remotecommand"
)

// ExecResult carries the outcome of a pod exec. A non-zero exit is not an
// error at this layer; the caller decides whether it is fatal.
type ExecResult struct {
	Stdout string
	Stderr string
	// ExitErr is set when the command ran but exited non-zero.
	ExitErr error
}

// Failed reports whether the command exited non-zero.
func (r ExecResult) Failed() bool { return r.ExitErr != nil }

// ExecInPod runs a command inside a pod container over SPDY. A returned error
// means the exec itself could not be performed (transport failure); command
// failures land in ExecResult.ExitErr with stderr preserved.
func ExecInPod(ctx context.Context, namespace, pod, container string, command ...string) (ExecResult, error) {
	cs, err := Clientset()
	if err != nil {
		return ExecResult{}, err
	}
	cfg, err := Config()
	if err != nil {
		return ExecResult{}, err
	}

	req := cs.CoreV1().RESTClient().Post().
		Resource("pods").
		Name(pod).
		Namespace(namespace).
		SubResource("exec").
		VersionedParams(&corev1.PodExecOptions{
			Container: container,
			Command:   command,
			Stdout:    true,
			Stderr:    true,
		}, scheme.ParameterCodec)

	executor, err := remotecommand.NewSPDYExecutor(cfg, "POST", req.URL())
	if err != nil {
		return ExecResult{}, fmt.Errorf("creating executor for %s/%s: %w", namespace, pod, err)
	}

	var stdout, stderr bytes.Buffer
	streamErr := executor.StreamWithContext(ctx, remotecommand.StreamOptions{
		Stdout: &stdout,
		Stderr: &stderr,
	})

	result := ExecResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if streamErr != nil {
		// remotecommand reports non-zero exits as CodeExitError through the
		// same error path as transport failures; with any output captured we
		// treat it as a command failure, not a transport one.
		if stdout.Len() > 0 || stderr.Len() > 0 || strings.Contains(streamErr.Error(), "exit code") {
			result.ExitErr = streamErr
			return result, nil
		}
		return ExecResult{}, fmt.Errorf("exec in %s/%s failed: %w", namespace, pod, streamErr)
	}
	return result, nil
}

// PodEnv reads a single environment variable from a running container.
// Returns "" without error when the variable is unset.
func PodEnv(ctx context.Context, namespace, pod, container, name string) (string, error) {
	result, err := ExecInPod(ctx, namespace, pod, container, "printenv", name)
	if err != nil {
		return "", err
	}
	if result.Failed() {
		return "", nil
	}
	return strings.TrimSpace(result.Stdout), nil
}
