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

// Package kube wraps cluster access for the suite: typed object access, pod
// exec, and the long-lived test-runner pod used to reach ClusterIP-only
// services from inside the cluster network.
package kube

import (
	"fmt"
	"os"
	"sync"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

var (
	restConfig    *rest.Config
	typedClient   client.Client
	clientset     *kubernetes.Clientset
	clientOnce    sync.Once
	clientInitErr error
)

func init() {
	// Initialize controller-runtime logger to suppress "log.SetLogger(...) was never called" warning
	log.SetLogger(zap.New(zap.UseDevMode(true)))
}

// Kubeconfig returns the kubeconfig path used for cluster access.
func Kubeconfig() string {
	if kubeconfig := os.Getenv("KUBECONFIG"); kubeconfig != "" {
		return kubeconfig
	}
	return os.Getenv("HOME") + "/.kube/config"
}

func initClients() {
	clientOnce.Do(func() {
		restConfig, clientInitErr = clientcmd.BuildConfigFromFlags("", Kubeconfig())
		if clientInitErr != nil {
			// Fall back to in-cluster config when the suite runs as a Job.
			if inCluster, err := rest.InClusterConfig(); err == nil {
				restConfig, clientInitErr = inCluster, nil
			} else {
				clientInitErr = fmt.Errorf("no kubeconfig and no in-cluster config: %w", clientInitErr)
				return
			}
		}

		typedClient, clientInitErr = client.New(restConfig, client.Options{Scheme: scheme.Scheme})
		if clientInitErr != nil {
			return
		}
		clientset, clientInitErr = kubernetes.NewForConfig(restConfig)
	})
}

// Client returns the singleton controller-runtime client.
func Client() (client.Client, error) {
	initClients()
	if clientInitErr != nil {
		return nil, clientInitErr
	}
	return typedClient, nil
}

// Clientset returns the singleton typed clientset (needed for exec and logs,
// which the controller-runtime client does not cover).
func Clientset() (*kubernetes.Clientset, error) {
	initClients()
	if clientInitErr != nil {
		return nil, clientInitErr
	}
	return clientset, nil
}

// Config returns the singleton REST config.
func Config() (*rest.Config, error) {
	initClients()
	if clientInitErr != nil {
		return nil, clientInitErr
	}
	return restConfig, nil
}
