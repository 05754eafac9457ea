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

// Package db asserts on Postgres state of the platform under test. The
// database is only reachable in-cluster, so every query is a fresh psql
// invocation inside the database pod; there are no connections to pool.
//
// Discovery follows the single code path that works for both bundled and
// BYOI deployments: read the resolved DB host from a running app pod's
// environment, parse the service FQDN, find the backing pod via service
// endpoints, and read credentials from the chart secret.
package db

import (
	"context"
	"fmt"
	"strings"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/insights-onprem/cost-e2e/pkg/kube"
	"github.com/insights-onprem/cost-e2e/pkg/platform"
)

// Config locates one logical database: the pod to exec in plus credentials.
type Config struct {
	Pod       string
	Namespace string
	Database  string
	User      string
	Password  string
}

// hostLookup maps an app pod label to the env var carrying the resolved DB
// host. The Helm templates inject the concrete hostname into every app pod,
// so reading it back avoids parsing chart values.
type hostLookup struct {
	label  string
	envVar string
}

var dbHostLookups = []hostLookup{
	{label: "app.kubernetes.io/component=ros-api", envVar: "DB_HOST"},
	{label: "app.kubernetes.io/component=cost-management-api", envVar: "DATABASE_SERVICE_HOST"},
	{label: "app.kubernetes.io/component=cost-processor", envVar: "DATABASE_SERVICE_HOST"},
}

// parsedService is a Kubernetes service extracted from an FQDN.
type parsedService struct {
	Namespace string
	Name      string
}

// parseServiceFQDN handles forms like
// "postgresql.infra.svc.cluster.local" and "postgresql.infra.svc".
// Non-FQDN hostnames return ok=false.
func parseServiceFQDN(hostname string) (parsedService, bool) {
	parts := strings.Split(hostname, ".")
	for i, part := range parts {
		if part == "svc" && i >= 2 {
			return parsedService{Namespace: parts[i-1], Name: parts[i-2]}, true
		}
	}
	return parsedService{}, false
}

// Discover resolves the Koku database configuration.
func Discover(ctx context.Context, cfg platform.Config) (*Config, error) {
	host, err := hostFromAppPod(ctx, cfg.Namespace)
	if err != nil {
		return nil, err
	}

	dbNamespace := cfg.Namespace
	serviceName := host
	if strings.Contains(host, ".svc") {
		parsed, ok := parseServiceFQDN(host)
		if !ok {
			return nil, fmt.Errorf("cannot parse service from DB host %q", host)
		}
		dbNamespace = parsed.Namespace
		serviceName = parsed.Name
	}

	pod, err := findDatabasePod(ctx, dbNamespace, serviceName)
	if err != nil {
		return nil, fmt.Errorf("locating database pod for host %q: %w", host, err)
	}

	user, _ := kube.SecretValue(ctx, cfg.Namespace, cfg.DBCredentialsSecret(), "koku-user")
	if user == "" {
		user = "koku_user"
	}
	password, _ := kube.SecretValue(ctx, cfg.Namespace, cfg.DBCredentialsSecret(), "koku-password")

	name, err := deploymentEnvValue(ctx, cfg.Namespace, cfg.ReleaseName+"-koku-api", "DATABASE_NAME")
	if err != nil || name == "" {
		name = "costonprem_koku"
	}

	return &Config{
		Pod:       pod,
		Namespace: dbNamespace,
		Database:  name,
		User:      user,
		Password:  password,
	}, nil
}

// DiscoverKruize resolves the Kruize database configuration. The unified
// server hosts both databases, so the pod from the Koku discovery is reused.
func DiscoverKruize(ctx context.Context, cfg platform.Config, koku *Config) (*Config, error) {
	user, _ := kube.SecretValue(ctx, cfg.Namespace, cfg.DBCredentialsSecret(), "kruize-user")
	if user == "" {
		user = "kruize_user"
	}
	password, _ := kube.SecretValue(ctx, cfg.Namespace, cfg.DBCredentialsSecret(), "kruize-password")

	name, err := deploymentEnvValue(ctx, cfg.Namespace, cfg.ReleaseName+"-kruize", "database_name")
	if err != nil || name == "" {
		name = "costonprem_kruize"
	}

	return &Config{
		Pod:       koku.Pod,
		Namespace: koku.Namespace,
		Database:  name,
		User:      user,
		Password:  password,
	}, nil
}

func hostFromAppPod(ctx context.Context, namespace string) (string, error) {
	for _, lookup := range dbHostLookups {
		pod, err := kube.FirstRunningPod(ctx, namespace, lookup.label)
		if err != nil {
			continue
		}
		host, err := kube.PodEnv(ctx, namespace, pod, "", lookup.envVar)
		if err == nil && host != "" {
			return host, nil
		}
	}
	return "", fmt.Errorf("no app pod in %s exposes a database host", namespace)
}

// findDatabasePod resolves the pod backing a service: endpoints targetRef
// first, then common PostgreSQL label selectors.
func findDatabasePod(ctx context.Context, namespace, serviceName string) (string, error) {
	cli, err := kube.Client()
	if err != nil {
		return "", err
	}

	var endpoints corev1.Endpoints
	if err := cli.Get(ctx, client.ObjectKey{Namespace: namespace, Name: serviceName}, &endpoints); err == nil {
		for _, subset := range endpoints.Subsets {
			for _, addr := range subset.Addresses {
				if addr.TargetRef != nil && addr.TargetRef.Kind == "Pod" {
					return addr.TargetRef.Name, nil
				}
			}
		}
	}

	for _, label := range []string{
		"app.kubernetes.io/component=database",
		"app=postgresql",
		"app.kubernetes.io/name=postgresql",
	} {
		if pod, err := kube.FirstRunningPod(ctx, namespace, label); err == nil {
			return pod, nil
		}
	}
	return "", fmt.Errorf("no endpoints and no pod matching postgres labels for service %q", serviceName)
}

func deploymentEnvValue(ctx context.Context, namespace, name, envName string) (string, error) {
	cli, err := kube.Client()
	if err != nil {
		return "", err
	}
	var deploy appsv1.Deployment
	if err := cli.Get(ctx, client.ObjectKey{Namespace: namespace, Name: name}, &deploy); err != nil {
		return "", err
	}
	containers := deploy.Spec.Template.Spec.Containers
	if len(containers) == 0 {
		return "", fmt.Errorf("deployment %s has no containers", name)
	}
	for _, env := range containers[0].Env {
		if env.Name == envName {
			return env.Value, nil
		}
	}
	return "", nil
}
