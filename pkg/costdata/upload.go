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

package costdata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"

	"github.com/insights-onprem/cost-e2e/pkg/auth"
	"github.com/insights-onprem/cost-e2e/pkg/datagen"
	"github.com/insights-onprem/cost-e2e/pkg/ingest"
)

// clientSecret resolves the Keycloak client secret: environment first, then
// the OS keyring entry written by `costdata login`.
func clientSecret(rt *runtimeState) (string, error) {
	if rt.cfg.KeycloakClientSecret != "" {
		return rt.cfg.KeycloakClientSecret, nil
	}
	secret, err := keyring.Get(keyringService, rt.cfg.KeycloakClientID)
	if err != nil {
		return "", fmt.Errorf("no client secret: set KEYCLOAK_CLIENT_SECRET or run `costdata login` (%w)", err)
	}
	return secret, nil
}

func newUploadCommand(rt *runtimeState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <tarball>",
		Short: "Upload a report tarball through the ingress service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rt.cfg.GatewayURL == "" {
				return errors.New("GATEWAY_URL is not set")
			}
			secret, err := clientSecret(rt)
			if err != nil {
				return err
			}

			payload, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			gateway := ingest.NewGateway(rt.cfg.GatewayURL, auth.NewTokenProvider(rt.cfg, secret))
			result, err := gateway.Upload(cmd.Context(), payload, filepath.Base(args[0]), datagen.UploadMIMEType)
			if err != nil {
				return fmt.Errorf("uploading %s: %w", args[0], err)
			}
			if !result.Accepted() {
				return fmt.Errorf("upload rejected with %d: %s", result.StatusCode, result.Body)
			}
			fmt.Fprintf(rt.writer, "accepted, request id %s\n", result.RequestID)
			return nil
		},
	}
	return cmd
}
