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
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"

	"github.com/insights-onprem/cost-e2e/pkg/auth"
)

func newLoginCommand(rt *runtimeState) *cobra.Command {
	var secret string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the Keycloak client secret in the OS keyring",
		Long: `Store the client-credentials secret for the configured Keycloak client
in the OS keyring, then verify it by minting a token.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				fmt.Fprintf(rt.writer, "client secret for %s: ", rt.cfg.KeycloakClientID)
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil {
					return err
				}
				secret = strings.TrimSpace(line)
			}
			if secret == "" {
				return errors.New("empty client secret")
			}

			if rt.cfg.KeycloakURL != "" {
				tokens := auth.NewTokenProvider(rt.cfg, secret)
				if _, err := tokens.Token(cmd.Context()); err != nil {
					return fmt.Errorf("secret rejected by Keycloak: %w", err)
				}
				fmt.Fprintln(rt.writer, "verified against Keycloak")
			}

			if err := keyring.Set(keyringService, rt.cfg.KeycloakClientID, secret); err != nil {
				return fmt.Errorf("storing secret in keyring: %w", err)
			}
			fmt.Fprintf(rt.writer, "stored secret for %s\n", rt.cfg.KeycloakClientID)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "client secret (prompted when empty)")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored client secret",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := keyring.Delete(keyringService, rt.cfg.KeycloakClientID); err != nil {
				return fmt.Errorf("removing secret from keyring: %w", err)
			}
			fmt.Fprintf(rt.writer, "removed secret for %s\n", rt.cfg.KeycloakClientID)
			return nil
		},
	}
	cmd.AddCommand(logout)
	return cmd
}
