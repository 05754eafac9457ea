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

// Package costdata implements the costdata CLI: generate report payloads,
// upload them through the gateway, and manage the Keycloak client secret.
// It drives the same packages the E2E suite uses, which makes it handy for
// reproducing pipeline issues by hand.
package costdata

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/insights-onprem/cost-e2e/pkg/platform"
)

// keyringService namespaces our secrets in the OS keyring.
const keyringService = "cost-e2e"

type runtimeState struct {
	cfg    platform.Config
	writer io.Writer
}

// NewRootCommand builds the costdata command tree.
func NewRootCommand(out io.Writer) *cobra.Command {
	if out == nil {
		out = os.Stdout
	}
	rt := &runtimeState{writer: out}

	root := &cobra.Command{
		Use:           "costdata",
		Short:         "Generate and upload cost-management report payloads",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			rt.cfg = platform.Load()
		},
	}
	root.AddCommand(newGenerateCommand(rt))
	root.AddCommand(newUploadCommand(rt))
	root.AddCommand(newLoginCommand(rt))
	return root
}
