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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/insights-onprem/cost-e2e/pkg/datagen"
)

func newGenerateCommand(rt *runtimeState) *cobra.Command {
	var (
		clusterID    string
		output       string
		simple       bool
		staticReport string
		rosData      bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an OCP usage report tarball",
		Long: `Generate an OCP usage report payload ready for ingress upload.
Uses the NISE generator when available and falls back to a minimal built-in
dataset otherwise.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if clusterID == "" {
				clusterID = datagen.NewClusterID("costdata")
			}
			workDir, err := os.MkdirTemp("", "costdata-*")
			if err != nil {
				return err
			}
			defer func() { _ = os.RemoveAll(workDir) }()

			ds, err := datagen.Generate(cmd.Context(), workDir, clusterID, datagen.NiseConfig{
				StaticReportFile: staticReport,
				ROSData:          rosData,
			}, simple)
			if err != nil {
				return fmt.Errorf("generating report data: %w", err)
			}
			if ds.FallbackReason != "" {
				fmt.Fprintf(rt.writer, "using simple data: %s\n", ds.FallbackReason)
			}

			payload, err := datagen.Package(ds)
			if err != nil {
				return fmt.Errorf("packaging report data: %w", err)
			}
			if output == "" {
				output = clusterID + ".tar.gz"
			}
			if err := os.WriteFile(output, payload, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(rt.writer, "cluster id: %s\n", clusterID)
			fmt.Fprintf(rt.writer, "wrote %s (%d bytes, %d csv files)\n", output, len(payload), len(ds.CSVFiles))
			return nil
		},
	}

	cmd.Flags().StringVar(&clusterID, "cluster-id", "", "cluster id to embed (generated when empty)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output tarball path (default <cluster-id>.tar.gz)")
	cmd.Flags().BoolVar(&simple, "simple", false, "use the built-in generator instead of NISE")
	cmd.Flags().StringVar(&staticReport, "static-report", "", "NISE static report template to render")
	cmd.Flags().BoolVar(&rosData, "ros-data", true, "include resource-optimization CSVs")
	return cmd
}
