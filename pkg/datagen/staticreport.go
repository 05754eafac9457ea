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

package datagen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"gopkg.in/yaml.v3"
)

// RenderStaticReport renders a NISE static-report template into outDir and
// returns the rendered path. Templates carry date placeholders so the report
// window tracks the run date; sprig supplies the date helpers. The rendered
// output is parsed as YAML to fail fast on a broken template instead of
// handing nise a file it will reject with a cryptic error.
func RenderStaticReport(templatePath, outDir string, start, end time.Time) (string, error) {
	raw, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("reading static report template: %w", err)
	}

	tmpl, err := template.New(filepath.Base(templatePath)).
		Funcs(sprig.TxtFuncMap()).
		Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("parsing static report template: %w", err)
	}

	data := map[string]string{
		"StartDate": start.Format("2006-01-02"),
		"EndDate":   end.Format("2006-01-02"),
		"Today":     time.Now().UTC().Format("2006-01-02"),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing static report template: %w", err)
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &parsed); err != nil {
		return "", fmt.Errorf("rendered static report is not valid YAML: %w", err)
	}

	out := filepath.Join(outDir, "static-report.yml")
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return out, nil
}
