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
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Package bundles a dataset into the gzip tarball the ingress endpoint
// expects: manifest.json plus every CSV the manifest lists, with the CSVs
// flattened to their base names.
func Package(ds *Dataset) ([]byte, error) {
	flat := make([]string, 0, len(ds.CSVFiles))
	for _, f := range ds.CSVFiles {
		flat = append(flat, filepath.Base(f))
	}
	manifest := NewManifest(ds.ClusterID, flat, ds.Start, ds.End)

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	manifestBytes, err := json.Marshal(manifest)
	if err != nil {
		return nil, err
	}
	if err := addEntry(tw, "manifest.json", manifestBytes); err != nil {
		return nil, err
	}

	for i, rel := range ds.CSVFiles {
		content, err := os.ReadFile(filepath.Join(ds.Dir, rel))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", rel, err)
		}
		if err := addEntry(tw, flat[i], content); err != nil {
			return nil, err
		}
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PackageRaw builds a tarball from in-memory content, used by tests and the
// negative-path upload cases that need a structurally valid payload without a
// dataset on disk.
func PackageRaw(clusterID string, files map[string]string, start, end time.Time) ([]byte, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	manifest := NewManifest(clusterID, names, start, end)

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	manifestBytes, err := json.Marshal(manifest)
	if err != nil {
		return nil, err
	}
	if err := addEntry(tw, "manifest.json", manifestBytes); err != nil {
		return nil, err
	}
	for name, content := range files {
		if err := addEntry(tw, name, []byte(content)); err != nil {
			return nil, err
		}
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addEntry(tw *tar.Writer, name string, content []byte) error {
	hdr := &tar.Header{
		Name:    name,
		Mode:    0o644,
		Size:    int64(len(content)),
		ModTime: time.Now(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := tw.Write(content)
	return err
}
