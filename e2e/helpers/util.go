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

package helpers

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateUniqueName returns prefix plus a short random suffix, safe for
// Kubernetes object names and source names alike.
func GenerateUniqueName(prefix string) string {
	suffix := strings.Split(uuid.New().String(), "-")[0]
	return fmt.Sprintf("%s-%s", prefix, suffix)
}

// SourceNamePrefix marks sources created by this suite so cleanup can find
// strays from earlier runs.
const SourceNamePrefix = "e2e-source-"

// SourceNameFor derives the source name from a cluster id: the prefix plus
// the id's last eight characters.
func SourceNameFor(clusterID string) string {
	tail := clusterID
	if len(tail) > 8 {
		tail = tail[len(tail)-8:]
	}
	return SourceNamePrefix + tail
}
