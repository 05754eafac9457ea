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
	"fmt"
	"strings"
	"time"
)

// simpleHeader is the container-level OCP usage report header the processor
// parses. Column order matters.
const simpleHeader = "report_period_start,report_period_end,interval_start,interval_end," +
	"container_name,pod,owner_name,owner_kind,workload,workload_type," +
	"namespace,image_name,node,resource_id," +
	"cpu_request_container_avg,cpu_request_container_sum," +
	"cpu_limit_container_avg,cpu_limit_container_sum," +
	"cpu_usage_container_avg,cpu_usage_container_min,cpu_usage_container_max,cpu_usage_container_sum," +
	"cpu_throttle_container_avg,cpu_throttle_container_max,cpu_throttle_container_sum," +
	"memory_request_container_avg,memory_request_container_sum," +
	"memory_limit_container_avg,memory_limit_container_sum," +
	"memory_usage_container_avg,memory_usage_container_min,memory_usage_container_max,memory_usage_container_sum," +
	"memory_rss_usage_container_avg,memory_rss_usage_container_min,memory_rss_usage_container_max,memory_rss_usage_container_sum"

// Deterministic usage samples for the four 15-minute intervals.
var (
	simpleCPUUsages    = []float64{0.247832, 0.265423, 0.289567, 0.234567}
	simpleMemoryUsages = []int64{413587266, 427891456, 445678901, 398765432}
)

// SimpleCSV synthesizes a fixed-shape usage report: four 15-minute intervals
// ending 15 minutes before now. Deliberately minimal — it satisfies the
// ingestion parser but may not be rich enough to populate summary tables, so
// pipeline consumers treat its output as best-effort.
func SimpleCSV(now time.Time) string {
	now = now.UTC()
	day := now.Format("2006-01-02")

	ts := func(minutesAgo int) string {
		return now.Add(-time.Duration(minutesAgo) * time.Minute).Format("2006-01-02 15:04:05 -0000 UTC")
	}

	intervals := [][2]int{{75, 60}, {60, 45}, {45, 30}, {30, 15}}

	rows := make([]string, 0, len(intervals)+1)
	rows = append(rows, simpleHeader)
	for i, iv := range intervals {
		cpu := simpleCPUUsages[i]
		mem := simpleMemoryUsages[i]
		rss := mem - 20000000
		row := fmt.Sprintf("%s,%s,%s,%s,"+
			"test-container,test-pod-123,test-deployment,Deployment,test-workload,deployment,"+
			"test-namespace,quay.io/test/image:latest,worker-node-1,resource-123,"+
			"0.5,0.5,1.0,1.0,%v,0.185671,0.324131,%v,"+
			"0.001,0.002,0.001,"+
			"536870912,536870912,1073741824,1073741824,"+
			"%d,410009344,420900544,%d,"+
			"%d,390293568,396371392,%d",
			day, day, ts(iv[0]), ts(iv[1]), cpu, cpu, mem, mem, rss, rss)
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

// SimpleDataset writes the fallback CSV into dir and returns the dataset
// descriptor covering the generated window.
func SimpleDataset(dir string, clusterID string) (*Dataset, error) {
	now := time.Now().UTC()
	name := "openshift_usage_report.csv"
	if err := writeFile(dir, name, SimpleCSV(now)); err != nil {
		return nil, err
	}
	return &Dataset{
		Dir:       dir,
		ClusterID: clusterID,
		CSVFiles:  []string{name},
		Start:     now.Add(-75 * time.Minute),
		End:       now.Add(-15 * time.Minute),
		Simple:    true,
	}, nil
}
