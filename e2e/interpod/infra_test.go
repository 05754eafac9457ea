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

package interpod

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insights-onprem/cost-e2e/e2e/helpers"
	"github.com/insights-onprem/cost-e2e/pkg/datagen"
	"github.com/insights-onprem/cost-e2e/pkg/ingest"
	"github.com/insights-onprem/cost-e2e/pkg/storage"
)

// requiredTopics are the Kafka topics the pipeline produces to and consumes
// from: upload announcements, source lifecycle events, and ROS events.
var requiredTopics = []string{
	"platform.upload.announce",
	"platform.sources.event-stream",
	"hccm.ros.events",
}

func sourceCreateFor(t *testing.T, sourceTypeID string) ingest.SourceCreate {
	t.Helper()
	clusterID := datagen.NewClusterID("e2e-priv")
	return ingest.SourceCreate{
		Name:         helpers.SourceNameFor(clusterID),
		SourceTypeID: sourceTypeID,
		SourceRef:    clusterID,
	}
}

func TestKafkaTopicsExist(t *testing.T) {
	s := helpers.SetupTest(t)
	if s.Cfg.KafkaBootstrap == "" {
		t.Skip("Skipping: KAFKA_BOOTSTRAP is not set")
	}

	conn, err := kafka.DialContext(s.Ctx, "tcp", s.Cfg.KafkaBootstrap)
	require.NoError(t, err, "Kafka broker should be reachable at %s", s.Cfg.KafkaBootstrap)
	defer func() { _ = conn.Close() }()

	partitions, err := conn.ReadPartitions()
	require.NoError(t, err, "Reading partition metadata should work")

	topics := make(map[string]bool, len(partitions))
	for _, p := range partitions {
		topics[p.Topic] = true
	}
	for _, topic := range requiredTopics {
		assert.True(t, topics[topic], "Topic %s should exist (found %d topics)", topic, len(topics))
	}
}

func TestRequiredBucketsExist(t *testing.T) {
	s := helpers.SetupTest(t)
	store := s.Store()
	if store == nil {
		t.Skip("Skipping: S3_ENDPOINT is not set")
	}

	created, err := store.EnsureBuckets(s.Ctx, storage.RequiredBuckets)
	require.NoError(t, err, "Bucket preflight should succeed")
	if len(created) > 0 {
		t.Logf("Preflight created missing buckets: %v", created)
	}

	for _, bucket := range storage.RequiredBuckets {
		exists, err := store.BucketExists(s.Ctx, bucket)
		require.NoError(t, err, "HeadBucket on %s should work", bucket)
		assert.True(t, exists, "Bucket %s should exist", bucket)
	}
}

func TestDatabaseDiscovery(t *testing.T) {
	s := helpers.SetupTest(t, helpers.WithKube())

	koku := s.KokuDB()
	assert.NotEmpty(t, koku.Pod, "Discovery should find the database pod")
	assert.NotEmpty(t, koku.Database, "Discovery should resolve the Koku database name")
	assert.NotEmpty(t, koku.User, "Discovery should resolve credentials")

	kruize := s.KruizeDB()
	assert.Equal(t, koku.Pod, kruize.Pod, "Both databases live in the same pod")
	assert.NotEqual(t, koku.Database, kruize.Database, "Kruize uses its own database")
}

func TestDatabaseAnswersQueries(t *testing.T) {
	s := helpers.SetupTest(t, helpers.WithKube())

	count, err := s.KokuDB().QueryCount(s.Ctx, "SELECT COUNT(*) FROM api_provider")
	require.NoError(t, err, "Koku database should answer queries via psql")
	assert.GreaterOrEqual(t, count, 0)
}
