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

// Package storage talks to the in-cluster S3-compatible object store
// (ODF/MinIO). The suite needs it for the bucket preflight and for pruning
// per-cluster test objects during cleanup.
package storage

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// RequiredBuckets are the buckets the chart expects to exist
// (from values.yaml): main cost data, ROS processor data, and the ingress
// upload store.
var RequiredBuckets = []string{"koku-bucket", "ros-data", "insights-upload-perma"}

// Client wraps the S3 API for the object store behind the chart.
type Client struct {
	s3 *s3.Client
}

// New builds a client for a path-style S3 endpoint with static credentials.
// TLS verification is off: ODF routes use self-signed certificates.
func New(ctx context.Context, endpoint, accessKey, secretKey string) (*Client, error) {
	if endpoint == "" {
		return nil, errors.New("no S3 endpoint configured")
	}

	httpClient := &http.Client{Transport: &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
	}}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		awsconfig.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("loading S3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})
	return &Client{s3: client}, nil
}

// BucketExists reports whether the bucket answers HeadBucket.
func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// EnsureBuckets creates any missing required bucket. Returns the names it
// created. A failure to create is fatal for the preflight: tests that need
// the store would otherwise fail later with opaque processing errors.
func (c *Client) EnsureBuckets(ctx context.Context, buckets []string) (created []string, err error) {
	for _, bucket := range buckets {
		exists, headErr := c.BucketExists(ctx, bucket)
		if headErr != nil {
			return created, fmt.Errorf("checking bucket %s: %w", bucket, headErr)
		}
		if exists {
			continue
		}
		if _, createErr := c.s3.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)}); createErr != nil {
			return created, fmt.Errorf("creating bucket %s: %w", bucket, createErr)
		}
		created = append(created, bucket)
	}
	return created, nil
}

// CleanupClusterObjects deletes every object whose key mentions the cluster
// id, across the required buckets. Best-effort: failures are logged and the
// sweep continues.
func (c *Client) CleanupClusterObjects(ctx context.Context, log *zap.SugaredLogger, clusterID string) {
	for _, bucket := range RequiredBuckets {
		paginator := s3.NewListObjectsV2Paginator(c.s3, &s3.ListObjectsV2Input{Bucket: aws.String(bucket)})
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				log.Warnw("listing objects failed during cleanup", "bucket", bucket, "error", err)
				break
			}
			for _, obj := range page.Contents {
				key := aws.ToString(obj.Key)
				if clusterID == "" || !strings.Contains(key, clusterID) {
					continue
				}
				if _, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
					Bucket: aws.String(bucket),
					Key:    obj.Key,
				}); err != nil {
					log.Warnw("deleting object failed during cleanup", "bucket", bucket, "key", key, "error", err)
				}
			}
		}
	}
}
