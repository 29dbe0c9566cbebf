package e2e

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// influxHelper wraps the official InfluxDB v2 client for the end-to-end
// suite: bucket bootstrap plus a point counter for asserting that the sink
// actually wrote something.
type influxHelper struct {
	org    string
	bucket string
	client influxdb2.Client
	query  api.QueryAPI
}

func newInfluxHelper(url, org, bucket, token string) *influxHelper {
	c := influxdb2.NewClient(url, token)
	return &influxHelper{
		org:    org,
		bucket: bucket,
		client: c,
		query:  c.QueryAPI(org),
	}
}

// setupBucket ensures the organisation and bucket exist, creating them when
// missing.
func (h *influxHelper) setupBucket(ctx context.Context) error {
	orgAPI := h.client.OrganizationsAPI()
	org, err := orgAPI.FindOrganizationByName(ctx, h.org)
	if err != nil || org == nil {
		org, err = orgAPI.CreateOrganizationWithName(ctx, h.org)
		if err != nil {
			return fmt.Errorf("create org: %w", err)
		}
	}

	bucketAPI := h.client.BucketsAPI()
	buckets, err := bucketAPI.FindBucketsByOrgName(ctx, h.org)
	if err != nil {
		return err
	}
	if buckets != nil {
		for _, b := range *buckets {
			if b.Name == h.bucket {
				return nil
			}
		}
	}
	if _, err := bucketAPI.CreateBucketWithName(ctx, org, h.bucket); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

// countPoints returns the number of points of the given measurement written
// in the last minute.
func (h *influxHelper) countPoints(ctx context.Context, measurement string) (int, error) {
	flux := fmt.Sprintf(`from(bucket:"%s") |> range(start:-1m) |> filter(fn: (r) => r._measurement == "%s")`, h.bucket, measurement)
	res, err := h.query.Query(ctx, flux)
	if err != nil {
		return 0, err
	}
	defer func() { _ = res.Close() }()
	count := 0
	for res.Next() {
		count++
	}
	return count, res.Err()
}

func (h *influxHelper) close() { h.client.Close() }
