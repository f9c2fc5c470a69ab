// Where: internal/provisioner/s3.go
// What: S3 provisioning helpers.
// Why: The deployment bucket is created on first use and reused afterwards.
package provisioner

import (
	"context"
	"fmt"
	"strings"
)

// EnsureBucket creates the bucket when it is not listed yet. It reports whether a
// bucket was created.
func EnsureBucket(ctx context.Context, client S3API, name, region string) (bool, error) {
	if client == nil {
		return false, fmt.Errorf("s3 client is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return false, fmt.Errorf("bucket name is required")
	}
	existing, err := client.ListBuckets(ctx)
	if err != nil {
		return false, err
	}
	for _, bucket := range existing {
		if bucket == name {
			return false, nil
		}
	}
	if err := client.CreateBucket(ctx, name, region); err != nil {
		return false, err
	}
	return true, nil
}
