package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/fashionhub/storefront/config"
)

var (
	mu    sync.RWMutex
	disks = map[string]Disk{}
)

// Connect builds the disks named in configuration. The local disk is
// always registered; the s3 disk is added when a bucket is configured.
// The STORAGE_DISK setting names the default disk.
func Connect(ctx context.Context) error {
	local := NewLocalDisk(config.StorageLocalRoot(), config.StorageURL())
	register("local", local)

	if bucket := config.StorageS3Bucket(); bucket != "" {
		s3disk, err := NewS3Disk(ctx, S3Config{
			Bucket:    bucket,
			Region:    config.StorageS3Region(),
			AccessKey: config.StorageS3Key(),
			SecretKey: config.StorageS3Secret(),
			Endpoint:  config.StorageS3Endpoint(),
			BaseURL:   config.StorageS3URL(),
		})
		if err != nil {
			return err
		}
		register("s3", s3disk)
	}
	return nil
}

func register(name string, d Disk) {
	mu.Lock()
	defer mu.Unlock()
	disks[name] = d
}

// Use returns the named disk.
func Use(name string) (Disk, error) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the disk named by STORAGE_DISK, falling back to local.
func Default() (Disk, error) {
	return Use(config.StorageDefault())
}
