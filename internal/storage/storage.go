package storage

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/config"
)

// ObjectInfo represents metadata for a published object.
type ObjectInfo struct {
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	Location string `json:"location"`
}

// ObjectStorage captures the minimal operations needed to publish exported reports.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	UploadObject(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// New selects the storage driver named in the configuration. The "none" driver
// returns a nil storage, which disables publishing.
func New(cfg config.StorageConfig) (ObjectStorage, error) {
	switch cfg.Driver {
	case "none":
		return nil, nil
	case "", "local":
		return NewLocalStorage(cfg.LocalDir)
	case "minio", "s3":
		return NewMinioClient(MinioConfig{
			Endpoint:      cfg.Endpoint,
			AccessKey:     cfg.AccessKey,
			SecretKey:     cfg.SecretKey,
			Bucket:        cfg.Bucket,
			UseSSL:        cfg.UseSSL,
			PublicBaseURL: cfg.PublicBaseURL,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
