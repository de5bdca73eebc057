// Package photostore persists the enrollment photos referenced by account
// rows. The database is the source of truth for account existence; photo
// deletion is best-effort and callers log-and-continue on failure.
package photostore

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/facegate/internal/config"
)

// PhotoStore saves and deletes enrollment photos. Save returns the opaque
// path stored on the account row; Delete takes that same path back.
type PhotoStore interface {
	Save(ctx context.Context, image []byte, name string) (string, error)
	Delete(ctx context.Context, path string) error
}

// ObjectName builds a collision-free name for a fresh enrollment photo.
// The email prefix keeps objects greppable; the uuid makes re-enrollment
// never overwrite the photo a pending face-update still references.
func ObjectName(accountEmail string) string {
	prefix := strings.NewReplacer("@", "_", ".", "_").Replace(accountEmail)
	return fmt.Sprintf("%s_%s.jpg", prefix, uuid.New().String())
}

// New selects the configured backend: "minio" for object storage, anything
// else falls back to the local directory store.
func New(cfg *config.Config) (PhotoStore, error) {
	if cfg.PhotoBackend == "minio" {
		return NewMinioStore(MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
	}
	return NewLocalStore(cfg.PhotoDir)
}
