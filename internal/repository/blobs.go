package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/services"
)

// BlobRepo implements services.BlobStore on a MySQL longblob table. Blob
// retrieval failures are deliberately not mapped onto the service error
// taxonomy: a missing blob and a transient store failure look the same to
// callers.
type BlobRepo struct {
	db *gorm.DB
}

var _ services.BlobStore = (*BlobRepo)(nil)

// NewBlobRepo creates a BlobRepo.
func NewBlobRepo(db *gorm.DB) *BlobRepo {
	return &BlobRepo{db: db}
}

// Put stores the bytes under key, overwriting any previous content.
func (r *BlobRepo) Put(ctx context.Context, key string, data []byte, contentType string) error {
	blob := models.DocumentBlob{
		Key:         key,
		ContentType: contentType,
		Data:        data,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&blob).Error
}

// Get returns the bytes and content type stored under key.
func (r *BlobRepo) Get(ctx context.Context, key string) ([]byte, string, error) {
	var blob models.DocumentBlob
	if err := r.db.WithContext(ctx).First(&blob, "`key` = ?", key).Error; err != nil {
		return nil, "", fmt.Errorf("blob %s: %w", key, err)
	}
	return blob.Data, blob.ContentType, nil
}
