package repository

import (
	"context"

	"campushub/internal/model"

	"gorm.io/gorm"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *model.RequestDocument) error
	ListByRequest(ctx context.Context, requestID int64) ([]model.RequestDocument, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *model.RequestDocument) error {
	return GetDB(ctx, r.db).Create(doc).Error
}

func (r *documentRepository) ListByRequest(ctx context.Context, requestID int64) ([]model.RequestDocument, error) {
	var docs []model.RequestDocument
	if err := GetDB(ctx, r.db).
		Where("request_id = ?", requestID).
		Order("uploaded_at ASC").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}
