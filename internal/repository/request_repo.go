package repository

import (
	"context"

	"campushub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RequestRepository persists requests and their approval steps.
type RequestRepository interface {
	Create(ctx context.Context, req *model.Request) error
	FindByID(ctx context.Context, id int64) (*model.Request, error)
	// FindByIDForUpdate loads the request row under a FOR UPDATE lock so two
	// concurrent approve/reject transactions serialize on it.
	FindByIDForUpdate(ctx context.Context, id int64) (*model.Request, error)
	FindByIDWithRelations(ctx context.Context, id int64) (*model.Request, error)
	Update(ctx context.Context, req *model.Request) error
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Request, error)
	ListForApprover(ctx context.Context, approverID uuid.UUID) ([]model.Request, error)

	CreateStep(ctx context.Context, step *model.ApprovalStep) error
	// FindPendingStep returns the single open step of a request. If more than
	// one pending step somehow exists, the highest step order wins.
	FindPendingStep(ctx context.Context, requestID int64) (*model.ApprovalStep, error)
	UpdateStep(ctx context.Context, step *model.ApprovalStep) error
	ListSteps(ctx context.Context, requestID int64) ([]model.ApprovalStep, error)
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, req *model.Request) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *requestRepository) FindByID(ctx context.Context, id int64) (*model.Request, error) {
	var req model.Request
	if err := GetDB(ctx, r.db).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) FindByIDForUpdate(ctx context.Context, id int64) (*model.Request, error) {
	var req model.Request
	if err := GetDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) FindByIDWithRelations(ctx context.Context, id int64) (*model.Request, error) {
	var req model.Request
	if err := GetDB(ctx, r.db).
		Preload("Author").
		Preload("CurrentApprover").
		Preload("ApprovalSteps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_order ASC")
		}).
		Preload("ApprovalSteps.Approver").
		Preload("Documents").
		First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) Update(ctx context.Context, req *model.Request) error {
	return GetDB(ctx, r.db).Save(req).Error
}

func (r *requestRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Request, error) {
	var requests []model.Request
	if err := GetDB(ctx, r.db).
		Where("author_user_id = ?", authorID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// ListForApprover returns pending requests where the user is the current
// approver, unioned with pending requests that carry an open step assigned to
// the user. The union tolerates requests whose current_approver_id was fixed
// manually after an unroutable resolution.
func (r *requestRepository) ListForApprover(ctx context.Context, approverID uuid.UUID) ([]model.Request, error) {
	var requests []model.Request
	if err := GetDB(ctx, r.db).
		Preload("Author").
		Where("status = ?", model.RequestStatusPending).
		Where(
			GetDB(ctx, r.db).
				Where("current_approver_id = ?", approverID).
				Or("id IN (?)", GetDB(ctx, r.db).
					Model(&model.ApprovalStep{}).
					Select("request_id").
					Where("approver_user_id = ? AND action = ?", approverID, model.ApprovalActionPending)),
		).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) CreateStep(ctx context.Context, step *model.ApprovalStep) error {
	return GetDB(ctx, r.db).Create(step).Error
}

func (r *requestRepository) FindPendingStep(ctx context.Context, requestID int64) (*model.ApprovalStep, error) {
	var step model.ApprovalStep
	if err := GetDB(ctx, r.db).
		Where("request_id = ? AND action = ?", requestID, model.ApprovalActionPending).
		Order("step_order DESC").
		First(&step).Error; err != nil {
		return nil, err
	}
	return &step, nil
}

func (r *requestRepository) UpdateStep(ctx context.Context, step *model.ApprovalStep) error {
	return GetDB(ctx, r.db).Save(step).Error
}

func (r *requestRepository) ListSteps(ctx context.Context, requestID int64) ([]model.ApprovalStep, error) {
	var steps []model.ApprovalStep
	if err := GetDB(ctx, r.db).
		Preload("Approver").
		Where("request_id = ?", requestID).
		Order("step_order ASC").
		Find(&steps).Error; err != nil {
		return nil, err
	}
	return steps, nil
}
