package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"campushub/internal/model"
	"campushub/internal/notify"
	"campushub/internal/repository"
	"campushub/internal/websocket"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Workflow error taxonomy. Handlers map these to HTTP statuses; everything
// else surfaces as an internal error.
var (
	ErrRequestNotFound     = errors.New("request not found")
	ErrNotCurrentApprover  = errors.New("you are not the current approver of this request")
	ErrAlreadyFinalized    = errors.New("request has already been processed")
	ErrRequestAccessDenied = errors.New("no access to this request")
	ErrUnknownRequestType  = errors.New("unknown request type")
)

// --- DTOs ---

type CreateRequestDTO struct {
	RequestType string `json:"request_type" binding:"required,oneof=student_certificate academic_leave transfer vacation document_approval"`
	Content     string `json:"content"`
}

type ApproveRequestDTO struct {
	Comment string `json:"comment"`
}

type RejectRequestDTO struct {
	Reason string `json:"reason" binding:"required"`
}

type RequestResponse struct {
	ID                int64   `json:"id"`
	RequestType       string  `json:"request_type"`
	Status            string  `json:"status"`
	Content           string  `json:"content"`
	RejectionReason   string  `json:"rejection_reason,omitempty"`
	AuthorUserID      string  `json:"author_user_id"`
	AuthorFullName    string  `json:"author_full_name,omitempty"`
	CurrentApproverID *string `json:"current_approver_id"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

type ApprovalStepResponse struct {
	ID               string  `json:"id"`
	StepOrder        int     `json:"step_order"`
	ApproverUserID   *string `json:"approver_user_id"`
	ApproverFullName string  `json:"approver_full_name,omitempty"`
	ApproverRole     string  `json:"approver_role"`
	Action           string  `json:"action"`
	Comment          string  `json:"comment,omitempty"`
	ProcessedAt      *string `json:"processed_at"`
}

type RequestDetailResponse struct {
	RequestResponse
	CurrentApproverFullName string                 `json:"current_approver_full_name,omitempty"`
	ApprovalSteps           []ApprovalStepResponse `json:"approval_steps"`
	Documents               []DocumentResponse     `json:"documents"`
}

// --- Interface ---

// RequestService is the workflow engine: the only component allowed to
// mutate a request's status and step chain.
type RequestService interface {
	Create(ctx context.Context, authorID uuid.UUID, req CreateRequestDTO) (*RequestResponse, error)
	Approve(ctx context.Context, requestID int64, approverID uuid.UUID, comment string) (*RequestResponse, error)
	Reject(ctx context.Context, requestID int64, approverID uuid.UUID, reason string) (*RequestResponse, error)
	ListForAuthor(ctx context.Context, authorID uuid.UUID) ([]RequestResponse, error)
	ListForApprover(ctx context.Context, approverID uuid.UUID) ([]RequestResponse, error)
	Detail(ctx context.Context, requestID int64, userID uuid.UUID) (*RequestDetailResponse, error)
}

type requestService struct {
	requests repository.RequestRepository
	users    repository.UserRepository
	audits   repository.AuditRepository
	resolver ApproverResolver
	txm      repository.TransactionManager
	gateway  notify.Gateway
	hub      *websocket.Hub
	fileURL  func(path string) string
}

// NewRequestService wires the workflow engine. The gateway and hub are
// optional; a nil value disables the corresponding side channel.
func NewRequestService(
	requests repository.RequestRepository,
	users repository.UserRepository,
	audits repository.AuditRepository,
	resolver ApproverResolver,
	txm repository.TransactionManager,
	gateway notify.Gateway,
	hub *websocket.Hub,
	fileURL func(path string) string,
) RequestService {
	if fileURL == nil {
		fileURL = func(path string) string { return path }
	}
	return &requestService{
		requests: requests,
		users:    users,
		audits:   audits,
		resolver: resolver,
		txm:      txm,
		gateway:  gateway,
		hub:      hub,
		fileURL:  fileURL,
	}
}

// --- Implementation ---

func (s *requestService) Create(ctx context.Context, authorID uuid.UUID, req CreateRequestDTO) (*RequestResponse, error) {
	if !IsValidRequestType(req.RequestType) {
		return nil, ErrUnknownRequestType
	}

	request := &model.Request{
		RequestType:  req.RequestType,
		AuthorUserID: authorID,
		Content:      req.Content,
		Status:       model.RequestStatusPending,
	}

	var firstRoleLabel string
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if IsSelfTerminal(req.RequestType) {
			// No approval chain: the deliverable is considered ready immediately.
			request.Status = model.RequestStatusApproved
		} else {
			role, _ := FirstRole(req.RequestType)
			firstRoleLabel = role.Label()
			approverID, resolveErr := s.resolver.Resolve(txCtx, role, authorID)
			if resolveErr != nil {
				return fmt.Errorf("resolve first approver: %w", resolveErr)
			}
			request.CurrentApproverID = approverID
		}

		if createErr := s.requests.Create(txCtx, request); createErr != nil {
			return fmt.Errorf("failed to create request: %w", createErr)
		}

		if request.Status == model.RequestStatusPending && request.CurrentApproverID != nil {
			step := &model.ApprovalStep{
				RequestID:      request.ID,
				StepOrder:      1,
				ApproverUserID: request.CurrentApproverID,
				ApproverRole:   firstRoleLabel,
				Action:         model.ApprovalActionPending,
			}
			if stepErr := s.requests.CreateStep(txCtx, step); stepErr != nil {
				return fmt.Errorf("failed to create approval step: %w", stepErr)
			}
		}

		return s.writeAudit(txCtx, &authorID, model.ActionCreateRequest, request, map[string]interface{}{
			"request_type": request.RequestType,
			"status":       request.Status,
		})
	})
	if err != nil {
		return nil, err
	}

	if request.Status == model.RequestStatusPending && request.CurrentApproverID == nil {
		log.Printf("WARNING: request %d (%s) could not be routed: no %s candidate in org chart",
			request.ID, request.RequestType, firstRoleLabel)
	}

	s.notifyDeliverableReady(ctx, request)
	s.broadcast("request_created", request)

	resp := toRequestResponse(request)
	return &resp, nil
}

func (s *requestService) Approve(ctx context.Context, requestID int64, approverID uuid.UUID, comment string) (*RequestResponse, error) {
	var request *model.Request
	var advanced bool

	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		request, err = s.loadForDecision(txCtx, requestID, approverID)
		if err != nil {
			return err
		}

		now := time.Now()
		// Completed chain length; a pending request without an open step is a
		// degenerate case that finalizes on the next decision.
		completedOrder := StepCount(request.RequestType)

		step, stepErr := s.requests.FindPendingStep(txCtx, requestID)
		if stepErr != nil && !errors.Is(stepErr, gorm.ErrRecordNotFound) {
			return stepErr
		}
		if step != nil {
			step.Action = model.ApprovalActionApproved
			step.Comment = comment
			step.ProcessedAt = &now
			if err := s.requests.UpdateStep(txCtx, step); err != nil {
				return fmt.Errorf("failed to close approval step: %w", err)
			}
			completedOrder = step.StepOrder
		}

		nextRole, ok := NextRole(request.RequestType, completedOrder)
		if !ok {
			request.Status = model.RequestStatusApproved
			request.CurrentApproverID = nil
		} else {
			nextApprover, resolveErr := s.resolver.Resolve(txCtx, nextRole, request.AuthorUserID)
			if resolveErr != nil {
				return fmt.Errorf("resolve next approver: %w", resolveErr)
			}
			if nextApprover != nil {
				next := &model.ApprovalStep{
					RequestID:      request.ID,
					StepOrder:      completedOrder + 1,
					ApproverUserID: nextApprover,
					ApproverRole:   nextRole.Label(),
					Action:         model.ApprovalActionPending,
				}
				if err := s.requests.CreateStep(txCtx, next); err != nil {
					return fmt.Errorf("failed to create next approval step: %w", err)
				}
				request.CurrentApproverID = nextApprover
				advanced = true
			} else {
				// Unroutable: stays pending without an approver until an
				// operator fixes the org chart.
				request.CurrentApproverID = nil
				log.Printf("WARNING: request %d (%s) stuck after step %d: no %s candidate in org chart",
					request.ID, request.RequestType, completedOrder, nextRole.Label())
			}
		}

		if err := s.requests.Update(txCtx, request); err != nil {
			return fmt.Errorf("failed to update request: %w", err)
		}

		return s.writeAudit(txCtx, &approverID, model.ActionApproveStep, request, map[string]interface{}{
			"request_type": request.RequestType,
			"step_order":   completedOrder,
			"status":       request.Status,
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifyDeliverableReady(ctx, request)
	if advanced {
		s.broadcast("approval_advanced", request)
	} else {
		s.broadcast("request_finalized", request)
	}

	resp := toRequestResponse(request)
	return &resp, nil
}

func (s *requestService) Reject(ctx context.Context, requestID int64, approverID uuid.UUID, reason string) (*RequestResponse, error) {
	var request *model.Request

	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		request, err = s.loadForDecision(txCtx, requestID, approverID)
		if err != nil {
			return err
		}

		now := time.Now()
		step, stepErr := s.requests.FindPendingStep(txCtx, requestID)
		if stepErr != nil && !errors.Is(stepErr, gorm.ErrRecordNotFound) {
			return stepErr
		}
		if step != nil {
			step.Action = model.ApprovalActionRejected
			step.Comment = reason
			step.ProcessedAt = &now
			if err := s.requests.UpdateStep(txCtx, step); err != nil {
				return fmt.Errorf("failed to close approval step: %w", err)
			}
		}

		// Rejection is terminal regardless of how many steps remain.
		request.Status = model.RequestStatusRejected
		request.RejectionReason = reason
		request.CurrentApproverID = nil

		if err := s.requests.Update(txCtx, request); err != nil {
			return fmt.Errorf("failed to update request: %w", err)
		}

		return s.writeAudit(txCtx, &approverID, model.ActionRejectRequest, request, map[string]interface{}{
			"request_type": request.RequestType,
			"reason":       reason,
		})
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("request_finalized", request)

	resp := toRequestResponse(request)
	return &resp, nil
}

func (s *requestService) ListForAuthor(ctx context.Context, authorID uuid.UUID) ([]RequestResponse, error) {
	requests, err := s.requests.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	result := make([]RequestResponse, 0, len(requests))
	for i := range requests {
		result = append(result, toRequestResponse(&requests[i]))
	}
	return result, nil
}

func (s *requestService) ListForApprover(ctx context.Context, approverID uuid.UUID) ([]RequestResponse, error) {
	requests, err := s.requests.ListForApprover(ctx, approverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval requests: %w", err)
	}
	result := make([]RequestResponse, 0, len(requests))
	for i := range requests {
		result = append(result, toRequestResponse(&requests[i]))
	}
	return result, nil
}

func (s *requestService) Detail(ctx context.Context, requestID int64, userID uuid.UUID) (*RequestDetailResponse, error) {
	request, err := s.requests.FindByIDWithRelations(ctx, requestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load request: %w", err)
	}

	// Only the author and the current approver may see the detail view.
	// Denial is reported as not-found to avoid leaking request existence.
	if request.AuthorUserID != userID &&
		(request.CurrentApproverID == nil || *request.CurrentApproverID != userID) {
		return nil, ErrRequestAccessDenied
	}

	detail := &RequestDetailResponse{
		RequestResponse: toRequestResponse(request),
		ApprovalSteps:   make([]ApprovalStepResponse, 0, len(request.ApprovalSteps)),
		Documents:       make([]DocumentResponse, 0, len(request.Documents)),
	}
	if request.CurrentApprover != nil {
		detail.CurrentApproverFullName = request.CurrentApprover.FullName
	}
	for i := range request.ApprovalSteps {
		detail.ApprovalSteps = append(detail.ApprovalSteps, toStepResponse(&request.ApprovalSteps[i]))
	}
	for i := range request.Documents {
		detail.Documents = append(detail.Documents, toDocumentResponse(&request.Documents[i], s.fileURL))
	}
	return detail, nil
}

// --- Helpers ---

// loadForDecision locks the request row and validates the approve/reject
// preconditions. The lock makes concurrent decisions on the same request
// serialize; the loser of the race observes a non-pending status or a
// changed approver and fails here.
func (s *requestService) loadForDecision(txCtx context.Context, requestID int64, approverID uuid.UUID) (*model.Request, error) {
	request, err := s.requests.FindByIDForUpdate(txCtx, requestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	if request.Status != model.RequestStatusPending {
		return nil, ErrAlreadyFinalized
	}
	if request.CurrentApproverID == nil || *request.CurrentApproverID != approverID {
		return nil, ErrNotCurrentApprover
	}
	return request, nil
}

func (s *requestService) writeAudit(txCtx context.Context, userID *uuid.UUID, action string, request *model.Request, payload map[string]interface{}) error {
	details, _ := json.Marshal(payload)
	entry := &model.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityID:   fmt.Sprintf("%d", request.ID),
		EntityName: request.RequestType,
		Details:    string(details),
	}
	if err := s.audits.Log(txCtx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// notifyDeliverableReady pings the messenger bot when an approved request
// represents a document the author can pick up. Runs after the transaction
// committed; failures are logged and never surfaced.
func (s *requestService) notifyDeliverableReady(ctx context.Context, request *model.Request) {
	if s.gateway == nil || request == nil {
		return
	}
	if !IsDeliverable(request.RequestType) || request.Status != model.RequestStatusApproved {
		return
	}

	author, err := s.users.GetByID(ctx, request.AuthorUserID.String())
	if err != nil {
		log.Printf("failed to load author of request %d for notification: %v", request.ID, err)
		return
	}
	if author.MaxID == nil || *author.MaxID <= 0 {
		return
	}
	if err := s.gateway.DocumentReady(ctx, *author.MaxID); err != nil {
		log.Printf("failed to notify bot about ready document %d: %v", request.ID, err)
	}
}

func (s *requestService) broadcast(eventType string, request *model.Request) {
	if s.hub == nil || request == nil {
		return
	}
	s.hub.BroadcastEvent(websocket.Event{
		Type:        eventType,
		RequestID:   request.ID,
		RequestType: request.RequestType,
		Status:      request.Status,
	})
}

func toRequestResponse(r *model.Request) RequestResponse {
	resp := RequestResponse{
		ID:              r.ID,
		RequestType:     r.RequestType,
		Status:          r.Status,
		Content:         r.Content,
		RejectionReason: r.RejectionReason,
		AuthorUserID:    r.AuthorUserID.String(),
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt.Format(time.RFC3339),
	}
	if r.CurrentApproverID != nil {
		id := r.CurrentApproverID.String()
		resp.CurrentApproverID = &id
	}
	if r.Author != nil {
		resp.AuthorFullName = r.Author.FullName
	}
	return resp
}

func toStepResponse(s *model.ApprovalStep) ApprovalStepResponse {
	resp := ApprovalStepResponse{
		ID:           s.ID.String(),
		StepOrder:    s.StepOrder,
		ApproverRole: s.ApproverRole,
		Action:       s.Action,
		Comment:      s.Comment,
	}
	if s.ApproverUserID != nil {
		id := s.ApproverUserID.String()
		resp.ApproverUserID = &id
	}
	if s.Approver != nil {
		resp.ApproverFullName = s.Approver.FullName
	}
	if s.ProcessedAt != nil {
		t := s.ProcessedAt.Format(time.RFC3339)
		resp.ProcessedAt = &t
	}
	return resp
}
