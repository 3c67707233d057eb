package model

import (
	"time"

	"github.com/google/uuid"
)

// RequestType enum constants
const (
	RequestTypeStudentCertificate = "student_certificate"
	RequestTypeAcademicLeave      = "academic_leave"
	RequestTypeTransfer           = "transfer"
	RequestTypeVacation           = "vacation"
	RequestTypeDocumentApproval   = "document_approval"
)

// RequestStatus enum constants
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// Request is one user-initiated case moving through the approval chain.
// CurrentApproverID is the single identity allowed to act on it; it is nil
// once the request reaches a terminal status, and also nil while the request
// is pending but no approver could be resolved from the org chart (stuck
// request awaiting operator intervention).
type Request struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	RequestType       string          `gorm:"type:varchar(30);not null;index" json:"request_type"`
	AuthorUserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"author_user_id"`
	Author            *User           `gorm:"foreignKey:AuthorUserID" json:"author,omitempty"`
	Status            string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Content           string          `gorm:"type:text" json:"content"`
	RejectionReason   string          `gorm:"type:text" json:"rejection_reason"`
	CurrentApproverID *uuid.UUID      `gorm:"type:uuid;index" json:"current_approver_id"`
	CurrentApprover   *User           `gorm:"foreignKey:CurrentApproverID" json:"current_approver,omitempty"`
	ApprovalSteps     []ApprovalStep  `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"approval_steps,omitempty"`
	Documents         []RequestDocument `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"documents,omitempty"`
	CreatedAt         time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
