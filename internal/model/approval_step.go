package model

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalAction enum constants
const (
	ApprovalActionPending  = "pending"
	ApprovalActionApproved = "approved"
	ApprovalActionRejected = "rejected"
)

// Approver role labels shown in the audit trail
const (
	ApproverRoleCurator        = "Curator"
	ApproverRoleDeanery        = "Dean's office"
	ApproverRoleDepartmentHead = "Department head"
	ApproverRoleHR             = "HR"
)

// ApprovalStep is one link in a request's approval chain. Steps form an
// append-only log: once Action leaves pending the row is never edited again,
// advancing the chain only appends a new row with StepOrder+1. At most one
// step per request is pending at any time.
type ApprovalStep struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID      int64      `gorm:"not null;index" json:"request_id"`
	StepOrder      int        `gorm:"not null" json:"step_order"` // 1-based, strictly increasing per request
	ApproverUserID *uuid.UUID `gorm:"type:uuid;index" json:"approver_user_id"`
	Approver       *User      `gorm:"foreignKey:ApproverUserID" json:"approver,omitempty"`
	ApproverRole   string     `gorm:"type:varchar(50)" json:"approver_role"`
	Action         string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"action"`
	Comment        string     `gorm:"type:text" json:"comment"`
	ProcessedAt    *time.Time `json:"processed_at"`
	CreatedAt      time.Time  `json:"created_at"`
}
