package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateRequest   = "CREATE_REQUEST"
	ActionApproveStep     = "APPROVE_STEP"
	ActionRejectRequest   = "REJECT_REQUEST"
	ActionUploadDocument  = "UPLOAD_REQUEST_DOCUMENT"
	ActionCreateUser      = "CREATE_USER"
	ActionUpdateUser      = "UPDATE_USER"
	ActionDeleteUser      = "DELETE_USER"
	ActionAssignCurator   = "ASSIGN_GROUP_CURATOR"
	ActionCreateOrgEntity = "CREATE_ORG_ENTITY"
	ActionUpdateOrgEntity = "UPDATE_ORG_ENTITY"
	ActionDeleteOrgEntity = "DELETE_ORG_ENTITY"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/sequence id)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
