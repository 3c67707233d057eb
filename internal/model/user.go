package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User role enum constants
const (
	RoleStudent = "student"
	RoleStaff   = "staff"
	RoleAdmin   = "admin"
)

// User represents the central identity for every actor in the system:
// students, teachers, deanery/HR staff and administrators.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	MaxID        *int64         `gorm:"index" json:"max_id"` // External messenger (MAX bot) user id, set after verification
	Role         string         `gorm:"type:varchar(20);not null;index" json:"role"`
	FullName     string         `gorm:"type:text;not null" json:"full_name"`
	City         string         `gorm:"type:text;not null" json:"city"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string         `gorm:"type:varchar(255);not null" json:"-"` // Omit password from JSON requests/responses
	UniversityID *uuid.UUID     `gorm:"type:uuid;index" json:"university_id"`
	University   *University    `gorm:"foreignKey:UniversityID" json:"university,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
