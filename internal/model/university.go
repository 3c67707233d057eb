package model

import (
	"time"

	"github.com/google/uuid"
)

// University is the root of the organizational hierarchy.
type University struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title     string    `gorm:"type:text;not null" json:"title"`
	City      string    `gorm:"type:text;not null" json:"city"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Faculty belongs to a university and owns student groups and departments.
type Faculty struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UniversityID uuid.UUID  `gorm:"type:uuid;not null;index" json:"university_id"`
	University   University `gorm:"foreignKey:UniversityID" json:"-"`
	Title        string     `gorm:"type:text;not null" json:"title"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Department (kafedra) groups teachers inside a faculty.
type Department struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FacultyID uuid.UUID `gorm:"type:uuid;not null;index" json:"faculty_id"`
	Faculty   Faculty   `gorm:"foreignKey:FacultyID" json:"-"`
	Title     string    `gorm:"type:text;not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StudentGroup is a study group inside a faculty; its curator (if assigned)
// is the first approver for academic leave requests of the group's students.
type StudentGroup struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FacultyID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"faculty_id"`
	Faculty       Faculty    `gorm:"foreignKey:FacultyID" json:"-"`
	Name          string     `gorm:"type:varchar(100);not null" json:"name"`
	Code          string     `gorm:"type:varchar(50);not null" json:"code"`
	CuratorUserID *uuid.UUID `gorm:"type:uuid;index" json:"curator_user_id"`
	Curator       *User      `gorm:"foreignKey:CuratorUserID" json:"curator,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
