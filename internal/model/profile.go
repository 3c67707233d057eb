package model

import (
	"github.com/google/uuid"
)

// StudentProfile attaches a user to a faculty and study group.
type StudentProfile struct {
	UserID      uuid.UUID    `gorm:"type:uuid;primaryKey" json:"user_id"`
	User        User         `gorm:"foreignKey:UserID" json:"-"`
	FacultyID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"faculty_id"`
	Faculty     Faculty      `gorm:"foreignKey:FacultyID" json:"-"`
	GroupID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"group_id"`
	Group       StudentGroup `gorm:"foreignKey:GroupID" json:"-"`
	StudentCard string       `gorm:"type:varchar(50);uniqueIndex;not null" json:"student_card"`
}

func (StudentProfile) TableName() string { return "student_profiles" }

// TeacherProfile attaches a user to a department.
type TeacherProfile struct {
	UserID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	User         User       `gorm:"foreignKey:UserID" json:"-"`
	DepartmentID uuid.UUID  `gorm:"type:uuid;not null;index" json:"department_id"`
	Department   Department `gorm:"foreignKey:DepartmentID" json:"-"`
	TabNumber    string     `gorm:"type:varchar(50);not null" json:"tab_number"`
}

func (TeacherProfile) TableName() string { return "teacher_profiles" }

// StaffProfile attaches a user (deanery, HR and other administrative staff)
// directly to a university.
type StaffProfile struct {
	UserID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	User         User       `gorm:"foreignKey:UserID" json:"-"`
	UniversityID uuid.UUID  `gorm:"type:uuid;not null;index" json:"university_id"`
	University   University `gorm:"foreignKey:UniversityID" json:"-"`
	TabNumber    string     `gorm:"type:varchar(50);not null" json:"tab_number"`
}

func (StaffProfile) TableName() string { return "staff_profiles" }
