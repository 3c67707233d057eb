package database

import (
	"log"

	"campushub/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.University{},
		&model.Faculty{},
		&model.Department{},
		&model.StudentGroup{},
		&model.StudentProfile{},
		&model.TeacherProfile{},
		&model.StaffProfile{},
		&model.Request{},
		&model.ApprovalStep{},
		&model.RequestDocument{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
