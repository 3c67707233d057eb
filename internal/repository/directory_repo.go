package repository

import (
	"context"
	"errors"

	"campushub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DirectoryRepository answers the read-only organizational lookups the
// hierarchy resolver needs. All "first X" picks order by the lowest user id
// so the choice is deterministic regardless of storage order.
type DirectoryRepository interface {
	StudentByUserID(ctx context.Context, userID uuid.UUID) (*model.StudentProfile, error)
	TeacherByUserID(ctx context.Context, userID uuid.UUID) (*model.TeacherProfile, error)
	GroupByID(ctx context.Context, id uuid.UUID) (*model.StudentGroup, error)
	FacultyByID(ctx context.Context, id uuid.UUID) (*model.Faculty, error)
	DepartmentByID(ctx context.Context, id uuid.UUID) (*model.Department, error)
	// FirstStaffOfUniversity returns the staff member with the lowest user id
	// attached to the university, or nil if the university has none.
	FirstStaffOfUniversity(ctx context.Context, universityID uuid.UUID) (*uuid.UUID, error)
	// FirstTeacherInDepartment returns the teacher with the lowest user id in
	// the department, excluding the given user, or nil if there is none.
	FirstTeacherInDepartment(ctx context.Context, departmentID, excludeUserID uuid.UUID) (*uuid.UUID, error)
	// FirstAdmin returns the administrator with the lowest user id, or nil.
	FirstAdmin(ctx context.Context) (*uuid.UUID, error)
}

type directoryRepository struct {
	db *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) DirectoryRepository {
	return &directoryRepository{db: db}
}

func (r *directoryRepository) StudentByUserID(ctx context.Context, userID uuid.UUID) (*model.StudentProfile, error) {
	var student model.StudentProfile
	err := GetDB(ctx, r.db).Preload("Group").First(&student, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *directoryRepository) TeacherByUserID(ctx context.Context, userID uuid.UUID) (*model.TeacherProfile, error) {
	var teacher model.TeacherProfile
	err := GetDB(ctx, r.db).First(&teacher, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *directoryRepository) GroupByID(ctx context.Context, id uuid.UUID) (*model.StudentGroup, error) {
	var group model.StudentGroup
	err := GetDB(ctx, r.db).First(&group, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *directoryRepository) FacultyByID(ctx context.Context, id uuid.UUID) (*model.Faculty, error) {
	var faculty model.Faculty
	err := GetDB(ctx, r.db).First(&faculty, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &faculty, nil
}

func (r *directoryRepository) DepartmentByID(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	var department model.Department
	err := GetDB(ctx, r.db).First(&department, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *directoryRepository) FirstStaffOfUniversity(ctx context.Context, universityID uuid.UUID) (*uuid.UUID, error) {
	var staff model.StaffProfile
	err := GetDB(ctx, r.db).
		Where("university_id = ?", universityID).
		Order("user_id ASC").
		First(&staff).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &staff.UserID, nil
}

func (r *directoryRepository) FirstTeacherInDepartment(ctx context.Context, departmentID, excludeUserID uuid.UUID) (*uuid.UUID, error) {
	var teacher model.TeacherProfile
	err := GetDB(ctx, r.db).
		Where("department_id = ? AND user_id <> ?", departmentID, excludeUserID).
		Order("user_id ASC").
		First(&teacher).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &teacher.UserID, nil
}

func (r *directoryRepository) FirstAdmin(ctx context.Context) (*uuid.UUID, error) {
	var admin model.User
	err := GetDB(ctx, r.db).
		Where("role = ?", model.RoleAdmin).
		Order("id ASC").
		First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin.ID, nil
}
