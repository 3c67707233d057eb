package repository

import (
	"context"

	"campushub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrgRepository manages the organizational chart entities (universities,
// faculties, departments, student groups) and the per-role profiles.
type OrgRepository interface {
	CreateUniversity(ctx context.Context, u *model.University) error
	ListUniversities(ctx context.Context, page, limit int) ([]model.University, int64, error)

	CreateFaculty(ctx context.Context, f *model.Faculty) error
	ListFaculties(ctx context.Context, universityID *uuid.UUID, page, limit int) ([]model.Faculty, int64, error)

	CreateDepartment(ctx context.Context, d *model.Department) error
	ListDepartments(ctx context.Context, facultyID *uuid.UUID, page, limit int) ([]model.Department, int64, error)

	CreateGroup(ctx context.Context, g *model.StudentGroup) error
	ListGroups(ctx context.Context, facultyID *uuid.UUID, page, limit int) ([]model.StudentGroup, int64, error)
	UpdateGroup(ctx context.Context, g *model.StudentGroup) error
	FindGroupByID(ctx context.Context, id uuid.UUID) (*model.StudentGroup, error)

	CreateStudentProfile(ctx context.Context, p *model.StudentProfile) error
	CreateTeacherProfile(ctx context.Context, p *model.TeacherProfile) error
	CreateStaffProfile(ctx context.Context, p *model.StaffProfile) error
}

type orgRepository struct {
	db *gorm.DB
}

func NewOrgRepository(db *gorm.DB) OrgRepository {
	return &orgRepository{db: db}
}

func (r *orgRepository) CreateUniversity(ctx context.Context, u *model.University) error {
	return GetDB(ctx, r.db).Create(u).Error
}

func (r *orgRepository) ListUniversities(ctx context.Context, page, limit int) ([]model.University, int64, error) {
	var items []model.University
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.University{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := db.Order("title ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *orgRepository) CreateFaculty(ctx context.Context, f *model.Faculty) error {
	return GetDB(ctx, r.db).Create(f).Error
}

func (r *orgRepository) ListFaculties(ctx context.Context, universityID *uuid.UUID, page, limit int) ([]model.Faculty, int64, error) {
	var items []model.Faculty
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Faculty{})
	if universityID != nil {
		query = query.Where("university_id = ?", *universityID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	fetch := db.Order("title ASC").Offset(offset).Limit(limit)
	if universityID != nil {
		fetch = fetch.Where("university_id = ?", *universityID)
	}
	if err := fetch.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *orgRepository) CreateDepartment(ctx context.Context, d *model.Department) error {
	return GetDB(ctx, r.db).Create(d).Error
}

func (r *orgRepository) ListDepartments(ctx context.Context, facultyID *uuid.UUID, page, limit int) ([]model.Department, int64, error) {
	var items []model.Department
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Department{})
	if facultyID != nil {
		query = query.Where("faculty_id = ?", *facultyID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	fetch := db.Order("title ASC").Offset(offset).Limit(limit)
	if facultyID != nil {
		fetch = fetch.Where("faculty_id = ?", *facultyID)
	}
	if err := fetch.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *orgRepository) CreateGroup(ctx context.Context, g *model.StudentGroup) error {
	return GetDB(ctx, r.db).Create(g).Error
}

func (r *orgRepository) ListGroups(ctx context.Context, facultyID *uuid.UUID, page, limit int) ([]model.StudentGroup, int64, error) {
	var items []model.StudentGroup
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.StudentGroup{})
	if facultyID != nil {
		query = query.Where("faculty_id = ?", *facultyID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	fetch := db.Preload("Curator").Order("name ASC").Offset(offset).Limit(limit)
	if facultyID != nil {
		fetch = fetch.Where("faculty_id = ?", *facultyID)
	}
	if err := fetch.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *orgRepository) UpdateGroup(ctx context.Context, g *model.StudentGroup) error {
	return GetDB(ctx, r.db).Save(g).Error
}

func (r *orgRepository) FindGroupByID(ctx context.Context, id uuid.UUID) (*model.StudentGroup, error) {
	var group model.StudentGroup
	if err := GetDB(ctx, r.db).First(&group, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *orgRepository) CreateStudentProfile(ctx context.Context, p *model.StudentProfile) error {
	return GetDB(ctx, r.db).Create(p).Error
}

func (r *orgRepository) CreateTeacherProfile(ctx context.Context, p *model.TeacherProfile) error {
	return GetDB(ctx, r.db).Create(p).Error
}

func (r *orgRepository) CreateStaffProfile(ctx context.Context, p *model.StaffProfile) error {
	return GetDB(ctx, r.db).Create(p).Error
}
