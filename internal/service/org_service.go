package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"campushub/internal/model"
	"campushub/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateUniversityDTO struct {
	Title string `json:"title" binding:"required"`
	City  string `json:"city" binding:"required"`
}

type CreateFacultyDTO struct {
	UniversityID string `json:"university_id" binding:"required,uuid"`
	Title        string `json:"title" binding:"required"`
}

type CreateDepartmentDTO struct {
	FacultyID string `json:"faculty_id" binding:"required,uuid"`
	Title     string `json:"title" binding:"required"`
}

type CreateGroupDTO struct {
	FacultyID string `json:"faculty_id" binding:"required,uuid"`
	Name      string `json:"name" binding:"required"`
	Code      string `json:"code" binding:"required"`
}

type AssignCuratorDTO struct {
	CuratorUserID string `json:"curator_user_id" binding:"required,uuid"`
}

type CreateProfileDTO struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	// Student fields
	FacultyID   string `json:"faculty_id" binding:"omitempty,uuid"`
	GroupID     string `json:"group_id" binding:"omitempty,uuid"`
	StudentCard string `json:"student_card"`
	// Teacher/staff fields
	DepartmentID string `json:"department_id" binding:"omitempty,uuid"`
	UniversityID string `json:"university_id" binding:"omitempty,uuid"`
	TabNumber    string `json:"tab_number"`
}

// OrgService manages the organizational chart the hierarchy resolver reads:
// universities, faculties, departments, student groups, curators and the
// per-role profiles.
type OrgService interface {
	CreateUniversity(ctx context.Context, req CreateUniversityDTO) (*model.University, error)
	ListUniversities(ctx context.Context, page, limit int) ([]model.University, int64, error)
	CreateFaculty(ctx context.Context, req CreateFacultyDTO) (*model.Faculty, error)
	ListFaculties(ctx context.Context, universityID string, page, limit int) ([]model.Faculty, int64, error)
	CreateDepartment(ctx context.Context, req CreateDepartmentDTO) (*model.Department, error)
	ListDepartments(ctx context.Context, facultyID string, page, limit int) ([]model.Department, int64, error)
	CreateGroup(ctx context.Context, req CreateGroupDTO) (*model.StudentGroup, error)
	ListGroups(ctx context.Context, facultyID string, page, limit int) ([]model.StudentGroup, int64, error)
	AssignCurator(ctx context.Context, groupID string, actorID uuid.UUID, req AssignCuratorDTO) (*model.StudentGroup, error)
	CreateStudentProfile(ctx context.Context, req CreateProfileDTO) error
	CreateTeacherProfile(ctx context.Context, req CreateProfileDTO) error
	CreateStaffProfile(ctx context.Context, req CreateProfileDTO) error
}

type orgService struct {
	repo   repository.OrgRepository
	audits repository.AuditRepository
}

func NewOrgService(repo repository.OrgRepository, audits repository.AuditRepository) OrgService {
	return &orgService{repo: repo, audits: audits}
}

func (s *orgService) CreateUniversity(ctx context.Context, req CreateUniversityDTO) (*model.University, error) {
	u := &model.University{Title: req.Title, City: req.City}
	if err := s.repo.CreateUniversity(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create university: %w", err)
	}
	return u, nil
}

func (s *orgService) ListUniversities(ctx context.Context, page, limit int) ([]model.University, int64, error) {
	return s.repo.ListUniversities(ctx, page, limit)
}

func (s *orgService) CreateFaculty(ctx context.Context, req CreateFacultyDTO) (*model.Faculty, error) {
	universityID, err := uuid.Parse(req.UniversityID)
	if err != nil {
		return nil, errors.New("invalid university_id")
	}
	f := &model.Faculty{UniversityID: universityID, Title: req.Title}
	if err := s.repo.CreateFaculty(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to create faculty: %w", err)
	}
	return f, nil
}

func (s *orgService) ListFaculties(ctx context.Context, universityID string, page, limit int) ([]model.Faculty, int64, error) {
	filter, err := parseOptionalUUID(universityID)
	if err != nil {
		return nil, 0, errors.New("invalid university_id filter")
	}
	return s.repo.ListFaculties(ctx, filter, page, limit)
}

func (s *orgService) CreateDepartment(ctx context.Context, req CreateDepartmentDTO) (*model.Department, error) {
	facultyID, err := uuid.Parse(req.FacultyID)
	if err != nil {
		return nil, errors.New("invalid faculty_id")
	}
	d := &model.Department{FacultyID: facultyID, Title: req.Title}
	if err := s.repo.CreateDepartment(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	return d, nil
}

func (s *orgService) ListDepartments(ctx context.Context, facultyID string, page, limit int) ([]model.Department, int64, error) {
	filter, err := parseOptionalUUID(facultyID)
	if err != nil {
		return nil, 0, errors.New("invalid faculty_id filter")
	}
	return s.repo.ListDepartments(ctx, filter, page, limit)
}

func (s *orgService) CreateGroup(ctx context.Context, req CreateGroupDTO) (*model.StudentGroup, error) {
	facultyID, err := uuid.Parse(req.FacultyID)
	if err != nil {
		return nil, errors.New("invalid faculty_id")
	}
	g := &model.StudentGroup{FacultyID: facultyID, Name: req.Name, Code: req.Code}
	if err := s.repo.CreateGroup(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return g, nil
}

func (s *orgService) ListGroups(ctx context.Context, facultyID string, page, limit int) ([]model.StudentGroup, int64, error) {
	filter, err := parseOptionalUUID(facultyID)
	if err != nil {
		return nil, 0, errors.New("invalid faculty_id filter")
	}
	return s.repo.ListGroups(ctx, filter, page, limit)
}

// AssignCurator sets the curator of a student group; the curator becomes the
// first approver for academic leave requests of the group's students.
func (s *orgService) AssignCurator(ctx context.Context, groupID string, actorID uuid.UUID, req AssignCuratorDTO) (*model.StudentGroup, error) {
	gid, err := uuid.Parse(groupID)
	if err != nil {
		return nil, errors.New("invalid group id")
	}
	curatorID, err := uuid.Parse(req.CuratorUserID)
	if err != nil {
		return nil, errors.New("invalid curator_user_id")
	}

	group, err := s.repo.FindGroupByID(ctx, gid)
	if err != nil {
		return nil, errors.New("group not found")
	}

	group.CuratorUserID = &curatorID
	if err := s.repo.UpdateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to assign curator: %w", err)
	}

	details, _ := json.Marshal(map[string]interface{}{
		"group_id":   group.ID.String(),
		"curator_id": curatorID.String(),
	})
	_ = s.audits.Log(ctx, &model.AuditLog{
		UserID:     &actorID,
		Action:     model.ActionAssignCurator,
		EntityID:   group.ID.String(),
		EntityName: group.Name,
		Details:    string(details),
	})

	return group, nil
}

func (s *orgService) CreateStudentProfile(ctx context.Context, req CreateProfileDTO) error {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return errors.New("invalid user_id")
	}
	facultyID, err := uuid.Parse(req.FacultyID)
	if err != nil {
		return errors.New("invalid faculty_id")
	}
	groupID, err := uuid.Parse(req.GroupID)
	if err != nil {
		return errors.New("invalid group_id")
	}
	if req.StudentCard == "" {
		return errors.New("student_card is required")
	}
	return s.repo.CreateStudentProfile(ctx, &model.StudentProfile{
		UserID:      userID,
		FacultyID:   facultyID,
		GroupID:     groupID,
		StudentCard: req.StudentCard,
	})
}

func (s *orgService) CreateTeacherProfile(ctx context.Context, req CreateProfileDTO) error {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return errors.New("invalid user_id")
	}
	departmentID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return errors.New("invalid department_id")
	}
	return s.repo.CreateTeacherProfile(ctx, &model.TeacherProfile{
		UserID:       userID,
		DepartmentID: departmentID,
		TabNumber:    req.TabNumber,
	})
}

func (s *orgService) CreateStaffProfile(ctx context.Context, req CreateProfileDTO) error {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return errors.New("invalid user_id")
	}
	universityID, err := uuid.Parse(req.UniversityID)
	if err != nil {
		return errors.New("invalid university_id")
	}
	return s.repo.CreateStaffProfile(ctx, &model.StaffProfile{
		UserID:       userID,
		UniversityID: universityID,
		TabNumber:    req.TabNumber,
	})
}

func parseOptionalUUID(value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
