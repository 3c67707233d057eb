package service

import (
	"context"

	"campushub/internal/repository"

	"github.com/google/uuid"
)

// ApproverResolver maps an abstract role kind to a concrete user through the
// organizational data. A nil result with a nil error means nobody could be
// found anywhere in the fallback chain — the request stays pending without an
// approver and waits for an operator, never an error.
type ApproverResolver interface {
	Resolve(ctx context.Context, kind RoleKind, subjectID uuid.UUID) (*uuid.UUID, error)
}

type directoryResolver struct {
	dir repository.DirectoryRepository
}

func NewApproverResolver(dir repository.DirectoryRepository) ApproverResolver {
	return &directoryResolver{dir: dir}
}

func (r *directoryResolver) Resolve(ctx context.Context, kind RoleKind, subjectID uuid.UUID) (*uuid.UUID, error) {
	switch kind {
	case RoleKindCurator:
		return r.resolveCurator(ctx, subjectID)
	case RoleKindDeanery:
		return r.resolveDeanery(ctx, subjectID)
	case RoleKindDepartmentHead:
		return r.resolveDepartmentHead(ctx, subjectID)
	case RoleKindHR:
		return r.resolveHR(ctx, subjectID)
	default:
		return nil, nil
	}
}

// resolveCurator finds the curator of the student's group. No admin fallback:
// a group without a curator leaves the request unrouted.
func (r *directoryResolver) resolveCurator(ctx context.Context, studentUserID uuid.UUID) (*uuid.UUID, error) {
	student, err := r.dir.StudentByUserID(ctx, studentUserID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, nil
	}
	if student.Group.CuratorUserID != nil {
		return student.Group.CuratorUserID, nil
	}
	group, err := r.dir.GroupByID(ctx, student.GroupID)
	if err != nil || group == nil {
		return nil, err
	}
	return group.CuratorUserID, nil
}

// resolveDeanery finds a deanery staff member for the student's faculty:
// faculty -> university -> first staff, falling back to an administrator.
func (r *directoryResolver) resolveDeanery(ctx context.Context, studentUserID uuid.UUID) (*uuid.UUID, error) {
	student, err := r.dir.StudentByUserID(ctx, studentUserID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, nil
	}
	faculty, err := r.dir.FacultyByID(ctx, student.FacultyID)
	if err != nil {
		return nil, err
	}
	if faculty == nil {
		return r.dir.FirstAdmin(ctx)
	}
	return r.staffOrAdmin(ctx, faculty.UniversityID)
}

// resolveDepartmentHead finds another teacher in the requester's department
// standing in for the head, falling back to an administrator.
func (r *directoryResolver) resolveDepartmentHead(ctx context.Context, teacherUserID uuid.UUID) (*uuid.UUID, error) {
	teacher, err := r.dir.TeacherByUserID(ctx, teacherUserID)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, nil
	}
	head, err := r.dir.FirstTeacherInDepartment(ctx, teacher.DepartmentID, teacherUserID)
	if err != nil {
		return nil, err
	}
	if head != nil {
		return head, nil
	}
	return r.dir.FirstAdmin(ctx)
}

// resolveHR walks department -> faculty -> university and picks a staff
// member of the university, falling back to an administrator.
func (r *directoryResolver) resolveHR(ctx context.Context, teacherUserID uuid.UUID) (*uuid.UUID, error) {
	teacher, err := r.dir.TeacherByUserID(ctx, teacherUserID)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, nil
	}
	department, err := r.dir.DepartmentByID(ctx, teacher.DepartmentID)
	if err != nil {
		return nil, err
	}
	if department == nil {
		return r.dir.FirstAdmin(ctx)
	}
	faculty, err := r.dir.FacultyByID(ctx, department.FacultyID)
	if err != nil {
		return nil, err
	}
	if faculty == nil {
		return r.dir.FirstAdmin(ctx)
	}
	return r.staffOrAdmin(ctx, faculty.UniversityID)
}

func (r *directoryResolver) staffOrAdmin(ctx context.Context, universityID uuid.UUID) (*uuid.UUID, error) {
	staff, err := r.dir.FirstStaffOfUniversity(ctx, universityID)
	if err != nil {
		return nil, err
	}
	if staff != nil {
		return staff, nil
	}
	return r.dir.FirstAdmin(ctx)
}
