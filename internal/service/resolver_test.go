package service

import (
	"context"
	"testing"

	"campushub/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDirectory is an in-memory DirectoryRepository for resolver tests.
type fakeDirectory struct {
	students    map[uuid.UUID]*model.StudentProfile
	teachers    map[uuid.UUID]*model.TeacherProfile
	groups      map[uuid.UUID]*model.StudentGroup
	faculties   map[uuid.UUID]*model.Faculty
	departments map[uuid.UUID]*model.Department
	staffByUni  map[uuid.UUID]uuid.UUID
	deptHeads   map[uuid.UUID][]uuid.UUID
	admin       *uuid.UUID
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		students:    map[uuid.UUID]*model.StudentProfile{},
		teachers:    map[uuid.UUID]*model.TeacherProfile{},
		groups:      map[uuid.UUID]*model.StudentGroup{},
		faculties:   map[uuid.UUID]*model.Faculty{},
		departments: map[uuid.UUID]*model.Department{},
		staffByUni:  map[uuid.UUID]uuid.UUID{},
		deptHeads:   map[uuid.UUID][]uuid.UUID{},
	}
}

func (f *fakeDirectory) StudentByUserID(_ context.Context, userID uuid.UUID) (*model.StudentProfile, error) {
	return f.students[userID], nil
}

func (f *fakeDirectory) TeacherByUserID(_ context.Context, userID uuid.UUID) (*model.TeacherProfile, error) {
	return f.teachers[userID], nil
}

func (f *fakeDirectory) GroupByID(_ context.Context, id uuid.UUID) (*model.StudentGroup, error) {
	return f.groups[id], nil
}

func (f *fakeDirectory) FacultyByID(_ context.Context, id uuid.UUID) (*model.Faculty, error) {
	return f.faculties[id], nil
}

func (f *fakeDirectory) DepartmentByID(_ context.Context, id uuid.UUID) (*model.Department, error) {
	return f.departments[id], nil
}

func (f *fakeDirectory) FirstStaffOfUniversity(_ context.Context, universityID uuid.UUID) (*uuid.UUID, error) {
	if id, ok := f.staffByUni[universityID]; ok {
		return &id, nil
	}
	return nil, nil
}

func (f *fakeDirectory) FirstTeacherInDepartment(_ context.Context, departmentID, excludeUserID uuid.UUID) (*uuid.UUID, error) {
	for _, id := range f.deptHeads[departmentID] {
		if id != excludeUserID {
			return &id, nil
		}
	}
	return nil, nil
}

func (f *fakeDirectory) FirstAdmin(_ context.Context) (*uuid.UUID, error) {
	return f.admin, nil
}

// orgFixture wires a student, their group/faculty/university, a teacher and
// their department into a fakeDirectory.
type orgFixture struct {
	dir          *fakeDirectory
	studentID    uuid.UUID
	teacherID    uuid.UUID
	groupID      uuid.UUID
	facultyID    uuid.UUID
	universityID uuid.UUID
	departmentID uuid.UUID
}

func newOrgFixture() *orgFixture {
	fx := &orgFixture{
		dir:          newFakeDirectory(),
		studentID:    uuid.New(),
		teacherID:    uuid.New(),
		groupID:      uuid.New(),
		facultyID:    uuid.New(),
		universityID: uuid.New(),
		departmentID: uuid.New(),
	}
	fx.dir.faculties[fx.facultyID] = &model.Faculty{ID: fx.facultyID, UniversityID: fx.universityID}
	fx.dir.groups[fx.groupID] = &model.StudentGroup{ID: fx.groupID, FacultyID: fx.facultyID}
	fx.dir.students[fx.studentID] = &model.StudentProfile{
		UserID:    fx.studentID,
		FacultyID: fx.facultyID,
		GroupID:   fx.groupID,
		Group:     *fx.dir.groups[fx.groupID],
	}
	fx.dir.departments[fx.departmentID] = &model.Department{ID: fx.departmentID, FacultyID: fx.facultyID}
	fx.dir.teachers[fx.teacherID] = &model.TeacherProfile{UserID: fx.teacherID, DepartmentID: fx.departmentID}
	return fx
}

func TestResolveCurator(t *testing.T) {
	fx := newOrgFixture()
	curatorID := uuid.New()
	fx.dir.groups[fx.groupID].CuratorUserID = &curatorID
	resolver := NewApproverResolver(fx.dir)

	got, err := resolver.Resolve(context.Background(), RoleKindCurator, fx.studentID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, curatorID, *got)
}

func TestResolveCuratorNoFallback(t *testing.T) {
	fx := newOrgFixture()
	adminID := uuid.New()
	fx.dir.admin = &adminID // must NOT be used for curator resolution
	resolver := NewApproverResolver(fx.dir)

	got, err := resolver.Resolve(context.Background(), RoleKindCurator, fx.studentID)
	require.NoError(t, err)
	assert.Nil(t, got, "group without a curator leaves the request unrouted")
}

func TestResolveCuratorUnknownStudent(t *testing.T) {
	fx := newOrgFixture()
	resolver := NewApproverResolver(fx.dir)

	got, err := resolver.Resolve(context.Background(), RoleKindCurator, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolveDeanery(t *testing.T) {
	fx := newOrgFixture()
	staffID := uuid.New()
	fx.dir.staffByUni[fx.universityID] = staffID
	resolver := NewApproverResolver(fx.dir)

	got, err := resolver.Resolve(context.Background(), RoleKindDeanery, fx.studentID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, staffID, *got)
}

func TestResolveDeaneryFallsBackToAdmin(t *testing.T) {
	fx := newOrgFixture()
	adminID := uuid.New()
	fx.dir.admin = &adminID
	resolver := NewApproverResolver(fx.dir)

	got, err := resolver.Resolve(context.Background(), RoleKindDeanery, fx.studentID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, adminID, *got)
}

func TestResolveDepartmentHead(t *testing.T) {
	fx := newOrgFixture()
	headID := uuid.New()
	fx.dir.deptHeads[fx.departmentID] = []uuid.UUID{headID}
	resolver := NewApproverResolver(fx.dir)

	got, err := resolver.Resolve(context.Background(), RoleKindDepartmentHead, fx.teacherID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, headID, *got)
}

func TestResolveDepartmentHeadExcludesRequester(t *testing.T) {
	fx := newOrgFixture()
	adminID := uuid.New()
	fx.dir.admin = &adminID
	// The requester is the only teacher in the department.
	fx.dir.deptHeads[fx.departmentID] = []uuid.UUID{fx.teacherID}
	resolver := NewApproverResolver(fx.dir)

	got, err := resolver.Resolve(context.Background(), RoleKindDepartmentHead, fx.teacherID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, adminID, *got, "a teacher never approves their own request")
}

func TestResolveHR(t *testing.T) {
	fx := newOrgFixture()
	staffID := uuid.New()
	fx.dir.staffByUni[fx.universityID] = staffID
	resolver := NewApproverResolver(fx.dir)

	got, err := resolver.Resolve(context.Background(), RoleKindHR, fx.teacherID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, staffID, *got)
}

func TestResolveHRFallsBackToAdmin(t *testing.T) {
	fx := newOrgFixture()
	adminID := uuid.New()
	fx.dir.admin = &adminID
	resolver := NewApproverResolver(fx.dir)

	got, err := resolver.Resolve(context.Background(), RoleKindHR, fx.teacherID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, adminID, *got)
}

func TestResolveNobodyAnywhere(t *testing.T) {
	fx := newOrgFixture()
	resolver := NewApproverResolver(fx.dir)

	for _, kind := range []RoleKind{RoleKindDeanery, RoleKindDepartmentHead, RoleKindHR} {
		subject := fx.studentID
		if kind != RoleKindDeanery {
			subject = fx.teacherID
		}
		got, err := resolver.Resolve(context.Background(), kind, subject)
		require.NoError(t, err)
		assert.Nil(t, got, "empty org chart resolves to nobody, not an error")
	}
}
