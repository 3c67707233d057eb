package service

import (
	"testing"

	"campushub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteChains(t *testing.T) {
	tests := []struct {
		requestType string
		roles       []RoleKind
	}{
		{model.RequestTypeStudentCertificate, nil},
		{model.RequestTypeAcademicLeave, []RoleKind{RoleKindCurator, RoleKindDeanery}},
		{model.RequestTypeTransfer, []RoleKind{RoleKindDeanery}},
		{model.RequestTypeVacation, []RoleKind{RoleKindDepartmentHead, RoleKindHR}},
		{model.RequestTypeDocumentApproval, []RoleKind{RoleKindDepartmentHead}},
	}

	for _, tt := range tests {
		t.Run(tt.requestType, func(t *testing.T) {
			require.True(t, IsValidRequestType(tt.requestType))
			assert.Equal(t, len(tt.roles), StepCount(tt.requestType))
			assert.Equal(t, len(tt.roles) == 0, IsSelfTerminal(tt.requestType))

			// Walk the chain with NextRole and check it matches the expected
			// roles step by step, then terminates.
			for i, want := range tt.roles {
				got, ok := NextRole(tt.requestType, i)
				require.True(t, ok, "step %d should exist", i+1)
				assert.Equal(t, want, got)
			}
			_, ok := NextRole(tt.requestType, len(tt.roles))
			assert.False(t, ok, "chain should be exhausted")
		})
	}
}

func TestFirstRole(t *testing.T) {
	role, ok := FirstRole(model.RequestTypeAcademicLeave)
	require.True(t, ok)
	assert.Equal(t, RoleKindCurator, role)

	_, ok = FirstRole(model.RequestTypeStudentCertificate)
	assert.False(t, ok, "self-terminal type has no first role")

	_, ok = FirstRole("expulsion")
	assert.False(t, ok)
}

func TestIsValidRequestType(t *testing.T) {
	assert.False(t, IsValidRequestType(""))
	assert.False(t, IsValidRequestType("expulsion"))
	assert.True(t, IsValidRequestType(model.RequestTypeVacation))
}

func TestIsDeliverable(t *testing.T) {
	assert.True(t, IsDeliverable(model.RequestTypeStudentCertificate))
	assert.True(t, IsDeliverable(model.RequestTypeDocumentApproval))
	assert.False(t, IsDeliverable(model.RequestTypeAcademicLeave))
	assert.False(t, IsDeliverable(model.RequestTypeTransfer))
	assert.False(t, IsDeliverable(model.RequestTypeVacation))
}

func TestNextRoleOutOfRange(t *testing.T) {
	_, ok := NextRole(model.RequestTypeVacation, -1)
	assert.False(t, ok)
	_, ok = NextRole(model.RequestTypeVacation, 99)
	assert.False(t, ok)
}

func TestRoleLabels(t *testing.T) {
	assert.Equal(t, model.ApproverRoleCurator, RoleKindCurator.Label())
	assert.Equal(t, model.ApproverRoleDeanery, RoleKindDeanery.Label())
	assert.Equal(t, model.ApproverRoleDepartmentHead, RoleKindDepartmentHead.Label())
	assert.Equal(t, model.ApproverRoleHR, RoleKindHR.Label())
}
