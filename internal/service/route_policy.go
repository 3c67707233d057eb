package service

import (
	"campushub/internal/model"
)

// RoleKind identifies an abstract approver role that still needs to be
// resolved against the org chart before anyone can act.
type RoleKind int

const (
	RoleKindCurator RoleKind = iota
	RoleKindDeanery
	RoleKindDepartmentHead
	RoleKindHR
)

// Label returns the human-readable role label recorded on approval steps.
func (k RoleKind) Label() string {
	switch k {
	case RoleKindCurator:
		return model.ApproverRoleCurator
	case RoleKindDeanery:
		return model.ApproverRoleDeanery
	case RoleKindDepartmentHead:
		return model.ApproverRoleDepartmentHead
	case RoleKindHR:
		return model.ApproverRoleHR
	default:
		return "Unknown"
	}
}

// approvalRoutes is the single source of truth for request routing: one
// ordered role chain per request type. A change to the organizational
// approval process is a change to this table, nowhere else. Compiled at
// startup, immutable at runtime.
var approvalRoutes = map[string][]RoleKind{
	model.RequestTypeStudentCertificate: {}, // auto-approved at creation
	model.RequestTypeAcademicLeave:      {RoleKindCurator, RoleKindDeanery},
	model.RequestTypeTransfer:           {RoleKindDeanery},
	model.RequestTypeVacation:           {RoleKindDepartmentHead, RoleKindHR},
	model.RequestTypeDocumentApproval:   {RoleKindDepartmentHead},
}

// deliverableTypes are the request types whose approval produces a document
// the requester picks up, triggering a ready-document notification.
var deliverableTypes = map[string]bool{
	model.RequestTypeStudentCertificate: true,
	model.RequestTypeDocumentApproval:   true,
}

// IsValidRequestType reports whether the routing table knows the type.
func IsValidRequestType(requestType string) bool {
	_, ok := approvalRoutes[requestType]
	return ok
}

// IsSelfTerminal reports whether the type is approved at creation with no
// approval steps at all.
func IsSelfTerminal(requestType string) bool {
	route, ok := approvalRoutes[requestType]
	return ok && len(route) == 0
}

// IsDeliverable reports whether approval of the type produces a document
// deliverable to the requester.
func IsDeliverable(requestType string) bool {
	return deliverableTypes[requestType]
}

// StepCount returns the number of approval steps the type requires.
func StepCount(requestType string) int {
	return len(approvalRoutes[requestType])
}

// FirstRole returns the role of step 1 for the type; ok is false for
// self-terminal and unknown types.
func FirstRole(requestType string) (RoleKind, bool) {
	return NextRole(requestType, 0)
}

// NextRole returns the role of the step after the given completed step
// order; ok is false when the chain is exhausted (terminal).
func NextRole(requestType string, completedOrder int) (RoleKind, bool) {
	route, ok := approvalRoutes[requestType]
	if !ok || completedOrder < 0 || completedOrder >= len(route) {
		return 0, false
	}
	return route[completedOrder], true
}
