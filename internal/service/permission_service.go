package service

import (
	"go-lab-case-tracker/internal/domain/entity"
)

// Capability is a coarse classification of what a role may do, resolved to
// a permission code exactly once here. Callers never re-derive capabilities
// from role names.
type Capability string

const (
	CapabilityCompleteReports Capability = entity.PermCasesComplete
	CapabilityManageLines     Capability = entity.PermLinesManage
	CapabilityManageDesigns   Capability = entity.PermDesignsManage
	CapabilityViewAudit       Capability = entity.PermAuditView
)

// PermissionService is the single evaluator for gated actions. It is pure
// and read-only; every permission decision in the system routes through it.
type PermissionService struct{}

func NewPermissionService() *PermissionService {
	return &PermissionService{}
}

// Evaluate reports whether the role may perform the action named by code.
// The designated superuser roles pass unconditionally, by identity; every
// other role must hold an explicit grant.
func (s *PermissionService) Evaluate(role *entity.Role, code string) bool {
	if role == nil {
		return false
	}
	if role.IsSuperuser() {
		return true
	}
	return role.HasPermission(code)
}

// HasCapability resolves the capability to its permission code and
// evaluates it.
func (s *PermissionService) HasCapability(role *entity.Role, capability Capability) bool {
	return s.Evaluate(role, string(capability))
}
