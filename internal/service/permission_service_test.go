package service

import (
	"testing"

	"go-lab-case-tracker/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateSuperuserBypass(t *testing.T) {
	svc := NewPermissionService()

	admin := &entity.Role{Name: entity.RoleAdministrator}
	director := &entity.Role{Name: entity.RoleLabDirector}

	assert.True(t, svc.Evaluate(admin, entity.PermCasesComplete))
	assert.True(t, svc.Evaluate(director, entity.PermAuditView))
	assert.True(t, svc.Evaluate(admin, "some_future_permission"))
}

func TestEvaluateGrantedCode(t *testing.T) {
	svc := NewPermissionService()

	tech := &entity.Role{
		Name: "technologist",
		Permissions: []entity.Permission{
			{Code: entity.PermCasesView},
			{Code: entity.PermCasesEdit},
		},
	}

	assert.True(t, svc.Evaluate(tech, entity.PermCasesView))
	assert.True(t, svc.Evaluate(tech, entity.PermCasesEdit))
	assert.False(t, svc.Evaluate(tech, entity.PermCasesComplete))
}

func TestEvaluateNilRole(t *testing.T) {
	svc := NewPermissionService()
	assert.False(t, svc.Evaluate(nil, entity.PermCasesView))
}

func TestHasCapabilityRoutesThroughEvaluate(t *testing.T) {
	svc := NewPermissionService()

	pathologist := &entity.Role{
		Name: "pathologist",
		Permissions: []entity.Permission{
			{Code: entity.PermCasesComplete},
		},
	}
	tech := &entity.Role{Name: "technologist"}

	assert.True(t, svc.HasCapability(pathologist, CapabilityCompleteReports))
	assert.False(t, svc.HasCapability(tech, CapabilityCompleteReports))
	assert.True(t, svc.HasCapability(&entity.Role{Name: entity.RoleLabDirector}, CapabilityCompleteReports))
}
