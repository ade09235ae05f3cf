// ABOUTME: Tests for the permission matrix
// ABOUTME: Covers totality, fail-closed defaults, and per-role allow sets

package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrivia/coach-gateway/internal/apperr"
)

func TestAllowed_AdminHasEverything(t *testing.T) {
	for _, res := range AllResources {
		assert.True(t, Allowed(RoleAdmin, res), "admin should access %s", res)
	}
}

func TestAllowed_GuestOnlyCatalog(t *testing.T) {
	for _, res := range AllResources {
		want := res == ResourceRecetas
		assert.Equal(t, want, Allowed(RoleGuest, res), "guest access to %s", res)
	}
}

func TestAllowed_FailClosed(t *testing.T) {
	// Unknown role and unknown resource must both deny.
	assert.False(t, Allowed(Role("Recepcionista"), ResourceCitas))
	assert.False(t, Allowed(RoleNutricionista, Resource("facturas")))
	assert.False(t, Allowed(Role(""), Resource("")))
}

func TestAllowed_RoleBoundaries(t *testing.T) {
	// Nutritionists manage diets and recipes, never workout routines.
	assert.True(t, Allowed(RoleNutricionista, ResourceDietas))
	assert.True(t, Allowed(RoleNutricionista, ResourceRecetas))
	assert.False(t, Allowed(RoleNutricionista, ResourceRutinas))

	// Trainers manage routines, never diets or recipes.
	assert.True(t, Allowed(RoleEntrenador, ResourceRutinas))
	assert.False(t, Allowed(RoleEntrenador, ResourceDietas))
	assert.False(t, Allowed(RoleEntrenador, ResourceRecetas))

	// Patients never see the client roster.
	assert.False(t, Allowed(RolePaciente, ResourceClientes))
}

func TestAllowed_AdministrativeResourcesAreAdminOnly(t *testing.T) {
	for _, role := range []Role{RoleNutricionista, RoleEntrenador, RolePaciente, RoleGuest} {
		assert.False(t, Allowed(role, ResourceUsuarios), "%s and usuarios", role)
		assert.False(t, Allowed(role, ResourceAuditoria), "%s and auditoria", role)
		assert.False(t, Allowed(role, ResourceCaducidad), "%s and caducidad", role)
	}
}

func TestAllowed_Totality(t *testing.T) {
	// Every role x resource pair resolves without surprises; this is a smoke
	// check that the switch covers the closed enums.
	roles := append([]Role{RoleGuest}, ValidRoles...)
	for _, role := range roles {
		for _, res := range AllResources {
			_ = Allowed(role, res)
		}
	}
}

func TestCheck(t *testing.T) {
	require.NoError(t, Check(RoleAdmin, ResourceAuditoria))

	err := Check(RoleGuest, ResourceMedidas)
	require.Error(t, err)
	ae := apperr.FromError(err)
	assert.Equal(t, apperr.CodePermissionDenied, ae.Code)
	assert.Equal(t, 403, ae.Status())
}

func TestRoleIsValid(t *testing.T) {
	assert.True(t, RoleNutricionista.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	// Guest is a resolved-principal role, never a stored account role.
	assert.False(t, RoleGuest.IsValid())
	assert.False(t, Role("Superuser").IsValid())
}
