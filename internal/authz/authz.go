// ABOUTME: Role and resource enumerations plus the role-by-resource permission matrix
// ABOUTME: The matrix is total over the closed enums and denies anything unmapped

package authz

import (
	"github.com/nutrivia/coach-gateway/internal/apperr"
)

// Role is an account role. The set is closed: adding a role without extending
// the matrix leaves every resource denied for it.
type Role string

const (
	RoleAdmin         Role = "Admin"
	RoleNutricionista Role = "Nutricionista"
	RoleEntrenador    Role = "Entrenador"
	RolePaciente      Role = "Paciente"
	RoleGuest         Role = "Guest"
)

// ValidRoles lists all roles an account row may carry. Guest is never stored
// on an account; it only appears on resolved guest principals.
var ValidRoles = []Role{
	RoleAdmin,
	RoleNutricionista,
	RoleEntrenador,
	RolePaciente,
}

// IsValid reports whether the role is one of the storable account roles.
func (r Role) IsValid() bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// Resource identifies a class of data a permission check applies to. Keys
// keep the names the data layer uses.
type Resource string

const (
	ResourceCitas     Resource = "citas"
	ResourceClientes  Resource = "clientes"
	ResourceRecetas   Resource = "recetas"
	ResourceDietas    Resource = "dietas"
	ResourceRutinas   Resource = "rutinas"
	ResourceMedidas   Resource = "medidas"
	ResourceChat      Resource = "chat"
	ResourceImagenes  Resource = "imagenes"
	ResourceUsuarios  Resource = "usuarios"
	ResourceAuditoria Resource = "auditoria"
	ResourceCaducidad Resource = "caducidad"
)

// AllResources lists every resource key used anywhere in the API.
var AllResources = []Resource{
	ResourceCitas,
	ResourceClientes,
	ResourceRecetas,
	ResourceDietas,
	ResourceRutinas,
	ResourceMedidas,
	ResourceChat,
	ResourceImagenes,
	ResourceUsuarios,
	ResourceAuditoria,
	ResourceCaducidad,
}

// Allowed reports whether the role may access the resource. Unmapped pairs
// fall through to deny.
func Allowed(role Role, resource Resource) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleNutricionista:
		switch resource {
		case ResourceCitas, ResourceClientes, ResourceRecetas, ResourceDietas,
			ResourceMedidas, ResourceChat, ResourceImagenes:
			return true
		}
	case RoleEntrenador:
		switch resource {
		case ResourceCitas, ResourceClientes, ResourceRutinas,
			ResourceMedidas, ResourceChat, ResourceImagenes:
			return true
		}
	case RolePaciente:
		switch resource {
		case ResourceCitas, ResourceRecetas, ResourceDietas, ResourceRutinas,
			ResourceMedidas, ResourceChat, ResourceImagenes:
			return true
		}
	case RoleGuest:
		switch resource {
		case ResourceRecetas:
			return true
		}
	}
	return false
}

// Check returns a permission-denied error unless the role may access the
// resource. Callers invoke this before touching storage so a deny produces
// no partial side effects.
func Check(role Role, resource Resource) error {
	if !Allowed(role, resource) {
		return apperr.ErrPermission
	}
	return nil
}
