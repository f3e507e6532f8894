package entity

// Role represents an actor category in the system
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Hidden      bool   `gorm:"not null;default:false" json:"hidden"`

	// Relationships
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
	Users       []User       `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Designated superuser role names. These two bypass permission checks by
// identity; every other role is evaluated against its granted codes.
const (
	RoleAdministrator = "administrator"
	RoleLabDirector   = "lab_director"
)

// IsSuperuser reports whether the role bypasses all permission checks
func (r *Role) IsSuperuser() bool {
	return r.Name == RoleAdministrator || r.Name == RoleLabDirector
}

// HasPermission reports whether the role was explicitly granted the code
func (r *Role) HasPermission(code string) bool {
	for _, p := range r.Permissions {
		if p.Code == code {
			return true
		}
	}
	return false
}

// Permission is a named grant assignable to roles
type Permission struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Module      string `gorm:"type:varchar(50)" json:"module,omitempty"`
}

func (Permission) TableName() string {
	return "permissions"
}

// Permission codes
const (
	PermCasesView     = "cases_view"
	PermCasesCreate   = "cases_create"
	PermCasesEdit     = "cases_edit"
	PermCasesComplete = "cases_complete"
	PermLinesManage   = "lines_manage"
	PermDesignsManage = "designs_manage"
	PermAuditView     = "audit_view"
)
