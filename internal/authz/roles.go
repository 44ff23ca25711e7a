package authz

const (
	RoleAccountant = 10
	RoleAuditor    = 30
	RoleAdmin      = 50
	RoleSuperAdmin = 60
)

func IsBackOffice(roleID int) bool {
	return roleID == RoleAdmin || roleID == RoleSuperAdmin
}

func IsReadOnly(roleID int) bool {
	return roleID == RoleAuditor
}
