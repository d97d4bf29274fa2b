package auth

// User is the domain entity.
type User struct {
	ID       string
	FullName string
	Username string
	Password string
	Role     string
}

// Roles, in descending order of privilege.
const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleUser       = "user"
)

func validRole(role string) bool {
	switch role {
	case RoleSuperadmin, RoleAdmin, RoleUser:
		return true
	}
	return false
}
