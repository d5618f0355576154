package domain

// Role роль аутентифицированного пользователя
type Role string

const (
	RoleClient   Role = "client"
	RoleDesigner Role = "designer"
	RoleManager  Role = "manager"
)

// IsValid returns true for known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleDesigner, RoleManager:
		return true
	}
	return false
}

// Principal identity of the caller, passed explicitly into every operation
type Principal struct {
	ID   int64
	Role Role
}
