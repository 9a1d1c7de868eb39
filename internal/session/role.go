package session

// Role is the privilege level of a panel user. Roles are totally
// ordered: admin ⊇ operator ⊇ viewer.
type Role int

const (
	RoleViewer Role = iota
	RoleOperator
	RoleAdmin
)

// ParseRole maps the panel's role string to a Role. Unknown values
// degrade to viewer, the least privileged role.
func ParseRole(s string) Role {
	switch s {
	case "admin":
		return RoleAdmin
	case "operator":
		return RoleOperator
	default:
		return RoleViewer
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleOperator:
		return "operator"
	default:
		return "viewer"
	}
}

// AtLeast reports whether r carries at least the privilege of min
func (r Role) AtLeast(min Role) bool {
	return r >= min
}
