package appointment

// ===============================
// Actor
// ===============================

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleVet    Role = "vet"
	RoleClient Role = "client"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleVet || r == RoleClient
}

// Actor is the identity + role context an operation runs under.
// It is always passed in explicitly; scheduler code never reads
// identity from ambient request state.
type Actor struct {
	UserID uint
	Role   Role
}

// Staff covers both admins and veterinarians.
func (a Actor) Staff() bool {
	return a.Role == RoleAdmin || a.Role == RoleVet
}
