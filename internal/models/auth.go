package models

// Role is the resolved identity of the signed-in user.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleDean    Role = "dean"
)

// Valid reports whether the role is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleDean:
		return true
	}
	return false
}

// DefaultView names the landing view the presentation layer should open for
// a freshly resolved role.
func (r Role) DefaultView() string {
	switch r {
	case RoleDean:
		return "management"
	case RoleTeacher:
		return "teaching"
	case RoleStudent:
		return "schedule"
	default:
		return "sign-in"
	}
}

// Credentials is the sign-in payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Profile is the role-specific profile subset shared by all three roles.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Principal is the authoritative resolved identity. At most one exists per
// session.
type Principal struct {
	Role    Role    `json:"role"`
	Profile Profile `json:"profile"`
}
