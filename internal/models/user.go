package models

// Role is a user's privilege level.
type Role int

const (
	RoleApplicant Role = iota
	RoleHost
	RoleAdmin
)

// StatusRequested marks a user who asked for a role change.
const StatusRequested = "Requested"

// ParseRole maps a stored role string to a Role. Unknown values are applicants.
func ParseRole(s string) Role {
	switch s {
	case "admin":
		return RoleAdmin
	case "host", "moderator":
		return RoleHost
	default:
		return RoleApplicant
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleHost:
		return "host"
	default:
		return "applicant"
	}
}

// User is the subset of a user document the server reads itself.
// The stored document may carry any other fields the client sent.
type User struct {
	Email string `bson:"email" json:"email" validate:"required,email"`
	Role  string `bson:"role,omitempty" json:"role,omitempty"`
}
