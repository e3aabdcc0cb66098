package domain

// RoleID mirrors the fixed rows of the roles table.
type RoleID uint

const (
	RoleAdministrator RoleID = 1
	RoleInstructor    RoleID = 2
	RoleUser          RoleID = 3
)

type Role struct {
	ID   RoleID `json:"id"`
	Name string `json:"name"`
}

// Roles returns the seeded role set in id order.
func Roles() []Role {
	return []Role{
		{ID: RoleAdministrator, Name: "Administrator"},
		{ID: RoleInstructor, Name: "Instructor"},
		{ID: RoleUser, Name: "User"},
	}
}

func (r RoleID) Valid() bool {
	return r >= RoleAdministrator && r <= RoleUser
}

func (r RoleID) String() string {
	switch r {
	case RoleAdministrator:
		return "Administrator"
	case RoleInstructor:
		return "Instructor"
	case RoleUser:
		return "User"
	default:
		return "Unknown"
	}
}

// Caller is the resolved identity of the request issuer.
type Caller struct {
	ID   uint
	Role RoleID
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdministrator
}
