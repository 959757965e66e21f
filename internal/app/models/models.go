package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleTeacher RoleType = "TEACHER"
	// RoleUser is assigned to accounts created through Google sign-in
	// that have not picked a classroom role yet.
	RoleUser RoleType = "USER"
)

// Valid reports whether the role is one of the known role types.
func (r RoleType) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleUser:
		return true
	}
	return false
}

// Priority bounds for personal tasks.
const (
	PriorityMin = 0
	PriorityMax = 3
	// PriorityDefault is assigned to task copies created by the sync routine.
	PriorityDefault = 3
)
