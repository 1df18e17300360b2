package roles

import "strings"

// Role determines which dashboard a user sees and which routes they may hit.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// FromEmail maps an email address to a role by its domain fragment.
// First match wins: "@admin." -> admin, "@teacher." -> teacher,
// "@learning." -> student. An email matching none of the three is
// invalid for this system regardless of syntactic validity.
func FromEmail(email string) (Role, bool) {
	switch {
	case strings.Contains(email, "@admin."):
		return RoleAdmin, true
	case strings.Contains(email, "@teacher."):
		return RoleTeacher, true
	case strings.Contains(email, "@learning."):
		return RoleStudent, true
	}
	return "", false
}

// DisplayName derives a profile name from the local part of the email.
func DisplayName(email string) string {
	if at := strings.Index(email, "@"); at >= 0 {
		return email[:at]
	}
	return email
}
