package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEmail(t *testing.T) {
	tests := []struct {
		email string
		want  Role
		ok    bool
	}{
		{"a@admin.co", RoleAdmin, true},
		{"b@teacher.org", RoleTeacher, true},
		{"c@learning.net", RoleStudent, true},
		{"d@example.com", "", false},
		{"admin@admin.school.edu", RoleAdmin, true},
		{"someone@teacher.io", RoleTeacher, true},
		// The fragment must follow the @; a matching local part is not enough.
		{"admin.user@example.com", "", false},
		{"teacher@gmail.com", "", false},
		{"", "", false},
		{"no-at-sign", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got, ok := FromEmail(tt.email)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromEmailPriorityOrder(t *testing.T) {
	// A contrived address matching more than one fragment resolves by
	// priority: admin before teacher before student.
	got, ok := FromEmail("x@admin.teacher.learning.com")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, got)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "jane", DisplayName("jane@learning.net"))
	assert.Equal(t, "no-at-sign", DisplayName("no-at-sign"))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleTeacher.Valid())
	assert.True(t, RoleStudent.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}
