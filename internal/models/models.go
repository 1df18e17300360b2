package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Michela-Labianco/timetable-simulation/internal/roles"
)

// User is the credential record. Immutable after registration except for
// password rehash; role is authoritative here, never in the session.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         roles.Role         `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
}

// Profile is a roster row in either the teachers or the students
// collection. Course holds ordered references into the courses
// collection; references must point at existing courses and a single
// enrollment call never appends a duplicate id.
type Profile struct {
	ID      primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Email   string               `bson:"email" json:"email"`
	Name    string               `bson:"name" json:"name"`
	Role    roles.Role           `bson:"role" json:"role"`
	Courses []primitive.ObjectID `bson:"course" json:"-"`
}

// HasCourse reports whether the profile already references the course.
func (p Profile) HasCourse(id primitive.ObjectID) bool {
	for _, ref := range p.Courses {
		if ref == id {
			return true
		}
	}
	return false
}

// Course has no unique constraint on name; duplicate rows with the same
// name may coexist (see the catalog service for where that matters).
type Course struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// Session is the ephemeral record behind an opaque cookie. It carries the
// user id only for lookup; the role stored here is informational and is
// re-checked against the users collection on every request.
type Session struct {
	ID       string     `json:"id"`
	UserID   string     `json:"userId"`
	Role     roles.Role `json:"role"`
	IssuedAt time.Time  `json:"issuedAt"`
}
