package service_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Michela-Labianco/timetable-simulation/internal/models"
	"github.com/Michela-Labianco/timetable-simulation/internal/repository"
	"github.com/Michela-Labianco/timetable-simulation/internal/roles"
	"github.com/Michela-Labianco/timetable-simulation/internal/service"
	"github.com/Michela-Labianco/timetable-simulation/internal/storetest"
)

type rosterFixture struct {
	teachers *storetest.ProfileStore
	students *storetest.ProfileStore
	courses  *storetest.CourseStore
	roster   *service.RosterService
}

func newRosterFixture() rosterFixture {
	teachers := storetest.NewProfileStore()
	students := storetest.NewProfileStore()
	courses := storetest.NewCourseStore()

	catalog := service.NewCatalogService(courses, zerolog.Nop())
	roster := service.NewRosterService(teachers, students, catalog, zerolog.Nop())

	return rosterFixture{
		teachers: teachers,
		students: students,
		courses:  courses,
		roster:   roster,
	}
}

func (f rosterFixture) addStudent(t *testing.T, email string) models.Profile {
	t.Helper()
	profile, err := f.students.Create(context.Background(), models.Profile{
		Email: email,
		Name:  roles.DisplayName(email),
		Role:  roles.RoleStudent,
	})
	require.NoError(t, err)
	return profile
}

func (f rosterFixture) addTeacher(t *testing.T, email string) models.Profile {
	t.Helper()
	profile, err := f.teachers.Create(context.Background(), models.Profile{
		Email: email,
		Name:  roles.DisplayName(email),
		Role:  roles.RoleTeacher,
	})
	require.NoError(t, err)
	return profile
}

func studentUser(email string) models.User {
	return models.User{ID: primitive.NewObjectID(), Email: email, Role: roles.RoleStudent}
}

func TestEnrollCreatesCourseAndAppendsOnce(t *testing.T) {
	f := newRosterFixture()
	ctx := context.Background()

	f.addStudent(t, "jane@learning.net")
	user := studentUser("jane@learning.net")

	require.NoError(t, f.roster.Enroll(ctx, user, "Chemistry"))

	assert.Equal(t, 1, f.courses.CountByName("Chemistry"))
	profile, err := f.students.FindByEmail(ctx, "jane@learning.net")
	require.NoError(t, err)
	assert.Len(t, profile.Courses, 1)

	// Repeating the enrollment is a no-op for both collections.
	require.NoError(t, f.roster.Enroll(ctx, user, "Chemistry"))

	assert.Equal(t, 1, f.courses.CountByName("Chemistry"))
	profile, err = f.students.FindByEmail(ctx, "jane@learning.net")
	require.NoError(t, err)
	assert.Len(t, profile.Courses, 1)
}

func TestEnrollAttachesExistingCourse(t *testing.T) {
	f := newRosterFixture()
	ctx := context.Background()

	existing, err := f.courses.Insert(ctx, "Math")
	require.NoError(t, err)

	f.addStudent(t, "jane@learning.net")
	require.NoError(t, f.roster.Enroll(ctx, studentUser("jane@learning.net"), "Math"))

	assert.Equal(t, 1, f.courses.CountByName("Math"))
	profile, err := f.students.FindByEmail(ctx, "jane@learning.net")
	require.NoError(t, err)
	require.Len(t, profile.Courses, 1)
	assert.Equal(t, existing.ID, profile.Courses[0])
}

func TestEnrollWithoutProfile(t *testing.T) {
	f := newRosterFixture()

	err := f.roster.Enroll(context.Background(), studentUser("ghost@learning.net"), "Math")
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)
}

func TestEnrollRequiresCourseName(t *testing.T) {
	f := newRosterFixture()
	f.addStudent(t, "jane@learning.net")

	err := f.roster.Enroll(context.Background(), studentUser("jane@learning.net"), "  ")
	assert.ErrorIs(t, err, service.ErrCourseNameRequired)
}

func TestEditRowAttachOnlyReconciliation(t *testing.T) {
	f := newRosterFixture()
	ctx := context.Background()

	math, err := f.courses.Insert(ctx, "Math")
	require.NoError(t, err)
	biology, err := f.courses.Insert(ctx, "Biology")
	require.NoError(t, err)

	teacher := f.addTeacher(t, "bob@teacher.org")

	row, err := f.roster.EditRow(ctx, teacher.ID, "Robert", []string{"Math", "Biology", "Nonexistent"})
	require.NoError(t, err)

	assert.Equal(t, service.RowTeacher, row.Kind)
	assert.Equal(t, "Robert", row.Profile.Name)
	require.Len(t, row.Courses, 2)
	assert.Equal(t, math.ID, row.Courses[0].ID)
	assert.Equal(t, biology.ID, row.Courses[1].ID)
	// "Nonexistent" was dropped, not created.
	assert.Equal(t, 2, f.courses.Count())
}

func TestEditRowResolvesStudent(t *testing.T) {
	f := newRosterFixture()
	ctx := context.Background()

	student := f.addStudent(t, "jane@learning.net")

	row, err := f.roster.EditRow(ctx, student.ID, "Jane Doe", nil)
	require.NoError(t, err)
	assert.Equal(t, service.RowStudent, row.Kind)
	assert.Equal(t, "Jane Doe", row.Profile.Name)
	assert.Empty(t, row.Courses)
}

func TestEditRowUnknownID(t *testing.T) {
	f := newRosterFixture()

	_, err := f.roster.EditRow(context.Background(), primitive.NewObjectID(), "Name", nil)
	assert.ErrorIs(t, err, service.ErrRowNotFound)
}

func TestDeleteRowIdempotent(t *testing.T) {
	f := newRosterFixture()
	ctx := context.Background()

	teacher := f.addTeacher(t, "bob@teacher.org")
	f.addStudent(t, "jane@learning.net")

	require.NoError(t, f.roster.DeleteRow(ctx, teacher.ID))
	assert.Equal(t, 0, f.teachers.Count())
	assert.Equal(t, 1, f.students.Count())

	// An id matching neither collection is a successful no-op.
	require.NoError(t, f.roster.DeleteRow(ctx, primitive.NewObjectID()))
	assert.Equal(t, 0, f.teachers.Count())
	assert.Equal(t, 1, f.students.Count())
}

func TestLoadProfileAdminIsSynthesized(t *testing.T) {
	f := newRosterFixture()

	user := models.User{ID: primitive.NewObjectID(), Email: "root@admin.co", Role: roles.RoleAdmin}
	view, err := f.roster.LoadProfile(context.Background(), user)
	require.NoError(t, err)

	assert.Equal(t, "root", view.Profile.Name)
	assert.Equal(t, roles.RoleAdmin, view.Profile.Role)
	assert.Equal(t, user.ID, view.Profile.ID)
}

func TestLoadProfileMissingRow(t *testing.T) {
	f := newRosterFixture()

	user := models.User{ID: primitive.NewObjectID(), Email: "ghost@teacher.org", Role: roles.RoleTeacher}
	_, err := f.roster.LoadProfile(context.Background(), user)
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)
}

func TestLoadProfileExpandsCoursesInOrder(t *testing.T) {
	f := newRosterFixture()
	ctx := context.Background()

	second, err := f.courses.Insert(ctx, "Biology")
	require.NoError(t, err)
	first, err := f.courses.Insert(ctx, "Math")
	require.NoError(t, err)

	_, err = f.students.Create(ctx, models.Profile{
		Email:   "jane@learning.net",
		Name:    "jane",
		Role:    roles.RoleStudent,
		Courses: []primitive.ObjectID{first.ID, second.ID},
	})
	require.NoError(t, err)

	view, err := f.roster.LoadProfile(ctx, studentUser("jane@learning.net"))
	require.NoError(t, err)
	require.Len(t, view.Courses, 2)
	assert.Equal(t, "Math", view.Courses[0].Name)
	assert.Equal(t, "Biology", view.Courses[1].Name)
}

func TestLoadRoster(t *testing.T) {
	f := newRosterFixture()
	ctx := context.Background()

	course, err := f.courses.Insert(ctx, "Math")
	require.NoError(t, err)

	teacher := f.addTeacher(t, "bob@teacher.org")
	_, err = f.teachers.UpdateRow(ctx, teacher.ID, teacher.Name, []primitive.ObjectID{course.ID})
	require.NoError(t, err)
	f.addStudent(t, "jane@learning.net")

	roster, err := f.roster.LoadRoster(ctx)
	require.NoError(t, err)

	require.Len(t, roster.Teachers, 1)
	require.Len(t, roster.Teachers[0].Courses, 1)
	assert.Equal(t, "Math", roster.Teachers[0].Courses[0].Name)
	require.Len(t, roster.Students, 1)
	assert.Empty(t, roster.Students[0].Courses)
	require.Len(t, roster.Courses, 1)
}
