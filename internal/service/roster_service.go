package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Michela-Labianco/timetable-simulation/internal/models"
	"github.com/Michela-Labianco/timetable-simulation/internal/repository"
	"github.com/Michela-Labianco/timetable-simulation/internal/roles"
)

var ErrRowNotFound = errors.New("row not found")

// RowKind tags which roster collection a row id resolved to, so edits
// address exactly one collection instead of falling through silently.
type RowKind string

const (
	RowTeacher RowKind = "teacher"
	RowStudent RowKind = "student"
)

// ProfileView is a roster row with its course references expanded to
// full course records, in reference order.
type ProfileView struct {
	Profile models.Profile
	Courses []models.Course
}

type RowView struct {
	Kind RowKind
	ProfileView
}

// Roster is everything the admin dashboard renders.
type Roster struct {
	Teachers []ProfileView
	Students []ProfileView
	Courses  []models.Course
}

type RosterService struct {
	teachers ProfileStore
	students ProfileStore
	catalog  *CatalogService
	log      zerolog.Logger
}

func NewRosterService(teachers, students ProfileStore, catalog *CatalogService, log zerolog.Logger) *RosterService {
	return &RosterService{
		teachers: teachers,
		students: students,
		catalog:  catalog,
		log:      log,
	}
}

// LoadProfile resolves the roster row for an authenticated user. Admins
// have no roster row; their credential record stands in as the profile.
// A valid teacher or student user with no matching row is a consistency
// violation and surfaces as ErrProfileNotFound, never a default.
func (s *RosterService) LoadProfile(ctx context.Context, user models.User) (ProfileView, error) {
	switch user.Role {
	case roles.RoleAdmin:
		return ProfileView{Profile: models.Profile{
			ID:    user.ID,
			Email: user.Email,
			Name:  roles.DisplayName(user.Email),
			Role:  roles.RoleAdmin,
		}}, nil
	case roles.RoleTeacher:
		return s.loadProfile(ctx, s.teachers, user.Email)
	case roles.RoleStudent:
		return s.loadProfile(ctx, s.students, user.Email)
	}
	return ProfileView{}, fmt.Errorf("unknown role %q", user.Role)
}

func (s *RosterService) loadProfile(ctx context.Context, store ProfileStore, email string) (ProfileView, error) {
	profile, err := store.FindByEmail(ctx, email)
	if err != nil {
		return ProfileView{}, err
	}
	return s.expand(ctx, profile)
}

func (s *RosterService) expand(ctx context.Context, profile models.Profile) (ProfileView, error) {
	courses, err := s.expandRefs(ctx, profile.Courses)
	if err != nil {
		return ProfileView{}, err
	}
	return ProfileView{Profile: profile, Courses: courses}, nil
}

// expandRefs resolves course references to full records, preserving the
// stored reference order. Dangling references are dropped.
func (s *RosterService) expandRefs(ctx context.Context, refs []primitive.ObjectID) ([]models.Course, error) {
	if len(refs) == 0 {
		return []models.Course{}, nil
	}

	found, err := s.catalog.courses.FindByIDs(ctx, refs)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.Course, len(found))
	for _, course := range found {
		byID[course.ID] = course
	}

	courses := make([]models.Course, 0, len(refs))
	for _, ref := range refs {
		if course, ok := byID[ref]; ok {
			courses = append(courses, course)
		}
	}
	return courses, nil
}

// LoadRoster gathers both roster collections with expanded courses plus
// the full catalog, for the admin dashboard.
func (s *RosterService) LoadRoster(ctx context.Context) (Roster, error) {
	teachers, err := s.listExpanded(ctx, s.teachers)
	if err != nil {
		return Roster{}, fmt.Errorf("load teachers: %w", err)
	}
	students, err := s.listExpanded(ctx, s.students)
	if err != nil {
		return Roster{}, fmt.Errorf("load students: %w", err)
	}
	courses, err := s.catalog.ListCourses(ctx)
	if err != nil {
		return Roster{}, fmt.Errorf("load courses: %w", err)
	}

	return Roster{Teachers: teachers, Students: students, Courses: courses}, nil
}

func (s *RosterService) listExpanded(ctx context.Context, store ProfileStore) ([]ProfileView, error) {
	profiles, err := store.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]ProfileView, 0, len(profiles))
	for _, profile := range profiles {
		view, err := s.expand(ctx, profile)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// resolveRow maps a row id to the collection holding it. Both lookups
// run so an id present in both collections is observable: it resolves as
// a teacher and logs a warning instead of silently shadowing the student.
func (s *RosterService) resolveRow(ctx context.Context, id primitive.ObjectID) (RowKind, ProfileStore, error) {
	_, teacherErr := s.teachers.GetByID(ctx, id)
	_, studentErr := s.students.GetByID(ctx, id)

	switch {
	case teacherErr == nil && studentErr == nil:
		s.log.Warn().Str("row_id", id.Hex()).
			Msg("row id present in both roster collections, resolving as teacher")
		return RowTeacher, s.teachers, nil
	case teacherErr == nil:
		return RowTeacher, s.teachers, nil
	case studentErr == nil:
		return RowStudent, s.students, nil
	}

	if !errors.Is(teacherErr, repository.ErrProfileNotFound) {
		return "", nil, teacherErr
	}
	if !errors.Is(studentErr, repository.ErrProfileNotFound) {
		return "", nil, studentErr
	}
	return "", nil, ErrRowNotFound
}

// EditRow applies an admin inline edit: new display name plus the full
// replacement course list. Names are reconciled attach-only — a name
// with no existing course row is dropped, never created here.
func (s *RosterService) EditRow(ctx context.Context, id primitive.ObjectID, name string, courseNames []string) (RowView, error) {
	kind, store, err := s.resolveRow(ctx, id)
	if err != nil {
		return RowView{}, err
	}

	refs, err := s.catalog.Reconcile(ctx, courseNames, false)
	if err != nil {
		return RowView{}, fmt.Errorf("reconcile courses: %w", err)
	}

	updated, err := store.UpdateRow(ctx, id, strings.TrimSpace(name), refs)
	if err != nil {
		return RowView{}, err
	}

	view, err := s.expand(ctx, updated)
	if err != nil {
		return RowView{}, err
	}
	return RowView{Kind: kind, ProfileView: view}, nil
}

// DeleteRow removes the id from whichever collection holds it. Both
// deletes run unconditionally; an id matching neither is a no-op, not an
// error.
func (s *RosterService) DeleteRow(ctx context.Context, id primitive.ObjectID) error {
	deletedTeacher, err := s.teachers.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	deletedStudent, err := s.students.DeleteByID(ctx, id)
	if err != nil {
		return err
	}

	if !deletedTeacher && !deletedStudent {
		s.log.Debug().Str("row_id", id.Hex()).Msg("delete-row matched no collection")
	}
	return nil
}

// Enroll attaches a course to the acting student's own profile,
// creating the course when no row with that name exists yet. The append
// is membership-checked, so repeating the same enrollment is a no-op.
func (s *RosterService) Enroll(ctx context.Context, user models.User, courseName string) error {
	courseName = strings.TrimSpace(courseName)
	if courseName == "" {
		return ErrCourseNameRequired
	}

	student, err := s.students.FindByEmail(ctx, user.Email)
	if err != nil {
		return err
	}

	refs, err := s.catalog.Reconcile(ctx, []string{courseName}, true)
	if err != nil {
		return fmt.Errorf("reconcile course: %w", err)
	}
	if len(refs) == 0 {
		return ErrCourseNameRequired
	}

	if student.HasCourse(refs[0]) {
		return nil
	}
	return s.students.AppendCourse(ctx, student.ID, refs[0])
}
