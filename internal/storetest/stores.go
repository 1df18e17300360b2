// Package storetest provides in-memory store implementations for tests.
// They mirror the semantics of the mongo repositories, including their
// sentinel errors, so services can be exercised without a database.
package storetest

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/ksuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Michela-Labianco/timetable-simulation/internal/models"
	"github.com/Michela-Labianco/timetable-simulation/internal/repository"
	"github.com/Michela-Labianco/timetable-simulation/internal/session"
)

type UserStore struct {
	mu    sync.Mutex
	users []models.User
}

func NewUserStore() *UserStore { return &UserStore{} }

func (s *UserStore) Create(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.users = append(s.users, user)
	return user, nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s *UserStore) GetByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s *UserStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

type ProfileStore struct {
	mu       sync.Mutex
	profiles []models.Profile
}

func NewProfileStore() *ProfileStore { return &ProfileStore{} }

func (s *ProfileStore) Create(_ context.Context, profile models.Profile) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if profile.ID.IsZero() {
		profile.ID = primitive.NewObjectID()
	}
	if profile.Courses == nil {
		profile.Courses = []primitive.ObjectID{}
	}
	s.profiles = append(s.profiles, profile)
	return profile, nil
}

func (s *ProfileStore) FindByEmail(_ context.Context, email string) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, profile := range s.profiles {
		if profile.Email == email {
			return profile, nil
		}
	}
	return models.Profile{}, repository.ErrProfileNotFound
}

func (s *ProfileStore) GetByID(_ context.Context, id primitive.ObjectID) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, profile := range s.profiles {
		if profile.ID == id {
			return profile, nil
		}
	}
	return models.Profile{}, repository.ErrProfileNotFound
}

func (s *ProfileStore) List(_ context.Context) ([]models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Profile, len(s.profiles))
	copy(out, s.profiles)
	return out, nil
}

func (s *ProfileStore) UpdateRow(_ context.Context, id primitive.ObjectID, name string, courses []primitive.ObjectID) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if courses == nil {
		courses = []primitive.ObjectID{}
	}
	for i := range s.profiles {
		if s.profiles[i].ID == id {
			s.profiles[i].Name = name
			s.profiles[i].Courses = courses
			return s.profiles[i], nil
		}
	}
	return models.Profile{}, repository.ErrProfileNotFound
}

func (s *ProfileStore) AppendCourse(_ context.Context, id, courseID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.profiles {
		if s.profiles[i].ID != id {
			continue
		}
		for _, ref := range s.profiles[i].Courses {
			if ref == courseID {
				return nil
			}
		}
		s.profiles[i].Courses = append(s.profiles[i].Courses, courseID)
		return nil
	}
	return nil
}

func (s *ProfileStore) DeleteByID(_ context.Context, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.profiles {
		if s.profiles[i].ID == id {
			s.profiles = append(s.profiles[:i], s.profiles[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *ProfileStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.profiles)
}

type CourseStore struct {
	mu      sync.Mutex
	courses []models.Course
}

func NewCourseStore() *CourseStore { return &CourseStore{} }

func (s *CourseStore) Insert(_ context.Context, name string) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	course := models.Course{
		ID:        primitive.NewObjectID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	s.courses = append(s.courses, course)
	return course, nil
}

func (s *CourseStore) FindByName(_ context.Context, name string) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, course := range s.courses {
		if course.Name == name {
			return course, nil
		}
	}
	return models.Course{}, repository.ErrCourseNotFound
}

func (s *CourseStore) FindByNames(_ context.Context, names []string) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[name] = struct{}{}
	}

	var out []models.Course
	for _, course := range s.courses {
		if _, ok := wanted[course.Name]; ok {
			out = append(out, course)
		}
	}
	return out, nil
}

func (s *CourseStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	var out []models.Course
	for _, course := range s.courses {
		if _, ok := wanted[course.ID]; ok {
			out = append(out, course)
		}
	}
	return out, nil
}

func (s *CourseStore) List(_ context.Context) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Course, len(s.courses))
	copy(out, s.courses)
	return out, nil
}

func (s *CourseStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.courses)
}

// CountByName reports how many course rows share a name, for asserting
// the duplicate-tolerant insert paths.
func (s *CourseStore) CountByName(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, course := range s.courses {
		if course.Name == name {
			n++
		}
	}
	return n
}

type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]models.Session)}
}

func (s *SessionStore) Create(_ context.Context, user models.User) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := models.Session{
		ID:       ksuid.New().String(),
		UserID:   user.ID.Hex(),
		Role:     user.Role,
		IssuedAt: time.Now().UTC(),
	}
	s.sessions[sess.ID] = sess
	return sess, nil
}

func (s *SessionStore) Get(_ context.Context, id string) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return models.Session{}, session.ErrNotFound
	}
	return sess, nil
}

func (s *SessionStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
