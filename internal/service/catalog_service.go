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
)

var ErrCourseNameRequired = errors.New("course name required")

type CatalogService struct {
	courses CourseStore
	log     zerolog.Logger
}

func NewCatalogService(courses CourseStore, log zerolog.Logger) *CatalogService {
	return &CatalogService{courses: courses, log: log}
}

// CreateCourse inserts unconditionally: no existence check, so repeated
// submissions of the same name yield duplicate rows. Tolerated by design.
func (s *CatalogService) CreateCourse(ctx context.Context, name string) (models.Course, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Course{}, ErrCourseNameRequired
	}
	return s.courses.Insert(ctx, name)
}

func (s *CatalogService) ListCourses(ctx context.Context) ([]models.Course, error) {
	return s.courses.List(ctx)
}

// Reconcile resolves course names to stable course ids, in input order,
// never returning the same id twice in one call.
//
// createIfMissing selects between the two policies the call sites need:
// admin row edits attach only courses that already exist (unknown names
// are silently dropped), while student self-enrollment creates missing
// courses on the fly. Find-then-insert is not transactional, so two
// concurrent enrollments for a brand-new name can each insert a row.
func (s *CatalogService) Reconcile(ctx context.Context, names []string, createIfMissing bool) ([]primitive.ObjectID, error) {
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			cleaned = append(cleaned, name)
		}
	}
	if len(cleaned) == 0 {
		return []primitive.ObjectID{}, nil
	}

	if createIfMissing {
		return s.reconcileCreating(ctx, cleaned)
	}
	return s.reconcileExisting(ctx, cleaned)
}

func (s *CatalogService) reconcileExisting(ctx context.Context, names []string) ([]primitive.ObjectID, error) {
	found, err := s.courses.FindByNames(ctx, names)
	if err != nil {
		return nil, err
	}

	// First row wins when duplicate rows share a name.
	byName := make(map[string]primitive.ObjectID, len(found))
	for _, course := range found {
		if _, ok := byName[course.Name]; !ok {
			byName[course.Name] = course.ID
		}
	}

	ids := make([]primitive.ObjectID, 0, len(names))
	seen := make(map[primitive.ObjectID]struct{}, len(names))
	for _, name := range names {
		id, ok := byName[name]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *CatalogService) reconcileCreating(ctx context.Context, names []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(names))
	seen := make(map[primitive.ObjectID]struct{}, len(names))

	for _, name := range names {
		course, err := s.courses.FindByName(ctx, name)
		if errors.Is(err, repository.ErrCourseNotFound) {
			course, err = s.courses.Insert(ctx, name)
		}
		if err != nil {
			return nil, fmt.Errorf("reconcile %q: %w", name, err)
		}

		if _, dup := seen[course.ID]; dup {
			continue
		}
		seen[course.ID] = struct{}{}
		ids = append(ids, course.ID)
	}
	return ids, nil
}
