package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Michela-Labianco/timetable-simulation/internal/models"
)

// Store interfaces are satisfied by the mongo repositories and by the
// in-memory fakes used in tests.

type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

type ProfileStore interface {
	Create(ctx context.Context, profile models.Profile) (models.Profile, error)
	FindByEmail(ctx context.Context, email string) (models.Profile, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	UpdateRow(ctx context.Context, id primitive.ObjectID, name string, courses []primitive.ObjectID) (models.Profile, error)
	AppendCourse(ctx context.Context, id, courseID primitive.ObjectID) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type CourseStore interface {
	Insert(ctx context.Context, name string) (models.Course, error)
	FindByName(ctx context.Context, name string) (models.Course, error)
	FindByNames(ctx context.Context, names []string) ([]models.Course, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
}

type SessionStore interface {
	Create(ctx context.Context, user models.User) (models.Session, error)
	Get(ctx context.Context, id string) (models.Session, error)
	Destroy(ctx context.Context, id string) error
}
