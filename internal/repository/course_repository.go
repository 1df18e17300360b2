package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Michela-Labianco/timetable-simulation/internal/database"
	"github.com/Michela-Labianco/timetable-simulation/internal/models"
)

var ErrCourseNotFound = errors.New("course not found")

type CourseRepository struct {
	coll *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{coll: db.Collection(database.CollectionCourses)}
}

// Insert writes a course unconditionally. There is no unique index on
// name, so repeated inserts with the same name produce distinct rows.
func (r *CourseRepository) Insert(ctx context.Context, name string) (models.Course, error) {
	course := models.Course{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	res, err := r.coll.InsertOne(ctx, course)
	if err != nil {
		return models.Course{}, fmt.Errorf("insert course: %w", err)
	}
	course.ID = res.InsertedID.(primitive.ObjectID)
	return course, nil
}

func (r *CourseRepository) FindByName(ctx context.Context, name string) (models.Course, error) {
	var course models.Course
	err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, fmt.Errorf("find course by name: %w", err)
	}
	return course, nil
}

// FindByNames fetches every course whose name is in the given set in one
// pass. Names with no matching row are simply absent from the result.
func (r *CourseRepository) FindByNames(ctx context.Context, names []string) ([]models.Course, error) {
	if len(names) == 0 {
		return nil, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"name": bson.M{"$in": names}})
	if err != nil {
		return nil, fmt.Errorf("find courses by names: %w", err)
	}
	defer cursor.Close(ctx)

	var courses []models.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	return courses, nil
}

func (r *CourseRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find courses by ids: %w", err)
	}
	defer cursor.Close(ctx)

	var courses []models.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	return courses, nil
}

func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer cursor.Close(ctx)

	var courses []models.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	return courses, nil
}
