package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Michela-Labianco/timetable-simulation/internal/database"
	"github.com/Michela-Labianco/timetable-simulation/internal/models"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository serves one roster collection. Teachers and students
// share a document shape but live in separate collections, so the server
// wires two instances of this type.
type ProfileRepository struct {
	coll *mongo.Collection
}

func NewTeacherRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{coll: db.Collection(database.CollectionTeachers)}
}

func NewStudentRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{coll: db.Collection(database.CollectionStudents)}
}

func (r *ProfileRepository) Create(ctx context.Context, profile models.Profile) (models.Profile, error) {
	if profile.Courses == nil {
		profile.Courses = []primitive.ObjectID{}
	}

	res, err := r.coll.InsertOne(ctx, profile)
	if err != nil {
		return models.Profile{}, fmt.Errorf("insert profile: %w", err)
	}
	profile.ID = res.InsertedID.(primitive.ObjectID)
	return profile, nil
}

func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (models.Profile, error) {
	var profile models.Profile
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Profile{}, ErrProfileNotFound
		}
		return models.Profile{}, fmt.Errorf("find profile by email: %w", err)
	}
	return profile, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id primitive.ObjectID) (models.Profile, error) {
	var profile models.Profile
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Profile{}, ErrProfileNotFound
		}
		return models.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []models.Profile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	return profiles, nil
}

// UpdateRow replaces the display name and the whole course-reference list.
func (r *ProfileRepository) UpdateRow(ctx context.Context, id primitive.ObjectID, name string, courses []primitive.ObjectID) (models.Profile, error) {
	if courses == nil {
		courses = []primitive.ObjectID{}
	}

	var updated models.Profile
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"name": name, "course": courses}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Profile{}, ErrProfileNotFound
		}
		return models.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}

// AppendCourse pushes one course reference onto the list. Membership is
// checked by the caller before appending; the filter still excludes rows
// that already hold the reference so a concurrent duplicate push is a no-op.
func (r *ProfileRepository) AppendCourse(ctx context.Context, id, courseID primitive.ObjectID) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "course": bson.M{"$ne": courseID}},
		bson.M{"$push": bson.M{"course": courseID}},
	)
	if err != nil {
		return fmt.Errorf("append course: %w", err)
	}
	return nil
}

// DeleteByID removes the row when present. Deleting an absent id is not
// an error; the bool tells the caller whether anything matched.
func (r *ProfileRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete profile: %w", err)
	}
	return res.DeletedCount > 0, nil
}
