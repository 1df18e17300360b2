package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Michela-Labianco/timetable-simulation/internal/database"
	"github.com/Michela-Labianco/timetable-simulation/internal/roles"
)

// Auditor runs the nightly consistency audit over the two known gaps:
// credential rows without a roster row (a registration whose second
// write failed) and course names shared by multiple rows. Findings are
// logged, never mutated.
type Auditor struct {
	cron *cron.Cron
	db   *mongo.Database
	log  zerolog.Logger
}

func NewAuditor(db *mongo.Database, log zerolog.Logger) *Auditor {
	return &Auditor{
		cron: cron.New(cron.WithSeconds()),
		db:   db,
		log:  log,
	}
}

func (a *Auditor) Start() error {
	if a.db == nil {
		return nil
	}

	if _, err := a.cron.AddFunc("0 0 3 * * *", a.runAudit); err != nil {
		return err
	}

	a.cron.Start()
	return nil
}

// Stop waits for an in-flight audit to finish, up to a short grace
// period.
func (a *Auditor) Stop() {
	stopCtx := a.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (a *Auditor) runAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	a.auditOrphanUsers(ctx, roles.RoleTeacher, database.CollectionTeachers)
	a.auditOrphanUsers(ctx, roles.RoleStudent, database.CollectionStudents)
	a.auditDuplicateCourses(ctx)
}

func (a *Auditor) auditOrphanUsers(ctx context.Context, role roles.Role, profileColl string) {
	emails, err := a.db.Collection(profileColl).Distinct(ctx, "email", bson.M{})
	if err != nil {
		a.log.Error().Err(err).Str("collection", profileColl).Msg("audit: list profile emails failed")
		return
	}

	known := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		if s, ok := email.(string); ok {
			known[s] = struct{}{}
		}
	}

	cursor, err := a.db.Collection(database.CollectionUsers).Find(ctx, bson.M{"role": role})
	if err != nil {
		a.log.Error().Err(err).Msg("audit: list users failed")
		return
	}
	defer cursor.Close(ctx)

	orphans := 0
	for cursor.Next(ctx) {
		var user struct {
			Email string `bson:"email"`
		}
		if err := cursor.Decode(&user); err != nil {
			continue
		}
		if _, ok := known[user.Email]; !ok {
			orphans++
			a.log.Warn().Str("email", user.Email).Str("role", string(role)).
				Msg("audit: user has no roster profile")
		}
	}

	if orphans == 0 {
		a.log.Debug().Str("role", string(role)).Msg("audit: no orphan users")
	}
}

func (a *Auditor) auditDuplicateCourses(ctx context.Context) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$name", "count": bson.M{"$sum": 1}}}},
		{{Key: "$match", Value: bson.M{"count": bson.M{"$gt": 1}}}},
	}

	cursor, err := a.db.Collection(database.CollectionCourses).Aggregate(ctx, pipeline)
	if err != nil {
		a.log.Error().Err(err).Msg("audit: duplicate course aggregation failed")
		return
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var group struct {
			Name  string `bson:"_id"`
			Count int    `bson:"count"`
		}
		if err := cursor.Decode(&group); err != nil {
			continue
		}
		a.log.Warn().Str("course", group.Name).Int("rows", group.Count).
			Msg("audit: duplicate course rows share a name")
	}
}
