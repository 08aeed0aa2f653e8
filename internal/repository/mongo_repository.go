package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stemsi/codetest-backend/internal/model"
	"github.com/stemsi/codetest-backend/internal/report"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxCASAttempts bounds the optimistic retry loop of a report update.
const maxCASAttempts = 8

// MongoTestRepository stores tests and questions as documents. Report updates
// use a version counter on the test document for compare-and-swap.
type MongoTestRepository struct {
	tests     *mongo.Collection
	questions *mongo.Collection
}

// NewMongoTestRepository creates a new MongoTestRepository.
func NewMongoTestRepository(db *mongo.Database) *MongoTestRepository {
	return &MongoTestRepository{
		tests:     db.Collection("tests"),
		questions: db.Collection("questions"),
	}
}

var withoutReport = bson.M{"report": 0, "report_version": 0}

// GetByID retrieves a test with its report.
func (r *MongoTestRepository) GetByID(ctx context.Context, id string) (*model.Test, error) {
	t := &model.Test{}
	if err := r.tests.FindOne(ctx, bson.M{"_id": id}).Decode(t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// GetQuestion retrieves a question with its ordered test cases.
func (r *MongoTestRepository) GetQuestion(ctx context.Context, id string) (*model.Question, error) {
	q := &model.Question{}
	if err := r.questions.FindOne(ctx, bson.M{"_id": id}).Decode(q); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return q, nil
}

// ListRunning returns started tests that have not ended, without reports.
func (r *MongoTestRepository) ListRunning(ctx context.Context) ([]model.Test, error) {
	opts := options.Find().
		SetProjection(withoutReport).
		SetSort(bson.D{{Key: "conducted_at", Value: -1}})
	cur, err := r.tests.Find(ctx, bson.M{"started": true, "ended": false}, opts)
	if err != nil {
		return nil, err
	}
	var tests []model.Test
	if err := cur.All(ctx, &tests); err != nil {
		return nil, err
	}
	return tests, nil
}

// ListByIDs returns the given tests with their reports, newest first.
func (r *MongoTestRepository) ListByIDs(ctx context.Context, ids []string) ([]model.Test, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.tests.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	var tests []model.Test
	if err := cur.All(ctx, &tests); err != nil {
		return nil, err
	}
	return tests, nil
}

// UpdateReport reads the report with its version, applies fn, and writes the
// result only if nobody else wrote in between. Lost races are retried.
func (r *MongoTestRepository) UpdateReport(ctx context.Context, testID string, fn report.UpdateFunc) error {
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		var doc struct {
			Report  []model.ReportEntry `bson:"report"`
			Version int64               `bson:"report_version"`
		}
		err := r.tests.FindOne(ctx, bson.M{"_id": testID},
			options.FindOne().SetProjection(bson.M{"report": 1, "report_version": 1}),
		).Decode(&doc)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrNotFound
			}
			return fmt.Errorf("read report: %w", err)
		}

		next, err := fn(doc.Report)
		if err != nil {
			return err
		}
		if next == nil {
			next = []model.ReportEntry{}
		}

		filter := bson.M{"_id": testID, "report_version": doc.Version}
		if doc.Version == 0 {
			// documents created before versioning have no counter yet
			filter["report_version"] = bson.M{"$in": bson.A{0, nil}}
		}
		res, err := r.tests.UpdateOne(ctx, filter, bson.M{
			"$set": bson.M{"report": next},
			"$inc": bson.M{"report_version": 1},
		})
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		if res.MatchedCount == 1 {
			return nil
		}
	}
	return ErrConcurrentUpdate
}

// Start marks the test as running.
func (r *MongoTestRepository) Start(ctx context.Context, id string, at time.Time) error {
	return r.updateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"started": true, "ended": false, "conducted_at": at}})
}

// End closes the test for new attempts.
func (r *MongoTestRepository) End(ctx context.Context, id string) error {
	return r.updateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"ended": true}})
}

// Reconduct reopens an ended test. Existing report entries are kept.
func (r *MongoTestRepository) Reconduct(ctx context.Context, id string) error {
	return r.updateOne(ctx, bson.M{"_id": id, "started": true}, bson.M{"$set": bson.M{"ended": false}})
}

func (r *MongoTestRepository) updateOne(ctx context.Context, filter, update bson.M) error {
	res, err := r.tests.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Create upserts the questions and inserts the test.
func (r *MongoTestRepository) Create(ctx context.Context, t *model.Test, questions []model.Question) error {
	for _, q := range questions {
		q.Name = strings.TrimSpace(q.Name)
		_, err := r.questions.ReplaceOne(ctx, bson.M{"_id": q.ID}, q, options.Replace().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("upsert question %s: %w", q.ID, err)
		}
	}

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	doc := bson.M{
		"_id":              t.ID,
		"name":             t.Name,
		"duration_minutes": t.DurationMinutes,
		"question_ids":     t.QuestionIDs,
		"started":          false,
		"ended":            false,
		"created_at":       t.CreatedAt,
		"report":           bson.A{},
		"report_version":   int64(0),
	}
	if _, err := r.tests.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert test: %w", err)
	}
	return nil
}

// MongoCandidateRepository keeps enrollment lists in the candidates collection.
type MongoCandidateRepository struct {
	candidates *mongo.Collection
}

// NewMongoCandidateRepository creates a new MongoCandidateRepository.
func NewMongoCandidateRepository(db *mongo.Database) *MongoCandidateRepository {
	return &MongoCandidateRepository{candidates: db.Collection("candidates")}
}

// GetByEmail retrieves a candidate's enrollment list.
func (r *MongoCandidateRepository) GetByEmail(ctx context.Context, email string) (*model.Candidate, error) {
	c := &model.Candidate{}
	err := r.candidates.FindOne(ctx, bson.M{"_id": strings.ToLower(email)}).Decode(c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// Enroll adds the test to the candidate's list once.
func (r *MongoCandidateRepository) Enroll(ctx context.Context, email, testID string) error {
	_, err := r.candidates.UpdateOne(ctx,
		bson.M{"_id": strings.ToLower(email)},
		bson.M{"$addToSet": bson.M{"tests": testID}},
		options.Update().SetUpsert(true))
	return err
}

// Unenroll removes the test from the candidate's list.
func (r *MongoCandidateRepository) Unenroll(ctx context.Context, email, testID string) error {
	_, err := r.candidates.UpdateOne(ctx,
		bson.M{"_id": strings.ToLower(email)},
		bson.M{"$pull": bson.M{"tests": testID}})
	return err
}
