package review

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Artexxx/perf-tracker/internal/dto"
)

const (
	reviewsCollection  = "performance_reviews"
	countersCollection = "counters"

	// _id of the shared counter document: {_id: "review_id", seq: int}.
	counterName = "review_id"
)

type Repository struct {
	reviews  *mongo.Collection
	counters *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		reviews:  db.Collection(reviewsCollection),
		counters: db.Collection(countersCollection),
	}
}

// nextReviewID reserves the next identifier with a single atomic
// find-and-increment on the counter document. Never read-then-write: the
// collection is shared with other writers.
func (r *Repository) nextReviewID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}

	err := r.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": counterName},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("counters.FindOneAndUpdate: %w", err)
	}

	return counter.Seq, nil
}

// Submit persists a validated review and returns its assigned review_id.
func (r *Repository) Submit(ctx context.Context, review dto.PerformanceReview) (int64, error) {
	id, err := r.nextReviewID(ctx)
	if err != nil {
		return 0, err
	}

	review.ObjectID = primitive.NilObjectID
	review.ReviewID = id

	if _, err := r.reviews.InsertOne(ctx, review); err != nil {
		return 0, fmt.Errorf("reviews.InsertOne: %w", err)
	}

	return id, nil
}

// EnsureReviewIDs backfills review_id on documents that predate the counter.
// Idempotent: already-numbered documents are untouched, and the counter is
// first advanced past the maximum identifier on record so re-runs and
// concurrent submissions never collide. Returns the number of documents
// migrated.
func (r *Repository) EnsureReviewIDs(ctx context.Context) (int, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": nil, "maxId": bson.M{"$max": "$review_id"}}},
	}

	cursor, err := r.reviews.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("reviews.Aggregate: %w", err)
	}

	var agg []struct {
		MaxID *int64 `bson:"maxId"`
	}
	if err := cursor.All(ctx, &agg); err != nil {
		return 0, fmt.Errorf("cursor.All: %w", err)
	}

	if len(agg) > 0 && agg[0].MaxID != nil {
		_, err = r.counters.UpdateOne(
			ctx,
			bson.M{"_id": counterName},
			bson.M{"$max": bson.M{"seq": *agg[0].MaxID}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return 0, fmt.Errorf("counters.UpdateOne: %w", err)
		}
	}

	missing, err := r.reviews.Find(ctx, bson.M{"review_id": bson.M{"$exists": false}})
	if err != nil {
		return 0, fmt.Errorf("reviews.Find: %w", err)
	}
	defer missing.Close(ctx)

	migrated := 0
	for missing.Next(ctx) {
		var doc struct {
			ObjectID any `bson:"_id"`
		}
		if err := missing.Decode(&doc); err != nil {
			return migrated, fmt.Errorf("missing.Decode: %w", err)
		}

		id, err := r.nextReviewID(ctx)
		if err != nil {
			return migrated, err
		}

		_, err = r.reviews.UpdateOne(
			ctx,
			bson.M{"_id": doc.ObjectID},
			bson.M{"$set": bson.M{"review_id": id}},
		)
		if err != nil {
			return migrated, fmt.Errorf("reviews.UpdateOne: %w", err)
		}

		migrated++
	}
	if err := missing.Err(); err != nil {
		return migrated, fmt.Errorf("missing.Err: %w", err)
	}

	return migrated, nil
}

func (r *Repository) ForEmployee(ctx context.Context, employeeID int64) ([]dto.PerformanceReview, error) {
	opts := options.Find().SetSort(bson.D{{Key: "review_date", Value: -1}})

	return r.queryReviews(ctx, bson.M{"employee_id": employeeID}, opts)
}

func (r *Repository) Recent(ctx context.Context, limit int64) ([]dto.PerformanceReview, error) {
	opts := options.Find().SetSort(bson.D{{Key: "review_date", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	return r.queryReviews(ctx, bson.M{}, opts)
}

// ByReviewer matches the reviewer name case-insensitively as a substring.
func (r *Repository) ByReviewer(ctx context.Context, reviewerName string) ([]dto.PerformanceReview, error) {
	filter := bson.M{"reviewer_name": bson.M{"$regex": reviewerName, "$options": "i"}}
	opts := options.Find().SetSort(bson.D{{Key: "review_date", Value: -1}})

	return r.queryReviews(ctx, filter, opts)
}

// ByDateRange returns reviews with start <= review_date <= end. An inverted
// range short-circuits to an empty result without a store round-trip.
func (r *Repository) ByDateRange(ctx context.Context, startDate, endDate string) ([]dto.PerformanceReview, error) {
	if startDate > endDate {
		return nil, nil
	}

	filter := bson.M{"review_date": bson.M{"$gte": startDate, "$lte": endDate}}
	opts := options.Find().SetSort(bson.D{{Key: "review_date", Value: -1}})

	return r.queryReviews(ctx, filter, opts)
}

// AverageRating aggregates the rating stats for one employee, rounded to two
// decimals. Returns nil when the employee has no reviews.
func (r *Repository) AverageRating(ctx context.Context, employeeID int64) (*dto.RatingSummary, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"employee_id": employeeID}},
		{"$group": bson.M{
			"_id":            nil,
			"average_rating": bson.M{"$avg": "$overall_rating"},
			"review_count":   bson.M{"$sum": 1},
		}},
	}

	cursor, err := r.reviews.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("reviews.Aggregate: %w", err)
	}

	var agg []struct {
		AverageRating float64 `bson:"average_rating"`
		ReviewCount   int     `bson:"review_count"`
	}
	if err := cursor.All(ctx, &agg); err != nil {
		return nil, fmt.Errorf("cursor.All: %w", err)
	}

	if len(agg) == 0 || agg[0].ReviewCount == 0 {
		return nil, nil
	}

	return &dto.RatingSummary{
		AverageRating: math.Round(agg[0].AverageRating*100) / 100,
		ReviewCount:   agg[0].ReviewCount,
	}, nil
}

func (r *Repository) Update(ctx context.Context, reviewID int64, fields map[string]any) error {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}

	res, err := r.reviews.UpdateOne(ctx, bson.M{"review_id": reviewID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("reviews.UpdateOne: %w", err)
	}
	if res.MatchedCount == 0 {
		return dto.ErrNotFound
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, reviewID int64) error {
	res, err := r.reviews.DeleteOne(ctx, bson.M{"review_id": reviewID})
	if err != nil {
		return fmt.Errorf("reviews.DeleteOne: %w", err)
	}
	if res.DeletedCount == 0 {
		return dto.ErrNotFound
	}

	return nil
}

func (r *Repository) queryReviews(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]dto.PerformanceReview, error) {
	cursor, err := r.reviews.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("reviews.Find: %w", err)
	}
	defer cursor.Close(ctx)

	var out []dto.PerformanceReview
	if err := cursor.All(ctx, &out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}

		return nil, fmt.Errorf("cursor.All: %w", err)
	}

	return out, nil
}
