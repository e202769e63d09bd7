package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ai-pipeline/models"
)

type JobRecordRepository struct {
	col *mongo.Collection
}

func NewJobRecordRepository(db *mongo.Database) *JobRecordRepository {
	return &JobRecordRepository{col: db.Collection("job_records")}
}

func (r *JobRecordRepository) Insert(ctx context.Context, record models.JobRecord) (*mongo.InsertOneResult, error) {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	return r.col.InsertOne(ctx, record)
}

// ListByJobID returns a job's stage records in chronological order.
func (r *JobRecordRepository) ListByJobID(ctx context.Context, jobID string) ([]models.JobRecord, error) {
	cur, err := r.col.Find(ctx, bson.M{"job_id": jobID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []models.JobRecord
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
