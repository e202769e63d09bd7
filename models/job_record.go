package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// JobRecord is one pipeline stage outcome for a job. Records expire via a
// TTL index on created_at, so the collection only holds the retention window.
// Collection: job_records
type JobRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	JobID     string             `bson:"job_id" json:"job_id"`
	Stage     string             `bson:"stage" json:"stage"`
	Status    string             `bson:"status" json:"status"`
	LastError string             `bson:"last_error,omitempty" json:"last_error,omitempty"`
	Payload   string             `bson:"payload,omitempty" json:"payload,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
