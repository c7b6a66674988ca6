package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// QuarantineRepository is the append-only sink for rejected submissions.
// Nothing in the serving path ever reads it back; it exists for audit.
type QuarantineRepository interface {
	Insert(ctx context.Context, payload any) error
}

type mongoQuarantineRepository struct {
	col *mongo.Collection
}

// NewQuarantineRepository creates the quarantine sink over its collection.
func NewQuarantineRepository(db *mongo.Database) QuarantineRepository {
	return &mongoQuarantineRepository{col: db.Collection("quarantine")}
}

// Insert appends the payload verbatim.
func (r *mongoQuarantineRepository) Insert(ctx context.Context, payload any) error {
	_, err := r.col.InsertOne(ctx, payload)
	return err
}
