package repository

import (
	"context"

	"campuslink/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// InternshipRepository serves the read-only internship listings.
type InternshipRepository interface {
	ListByDomain(ctx context.Context, domain string) ([]models.Internship, error)
}

type mongoInternshipRepository struct {
	col *mongo.Collection
}

// NewInternshipRepository creates an internship repository over its collection.
func NewInternshipRepository(db *mongo.Database) InternshipRepository {
	return &mongoInternshipRepository{col: db.Collection("internships")}
}

func (r *mongoInternshipRepository) ListByDomain(ctx context.Context, domain string) ([]models.Internship, error) {
	cursor, err := r.col.Find(ctx, bson.M{"domain": domain}, options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	internships := []models.Internship{}
	if err := cursor.All(ctx, &internships); err != nil {
		return nil, err
	}
	return internships, nil
}
