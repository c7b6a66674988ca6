// Package repository implements data access over the MongoDB document store.
package repository

import (
	"context"
	"errors"

	"campuslink/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// UserRepository is the credential-store boundary. Lookups return (nil, nil)
// when no record matches so callers can distinguish "absent" from "failed".
type UserRepository interface {
	GetByMoodleID(ctx context.Context, moodleID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, moodleID string, upd models.ProfileUpdate) error
	Delete(ctx context.Context, moodleID string) error
	AddBookmark(ctx context.Context, moodleID, postID string) error
	RemoveBookmark(ctx context.Context, moodleID, postID string) error
}

type mongoUserRepository struct {
	col *mongo.Collection
}

// NewUserRepository creates a user repository backed by the users collection.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{col: db.Collection("users")}
}

func (r *mongoUserRepository) GetByMoodleID(ctx context.Context, moodleID string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"moodleId": moodleID})
}

func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *mongoUserRepository) Create(ctx context.Context, user *models.User) error {
	res, err := r.col.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		// The unique indexes close the race between the pre-insert lookups
		// and the insert itself.
		return models.NewConflictError("User already exists")
	}
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		user.ID = id
	}
	return nil
}

func (r *mongoUserRepository) UpdateProfile(ctx context.Context, moodleID string, upd models.ProfileUpdate) error {
	set := bson.M{}
	if upd.FirstName != "" {
		set["firstName"] = upd.FirstName
	}
	if upd.LastName != "" {
		set["lastName"] = upd.LastName
	}
	if upd.FirstName != "" || upd.LastName != "" {
		// Keep the denormalized display name in step with the name fields.
		first, last := upd.FirstName, upd.LastName
		existing, err := r.GetByMoodleID(ctx, moodleID)
		if err != nil {
			return err
		}
		if existing == nil {
			return models.NewNotFoundError("User", moodleID)
		}
		if first == "" {
			first = existing.FirstName
		}
		if last == "" {
			last = existing.LastName
		}
		set["displayName"] = first + " " + last
	}
	if upd.Year != "" {
		set["year"] = upd.Year
	}
	if upd.Branch != "" {
		set["branch"] = upd.Branch
	}
	if upd.Division != "" {
		set["div"] = upd.Division
	}
	if upd.RollNumber != "" {
		set["rollNumber"] = upd.RollNumber
	}
	if upd.AvatarURL != "" {
		set["avatarUrl"] = upd.AvatarURL
	}
	if len(set) == 0 {
		return models.NewValidationError("No updatable fields provided")
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"moodleId": moodleID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundError("User", moodleID)
	}
	return nil
}

func (r *mongoUserRepository) Delete(ctx context.Context, moodleID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"moodleId": moodleID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.NewNotFoundError("User", moodleID)
	}
	return nil
}

func (r *mongoUserRepository) AddBookmark(ctx context.Context, moodleID, postID string) error {
	return r.toggleBookmark(ctx, moodleID, bson.M{"$addToSet": bson.M{"bookmark": postID}})
}

func (r *mongoUserRepository) RemoveBookmark(ctx context.Context, moodleID, postID string) error {
	return r.toggleBookmark(ctx, moodleID, bson.M{"$pull": bson.M{"bookmark": postID}})
}

func (r *mongoUserRepository) toggleBookmark(ctx context.Context, moodleID string, update bson.M) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"moodleId": moodleID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundError("User", moodleID)
	}
	return nil
}
