package repository

import (
	"context"
	"errors"
	"time"

	"campuslink/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// PostRepository is the post-store boundary. IDs are hex-encoded ObjectIDs;
// newest-first listings rely on their monotonicity.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (string, error)
	List(ctx context.Context) ([]models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Update(ctx context.Context, id string, edit models.PostEdit) error
	Delete(ctx context.Context, id string) error
	ListByAuthor(ctx context.Context, moodleID string) ([]models.Post, error)
	AddComment(ctx context.Context, id string, comment models.Comment) error
	AddLike(ctx context.Context, id, moodleID string) error
	RemoveLike(ctx context.Context, id, moodleID string) error
}

type mongoPostRepository struct {
	col *mongo.Collection
}

// NewPostRepository creates a post repository backed by the posts collection.
func NewPostRepository(db *mongo.Database) PostRepository {
	return &mongoPostRepository{col: db.Collection("posts")}
}

func (r *mongoPostRepository) Create(ctx context.Context, post *models.Post) (string, error) {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, post)
	if err != nil {
		return "", err
	}
	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return "", errors.New("unexpected inserted ID type")
	}
	post.ID = id
	return id.Hex(), nil
}

// listProjection elides the heavy and sensitive fields from listings. This is
// a projection contract for the list view, not storage-level redaction.
var listProjection = bson.D{
	{Key: "cover", Value: 0},
	{Key: "content", Value: 0},
	{Key: "author.avatarUrl", Value: 0},
	{Key: "author.moodleId", Value: 0},
	{Key: "comment", Value: 0},
}

func (r *mongoPostRepository) List(ctx context.Context) ([]models.Post, error) {
	return r.find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetProjection(listProjection))
}

func (r *mongoPostRepository) ListByAuthor(ctx context.Context, moodleID string) ([]models.Post, error) {
	return r.find(ctx, bson.M{"author.moodleId": moodleID}, options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}))
}

func (r *mongoPostRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptionsBuilder) ([]models.Post, error) {
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *mongoPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.NewNotFoundError("Post", id)
	}

	var post models.Post
	err = r.col.FindOne(ctx, bson.M{"_id": objectID}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.NewNotFoundError("Post", id)
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *mongoPostRepository) Update(ctx context.Context, id string, edit models.PostEdit) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return models.NewNotFoundError("Post", id)
	}

	// Exactly the editable field set; author, like, and _id stay untouched.
	set := bson.M{
		"title":           edit.Title,
		"description":     edit.Description,
		"content":         edit.Content,
		"cover":           edit.Cover,
		"tags":            edit.Tags,
		"publish":         edit.Publish,
		"comment":         edit.Comments,
		"totalComments":   len(edit.Comments),
		"metaTitle":       edit.MetaTitle,
		"metaDescription": edit.MetaDescription,
		"metaKeywords":    edit.MetaKeywords,
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

func (r *mongoPostRepository) Delete(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return models.NewNotFoundError("Post", id)
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

// AddComment appends the comment and bumps the counter in a single update so
// the totalComments invariant holds per document without a read-modify-write.
func (r *mongoPostRepository) AddComment(ctx context.Context, id string, comment models.Comment) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return models.NewNotFoundError("Post", id)
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$push": bson.M{"comment": comment},
		"$inc":  bson.M{"totalComments": 1},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

// AddLike uses $addToSet so a moodle ID can never appear twice even under
// concurrent toggles.
func (r *mongoPostRepository) AddLike(ctx context.Context, id, moodleID string) error {
	return r.updateLike(ctx, id, bson.M{"$addToSet": bson.M{"like": moodleID}})
}

func (r *mongoPostRepository) RemoveLike(ctx context.Context, id, moodleID string) error {
	return r.updateLike(ctx, id, bson.M{"$pull": bson.M{"like": moodleID}})
}

func (r *mongoPostRepository) updateLike(ctx context.Context, id string, update bson.M) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return models.NewNotFoundError("Post", id)
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}
