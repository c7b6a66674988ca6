// Package service implements the application's business rules on top of the
// repository boundary.
package service

import (
	"context"
	"time"

	"campuslink/internal/cache"
	"campuslink/internal/middleware"
	"campuslink/internal/models"
	"campuslink/internal/moderation"
	"campuslink/internal/repository"
)

// Like-toggle outcomes reported to the client.
const (
	LikeOutcomeLiked   = "liked"
	LikeOutcomeUnliked = "unliked"
)

// PostService owns post creation, listing, editing, comments, and likes. All
// content-creating paths pass through the admission gate before any store
// write; toggle paths bypass the gate and mutate directly.
type PostService struct {
	posts repository.PostRepository
	gate  *moderation.Gate
}

// CreatePostInput carries the client payload for a new post. It is also the
// verbatim payload quarantined on rejection.
type CreatePostInput struct {
	Title           string   `json:"title" bson:"title"`
	Description     string   `json:"description" bson:"description"`
	Content         string   `json:"content" bson:"content"`
	Cover           string   `json:"cover" bson:"cover,omitempty"`
	Tags            []string `json:"tags" bson:"tags,omitempty"`
	Publish         bool     `json:"publish" bson:"publish"`
	MetaTitle       string   `json:"metaTitle" bson:"metaTitle,omitempty"`
	MetaDescription string   `json:"metaDescription" bson:"metaDescription,omitempty"`
	MetaKeywords    []string `json:"metaKeywords" bson:"metaKeywords,omitempty"`
}

// EditPostInput carries the client payload for a full-field edit.
type EditPostInput struct {
	models.PostEdit `bson:",inline"`
}

// CommentInput is the payload for a new comment; quarantined verbatim when
// the message is flagged.
type CommentInput struct {
	PostID  string        `json:"postId" bson:"postId"`
	Author  models.Author `json:"author" bson:"author"`
	Message string        `json:"message" bson:"message"`
}

// NewPostService wires the post repository to the admission gate.
func NewPostService(posts repository.PostRepository, gate *moderation.Gate) *PostService {
	return &PostService{posts: posts, gate: gate}
}

// CreatePost admits the title, description, and content, then inserts the
// post with the author snapshot taken at creation time. Returns the
// store-generated hex ID.
func (s *PostService) CreatePost(ctx context.Context, author models.Author, in CreatePostInput) (string, error) {
	if in.Title == "" || in.Description == "" || in.Content == "" {
		return "", models.NewValidationError("Title, description, and content are required")
	}

	if err := s.gate.Admit(ctx, in, in.Title, in.Description, in.Content); err != nil {
		if models.CodeOf(err) == models.CodeContentRejected {
			middleware.QuarantinedSubmissions.WithLabelValues("post").Inc()
		}
		return "", err
	}

	post := &models.Post{
		Title:           in.Title,
		Description:     in.Description,
		Content:         in.Content,
		Cover:           in.Cover,
		Author:          author,
		Comments:        []models.Comment{},
		Likes:           []string{},
		Tags:            in.Tags,
		Publish:         in.Publish,
		MetaTitle:       in.MetaTitle,
		MetaDescription: in.MetaDescription,
		MetaKeywords:    in.MetaKeywords,
		CreatedAt:       time.Now().UTC(),
	}

	id, err := s.posts.Create(ctx, post)
	if err != nil {
		return "", err
	}

	cache.Invalidate(ctx, cache.PostsListKey)
	return id, nil
}

// ListPosts returns the projected newest-first listing, served cache-aside.
func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := cache.Aside(ctx, cache.PostsListKey, &posts, cache.ListTTL, func() error {
		var fetchErr error
		posts, fetchErr = s.posts.List(ctx)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost returns the full post document.
func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		fetched, fetchErr := s.posts.GetByID(ctx, id)
		if fetchErr != nil {
			return fetchErr
		}
		post = *fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// EditPost re-admits the edited text fields and replaces exactly the editable
// field set. Author, likes, and the ID are immutable under edit.
func (s *PostService) EditPost(ctx context.Context, id string, in EditPostInput) error {
	if _, err := s.posts.GetByID(ctx, id); err != nil {
		return err
	}

	if in.Title == "" || in.Description == "" || in.Content == "" {
		return models.NewValidationError("Title, description, and content are required")
	}

	if err := s.gate.Admit(ctx, in, in.Title, in.Description, in.Content); err != nil {
		if models.CodeOf(err) == models.CodeContentRejected {
			middleware.QuarantinedSubmissions.WithLabelValues("edit").Inc()
		}
		return err
	}

	if err := s.posts.Update(ctx, id, in.PostEdit); err != nil {
		return err
	}

	cache.InvalidatePost(ctx, id)
	return nil
}

// DeletePost removes the post document.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// ListPostsByAuthor returns all posts by the given author, newest-first.
func (s *PostService) ListPostsByAuthor(ctx context.Context, moodleID string) ([]models.Post, error) {
	return s.posts.ListByAuthor(ctx, moodleID)
}

// AddComment admits the comment message, then appends it together with the
// counter bump. Returns the updated post.
func (s *PostService) AddComment(ctx context.Context, postID string, author models.Author, message string) (*models.Post, error) {
	if message == "" {
		return nil, models.NewValidationError("Comment message is required")
	}

	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	payload := CommentInput{PostID: postID, Author: author, Message: message}
	if err := s.gate.Admit(ctx, payload, message); err != nil {
		if models.CodeOf(err) == models.CodeContentRejected {
			middleware.QuarantinedSubmissions.WithLabelValues("comment").Inc()
		}
		return nil, err
	}

	comment := models.Comment{
		Author:    author,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.posts.AddComment(ctx, postID, comment); err != nil {
		return nil, err
	}

	cache.InvalidatePost(ctx, postID)
	return s.posts.GetByID(ctx, postID)
}

// ToggleLike flips the caller's membership in the like set. The outcome
// depends on current state, not on anything the caller chose.
func (s *PostService) ToggleLike(ctx context.Context, postID, moodleID string) (string, *models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return "", nil, err
	}

	outcome := LikeOutcomeLiked
	if post.HasLike(moodleID) {
		outcome = LikeOutcomeUnliked
		err = s.posts.RemoveLike(ctx, postID, moodleID)
	} else {
		err = s.posts.AddLike(ctx, postID, moodleID)
	}
	if err != nil {
		return "", nil, err
	}

	cache.InvalidatePost(ctx, postID)

	updated, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return "", nil, err
	}
	return outcome, updated, nil
}
