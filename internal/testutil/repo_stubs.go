// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"context"
	"strings"
	"sync"

	"campuslink/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserRepoStub is an in-memory user repository implementation for tests.
type UserRepoStub struct {
	mu    sync.Mutex
	users map[string]*models.User
}

// NewUserRepoStub creates an in-memory user repository stub for tests.
func NewUserRepoStub() *UserRepoStub {
	return &UserRepoStub{users: map[string]*models.User{}}
}

func (r *UserRepoStub) GetByMoodleID(_ context.Context, moodleID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[moodleID]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (r *UserRepoStub) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *UserRepoStub) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.MoodleID]; ok {
		return models.NewConflictError("User already exists")
	}
	user.ID = bson.NewObjectID()
	copied := *user
	r.users[user.MoodleID] = &copied
	return nil
}

func (r *UserRepoStub) UpdateProfile(_ context.Context, moodleID string, upd models.ProfileUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[moodleID]
	if !ok {
		return models.NewNotFoundError("User", moodleID)
	}
	if upd.FirstName != "" {
		u.FirstName = upd.FirstName
	}
	if upd.LastName != "" {
		u.LastName = upd.LastName
	}
	u.DisplayName = u.FirstName + " " + u.LastName
	if upd.Year != "" {
		u.Year = upd.Year
	}
	if upd.Branch != "" {
		u.Branch = upd.Branch
	}
	if upd.Division != "" {
		u.Division = upd.Division
	}
	if upd.RollNumber != "" {
		u.RollNumber = upd.RollNumber
	}
	if upd.AvatarURL != "" {
		u.AvatarURL = upd.AvatarURL
	}
	return nil
}

func (r *UserRepoStub) Delete(_ context.Context, moodleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[moodleID]; !ok {
		return models.NewNotFoundError("User", moodleID)
	}
	delete(r.users, moodleID)
	return nil
}

func (r *UserRepoStub) AddBookmark(_ context.Context, moodleID, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[moodleID]
	if !ok {
		return models.NewNotFoundError("User", moodleID)
	}
	for _, id := range u.Bookmarks {
		if id == postID {
			return nil
		}
	}
	u.Bookmarks = append(u.Bookmarks, postID)
	return nil
}

func (r *UserRepoStub) RemoveBookmark(_ context.Context, moodleID, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[moodleID]
	if !ok {
		return models.NewNotFoundError("User", moodleID)
	}
	kept := u.Bookmarks[:0]
	for _, id := range u.Bookmarks {
		if id != postID {
			kept = append(kept, id)
		}
	}
	u.Bookmarks = kept
	return nil
}

// PostRepoStub is an in-memory post repository implementation for tests.
// List mirrors the store's listing contract: newest-first with the heavy and
// sensitive fields (cover, content, author avatar, author moodle ID, comments)
// elided.
type PostRepoStub struct {
	mu    sync.Mutex
	order []string
	posts map[string]*models.Post
}

// NewPostRepoStub creates an in-memory post repository stub for tests.
func NewPostRepoStub() *PostRepoStub {
	return &PostRepoStub{posts: map[string]*models.Post{}}
}

func (r *PostRepoStub) Create(_ context.Context, post *models.Post) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = bson.NewObjectID()
	id := post.ID.Hex()
	copied := *post
	r.posts[id] = &copied
	r.order = append(r.order, id)
	return id, nil
}

func (r *PostRepoStub) List(_ context.Context) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	posts := []models.Post{}
	for i := len(r.order) - 1; i >= 0; i-- {
		p := *r.posts[r.order[i]]
		p.Cover = ""
		p.Content = ""
		p.Author.AvatarURL = ""
		p.Author.MoodleID = ""
		p.Comments = nil
		posts = append(posts, p)
	}
	return posts, nil
}

func (r *PostRepoStub) GetByID(_ context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.posts[id]; ok {
		copied := *p
		copied.Comments = append([]models.Comment{}, p.Comments...)
		copied.Likes = append([]string{}, p.Likes...)
		return &copied, nil
	}
	return nil, models.NewNotFoundError("Post", id)
}

func (r *PostRepoStub) Update(_ context.Context, id string, edit models.PostEdit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return models.NewNotFoundError("Post", id)
	}
	p.Title = edit.Title
	p.Description = edit.Description
	p.Content = edit.Content
	p.Cover = edit.Cover
	p.Tags = edit.Tags
	p.Publish = edit.Publish
	p.Comments = edit.Comments
	p.TotalComments = len(edit.Comments)
	p.MetaTitle = edit.MetaTitle
	p.MetaDescription = edit.MetaDescription
	p.MetaKeywords = edit.MetaKeywords
	return nil
}

func (r *PostRepoStub) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return models.NewNotFoundError("Post", id)
	}
	delete(r.posts, id)
	kept := r.order[:0]
	for _, existing := range r.order {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	r.order = kept
	return nil
}

func (r *PostRepoStub) ListByAuthor(_ context.Context, moodleID string) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	posts := []models.Post{}
	for i := len(r.order) - 1; i >= 0; i-- {
		if p := r.posts[r.order[i]]; p.Author.MoodleID == moodleID {
			posts = append(posts, *p)
		}
	}
	return posts, nil
}

func (r *PostRepoStub) AddComment(_ context.Context, id string, comment models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return models.NewNotFoundError("Post", id)
	}
	p.Comments = append(p.Comments, comment)
	p.TotalComments++
	return nil
}

func (r *PostRepoStub) AddLike(_ context.Context, id, moodleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return models.NewNotFoundError("Post", id)
	}
	for _, existing := range p.Likes {
		if existing == moodleID {
			return nil
		}
	}
	p.Likes = append(p.Likes, moodleID)
	return nil
}

func (r *PostRepoStub) RemoveLike(_ context.Context, id, moodleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return models.NewNotFoundError("Post", id)
	}
	kept := p.Likes[:0]
	for _, existing := range p.Likes {
		if existing != moodleID {
			kept = append(kept, existing)
		}
	}
	p.Likes = kept
	return nil
}

// InternshipRepoStub serves a fixed set of listings.
type InternshipRepoStub struct {
	Listings []models.Internship
}

func (r *InternshipRepoStub) ListByDomain(_ context.Context, domain string) ([]models.Internship, error) {
	matched := []models.Internship{}
	for _, l := range r.Listings {
		if l.Domain == domain {
			matched = append(matched, l)
		}
	}
	return matched, nil
}

// QuarantineStub records every quarantined payload.
type QuarantineStub struct {
	mu       sync.Mutex
	payloads []any
}

func (q *QuarantineStub) Insert(_ context.Context, payload any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.payloads = append(q.payloads, payload)
	return nil
}

// Count returns the number of quarantined payloads.
func (q *QuarantineStub) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.payloads)
}

// Payloads returns the quarantined payloads in insertion order.
func (q *QuarantineStub) Payloads() []any {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]any{}, q.payloads...)
}

// FlagWord returns a classifier flagging any text containing the given word.
func FlagWord(word string) func(string) bool {
	return func(text string) bool {
		return strings.Contains(strings.ToLower(text), word)
	}
}
