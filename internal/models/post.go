package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Author is the denormalized snapshot of the posting user embedded in a Post.
type Author struct {
	MoodleID    string `bson:"moodleId" json:"moodleId,omitempty"`
	DisplayName string `bson:"displayName" json:"displayName"`
	AvatarURL   string `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
}

// Comment is embedded within its parent post and has no independent identity.
// Ordering is implicit by append time.
type Comment struct {
	Author    Author    `bson:"author" json:"author"`
	Message   string    `bson:"message" json:"message"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Post represents a community post. The bson field names (comment, like,
// totalComments, ...) are the wire format the frontend already speaks, so
// they are preserved as-is. TotalComments must equal len(Comments) after
// every successful mutation, and a moodle ID appears in Likes at most once.
type Post struct {
	ID              bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string        `bson:"title" json:"title"`
	Description     string        `bson:"description" json:"description"`
	Content         string        `bson:"content,omitempty" json:"content,omitempty"`
	Cover           string        `bson:"cover,omitempty" json:"cover,omitempty"`
	Author          Author        `bson:"author" json:"author"`
	Comments        []Comment     `bson:"comment" json:"comments"`
	Likes           []string      `bson:"like" json:"likes"`
	TotalComments   int           `bson:"totalComments" json:"totalComments"`
	Tags            []string      `bson:"tags" json:"tags"`
	Publish         bool          `bson:"publish" json:"publish"`
	MetaTitle       string        `bson:"metaTitle,omitempty" json:"metaTitle,omitempty"`
	MetaDescription string        `bson:"metaDescription,omitempty" json:"metaDescription,omitempty"`
	MetaKeywords    []string      `bson:"metaKeywords,omitempty" json:"metaKeywords,omitempty"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
}

// HasLike reports whether the given moodle ID is in the like set.
func (p *Post) HasLike(moodleID string) bool {
	for _, id := range p.Likes {
		if id == moodleID {
			return true
		}
	}
	return false
}

// PostEdit is the editable field set for a full-document edit. Author, likes,
// the comment counter, and the ID are immutable under edit.
type PostEdit struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Content         string    `json:"content"`
	Cover           string    `json:"cover"`
	Tags            []string  `json:"tags"`
	Publish         bool      `json:"publish"`
	Comments        []Comment `json:"comments"`
	MetaTitle       string    `json:"metaTitle"`
	MetaDescription string    `json:"metaDescription"`
	MetaKeywords    []string  `json:"metaKeywords"`
}
