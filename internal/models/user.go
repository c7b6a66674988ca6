// Package models contains data structures for the application's domain models.
package models

import "go.mongodb.org/mongo-driver/v2/bson"

// User represents a registered community member. The bcrypt password hash is
// never serialized to clients (json:"-"), and Bookmarks holds bookmarked post
// IDs as hex strings without any foreign-key relationship to the posts
// collection.
type User struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"-"`
	FirstName   string        `bson:"firstName" json:"firstName"`
	LastName    string        `bson:"lastName" json:"lastName"`
	DisplayName string        `bson:"displayName" json:"displayName"`
	Year        string        `bson:"year" json:"year"`
	Branch      string        `bson:"branch" json:"branch"`
	Division    string        `bson:"div" json:"div"`
	RollNumber  string        `bson:"rollNumber" json:"rollNumber"`
	MoodleID    string        `bson:"moodleId" json:"moodleId"`
	Email       string        `bson:"email" json:"email"`
	Password    string        `bson:"password" json:"-"`
	AvatarURL   string        `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	Bookmarks   []string      `bson:"bookmark" json:"bookmark"`
}

// AuthorSnapshot returns the denormalized author copy embedded into posts at
// creation time. Later profile edits do not propagate to existing posts.
func (u *User) AuthorSnapshot() Author {
	return Author{
		MoodleID:    u.MoodleID,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}

// ProfileUpdate is the set of user fields that may change after registration.
// MoodleID, email, and the password hash are immutable through this path.
type ProfileUpdate struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Year       string `json:"year"`
	Branch     string `json:"branch"`
	Division   string `json:"div"`
	RollNumber string `json:"rollNumber"`
	AvatarURL  string `json:"avatarUrl"`
}
