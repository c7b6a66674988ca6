package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Internship is a read-only internship listing keyed by domain.
type Internship struct {
	ID       bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Domain   string        `bson:"domain" json:"domain"`
	Company  string        `bson:"company" json:"company"`
	Role     string        `bson:"role" json:"role"`
	Location string        `bson:"location,omitempty" json:"location,omitempty"`
	Stipend  string        `bson:"stipend,omitempty" json:"stipend,omitempty"`
	ApplyURL string        `bson:"applyUrl,omitempty" json:"applyUrl,omitempty"`
	PostedAt time.Time     `bson:"postedAt" json:"postedAt"`
}
