package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BadgeInstance records that a badge was awarded to a user. The (user, badge)
// pair is unique: the compound index on it is what makes awarding idempotent.
// Instances are never mutated after creation except for the Seen flag.
type BadgeInstance struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	User      string             `bson:"user" json:"user"`
	Badge     string             `bson:"badge" json:"badge"`
	Assertion string             `bson:"assertion" json:"assertion"`
	Hash      string             `bson:"hash" json:"hash"`
	Seen      bool               `bson:"seen" json:"seen"`
	IssuedOn  time.Time          `bson:"issuedOn" json:"issuedOn"`
}
