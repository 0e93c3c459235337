package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCredit defines a user's accumulated behavior credit. The credit map is
// keyed by behavior shortname with the value being the amount of credit the
// user has for that behavior, e.g. {"link": 1, "comment": 2, "image-tag": 6}.
// A map is preferable to an array of records because it makes each credit
// update a single cheap $inc on one field.
type UserCredit struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	User   string             `bson:"user" json:"user"`
	Credit map[string]int     `bson:"credit,omitempty" json:"credit,omitempty"`
}

// CreditFor returns the amount of credit the user has for a behavior.
// An absent entry means zero credit.
func (u *UserCredit) CreditFor(behavior string) int {
	if u == nil || u.Credit == nil {
		return 0
	}
	return u.Credit[behavior]
}
