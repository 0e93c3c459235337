package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BehaviorRequirement is one entry of a badge's earning criteria: the user
// needs at least Count credit for the behavior identified by Shortname.
type BehaviorRequirement struct {
	Shortname string `bson:"shortname" json:"shortname"`
	Count     int    `bson:"count" json:"count"`
}

// ClaimCode is a single-use token embedded in a badge. Redeeming it awards
// the badge to the redeeming user regardless of credit. The unclaimed ->
// claimed transition happens exactly once, guarded by a conditional update
// on claimed == false. ClaimedOn is a pointer so an unclaimed code stores
// no date at all.
type ClaimCode struct {
	Code      string     `bson:"code" json:"code"`
	Claimed   bool       `bson:"claimed" json:"claimed"`
	ClaimedBy string     `bson:"claimedBy,omitempty" json:"claimedBy,omitempty"`
	ClaimedOn *time.Time `bson:"claimedOn,omitempty" json:"claimedOn,omitempty"`
}

// Badge defines an awardable badge. Shortname is the stable identifier;
// badge instances and claim codes reference it, so it must never change
// once anything points at it. ClaimCodes are single-use secrets and never
// leave the process in JSON.
type Badge struct {
	ID          primitive.ObjectID    `bson:"_id,omitempty" json:"id,omitempty"`
	Shortname   string                `bson:"shortname" json:"shortname"`
	Name        string                `bson:"name" json:"name"`
	Description string                `bson:"description" json:"description"`
	Image       string                `bson:"image" json:"image"`
	Behaviors   []BehaviorRequirement `bson:"behaviors" json:"behaviors"`
	ClaimCodes  []ClaimCode           `bson:"claimCodes,omitempty" json:"-"`
	CreatedAt   time.Time             `bson:"createdAt" json:"createdAt"`
}

// EarnableBy reports whether the credit map satisfies every behavior
// requirement of the badge. All requirements must be met.
func (b *Badge) EarnableBy(credit map[string]int) bool {
	for _, req := range b.Behaviors {
		if credit[req.Shortname] < req.Count {
			return false
		}
	}
	return true
}

// CreditsUntilAward returns, per unmet requirement, how much credit is still
// missing. Satisfied requirements are omitted, so an empty map means the
// badge is earnable right now.
func (b *Badge) CreditsUntilAward(credit map[string]int) map[string]int {
	remaining := map[string]int{}
	for _, req := range b.Behaviors {
		if shortfall := req.Count - credit[req.Shortname]; shortfall > 0 {
			remaining[req.Shortname] = shortfall
		}
	}
	return remaining
}

// GetClaimCode returns the claim code record matching code, or nil if the
// badge has no such code.
func (b *Badge) GetClaimCode(code string) *ClaimCode {
	for i := range b.ClaimCodes {
		if b.ClaimCodes[i].Code == code {
			return &b.ClaimCodes[i]
		}
	}
	return nil
}
