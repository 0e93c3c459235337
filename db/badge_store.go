package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/christensenep/openbadger/models"
)

// BadgeStore persists badge definitions (with their embedded claim codes)
// in the badges collection.
type BadgeStore struct{}

// FindByBehaviors returns every badge that references at least one of the
// given behavior shortnames. Badges touching none of the reported behaviors
// cannot change earnability, so this is the candidate set for an award pass.
func (BadgeStore) FindByBehaviors(ctx context.Context, shortnames []string) ([]models.Badge, error) {
	filter := bson.M{"behaviors.shortname": bson.M{"$in": shortnames}}
	cursor, err := GetCollection("badges").Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var badges []models.Badge
	if err := cursor.All(ctx, &badges); err != nil {
		return nil, err
	}
	return badges, nil
}

// FindByShortname fetches a badge definition. Returns nil if no badge has
// the given shortname.
func (BadgeStore) FindByShortname(ctx context.Context, shortname string) (*models.Badge, error) {
	var badge models.Badge
	err := GetCollection("badges").FindOne(ctx, bson.M{"shortname": shortname}).Decode(&badge)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &badge, nil
}

// FindByClaimCode finds the badge containing a claim code. An empty
// shortname searches across all badges. Returns nil if no badge embeds the
// code.
func (BadgeStore) FindByClaimCode(ctx context.Context, shortname, code string) (*models.Badge, error) {
	filter := bson.M{"claimCodes.code": code}
	if shortname != "" {
		filter["shortname"] = shortname
	}

	var badge models.Badge
	err := GetCollection("badges").FindOne(ctx, filter).Decode(&badge)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &badge, nil
}

// ClaimCode marks a claim code as claimed by email, but only if it is still
// unclaimed. The $elemMatch filter plus positional $set make the transition
// a single compare-and-set: of two concurrent redeemers exactly one sees
// modified == 1. Returns false when no unclaimed matching code exists.
func (BadgeStore) ClaimCode(ctx context.Context, shortname, code, email string, now time.Time) (bool, error) {
	filter := bson.M{
		"claimCodes": bson.M{"$elemMatch": bson.M{"code": code, "claimed": false}},
	}
	if shortname != "" {
		filter["shortname"] = shortname
	}
	update := bson.M{"$set": bson.M{
		"claimCodes.$.claimed":   true,
		"claimCodes.$.claimedBy": email,
		"claimCodes.$.claimedOn": now,
	}}

	result, err := GetCollection("badges").UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

// All returns every badge definition.
func (BadgeStore) All(ctx context.Context) ([]models.Badge, error) {
	cursor, err := GetCollection("badges").Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var badges []models.Badge
	if err := cursor.All(ctx, &badges); err != nil {
		return nil, err
	}
	return badges, nil
}

// Insert stores a new badge definition. Returns false without error when a
// badge with the same shortname already exists.
func (BadgeStore) Insert(ctx context.Context, badge *models.Badge) (bool, error) {
	_, err := GetCollection("badges").InsertOne(ctx, badge)
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
