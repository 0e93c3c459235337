package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/christensenep/openbadger/models"
)

// InstanceStore persists awarded badge instances in the badge_instances
// collection.
type InstanceStore struct{}

// Insert creates a badge instance. The unique (user, badge) index turns a
// duplicate award into a clean conflict: Insert reports false with no error,
// which is how awarding stays idempotent under races.
func (InstanceStore) Insert(ctx context.Context, instance *models.BadgeInstance) (bool, error) {
	_, err := GetCollection("badge_instances").InsertOne(ctx, instance)
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FindOne fetches the instance for a (user, badge) pair, nil if the user was
// never awarded that badge.
func (InstanceStore) FindOne(ctx context.Context, email, badge string) (*models.BadgeInstance, error) {
	var instance models.BadgeInstance
	err := GetCollection("badge_instances").FindOne(ctx, bson.M{"user": email, "badge": badge}).Decode(&instance)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &instance, nil
}

// FindByUser returns every badge instance awarded to a user.
func (InstanceStore) FindByUser(ctx context.Context, email string) ([]models.BadgeInstance, error) {
	cursor, err := GetCollection("badge_instances").Find(ctx, bson.M{"user": email})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var instances []models.BadgeInstance
	if err := cursor.All(ctx, &instances); err != nil {
		return nil, err
	}
	return instances, nil
}

// MarkAllSeen flags every instance of a user as seen.
func (InstanceStore) MarkAllSeen(ctx context.Context, email string) error {
	_, err := GetCollection("badge_instances").UpdateMany(ctx,
		bson.M{"user": email, "seen": false},
		bson.M{"$set": bson.M{"seen": true}})
	return err
}
