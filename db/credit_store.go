package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/christensenep/openbadger/models"
)

// CreditStore persists per-user behavior credit in the users collection.
type CreditStore struct{}

// Increment atomically adds one credit per occurrence of each behavior in
// the batch, creating the user record if it does not exist yet. The whole
// batch is a single $inc update, so concurrent batches for the same user
// interleave without lost updates. Returns the post-update record.
func (CreditStore) Increment(ctx context.Context, email string, behaviors []string) (*models.UserCredit, error) {
	inc := bson.M{}
	for _, behavior := range behaviors {
		field := "credit." + behavior
		if n, ok := inc[field].(int); ok {
			inc[field] = n + 1
		} else {
			inc[field] = 1
		}
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	result := GetCollection("users").FindOneAndUpdate(ctx, bson.M{"user": email}, bson.M{"$inc": inc}, opts)

	var user models.UserCredit
	if err := result.Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Get fetches a user's credit record. A missing record is not an error:
// it returns nil, meaning the user has no credit yet.
func (CreditStore) Get(ctx context.Context, email string) (*models.UserCredit, error) {
	var user models.UserCredit
	err := GetCollection("users").FindOne(ctx, bson.M{"user": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
