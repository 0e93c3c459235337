package utils

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/christensenep/openbadger/db"
	"github.com/christensenep/openbadger/models"
)

// SeedBadges inserts a starter badge catalog when the badges collection is
// empty. Safe to call on every boot.
func SeedBadges() {
	collection := db.GetCollection("badges")
	count, err := collection.CountDocuments(context.Background(), bson.M{})
	if err != nil {
		zap.L().Warn("failed to count badges, skipping seed", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	badges := []models.Badge{
		{
			Shortname:   "link-basic",
			Name:        "Link Badge, basic",
			Description: "For doing links.",
			Image:       "/badge/image/link-basic.png",
			Behaviors:   []models.BehaviorRequirement{{Shortname: "link", Count: 5}},
			CreatedAt:   time.Now(),
		},
		{
			Shortname:   "link-advanced",
			Name:        "Link Badge, advanced",
			Description: "For doing lots of links.",
			Image:       "/badge/image/link-advanced.png",
			Behaviors:   []models.BehaviorRequirement{{Shortname: "link", Count: 10}},
			CreatedAt:   time.Now(),
		},
		{
			Shortname:   "comment-basic",
			Name:        "Comment Badge, basic",
			Description: "For leaving comments.",
			Image:       "/badge/image/comment-basic.png",
			Behaviors:   []models.BehaviorRequirement{{Shortname: "comment", Count: 3}},
			CreatedAt:   time.Now(),
		},
		{
			Shortname:   "offline-badge",
			Name:        "Offline badge",
			Description: "Awarded in person, claimed by code.",
			Image:       "/badge/image/offline-badge.png",
			Behaviors:   []models.BehaviorRequirement{},
			ClaimCodes: []models.ClaimCode{
				{Code: "will-claim"},
				{Code: "never-claim"},
			},
			CreatedAt: time.Now(),
		},
	}

	var documents []interface{}
	for _, badge := range badges {
		documents = append(documents, badge)
	}

	if _, err := collection.InsertMany(context.Background(), documents); err != nil {
		zap.L().Warn("failed to seed badges", zap.Error(err))
		return
	}
	zap.L().Info("seeded badge catalog", zap.Int("badges", len(badges)))
}
