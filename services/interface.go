package services

import (
	"context"
	"time"

	"github.com/christensenep/openbadger/models"
)

// The badge engine never does read-modify-write in two round trips; all
// mutual exclusion is delegated to these store primitives. The db package
// implements them on MongoDB; tests use in-memory fakes.

// CreditStore holds per-user behavior credit.
type CreditStore interface {
	// Increment must be a single atomic increment-or-create for the whole
	// batch and return the post-update record.
	Increment(ctx context.Context, email string, behaviors []string) (*models.UserCredit, error)
	// Get returns nil (no error) when the user has no credit record.
	Get(ctx context.Context, email string) (*models.UserCredit, error)
}

// BadgeCatalog holds badge definitions with their embedded claim codes.
type BadgeCatalog interface {
	FindByBehaviors(ctx context.Context, shortnames []string) ([]models.Badge, error)
	FindByShortname(ctx context.Context, shortname string) (*models.Badge, error)
	// FindByClaimCode searches all badges when shortname is empty.
	FindByClaimCode(ctx context.Context, shortname, code string) (*models.Badge, error)
	// ClaimCode must be an atomic compare-and-set guarded on claimed ==
	// false; it reports false when no unclaimed matching code exists.
	ClaimCode(ctx context.Context, shortname, code, email string, now time.Time) (bool, error)
	All(ctx context.Context) ([]models.Badge, error)
	// Insert reports false when the shortname is already taken.
	Insert(ctx context.Context, badge *models.Badge) (bool, error)
}

// InstanceLedger holds awarded badge instances, one per (user, badge) pair.
type InstanceLedger interface {
	// Insert must be an atomic create-if-absent on the (user, badge) key;
	// it reports false when the pair already exists.
	Insert(ctx context.Context, instance *models.BadgeInstance) (bool, error)
	FindOne(ctx context.Context, email, badge string) (*models.BadgeInstance, error)
	FindByUser(ctx context.Context, email string) ([]models.BadgeInstance, error)
	MarkAllSeen(ctx context.Context, email string) error
}
