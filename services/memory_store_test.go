package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/christensenep/openbadger/models"
)

// In-memory implementations of the store interfaces. Each mutation holds a
// mutex for its whole duration, giving the same atomicity guarantees the
// Mongo operations provide (single-document $inc, CAS, unique insert).

type memCreditStore struct {
	mu    sync.Mutex
	users map[string]*models.UserCredit
}

func newMemCreditStore() *memCreditStore {
	return &memCreditStore{users: map[string]*models.UserCredit{}}
}

func (m *memCreditStore) Increment(ctx context.Context, email string, behaviors []string) (*models.UserCredit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user := m.users[email]
	if user == nil {
		user = &models.UserCredit{User: email, Credit: map[string]int{}}
		m.users[email] = user
	}
	for _, behavior := range behaviors {
		user.Credit[behavior]++
	}
	return copyUser(user), nil
}

func (m *memCreditStore) Get(ctx context.Context, email string) (*models.UserCredit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user := m.users[email]
	if user == nil {
		return nil, nil
	}
	return copyUser(user), nil
}

func copyUser(user *models.UserCredit) *models.UserCredit {
	clone := *user
	clone.Credit = make(map[string]int, len(user.Credit))
	for behavior, count := range user.Credit {
		clone.Credit[behavior] = count
	}
	return &clone
}

type memBadgeCatalog struct {
	mu     sync.Mutex
	badges []models.Badge
}

func (m *memBadgeCatalog) FindByBehaviors(ctx context.Context, shortnames []string) ([]models.Badge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	wanted := map[string]bool{}
	for _, shortname := range shortnames {
		wanted[shortname] = true
	}

	var found []models.Badge
	for _, badge := range m.badges {
		for _, req := range badge.Behaviors {
			if wanted[req.Shortname] {
				found = append(found, copyBadge(badge))
				break
			}
		}
	}
	return found, nil
}

func (m *memBadgeCatalog) FindByShortname(ctx context.Context, shortname string) (*models.Badge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, badge := range m.badges {
		if badge.Shortname == shortname {
			clone := copyBadge(badge)
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memBadgeCatalog) FindByClaimCode(ctx context.Context, shortname, code string) (*models.Badge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, badge := range m.badges {
		if shortname != "" && badge.Shortname != shortname {
			continue
		}
		for _, cc := range badge.ClaimCodes {
			if cc.Code == code {
				clone := copyBadge(badge)
				return &clone, nil
			}
		}
	}
	return nil, nil
}

func (m *memBadgeCatalog) ClaimCode(ctx context.Context, shortname, code, email string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.badges {
		if shortname != "" && m.badges[i].Shortname != shortname {
			continue
		}
		for j := range m.badges[i].ClaimCodes {
			cc := &m.badges[i].ClaimCodes[j]
			if cc.Code == code && !cc.Claimed {
				cc.Claimed = true
				cc.ClaimedBy = email
				cc.ClaimedOn = &now
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *memBadgeCatalog) All(ctx context.Context) ([]models.Badge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]models.Badge, 0, len(m.badges))
	for _, badge := range m.badges {
		all = append(all, copyBadge(badge))
	}
	return all, nil
}

func (m *memBadgeCatalog) Insert(ctx context.Context, badge *models.Badge) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.badges {
		if existing.Shortname == badge.Shortname {
			return false, nil
		}
	}
	m.badges = append(m.badges, copyBadge(*badge))
	return true, nil
}

func copyBadge(badge models.Badge) models.Badge {
	clone := badge
	clone.Behaviors = append([]models.BehaviorRequirement(nil), badge.Behaviors...)
	clone.ClaimCodes = append([]models.ClaimCode(nil), badge.ClaimCodes...)
	return clone
}

type memInstanceLedger struct {
	mu        sync.Mutex
	instances map[[2]string]*models.BadgeInstance
}

func newMemInstanceLedger() *memInstanceLedger {
	return &memInstanceLedger{instances: map[[2]string]*models.BadgeInstance{}}
}

func (m *memInstanceLedger) Insert(ctx context.Context, instance *models.BadgeInstance) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := [2]string{instance.User, instance.Badge}
	if _, exists := m.instances[key]; exists {
		return false, nil
	}
	clone := *instance
	m.instances[key] = &clone
	return true, nil
}

func (m *memInstanceLedger) FindOne(ctx context.Context, email, badge string) (*models.BadgeInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	instance := m.instances[[2]string{email, badge}]
	if instance == nil {
		return nil, nil
	}
	clone := *instance
	return &clone, nil
}

func (m *memInstanceLedger) FindByUser(ctx context.Context, email string) ([]models.BadgeInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var found []models.BadgeInstance
	for key, instance := range m.instances {
		if key[0] == email {
			found = append(found, *instance)
		}
	}
	return found, nil
}

func (m *memInstanceLedger) MarkAllSeen(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, instance := range m.instances {
		if key[0] == email {
			instance.Seen = true
		}
	}
	return nil
}

// Failing stores for the fail-fast paths.

var errStoreDown = errors.New("connection refused")

type failingCreditStore struct{}

func (failingCreditStore) Increment(ctx context.Context, email string, behaviors []string) (*models.UserCredit, error) {
	return nil, errStoreDown
}

func (failingCreditStore) Get(ctx context.Context, email string) (*models.UserCredit, error) {
	return nil, errStoreDown
}

// countingLedger records how many inserts were attempted.
type countingLedger struct {
	memInstanceLedger
	countMu sync.Mutex
	inserts int
}

func newCountingLedger() *countingLedger {
	ledger := &countingLedger{}
	ledger.instances = map[[2]string]*models.BadgeInstance{}
	return ledger
}

func (c *countingLedger) Insert(ctx context.Context, instance *models.BadgeInstance) (bool, error) {
	c.countMu.Lock()
	c.inserts++
	c.countMu.Unlock()
	return c.memInstanceLedger.Insert(ctx, instance)
}
