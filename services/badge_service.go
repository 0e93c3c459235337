package services

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/christensenep/openbadger/models"
)

// BadgeService is the credit-accumulation and badge-award engine. It owns no
// state of its own: every invariant (idempotent awards, exactly-once claim
// redemption, race-safe credit updates) is enforced through the atomic store
// primitives it is wired to.
type BadgeService struct {
	credit  CreditStore
	catalog BadgeCatalog
	ledger  InstanceLedger

	issuer   models.Issuer
	logger   *zap.Logger
	validate *validator.Validate
}

var badgeService *BadgeService

// InitBadgeService wires the singleton used by the HTTP layer.
func InitBadgeService(credit CreditStore, catalog BadgeCatalog, ledger InstanceLedger, issuer models.Issuer, logger *zap.Logger) {
	badgeService = NewBadgeService(credit, catalog, ledger, issuer, logger)
}

// GetBadgeService returns the singleton badge service.
func GetBadgeService() *BadgeService {
	return badgeService
}

// NewBadgeService builds a badge service around the given stores.
func NewBadgeService(credit CreditStore, catalog BadgeCatalog, ledger InstanceLedger, issuer models.Issuer, logger *zap.Logger) *BadgeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BadgeService{
		credit:   credit,
		catalog:  catalog,
		ledger:   ledger,
		issuer:   issuer,
		logger:   logger,
		validate: validator.New(),
	}
}

// InProgressBadge pairs a badge the user has started working toward with the
// credit still missing per behavior.
type InProgressBadge struct {
	Badge     models.Badge   `json:"badge"`
	Remaining map[string]int `json:"remaining"`
}

// CreditResult is the outcome of one credit batch: the post-update credit
// record, the badges newly awarded by this call, and the candidate badges
// still in progress.
type CreditResult struct {
	User       *models.UserCredit     `json:"user"`
	Awarded    []models.BadgeInstance `json:"awarded"`
	InProgress []InProgressBadge      `json:"inProgress"`
}

// CreditsAndBadges aggregates everything known about a user: accumulated
// behavior credit and awarded badge instances keyed by badge shortname.
type CreditsAndBadges struct {
	Behaviors map[string]int                  `json:"behaviors"`
	Badges    map[string]models.BadgeInstance `json:"badges"`
}

// Credit applies a batch of observed behaviors to a user. Each occurrence in
// the batch adds one credit, so duplicates count multiple times. The credit
// increment and the candidate-badge lookup run concurrently; eligibility is
// then evaluated against the post-update credit, and every earnable badge is
// awarded idempotently. Only badges newly created by this call appear in
// Awarded.
//
// Credit increments are not rolled back if a later step fails; a failed
// batch is a caller-level retry hazard, not a transaction.
func (s *BadgeService) Credit(ctx context.Context, email string, behaviors []string) (*CreditResult, error) {
	if err := s.checkEmail(email); err != nil {
		return nil, err
	}
	if len(behaviors) == 0 {
		return nil, ErrNoBehaviors
	}
	for _, behavior := range behaviors {
		// Behavior shortnames become credit.<shortname> field paths in the
		// store; a dot or a leading $ would be read as path syntax.
		if behavior == "" || strings.HasPrefix(behavior, "$") || strings.Contains(behavior, ".") {
			return nil, ErrInvalidBehavior
		}
	}

	var user *models.UserCredit
	var candidates []models.Badge

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.credit.Increment(gctx, email, behaviors)
		if err != nil {
			return storeError(err)
		}
		user = u
		return nil
	})
	g.Go(func() error {
		b, err := s.catalog.FindByBehaviors(gctx, dedupe(behaviors))
		if err != nil {
			return storeError(err)
		}
		candidates = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var earnable []models.Badge
	result := &CreditResult{User: user, InProgress: []InProgressBadge{}}
	for _, badge := range candidates {
		if badge.EarnableBy(user.Credit) {
			earnable = append(earnable, badge)
			continue
		}
		result.InProgress = append(result.InProgress, InProgressBadge{
			Badge:     badge,
			Remaining: badge.CreditsUntilAward(user.Credit),
		})
	}

	// Awards touch independent (user, badge) keys, so they can race freely.
	instances := make([]*models.BadgeInstance, len(earnable))
	ag, actx := errgroup.WithContext(ctx)
	for i := range earnable {
		i := i
		ag.Go(func() error {
			instance, err := s.Award(actx, &earnable[i], email)
			if err != nil {
				return err
			}
			instances[i] = instance
			return nil
		})
	}
	if err := ag.Wait(); err != nil {
		return nil, err
	}

	result.Awarded = []models.BadgeInstance{}
	for _, instance := range instances {
		if instance != nil {
			result.Awarded = append(result.Awarded, *instance)
		}
	}
	return result, nil
}

// Award grants badge to email exactly once. If the user already holds an
// instance, Award returns nil with no error: already-have-it is a no-op, not
// a failure. The create-if-absent insert on the unique (user, badge) key is
// the single de-duplication gate.
func (s *BadgeService) Award(ctx context.Context, badge *models.Badge, email string) (*models.BadgeInstance, error) {
	issuedOn := time.Now()
	serialized, err := BuildAssertion(s.issuer, badge, email, issuedOn)
	if err != nil {
		return nil, err
	}

	instance := &models.BadgeInstance{
		User:      email,
		Badge:     badge.Shortname,
		Assertion: serialized,
		Hash:      HashAssertion(serialized),
		Seen:      false,
		IssuedOn:  issuedOn,
	}

	created, err := s.ledger.Insert(ctx, instance)
	if err != nil {
		return nil, storeError(err)
	}
	if !created {
		return nil, nil
	}

	s.logger.Info("badge awarded",
		zap.String("user", email),
		zap.String("badge", badge.Shortname))
	return instance, nil
}

// RedeemClaimCode spends a single-use claim code for a user and awards the
// bound badge, bypassing credit requirements entirely. An empty
// badgeShortname matches the code across all badges. Exactly one redemption
// of a code ever succeeds: the unclaimed -> claimed transition is a single
// compare-and-set at the store.
func (s *BadgeService) RedeemClaimCode(ctx context.Context, badgeShortname, code, email string) (*models.BadgeInstance, error) {
	if code == "" {
		return nil, ErrMissingClaimCode
	}
	if err := s.checkEmail(email); err != nil {
		return nil, err
	}

	badge, err := s.catalog.FindByClaimCode(ctx, badgeShortname, code)
	if err != nil {
		return nil, storeError(err)
	}
	if badge == nil {
		return nil, ErrUnknownClaimCode
	}
	if cc := badge.GetClaimCode(code); cc != nil && cc.Claimed {
		return nil, &AlreadyClaimedError{Code: code, ClaimedBy: cc.ClaimedBy}
	}

	claimed, err := s.catalog.ClaimCode(ctx, badge.Shortname, code, email, time.Now())
	if err != nil {
		return nil, storeError(err)
	}
	if !claimed {
		// Lost the race: someone claimed it between lookup and transition.
		return nil, s.alreadyClaimed(ctx, badge.Shortname, code)
	}

	s.logger.Info("claim code redeemed",
		zap.String("user", email),
		zap.String("badge", badge.Shortname),
		zap.String("code", code))

	instance, err := s.Award(ctx, badge, email)
	if err != nil {
		return nil, err
	}
	if instance == nil {
		// The user already held the badge; hand back the existing instance.
		instance, err = s.ledger.FindOne(ctx, email, badge.Shortname)
		if err != nil {
			return nil, storeError(err)
		}
	}
	return instance, nil
}

// GetUnclaimedBadgeInfo resolves a claim code to its badge definition,
// failing the same way redemption would if the code is unknown or spent.
func (s *BadgeService) GetUnclaimedBadgeInfo(ctx context.Context, code string) (*models.Badge, error) {
	if code == "" {
		return nil, ErrMissingClaimCode
	}
	badge, err := s.catalog.FindByClaimCode(ctx, "", code)
	if err != nil {
		return nil, storeError(err)
	}
	if badge == nil {
		return nil, ErrUnknownClaimCode
	}
	if cc := badge.GetClaimCode(code); cc != nil && cc.Claimed {
		return nil, &AlreadyClaimedError{Code: code, ClaimedBy: cc.ClaimedBy}
	}
	return badge, nil
}

// GetCreditsAndBadges returns a user's credit map and badge instances,
// fetched in parallel. A user with no credit record yields an empty map,
// not an error.
func (s *BadgeService) GetCreditsAndBadges(ctx context.Context, email string) (*CreditsAndBadges, error) {
	if err := s.checkEmail(email); err != nil {
		return nil, err
	}

	var user *models.UserCredit
	var instances []models.BadgeInstance

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.credit.Get(gctx, email)
		if err != nil {
			return storeError(err)
		}
		user = u
		return nil
	})
	g.Go(func() error {
		found, err := s.ledger.FindByUser(gctx, email)
		if err != nil {
			return storeError(err)
		}
		instances = found
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &CreditsAndBadges{
		Behaviors: map[string]int{},
		Badges:    map[string]models.BadgeInstance{},
	}
	if user != nil && user.Credit != nil {
		result.Behaviors = user.Credit
	}
	for _, instance := range instances {
		result.Badges[instance.Badge] = instance
	}
	return result, nil
}

// MarkAllBadgesSeen flags every badge instance of a user as acknowledged.
func (s *BadgeService) MarkAllBadgesSeen(ctx context.Context, email string) error {
	if err := s.checkEmail(email); err != nil {
		return err
	}
	if err := s.ledger.MarkAllSeen(ctx, email); err != nil {
		return storeError(err)
	}
	return nil
}

// ListBadges returns the full badge catalog.
func (s *BadgeService) ListBadges(ctx context.Context) ([]models.Badge, error) {
	badges, err := s.catalog.All(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return badges, nil
}

// GetBadge fetches one badge definition by shortname.
func (s *BadgeService) GetBadge(ctx context.Context, shortname string) (*models.Badge, error) {
	badge, err := s.catalog.FindByShortname(ctx, shortname)
	if err != nil {
		return nil, storeError(err)
	}
	if badge == nil {
		return nil, ErrUnknownBadge
	}
	return badge, nil
}

// CreateBadge adds a badge definition to the catalog.
func (s *BadgeService) CreateBadge(ctx context.Context, badge *models.Badge) error {
	if badge.CreatedAt.IsZero() {
		badge.CreatedAt = time.Now()
	}
	created, err := s.catalog.Insert(ctx, badge)
	if err != nil {
		return storeError(err)
	}
	if !created {
		return ErrBadgeExists
	}
	return nil
}

func (s *BadgeService) alreadyClaimed(ctx context.Context, shortname, code string) error {
	badge, err := s.catalog.FindByClaimCode(ctx, shortname, code)
	if err != nil {
		return storeError(err)
	}
	claimedBy := ""
	if badge != nil {
		if cc := badge.GetClaimCode(code); cc != nil {
			claimedBy = cc.ClaimedBy
		}
	}
	return &AlreadyClaimedError{Code: code, ClaimedBy: claimedBy}
}

func (s *BadgeService) checkEmail(email string) error {
	if email == "" {
		return ErrMissingEmail
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// dedupe collapses repeated behaviors for the catalog query; repeats only
// matter for the increment, not for candidate selection.
func dedupe(behaviors []string) []string {
	seen := make(map[string]bool, len(behaviors))
	unique := make([]string, 0, len(behaviors))
	for _, behavior := range behaviors {
		if !seen[behavior] {
			seen[behavior] = true
			unique = append(unique, behavior)
		}
	}
	return unique
}
