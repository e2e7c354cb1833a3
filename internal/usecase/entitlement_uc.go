package usecase

import (
	"context"
	"errors"
	"time"

	"novel-vip-service/internal/domain"
	"novel-vip-service/internal/domain/model"
	"novel-vip-service/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ EntitlementUseCase = (*entitlementUC)(nil)

// EntitlementUseCase is the only writer of an account's IsVip/VipUntil pair.
// Both the redemption and the sandbox purchase paths grant through it, so
// stacking semantics live in exactly one place.
type EntitlementUseCase interface {
	// Grant extends the account's entitlement by days and persists it,
	// returning the updated account and the new expiry instant. Callers
	// that need atomicity pass the surrounding transaction handle.
	Grant(ctx context.Context, tx repository.Tx, accountID string, days int) (*model.Account, time.Time, error)
	// IsVipActive is the read-only entitlement predicate used by content
	// access checks elsewhere in the platform.
	IsVipActive(ctx context.Context, accountID string) (bool, error)
}

type entitlementUC struct {
	accounts repository.AccountRepository
	clock    Clock
	log      *zerolog.Logger
}

func NewEntitlementUseCase(accounts repository.AccountRepository, clock Clock, logger *zerolog.Logger) *entitlementUC {
	return &entitlementUC{accounts: accounts, clock: clock, log: logger}
}

func (u *entitlementUC) Grant(ctx context.Context, tx repository.Tx, accountID string, days int) (*model.Account, time.Time, error) {
	if accountID == "" || days < 0 {
		return nil, time.Time{}, domain.ErrInvalidArgument
	}
	acct, err := u.accounts.FindByID(ctx, tx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, time.Time{}, domain.ErrAccountNotFound
		}
		return nil, time.Time{}, err
	}

	newExpiry := model.ExtendEntitlement(u.clock.Now(), acct.VipUntil, days)
	acct.IsVip = true
	acct.VipUntil = &newExpiry
	if err := u.accounts.Save(ctx, tx, acct); err != nil {
		return nil, time.Time{}, err
	}

	u.log.Info().
		Str("account_id", accountID).
		Int("days", days).
		Time("vip_until", newExpiry).
		Msg("entitlement granted")
	return acct, newExpiry, nil
}

func (u *entitlementUC) IsVipActive(ctx context.Context, accountID string) (bool, error) {
	acct, err := u.accounts.FindByID(ctx, repository.NoTX, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, domain.ErrAccountNotFound
		}
		return false, err
	}
	return acct.IsVipActive(u.clock.Now()), nil
}
