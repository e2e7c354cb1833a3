package usecase

import (
	"context"
	"errors"
	"time"

	"novel-vip-service/internal/domain"
	"novel-vip-service/internal/domain/model"
	"novel-vip-service/internal/domain/ports/repository"
	"novel-vip-service/internal/infra/logging"
	"novel-vip-service/internal/infra/metrics"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// RedeemResult reports the outcome of a successful redemption.
type RedeemResult struct {
	NewExpiry   time.Time
	DaysGranted int
}

// Compile-time check
var _ RedemptionUseCase = (*redemptionUC)(nil)

type RedemptionUseCase interface {
	// Redeem validates and consumes a reward code for the account, stacking
	// the code's days onto the account's entitlement.
	Redeem(ctx context.Context, accountID, rawCode string) (*RedeemResult, error)
}

type redemptionUC struct {
	codes       repository.RewardCodeRepository
	entitlement EntitlementUseCase
	tm          repository.TransactionManager
	clock       Clock
	log         *zerolog.Logger
}

func NewRedemptionUseCase(codes repository.RewardCodeRepository, entitlement EntitlementUseCase, tm repository.TransactionManager, clock Clock, logger *zerolog.Logger) *redemptionUC {
	return &redemptionUC{
		codes:       codes,
		entitlement: entitlement,
		tm:          tm,
		clock:       clock,
		log:         logger,
	}
}

// Redeem runs the whole check-and-consume flow inside one transaction with a
// per-account advisory lock. The NEW->USED compare-and-set is the single
// point that prevents a code from granting entitlement twice: of N
// concurrent attempts on the same code, exactly one sees the CAS succeed.
func (u *redemptionUC) Redeem(ctx context.Context, accountID, rawCode string) (*RedeemResult, error) {
	defer logging.TraceDuration(u.log, "RedemptionUC.Redeem")()

	code := NormalizeCode(rawCode)
	if accountID == "" || code == "" {
		return nil, domain.ErrInvalidArgument
	}

	var res *RedeemResult
	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	err := u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		if err := lockAccount(ctx, tx, accountID); err != nil {
			return err
		}

		rc, err := u.codes.FindByCode(ctx, tx, code)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrCodeNotFound
			}
			return err
		}
		if rc.Status != model.CodeStatusNew {
			return domain.ErrCodeAlreadyUsed
		}

		now := u.clock.Now()
		if rc.ExpiredAt(now) {
			// Corrective write outside the transaction so it survives the
			// rollback: later attempts short-circuit on the stored state
			// instead of re-evaluating the window.
			if err := u.codes.MarkExpired(ctx, repository.NoTX, rc.Code); err != nil {
				u.log.Warn().Err(err).Str("code", rc.Code).Msg("failed to mark code expired")
			}
			return domain.ErrCodeExpired
		}

		ok, err := u.codes.MarkUsed(ctx, tx, rc.Code, accountID, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrCodeAlreadyUsed
		}

		_, newExpiry, err := u.entitlement.Grant(ctx, tx, accountID, rc.Days)
		if err != nil {
			return err
		}
		res = &RedeemResult{NewExpiry: newExpiry, DaysGranted: rc.Days}
		return nil
	})
	metrics.IncRedemption(outcomeLabel(err))
	if err != nil {
		return nil, err
	}

	u.log.Info().
		Str("account_id", accountID).
		Str("code", code).
		Int("days", res.DaysGranted).
		Time("vip_until", res.NewExpiry).
		Msg("reward code redeemed")
	return res, nil
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrCodeNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrCodeAlreadyUsed):
		return "already_used"
	case errors.Is(err, domain.ErrCodeExpired):
		return "expired"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "no_account"
	default:
		return "error"
	}
}
