package usecase

import (
	"context"
	"strings"
	"time"

	"novel-vip-service/internal/domain"
	"novel-vip-service/internal/domain/model"
	"novel-vip-service/internal/domain/ports/repository"
	"novel-vip-service/internal/infra/logging"
	"novel-vip-service/internal/infra/metrics"

	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// planSpec holds the duration and display price of a sandbox plan.
// Prices are informational only; nothing validates them against a gateway.
type planSpec struct {
	Days   int
	Amount int64
}

var planTable = map[model.PurchasePlan]planSpec{
	model.PlanDay:   {Days: 1, Amount: 500},
	model.PlanMonth: {Days: 30, Amount: 10000},
}

// ResolvePlan maps client plan identifiers (including legacy aliases) to a
// purchase plan.
func ResolvePlan(raw string) (model.PurchasePlan, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "vip1d", "day":
		return model.PlanDay, nil
	case "vip1m", "month":
		return model.PlanMonth, nil
	}
	return "", domain.ErrInvalidPlan
}

// PurchaseResult carries the synthetic order and the updated account.
type PurchaseResult struct {
	Order     *model.PurchaseOrder
	Account   *model.Account
	NewExpiry time.Time
}

// Compile-time check
var _ PurchaseUseCase = (*purchaseUC)(nil)

type PurchaseUseCase interface {
	// Purchase grants the plan's days directly, bypassing reward codes, and
	// returns a confirmation that is always "paid" in sandbox mode.
	Purchase(ctx context.Context, accountID, rawPlan string) (*PurchaseResult, error)
	// OrderStatus reports the status of a sandbox order.
	OrderStatus(ctx context.Context, orderID string) (string, error)
}

type purchaseUC struct {
	entitlement EntitlementUseCase
	tm          repository.TransactionManager
	clock       Clock
	log         *zerolog.Logger
}

func NewPurchaseUseCase(entitlement EntitlementUseCase, tm repository.TransactionManager, clock Clock, logger *zerolog.Logger) *purchaseUC {
	return &purchaseUC{entitlement: entitlement, tm: tm, clock: clock, log: logger}
}

func (u *purchaseUC) Purchase(ctx context.Context, accountID, rawPlan string) (*PurchaseResult, error) {
	defer logging.TraceDuration(u.log, "PurchaseUC.Purchase")()

	if accountID == "" {
		return nil, domain.ErrInvalidArgument
	}
	plan, err := ResolvePlan(rawPlan)
	if err != nil {
		return nil, err
	}
	spec := planTable[plan]

	var res *PurchaseResult
	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	err = u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		if err := lockAccount(ctx, tx, accountID); err != nil {
			return err
		}
		acct, newExpiry, err := u.entitlement.Grant(ctx, tx, accountID, spec.Days)
		if err != nil {
			return err
		}
		now := u.clock.Now()
		res = &PurchaseResult{
			Order: &model.PurchaseOrder{
				OrderID:   model.NewOrderID(now),
				Plan:      plan,
				Amount:    spec.Amount,
				Status:    "paid",
				CreatedAt: now,
			},
			Account:   acct,
			NewExpiry: newExpiry,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncSandboxPurchase(string(plan))
	u.log.Info().
		Str("account_id", accountID).
		Str("plan", string(plan)).
		Str("order_id", res.Order.OrderID).
		Time("vip_until", res.NewExpiry).
		Msg("sandbox purchase confirmed")
	return res, nil
}

// OrderStatus always reports "paid": sandbox orders have no pending or
// declined states and are not persisted as a ledger. The id is only checked
// for shape so garbage input still maps to a 400.
func (u *purchaseUC) OrderStatus(ctx context.Context, orderID string) (string, error) {
	if _, err := ulid.ParseStrict(strings.ToUpper(strings.TrimSpace(orderID))); err != nil {
		return "", domain.ErrInvalidArgument
	}
	return "paid", nil
}
