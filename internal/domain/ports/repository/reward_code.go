package repository

import (
	"context"
	"time"

	"novel-vip-service/internal/domain/model"
)

// RewardCodeRepository is the port for minting and consuming reward codes.
//
// The NEW->USED transition is deliberately a conditional update on the port
// rather than a generic save: a plain read-then-write would let the same
// code grant entitlement twice under concurrent redemption.
type RewardCodeRepository interface {
	// Save inserts a new code. Returns domain.ErrAlreadyExists when the
	// code string collides with an existing one; callers retry generation.
	Save(ctx context.Context, tx Tx, code *model.RewardCode) error
	// FindByCode looks up a code by its normalized string, in any status.
	FindByCode(ctx context.Context, tx Tx, code string) (*model.RewardCode, error)
	// MarkUsed atomically transitions a code from NEW to USED. The boolean
	// is false when the code was no longer NEW (lost the race).
	MarkUsed(ctx context.Context, tx Tx, code, usedBy string, usedAt time.Time) (bool, error)
	// MarkExpired transitions a code from NEW to EXPIRED.
	MarkExpired(ctx context.Context, tx Tx, code string) error
	// ExpireDue bulk-expires NEW codes whose validity window closed at or
	// before now, returning how many were flipped.
	ExpireDue(ctx context.Context, tx Tx, now time.Time) (int, error)
}
