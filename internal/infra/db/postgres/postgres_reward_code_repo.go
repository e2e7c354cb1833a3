package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"novel-vip-service/internal/domain"
	"novel-vip-service/internal/domain/model"
	"novel-vip-service/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.RewardCodeRepository = (*rewardCodeRepo)(nil)

type rewardCodeRepo struct {
	pool *pgxpool.Pool
}

func NewRewardCodeRepo(pool *pgxpool.Pool) repository.RewardCodeRepository {
	return &rewardCodeRepo{pool: pool}
}

// Save inserts a new code. The unique constraint on the code column is the
// collision guard; callers regenerate on domain.ErrAlreadyExists.
func (r *rewardCodeRepo) Save(ctx context.Context, tx repository.Tx, code *model.RewardCode) error {
	const q = `
INSERT INTO reward_codes (id, code, kind, days, status, source, owner_id, used_by, used_at, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`
	_, err := execSQL(ctx, r.pool, tx, q,
		code.ID, code.Code, string(code.Kind), code.Days, string(code.Status), string(code.Source),
		code.OwnerID, code.UsedByID, code.UsedAt, code.ExpiresAt, code.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByCode returns a code in any status; the redemption flow needs used
// and expired codes too, to report the right failure.
func (r *rewardCodeRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.RewardCode, error) {
	const q = `
SELECT id, code, kind, days, status, source, owner_id, used_by, used_at, expires_at, created_at
  FROM reward_codes
 WHERE code = $1;
`
	row, err := pickRow(ctx, r.pool, tx, q, code)
	if err != nil {
		return nil, err
	}

	var rc model.RewardCode
	err = row.Scan(
		&rc.ID, &rc.Code, &rc.Kind, &rc.Days, &rc.Status, &rc.Source,
		&rc.OwnerID, &rc.UsedByID, &rc.UsedAt, &rc.ExpiresAt, &rc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &rc, nil
}

// MarkUsed is the atomic NEW->USED transition. The status predicate in the
// WHERE clause makes the update a compare-and-set: a concurrent redeemer
// sees zero rows affected.
func (r *rewardCodeRepo) MarkUsed(ctx context.Context, tx repository.Tx, code, usedBy string, usedAt time.Time) (bool, error) {
	const q = `
UPDATE reward_codes
   SET status = 'used', used_by = $2, used_at = $3
 WHERE code = $1 AND status = 'new';
`
	tag, err := execSQL(ctx, r.pool, tx, q, code, usedBy, usedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *rewardCodeRepo) MarkExpired(ctx context.Context, tx repository.Tx, code string) error {
	const q = `
UPDATE reward_codes
   SET status = 'expired'
 WHERE code = $1 AND status = 'new';
`
	_, err := execSQL(ctx, r.pool, tx, q, code)
	return err
}

func (r *rewardCodeRepo) ExpireDue(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	const q = `
UPDATE reward_codes
   SET status = 'expired'
 WHERE status = 'new' AND expires_at IS NOT NULL AND expires_at <= $1;
`
	tag, err := execSQL(ctx, r.pool, tx, q, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
