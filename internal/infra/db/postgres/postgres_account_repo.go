package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"novel-vip-service/internal/domain"
	"novel-vip-service/internal/domain/model"
	"novel-vip-service/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.AccountRepository = (*accountRepo)(nil)

type accountRepo struct {
	pool *pgxpool.Pool
}

func NewAccountRepo(pool *pgxpool.Pool) repository.AccountRepository {
	return &accountRepo{pool: pool}
}

// Save upserts the account. Only the entitlement pair is updated on
// conflict; identity columns belong to the platform's user service.
func (r *accountRepo) Save(ctx context.Context, tx repository.Tx, a *model.Account) error {
	const q = `
INSERT INTO accounts (id, username, is_vip, vip_until, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
  is_vip = EXCLUDED.is_vip,
  vip_until = EXCLUDED.vip_until;
`
	_, err := execSQL(ctx, r.pool, tx, q, a.ID, a.Username, a.IsVip, a.VipUntil, a.CreatedAt)
	return err
}

func (r *accountRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Account, error) {
	const q = `
SELECT id, username, is_vip, vip_until, created_at
  FROM accounts
 WHERE id = $1;
`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}

	var a model.Account
	err = row.Scan(&a.ID, &a.Username, &a.IsVip, &a.VipUntil, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &a, nil
}
