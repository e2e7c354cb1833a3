package usecase

import (
	"context"
	"hash/fnv"

	"novel-vip-service/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
)

func hashToInt64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64() & ((1 << 63) - 1))
}

// lockAccount serializes entitlement writers for one account via an
// advisory xact lock. A non-pgx tx (in-memory repos in tests) is a no-op:
// there is no cross-process race to guard there.
func lockAccount(ctx context.Context, tx repository.Tx, accountID string) error {
	pgtx, ok := tx.(pgx.Tx)
	if !ok {
		return nil
	}
	_, err := pgtx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", hashToInt64(accountID))
	return err
}
