package usecase

import (
	"context"
	"sync"
	"time"

	"novel-vip-service/internal/domain"
	"novel-vip-service/internal/domain/model"
	"novel-vip-service/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// fixedClock returns a preset instant; tests advance it manually.
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// seqRand plays back scripted draw values, then repeats the last one.
type seqRand struct {
	vals []int
	i    int
}

func (r *seqRand) Intn(n int) int {
	if len(r.vals) == 0 {
		return 0
	}
	if r.i >= len(r.vals) {
		return r.vals[len(r.vals)-1] % n
	}
	v := r.vals[r.i]
	r.i++
	return v % n
}

// memTxManager runs the callback without a transaction handle, matching the
// nil-tx contract of the repository ports.
type memTxManager struct{}

func (memTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}

// memAccountRepo is a small in-memory implementation used by unit tests.
type memAccountRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.Account
	saveErr error // used by tests to simulate save failures
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{store: make(map[string]*model.Account)}
}

func (m *memAccountRepo) Save(ctx context.Context, _ repository.Tx, a *model.Account) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.store[a.ID] = &cp
	return nil
}

func (m *memAccountRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

// memCodeRepo keeps the same compare-and-set semantics the Postgres repo
// enforces with conditional updates, guarded here by a mutex so the
// concurrent-redemption test exercises the real invariant.
type memCodeRepo struct {
	mu       sync.Mutex
	store    map[string]*model.RewardCode
	saveErrs []error // consumed one per Save call; nil entries succeed
}

func newMemCodeRepo() *memCodeRepo {
	return &memCodeRepo{store: make(map[string]*model.RewardCode)}
}

func (m *memCodeRepo) Save(ctx context.Context, _ repository.Tx, code *model.RewardCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saveErrs) > 0 {
		err := m.saveErrs[0]
		m.saveErrs = m.saveErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, ok := m.store[code.Code]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *code
	m.store[code.Code] = &cp
	return nil
}

func (m *memCodeRepo) FindByCode(ctx context.Context, _ repository.Tx, code string) (*model.RewardCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCodeRepo) MarkUsed(ctx context.Context, _ repository.Tx, code, usedBy string, usedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[code]
	if !ok || c.Status != model.CodeStatusNew {
		return false, nil
	}
	c.Status = model.CodeStatusUsed
	c.UsedByID = &usedBy
	at := usedAt
	c.UsedAt = &at
	return true, nil
}

func (m *memCodeRepo) MarkExpired(ctx context.Context, _ repository.Tx, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[code]
	if !ok {
		return domain.ErrNotFound
	}
	if c.Status == model.CodeStatusNew {
		c.Status = model.CodeStatusExpired
	}
	return nil
}

func (m *memCodeRepo) ExpireDue(ctx context.Context, _ repository.Tx, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.store {
		if c.Status == model.CodeStatusNew && c.ExpiresAt != nil && !c.ExpiresAt.After(now) {
			c.Status = model.CodeStatusExpired
			n++
		}
	}
	return n, nil
}

// get returns the stored code without copy-on-read, for assertions.
func (m *memCodeRepo) get(code string) *model.RewardCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store[code]
}
