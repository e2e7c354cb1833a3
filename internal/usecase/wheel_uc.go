package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"novel-vip-service/internal/domain"
	"novel-vip-service/internal/domain/model"
	"novel-vip-service/internal/domain/ports/repository"
	"novel-vip-service/internal/infra/logging"
	"novel-vip-service/internal/infra/metrics"

	"github.com/rs/zerolog"
)

const (
	PrizeTypeNone      = "NONE"
	PrizeTypeVip1Day   = "VIP_1_DAY"
	PrizeTypeVip30Days = "VIP_30_DAYS"
)

// Prize is one slot of the wheel's prize table.
type Prize struct {
	Type   string
	Label  string
	Days   int
	Weight int
}

// DefaultPrizeTable matches production: half the spins lose.
// Order matters — the draw walks the slice in this fixed order.
var DefaultPrizeTable = []Prize{
	{Type: PrizeTypeNone, Label: "Better luck next time", Days: 0, Weight: 50},
	{Type: PrizeTypeVip1Day, Label: "1 day of VIP", Days: 1, Weight: 30},
	{Type: PrizeTypeVip30Days, Label: "30 days of VIP", Days: 30, Weight: 20},
}

// Rand is the wheel's injectable random source. math/rand satisfies it in
// production wiring; this is a game mechanic, not a security primitive.
type Rand interface {
	Intn(n int) int
}

// SpinResult carries the drawn prize and, for winning draws, the minted code.
type SpinResult struct {
	Prize Prize
	Code  *model.RewardCode // nil on a losing draw
}

// Compile-time check
var _ WheelUseCase = (*wheelUC)(nil)

type WheelUseCase interface {
	// Spin draws a prize for the account; a winning draw mints exactly one
	// reward code owned by that account. Each call is an independent trial;
	// rate limiting is the caller's policy.
	Spin(ctx context.Context, accountID string) (*SpinResult, error)
	// MintCode creates a code outside the wheel (admin/dev tooling).
	MintCode(ctx context.Context, days int, source model.CodeSource, ownerID *string, ttl time.Duration) (*model.RewardCode, error)
}

type wheelUC struct {
	codes   repository.RewardCodeRepository
	clock   Clock
	rng     Rand
	table   []Prize
	codeTTL time.Duration
	log     *zerolog.Logger
}

const defaultCodeTTL = 7 * 24 * time.Hour

// maxCodeAttempts bounds collision retries on the unique code constraint.
const maxCodeAttempts = 5

func NewWheelUseCase(codes repository.RewardCodeRepository, clock Clock, rng Rand, table []Prize, codeTTL time.Duration, logger *zerolog.Logger) (*wheelUC, error) {
	if len(table) == 0 {
		table = DefaultPrizeTable
	}
	if codeTTL <= 0 {
		codeTTL = defaultCodeTTL
	}
	total := 0
	for _, p := range table {
		if p.Weight < 0 {
			return nil, domain.ErrInvalidArgument
		}
		total += p.Weight
	}
	if total <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &wheelUC{
		codes:   codes,
		clock:   clock,
		rng:     rng,
		table:   table,
		codeTTL: codeTTL,
		log:     logger,
	}, nil
}

// draw picks a prize with probability proportional to its weight: a uniform
// value in [0, totalWeight) walked against the table in slice order. The
// stable linear scan keeps the distribution reproducible under a seeded RNG.
func (w *wheelUC) draw() Prize {
	total := 0
	for _, p := range w.table {
		total += p.Weight
	}
	n := w.rng.Intn(total)
	for _, p := range w.table {
		if n < p.Weight {
			return p
		}
		n -= p.Weight
	}
	// Unreachable: n < total and the weights sum to total.
	return w.table[len(w.table)-1]
}

func (w *wheelUC) Spin(ctx context.Context, accountID string) (*SpinResult, error) {
	defer logging.TraceDuration(w.log, "WheelUC.Spin")()

	if accountID == "" {
		return nil, domain.ErrInvalidArgument
	}

	prize := w.draw()
	metrics.IncWheelSpin(prize.Type)
	if prize.Days == 0 {
		w.log.Debug().Str("account_id", accountID).Msg("wheel spin lost")
		return &SpinResult{Prize: prize}, nil
	}

	code, err := w.mint(ctx, prize.Days, model.CodeSourceWheel, &accountID, w.codeTTL)
	if err != nil {
		return nil, err
	}
	w.log.Info().
		Str("account_id", accountID).
		Str("prize", prize.Type).
		Str("code", code.Code).
		Msg("wheel spin won")
	return &SpinResult{Prize: prize, Code: code}, nil
}

func (w *wheelUC) MintCode(ctx context.Context, days int, source model.CodeSource, ownerID *string, ttl time.Duration) (*model.RewardCode, error) {
	if days < 1 {
		return nil, domain.ErrInvalidArgument
	}
	return w.mint(ctx, days, source, ownerID, ttl)
}

func (w *wheelUC) mint(ctx context.Context, days int, source model.CodeSource, ownerID *string, ttl time.Duration) (*model.RewardCode, error) {
	var expiresAt *time.Time
	if ttl > 0 {
		e := w.clock.Now().Add(ttl)
		expiresAt = &e
	}
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		raw, err := generateRewardCode()
		if err != nil {
			return nil, fmt.Errorf("generate reward code: %w", err)
		}
		code, err := model.NewRewardCode(raw, days, source, ownerID, expiresAt)
		if err != nil {
			return nil, err
		}
		if err := w.codes.Save(ctx, repository.NoTX, code); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				continue
			}
			return nil, err
		}
		metrics.IncRewardCodeMinted(string(source))
		return code, nil
	}
	return nil, fmt.Errorf("could not allocate a unique reward code after %d attempts", maxCodeAttempts)
}
