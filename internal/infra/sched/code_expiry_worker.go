package sched

import (
	"context"
	"time"

	"novel-vip-service/internal/domain/ports/repository"
	"novel-vip-service/internal/infra/metrics"
	"novel-vip-service/internal/usecase"

	"github.com/rs/zerolog"
)

// CodeExpiryWorker periodically flips due NEW codes to EXPIRED. Redemption
// already handles expiry lazily; the sweep just keeps the table honest so
// reporting and later attempts see the stored terminal state.
type CodeExpiryWorker struct {
	interval time.Duration
	codes    repository.RewardCodeRepository
	clock    usecase.Clock
	log      *zerolog.Logger
}

func NewCodeExpiryWorker(interval time.Duration, codes repository.RewardCodeRepository, clock usecase.Clock, logger *zerolog.Logger) *CodeExpiryWorker {
	wlog := logger.With().Str("component", "CodeExpiryWorker").Logger()
	return &CodeExpiryWorker{
		interval: interval,
		codes:    codes,
		clock:    clock,
		log:      &wlog,
	}
}

func (w *CodeExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting code expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping code expiry worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.codes.ExpireDue(ctx, repository.NoTX, w.clock.Now())
			if err != nil {
				w.log.Error().Err(err).Msg("code expiry sweep error")
				continue
			}
			if n > 0 {
				metrics.IncCodesExpired(n)
				w.log.Info().Int("count", n).Msg("expired reward codes swept")
			}
		}
	}
}
