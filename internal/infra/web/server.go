package web

import (
	"context"
	"net/http"
	"time"

	"novel-vip-service/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// SpinLimiter is the policy hook for capping spins per account per day.
// Satisfied by the redis rate limiter; nil disables the cap.
type SpinLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Server struct {
	wheelUC    usecase.WheelUseCase
	redeemUC   usecase.RedemptionUseCase
	purchaseUC usecase.PurchaseUseCase
	auth       *AuthManager
	spins      SpinLimiter
	spinLimit  int // per account per day; 0 means unlimited
	log        *zerolog.Logger
}

func NewServer(
	wheelUC usecase.WheelUseCase,
	redeemUC usecase.RedemptionUseCase,
	purchaseUC usecase.PurchaseUseCase,
	auth *AuthManager,
	spins SpinLimiter,
	spinLimit int,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		wheelUC:    wheelUC,
		redeemUC:   redeemUC,
		purchaseUC: purchaseUC,
		auth:       auth,
		spins:      spins,
		spinLimit:  spinLimit,
		log:        logger,
	}
}

// Routes builds the sandbox payment surface.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/api/payments/sandbox", func(r chi.Router) {
		r.Post("/spin", s.handleSpin)
		r.Post("/redeem", s.handleRedeem)
		r.Post("/buy", s.handleBuy)
		r.Post("/pay", s.handleBuy) // legacy alias kept for older clients
		r.Get("/status/{orderID}", s.handleOrderStatus)
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return r
}
