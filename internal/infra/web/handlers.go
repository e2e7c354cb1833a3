package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"novel-vip-service/internal/domain"

	"github.com/go-chi/chi/v5"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidPlan):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCodeNotFound), errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCodeAlreadyUsed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrCodeExpired):
		return http.StatusGone
	case errors.Is(err, domain.ErrSpinLimit):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, err error, fallback string) {
	status := statusForError(err)
	msg := fallback
	if status != http.StatusInternalServerError {
		msg = err.Error()
	} else {
		s.log.Error().Err(err).Msg(fallback)
	}
	writeError(w, status, msg)
}

func (s *Server) handleSpin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID, err := s.auth.AccountID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	if s.spins != nil && s.spinLimit > 0 {
		ok, err := s.spins.Allow(ctx, spinKey(accountID), s.spinLimit, 24*time.Hour)
		if err != nil {
			s.fail(w, err, "spin limiter unavailable")
			return
		}
		if !ok {
			s.fail(w, domain.ErrSpinLimit, "")
			return
		}
	}

	res, err := s.wheelUC.Spin(ctx, accountID)
	if err != nil {
		s.fail(w, err, "spin failed")
		return
	}

	response := struct {
		PrizeType  string  `json:"prizeType"`
		PrizeLabel string  `json:"prizeLabel"`
		VipCode    *string `json:"vipCode"`
		Days       int     `json:"days"`
	}{
		PrizeType:  res.Prize.Type,
		PrizeLabel: res.Prize.Label,
		Days:       res.Prize.Days,
	}
	if res.Code != nil {
		response.VipCode = &res.Code.Code
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleRedeem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID, err := s.auth.AccountID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	res, err := s.redeemUC.Redeem(ctx, accountID, req.Code)
	if err != nil {
		s.fail(w, err, "redeem failed")
		return
	}

	response := struct {
		Message  string    `json:"message"`
		VipUntil time.Time `json:"vipUntil"`
		Days     int       `json:"days"`
	}{
		Message:  "code redeemed",
		VipUntil: res.NewExpiry,
		Days:     res.DaysGranted,
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID, err := s.auth.AccountID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req struct {
		Plan string `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Plan == "" {
		writeError(w, http.StatusBadRequest, "plan is required")
		return
	}

	res, err := s.purchaseUC.Purchase(ctx, accountID, req.Plan)
	if err != nil {
		s.fail(w, err, "purchase failed")
		return
	}

	response := struct {
		OK      bool   `json:"ok"`
		OrderID string `json:"orderId"`
		Status  string `json:"status"`
		User    struct {
			ID       string     `json:"id"`
			IsVip    bool       `json:"isVip"`
			VipUntil *time.Time `json:"vipUntil"`
		} `json:"user"`
	}{
		OK:      true,
		OrderID: res.Order.OrderID,
		Status:  res.Order.Status,
	}
	response.User.ID = res.Account.ID
	response.User.IsVip = res.Account.IsVip
	response.User.VipUntil = res.Account.VipUntil
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "orderID")

	status, err := s.purchaseUC.OrderStatus(ctx, orderID)
	if err != nil {
		s.fail(w, err, "status lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		OK     bool   `json:"ok"`
		Status string `json:"status"`
	}{OK: true, Status: status})
}

func spinKey(accountID string) string {
	return "rate_limit:spin:" + accountID
}
