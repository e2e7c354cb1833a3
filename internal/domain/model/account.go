package model

import (
	"time"

	"novel-vip-service/internal/domain"

	"github.com/google/uuid"
)

// Account mirrors the reader-platform user document. This service owns only
// the entitlement pair (IsVip, VipUntil); everything else is read-only here.
type Account struct {
	ID        string
	Username  string
	IsVip     bool
	VipUntil  *time.Time
	CreatedAt time.Time
}

func NewAccount(id, username string) (*Account, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if username == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Account{
		ID:        id,
		Username:  username,
		CreatedAt: time.Now(),
	}, nil
}

// IsVipActive reports whether the account is VIP at the given instant:
// flagged as VIP, or holding an entitlement that expires after now.
func (a *Account) IsVipActive(now time.Time) bool {
	if a == nil {
		return false
	}
	if a.IsVip {
		return true
	}
	return a.VipUntil != nil && a.VipUntil.After(now)
}

func (a *Account) IsZero() bool { return a == nil || a.ID == "" }
