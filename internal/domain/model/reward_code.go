package model

import (
	"time"

	"novel-vip-service/internal/domain"

	"github.com/google/uuid"
)

type CodeStatus string

const (
	CodeStatusNew     CodeStatus = "new"
	CodeStatusUsed    CodeStatus = "used"
	CodeStatusExpired CodeStatus = "expired"
)

type CodeKind string

const (
	CodeKindDay   CodeKind = "day"
	CodeKindMonth CodeKind = "month"
)

type CodeSource string

const (
	CodeSourceWheel   CodeSource = "wheel"
	CodeSourceSandbox CodeSource = "sandbox"
	CodeSourceAdmin   CodeSource = "admin"
)

// RewardCode is a single-use token that grants a fixed number of VIP days
// when consumed. Status only ever leaves "new" once: to "used" through the
// redemption compare-and-set, or to "expired" when the validity window has
// closed. Both end states are terminal.
type RewardCode struct {
	ID        string
	Code      string // normalized uppercase, globally unique
	Kind      CodeKind
	Days      int
	Status    CodeStatus
	Source    CodeSource
	OwnerID   *string    // account the code was minted for, if any
	UsedByID  *string    // account that consumed it
	UsedAt    *time.Time
	ExpiresAt *time.Time // nil means the code never expires
	CreatedAt time.Time
}

func NewRewardCode(code string, days int, source CodeSource, ownerID *string, expiresAt *time.Time) (*RewardCode, error) {
	if code == "" || days < 1 {
		return nil, domain.ErrInvalidArgument
	}
	kind := CodeKindDay
	if days >= 30 {
		kind = CodeKindMonth
	}
	return &RewardCode{
		ID:        uuid.NewString(),
		Code:      code,
		Kind:      kind,
		Days:      days,
		Status:    CodeStatusNew,
		Source:    source,
		OwnerID:   ownerID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}, nil
}

// ExpiredAt reports whether the validity window has closed at the given
// instant. The boundary is inclusive: a code with ExpiresAt equal to now
// is already expired.
func (c *RewardCode) ExpiredAt(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}
