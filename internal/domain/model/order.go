package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type PurchasePlan string

const (
	PlanDay   PurchasePlan = "day"
	PlanMonth PurchasePlan = "month"
)

// PurchaseOrder is the synthetic confirmation returned by the sandbox
// purchase path. It is constructed and returned synchronously and never
// persisted; there is no pending or declined state in sandbox mode.
type PurchaseOrder struct {
	OrderID   string
	Plan      PurchasePlan
	Amount    int64
	Status    string // always "paid"
	CreatedAt time.Time
}

// NewOrderID returns an opaque, lexicographically sortable order id.
func NewOrderID(now time.Time) string {
	return ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()
}
