package usecase

import "time"

// Clock abstracts the ambient time source so entitlement arithmetic and
// expiry checks are deterministic in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func NewRealClock() Clock { return realClock{} }
