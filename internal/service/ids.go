package service

import (
	"crypto/rand"
	"fmt"
	mrand "math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// IDGenerator issues identifiers for new records.
type IDGenerator interface {
	// TransactionID returns a lexically time-ordered id.
	TransactionID() string
	ItemID() string
	// MemberID returns a random five digit member number.
	MemberID() string
}

type idGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewIDGenerator() IDGenerator {
	return &idGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *idGenerator) TransactionID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy).String()
}

func (g *idGenerator) ItemID() string {
	return uuid.NewString()
}

// MemberID never returns DefaultAdminID.
func (g *idGenerator) MemberID() string {
	return fmt.Sprintf("%05d", 1+mrand.IntN(99999))
}
