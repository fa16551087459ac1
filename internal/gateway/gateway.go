package gateway

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Card carries the details presented for a card payment. The number is
// validated upstream; the gateway only sees it for authorization.
type Card struct {
	Number      string
	ExpiryMonth int
	ExpiryYear  int
	CVV         string
	HolderName  string
}

// Charge is the result of a successful authorization
type Charge struct {
	ID           string
	Amount       float64
	AuthorizedAt time.Time
}

// ErrDeclined is returned when the processor declines the charge
var ErrDeclined = errors.New("card declined by processor")

// Gateway authorizes card charges. The production deployment points this at
// a real processor; the simulated implementation below stands in everywhere
// else.
type Gateway interface {
	Authorize(ctx context.Context, card Card, amount float64) (*Charge, error)
}

// SimulatedGateway approximates a processor round trip: a fixed latency
// followed by a decline with the configured probability.
type SimulatedGateway struct {
	Latency     time.Duration
	DeclineRate float64
	rng         *rand.Rand
	now         func() time.Time
}

// Option configures a SimulatedGateway
type Option func(*SimulatedGateway)

// WithLatency overrides the simulated processor latency
func WithLatency(d time.Duration) Option {
	return func(g *SimulatedGateway) { g.Latency = d }
}

// WithDeclineRate overrides the decline probability (0..1)
func WithDeclineRate(rate float64) Option {
	return func(g *SimulatedGateway) { g.DeclineRate = rate }
}

// WithRand injects a deterministic random source
func WithRand(rng *rand.Rand) Option {
	return func(g *SimulatedGateway) { g.rng = rng }
}

// WithClock injects a clock
func WithClock(now func() time.Time) Option {
	return func(g *SimulatedGateway) { g.now = now }
}

// NewSimulatedGateway creates a gateway with processor-like defaults:
// 1.5s latency and a 5% decline rate.
func NewSimulatedGateway(opts ...Option) *SimulatedGateway {
	g := &SimulatedGateway{
		Latency:     1500 * time.Millisecond,
		DeclineRate: 0.05,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authorize waits out the simulated latency, honoring ctx cancellation,
// then either declines or returns a charge with a fresh reference ID.
func (g *SimulatedGateway) Authorize(ctx context.Context, card Card, amount float64) (*Charge, error) {
	if g.Latency > 0 {
		timer := time.NewTimer(g.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if g.rng.Float64() < g.DeclineRate {
		return nil, ErrDeclined
	}

	return &Charge{
		ID:           uuid.NewString(),
		Amount:       amount,
		AuthorizedAt: g.now(),
	}, nil
}
