package gateway

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizeReturnsCharge(t *testing.T) {
	gw := NewSimulatedGateway(
		WithLatency(0),
		WithDeclineRate(0),
	)

	card := Card{Number: "4532015112830366", ExpiryMonth: 12, ExpiryYear: 2099, CVV: "123"}
	charge, err := gw.Authorize(context.Background(), card, 86.40)

	assert.NoError(t, err)
	assert.NotEmpty(t, charge.ID)
	assert.Equal(t, 86.40, charge.Amount)
	assert.False(t, charge.AuthorizedAt.IsZero())
}

func TestAuthorizeAlwaysDeclines(t *testing.T) {
	gw := NewSimulatedGateway(
		WithLatency(0),
		WithDeclineRate(1.0),
	)

	_, err := gw.Authorize(context.Background(), Card{}, 50.00)
	assert.ErrorIs(t, err, ErrDeclined)
}

func TestAuthorizeDeterministicWithSeededRand(t *testing.T) {
	run := func() []error {
		gw := NewSimulatedGateway(
			WithLatency(0),
			WithDeclineRate(0.5),
			WithRand(rand.New(rand.NewSource(42))),
		)
		errs := make([]error, 0, 20)
		for i := 0; i < 20; i++ {
			_, err := gw.Authorize(context.Background(), Card{}, 10.00)
			errs = append(errs, err)
		}
		return errs
	}

	first := run()
	second := run()
	assert.Equal(t, first, second, "same seed must produce the same decline sequence")
}

func TestAuthorizeHonorsContextCancellation(t *testing.T) {
	gw := NewSimulatedGateway(
		WithLatency(5 * time.Second),
		WithDeclineRate(0),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := gw.Authorize(ctx, Card{}, 25.00)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second, "cancellation must not wait out the full latency")
}

func TestDefaultsMatchProcessorProfile(t *testing.T) {
	gw := NewSimulatedGateway()
	assert.Equal(t, 1500*time.Millisecond, gw.Latency)
	assert.Equal(t, 0.05, gw.DeclineRate)
}
