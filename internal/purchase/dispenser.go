package purchase

import (
	"context"
	"time"
)

// Dispenser models the physical dispensing delay of the machine.
type Dispenser interface {
	Dispense(ctx context.Context) error
}

// TimerDispenser waits for Delay on a timer, returning early with the
// context's error if ctx is done first.
type TimerDispenser struct {
	Delay time.Duration
}

func (d TimerDispenser) Dispense(ctx context.Context) error {
	if d.Delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
