package device

import (
	"context"
	"sync/atomic"
	"time"
)

// A Clock paces frames. Wait blocks until the next frame is due.
type Clock interface {
	Wait(ctx context.Context) error
}

// TimerClock raises a flag at a fixed rate the way a timer interrupt handler
// would. Wait is the only place the player suspends.
type TimerClock struct {
	ticker  *time.Ticker
	flag    chan struct{}
	done    chan struct{}
	dropped atomic.Int64
}

// NewTimerClock returns a running TimerClock ticking fps times a second.
func NewTimerClock(fps float64) *TimerClock {
	c := &TimerClock{
		ticker: time.NewTicker(time.Duration(float64(time.Second) / fps)),
		flag:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go c.interrupt()
	return c
}

func (c *TimerClock) interrupt() {
	for {
		select {
		case <-c.ticker.C:
			select {
			case c.flag <- struct{}{}:
			default:
				// Flag still raised, the frame is late
				c.dropped.Add(1)
			}
		case <-c.done:
			return
		}
	}
}

// Wait blocks until the flag is raised and then clears it.
func (c *TimerClock) Wait(ctx context.Context) error {
	select {
	case <-c.flag:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped returns the number of ticks that arrived while the flag was
// already raised.
func (c *TimerClock) Dropped() int64 {
	return c.dropped.Load()
}

// Stop stops the clock.
func (c *TimerClock) Stop() {
	c.ticker.Stop()
	close(c.done)
}

// FreeRunning is a Clock that never waits.
type FreeRunning struct{}

// Wait implements Clock.
func (FreeRunning) Wait(ctx context.Context) error {
	return ctx.Err()
}
