package timing

import "time"

// TickerLimiter uses time.Ticker for simple, consistent frame timing.
type TickerLimiter struct {
	ticker   *time.Ticker
	ch       <-chan time.Time
	interval time.Duration
}

// NewTickerLimiter returns a limiter ticking fps times per second.
func NewTickerLimiter(fps float64) (*TickerLimiter, error) {
	interval, err := FrameDuration(fps)
	if err != nil {
		return nil, err
	}
	ticker := time.NewTicker(interval)
	return &TickerLimiter{
		ticker:   ticker,
		ch:       ticker.C,
		interval: interval,
	}, nil
}

func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ch
}

func (t *TickerLimiter) Reset() {
	t.ticker.Reset(t.interval)
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}

// Interval returns the time between frames.
func (t *TickerLimiter) Interval() time.Duration {
	return t.interval
}
