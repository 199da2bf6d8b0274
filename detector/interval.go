package detector

import (
	"time"

	"github.com/shuntapp/shunt/config"
)

// IntervalController adjusts the poll interval to the host's recognition
// speed. Cycles finishing well under the target budget shrink the interval
// toward the floor; cycles running over budget grow it toward the ceiling.
// Hysteresis: an adjustment only happens after a streak of consecutive
// deviations in the same direction, so the interval converges instead of
// oscillating on noisy latencies.
type IntervalController struct {
	floor      time.Duration
	ceiling    time.Duration
	step       time.Duration
	target     time.Duration
	hysteresis int

	interval   time.Duration
	fastStreak int
	slowStreak int
}

// NewIntervalController starts at the ceiling and works down as the host
// proves itself fast.
func NewIntervalController(cfg config.Detector) *IntervalController {
	return &IntervalController{
		floor:      cfg.PollFloor(),
		ceiling:    cfg.PollCeiling(),
		step:       cfg.AdjustStep(),
		target:     cfg.TargetCycle(),
		hysteresis: cfg.HysteresisCycles,
		interval:   cfg.PollCeiling(),
	}
}

// Interval returns the current poll interval.
func (c *IntervalController) Interval() time.Duration {
	return c.interval
}

// Observe records one cycle's latency and returns the interval to use for
// the next cycle.
func (c *IntervalController) Observe(cycle time.Duration) time.Duration {
	switch {
	case cycle < c.target/2:
		c.fastStreak++
		c.slowStreak = 0
	case cycle > c.target:
		c.slowStreak++
		c.fastStreak = 0
	default:
		// Within budget: no pressure in either direction.
		c.fastStreak = 0
		c.slowStreak = 0
	}

	if c.fastStreak >= c.hysteresis {
		c.fastStreak = 0
		c.interval -= c.step
		if c.interval < c.floor {
			c.interval = c.floor
		}
	}
	if c.slowStreak >= c.hysteresis {
		c.slowStreak = 0
		c.interval += c.step
		if c.interval > c.ceiling {
			c.interval = c.ceiling
		}
	}
	return c.interval
}
