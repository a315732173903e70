// Package schedule holds accepted messages for a randomized future send
// time bounded by a daily local-time window.
package schedule

import (
	"math/rand"
	"time"

	"github.com/nhle/mail-agent/internal/model"
)

// Planner computes randomized send times and evaluates the sending window.
// The random source and timezone are injectable so tests can use a seeded
// source and a fixed location.
type Planner struct {
	cfg ScheduleConfig
	rng *rand.Rand
	loc *time.Location
}

// ScheduleConfig is the window and delay configuration the planner works
// from. It is read-only after startup.
type ScheduleConfig = model.ScheduleConfig

// PlannerOption customizes a Planner.
type PlannerOption func(*Planner)

// WithRand replaces the planner's random source.
func WithRand(rng *rand.Rand) PlannerOption {
	return func(p *Planner) { p.rng = rng }
}

// WithLocation replaces the timezone used for window checks.
func WithLocation(loc *time.Location) PlannerOption {
	return func(p *Planner) { p.loc = loc }
}

// NewPlanner builds a Planner for the given schedule configuration.
func NewPlanner(cfg ScheduleConfig, opts ...PlannerOption) *Planner {
	p := &Planner{
		cfg: cfg,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		loc: time.Local,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PlanSendTime draws a uniformly random offset in [MinDelay, MaxDelay]
// and adds it to now. The offset is drawn once per message at enqueue
// time and never recomputed.
func (p *Planner) PlanSendTime(now time.Time) time.Time {
	min := p.cfg.MinDelay()
	max := p.cfg.MaxDelay()

	delay := min
	if span := max - min; span > 0 {
		delay += time.Duration(p.rng.Int63n(int64(span) + 1))
	}
	return now.Add(delay)
}

// InWindow reports whether the local hour of t falls in
// [StartHour, EndHour).
func (p *Planner) InWindow(t time.Time) bool {
	hour := t.In(p.loc).Hour()
	return hour >= p.cfg.StartHour && hour < p.cfg.EndHour
}
