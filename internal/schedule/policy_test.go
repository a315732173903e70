package schedule

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mail-agent/internal/model"
)

func testConfig() ScheduleConfig {
	return model.ScheduleConfig{
		StartHour:   7,
		EndHour:     24,
		MinDelaySec: 3600,
		MaxDelaySec: 6 * 3600,
	}
}

func TestPlanSendTimeWithinBounds(t *testing.T) {
	p := NewPlanner(testConfig(), WithRand(rand.New(rand.NewSource(42))))
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 200; i++ {
		at := p.PlanSendTime(now)
		delay := at.Sub(now)
		assert.GreaterOrEqual(t, delay, time.Hour)
		assert.LessOrEqual(t, delay, 6*time.Hour)
	}
}

func TestPlanSendTimeDeterministicWithSeed(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	a := NewPlanner(testConfig(), WithRand(rand.New(rand.NewSource(7))))
	b := NewPlanner(testConfig(), WithRand(rand.New(rand.NewSource(7))))

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.PlanSendTime(now), b.PlanSendTime(now))
	}
}

func TestPlanSendTimeZeroSpan(t *testing.T) {
	cfg := testConfig()
	cfg.MinDelaySec = 300
	cfg.MaxDelaySec = 300
	p := NewPlanner(cfg)

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(5*time.Minute), p.PlanSendTime(now))
}

func TestInWindow(t *testing.T) {
	p := NewPlanner(testConfig(), WithLocation(time.UTC))

	cases := []struct {
		hour int
		want bool
	}{
		{0, false},
		{6, false},
		{7, true},
		{12, true},
		{23, true},
	}
	for _, tc := range cases {
		at := time.Date(2025, 3, 10, tc.hour, 30, 0, 0, time.UTC)
		assert.Equal(t, tc.want, p.InWindow(at), "hour %d", tc.hour)
	}
}

func TestInWindowEndHourExclusive(t *testing.T) {
	cfg := testConfig()
	cfg.StartHour = 9
	cfg.EndHour = 17
	p := NewPlanner(cfg, WithLocation(time.UTC))

	assert.True(t, p.InWindow(time.Date(2025, 3, 10, 16, 59, 59, 0, time.UTC)))
	assert.False(t, p.InWindow(time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)))
}

func TestInWindowUsesConfiguredLocation(t *testing.T) {
	loc := time.FixedZone("PST", -8*3600)
	cfg := testConfig()
	p := NewPlanner(cfg, WithLocation(loc))

	// 14:00 UTC is 06:00 PST, one hour before the window opens.
	at := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	require.False(t, p.InWindow(at))

	// 15:00 UTC is 07:00 PST, the opening hour.
	assert.True(t, p.InWindow(at.Add(time.Hour)))
}
