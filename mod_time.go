package sceneedit

import (
	"time"
)

type Time struct {
	Time time.Time
	Dt   time.Duration

	// FixedStep, when non-zero, replaces the measured delta.
	FixedStep time.Duration
}

// Seconds is Dt in seconds.
func (t *Time) Seconds() float64 {
	return t.Dt.Seconds()
}

type TimeModule struct {
	FixedStep time.Duration
	Now       func() time.Time
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	now := mod.Now
	if now == nil {
		now = time.Now
	}
	cmd.AddResources(&Time{
		Time:      now(),
		Dt:        0,
		FixedStep: mod.FixedStep,
	})
	cmd.UseSystem(System(func(t *Time) { timeSystem(t, now) }).InStage(Prelude))
}

func timeSystem(timeResource *Time, now func() time.Time) {
	current := now()

	if timeResource.FixedStep > 0 {
		timeResource.Dt = timeResource.FixedStep
	} else {
		timeResource.Dt = current.Sub(timeResource.Time)
	}
	timeResource.Time = current
}
