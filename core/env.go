package core

import (
	"fmt"

	"github.com/Comcast/cohort/date"
	"github.com/Comcast/cohort/geo"
	"github.com/Comcast/cohort/rnd"
)

// Env is everything an expression evaluation can touch besides the
// persons themselves.  Each worker carries its own Env so the random
// source is never shared.
type Env struct {
	World World
	Day   int
	Cal   date.Calendar
	Proj  geo.Projection
	Rnd   *rnd.Source

	// Warn receives runtime degradation diagnostics.  May be nil.
	Warn func(error)
}

func (ev *Env) warnf(format string, args ...interface{}) {
	if ev.Warn == nil {
		return
	}
	ev.Warn(&RuleWarning{Reason: fmt.Sprintf(format, args...)})
}
