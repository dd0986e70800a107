/* Copyright 2026 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package pop

import (
	"time"

	"github.com/gorhill/cronexpr"

	"github.com/Comcast/cohort/date"
)

// Schedule is a place's open-hours pattern as a cron expression.  A
// place with a schedule is open on a day when the expression fires at
// least once during that calendar day.
type Schedule struct {
	expr *cronexpr.Expression
	cal  date.Calendar
}

func ParseSchedule(cal date.Calendar, s string) (*Schedule, error) {
	expr, err := cronexpr.Parse(s)
	if err != nil {
		return nil, err
	}
	return &Schedule{expr: expr, cal: cal}, nil
}

// OpenOn reports whether the schedule fires during the given
// simulation day.
func (s *Schedule) OpenOn(day int) bool {
	start := s.cal.Time(day)
	next := s.expr.Next(start.Add(-time.Second))
	if next.IsZero() {
		return false
	}
	return next.Before(start.AddDate(0, 0, 1))
}
