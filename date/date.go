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

// Package date maps simulation days to calendar dates and implements
// the compact month-day codes used by rule predicates.
//
// A date code packs a month and day of month as 100*month + day, so
// "Jan-15" is 115 and "Dec-31" is 1231.  Codes compare naturally
// within a year and support wrap-around ranges such as Dec-15 through
// Jan-05.
package date

import (
	"fmt"
	"strings"
	"time"
)

// Weekday numbers as rule predicates see them.
const (
	Sun = iota
	Mon
	Tue
	Wed
	Thu
	Fri
	Sat
)

var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var weekdayNames = map[string]int{
	"sun": Sun, "mon": Mon, "tue": Tue, "wed": Wed,
	"thu": Thu, "fri": Fri, "sat": Sat,
	"sunday": Sun, "monday": Mon, "tuesday": Tue, "wednesday": Wed,
	"thursday": Thu, "friday": Fri, "saturday": Sat,
}

// Calendar anchors simulation day 0 at a real date.
type Calendar struct {
	start time.Time
}

// NewCalendar returns a calendar starting on the given date.  The
// time of day is discarded.
func NewCalendar(start time.Time) Calendar {
	y, m, d := start.Date()
	return Calendar{start: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Time returns the calendar date for a simulation day.
func (c Calendar) Time(day int) time.Time {
	return c.start.AddDate(0, 0, day)
}

// Code returns the month-day code for a simulation day.
func (c Calendar) Code(day int) int {
	t := c.Time(day)
	return int(t.Month())*100 + t.Day()
}

// Weekday returns the day of week for a simulation day, with Sunday
// as 0.
func (c Calendar) Weekday(day int) int {
	return int(c.Time(day).Weekday())
}

// IsWeekend reports whether a simulation day falls on Saturday or
// Sunday.
func (c Calendar) IsWeekend(day int) bool {
	wd := c.Weekday(day)
	return wd == Sat || wd == Sun
}

// ParseCode parses a "MMM-DD" string like "Jan-15" into a date code.
func ParseCode(s string) (int, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("bad date %q", s)
	}
	m, ok := monthNames[strings.ToLower(parts[0])]
	if !ok {
		return 0, fmt.Errorf("bad month in date %q", s)
	}
	var d int
	if _, err := fmt.Sscanf(parts[1], "%d", &d); err != nil || d < 1 || d > 31 {
		return 0, fmt.Errorf("bad day in date %q", s)
	}
	return int(m)*100 + d, nil
}

// CodeInRange reports whether code lies in the inclusive range
// [lo,hi].  A range with lo > hi wraps around the end of the year, so
// Dec-15 through Jan-05 covers late December and early January.
func CodeInRange(code, lo, hi int) bool {
	if lo <= hi {
		return lo <= code && code <= hi
	}
	return code >= lo || code <= hi
}

// Target is a parsed wait_until argument: a weekday name, an annual
// month-day date, or an absolute date.
type Target struct {
	kind     targetKind
	weekday  int
	code     int
	absolute time.Time
}

type targetKind int

const (
	targetWeekday targetKind = iota
	targetAnnual
	targetAbsolute
)

// ParseTarget parses a wait_until argument.  Accepted forms are a
// weekday name ("Sun", "Monday"), an annual date ("Jan-15"), and an
// absolute date ("2020-03-01").
func ParseTarget(s string) (Target, error) {
	if wd, ok := weekdayNames[strings.ToLower(s)]; ok {
		return Target{kind: targetWeekday, weekday: wd}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return Target{kind: targetAbsolute, absolute: t}, nil
	}
	code, err := ParseCode(s)
	if err != nil {
		return Target{}, fmt.Errorf("bad wait_until target %q", s)
	}
	return Target{kind: targetAnnual, code: code}, nil
}

// DaysUntil returns how many days after the given simulation day the
// target next occurs.  Weekday and annual targets always yield a
// future day, so waiting until "Sun" on a Sunday waits a full week.
// An absolute date already past yields 1.
func (c Calendar) DaysUntil(day int, tg Target) int {
	switch tg.kind {
	case targetWeekday:
		n := (tg.weekday - c.Weekday(day) + 7) % 7
		if n == 0 {
			n = 7
		}
		return n
	case targetAnnual:
		for n := 1; n <= 366; n++ {
			if c.Code(day+n) == tg.code {
				return n
			}
		}
		return 366
	default:
		n := int(tg.absolute.Sub(c.Time(day)).Hours() / 24)
		if n < 1 {
			n = 1
		}
		return n
	}
}
