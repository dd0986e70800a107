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

package date

import (
	"testing"
	"time"
)

func cal() Calendar {
	// 2020-01-01 was a Wednesday.
	return NewCalendar(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestCode(t *testing.T) {
	c := cal()
	if got := c.Code(0); got != 101 {
		t.Fatal(got)
	}
	if got := c.Code(31); got != 201 {
		t.Fatal(got)
	}
	// 2020 is a leap year.
	if got := c.Code(59); got != 229 {
		t.Fatal(got)
	}
}

func TestWeekday(t *testing.T) {
	c := cal()
	if got := c.Weekday(0); got != Wed {
		t.Fatal(got)
	}
	if !c.IsWeekend(3) { // Saturday Jan 4
		t.Fatal("expected weekend")
	}
	if c.IsWeekend(5) { // Monday Jan 6
		t.Fatal("expected weekday")
	}
}

func TestParseCode(t *testing.T) {
	for _, x := range []struct {
		in   string
		want int
	}{
		{"Jan-15", 115},
		{"dec-31", 1231},
		{"Feb-02", 202},
	} {
		got, err := ParseCode(x.in)
		if err != nil {
			t.Fatal(err)
		}
		if got != x.want {
			t.Fatal(x.in, got)
		}
	}
	for _, bad := range []string{"Foo-01", "Jan", "Jan-40", ""} {
		if _, err := ParseCode(bad); err == nil {
			t.Fatal(bad)
		}
	}
}

func TestCodeInRange(t *testing.T) {
	if !CodeInRange(615, 601, 630) {
		t.Fatal("inside plain range")
	}
	if CodeInRange(701, 601, 630) {
		t.Fatal("outside plain range")
	}
	// Wrap-around range: Dec-15 through Jan-05.
	if !CodeInRange(1220, 1215, 105) {
		t.Fatal("december inside wrap")
	}
	if !CodeInRange(103, 1215, 105) {
		t.Fatal("january inside wrap")
	}
	if CodeInRange(615, 1215, 105) {
		t.Fatal("june outside wrap")
	}
}

func TestDaysUntilWeekday(t *testing.T) {
	c := cal()
	tg, err := ParseTarget("Sun")
	if err != nil {
		t.Fatal(err)
	}
	if got := c.DaysUntil(0, tg); got != 4 { // Wed -> Sun
		t.Fatal(got)
	}
	// Waiting for Sunday on a Sunday waits a full week.
	if got := c.DaysUntil(4, tg); got != 7 {
		t.Fatal(got)
	}
}

func TestDaysUntilAnnual(t *testing.T) {
	c := cal()
	tg, err := ParseTarget("Jan-15")
	if err != nil {
		t.Fatal(err)
	}
	if got := c.DaysUntil(0, tg); got != 14 {
		t.Fatal(got)
	}
	// Already past this year: next January, across the leap day.
	if got := c.DaysUntil(20, tg); got != 360 {
		t.Fatal(got)
	}
}

func TestDaysUntilAbsolute(t *testing.T) {
	c := cal()
	tg, err := ParseTarget("2020-03-01")
	if err != nil {
		t.Fatal(err)
	}
	if got := c.DaysUntil(0, tg); got != 60 {
		t.Fatal(got)
	}
	// Past dates fire on the next day.
	if got := c.DaysUntil(100, tg); got != 1 {
		t.Fatal(got)
	}
}

func TestParseTargetRejectsJunk(t *testing.T) {
	if _, err := ParseTarget("whenever"); err == nil {
		t.Fatal("expected error")
	}
}
