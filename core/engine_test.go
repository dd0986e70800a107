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

package core

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/Comcast/cohort/date"
)

func newTestEngine(t *testing.T, w *testWorld, sinks *Sinks, lines ...string) (*Engine, *Catalog) {
	t.Helper()
	cat := newTestCatalog()
	rg := NewRegistry(cat)
	for _, l := range lines {
		rg.AddRuleLine(l)
	}
	if err := rg.PrepareRules(); err != nil {
		t.Fatal(err)
	}
	en := NewEngine(Config{
		Catalog:  cat,
		Registry: rg,
		World:    w,
		Calendar: date.NewCalendar(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)),
		Sinks:    sinks,
		Seed:     42,
		Workers:  1,
	})
	return en, cat
}

// An exposed person incubates for uniform(2,4) days, so over many
// people the mean dwell time in E is three days.
func TestWaitExpressionDwellTime(t *testing.T) {
	w := newTestWorld()
	const n = 9000
	for i := 1; i <= n; i++ {
		w.add(newTestPerson(PersonID(i)))
	}
	en, _ := newTestEngine(t, w, nil,
		"if exposed(flu) then next(E)",
		"if state(flu.E) then wait(uniform(2,4))",
		"if state(flu.E) then next(I)",
	)
	en.Start(0)
	for _, pid := range w.People() {
		en.Expose(pid, 0, 0, -1, true)
	}

	moved := map[PersonID]int{}
	for day := 1; day <= 5; day++ {
		en.Tick(day)
		for _, pid := range w.People() {
			if _, done := moved[pid]; !done && w.people[pid].states[0] == 4 {
				moved[pid] = day
			}
		}
	}
	if len(moved) != n {
		t.Fatal(len(moved))
	}
	sum := 0.0
	for _, day := range moved {
		sum += float64(day)
	}
	mean := sum / n
	if math.Abs(mean-3.0) > 0.05 {
		t.Fatal(mean)
	}
}

// Next rules are independent Bernoulli trials in authored order, so
// with prob(0.1) then prob(0.9) the outcome split is 0.1, 0.81, 0.09.
func TestNextRulesInOrder(t *testing.T) {
	w := newTestWorld()
	const n = 20000
	for i := 1; i <= n; i++ {
		w.add(newTestPerson(PersonID(i)))
	}
	en, _ := newTestEngine(t, w, nil,
		"if exposed(flu) then next(E)",
		"if state(flu.E) then wait(1)",
		"if state(flu.E) then next(I) with prob(0.1)",
		"if state(flu.E) then next(R) with prob(0.9)",
		"if state(flu.E) then default(S)",
	)
	en.Start(0)
	for _, pid := range w.People() {
		en.Expose(pid, 0, 0, -1, true)
	}
	en.Tick(1)

	counts := map[int]int{}
	for _, pid := range w.People() {
		counts[w.people[pid].states[0]]++
	}
	frac := func(state int) float64 { return float64(counts[state]) / n }
	if math.Abs(frac(4)-0.10) > 0.02 {
		t.Fatal("I", frac(4))
	}
	if math.Abs(frac(5)-0.81) > 0.02 {
		t.Fatal("R", frac(5))
	}
	if math.Abs(frac(2)-0.09) > 0.02 {
		t.Fatal("S", frac(2))
	}
}

// An exposure cancels a queued departure and moves the person on the
// exposure day.
func TestExposureOverridesWait(t *testing.T) {
	w := newTestWorld()
	p := w.add(newTestPerson(1))
	p.states[0] = 2 // S
	en, _ := newTestEngine(t, w, nil,
		"if exposed(flu) then next(E)",
		"if state(flu.S) then wait(10)",
		"if state(flu.S) then next(R)",
	)
	en.Start(0)
	en.Tick(1)
	en.Expose(1, 0, 2, 0, false)
	if p.states[0] != 3 {
		t.Fatal(p.states[0])
	}
	// The old day-10 departure must not fire out of E.
	for day := 3; day <= 12; day++ {
		en.Tick(day)
	}
	if p.states[0] != 3 {
		t.Fatal(p.states[0])
	}
	if p.ExposureGroupType(0) != 0 {
		t.Fatal("exposure group type not recorded")
	}
}

// Variable writes are buffered until the end of the tick, so two
// increments in one tick both read the pre-tick value.
func TestBufferedWritesLastWins(t *testing.T) {
	w := newTestWorld()
	p := w.add(newTestPerson(1))
	en, _ := newTestEngine(t, w, nil,
		"if exposed(flu) then next(I)",
		"if state(flu.I) then set(counter,counter+1)",
		"if state(flu.I) then set(counter,counter+1)",
	)
	en.Start(0)
	en.Expose(1, 0, 0, -1, true)
	if p.Var(0) != 0 {
		t.Fatal("write applied early")
	}
	en.Tick(0)
	if p.Var(0) != 1 {
		t.Fatal(p.Var(0))
	}
}

// A buffered set_state takes hold at the end of the tick and the new
// state is entered then.
func TestSetStateAppliesAtTickEnd(t *testing.T) {
	w := newTestWorld()
	p := w.add(newTestPerson(1))
	en, _ := newTestEngine(t, w, nil,
		"if exposed(flu) then next(I)",
		"if state(flu.I) then set_state(flu,I,R)",
	)
	en.Start(0)
	en.Expose(1, 0, 0, -1, true)
	if p.states[0] != 4 {
		t.Fatal(p.states[0])
	}
	en.Tick(0)
	if p.states[0] != 5 {
		t.Fatal(p.states[0])
	}
}

func TestReportWritesHealthRecord(t *testing.T) {
	w := newTestWorld()
	p := w.add(newTestPerson(1))
	p.age = 42
	var health bytes.Buffer
	sinks := NewSinks(nil, nil, &health)
	en, _ := newTestEngine(t, w, sinks,
		"if exposed(flu) then next(I)",
		"if state(flu.I) then report(age)",
	)
	en.Start(0)
	en.Expose(1, 0, 0, -1, true)
	if got, want := health.String(), "0\t1\t0\t4\t42\n"; got != want {
		t.Fatalf("%q", got)
	}
}

func TestBirthAndDeath(t *testing.T) {
	w := newTestWorld()
	w.add(newTestPerson(1))
	en, _ := newTestEngine(t, w, nil,
		"if exposed(flu) then next(I)",
		"if state(flu.I) then give_birth()",
		"if state(flu.I) then die",
	)
	en.Start(0)
	en.Expose(1, 0, 0, -1, true)
	en.Tick(0)
	if w.Person(1) != nil {
		t.Fatal("person 1 should be gone")
	}
	if len(w.removed) != 1 || w.removed[0] != 1 {
		t.Fatal(w.removed)
	}
	baby := w.Person(1001)
	if baby == nil {
		t.Fatal("no baby")
	}
	if baby.State(0) != StartState {
		t.Fatal(baby.State(0))
	}
}

// Waiting until a weekday departs on the next such weekday.  Day 0 is
// Wednesday Jan 1 2020, so Sunday is day 4.
func TestWaitUntilWeekday(t *testing.T) {
	w := newTestWorld()
	p := w.add(newTestPerson(1))
	p.states[0] = 2 // S
	en, _ := newTestEngine(t, w, nil,
		"if state(flu.S) then wait(until_Sun)",
		"if state(flu.S) then next(R)",
	)
	en.Start(0)
	for day := 1; day <= 3; day++ {
		en.Tick(day)
		if p.states[0] != 2 {
			t.Fatal("moved early on day", day)
		}
	}
	en.Tick(4)
	if p.states[0] != 5 {
		t.Fatal(p.states[0])
	}
}

func TestImportActionsMerge(t *testing.T) {
	w := newTestWorld()
	w.add(newTestPerson(1))
	en, _ := newTestEngine(t, w, nil,
		"if state(flu.Start) then import_count(5)",
		"if state(flu.Start) then import_ages(0,18)",
	)
	en.Start(0)
	en.Tick(0)
	if len(w.imports) != 1 {
		t.Fatal(w.imports)
	}
	spec := w.imports[0].spec
	if spec.Count != 5 || spec.MinAge != 0 || spec.MaxAge != 18 {
		t.Fatalf("%+v", spec)
	}
}

func TestGlobalActionsFireOncePerTick(t *testing.T) {
	w := newTestWorld()
	w.add(newTestPerson(1))
	w.add(newTestPerson(2))
	w.add(newTestPerson(3))
	en, _ := newTestEngine(t, w, nil,
		"if state(flu.Start) then import_count(5)",
	)
	en.Start(0)
	en.Tick(0)
	if len(w.imports) != 1 {
		t.Fatal(w.imports)
	}
	if got := w.imports[0].spec.Count; got != 5 {
		t.Fatalf("import count = %d, want 5", got)
	}
}

func TestAttendanceAndClosureEffects(t *testing.T) {
	w := newTestWorld()
	home := &testPlace{id: 10, typeID: 0, members: []PersonID{1}}
	w.places[10] = home
	p := w.add(newTestPerson(1))
	p.groups[0] = home
	en, _ := newTestEngine(t, w, nil,
		"if exposed(flu) then next(I)",
		"if state(flu.I) then absent()",
		"if state(flu.I) then close(Household)",
	)
	en.Start(0)
	en.Expose(1, 0, 0, -1, true)
	en.Tick(0)
	if p.Present(0, 0) {
		t.Fatal("still attending")
	}
	// Closure starts the day after the tick.
	if !home.Open(0) {
		t.Fatal("closed too early")
	}
	if home.Open(1) {
		t.Fatal("should be closed")
	}
}
