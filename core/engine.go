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
	"container/heap"
	"log/slog"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Comcast/cohort/date"
	"github.com/Comcast/cohort/geo"
	"github.com/Comcast/cohort/rnd"
)

// The engine drives the per-person per-condition state machines.  A
// person entering a state runs that state's action rules and
// schedules its departure via the state's wait rule.  On the
// scheduled day the state's next rules are tried in authored order,
// falling through to the default rule.  An exposure overrides the
// schedule and moves the person on the exposure day.

type waitKey struct {
	p    PersonID
	cond int
}

type waitItem struct {
	day int
	seq uint64
	key waitKey
}

// waitHeap orders departures by day, then by scheduling order.
type waitHeap []waitItem

func (h waitHeap) Len() int { return len(h) }
func (h waitHeap) Less(i, j int) bool {
	if h[i].day != h[j].day {
		return h[i].day < h[j].day
	}
	return h[i].seq < h[j].seq
}
func (h waitHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *waitHeap) Push(x interface{}) { *h = append(*h, x.(waitItem)) }
func (h *waitHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Config assembles an Engine.  Nothing here is process-global; two
// engines can run side by side.
type Config struct {
	Catalog    *Catalog
	Registry   *Registry
	World      World
	Calendar   date.Calendar
	Projection geo.Projection
	Sinks      *Sinks
	Logger     *slog.Logger
	Seed       uint64
	Workers    int
}

type Engine struct {
	cat   *Catalog
	reg   *Registry
	w     World
	cal   date.Calendar
	proj  geo.Projection
	sinks *Sinks
	log   *slog.Logger

	effects *Effects
	waits   waitHeap
	pending map[waitKey]uint64
	nextSeq uint64

	// globalDay remembers, per (condition, state), the last day the
	// state's global action rules ran.
	globalDay map[stateKey]int

	envs []*Env // envs[0] also serves the serial phases
}

func NewEngine(cfg Config) *Engine {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	en := &Engine{
		cat:     cfg.Catalog,
		reg:     cfg.Registry,
		w:       cfg.World,
		cal:     cfg.Calendar,
		proj:    cfg.Projection,
		sinks:   cfg.Sinks,
		log:     logger,
		effects: NewEffects(),
		pending: map[waitKey]uint64{},

		globalDay: map[stateKey]int{},
	}
	for i := 0; i < workers; i++ {
		en.envs = append(en.envs, &Env{
			World: cfg.World,
			Cal:   cfg.Calendar,
			Proj:  cfg.Projection,
			Rnd:   rnd.NewWorker(cfg.Seed, i),
			Warn:  en.sinks.Warning,
		})
	}
	return en
}

// Effects exposes the tick's mutation buffer, mainly for the driver
// to flush after external transmission.
func (en *Engine) Effects() *Effects { return en.effects }

func (en *Engine) setDay(day int) {
	for _, ev := range en.envs {
		ev.Day = day
	}
}

// Start enters every person's current state in every condition,
// running Start actions and scheduling initial waits.
func (en *Engine) Start(day int) {
	en.setDay(day)
	for _, pid := range en.w.People() {
		p := en.w.Person(pid)
		if p == nil {
			continue
		}
		for cond := 0; cond < en.cat.CondCount(); cond++ {
			en.EnterState(pid, cond, p.State(cond), day)
		}
	}
	en.log.Debug("engine started", "day", day, "people", len(en.w.People()))
}

// EnterState moves a person into a state: it runs the state's action
// rules and schedules the departure per the state's wait rule.  A
// state with no wait rule holds the person until an exposure or a
// set_state from elsewhere.
func (en *Engine) EnterState(pid PersonID, cond, state, day int) {
	p := en.w.Person(pid)
	if p == nil {
		return
	}
	p.SetState(cond, state)
	ev := en.envs[0]

	for _, r := range en.reg.ActionsAt(cond, state) {
		if r.Global {
			continue
		}
		if r.Clause.Eval(ev, p, nil) {
			en.runAction(ev, p, r)
		}
	}
	en.runGlobalActions(ev, p, cond, state, day)

	wr := en.reg.WaitRuleAt(cond, state)
	if wr == nil || !wr.Clause.Eval(ev, p, nil) {
		return
	}
	var delta int
	if wr.Kind == WaitUntilRule {
		delta = en.cal.DaysUntil(day, wr.WaitTarget)
	} else {
		delta = int(math.Round(wr.WaitExpr.Value(ev, p, nil)))
		if delta < 0 {
			delta = 0
		}
	}
	en.schedule(pid, cond, day+delta)
}

// runGlobalActions fires a state's global action rules (imports,
// network randomization) once per day, triggered by the first person
// entering the state that day.
func (en *Engine) runGlobalActions(ev *Env, p Person, cond, state, day int) {
	k := stateKey{cond, state}
	if d, ok := en.globalDay[k]; ok && d == day {
		return
	}
	en.globalDay[k] = day
	for _, r := range en.reg.ActionsAt(cond, state) {
		if r.Global && r.Clause.Eval(ev, p, nil) {
			en.runAction(ev, p, r)
		}
	}
}

func (en *Engine) schedule(pid PersonID, cond, day int) {
	en.nextSeq++
	key := waitKey{p: pid, cond: cond}
	en.pending[key] = en.nextSeq
	heap.Push(&en.waits, waitItem{day: day, seq: en.nextSeq, key: key})
}

func (en *Engine) cancelWait(pid PersonID, cond int) {
	delete(en.pending, waitKey{p: pid, cond: cond})
}

// Expose records an exposure and, if the condition has an exposure
// rule, cancels any queued departure and moves the person on the
// exposure day.
func (en *Engine) Expose(pid PersonID, cond, day, groupType int, external bool) {
	p := en.w.Person(pid)
	if p == nil {
		return
	}
	p.RecordExposure(cond, groupType, external)
	r := en.reg.ExposureRuleFor(cond)
	if r == nil {
		return
	}
	en.setDay(day)
	en.cancelWait(pid, cond)
	en.EnterState(pid, cond, r.NextStateID, day)
}

type departure struct {
	item  waitItem
	dest  int
	moved bool
}

// Tick processes every departure due on or before day, applies the
// buffered effects, and schedules any states entered by them.
func (en *Engine) Tick(day int) {
	en.setDay(day)

	var due []departure
	for len(en.waits) > 0 && en.waits[0].day <= day {
		item := heap.Pop(&en.waits).(waitItem)
		if en.pending[item.key] != item.seq {
			continue // canceled or superseded
		}
		delete(en.pending, item.key)
		due = append(due, departure{item: item})
	}

	// Transition decisions run in parallel; each worker owns its
	// random stream, so the outcome is reproducible for a fixed
	// seed and worker count.
	if len(due) > 0 {
		var g errgroup.Group
		for wi := range en.envs {
			wi := wi
			g.Go(func() error {
				ev := en.envs[wi]
				for i := wi; i < len(due); i += len(en.envs) {
					d := &due[i]
					p := en.w.Person(d.item.key.p)
					if p == nil {
						continue
					}
					d.dest, d.moved = en.decide(ev, p, d.item.key.cond, p.State(d.item.key.cond))
				}
				return nil
			})
		}
		_ = g.Wait()
	}
	for _, d := range due {
		if d.moved {
			en.EnterState(d.item.key.p, d.item.key.cond, d.dest, day)
		}
	}

	entered, born := en.effects.Apply(en.w, day, en.envs[0].Rnd.Uniform)
	for _, e := range entered {
		en.cancelWait(e.P, e.Cond)
		en.EnterState(e.P, e.Cond, e.State, day)
	}
	for _, b := range born {
		for cond := 0; cond < en.cat.CondCount(); cond++ {
			en.EnterState(b, cond, StartState, day)
		}
	}
	en.log.Debug("tick", "day", day, "departures", len(due),
		"entered", len(entered), "born", len(born))
}

// decide tries the next rules at a (condition, state) in authored
// order as independent Bernoulli trials, then the default rule.
func (en *Engine) decide(ev *Env, p Person, cond, state int) (int, bool) {
	for _, r := range en.reg.RulesAt(cond, state, NextRule) {
		if !r.Clause.Eval(ev, p, nil) {
			continue
		}
		pr := r.Prob.Value(ev, p, nil)
		if pr >= 1 || ev.Rnd.Uniform() < pr {
			return r.NextStateID, true
		}
	}
	for _, r := range en.reg.RulesAt(cond, state, DefaultRule) {
		return r.NextStateID, true
	}
	return 0, false
}

func (en *Engine) runAction(ev *Env, p Person, r *Rule) {
	ef := en.effects
	pid := p.ID()
	switch r.Action {
	case ActGiveBirth:
		ef.GiveBirth(pid)
	case ActDie:
		ef.Die(pid)
	case ActJoin:
		place := GroupID(-1)
		if r.Expr != nil {
			place = GroupID(r.Expr.Value(ev, p, nil))
		}
		ef.Join(pid, r.GroupTypeID, place)
	case ActQuit:
		ef.Quit(pid, r.GroupTypeID)
	case ActAddEdgeFrom:
		ef.AddEdge(r.NetworkID, PersonID(r.Expr.Value(ev, p, nil)), pid)
	case ActAddEdgeTo:
		ef.AddEdge(r.NetworkID, pid, PersonID(r.Expr.Value(ev, p, nil)))
	case ActDeleteEdgeFrom:
		ef.DeleteEdge(r.NetworkID, PersonID(r.Expr.Value(ev, p, nil)), pid)
	case ActDeleteEdgeTo:
		ef.DeleteEdge(r.NetworkID, pid, PersonID(r.Expr.Value(ev, p, nil)))
	case ActSet:
		v := r.Expr.Value(ev, p, nil)
		if r.VarGlobal {
			ef.SetGlobalVar(r.VarID, v)
		} else {
			ef.SetVar(pid, r.VarID, v)
		}
	case ActSetList:
		vs := r.Expr.ListValue(ev, p, nil)
		if r.ListVarGlobal {
			ef.SetGlobalListVar(r.ListVarID, vs)
		} else {
			ef.SetListVar(pid, r.ListVarID, vs)
		}
	case ActSetState:
		if r.SourceStateID < 0 || p.State(r.SourceCondID) == r.SourceStateID {
			ef.SetState(pid, r.SourceCondID, r.DestStateID)
		}
	case ActSetWeight:
		ef.SetWeight(r.NetworkID, pid,
			PersonID(r.Expr.Value(ev, p, nil)), r.Expr2.Value(ev, p, nil))
	case ActSetSus:
		ef.SetSusceptibility(pid, r.SourceCondID, r.Expr.Value(ev, p, nil))
	case ActSetTrans:
		ef.SetTransmissibility(pid, r.SourceCondID, r.Expr.Value(ev, p, nil))
	case ActSetContacts:
		ef.SetContacts(pid, r.Expr.Value(ev, p, nil))
	case ActRandomizeNetwork:
		ef.RandomizeNetwork(r.NetworkID,
			r.Expr.Value(ev, p, nil), r.Expr2.Value(ev, p, nil))
	case ActAbsent, ActPresent:
		attending := r.Action == ActPresent
		for _, gt := range r.GroupTypeIDs {
			ef.SetAttendance(pid, gt, attending)
		}
	case ActClose:
		for _, gt := range r.GroupTypeIDs {
			if g := p.GroupOfType(gt); g != nil {
				ef.CloseGroup(g.ID())
			}
		}
	case ActReport:
		en.sinks.Health(ev.Day, pid, r.CondID, r.StateID, r.Expr.Value(ev, p, nil))
	case ActImportCount:
		n := int(r.Expr.Value(ev, p, nil))
		ef.ImportInto(r.CondID, func(s *ImportSpec) { s.Count += n })
	case ActImportPerCapita:
		v := r.Expr.Value(ev, p, nil)
		ef.ImportInto(r.CondID, func(s *ImportSpec) { s.PerCapita = v })
	case ActImportLocation:
		lat := r.Expr.Value(ev, p, nil)
		lon := r.Expr2.Value(ev, p, nil)
		rad := r.Expr3.Value(ev, p, nil)
		ef.ImportInto(r.CondID, func(s *ImportSpec) { s.Lat, s.Lon, s.Radius = lat, lon, rad })
	case ActImportAdminCode:
		code := int64(r.Expr.Value(ev, p, nil))
		ef.ImportInto(r.CondID, func(s *ImportSpec) { s.AdminCode = code })
	case ActImportAges:
		lo := r.Expr.Value(ev, p, nil)
		hi := r.Expr2.Value(ev, p, nil)
		ef.ImportInto(r.CondID, func(s *ImportSpec) { s.MinAge, s.MaxAge = lo, hi })
	case ActImportList:
		vs := r.Expr.ListValue(ev, p, nil)
		ef.ImportInto(r.CondID, func(s *ImportSpec) {
			for _, v := range vs {
				s.List = append(s.List, PersonID(v))
			}
		})
	case ActCountAllImportAttempts:
		ef.ImportInto(r.CondID, func(s *ImportSpec) { s.CountAllAttempts = true })
	}
}
