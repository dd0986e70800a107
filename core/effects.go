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

// Action effects are buffered here during a tick and applied at the
// end, so every rule in the tick reads the same world view.  A
// variable written twice in one tick keeps the last write; both
// writers computed from the pre-tick value.

import (
	"sort"
	"sync"
)

type varWrite struct {
	p      PersonID
	slot   int
	global bool
	v      float64
}

type listWrite struct {
	p      PersonID
	slot   int
	global bool
	vs     []float64
}

type stateSet struct {
	p     PersonID
	cond  int
	state int
}

type edgeOpKind int

const (
	edgeAdd edgeOpKind = iota
	edgeDelete
	edgeWeight
)

type edgeOp struct {
	kind     edgeOpKind
	net      int
	from, to PersonID
	w        float64
}

type groupOp struct {
	p         PersonID
	groupType int
	place     GroupID
	join      bool
}

type attendanceOp struct {
	p         PersonID
	groupType int
	attending bool
}

type susWrite struct {
	p    PersonID
	cond int
	sus  bool // susceptibility vs transmissibility
	v    float64
}

type contactWrite struct {
	p PersonID
	v float64
}

type randomizeOp struct {
	net      int
	mean, mx float64
}

// Entered reports a state entry performed by Apply, so the engine
// can schedule the new state.
type Entered struct {
	P     PersonID
	Cond  int
	State int
}

type Effects struct {
	mu sync.Mutex

	varWrites  []varWrite
	listWrites []listWrite
	stateSets  []stateSet
	edgeOps    []edgeOp
	groupOps   []groupOp
	attendance []attendanceOp
	closures   []GroupID
	susWrites  []susWrite
	contacts   []contactWrite
	randomizes []randomizeOp
	deaths     []PersonID
	births     []PersonID
	imports    map[int]*ImportSpec
}

func NewEffects() *Effects {
	return &Effects{imports: map[int]*ImportSpec{}}
}

func (ef *Effects) SetVar(p PersonID, slot int, v float64) {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	ef.varWrites = append(ef.varWrites, varWrite{p: p, slot: slot, v: v})
}

func (ef *Effects) SetGlobalVar(slot int, v float64) {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	ef.varWrites = append(ef.varWrites, varWrite{slot: slot, global: true, v: v})
}

func (ef *Effects) SetListVar(p PersonID, slot int, vs []float64) {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	ef.listWrites = append(ef.listWrites, listWrite{p: p, slot: slot, vs: vs})
}

func (ef *Effects) SetGlobalListVar(slot int, vs []float64) {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	ef.listWrites = append(ef.listWrites, listWrite{slot: slot, global: true, vs: vs})
}

func (ef *Effects) SetState(p PersonID, cond, state int) {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	ef.stateSets = append(ef.stateSets, stateSet{p: p, cond: cond, state: state})
}

func (ef *Effects) AddEdge(net int, from, to PersonID) {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	ef.edgeOps = append(ef.edgeOps, edgeOp{kind: edgeAdd, net: net, from: from, to: to})
}

func (ef *Effects) DeleteEdge(net int, from, to PersonID) {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	ef.edgeOps = append(ef.edgeOps, edgeOp{kind: edgeDelete, net: net, from: from, to: to})
}

func (ef *Effects) SetWeight(net int, from, to PersonID, w float64) {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	ef.edgeOps = append(ef.edgeOps, edgeOp{kind: edgeWeight, net: net, from: from, to: to, w: w})
}

func (ef *Effects) Join(p PersonID, groupType int, place GroupID) {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	ef.groupOps = append(ef.groupOps, groupOp{p: p, groupType: groupType, place: place, join: true})
}

func (ef *Effects) Quit(p PersonID, groupType int) {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	ef.groupOps = append(ef.groupOps, groupOp{p: p, groupType: groupType})
}

func (ef *Effects) SetAttendance(p PersonID, groupType int, attending bool) {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	ef.attendance = append(ef.attendance, attendanceOp{p: p, groupType: groupType, attending: attending})
}

func (ef *Effects) CloseGroup(g GroupID) {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	ef.closures = append(ef.closures, g)
}

func (ef *Effects) SetSusceptibility(p PersonID, cond int, v float64) {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	ef.susWrites = append(ef.susWrites, susWrite{p: p, cond: cond, sus: true, v: v})
}

func (ef *Effects) SetTransmissibility(p PersonID, cond int, v float64) {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	ef.susWrites = append(ef.susWrites, susWrite{p: p, cond: cond, v: v})
}

func (ef *Effects) SetContacts(p PersonID, v float64) {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	ef.contacts = append(ef.contacts, contactWrite{p: p, v: v})
}

func (ef *Effects) RandomizeNetwork(net int, mean, max float64) {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	ef.randomizes = append(ef.randomizes, randomizeOp{net: net, mean: mean, mx: max})
}

func (ef *Effects) Die(p PersonID) {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	ef.deaths = append(ef.deaths, p)
}

func (ef *Effects) GiveBirth(mother PersonID) {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	ef.births = append(ef.births, mother)
}

// ImportInto merges one import action's arguments into the pending
// import event for a condition.
func (ef *Effects) ImportInto(cond int, merge func(*ImportSpec)) {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	spec := ef.imports[cond]
	if spec == nil {
		spec = &ImportSpec{MaxAge: 999}
		ef.imports[cond] = spec
	}
	merge(spec)
}

// Apply flushes every buffered effect into the world, in a fixed
// order.  It returns the state entries it performed and the persons
// born, so the caller can schedule them.
func (ef *Effects) Apply(w World, day int, draw func() float64) (entered []Entered, born []PersonID) {
	ef.mu.Lock()
	defer ef.mu.Unlock()

	for _, op := range ef.varWrites {
		if op.global {
			w.SetGlobalVar(op.slot, op.v)
		} else if p := w.Person(op.p); p != nil {
			p.SetVar(op.slot, op.v)
		}
	}
	for _, op := range ef.listWrites {
		if op.global {
			w.SetGlobalListVar(op.slot, op.vs)
		} else if p := w.Person(op.p); p != nil {
			p.SetListVar(op.slot, op.vs)
		}
	}
	for _, op := range ef.susWrites {
		p := w.Person(op.p)
		if p == nil {
			continue
		}
		if op.sus {
			p.SetSusceptibility(op.cond, op.v)
		} else {
			p.SetTransmissibility(op.cond, op.v)
		}
	}
	for _, op := range ef.contacts {
		if p := w.Person(op.p); p != nil {
			p.SetContactRate(op.v)
		}
	}
	for _, op := range ef.attendance {
		if p := w.Person(op.p); p != nil {
			p.SetAttendance(op.groupType, op.attending)
		}
	}
	for _, g := range ef.closures {
		if place := w.Place(g); place != nil {
			place.Close(day + 1)
		}
	}
	for _, op := range ef.edgeOps {
		net := w.Network(op.net)
		if net == nil {
			continue
		}
		switch op.kind {
		case edgeAdd:
			net.AddEdge(op.from, op.to)
		case edgeDelete:
			net.DeleteEdge(op.from, op.to)
		case edgeWeight:
			net.SetWeight(op.from, op.to, op.w)
		}
	}
	for _, op := range ef.randomizes {
		if net, ok := w.Network(op.net).(RandomizableNetwork); ok {
			net.Randomize(draw, op.mean, op.mx)
		}
	}
	for _, op := range ef.groupOps {
		if op.join {
			w.JoinGroup(op.p, op.groupType, op.place)
		} else {
			w.QuitGroup(op.p, op.groupType)
		}
	}
	for _, op := range ef.stateSets {
		p := w.Person(op.p)
		if p == nil {
			continue
		}
		p.SetState(op.cond, op.state)
		entered = append(entered, Entered{P: op.p, Cond: op.cond, State: op.state})
	}
	for _, mother := range ef.births {
		born = append(born, w.SpawnPerson(mother))
	}
	for _, p := range ef.deaths {
		w.RemovePerson(p)
	}
	conds := make([]int, 0, len(ef.imports))
	for cond := range ef.imports {
		conds = append(conds, cond)
	}
	sort.Ints(conds)
	for _, cond := range conds {
		w.Import(cond, *ef.imports[cond])
	}

	ef.varWrites = ef.varWrites[:0]
	ef.listWrites = ef.listWrites[:0]
	ef.stateSets = ef.stateSets[:0]
	ef.edgeOps = ef.edgeOps[:0]
	ef.groupOps = ef.groupOps[:0]
	ef.attendance = ef.attendance[:0]
	ef.closures = ef.closures[:0]
	ef.susWrites = ef.susWrites[:0]
	ef.contacts = ef.contacts[:0]
	ef.randomizes = ef.randomizes[:0]
	ef.deaths = ef.deaths[:0]
	ef.births = ef.births[:0]
	ef.imports = map[int]*ImportSpec{}
	return entered, born
}
