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

// A small in-memory world for tests.  The production store lives in
// the pop package; this one only knows what the tests need.

import (
	"time"

	"github.com/Comcast/cohort/date"
	"github.com/Comcast/cohort/rnd"
)

type testPerson struct {
	id          PersonID
	age         float64
	sex         int
	race        int
	role        int
	profile     int
	student     bool
	importAgent bool

	states     map[int]int
	exposureGT map[int]int
	exposedExt map[int]bool
	sus, trans map[int]float64
	vars       map[int]float64
	lists      map[int][]float64
	groups     map[int]*testPlace
	absent     map[int]bool
	contact    float64
}

func newTestPerson(id PersonID) *testPerson {
	return &testPerson{
		id:         id,
		states:     map[int]int{},
		exposureGT: map[int]int{},
		exposedExt: map[int]bool{},
		sus:        map[int]float64{},
		trans:      map[int]float64{},
		vars:       map[int]float64{},
		lists:      map[int][]float64{},
		groups:     map[int]*testPlace{},
		absent:     map[int]bool{},
	}
}

func (p *testPerson) ID() PersonID        { return p.id }
func (p *testPerson) Age() float64        { return p.age }
func (p *testPerson) Sex() int            { return p.sex }
func (p *testPerson) Race() int           { return p.race }
func (p *testPerson) HouseholdRole() int  { return p.role }
func (p *testPerson) Profile() int        { return p.profile }
func (p *testPerson) IsStudent() bool     { return p.student }
func (p *testPerson) IsImportAgent() bool { return p.importAgent }

func (p *testPerson) State(cond int) int         { return p.states[cond] }
func (p *testPerson) SetState(cond, state int)   { p.states[cond] = state }
func (p *testPerson) ExposureGroupType(cond int) int {
	if gt, ok := p.exposureGT[cond]; ok {
		return gt
	}
	return -1
}
func (p *testPerson) ExposedExternally(cond int) bool { return p.exposedExt[cond] }
func (p *testPerson) RecordExposure(cond, groupType int, external bool) {
	p.exposureGT[cond] = groupType
	p.exposedExt[cond] = external
}

func (p *testPerson) Susceptibility(cond int) float64 {
	if v, ok := p.sus[cond]; ok {
		return v
	}
	return 1
}
func (p *testPerson) SetSusceptibility(cond int, v float64) { p.sus[cond] = v }
func (p *testPerson) Transmissibility(cond int) float64 {
	if v, ok := p.trans[cond]; ok {
		return v
	}
	return 1
}
func (p *testPerson) SetTransmissibility(cond int, v float64) { p.trans[cond] = v }

func (p *testPerson) Var(slot int) float64            { return p.vars[slot] }
func (p *testPerson) SetVar(slot int, v float64)      { p.vars[slot] = v }
func (p *testPerson) ListVar(slot int) []float64      { return p.lists[slot] }
func (p *testPerson) SetListVar(slot int, vs []float64) { p.lists[slot] = vs }

func (p *testPerson) GroupOfType(gt int) Group {
	g, ok := p.groups[gt]
	if !ok {
		return nil
	}
	return g
}
func (p *testPerson) Present(day, gt int) bool            { return !p.absent[gt] }
func (p *testPerson) SetAttendance(gt int, attending bool) { p.absent[gt] = !attending }
func (p *testPerson) ContactRate() float64                { return p.contact }
func (p *testPerson) SetContactRate(v float64)            { p.contact = v }

type testPlace struct {
	id       GroupID
	typeID   int
	members  []PersonID
	admin    PersonID
	lat, lon float64
	closed   int // first closed day; 0 means never
}

func (g *testPlace) ID() GroupID       { return g.id }
func (g *testPlace) TypeID() int       { return g.typeID }
func (g *testPlace) Members() []PersonID { return g.members }
func (g *testPlace) Contains(p PersonID) bool {
	for _, m := range g.members {
		if m == p {
			return true
		}
	}
	return false
}
func (g *testPlace) Admin() PersonID { return g.admin }
func (g *testPlace) Open(day int) bool {
	return g.closed == 0 || day < g.closed
}
func (g *testPlace) Close(fromDay int) { g.closed = fromDay }
func (g *testPlace) Lat() float64      { return g.lat }
func (g *testPlace) Lon() float64      { return g.lon }

type testNetwork struct {
	id    int
	edges map[PersonID]map[PersonID]float64
}

func newTestNetwork(id int) *testNetwork {
	return &testNetwork{id: id, edges: map[PersonID]map[PersonID]float64{}}
}

func (n *testNetwork) ID() int { return n.id }
func (n *testNetwork) HasEdge(from, to PersonID) bool {
	_, ok := n.edges[from][to]
	return ok
}
func (n *testNetwork) AddEdge(from, to PersonID) {
	if n.edges[from] == nil {
		n.edges[from] = map[PersonID]float64{}
	}
	n.edges[from][to] = 1
}
func (n *testNetwork) DeleteEdge(from, to PersonID) { delete(n.edges[from], to) }
func (n *testNetwork) SetWeight(from, to PersonID, w float64) {
	n.AddEdge(from, to)
	n.edges[from][to] = w
}
func (n *testNetwork) OutDegree(p PersonID) int { return len(n.edges[p]) }

type testImport struct {
	cond int
	spec ImportSpec
}

type testWorld struct {
	people   map[PersonID]*testPerson
	order    []PersonID
	places   map[GroupID]*testPlace
	networks map[int]*testNetwork
	globals  map[int]float64
	glists   map[int][]float64
	nextID   PersonID
	removed  []PersonID
	imports  []testImport
	joins    []string
}

func newTestWorld() *testWorld {
	return &testWorld{
		people:   map[PersonID]*testPerson{},
		places:   map[GroupID]*testPlace{},
		networks: map[int]*testNetwork{},
		globals:  map[int]float64{},
		glists:   map[int][]float64{},
		nextID:   1000,
	}
}

func (w *testWorld) add(p *testPerson) *testPerson {
	w.people[p.id] = p
	w.order = append(w.order, p.id)
	return p
}

func (w *testWorld) Person(id PersonID) Person {
	p, ok := w.people[id]
	if !ok {
		return nil
	}
	return p
}
func (w *testWorld) People() []PersonID { return w.order }
func (w *testWorld) Place(id GroupID) Group {
	g, ok := w.places[id]
	if !ok {
		return nil
	}
	return g
}
func (w *testWorld) Network(id int) Network {
	n, ok := w.networks[id]
	if !ok {
		return nil
	}
	return n
}
func (w *testWorld) GlobalVar(slot int) float64           { return w.globals[slot] }
func (w *testWorld) SetGlobalVar(slot int, v float64)     { w.globals[slot] = v }
func (w *testWorld) GlobalListVar(slot int) []float64     { return w.glists[slot] }
func (w *testWorld) SetGlobalListVar(slot int, vs []float64) { w.glists[slot] = vs }

func (w *testWorld) RemovePerson(id PersonID) {
	delete(w.people, id)
	w.removed = append(w.removed, id)
}
func (w *testWorld) SpawnPerson(mother PersonID) PersonID {
	w.nextID++
	w.add(newTestPerson(w.nextID))
	return w.nextID
}
func (w *testWorld) JoinGroup(p PersonID, gt int, place GroupID) {
	w.joins = append(w.joins, "join")
	if g, ok := w.places[place]; ok {
		g.members = append(g.members, p)
		w.people[p].groups[gt] = g
	}
}
func (w *testWorld) QuitGroup(p PersonID, gt int) {
	w.joins = append(w.joins, "quit")
	delete(w.people[p].groups, gt)
}
func (w *testWorld) Import(cond int, spec ImportSpec) {
	w.imports = append(w.imports, testImport{cond: cond, spec: spec})
}

// testEnv builds an Env over a world with a fixed seed and the 2020
// calendar.
func testEnv(w *testWorld) *Env {
	return &Env{
		World: w,
		Cal:   date.NewCalendar(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)),
		Rnd:   rnd.New(7),
	}
}

// newTestCatalog covers the names used across the tests: one
// condition "flu" with states S, E, I, R, group types, a network,
// and variable slots.
func newTestCatalog() *Catalog {
	cat := NewCatalog()
	cat.AddCondition(NewCondition("flu", "S", "E", "I", "R"))
	cat.AddGroupType("Household")
	cat.AddGroupType("Workplace")
	cat.AddGroupType("School")
	cat.AddNetwork("Friends")
	cat.AddVar("counter")
	cat.AddVar("score")
	cat.AddGlobalVar("total")
	cat.AddListVar("contacts_list")
	cat.AddGlobalListVar("everyone")
	return cat
}
