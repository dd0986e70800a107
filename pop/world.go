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
	"github.com/Comcast/cohort/core"
	"github.com/Comcast/cohort/rnd"
)

// ImportEvent is one import request buffered for the driver, which
// owns external transmission.
type ImportEvent struct {
	Cond int
	Spec core.ImportSpec
}

// World is the in-memory population store.  It implements core.World.
type World struct {
	cat *core.Catalog
	rnd *rnd.Source

	people   map[core.PersonID]*Person
	order    []core.PersonID
	places   map[core.GroupID]*Place
	networks []*AdjacencyNetwork
	globals  []float64
	glists   [][]float64

	nextPersonID core.PersonID
	nextPlaceID  core.GroupID
	imports      []ImportEvent
}

func NewWorld(cat *core.Catalog, seed uint64) *World {
	w := &World{
		cat:     cat,
		rnd:     rnd.New(seed),
		people:  map[core.PersonID]*Person{},
		places:  map[core.GroupID]*Place{},
		globals: make([]float64, cat.GlobalVarCount()),
		glists:  make([][]float64, cat.GlobalListVarCount()),
	}
	for i := 0; i < cat.NetworkCount(); i++ {
		w.networks = append(w.networks, newNetwork(i, w.People))
	}
	return w
}

// AddPerson creates and registers a person.  The caller fills in
// attributes before handing the world to the engine.
func (w *World) AddPerson(id core.PersonID) *Person {
	p := newPerson(id, w.cat)
	w.people[id] = p
	w.order = append(w.order, id)
	if id >= w.nextPersonID {
		w.nextPersonID = id + 1
	}
	return p
}

// AddPlace creates and registers a place.
func (w *World) AddPlace(id core.GroupID, typeID int) *Place {
	g := newPlace(id, typeID)
	w.places[id] = g
	if id >= w.nextPlaceID {
		w.nextPlaceID = id + 1
	}
	return g
}

func (w *World) Person(id core.PersonID) core.Person {
	p, ok := w.people[id]
	if !ok {
		return nil
	}
	return p
}

func (w *World) People() []core.PersonID { return w.order }

func (w *World) Place(id core.GroupID) core.Group {
	g, ok := w.places[id]
	if !ok {
		return nil
	}
	return g
}

func (w *World) Network(id int) core.Network {
	if id < 0 || id >= len(w.networks) {
		return nil
	}
	return w.networks[id]
}

func (w *World) GlobalVar(slot int) float64              { return w.globals[slot] }
func (w *World) SetGlobalVar(slot int, v float64)        { w.globals[slot] = v }
func (w *World) GlobalListVar(slot int) []float64        { return w.glists[slot] }
func (w *World) SetGlobalListVar(slot int, vs []float64) { w.glists[slot] = vs }

func (w *World) RemovePerson(id core.PersonID) {
	p, ok := w.people[id]
	if !ok {
		return
	}
	for gt, g := range p.groups {
		if g != nil {
			g.removeMember(id)
			p.groups[gt] = nil
		}
	}
	for _, n := range w.networks {
		n.removePerson(id)
	}
	delete(w.people, id)
	for i, pid := range w.order {
		if pid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// SpawnPerson services give_birth: the child joins the mother's group
// of type 0, which population documents declare first and is the
// household by convention.
func (w *World) SpawnPerson(mother core.PersonID) core.PersonID {
	id := w.nextPersonID
	child := w.AddPerson(id)
	child.sex = w.rnd.IntN(2)
	if m, ok := w.people[mother]; ok && len(m.groups) > 0 && m.groups[0] != nil {
		w.JoinGroup(id, 0, m.groups[0].id)
	}
	return id
}

func (w *World) JoinGroup(p core.PersonID, groupType int, place core.GroupID) {
	person, ok := w.people[p]
	if !ok {
		return
	}
	var g *Place
	if place < 0 {
		g = w.AddPlace(w.nextPlaceID, groupType)
	} else {
		g, ok = w.places[place]
		if !ok || g.typeID != groupType {
			return
		}
	}
	if old := person.groups[groupType]; old != nil {
		old.removeMember(p)
	}
	g.addMember(p)
	person.groups[groupType] = g
}

func (w *World) QuitGroup(p core.PersonID, groupType int) {
	person, ok := w.people[p]
	if !ok {
		return
	}
	if g := person.groups[groupType]; g != nil {
		g.removeMember(p)
		person.groups[groupType] = nil
	}
}

func (w *World) Import(cond int, spec core.ImportSpec) {
	w.imports = append(w.imports, ImportEvent{Cond: cond, Spec: spec})
}

// DrainImports returns the buffered import events and clears them.
// The driver turns these into external exposures.
func (w *World) DrainImports() []ImportEvent {
	out := w.imports
	w.imports = nil
	return out
}

// MeanLat returns the mean latitude of the places, or 0 when no place
// has a location.  Drivers use it to center the distance projection.
func (w *World) MeanLat() float64 {
	sum, n := 0.0, 0
	for _, g := range w.places {
		if g.lat != 0 || g.lon != 0 {
			sum += g.lat
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
