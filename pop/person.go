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

// Package pop is the in-memory population store: persons, places,
// networks, and the world that ties them together.  The engine in
// core sees all of it through interfaces; the loader here builds it
// from a YAML population document.
package pop

import (
	"github.com/Comcast/cohort/core"
)

// Person is a member of the synthetic population.  Slot slices are
// sized by the catalog at creation.
type Person struct {
	id          core.PersonID
	age         float64
	sex         int
	race        int
	role        int
	profile     int
	student     bool
	importAgent bool

	states     []int
	exposureGT []int
	exposedExt []bool
	sus        []float64
	trans      []float64
	vars       []float64
	lists      [][]float64
	groups     []*Place
	absent     []bool
	contact    float64
}

func newPerson(id core.PersonID, cat *core.Catalog) *Person {
	p := &Person{
		id:         id,
		states:     make([]int, cat.CondCount()),
		exposureGT: make([]int, cat.CondCount()),
		exposedExt: make([]bool, cat.CondCount()),
		sus:        make([]float64, cat.CondCount()),
		trans:      make([]float64, cat.CondCount()),
		vars:       make([]float64, cat.VarCount()),
		lists:      make([][]float64, cat.ListVarCount()),
		groups:     make([]*Place, cat.GroupTypeCount()),
		absent:     make([]bool, cat.GroupTypeCount()),
	}
	for i := range p.exposureGT {
		p.exposureGT[i] = -1
		p.sus[i] = 1
		p.trans[i] = 1
	}
	return p
}

func (p *Person) ID() core.PersonID   { return p.id }
func (p *Person) Age() float64        { return p.age }
func (p *Person) Sex() int            { return p.sex }
func (p *Person) Race() int           { return p.race }
func (p *Person) HouseholdRole() int  { return p.role }
func (p *Person) Profile() int        { return p.profile }
func (p *Person) IsStudent() bool     { return p.student }
func (p *Person) IsImportAgent() bool { return p.importAgent }

func (p *Person) State(cond int) int       { return p.states[cond] }
func (p *Person) SetState(cond, state int) { p.states[cond] = state }

func (p *Person) ExposureGroupType(cond int) int  { return p.exposureGT[cond] }
func (p *Person) ExposedExternally(cond int) bool { return p.exposedExt[cond] }
func (p *Person) RecordExposure(cond, groupType int, external bool) {
	p.exposureGT[cond] = groupType
	p.exposedExt[cond] = external
}

func (p *Person) Susceptibility(cond int) float64         { return p.sus[cond] }
func (p *Person) SetSusceptibility(cond int, v float64)   { p.sus[cond] = v }
func (p *Person) Transmissibility(cond int) float64       { return p.trans[cond] }
func (p *Person) SetTransmissibility(cond int, v float64) { p.trans[cond] = v }

func (p *Person) Var(slot int) float64              { return p.vars[slot] }
func (p *Person) SetVar(slot int, v float64)        { p.vars[slot] = v }
func (p *Person) ListVar(slot int) []float64        { return p.lists[slot] }
func (p *Person) SetListVar(slot int, vs []float64) { p.lists[slot] = vs }

func (p *Person) GroupOfType(groupType int) core.Group {
	g := p.groups[groupType]
	if g == nil {
		return nil
	}
	return g
}

func (p *Person) Present(day, groupType int) bool { return !p.absent[groupType] }
func (p *Person) SetAttendance(groupType int, attending bool) {
	p.absent[groupType] = !attending
}

func (p *Person) ContactRate() float64     { return p.contact }
func (p *Person) SetContactRate(v float64) { p.contact = v }
