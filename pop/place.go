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
	"math"

	"github.com/Comcast/cohort/core"
)

// Place is one group instance: a household, school, workplace, and so
// on.  A place can carry an open-hours schedule, and a close action
// shuts it from a given day on.
type Place struct {
	id       core.GroupID
	typeID   int
	lat, lon float64
	admin    core.PersonID

	members    []core.PersonID
	index      map[core.PersonID]int
	closedFrom int
	sched      *Schedule
}

func newPlace(id core.GroupID, typeID int) *Place {
	return &Place{
		id:         id,
		typeID:     typeID,
		admin:      core.NoPerson,
		index:      map[core.PersonID]int{},
		closedFrom: math.MaxInt,
	}
}

func (g *Place) ID() core.GroupID          { return g.id }
func (g *Place) TypeID() int               { return g.typeID }
func (g *Place) Members() []core.PersonID  { return g.members }
func (g *Place) Admin() core.PersonID      { return g.admin }
func (g *Place) Lat() float64              { return g.lat }
func (g *Place) Lon() float64              { return g.lon }

func (g *Place) Contains(p core.PersonID) bool {
	_, ok := g.index[p]
	return ok
}

// Open reports whether the place operates on a day: not closed by a
// close action and, if scheduled, the schedule fires that day.
func (g *Place) Open(day int) bool {
	if day >= g.closedFrom {
		return false
	}
	return g.sched == nil || g.sched.OpenOn(day)
}

func (g *Place) Close(fromDay int) {
	if fromDay < g.closedFrom {
		g.closedFrom = fromDay
	}
}

func (g *Place) addMember(p core.PersonID) {
	if _, ok := g.index[p]; ok {
		return
	}
	g.index[p] = len(g.members)
	g.members = append(g.members, p)
}

func (g *Place) removeMember(p core.PersonID) {
	i, ok := g.index[p]
	if !ok {
		return
	}
	last := len(g.members) - 1
	g.members[i] = g.members[last]
	g.index[g.members[i]] = i
	g.members = g.members[:last]
	delete(g.index, p)
	if g.admin == p {
		g.admin = core.NoPerson
	}
}
