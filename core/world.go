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

// The population store is an external collaborator.  The engine sees
// persons, places, and networks only through these interfaces; it
// never owns them.

// PersonID is a stable person identity.
type PersonID int64

// GroupID is a stable place identity (an sp_id in population files).
type GroupID int64

// NoPerson marks an absent person reference.
const NoPerson PersonID = -1

// Person is a member of the synthetic population.  Attribute reads
// are stable within a tick; writes go through the effects buffer.
type Person interface {
	ID() PersonID
	Age() float64
	Sex() int
	Race() int
	HouseholdRole() int
	Profile() int
	IsStudent() bool
	IsImportAgent() bool

	// State returns the person's current state index for a condition.
	State(cond int) int
	SetState(cond, state int)

	// ExposureGroupType reports the group type through which the
	// person was exposed to a condition, or -1 for none or an
	// external exposure.
	ExposureGroupType(cond int) int
	ExposedExternally(cond int) bool
	// RecordExposure notes how the person was exposed to cond.
	RecordExposure(cond int, groupType int, external bool)

	Susceptibility(cond int) float64
	SetSusceptibility(cond int, v float64)
	Transmissibility(cond int) float64
	SetTransmissibility(cond int, v float64)

	Var(slot int) float64
	SetVar(slot int, v float64)
	ListVar(slot int) []float64
	SetListVar(slot int, vs []float64)

	// GroupOfType returns the person's current place of a group
	// type, or nil.
	GroupOfType(groupType int) Group
	// Present reports whether the person attends its group of the
	// given type on the given day.
	Present(day, groupType int) bool
	SetAttendance(groupType int, attending bool)

	ContactRate() float64
	SetContactRate(v float64)
}

// Group is a place with members, an optional administrator, and an
// open/closed schedule.
type Group interface {
	ID() GroupID
	TypeID() int
	Members() []PersonID
	Contains(p PersonID) bool
	Admin() PersonID
	Open(day int) bool
	Close(fromDay int)
	Lat() float64
	Lon() float64
}

// Network is a directed weighted edge set over persons.
type Network interface {
	ID() int
	HasEdge(from, to PersonID) bool
	AddEdge(from, to PersonID)
	DeleteEdge(from, to PersonID)
	SetWeight(from, to PersonID, w float64)
	OutDegree(p PersonID) int
}

// RandomizableNetwork is a Network that can be rewired to a target
// degree distribution.
type RandomizableNetwork interface {
	Network
	Randomize(draw func() float64, meanDeg, maxDeg float64)
}

// World is the root handle to the population.  All engine reads go
// through it; nothing in the engine is process-global.
type World interface {
	Person(id PersonID) Person
	People() []PersonID
	Place(id GroupID) Group
	Network(id int) Network
	GlobalVar(slot int) float64
	SetGlobalVar(slot int, v float64)
	GlobalListVar(slot int) []float64
	SetGlobalListVar(slot int, vs []float64)

	// RemovePerson and SpawnPerson service die and give_birth.
	RemovePerson(id PersonID)
	SpawnPerson(mother PersonID) PersonID

	// JoinGroup and QuitGroup service join and quit.  A place of -1
	// lets the store choose the group.
	JoinGroup(p PersonID, groupType int, place GroupID)
	QuitGroup(p PersonID, groupType int)

	// Import seeds external exposures for a condition, as requested
	// by import actions.
	Import(cond int, spec ImportSpec)
}

// ImportSpec accumulates the import_* action arguments for one
// import event.
type ImportSpec struct {
	Count            int
	PerCapita        float64
	Lat, Lon         float64
	Radius           float64
	AdminCode        int64
	MinAge           float64
	MaxAge           float64
	List             []PersonID
	CountAllAttempts bool
}
