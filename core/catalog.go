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

// Catalog maps every symbolic name a rule can mention to a small
// integer index: conditions and their states, group types, networks,
// and the per-person and global variable slots.  The compiler
// resolves names once through the catalog; evaluation never sees a
// string.

// StartState and ExcludedState are present in every condition.
const (
	StartState    = 0
	ExcludedState = 1
)

// Condition is a named categorical state machine attached to every
// person.
type Condition struct {
	Name   string
	States []string

	stateIndex map[string]int
}

// NewCondition builds a condition with the built-in Start and
// Excluded states followed by the user states.
func NewCondition(name string, userStates ...string) *Condition {
	c := &Condition{
		Name:       name,
		States:     append([]string{"Start", "Excluded"}, userStates...),
		stateIndex: make(map[string]int, len(userStates)+2),
	}
	for i, s := range c.States {
		c.stateIndex[s] = i
	}
	return c
}

// StateID resolves a state name.
func (c *Condition) StateID(name string) (int, bool) {
	id, ok := c.stateIndex[name]
	return id, ok
}

// StateName returns the name for a state index, or "?" when out of
// range.
func (c *Condition) StateName(id int) string {
	if id < 0 || id >= len(c.States) {
		return "?"
	}
	return c.States[id]
}

type Catalog struct {
	conds     []*Condition
	condIndex map[string]int

	groupTypes []string
	gtIndex    map[string]int

	networks []string
	netIndex map[string]int

	vars           []string
	varIndex       map[string]int
	globalVars     []string
	globalVarIndex map[string]int

	listVars           []string
	listVarIndex       map[string]int
	globalListVars     []string
	globalListVarIndex map[string]int
}

func NewCatalog() *Catalog {
	return &Catalog{
		condIndex:          map[string]int{},
		gtIndex:            map[string]int{},
		netIndex:           map[string]int{},
		varIndex:           map[string]int{},
		globalVarIndex:     map[string]int{},
		listVarIndex:       map[string]int{},
		globalListVarIndex: map[string]int{},
	}
}

func (cat *Catalog) AddCondition(c *Condition) int {
	id := len(cat.conds)
	cat.conds = append(cat.conds, c)
	cat.condIndex[c.Name] = id
	return id
}

func (cat *Catalog) AddGroupType(name string) int {
	id := len(cat.groupTypes)
	cat.groupTypes = append(cat.groupTypes, name)
	cat.gtIndex[name] = id
	return id
}

func (cat *Catalog) AddNetwork(name string) int {
	id := len(cat.networks)
	cat.networks = append(cat.networks, name)
	cat.netIndex[name] = id
	return id
}

func (cat *Catalog) AddVar(name string) int {
	id := len(cat.vars)
	cat.vars = append(cat.vars, name)
	cat.varIndex[name] = id
	return id
}

func (cat *Catalog) AddGlobalVar(name string) int {
	id := len(cat.globalVars)
	cat.globalVars = append(cat.globalVars, name)
	cat.globalVarIndex[name] = id
	return id
}

func (cat *Catalog) AddListVar(name string) int {
	id := len(cat.listVars)
	cat.listVars = append(cat.listVars, name)
	cat.listVarIndex[name] = id
	return id
}

func (cat *Catalog) AddGlobalListVar(name string) int {
	id := len(cat.globalListVars)
	cat.globalListVars = append(cat.globalListVars, name)
	cat.globalListVarIndex[name] = id
	return id
}

func (cat *Catalog) CondID(name string) (int, bool) {
	id, ok := cat.condIndex[name]
	return id, ok
}

func (cat *Catalog) Cond(id int) *Condition {
	if id < 0 || id >= len(cat.conds) {
		return nil
	}
	return cat.conds[id]
}

func (cat *Catalog) CondCount() int { return len(cat.conds) }

func (cat *Catalog) GroupTypeID(name string) (int, bool) {
	id, ok := cat.gtIndex[name]
	return id, ok
}

func (cat *Catalog) GroupTypeName(id int) string {
	if id < 0 || id >= len(cat.groupTypes) {
		return "?"
	}
	return cat.groupTypes[id]
}

func (cat *Catalog) GroupTypeCount() int { return len(cat.groupTypes) }

func (cat *Catalog) NetworkID(name string) (int, bool) {
	id, ok := cat.netIndex[name]
	return id, ok
}

func (cat *Catalog) NetworkName(id int) string {
	if id < 0 || id >= len(cat.networks) {
		return "?"
	}
	return cat.networks[id]
}

func (cat *Catalog) NetworkCount() int { return len(cat.networks) }

func (cat *Catalog) VarID(name string) (int, bool) {
	id, ok := cat.varIndex[name]
	return id, ok
}

func (cat *Catalog) GlobalVarID(name string) (int, bool) {
	id, ok := cat.globalVarIndex[name]
	return id, ok
}

func (cat *Catalog) ListVarID(name string) (int, bool) {
	id, ok := cat.listVarIndex[name]
	return id, ok
}

func (cat *Catalog) GlobalListVarID(name string) (int, bool) {
	id, ok := cat.globalListVarIndex[name]
	return id, ok
}

func (cat *Catalog) VarCount() int           { return len(cat.vars) }
func (cat *Catalog) GlobalVarCount() int     { return len(cat.globalVars) }
func (cat *Catalog) ListVarCount() int       { return len(cat.listVars) }
func (cat *Catalog) GlobalListVarCount() int { return len(cat.globalListVars) }
