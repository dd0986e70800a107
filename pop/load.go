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
	"fmt"
	"time"

	"github.com/jsccast/yaml"

	"github.com/Comcast/cohort/core"
	"github.com/Comcast/cohort/date"
)

// Document is the YAML population document: the catalog declarations
// plus the places and people.
type Document struct {
	StartDate string `yaml:"start_date,omitempty"`

	GroupTypes          []string       `yaml:"group_types,omitempty"`
	Networks            []string       `yaml:"networks,omitempty"`
	Conditions          []ConditionDoc `yaml:"conditions,omitempty"`
	Variables           []string       `yaml:"variables,omitempty"`
	GlobalVariables     []string       `yaml:"global_variables,omitempty"`
	ListVariables       []string       `yaml:"list_variables,omitempty"`
	GlobalListVariables []string       `yaml:"global_list_variables,omitempty"`

	Places []PlaceDoc  `yaml:"places,omitempty"`
	People []PersonDoc `yaml:"people,omitempty"`
}

type ConditionDoc struct {
	Name   string   `yaml:"name"`
	States []string `yaml:"states"`
}

type PlaceDoc struct {
	ID       int64   `yaml:"id"`
	Type     string  `yaml:"type"`
	Lat      float64 `yaml:"lat,omitempty"`
	Lon      float64 `yaml:"lon,omitempty"`
	Admin    int64   `yaml:"admin,omitempty"`
	Schedule string  `yaml:"schedule,omitempty"`
}

type PersonDoc struct {
	ID           int64             `yaml:"id"`
	Age          float64           `yaml:"age,omitempty"`
	Sex          string            `yaml:"sex,omitempty"`
	Race         int               `yaml:"race,omitempty"`
	Relationship int               `yaml:"relationship,omitempty"`
	Profile      int               `yaml:"profile,omitempty"`
	Student      bool              `yaml:"student,omitempty"`
	ImportAgent  bool              `yaml:"import_agent,omitempty"`
	Groups       map[string]int64  `yaml:"groups,omitempty"`
	States       map[string]string `yaml:"states,omitempty"`
}

// Load builds the catalog, the calendar, and the world from a YAML
// population document.
func Load(data []byte, seed uint64) (*core.Catalog, *World, date.Calendar, error) {
	var doc Document
	var cal date.Calendar
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, cal, err
	}

	start := "2020-01-01"
	if doc.StartDate != "" {
		start = doc.StartDate
	}
	t, err := time.Parse("2006-01-02", start)
	if err != nil {
		return nil, nil, cal, fmt.Errorf("bad start_date %q: %v", start, err)
	}
	cal = date.NewCalendar(t)

	cat := core.NewCatalog()
	for _, gt := range doc.GroupTypes {
		cat.AddGroupType(gt)
	}
	for _, n := range doc.Networks {
		cat.AddNetwork(n)
	}
	for _, c := range doc.Conditions {
		cat.AddCondition(core.NewCondition(c.Name, c.States...))
	}
	for _, v := range doc.Variables {
		cat.AddVar(v)
	}
	for _, v := range doc.GlobalVariables {
		cat.AddGlobalVar(v)
	}
	for _, v := range doc.ListVariables {
		cat.AddListVar(v)
	}
	for _, v := range doc.GlobalListVariables {
		cat.AddGlobalListVar(v)
	}

	w := NewWorld(cat, seed)

	for _, pd := range doc.Places {
		gt, ok := cat.GroupTypeID(pd.Type)
		if !ok {
			return nil, nil, cal, fmt.Errorf("place %d: unknown group type %q", pd.ID, pd.Type)
		}
		g := w.AddPlace(core.GroupID(pd.ID), gt)
		g.lat, g.lon = pd.Lat, pd.Lon
		if pd.Admin != 0 {
			g.admin = core.PersonID(pd.Admin)
		}
		if pd.Schedule != "" {
			sched, err := ParseSchedule(cal, pd.Schedule)
			if err != nil {
				return nil, nil, cal, fmt.Errorf("place %d: bad schedule: %v", pd.ID, err)
			}
			g.sched = sched
		}
	}

	for _, pd := range doc.People {
		p := w.AddPerson(core.PersonID(pd.ID))
		p.age = pd.Age
		if pd.Sex != "" {
			v, ok := core.SymbolValue(pd.Sex)
			if !ok {
				return nil, nil, cal, fmt.Errorf("person %d: unknown sex %q", pd.ID, pd.Sex)
			}
			p.sex = int(v)
		}
		p.race = pd.Race
		p.role = pd.Relationship
		p.profile = pd.Profile
		p.student = pd.Student
		p.importAgent = pd.ImportAgent
		for gtName, placeID := range pd.Groups {
			gt, ok := cat.GroupTypeID(gtName)
			if !ok {
				return nil, nil, cal, fmt.Errorf("person %d: unknown group type %q", pd.ID, gtName)
			}
			w.JoinGroup(p.id, gt, core.GroupID(placeID))
			if p.groups[gt] == nil {
				return nil, nil, cal, fmt.Errorf("person %d: no place %d of type %q", pd.ID, placeID, gtName)
			}
		}
		for condName, stateName := range pd.States {
			cond, ok := cat.CondID(condName)
			if !ok {
				return nil, nil, cal, fmt.Errorf("person %d: unknown condition %q", pd.ID, condName)
			}
			st, ok := cat.Cond(cond).StateID(stateName)
			if !ok {
				return nil, nil, cal, fmt.Errorf("person %d: unknown state %s.%s", pd.ID, condName, stateName)
			}
			p.states[cond] = st
		}
	}

	return cat, w, cal, nil
}
