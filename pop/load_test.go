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
	"strings"
	"testing"
	"time"
)

var popDoc = strings.TrimSpace(`
start_date: 2021-03-01
group_types:
  - Household
  - School
networks:
  - Friends
conditions:
  - name: INF
    states: [S, E, I, R]
variables:
  - counter
global_variables:
  - total
places:
  - id: 10
    type: Household
    lat: 40.44
    lon: -79.99
    admin: 1
  - id: 20
    type: School
    schedule: "0 8 * * 1-5"
people:
  - id: 1
    age: 34
    sex: female
    groups:
      Household: 10
    states:
      INF: I
  - id: 2
    age: 8
    sex: male
    student: true
    groups:
      Household: 10
      School: 20
`)

func TestLoad(t *testing.T) {
	cat, w, cal, err := Load([]byte(popDoc), 1)
	if err != nil {
		t.Fatal(err)
	}
	if cat.CondCount() != 1 || cat.GroupTypeCount() != 2 || cat.NetworkCount() != 1 {
		t.Fatal("catalog")
	}
	if cal.Time(0) != time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatal(cal.Time(0))
	}

	if len(w.People()) != 2 {
		t.Fatal(w.People())
	}
	mom := w.people[1]
	if mom.Age() != 34 || mom.Sex() != 0 {
		t.Fatal(mom.Age(), mom.Sex())
	}
	iState, _ := cat.Cond(0).StateID("I")
	if mom.State(0) != iState {
		t.Fatal(mom.State(0))
	}
	kid := w.people[2]
	if !kid.IsStudent() || kid.Sex() != 1 {
		t.Fatal("kid")
	}

	home := w.places[10]
	if len(home.Members()) != 2 || home.Admin() != 1 {
		t.Fatal(home.Members(), home.Admin())
	}
	if home.Lat() != 40.44 {
		t.Fatal(home.Lat())
	}

	// Mar 1 2021 is a Monday, so the scheduled school is open day 0
	// and closed on the weekend.
	school := w.places[20]
	if !school.Open(0) {
		t.Fatal("school closed on Monday")
	}
	if school.Open(5) {
		t.Fatal("school open on Saturday")
	}
}

func TestLoadErrors(t *testing.T) {
	for _, doc := range []string{
		"start_date: nope",
		"places:\n  - id: 1\n    type: Nowhere",
		"group_types: [Household]\npeople:\n  - id: 1\n    sex: neither",
		"group_types: [Household]\npeople:\n  - id: 1\n    groups:\n      Household: 99",
		"conditions:\n  - name: INF\n    states: [S]\npeople:\n  - id: 1\n    states:\n      INF: Q",
	} {
		if _, _, _, err := Load([]byte(doc), 1); err == nil {
			t.Fatal(doc)
		}
	}
}
