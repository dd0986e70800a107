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
	"math"
	"testing"
)

func TestPreferenceScore(t *testing.T) {
	cat := newTestCatalog()
	w := newTestWorld()
	ev := testEnv(w)
	self := w.add(newTestPerson(1))
	self.sex = Male
	match := w.add(newTestPerson(2))
	match.sex = Male
	mismatch := w.add(newTestPerson(3))
	mismatch.sex = Female

	pf, err := ParsePreference(cat, "equal(sex,other:sex)")
	if err != nil {
		t.Fatal(err)
	}
	// Match: (1+1)/(1+0) = 2.  Mismatch: (1+0)/(1+0) = 1.
	if got := pf.Score(ev, self, match); got != 2 {
		t.Fatal(got)
	}
	if got := pf.Score(ev, self, mismatch); got != 1 {
		t.Fatal(got)
	}
}

func TestPreferenceNegativePenalty(t *testing.T) {
	cat := newTestCatalog()
	w := newTestWorld()
	ev := testEnv(w)
	self := w.add(newTestPerson(1))
	old := w.add(newTestPerson(2))
	old.age = 3
	pf, err := ParsePreference(cat, "-other:age")
	if err != nil {
		t.Fatal(err)
	}
	// (1+0)/(1+3) = 0.25.
	if got := pf.Score(ev, self, old); got != 0.25 {
		t.Fatal(got)
	}
}

func TestPreferenceSelectEmpty(t *testing.T) {
	cat := newTestCatalog()
	w := newTestWorld()
	ev := testEnv(w)
	pf, err := ParsePreference(cat, "1")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := pf.Select(ev, nil, nil); ok {
		t.Fatal("empty candidate list must not select")
	}
}

// Three same-sex candidates at score 2 and one different-sex at
// score 1: the same-sex pick rate is 6/7.
func TestPreferenceDrawFrequencies(t *testing.T) {
	cat := newTestCatalog()
	w := newTestWorld()
	ev := testEnv(w)
	home := &testPlace{id: 10, typeID: 0, members: []PersonID{1, 2, 3, 4, 5}}
	self := w.add(newTestPerson(1))
	self.sex = Male
	self.groups[0] = home
	for _, id := range []PersonID{2, 3, 4} {
		q := w.add(newTestPerson(id))
		q.sex = Male
		q.groups[0] = home
	}
	q := w.add(newTestPerson(5))
	q.sex = Female
	q.groups[0] = home

	e, err := ParseExpression(cat, "select(filter(pool(Household),neq(other:id,1)),pref(equal(sex,other:sex)))")
	if err != nil {
		t.Fatal(err)
	}
	n := 30000
	same := 0
	for i := 0; i < n; i++ {
		picked := PersonID(e.Value(ev, self, nil))
		if picked == 5 {
			continue
		}
		same++
	}
	got := float64(same) / float64(n)
	want := 6.0 / 7.0
	if math.Abs(got-want) > 0.01 {
		t.Fatal(got)
	}
}

func TestSelectPrefEmptyList(t *testing.T) {
	cat := newTestCatalog()
	w := newTestWorld()
	ev := testEnv(w)
	p := w.add(newTestPerson(1))
	e, err := ParseExpression(cat, "select(contacts_list,pref(1))")
	if err != nil {
		t.Fatal(err)
	}
	if got := e.Value(ev, p, nil); got != MissingSelection {
		t.Fatal(got)
	}
}
