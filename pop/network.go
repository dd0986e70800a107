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
)

// AdjacencyNetwork is a directed weighted edge set over persons.  An
// edge added without a weight has weight 1.
type AdjacencyNetwork struct {
	id     int
	people func() []core.PersonID
	edges  map[core.PersonID]map[core.PersonID]float64
}

func newNetwork(id int, people func() []core.PersonID) *AdjacencyNetwork {
	return &AdjacencyNetwork{
		id:     id,
		people: people,
		edges:  map[core.PersonID]map[core.PersonID]float64{},
	}
}

func (n *AdjacencyNetwork) ID() int { return n.id }

func (n *AdjacencyNetwork) HasEdge(from, to core.PersonID) bool {
	_, ok := n.edges[from][to]
	return ok
}

func (n *AdjacencyNetwork) AddEdge(from, to core.PersonID) {
	if _, ok := n.edges[from][to]; ok {
		return
	}
	n.SetWeight(from, to, 1)
}

func (n *AdjacencyNetwork) DeleteEdge(from, to core.PersonID) {
	delete(n.edges[from], to)
}

func (n *AdjacencyNetwork) SetWeight(from, to core.PersonID, w float64) {
	row := n.edges[from]
	if row == nil {
		row = map[core.PersonID]float64{}
		n.edges[from] = row
	}
	row[to] = w
}

func (n *AdjacencyNetwork) OutDegree(p core.PersonID) int {
	return len(n.edges[p])
}

func (n *AdjacencyNetwork) removePerson(p core.PersonID) {
	delete(n.edges, p)
	for _, row := range n.edges {
		delete(row, p)
	}
}

// Randomize rewires the network: every existing edge is dropped and
// each person gets a uniformly drawn out-degree with the given mean,
// capped at maxDeg, with targets drawn uniformly from the population.
func (n *AdjacencyNetwork) Randomize(draw func() float64, meanDeg, maxDeg float64) {
	n.edges = map[core.PersonID]map[core.PersonID]float64{}
	people := n.people()
	if len(people) < 2 {
		return
	}
	for _, from := range people {
		deg := int(draw() * (2*meanDeg + 1))
		if float64(deg) > maxDeg {
			deg = int(maxDeg)
		}
		for k := 0; k < deg; k++ {
			to := people[int(draw()*float64(len(people)))]
			if to != from {
				n.AddEdge(from, to)
			}
		}
	}
}
