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

// Preference scores candidate persons for select(list, pref(...)).
// Each expression is evaluated with the chooser as self and the
// candidate as other; positive values favor the candidate and
// negative values penalize it.

type Preference struct {
	exprs []*Expression
}

// ParsePreference parses the comma-separated expressions of a
// pref(...) form.
func ParsePreference(cat *Catalog, args string) (*Preference, error) {
	pf := &Preference{}
	for _, a := range splitArgs(stripSpace(args)) {
		e, err := ParseExpression(cat, a)
		if err != nil {
			return nil, err
		}
		pf.exprs = append(pf.exprs, e)
	}
	return pf, nil
}

// Score returns the candidate's strictly positive raw score:
// (1 + sum of positive parts) / (1 + sum of negative magnitudes).
func (pf *Preference) Score(ev *Env, self, candidate Person) float64 {
	num, den := 1.0, 1.0
	for _, e := range pf.exprs {
		v := e.Value(ev, self, candidate)
		if v >= 0 {
			num += v
		} else {
			den += -v
		}
	}
	return num / den
}

// Select draws one candidate with probability proportional to its
// score.  The second return is false when the candidate list is
// empty.
func (pf *Preference) Select(ev *Env, self Person, candidates []PersonID) (PersonID, bool) {
	if len(candidates) == 0 {
		return NoPerson, false
	}
	scores := make([]float64, len(candidates))
	var total float64
	for i, id := range candidates {
		scores[i] = pf.Score(ev, self, ev.World.Person(id))
		total += scores[i]
	}
	cdf := make([]float64, len(candidates))
	if total <= 0 {
		// Degenerate scores fall back to a uniform draw.
		for i := range cdf {
			cdf[i] = float64(i+1) / float64(len(cdf))
		}
	} else {
		var cum float64
		for i, s := range scores {
			cum += s / total
			cdf[i] = cum
		}
		cdf[len(cdf)-1] = 1
	}
	return candidates[ev.Rnd.DrawFromCDF(cdf)], true
}
