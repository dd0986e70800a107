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

// Clause is a conjunction of predicates: the top-level commas of
// and(...) and filter(...) arguments.  Evaluation short-circuits.
type Clause struct {
	Text  string
	preds []*Predicate
}

// ParseClause parses a comma-separated predicate conjunction.
// Commas nested in parens belong to the predicates.
func ParseClause(cat *Catalog, text string) (*Clause, error) {
	cl := &Clause{Text: text}
	s := stripSpace(text)
	if s == "" {
		return cl, nil
	}
	for _, part := range splitArgs(s) {
		p, err := ParsePredicate(cat, part)
		if err != nil {
			return nil, err
		}
		cl.preds = append(cl.preds, p)
	}
	return cl, nil
}

// Eval reports whether every predicate holds.  An empty clause is
// true.
func (cl *Clause) Eval(ev *Env, self, other Person) bool {
	if cl == nil {
		return true
	}
	for _, p := range cl.preds {
		if !p.Eval(ev, self, other) {
			return false
		}
	}
	return true
}
