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
	"bufio"
	"errors"
	"io"
	"strings"
)

// Registry owns the authored rule text and the compiled program.
// Rules keep authored order, which is also evaluation order.
type Registry struct {
	cat   *Catalog
	lines []string

	// Compiled is the successfully compiled program, in authored
	// order.  Populated by PrepareRules.
	Compiled []*Rule

	byState  map[stateKey][]*Rule
	exposure map[int]*Rule

	errs  []error
	warns []error
}

type stateKey struct{ cond, state int }

func NewRegistry(cat *Catalog) *Registry {
	return &Registry{
		cat:      cat,
		byState:  map[stateKey][]*Rule{},
		exposure: map[int]*Rule{},
	}
}

// AddRuleLine queues one authored line.  Blank lines and '#' comment
// lines are ignored.
func (rg *Registry) AddRuleLine(line string) {
	t := strings.TrimSpace(line)
	if t == "" || strings.HasPrefix(t, "#") {
		return
	}
	rg.lines = append(rg.lines, t)
}

// AddRuleFile queues every rule line from a rule file, one rule per
// non-blank line.
func (rg *Registry) AddRuleFile(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		rg.AddRuleLine(sc.Text())
	}
	return sc.Err()
}

// PrepareRules parses and compiles every queued line.  Compilation
// errors are collected and returned joined; rules that fail are left
// out of the compiled program.  On success the hidden and unused
// diagnoses run.
func (rg *Registry) PrepareRules() error {
	for _, line := range rg.lines {
		r, err := ParseRule(line)
		if err != nil {
			rg.errs = append(rg.errs, err)
			continue
		}
		if err := r.Compile(rg.cat); err != nil {
			rg.errs = append(rg.errs, err)
			continue
		}
		rg.Compiled = append(rg.Compiled, r)
		if r.Kind == ExposureRule {
			if _, dup := rg.exposure[r.CondID]; !dup {
				rg.exposure[r.CondID] = r
			} else {
				rg.warns = append(rg.warns, &RuleWarning{Rule: r,
					Reason: "duplicate exposure rule ignored"})
			}
			continue
		}
		k := stateKey{r.CondID, r.StateID}
		rg.byState[k] = append(rg.byState[k], r)
	}
	rg.diagnoseHidden()
	rg.diagnoseUnused()
	if len(rg.errs) > 0 {
		return errors.Join(rg.errs...)
	}
	return nil
}

// diagnoseHidden marks transition rules that can never fire because
// an earlier rule at the same (condition, state) always fires first,
// and duplicate wait rules.
func (rg *Registry) diagnoseHidden() {
	for _, rules := range rg.byState {
		var blocker *Rule
		var firstWait *Rule
		for _, r := range rules {
			switch r.Kind {
			case NextRule, DefaultRule:
				if blocker != nil {
					r.HiddenBy = blocker
					rg.warns = append(rg.warns, &RuleWarning{Rule: r,
						Reason: "rule hidden by earlier rule"})
				} else if r.unconditional() {
					blocker = r
				}
			case WaitRule, WaitUntilRule:
				if firstWait != nil {
					r.HiddenBy = firstWait
					rg.warns = append(rg.warns, &RuleWarning{Rule: r,
						Reason: "rule hidden by earlier wait rule"})
				} else {
					firstWait = r
				}
			}
		}
	}
}

// diagnoseUnused warns about rules attached to states that no
// transition can reach.  Start is always reachable; Excluded is
// exempt from the warning.
func (rg *Registry) diagnoseUnused() {
	reach := make([]map[int]bool, rg.cat.CondCount())
	for c := range reach {
		reach[c] = map[int]bool{StartState: true}
	}
	for _, r := range rg.exposure {
		reach[r.CondID][r.NextStateID] = true
	}
	for changed := true; changed; {
		changed = false
		mark := func(cond, state int) {
			if state >= 0 && !reach[cond][state] {
				reach[cond][state] = true
				changed = true
			}
		}
		for _, r := range rg.Compiled {
			if r.Kind != ExposureRule && !reach[r.CondID][r.StateID] {
				continue
			}
			switch r.Kind {
			case NextRule, DefaultRule:
				mark(r.CondID, r.NextStateID)
			case ActionRule:
				if r.Action == ActSetState {
					mark(r.SourceCondID, r.DestStateID)
				}
			}
		}
	}
	for _, r := range rg.Compiled {
		if r.Kind == ExposureRule || r.HiddenBy != nil {
			continue
		}
		if r.StateID == StartState || r.StateID == ExcludedState {
			r.Used = true
			continue
		}
		r.Used = reach[r.CondID][r.StateID]
		if !r.Used {
			rg.warns = append(rg.warns, &RuleWarning{Rule: r,
				Reason: "unused rule: state is unreachable"})
		}
	}
}

// RulesAt returns the compiled rules of one kind at a (condition,
// state), in authored order, skipping hidden rules.
func (rg *Registry) RulesAt(cond, state int, kind RuleKind) []*Rule {
	var out []*Rule
	for _, r := range rg.byState[stateKey{cond, state}] {
		if r.Kind == kind && r.HiddenBy == nil {
			out = append(out, r)
		}
	}
	return out
}

// ActionsAt returns the action rules at a (condition, state).
func (rg *Registry) ActionsAt(cond, state int) []*Rule {
	return rg.RulesAt(cond, state, ActionRule)
}

// WaitRuleAt returns the effective wait rule at a (condition,
// state), or nil.
func (rg *Registry) WaitRuleAt(cond, state int) *Rule {
	for _, r := range rg.byState[stateKey{cond, state}] {
		if (r.Kind == WaitRule || r.Kind == WaitUntilRule) && r.HiddenBy == nil {
			return r
		}
	}
	return nil
}

// ExposureRuleFor returns the exposure rule for a condition, or nil.
func (rg *Registry) ExposureRuleFor(cond int) *Rule {
	return rg.exposure[cond]
}

// Errors returns the collected compile errors.
func (rg *Registry) Errors() []error { return rg.errs }

// Warnings returns the collected diagnostics.
func (rg *Registry) Warnings() []error { return rg.warns }
