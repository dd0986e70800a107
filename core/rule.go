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
	"strings"

	"github.com/Comcast/cohort/date"
)

// RuleKind discriminates the five authorable rule shapes, with
// wait_until split out from wait.
type RuleKind int

const (
	WaitRule RuleKind = iota
	WaitUntilRule
	ExposureRule
	NextRule
	DefaultRule
	ActionRule
)

// ActionID names the effect of an action rule.
type ActionID int

const (
	ActNone ActionID = iota
	ActGiveBirth
	ActDie
	ActJoin
	ActQuit
	ActAddEdgeFrom
	ActAddEdgeTo
	ActDeleteEdgeFrom
	ActDeleteEdgeTo
	ActSet
	ActSetList
	ActSetState
	ActSetWeight
	ActSetSus
	ActSetTrans
	ActSetContacts
	ActRandomizeNetwork
	ActAbsent
	ActPresent
	ActClose
	ActReport
	ActImportCount
	ActImportPerCapita
	ActImportLocation
	ActImportAdminCode
	ActImportAges
	ActImportList
	ActCountAllImportAttempts
)

// Rule is one authored line, parsed and then compiled against a
// catalog.  After Compile every name is an integer index.
type Rule struct {
	Text string
	Kind RuleKind

	// raw pieces from Parse
	condName   string
	stateName  string
	clauseText string
	nextName   string
	probText   string
	waitText   string
	targetText string
	actionName string
	argsText   string

	// resolved by Compile
	CondID  int
	StateID int
	Clause  *Clause

	WaitExpr   *Expression
	WaitTarget date.Target

	NextStateID int
	Prob        *Expression

	Action        ActionID
	Expr          *Expression
	Expr2         *Expression
	Expr3         *Expression
	GroupTypeID   int
	GroupTypeIDs  []int
	NetworkID     int
	VarID         int
	VarGlobal     bool
	ListVarID     int
	ListVarGlobal bool
	SourceCondID  int
	SourceStateID int
	DestStateID   int

	// Global rules fire once per tick, not per person.
	Global bool

	Used     bool
	HiddenBy *Rule
}

// balancedCall expects s to begin with name+"(" and returns the
// balanced inner text and the remainder after the close paren.
func balancedCall(s, name string) (inner, rest string, ok bool) {
	if !strings.HasPrefix(s, name+"(") {
		return "", "", false
	}
	depth := 0
	for i := len(name); i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[len(name)+1 : i], s[i+1:], true
			}
		}
	}
	return "", "", false
}

// ParseRule splits one authored line into its syntactic pieces.  No
// names are resolved; Compile does that.
func ParseRule(text string) (*Rule, error) {
	norm := strings.Join(strings.Fields(text), " ")
	r := &Rule{Text: text, NextStateID: -1, SourceStateID: -1}

	malformed := func(reason string) (*Rule, error) {
		return nil, &ParseError{Text: text, Reason: reason}
	}

	switch {
	case strings.Contains(norm, "then wait("):
		r.Kind = WaitRule
	case strings.HasPrefix(norm, "if exposed("):
		r.Kind = ExposureRule
	case strings.Contains(norm, "then next("):
		r.Kind = NextRule
	case strings.Contains(norm, "then default("):
		r.Kind = DefaultRule
	case strings.Contains(norm, " then "):
		r.Kind = ActionRule
	default:
		return malformed("malformed if/then frame")
	}

	if r.Kind == ExposureRule {
		inner, rest, ok := balancedCall(norm[len("if "):], "exposed")
		if !ok {
			return malformed("malformed exposed(...)")
		}
		r.condName = stripSpace(inner)
		rest = strings.TrimSpace(rest)
		rest, ok = strings.CutPrefix(rest, "then ")
		if !ok {
			return malformed("exposure rule needs then next(...)")
		}
		state, _, ok := balancedCall(stripSpace(rest), "next")
		if !ok {
			return malformed("exposure rule needs then next(...)")
		}
		r.nextName = state
		return r, nil
	}

	rest, ok := strings.CutPrefix(norm, "if ")
	if !ok {
		return malformed("malformed if/then frame")
	}
	var inner string
	inner, rest, ok = balancedCall(strings.TrimSpace(rest), "state")
	if !ok {
		// The state(...) preface also parses with "enter".
		inner, rest, ok = balancedCall(strings.TrimSpace(norm[len("if "):]), "enter")
		if !ok {
			return malformed("missing state(...) preface")
		}
	}
	inner = stripSpace(inner)
	sep := strings.IndexAny(inner, ".,")
	if sep < 0 {
		return malformed("state preface needs cond.state")
	}
	r.condName, r.stateName = inner[:sep], inner[sep+1:]

	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "and") {
		after := strings.TrimSpace(rest[len("and"):])
		var cl string
		cl, rest, ok = balancedCall("and"+after, "and")
		if !ok {
			return malformed("unbalanced and(...) clause")
		}
		r.clauseText = cl
		rest = strings.TrimSpace(rest)
	}
	rest, ok = strings.CutPrefix(rest, "then ")
	if !ok {
		return malformed("missing then")
	}
	tail := strings.TrimSpace(rest)

	switch r.Kind {
	case WaitRule:
		arg, _, ok := balancedCall(stripSpace(tail), "wait")
		if !ok {
			return malformed("malformed wait(...)")
		}
		if arg == "" {
			arg = "999999"
		}
		if target, isUntil := strings.CutPrefix(arg, "until_"); isUntil {
			r.Kind = WaitUntilRule
			r.targetText = target
		} else {
			r.waitText = arg
		}
	case NextRule:
		state, after, ok := balancedCall(stripSpace(tail), "next")
		if !ok {
			return malformed("malformed next(...)")
		}
		r.nextName = state
		r.probText = "1"
		after = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(after), "with"))
		if after != "" {
			prob, _, ok := balancedCall(stripSpace(after), "prob")
			if !ok {
				return malformed("malformed with prob(...)")
			}
			r.probText = prob
		}
	case DefaultRule:
		state, _, ok := balancedCall(stripSpace(tail), "default")
		if !ok {
			return malformed("malformed default(...)")
		}
		r.nextName = state
	case ActionRule:
		name, args, ok := callParts(stripSpace(tail))
		if !ok {
			// Zero-arg actions may omit the parens.
			name, args = stripSpace(tail), ""
			if strings.ContainsAny(name, delims) {
				return malformed("malformed action")
			}
		}
		r.actionName = name
		r.argsText = args
	}
	return r, nil
}

// Compile resolves every name in the rule through the catalog and
// parses its clause and expressions.
func (r *Rule) Compile(cat *Catalog) error {
	cond, ok := cat.CondID(r.condName)
	if !ok {
		return &ResolveError{Kind: "condition", Name: r.condName}
	}
	r.CondID = cond

	if r.Kind == ExposureRule {
		return r.resolveNext(cat)
	}

	state, ok := cat.Cond(cond).StateID(r.stateName)
	if !ok {
		return &ResolveError{Kind: "state", Name: r.condName + "." + r.stateName}
	}
	r.StateID = state

	if r.clauseText != "" {
		cl, err := ParseClause(cat, r.clauseText)
		if err != nil {
			return err
		}
		r.Clause = cl
	}

	switch r.Kind {
	case WaitRule:
		e, err := ParseExpression(cat, r.waitText)
		if err != nil {
			return err
		}
		r.WaitExpr = e
		return nil
	case WaitUntilRule:
		tg, err := date.ParseTarget(r.targetText)
		if err != nil {
			return &ParseError{Text: r.Text, Reason: err.Error()}
		}
		r.WaitTarget = tg
		return nil
	case NextRule:
		if err := r.resolveNext(cat); err != nil {
			return err
		}
		p, err := ParseExpression(cat, r.probText)
		if err != nil {
			return err
		}
		r.Prob = p
		return nil
	case DefaultRule:
		return r.resolveNext(cat)
	}
	return r.compileAction(cat)
}

func (r *Rule) resolveNext(cat *Catalog) error {
	st, ok := cat.Cond(r.CondID).StateID(r.nextName)
	if !ok {
		return &ResolveError{Kind: "state", Name: r.condName + "." + r.nextName}
	}
	r.NextStateID = st
	return nil
}

func (r *Rule) compileAction(cat *Catalog) error {
	name, argsText := r.actionName, r.argsText

	// Author-facing sugar rewrites to canonical actions.
	switch name {
	case "sus":
		name, argsText = "set_sus", r.condName+","+argsText
	case "trans":
		name, argsText = "set_trans", r.condName+","+argsText
	case "mult_sus", "mult_trans":
		c, e, ok := splitFirstArg(argsText)
		if !ok {
			return &ArityError{Name: name, Want: "2", Got: 1}
		}
		c = stripSpace(c)
		if name == "mult_sus" {
			name, argsText = "set_sus", c+",susceptibility_to_"+c+"*("+e+")"
		} else {
			name, argsText = "set_trans", c+",transmissibility_for_"+c+"*("+e+")"
		}
	case "fatal":
		name = "die"
	case "change_state":
		name = "set_state"
	}

	args := splitArgs(argsText)
	if argsText == "" {
		args = nil
	}
	parse := func(i int) (*Expression, error) { return ParseExpression(cat, args[i]) }

	switch name {
	case "give_birth", "die", "count_all_import_attempts":
		if len(args) != 0 {
			return &ArityError{Name: name, Want: "0", Got: len(args)}
		}
		r.Action = map[string]ActionID{
			"give_birth":                ActGiveBirth,
			"die":                       ActDie,
			"count_all_import_attempts": ActCountAllImportAttempts,
		}[name]
		r.Global = name == "count_all_import_attempts"
		return nil

	case "join", "quit":
		if len(args) < 1 || len(args) > 2 || (name == "quit" && len(args) != 1) {
			return &ArityError{Name: name, Want: "1", Got: len(args)}
		}
		gt, ok := cat.GroupTypeID(stripSpace(args[0]))
		if !ok {
			return &ResolveError{Kind: "group type", Name: args[0]}
		}
		r.GroupTypeID = gt
		if name == "join" {
			r.Action = ActJoin
			if len(args) == 2 {
				e, err := parse(1)
				if err != nil {
					return err
				}
				r.Expr = e
			}
		} else {
			r.Action = ActQuit
		}
		return nil

	case "add_edge_from", "add_edge_to", "delete_edge_from", "delete_edge_to":
		if len(args) != 2 {
			return &ArityError{Name: name, Want: "2", Got: len(args)}
		}
		net, ok := cat.NetworkID(stripSpace(args[0]))
		if !ok {
			return &ResolveError{Kind: "network", Name: args[0]}
		}
		r.NetworkID = net
		e, err := parse(1)
		if err != nil {
			return err
		}
		r.Expr = e
		r.Action = map[string]ActionID{
			"add_edge_from":    ActAddEdgeFrom,
			"add_edge_to":      ActAddEdgeTo,
			"delete_edge_from": ActDeleteEdgeFrom,
			"delete_edge_to":   ActDeleteEdgeTo,
		}[name]
		return nil

	case "set":
		// The historical three-argument form has no defined
		// semantics; refuse it.
		if len(args) != 2 {
			return &ArityError{Name: name, Want: "2", Got: len(args)}
		}
		v := stripSpace(args[0])
		if slot, ok := cat.VarID(v); ok {
			r.VarID = slot
		} else if slot, ok := cat.GlobalVarID(v); ok {
			r.VarID = slot
			r.VarGlobal = true
		} else {
			return &ResolveError{Kind: "variable", Name: v}
		}
		e, err := parse(1)
		if err != nil {
			return err
		}
		r.Expr = e
		r.Action = ActSet
		return nil

	case "set_list":
		if len(args) != 2 {
			return &ArityError{Name: name, Want: "2", Got: len(args)}
		}
		v := stripSpace(args[0])
		if slot, ok := cat.ListVarID(v); ok {
			r.ListVarID = slot
		} else if slot, ok := cat.GlobalListVarID(v); ok {
			r.ListVarID = slot
			r.ListVarGlobal = true
		} else {
			return &ResolveError{Kind: "list variable", Name: v}
		}
		e, err := parse(1)
		if err != nil {
			return err
		}
		r.Expr = e
		r.Action = ActSetList
		return nil

	case "set_state":
		if len(args) != 2 && len(args) != 3 {
			return &ArityError{Name: name, Want: "2 or 3", Got: len(args)}
		}
		c, ok := cat.CondID(stripSpace(args[0]))
		if !ok {
			return &ResolveError{Kind: "condition", Name: args[0]}
		}
		r.SourceCondID = c
		src, dst := "*", stripSpace(args[1])
		if len(args) == 3 {
			src, dst = dst, stripSpace(args[2])
		}
		if src == "*" {
			r.SourceStateID = -1
		} else {
			st, ok := cat.Cond(c).StateID(src)
			if !ok {
				return &ResolveError{Kind: "state", Name: args[0] + "." + src}
			}
			r.SourceStateID = st
		}
		st, ok := cat.Cond(c).StateID(dst)
		if !ok {
			return &ResolveError{Kind: "state", Name: args[0] + "." + dst}
		}
		r.DestStateID = st
		r.Action = ActSetState
		return nil

	case "set_weight":
		if len(args) != 3 {
			return &ArityError{Name: name, Want: "3", Got: len(args)}
		}
		net, ok := cat.NetworkID(stripSpace(args[0]))
		if !ok {
			return &ResolveError{Kind: "network", Name: args[0]}
		}
		r.NetworkID = net
		e1, err := parse(1)
		if err != nil {
			return err
		}
		e2, err := parse(2)
		if err != nil {
			return err
		}
		r.Expr, r.Expr2 = e1, e2
		r.Action = ActSetWeight
		return nil

	case "set_sus", "set_trans":
		if len(args) != 2 {
			return &ArityError{Name: name, Want: "2", Got: len(args)}
		}
		c, ok := cat.CondID(stripSpace(args[0]))
		if !ok {
			return &ResolveError{Kind: "condition", Name: args[0]}
		}
		r.SourceCondID = c
		e, err := parse(1)
		if err != nil {
			return err
		}
		r.Expr = e
		if name == "set_sus" {
			r.Action = ActSetSus
		} else {
			r.Action = ActSetTrans
		}
		return nil

	case "set_contacts":
		if len(args) != 1 {
			return &ArityError{Name: name, Want: "1", Got: len(args)}
		}
		e, err := parse(0)
		if err != nil {
			return err
		}
		r.Expr = e
		r.Action = ActSetContacts
		return nil

	case "randomize_network":
		if len(args) != 3 {
			return &ArityError{Name: name, Want: "3", Got: len(args)}
		}
		net, ok := cat.NetworkID(stripSpace(args[0]))
		if !ok {
			return &ResolveError{Kind: "network", Name: args[0]}
		}
		r.NetworkID = net
		e1, err := parse(1)
		if err != nil {
			return err
		}
		e2, err := parse(2)
		if err != nil {
			return err
		}
		r.Expr, r.Expr2 = e1, e2
		r.Action = ActRandomizeNetwork
		r.Global = true
		return nil

	case "absent", "present", "close":
		for _, a := range args {
			gt, ok := cat.GroupTypeID(stripSpace(a))
			if !ok {
				return &ResolveError{Kind: "group type", Name: a}
			}
			r.GroupTypeIDs = append(r.GroupTypeIDs, gt)
		}
		// No arguments means every group type.
		if len(args) == 0 {
			for gt := 0; gt < cat.GroupTypeCount(); gt++ {
				r.GroupTypeIDs = append(r.GroupTypeIDs, gt)
			}
		}
		r.Action = map[string]ActionID{
			"absent": ActAbsent, "present": ActPresent, "close": ActClose,
		}[name]
		return nil

	case "report":
		if len(args) != 1 {
			return &ArityError{Name: name, Want: "1", Got: len(args)}
		}
		e, err := parse(0)
		if err != nil {
			return err
		}
		r.Expr = e
		r.Action = ActReport
		return nil

	case "import_count", "import_per_capita", "import_admin_code", "import_list":
		if len(args) != 1 {
			return &ArityError{Name: name, Want: "1", Got: len(args)}
		}
		e, err := parse(0)
		if err != nil {
			return err
		}
		r.Expr = e
		r.Action = map[string]ActionID{
			"import_count":      ActImportCount,
			"import_per_capita": ActImportPerCapita,
			"import_admin_code": ActImportAdminCode,
			"import_list":       ActImportList,
		}[name]
		r.Global = true
		return nil

	case "import_location":
		if len(args) != 3 {
			return &ArityError{Name: name, Want: "3", Got: len(args)}
		}
		e1, err := parse(0)
		if err != nil {
			return err
		}
		e2, err := parse(1)
		if err != nil {
			return err
		}
		e3, err := parse(2)
		if err != nil {
			return err
		}
		r.Expr, r.Expr2, r.Expr3 = e1, e2, e3
		r.Action = ActImportLocation
		r.Global = true
		return nil

	case "import_ages":
		if len(args) != 2 {
			return &ArityError{Name: name, Want: "2", Got: len(args)}
		}
		e1, err := parse(0)
		if err != nil {
			return err
		}
		e2, err := parse(1)
		if err != nil {
			return err
		}
		r.Expr, r.Expr2 = e1, e2
		r.Action = ActImportAges
		r.Global = true
		return nil
	}
	return &ParseError{Text: r.Text, Reason: "unknown action " + name}
}

// unconditional reports whether the rule always fires when reached:
// an empty clause and, for next rules, a constant probability of at
// least one.
func (r *Rule) unconditional() bool {
	if r.Clause != nil && len(r.Clause.preds) > 0 {
		return false
	}
	switch r.Kind {
	case DefaultRule:
		return true
	case NextRule:
		return r.Prob != nil && r.Prob.kind == exprNumber && r.Prob.num >= 1
	}
	return false
}
