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
	"strconv"
	"strings"
)

// Runtime degradation sentinels.  Evaluation never fails; bad inputs
// flow through as these values and a warning.
const (
	// LogSentinel is returned for log of a non-positive value.
	LogSentinel = -1.0e100
	// UnknownPlaceDistance is returned by dist when either place id
	// is unknown.
	UnknownPlaceDistance = 9999999.0
	// MissingSelection is returned by select for an out-of-range
	// index or an empty candidate list.
	MissingSelection = -99999999.0
)

type opID int

const (
	opAdd opID = iota + 1
	opSub
	opMult
	opDiv
	opMod
	opEqual
	opDist
	opMin
	opMax
	opUniform
	opNormal
	opLognormal
	opBinomial
	opNegBinomial
	opPoisson
	opExponential
	opGeometric
	opPow
	opLog
	opExp
	opAbs
	opSin
	opCos
)

var opTable = map[string]struct {
	id    opID
	arity int
}{
	"add":         {opAdd, 2},
	"sub":         {opSub, 2},
	"mult":        {opMult, 2},
	"div":         {opDiv, 2},
	"mod":         {opMod, 2},
	"equal":       {opEqual, 2},
	"dist":        {opDist, 2},
	"min":         {opMin, 2},
	"max":         {opMax, 2},
	"uniform":     {opUniform, 2},
	"normal":      {opNormal, 2},
	"lognormal":   {opLognormal, 2},
	"binomial":    {opBinomial, 2},
	"negbinomial": {opNegBinomial, 2},
	"poisson":     {opPoisson, 1},
	"exponential": {opExponential, 1},
	"geometric":   {opGeometric, 1},
	"pow":         {opPow, 2},
	"log":         {opLog, 1},
	"exp":         {opExp, 1},
	"abs":         {opAbs, 1},
	"sin":         {opSin, 1},
	"cos":         {opCos, 1},
}

type exprKind int

const (
	exprNumber exprKind = iota
	exprVar
	exprGlobalVar
	exprListVar
	exprGlobalListVar
	exprFactor
	exprOp
	exprSelect
	exprValue
	exprDistance
	exprPool
	exprFilter
	exprList
)

// Expression is a compiled expression tree.  It is immutable after
// parse; evaluation is a table-driven walk.
type Expression struct {
	Text string

	kind  exprKind
	num   float64
	op    opID
	slot  int
	other bool

	factorName string
	factor     FactorFn

	args   []*Expression
	index  *Expression // select by index
	pref   *Preference // select by preference
	clause *Clause     // filter

	groupTypes []int // pool
}

// IsList reports whether the expression produces a sequence rather
// than a scalar.
func (e *Expression) IsList() bool {
	switch e.kind {
	case exprListVar, exprGlobalListVar, exprPool, exprFilter, exprList:
		return true
	}
	return false
}

// ParseExpression parses expression text and resolves every name
// through the catalog.
func ParseExpression(cat *Catalog, text string) (*Expression, error) {
	s := stripSpace(text)
	if s == "" {
		return nil, &ParseError{Text: text, Reason: "empty expression"}
	}
	prefix, err := InfixToPrefix(s)
	if err != nil {
		return nil, err
	}
	e, err := parsePrefix(cat, prefix)
	if err != nil {
		return nil, err
	}
	e.Text = text
	return e, nil
}

func parsePrefix(cat *Catalog, s string) (*Expression, error) {
	name, inner, ok := callParts(s)
	if !ok {
		return parseLeaf(cat, s)
	}
	switch name {
	case "select":
		return parseSelect(cat, s, inner)
	case "value":
		return parseValue(cat, s, inner)
	case "distance":
		return parseDistance(cat, s, inner)
	case "pool":
		return parsePool(cat, s, inner)
	case "filter":
		return parseFilter(cat, s, inner)
	case "list":
		return parseListExpr(cat, s, inner)
	}
	op, known := opTable[name]
	if !known {
		return nil, &ParseError{Text: s, Reason: "unknown operator " + name}
	}
	args := splitArgs(inner)
	if len(args) != op.arity {
		return nil, &ArityError{Name: name, Want: strconv.Itoa(op.arity), Got: len(args)}
	}
	e := &Expression{Text: s, kind: exprOp, op: op.id}
	for _, a := range args {
		sub, err := parsePrefix(cat, a)
		if err != nil {
			return nil, err
		}
		e.args = append(e.args, sub)
	}
	return e, nil
}

func parseLeaf(cat *Catalog, s string) (*Expression, error) {
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return &Expression{Text: s, kind: exprNumber, num: n}, nil
	}
	if v, ok := SymbolValue(s); ok {
		return &Expression{Text: s, kind: exprNumber, num: v}, nil
	}
	name := s
	other := false
	if rest, ok := strings.CutPrefix(name, "other:"); ok {
		other = true
		name = rest
	}
	if slot, ok := cat.ListVarID(name); ok {
		return &Expression{Text: s, kind: exprListVar, slot: slot, other: other}, nil
	}
	if slot, ok := cat.GlobalListVarID(name); ok {
		return &Expression{Text: s, kind: exprGlobalListVar, slot: slot}, nil
	}
	if slot, ok := cat.VarID(name); ok {
		return &Expression{Text: s, kind: exprVar, slot: slot, other: other}, nil
	}
	if slot, ok := cat.GlobalVarID(name); ok {
		return &Expression{Text: s, kind: exprGlobalVar, slot: slot}, nil
	}
	fn, err := cat.ResolveFactor(name)
	if err != nil {
		return nil, err
	}
	return &Expression{Text: s, kind: exprFactor, factorName: name, factor: fn, other: other}, nil
}

func parseSelect(cat *Catalog, s, inner string) (*Expression, error) {
	first, rest, ok := splitFirstArg(inner)
	if !ok {
		return nil, &ArityError{Name: "select", Want: "2", Got: 1}
	}
	list, err := parsePrefix(cat, first)
	if err != nil {
		return nil, err
	}
	e := &Expression{Text: s, kind: exprSelect, args: []*Expression{list}}
	if name, prefArgs, ok := callParts(rest); ok && name == "pref" {
		pf, err := ParsePreference(cat, prefArgs)
		if err != nil {
			return nil, err
		}
		e.pref = pf
		return e, nil
	}
	idx, err := parsePrefix(cat, rest)
	if err != nil {
		return nil, err
	}
	e.index = idx
	return e, nil
}

func parseValue(cat *Catalog, s, inner string) (*Expression, error) {
	first, rest, ok := splitFirstArg(inner)
	if !ok {
		return nil, &ArityError{Name: "value", Want: "2", Got: 1}
	}
	// A bare group-type name means that group's administrator.
	if _, isGroupType := cat.GroupTypeID(first); isGroupType {
		first = "admin_of_" + first
	}
	agent, err := parsePrefix(cat, first)
	if err != nil {
		return nil, err
	}
	attr, err := parsePrefix(cat, rest)
	if err != nil {
		return nil, err
	}
	return &Expression{Text: s, kind: exprValue, args: []*Expression{agent, attr}}, nil
}

func parseDistance(cat *Catalog, s, inner string) (*Expression, error) {
	args := splitArgs(inner)
	if len(args) != 4 {
		return nil, &ArityError{Name: "distance", Want: "4", Got: len(args)}
	}
	e := &Expression{Text: s, kind: exprDistance}
	for _, a := range args {
		sub, err := parsePrefix(cat, a)
		if err != nil {
			return nil, err
		}
		e.args = append(e.args, sub)
	}
	return e, nil
}

func parsePool(cat *Catalog, s, inner string) (*Expression, error) {
	args := splitArgs(inner)
	if inner == "" {
		return nil, &ArityError{Name: "pool", Want: "1 or more", Got: 0}
	}
	e := &Expression{Text: s, kind: exprPool}
	for _, a := range args {
		gt, ok := cat.GroupTypeID(a)
		if !ok {
			return nil, &ResolveError{Kind: "group type", Name: a}
		}
		e.groupTypes = append(e.groupTypes, gt)
	}
	return e, nil
}

func parseFilter(cat *Catalog, s, inner string) (*Expression, error) {
	first, rest, ok := splitFirstArg(inner)
	if !ok {
		return nil, &ArityError{Name: "filter", Want: "2", Got: 1}
	}
	list, err := parsePrefix(cat, first)
	if err != nil {
		return nil, err
	}
	cl, err := ParseClause(cat, rest)
	if err != nil {
		return nil, err
	}
	return &Expression{Text: s, kind: exprFilter, args: []*Expression{list}, clause: cl}, nil
}

func parseListExpr(cat *Catalog, s, inner string) (*Expression, error) {
	if inner == "" {
		return &Expression{Text: s, kind: exprList}, nil
	}
	e := &Expression{Text: s, kind: exprList}
	for _, a := range splitArgs(inner) {
		sub, err := parsePrefix(cat, a)
		if err != nil {
			return nil, err
		}
		e.args = append(e.args, sub)
	}
	return e, nil
}

// target picks self or other depending on the "other:" prefix.
func (e *Expression) target(self, other Person) Person {
	if e.other {
		return other
	}
	return self
}

// Value evaluates the expression for self, with other available to
// "other:"-prefixed leaves.  other may be nil.
func (e *Expression) Value(ev *Env, self, other Person) float64 {
	switch e.kind {
	case exprNumber:
		return e.num
	case exprVar:
		p := e.target(self, other)
		if p == nil {
			return 0
		}
		return p.Var(e.slot)
	case exprGlobalVar:
		return ev.World.GlobalVar(e.slot)
	case exprFactor:
		return e.factor(ev, e.target(self, other))
	case exprOp:
		return e.opValue(ev, self, other)
	case exprSelect:
		return e.selectValue(ev, self, other)
	case exprValue:
		aid := PersonID(e.args[0].Value(ev, self, other))
		agent := ev.World.Person(aid)
		if agent == nil {
			ev.warnf("value: no such agent %d", aid)
			return 0
		}
		return e.args[1].Value(ev, agent, nil)
	case exprDistance:
		lat1 := e.args[0].Value(ev, self, other)
		lon1 := e.args[1].Value(ev, self, other)
		lat2 := e.args[2].Value(ev, self, other)
		lon2 := e.args[3].Value(ev, self, other)
		return ev.Proj.Distance(lat1, lon1, lat2, lon2)
	default:
		ev.warnf("list expression %q used as a scalar", e.Text)
		return 0
	}
}

func (e *Expression) opValue(ev *Env, self, other Person) float64 {
	v1 := e.args[0].Value(ev, self, other)
	var v2 float64
	if len(e.args) > 1 {
		v2 = e.args[1].Value(ev, self, other)
	}
	switch e.op {
	case opAdd:
		return v1 + v2
	case opSub:
		return v1 - v2
	case opMult:
		return v1 * v2
	case opDiv:
		if v2 == 0 {
			return 0
		}
		return v1 / v2
	case opMod:
		if v2 <= 0 {
			return 0
		}
		return math.Mod(v1, v2)
	case opEqual:
		if v1 == v2 {
			return 1
		}
		return 0
	case opDist:
		p1 := ev.World.Place(GroupID(v1))
		p2 := ev.World.Place(GroupID(v2))
		if p1 == nil || p2 == nil {
			return UnknownPlaceDistance
		}
		return ev.Proj.Distance(p1.Lat(), p1.Lon(), p2.Lat(), p2.Lon())
	case opMin:
		return math.Min(v1, v2)
	case opMax:
		return math.Max(v1, v2)
	case opUniform:
		return ev.Rnd.Range(v1, v2)
	case opNormal:
		return ev.Rnd.Normal(v1, v2)
	case opLognormal:
		sigma := math.Log(v2)
		if sigma == 0 {
			ev.warnf("lognormal with degenerate dispersion %v", v2)
			return v1
		}
		return ev.Rnd.LogNormal(math.Log(v1), sigma)
	case opBinomial:
		return ev.Rnd.Binomial(int(v1), v2)
	case opNegBinomial:
		return ev.Rnd.NegBinomial(int(v1), v2)
	case opPoisson:
		return ev.Rnd.Poisson(v1)
	case opExponential:
		return ev.Rnd.Exponential(v1)
	case opGeometric:
		if v1 <= 0 {
			ev.warnf("geometric with non-positive mean %v", v1)
			return 0
		}
		return ev.Rnd.Geometric(1 / v1)
	case opPow:
		return math.Pow(v1, v2)
	case opLog:
		if v1 <= 0 {
			ev.warnf("log of non-positive %v", v1)
			return LogSentinel
		}
		return math.Log(v1)
	case opExp:
		return math.Exp(v1)
	case opAbs:
		return math.Abs(v1)
	case opSin:
		return math.Sin(v1)
	case opCos:
		return math.Cos(v1)
	}
	return 0
}

func (e *Expression) selectValue(ev *Env, self, other Person) float64 {
	list := e.args[0].ListValue(ev, self, other)
	if e.pref != nil {
		candidates := make([]PersonID, 0, len(list))
		for _, v := range list {
			candidates = append(candidates, PersonID(v))
		}
		chosen, ok := e.pref.Select(ev, self, candidates)
		if !ok {
			ev.warnf("select from empty list in %q", e.Text)
			return MissingSelection
		}
		return float64(chosen)
	}
	i := int(e.index.Value(ev, self, other))
	if i < 0 || i >= len(list) {
		ev.warnf("select index %d out of range in %q", i, e.Text)
		return MissingSelection
	}
	return list[i]
}

// ListValue evaluates the expression as a sequence.  A scalar
// expression yields a one-element sequence.
func (e *Expression) ListValue(ev *Env, self, other Person) []float64 {
	switch e.kind {
	case exprListVar:
		p := e.target(self, other)
		if p == nil {
			return nil
		}
		return p.ListVar(e.slot)
	case exprGlobalListVar:
		return ev.World.GlobalListVar(e.slot)
	case exprPool:
		return e.poolValue(self)
	case exprFilter:
		return e.filterValue(ev, self)
	case exprList:
		var out []float64
		for _, a := range e.args {
			if a.IsList() {
				out = append(out, a.ListValue(ev, self, other)...)
			} else {
				out = append(out, a.Value(ev, self, other))
			}
		}
		return out
	default:
		return []float64{e.Value(ev, self, other)}
	}
}

func (e *Expression) poolValue(self Person) []float64 {
	if self == nil {
		return nil
	}
	var out []float64
	seen := map[PersonID]bool{}
	for _, gt := range e.groupTypes {
		g := self.GroupOfType(gt)
		if g == nil {
			continue
		}
		for _, id := range g.Members() {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, float64(id))
		}
	}
	return out
}

func (e *Expression) filterValue(ev *Env, self Person) []float64 {
	var out []float64
	seen := map[PersonID]bool{}
	for _, v := range e.args[0].ListValue(ev, self, nil) {
		id := PersonID(v)
		if seen[id] {
			continue
		}
		seen[id] = true
		candidate := ev.World.Person(id)
		if candidate == nil {
			continue
		}
		if e.clause.Eval(ev, self, candidate) {
			out = append(out, float64(id))
		}
	}
	return out
}
