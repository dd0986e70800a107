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
	"strconv"
	"strings"

	"github.com/Comcast/cohort/date"
)

type cmpOp int

const (
	cmpEq cmpOp = iota
	cmpNeq
	cmpLt
	cmpLte
	cmpGt
	cmpGte
)

var cmpNames = map[string]cmpOp{
	"eq": cmpEq, "neq": cmpNeq,
	"lt": cmpLt, "lte": cmpLte,
	"gt": cmpGt, "gte": cmpGte,
}

// Infix comparison spellings, rewritten to prefix before parsing.
// Two-character spellings come first so "<=" is not read as "<".
var infixCmps = []struct{ infix, prefix string }{
	{"==", "eq"},
	{"!=", "neq"},
	{"<=", "lte"},
	{">=", "gte"},
	{">", "gt"},
	{"<", "lt"},
}

type predKind int

const (
	predCompare predKind = iota
	predRange
	predDate
	predDateRange
	predAt
	predMember
	predAdmin
	predHost
	predOpen
	predExposedIn
	predExposedExternally
	predConnectedTo
	predConnectedFrom
	predConnected
	predIsStudent
	predIsImportAgent
)

// Predicate is one compiled test in a clause.
type Predicate struct {
	Text   string
	kind   predKind
	negate bool

	cmp        cmpOp
	e1, e2, e3 *Expression

	groupType int
	cond      int
	network   int
	lo, hi    int // date codes
}

// prefixNotation rewrites the first top-level infix comparison to
// its prefix form, so "age<=10" becomes "lte(age,10)".
func prefixNotation(s string) string {
	for _, c := range infixCmps {
		depth := 0
		for i := 0; i+len(c.infix) <= len(s); i++ {
			switch s[i] {
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth == 0 && s[i:i+len(c.infix)] == c.infix {
				return c.prefix + "(" + s[:i] + "," + s[i+len(c.infix):] + ")"
			}
		}
	}
	return s
}

// ParsePredicate parses one predicate and resolves its names.
func ParsePredicate(cat *Catalog, text string) (*Predicate, error) {
	s := prefixNotation(stripSpace(text))
	p, err := parsePredicate(cat, s)
	if err != nil {
		return nil, err
	}
	p.Text = text
	return p, nil
}

func parsePredicate(cat *Catalog, s string) (*Predicate, error) {
	switch s {
	case "is_student":
		return &Predicate{kind: predIsStudent}, nil
	case "is_import_agent":
		return &Predicate{kind: predIsImportAgent}, nil
	}
	name, inner, ok := callParts(s)
	if !ok {
		return nil, &ParseError{Text: s, Reason: "not a predicate"}
	}
	if name == "not" {
		p, err := parsePredicate(cat, prefixNotation(inner))
		if err != nil {
			return nil, err
		}
		p.negate = !p.negate
		return p, nil
	}
	args := splitArgs(inner)

	if cmp, isCmp := cmpNames[name]; isCmp {
		if len(args) != 2 {
			return nil, &ArityError{Name: name, Want: "2", Got: len(args)}
		}
		// The right side of a current_state_in comparison may be a
		// state name of that condition.
		if rest, ok := strings.CutPrefix(args[0], "current_state_in_"); ok {
			if c, ok := cat.CondID(rest); ok {
				if st, ok := cat.Cond(c).StateID(args[1]); ok {
					args[1] = strconv.Itoa(st)
				}
			}
		}
		e1, err := ParseExpression(cat, args[0])
		if err != nil {
			return nil, err
		}
		e2, err := ParseExpression(cat, args[1])
		if err != nil {
			return nil, err
		}
		return &Predicate{kind: predCompare, cmp: cmp, e1: e1, e2: e2}, nil
	}

	switch name {
	case "range":
		if len(args) != 3 {
			return nil, &ArityError{Name: name, Want: "3", Got: len(args)}
		}
		e1, err := ParseExpression(cat, args[0])
		if err != nil {
			return nil, err
		}
		e2, err := ParseExpression(cat, args[1])
		if err != nil {
			return nil, err
		}
		e3, err := ParseExpression(cat, args[2])
		if err != nil {
			return nil, err
		}
		return &Predicate{kind: predRange, e1: e1, e2: e2, e3: e3}, nil

	case "date":
		if len(args) != 1 {
			return nil, &ArityError{Name: name, Want: "1", Got: len(args)}
		}
		if code, err := date.ParseCode(args[0]); err == nil {
			return &Predicate{kind: predDate, lo: code}, nil
		}
		e1, err := ParseExpression(cat, args[0])
		if err != nil {
			return nil, err
		}
		return &Predicate{kind: predDate, e1: e1}, nil

	case "date_range":
		if len(args) != 2 {
			return nil, &ArityError{Name: name, Want: "2", Got: len(args)}
		}
		lo, err := parseDateCode(args[0])
		if err != nil {
			return nil, err
		}
		hi, err := parseDateCode(args[1])
		if err != nil {
			return nil, err
		}
		return &Predicate{kind: predDateRange, lo: lo, hi: hi}, nil

	case "at", "member", "admin", "admins", "host", "hosts", "open":
		if len(args) != 1 {
			return nil, &ArityError{Name: name, Want: "1", Got: len(args)}
		}
		gt, ok := cat.GroupTypeID(args[0])
		if !ok {
			return nil, &ResolveError{Kind: "group type", Name: args[0]}
		}
		kind := map[string]predKind{
			"at": predAt, "member": predMember,
			"admin": predAdmin, "admins": predAdmin,
			"host": predHost, "hosts": predHost,
			"open": predOpen,
		}[name]
		return &Predicate{kind: kind, groupType: gt}, nil

	case "exposed_in":
		if len(args) != 2 {
			return nil, &ArityError{Name: name, Want: "2", Got: len(args)}
		}
		c, ok := cat.CondID(args[0])
		if !ok {
			return nil, &ResolveError{Kind: "condition", Name: args[0]}
		}
		gt, ok := cat.GroupTypeID(args[1])
		if !ok {
			return nil, &ResolveError{Kind: "group type", Name: args[1]}
		}
		return &Predicate{kind: predExposedIn, cond: c, groupType: gt}, nil

	case "exposed_externally":
		if len(args) != 1 {
			return nil, &ArityError{Name: name, Want: "1", Got: len(args)}
		}
		c, ok := cat.CondID(args[0])
		if !ok {
			return nil, &ResolveError{Kind: "condition", Name: args[0]}
		}
		return &Predicate{kind: predExposedExternally, cond: c}, nil

	case "is_connected_to", "is_connected_from", "is_connected":
		if len(args) != 2 {
			return nil, &ArityError{Name: name, Want: "2", Got: len(args)}
		}
		e1, err := ParseExpression(cat, args[0])
		if err != nil {
			return nil, err
		}
		net, ok := cat.NetworkID(args[1])
		if !ok {
			return nil, &ResolveError{Kind: "network", Name: args[1]}
		}
		kind := map[string]predKind{
			"is_connected_to":   predConnectedTo,
			"is_connected_from": predConnectedFrom,
			"is_connected":      predConnected,
		}[name]
		return &Predicate{kind: kind, e1: e1, network: net}, nil

	case "is_student", "is_import_agent":
		if inner != "" {
			return nil, &ArityError{Name: name, Want: "0", Got: len(args)}
		}
		if name == "is_student" {
			return &Predicate{kind: predIsStudent}, nil
		}
		return &Predicate{kind: predIsImportAgent}, nil
	}
	return nil, &ParseError{Text: s, Reason: "unknown predicate " + name}
}

func parseDateCode(s string) (int, error) {
	if code, err := date.ParseCode(s); err == nil {
		return code, nil
	}
	code, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ParseError{Text: s, Reason: "not a date"}
	}
	return code, nil
}

// Eval tests the predicate for self, with other as the candidate for
// "other:" leaves.
func (p *Predicate) Eval(ev *Env, self, other Person) bool {
	v := p.eval(ev, self, other)
	if p.negate {
		return !v
	}
	return v
}

func (p *Predicate) eval(ev *Env, self, other Person) bool {
	switch p.kind {
	case predCompare:
		v1 := p.e1.Value(ev, self, other)
		v2 := p.e2.Value(ev, self, other)
		switch p.cmp {
		case cmpEq:
			return v1 == v2
		case cmpNeq:
			return v1 != v2
		case cmpLt:
			return v1 < v2
		case cmpLte:
			return v1 <= v2
		case cmpGt:
			return v1 > v2
		case cmpGte:
			return v1 >= v2
		}
	case predRange:
		v := p.e1.Value(ev, self, other)
		return p.e2.Value(ev, self, other) <= v && v <= p.e3.Value(ev, self, other)
	case predDate:
		today := ev.Cal.Code(ev.Day)
		if p.e1 != nil {
			return today == int(p.e1.Value(ev, self, other))
		}
		return today == p.lo
	case predDateRange:
		return date.CodeInRange(ev.Cal.Code(ev.Day), p.lo, p.hi)
	case predAt:
		if self == nil {
			return false
		}
		g := self.GroupOfType(p.groupType)
		return g != nil && self.Present(ev.Day, p.groupType) && g.Open(ev.Day)
	case predMember:
		return self != nil && self.GroupOfType(p.groupType) != nil
	case predAdmin, predHost:
		if self == nil {
			return false
		}
		g := self.GroupOfType(p.groupType)
		return g != nil && g.Admin() == self.ID()
	case predOpen:
		if self == nil {
			return false
		}
		g := self.GroupOfType(p.groupType)
		return g != nil && g.Open(ev.Day)
	case predExposedIn:
		return self != nil && self.ExposureGroupType(p.cond) == p.groupType
	case predExposedExternally:
		return self != nil && self.ExposedExternally(p.cond)
	case predConnectedTo, predConnectedFrom, predConnected:
		if self == nil {
			return false
		}
		net := ev.World.Network(p.network)
		if net == nil {
			return false
		}
		target := PersonID(p.e1.Value(ev, self, other))
		switch p.kind {
		case predConnectedTo:
			return net.HasEdge(self.ID(), target)
		case predConnectedFrom:
			return net.HasEdge(target, self.ID())
		default:
			return net.HasEdge(self.ID(), target) || net.HasEdge(target, self.ID())
		}
	case predIsStudent:
		return self != nil && self.IsStudent()
	case predIsImportAgent:
		return self != nil && self.IsImportAgent()
	}
	return false
}
