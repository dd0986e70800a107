package core

// These errors are authoring errors: the rule text was wrong, not
// the engine.  They are collected per rule and surfaced before run.

import (
	"errors"
	"fmt"
)

// ParseError occurs when rule or expression text cannot be parsed:
// unbalanced parens, a missing operand, an unknown operator, or a
// malformed if/then frame.
type ParseError struct {
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return `cannot parse "` + e.Text + `": ` + e.Reason
}

// ResolveError occurs when a name in an otherwise well-formed rule
// does not resolve: an unknown condition, state, group type, network,
// variable, or list variable.
type ResolveError struct {
	Kind string
	Name string
}

func (e *ResolveError) Error() string {
	return `unknown ` + e.Kind + ` "` + e.Name + `"`
}

// ArityError occurs when a known action or operator gets the wrong
// number of arguments.
type ArityError struct {
	Name string
	Want string
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s wants %s arguments; got %d", e.Name, e.Want, e.Got)
}

// RuleWarning is a diagnostic that does not discard the rule: an
// unused rule, a rule hidden by an earlier one, or a numerically
// degenerate draw.
type RuleWarning struct {
	Rule   *Rule
	Reason string
}

func (e *RuleWarning) Error() string {
	if e.Rule == nil {
		return e.Reason
	}
	return e.Reason + `: "` + e.Rule.Text + `"`
}

// IsWarning reports whether err should go to the warning sink rather
// than the error sink.
func IsWarning(err error) bool {
	var w *RuleWarning
	return errors.As(err, &w)
}
