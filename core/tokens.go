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

// Infix to prefix conversion for expression text.  Three passes:
// lift unary minus to a sentinel, expand the sentinel to an explicit
// (0-X) subtraction, then shunting-yard to a fully parenthesized
// prefix string with symbolic operator names.

import "strings"

const delims = ",+-*/%^()#"

var infixOpNames = map[string]string{
	"+": "add",
	"-": "sub",
	"*": "mult",
	"/": "div",
	"%": "mod",
	"^": "pow",
}

func opPrecedence(tok string) int {
	switch tok {
	case ",":
		return 1
	case "+", "-", "#":
		return 2
	case "*", "/":
		return 3
	case "^", "%":
		return 4
	}
	return 0
}

func isDelim(tok string) bool {
	return len(tok) == 1 && strings.ContainsRune(delims, rune(tok[0]))
}

// tokenize splits expression text on the delimiter characters,
// keeping each delimiter as its own token.  Whitespace separates
// tokens and is discarded.
func tokenize(s string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == ' ' || r == '\t':
			flush()
		case strings.ContainsRune(delims, r):
			flush()
			toks = append(toks, string(r))
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}

// liftUnaryMinus rewrites each '-' that follows an operator, an open
// paren, a comma, or the start of input to the sentinel '#'.
func liftUnaryMinus(toks []string) []string {
	out := make([]string, len(toks))
	unary := true
	for i, t := range toks {
		if t == "-" && unary {
			t = "#"
		}
		out[i] = t
		unary = isDelim(t) && t != ")"
	}
	return out
}

func matchParen(toks []string, open int) (int, bool) {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch toks[i] {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// expandMinus replaces each '#X' with '(0-X)', where X is the next
// atom, parenthesized group, or function call.  The rightmost
// sentinel expands first, so '##x' folds right to left.
func expandMinus(text string, toks []string) ([]string, error) {
	for {
		i := -1
		for j, t := range toks {
			if t == "#" {
				i = j
			}
		}
		if i < 0 {
			return toks, nil
		}
		if i == len(toks)-1 {
			return nil, &ParseError{Text: text, Reason: "unary minus at end of input"}
		}
		var end int // index of the last token of X
		next := toks[i+1]
		switch {
		case next == "(":
			close, ok := matchParen(toks, i+1)
			if !ok {
				return nil, &ParseError{Text: text, Reason: "unbalanced parens"}
			}
			end = close
		case isDelim(next):
			return nil, &ParseError{Text: text, Reason: "missing operand after unary minus"}
		case i+2 < len(toks) && toks[i+2] == "(":
			close, ok := matchParen(toks, i+2)
			if !ok {
				return nil, &ParseError{Text: text, Reason: "unbalanced parens"}
			}
			end = close
		default:
			end = i + 1
		}
		repl := make([]string, 0, len(toks)+4)
		repl = append(repl, toks[:i]...)
		repl = append(repl, "(", "0", "-")
		repl = append(repl, toks[i+1:end+1]...)
		repl = append(repl, ")")
		repl = append(repl, toks[end+1:]...)
		toks = repl
	}
}

// InfixToPrefix converts infix expression text to a fully
// parenthesized prefix string, so "2+3*4" becomes
// "add(2,mult(3,4))".  Function calls pass through with their
// arguments joined by commas.
func InfixToPrefix(text string) (string, error) {
	toks, err := expandMinus(text, liftUnaryMinus(tokenize(text)))
	if err != nil {
		return "", err
	}
	if len(toks) == 0 {
		return "", &ParseError{Text: text, Reason: "empty expression"}
	}

	var ops []string      // pending operators, "(" markers, function names
	var operands []string // operand strings, possibly comma-joined arg lists

	pop := func() (string, bool) {
		if len(operands) == 0 {
			return "", false
		}
		s := operands[len(operands)-1]
		operands = operands[:len(operands)-1]
		return s, true
	}
	apply := func(op string) error {
		if name, ok := infixOpNames[op]; ok {
			b, ok1 := pop()
			a, ok2 := pop()
			if !ok1 || !ok2 {
				return &ParseError{Text: text, Reason: "missing operand for " + op}
			}
			operands = append(operands, name+"("+a+","+b+")")
			return nil
		}
		if op == "," {
			b, ok1 := pop()
			a, ok2 := pop()
			if !ok1 || !ok2 {
				return &ParseError{Text: text, Reason: "missing operand at comma"}
			}
			operands = append(operands, a+","+b)
			return nil
		}
		// op is a function name
		a, ok := pop()
		if !ok {
			return &ParseError{Text: text, Reason: "missing argument for " + op}
		}
		operands = append(operands, op+"("+a+")")
		return nil
	}

	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch {
		case t == "(":
			ops = append(ops, "(")
		case t == ")":
			for {
				if len(ops) == 0 {
					return "", &ParseError{Text: text, Reason: "unbalanced parens"}
				}
				op := ops[len(ops)-1]
				ops = ops[:len(ops)-1]
				if op == "(" {
					break
				}
				if err := apply(op); err != nil {
					return "", err
				}
			}
			if len(ops) > 0 && !isDelim(ops[len(ops)-1]) && ops[len(ops)-1] != "(" {
				op := ops[len(ops)-1]
				ops = ops[:len(ops)-1]
				if err := apply(op); err != nil {
					return "", err
				}
			}
		case isDelim(t):
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top == "(" || opPrecedence(top) < opPrecedence(t) {
					break
				}
				ops = ops[:len(ops)-1]
				if err := apply(top); err != nil {
					return "", err
				}
			}
			ops = append(ops, t)
		case i+1 < len(toks) && toks[i+1] == "(":
			ops = append(ops, t) // function name
		default:
			operands = append(operands, t)
		}
	}
	for len(ops) > 0 {
		op := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if op == "(" {
			return "", &ParseError{Text: text, Reason: "unbalanced parens"}
		}
		if err := apply(op); err != nil {
			return "", err
		}
	}
	if len(operands) != 1 {
		return "", &ParseError{Text: text, Reason: "missing operator"}
	}
	return operands[0], nil
}

// splitArgs splits s on top-level commas, ignoring commas nested in
// parens.
func splitArgs(s string) []string {
	var args []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, s[start:i])
				start = i + 1
			}
		}
	}
	args = append(args, s[start:])
	return args
}

// splitFirstArg splits s at the first top-level comma.
func splitFirstArg(s string) (string, string, bool) {
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				return s[:i], s[i+1:], true
			}
		}
	}
	return s, "", false
}

// callParts splits "name(args)" into name and args.  The close paren
// must end the string.
func callParts(s string) (string, string, bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	name := s[:open]
	if strings.ContainsAny(name, delims) {
		return "", "", false
	}
	inner := s[open+1 : len(s)-1]
	depth := 0
	for _, r := range inner {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return "", "", false
			}
		}
	}
	return name, inner, depth == 0
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, s)
}
