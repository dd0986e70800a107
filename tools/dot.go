package tools

// dot -Tpng states.dot > states.png

import (
	"fmt"
	"io"

	"github.com/Comcast/cohort/core"
)

// Dot writes a Graphviz digraph of a condition's state machine.  Next
// and default transitions are solid edges; the exposure entry is a
// dashed edge from a free-floating "exposed" node.
func Dot(cat *core.Catalog, reg *core.Registry, condName string, w io.Writer) error {
	c, ok := cat.CondID(condName)
	if !ok {
		return fmt.Errorf("unknown condition %q", condName)
	}
	cond := cat.Cond(c)

	fmt.Fprintf(w, "digraph %s {\n", cond.Name)
	fmt.Fprintf(w, `  graph [rankdir=LR,nodesep=0.3,ranksep=0.6]
  node [shape="record" style="rounded,filled"]
  edge [fontsize = "12"]
`)

	seen := map[string]bool{}
	node := func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		fmt.Fprintf(w, "  %q\n", name)
	}

	if r := reg.ExposureRuleFor(c); r != nil {
		node("exposed")
		node(cond.StateName(r.NextStateID))
		fmt.Fprintf(w, "  %q -> %q [style=dashed]\n",
			"exposed", cond.StateName(r.NextStateID))
	}
	for _, r := range reg.Compiled {
		if r.CondID != c || r.HiddenBy != nil {
			continue
		}
		var label string
		switch r.Kind {
		case core.NextRule:
			label = "next"
		case core.DefaultRule:
			label = "default"
		default:
			continue
		}
		from, to := cond.StateName(r.StateID), cond.StateName(r.NextStateID)
		node(from)
		node(to)
		fmt.Fprintf(w, "  %q -> %q [label=%q]\n", from, to, label)
	}

	fmt.Fprintf(w, "}\n")
	return nil
}
