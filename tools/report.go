package tools

import (
	"fmt"
	"io"
	"strings"

	md "github.com/russross/blackfriday/v2"

	"github.com/Comcast/cohort/core"
)

// RuleReportMD writes a Markdown report of a compiled rule program:
// the rules grouped by condition and state, with hidden and unused
// rules flagged, followed by the compiler diagnostics.
func RuleReportMD(cat *core.Catalog, reg *core.Registry, out io.Writer) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	f("# Rule program")
	f("")

	for c := 0; c < cat.CondCount(); c++ {
		cond := cat.Cond(c)
		f("## Condition %s", cond.Name)
		f("")
		if r := reg.ExposureRuleFor(c); r != nil {
			f("Exposure moves a person to **%s**.", cond.StateName(r.NextStateID))
			f("")
		}
		for s := range cond.States {
			var lines []string
			for _, r := range reg.Compiled {
				if r.Kind == core.ExposureRule || r.CondID != c || r.StateID != s {
					continue
				}
				line := fmt.Sprintf("- `%s`", r.Text)
				if r.HiddenBy != nil {
					line += " *(hidden)*"
				} else if !r.Used {
					line += " *(unused)*"
				}
				lines = append(lines, line)
			}
			if len(lines) == 0 {
				continue
			}
			f("### State %s", cond.StateName(s))
			f("")
			for _, l := range lines {
				f("%s", l)
			}
			f("")
		}
	}

	if warns := reg.Warnings(); len(warns) > 0 {
		f("## Diagnostics")
		f("")
		for _, w := range warns {
			f("- %s", w.Error())
		}
		f("")
	}
	return nil
}

// RuleReportHTML renders the Markdown report to HTML.
func RuleReportHTML(cat *core.Catalog, reg *core.Registry, out io.Writer) error {
	var buf strings.Builder
	if err := RuleReportMD(cat, reg, &buf); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, `<div class="ruleReport">%s</div>`+"\n",
		md.Run([]byte(buf.String())))
	return err
}
