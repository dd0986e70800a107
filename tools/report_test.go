package tools

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Comcast/cohort/core"
)

func program(t *testing.T) (*core.Catalog, *core.Registry) {
	t.Helper()
	cat := core.NewCatalog()
	cat.AddCondition(core.NewCondition("INF", "S", "E", "I", "R"))
	rg := core.NewRegistry(cat)
	for _, line := range []string{
		"if exposed(INF) then next(E)",
		"if state(INF.E) then wait(2)",
		"if state(INF.E) then next(I) with prob(0.9)",
		"if state(INF.E) then default(S)",
		"if state(INF.I) then next(R)",
		"if state(INF.I) then default(S)",
	} {
		rg.AddRuleLine(line)
	}
	if err := rg.PrepareRules(); err != nil {
		t.Fatal(err)
	}
	return cat, rg
}

func TestRuleReportMD(t *testing.T) {
	cat, rg := program(t)
	var buf bytes.Buffer
	if err := RuleReportMD(cat, rg, &buf); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	for _, want := range []string{
		"## Condition INF",
		"### State E",
		"Exposure moves a person to **E**",
		"then wait(2)",
		"*(hidden)*", // the default at I is blocked by next(R)
		"## Diagnostics",
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %q in:\n%s", want, s)
		}
	}
}

func TestRuleReportHTML(t *testing.T) {
	cat, rg := program(t)
	var buf bytes.Buffer
	if err := RuleReportHTML(cat, rg, &buf); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	if !strings.Contains(s, `<div class="ruleReport">`) {
		t.Fatal(s)
	}
	if !strings.Contains(s, "<h2") || !strings.Contains(s, "Condition INF") {
		t.Fatal(s)
	}
}

func TestDot(t *testing.T) {
	cat, rg := program(t)
	var buf bytes.Buffer
	if err := Dot(cat, rg, "INF", &buf); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	for _, want := range []string{
		"digraph INF {",
		`"exposed" -> "E" [style=dashed]`,
		`"E" -> "I" [label="next"]`,
		`"E" -> "S" [label="default"]`,
		`"I" -> "R" [label="next"]`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %q in:\n%s", want, s)
		}
	}
	// The hidden default at I stays out of the graph.
	if strings.Contains(s, `"I" -> "S"`) {
		t.Fatal(s)
	}
	if err := Dot(cat, rg, "nope", &buf); err == nil {
		t.Fatal("expected error")
	}
}
