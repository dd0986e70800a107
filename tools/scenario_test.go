package tools

import (
	"strings"
	"testing"
)

var dwellScenario = `
doc: dwell in I for two days, then recover
seed: 7
population: |
  conditions:
    - name: INF
      states: [S, E, I, R]
  people:
    - id: 1
      age: 30
      states: {INF: I}
    - id: 2
      age: 40
      states: {INF: I}
    - id: 3
      age: 50
      states: {INF: I}
rules: |
  if state(INF.I) then wait(2)
  if state(INF.I) then default(R)
expect:
  - {day: 1, condition: INF, state: I, count: 3}
  - {day: 2, condition: INF, state: R, count: 3}
  - {day: 2, condition: INF, state: I, count: 0}
`

func TestScenarioRun(t *testing.T) {
	s, err := ParseScenario([]byte(dwellScenario))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Run(); err != nil {
		t.Fatal(err)
	}
}

func TestScenarioFailure(t *testing.T) {
	s, err := ParseScenario([]byte(dwellScenario))
	if err != nil {
		t.Fatal(err)
	}
	s.Expect = append(s.Expect, Expectation{Day: 2, Condition: "INF", State: "E", Count: 1})
	err = s.Run()
	if err == nil {
		t.Fatal("expected a failed expectation")
	}
	if !strings.Contains(err.Error(), "INF.E occupancy 0, wanted 1") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestScenarioParseErrors(t *testing.T) {
	if _, err := ParseScenario([]byte("rules: |\n  x\n")); err == nil {
		t.Fatal("expected an error for a missing population")
	}
	if _, err := ParseScenario([]byte(":\tnot yaml")); err == nil {
		t.Fatal("expected a YAML error")
	}
}
