package tools

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/Comcast/cohort/core"
	"github.com/Comcast/cohort/geo"
	"github.com/Comcast/cohort/pop"
	"github.com/Comcast/cohort/store"
)

// Expectation pins the occupancy of one condition state at the end of
// a day.
type Expectation struct {
	// Doc is an opaque documentation string.
	Doc string `yaml:"doc,omitempty"`

	Day       int    `yaml:"day"`
	Condition string `yaml:"condition"`
	State     string `yaml:"state"`
	Count     int    `yaml:"count"`
}

// Scenario is a self-contained simulation check: a population
// document, a rule program, and the occupancies required at the ends
// of given days.
type Scenario struct {
	// Doc is an opaque documentation string.
	Doc string `yaml:"doc,omitempty"`

	Seed    uint64 `yaml:"seed,omitempty"`
	Workers int    `yaml:"workers,omitempty"`

	// Population is a population document (see pop.Load).
	Population string `yaml:"population"`

	// Rules is a rule program, one rule per line.
	Rules string `yaml:"rules"`

	// Days is the number of days to simulate.  Zero means run
	// through the last expected day.
	Days int `yaml:"days,omitempty"`

	Expect []Expectation `yaml:"expect,omitempty"`
}

func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.Population == "" {
		return nil, fmt.Errorf("scenario has no population")
	}
	return &s, nil
}

// Run builds the world, prepares the rules, runs the engine, and
// checks every expectation.  Failed expectations are joined into the
// returned error.
func (s *Scenario) Run() error {
	cat, w, cal, err := pop.Load([]byte(s.Population), s.Seed)
	if err != nil {
		return err
	}

	reg := core.NewRegistry(cat)
	if err := reg.AddRuleFile(strings.NewReader(s.Rules)); err != nil {
		return err
	}
	if err := reg.PrepareRules(); err != nil {
		return err
	}

	workers := s.Workers
	if workers <= 0 {
		workers = 1
	}
	en := core.NewEngine(core.Config{
		Catalog:    cat,
		Registry:   reg,
		World:      w,
		Calendar:   cal,
		Projection: geo.DefaultProjection,
		Sinks:      core.NewSinks(nil, nil, nil),
		Seed:       s.Seed,
		Workers:    workers,
	})

	last := s.Days - 1
	byDay := map[int][]Expectation{}
	for _, e := range s.Expect {
		byDay[e.Day] = append(byDay[e.Day], e)
		if e.Day > last {
			last = e.Day
		}
	}

	var errs []error
	en.Start(0)
	for day := 0; day <= last; day++ {
		en.Tick(day)
		snap := store.Snapshot(cat, w, day)
		for _, e := range byDay[day] {
			got := snap.Counts[e.Condition][e.State]
			if got != e.Count {
				errs = append(errs, fmt.Errorf("day %d: %s.%s occupancy %d, wanted %d",
					day, e.Condition, e.State, got, e.Count))
			}
		}
	}
	return errors.Join(errs...)
}
