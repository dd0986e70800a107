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

// A Factor is a leaf expression reading an attribute of a person or
// of the simulation.  Names resolve once at compile; evaluation is a
// direct call.

import "strings"

// FactorFn reads one attribute.  p may be nil, in which case the
// value is 0.
type FactorFn func(ev *Env, p Person) float64

func personFactor(read func(Person) float64) FactorFn {
	return func(_ *Env, p Person) float64 {
		if p == nil {
			return 0
		}
		return read(p)
	}
}

var plainFactors = map[string]FactorFn{
	"id":      personFactor(func(p Person) float64 { return float64(p.ID()) }),
	"age":     personFactor(func(p Person) float64 { return p.Age() }),
	"sex":     personFactor(func(p Person) float64 { return float64(p.Sex()) }),
	"race":    personFactor(func(p Person) float64 { return float64(p.Race()) }),
	"profile": personFactor(func(p Person) float64 { return float64(p.Profile()) }),
	"household_relationship": personFactor(func(p Person) float64 {
		return float64(p.HouseholdRole())
	}),

	"day":    func(ev *Env, _ Person) float64 { return float64(ev.Day) },
	"random": func(ev *Env, _ Person) float64 { return ev.Rnd.Uniform() },
	"year": func(ev *Env, _ Person) float64 {
		return float64(ev.Cal.Time(ev.Day).Year())
	},
	"date": func(ev *Env, _ Person) float64 {
		return float64(ev.Cal.Code(ev.Day))
	},
	"day_of_week": func(ev *Env, _ Person) float64 {
		return float64(ev.Cal.Weekday(ev.Day))
	},
	"month": func(ev *Env, _ Person) float64 {
		return float64(int(ev.Cal.Time(ev.Day).Month()))
	},
	"day_of_month": func(ev *Env, _ Person) float64 {
		return float64(ev.Cal.Time(ev.Day).Day())
	},
}

// relationship is accepted for household_relationship, and sim_day
// for day.
func init() {
	plainFactors["relationship"] = plainFactors["household_relationship"]
	plainFactors["sim_day"] = plainFactors["day"]
}

// ResolveFactor resolves a factor name: a plain attribute, a
// per-condition dynamic attribute such as current_state_in_INF, or a
// per-group-type attribute such as admin_of_Household.
func (cat *Catalog) ResolveFactor(name string) (FactorFn, error) {
	if fn, ok := plainFactors[name]; ok {
		return fn, nil
	}
	if rest, ok := strings.CutPrefix(name, "current_state_in_"); ok {
		cond, ok := cat.CondID(rest)
		if !ok {
			return nil, &ResolveError{Kind: "condition", Name: rest}
		}
		return personFactor(func(p Person) float64 {
			return float64(p.State(cond))
		}), nil
	}
	if rest, ok := strings.CutPrefix(name, "susceptibility_to_"); ok {
		cond, ok := cat.CondID(rest)
		if !ok {
			return nil, &ResolveError{Kind: "condition", Name: rest}
		}
		return personFactor(func(p Person) float64 {
			return p.Susceptibility(cond)
		}), nil
	}
	if rest, ok := strings.CutPrefix(name, "transmissibility_for_"); ok {
		cond, ok := cat.CondID(rest)
		if !ok {
			return nil, &ResolveError{Kind: "condition", Name: rest}
		}
		return personFactor(func(p Person) float64 {
			return p.Transmissibility(cond)
		}), nil
	}
	if rest, ok := strings.CutPrefix(name, "admin_of_"); ok {
		gt, ok := cat.GroupTypeID(rest)
		if !ok {
			return nil, &ResolveError{Kind: "group type", Name: rest}
		}
		return personFactor(func(p Person) float64 {
			g := p.GroupOfType(gt)
			if g == nil {
				return float64(NoPerson)
			}
			return float64(g.Admin())
		}), nil
	}
	if rest, ok := strings.CutPrefix(name, "id_of_"); ok {
		gt, ok := cat.GroupTypeID(rest)
		if !ok {
			return nil, &ResolveError{Kind: "group type", Name: rest}
		}
		return personFactor(func(p Person) float64 {
			g := p.GroupOfType(gt)
			if g == nil {
				return -1
			}
			return float64(g.ID())
		}), nil
	}
	if rest, ok := strings.CutPrefix(name, "size_of_"); ok {
		gt, ok := cat.GroupTypeID(rest)
		if !ok {
			return nil, &ResolveError{Kind: "group type", Name: rest}
		}
		return personFactor(func(p Person) float64 {
			g := p.GroupOfType(gt)
			if g == nil {
				return 0
			}
			return float64(len(g.Members()))
		}), nil
	}
	if rest, ok := strings.CutPrefix(name, "list_size_of_"); ok {
		if slot, ok := cat.ListVarID(rest); ok {
			return personFactor(func(p Person) float64 {
				return float64(len(p.ListVar(slot)))
			}), nil
		}
		if slot, ok := cat.GlobalListVarID(rest); ok {
			return func(ev *Env, _ Person) float64 {
				return float64(len(ev.World.GlobalListVar(slot)))
			}, nil
		}
		return nil, &ResolveError{Kind: "list variable", Name: rest}
	}
	if rest, ok := strings.CutPrefix(name, "out_degree_of_"); ok {
		net, ok := cat.NetworkID(rest)
		if !ok {
			return nil, &ResolveError{Kind: "network", Name: rest}
		}
		return func(ev *Env, p Person) float64 {
			if p == nil {
				return 0
			}
			n := ev.World.Network(net)
			if n == nil {
				return 0
			}
			return float64(n.OutDegree(p.ID()))
		}, nil
	}
	if rest, ok := strings.CutPrefix(name, "lat_of_"); ok {
		gt, ok := cat.GroupTypeID(rest)
		if !ok {
			return nil, &ResolveError{Kind: "group type", Name: rest}
		}
		return personFactor(func(p Person) float64 {
			g := p.GroupOfType(gt)
			if g == nil {
				return 0
			}
			return g.Lat()
		}), nil
	}
	if rest, ok := strings.CutPrefix(name, "lon_of_"); ok {
		gt, ok := cat.GroupTypeID(rest)
		if !ok {
			return nil, &ResolveError{Kind: "group type", Name: rest}
		}
		return personFactor(func(p Person) float64 {
			g := p.GroupOfType(gt)
			if g == nil {
				return 0
			}
			return g.Lon()
		}), nil
	}
	return nil, &ResolveError{Kind: "factor", Name: name}
}
