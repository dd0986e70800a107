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

// Symbolic constants recognized at expression leaves.  A bare name
// like "male" or "spouse" in rule text evaluates to the integer
// below, so eq(sex, male) and eq(sex, 1) are the same predicate.

// Sexes.
const (
	Female = 0
	Male   = 1
)

// Household relationship codes.
const (
	Householder = iota
	Spouse
	Child
	Sibling
	Parent
	Grandchild
	InLaw
	OtherRelative
	Boarder
	Housemate
	Partner
	FosterChild
	OtherNonRelative
	InstitutionalizedGroupQuartersPop
	NoninstitutionalizedGroupQuartersPop
)

// Race codes.
const (
	UnknownRace     = -1
	White           = 1
	AfricanAmerican = 2
	AmericanIndian  = 3
	AlaskaNative    = 4
	Tribal          = 5
	Asian           = 6
	HawaiianNative  = 7
	OtherRace       = 8
	MultipleRace    = 9
)

// Profile codes.
const (
	InfantProfile = iota
	PreschoolProfile
	StudentProfile
	TeacherProfile
	WorkerProfile
	WeekendWorkerProfile
	UnemployedProfile
	RetiredProfile
	PrisonerProfile
	CollegeStudentProfile
	MilitaryProfile
	NursingHomeResidentProfile
)

var symbolValues = map[string]float64{
	"female": Female,
	"male":   Male,

	"householder":        Householder,
	"spouse":             Spouse,
	"child":              Child,
	"sibling":            Sibling,
	"parent":             Parent,
	"grandchild":         Grandchild,
	"in_law":             InLaw,
	"other_relative":     OtherRelative,
	"boarder":            Boarder,
	"housemate":          Housemate,
	"partner":            Partner,
	"foster_child":       FosterChild,
	"other_non_relative": OtherNonRelative,
	"institutionalized_group_quarters_pop":    InstitutionalizedGroupQuartersPop,
	"noninstitutionalized_group_quarters_pop": NoninstitutionalizedGroupQuartersPop,

	"unknown_race":     UnknownRace,
	"white":            White,
	"african_american": AfricanAmerican,
	"american_indian":  AmericanIndian,
	"alaska_native":    AlaskaNative,
	"tribal":           Tribal,
	"asian":            Asian,
	"hawaiian_native":  HawaiianNative,
	"other_race":       OtherRace,
	"multiple_race":    MultipleRace,

	"infant":                InfantProfile,
	"preschool":             PreschoolProfile,
	"student":               StudentProfile,
	"teacher":               TeacherProfile,
	"worker":                WorkerProfile,
	"weekend_worker":        WeekendWorkerProfile,
	"unemployed":            UnemployedProfile,
	"retired":               RetiredProfile,
	"prisoner":              PrisonerProfile,
	"college_student":       CollegeStudentProfile,
	"military":              MilitaryProfile,
	"nursing_home_resident": NursingHomeResidentProfile,

	"Sun": 0, "Mon": 1, "Tue": 2, "Wed": 3, "Thu": 4, "Fri": 5, "Sat": 6,

	"Jan": 1, "Feb": 2, "Mar": 3, "Apr": 4, "May": 5, "Jun": 6,
	"Jul": 7, "Aug": 8, "Sep": 9, "Oct": 10, "Nov": 11, "Dec": 12,
}

// SymbolValue resolves a symbolic constant name.
func SymbolValue(name string) (float64, bool) {
	v, ok := symbolValues[name]
	return v, ok
}
