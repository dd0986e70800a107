// Package cohort simulates condition rules over a synthetic
// population.
//
// The rule language, compiler, and engine are in package 'core', the
// population store is in 'pop', and a command-line driver is in
// `cmd/cohort`.
package cohort
