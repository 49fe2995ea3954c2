package timeline

import (
	"max.ks1230/income-planner/internal/clock"
)

// TerminalAge is the age of the reference person in the last simulated year.
const TerminalAge = 90

type Generator struct {
	clock clock.Clock
}

func NewGenerator(c clock.Clock) *Generator {
	return &Generator{clock: c}
}

// CurrentYear is read at call time, never cached.
func (g *Generator) CurrentYear() int {
	return g.clock.Now().Year()
}

// YearRange returns the ascending, inclusive years from the current year to birthYear+TerminalAge.
// The range is empty when that year is already in the past.
func (g *Generator) YearRange(birthYear int) []int {
	return YearRange(g.CurrentYear(), birthYear)
}

func YearRange(currentYear, birthYear int) []int {
	last := birthYear + TerminalAge
	if last < currentYear {
		return []int{}
	}
	years := make([]int, 0, last-currentYear+1)
	for year := currentYear; year <= last; year++ {
		years = append(years, year)
	}
	return years
}

func AgeAtYear(birthYear, year int) int {
	return year - birthYear
}
