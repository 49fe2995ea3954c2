// Package records reconciles the sparse income timeline: seeding, per-cell edits,
// bulk reapplication and the input/display normalization of income cells.
// Every operation returns a new timeline and leaves its argument untouched.
package records

import (
	"strconv"
	"strings"
	"unicode"

	"max.ks1230/income-planner/internal/entity/income"
)

// SeedMissingYears inserts a flat record for every year of years that the timeline lacks.
func SeedMissingYears(t income.Timeline, years []int, selfInitial, partnerInitial int) income.Timeline {
	res := t
	for _, year := range years {
		if res.Has(year) {
			continue
		}
		res = res.Put(income.YearlyIncome{
			Year:          year,
			SelfIncome:    nonNegative(selfInitial),
			PartnerIncome: nonNegative(partnerInitial),
		})
	}
	return res
}

// UpdateCell upserts a single field. A missing year is created with the other field at zero.
func UpdateCell(t income.Timeline, year int, field income.Field, value int) income.Timeline {
	rec := t.Record(year).With(field, nonNegative(value))
	return t.Put(rec)
}

// ReapplyInitialIncome overwrites both fields of every existing year. On an empty timeline
// it seeds the supplied years instead. Callers must obtain confirmation before invoking it.
func ReapplyInitialIncome(t income.Timeline, selfValue, partnerValue int, years []int) income.Timeline {
	if t.IsEmpty() {
		return SeedMissingYears(t, years, selfValue, partnerValue)
	}
	res := t
	for _, year := range t.Years() {
		res = res.Put(income.YearlyIncome{
			Year:          year,
			SelfIncome:    nonNegative(selfValue),
			PartnerIncome: nonNegative(partnerValue),
		})
	}
	return res
}

// ParseInput strips every non-digit and parses the rest; anything unparseable reads as zero.
func ParseInput(raw string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	v, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return v
}

// FormatIncome renders zero as an empty cell.
func FormatIncome(value int) string {
	if value <= 0 {
		return ""
	}
	return strconv.Itoa(value)
}

// ParseYear accepts a plain four digit year.
func ParseYear(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) != 4 || strings.IndexFunc(raw, func(r rune) bool { return !unicode.IsDigit(r) }) >= 0 {
		return 0, false
	}
	year, err := strconv.Atoi(raw)
	return year, err == nil
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
