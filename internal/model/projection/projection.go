// Package projection turns the income timeline into displayable rows of gross and net
// income per year.
package projection

import (
	"fmt"
	"strconv"
	"strings"

	"max.ks1230/income-planner/internal/entity/household"
	"max.ks1230/income-planner/internal/entity/income"
	"max.ks1230/income-planner/internal/model/records"
	"max.ks1230/income-planner/internal/model/tax"
	"max.ks1230/income-planner/internal/model/timeline"
)

type Row struct {
	Year         int
	SelfAge      int
	PartnerAge   *int
	SelfGross    int
	SelfNet      int
	PartnerGross int
	PartnerNet   int
}

// Build reads every year through the zero-default view, so years without a record show as blank rows.
func Build(t income.Timeline, id household.Identity, years []int) []Row {
	rows := make([]Row, 0, len(years))
	for _, year := range years {
		rec := t.Record(year)
		row := Row{
			Year:         year,
			SelfAge:      timeline.AgeAtYear(id.SelfBirthYear, year),
			SelfGross:    rec.SelfIncome,
			SelfNet:      tax.NetIncome(rec.SelfIncome),
			PartnerGross: rec.PartnerIncome,
			PartnerNet:   tax.NetIncome(rec.PartnerIncome),
		}
		if id.HasPartner() {
			age := timeline.AgeAtYear(*id.PartnerBirthYear, year)
			row.PartnerAge = &age
		}
		rows = append(rows, row)
	}
	return rows
}

// Window returns at most limit years of the horizon starting at the current year.
func Window(years []int, limit int) []int {
	if limit <= 0 || limit >= len(years) {
		return years
	}
	return years[:limit]
}

func (r Row) Ages() string {
	if r.PartnerAge == nil {
		return strconv.Itoa(r.SelfAge)
	}
	return fmt.Sprintf("%d/%d", r.SelfAge, *r.PartnerAge)
}

// Render formats rows as a fixed-width table. Amounts are in units of 10,000 yen.
func Render(rows []Row, withPartner bool) string {
	var sb strings.Builder
	if withPartner {
		sb.WriteString(fmt.Sprintf("%-5s %-6s %6s %6s %6s %6s\n", "year", "age", "gross", "net", "p.gross", "p.net"))
	} else {
		sb.WriteString(fmt.Sprintf("%-5s %-6s %6s %6s\n", "year", "age", "gross", "net"))
	}
	for _, r := range rows {
		if withPartner {
			sb.WriteString(fmt.Sprintf("%-5d %-6s %6s %6s %6s %6s\n",
				r.Year, r.Ages(),
				records.FormatIncome(r.SelfGross), records.FormatIncome(r.SelfNet),
				records.FormatIncome(r.PartnerGross), records.FormatIncome(r.PartnerNet),
			))
			continue
		}
		sb.WriteString(fmt.Sprintf("%-5d %-6s %6s %6s\n",
			r.Year, r.Ages(),
			records.FormatIncome(r.SelfGross), records.FormatIncome(r.SelfNet),
		))
	}
	return strings.TrimRight(sb.String(), "\n")
}
