// Package tax converts gross annual income into net income through a simplified
// statutory pipeline: salary deduction, progressive income tax, flat resident tax
// and flat social insurance. Dependent deductions and insurance caps are not modeled.
package tax

import (
	"github.com/shopspring/decimal"
)

type bracket struct {
	threshold decimal.Decimal
	rate      decimal.Decimal
}

// brackets are ordered from the top threshold down.
var brackets = []bracket{
	{decimal.NewFromInt(4000), decimal.RequireFromString("0.45")},
	{decimal.NewFromInt(1800), decimal.RequireFromString("0.40")},
	{decimal.NewFromInt(900), decimal.RequireFromString("0.33")},
	{decimal.NewFromInt(695), decimal.RequireFromString("0.23")},
	{decimal.NewFromInt(330), decimal.RequireFromString("0.20")},
	{decimal.NewFromInt(195), decimal.RequireFromString("0.10")},
	{decimal.Zero, decimal.RequireFromString("0.05")},
}

var (
	residentTaxRate     = decimal.RequireFromString("0.10")
	socialInsuranceRate = decimal.RequireFromString("0.15")

	minDeduction = decimal.NewFromInt(65)
	maxDeduction = decimal.NewFromInt(195)
)

// Breakdown holds every stage of the pipeline in 10,000 currency unit blocks.
type Breakdown struct {
	Gross           decimal.Decimal
	SalaryDeduction decimal.Decimal
	Taxable         decimal.Decimal
	IncomeTax       decimal.Decimal
	ResidentTax     decimal.Decimal
	SocialInsurance decimal.Decimal
	Net             decimal.Decimal
}

// NetIncome is the net of Calculate rounded half-up to a whole block. It is zero for gross <= 0.
func NetIncome(gross int) int {
	if gross <= 0 {
		return 0
	}
	return int(Calculate(gross).Net.Round(0).IntPart())
}

func Calculate(gross int) Breakdown {
	if gross <= 0 {
		return Breakdown{
			Gross:           decimal.Zero,
			SalaryDeduction: decimal.Zero,
			Taxable:         decimal.Zero,
			IncomeTax:       decimal.Zero,
			ResidentTax:     decimal.Zero,
			SocialInsurance: decimal.Zero,
			Net:             decimal.Zero,
		}
	}

	g := decimal.NewFromInt(int64(gross))
	deduction := SalaryDeduction(g)
	taxable := decimal.Max(decimal.Zero, g.Sub(deduction))
	incomeTax := IncomeTax(taxable)
	residentTax := taxable.Mul(residentTaxRate)
	social := g.Mul(socialInsuranceRate)
	net := decimal.Max(decimal.Zero, g.Sub(incomeTax).Sub(residentTax).Sub(social))

	return Breakdown{
		Gross:           g,
		SalaryDeduction: deduction,
		Taxable:         taxable,
		IncomeTax:       incomeTax,
		ResidentTax:     residentTax,
		SocialInsurance: social,
		Net:             net,
	}
}

// SalaryDeduction is piecewise linear in gross with a floor of 65 and a ceiling of 195.
func SalaryDeduction(g decimal.Decimal) decimal.Decimal {
	switch {
	case g.LessThanOrEqual(decimal.NewFromInt(180)):
		return minDeduction
	case g.LessThanOrEqual(decimal.NewFromInt(360)):
		return g.Mul(decimal.RequireFromString("0.4")).Sub(decimal.NewFromInt(18))
	case g.LessThanOrEqual(decimal.NewFromInt(660)):
		return g.Mul(decimal.RequireFromString("0.3")).Add(decimal.NewFromInt(18))
	case g.LessThanOrEqual(decimal.NewFromInt(850)):
		return g.Mul(decimal.RequireFromString("0.2")).Add(decimal.NewFromInt(54))
	default:
		return maxDeduction
	}
}

// IncomeTax taxes the part of taxable above each threshold at that bracket's rate, top bracket first.
func IncomeTax(taxable decimal.Decimal) decimal.Decimal {
	tax := decimal.Zero
	remaining := taxable
	for _, b := range brackets {
		if remaining.GreaterThan(b.threshold) {
			tax = tax.Add(remaining.Sub(b.threshold).Mul(b.rate))
			remaining = b.threshold
		}
	}
	return tax
}
