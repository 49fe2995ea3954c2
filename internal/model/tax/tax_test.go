package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func Test_OnNonPositiveGross_ShouldReturnZero(t *testing.T) {
	assert.Equal(t, 0, NetIncome(0))
	assert.Equal(t, 0, NetIncome(-100))
	assert.True(t, Calculate(-1).Net.IsZero())
}

func Test_OnGross500_ShouldMatchPipeline(t *testing.T) {
	b := Calculate(500)

	assert.True(t, b.SalaryDeduction.Equal(dec("168")), b.SalaryDeduction.String())
	assert.True(t, b.Taxable.Equal(dec("332")), b.Taxable.String())
	assert.True(t, b.IncomeTax.Equal(dec("23.65")), b.IncomeTax.String())
	assert.True(t, b.ResidentTax.Equal(dec("33.2")), b.ResidentTax.String())
	assert.True(t, b.SocialInsurance.Equal(dec("75")), b.SocialInsurance.String())
	assert.True(t, b.Net.Equal(dec("368.15")), b.Net.String())
	assert.Equal(t, 368, NetIncome(500))
}

func Test_OnKnownGross_ShouldReturnRoundedNet(t *testing.T) {
	cases := []struct {
		gross int
		net   int
	}{
		{gross: 1, net: 1},
		{gross: 4, net: 3},
		{gross: 180, net: 136},
		{gross: 181, net: 135},
		{gross: 660, net: 471},
		{gross: 661, net: 462},
		{gross: 850, net: 577},
		{gross: 851, net: 569},
		{gross: 10000, net: 3587},
	}
	for _, c := range cases {
		assert.Equal(t, c.net, NetIncome(c.gross), "gross %d", c.gross)
	}
}

func Test_OnHalfBlock_ShouldRoundUp(t *testing.T) {
	// 10 * 0.85 = 8.5 with no taxable income left after the minimum deduction.
	assert.True(t, Calculate(10).Net.Equal(dec("8.5")))
	assert.Equal(t, 9, NetIncome(10))
}

func Test_OnPositiveGross_ShouldStayBelowGrossAndNonNegative(t *testing.T) {
	for g := 1; g <= 6000; g++ {
		b := Calculate(g)
		assert.True(t, b.Net.LessThan(decimal.NewFromInt(int64(g))), "gross %d", g)
		net := NetIncome(g)
		assert.GreaterOrEqual(t, net, 0, "gross %d", g)
		assert.LessOrEqual(t, net, g, "gross %d", g)
	}
}

func Test_OnSalaryDeductionBreakpoints_ShouldFollowSchedule(t *testing.T) {
	cases := []struct {
		gross     string
		deduction string
	}{
		{"100", "65"},
		{"180", "65"},
		{"181", "54.4"},
		{"360", "126"},
		{"361", "126.3"},
		{"660", "216"},
		{"661", "186.2"},
		{"850", "224"},
		{"851", "195"},
		{"5000", "195"},
	}
	for _, c := range cases {
		d := SalaryDeduction(dec(c.gross))
		assert.True(t, d.Equal(dec(c.deduction)), "gross %s: %s", c.gross, d.String())
	}
}

func Test_OnBreakpoints_ShouldBoundNetStep(t *testing.T) {
	for _, b := range []int{180, 360, 660, 850} {
		step := NetIncome(b+1) - NetIncome(b)
		if step < 0 {
			step = -step
		}
		assert.LessOrEqual(t, step, 10, "breakpoint %d", b)
	}
}

func Test_OnSegmentInterior_ShouldBeMonotonic(t *testing.T) {
	segments := [][2]int{{1, 180}, {181, 360}, {361, 660}, {661, 850}, {851, 6000}}
	for _, seg := range segments {
		prev := Calculate(seg[0]).Net
		for g := seg[0] + 1; g <= seg[1]; g++ {
			cur := Calculate(g).Net
			assert.True(t, cur.GreaterThan(prev), "gross %d", g)
			prev = cur
		}
	}
}

func Test_OnIncomeTax_ShouldEqualSumOfBracketSlices(t *testing.T) {
	bounds := []int64{0, 195, 330, 695, 900, 1800, 4000}
	rates := []string{"0.05", "0.10", "0.20", "0.23", "0.33", "0.40", "0.45"}

	sliced := func(taxable decimal.Decimal) decimal.Decimal {
		sum := decimal.Zero
		for i, lo := range bounds {
			low := decimal.NewFromInt(lo)
			if !taxable.GreaterThan(low) {
				break
			}
			high := taxable
			if i+1 < len(bounds) {
				high = decimal.Min(taxable, decimal.NewFromInt(bounds[i+1]))
			}
			sum = sum.Add(high.Sub(low).Mul(dec(rates[i])))
		}
		return sum
	}

	for _, raw := range []string{"0", "100", "195", "195.5", "332", "694.9", "900", "1799", "4000", "4000.1", "12345.6"} {
		taxable := dec(raw)
		assert.True(t, IncomeTax(taxable).Equal(sliced(taxable)), "taxable %s", raw)
	}
}
