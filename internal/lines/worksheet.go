// SPDX-License-Identifier: Apache-2.0

package lines

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/returnproj/returncalc/internal/money"
	"github.com/returnproj/returncalc/internal/policy"
)

// TaxComputationWorksheetTax applies the Tax Computation Worksheet from the
// Form 1040 instructions: within each bracket row, tax is income*rate minus
// the row's subtraction amount. The worksheet only covers incomes at or above
// its minimum; smaller incomes use the tax tables, which are out of scope
// here and reported as an error.
func TaxComputationWorksheetTax(taxableIncome decimal.Decimal, pol policy.Policy) (decimal.Decimal, error) {
	minIncome, err := pol.Amount("tax_computation_worksheet", "min_income")
	if err != nil {
		return decimal.Zero, err
	}
	if taxableIncome.LessThan(minIncome) {
		return decimal.Zero, fmt.Errorf(
			"tax computation worksheet applies to amounts at or above %s, got %s",
			minIncome, taxableIncome)
	}
	rows, err := pol.WorksheetRows("tax_computation_worksheet", "sections")
	if err != nil {
		return decimal.Zero, err
	}
	for _, row := range rows {
		if taxableIncome.LessThan(row.Min) {
			continue
		}
		if row.Max != nil && taxableIncome.GreaterThan(*row.Max) {
			continue
		}
		tax := taxableIncome.Mul(row.Rate).Sub(row.Subtract)
		return money.RoundToDollar(tax), nil
	}
	return decimal.Zero, fmt.Errorf("no tax computation worksheet row matched income %s", taxableIncome)
}

// QDCGWorksheetResult is the outcome of the Qualified Dividends and Capital
// Gain Tax Worksheet. CapitalGainRatesApplied reports whether the
// preferential-rate computation (line 23) produced a lower tax than ordinary
// rates on all income (line 24).
type QDCGWorksheetResult struct {
	Tax                     decimal.Decimal
	CapitalGainRatesApplied bool
}

// qdcgLines3To5 computes worksheet lines 3 through 5: the income taxed at
// capital-gain rates (line 4) and the remainder taxed at ordinary rates
// (line 5). Line 3 is nonzero only when both Schedule D lines 15 and 16 are
// positive.
func qdcgLines3To5(taxableIncome, qualifiedDividends, scheduleDLine15, scheduleDLine16 decimal.Decimal) (line3, line4, line5 decimal.Decimal) {
	line3 = decimal.Zero
	if scheduleDLine15.IsPositive() && scheduleDLine16.IsPositive() {
		line3 = money.Min(scheduleDLine15, scheduleDLine16)
	}
	line4 = qualifiedDividends.Add(line3)
	line5 = money.Max(taxableIncome.Sub(line4), decimal.Zero)
	return line3, line4, line5
}

// QDCGWorksheetLine22TaxOnLine5 computes worksheet line 22, the ordinary-rate
// tax on the income that remains after removing qualified dividends and net
// capital gain.
func QDCGWorksheetLine22TaxOnLine5(taxableIncome, qualifiedDividends, scheduleDLine15, scheduleDLine16 decimal.Decimal, pol policy.Policy) (decimal.Decimal, error) {
	_, _, line5 := qdcgLines3To5(taxableIncome, qualifiedDividends, scheduleDLine15, scheduleDLine16)
	return TaxComputationWorksheetTax(line5, pol)
}

// QDCGWorksheetLine24TaxOnLine1 computes worksheet line 24, the ordinary-rate
// tax on all taxable income.
func QDCGWorksheetLine24TaxOnLine1(taxableIncome decimal.Decimal, pol policy.Policy) (decimal.Decimal, error) {
	return TaxComputationWorksheetTax(taxableIncome, pol)
}

// QDCGWorksheetLine25 computes worksheet line 25, the tax on all taxable
// income: the smaller of the preferential-rate computation (line 23) and the
// ordinary-rate tax on everything (line 24). Lines 7 through 21 stack the
// zero, fifteen, and twenty percent capital-gain brackets against the policy
// thresholds.
func QDCGWorksheetLine25(taxableIncome, qualifiedDividends, scheduleDLine15, scheduleDLine16 decimal.Decimal, pol policy.Policy) (QDCGWorksheetResult, error) {
	_, line4, line5 := qdcgLines3To5(taxableIncome, qualifiedDividends, scheduleDLine15, scheduleDLine16)

	line22, err := TaxComputationWorksheetTax(line5, pol)
	if err != nil {
		return QDCGWorksheetResult{}, err
	}
	line24, err := TaxComputationWorksheetTax(taxableIncome, pol)
	if err != nil {
		return QDCGWorksheetResult{}, err
	}

	zeroRateThreshold, err := pol.Amount("capital_gains", "zero_rate_threshold")
	if err != nil {
		return QDCGWorksheetResult{}, err
	}
	twentyRateThreshold, err := pol.Amount("capital_gains", "twenty_rate_threshold")
	if err != nil {
		return QDCGWorksheetResult{}, err
	}
	rate15, err := pol.Amount("capital_gains", "rate_15")
	if err != nil {
		return QDCGWorksheetResult{}, err
	}
	rate20, err := pol.Amount("capital_gains", "rate_20")
	if err != nil {
		return QDCGWorksheetResult{}, err
	}

	line7 := money.Min(taxableIncome, zeroRateThreshold)
	line8 := money.Min(line5, line7)
	line9 := line7.Sub(line8)

	line10 := money.Min(taxableIncome, line4)
	line12 := line10.Sub(line9)

	line14 := money.Min(taxableIncome, twentyRateThreshold)
	line15 := line5.Add(line9)
	line16 := money.Max(line14.Sub(line15), decimal.Zero)
	line17 := money.Min(line12, line16)

	line18 := money.RoundToDollar(line17.Mul(rate15))
	line19 := line9.Add(line17)
	line20 := line10.Sub(line19)
	line21 := money.RoundToDollar(line20.Mul(rate20))
	line23 := money.RoundToDollar(line18.Add(line21).Add(line22))

	return QDCGWorksheetResult{
		Tax:                     money.Min(line23, line24),
		CapitalGainRatesApplied: line23.LessThan(line24),
	}, nil
}
