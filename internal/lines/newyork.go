// SPDX-License-Identifier: Apache-2.0

package lines

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/returnproj/returncalc/internal/facts"
	"github.com/returnproj/returncalc/internal/money"
	"github.com/returnproj/returncalc/internal/policy"
)

// scheduleTax applies a graduated rate schedule: base tax plus the rate on
// the excess over the row minimum. Negative income is floored at zero.
func scheduleTax(income decimal.Decimal, rows []policy.ScheduleRow, name string) (decimal.Decimal, error) {
	taxable := money.Max(income, decimal.Zero)
	for _, row := range rows {
		if taxable.LessThan(row.Min) {
			continue
		}
		if row.Max != nil && taxable.GreaterThan(*row.Max) {
			continue
		}
		tax := row.BaseTax.Add(taxable.Sub(row.Min).Mul(row.Rate))
		return money.RoundToDollar(tax), nil
	}
	return decimal.Zero, fmt.Errorf("no %s tax schedule row matched income %s", name, taxable)
}

// IT-201 income side.

func NYIT201Line17TotalFederalIncome(federalForm1040Line9TotalIncome decimal.Decimal) decimal.Decimal {
	return federalForm1040Line9TotalIncome
}

func NYIT201Line18FederalAdjustments(federalSchedule1Line26AdjustmentsToIncome decimal.Decimal) decimal.Decimal {
	return federalSchedule1Line26AdjustmentsToIncome
}

func NYIT201Line19FederalAGI(line17TotalFederalIncome, line18FederalAdjustments decimal.Decimal) decimal.Decimal {
	return line17TotalFederalIncome.Sub(line18FederalAdjustments)
}

// IT-225 additions. Part 1 carries the addback that mirrors the IT-201-ATT
// line 12 refundable credit; Part 2 carries lines 5a and 5b. The remaining
// IT-225 lines are zero for the modeled returns.

func NYIT225Line1aAdditions(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	return store.TagTotal("ny_it_201_att_line_12_amount")
}

func NYIT225Line2TotalPart1Additions(line1aAdditions decimal.Decimal) decimal.Decimal {
	return line1aAdditions
}

func NYIT225Line4TotalPart1Additions(line2TotalPart1Additions decimal.Decimal) decimal.Decimal {
	return line2TotalPart1Additions
}

func NYIT225Line5aAdditions(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	return store.TagTotal("ny_it_225_line_5a_addition")
}

func NYIT225Line5bAdditions(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	return store.TagTotal("ny_it_225_line_5b_addition")
}

func NYIT225Line6TotalPart2Additions(line5aAdditions, line5bAdditions decimal.Decimal) decimal.Decimal {
	return line5aAdditions.Add(line5bAdditions)
}

func NYIT225Line8TotalPart2Additions(line6TotalPart2Additions decimal.Decimal) decimal.Decimal {
	return line6TotalPart2Additions
}

func NYIT225Line9TotalAdditions(line4TotalPart1Additions, line8TotalPart2Additions decimal.Decimal) decimal.Decimal {
	return line4TotalPart1Additions.Add(line8TotalPart2Additions)
}

func NYIT201Line23OtherAdditions(it225Line9TotalAdditions decimal.Decimal) decimal.Decimal {
	return it225Line9TotalAdditions
}

// NYIT201Line24NYTotalIncome adds the NY additions to federal AGI. Line 20
// state/local bond interest is zero for the modeled returns.
func NYIT201Line24NYTotalIncome(line19FederalAGI, line21PublicEmployee414h, line22NY529Distributions, line23OtherAdditions decimal.Decimal) decimal.Decimal {
	return line19FederalAGI.
		Add(line21PublicEmployee414h).
		Add(line22NY529Distributions).
		Add(line23OtherAdditions)
}

// NYIT201Line28USGovBondInterest subtracts the U.S. government obligation
// share of each fund's ordinary dividends, per the fund percentages published
// in the policy tree. Fund amounts are read from per-fund tags.
func NYIT201Line28USGovBondInterest(store *facts.Store, pol policy.Policy) (decimal.Decimal, error) {
	percentages, err := pol.FundPercentages("ny_us_gov_bond_interest_percentages")
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, fp := range percentages {
		amount := store.TagSum("ny_it_201_line_28_us_gov_bond_interest_items_" + fp.Fund)
		total = total.Add(amount.Mul(fp.Percent))
	}
	return money.RoundToDollar(total), nil
}

// NYIT201Line32NYTotalSubtractions carries line 28; the other subtraction
// lines are zero for the modeled returns.
func NYIT201Line32NYTotalSubtractions(line28USGovBondInterest decimal.Decimal) decimal.Decimal {
	return line28USGovBondInterest
}

func NYIT201Line33NYAdjustedGrossIncome(line24NYTotalIncome, line32NYTotalSubtractions decimal.Decimal) decimal.Decimal {
	return line24NYTotalIncome.Sub(line32NYTotalSubtractions)
}

func NYIT201Line34StandardDeduction(pol policy.Policy) (decimal.Decimal, error) {
	return pol.Amount("ny_standard_deduction")
}

func NYIT201Line35NYTaxableIncomeBeforeExemptions(line33NYAGI, line34StandardDeduction decimal.Decimal) decimal.Decimal {
	return line33NYAGI.Sub(line34StandardDeduction)
}

func NYIT201Line36DependentExemptions(dependentsCount decimal.Decimal, pol policy.Policy) (decimal.Decimal, error) {
	exemption, err := pol.Amount("ny_dependent_exemption_amount")
	if err != nil {
		return decimal.Zero, err
	}
	return dependentsCount.Mul(exemption), nil
}

func NYIT201Line38NYTaxableIncome(line35BeforeExemptions, line36DependentExemptions decimal.Decimal) decimal.Decimal {
	return line35BeforeExemptions.Sub(line36DependentExemptions)
}

// NYS tax, Statement 2 (Tax Computation Worksheet 4).

func NYIT201Statement2Line3TaxFromRateSchedule(line38NYTaxableIncome decimal.Decimal, pol policy.Policy) (decimal.Decimal, error) {
	rows, err := pol.ScheduleRows("ny_nys_tax_rate_schedule")
	if err != nil {
		return decimal.Zero, err
	}
	return scheduleTax(line38NYTaxableIncome, rows, "NYS")
}

func NYIT201Statement2Line4RecaptureBaseAmount(pol policy.Policy) (decimal.Decimal, error) {
	return pol.Amount("ny_tax_computation_worksheet_4", "recapture_base_amount")
}

func NYIT201Statement2Line9IncrementalBenefitAddback(pol policy.Policy) (decimal.Decimal, error) {
	return pol.Amount("ny_tax_computation_worksheet_4", "incremental_benefit_addback")
}

func NYIT201Line39NYSTaxOnLine38(statement2Line3Tax, statement2Line4Recapture, statement2Line9Addback decimal.Decimal) decimal.Decimal {
	return statement2Line3Tax.Add(statement2Line4Recapture).Add(statement2Line9Addback)
}

// IT-112-R resident credit.

func NYIT112RLine22TotalIncome(line33NYAGI decimal.Decimal) decimal.Decimal {
	return line33NYAGI
}

func NYIT112RLine22OtherStateIncome(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	return store.TagTotal("ny_it_112_r_line_22_other_state_income")
}

func NYIT112RLine24TotalOtherStateTax(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	return store.TagTotal("ny_it_112_r_line_24_other_state_tax")
}

// NYIT112RLine26Ratio is the other-state share of total income, quantized to
// four decimal places. Zero total income yields a zero ratio.
func NYIT112RLine26Ratio(line22TotalIncome, line22OtherStateIncome decimal.Decimal) decimal.Decimal {
	if line22TotalIncome.IsZero() {
		return decimal.Zero
	}
	return money.RoundTo(line22OtherStateIncome.Div(line22TotalIncome), 4)
}

func NYIT112RLine27NYTaxTimesRatio(line25NYTaxPayable, line26Ratio decimal.Decimal) decimal.Decimal {
	return money.RoundToDollar(line25NYTaxPayable.Mul(line26Ratio))
}

func NYIT112RLine28SmallerOfLine24OrLine27(line24TotalOtherStateTax, line27NYTaxTimesRatio decimal.Decimal) decimal.Decimal {
	return money.Min(line24TotalOtherStateTax, line27NYTaxTimesRatio)
}

// NYIT112RLine30TotalCredit carries line 28; line 29 additional forms are
// zero for the modeled returns.
func NYIT112RLine30TotalCredit(line28SmallerOfLine24OrLine27 decimal.Decimal) decimal.Decimal {
	return line28SmallerOfLine24OrLine27
}

// NYIT112RLine34ResidentCredit caps the credit at the NY tax payable.
func NYIT112RLine34ResidentCredit(line30TotalCredit, line25NYTaxPayable decimal.Decimal) decimal.Decimal {
	return money.Min(line30TotalCredit, line25NYTaxPayable)
}

func NYIT201Line41ResidentCredit(it112rLine34ResidentCredit decimal.Decimal) decimal.Decimal {
	return it112rLine34ResidentCredit
}

func NYIT201Line43NYSCreditsTotal(line41ResidentCredit decimal.Decimal) decimal.Decimal {
	return line41ResidentCredit
}

func NYIT201Line44NYStateTaxAfterCredits(line39NYSTaxOnLine38, line43NYSCreditsTotal decimal.Decimal) decimal.Decimal {
	return line39NYSTaxOnLine38.Sub(line43NYSCreditsTotal)
}

func NYIT201Line46TotalNYStateTaxes(line44NYStateTaxAfterCredits decimal.Decimal) decimal.Decimal {
	return line44NYStateTaxAfterCredits
}

// NYC tax.

// NYIT201Line47NYCTaxableIncome equals line 38 for full-year NYC residents.
func NYIT201Line47NYCTaxableIncome(line38NYTaxableIncome decimal.Decimal) decimal.Decimal {
	return line38NYTaxableIncome
}

func NYIT201Line47aNYCResidentTax(line47NYCTaxableIncome decimal.Decimal, pol policy.Policy) (decimal.Decimal, error) {
	rows, err := pol.ScheduleRows("nyc_resident_tax_rate_schedule")
	if err != nil {
		return decimal.Zero, err
	}
	return scheduleTax(line47NYCTaxableIncome, rows, "NYC")
}

func NYIT201Line49NYCTaxAfterHouseholdCredit(line47aNYCResidentTax decimal.Decimal) decimal.Decimal {
	return line47aNYCResidentTax
}

// IT-219 UBT credit.

func NYIT219Line7BeneficiaryUBTCredit(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	return store.TagTotal("ny_it_219_line_7_ubt_credit")
}

func NYIT219Line8TotalUBTCredit(line7BeneficiaryUBTCredit decimal.Decimal) decimal.Decimal {
	return line7BeneficiaryUBTCredit
}

func NYIT219Line9TaxableIncome(line47NYCTaxableIncome decimal.Decimal) decimal.Decimal {
	return line47NYCTaxableIncome
}

// NYIT219Line10IncomeFactor interpolates the UBT credit factor between the
// policy thresholds, quantized to four decimal places inside the band.
func NYIT219Line10IncomeFactor(line9TaxableIncome decimal.Decimal, pol policy.Policy) (decimal.Decimal, error) {
	lowerThreshold, err := pol.Amount("ny_it219_income_factor", "lower_threshold")
	if err != nil {
		return decimal.Zero, err
	}
	upperThreshold, err := pol.Amount("ny_it219_income_factor", "upper_threshold")
	if err != nil {
		return decimal.Zero, err
	}
	lowerFactor, err := pol.Amount("ny_it219_income_factor", "lower_factor")
	if err != nil {
		return decimal.Zero, err
	}
	upperFactor, err := pol.Amount("ny_it219_income_factor", "upper_factor")
	if err != nil {
		return decimal.Zero, err
	}
	if line9TaxableIncome.LessThanOrEqual(lowerThreshold) {
		return lowerFactor, nil
	}
	if line9TaxableIncome.GreaterThanOrEqual(upperThreshold) {
		return upperFactor, nil
	}
	slope := upperFactor.Sub(lowerFactor).Div(upperThreshold.Sub(lowerThreshold))
	factor := lowerFactor.Add(line9TaxableIncome.Sub(lowerThreshold).Mul(slope))
	return money.RoundTo(factor, 4), nil
}

func NYIT219Line11IncomeBasedCredit(line8TotalUBTCredit, line10IncomeFactor decimal.Decimal) decimal.Decimal {
	return money.RoundToDollar(line8TotalUBTCredit.Mul(line10IncomeFactor))
}

func NYIT219Line15TotalTax(line12NYCTaxLessHouseholdCredit decimal.Decimal) decimal.Decimal {
	return line12NYCTaxLessHouseholdCredit
}

func NYIT219Line16ResidentUBTCredit(line11IncomeBasedCredit, line15TotalTax decimal.Decimal) decimal.Decimal {
	return money.Min(line11IncomeBasedCredit, line15TotalTax)
}

// IT-201-ATT.

func NYIT201ATTLine8NYCResidentUBTCredit(it219Line16ResidentUBTCredit decimal.Decimal) decimal.Decimal {
	return it219Line16ResidentUBTCredit
}

func NYIT201ATTLine10TotalNYCNonrefundableCredits(line8NYCResidentUBTCredit decimal.Decimal) decimal.Decimal {
	return line8NYCResidentUBTCredit
}

func NYIT201ATTLine12OtherRefundableCredits(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	return store.TagTotal("ny_it_201_att_line_12_amount")
}

func NYIT201ATTLine13TotalRefundableCredits(line12OtherRefundableCredits decimal.Decimal) decimal.Decimal {
	return line12OtherRefundableCredits
}

func NYIT201ATTLine14TotalRefundableCredits(line13TotalRefundableCredits decimal.Decimal) decimal.Decimal {
	return line13TotalRefundableCredits
}

func NYIT201ATTLine18TotalOtherRefundableCredits(line14TotalRefundableCredits decimal.Decimal) decimal.Decimal {
	return line14TotalRefundableCredits
}

// NYIT201Line71OtherRefundableCredits is the refundable-credit leg of the
// return. It sits below line 62 on the form and does not feed the total tax.
func NYIT201Line71OtherRefundableCredits(it201ATTLine18TotalOtherRefundableCredits decimal.Decimal) decimal.Decimal {
	return it201ATTLine18TotalOtherRefundableCredits
}

func NYIT201Line53NYCNonrefundableCredits(it201ATTLine10TotalNYCNonrefundableCredits decimal.Decimal) decimal.Decimal {
	return it201ATTLine10TotalNYCNonrefundableCredits
}

func NYIT201Line52NYCTaxBeforeCredits(line49NYCTaxAfterHouseholdCredit decimal.Decimal) decimal.Decimal {
	return line49NYCTaxAfterHouseholdCredit
}

func NYIT201Line54NYCTaxAfterCredits(line52NYCTaxBeforeCredits, line53NYCNonrefundableCredits decimal.Decimal) decimal.Decimal {
	return line52NYCTaxBeforeCredits.Sub(line53NYCNonrefundableCredits)
}

// MCTMT.

// NYIT21059Worksheet4aLine1NetEarningsZone1 scales the partnership SE base
// (ordinary business income plus guaranteed payments) by the MCTMT earnings
// factor. Inputs are already Zone 1 eligible.
func NYIT21059Worksheet4aLine1NetEarningsZone1(ordinaryBusinessIncome, guaranteedPayments decimal.Decimal, pol policy.Policy) (decimal.Decimal, error) {
	factor, err := pol.Amount("ny_mctmt", "earnings_factor")
	if err != nil {
		return decimal.Zero, err
	}
	return money.RoundToDollar(ordinaryBusinessIncome.Add(guaranteedPayments).Mul(factor)), nil
}

func NYIT201Line54aMCTMTNetEarningsZone1(worksheet4aLine1NetEarningsZone1 decimal.Decimal) decimal.Decimal {
	return worksheet4aLine1NetEarningsZone1
}

func NYIT201Line54cMCTMTZone1(line54aMCTMTNetEarningsZone1 decimal.Decimal, pol policy.Policy) (decimal.Decimal, error) {
	rate, err := pol.Amount("ny_mctmt_rates", "zone_1")
	if err != nil {
		return decimal.Zero, err
	}
	return money.RoundToDollar(line54aMCTMTNetEarningsZone1.Mul(rate)), nil
}

func NYIT201Line54eMCTMTTotal(line54cMCTMTZone1 decimal.Decimal) decimal.Decimal {
	return line54cMCTMTZone1
}

// Totals.

func NYIT201Line58TotalNYCYonkersMCTMT(line54NYCTaxAfterCredits, line54eMCTMTTotal decimal.Decimal) decimal.Decimal {
	return line54NYCTaxAfterCredits.Add(line54eMCTMTTotal)
}

func NYIT201Line61TotalTaxes(line46TotalNYStateTaxes, line58TotalNYCYonkersMCTMT decimal.Decimal) decimal.Decimal {
	return line46TotalNYStateTaxes.Add(line58TotalNYCYonkersMCTMT)
}

func NYIT201Line62TotalTaxes(line61TotalTaxes decimal.Decimal) decimal.Decimal {
	return line61TotalTaxes
}

// ComputeNYTotalTax recomputes the NY chain down to IT-201 line 62. The
// federal intermediates it needs (total income and adjustments) are
// recomputed here rather than shared with the federal root, so the two
// jurisdictions stay independent under perturbation.
func ComputeNYTotalTax(store *facts.Store, pol policy.Policy, run *Run) (decimal.Decimal, error) {
	obs := newObserver(run)

	// Federal intermediates.
	k1Box14a := store.TagSum("schedule_se_k1_box_14a_self_employment_earnings")
	k1Box12 := store.TagSum("section_179_deduction")
	seLine2 := FederalScheduleSELine2Profit(k1Box14a, k1Box12)
	seLine6, err := FederalScheduleSELine6TotalSEEarnings(seLine2, pol)
	if err != nil {
		return decimal.Zero, err
	}
	seLine10, err := FederalScheduleSELine10SocialSecurityTax(seLine6, pol)
	if err != nil {
		return decimal.Zero, err
	}
	seLine11, err := FederalScheduleSELine11MedicareTax(seLine6, pol)
	if err != nil {
		return decimal.Zero, err
	}
	seLine12 := FederalScheduleSELine12SelfEmploymentTax(seLine10, seLine11)

	sch1Line15 := FederalSchedule1Line15DeductibleSETax(seLine12)
	sch1Line16, _ := FederalSchedule1Line16SERetirementContributions(store)
	sch1Line17, _ := FederalSchedule1Line17SEHealthInsurance(store)
	sch1Line26 := FederalSchedule1Line26AdjustmentsToIncome(sch1Line15, sch1Line16, sch1Line17)

	schBLine1, _ := FederalScheduleBLine1TaxableInterest(store)
	schBLine6, _ := FederalScheduleBLine6OrdinaryDividends(store)
	schELine29a, _ := FederalScheduleELine29aTotalNonpassiveIncome(store)
	schELine29bLoss, _ := FederalScheduleELine29bNonpassiveLossAllowed(store)
	schELine29b179, _ := FederalScheduleELine29bSection179Deduction(store)
	schELine30 := FederalScheduleELine30TotalIncome(schELine29a)
	schELine31 := FederalScheduleELine31TotalLosses(schELine29bLoss, schELine29b179)
	schELine32 := FederalScheduleELine32TotalPartnershipIncome(schELine30, schELine31)
	sch1Line5 := FederalSchedule1Line5RentalRealEstateIncome(schELine32)
	sch1Line10 := FederalSchedule1Line10AdditionalIncome(sch1Line5)

	form6781Line7, _ := FederalForm6781Line7TotalGainLoss1256(store)
	form6781Line8, err := FederalForm6781Line8ShortTermPortion(form6781Line7, pol)
	if err != nil {
		return decimal.Zero, err
	}
	form6781Line9, err := FederalForm6781Line9LongTermPortion(form6781Line7, pol)
	if err != nil {
		return decimal.Zero, err
	}
	schDLine1a, _ := FederalScheduleDLine1aShortTermGain(store)
	schDLine3, _ := FederalScheduleDLine3ShortTermSection1061Adjustment(store)
	schDLine4 := FederalScheduleDLine4ShortTermFrom6781(form6781Line8)
	schDLine5, _ := FederalScheduleDLine5ShortTermK1Gain(store)
	schDLine7 := FederalScheduleDLine7NetShortTermGain(schDLine1a, schDLine3, schDLine4, schDLine5)
	schDLine10, _ := FederalScheduleDLine10LongTermSection1061Adjustment(store)
	schDLine11, _ := FederalScheduleDLine11LongTermFrom6781And4797(form6781Line9, store)
	schDLine12, _ := FederalScheduleDLine12LongTermK1Gain(store)
	schDLine15 := FederalScheduleDLine15NetLongTermGain(schDLine10, schDLine11, schDLine12)
	schDLine16 := FederalScheduleDLine16NetCapitalGain(schDLine7, schDLine15)

	line1z, _ := FederalForm1040Line1zWages(store)
	line5b, _ := FederalForm1040Line5bPensionsAnnuities(store)
	line9 := FederalForm1040Line9TotalIncome(line1z, schBLine1, schBLine6, line5b, schDLine16, sch1Line10)

	// IT-201 lines 17-19.
	line17 := NYIT201Line17TotalFederalIncome(line9)
	line18 := NYIT201Line18FederalAdjustments(sch1Line26)
	line19 := NYIT201Line19FederalAGI(line17, line18)

	// IT-225 additions.
	it225Line1a, additionRefs := NYIT225Line1aAdditions(store)
	it225Line2 := NYIT225Line2TotalPart1Additions(it225Line1a)
	it225Line4 := NYIT225Line4TotalPart1Additions(it225Line2)
	it225Line5a, refs5a := NYIT225Line5aAdditions(store)
	it225Line5b, refs5b := NYIT225Line5bAdditions(store)
	it225Line6 := NYIT225Line6TotalPart2Additions(it225Line5a, it225Line5b)
	it225Line8 := NYIT225Line8TotalPart2Additions(it225Line6)
	it225Line9 := NYIT225Line9TotalAdditions(it225Line4, it225Line8)

	// IT-201 lines 23-38.
	line23 := NYIT201Line23OtherAdditions(it225Line9)
	line21 := store.TagSum("ny_it_201_line_21_public_employee_414h")
	line22 := store.TagSum("ny_it_201_line_22_ny_529_distributions")
	line24 := NYIT201Line24NYTotalIncome(line19, line21, line22, line23)

	line28, err := NYIT201Line28USGovBondInterest(store, pol)
	if err != nil {
		return decimal.Zero, err
	}
	line32 := NYIT201Line32NYTotalSubtractions(line28)
	line33 := NYIT201Line33NYAdjustedGrossIncome(line24, line32)
	line34, err := NYIT201Line34StandardDeduction(pol)
	if err != nil {
		return decimal.Zero, err
	}
	line35 := NYIT201Line35NYTaxableIncomeBeforeExemptions(line33, line34)
	dependentsCount := store.TagSum("ny_dependents_count")
	line36, err := NYIT201Line36DependentExemptions(dependentsCount, pol)
	if err != nil {
		return decimal.Zero, err
	}
	line38 := NYIT201Line38NYTaxableIncome(line35, line36)

	// NYS tax.
	stmt2Line3, err := NYIT201Statement2Line3TaxFromRateSchedule(line38, pol)
	if err != nil {
		return decimal.Zero, err
	}
	stmt2Line4, err := NYIT201Statement2Line4RecaptureBaseAmount(pol)
	if err != nil {
		return decimal.Zero, err
	}
	stmt2Line9, err := NYIT201Statement2Line9IncrementalBenefitAddback(pol)
	if err != nil {
		return decimal.Zero, err
	}
	line39 := NYIT201Line39NYSTaxOnLine38(stmt2Line3, stmt2Line4, stmt2Line9)

	// IT-112-R resident credit.
	it112rLine22Total := NYIT112RLine22TotalIncome(line33)
	it112rLine22Other, otherStateRefs := NYIT112RLine22OtherStateIncome(store)
	it112rLine24, otherTaxRefs := NYIT112RLine24TotalOtherStateTax(store)
	it112rLine26 := NYIT112RLine26Ratio(it112rLine22Total, it112rLine22Other)
	it112rLine27 := NYIT112RLine27NYTaxTimesRatio(line39, it112rLine26)
	it112rLine28 := NYIT112RLine28SmallerOfLine24OrLine27(it112rLine24, it112rLine27)
	it112rLine30 := NYIT112RLine30TotalCredit(it112rLine28)
	it112rLine34 := NYIT112RLine34ResidentCredit(it112rLine30, line39)

	line41 := NYIT201Line41ResidentCredit(it112rLine34)
	line43 := NYIT201Line43NYSCreditsTotal(line41)
	line44 := NYIT201Line44NYStateTaxAfterCredits(line39, line43)
	line46 := NYIT201Line46TotalNYStateTaxes(line44)

	// NYC tax.
	line47 := NYIT201Line47NYCTaxableIncome(line38)
	line47a, err := NYIT201Line47aNYCResidentTax(line47, pol)
	if err != nil {
		return decimal.Zero, err
	}
	line49 := NYIT201Line49NYCTaxAfterHouseholdCredit(line47a)

	// IT-219 UBT credit.
	it219Line7, ubtRefs := NYIT219Line7BeneficiaryUBTCredit(store)
	it219Line8 := NYIT219Line8TotalUBTCredit(it219Line7)
	it219Line9 := NYIT219Line9TaxableIncome(line47)
	it219Line10, err := NYIT219Line10IncomeFactor(it219Line9, pol)
	if err != nil {
		return decimal.Zero, err
	}
	it219Line11 := NYIT219Line11IncomeBasedCredit(it219Line8, it219Line10)
	it219Line15 := NYIT219Line15TotalTax(line49)
	it219Line16 := NYIT219Line16ResidentUBTCredit(it219Line11, it219Line15)

	attLine8 := NYIT201ATTLine8NYCResidentUBTCredit(it219Line16)
	attLine10 := NYIT201ATTLine10TotalNYCNonrefundableCredits(attLine8)
	line53 := NYIT201Line53NYCNonrefundableCredits(attLine10)
	line52 := NYIT201Line52NYCTaxBeforeCredits(line49)
	line54 := NYIT201Line54NYCTaxAfterCredits(line52, line53)

	// MCTMT.
	ordinaryIncome := store.TagSum("mctmt_base_ordinary_income")
	guaranteedPayments := store.TagSum("mctmt_base_guaranteed_payments")
	worksheet4aLine1, err := NYIT21059Worksheet4aLine1NetEarningsZone1(ordinaryIncome, guaranteedPayments, pol)
	if err != nil {
		return decimal.Zero, err
	}
	line54a := NYIT201Line54aMCTMTNetEarningsZone1(worksheet4aLine1)
	line54c, err := NYIT201Line54cMCTMTZone1(line54a, pol)
	if err != nil {
		return decimal.Zero, err
	}
	line54e := NYIT201Line54eMCTMTTotal(line54c)

	// Totals.
	line58 := NYIT201Line58TotalNYCYonkersMCTMT(line54, line54e)
	line61 := NYIT201Line61TotalTaxes(line46, line58)
	line62 := NYIT201Line62TotalTaxes(line61)

	obs.note("ny.it_201.line_17_total_federal_income", line17, "federal Form 1040 line 9")
	obs.note("ny.it_201.line_18_federal_adjustments", line18, "federal Schedule 1 line 26")
	obs.note("ny.it_201.line_19_federal_agi", line19, "line 17 - line 18", "ny.it_201.line_17_total_federal_income", "ny.it_201.line_18_federal_adjustments")
	obs.noteFacts("ny.it_225.line_1a_additions", it225Line1a, "sum of Part 1 additions", additionRefs)
	obs.note("ny.it_225.line_2_total_part1_additions", it225Line2, "line 1a", "ny.it_225.line_1a_additions")
	obs.note("ny.it_225.line_4_total_part1_additions", it225Line4, "line 2 + line 3", "ny.it_225.line_2_total_part1_additions")
	obs.noteFacts("ny.it_225.line_5a_additions", it225Line5a, "sum of Part 2 line 5a additions", refs5a)
	obs.noteFacts("ny.it_225.line_5b_additions", it225Line5b, "sum of Part 2 line 5b additions", refs5b)
	obs.note("ny.it_225.line_6_total_part2_additions", it225Line6, "line 5a + line 5b", "ny.it_225.line_5a_additions", "ny.it_225.line_5b_additions")
	obs.note("ny.it_225.line_8_total_part2_additions", it225Line8, "line 6 + line 7", "ny.it_225.line_6_total_part2_additions")
	obs.note("ny.it_225.line_9_total_additions", it225Line9, "line 4 + line 8", "ny.it_225.line_4_total_part1_additions", "ny.it_225.line_8_total_part2_additions")
	obs.note("ny.it_201.line_23_other_additions", line23, "IT-225 line 9", "ny.it_225.line_9_total_additions")
	obs.note("ny.it_201.line_24_ny_total_income", line24, "line 19 + line 21 + line 22 + line 23", "ny.it_201.line_19_federal_agi", "ny.it_201.line_23_other_additions")
	obs.note("ny.it_201.line_28_us_gov_bond_interest", line28, "sum of fund amount x US gov obligation percentage")
	obs.note("ny.it_201.line_32_ny_total_subtractions", line32, "line 28", "ny.it_201.line_28_us_gov_bond_interest")
	obs.note("ny.it_201.line_33_ny_adjusted_gross_income", line33, "line 24 - line 32", "ny.it_201.line_24_ny_total_income", "ny.it_201.line_32_ny_total_subtractions")
	obs.note("ny.it_201.line_34_standard_deduction", line34, "NY standard deduction")
	obs.note("ny.it_201.line_35_ny_taxable_income_before_exemptions", line35, "line 33 - line 34", "ny.it_201.line_33_ny_adjusted_gross_income", "ny.it_201.line_34_standard_deduction")
	obs.note("ny.it_201.line_36_dependent_exemptions", line36, "dependents x exemption amount")
	obs.note("ny.it_201.line_38_ny_taxable_income", line38, "line 35 - line 36", "ny.it_201.line_35_ny_taxable_income_before_exemptions", "ny.it_201.line_36_dependent_exemptions")
	obs.note("ny.it_201.statement_2_tax_computation_worksheet_4.line_3_tax_from_rate_schedule", stmt2Line3, "NYS rate schedule on line 38", "ny.it_201.line_38_ny_taxable_income")
	obs.note("ny.it_201.statement_2_tax_computation_worksheet_4.line_4_recapture_base_amount", stmt2Line4, "recapture base amount")
	obs.note("ny.it_201.statement_2_tax_computation_worksheet_4.line_9_incremental_benefit_addback", stmt2Line9, "incremental benefit addback")
	obs.note("ny.it_201.line_39_nys_tax_on_line_38", line39, "worksheet line 3 + line 4 + line 9", "ny.it_201.statement_2_tax_computation_worksheet_4.line_3_tax_from_rate_schedule", "ny.it_201.statement_2_tax_computation_worksheet_4.line_4_recapture_base_amount", "ny.it_201.statement_2_tax_computation_worksheet_4.line_9_incremental_benefit_addback")
	obs.note("ny.it_112_r.line_22_total_income", it112rLine22Total, "IT-201 line 33", "ny.it_201.line_33_ny_adjusted_gross_income")
	obs.noteFacts("ny.it_112_r.line_22_other_state_income", it112rLine22Other, "sum of other-state income", otherStateRefs)
	obs.noteFacts("ny.it_112_r.line_24_total_other_state_tax", it112rLine24, "sum of other-state tax", otherTaxRefs)
	obs.note("ny.it_112_r.line_26_ratio", it112rLine26, "line 22B / line 22A", "ny.it_112_r.line_22_total_income", "ny.it_112_r.line_22_other_state_income")
	obs.note("ny.it_112_r.line_27_ny_tax_times_ratio", it112rLine27, "line 25 x line 26", "ny.it_201.line_39_nys_tax_on_line_38", "ny.it_112_r.line_26_ratio")
	obs.note("ny.it_112_r.line_28_smaller_of_line24_or_27", it112rLine28, "min(line 24, line 27)", "ny.it_112_r.line_24_total_other_state_tax", "ny.it_112_r.line_27_ny_tax_times_ratio")
	obs.note("ny.it_112_r.line_30_total_credit", it112rLine30, "line 28 + line 29", "ny.it_112_r.line_28_smaller_of_line24_or_27")
	obs.note("ny.it_112_r.line_34_resident_credit", it112rLine34, "min(line 30, line 33)", "ny.it_112_r.line_30_total_credit")
	obs.note("ny.it_201.line_41_resident_credit", line41, "IT-112-R line 34", "ny.it_112_r.line_34_resident_credit")
	obs.note("ny.it_201.line_43_nys_credits_total", line43, "line 40 + line 41 + line 42", "ny.it_201.line_41_resident_credit")
	obs.note("ny.it_201.line_44_ny_state_tax_after_credits", line44, "line 39 - line 43", "ny.it_201.line_39_nys_tax_on_line_38", "ny.it_201.line_43_nys_credits_total")
	obs.note("ny.it_201.line_46_total_ny_state_taxes", line46, "line 44 + line 45", "ny.it_201.line_44_ny_state_tax_after_credits")
	obs.note("ny.it_201.line_47_nyc_taxable_income", line47, "line 38", "ny.it_201.line_38_ny_taxable_income")
	obs.note("ny.it_201.line_47a_nyc_resident_tax", line47a, "NYC rate schedule on line 47", "ny.it_201.line_47_nyc_taxable_income")
	obs.note("ny.it_201.line_49_nyc_tax_after_household_credit", line49, "line 47a - line 48", "ny.it_201.line_47a_nyc_resident_tax")
	obs.noteFacts("ny.it_219.line_7_beneficiary_ubt_credit", it219Line7, "sum of beneficiary UBT credit", ubtRefs)
	obs.note("ny.it_219.line_8_total_ubt_credit", it219Line8, "line 5 + line 6 + line 7", "ny.it_219.line_7_beneficiary_ubt_credit")
	obs.note("ny.it_219.line_9_taxable_income", it219Line9, "IT-201 line 47", "ny.it_201.line_47_nyc_taxable_income")
	obs.note("ny.it_219.line_10_income_factor", it219Line10, "factor interpolated between thresholds", "ny.it_219.line_9_taxable_income")
	obs.note("ny.it_219.line_11_income_based_credit", it219Line11, "line 8 x line 10", "ny.it_219.line_8_total_ubt_credit", "ny.it_219.line_10_income_factor")
	obs.note("ny.it_219.line_15_total_tax", it219Line15, "line 12 + line 13 + line 14", "ny.it_201.line_49_nyc_tax_after_household_credit")
	obs.note("ny.it_219.line_16_resident_ubt_credit", it219Line16, "min(line 11, line 15)", "ny.it_219.line_11_income_based_credit", "ny.it_219.line_15_total_tax")
	obs.note("ny.it_201_att.line_8_nyc_resident_ubt_credit", attLine8, "IT-219 line 16", "ny.it_219.line_16_resident_ubt_credit")
	obs.note("ny.it_201_att.line_10_total_nyc_nonrefundable_credits", attLine10, "line 8 + line 9 + line 9a", "ny.it_201_att.line_8_nyc_resident_ubt_credit")
	obs.note("ny.it_201.line_52_nyc_tax_before_credits", line52, "line 49 + line 50 + line 51", "ny.it_201.line_49_nyc_tax_after_household_credit")
	obs.note("ny.it_201.line_53_nyc_nonrefundable_credits", line53, "IT-201-ATT line 10", "ny.it_201_att.line_10_total_nyc_nonrefundable_credits")
	obs.note("ny.it_201.line_54_nyc_tax_after_credits", line54, "line 52 - line 53", "ny.it_201.line_52_nyc_tax_before_credits", "ny.it_201.line_53_nyc_nonrefundable_credits")
	obs.note("ny.it_2105_9.worksheet_4a_line_1_net_earnings_zone_1", worksheet4aLine1, "(ordinary income + guaranteed payments) x earnings factor")
	obs.note("ny.it_201.line_54a_mctmt_net_earnings_zone_1", line54a, "Worksheet 4a line 1", "ny.it_2105_9.worksheet_4a_line_1_net_earnings_zone_1")
	obs.note("ny.it_201.line_54c_mctmt_zone_1", line54c, "line 54a x Zone 1 rate", "ny.it_201.line_54a_mctmt_net_earnings_zone_1")
	obs.note("ny.it_201.line_54e_mctmt_total", line54e, "line 54c + line 54d", "ny.it_201.line_54c_mctmt_zone_1")
	obs.note("ny.it_201.line_58_total_nyc_yonkers_mctmt", line58, "line 54 + line 54e", "ny.it_201.line_54_nyc_tax_after_credits", "ny.it_201.line_54e_mctmt_total")
	obs.note("ny.it_201.line_61_total_taxes", line61, "line 46 + line 58", "ny.it_201.line_46_total_ny_state_taxes", "ny.it_201.line_58_total_nyc_yonkers_mctmt")
	obs.note("ny.it_201.line_62_total_taxes", line62, "line 61", "ny.it_201.line_61_total_taxes")
	obs.note("ny.compute_total_tax", line62, "IT-201 line 62", "ny.it_201.line_62_total_taxes")

	if err := obs.flush(); err != nil {
		return decimal.Zero, err
	}
	return line62, nil
}
