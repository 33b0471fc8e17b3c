// SPDX-License-Identifier: Apache-2.0

package lines

import (
	"github.com/shopspring/decimal"

	"github.com/returnproj/returncalc/internal/facts"
	"github.com/returnproj/returncalc/internal/money"
	"github.com/returnproj/returncalc/internal/policy"
)

// Schedule SE.

// FederalScheduleSELine2Profit computes net SE income from K-1 partnerships:
// box 14A self-employment earnings less the box 12 section 179 deduction.
func FederalScheduleSELine2Profit(k1Box14aSEEarnings, k1Box12Section179 decimal.Decimal) decimal.Decimal {
	return k1Box14aSEEarnings.Sub(k1Box12Section179)
}

// FederalScheduleSELine6TotalSEEarnings applies the SE earnings factor to
// positive line 2 profit. Losses pass through unscaled.
func FederalScheduleSELine6TotalSEEarnings(line2Profit decimal.Decimal, pol policy.Policy) (decimal.Decimal, error) {
	factor, err := pol.Amount("self_employment_tax", "earnings_factor")
	if err != nil {
		return decimal.Zero, err
	}
	if line2Profit.IsPositive() {
		return money.RoundToDollar(line2Profit.Mul(factor)), nil
	}
	return line2Profit, nil
}

// FederalScheduleSELine10SocialSecurityTax taxes SE earnings up to the social
// security wage base.
func FederalScheduleSELine10SocialSecurityTax(line6SEEarnings decimal.Decimal, pol policy.Policy) (decimal.Decimal, error) {
	wageBase, err := pol.Amount("self_employment_tax", "social_security_wage_base")
	if err != nil {
		return decimal.Zero, err
	}
	rate, err := pol.Amount("self_employment_tax", "social_security_rate")
	if err != nil {
		return decimal.Zero, err
	}
	return money.RoundToDollar(money.Min(line6SEEarnings, wageBase).Mul(rate)), nil
}

// FederalScheduleSELine11MedicareTax taxes all SE earnings; Medicare has no
// wage base cap.
func FederalScheduleSELine11MedicareTax(line6SEEarnings decimal.Decimal, pol policy.Policy) (decimal.Decimal, error) {
	rate, err := pol.Amount("self_employment_tax", "medicare_rate")
	if err != nil {
		return decimal.Zero, err
	}
	return money.RoundToDollar(line6SEEarnings.Mul(rate)), nil
}

func FederalScheduleSELine12SelfEmploymentTax(line10SocialSecurity, line11Medicare decimal.Decimal) decimal.Decimal {
	return line10SocialSecurity.Add(line11Medicare)
}

// Form 8959.

// FederalForm8959Line18AdditionalMedicareTax computes the additional Medicare
// tax across W-2 wages (Part I) and SE income (Part II). The threshold is
// shared: wages consume it first and SE income uses the remainder. RRTA
// compensation (Part III) is taken as zero.
func FederalForm8959Line18AdditionalMedicareTax(w2MedicareWages, scheduleSELine6SEEarnings decimal.Decimal, pol policy.Policy) (decimal.Decimal, error) {
	rate, err := pol.Amount("additional_medicare_tax", "rate")
	if err != nil {
		return decimal.Zero, err
	}
	threshold, err := pol.Amount("additional_medicare_tax", "threshold")
	if err != nil {
		return decimal.Zero, err
	}
	wagesOver := money.Max(decimal.Zero, w2MedicareWages.Sub(threshold))
	part1 := money.RoundToDollar(wagesOver.Mul(rate))

	remainingThreshold := money.Max(decimal.Zero, threshold.Sub(w2MedicareWages))
	seOver := money.Max(decimal.Zero, scheduleSELine6SEEarnings.Sub(remainingThreshold))
	part2 := money.RoundToDollar(seOver.Mul(rate))

	return part1.Add(part2), nil
}

// Schedule B.

func FederalScheduleBLine1TaxableInterest(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	total, refs := store.TagTotal("schedule_b_interest")
	return money.RoundToDollar(total), refs
}

func FederalScheduleBLine6OrdinaryDividends(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	total, refs := store.TagTotal("schedule_b_ordinary_dividends")
	return money.RoundToDollar(total), refs
}

// Schedule E.

// FederalScheduleELine29aTotalNonpassiveIncome totals nonpassive income,
// including the K-1 ordinary business income and guaranteed payments that
// also form the MCTMT base.
func FederalScheduleELine29aTotalNonpassiveIncome(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	direct, refs := store.TagTotal("schedule_e_nonpassive_income")
	fromK1, k1Refs := scheduleENonpassiveIncomeFromK1Components(store)
	return money.RoundToDollar(direct.Add(fromK1)), append(refs, k1Refs...)
}

func scheduleENonpassiveIncomeFromK1Components(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	ordinary, ordRefs := store.TagTotal("mctmt_base_ordinary_income")
	guaranteed, gpRefs := store.TagTotal("mctmt_base_guaranteed_payments")
	return ordinary.Add(guaranteed), append(ordRefs, gpRefs...)
}

func FederalScheduleELine29bNonpassiveLossAllowed(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	total, refs := store.TagTotal("schedule_e_line_29b_nonpassive_loss_allowed")
	return money.RoundToDollar(total), refs
}

func FederalScheduleELine29bSection179Deduction(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	total, refs := store.TagTotal("section_179_deduction")
	return money.RoundToDollar(total), refs
}

func FederalScheduleELine30TotalIncome(line29aNonpassiveIncome decimal.Decimal) decimal.Decimal {
	return money.RoundToDollar(line29aNonpassiveIncome)
}

// FederalScheduleELine31TotalLosses returns losses and deductions as a
// negative amount.
func FederalScheduleELine31TotalLosses(line29bNonpassiveLossAllowed, line29bSection179Deduction decimal.Decimal) decimal.Decimal {
	return money.RoundToDollar(line29bNonpassiveLossAllowed.Add(line29bSection179Deduction)).Neg()
}

func FederalScheduleELine32TotalPartnershipIncome(line30TotalIncome, line31TotalLosses decimal.Decimal) decimal.Decimal {
	return line30TotalIncome.Add(line31TotalLosses)
}

// Schedule 1.

func FederalSchedule1Line5RentalRealEstateIncome(scheduleELine32 decimal.Decimal) decimal.Decimal {
	return scheduleELine32
}

func FederalSchedule1Line10AdditionalIncome(line5RentalRealEstateIncome decimal.Decimal) decimal.Decimal {
	return money.RoundToDollar(line5RentalRealEstateIncome)
}

// FederalSchedule1Line15DeductibleSETax deducts half of the self-employment
// tax.
func FederalSchedule1Line15DeductibleSETax(scheduleSELine12SETax decimal.Decimal) decimal.Decimal {
	return money.RoundToDollar(scheduleSELine12SETax.Div(decimal.NewFromInt(2)))
}

func FederalSchedule1Line16SERetirementContributions(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	total, refs := store.TagTotal("schedule_1_line_16_self_employed_retirement")
	return money.RoundToDollar(total), refs
}

func FederalSchedule1Line17SEHealthInsurance(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	total, refs := store.TagTotal("schedule_1_line_17_self_employed_health_insurance")
	return money.RoundToDollar(total), refs
}

func FederalSchedule1Line26AdjustmentsToIncome(line15DeductibleSETax, line16Retirement, line17HealthInsurance decimal.Decimal) decimal.Decimal {
	return money.RoundToDollar(line15DeductibleSETax.Add(line16Retirement).Add(line17HealthInsurance))
}

// Form 6781.

func FederalForm6781Line7TotalGainLoss1256(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	total, refs := store.TagTotal("section_1256_contracts")
	return money.RoundToDollar(total), refs
}

// FederalForm6781Line8ShortTermPortion splits section 1256 gain at the
// statutory short-term rate (40 percent).
func FederalForm6781Line8ShortTermPortion(line7TotalGainLoss decimal.Decimal, pol policy.Policy) (decimal.Decimal, error) {
	rate, err := pol.Amount("section_1256", "short_term_rate")
	if err != nil {
		return decimal.Zero, err
	}
	return money.RoundToDollar(line7TotalGainLoss.Mul(rate)), nil
}

// FederalForm6781Line9LongTermPortion splits section 1256 gain at the
// statutory long-term rate (60 percent).
func FederalForm6781Line9LongTermPortion(line7TotalGainLoss decimal.Decimal, pol policy.Policy) (decimal.Decimal, error) {
	rate, err := pol.Amount("section_1256", "long_term_rate")
	if err != nil {
		return decimal.Zero, err
	}
	return money.RoundToDollar(line7TotalGainLoss.Mul(rate)), nil
}

// Schedule D.

func FederalScheduleDLine1aShortTermGain(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	proceeds, pRefs := store.TagTotal("schedule_d_line_1a_proceeds")
	costBasis, cRefs := store.TagTotal("schedule_d_line_1a_cost_basis")
	adjustments, aRefs := store.TagTotal("schedule_d_line_1a_adjustments")
	total := proceeds.Sub(costBasis).Add(adjustments)
	refs := append(append(pRefs, cRefs...), aRefs...)
	return money.RoundToDollar(total), refs
}

func FederalScheduleDLine3ShortTermSection1061Adjustment(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	total, refs := store.TagTotal("schedule_d_section_1061_adjustment")
	return money.RoundToDollar(total), refs
}

func FederalScheduleDLine4ShortTermFrom6781(form6781Line8ShortTermPortion decimal.Decimal) decimal.Decimal {
	return form6781Line8ShortTermPortion
}

func FederalScheduleDLine5ShortTermK1Gain(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	total, refs := store.TagTotal("schedule_d_k1_short_term_gains")
	return money.RoundToDollar(total), refs
}

func FederalScheduleDLine7NetShortTermGain(line1a, line3, line4, line5 decimal.Decimal) decimal.Decimal {
	return line1a.Add(line3).Add(line4).Add(line5)
}

// FederalScheduleDLine10LongTermSection1061Adjustment reclassifies the
// short-term section 1061 adjustment: the long-term side carries its
// negation.
func FederalScheduleDLine10LongTermSection1061Adjustment(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	total, refs := store.TagTotal("schedule_d_section_1061_adjustment")
	return money.RoundToDollar(total).Neg(), refs
}

func FederalScheduleDLine11LongTermFrom6781And4797(form6781Line9LongTermPortion decimal.Decimal, store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	section1231, refs := store.TagTotal("section_1231_gains")
	return money.RoundToDollar(form6781Line9LongTermPortion.Add(section1231)), refs
}

func FederalScheduleDLine12LongTermK1Gain(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	total, refs := store.TagTotal("schedule_d_k1_long_term_gains")
	return money.RoundToDollar(total), refs
}

func FederalScheduleDLine15NetLongTermGain(line10, line11, line12 decimal.Decimal) decimal.Decimal {
	return line10.Add(line11).Add(line12)
}

func FederalScheduleDLine16NetCapitalGain(line7NetShortTermGain, line15NetLongTermGain decimal.Decimal) decimal.Decimal {
	return line7NetShortTermGain.Add(line15NetLongTermGain)
}

// Form 8960.

func FederalForm8960Line1TaxableInterest(scheduleBLine1TaxableInterest decimal.Decimal) decimal.Decimal {
	return scheduleBLine1TaxableInterest
}

func FederalForm8960Line2OrdinaryDividends(scheduleBLine6OrdinaryDividends decimal.Decimal) decimal.Decimal {
	return scheduleBLine6OrdinaryDividends
}

func FederalForm8960Line4aRentalsPartnerships(scheduleELine32 decimal.Decimal) decimal.Decimal {
	return scheduleELine32
}

// FederalForm8960Line4bAdjustmentNonSection1411 removes net income from
// non-section 1411 trades or businesses included on line 4a, leaving only
// passive activity income on line 4c.
func FederalForm8960Line4bAdjustmentNonSection1411(nonpassiveIncome, nonpassiveLossesAllowed, section179Deduction, additionalNonpassiveDeductions decimal.Decimal) decimal.Decimal {
	deductions := nonpassiveLossesAllowed.Add(section179Deduction).Add(additionalNonpassiveDeductions)
	return money.RoundToDollar(nonpassiveIncome.Sub(deductions)).Neg()
}

func FederalForm8960Line4cNetIncomeFromRentals(line4a, line4b decimal.Decimal) decimal.Decimal {
	return line4a.Add(line4b)
}

func FederalForm8960Line5aNetGainLossDisposition(scheduleDLine16NetCapitalGain decimal.Decimal) decimal.Decimal {
	return scheduleDLine16NetCapitalGain
}

// FederalForm8960Line5dNetGainLossDisposition carries line 5a through; lines
// 5b and 5c are zero for the modeled returns.
func FederalForm8960Line5dNetGainLossDisposition(line5a decimal.Decimal) decimal.Decimal {
	return line5a
}

func FederalForm8960Line8TotalInvestmentIncome(line1TaxableInterest, line2OrdinaryDividends, line4cNetIncomeFromRentals, line5dNetGainLossDisposition decimal.Decimal) decimal.Decimal {
	return line1TaxableInterest.
		Add(line2OrdinaryDividends).
		Add(line4cNetIncomeFromRentals).
		Add(line5dNetGainLossDisposition)
}

func FederalForm8960Line9aInvestmentInterestExpense(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	total, refs := store.TagTotal("form_8960_line_9a_investment_interest_expense")
	return money.RoundToDollar(total), refs
}

// FederalForm8960Line9bStateLocalForeignIncomeTax caps the deductible
// state/local/foreign income tax at the SALT limit.
func FederalForm8960Line9bStateLocalForeignIncomeTax(store *facts.Store, pol policy.Policy) (decimal.Decimal, []facts.RecordRef, error) {
	total, refs := store.TagTotal("form_8960_line_9b_state_local_foreign_income_tax")
	cap, err := pol.Amount("state_local_tax_deduction", "cap")
	if err != nil {
		return decimal.Zero, nil, err
	}
	return money.RoundToDollar(money.Min(total, cap)), refs, nil
}

func FederalForm8960Line9cMiscInvestmentExpenses(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	total, refs := store.TagTotal("form_8960_line_9c_misc_investment_expenses")
	return money.RoundToDollar(total), refs
}

func FederalForm8960Line9dTotalInvestmentExpenses(line9a, line9b, line9c decimal.Decimal) decimal.Decimal {
	return line9a.Add(line9b).Add(line9c)
}

// FederalForm8960Line11TotalDeductionsAndModifications carries line 9d; line
// 10 additional modifications are zero for the modeled returns.
func FederalForm8960Line11TotalDeductionsAndModifications(line9dTotalInvestmentExpenses decimal.Decimal) decimal.Decimal {
	return line9dTotalInvestmentExpenses
}

func FederalForm8960Line12NetInvestmentIncome(line8TotalInvestmentIncome, line11TotalDeductions decimal.Decimal) decimal.Decimal {
	return line8TotalInvestmentIncome.Sub(line11TotalDeductions)
}

func FederalForm8960Line13ModifiedAGI(form1040Line11AGI decimal.Decimal) decimal.Decimal {
	return form1040Line11AGI
}

func FederalForm8960Line15ModifiedAGIOverThreshold(line13ModifiedAGI decimal.Decimal, pol policy.Policy) (decimal.Decimal, error) {
	threshold, err := pol.Amount("net_investment_income_tax", "threshold")
	if err != nil {
		return decimal.Zero, err
	}
	return money.Max(decimal.Zero, line13ModifiedAGI.Sub(threshold)), nil
}

func FederalForm8960Line16SmallerOfLine12OrLine15(line12NetInvestmentIncome, line15ModifiedAGIOverThreshold decimal.Decimal) decimal.Decimal {
	return money.Min(line12NetInvestmentIncome, line15ModifiedAGIOverThreshold)
}

func FederalForm8960Line17NetInvestmentIncomeTax(line16NIITBase decimal.Decimal, pol policy.Policy) (decimal.Decimal, error) {
	rate, err := pol.Amount("net_investment_income_tax", "rate")
	if err != nil {
		return decimal.Zero, err
	}
	return money.RoundToDollar(line16NIITBase.Mul(rate)), nil
}

// Schedule 2.

func FederalSchedule2Line12NetInvestmentIncomeTax(form8960Line17NIIT decimal.Decimal) decimal.Decimal {
	return form8960Line17NIIT
}

// FederalSchedule2Line21OtherTaxes sums the Part II taxes this engine models:
// self-employment tax, additional Medicare tax, and net investment income
// tax. The remaining Part II lines are zero for the modeled returns.
func FederalSchedule2Line21OtherTaxes(line4SelfEmploymentTax, line11AdditionalMedicareTax, line12NetInvestmentIncomeTax decimal.Decimal) decimal.Decimal {
	return line4SelfEmploymentTax.Add(line11AdditionalMedicareTax).Add(line12NetInvestmentIncomeTax)
}

// Form 1040.

// FederalForm1040Line1zWages totals W-2 box 1 wages with each W-2 rounded
// individually, per the form instructions.
func FederalForm1040Line1zWages(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	return store.TagTotalRoundedEach("form_1040_line_1z_wages")
}

func FederalForm1040Line3aQualifiedDividends(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	total, refs := store.TagTotal("form_1040_line_3a_qualified_dividends")
	return money.RoundToDollar(total), refs
}

func FederalForm1040Line5bPensionsAnnuities(store *facts.Store) (decimal.Decimal, []facts.RecordRef) {
	total, refs := store.TagTotal("form_1040_line_5b_pensions")
	return money.RoundToDollar(total), refs
}

func FederalForm1040Line9TotalIncome(line1zWages, line2bTaxableInterest, line3bOrdinaryDividends, line5bPensionsAnnuities, line7CapitalGainLoss, line8AdditionalIncome decimal.Decimal) decimal.Decimal {
	total := line1zWages.
		Add(line2bTaxableInterest).
		Add(line3bOrdinaryDividends).
		Add(line5bPensionsAnnuities).
		Add(line7CapitalGainLoss).
		Add(line8AdditionalIncome)
	return money.RoundToDollar(total)
}

func FederalForm1040Line11AdjustedGrossIncome(line9TotalIncome, line10AdjustmentsToIncome decimal.Decimal) decimal.Decimal {
	return line9TotalIncome.Sub(line10AdjustmentsToIncome)
}

// FederalForm1040Line12Deductions returns the filed itemized amount when an
// override is present, the policy standard deduction otherwise.
func FederalForm1040Line12Deductions(pol policy.Policy, override *decimal.Decimal) (decimal.Decimal, error) {
	if override != nil {
		return money.RoundToDollar(*override), nil
	}
	return pol.Amount("standard_deduction")
}

func FederalForm1040Line14TotalDeductions(line12Deductions, line13QBIDeduction decimal.Decimal) decimal.Decimal {
	return line12Deductions.Add(line13QBIDeduction)
}

func FederalForm1040Line15TaxableIncome(line11AGI, line14TotalDeductions decimal.Decimal) decimal.Decimal {
	return line11AGI.Sub(line14TotalDeductions)
}

func FederalForm1040Line16Tax(taxFromWorksheet decimal.Decimal) decimal.Decimal {
	return taxFromWorksheet
}

// FederalForm1040Line18TaxAndAmounts carries line 16; Schedule 2 line 3 is
// zero for the modeled returns.
func FederalForm1040Line18TaxAndAmounts(line16Tax decimal.Decimal) decimal.Decimal {
	return line16Tax
}

func FederalForm1040Line21TotalCredits(line19ChildTaxCredit, line20Schedule3Line8 decimal.Decimal) decimal.Decimal {
	return line19ChildTaxCredit.Add(line20Schedule3Line8)
}

func FederalForm1040Line22TaxAfterCredits(line18TaxAndAmounts, line21TotalCredits decimal.Decimal) decimal.Decimal {
	return line18TaxAndAmounts.Sub(line21TotalCredits)
}

func FederalForm1040Line23OtherTaxes(schedule2Line21OtherTaxes decimal.Decimal) decimal.Decimal {
	return schedule2Line21OtherTaxes
}

func FederalForm1040Line24TotalTax(line22TaxAfterCredits, line23OtherTaxes decimal.Decimal) decimal.Decimal {
	return line22TaxAfterCredits.Add(line23OtherTaxes)
}

// qbiRate is the section 199A deduction percentage applied to REIT dividends.
var qbiRate = decimal.RequireFromString("0.20")

// ComputeFederalTotalTax recomputes the full federal chain down to Form 1040
// line 24. All intermediates are validated against the expected tree when the
// run carries a checker, and traced when it carries a recorder.
func ComputeFederalTotalTax(store *facts.Store, pol policy.Policy, run *Run) (decimal.Decimal, error) {
	obs := newObserver(run)

	// Schedule SE.
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

	// Schedule 1 adjustments.
	sch1Line15 := FederalSchedule1Line15DeductibleSETax(seLine12)
	sch1Line16, retirementRefs := FederalSchedule1Line16SERetirementContributions(store)
	sch1Line17, insuranceRefs := FederalSchedule1Line17SEHealthInsurance(store)
	sch1Line26 := FederalSchedule1Line26AdjustmentsToIncome(sch1Line15, sch1Line16, sch1Line17)

	// Form 8959 additional Medicare tax.
	w2MedicareWages := store.TagSum("w2_box_5_medicare_wages")
	form8959Line18, err := FederalForm8959Line18AdditionalMedicareTax(w2MedicareWages, seLine6, pol)
	if err != nil {
		return decimal.Zero, err
	}

	// Schedule B.
	schBLine1, interestRefs := FederalScheduleBLine1TaxableInterest(store)
	schBLine6, dividendRefs := FederalScheduleBLine6OrdinaryDividends(store)

	// Schedule E.
	schELine29a, nonpassiveRefs := FederalScheduleELine29aTotalNonpassiveIncome(store)
	schELine29bLoss, lossRefs := FederalScheduleELine29bNonpassiveLossAllowed(store)
	schELine29b179, sec179Refs := FederalScheduleELine29bSection179Deduction(store)
	schELine30 := FederalScheduleELine30TotalIncome(schELine29a)
	schELine31 := FederalScheduleELine31TotalLosses(schELine29bLoss, schELine29b179)
	schELine32 := FederalScheduleELine32TotalPartnershipIncome(schELine30, schELine31)
	sch1Line5 := FederalSchedule1Line5RentalRealEstateIncome(schELine32)
	sch1Line10 := FederalSchedule1Line10AdditionalIncome(sch1Line5)

	// Form 6781 and Schedule D.
	form6781Line7, contractsRefs := FederalForm6781Line7TotalGainLoss1256(store)
	form6781Line8, err := FederalForm6781Line8ShortTermPortion(form6781Line7, pol)
	if err != nil {
		return decimal.Zero, err
	}
	form6781Line9, err := FederalForm6781Line9LongTermPortion(form6781Line7, pol)
	if err != nil {
		return decimal.Zero, err
	}
	schDLine1a, stRefs := FederalScheduleDLine1aShortTermGain(store)
	schDLine3, adj1061Refs := FederalScheduleDLine3ShortTermSection1061Adjustment(store)
	schDLine4 := FederalScheduleDLine4ShortTermFrom6781(form6781Line8)
	schDLine5, k1ShortRefs := FederalScheduleDLine5ShortTermK1Gain(store)
	schDLine7 := FederalScheduleDLine7NetShortTermGain(schDLine1a, schDLine3, schDLine4, schDLine5)
	schDLine10, _ := FederalScheduleDLine10LongTermSection1061Adjustment(store)
	schDLine11, sec1231Refs := FederalScheduleDLine11LongTermFrom6781And4797(form6781Line9, store)
	schDLine12, k1LongRefs := FederalScheduleDLine12LongTermK1Gain(store)
	schDLine15 := FederalScheduleDLine15NetLongTermGain(schDLine10, schDLine11, schDLine12)
	schDLine16 := FederalScheduleDLine16NetCapitalGain(schDLine7, schDLine15)

	// Form 8960 income side.
	f8960Line1 := FederalForm8960Line1TaxableInterest(schBLine1)
	f8960Line2 := FederalForm8960Line2OrdinaryDividends(schBLine6)
	f8960Line4a := FederalForm8960Line4aRentalsPartnerships(schELine32)
	additionalNonpassiveDeductions := store.TagSum("form_8960_line_4b_additional_nonpassive_deductions")
	f8960Line4b := FederalForm8960Line4bAdjustmentNonSection1411(schELine29a, decimal.Zero, schELine29b179, additionalNonpassiveDeductions)
	f8960Line4c := FederalForm8960Line4cNetIncomeFromRentals(f8960Line4a, f8960Line4b)
	f8960Line5a := FederalForm8960Line5aNetGainLossDisposition(schDLine16)
	f8960Line5d := FederalForm8960Line5dNetGainLossDisposition(f8960Line5a)
	f8960Line8 := FederalForm8960Line8TotalInvestmentIncome(f8960Line1, f8960Line2, f8960Line4c, f8960Line5d)

	// Form 8960 deduction side.
	f8960Line9a, _ := FederalForm8960Line9aInvestmentInterestExpense(store)
	f8960Line9b, _, err := FederalForm8960Line9bStateLocalForeignIncomeTax(store, pol)
	if err != nil {
		return decimal.Zero, err
	}
	f8960Line9c, _ := FederalForm8960Line9cMiscInvestmentExpenses(store)
	f8960Line9d := FederalForm8960Line9dTotalInvestmentExpenses(f8960Line9a, f8960Line9b, f8960Line9c)
	f8960Line11 := FederalForm8960Line11TotalDeductionsAndModifications(f8960Line9d)
	f8960Line12 := FederalForm8960Line12NetInvestmentIncome(f8960Line8, f8960Line11)

	// Form 1040 income.
	line1z, wageRefs := FederalForm1040Line1zWages(store)
	line5b, pensionRefs := FederalForm1040Line5bPensionsAnnuities(store)
	line9 := FederalForm1040Line9TotalIncome(line1z, schBLine1, schBLine6, line5b, schDLine16, sch1Line10)

	// Filed returns may carry the AGI directly; prefer it when present.
	var line11 decimal.Decimal
	if agiOverride := store.TagSum("form_1040_line_11_adjusted_gross_income"); !agiOverride.IsZero() {
		line11 = money.RoundToDollar(agiOverride)
	} else {
		line11 = FederalForm1040Line11AdjustedGrossIncome(line9, sch1Line26)
	}

	line3a, qualifiedRefs := FederalForm1040Line3aQualifiedDividends(store)

	// Deductions. An itemized override reuses the SALT-capped state/local tax
	// already computed for Form 8960 line 9b instead of restating it as input.
	var deductionOverride *decimal.Decimal
	if itemized := store.TagSum("form_1040_line_12_deductions"); !itemized.IsZero() {
		v := itemized.Add(f8960Line9b)
		deductionOverride = &v
	}
	line12, err := FederalForm1040Line12Deductions(pol, deductionOverride)
	if err != nil {
		return decimal.Zero, err
	}
	qbiDirect := store.TagSum("form_1040_line_13_qbi_deduction")
	section199aDividends := store.TagSum("form_1099_div_box_5_section_199a_dividends")
	line13 := qbiDirect.Add(money.RoundToDollar(section199aDividends.Mul(qbiRate)))
	line14 := FederalForm1040Line14TotalDeductions(line12, line13)
	line15 := FederalForm1040Line15TaxableIncome(line11, line14)

	// Form 8960 tax side.
	f8960Line13 := FederalForm8960Line13ModifiedAGI(line11)
	f8960Line15, err := FederalForm8960Line15ModifiedAGIOverThreshold(f8960Line13, pol)
	if err != nil {
		return decimal.Zero, err
	}
	f8960Line16 := FederalForm8960Line16SmallerOfLine12OrLine15(f8960Line12, f8960Line15)
	f8960Line17, err := FederalForm8960Line17NetInvestmentIncomeTax(f8960Line16, pol)
	if err != nil {
		return decimal.Zero, err
	}
	sch2Line12 := FederalSchedule2Line12NetInvestmentIncomeTax(f8960Line17)

	// Schedule 2 other taxes.
	sch2Line21 := FederalSchedule2Line21OtherTaxes(seLine12, form8959Line18, sch2Line12)
	line23 := FederalForm1040Line23OtherTaxes(sch2Line21)

	// Tax on taxable income via the QD&CG worksheet.
	worksheet, err := QDCGWorksheetLine25(line15, line3a, schDLine15, schDLine16, pol)
	if err != nil {
		return decimal.Zero, err
	}

	// Filed returns may carry the line 16 tax directly.
	var line16 decimal.Decimal
	if taxInput := store.TagSum("form_1040_line_16_tax"); !taxInput.IsZero() {
		line16 = FederalForm1040Line16Tax(taxInput)
	} else {
		line16 = FederalForm1040Line16Tax(worksheet.Tax)
	}
	line18 := FederalForm1040Line18TaxAndAmounts(line16)

	line19Credit := store.TagSum("form_1040_line_19_child_tax_credit")
	line20Schedule3 := store.TagSum("form_1116_foreign_taxes_paid")
	line21 := FederalForm1040Line21TotalCredits(line19Credit, line20Schedule3)
	line22 := FederalForm1040Line22TaxAfterCredits(line18, line21)

	totalTax := FederalForm1040Line24TotalTax(line22, line23)

	obs.note("federal.schedule_se.line_2_schedule_c_and_k1_profit", seLine2, "K-1 box 14A - K-1 box 12")
	obs.note("federal.schedule_se.line_6_total_se_earnings", seLine6, "line 2 x earnings factor", "federal.schedule_se.line_2_schedule_c_and_k1_profit")
	obs.note("federal.schedule_se.line_10_social_security_portion", seLine10, "min(line 6, wage base) x social security rate", "federal.schedule_se.line_6_total_se_earnings")
	obs.note("federal.schedule_se.line_11_medicare_portion", seLine11, "line 6 x medicare rate", "federal.schedule_se.line_6_total_se_earnings")
	obs.note("federal.schedule_se.line_12_self_employment_tax", seLine12, "line 10 + line 11", "federal.schedule_se.line_10_social_security_portion", "federal.schedule_se.line_11_medicare_portion")

	obs.note("federal.schedule_1.line_5_rental_real_estate_income", sch1Line5, "Schedule E line 32", "federal.schedule_e.line_32_total_partnership_income")
	obs.note("federal.schedule_1.line_10_additional_income", sch1Line10, "line 5", "federal.schedule_1.line_5_rental_real_estate_income")
	obs.note("federal.schedule_1.line_15_deductible_self_employment_tax", sch1Line15, "Schedule SE line 12 / 2", "federal.schedule_se.line_12_self_employment_tax")
	obs.noteFacts("federal.schedule_1.line_16_self_employed_retirement_contributions", sch1Line16, "sum of retirement contributions", retirementRefs)
	obs.noteFacts("federal.schedule_1.line_17_self_employed_health_insurance", sch1Line17, "sum of health insurance premiums", insuranceRefs)
	obs.note("federal.schedule_1.line_26_adjustments_to_income", sch1Line26, "line 15 + line 16 + line 17", "federal.schedule_1.line_15_deductible_self_employment_tax", "federal.schedule_1.line_16_self_employed_retirement_contributions", "federal.schedule_1.line_17_self_employed_health_insurance")

	obs.note("federal.form_8959.line_18_additional_medicare_tax", form8959Line18, "additional medicare tax on wages and SE income over threshold", "federal.schedule_se.line_6_total_se_earnings")

	obs.noteFacts("federal.schedule_b.line_1_taxable_interest", schBLine1, "sum of interest income", interestRefs)
	obs.noteFacts("federal.schedule_b.line_6_ordinary_dividends", schBLine6, "sum of ordinary dividends", dividendRefs)

	obs.noteFacts("federal.schedule_e.line_29a_total_nonpassive_income", schELine29a, "sum of nonpassive income", nonpassiveRefs)
	obs.noteFacts("federal.schedule_e.line_29b_total_nonpassive_loss_allowed", schELine29bLoss, "sum of nonpassive losses allowed", lossRefs)
	obs.noteFacts("federal.schedule_e.line_29b_total_section_179_deduction", schELine29b179, "sum of section 179 deductions", sec179Refs)
	obs.note("federal.schedule_e.line_30_total_income", schELine30, "line 29a", "federal.schedule_e.line_29a_total_nonpassive_income")
	obs.note("federal.schedule_e.line_31_total_losses", schELine31, "-(line 29b col i + col j)", "federal.schedule_e.line_29b_total_nonpassive_loss_allowed", "federal.schedule_e.line_29b_total_section_179_deduction")
	obs.note("federal.schedule_e.line_32_total_partnership_income", schELine32, "line 30 + line 31", "federal.schedule_e.line_30_total_income", "federal.schedule_e.line_31_total_losses")

	obs.noteFacts("federal.form_6781.line_7_total_gain_loss_1256", form6781Line7, "sum of section 1256 gain/loss", contractsRefs)
	obs.note("federal.form_6781.line_8_short_term_portion", form6781Line8, "line 7 x short-term rate", "federal.form_6781.line_7_total_gain_loss_1256")
	obs.note("federal.form_6781.line_9_long_term_portion", form6781Line9, "line 7 x long-term rate", "federal.form_6781.line_7_total_gain_loss_1256")

	obs.noteFacts("federal.schedule_d.line_1a_short_term_gain", schDLine1a, "proceeds - cost basis + adjustments", stRefs)
	obs.noteFacts("federal.schedule_d.line_3_short_term_section_1061_adjustment", schDLine3, "sum of section 1061 adjustments", adj1061Refs)
	obs.note("federal.schedule_d.line_4_short_term_from_6781", schDLine4, "Form 6781 line 8", "federal.form_6781.line_8_short_term_portion")
	obs.noteFacts("federal.schedule_d.line_5_short_term_k1_gain", schDLine5, "sum of K-1 short-term gains", k1ShortRefs)
	obs.note("federal.schedule_d.line_7_net_short_term_gain", schDLine7, "line 1a + line 3 + line 4 + line 5", "federal.schedule_d.line_1a_short_term_gain", "federal.schedule_d.line_3_short_term_section_1061_adjustment", "federal.schedule_d.line_4_short_term_from_6781", "federal.schedule_d.line_5_short_term_k1_gain")
	obs.note("federal.schedule_d.line_10_long_term_section_1061_adjustment", schDLine10, "-(section 1061 adjustments)")
	obs.noteFacts("federal.schedule_d.line_11_long_term_from_6781_and_4797", schDLine11, "Form 6781 line 9 + section 1231 gains", sec1231Refs)
	obs.noteFacts("federal.schedule_d.line_12_long_term_k1_gain", schDLine12, "sum of K-1 long-term gains", k1LongRefs)
	obs.note("federal.schedule_d.line_15_net_long_term_gain", schDLine15, "line 10 + line 11 + line 12", "federal.schedule_d.line_10_long_term_section_1061_adjustment", "federal.schedule_d.line_11_long_term_from_6781_and_4797", "federal.schedule_d.line_12_long_term_k1_gain")
	obs.note("federal.schedule_d.line_16_net_capital_gain", schDLine16, "line 7 + line 15", "federal.schedule_d.line_7_net_short_term_gain", "federal.schedule_d.line_15_net_long_term_gain")

	obs.note("federal.form_8960.line_1_taxable_interest", f8960Line1, "Schedule B line 1", "federal.schedule_b.line_1_taxable_interest")
	obs.note("federal.form_8960.line_2_ordinary_dividends", f8960Line2, "Schedule B line 6", "federal.schedule_b.line_6_ordinary_dividends")
	obs.note("federal.form_8960.line_4a_rental_real_estate_royalties_partnerships", f8960Line4a, "Schedule E line 32", "federal.schedule_e.line_32_total_partnership_income")
	obs.note("federal.form_8960.line_4b_adjustment_nonsection_1411", f8960Line4b, "-(nonpassive income - nonpassive deductions)", "federal.schedule_e.line_29a_total_nonpassive_income")
	obs.note("federal.form_8960.line_4c_net_income_from_rentals", f8960Line4c, "line 4a + line 4b", "federal.form_8960.line_4a_rental_real_estate_royalties_partnerships", "federal.form_8960.line_4b_adjustment_nonsection_1411")
	obs.note("federal.form_8960.line_5a_net_gain_loss_disposition", f8960Line5a, "Schedule D line 16", "federal.schedule_d.line_16_net_capital_gain")
	obs.note("federal.form_8960.line_5d_net_gain_loss_disposition", f8960Line5d, "line 5a", "federal.form_8960.line_5a_net_gain_loss_disposition")
	obs.note("federal.form_8960.line_8_total_investment_income", f8960Line8, "line 1 + line 2 + line 4c + line 5d", "federal.form_8960.line_1_taxable_interest", "federal.form_8960.line_2_ordinary_dividends", "federal.form_8960.line_4c_net_income_from_rentals", "federal.form_8960.line_5d_net_gain_loss_disposition")
	obs.note("federal.form_8960.line_9a_investment_interest_expense", f8960Line9a, "sum of investment interest expense")
	obs.note("federal.form_8960.line_9b_state_local_foreign_income_tax", f8960Line9b, "min(state/local/foreign tax, SALT cap)")
	obs.note("federal.form_8960.line_9c_misc_investment_expenses", f8960Line9c, "sum of misc investment expenses")
	obs.note("federal.form_8960.line_12_net_investment_income", f8960Line12, "line 8 - line 11", "federal.form_8960.line_8_total_investment_income")
	obs.note("federal.form_8960.line_13_modified_adjusted_gross_income", f8960Line13, "Form 1040 line 11", "federal.form_1040.line_11_adjusted_gross_income")
	obs.note("federal.form_8960.line_15_modified_agi_over_threshold", f8960Line15, "max(0, line 13 - threshold)", "federal.form_8960.line_13_modified_adjusted_gross_income")
	obs.note("federal.form_8960.line_16_smaller_of_line_12_or_15", f8960Line16, "min(line 12, line 15)", "federal.form_8960.line_12_net_investment_income", "federal.form_8960.line_15_modified_agi_over_threshold")
	obs.note("federal.form_8960.line_17_net_investment_income_tax", f8960Line17, "line 16 x NIIT rate", "federal.form_8960.line_16_smaller_of_line_12_or_15")

	obs.note("federal.schedule_2.line_12_net_investment_income_tax", sch2Line12, "Form 8960 line 17", "federal.form_8960.line_17_net_investment_income_tax")
	obs.note("federal.schedule_2.line_21_other_taxes", sch2Line21, "SE tax + additional medicare tax + NIIT", "federal.schedule_se.line_12_self_employment_tax", "federal.form_8959.line_18_additional_medicare_tax", "federal.schedule_2.line_12_net_investment_income_tax")

	obs.noteFacts("federal.form_1040.line_1z_wages", line1z, "sum of W-2 box 1 wages, each rounded", wageRefs)
	obs.noteFacts("federal.form_1040.line_3a_qualified_dividends", line3a, "sum of qualified dividends", qualifiedRefs)
	obs.noteFacts("federal.form_1040.line_5b_pensions_annuities", line5b, "sum of taxable pensions/annuities", pensionRefs)
	obs.note("federal.form_1040.line_9_total_income", line9, "line 1z + line 2b + line 3b + line 5b + line 7 + line 8", "federal.form_1040.line_1z_wages", "federal.schedule_b.line_1_taxable_interest", "federal.schedule_b.line_6_ordinary_dividends", "federal.form_1040.line_5b_pensions_annuities", "federal.schedule_d.line_16_net_capital_gain", "federal.schedule_1.line_10_additional_income")
	obs.note("federal.form_1040.line_10_adjustments_to_income", sch1Line26, "Schedule 1 line 26", "federal.schedule_1.line_26_adjustments_to_income")
	obs.note("federal.form_1040.line_11_adjusted_gross_income", line11, "line 9 - line 10", "federal.form_1040.line_9_total_income", "federal.form_1040.line_10_adjustments_to_income")
	obs.note("federal.form_1040.line_12_standard_deduction", line12, "standard or itemized deduction")
	obs.note("federal.form_1040.line_14_total_deductions", line14, "line 12 + line 13", "federal.form_1040.line_12_standard_deduction")
	obs.note("federal.form_1040.line_15_taxable_income", line15, "line 11 - line 14", "federal.form_1040.line_11_adjusted_gross_income", "federal.form_1040.line_14_total_deductions")
	obs.note("federal.form_1040_qualified_dividends_capital_gain_worksheet.line_25_tax_on_all_income", worksheet.Tax, "min(preferential-rate tax, ordinary-rate tax)", "federal.form_1040.line_15_taxable_income", "federal.form_1040.line_3a_qualified_dividends")
	obs.note("federal.form_1040.line_16_tax", line16, "QD&CG worksheet line 25", "federal.form_1040_qualified_dividends_capital_gain_worksheet.line_25_tax_on_all_income")
	obs.note("federal.form_1040.line_18_tax_and_amounts", line18, "line 16 + line 17", "federal.form_1040.line_16_tax")
	obs.note("federal.form_1040.line_21_total_credits", line21, "line 19 + line 20")
	obs.note("federal.form_1040.line_22_tax_after_credits", line22, "line 18 - line 21", "federal.form_1040.line_18_tax_and_amounts", "federal.form_1040.line_21_total_credits")
	obs.note("federal.form_1040.line_23_other_taxes", line23, "Schedule 2 line 21", "federal.schedule_2.line_21_other_taxes")
	obs.note("federal.form_1040.line_24_total_tax", totalTax, "line 22 + line 23", "federal.form_1040.line_22_tax_after_credits", "federal.form_1040.line_23_other_taxes")
	obs.note("federal.compute_total_tax", totalTax, "Form 1040 line 24", "federal.form_1040.line_24_total_tax")

	if err := obs.flush(); err != nil {
		return decimal.Zero, err
	}
	return totalTax, nil
}
