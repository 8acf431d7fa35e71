// Package routing computes the questionnaire journey: the next page after a
// submission, the page before the current one, and the whole path between
// two pages. Every decision is a pure function of the stored answers.
package routing

import (
	"slices"

	"helptoheat/internal/eligibility"
	q "helptoheat/internal/questionnaire"
)

type nextFunc func(q.Answers) q.Page

// transitions maps each page to the function that picks its successor.
// Pages without an entry end the journey.
var transitions = map[q.Page]nextFunc{
	q.PageStart:                    always(q.PageCountry),
	q.PageCountry:                  requires(q.FieldCountry, countryNext),
	q.PageSupplier:                 requires(q.FieldSupplier, supplierNext),
	q.PageAlternativeSupplier:      requires(q.FieldAlternativeSupplier, always(q.PageOwnProperty)),
	q.PageBulbWarning:              requires(q.FieldConfirmBulbWarning, always(q.PageOwnProperty)),
	q.PageShellWarning:             requires(q.FieldConfirmShellWarning, always(q.PageOwnProperty)),
	q.PageUtilityWarehouseWarning:  requires(q.FieldConfirmUtilityWarehouseWarning, always(q.PageOwnProperty)),
	q.PageOwnProperty:              requires(q.FieldOwnProperty, ownPropertyNext),
	q.PageParkHome:                 requires(q.FieldParkHome, parkHomeNext),
	q.PageParkHomeMainResidence:    requires(q.FieldParkHomeMainResidence, parkHomeMainResidenceNext),
	q.PageAddress:                  requires(q.FieldAddressChoice, addressNext),
	q.PageEPCSelect:                requires(q.FieldEPCSelectChoice, epcSelectNext),
	q.PageAddressSelect:            requires(q.FieldAddressSelectChoice, addressSelectNext),
	q.PageAddressManual:            postDuplicateUPRN,
	q.PageEPCSelectManual:          postDuplicateUPRN,
	q.PageAddressSelectManual:      postDuplicateUPRN,
	q.PageReferralAlreadySubmitted: postDuplicateUPRN,
	q.PageCouncilTaxBand:           requires(q.FieldCouncilTaxBand, postCouncilTaxBand),
	q.PageEPC:                      requires(q.FieldAcceptSuggestedEPC, epcNext),
	q.PageNoEPC:                    requires(q.FieldConfirmNoEPC, postEPC),
	q.PageBenefits:                 requires(q.FieldBenefits, benefitsNext),
	q.PageHouseholdIncome:          requires(q.FieldHouseholdIncome, householdIncomeNext),
	q.PagePropertyType:             requires(q.FieldPropertyType, always(q.PagePropertySubtype)),
	q.PagePropertySubtype:          requires(q.FieldPropertySubtype, always(q.PageNumberOfBedrooms)),
	q.PageNumberOfBedrooms:         requires(q.FieldNumberOfBedrooms, always(q.PageWallType)),
	q.PageWallType:                 requires(q.FieldWallType, always(q.PageWallInsulation)),
	q.PageWallInsulation:           requires(q.FieldWallInsulation, always(q.PageLoft)),
	q.PageLoft:                     requires(q.FieldLoft, loftNext),
	q.PageLoftAccess:               requires(q.FieldLoftAccess, always(q.PageLoftInsulation)),
	q.PageLoftInsulation:           requires(q.FieldLoftInsulation, always(q.PageSummary)),
	q.PageSummary:                  always(q.PageSchemes),
	q.PageSchemes:                  always(q.PageContactDetails),
	q.PageContactDetails:           always(q.PageConfirmAndSubmit),
	q.PageConfirmAndSubmit:         always(q.PageSuccess),
}

// NextPage returns the page after current given the answers so far, which
// must include the answers submitted on current. It returns PageUnknown when
// a required answer is missing or has an unrecognised value, and for pages
// that end the journey.
func NextPage(current q.Page, answers q.Answers) q.Page {
	next, ok := transitions[current]
	if !ok {
		return q.PageUnknown
	}
	return next(answers)
}

func always(p q.Page) nextFunc {
	return func(q.Answers) q.Page { return p }
}

func requires(f q.Field, next nextFunc) nextFunc {
	return func(a q.Answers) q.Page {
		if !a.Has(f) {
			return q.PageUnknown
		}
		return next(a)
	}
}

var continuingSuppliers = []string{
	q.SupplierBritishGas,
	q.SupplierE,
	q.SupplierEDF,
	q.SupplierEONNext,
	q.SupplierFoxglove,
	q.SupplierOctopus,
	q.SupplierOVO,
	q.SupplierScottishPower,
	q.SupplierUtilita,
}

func countryNext(a q.Answers) q.Page {
	switch a.String(q.FieldCountry) {
	case q.CountryEngland, q.CountryScotland, q.CountryWales:
		return q.PageSupplier
	case q.CountryNorthernIreland:
		return q.PageNorthernIreland
	}
	return q.PageUnknown
}

func supplierNext(a q.Answers) q.Page {
	supplier := a.String(q.FieldSupplier)
	switch {
	case slices.Contains(continuingSuppliers, supplier):
		return q.PageOwnProperty
	case supplier == q.SupplierBulb:
		return q.PageBulbWarning
	case supplier == q.SupplierShell:
		return q.PageShellWarning
	case supplier == q.SupplierUtilityWarehouse:
		return q.PageUtilityWarehouseWarning
	case supplier == q.SupplierNotListed:
		return q.PageAlternativeSupplier
	}
	return q.PageUnknown
}

func ownPropertyNext(a q.Answers) q.Page {
	switch {
	case a.IsNonSocialHousing():
		return q.PageParkHome
	case a.IsSocialHousing():
		return q.PageAddress
	}
	return q.PageUnknown
}

func parkHomeNext(a q.Answers) q.Page {
	switch a.String(q.FieldParkHome) {
	case q.Yes:
		return q.PageParkHomeMainResidence
	case q.No:
		return q.PageAddress
	}
	return q.PageUnknown
}

func parkHomeMainResidenceNext(a q.Answers) q.Page {
	switch a.String(q.FieldParkHomeMainResidence) {
	case q.No:
		return q.PageParkHomeApplicationClosed
	case q.Yes:
		return q.PageAddress
	}
	return q.PageUnknown
}

func addressNext(a q.Answers) q.Page {
	if a.Is(q.FieldAddressNoResults, q.Yes) {
		return q.PageAddressManual
	}
	switch a.String(q.FieldAddressChoice) {
	case q.AddressChoiceWriteAddress:
		switch a.String(q.FieldCountry) {
		case q.CountryEngland, q.CountryWales:
			return q.PageEPCSelect
		case q.CountryScotland:
			return q.PageAddressSelect
		}
	case q.AddressChoiceEPCAPIFail:
		return q.PageAddressSelect
	case q.AddressChoiceEnterManually:
		return q.PageAddressManual
	}
	return q.PageUnknown
}

func epcSelectNext(a q.Answers) q.Page {
	switch a.String(q.FieldEPCSelectChoice) {
	case q.EPCSelectChoiceSelectEPC:
		return postAddressInput(a)
	case q.EPCSelectChoiceEPCAPIFail:
		return q.PageAddressSelect
	case q.EPCSelectChoiceEnterManually:
		return q.PageEPCSelectManual
	}
	return q.PageUnknown
}

func addressSelectNext(a q.Answers) q.Page {
	switch a.String(q.FieldAddressSelectChoice) {
	case q.AddressSelectChoiceSelectAddress:
		return postAddressInput(a)
	case q.AddressSelectChoiceEnterManually:
		return q.PageAddressSelectManual
	}
	return q.PageUnknown
}

// postAddressInput shows the already-submitted page for a duplicate uprn.
func postAddressInput(a q.Answers) q.Page {
	switch a.String(q.FieldUPRNIsDuplicate) {
	case q.Yes:
		return q.PageReferralAlreadySubmitted
	case q.No:
		return postDuplicateUPRN(a)
	}
	return q.PageUnknown
}

// postDuplicateUPRN asks for the council tax band only on the
// non-social-housing, non-park-home flow.
func postDuplicateUPRN(a q.Answers) q.Page {
	switch {
	case a.IsNonSocialHousing():
		switch a.String(q.FieldParkHome) {
		case q.No:
			return q.PageCouncilTaxBand
		case q.Yes:
			return postCouncilTaxBand(a)
		}
	case a.IsSocialHousing():
		return postCouncilTaxBand(a)
	}
	return q.PageUnknown
}

// postCouncilTaxBand confirms a found EPC, or asks about a missing one when
// the address came from a lookup.
func postCouncilTaxBand(a q.Answers) q.Page {
	switch a.String(q.FieldEPCFound) {
	case q.Yes:
		return q.PageEPC
	case q.No:
		if enteredAddressManually(a) {
			return postEPC(a)
		}
		return q.PageNoEPC
	}
	return q.PageUnknown
}

func enteredAddressManually(a q.Answers) bool {
	return a.Is(q.FieldAddressChoice, q.AddressChoiceEnterManually) ||
		a.Is(q.FieldEPCSelectChoice, q.EPCSelectChoiceEnterManually) ||
		a.Is(q.FieldAddressSelectChoice, q.AddressSelectChoiceEnterManually)
}

func epcNext(a q.Answers) q.Page {
	if a.Is(q.FieldEPCRatingIsEligible, q.No) {
		return q.PageEPCIneligible
	}
	return postEPC(a)
}

// postEPC asks the circumstances questions on the non-social flow only.
func postEPC(a q.Answers) q.Page {
	switch {
	case a.IsNonSocialHousing():
		return q.PageBenefits
	case a.IsSocialHousing():
		return postCircumstances(a)
	}
	return q.PageUnknown
}

func benefitsNext(a q.Answers) q.Page {
	switch a.String(q.FieldBenefits) {
	case q.Yes:
		return postCircumstances(a)
	case q.No:
		return q.PageHouseholdIncome
	}
	return q.PageUnknown
}

func householdIncomeNext(a q.Answers) q.Page {
	if !eligibility.IsEligible(a) {
		return q.PageIneligible
	}
	return postCircumstances(a)
}

// postCircumstances skips the property questions for park homes.
func postCircumstances(a q.Answers) q.Page {
	switch {
	case a.IsNonSocialHousing():
		switch a.String(q.FieldParkHome) {
		case q.No:
			return q.PagePropertyType
		case q.Yes:
			return q.PageSummary
		}
	case a.IsSocialHousing():
		return q.PagePropertyType
	}
	return q.PageUnknown
}

func loftNext(a q.Answers) q.Page {
	switch a.String(q.FieldLoft) {
	case q.LoftYes:
		return q.PageLoftAccess
	case q.LoftNo:
		return q.PageSummary
	}
	return q.PageUnknown
}
