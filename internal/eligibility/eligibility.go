// Package eligibility decides which insulation schemes a household
// qualifies for from its questionnaire answers.
package eligibility

import (
	"slices"

	q "helptoheat/internal/questionnaire"
)

// Scheme identifies a subsidy scheme.
type Scheme string

const (
	GBIS Scheme = "GBIS"
	ECO4 Scheme = "ECO4"
)

var schemeNames = map[Scheme]string{
	GBIS: "Great British Insulation Scheme",
	ECO4: "Energy Company Obligation 4",
}

// DisplayName returns the scheme's public name.
func (s Scheme) DisplayName() string {
	if name, ok := schemeNames[s]; ok {
		return name
	}
	return string(s)
}

var (
	notEligible = []Scheme{}
	gbisOnly    = []Scheme{GBIS}
	gbisAndECO4 = []Scheme{GBIS, ECO4}
)

// Calculate returns the schemes the answers qualify for, GBIS first. The
// rules are evaluated in order and the first that matches decides. Missing
// answers never qualify on their own.
func Calculate(answers q.Answers) []Scheme {
	country := answers.String(q.FieldCountry)

	if !slices.Contains([]string{q.CountryEngland, q.CountryScotland, q.CountryWales}, country) {
		return clone(notEligible)
	}

	epcRating := answers.StringOr(q.FieldEPCRating, q.NotFound)
	if slices.Contains([]string{"A", "B", "C"}, epcRating) && answers.Is(q.FieldAcceptSuggestedEPC, q.Yes) {
		return clone(notEligible)
	}

	if answers.IsSocialHousing() {
		return clone(gbisAndECO4)
	}

	parkHome := isParkHome(answers)
	// Only an absent answer defaults to No; an explicit null does not.
	residence, answered := answers[string(q.FieldParkHomeMainResidence)]
	if parkHome && (!answered || residence == q.No) {
		return clone(notEligible)
	}

	if answers.Is(q.FieldBenefits, q.Yes) {
		return clone(gbisAndECO4)
	}

	if answers.Is(q.FieldHouseholdIncome, q.HouseholdIncomeBelowThreshold) {
		return clone(gbisAndECO4)
	}

	if parkHome {
		return clone(gbisOnly)
	}

	if eligibleCouncilTaxBand(country, answers.String(q.FieldCouncilTaxBand)) {
		return clone(gbisOnly)
	}

	return clone(notEligible)
}

// IsEligible reports whether the answers qualify for any scheme.
func IsEligible(answers q.Answers) bool {
	return len(Calculate(answers)) > 0
}

// Contains reports whether s is in schemes.
func Contains(schemes []Scheme, s Scheme) bool {
	return slices.Contains(schemes, s)
}

// Strings converts schemes to their codes for storage in session data.
func Strings(schemes []Scheme) []string {
	out := make([]string, len(schemes))
	for i, s := range schemes {
		out[i] = string(s)
	}
	return out
}

func isParkHome(answers q.Answers) bool {
	return answers.Is(q.FieldParkHome, q.Yes) || answers.Is(q.FieldPropertyType, q.PropertyTypeParkHome)
}

func eligibleCouncilTaxBand(country, band string) bool {
	switch country {
	case q.CountryEngland:
		return slices.Contains([]string{"A", "B", "C", "D"}, band)
	case q.CountryScotland, q.CountryWales:
		return slices.Contains([]string{"A", "B", "C", "D", "E"}, band)
	}
	return false
}

func clone(s []Scheme) []Scheme {
	return slices.Clone(s)
}
