// Package converter resolves which supplier a session's referral goes to.
// Some suppliers have been taken over; their customers are referred to the
// acquiring company.
package converter

import (
	q "helptoheat/internal/questionnaire"
)

var converted = map[string]string{
	q.SupplierBulb:             q.SupplierOctopus,
	q.SupplierShell:            q.SupplierOctopus,
	q.SupplierUtilityWarehouse: q.SupplierEONNext,
}

// Convert maps an acquired supplier to its replacement. Other names pass
// through.
func Convert(name string) string {
	if to, ok := converted[name]; ok {
		return to
	}
	return name
}

// IsConverted reports whether referrals for name go to another supplier.
func IsConverted(name string) bool {
	_, ok := converted[name]
	return ok
}

// Chosen is the supplier the user picked, following the alternative
// supplier when their own was not listed.
func Chosen(answers q.Answers) string {
	if answers.Is(q.FieldSupplier, q.SupplierNotListed) {
		return answers.String(q.FieldAlternativeSupplier)
	}
	return answers.String(q.FieldSupplier)
}

// GeneralPage is the supplier named on pages before submission.
func GeneralPage(answers q.Answers) string {
	return Convert(Chosen(answers))
}

// SuccessPage prefers the supplier stored on the referral.
func SuccessPage(answers q.Answers, referralSupplier string) string {
	if referralSupplier != "" {
		return referralSupplier
	}
	return GeneralPage(answers)
}

// ReplaceInSessionData returns a copy with supplier set to the converted
// supplier. user_selected_supplier keeps what the user picked.
func ReplaceInSessionData(answers q.Answers) q.Answers {
	out := answers.Clone()
	if !out.Has(q.FieldUserSelectedSupplier) && answers.Has(q.FieldSupplier) {
		out[string(q.FieldUserSelectedSupplier)] = answers.String(q.FieldSupplier)
	}
	if supplier := GeneralPage(answers); supplier != "" {
		out[string(q.FieldSupplier)] = supplier
	}
	return out
}
