package service

import (
	"strings"
	"time"
	_ "time/tzdata"

	"helptoheat/internal/eligibility"
	q "helptoheat/internal/questionnaire"
	"helptoheat/internal/referral/models"
)

// London is the zone submission dates are reported in.
var London = mustLoadLocation("Europe/London")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Row is one exported referral keyed by column heading.
type Row map[string]string

// Columns is the full export layout in order.
var Columns = []string{
	"ECO4",
	"GBIS",
	"first_name",
	"last_name",
	"contact_number",
	"email",
	"own_property",
	"benefits",
	"household_income",
	"uprn",
	"address_line_1",
	"postcode",
	"address",
	"council_tax_band",
	"property_type",
	"property_subtype",
	"epc_rating",
	"accept_suggested_epc",
	"epc_date",
	"number_of_bedrooms",
	"wall_type",
	"wall_insulation",
	"loft",
	"loft_access",
	"loft_insulation",
	"Property main heat source",
	"supplier",
	"submission_date",
	"submission_time",
}

var piiColumns = map[string]bool{
	"first_name":     true,
	"last_name":      true,
	"email":          true,
	"address":        true,
	"address_line_1": true,
	"postcode":       true,
	"contact_number": true,
	"uprn":           true,
}

// ColumnsWithoutPII drops the personal columns from Columns.
var ColumnsWithoutPII = func() []string {
	out := make([]string, 0, len(Columns))
	for _, c := range Columns {
		if !piiColumns[c] {
			out = append(out, c)
		}
	}
	return out
}()

// ColumnsFor returns the export layout.
func ColumnsFor(withPII bool) []string {
	if withPII {
		return Columns
	}
	return ColumnsWithoutPII
}

// BuildRow flattens a referral into export columns with the eligibility
// flags and London-local submission date and time added.
func BuildRow(r *models.Referral, withPII bool) Row {
	answers := q.Answers(r.Data)
	schemes := eligibility.Calculate(answers)
	created := r.CreatedAt.In(London)

	row := make(Row, len(Columns))
	for _, col := range ColumnsFor(withPII) {
		row[col] = answers.String(q.Field(col))
	}
	row["ECO4"] = yesNo(eligibility.Contains(schemes, eligibility.ECO4))
	row["GBIS"] = yesNo(eligibility.Contains(schemes, eligibility.GBIS))
	if answers.Is(q.FieldEPCRating, q.NotFound) {
		row["epc_rating"] = ""
	}
	if withPII && row["address"] == "" {
		row["address"] = formatAddress(answers)
	}
	if row["supplier"] == "" {
		row["supplier"] = r.SupplierName
	}
	row["submission_date"] = created.Format("2006-01-02")
	row["submission_time"] = created.Format("15:04:05")
	return row
}

func formatAddress(answers q.Answers) string {
	var parts []string
	for _, f := range []q.Field{q.FieldAddressLine1, q.FieldAddressLine2, q.FieldTownOrCity, q.FieldCounty, q.FieldPostcode} {
		if v := strings.TrimSpace(answers.String(f)); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

func yesNo(b bool) string {
	if b {
		return q.Yes
	}
	return q.No
}
