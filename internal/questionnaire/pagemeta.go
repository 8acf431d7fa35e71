package questionnaire

// CompulsoryFields lists the fields a page submission must carry. The
// contact-details page additionally needs an email or a contact number.
var CompulsoryFields = map[Page][]Field{
	PageCountry:               {FieldCountry},
	PageSupplier:              {FieldSupplier},
	PageAlternativeSupplier:   {FieldAlternativeSupplier},
	PageOwnProperty:           {FieldOwnProperty},
	PageParkHome:              {FieldParkHome},
	PageParkHomeMainResidence: {FieldParkHomeMainResidence},
	PageAddress:               {FieldBuildingNameOrNumber, FieldPostcode},
	PageEPCSelect:             {FieldRRN},
	PageAddressSelect:         {FieldUPRN},
	PageAddressManual:         {FieldAddressLine1, FieldTownOrCity, FieldPostcode},
	PageEPCSelectManual:       {FieldAddressLine1, FieldTownOrCity, FieldPostcode},
	PageAddressSelectManual:   {FieldAddressLine1, FieldTownOrCity, FieldPostcode},
	PageCouncilTaxBand:        {FieldCouncilTaxBand},
	PageEPC:                   {FieldAcceptSuggestedEPC},
	PageBenefits:              {FieldBenefits},
	PageHouseholdIncome:       {FieldHouseholdIncome},
	PagePropertyType:          {FieldPropertyType},
	PagePropertySubtype:       {FieldPropertySubtype},
	PageNumberOfBedrooms:      {FieldNumberOfBedrooms},
	PageWallType:              {FieldWallType},
	PageWallInsulation:        {FieldWallInsulation},
	PageLoft:                  {FieldLoft},
	PageLoftAccess:            {FieldLoftAccess},
	PageLoftInsulation:        {FieldLoftInsulation},
	PageContactDetails:        {FieldFirstName, FieldLastName},
	PageConfirmAndSubmit:      {FieldPermission, FieldAcknowledge},
}

// MissingFieldMessages are shown when a compulsory field is absent.
var MissingFieldMessages = map[Field]string{
	FieldCountry:               "Select where the property is located",
	FieldOwnProperty:           "Select if you own the property",
	FieldParkHome:              "Select if you live in a park home",
	FieldParkHomeMainResidence: "Select if the park home is your main residence",
	FieldBuildingNameOrNumber:  "Enter building name or number",
	FieldAddressLine1:          "Enter Address line 1",
	FieldPostcode:              "Enter a postcode",
	FieldUPRN:                  "Select your address",
	FieldRRN:                   "Select your address",
	FieldTownOrCity:            "Enter your Town or city",
	FieldCouncilTaxBand:        "Enter the Council Tax Band of the property",
	FieldAcceptSuggestedEPC:    "Select if your EPC rating is correct or not, or that you do not know",
	FieldBenefits:              "Select if anyone in your household is receiving any benefits listed below",
	FieldHouseholdIncome:       "Select your household income",
	FieldPropertyType:          "Select your property type",
	FieldPropertySubtype:       "Select your property type",
	FieldNumberOfBedrooms:      "Select the number of bedrooms the property has",
	FieldWallType:              "Select the type of walls the property has",
	FieldWallInsulation:        "Select if the walls of the property are insulated or not, or if you do not know",
	FieldLoft:                  "Select if you have a loft that has been converted into a room or not",
	FieldLoftAccess:            "Select whether or not you have access to the loft",
	FieldLoftInsulation:        "Select whether or not your loft is fully insulated",
	FieldSupplier:              "Select your home energy supplier from the list below",
	FieldAlternativeSupplier:   "Select your home energy supplier from the list below",
	FieldFirstName:             "Enter your first name",
	FieldLastName:              "Enter your last name",
	FieldEmail:                 "Enter your email address",
	FieldContactNumber:         "Enter your contact number",
	FieldPermission:            "Please confirm that you agree to the use of your information by checking this box",
	FieldAcknowledge:           "Please confirm that you agree to the use of your information by checking this box",
}

// householdPages are the pages shown on the summary page with their fields.
var householdPages = []struct {
	Page   Page
	Fields []Field
}{
	{PageCountry, []Field{FieldCountry}},
	{PageSupplier, []Field{FieldSupplier}},
	{PageOwnProperty, []Field{FieldOwnProperty}},
	{PageParkHome, []Field{FieldParkHome}},
	{PageParkHomeMainResidence, []Field{FieldParkHomeMainResidence}},
	{PageAddress, []Field{FieldAddress}},
	{PageCouncilTaxBand, []Field{FieldCouncilTaxBand}},
	{PageEPC, []Field{FieldEPCRating}},
	{PageBenefits, []Field{FieldBenefits}},
	{PageHouseholdIncome, []Field{FieldHouseholdIncome}},
	{PagePropertyType, []Field{FieldPropertyType}},
	{PagePropertySubtype, []Field{FieldPropertySubtype}},
	{PageNumberOfBedrooms, []Field{FieldNumberOfBedrooms}},
	{PageWallType, []Field{FieldWallType}},
	{PageWallInsulation, []Field{FieldWallInsulation}},
	{PageLoft, []Field{FieldLoft}},
	{PageLoftAccess, []Field{FieldLoftAccess}},
	{PageLoftInsulation, []Field{FieldLoftInsulation}},
}

// SummaryLabels are the questions shown beside answers on the summary page.
var SummaryLabels = map[Field]string{
	FieldCountry:               "Country of property",
	FieldSupplier:              "Energy supplier",
	FieldOwnProperty:           "Do you own the property?",
	FieldParkHome:              "Do you live in a park home?",
	FieldParkHomeMainResidence: "Is the park home your main residence?",
	FieldAddress:               "Property address",
	FieldCouncilTaxBand:        "Council tax band",
	FieldEPCRating:             "Energy Performance Certificate",
	FieldBenefits:              "Is anyone in your household receiving any of the following benefits?",
	FieldHouseholdIncome:       "Annual household income",
	FieldPropertyType:          "Property type",
	FieldPropertySubtype:       "Property type",
	FieldNumberOfBedrooms:      "Number of bedrooms",
	FieldWallType:              "Property walls",
	FieldWallInsulation:        "Are your walls insulated?",
	FieldLoft:                  "Does this property have a loft?",
	FieldLoftAccess:            "Is there access to your loft?",
	FieldLoftInsulation:        "How much loft insulation do you have?",
}

// SummaryLine is one answered question as shown on the summary page.
type SummaryLine struct {
	Page     Page   `json:"page"`
	Field    Field  `json:"field"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Summary lists the answered household questions in page order.
func Summary(answers Answers) []SummaryLine {
	var lines []SummaryLine
	for _, hp := range householdPages {
		for _, f := range hp.Fields {
			if !answers.Has(f) {
				continue
			}
			lines = append(lines, SummaryLine{
				Page:     hp.Page,
				Field:    f,
				Question: SummaryLabels[f],
				Answer:   answers.String(f),
			})
		}
	}
	return lines
}

var changePages = func() map[Page]Page {
	m := make(map[Page]Page, len(householdPages)+1)
	for _, hp := range householdPages {
		m[hp.Page] = PageSummary
	}
	m[PageContactDetails] = PageConfirmAndSubmit
	return m
}()

// ChangeReturnPage returns the page a user goes back to after changing an
// answer on p, and false when p cannot be changed.
func ChangeReturnPage(p Page) (Page, bool) {
	target, ok := changePages[p]
	return target, ok
}

// MissingFields returns the compulsory fields absent or empty in data,
// keyed by field with the user-facing message.
func MissingFields(p Page, data map[string]any) map[string]string {
	missing := map[string]string{}
	for _, f := range CompulsoryFields[p] {
		if isBlank(data[string(f)]) {
			missing[string(f)] = MissingFieldMessages[f]
		}
	}
	if p == PageContactDetails && isBlank(data[string(FieldEmail)]) && isBlank(data[string(FieldContactNumber)]) {
		missing[string(FieldEmail)] = MissingFieldMessages[FieldEmail]
		missing[string(FieldContactNumber)] = MissingFieldMessages[FieldContactNumber]
	}
	return missing
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case []any:
		return len(t) == 0
	default:
		return false
	}
}
