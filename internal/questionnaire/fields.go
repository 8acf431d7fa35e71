package questionnaire

// Field is an answer key stored in session data.
type Field string

// Question fields.
const (
	FieldCountry                        Field = "country"
	FieldSupplier                       Field = "supplier"
	FieldAlternativeSupplier            Field = "alternative_supplier"
	FieldUserSelectedSupplier           Field = "user_selected_supplier"
	FieldConfirmBulbWarning             Field = "confirm_bulb_warning"
	FieldConfirmShellWarning            Field = "confirm_shell_warning"
	FieldConfirmUtilityWarehouseWarning Field = "confirm_utility_warehouse_warning"
	FieldOwnProperty                    Field = "own_property"
	FieldParkHome                       Field = "park_home"
	FieldParkHomeMainResidence          Field = "park_home_main_residence"
	FieldBuildingNameOrNumber           Field = "building_name_or_number"
	FieldPostcode                       Field = "postcode"
	FieldAddressAndDetails              Field = "address_and_lmk_details"
	FieldAddressLine1                   Field = "address_line_1"
	FieldAddressLine2                   Field = "address_line_2"
	FieldTownOrCity                     Field = "town_or_city"
	FieldCounty                         Field = "county"
	FieldAddress                        Field = "address"
	FieldUPRN                           Field = "uprn"
	FieldRRN                            Field = "rrn"
	FieldLMK                            Field = "lmk"
	FieldCouncilTaxBand                 Field = "council_tax_band"
	FieldAcceptSuggestedEPC             Field = "accept_suggested_epc"
	FieldEPCRating                      Field = "epc_rating"
	FieldEPCDate                        Field = "epc_date"
	FieldConfirmNoEPC                   Field = "confirm_no_epc"
	FieldBenefits                       Field = "benefits"
	FieldHouseholdIncome                Field = "household_income"
	FieldPropertyType                   Field = "property_type"
	FieldPropertySubtype                Field = "property_subtype"
	FieldNumberOfBedrooms               Field = "number_of_bedrooms"
	FieldWallType                       Field = "wall_type"
	FieldWallInsulation                 Field = "wall_insulation"
	FieldLoft                           Field = "loft"
	FieldLoftAccess                     Field = "loft_access"
	FieldLoftInsulation                 Field = "loft_insulation"
	FieldVentilationAcknowledgement     Field = "ventilation_acknowledgement"
	FieldContributionAcknowledgement    Field = "contribution_acknowledgement"
	FieldFirstName                      Field = "first_name"
	FieldLastName                       Field = "last_name"
	FieldContactNumber                  Field = "contact_number"
	FieldEmail                          Field = "email"
	FieldPermission                     Field = "permission"
	FieldAcknowledge                    Field = "acknowledge"
	FieldSchemes                        Field = "schemes"
	FieldReferralCreatedAt              Field = "referral_created_at"
	FieldPageName                       Field = "_page_name"
)

// Journey fields record the outcome of lookups and checks so a journey can be
// recalculated from stored answers alone.
const (
	FieldAddressChoice           Field = "address_choice"
	FieldAddressNoResults        Field = "no_results"
	FieldEPCSelectChoice         Field = "epc_select_choice"
	FieldAddressSelectChoice     Field = "address_select_choice"
	FieldSubmitAnother           Field = "submit_another"
	FieldSubmittedToSameSupplier Field = "submitted_to_same_supplier"
	FieldUPRNIsDuplicate         Field = "uprn_is_duplicate"
	FieldEPCFound                Field = "epc_found"
	FieldEPCRatingIsEligible     Field = "epc_rating_is_eligible"
)

// Shared option values.
const (
	Yes           = "Yes"
	No            = "No"
	DontKnow      = "I do not know"
	NotListed     = "I do not see my option listed"
	NotFound      = "Not found"
	NoLoft        = "No loft"
	EnterManually = "enter manually"
)

const (
	CountryEngland         = "England"
	CountryScotland        = "Scotland"
	CountryWales           = "Wales"
	CountryNorthernIreland = "Northern Ireland"
)

const (
	SupplierBritishGas       = "British Gas"
	SupplierBulb             = "Bulb, now part of Octopus Energy"
	SupplierE                = "E (Gas & Electricity) Ltd"
	SupplierEDF              = "EDF"
	SupplierEONNext          = "E.ON Next"
	SupplierFoxglove         = "Foxglove"
	SupplierOctopus          = "Octopus Energy"
	SupplierOVO              = "OVO"
	SupplierScottishPower    = "Scottish Power"
	SupplierShell            = "Shell"
	SupplierUtilita          = "Utilita"
	SupplierUtilityWarehouse = "Utility Warehouse"
	SupplierNotListed        = "supplier_not_listed"
)

const (
	OwnPropertyOwner         = "Yes, I own my property and live in it"
	OwnPropertyTenant        = "No, I am a tenant"
	OwnPropertySocialHousing = "No, I am a social housing tenant"
	OwnPropertyLandlord      = "Yes, I am the property owner but I lease the property to one or more tenants"
)

const (
	PropertyTypeHouse     = "House"
	PropertyTypeBungalow  = "Bungalow"
	PropertyTypeApartment = "Apartment, flat or maisonette"
	PropertyTypeParkHome  = "Park home"
)

const (
	PropertySubtypeTopFloor     = "Top floor"
	PropertySubtypeMiddleFloor  = "Middle floor"
	PropertySubtypeGroundFloor  = "Ground floor"
	PropertySubtypeDetached     = "Detached"
	PropertySubtypeSemiDetached = "Semi-detached"
	PropertySubtypeTerraced     = "Terraced"
	PropertySubtypeEndTerrace   = "End terrace"
	PropertySubtypeParkHome     = "Park home"
)

const (
	AddressChoiceWriteAddress  = "write address"
	AddressChoiceEPCAPIFail    = "epc api fail"
	AddressChoiceEnterManually = EnterManually

	EPCSelectChoiceSelectEPC     = "select epc"
	EPCSelectChoiceEPCAPIFail    = "epc api fail"
	EPCSelectChoiceEnterManually = EnterManually

	AddressSelectChoiceSelectAddress = "select address"
	AddressSelectChoiceEnterManually = EnterManually
)

const (
	HouseholdIncomeBelowThreshold = "Less than £31,000 a year"
	HouseholdIncomeAboveThreshold = "£31,000 or more a year"
)

const (
	BedroomsStudio      = "Studio"
	BedroomsOne         = "One bedroom"
	BedroomsTwo         = "Two bedrooms"
	BedroomsThreeOrMore = "Three or more bedrooms"
)

const (
	WallTypeSolid  = "Solid walls"
	WallTypeCavity = "Cavity walls"
	WallTypeMix    = "Mix of solid and cavity walls"

	WallInsulationAll  = "Yes they are all insulated"
	WallInsulationSome = "Some are insulated, some are not"
	WallInsulationNone = "No they are not insulated"
)

const (
	LoftYes = "Yes, I have a loft that has not been converted into a room"
	LoftNo  = "No, I do not have a loft or my loft has been converted into a room"

	LoftAccessYes = "Yes, there is access to my loft"
	LoftAccessNo  = "No, there is no access to my loft"

	LoftInsulationAboveThreshold = "I have more than 100mm of loft insulation"
	LoftInsulationBelowThreshold = "I have less than or equal to 100mm of loft insulation"
	LoftInsulationNone           = "I have no loft insulation"
)
