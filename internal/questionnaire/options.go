package questionnaire

import "slices"

// Options lists the accepted values for each choice field. Fields absent
// from the map accept free text.
var Options = map[Field][]string{
	FieldCountry:                        {CountryEngland, CountryScotland, CountryWales, CountryNorthernIreland},
	FieldSupplier:                       append(slices.Clone(RealSuppliers), SupplierNotListed),
	FieldConfirmBulbWarning:             {Yes},
	FieldConfirmShellWarning:            {Yes},
	FieldConfirmUtilityWarehouseWarning: {Yes},
	FieldOwnProperty:                    {OwnPropertyOwner, OwnPropertyTenant, OwnPropertySocialHousing, OwnPropertyLandlord},
	FieldParkHome:                       {Yes, No},
	FieldParkHomeMainResidence:          {Yes, No},
	FieldCouncilTaxBand:                 CouncilTaxBands,
	FieldAcceptSuggestedEPC:             {Yes, No, DontKnow, NotFound},
	FieldEPCRating:                      {"A", "B", "C", "D", "E", "F", "G", "H", NotFound},
	FieldConfirmNoEPC:                   {Yes, No},
	FieldBenefits:                       {Yes, No},
	FieldHouseholdIncome:                {HouseholdIncomeBelowThreshold, HouseholdIncomeAboveThreshold},
	FieldPropertyType:                   {PropertyTypeHouse, PropertyTypeBungalow, PropertyTypeApartment, PropertyTypeParkHome},
	FieldPropertySubtype: {
		PropertySubtypeTopFloor, PropertySubtypeMiddleFloor, PropertySubtypeGroundFloor,
		PropertySubtypeDetached, PropertySubtypeSemiDetached, PropertySubtypeTerraced, PropertySubtypeEndTerrace,
		PropertySubtypeParkHome,
	},
	FieldNumberOfBedrooms:        {BedroomsStudio, BedroomsOne, BedroomsTwo, BedroomsThreeOrMore},
	FieldWallType:                {WallTypeSolid, WallTypeCavity, WallTypeMix, NotListed, DontKnow},
	FieldWallInsulation:          {WallInsulationAll, WallInsulationSome, WallInsulationNone, DontKnow},
	FieldLoft:                    {LoftYes, LoftNo},
	FieldLoftAccess:              {LoftAccessYes, LoftAccessNo, NoLoft},
	FieldLoftInsulation:          {LoftInsulationAboveThreshold, LoftInsulationBelowThreshold, LoftInsulationNone, DontKnow, NoLoft},
	FieldAddressChoice:           {AddressChoiceWriteAddress, AddressChoiceEPCAPIFail, AddressChoiceEnterManually},
	FieldAddressNoResults:        {Yes, No},
	FieldEPCSelectChoice:         {EPCSelectChoiceSelectEPC, EPCSelectChoiceEPCAPIFail, EPCSelectChoiceEnterManually},
	FieldAddressSelectChoice:     {AddressSelectChoiceSelectAddress, AddressSelectChoiceEnterManually},
	FieldUPRNIsDuplicate:         {Yes, No},
	FieldSubmittedToSameSupplier: {Yes, No},
	FieldEPCFound:                {Yes, No},
	FieldEPCRatingIsEligible:     {Yes, No},
}

// RealSuppliers are the suppliers a user can pick on the supplier page.
var RealSuppliers = []string{
	SupplierBritishGas,
	SupplierBulb,
	SupplierE,
	SupplierEDF,
	SupplierEONNext,
	SupplierFoxglove,
	SupplierOctopus,
	SupplierOVO,
	SupplierScottishPower,
	SupplierShell,
	SupplierUtilita,
	SupplierUtilityWarehouse,
}

// CouncilTaxBands is A to I; band I only exists in Wales.
var CouncilTaxBands = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}

// Allowed reports whether value is a valid option for f. Free-text fields
// accept anything.
func Allowed(f Field, value string) bool {
	opts, ok := Options[f]
	if !ok {
		return true
	}
	return slices.Contains(opts, value)
}
