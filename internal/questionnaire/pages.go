// Package questionnaire names the pages, fields and option values of the
// frontdoor journey, and the answers collected along it.
package questionnaire

// Page identifies a journey page. Values are used in URLs and stored
// against answers, so they never change once released.
type Page string

const (
	PageUnknown                   Page = "UNKNOWN-PAGE"
	PageStart                     Page = "start_page"
	PageCountry                   Page = "country"
	PageNorthernIreland           Page = "northern-ireland"
	PageSupplier                  Page = "supplier"
	PageAlternativeSupplier       Page = "alternative-supplier"
	PageBulbWarning               Page = "bulb-warning-page"
	PageShellWarning              Page = "shell-warning-page"
	PageUtilityWarehouseWarning   Page = "utility-warehouse-warning-page"
	PageApplicationsClosed        Page = "applications-closed"
	PageOwnProperty               Page = "own-property"
	PageParkHome                  Page = "park-home"
	PageParkHomeMainResidence     Page = "park-home-main-residence"
	PageParkHomeApplicationClosed Page = "park-home-application-closed"
	PageAddress                   Page = "address"
	PageEPCSelect                 Page = "epc-select"
	PageAddressSelect             Page = "address-select"
	PageReferralAlreadySubmitted  Page = "referral-already-submitted"
	PageAddressManual             Page = "address-manual"
	PageEPCSelectManual           Page = "epc-select-manual"
	PageAddressSelectManual       Page = "address-select-manual"
	PageCouncilTaxBand            Page = "council-tax-band"
	PageEPC                       Page = "epc"
	PageNoEPC                     Page = "no-epc"
	PageEPCIneligible             Page = "epc-ineligible"
	PageBenefits                  Page = "benefits"
	PageHouseholdIncome           Page = "household-income"
	PageIneligible                Page = "ineligible"
	PagePropertyType              Page = "property-type"
	PagePropertySubtype           Page = "property-subtype"
	PageNumberOfBedrooms          Page = "number-of-bedrooms"
	PageWallType                  Page = "wall-type"
	PageWallInsulation            Page = "wall-insulation"
	PageLoft                      Page = "loft"
	PageLoftAccess                Page = "loft-access"
	PageLoftInsulation            Page = "loft-insulation"
	PageSummary                   Page = "summary"
	PageSchemes                   Page = "schemes"
	PageContactDetails            Page = "contact-details"
	PageConfirmAndSubmit          Page = "confirm-and-submit"
	PageSuccess                   Page = "success"
)

// AllPages lists every addressable page, excluding PageUnknown.
var AllPages = []Page{
	PageStart,
	PageCountry,
	PageNorthernIreland,
	PageSupplier,
	PageAlternativeSupplier,
	PageBulbWarning,
	PageShellWarning,
	PageUtilityWarehouseWarning,
	PageApplicationsClosed,
	PageOwnProperty,
	PageParkHome,
	PageParkHomeMainResidence,
	PageParkHomeApplicationClosed,
	PageAddress,
	PageEPCSelect,
	PageAddressSelect,
	PageReferralAlreadySubmitted,
	PageAddressManual,
	PageEPCSelectManual,
	PageAddressSelectManual,
	PageCouncilTaxBand,
	PageEPC,
	PageNoEPC,
	PageEPCIneligible,
	PageBenefits,
	PageHouseholdIncome,
	PageIneligible,
	PagePropertyType,
	PagePropertySubtype,
	PageNumberOfBedrooms,
	PageWallType,
	PageWallInsulation,
	PageLoft,
	PageLoftAccess,
	PageLoftInsulation,
	PageSummary,
	PageSchemes,
	PageContactDetails,
	PageConfirmAndSubmit,
	PageSuccess,
}

var knownPages = func() map[Page]bool {
	m := make(map[Page]bool, len(AllPages))
	for _, p := range AllPages {
		m[p] = true
	}
	return m
}()

// IsKnown reports whether p is a real journey page.
func (p Page) IsKnown() bool {
	return knownPages[p]
}

func (p Page) String() string {
	return string(p)
}

// ParsePage converts a URL segment to a Page. Unrecognised names map to
// PageUnknown.
func ParsePage(s string) Page {
	p := Page(s)
	if p.IsKnown() {
		return p
	}
	return PageUnknown
}
