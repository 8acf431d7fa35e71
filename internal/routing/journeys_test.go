package routing

import (
	"fmt"
	"slices"

	q "helptoheat/internal/questionnaire"
)

// Generators for complete answer sets. Back-navigation replays the whole
// journey, so every answer set must carry all answers up to its end page.
// Each stage fans out over the previous stage's answer sets.

type scenario struct {
	name    string
	answers q.Answers
}

func (s scenario) with(name string, extra map[string]any) scenario {
	return scenario{name: s.name + "/" + name, answers: s.answers.Merge(extra)}
}

const (
	propertyFlowParkHome = "park home"
	propertyFlowMain     = "main home"
	propertyFlowSocial   = "social housing"
)

const (
	addressFlowEPCHitSelect       = "epc hit select"
	addressFlowEPCHitManually     = "epc hit manually"
	addressFlowEPCFailSelect      = "epc fail select"
	addressFlowEPCFailManually    = "epc fail manually"
	addressFlowScotlandSelectEPC  = "scotland select epc"
	addressFlowScotlandSelectNone = "scotland select no epc"
	addressFlowManually           = "manually"
	addressFlowNoResults          = "no results"
)

var allAddressFlows = []string{
	addressFlowEPCHitSelect,
	addressFlowEPCHitManually,
	addressFlowEPCFailSelect,
	addressFlowEPCFailManually,
	addressFlowScotlandSelectEPC,
	addressFlowScotlandSelectNone,
	addressFlowManually,
	addressFlowNoResults,
}

func countryScenarios() []scenario {
	var out []scenario
	for _, c := range []string{q.CountryEngland, q.CountryScotland, q.CountryWales} {
		out = append(out, scenario{name: c, answers: q.Answers{"country": c}})
	}
	return out
}

func supplierScenarios() []scenario {
	var out []scenario
	for _, base := range countryScenarios() {
		for _, supplier := range append(slices.Clone(q.RealSuppliers), q.SupplierNotListed) {
			extra := map[string]any{"supplier": supplier}
			switch supplier {
			case q.SupplierBulb:
				extra["confirm_bulb_warning"] = q.Yes
			case q.SupplierShell:
				extra["confirm_shell_warning"] = q.Yes
			case q.SupplierUtilityWarehouse:
				extra["confirm_utility_warehouse_warning"] = q.Yes
			case q.SupplierNotListed:
				extra["alternative_supplier"] = "So Energy"
			}
			out = append(out, base.with(supplier, extra))
		}
	}
	return out
}

// propertyScenarios trims suppliers to keep the fan-out manageable; the
// supplier stage is covered on its own.
func propertyScenarios(flow string) []scenario {
	var out []scenario
	for _, base := range supplierScenarios() {
		if !slices.Contains([]string{q.SupplierBritishGas, q.SupplierBulb, q.SupplierNotListed}, base.answers.String(q.FieldSupplier)) {
			continue
		}
		switch flow {
		case propertyFlowParkHome:
			out = append(out, base.with(flow, map[string]any{
				"own_property": q.OwnPropertyOwner, "park_home": q.Yes, "park_home_main_residence": q.Yes,
			}))
		case propertyFlowMain:
			for _, own := range []string{q.OwnPropertyOwner, q.OwnPropertyTenant, q.OwnPropertyLandlord} {
				out = append(out, base.with(flow+" "+own, map[string]any{"own_property": own, "park_home": q.No}))
			}
		case propertyFlowSocial:
			out = append(out, base.with(flow, map[string]any{"own_property": q.OwnPropertySocialHousing}))
		}
	}
	return out
}

func addressFlowApplies(flow, country string) bool {
	switch flow {
	case addressFlowEPCHitSelect, addressFlowEPCHitManually:
		return country != q.CountryScotland
	case addressFlowScotlandSelectEPC, addressFlowScotlandSelectNone:
		return country == q.CountryScotland
	}
	return true
}

// addressScenarios covers every way through the address pages, including
// the council tax band and EPC confirmations that follow.
func addressScenarios(propertyFlow, addressFlow, duplicate string) []scenario {
	var out []scenario
	for _, base := range propertyScenarios(propertyFlow) {
		if !addressFlowApplies(addressFlow, base.answers.String(q.FieldCountry)) {
			continue
		}
		extra := map[string]any{"building_name_or_number": "10", "postcode": "SW1A 1AA"}
		selected := false
		switch addressFlow {
		case addressFlowEPCHitSelect:
			extra["address_choice"] = q.AddressChoiceWriteAddress
			extra["epc_select_choice"] = q.EPCSelectChoiceSelectEPC
			extra["epc_found"] = q.Yes
			selected = true
		case addressFlowEPCHitManually:
			extra["address_choice"] = q.AddressChoiceWriteAddress
			extra["epc_select_choice"] = q.EPCSelectChoiceEnterManually
			extra["epc_found"] = q.No
		case addressFlowEPCFailSelect:
			extra["address_choice"] = q.AddressChoiceEPCAPIFail
			extra["address_select_choice"] = q.AddressSelectChoiceSelectAddress
			extra["epc_found"] = q.No
			selected = true
		case addressFlowEPCFailManually:
			extra["address_choice"] = q.AddressChoiceEPCAPIFail
			extra["address_select_choice"] = q.AddressSelectChoiceEnterManually
			extra["epc_found"] = q.No
		case addressFlowScotlandSelectEPC:
			extra["address_choice"] = q.AddressChoiceWriteAddress
			extra["address_select_choice"] = q.AddressSelectChoiceSelectAddress
			extra["epc_found"] = q.Yes
			selected = true
		case addressFlowScotlandSelectNone:
			extra["address_choice"] = q.AddressChoiceWriteAddress
			extra["address_select_choice"] = q.AddressSelectChoiceSelectAddress
			extra["epc_found"] = q.No
			selected = true
		case addressFlowManually:
			extra["address_choice"] = q.AddressChoiceEnterManually
			extra["epc_found"] = q.No
		case addressFlowNoResults:
			extra["address_choice"] = q.AddressChoiceWriteAddress
			extra["no_results"] = q.Yes
			extra["epc_found"] = q.No
		}
		if selected {
			extra["uprn_is_duplicate"] = duplicate
		}
		if propertyFlow == propertyFlowMain {
			extra["council_tax_band"] = "B"
		}
		if extra["epc_found"] == q.Yes {
			extra["accept_suggested_epc"] = q.Yes
			extra["epc_rating"] = "D"
			extra["epc_rating_is_eligible"] = q.Yes
		} else {
			extra["confirm_no_epc"] = q.Yes
		}
		out = append(out, base.with(fmt.Sprintf("%s dup=%s", addressFlow, duplicate), extra))
	}
	return out
}

func completeScenarios() []scenario {
	var out []scenario
	for _, propertyFlow := range []string{propertyFlowParkHome, propertyFlowMain, propertyFlowSocial} {
		for _, addressFlow := range allAddressFlows {
			for _, dup := range []string{q.Yes, q.No} {
				for _, base := range addressScenarios(propertyFlow, addressFlow, dup) {
					for _, circ := range circumstances(propertyFlow) {
						withCirc := base.with(circ.name, circ.answers)
						out = append(out, propertyAnswers(propertyFlow, withCirc)...)
					}
				}
			}
		}
	}
	return out
}

func circumstances(propertyFlow string) []scenario {
	if propertyFlow == propertyFlowSocial {
		return []scenario{{name: "no circumstances", answers: q.Answers{}}}
	}
	return []scenario{
		{name: "benefits", answers: q.Answers{"benefits": q.Yes}},
		{name: "income", answers: q.Answers{"benefits": q.No, "household_income": q.HouseholdIncomeBelowThreshold}},
	}
}

func propertyAnswers(propertyFlow string, base scenario) []scenario {
	contact := map[string]any{
		"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com",
		"permission": true, "acknowledge": true,
	}
	if propertyFlow == propertyFlowParkHome {
		return []scenario{base.with("contact", contact)}
	}
	house := base.with("house", map[string]any{
		"property_type":      q.PropertyTypeHouse,
		"property_subtype":   q.PropertySubtypeDetached,
		"number_of_bedrooms": q.BedroomsTwo,
		"wall_type":          q.WallTypeCavity,
		"wall_insulation":    q.DontKnow,
	})
	return []scenario{
		house.with("loft yes", map[string]any{
			"loft": q.LoftYes, "loft_access": q.LoftAccessYes, "loft_insulation": q.LoftInsulationNone,
		}).with("contact", contact),
		house.with("loft no", map[string]any{"loft": q.LoftNo}).with("contact", contact),
	}
}
