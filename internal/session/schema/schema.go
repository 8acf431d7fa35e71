// Package schema validates and normalises page submissions before they are
// stored. Unknown keys are dropped; choice fields must hold one of the
// questionnaire options.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	q "helptoheat/internal/questionnaire"
	dErrors "helptoheat/pkg/domain-errors"
)

var (
	postcodePattern = regexp.MustCompile(`^[a-zA-Z]{1,2}\d[\da-zA-Z]?(\s*\d[a-zA-Z]{2})*$`)
	phonePattern    = regexp.MustCompile(`^[\d\s\+]*$`)
)

// optionalText fields may be submitted blank; a blank value is dropped.
var optionalText = map[q.Field]bool{
	q.FieldEmail:         true,
	q.FieldContactNumber: true,
	q.FieldAddressLine2:  true,
	q.FieldCounty:        true,
}

var errInvalidUPRN = errors.New("uprn must be an integer")

// UPRN accepts a JSON number or a numeric string.
type UPRN int64

func (u *UPRN) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return errInvalidUPRN
	}
	*u = UPRN(n)
	return nil
}

// Data lists every storable session field. Pointers distinguish "not sent"
// from empty values.
type Data struct {
	Country                        *string `json:"country,omitempty" validate:"omitempty,choice"`
	Supplier                       *string `json:"supplier,omitempty" validate:"omitempty,choice"`
	AlternativeSupplier            *string `json:"alternative_supplier,omitempty" validate:"omitempty,max=128"`
	UserSelectedSupplier           *string `json:"user_selected_supplier,omitempty" validate:"omitempty,max=128"`
	ConfirmBulbWarning             *string `json:"confirm_bulb_warning,omitempty" validate:"omitempty,choice"`
	ConfirmShellWarning            *string `json:"confirm_shell_warning,omitempty" validate:"omitempty,choice"`
	ConfirmUtilityWarehouseWarning *string `json:"confirm_utility_warehouse_warning,omitempty" validate:"omitempty,choice"`
	OwnProperty                    *string `json:"own_property,omitempty" validate:"omitempty,choice"`
	ParkHome                       *string `json:"park_home,omitempty" validate:"omitempty,choice"`
	ParkHomeMainResidence          *string `json:"park_home_main_residence,omitempty" validate:"omitempty,choice"`

	BuildingNameOrNumber *string `json:"building_name_or_number,omitempty" validate:"omitempty,max=128"`
	Postcode             *string `json:"postcode,omitempty" validate:"omitempty,max=128,uk_postcode"`
	AddressLine1         *string `json:"address_line_1,omitempty" validate:"omitempty,max=128"`
	AddressLine2         *string `json:"address_line_2,omitempty" validate:"omitempty,max=128"`
	TownOrCity           *string `json:"town_or_city,omitempty" validate:"omitempty,max=128"`
	County               *string `json:"county,omitempty" validate:"omitempty,max=128"`
	Address              *string `json:"address,omitempty" validate:"omitempty,max=512"`
	AddressAndDetails    any     `json:"address_and_lmk_details,omitempty"`
	UPRN                 *UPRN   `json:"uprn,omitempty"`
	RRN                  *string `json:"rrn,omitempty" validate:"omitempty,max=128"`
	LMK                  *string `json:"lmk,omitempty" validate:"omitempty,max=128"`

	AddressChoice           *string `json:"address_choice,omitempty" validate:"omitempty,choice"`
	AddressNoResults        *string `json:"no_results,omitempty" validate:"omitempty,choice"`
	EPCSelectChoice         *string `json:"epc_select_choice,omitempty" validate:"omitempty,choice"`
	AddressSelectChoice     *string `json:"address_select_choice,omitempty" validate:"omitempty,choice"`
	SubmitAnother           *string `json:"submit_another,omitempty" validate:"omitempty,max=128"`
	SubmittedToSameSupplier *string `json:"submitted_to_same_supplier,omitempty" validate:"omitempty,choice"`
	UPRNIsDuplicate         *string `json:"uprn_is_duplicate,omitempty" validate:"omitempty,choice"`
	EPCFound                *string `json:"epc_found,omitempty" validate:"omitempty,choice"`
	EPCRatingIsEligible     *string `json:"epc_rating_is_eligible,omitempty" validate:"omitempty,choice"`

	CouncilTaxBand     *string `json:"council_tax_band,omitempty" validate:"omitempty,choice"`
	AcceptSuggestedEPC *string `json:"accept_suggested_epc,omitempty" validate:"omitempty,choice"`
	EPCRating          *string `json:"epc_rating,omitempty" validate:"omitempty,choice"`
	EPCDate            *string `json:"epc_date,omitempty" validate:"omitempty,max=32"`
	ConfirmNoEPC       *string `json:"confirm_no_epc,omitempty" validate:"omitempty,choice"`
	Benefits           *string `json:"benefits,omitempty" validate:"omitempty,choice"`
	HouseholdIncome    *string `json:"household_income,omitempty" validate:"omitempty,choice"`
	PropertyType       *string `json:"property_type,omitempty" validate:"omitempty,choice"`
	PropertySubtype    *string `json:"property_subtype,omitempty" validate:"omitempty,choice"`
	NumberOfBedrooms   *string `json:"number_of_bedrooms,omitempty" validate:"omitempty,choice"`
	WallType           *string `json:"wall_type,omitempty" validate:"omitempty,choice"`
	WallInsulation     *string `json:"wall_insulation,omitempty" validate:"omitempty,choice"`
	Loft               *string `json:"loft,omitempty" validate:"omitempty,choice"`
	LoftAccess         *string `json:"loft_access,omitempty" validate:"omitempty,choice"`
	LoftInsulation     *string `json:"loft_insulation,omitempty" validate:"omitempty,choice"`

	VentilationAcknowledgement  *bool `json:"ventilation_acknowledgement,omitempty"`
	ContributionAcknowledgement *bool `json:"contribution_acknowledgement,omitempty"`

	FirstName     *string `json:"first_name,omitempty" validate:"omitempty,max=128"`
	LastName      *string `json:"last_name,omitempty" validate:"omitempty,max=128"`
	ContactNumber *string `json:"contact_number,omitempty" validate:"omitempty,max=128,phone"`
	Email         *string `json:"email,omitempty" validate:"omitempty,max=128,email"`
	Permission    *bool   `json:"permission,omitempty"`
	Acknowledge   *bool   `json:"acknowledge,omitempty"`

	Schemes           []string `json:"schemes,omitempty" validate:"omitempty,dive,oneof=GBIS ECO4"`
	ReferralCreatedAt *string  `json:"referral_created_at,omitempty"`
	PageName          *string  `json:"_page_name,omitempty"`
}

// Validator checks session data.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the questionnaire tags registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("choice", func(fl validator.FieldLevel) bool {
		return q.Allowed(q.Field(fl.FieldName()), fl.Field().String())
	})
	_ = v.RegisterValidation("uk_postcode", func(fl validator.FieldLevel) bool {
		return postcodePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Clean validates raw submission data and returns it with unknown keys
// removed. Validation failures are domain validation errors keyed by field.
func (v *Validator) Clean(raw map[string]any) (map[string]any, error) {
	trimmed := make(map[string]any, len(raw))
	for k, val := range raw {
		if s, ok := val.(string); ok && s == "" && optionalText[q.Field(k)] {
			continue
		}
		trimmed[k] = val
	}

	encoded, err := json.Marshal(trimmed)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "answers are not valid JSON")
	}

	var data Data
	if err := json.Unmarshal(encoded, &data); err != nil {
		return nil, decodeError(err)
	}
	if err := v.validate.Struct(&data); err != nil {
		return nil, formatValidationErrors(err)
	}

	cleaned, err := json.Marshal(&data)
	if err != nil {
		return nil, fmt.Errorf("encode cleaned answers: %w", err)
	}
	out := map[string]any{}
	dec := json.NewDecoder(bytes.NewReader(cleaned))
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode cleaned answers: %w", err)
	}
	return out, nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		return dErrors.Validation("invalid answers", map[string]string{
			typeErr.Field: "Must be a " + typeErr.Type.Kind().String(),
		})
	case errors.Is(err, errInvalidUPRN):
		return dErrors.Validation("invalid answers", map[string]string{string(q.FieldUPRN): errInvalidUPRN.Error()})
	default:
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "answers could not be decoded")
	}
}

func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "answer validation failed")
	}
	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		fields[fieldName(e)] = validationMessage(e)
	}
	return dErrors.Validation("invalid answers", fields)
}

// fieldName strips the struct prefix, keeping the json path.
func fieldName(e validator.FieldError) string {
	ns := e.Namespace()
	if idx := strings.Index(ns, "."); idx != -1 {
		return ns[idx+1:]
	}
	return e.Field()
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "choice", "oneof":
		return "Select a valid option"
	case "max":
		return "Must be at most " + e.Param() + " characters"
	case "uk_postcode":
		return "Please enter a valid UK postcode"
	case "phone":
		return "please enter a contact number"
	case "email":
		return "Enter a valid email address"
	default:
		return "Invalid value"
	}
}
