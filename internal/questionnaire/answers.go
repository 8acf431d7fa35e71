package questionnaire

import (
	"fmt"
	"maps"
	"strconv"
)

// Answers is the merged view of everything a user has submitted in a
// session. Later submissions overwrite earlier keys.
type Answers map[string]any

// Has reports whether the field is present and non-nil.
func (a Answers) Has(f Field) bool {
	v, ok := a[string(f)]
	return ok && v != nil
}

// String returns the field as a string. Missing or nil fields yield "".
// Numbers are formatted without exponent so a numeric uprn compares
// predictably.
func (a Answers) String(f Field) string {
	v, ok := a[string(f)]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// StringOr returns the field, or fallback when it is absent.
func (a Answers) StringOr(f Field, fallback string) string {
	if !a.Has(f) {
		return fallback
	}
	return a.String(f)
}

// Is reports whether the field equals value.
func (a Answers) Is(f Field, value string) bool {
	return a.Has(f) && a.String(f) == value
}

// Merge returns a copy of a with other's keys applied on top.
func (a Answers) Merge(other map[string]any) Answers {
	out := make(Answers, len(a)+len(other))
	maps.Copy(out, a)
	maps.Copy(out, other)
	return out
}

// Clone returns a shallow copy.
func (a Answers) Clone() Answers {
	return a.Merge(nil)
}

// IsSocialHousing reports whether the user is a social housing tenant.
func (a Answers) IsSocialHousing() bool {
	return a.Is(FieldOwnProperty, OwnPropertySocialHousing)
}

// IsNonSocialHousing reports whether own_property is one of the owner or
// private tenant answers.
func (a Answers) IsNonSocialHousing() bool {
	switch a.String(FieldOwnProperty) {
	case OwnPropertyOwner, OwnPropertyTenant, OwnPropertyLandlord:
		return true
	}
	return false
}
