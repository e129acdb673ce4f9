package utils

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// Field validators for item/variant payloads. Each takes a decoded-JSON
// value and returns "" when valid or a human-readable message. Checks run in
// a fixed order: presence, then type, then range or enum membership.
//
// Numeric fields arrive as float64 from the JSON decoder; anything else,
// including "", booleans, objects, arrays and NaN, is a type error. String
// fields treat nil and whitespace-only values as not provided.

const minImagePayloadLength = 20

func numberValue(v any) (float64, bool) {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func requiredString(label string, v any) (string, string) {
	if v == nil {
		return "", label + " not provided"
	}
	s, ok := v.(string)
	if !ok {
		return "", label + " must be a string"
	}
	if strings.TrimSpace(s) == "" {
		return "", label + " not provided"
	}
	return s, ""
}

func ValidatePrice(v any) string {
	if v == nil {
		return "price not provided"
	}
	f, ok := numberValue(v)
	if !ok {
		return "price must be a number"
	}
	if f <= 0 {
		return "price must be greater than 0"
	}
	return ""
}

// ValidatePromo allows null: a variant without a promo price is the normal
// case.
func ValidatePromo(v any) string {
	if v == nil {
		return ""
	}
	f, ok := numberValue(v)
	if !ok {
		return "promo must be a number"
	}
	if f <= 0 {
		return "promo must be greater than 0"
	}
	return ""
}

func ValidateSizeValue(v any) string {
	if v == nil {
		return "size value not provided"
	}
	f, ok := numberValue(v)
	if !ok {
		return "size value must be a number"
	}
	if f <= 0 {
		return "size value must be greater than 0"
	}
	return ""
}

func ValidateMinOrderValue(v any) string {
	if v == nil {
		return "min order value not provided"
	}
	f, ok := numberValue(v)
	if !ok {
		return "min order value must be a number"
	}
	if f <= 0 {
		return "min order value must be greater than 0"
	}
	return ""
}

func ValidateAvailable(v any) string {
	if v == nil {
		return "available not provided"
	}
	f, ok := numberValue(v)
	if !ok {
		return "available must be a number"
	}
	if f < 0 || f != math.Trunc(f) {
		return "available must be a non-negative integer"
	}
	return ""
}

func ValidateSizeUnit(v any) string {
	s, msg := requiredString("size unit", v)
	if msg != "" {
		return msg
	}
	switch s {
	case "mm", "cm", "m":
		return ""
	}
	return "size unit must be one of mm, cm, m"
}

func ValidateMinOrderUnit(v any) string {
	s, msg := requiredString("min order unit", v)
	if msg != "" {
		return msg
	}
	switch s {
	case "box", "cm", "pcs", "roll":
		return ""
	}
	return "min order unit must be one of box, cm, pcs, roll"
}

// ValidateSpecialGroup allows null: most items carry no promotional tag.
func ValidateSpecialGroup(v any) string {
	if v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return "special group must be a string"
	}
	switch s {
	case "new", "prm", "liq":
		return ""
	}
	return "special group must be one of new, prm, liq"
}

// ValidateName checks a localized item name field; field names the failing
// field in the message ("name_am", "name_ru").
func ValidateName(field string, v any) string {
	_, msg := requiredString(field, v)
	return msg
}

// ValidateColor checks a localized color field.
func ValidateColor(field string, v any) string {
	_, msg := requiredString(field, v)
	return msg
}

// ValidateDescription allows an absent description.
func ValidateDescription(field string, v any) string {
	if v == nil {
		return ""
	}
	if _, ok := v.(string); !ok {
		return field + " must be a string"
	}
	return ""
}

func ValidateCategoryID(v any) string {
	s, msg := requiredString("category id", v)
	if msg != "" {
		return msg
	}
	if _, err := uuid.Parse(s); err != nil {
		return "category id must be a valid id"
	}
	return ""
}

// ValidateSrc checks the photo source list. Each element must look like an
// embedded image payload (data:image/...;base64,...); decoding is the image
// codec's concern, only the structural minimum is checked here.
func ValidateSrc(v any) string {
	if v == nil {
		return "photo src not provided"
	}
	list, ok := v.([]any)
	if !ok {
		return "photo src must be an array"
	}
	if len(list) == 0 {
		return "photo src not provided"
	}
	for _, el := range list {
		s, ok := el.(string)
		if !ok || !strings.HasPrefix(s, "data:image/") || len(s) < minImagePayloadLength {
			return "photo src must be a valid image payload"
		}
	}
	return ""
}
