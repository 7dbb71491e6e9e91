package utils

import (
	"regexp"
	"strings"

	"github.com/seekernothing/next-homes/models"
)

// Postcode is a 6-digit regional PIN code, first digit non-zero.
var postcodeRegex = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// ValidatePropertyInput checks a property payload against the listing schema
// and returns the message for the first violated constraint, or "" when the
// payload is valid. Fields are checked in schema order so the surfaced
// message is deterministic.
func ValidatePropertyInput(input models.PropertyInput) string {
	if strings.TrimSpace(input.Address1) == "" {
		return "Address line 1 must contain a value"
	}
	if len(strings.TrimSpace(input.City)) < 3 {
		return "City must contain at least 3 characters"
	}
	if !postcodeRegex.MatchString(input.Postcode) {
		return "Invalid postcode"
	}
	if input.Price <= 0 {
		return "Price must be greater than 0"
	}
	if len(strings.TrimSpace(input.Description)) < 40 {
		return "Description must contain at least 40 characters"
	}
	if input.Bedrooms < 0 {
		return "Bedrooms must be at least 0"
	}
	if input.Bathrooms < 0 {
		return "Bathrooms must be at least 0"
	}
	if !models.IsValidStatus(input.Status) {
		return "Invalid property status"
	}
	return ""
}

func IsValidEmail(email string) bool {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t")
}
