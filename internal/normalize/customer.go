package normalize

import (
	"strings"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

// Customer maps a carrier-native customer record onto the canonical entity.
// On failure the ValidationError enumerates every bad field.
func Customer(rec Record) (domain.Customer, []Warning, error) {
	r := newReader(rec)
	var warnings []Warning

	nationalID := strings.TrimSpace(r.str("national_id", true))
	if nationalID != "" && !domain.ValidNationalID(nationalID) {
		r.errs.add("national_id", CodeBadFormat, "check digit validation failed")
	}

	first := strings.TrimSpace(r.str("first_name", true))
	last := strings.TrimSpace(r.str("last_name", true))
	dob := r.date("date_of_birth", true)

	gender := domain.Gender(r.str("gender", false))
	switch gender {
	case "", domain.GenderFemale, domain.GenderMale, domain.GenderUnspecified:
	default:
		warnings = append(warnings, Warning{Field: "gender", Message: "unknown value, dropped"})
		gender = ""
	}

	marital := domain.MaritalStatus(r.str("marital_status", false))
	switch marital {
	case "", domain.MaritalSingle, domain.MaritalMarried, domain.MaritalDivorced, domain.MaritalWidowed:
	default:
		warnings = append(warnings, Warning{Field: "marital_status", Message: "unknown value, dropped"})
		marital = ""
	}

	email := strings.TrimSpace(r.str("email", false))
	if email != "" && !strings.Contains(email, "@") {
		warnings = append(warnings, Warning{Field: "email", Message: "not a plausible address, kept as-is"})
	}

	if err := r.errs.err(); err != nil {
		return domain.Customer{}, nil, err
	}

	return domain.Customer{
		ID:            domain.CustomerID(nationalID),
		NationalID:    nationalID,
		FirstName:     first,
		LastName:      last,
		Email:         email,
		Phone:         strings.TrimSpace(r.str("phone", false)),
		DateOfBirth:   dob,
		Gender:        gender,
		MaritalStatus: marital,
	}, warnings, nil
}
