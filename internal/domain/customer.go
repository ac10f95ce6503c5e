package domain

import "time"

// Gender as reported by the source registry.
type Gender string

const (
	GenderFemale      Gender = "female"
	GenderMale        Gender = "male"
	GenderUnspecified Gender = "unspecified"
)

// MaritalStatus as reported by the source registry.
type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "single"
	MaritalMarried  MaritalStatus = "married"
	MaritalDivorced MaritalStatus = "divorced"
	MaritalWidowed  MaritalStatus = "widowed"
)

// Customer is the canonical customer entity. Immutable once returned from a
// normalizer; a newer version replaces the whole value.
type Customer struct {
	ID            CustomerID    `json:"id"`
	NationalID    string        `json:"national_id"`
	FirstName     string        `json:"first_name"`
	LastName      string        `json:"last_name"`
	Email         string        `json:"email,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	DateOfBirth   time.Time     `json:"date_of_birth"`
	Gender        Gender        `json:"gender,omitempty"`
	MaritalStatus MaritalStatus `json:"marital_status,omitempty"`

	// Relationship sets, keyed back to this customer.
	PolicyKeys []PolicyKey `json:"policy_keys,omitempty"`
	FundIDs    []FundID    `json:"fund_ids,omitempty"`
}

// ValidNationalID reports whether id is a well-formed 9-digit national ID
// with a correct check digit (weighted mod-10: alternating weights 1 and 2,
// digits above 9 reduced by digit sum).
func ValidNationalID(id string) bool {
	if len(id) != 9 {
		return false
	}
	sum := 0
	for i, r := range id {
		if r < '0' || r > '9' {
			return false
		}
		d := int(r-'0') * (i%2 + 1)
		if d > 9 {
			d -= 9
		}
		sum += d
	}
	return sum%10 == 0
}
