package coverage

import "github.com/daviderez4/selai-admin-crm-sub006/internal/domain"

// recommendedActions is the fixed catalog of follow-ups, one per gap
// category. Rules must not invent free-text recommendations.
var recommendedActions = map[domain.GapCategory]string{
	domain.GapMissingHome:    "offer a home insurance policy",
	domain.GapMissingHealth:  "offer a private health insurance policy",
	domain.GapExpiringPolicy: "start renewal before the policy expires",
	domain.GapLapsedPolicy:   "contact the customer to reinstate the lapsed policy",
	domain.GapPensionNoRider: "offer a disability or survivors rider on the pension fund",
	domain.GapUnderInsured:   "review coverage limits against recent claim amounts",
}
