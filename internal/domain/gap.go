package domain

// GapSeverity grades a detected coverage deficiency.
type GapSeverity string

const (
	SeverityInformational GapSeverity = "informational"
	SeverityWarning       GapSeverity = "warning"
	SeverityCritical      GapSeverity = "critical"
)

// GapCategory names the coverage dimension a gap was found in.
type GapCategory string

const (
	GapMissingHome        GapCategory = "missing_home_coverage"
	GapMissingHealth      GapCategory = "missing_health_coverage"
	GapExpiringPolicy     GapCategory = "expiring_policy"
	GapLapsedPolicy       GapCategory = "lapsed_policy"
	GapPensionNoRider     GapCategory = "pension_without_rider"
	GapUnderInsured       GapCategory = "claims_indicate_underinsurance"
)

// CoverageGap is produced by the coverage analyzer; never persisted by
// connectors.
type CoverageGap struct {
	Category    GapCategory `json:"category"`
	Severity    GapSeverity `json:"severity"`
	Policies    []PolicyKey `json:"policies,omitempty"`
	Funds       []FundID    `json:"funds,omitempty"`
	Recommended string      `json:"recommended_action"`
}
