package coverage

import (
	"time"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

// Dimension names a portfolio slice for sub-score reporting.
type Dimension string

const (
	DimVehicle Dimension = "vehicle"
	DimHome    Dimension = "home"
	DimHealth  Dimension = "health"
	DimLife    Dimension = "life"
	DimPension Dimension = "pension"
)

// finding pairs a detected gap with the dimension it deducts from.
type finding struct {
	gap domain.CoverageGap
	dim Dimension
}

// rule inspects one coverage aspect of a profile. Rules are pure: same
// profile and instant always yield the same findings.
type rule struct {
	name     string
	evaluate func(p domain.CustomerProfile, now time.Time, cfg RuleConfig) []finding
}

// RuleConfig tunes rule thresholds.
type RuleConfig struct {
	// ExpiryWindow is how far ahead an active policy counts as expiring.
	ExpiryWindow time.Duration

	// UnderinsuranceRatio flags a policy type when total settled claim
	// amounts exceed this fraction of the active coverage limits.
	UnderinsuranceRatio float64
}

// DefaultRuleConfig returns the documented defaults.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		ExpiryWindow:        30 * 24 * time.Hour,
		UnderinsuranceRatio: 0.8,
	}
}

// defaultRules executes in this exact order; output ordering and therefore
// determinism depend on it.
var defaultRules = []rule{
	{name: "missing home coverage", evaluate: ruleMissingHome},
	{name: "expiring vehicle policy", evaluate: ruleExpiringVehicle},
	{name: "pension without rider", evaluate: rulePensionNoRider},
	{name: "claims indicate underinsurance", evaluate: ruleUnderinsurance},
	{name: "missing health coverage", evaluate: ruleMissingHealth},
	{name: "lapsed policies", evaluate: ruleLapsedPolicies},
}

func ruleMissingHome(p domain.CustomerProfile, now time.Time, _ RuleConfig) []finding {
	if len(p.ActivePolicies(domain.InsuranceHome, now)) > 0 {
		return nil
	}
	return []finding{{
		dim: DimHome,
		gap: domain.CoverageGap{
			Category:    domain.GapMissingHome,
			Severity:    domain.SeverityWarning,
			Recommended: recommendedActions[domain.GapMissingHome],
		},
	}}
}

func ruleExpiringVehicle(p domain.CustomerProfile, now time.Time, cfg RuleConfig) []finding {
	var keys []domain.PolicyKey
	for _, pol := range p.ActivePolicies(domain.InsuranceVehicle, now) {
		if pol.ExpiresWithin(now, cfg.ExpiryWindow) {
			keys = append(keys, pol.Key)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return []finding{{
		dim: DimVehicle,
		gap: domain.CoverageGap{
			Category:    domain.GapExpiringPolicy,
			Severity:    domain.SeverityCritical,
			Policies:    keys,
			Recommended: recommendedActions[domain.GapExpiringPolicy],
		},
	}}
}

func rulePensionNoRider(p domain.CustomerProfile, _ time.Time, _ RuleConfig) []finding {
	var funds []domain.FundID
	for _, acct := range p.Pensions {
		if !acct.HasRider() {
			funds = append(funds, acct.Fund)
		}
	}
	if len(funds) == 0 {
		return nil
	}
	return []finding{{
		dim: DimPension,
		gap: domain.CoverageGap{
			Category:    domain.GapPensionNoRider,
			Severity:    domain.SeverityWarning,
			Funds:       funds,
			Recommended: recommendedActions[domain.GapPensionNoRider],
		},
	}}
}

// ruleUnderinsurance compares settled claim totals against active coverage
// limits per insurance type. A type whose claims approach its limits
// suggests the customer is buying too little coverage.
func ruleUnderinsurance(p domain.CustomerProfile, now time.Time, cfg RuleConfig) []finding {
	var out []finding
	for _, t := range []struct {
		insType domain.InsuranceType
		dim     Dimension
	}{
		{domain.InsuranceVehicle, DimVehicle},
		{domain.InsuranceHome, DimHome},
		{domain.InsuranceHealth, DimHealth},
		{domain.InsuranceLife, DimLife},
	} {
		active := p.ActivePolicies(t.insType, now)
		if len(active) == 0 {
			continue
		}
		var limits float64
		var keys []domain.PolicyKey
		for _, pol := range active {
			for _, l := range pol.Limits {
				limits += l
			}
			keys = append(keys, pol.Key)
		}
		if limits <= 0 {
			continue
		}
		var settled float64
		for _, c := range p.ClaimsForType(t.insType) {
			settled += c.SettledAmount
		}
		if settled < limits*cfg.UnderinsuranceRatio {
			continue
		}
		out = append(out, finding{
			dim: t.dim,
			gap: domain.CoverageGap{
				Category:    domain.GapUnderInsured,
				Severity:    domain.SeverityInformational,
				Policies:    keys,
				Recommended: recommendedActions[domain.GapUnderInsured],
			},
		})
	}
	return out
}

func ruleMissingHealth(p domain.CustomerProfile, now time.Time, _ RuleConfig) []finding {
	if len(p.ActivePolicies(domain.InsuranceHealth, now)) > 0 {
		return nil
	}
	return []finding{{
		dim: DimHealth,
		gap: domain.CoverageGap{
			Category:    domain.GapMissingHealth,
			Severity:    domain.SeverityInformational,
			Recommended: recommendedActions[domain.GapMissingHealth],
		},
	}}
}

func ruleLapsedPolicies(p domain.CustomerProfile, _ time.Time, _ RuleConfig) []finding {
	byType := make(map[domain.InsuranceType][]domain.PolicyKey)
	for _, pol := range p.Policies {
		if pol.Status == domain.PolicyLapsed {
			byType[pol.Type] = append(byType[pol.Type], pol.Key)
		}
	}
	var out []finding
	for _, t := range []struct {
		insType domain.InsuranceType
		dim     Dimension
	}{
		{domain.InsuranceVehicle, DimVehicle},
		{domain.InsuranceHome, DimHome},
		{domain.InsuranceHealth, DimHealth},
		{domain.InsuranceLife, DimLife},
	} {
		keys := byType[t.insType]
		if len(keys) == 0 {
			continue
		}
		out = append(out, finding{
			dim: t.dim,
			gap: domain.CoverageGap{
				Category:    domain.GapLapsedPolicy,
				Severity:    domain.SeverityWarning,
				Policies:    keys,
				Recommended: recommendedActions[domain.GapLapsedPolicy],
			},
		})
	}
	return out
}
