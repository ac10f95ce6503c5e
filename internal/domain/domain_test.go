package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidNationalID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"valid with check digit", "123456782", true},
		{"valid all zeros", "000000000", true},
		{"wrong check digit", "123456789", false},
		{"too short", "12345678", false},
		{"too long", "1234567821", false},
		{"non digit", "12345678a", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidNationalID(tt.id))
		})
	}
}

func TestPolicyLifecycle(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	p := Policy{
		Key:       PolicyKey{Carrier: "harel", Number: "P-100"},
		Status:    PolicyActive,
		Effective: now.AddDate(-1, 0, 0),
		Expiry:    now.AddDate(0, 0, 20),
	}

	assert.True(t, p.IsActive(now))
	assert.True(t, p.ExpiresWithin(now, 30*24*time.Hour))
	assert.False(t, p.ExpiresWithin(now, 10*24*time.Hour))

	p.Status = PolicyLapsed
	assert.False(t, p.IsActive(now))
	assert.False(t, p.ExpiresWithin(now, 30*24*time.Hour))
}

func TestClaimTransitions(t *testing.T) {
	assert.True(t, ClaimFiled.CanTransition(ClaimUnderReview))
	assert.True(t, ClaimUnderReview.CanTransition(ClaimDenied))
	assert.True(t, ClaimApproved.CanTransition(ClaimPaid))
	assert.False(t, ClaimFiled.CanTransition(ClaimPaid))
	assert.False(t, ClaimClosed.CanTransition(ClaimFiled))
}

func TestConsentIsActive(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	granted := now.Add(-24 * time.Hour)

	t.Run("active grant", func(t *testing.T) {
		c := Consent{Subject: "c1", Scope: ConsentScopePension, GrantedAt: granted, ExpiresAt: now.Add(time.Hour)}
		assert.True(t, c.IsActive(now))
	})

	t.Run("expired grant", func(t *testing.T) {
		c := Consent{Subject: "c1", Scope: ConsentScopePension, GrantedAt: granted, ExpiresAt: now.Add(-time.Minute)}
		assert.False(t, c.IsActive(now))
	})

	t.Run("revoked grant", func(t *testing.T) {
		revoked := now.Add(-time.Minute)
		c := Consent{Subject: "c1", Scope: ConsentScopePension, GrantedAt: granted, RevokedAt: &revoked}
		assert.False(t, c.IsActive(now))
	})

	t.Run("zero expiry never expires", func(t *testing.T) {
		c := Consent{Subject: "c1", Scope: ConsentScopeQuoting, GrantedAt: granted}
		assert.True(t, c.IsActive(now))
	})

	t.Run("scope scan", func(t *testing.T) {
		consents := []Consent{
			{Subject: "c1", Scope: ConsentScopeCarrier, GrantedAt: granted, ExpiresAt: now.Add(time.Hour)},
		}
		assert.True(t, HasActiveConsent(consents, ConsentScopeCarrier, now))
		assert.False(t, HasActiveConsent(consents, ConsentScopePension, now))
	})
}

func TestCustomerProfileFilters(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	active := Policy{
		Key: PolicyKey{Carrier: "clal", Number: "V-1"}, Type: InsuranceVehicle,
		Status: PolicyActive, Effective: now.AddDate(-1, 0, 0), Expiry: now.AddDate(1, 0, 0),
	}
	lapsed := Policy{
		Key: PolicyKey{Carrier: "clal", Number: "H-1"}, Type: InsuranceHome,
		Status: PolicyLapsed, Effective: now.AddDate(-2, 0, 0), Expiry: now.AddDate(-1, 0, 0),
	}
	profile := CustomerProfile{
		Policies: []Policy{active, lapsed},
		Claims: []Claim{
			{ID: "cl1", Policy: active.Key, Status: ClaimPaid},
			{ID: "cl2", Policy: lapsed.Key, Status: ClaimClosed},
		},
	}

	assert.Len(t, profile.ActivePolicies("", now), 1)
	assert.Len(t, profile.ActivePolicies(InsuranceVehicle, now), 1)
	assert.Empty(t, profile.ActivePolicies(InsuranceHome, now))

	vehicleClaims := profile.ClaimsForType(InsuranceVehicle)
	assert.Len(t, vehicleClaims, 1)
	assert.Equal(t, "cl1", vehicleClaims[0].ID)
}
