package snapshot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/connector"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

type fakeVehicle struct {
	id       domain.ConnectorID
	policies []domain.Policy
	err      error
}

func (f *fakeVehicle) Identify() domain.ConnectorMetadata {
	return domain.ConnectorMetadata{ID: f.id, Capabilities: []domain.Capability{domain.CapabilityVehicle}}
}
func (f *fakeVehicle) CheckHealth(context.Context) error                  { return nil }
func (f *fakeVehicle) Initialize(context.Context, connector.Config) error { return nil }
func (f *fakeVehicle) Shutdown(context.Context) error                     { return nil }

func (f *fakeVehicle) PolicyHistory(context.Context, domain.CustomerID) ([]domain.Policy, error) {
	return f.policies, f.err
}

func (f *fakeVehicle) ActiveCoverage(context.Context, domain.CustomerID) (domain.Policy, error) {
	if len(f.policies) == 0 {
		return domain.Policy{}, connector.ErrNoActiveCoverage
	}
	return f.policies[0], nil
}

type fakePension struct {
	id       domain.ConnectorID
	accounts []domain.PensionAccount
	err      error
}

func (f *fakePension) Identify() domain.ConnectorMetadata {
	return domain.ConnectorMetadata{ID: f.id, Capabilities: []domain.Capability{domain.CapabilityPension}}
}
func (f *fakePension) CheckHealth(context.Context) error                  { return nil }
func (f *fakePension) Initialize(context.Context, connector.Config) error { return nil }
func (f *fakePension) Shutdown(context.Context) error                     { return nil }

func (f *fakePension) Balances(context.Context, domain.CustomerID) ([]domain.PensionAccount, error) {
	return f.accounts, f.err
}

func (f *fakePension) Movements(context.Context, domain.CustomerID, domain.FundID) ([]domain.Movement, error) {
	return nil, f.err
}

type fakeSources struct {
	byCap map[domain.Capability][]connector.Connector
}

func (f *fakeSources) Eligible(cap domain.Capability) []connector.Connector {
	return f.byCap[cap]
}

type staticConsents struct {
	consents []domain.Consent
	err      error
}

func (s *staticConsents) List(context.Context, domain.CustomerID) ([]domain.Consent, error) {
	return s.consents, s.err
}

func TestBuildMergesAllSources(t *testing.T) {
	sources := &fakeSources{byCap: map[domain.Capability][]connector.Connector{
		domain.CapabilityVehicle: {
			&fakeVehicle{id: "gov-vehicle", policies: []domain.Policy{
				{Type: domain.InsuranceVehicle, Key: domain.PolicyKey{Carrier: "harel", Number: "P-1"}},
			}},
		},
		domain.CapabilityPension: {
			&fakePension{id: "clearing-house", accounts: []domain.PensionAccount{
				{Fund: "FND-310", CustomerID: "cust-1"},
			}},
		},
	}}
	consents := &staticConsents{consents: []domain.Consent{
		{Subject: "cust-1", Scope: domain.ConsentScopePension},
	}}
	b := NewBuilder(sources, WithConsents(consents))

	profile, err := b.Build(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.Equal(t, domain.CustomerID("cust-1"), profile.Customer.ID)
	require.Len(t, profile.Policies, 1)
	assert.Equal(t, domain.PolicyKey{Carrier: "harel", Number: "P-1"}, profile.Policies[0].Key)
	require.Len(t, profile.Pensions, 1)
	assert.Equal(t, domain.FundID("FND-310"), profile.Pensions[0].Fund)
	require.Len(t, profile.Consents, 1)
}

func TestBuildToleratesSingleSourceFailure(t *testing.T) {
	sources := &fakeSources{byCap: map[domain.Capability][]connector.Connector{
		domain.CapabilityVehicle: {
			&fakeVehicle{id: "gov-vehicle", err: errors.New("registry down")},
		},
		domain.CapabilityPension: {
			&fakePension{id: "clearing-house", accounts: []domain.PensionAccount{
				{Fund: "FND-310", CustomerID: "cust-1"},
			}},
		},
	}}
	b := NewBuilder(sources)

	profile, err := b.Build(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.Empty(t, profile.Policies)
	require.Len(t, profile.Pensions, 1)
}

func TestBuildFailsWhenEverySourceFails(t *testing.T) {
	sources := &fakeSources{byCap: map[domain.Capability][]connector.Connector{
		domain.CapabilityVehicle: {
			&fakeVehicle{id: "gov-vehicle", err: errors.New("registry down")},
		},
		domain.CapabilityPension: {
			&fakePension{id: "clearing-house", err: errors.New("clearing house down")},
		},
	}}
	b := NewBuilder(sources)

	_, err := b.Build(context.Background(), "cust-1")
	require.Error(t, err)
}

func TestBuildWithNoSourcesYieldsBareProfile(t *testing.T) {
	b := NewBuilder(&fakeSources{byCap: map[domain.Capability][]connector.Connector{}})

	profile, err := b.Build(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.Empty(t, profile.Policies)
	assert.Empty(t, profile.Pensions)
	assert.Equal(t, domain.CustomerID("cust-1"), profile.Customer.ID)
}
