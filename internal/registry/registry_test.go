package registry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/connector"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/connector/mocks"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

// fakeConnector is a stateful test double; health and init behavior are
// scripted per test.
type fakeConnector struct {
	mu        sync.Mutex
	meta      domain.ConnectorMetadata
	initErr   error
	healthErr error
	initSlow  time.Duration
	inits     int
	shutdowns int
}

func newFake(id string, caps ...domain.Capability) *fakeConnector {
	return &fakeConnector{
		meta: domain.ConnectorMetadata{
			ID:           domain.ConnectorID(id),
			SourceName:   id,
			Capabilities: caps,
		},
	}
}

func (f *fakeConnector) Identify() domain.ConnectorMetadata { return f.meta }

func (f *fakeConnector) CheckHealth(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.healthErr
}

func (f *fakeConnector) Initialize(ctx context.Context, _ connector.Config) error {
	f.mu.Lock()
	f.inits++
	slow := f.initSlow
	err := f.initErr
	f.mu.Unlock()
	if slow > 0 {
		select {
		case <-time.After(slow):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeConnector) Shutdown(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shutdowns++
	return nil
}

func (f *fakeConnector) setHealthErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.healthErr = err
}

// recordingEvents captures published state changes.
type recordingEvents struct {
	mu     sync.Mutex
	events []StateChange
}

func (r *recordingEvents) Publish(_ context.Context, topic string, payload any) error {
	if topic != TopicConnectorStateChanged {
		return nil
	}
	change, ok := payload.(StateChange)
	if !ok {
		return errors.New("unexpected payload type")
	}
	r.mu.Lock()
	r.events = append(r.events, change)
	r.mu.Unlock()
	return nil
}

func (r *recordingEvents) transitions() []StateChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]StateChange{}, r.events...)
}

type RegistrySuite struct {
	suite.Suite
	events   *recordingEvents
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.events = &recordingEvents{}
	s.registry = New(Config{
		InitTimeout:        200 * time.Millisecond,
		HealthTimeout:      100 * time.Millisecond,
		DegradedThreshold:  3,
		UnhealthyThreshold: 5,
	}, WithEvents(s.events))
}

func (s *RegistrySuite) TestRegister() {
	s.Run("duplicate registration rejected", func() {
		s.Require().NoError(s.registry.Register(newFake("harel", domain.CapabilityCarrier), connector.Config{}))
		err := s.registry.Register(newFake("harel", domain.CapabilityCarrier), connector.Config{})
		s.ErrorIs(err, ErrAlreadyRegistered)
	})

	s.Run("empty metadata rejected", func() {
		err := s.registry.Register(newFake("", domain.CapabilityCarrier), connector.Config{})
		s.Error(err)
	})
}

func (s *RegistrySuite) TestCapabilityLookup() {
	vehicle := newFake("vehicle-registry", domain.CapabilityVehicle)
	carrier := newFake("harel", domain.CapabilityCarrier)
	both := newFake("phoenix", domain.CapabilityCarrier, domain.CapabilityAggregator)

	s.Require().NoError(s.registry.Register(vehicle, connector.Config{}))
	s.Require().NoError(s.registry.Register(carrier, connector.Config{}))
	s.Require().NoError(s.registry.Register(both, connector.Config{}))

	s.Len(s.registry.ByCapability(domain.CapabilityCarrier), 2)
	s.Len(s.registry.ByCapability(domain.CapabilityVehicle), 1)
	s.Len(s.registry.ByCapability(domain.CapabilityAggregator), 1)
	s.Empty(s.registry.ByCapability(domain.CapabilityPension))

	_, ok := s.registry.ByName("phoenix")
	s.True(ok)
	_, ok = s.registry.ByName("nobody")
	s.False(ok)
}

func (s *RegistrySuite) TestInitializeAllIsolatesFailures() {
	ctx := context.Background()
	good := newFake("harel", domain.CapabilityCarrier)
	bad := newFake("clal", domain.CapabilityCarrier)
	bad.initErr = errors.New("credentials rejected")
	slow := newFake("migdal", domain.CapabilityCarrier)
	slow.initSlow = time.Second // beyond InitTimeout

	s.Require().NoError(s.registry.Register(good, connector.Config{}))
	s.Require().NoError(s.registry.Register(bad, connector.Config{}))
	s.Require().NoError(s.registry.Register(slow, connector.Config{}))

	reports := s.registry.InitializeAll(ctx)
	s.Require().Len(reports, 3)

	byID := map[domain.ConnectorID]InitReport{}
	for _, rep := range reports {
		byID[rep.Connector] = rep
	}

	s.Equal(domain.StateUnhealthy, byID["clal"].State)
	s.Equal(domain.StateUnhealthy, byID["migdal"].State)
	s.Equal(domain.StateHealthy, byID["harel"].State)
	s.Error(byID["migdal"].Err)

	// reports sorted by connector ID for deterministic output
	s.Equal(domain.ConnectorID("clal"), reports[0].Connector)
	s.Equal(domain.ConnectorID("harel"), reports[1].Connector)
	s.Equal(domain.ConnectorID("migdal"), reports[2].Connector)

	// eligible lookup excludes the unhealthy ones
	s.Len(s.registry.Eligible(domain.CapabilityCarrier), 1)
}

func (s *RegistrySuite) TestStateMachine() {
	ctx := context.Background()
	conn := newFake("harel", domain.CapabilityCarrier)
	s.Require().NoError(s.registry.Register(conn, connector.Config{}))
	s.registry.InitializeAll(ctx)

	health, _ := s.registry.Health("harel")
	s.Equal(domain.StateHealthy, health.State)

	conn.setHealthErr(errors.New("503"))

	// two failures: still healthy, streak building
	s.registry.CheckAll(ctx)
	s.registry.CheckAll(ctx)
	health, _ = s.registry.Health("harel")
	s.Equal(domain.StateHealthy, health.State)
	s.Equal(2, health.ConsecutiveFailures)

	// third failure: degraded, still usable
	s.registry.CheckAll(ctx)
	health, _ = s.registry.Health("harel")
	s.Equal(domain.StateDegraded, health.State)
	s.Len(s.registry.Eligible(domain.CapabilityCarrier), 1)

	// fifth failure: unhealthy, dropped from eligibility
	s.registry.CheckAll(ctx)
	s.registry.CheckAll(ctx)
	health, _ = s.registry.Health("harel")
	s.Equal(domain.StateUnhealthy, health.State)
	s.Empty(s.registry.Eligible(domain.CapabilityCarrier))

	// recovery resets the streak and restores healthy
	conn.setHealthErr(nil)
	s.registry.CheckAll(ctx)
	health, _ = s.registry.Health("harel")
	s.Equal(domain.StateHealthy, health.State)
	s.Equal(0, health.ConsecutiveFailures)

	// observers saw every transition
	var seen []domain.ConnectorState
	for _, change := range s.events.transitions() {
		if change.Connector == "harel" {
			seen = append(seen, change.To)
		}
	}
	s.Contains(seen, domain.StateDegraded)
	s.Contains(seen, domain.StateUnhealthy)
}

func (s *RegistrySuite) TestUnregister() {
	ctx := context.Background()
	conn := newFake("harel", domain.CapabilityCarrier)
	s.Require().NoError(s.registry.Register(conn, connector.Config{}))

	s.Require().NoError(s.registry.Unregister(ctx, "harel"))
	s.Equal(1, conn.shutdowns)
	s.Empty(s.registry.ByCapability(domain.CapabilityCarrier))
	s.ErrorIs(s.registry.Unregister(ctx, "harel"), ErrNotRegistered)
}

func (s *RegistrySuite) TestSystemHealth() {
	ctx := context.Background()
	good := newFake("harel", domain.CapabilityCarrier)
	bad := newFake("clal", domain.CapabilityCarrier)
	bad.initErr = errors.New("down")

	s.Require().NoError(s.registry.Register(good, connector.Config{}))
	s.Require().NoError(s.registry.Register(bad, connector.Config{}))
	s.registry.InitializeAll(ctx)

	health := s.registry.SystemHealth()
	s.Equal("degraded", health.Status)
	s.Equal(domain.StateHealthy, health.Connectors["harel"])
	s.Equal(domain.StateUnhealthy, health.Connectors["clal"])
}

func TestRegisterUsesDeclaredCapabilities(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := New(Config{})

	conn := mocks.NewMockConnector(ctrl)
	conn.EXPECT().Identify().Return(domain.ConnectorMetadata{
		ID:           "mock-source",
		SourceName:   "mock",
		Capabilities: []domain.Capability{domain.CapabilityPension},
	})

	if err := reg.Register(conn, connector.Config{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if got := len(reg.ByCapability(domain.CapabilityPension)); got != 1 {
		t.Fatalf("expected 1 pension connector, got %d", got)
	}
}
