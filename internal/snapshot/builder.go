// Package snapshot assembles customer-360 profiles from the live connector
// set. A profile is the merged view of everything the hub can fetch about
// one customer right now; the coverage analyzer and the snapshot cache both
// consume it.
package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/connector"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

// Connectors is the registry surface the builder depends on.
type Connectors interface {
	Eligible(cap domain.Capability) []connector.Connector
}

// Consents lists a subject's recorded consent decisions.
type Consents interface {
	List(ctx context.Context, subject domain.CustomerID) ([]domain.Consent, error)
}

// Builder fetches from every eligible source and merges the results.
// Individual source failures shrink the profile instead of failing it; the
// build errors only when every source refused.
type Builder struct {
	connectors     Connectors
	consents       Consents
	perCallTimeout time.Duration
	logger         *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithConsents includes consent records in built profiles.
func WithConsents(c Consents) Option {
	return func(b *Builder) { b.consents = c }
}

// WithPerCallTimeout bounds each source call independently.
func WithPerCallTimeout(d time.Duration) Option {
	return func(b *Builder) {
		if d > 0 {
			b.perCallTimeout = d
		}
	}
}

// NewBuilder builds profiles from the given connector set.
func NewBuilder(connectors Connectors, opts ...Option) *Builder {
	b := &Builder{
		connectors:     connectors,
		perCallTimeout: 8 * time.Second,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build fetches the customer's policies and pension accounts from every
// usable source. Sources are consulted sequentially; snapshot rebuilds run
// in background workflows where latency matters less than simplicity.
func (b *Builder) Build(ctx context.Context, customer domain.CustomerID) (domain.CustomerProfile, error) {
	profile := domain.CustomerProfile{Customer: domain.Customer{ID: customer}}

	var fetched, failed int
	for _, conn := range b.connectors.Eligible(domain.CapabilityVehicle) {
		src, ok := conn.(connector.VehicleSource)
		if !ok {
			continue
		}
		policies, err := b.policyHistory(ctx, src, customer)
		if err != nil {
			failed++
			b.logger.WarnContext(ctx, "snapshot source failed",
				"connector", conn.Identify().ID,
				"customer", customer,
				"error", err,
			)
			continue
		}
		fetched++
		profile.Policies = append(profile.Policies, policies...)
	}
	for _, conn := range b.connectors.Eligible(domain.CapabilityPension) {
		src, ok := conn.(connector.PensionSource)
		if !ok {
			continue
		}
		accounts, err := b.balances(ctx, src, customer)
		if err != nil {
			failed++
			b.logger.WarnContext(ctx, "snapshot source failed",
				"connector", conn.Identify().ID,
				"customer", customer,
				"error", err,
			)
			continue
		}
		fetched++
		profile.Pensions = append(profile.Pensions, accounts...)
	}

	if b.consents != nil {
		consents, err := b.consents.List(ctx, customer)
		if err != nil {
			b.logger.WarnContext(ctx, "snapshot consent lookup failed",
				"customer", customer,
				"error", err,
			)
		} else {
			profile.Consents = consents
		}
	}

	if failed > 0 && fetched == 0 {
		return domain.CustomerProfile{}, fmt.Errorf("snapshot for %s: all %d sources failed", customer, failed)
	}
	return profile, nil
}

func (b *Builder) policyHistory(ctx context.Context, src connector.VehicleSource, customer domain.CustomerID) ([]domain.Policy, error) {
	callCtx, cancel := context.WithTimeout(ctx, b.perCallTimeout)
	defer cancel()
	return src.PolicyHistory(callCtx, customer)
}

func (b *Builder) balances(ctx context.Context, src connector.PensionSource, customer domain.CustomerID) ([]domain.PensionAccount, error) {
	callCtx, cancel := context.WithTimeout(ctx, b.perCallTimeout)
	defer cancel()
	return src.Balances(callCtx, customer)
}
