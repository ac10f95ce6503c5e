package orchestrator

import (
	"context"
	"encoding/json"
	"time"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/cache"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/eventbus"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/quote"
)

// SnapshotCacheKey is where a customer-360 snapshot lives in the cache.
func SnapshotCacheKey(customer domain.CustomerID) string {
	return "snapshot:" + customer.String()
}

// customerEvent is the shared payload shape of customer-scoped events.
type customerEvent struct {
	Customer domain.CustomerID `json:"customer"`
}

// NewConsentRevokedWorkflow evicts everything derived from a customer's
// gated data once their consent is gone: cached quote comparisons and the
// customer-360 snapshot. Triggered by consent.revoked.
func NewConsentRevokedWorkflow(c cache.Cache) Workflow {
	return Workflow{
		Name:    "consent-revoked-eviction",
		Trigger: eventbus.TopicConsentRevoked,
		Steps: []Step{
			{
				Name:    "evict quote cache",
				Timeout: 5 * time.Second,
				Run: func(ctx context.Context, evt eventbus.Envelope) error {
					var payload customerEvent
					if err := evt.Decode(&payload); err != nil {
						return err
					}
					c.Invalidate(ctx, quote.CustomerCachePrefix(payload.Customer.String()))
					return nil
				},
			},
			{
				Name:    "evict snapshot",
				Timeout: 5 * time.Second,
				Run: func(ctx context.Context, evt eventbus.Envelope) error {
					var payload customerEvent
					if err := evt.Decode(&payload); err != nil {
						return err
					}
					c.Invalidate(ctx, SnapshotCacheKey(payload.Customer))
					return nil
				},
			},
		},
	}
}

// Snapshots rebuilds customer-360 profiles from the live sources.
type Snapshots interface {
	Build(ctx context.Context, customer domain.CustomerID) (domain.CustomerProfile, error)
}

// NewCustomerDataSyncWorkflow reacts to policy.updated: drop the derived
// caches, rebuild the customer-360 snapshot from the live sources, then
// announce the sync so downstream consumers refetch.
func NewCustomerDataSyncWorkflow(snapshots Snapshots, c cache.Cache, bus Bus) Workflow {
	return Workflow{
		Name:    "customer-data-sync",
		Trigger: eventbus.TopicPolicyUpdated,
		Steps: []Step{
			{
				Name:    "invalidate stale state",
				Timeout: 5 * time.Second,
				Run: func(ctx context.Context, evt eventbus.Envelope) error {
					var payload customerEvent
					if err := evt.Decode(&payload); err != nil {
						return err
					}
					c.Invalidate(ctx, SnapshotCacheKey(payload.Customer))
					c.Invalidate(ctx, quote.CustomerCachePrefix(payload.Customer.String()))
					return nil
				},
			},
			{
				Name:    "rebuild snapshot",
				Timeout: 30 * time.Second,
				Run: func(ctx context.Context, evt eventbus.Envelope) error {
					var payload customerEvent
					if err := evt.Decode(&payload); err != nil {
						return err
					}
					profile, err := snapshots.Build(ctx, payload.Customer)
					if err != nil {
						return err
					}
					raw, err := json.Marshal(profile)
					if err != nil {
						return err
					}
					c.Set(ctx, SnapshotCacheKey(payload.Customer), raw, cache.ClassSnapshots)
					return nil
				},
			},
			{
				Name:    "announce sync",
				Timeout: 5 * time.Second,
				Run: func(ctx context.Context, evt eventbus.Envelope) error {
					var payload customerEvent
					if err := evt.Decode(&payload); err != nil {
						return err
					}
					return bus.Publish(ctx, eventbus.TopicCustomerDataSynced, payload)
				},
			},
		},
	}
}
