package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

func entry(customer, carrier string, premium float64, at time.Time) Entry {
	return Entry{
		Fingerprint: "abcd1234",
		Customer:    domain.CustomerID(customer),
		Carrier:     domain.CarrierID(carrier),
		Criteria:    "composite",
		Premium:     premium,
		Score:       0.8,
		TCO:         premium * 12 * 5,
		ComparedAt:  at,
	}
}

func TestMemoryHistoryAppendAndRecent(t *testing.T) {
	ctx := context.Background()
	h := NewMemoryHistory()
	now := time.Now().UTC()

	require.NoError(t, h.Append(ctx, []Entry{
		entry("123456782", "harel", 410, now.Add(-2*time.Hour)),
		entry("123456782", "migdal", 395, now.Add(-time.Hour)),
		entry("123456782", "clal", 380, now),
	}))

	recent, err := h.Recent(ctx, "123456782", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.InDelta(t, 380.0, recent[0].Premium, 0.001, "newest entry first")
	assert.InDelta(t, 395.0, recent[1].Premium, 0.001)
}

func TestMemoryHistoryUnknownCustomer(t *testing.T) {
	h := NewMemoryHistory()
	_, err := h.Recent(context.Background(), "987654321", 10)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryHistoryZeroLimitReturnsAll(t *testing.T) {
	ctx := context.Background()
	h := NewMemoryHistory()
	now := time.Now().UTC()
	require.NoError(t, h.Append(ctx, []Entry{
		entry("123456782", "harel", 410, now),
		entry("123456782", "migdal", 395, now),
	}))

	recent, err := h.Recent(ctx, "123456782", 0)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}
