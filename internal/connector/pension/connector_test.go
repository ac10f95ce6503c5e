package pension

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/connector"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/normalize"
)

type staticConsent struct {
	allowed bool
	err     error
}

func (s staticConsent) Allowed(context.Context, domain.CustomerID, domain.ConsentScope) (bool, error) {
	return s.allowed, s.err
}

func newTestConnector(t *testing.T, consents connector.ConsentChecker, handler http.Handler) (*Connector, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	c := New("clearinghouse", consents)
	err := c.Initialize(context.Background(), connector.Config{
		BaseURL: srv.URL,
		Auth:    connector.AuthBasic,
		Secret:  "dXNlcjpwYXNz",
	})
	require.NoError(t, err)
	return c, &calls
}

func accountRecord() normalize.Record {
	return normalize.Record{
		"fund_id":     "FND-310",
		"customer_id": "123456782",
		"balances": map[string]any{
			"compensation": 91000.0,
			"severance":    30500.0,
		},
		"fee_from_balance": 0.005,
		"fee_from_deposit": 0.03,
		"movements": []any{
			map[string]any{"kind": "deposit", "sub_account": "compensation", "amount": 1800.0, "at": "2026-02-01T00:00:00Z"},
			map[string]any{"kind": "fee", "sub_account": "compensation", "amount": -12.5, "at": "2026-01-15T00:00:00Z"},
		},
	}
}

func TestBalances(t *testing.T) {
	c, _ := newTestConnector(t, staticConsent{allowed: true}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Basic dXNlcjpwYXNz", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"accounts": []normalize.Record{accountRecord()},
		})
	}))

	accounts, err := c.Balances(context.Background(), "123456782")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, domain.FundID("FND-310"), accounts[0].Fund)
	assert.InDelta(t, 121500.0, accounts[0].TotalBalance(), 0.001)
}

func TestBalancesWithoutConsent(t *testing.T) {
	c, calls := newTestConnector(t, staticConsent{allowed: false}, http.NotFoundHandler())

	_, err := c.Balances(context.Background(), "123456782")
	require.Error(t, err)
	assert.Equal(t, connector.ErrorAuthFailure, connector.CategoryOf(err))
	assert.False(t, connector.IsRetryable(err))
	assert.Zero(t, *calls, "denied calls must never reach the wire")
}

func TestConsentLookupFailure(t *testing.T) {
	c, calls := newTestConnector(t, staticConsent{err: errors.New("consent store down")}, http.NotFoundHandler())

	_, err := c.Balances(context.Background(), "123456782")
	require.Error(t, err)
	assert.Equal(t, connector.ErrorUnavailable, connector.CategoryOf(err))
	assert.True(t, connector.IsRetryable(err))
	assert.Zero(t, *calls)
}

func TestMovements(t *testing.T) {
	c, _ := newTestConnector(t, staticConsent{allowed: true}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v2/accounts/FND-310/movements")
		json.NewEncoder(w).Encode(map[string]any{"account": accountRecord()})
	}))

	movements, err := c.Movements(context.Background(), "123456782", "FND-310")
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, domain.MovementFee, movements[0].Kind, "movements arrive chronologically sorted")
	assert.Equal(t, domain.MovementDeposit, movements[1].Kind)
}

func TestNewWithoutConsentCheckerPanics(t *testing.T) {
	assert.Panics(t, func() { New("clearinghouse", nil) })
}
