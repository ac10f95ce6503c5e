//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/daviderez4/selai-admin-crm-sub006/pkg/testutil/containers"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS quote_history (
    id           BIGSERIAL PRIMARY KEY,
    fingerprint  TEXT NOT NULL,
    customer_id  TEXT NOT NULL,
    carrier      TEXT NOT NULL,
    criteria     TEXT NOT NULL,
    premium      DOUBLE PRECISION NOT NULL,
    score        DOUBLE PRECISION NOT NULL,
    tco          DOUBLE PRECISION NOT NULL,
    partial      BOOLEAN NOT NULL,
    compared_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS quote_history_customer_idx
    ON quote_history (customer_id, compared_at DESC);
`

type PostgresHistorySuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *PostgresHistory
}

func TestPostgresHistorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresHistorySuite))
}

func (s *PostgresHistorySuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.pg.Exec(s.T(), historySchema)
	s.store = NewPostgresHistory(s.pg.DB)
}

func (s *PostgresHistorySuite) SetupTest() {
	s.pg.Exec(s.T(), "TRUNCATE quote_history")
}

func (s *PostgresHistorySuite) TestAppendAndRecent() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	err := s.store.Append(ctx, []Entry{
		entry("123456782", "harel", 410, now.Add(-2*time.Hour)),
		entry("123456782", "migdal", 395, now.Add(-time.Hour)),
		entry("123456782", "clal", 380, now),
	})
	s.Require().NoError(err)

	recent, err := s.store.Recent(ctx, "123456782", 2)
	s.Require().NoError(err)
	s.Require().Len(recent, 2)
	s.InDelta(380.0, recent[0].Premium, 0.001)
	s.InDelta(395.0, recent[1].Premium, 0.001)
	s.Equal("abcd1234", recent[0].Fingerprint)
	s.WithinDuration(now, recent[0].ComparedAt, time.Millisecond)
}

func (s *PostgresHistorySuite) TestRecentUnknownCustomer() {
	_, err := s.store.Recent(context.Background(), "987654321", 10)
	s.Require().ErrorIs(err, ErrNotFound)
}

func (s *PostgresHistorySuite) TestAppendEmptyBatch() {
	s.Require().NoError(s.store.Append(context.Background(), nil))
}
