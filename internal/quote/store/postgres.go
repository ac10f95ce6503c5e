package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

// PostgresHistory persists comparison history in PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE quote_history (
//	    id           BIGSERIAL PRIMARY KEY,
//	    fingerprint  TEXT NOT NULL,
//	    customer_id  TEXT NOT NULL,
//	    carrier      TEXT NOT NULL,
//	    criteria     TEXT NOT NULL,
//	    premium      DOUBLE PRECISION NOT NULL,
//	    score        DOUBLE PRECISION NOT NULL,
//	    tco          DOUBLE PRECISION NOT NULL,
//	    partial      BOOLEAN NOT NULL,
//	    compared_at  TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX quote_history_customer_idx ON quote_history (customer_id, compared_at DESC);
type PostgresHistory struct {
	db *sql.DB
}

// NewPostgresHistory constructs a PostgreSQL-backed history store.
func NewPostgresHistory(db *sql.DB) *PostgresHistory {
	return &PostgresHistory{db: db}
}

// Append inserts all entries in one batch statement.
func (p *PostgresHistory) Append(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	fingerprints := make([]string, len(entries))
	customers := make([]string, len(entries))
	carriers := make([]string, len(entries))
	criteria := make([]string, len(entries))
	premiums := make([]float64, len(entries))
	scores := make([]float64, len(entries))
	tcos := make([]float64, len(entries))
	partials := make([]bool, len(entries))
	comparedAts := make([]string, len(entries))
	for i, e := range entries {
		fingerprints[i] = e.Fingerprint
		customers[i] = e.Customer.String()
		carriers[i] = e.Carrier.String()
		criteria[i] = e.Criteria
		premiums[i] = e.Premium
		scores[i] = e.Score
		tcos[i] = e.TCO
		partials[i] = e.Partial
		comparedAts[i] = e.ComparedAt.UTC().Format("2006-01-02T15:04:05.999999Z07:00")
	}

	query := `
		INSERT INTO quote_history
			(fingerprint, customer_id, carrier, criteria, premium, score, tco, partial, compared_at)
		SELECT * FROM unnest(
			$1::text[], $2::text[], $3::text[], $4::text[],
			$5::float8[], $6::float8[], $7::float8[], $8::bool[], $9::timestamptz[]
		)
	`
	_, err := p.db.ExecContext(ctx, query,
		pq.Array(fingerprints), pq.Array(customers), pq.Array(carriers), pq.Array(criteria),
		pq.Array(premiums), pq.Array(scores), pq.Array(tcos), pq.Array(partials), pq.Array(comparedAts))
	if err != nil {
		return fmt.Errorf("append quote history: %w", err)
	}
	return nil
}

// Recent returns up to limit entries for a customer, newest first.
func (p *PostgresHistory) Recent(ctx context.Context, customer domain.CustomerID, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT fingerprint, customer_id, carrier, criteria, premium, score, tco, partial, compared_at
		FROM quote_history
		WHERE customer_id = $1
		ORDER BY compared_at DESC, id DESC
		LIMIT $2
	`
	rows, err := p.db.QueryContext(ctx, query, customer.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("query quote history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var cust, carrier string
		if err := rows.Scan(&e.Fingerprint, &cust, &carrier, &e.Criteria,
			&e.Premium, &e.Score, &e.TCO, &e.Partial, &e.ComparedAt); err != nil {
			return nil, fmt.Errorf("scan quote history row: %w", err)
		}
		e.Customer = domain.CustomerID(cust)
		e.Carrier = domain.CarrierID(carrier)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quote history: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}
