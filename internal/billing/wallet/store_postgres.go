// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package wallet

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/kanade/internal/platform/database/schema"
)

// # PostgreSQL Repository

// ledgerRepository implements the [LedgerRepository] interface using pgx.
type ledgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository constructs a PostgreSQL backed ledger store.
func NewLedgerRepository(pool *pgxpool.Pool) LedgerRepository {
	return &ledgerRepository{pool: pool}
}

/*
ListByUser retrieves a page of ledger entries for a user, newest first.

Description: Uses a window function to compute the total count in the same
round-trip as the page itself.
*/
func (repository *ledgerRepository) ListByUser(context context.Context, userID string, limit, offset int) ([]*Transaction, int, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s,
			COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3
	`,
		schema.BillingTransaction.ID,
		schema.BillingTransaction.UserID,
		schema.BillingTransaction.Currency,
		schema.BillingTransaction.Type,
		schema.BillingTransaction.Amount,
		schema.BillingTransaction.Reason,
		schema.BillingTransaction.ChapterID,
		schema.BillingTransaction.CreatedAt,
		schema.BillingTransaction.Table,
		schema.BillingTransaction.UserID,
		schema.BillingTransaction.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*Transaction
	var totalCount int

	for rows.Next() {
		var entry Transaction
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Currency,
			&entry.Type,
			&entry.Amount,
			&entry.Reason,
			&entry.ChapterID,
			&entry.CreatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	return entries, totalCount, nil
}

/*
SumByUser computes the per-currency signed sums for reconciliation.
*/
func (repository *ledgerRepository) SumByUser(context context.Context, userID string) (int64, int64, error) {

	query := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(%s) FILTER (WHERE %s = $2), 0) AS coin_sum,
			COALESCE(SUM(%s) FILTER (WHERE %s = $3), 0) AS gold_sum
		FROM %s
		WHERE %s = $1
	`,
		schema.BillingTransaction.Amount, schema.BillingTransaction.Currency,
		schema.BillingTransaction.Amount, schema.BillingTransaction.Currency,
		schema.BillingTransaction.Table,
		schema.BillingTransaction.UserID,
	)

	var coinSum, goldSum int64
	err := repository.pool.QueryRow(context, query, userID, CurrencyCoin, CurrencyGold).Scan(&coinSum, &goldSum)
	if err != nil {
		return 0, 0, fmt.Errorf("postgres: failed to sum ledger: %w", err)
	}

	return coinSum, goldSum, nil
}
