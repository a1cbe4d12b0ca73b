// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package wallet

import "context"

// # Ledger Data Access

// LedgerRepository defines the read-side contract for the transaction ledger.
//
// Appending entries is deliberately absent here: entries are persisted by the
// account store in the same database transaction as the balance mutation that
// produced them. Splitting the write across two repositories would break the
// atomicity boundary the ledger invariant depends on.
type LedgerRepository interface {

	/*
		ListByUser returns a user's ledger entries, newest first.

		Parameters:
		  - context: context.Context
		  - userID: string (UUID)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Transaction: Page of entries
		  - int: Total entry count for the user
		  - error: Storage failures
	*/
	ListByUser(context context.Context, userID string, limit, offset int) ([]*Transaction, int, error)

	/*
		SumByUser returns the per-currency signed sums of a user's ledger.

		Used by the admin wallet reconciliation endpoint to verify that
		stored balances equal the ledger sums.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - int64: Coin sum
		  - int64: Gold sum
		  - error: Storage failures
	*/
	SumByUser(context context.Context, userID string) (coinSum, goldSum int64, err error)
}
