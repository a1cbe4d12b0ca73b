// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package wallet defines the dual Kana currency model and the append-only
transaction ledger.

It manages the two balances every reader account carries:

  - Coin: earned through check-ins and missions, never purchasable.
  - Gold: purchased through gold packs.

Core Responsibility:

  - Ledgering: Every balance change appends exactly one signed [Transaction];
    a balance is, by definition, the sum of its ledger entries.
  - Integrity: Balances never go negative; a debit that would overdraw is
    rejected before any state changes.

The owning account aggregate embeds a [Wallet] by value; this package has no
knowledge of chapters, orders, or missions beyond the free-text reason and
the optional chapter reference carried on each entry.
*/
package wallet

import (
	"time"

	"github.com/taibuivan/kanade/internal/platform/apperr"
	"github.com/taibuivan/kanade/internal/platform/validate"
	"github.com/taibuivan/kanade/pkg/uuid"
)

// # Domain Enums

// Currency identifies one of the two Kana balances.
type Currency string

const (
	// CurrencyCoin is the earned, non-purchasable currency.
	CurrencyCoin Currency = "coin"

	// CurrencyGold is the purchased currency.
	CurrencyGold Currency = "gold"
)

// IsValid reports whether c is a recognised [Currency] value.
func (c Currency) IsValid() bool {
	return c == CurrencyCoin || c == CurrencyGold
}

// TransactionType records the business reason for a ledger entry.
type TransactionType string

const (
	// TypeCheckin rewards a daily check-in with Coin.
	TypeCheckin TransactionType = "checkin"

	// TypeMission rewards a completed read-count mission with Coin.
	TypeMission TransactionType = "mission"

	// TypeSpend debits a balance for a chapter unlock.
	TypeSpend TransactionType = "spend"

	// TypePurchase credits Gold from a completed gold-pack order.
	TypePurchase TransactionType = "purchase"

	// TypeRefund reverses a prior spend by support intervention.
	TypeRefund TransactionType = "refund"
)

// # Core Entities

// Transaction is a single immutable ledger entry.
//
// Amount is signed: credits are positive, debits negative. The ledger is
// append-only; entries are never updated or deleted.
type Transaction struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Currency  Currency        `json:"currency"`
	Type      TransactionType `json:"type"`
	Amount    int64           `json:"amount"`
	Reason    string          `json:"reason,omitempty"`
	ChapterID *string         `json:"chapter_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Wallet holds the two Kana balances plus the entries appended during the
// current unit of work.
//
// Persisted ledger history is not loaded into the aggregate; the store
// appends [Wallet.PendingEntries] and the balance mutation in one
// transaction, which is the atomicity boundary required for the balances
// to stay equal to the ledger sums.
type Wallet struct {
	UserID      string `json:"user_id"`
	CoinBalance int64  `json:"coin_balance"`
	GoldBalance int64  `json:"gold_balance"`

	// PendingEntries collects entries appended since the aggregate was
	// loaded. The store drains it on save.
	PendingEntries []Transaction `json:"-"`
}

// # Balance Operations

// Balance returns the current balance for the given currency.
func (wallet *Wallet) Balance(currency Currency) int64 {
	if currency == CurrencyGold {
		return wallet.GoldBalance
	}
	return wallet.CoinBalance
}

/*
Credit increases a balance and appends a positive ledger entry.

Parameters:
  - currency: Currency (target balance)
  - amount: int64 (must be positive)
  - txType: TransactionType (business reason)
  - reason: string (free-text audit note)
  - chapterID: *string (optional chapter reference)
  - now: time.Time

Returns:
  - *Transaction: The appended entry
  - error: VALIDATION_ERROR on a non-positive amount
*/
func (wallet *Wallet) Credit(currency Currency, amount int64, txType TransactionType, reason string, chapterID *string, now time.Time) (*Transaction, error) {
	if amount <= 0 {
		return nil, validate.RequiredError("amount", "Credit amount must be positive")
	}

	if currency == CurrencyGold {
		wallet.GoldBalance += amount
	} else {
		wallet.CoinBalance += amount
	}

	return wallet.appendEntry(currency, amount, txType, reason, chapterID, now), nil
}

/*
Debit decreases a balance and appends a negative ledger entry.

Description: The overdraw check happens before any mutation, so a failed
debit leaves the wallet untouched.

Returns:
  - *Transaction: The appended entry (negative amount)
  - error: VALIDATION_ERROR on a non-positive amount,
    INSUFFICIENT_BALANCE if the balance cannot cover the debit
*/
func (wallet *Wallet) Debit(currency Currency, amount int64, txType TransactionType, reason string, chapterID *string, now time.Time) (*Transaction, error) {
	if amount <= 0 {
		return nil, validate.RequiredError("amount", "Debit amount must be positive")
	}

	if wallet.Balance(currency) < amount {
		return nil, apperr.InsufficientBalance("Balance cannot cover the requested amount")
	}

	if currency == CurrencyGold {
		wallet.GoldBalance -= amount
	} else {
		wallet.CoinBalance -= amount
	}

	return wallet.appendEntry(currency, -amount, txType, reason, chapterID, now), nil
}

// CanCover reports whether a single currency alone covers the amount.
// Partial spends across both currencies are deliberately unsupported.
func (wallet *Wallet) CanCover(currency Currency, amount int64) bool {
	return wallet.Balance(currency) >= amount
}

// appendEntry records a signed ledger entry in the pending set.
func (wallet *Wallet) appendEntry(currency Currency, signedAmount int64, txType TransactionType, reason string, chapterID *string, now time.Time) *Transaction {
	entry := Transaction{
		ID:        uuid.New(),
		UserID:    wallet.UserID,
		Currency:  currency,
		Type:      txType,
		Amount:    signedAmount,
		Reason:    reason,
		ChapterID: chapterID,
		CreatedAt: now,
	}

	wallet.PendingEntries = append(wallet.PendingEntries, entry)
	return &entry
}
