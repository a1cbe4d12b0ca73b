// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kanade/internal/billing/wallet"
	"github.com/taibuivan/kanade/internal/platform/apperr"
	"github.com/taibuivan/kanade/internal/users/account"
)

// # Test Fakes

type fakeAccountRepo struct {
	accounts map[string]*account.Account
}

func newFakeAccountRepo(accounts ...*account.Account) *fakeAccountRepo {
	repo := &fakeAccountRepo{accounts: make(map[string]*account.Account)}
	for _, a := range accounts {
		repo.accounts[a.UserID] = a
	}
	return repo
}

func (repo *fakeAccountRepo) FindByID(_ context.Context, userID string) (*account.Account, error) {
	a, ok := repo.accounts[userID]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	return a, nil
}

func (repo *fakeAccountRepo) Save(_ context.Context, a *account.Account) error {
	repo.accounts[a.UserID] = a
	return nil
}

type fakeLedgerRepo struct {
	coinSum int64
	goldSum int64
}

func (repo *fakeLedgerRepo) ListByUser(_ context.Context, _ string, _, _ int) ([]*wallet.Transaction, int, error) {
	return nil, 0, nil
}

func (repo *fakeLedgerRepo) SumByUser(_ context.Context, _ string) (int64, int64, error) {
	return repo.coinSum, repo.goldSum, nil
}

func newService(accountRepo account.AccountRepository, ledgerRepo wallet.LedgerRepository) *account.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return account.NewService(nil, accountRepo, ledgerRepo, nil, logger)
}

// # Wallet Reconciliation

/*
TestService_ReconcileWallet verifies the balance-versus-ledger comparison:
matching sums read as balanced, any per-currency drift does not.
*/
func TestService_ReconcileWallet(t *testing.T) {
	tests := []struct {
		name     string
		coinSum  int64
		goldSum  int64
		balanced bool
	}{
		{"balanced", 120, 500, true},
		{"coin_drift", 100, 500, false},
		{"gold_drift", 120, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := &account.Account{
				UserID: "user-1",
				Wallet: wallet.Wallet{UserID: "user-1", CoinBalance: 120, GoldBalance: 500},
			}
			service := newService(
				newFakeAccountRepo(reader),
				&fakeLedgerRepo{coinSum: tt.coinSum, goldSum: tt.goldSum},
			)

			result, err := service.ReconcileWallet(context.Background(), "user-1")
			require.NoError(t, err)

			assert.Equal(t, tt.balanced, result.Balanced)
			assert.Equal(t, int64(120), result.CoinBalance)
			assert.Equal(t, tt.coinSum, result.CoinLedgerSum)
			assert.Equal(t, tt.goldSum, result.GoldLedgerSum)
		})
	}
}

/*
TestService_ReconcileWallet_UnknownUser verifies reconciliation surfaces a
missing account instead of reporting empty sums as balanced.
*/
func TestService_ReconcileWallet_UnknownUser(t *testing.T) {
	service := newService(newFakeAccountRepo(), &fakeLedgerRepo{})

	_, err := service.ReconcileWallet(context.Background(), "ghost")

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
