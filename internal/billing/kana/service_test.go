// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kana_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kanade/internal/billing/kana"
	"github.com/taibuivan/kanade/internal/billing/wallet"
	"github.com/taibuivan/kanade/internal/platform/apperr"
	"github.com/taibuivan/kanade/internal/users/account"
)

// # Test Fakes

type fakePackRepo struct {
	packs map[string]*kana.GoldPack
}

func newFakePackRepo(packs ...*kana.GoldPack) *fakePackRepo {
	repo := &fakePackRepo{packs: make(map[string]*kana.GoldPack)}
	for _, p := range packs {
		repo.packs[p.ID] = p
	}
	return repo
}

func (repo *fakePackRepo) ListActive(_ context.Context) ([]kana.GoldPack, error) {
	var out []kana.GoldPack
	for _, p := range repo.packs {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (repo *fakePackRepo) FindByID(_ context.Context, id string) (*kana.GoldPack, error) {
	p, ok := repo.packs[id]
	if !ok {
		return nil, apperr.NotFound("Gold pack")
	}
	return p, nil
}

type fakeOrderRepo struct {
	orders map[string]*kana.PurchaseOrder
}

func newFakeOrderRepo(orders ...*kana.PurchaseOrder) *fakeOrderRepo {
	repo := &fakeOrderRepo{orders: make(map[string]*kana.PurchaseOrder)}
	for _, o := range orders {
		repo.orders[o.ID] = o
	}
	return repo
}

func (repo *fakeOrderRepo) FindByID(_ context.Context, id string) (*kana.PurchaseOrder, error) {
	o, ok := repo.orders[id]
	if !ok {
		return nil, apperr.NotFound("Order")
	}
	copied := *o
	return &copied, nil
}

func (repo *fakeOrderRepo) ListByUser(_ context.Context, userID string, _, _ int) ([]kana.PurchaseOrder, int, error) {
	var out []kana.PurchaseOrder
	for _, o := range repo.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, len(out), nil
}

func (repo *fakeOrderRepo) Create(_ context.Context, o *kana.PurchaseOrder) error {
	copied := *o
	repo.orders[o.ID] = &copied
	return nil
}

// Update mirrors the store's compare-and-set: only Pending orders flip.
func (repo *fakeOrderRepo) Update(_ context.Context, o *kana.PurchaseOrder) error {
	stored, ok := repo.orders[o.ID]
	if !ok || stored.Status != kana.StatusPending {
		return apperr.Conflict("Order has already been finalized")
	}
	copied := *o
	repo.orders[o.ID] = &copied
	return nil
}

// staleOrderRepo serves reads as they looked before a competitor finalized
// the order, while writes still hit the shared backing repo.
type staleOrderRepo struct {
	*fakeOrderRepo
}

func (repo *staleOrderRepo) FindByID(ctx context.Context, id string) (*kana.PurchaseOrder, error) {
	order, err := repo.fakeOrderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Status = kana.StatusPending
	order.CompletedAt = nil
	return order, nil
}

type fakeAccountRepo struct {
	accounts map[string]*account.Account
	saves    int
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
	repo.saves++
	return nil
}

func newService(packRepo kana.GoldPackRepository, orderRepo kana.OrderRepository, accountRepo account.AccountRepository) *kana.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return kana.NewService(packRepo, orderRepo, accountRepo, logger)
}

func activePack() *kana.GoldPack {
	return &kana.GoldPack{ID: "pack-1", Name: "Handful of Gold", GoldAmount: 500, Price: 480, IsActive: true}
}

func pendingOrder(userID string) *kana.PurchaseOrder {
	return &kana.PurchaseOrder{
		ID:            "order-1",
		UserID:        userID,
		GoldPackID:    "pack-1",
		PriceSnapshot: 480,
		Status:        kana.StatusPending,
		CreatedAt:     time.Now(),
	}
}

// # Order Creation

/*
TestService_CreatePurchaseOrder verifies the Pending order carries a price
snapshot taken from the pack at creation time.
*/
func TestService_CreatePurchaseOrder(t *testing.T) {
	pack := activePack()
	packRepo := newFakePackRepo(pack)
	orderRepo := newFakeOrderRepo()
	service := newService(packRepo, orderRepo, newFakeAccountRepo())

	order, err := service.CreatePurchaseOrder(context.Background(), "user-1", pack.ID)
	require.NoError(t, err)

	assert.Equal(t, kana.StatusPending, order.Status)
	assert.Equal(t, int64(480), order.PriceSnapshot)
	assert.Nil(t, order.CompletedAt)

	// A later price change must not affect the open order.
	pack.Price = 999
	stored, err := orderRepo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(480), stored.PriceSnapshot)
}

/*
TestService_CreatePurchaseOrder_InactivePack verifies a retired pack cannot
be ordered.
*/
func TestService_CreatePurchaseOrder_InactivePack(t *testing.T) {
	pack := activePack()
	pack.IsActive = false
	service := newService(newFakePackRepo(pack), newFakeOrderRepo(), newFakeAccountRepo())

	_, err := service.CreatePurchaseOrder(context.Background(), "user-1", pack.ID)

	require.Error(t, err)
	assert.Equal(t, "POLICY_VIOLATION", apperr.As(err).Code)

	_, err = service.CreatePurchaseOrder(context.Background(), "user-1", "missing")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Order Completion

/*
TestService_CompleteOrder verifies a completed order credits Gold, appends
one Purchase ledger entry, and records the completion timestamp.
*/
func TestService_CompleteOrder(t *testing.T) {
	buyer := &account.Account{
		UserID: "user-1",
		Wallet: wallet.Wallet{UserID: "user-1", GoldBalance: 100},
	}
	accountRepo := newFakeAccountRepo(buyer)
	orderRepo := newFakeOrderRepo(pendingOrder("user-1"))
	service := newService(newFakePackRepo(activePack()), orderRepo, accountRepo)

	order, err := service.CompleteOrder(context.Background(), "order-1")
	require.NoError(t, err)

	assert.Equal(t, kana.StatusSuccess, order.Status)
	require.NotNil(t, order.CompletedAt)

	assert.Equal(t, int64(600), buyer.Wallet.GoldBalance)
	require.Len(t, buyer.Wallet.PendingEntries, 1)
	entry := buyer.Wallet.PendingEntries[0]
	assert.Equal(t, wallet.CurrencyGold, entry.Currency)
	assert.Equal(t, wallet.TypePurchase, entry.Type)
	assert.Equal(t, int64(500), entry.Amount)
	assert.Equal(t, 1, accountRepo.saves)
}

/*
TestService_CompleteOrder_NotPending verifies a finalized order can never be
completed again, so a duplicate gateway callback cannot credit twice.
*/
func TestService_CompleteOrder_NotPending(t *testing.T) {
	tests := []struct {
		name   string
		status kana.OrderStatus
	}{
		{"already_success", kana.StatusSuccess},
		{"already_cancelled", kana.StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buyer := &account.Account{
				UserID: "user-1",
				Wallet: wallet.Wallet{UserID: "user-1"},
			}
			accountRepo := newFakeAccountRepo(buyer)
			order := pendingOrder("user-1")
			order.Status = tt.status
			service := newService(newFakePackRepo(activePack()), newFakeOrderRepo(order), accountRepo)

			_, err := service.CompleteOrder(context.Background(), order.ID)

			require.Error(t, err)
			assert.Equal(t, "CONFLICT", apperr.As(err).Code)
			assert.Zero(t, buyer.Wallet.GoldBalance)
			assert.Empty(t, buyer.Wallet.PendingEntries)
			assert.Zero(t, accountRepo.saves)
		})
	}
}

/*
TestService_CompleteOrder_RacingCallbacks verifies that when two gateway
callbacks race on the same order, the one holding a stale Pending read loses
the compare-and-set on the order status and the buyer is credited exactly
once.
*/
func TestService_CompleteOrder_RacingCallbacks(t *testing.T) {
	buyer := &account.Account{
		UserID: "user-1",
		Wallet: wallet.Wallet{UserID: "user-1"},
	}
	accountRepo := newFakeAccountRepo(buyer)
	orderRepo := newFakeOrderRepo(pendingOrder("user-1"))
	packRepo := newFakePackRepo(activePack())

	winner := newService(packRepo, orderRepo, accountRepo)
	_, err := winner.CompleteOrder(context.Background(), "order-1")
	require.NoError(t, err)
	require.Equal(t, int64(500), buyer.Wallet.GoldBalance)

	// The loser read the order before the winner committed.
	loser := newService(packRepo, &staleOrderRepo{orderRepo}, accountRepo)
	_, err = loser.CompleteOrder(context.Background(), "order-1")

	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	assert.Equal(t, int64(500), buyer.Wallet.GoldBalance, "gold must be credited once per order")
	assert.Equal(t, 1, accountRepo.saves)
}

// # Order Cancellation

/*
TestService_CancelOrder verifies cancellation semantics: Pending orders
cancel with no balance effect, finalized orders conflict, and another
user's order reads as missing.
*/
func TestService_CancelOrder(t *testing.T) {
	t.Run("pending", func(t *testing.T) {
		orderRepo := newFakeOrderRepo(pendingOrder("user-1"))
		service := newService(newFakePackRepo(activePack()), orderRepo, newFakeAccountRepo())

		order, err := service.CancelOrder(context.Background(), "user-1", "order-1")
		require.NoError(t, err)
		assert.Equal(t, kana.StatusCancelled, order.Status)
		assert.Nil(t, order.CompletedAt)
	})

	t.Run("already_success", func(t *testing.T) {
		order := pendingOrder("user-1")
		order.Status = kana.StatusSuccess
		service := newService(newFakePackRepo(activePack()), newFakeOrderRepo(order), newFakeAccountRepo())

		_, err := service.CancelOrder(context.Background(), "user-1", order.ID)
		require.Error(t, err)
		assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	})

	t.Run("foreign_order", func(t *testing.T) {
		service := newService(newFakePackRepo(activePack()), newFakeOrderRepo(pendingOrder("user-1")), newFakeAccountRepo())

		_, err := service.CancelOrder(context.Background(), "user-2", "order-1")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}
