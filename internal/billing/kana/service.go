// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kana

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/kanade/internal/billing/wallet"
	"github.com/taibuivan/kanade/internal/platform/apperr"
	"github.com/taibuivan/kanade/internal/users/account"
	"github.com/taibuivan/kanade/pkg/uuid"
)

// # Service Layer

// Service orchestrates gold-pack sales: order creation, completion after
// payment confirmation, and cancellation.
type Service struct {
	packRepo    GoldPackRepository
	orderRepo   OrderRepository
	accountRepo account.AccountRepository
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its required collaborators.
func NewService(packRepo GoldPackRepository, orderRepo OrderRepository, accountRepo account.AccountRepository, logger *slog.Logger) *Service {
	return &Service{
		packRepo:    packRepo,
		orderRepo:   orderRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// # Catalog Operations

/*
ListGoldPacks retrieves the packs currently offered for sale.

Parameters:
  - context: context.Context

Returns:
  - []GoldPack: Active packs ordered by price ascending
  - error: Storage or execution errors
*/
func (service *Service) ListGoldPacks(context context.Context) ([]GoldPack, error) {
	return service.packRepo.ListActive(context)
}

// # Order Operations

/*
CreatePurchaseOrder opens a Pending order for the given pack.

Description: The pack price is snapshotted onto the order, so pack edits
after creation never change what an open order charges.

Parameters:
  - context: context.Context
  - userID: string (Buyer)
  - packID: string (Target gold pack)

Returns:
  - *PurchaseOrder: The Pending order
  - error: apperr.NotFound for an unknown pack,
    POLICY_VIOLATION for an inactive pack
*/
func (service *Service) CreatePurchaseOrder(context context.Context, userID, packID string) (*PurchaseOrder, error) {
	pack, err := service.packRepo.FindByID(context, packID)
	if err != nil {
		return nil, err
	}
	if !pack.IsActive {
		return nil, apperr.PolicyViolation("Gold pack is no longer available")
	}

	order := &PurchaseOrder{
		ID:            uuid.New(),
		UserID:        userID,
		GoldPackID:    pack.ID,
		PriceSnapshot: pack.Price,
		Status:        StatusPending,
		CreatedAt:     time.Now(),
	}

	if err := service.orderRepo.Create(context, order); err != nil {
		return nil, err
	}

	service.logger.Info("purchase_order_created",
		slog.String("order_id", order.ID),
		slog.String("user_id", userID),
		slog.String("pack_id", pack.ID),
		slog.Int64("price_snapshot", order.PriceSnapshot),
	)

	return order, nil
}

/*
CompleteOrder finalizes a paid order: credits the buyer's Gold balance,
appends a Purchase ledger entry, and marks the order Success.

Description: The status transition is committed before the wallet is
touched. The store only flips Pending orders, so the losing side of a
duplicate webhook delivery fails with a conflict while nothing has been
credited yet.

Parameters:
  - context: context.Context
  - orderID: string

Returns:
  - *PurchaseOrder: The completed order
  - error: apperr.NotFound for an unknown order,
    CONFLICT for an order that is no longer Pending
*/
func (service *Service) CompleteOrder(context context.Context, orderID string) (*PurchaseOrder, error) {
	order, err := service.orderRepo.FindByID(context, orderID)
	if err != nil {
		return nil, err
	}

	pack, err := service.packRepo.FindByID(context, order.GoldPackID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := order.MarkSuccess(now); err != nil {
		return nil, err
	}

	// Claim the order before touching the wallet. The store's update only
	// flips Pending orders, so when two callbacks race on a stale read the
	// loser stops here with nothing credited.
	if err := service.orderRepo.Update(context, order); err != nil {
		return nil, err
	}

	buyer, err := service.accountRepo.FindByID(context, order.UserID)
	if err != nil {
		return nil, err
	}

	if _, err := buyer.Wallet.Credit(wallet.CurrencyGold, pack.GoldAmount, wallet.TypePurchase, "Gold pack purchase", nil, now); err != nil {
		return nil, err
	}

	if err := service.accountRepo.Save(context, buyer); err != nil {
		return nil, err
	}

	service.logger.Info("purchase_order_completed",
		slog.String("order_id", order.ID),
		slog.String("user_id", order.UserID),
		slog.Int64("gold_credited", pack.GoldAmount),
	)

	return order, nil
}

/*
CancelOrder abandons a Pending order. No balance effect.

Parameters:
  - context: context.Context
  - userID: string (Requester, must own the order)
  - orderID: string

Returns:
  - *PurchaseOrder: The cancelled order
  - error: apperr.NotFound for an unknown or foreign order,
    CONFLICT for an order that is no longer Pending
*/
func (service *Service) CancelOrder(context context.Context, userID, orderID string) (*PurchaseOrder, error) {
	order, err := service.orderRepo.FindByID(context, orderID)
	if err != nil {
		return nil, err
	}

	// Foreign orders are indistinguishable from missing ones.
	if order.UserID != userID {
		return nil, apperr.NotFound("Order")
	}

	if err := order.Cancel(); err != nil {
		return nil, err
	}

	if err := service.orderRepo.Update(context, order); err != nil {
		return nil, err
	}

	service.logger.Info("purchase_order_cancelled",
		slog.String("order_id", order.ID),
		slog.String("user_id", userID),
	)

	return order, nil
}

/*
ListOrders retrieves one page of a user's order history, newest first.

Parameters:
  - context: context.Context
  - userID: string
  - limit: int
  - offset: int

Returns:
  - []PurchaseOrder: One page of orders
  - int: Total order count
  - error: Storage or execution errors
*/
func (service *Service) ListOrders(context context.Context, userID string, limit, offset int) ([]PurchaseOrder, int, error) {
	return service.orderRepo.ListByUser(context, userID, limit, offset)
}
