// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package kana sells Gold through fixed packs and purchase orders.

A [GoldPack] is a catalog product: a Gold amount at a real-money price.
A [PurchaseOrder] is one reader's intent to buy a specific pack; it locks
in the pack price at creation, so later price changes never affect an
order already placed.

Orders move through a strict one-way lifecycle:

	Pending ──▶ Success   (payment confirmed, Gold credited)
	Pending ──▶ Cancelled (abandoned, no balance effect)

A terminal order never transitions again. The payment gateway integration
verifies provider signatures before calling [Service.CompleteOrder]; that
verification lives outside this package.
*/
package kana

import (
	"time"

	"github.com/taibuivan/kanade/internal/platform/apperr"
)

// # Domain Enums

// OrderStatus tracks the purchase-order lifecycle.
type OrderStatus string

const (
	// StatusPending marks a freshly created, unpaid order.
	StatusPending OrderStatus = "pending"

	// StatusSuccess marks a paid order whose Gold has been credited.
	StatusSuccess OrderStatus = "success"

	// StatusCancelled marks an abandoned order. No balance effect.
	StatusCancelled OrderStatus = "cancelled"
)

// IsValid reports whether s is a recognised [OrderStatus] value.
func (s OrderStatus) IsValid() bool {
	return s == StatusPending || s == StatusSuccess || s == StatusCancelled
}

// # Core Entities

// GoldPack is a purchasable Gold bundle.
type GoldPack struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	GoldAmount int64     `json:"gold_amount"`
	Price      int64     `json:"price"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PurchaseOrder records one reader's purchase of a gold pack.
//
// PriceSnapshot is the pack price at order creation; it is the amount the
// gateway charges regardless of later pack edits.
type PurchaseOrder struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	GoldPackID    string      `json:"gold_pack_id"`
	PriceSnapshot int64       `json:"price_snapshot"`
	Status        OrderStatus `json:"status"`
	CompletedAt   *time.Time  `json:"completed_at,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// # State Transitions

/*
MarkSuccess transitions the order to its paid terminal state.

Parameters:
  - now: time.Time (completion timestamp)

Returns:
  - error: CONFLICT if the order is not Pending
*/
func (order *PurchaseOrder) MarkSuccess(now time.Time) error {
	if order.Status != StatusPending {
		return apperr.Conflict("Order has already been finalized")
	}

	order.Status = StatusSuccess
	order.CompletedAt = &now
	return nil
}

/*
Cancel transitions the order to its abandoned terminal state.

Returns:
  - error: CONFLICT if the order is not Pending
*/
func (order *PurchaseOrder) Cancel() error {
	if order.Status != StatusPending {
		return apperr.Conflict("Order has already been finalized")
	}

	order.Status = StatusCancelled
	return nil
}
