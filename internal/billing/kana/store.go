// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kana

import "context"

// # Repository Contracts

// GoldPackRepository defines read access to the gold-pack catalog.
type GoldPackRepository interface {

	/*
		ListActive retrieves the packs currently offered for sale.

		Parameters:
		  - context: context.Context

		Returns:
		  - []GoldPack: Active packs ordered by price ascending
		  - error: Storage or execution errors
	*/
	ListActive(context context.Context) ([]GoldPack, error)

	/*
		FindByID retrieves a single pack regardless of its active flag.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *GoldPack: The pack definition
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*GoldPack, error)
}

// OrderRepository defines the persistence contract for purchase orders.
type OrderRepository interface {

	/*
		FindByID retrieves a purchase order by its ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *PurchaseOrder: The order record
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*PurchaseOrder, error)

	/*
		ListByUser retrieves a user's orders, newest first.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - limit: int
		  - offset: int

		Returns:
		  - []PurchaseOrder: One page of orders
		  - int: Total order count for the user
		  - error: Storage or execution errors
	*/
	ListByUser(context context.Context, userID string, limit, offset int) ([]PurchaseOrder, int, error)

	/*
		Create persists a freshly created Pending order.

		Parameters:
		  - context: context.Context
		  - order: *PurchaseOrder

		Returns:
		  - error: Constraint or execution failures
	*/
	Create(context context.Context, order *PurchaseOrder) error

	/*
		Update persists an order's status transition.

		Parameters:
		  - context: context.Context
		  - order: *PurchaseOrder

		Returns:
		  - error: Execution failures
	*/
	Update(context context.Context, order *PurchaseOrder) error
}
