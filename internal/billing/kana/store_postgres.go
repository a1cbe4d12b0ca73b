// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kana

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/kanade/internal/platform/apperr"
	"github.com/taibuivan/kanade/internal/platform/database/schema"
)

// # Schema Table Mapping
//
//   - billing.goldpack      → [GoldPack]
//   - billing.purchaseorder → [PurchaseOrder]

// goldPackRepository implements the [GoldPackRepository] interface using pgx.
type goldPackRepository struct {
	pool *pgxpool.Pool
}

// NewGoldPackRepository constructs a PostgreSQL backed gold-pack store.
func NewGoldPackRepository(pool *pgxpool.Pool) GoldPackRepository {
	return &goldPackRepository{pool: pool}
}

/*
ListActive retrieves the packs currently offered for sale, cheapest first.
*/
func (repository *goldPackRepository) ListActive(context context.Context) ([]GoldPack, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = TRUE
		ORDER BY %s ASC
	`,
		schema.BillingGoldPack.ID,
		schema.BillingGoldPack.Name,
		schema.BillingGoldPack.GoldAmount,
		schema.BillingGoldPack.Price,
		schema.BillingGoldPack.IsActive,
		schema.BillingGoldPack.CreatedAt,
		schema.BillingGoldPack.UpdatedAt,
		schema.BillingGoldPack.Table,
		schema.BillingGoldPack.IsActive,
		schema.BillingGoldPack.Price,
	)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list gold packs: %w", err)
	}
	defer rows.Close()

	var packs []GoldPack
	for rows.Next() {
		var pack GoldPack
		err := rows.Scan(
			&pack.ID,
			&pack.Name,
			&pack.GoldAmount,
			&pack.Price,
			&pack.IsActive,
			&pack.CreatedAt,
			&pack.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan gold pack: %w", err)
		}
		packs = append(packs, pack)
	}

	return packs, nil
}

/*
FindByID retrieves a single pack regardless of its active flag.
*/
func (repository *goldPackRepository) FindByID(context context.Context, id string) (*GoldPack, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.BillingGoldPack.ID,
		schema.BillingGoldPack.Name,
		schema.BillingGoldPack.GoldAmount,
		schema.BillingGoldPack.Price,
		schema.BillingGoldPack.IsActive,
		schema.BillingGoldPack.CreatedAt,
		schema.BillingGoldPack.UpdatedAt,
		schema.BillingGoldPack.Table,
		schema.BillingGoldPack.ID,
	)

	var pack GoldPack
	err := repository.pool.QueryRow(context, query, id).Scan(
		&pack.ID,
		&pack.Name,
		&pack.GoldAmount,
		&pack.Price,
		&pack.IsActive,
		&pack.CreatedAt,
		&pack.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Gold pack")
		}
		return nil, fmt.Errorf("postgres: failed to find gold pack: %w", err)
	}

	return &pack, nil
}

// orderRepository implements the [OrderRepository] interface using pgx.
type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository constructs a PostgreSQL backed purchase-order store.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

/*
FindByID retrieves a purchase order by its ID.
*/
func (repository *orderRepository) FindByID(context context.Context, id string) (*PurchaseOrder, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.BillingPurchaseOrder.ID,
		schema.BillingPurchaseOrder.UserID,
		schema.BillingPurchaseOrder.GoldPackID,
		schema.BillingPurchaseOrder.PriceSnapshot,
		schema.BillingPurchaseOrder.Status,
		schema.BillingPurchaseOrder.CompletedAt,
		schema.BillingPurchaseOrder.CreatedAt,
		schema.BillingPurchaseOrder.Table,
		schema.BillingPurchaseOrder.ID,
	)

	var order PurchaseOrder
	err := repository.pool.QueryRow(context, query, id).Scan(
		&order.ID,
		&order.UserID,
		&order.GoldPackID,
		&order.PriceSnapshot,
		&order.Status,
		&order.CompletedAt,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Order")
		}
		return nil, fmt.Errorf("postgres: failed to find order: %w", err)
	}

	return &order, nil
}

/*
ListByUser retrieves a page of a user's orders, newest first.

Description: Uses a window function to compute the total count in the same
round-trip as the page itself.
*/
func (repository *orderRepository) ListByUser(context context.Context, userID string, limit, offset int) ([]PurchaseOrder, int, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s,
			COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3
	`,
		schema.BillingPurchaseOrder.ID,
		schema.BillingPurchaseOrder.UserID,
		schema.BillingPurchaseOrder.GoldPackID,
		schema.BillingPurchaseOrder.PriceSnapshot,
		schema.BillingPurchaseOrder.Status,
		schema.BillingPurchaseOrder.CompletedAt,
		schema.BillingPurchaseOrder.CreatedAt,
		schema.BillingPurchaseOrder.Table,
		schema.BillingPurchaseOrder.UserID,
		schema.BillingPurchaseOrder.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []PurchaseOrder
	var totalCount int

	for rows.Next() {
		var order PurchaseOrder
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.GoldPackID,
			&order.PriceSnapshot,
			&order.Status,
			&order.CompletedAt,
			&order.CreatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, totalCount, nil
}

/*
Create persists a freshly created Pending order.
*/
func (repository *orderRepository) Create(context context.Context, order *PurchaseOrder) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		schema.BillingPurchaseOrder.Table,
		schema.BillingPurchaseOrder.ID,
		schema.BillingPurchaseOrder.UserID,
		schema.BillingPurchaseOrder.GoldPackID,
		schema.BillingPurchaseOrder.PriceSnapshot,
		schema.BillingPurchaseOrder.Status,
		schema.BillingPurchaseOrder.CompletedAt,
		schema.BillingPurchaseOrder.CreatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		order.ID,
		order.UserID,
		order.GoldPackID,
		order.PriceSnapshot,
		order.Status,
		order.CompletedAt,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to create order: %w", err)
	}

	return nil
}

/*
Update persists an order's status transition.

Description: The WHERE clause re-checks the Pending status so two racing
completions cannot both finalize the same order.
*/
func (repository *orderRepository) Update(context context.Context, order *PurchaseOrder) error {

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3
		WHERE %s = $1 AND %s = $4
	`,
		schema.BillingPurchaseOrder.Table,
		schema.BillingPurchaseOrder.Status,
		schema.BillingPurchaseOrder.CompletedAt,
		schema.BillingPurchaseOrder.ID,
		schema.BillingPurchaseOrder.Status,
	)

	tag, err := repository.pool.Exec(context, query,
		order.ID,
		order.Status,
		order.CompletedAt,
		StatusPending,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to update order: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.Conflict("Order has already been finalized")
	}

	return nil
}
