// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kana

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/kanade/internal/platform/request"
	"github.com/taibuivan/kanade/internal/platform/respond"
	"github.com/taibuivan/kanade/internal/platform/validate"
	"github.com/taibuivan/kanade/pkg/pagination"
)

// Handler implements the HTTP layer for gold-pack sales.
type Handler struct {
	kanaService *Service
}

// NewHandler constructs a new kana [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{kanaService: service}
}

// Routes returns a [chi.Router] configured with the kana domain's endpoints.
// All routes require an authenticated session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Gold Pack Catalog
	router.Get("/packs", handler.listPacks)

	// Purchase Orders
	router.Get("/orders", handler.listOrders)
	router.Post("/orders", handler.createOrder)
	router.Post("/orders/{id}/complete", handler.completeOrder)
	router.Post("/orders/{id}/cancel", handler.cancelOrder)

	return router
}

// # Catalog Endpoints

/*
GET /api/v1/kana/packs.

Description: Lists the gold packs currently offered for sale.

Response:
  - 200: []GoldPack: Active packs, cheapest first
*/
func (handler *Handler) listPacks(writer http.ResponseWriter, request *http.Request) {
	packs, err := handler.kanaService.ListGoldPacks(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, packs)
}

// # Order Endpoints

// createOrderRequest defines the expected JSON payload for order creation.
type createOrderRequest struct {
	PackID string `json:"pack_id"`
}

/*
POST /api/v1/kana/orders.

Description: Opens a Pending purchase order for a gold pack, locking in the
pack's current price.

Request:
  - body: createOrderRequest

Response:
  - 201: PurchaseOrder: The Pending order
  - 403: PolicyViolation: Pack is no longer sold
  - 404: NotFound: Unknown pack
*/
func (handler *Handler) createOrder(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createOrderRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("pack_id", input.PackID)
	if validator.HasErrors() {
		respond.Error(writer, request, validator.Err())
		return
	}

	order, err := handler.kanaService.CreatePurchaseOrder(request.Context(), userID, input.PackID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, order)
}

/*
POST /api/v1/kana/orders/{id}/complete.

Description: Finalizes a paid order: credits Gold and marks it Success.
Called by the payment-gateway callback after signature verification.

Response:
  - 200: PurchaseOrder: The completed order
  - 404: NotFound: Unknown order
  - 409: Conflict: Order already finalized
*/
func (handler *Handler) completeOrder(writer http.ResponseWriter, request *http.Request) {
	order, err := handler.kanaService.CompleteOrder(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, order)
}

/*
POST /api/v1/kana/orders/{id}/cancel.

Description: Abandons one of the caller's own Pending orders.

Response:
  - 200: PurchaseOrder: The cancelled order
  - 404: NotFound: Unknown or foreign order
  - 409: Conflict: Order already finalized
*/
func (handler *Handler) cancelOrder(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	order, err := handler.kanaService.CancelOrder(request.Context(), userID, chi.URLParam(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, order)
}

/*
GET /api/v1/kana/orders.

Description: Lists the caller's order history, newest first.

Response:
  - 200: Paginated []PurchaseOrder
*/
func (handler *Handler) listOrders(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	orders, total, err := handler.kanaService.ListOrders(request.Context(), userID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, orders, pagination.NewMeta(params.Page, params.Limit, total))
}
