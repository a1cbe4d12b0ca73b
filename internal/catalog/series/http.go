// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package series provides the HTTP interface for catalog discovery and
management.

# Routing Strategy

  - Public (v1): Discovery endpoints accessible to all visitors.
  - Author (v1): Mutative endpoints requiring the author role; ownership
    is enforced in the service layer.

The handler translates between the web/JSON layer and the internal domain
[Service].
*/
package series

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/kanade/internal/catalog/chapter"
	"github.com/taibuivan/kanade/internal/platform/middleware"
	requestutil "github.com/taibuivan/kanade/internal/platform/request"
	"github.com/taibuivan/kanade/internal/platform/respond"
	"github.com/taibuivan/kanade/internal/platform/sec"
	"github.com/taibuivan/kanade/pkg/pagination"
	"github.com/taibuivan/kanade/pkg/query"
)

// # Handler Implementation

// Handler implements the HTTP layer for catalog management.
type Handler struct {
	service *Service
}

// NewHandler constructs a new series [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the catalog endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Discovery endpoints
	router.Get("/", handler.List)
	router.Get("/{idOrSlug}", handler.Get)

	// Author protected endpoints
	router.Group(func(author chi.Router) {
		author.Use(middleware.RequireAuth)
		author.Use(middleware.RequireRole(sec.RoleAuthor))

		author.Post("/", handler.Create)
		author.Patch("/{id}", handler.Update)
		author.Delete("/{id}", handler.Delete)

		author.Put("/{id}/ratings", handler.ApplyRatings)

		author.Post("/{id}/volumes", handler.AddVolume)
		author.Delete("/{id}/volumes/{volumeID}", handler.RemoveVolume)
		author.Post("/{id}/volumes/{volumeID}/reorder", handler.ReorderVolume)

		author.Post("/{id}/volumes/{volumeID}/chapters", handler.AddChapter)
		author.Delete("/{id}/volumes/{volumeID}/chapters/{chapterID}", handler.RemoveChapter)
		author.Post("/{id}/volumes/{volumeID}/chapters/{chapterID}/reorder", handler.ReorderChapter)

		author.Post("/{id}/dashifan", handler.AddDashiFan)
		author.Patch("/{id}/dashifan/{tierID}", handler.UpdateDashiFan)
		author.Post("/{id}/dashifan/{tierID}/activate", handler.ActivateDashiFan)
		author.Delete("/{id}/dashifan/{tierID}", handler.DeactivateDashiFan)
	})

	return router
}

// # Discovery Endpoints

/*
GET /api/v1/series.

Description: Returns a paginated, filterable slice of the catalog.

Request:
  - status, type, search, owner: Query filters
  - page, limit: Pagination

Response:
  - 200: []Series: Matched series with pagination metadata
*/
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := Filter{
		OwnerID: request.URL.Query().Get("owner"),
		Search:  request.URL.Query().Get("search"),
	}
	for _, status := range query.StringSlice(request.URL.Query().Get("status")) {
		filter.Status = append(filter.Status, Status(status))
	}
	for _, seriesType := range query.StringSlice(request.URL.Query().Get("type")) {
		filter.Type = append(filter.Type, Type(seriesType))
	}

	matches, total, err := handler.service.ListSeries(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, matches, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/series/{idOrSlug}.

Description: Resolves a series by UUID or URL slug, hydrated with its
volumes, category ratings, and DashiFan tiers.

Response:
  - 200: Series
  - 404: ErrNotFound: Unknown series
*/
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	loadedSeries, err := handler.service.GetSeries(request.Context(), chi.URLParam(request, "idOrSlug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loadedSeries)
}

// # Series Management Endpoints

// createSeriesRequest defines the payload for series registration.
type createSeriesRequest struct {
	Title        string `json:"title"`
	Synopsis     string `json:"synopsis"`
	ThumbnailURL string `json:"thumbnail_url"`
	Type         Type   `json:"type"`
}

/*
POST /api/v1/series.

Description: Registers a new series owned by the authenticated author.

Request:
  - body: createSeriesRequest

Response:
  - 201: Series: The created series with its generated slug
  - 400: Validation: Missing title or unknown type
*/
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createSeriesRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	newSeries := &Series{
		OwnerID:      ownerID,
		Title:        input.Title,
		Synopsis:     input.Synopsis,
		ThumbnailURL: input.ThumbnailURL,
		Type:         input.Type,
	}

	if err := handler.service.CreateSeries(request.Context(), newSeries); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, newSeries)
}

// updateSeriesRequest defines the payload for metadata updates.
type updateSeriesRequest struct {
	Title        *string `json:"title"`
	Synopsis     *string `json:"synopsis"`
	ThumbnailURL *string `json:"thumbnail_url"`
	Status       *Status `json:"status"`
}

/*
PATCH /api/v1/series/{id}.

Description: Applies partial metadata updates to a series.

Request:
  - body: updateSeriesRequest

Response:
  - 200: Series: The updated entity
  - 404: ErrNotFound: Unknown series
*/
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	var input updateSeriesRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	loadedSeries, err := handler.service.GetSeries(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.Title != nil {
		loadedSeries.Title = *input.Title
	}
	if input.Synopsis != nil {
		loadedSeries.Synopsis = *input.Synopsis
	}
	if input.ThumbnailURL != nil {
		loadedSeries.ThumbnailURL = *input.ThumbnailURL
	}
	if input.Status != nil {
		loadedSeries.Status = *input.Status
	}

	if err := handler.service.UpdateSeries(request.Context(), loadedSeries); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loadedSeries)
}

/*
DELETE /api/v1/series/{id}.

Response:
  - 204: No Content: Series removed from the catalog
*/
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteSeries(request.Context(), chi.URLParam(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Rating Endpoints

// applyRatingsRequest carries one severity per required content category.
type applyRatingsRequest struct {
	Ratings []CategoryRating `json:"ratings"`
}

/*
PUT /api/v1/series/{id}/ratings.

Description: Replaces the category rating set and re-derives the single
content-rating tier.

Request:
  - body: applyRatingsRequest

Response:
  - 200: Series: With the new content rating
  - 400: Validation: Missing, duplicate, or out-of-range ratings
*/
func (handler *Handler) ApplyRatings(writer http.ResponseWriter, request *http.Request) {
	var input applyRatingsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	loadedSeries, err := handler.service.ApplyRatings(request.Context(), chi.URLParam(request, "id"), input.Ratings)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loadedSeries)
}

// # Volume Endpoints

// volumeRequest defines the payload for volume creation.
type volumeRequest struct {
	Name         string `json:"name"`
	Introduction string `json:"introduction"`
}

/*
POST /api/v1/series/{id}/volumes.

Response:
  - 201: Volume: With its assigned dense number
  - 400: Validation: Name length or introduction length
*/
func (handler *Handler) AddVolume(writer http.ResponseWriter, request *http.Request) {
	var input volumeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	volume, err := handler.service.AddVolume(request.Context(), chi.URLParam(request, "id"), input.Name, input.Introduction)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, volume)
}

/*
DELETE /api/v1/series/{id}/volumes/{volumeID}.

Description: Removes a volume with its chapters; remaining volumes are
renumbered densely.

Response:
  - 204: No Content
  - 404: ErrNotFound: Unknown volume
*/
func (handler *Handler) RemoveVolume(writer http.ResponseWriter, request *http.Request) {
	err := handler.service.RemoveVolume(request.Context(),
		chi.URLParam(request, "id"), chi.URLParam(request, "volumeID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// reorderRequest identifies the anchor an item moves after; an empty
// after_id moves it to the front.
type reorderRequest struct {
	AfterID string `json:"after_id"`
}

/*
POST /api/v1/series/{id}/volumes/{volumeID}/reorder.

Request:
  - body: reorderRequest

Response:
  - 204: No Content: Volumes renumbered
  - 404: ErrNotFound: Unknown volume or anchor
*/
func (handler *Handler) ReorderVolume(writer http.ResponseWriter, request *http.Request) {
	var input reorderRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := handler.service.ReorderVolume(request.Context(),
		chi.URLParam(request, "id"), chi.URLParam(request, "volumeID"), input.AfterID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Chapter Placement Endpoints

/*
POST /api/v1/series/{id}/volumes/{volumeID}/chapters.

Description: Creates a chapter with its initial draft version; the volume
assigns the next dense chapter number.

Request:
  - body: chapter authoring fields (title, thumbnail_url, content, note)

Response:
  - 201: Chapter
  - 400: Validation: Title or note constraints
*/
func (handler *Handler) AddChapter(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Title        string `json:"title"`
		ThumbnailURL string `json:"thumbnail_url"`
		Content      string `json:"content"`
		Note         string `json:"note"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.AddChapter(request.Context(),
		chi.URLParam(request, "id"), chi.URLParam(request, "volumeID"),
		chapter.AuthoringInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
DELETE /api/v1/series/{id}/volumes/{volumeID}/chapters/{chapterID}.

Description: Deletes the chapter and renumbers the volume's remaining
chapters densely.

Response:
  - 204: No Content
  - 404: ErrNotFound: Unknown chapter
*/
func (handler *Handler) RemoveChapter(writer http.ResponseWriter, request *http.Request) {
	err := handler.service.RemoveChapter(request.Context(),
		chi.URLParam(request, "id"), chi.URLParam(request, "volumeID"), chi.URLParam(request, "chapterID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
POST /api/v1/series/{id}/volumes/{volumeID}/chapters/{chapterID}/reorder.

Request:
  - body: reorderRequest

Response:
  - 204: No Content: Chapters renumbered
  - 404: ErrNotFound: Unknown chapter or anchor
*/
func (handler *Handler) ReorderChapter(writer http.ResponseWriter, request *http.Request) {
	var input reorderRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := handler.service.ReorderChapter(request.Context(),
		chi.URLParam(request, "id"), chi.URLParam(request, "volumeID"),
		chi.URLParam(request, "chapterID"), input.AfterID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # DashiFan Endpoints

// dashiFanRequest defines the payload for tier creation.
type dashiFanRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	MonthlyPrice int64  `json:"monthly_price"`
}

/*
POST /api/v1/series/{id}/dashifan.

Response:
  - 201: DashiFan: The created tier, active by default
  - 400: Validation: Missing name or non-positive price
*/
func (handler *Handler) AddDashiFan(writer http.ResponseWriter, request *http.Request) {
	var input dashiFanRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tier, err := handler.service.AddDashiFan(request.Context(),
		chi.URLParam(request, "id"), input.Name, input.Description, input.MonthlyPrice)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, tier)
}

/*
PATCH /api/v1/series/{id}/dashifan/{tierID}.

Description: Edits a tier's presentation and price; the new price applies
to renewals only.

Response:
  - 204: No Content
  - 400: Validation: Missing name or non-positive price
  - 404: ErrNotFound: Unknown tier
*/
func (handler *Handler) UpdateDashiFan(writer http.ResponseWriter, request *http.Request) {
	var input dashiFanRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := handler.service.UpdateDashiFan(request.Context(),
		chi.URLParam(request, "id"), chi.URLParam(request, "tierID"),
		input.Name, input.Description, input.MonthlyPrice)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
POST /api/v1/series/{id}/dashifan/{tierID}/activate.

Description: Reopens a retired tier for new subscriptions.

Response:
  - 204: No Content
  - 404: ErrNotFound: Unknown tier
*/
func (handler *Handler) ActivateDashiFan(writer http.ResponseWriter, request *http.Request) {
	err := handler.service.ActivateDashiFan(request.Context(),
		chi.URLParam(request, "id"), chi.URLParam(request, "tierID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
DELETE /api/v1/series/{id}/dashifan/{tierID}.

Description: Deactivates the tier; billing references stay resolvable.

Response:
  - 204: No Content
  - 404: ErrNotFound: Unknown tier
*/
func (handler *Handler) DeactivateDashiFan(writer http.ResponseWriter, request *http.Request) {
	err := handler.service.DeactivateDashiFan(request.Context(),
		chi.URLParam(request, "id"), chi.URLParam(request, "tierID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
