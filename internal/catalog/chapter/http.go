// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package chapter provides the HTTP interface for reading, authoring, and
unlocking chapters.

# Routing Strategy

  - Public (v1): Chapter retrieval and guest access checks.
  - Authenticated (v1): Unlocks and read tracking.
  - Author (v1): Draft, publication, version, and pricing management.

The handler translates between the web/JSON layer and the internal domain
[Service].
*/
package chapter

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/kanade/internal/platform/middleware"
	requestutil "github.com/taibuivan/kanade/internal/platform/request"
	"github.com/taibuivan/kanade/internal/platform/respond"
	"github.com/taibuivan/kanade/internal/platform/sec"
	"github.com/taibuivan/kanade/internal/platform/validate"
	"github.com/taibuivan/kanade/pkg/convert"
)

// # Handler Implementation

// Handler implements the HTTP layer for chapter management.
type Handler struct {
	service *Service
}

// NewHandler constructs a new chapter [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches chapter endpoints to the root API router.
// Chapter endpoints span both /volumes/{id}/... and /chapters/... prefixes.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	// Discovery endpoints
	api.Get("/volumes/{volumeID}/chapters", handler.ListByVolume)
	api.Get("/volumes/{volumeID}/chapters/{id}/guest-access", handler.GuestAccess)
	api.Get("/chapters/{id}", handler.GetChapter)

	// User interactions (Require authentication)
	api.Group(func(user chi.Router) {
		user.Use(middleware.RequireAuth)
		user.Post("/chapters/{id}/unlock", handler.Unlock)
		user.Post("/chapters/{id}/read", handler.MarkAsRead)
	})

	// Author protected endpoints
	api.Group(func(author chi.Router) {
		author.Use(middleware.RequireRole(sec.RoleAuthor))
		author.Patch("/chapters/{id}", handler.Update)
		author.Post("/chapters/{id}/autosave", handler.Autosave)
		author.Post("/chapters/{id}/publish", handler.Publish)
		author.Post("/chapters/{id}/unpublish", handler.Unpublish)
		author.Put("/chapters/{id}/price", handler.SetPrice)
		author.Post("/chapters/{id}/analytics", handler.IngestAnalytics)
		author.Post("/chapters/{id}/versions/{versionID}/restore", handler.RestoreVersion)
		author.Patch("/chapters/{id}/versions/{versionID}", handler.RenameVersion)
		author.Delete("/chapters/{id}/versions/{versionID}", handler.RemoveVersion)
	})
}

// # Chapter Retrieval

/*
GET /api/v1/volumes/{volumeID}/chapters.

Description: Returns the chapters of a volume in reading order.

Response:
  - 200: []Chapter: Chapters ordered by number
*/
func (handler *Handler) ListByVolume(writer http.ResponseWriter, request *http.Request) {
	volumeID := chi.URLParam(request, "volumeID")

	chapters, err := handler.service.ListByVolume(request.Context(), volumeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, chapters)
}

/*
GET /api/v1/chapters/{id}.

Description: Returns a single chapter with its full version history.

Response:
  - 200: Chapter: The hydrated aggregate
  - 404: ErrNotFound: Unknown chapter
*/
func (handler *Handler) GetChapter(writer http.ResponseWriter, request *http.Request) {
	loadedChapter, err := handler.service.GetChapter(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loadedChapter)
}

/*
GET /api/v1/volumes/{volumeID}/chapters/{id}/guest-access.

Description: Answers whether an unauthenticated visitor may read the
chapter. Paid and advance chapters answer false without erroring.

Response:
  - 200: {"allowed": bool}
  - 404: ErrNotFound: Chapter not in the volume
*/
func (handler *Handler) GuestAccess(writer http.ResponseWriter, request *http.Request) {
	volumeID := chi.URLParam(request, "volumeID")

	chapters, err := handler.service.ListByVolume(request.Context(), volumeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	allowed, err := handler.service.IsGuestAllowedToReadChapter(chapters, chi.URLParam(request, "id"), time.Now())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"allowed": allowed})
}

// # Authoring Endpoints

// authoringRequest defines the JSON payload for draft updates and autosaves.
type authoringRequest struct {
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url"`
	Content      string `json:"content"`
	Note         string `json:"note"`
}

/*
PATCH /api/v1/chapters/{id}.

Description: Records a new deliberate draft version with the supplied content.

Request:
  - body: authoringRequest

Response:
  - 200: Chapter: The aggregate with the new current version
  - 400: Validation: Empty title or oversized fields
*/
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	var input authoringRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	loadedChapter, err := handler.service.UpdateChapter(request.Context(), chi.URLParam(request, "id"), AuthoringInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loadedChapter)
}

/*
POST /api/v1/chapters/{id}/autosave.

Description: Records an autosave version. Same payload as PATCH.

Response:
  - 200: Chapter
*/
func (handler *Handler) Autosave(writer http.ResponseWriter, request *http.Request) {
	var input authoringRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	loadedChapter, err := handler.service.SaveChapter(request.Context(), chi.URLParam(request, "id"), AuthoringInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loadedChapter)
}

// # Publication Endpoints

// publishRequest optionally schedules the publication.
type publishRequest struct {
	PublishAt *time.Time `json:"publish_at"`
}

/*
POST /api/v1/chapters/{id}/publish.

Description: Publishes immediately, or at a future instant when publish_at
is supplied.

Request:
  - body: publishRequest (publish_at optional)

Response:
  - 200: Chapter: The published aggregate
  - 400: Validation: publish_at not in the future
  - 403: PolicyViolation: Author under an active publish restriction
  - 409: Conflict: Chapter already published
*/
func (handler *Handler) Publish(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input publishRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapterID := chi.URLParam(request, "id")

	var loadedChapter *Chapter
	if input.PublishAt == nil {
		loadedChapter, err = handler.service.PublishChapter(request.Context(), authorID, chapterID)
	} else {
		loadedChapter, err = handler.service.SchedulePublishChapter(request.Context(), authorID, chapterID, *input.PublishAt)
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loadedChapter)
}

/*
POST /api/v1/chapters/{id}/unpublish.

Description: Reverts a published chapter to draft, keeping history.

Response:
  - 200: Chapter
  - 409: Conflict: Chapter is not published
*/
func (handler *Handler) Unpublish(writer http.ResponseWriter, request *http.Request) {
	loadedChapter, err := handler.service.UnpublishChapter(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loadedChapter)
}

// # Version Endpoints

/*
POST /api/v1/chapters/{id}/versions/{versionID}/restore.

Description: Moves the current pointer back to a historical version.

Response:
  - 200: Chapter
  - 404: ErrNotFound: Unknown version
*/
func (handler *Handler) RestoreVersion(writer http.ResponseWriter, request *http.Request) {
	loadedChapter, err := handler.service.RestoreVersion(request.Context(),
		chi.URLParam(request, "id"), chi.URLParam(request, "versionID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loadedChapter)
}

// renameVersionRequest defines the payload for version renames.
type renameVersionRequest struct {
	Name string `json:"name"`
}

/*
PATCH /api/v1/chapters/{id}/versions/{versionID}.

Description: Renames a version for display purposes.

Request:
  - body: renameVersionRequest

Response:
  - 200: Chapter
  - 400: Validation: Empty name
  - 404: ErrNotFound: Unknown version
*/
func (handler *Handler) RenameVersion(writer http.ResponseWriter, request *http.Request) {
	var input renameVersionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("name", input.Name)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	loadedChapter, err := handler.service.RenameVersion(request.Context(),
		chi.URLParam(request, "id"), chi.URLParam(request, "versionID"), input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loadedChapter)
}

/*
DELETE /api/v1/chapters/{id}/versions/{versionID}.

Description: Removes a historical version. Versions referenced by the
current or published pointers are protected.

Response:
  - 200: Chapter
  - 404: ErrNotFound: Unknown version
  - 409: Conflict: Version in use
*/
func (handler *Handler) RemoveVersion(writer http.ResponseWriter, request *http.Request) {
	loadedChapter, err := handler.service.RemoveVersion(request.Context(),
		chi.URLParam(request, "id"), chi.URLParam(request, "versionID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loadedChapter)
}

// # Monetization Endpoints

// setPriceRequest defines the payload for price changes.
type setPriceRequest struct {
	Price *int `json:"price"`
}

/*
PUT /api/v1/chapters/{id}/price.

Description: Sets the unlock cost. A null price makes the chapter free.

Request:
  - body: setPriceRequest

Response:
  - 200: Chapter
  - 400: Validation: Non-positive price
*/
func (handler *Handler) SetPrice(writer http.ResponseWriter, request *http.Request) {
	var input setPriceRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	loadedChapter, err := handler.service.SetChapterPrice(request.Context(), chi.URLParam(request, "id"), input.Price)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loadedChapter)
}

// # Reader Endpoints

/*
POST /api/v1/chapters/{id}/unlock.

Description: Grants the authenticated user ownership, debiting Coin first
and Gold otherwise for priced chapters.

Response:
  - 204: No Content: Chapter unlocked
  - 402: InsufficientBalance: Neither currency covers the price
  - 403: PolicyViolation: Advance chapter
  - 409: Conflict: Not published or already unlocked
*/
func (handler *Handler) Unlock(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UnlockChapter(request.Context(), userID, chi.URLParam(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
POST /api/v1/chapters/{id}/read.

Description: Records a completed read for view counting and daily mission
progress.

Response:
  - 204: No Content
*/
func (handler *Handler) MarkAsRead(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RecordChapterRead(request.Context(), chi.URLParam(request, "id"), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
POST /api/v1/chapters/{id}/analytics?count=N.

Description: Appends an aggregated per-period reading sample, typically
pushed by the analytics rollup job.

Request:
  - count: Query parameter (reads in the period; malformed values count 0)

Response:
  - 204: No Content
  - 404: ErrNotFound: Unknown chapter
*/
func (handler *Handler) IngestAnalytics(writer http.ResponseWriter, request *http.Request) {
	readCount := convert.ToInt(request.URL.Query().Get("count"))

	if err := handler.service.IngestReadingAnalytic(request.Context(), chi.URLParam(request, "id"), readCount); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
