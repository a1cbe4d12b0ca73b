// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package report

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/kanade/internal/platform/middleware"
	requestutil "github.com/taibuivan/kanade/internal/platform/request"
	"github.com/taibuivan/kanade/internal/platform/respond"
	"github.com/taibuivan/kanade/internal/platform/sec"
	"github.com/taibuivan/kanade/pkg/pagination"
)

// Handler implements the HTTP layer for reports and sanctions.
type Handler struct {
	reportService *Service
}

// NewHandler constructs a new report [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{reportService: service}
}

// Routes returns a [chi.Router] configured with the moderation domain's
// endpoints. Filing requires any authenticated session; review and
// sanctions require the moderator role.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.fileReport)

	router.Group(func(moderation chi.Router) {
		moderation.Use(middleware.RequireRole(sec.RoleModerator))

		moderation.Get("/", handler.listOpenReports)
		moderation.Post("/{id}/resolve", handler.resolveReport)
		moderation.Post("/{id}/dismiss", handler.dismissReport)
		moderation.Post("/users/{userID}/mute", handler.muteUser)
		moderation.Post("/users/{userID}/restrict", handler.restrictUser)
	})

	return router
}

// # Filing Endpoints

// fileReportRequest defines the expected JSON payload for filing a report.
type fileReportRequest struct {
	TargetUserID string  `json:"target_user_id"`
	ChapterID    *string `json:"chapter_id"`
	Reason       string  `json:"reason"`
}

/*
POST /api/v1/reports.

Description: Files a complaint about an author or a specific chapter.

Request:
  - body: fileReportRequest

Response:
  - 201: Report: The open report
  - 400: Validation: Missing or oversized reason
*/
func (handler *Handler) fileReport(writer http.ResponseWriter, request *http.Request) {
	reporterID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input fileReportRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	filed, err := handler.reportService.FileReport(request.Context(), reporterID, input.TargetUserID, input.ChapterID, input.Reason)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, filed)
}

// # Review Endpoints

/*
GET /api/v1/reports.

Description: Lists the open review queue, oldest first.

Response:
  - 200: Paginated []Report
*/
func (handler *Handler) listOpenReports(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	reports, total, err := handler.reportService.ListOpenReports(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reports, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
POST /api/v1/reports/{id}/resolve.

Response:
  - 200: Report: The resolved report
  - 409: Conflict: Report already reviewed
*/
func (handler *Handler) resolveReport(writer http.ResponseWriter, request *http.Request) {
	filed, err := handler.reportService.ResolveReport(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, filed)
}

/*
POST /api/v1/reports/{id}/dismiss.

Response:
  - 200: Report: The dismissed report
  - 409: Conflict: Report already reviewed
*/
func (handler *Handler) dismissReport(writer http.ResponseWriter, request *http.Request) {
	filed, err := handler.reportService.DismissReport(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, filed)
}

// # Sanction Endpoints

// sanctionRequest defines the expected JSON payload for mute/restrict.
type sanctionRequest struct {
	Days int `json:"days"`
}

// sanctionResponse reports the resulting expiry of a stacked window.
type sanctionResponse struct {
	Until time.Time `json:"until"`
}

/*
POST /api/v1/reports/users/{userID}/mute.

Description: Stacks a comment-and-review mute onto the target account.

Request:
  - body: sanctionRequest

Response:
  - 200: sanctionResponse: The new mute expiry
  - 400: Validation: Non-positive day count
*/
func (handler *Handler) muteUser(writer http.ResponseWriter, request *http.Request) {
	var input sanctionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	until, err := handler.reportService.MuteUser(request.Context(), chi.URLParam(request, "userID"), input.Days)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, sanctionResponse{Until: *until})
}

/*
POST /api/v1/reports/users/{userID}/restrict.

Description: Stacks a publish restriction onto the target account.

Request:
  - body: sanctionRequest

Response:
  - 200: sanctionResponse: The new restriction expiry
  - 400: Validation: Non-positive day count
*/
func (handler *Handler) restrictUser(writer http.ResponseWriter, request *http.Request) {
	var input sanctionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	until, err := handler.reportService.RestrictUser(request.Context(), chi.URLParam(request, "userID"), input.Days)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, sanctionResponse{Until: *until})
}
