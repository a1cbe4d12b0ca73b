// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mission

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/kanade/internal/platform/request"
	"github.com/taibuivan/kanade/internal/platform/respond"
)

// Handler implements the HTTP layer for check-ins and missions.
type Handler struct {
	missionService *Service
}

// NewHandler constructs a new mission [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{missionService: service}
}

// Routes returns a [chi.Router] configured with the mission domain's
// endpoints. All routes require an authenticated session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listProgress)
	router.Post("/checkin", handler.dailyCheckin)
	router.Post("/{id}/complete", handler.completeMission)

	return router
}

/*
GET /api/v1/missions.

Description: Lists active missions with the caller's read count and
completion state for the current day.

Response:
  - 200: []Progress
*/
func (handler *Handler) listProgress(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	progress, err := handler.missionService.ListProgress(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, progress)
}

/*
POST /api/v1/missions/checkin.

Description: Claims the daily check-in Coin reward.

Response:
  - 200: wallet.Transaction: The Checkin ledger entry
  - 409: Conflict: Already checked in today
*/
func (handler *Handler) dailyCheckin(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.missionService.DailyCheckin(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

// completeMissionResponse reports whether a claim paid out.
type completeMissionResponse struct {
	Granted bool `json:"granted"`
}

/*
POST /api/v1/missions/{id}/complete.

Description: Claims a mission reward. A claim that does not qualify
(inactive mission, unmet threshold, already claimed today) succeeds with
granted=false rather than erroring.

Response:
  - 200: completeMissionResponse
  - 404: NotFound: Unknown mission
*/
func (handler *Handler) completeMission(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	granted, err := handler.missionService.CompleteMission(request.Context(), userID, chi.URLParam(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, completeMissionResponse{Granted: granted})
}
