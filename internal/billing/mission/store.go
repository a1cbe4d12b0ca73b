// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mission

import (
	"context"
	"time"
)

// # Repository Contracts

// MissionRepository defines read access to the mission catalog.
type MissionRepository interface {

	/*
		ListActive retrieves the missions currently running.

		Parameters:
		  - context: context.Context

		Returns:
		  - []Mission: Active missions ordered by read threshold ascending
		  - error: Storage or execution errors
	*/
	ListActive(context context.Context) ([]Mission, error)

	/*
		FindByID retrieves a single mission regardless of its active flag.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Mission: The mission definition
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*Mission, error)
}

// ProgressStore tracks per-user, per-day mission state. All state is scoped
// to the UTC calendar day of the supplied instant and vanishes at rollover.
type ProgressStore interface {

	/*
		RecordRead increments the user's read counter for the current day.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - now: time.Time (determines the day bucket)

		Returns:
		  - error: Storage failures
	*/
	RecordRead(context context.Context, userID string, now time.Time) error

	/*
		ReadCount reports the user's read counter for the current day.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - now: time.Time

		Returns:
		  - int64: Chapters read today; zero if none recorded
		  - error: Storage failures
	*/
	ReadCount(context context.Context, userID string, now time.Time) (int64, error)

	/*
		MarkCompleted atomically flags a mission as completed by the user
		for the current day.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - missionID: string
		  - now: time.Time

		Returns:
		  - bool: True if the flag was newly set; false if it already existed
		  - error: Storage failures
	*/
	MarkCompleted(context context.Context, userID, missionID string, now time.Time) (bool, error)

	/*
		IsCompleted reports whether the user already completed the mission
		during the current day.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - missionID: string
		  - now: time.Time

		Returns:
		  - bool: Completion flag
		  - error: Storage failures
	*/
	IsCompleted(context context.Context, userID, missionID string, now time.Time) (bool, error)
}
