// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import "context"

// # Chapter Data Access

// ChapterRepository defines the data access contract for chapter aggregates.
type ChapterRepository interface {

	/*
		ListByVolume returns all chapters of a volume ordered by chapter
		number. Version histories are loaded; analytics are not.

		Parameters:
		  - context: context.Context
		  - volumeID: string (Owner ID)

		Returns:
		  - []*Chapter: Hydrated chapters
		  - error: Storage failures
	*/
	ListByVolume(context context.Context, volumeID string) ([]*Chapter, error)

	/*
		FindByID returns the full chapter aggregate: row, version history,
		and analytics samples.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Chapter: Hydrated aggregate
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*Chapter, error)

	/*
		Create persists a new chapter and its initial version.

		Parameters:
		  - context: context.Context
		  - chapter: *Chapter

		Returns:
		  - error: Storage failure
	*/
	Create(context context.Context, chapter *Chapter) error

	/*
		Update persists the aggregate in one transaction: the chapter row,
		the synchronized version collection (upserts plus removals), and
		any new analytics samples.

		Parameters:
		  - context: context.Context
		  - chapter: *Chapter

		Returns:
		  - error: Update failure
	*/
	Update(context context.Context, chapter *Chapter) error

	/*
		Delete removes a chapter and its versions. Called only through
		volume-level removal, which owns the renumbering.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - error: Removal failure
	*/
	Delete(context context.Context, id string) error

	/*
		IncrementViewCount atomically increments the view counter.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)
		  - delta: int64

		Returns:
		  - error: Atomic update failure
	*/
	IncrementViewCount(context context.Context, id string, delta int64) error
}
