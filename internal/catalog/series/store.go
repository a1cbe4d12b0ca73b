// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package series

import "context"

// Filter narrows catalog listings.
type Filter struct {
	OwnerID string   `json:"owner_id,omitempty"`
	Status  []Status `json:"status,omitempty"`
	Type    []Type   `json:"type,omitempty"`

	// Search matches against title and synopsis.
	Search string `json:"search,omitempty"`
}

// # Series Data Access

// SeriesRepository defines the data access contract for the catalog
// hierarchy. Chapters are persisted through the chapter repository; this
// contract only touches their ordinals.
type SeriesRepository interface {

	/*
		List returns a filtered page of series without volume hydration.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - limit, offset: int

		Returns:
		  - []*Series: Matched series
		  - int: Total match count
		  - error: Storage failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Series, int, error)

	/*
		FindByID returns the full aggregate: series row, ordered volumes,
		category ratings, and DashiFan tiers. Chapters are not loaded.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Series: Hydrated aggregate
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*Series, error)

	/*
		FindBySlug resolves a series by its unique URL slug. Same
		hydration as FindByID.
	*/
	FindBySlug(context context.Context, slug string) (*Series, error)

	/*
		Create persists a new series row.

		Parameters:
		  - context: context.Context
		  - series: *Series

		Returns:
		  - error: Constraint or storage failures
	*/
	Create(context context.Context, series *Series) error

	/*
		Update persists the aggregate in one transaction: the series row,
		the synchronized volume collection (upserts plus removals), the
		replaced rating set, and the tier collection.

		Parameters:
		  - context: context.Context
		  - series: *Series

		Returns:
		  - error: Update failure
	*/
	Update(context context.Context, series *Series) error

	/*
		UpdateChapterNumbers rewrites chapter ordinals for one volume in
		a single transaction, keeping the dense 1..N sequence in storage.

		Parameters:
		  - context: context.Context
		  - volumeID: string
		  - numbering: map[string]int (chapter id -> new ordinal)

		Returns:
		  - error: Update failure
	*/
	UpdateChapterNumbers(context context.Context, volumeID string, numbering map[string]int) error

	/*
		SoftDelete flags a series as logically removed.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Execution failures
	*/
	SoftDelete(context context.Context, id string) error
}
