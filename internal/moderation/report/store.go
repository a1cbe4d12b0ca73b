// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package report

import "context"

// # Repository Contracts

// ReportRepository defines the persistence contract for filed reports.
type ReportRepository interface {

	/*
		FindByID retrieves a report by its ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Report: The report record
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*Report, error)

	/*
		ListByStatus retrieves a page of reports in a given state, oldest
		first so the review queue is worked in filing order.

		Parameters:
		  - context: context.Context
		  - status: ReportStatus
		  - limit: int
		  - offset: int

		Returns:
		  - []Report: One page of reports
		  - int: Total report count in that state
		  - error: Storage or execution errors
	*/
	ListByStatus(context context.Context, status ReportStatus, limit, offset int) ([]Report, int, error)

	/*
		Create persists a freshly filed report.

		Parameters:
		  - context: context.Context
		  - report: *Report

		Returns:
		  - error: Constraint or execution failures
	*/
	Create(context context.Context, report *Report) error

	/*
		Update persists a report's status transition.

		Parameters:
		  - context: context.Context
		  - report: *Report

		Returns:
		  - error: Execution failures
	*/
	Update(context context.Context, report *Report) error
}
