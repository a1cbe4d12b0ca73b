// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package report is the moderation surface: reader-filed reports and the
mute/restriction windows moderators hand out when a report sticks.

Sanctions are time windows on the reader account, not flags:

  - Mute blocks commenting and reviewing until its expiry passes.
  - Restriction blocks publishing until its expiry passes.

Repeated sanctions stack: a new window extends from whichever is later,
now or the current expiry, so violations during an active window push the
expiry further out instead of resetting it.
*/
package report

import (
	"time"

	"github.com/taibuivan/kanade/internal/platform/apperr"
)

// # Domain Enums

// ReportStatus tracks a filed report through moderator review.
type ReportStatus string

const (
	// StatusOpen marks a report awaiting review.
	StatusOpen ReportStatus = "open"

	// StatusResolved marks a reviewed report that led to action.
	StatusResolved ReportStatus = "resolved"

	// StatusDismissed marks a reviewed report that led to none.
	StatusDismissed ReportStatus = "dismissed"
)

// IsValid reports whether s is a recognised [ReportStatus] value.
func (s ReportStatus) IsValid() bool {
	return s == StatusOpen || s == StatusResolved || s == StatusDismissed
}

// # Core Entities

// Report is a reader-filed complaint about a chapter or its author.
type Report struct {
	ID           string       `json:"id"`
	ReporterID   string       `json:"reporter_id"`
	TargetUserID string       `json:"target_user_id"`
	ChapterID    *string      `json:"chapter_id,omitempty"`
	Reason       string       `json:"reason"`
	Status       ReportStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
}

// # State Transitions

/*
Resolve closes an open report as actioned.

Returns:
  - error: CONFLICT if the report is no longer open
*/
func (report *Report) Resolve() error {
	if report.Status != StatusOpen {
		return apperr.Conflict("Report has already been reviewed")
	}
	report.Status = StatusResolved
	return nil
}

/*
Dismiss closes an open report without action.

Returns:
  - error: CONFLICT if the report is no longer open
*/
func (report *Report) Dismiss() error {
	if report.Status != StatusOpen {
		return apperr.Conflict("Report has already been reviewed")
	}
	report.Status = StatusDismissed
	return nil
}
