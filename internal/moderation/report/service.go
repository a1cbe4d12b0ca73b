// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/kanade/internal/platform/validate"
	"github.com/taibuivan/kanade/internal/users/account"
	"github.com/taibuivan/kanade/pkg/uuid"
)

// MaxReasonLength bounds the free-text reason on a filed report.
const MaxReasonLength = 1000

// # Service Layer

// Service files reports and applies the sanctions moderators hand out.
type Service struct {
	reportRepo  ReportRepository
	accountRepo account.AccountRepository
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its required collaborators.
func NewService(reportRepo ReportRepository, accountRepo account.AccountRepository, logger *slog.Logger) *Service {
	return &Service{
		reportRepo:  reportRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// # Report Filing

/*
FileReport records a reader's complaint for moderator review.

Parameters:
  - context: context.Context
  - reporterID: string
  - targetUserID: string (Reported author or commenter)
  - chapterID: *string (Optional offending chapter)
  - reason: string (1–1000 chars)

Returns:
  - *Report: The open report
  - error: VALIDATION_ERROR on a missing or oversized reason
*/
func (service *Service) FileReport(context context.Context, reporterID, targetUserID string, chapterID *string, reason string) (*Report, error) {
	validator := &validate.Validator{}
	validator.Required("target_user_id", targetUserID)
	validator.Required("reason", reason)
	validator.MaxLen("reason", reason, MaxReasonLength)
	if validator.HasErrors() {
		return nil, validator.Err()
	}

	filed := &Report{
		ID:           uuid.New(),
		ReporterID:   reporterID,
		TargetUserID: targetUserID,
		ChapterID:    chapterID,
		Reason:       reason,
		Status:       StatusOpen,
		CreatedAt:    time.Now(),
	}

	if err := service.reportRepo.Create(context, filed); err != nil {
		return nil, err
	}

	service.logger.Info("report_filed",
		slog.String("report_id", filed.ID),
		slog.String("reporter_id", reporterID),
		slog.String("target_user_id", targetUserID),
	)

	return filed, nil
}

/*
ListOpenReports retrieves one page of the review queue, oldest first.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []Report: One page of open reports
  - int: Total open report count
  - error: Storage or execution errors
*/
func (service *Service) ListOpenReports(context context.Context, limit, offset int) ([]Report, int, error) {
	return service.reportRepo.ListByStatus(context, StatusOpen, limit, offset)
}

/*
ResolveReport closes a report as actioned.

Parameters:
  - context: context.Context
  - reportID: string

Returns:
  - *Report: The resolved report
  - error: apperr.NotFound, or CONFLICT if already reviewed
*/
func (service *Service) ResolveReport(context context.Context, reportID string) (*Report, error) {
	return service.closeReport(context, reportID, (*Report).Resolve, "report_resolved")
}

/*
DismissReport closes a report without action.

Parameters:
  - context: context.Context
  - reportID: string

Returns:
  - *Report: The dismissed report
  - error: apperr.NotFound, or CONFLICT if already reviewed
*/
func (service *Service) DismissReport(context context.Context, reportID string) (*Report, error) {
	return service.closeReport(context, reportID, (*Report).Dismiss, "report_dismissed")
}

func (service *Service) closeReport(context context.Context, reportID string, transition func(*Report) error, event string) (*Report, error) {
	filed, err := service.reportRepo.FindByID(context, reportID)
	if err != nil {
		return nil, err
	}

	if err := transition(filed); err != nil {
		return nil, err
	}

	if err := service.reportRepo.Update(context, filed); err != nil {
		return nil, err
	}

	service.logger.Info(event, slog.String("report_id", filed.ID))
	return filed, nil
}

// # Sanctions

/*
MuteUser stacks a comment-and-review mute of the given length onto the
target's current window.

Parameters:
  - context: context.Context
  - targetUserID: string
  - days: int (must be positive)

Returns:
  - *time.Time: The new mute expiry
  - error: VALIDATION_ERROR on non-positive days, apperr.NotFound
*/
func (service *Service) MuteUser(context context.Context, targetUserID string, days int) (*time.Time, error) {
	return service.sanction(context, targetUserID, days, (*account.Account).ExtendMute, muteExpiry, "user_muted")
}

/*
RestrictUser stacks a publish restriction of the given length onto the
target's current window.

Parameters:
  - context: context.Context
  - targetUserID: string
  - days: int (must be positive)

Returns:
  - *time.Time: The new restriction expiry
  - error: VALIDATION_ERROR on non-positive days, apperr.NotFound
*/
func (service *Service) RestrictUser(context context.Context, targetUserID string, days int) (*time.Time, error) {
	return service.sanction(context, targetUserID, days, (*account.Account).ExtendRestriction, restrictionExpiry, "user_restricted")
}

func (service *Service) sanction(context context.Context, targetUserID string, days int, extend func(*account.Account, time.Duration, time.Time), expiry func(*account.Account) *time.Time, event string) (*time.Time, error) {
	validator := &validate.Validator{}
	validator.Custom("days", days <= 0, "Must be a positive number of days")
	if validator.HasErrors() {
		return nil, validator.Err()
	}

	target, err := service.accountRepo.FindByID(context, targetUserID)
	if err != nil {
		return nil, err
	}

	extend(target, time.Duration(days)*24*time.Hour, time.Now())

	if err := service.accountRepo.Save(context, target); err != nil {
		return nil, err
	}

	until := expiry(target)
	service.logger.Info(event,
		slog.String("user_id", targetUserID),
		slog.Int("days", days),
		slog.Time("until", *until),
	)

	return until, nil
}

func muteExpiry(target *account.Account) *time.Time        { return target.MutedUntil }
func restrictionExpiry(target *account.Account) *time.Time { return target.RestrictedUntil }

// # Access Predicates

/*
IsUserAllowedToCommentOrReview reports whether the user is free of an
active mute.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - bool: True when no mute window covers the present
  - error: apperr.NotFound or storage failures
*/
func (service *Service) IsUserAllowedToCommentOrReview(context context.Context, userID string) (bool, error) {
	target, err := service.accountRepo.FindByID(context, userID)
	if err != nil {
		return false, err
	}
	return target.CanCommentOrReview(time.Now()), nil
}

/*
IsUserAllowedToPublish reports whether the user is free of an active
publish restriction.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - bool: True when no restriction window covers the present
  - error: apperr.NotFound or storage failures
*/
func (service *Service) IsUserAllowedToPublish(context context.Context, userID string) (bool, error) {
	target, err := service.accountRepo.FindByID(context, userID)
	if err != nil {
		return false, err
	}
	return target.CanPublish(time.Now()), nil
}
