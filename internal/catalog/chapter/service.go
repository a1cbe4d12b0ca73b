// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/kanade/internal/billing/wallet"
	"github.com/taibuivan/kanade/internal/platform/apperr"
	"github.com/taibuivan/kanade/internal/users/account"
)

// # Collaborator Contracts

// ReadTracker records per-user, per-day read counts for mission progress.
// Implementations live in the mission domain; a nil tracker disables it.
type ReadTracker interface {
	RecordRead(context context.Context, userID string, now time.Time) error
}

// # Service Layer

// Service orchestrates authoring, publication, and the unlock/access
// algorithm for chapters.
type Service struct {
	chapterRepo ChapterRepository
	accountRepo account.AccountRepository
	readTracker ReadTracker
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its required collaborators.
func NewService(chapterRepo ChapterRepository, accountRepo account.AccountRepository, readTracker ReadTracker, logger *slog.Logger) *Service {
	return &Service{
		chapterRepo: chapterRepo,
		accountRepo: accountRepo,
		readTracker: readTracker,
		logger:      logger,
	}
}

// # Query Operations

/*
ListByVolume retrieves all chapters of a volume ordered by chapter number.

Parameters:
  - context: context.Context
  - volumeID: string (Owner ID)

Returns:
  - []*Chapter: Hydrated chapters in reading order
  - error: Storage or execution errors
*/
func (service *Service) ListByVolume(context context.Context, volumeID string) ([]*Chapter, error) {
	return service.chapterRepo.ListByVolume(context, volumeID)
}

/*
GetChapter retrieves a single chapter aggregate by its ID.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Chapter: The hydrated aggregate with full version history
  - error: apperr.NotFound if missing
*/
func (service *Service) GetChapter(context context.Context, id string) (*Chapter, error) {
	return service.chapterRepo.FindByID(context, id)
}

// # Authoring Operations

// AuthoringInput carries the content fields shared by update and autosave.
type AuthoringInput struct {
	Title        string
	ThumbnailURL string
	Content      string
	Note         string
}

/*
UpdateChapter records a new deliberate draft version.

Parameters:
  - context: context.Context
  - chapterID: string
  - input: AuthoringInput

Returns:
  - *Chapter: The aggregate with the new current version
  - error: Validation, apperr.NotFound, or persistence errors
*/
func (service *Service) UpdateChapter(context context.Context, chapterID string, input AuthoringInput) (*Chapter, error) {
	loadedChapter, err := service.chapterRepo.FindByID(context, chapterID)
	if err != nil {
		return nil, err
	}

	if err := loadedChapter.Update(input.Title, input.ThumbnailURL, input.Content, input.Note, time.Now()); err != nil {
		return nil, err
	}

	if err := service.chapterRepo.Update(context, loadedChapter); err != nil {
		return nil, err
	}

	service.logger.Info("chapter_updated",
		slog.String("chapter_id", loadedChapter.ID),
		slog.String("version_id", loadedChapter.CurrentVersionID),
	)

	return loadedChapter, nil
}

/*
SaveChapter records an autosave version.

Description: Identical to UpdateChapter except the version is flagged as an
autosave and named accordingly.

Parameters:
  - context: context.Context
  - chapterID: string
  - input: AuthoringInput

Returns:
  - *Chapter: The aggregate with the new current version
  - error: Validation, apperr.NotFound, or persistence errors
*/
func (service *Service) SaveChapter(context context.Context, chapterID string, input AuthoringInput) (*Chapter, error) {
	loadedChapter, err := service.chapterRepo.FindByID(context, chapterID)
	if err != nil {
		return nil, err
	}

	if err := loadedChapter.Save(input.Title, input.ThumbnailURL, input.Content, input.Note, time.Now()); err != nil {
		return nil, err
	}

	if err := service.chapterRepo.Update(context, loadedChapter); err != nil {
		return nil, err
	}

	return loadedChapter, nil
}

// # Publication Lifecycle

/*
PublishChapter publishes a chapter immediately.

Description: The author's account is checked for an active publish
restriction before the chapter transitions.

Parameters:
  - context: context.Context
  - authorID: string (The acting author)
  - chapterID: string

Returns:
  - *Chapter: The published aggregate
  - error: apperr.PolicyViolation if the author is restricted,
    apperr.Conflict if already published
*/
func (service *Service) PublishChapter(context context.Context, authorID, chapterID string) (*Chapter, error) {
	return service.publish(context, authorID, chapterID, nil)
}

/*
SchedulePublishChapter publishes a chapter at a future instant.

Description: The chapter is considered "advance" until the wall clock
passes the scheduled time; readers derive that at query time.

Parameters:
  - context: context.Context
  - authorID: string
  - chapterID: string
  - publishAt: time.Time (Must be in the future)

Returns:
  - *Chapter: The scheduled aggregate
  - error: Validation on a past instant, restriction and conflict errors
    as in PublishChapter
*/
func (service *Service) SchedulePublishChapter(context context.Context, authorID, chapterID string, publishAt time.Time) (*Chapter, error) {
	return service.publish(context, authorID, chapterID, &publishAt)
}

func (service *Service) publish(context context.Context, authorID, chapterID string, publishAt *time.Time) (*Chapter, error) {
	now := time.Now()

	author, err := service.accountRepo.FindByID(context, authorID)
	if err != nil {
		return nil, err
	}
	if !author.CanPublish(now) {
		return nil, apperr.PolicyViolation("Publishing is restricted for this account")
	}

	loadedChapter, err := service.chapterRepo.FindByID(context, chapterID)
	if err != nil {
		return nil, err
	}

	if publishAt == nil {
		err = loadedChapter.PublishImmediately(now)
	} else {
		err = loadedChapter.SchedulePublish(*publishAt, now)
	}
	if err != nil {
		return nil, err
	}

	if err := service.chapterRepo.Update(context, loadedChapter); err != nil {
		return nil, err
	}

	service.logger.Info("chapter_published",
		slog.String("chapter_id", loadedChapter.ID),
		slog.String("author_id", authorID),
		slog.Time("published_at", *loadedChapter.PublishedAt),
		slog.Bool("advance", loadedChapter.IsAdvance(now)),
	)

	return loadedChapter, nil
}

/*
UnpublishChapter reverts a published chapter to draft.

Parameters:
  - context: context.Context
  - chapterID: string

Returns:
  - *Chapter: The reverted aggregate (version history intact)
  - error: apperr.Conflict if the chapter is not published
*/
func (service *Service) UnpublishChapter(context context.Context, chapterID string) (*Chapter, error) {
	loadedChapter, err := service.chapterRepo.FindByID(context, chapterID)
	if err != nil {
		return nil, err
	}

	if err := loadedChapter.Unpublish(time.Now()); err != nil {
		return nil, err
	}

	if err := service.chapterRepo.Update(context, loadedChapter); err != nil {
		return nil, err
	}

	service.logger.Info("chapter_unpublished", slog.String("chapter_id", loadedChapter.ID))
	return loadedChapter, nil
}

// # Version History Management

/*
RestoreVersion moves the current pointer back to a historical version.

Parameters:
  - context: context.Context
  - chapterID: string
  - versionID: string

Returns:
  - *Chapter: The aggregate pointing at the restored version
  - error: apperr.NotFound if the version does not exist
*/
func (service *Service) RestoreVersion(context context.Context, chapterID, versionID string) (*Chapter, error) {
	loadedChapter, err := service.chapterRepo.FindByID(context, chapterID)
	if err != nil {
		return nil, err
	}

	if err := loadedChapter.RestoreVersion(versionID, time.Now()); err != nil {
		return nil, err
	}

	if err := service.chapterRepo.Update(context, loadedChapter); err != nil {
		return nil, err
	}

	return loadedChapter, nil
}

/*
RenameVersion changes the display name of a version.

Parameters:
  - context: context.Context
  - chapterID, versionID: string
  - newName: string

Returns:
  - *Chapter: The updated aggregate
  - error: Validation or apperr.NotFound errors
*/
func (service *Service) RenameVersion(context context.Context, chapterID, versionID, newName string) (*Chapter, error) {
	loadedChapter, err := service.chapterRepo.FindByID(context, chapterID)
	if err != nil {
		return nil, err
	}

	if err := loadedChapter.RenameVersion(versionID, newName, time.Now()); err != nil {
		return nil, err
	}

	if err := service.chapterRepo.Update(context, loadedChapter); err != nil {
		return nil, err
	}

	return loadedChapter, nil
}

/*
RemoveVersion deletes a historical version.

Description: Versions referenced by the current or published pointers are
protected and cannot be removed.

Parameters:
  - context: context.Context
  - chapterID, versionID: string

Returns:
  - *Chapter: The aggregate without the removed version
  - error: apperr.NotFound or apperr.Conflict for protected versions
*/
func (service *Service) RemoveVersion(context context.Context, chapterID, versionID string) (*Chapter, error) {
	loadedChapter, err := service.chapterRepo.FindByID(context, chapterID)
	if err != nil {
		return nil, err
	}

	if err := loadedChapter.RemoveVersion(versionID, time.Now()); err != nil {
		return nil, err
	}

	if err := service.chapterRepo.Update(context, loadedChapter); err != nil {
		return nil, err
	}

	return loadedChapter, nil
}

// # Monetization

/*
SetChapterPrice changes the unlock cost of a chapter.

Parameters:
  - context: context.Context
  - chapterID: string
  - price: *int (nil clears the price, making the chapter free)

Returns:
  - *Chapter: The updated aggregate
  - error: Validation on a non-positive price
*/
func (service *Service) SetChapterPrice(context context.Context, chapterID string, price *int) (*Chapter, error) {
	loadedChapter, err := service.chapterRepo.FindByID(context, chapterID)
	if err != nil {
		return nil, err
	}

	if err := loadedChapter.SetPrice(price, time.Now()); err != nil {
		return nil, err
	}

	if err := service.chapterRepo.Update(context, loadedChapter); err != nil {
		return nil, err
	}

	return loadedChapter, nil
}

// # Access Control

/*
UnlockChapter grants a user ownership of a chapter, debiting Kana when the
chapter carries a price.

Description: The check order is fixed: publication state, advance state,
prior ownership, then payment. Paid unlocks debit Coin in full whenever the
Coin balance covers the price, and otherwise debit Gold in full; a single
unlock never splits across currencies. Exactly one Spend ledger entry is
appended per paid unlock, and the grant, the debit, and the entry are
persisted in one aggregate save.

Parameters:
  - context: context.Context
  - userID: string
  - chapterID: string

Returns:
  - error: apperr.Conflict (never published / already unlocked),
    apperr.PolicyViolation (advance chapter),
    apperr.InsufficientBalance (neither currency covers the price),
    or persistence failures
*/
func (service *Service) UnlockChapter(context context.Context, userID, chapterID string) error {
	now := time.Now()

	loadedChapter, err := service.chapterRepo.FindByID(context, chapterID)
	if err != nil {
		return err
	}

	if loadedChapter.PublishedAt == nil {
		return apperr.Conflict("Chapter is not published")
	}
	if loadedChapter.IsAdvance(now) {
		return apperr.PolicyViolation("Chapter is not released yet")
	}

	reader, err := service.accountRepo.FindByID(context, userID)
	if err != nil {
		return err
	}

	if reader.HasUnlocked(chapterID) {
		return apperr.Conflict("Chapter is already unlocked")
	}

	// Free chapters grant ownership without touching the ledger.
	if !loadedChapter.IsFree() {
		price := int64(*loadedChapter.Price)

		currency := wallet.CurrencyCoin
		if !reader.Wallet.CanCover(wallet.CurrencyCoin, price) {
			currency = wallet.CurrencyGold
		}

		entry, err := reader.Wallet.Debit(currency, price, wallet.TypeSpend, "Chapter unlock", &chapterID, now)
		if err != nil {
			return err
		}

		service.logger.Info("chapter_unlock_debited",
			slog.String("user_id", userID),
			slog.String("chapter_id", chapterID),
			slog.String("currency", string(entry.Currency)),
			slog.Int64("amount", entry.Amount),
		)
	}

	if err := reader.GrantChapter(chapterID); err != nil {
		return err
	}

	if err := service.accountRepo.Save(context, reader); err != nil {
		return err
	}

	service.logger.Info("chapter_unlocked",
		slog.String("user_id", userID),
		slog.String("chapter_id", chapterID),
		slog.Bool("free", loadedChapter.IsFree()),
	)

	return nil
}

/*
IsGuestAllowedToReadChapter decides unauthenticated read access.

Description: Pure predicate over an already-loaded chapter set. Paid or
advance-scheduled chapters answer false without erroring; only an unknown
id is an error.

Parameters:
  - chapters: []*Chapter (The candidate set, typically one volume)
  - chapterID: string
  - now: time.Time (Evaluation instant for the advance check)

Returns:
  - bool: True only for free, released chapters
  - error: apperr.NotFound if the id is absent from the set
*/
func (service *Service) IsGuestAllowedToReadChapter(chapters []*Chapter, chapterID string, now time.Time) (bool, error) {
	for _, candidate := range chapters {
		if candidate.ID != chapterID {
			continue
		}
		return candidate.IsReleased(now) && candidate.IsFree(), nil
	}
	return false, apperr.NotFound("Chapter")
}

// # Reader Interactions

/*
RecordChapterRead registers a completed read: bumps the chapter view
counter and, for authenticated readers, the day-scoped mission counter.

Parameters:
  - context: context.Context
  - chapterID: string
  - userID: string (Empty for guests)

Returns:
  - error: Counter persistence failures
*/
func (service *Service) RecordChapterRead(context context.Context, chapterID, userID string) error {
	if err := service.chapterRepo.IncrementViewCount(context, chapterID, 1); err != nil {
		return err
	}

	if userID != "" && service.readTracker != nil {
		if err := service.readTracker.RecordRead(context, userID, time.Now()); err != nil {
			return err
		}
	}

	service.logger.Info("chapter_read",
		slog.String("chapter_id", chapterID),
		slog.String("user_id", userID),
	)

	return nil
}

/*
IngestReadingAnalytic appends a per-period reading sample to a chapter.

Parameters:
  - context: context.Context
  - chapterID: string
  - readCount: int

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (service *Service) IngestReadingAnalytic(context context.Context, chapterID string, readCount int) error {
	loadedChapter, err := service.chapterRepo.FindByID(context, chapterID)
	if err != nil {
		return err
	}

	loadedChapter.AddReadingAnalytic(readCount, time.Now())

	return service.chapterRepo.Update(context, loadedChapter)
}
