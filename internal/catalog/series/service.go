// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package series

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/kanade/internal/catalog/chapter"
	"github.com/taibuivan/kanade/internal/platform/apperr"
	"github.com/taibuivan/kanade/internal/platform/validate"
	"github.com/taibuivan/kanade/pkg/slice"
	"github.com/taibuivan/kanade/pkg/slug"
	"github.com/taibuivan/kanade/pkg/uuid"
)

const (
	FieldTitle = "title"
	FieldType  = "type"
)

// # Service Layer

// Service orchestrates the catalog hierarchy: series metadata, volume and
// chapter ordering, content ratings, and DashiFan tiers.
type Service struct {
	seriesRepo  SeriesRepository
	chapterRepo chapter.ChapterRepository
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its required repositories.
func NewService(seriesRepo SeriesRepository, chapterRepo chapter.ChapterRepository, logger *slog.Logger) *Service {
	return &Service{
		seriesRepo:  seriesRepo,
		chapterRepo: chapterRepo,
		logger:      logger,
	}
}

// # Series Operations

/*
ListSeries retrieves a page of the catalog.

Parameters:
  - context: context.Context
  - filter: Filter (status, type, text search)
  - limit, offset: int

Returns:
  - []*Series: Matched series without volume hydration
  - int: Total match count
  - error: Storage failures
*/
func (service *Service) ListSeries(context context.Context, filter Filter, limit, offset int) ([]*Series, int, error) {
	return service.seriesRepo.List(context, filter, limit, offset)
}

/*
GetSeries resolves a series by UUID or by its unique URL slug.

Parameters:
  - context: context.Context
  - idOrSlug: string

Returns:
  - *Series: Fully hydrated aggregate (volumes, ratings, tiers)
  - error: apperr.NotFound if missing
*/
func (service *Service) GetSeries(context context.Context, idOrSlug string) (*Series, error) {
	if isUUID(idOrSlug) {
		return service.seriesRepo.FindByID(context, idOrSlug)
	}
	return service.seriesRepo.FindBySlug(context, idOrSlug)
}

/*
CreateSeries registers a new series for an author.

Description: Generates identity and a URL slug from the title and stores
the series with an all-ages default rating until ratings are submitted.

Parameters:
  - context: context.Context
  - newSeries: *Series (Title, Synopsis, Type, OwnerID populated)

Returns:
  - error: Validation or persistence errors
*/
func (service *Service) CreateSeries(context context.Context, newSeries *Series) error {
	if newSeries.ID == "" {
		newSeries.ID = uuid.New()
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, newSeries.Title)
	validator.MaxLen(FieldTitle, newSeries.Title, 255)
	validator.Custom(FieldType, !newSeries.Type.IsValid(), "Unknown series type")
	if err := validator.Err(); err != nil {
		return err
	}

	if newSeries.Slug == "" {
		newSeries.Slug = slug.From(newSeries.Title)
	}
	if newSeries.Status == "" {
		newSeries.Status = StatusOngoing
	}
	if newSeries.ContentRating == "" {
		newSeries.ContentRating = RatingAllAges
	}

	now := time.Now()
	newSeries.CreatedAt = now
	newSeries.UpdatedAt = now

	if err := service.seriesRepo.Create(context, newSeries); err != nil {
		return err
	}

	service.logger.Info("series_created",
		slog.String("series_id", newSeries.ID),
		slog.String("owner_id", newSeries.OwnerID),
		slog.String("slug", newSeries.Slug),
	)

	return nil
}

/*
UpdateSeries applies metadata changes to an existing series.

Parameters:
  - context: context.Context
  - updated: *Series (Hydrated entity with changes)

Returns:
  - error: Validation or persistence errors
*/
func (service *Service) UpdateSeries(context context.Context, updated *Series) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, updated.Title)
	validator.Custom("status", !updated.Status.IsValid(), "Unknown series status")
	if err := validator.Err(); err != nil {
		return err
	}

	updated.UpdatedAt = time.Now()
	return service.seriesRepo.Update(context, updated)
}

/*
DeleteSeries soft-deletes a series from the catalog.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Persistence failures
*/
func (service *Service) DeleteSeries(context context.Context, id string) error {
	if err := service.seriesRepo.SoftDelete(context, id); err != nil {
		return err
	}

	service.logger.Info("series_deleted", slog.String("series_id", id))
	return nil
}

// # Volume Operations

/*
AddVolume appends a volume to a series.

Parameters:
  - context: context.Context
  - seriesID: string
  - name, introduction: string

Returns:
  - *Volume: The created volume with its assigned number
  - error: Validation, apperr.NotFound, or persistence errors
*/
func (service *Service) AddVolume(context context.Context, seriesID, name, introduction string) (*Volume, error) {
	loadedSeries, err := service.seriesRepo.FindByID(context, seriesID)
	if err != nil {
		return nil, err
	}

	volume, err := loadedSeries.AddNewVolume(name, introduction, time.Now())
	if err != nil {
		return nil, err
	}

	if err := service.seriesRepo.Update(context, loadedSeries); err != nil {
		return nil, err
	}

	service.logger.Info("volume_added",
		slog.String("series_id", seriesID),
		slog.String("volume_id", volume.ID),
		slog.Int("number", volume.Number),
	)

	return volume, nil
}

/*
RemoveVolume deletes a volume, its chapters, and renumbers the remainder.

Parameters:
  - context: context.Context
  - seriesID, volumeID: string

Returns:
  - error: apperr.NotFound or persistence errors
*/
func (service *Service) RemoveVolume(context context.Context, seriesID, volumeID string) error {
	loadedSeries, err := service.seriesRepo.FindByID(context, seriesID)
	if err != nil {
		return err
	}

	removed, found := loadedSeries.Volume(volumeID)
	if found {
		chapters, err := service.chapterRepo.ListByVolume(context, removed.ID)
		if err != nil {
			return err
		}
		for _, owned := range chapters {
			if err := service.chapterRepo.Delete(context, owned.ID); err != nil {
				return err
			}
		}
	}

	if err := loadedSeries.RemoveVolume(volumeID, time.Now()); err != nil {
		return err
	}

	if err := service.seriesRepo.Update(context, loadedSeries); err != nil {
		return err
	}

	service.logger.Info("volume_removed",
		slog.String("series_id", seriesID),
		slog.String("volume_id", volumeID),
	)

	return nil
}

/*
ReorderVolume moves a volume immediately after another; an empty afterID
moves it to the front.

Parameters:
  - context: context.Context
  - seriesID, movedID, afterID: string

Returns:
  - error: apperr.NotFound or persistence errors
*/
func (service *Service) ReorderVolume(context context.Context, seriesID, movedID, afterID string) error {
	loadedSeries, err := service.seriesRepo.FindByID(context, seriesID)
	if err != nil {
		return err
	}

	if err := loadedSeries.ReorderVolume(movedID, afterID, time.Now()); err != nil {
		return err
	}

	return service.seriesRepo.Update(context, loadedSeries)
}

// # Chapter Placement

/*
AddChapter creates a chapter inside a volume.

Description: The chapter aggregate is constructed with its initial draft
version; the volume assigns the dense ordinal.

Parameters:
  - context: context.Context
  - seriesID, volumeID: string
  - input: chapter.AuthoringInput

Returns:
  - *chapter.Chapter: The persisted chapter with its number
  - error: Validation, apperr.NotFound, or persistence errors
*/
func (service *Service) AddChapter(context context.Context, seriesID, volumeID string, input chapter.AuthoringInput) (*chapter.Chapter, error) {
	loadedSeries, err := service.seriesRepo.FindByID(context, seriesID)
	if err != nil {
		return nil, err
	}

	volume, err := service.hydratedVolume(context, loadedSeries, volumeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	created, err := chapter.New(input.Title, input.ThumbnailURL, input.Content, input.Note, now)
	if err != nil {
		return nil, err
	}

	owned := volume.AddNewChapter(*created, now)

	if err := service.chapterRepo.Create(context, owned); err != nil {
		return nil, err
	}

	service.logger.Info("chapter_added",
		slog.String("volume_id", volumeID),
		slog.String("chapter_id", owned.ID),
		slog.Int("number", owned.Number),
	)

	return owned, nil
}

/*
RemoveChapter deletes a chapter from its volume and renumbers the rest.

Parameters:
  - context: context.Context
  - seriesID, volumeID, chapterID: string

Returns:
  - error: apperr.NotFound or persistence errors
*/
func (service *Service) RemoveChapter(context context.Context, seriesID, volumeID, chapterID string) error {
	loadedSeries, err := service.seriesRepo.FindByID(context, seriesID)
	if err != nil {
		return err
	}

	volume, err := service.hydratedVolume(context, loadedSeries, volumeID)
	if err != nil {
		return err
	}

	if err := volume.RemoveChapter(chapterID, time.Now()); err != nil {
		return err
	}

	if err := service.chapterRepo.Delete(context, chapterID); err != nil {
		return err
	}

	if err := service.persistChapterNumbers(context, volume); err != nil {
		return err
	}

	service.logger.Info("chapter_removed",
		slog.String("volume_id", volumeID),
		slog.String("chapter_id", chapterID),
	)

	return nil
}

/*
ReorderChapter moves a chapter immediately after another within a volume;
an empty afterID moves it to the front.

Parameters:
  - context: context.Context
  - seriesID, volumeID, movedID, afterID: string

Returns:
  - error: apperr.NotFound or persistence errors
*/
func (service *Service) ReorderChapter(context context.Context, seriesID, volumeID, movedID, afterID string) error {
	loadedSeries, err := service.seriesRepo.FindByID(context, seriesID)
	if err != nil {
		return err
	}

	volume, err := service.hydratedVolume(context, loadedSeries, volumeID)
	if err != nil {
		return err
	}

	if err := volume.ReorderChapter(movedID, afterID, time.Now()); err != nil {
		return err
	}

	return service.persistChapterNumbers(context, volume)
}

// # Rating Operations

/*
ApplyRatings replaces the category rating set and re-derives the tier.

Parameters:
  - context: context.Context
  - seriesID: string
  - ratings: []CategoryRating

Returns:
  - *Series: The series with its new content rating
  - error: Validation, apperr.NotFound, or persistence errors
*/
func (service *Service) ApplyRatings(context context.Context, seriesID string, ratings []CategoryRating) (*Series, error) {
	loadedSeries, err := service.seriesRepo.FindByID(context, seriesID)
	if err != nil {
		return nil, err
	}

	if err := loadedSeries.ApplyCategoryRatings(ratings, time.Now()); err != nil {
		return nil, err
	}

	if err := service.seriesRepo.Update(context, loadedSeries); err != nil {
		return nil, err
	}

	service.logger.Info("series_rated",
		slog.String("series_id", seriesID),
		slog.String("content_rating", string(loadedSeries.ContentRating)),
	)

	return loadedSeries, nil
}

// # DashiFan Operations

/*
AddDashiFan defines a new subscription tier on a series.

Parameters:
  - context: context.Context
  - seriesID: string
  - name, description: string
  - monthlyPrice: int64

Returns:
  - *DashiFan: The created tier
  - error: Validation, apperr.NotFound, or persistence errors
*/
func (service *Service) AddDashiFan(context context.Context, seriesID, name, description string, monthlyPrice int64) (*DashiFan, error) {
	loadedSeries, err := service.seriesRepo.FindByID(context, seriesID)
	if err != nil {
		return nil, err
	}

	tier, err := loadedSeries.AddDashiFan(name, description, monthlyPrice, time.Now())
	if err != nil {
		return nil, err
	}

	if err := service.seriesRepo.Update(context, loadedSeries); err != nil {
		return nil, err
	}

	return tier, nil
}

/*
UpdateDashiFan edits a subscription tier's presentation and price.

Parameters:
  - context: context.Context
  - seriesID, tierID: string
  - name, description: string
  - monthlyPrice: int64

Returns:
  - error: Validation, apperr.NotFound, or persistence errors
*/
func (service *Service) UpdateDashiFan(context context.Context, seriesID, tierID, name, description string, monthlyPrice int64) error {
	loadedSeries, err := service.seriesRepo.FindByID(context, seriesID)
	if err != nil {
		return err
	}

	if err := loadedSeries.UpdateDashiFan(tierID, name, description, monthlyPrice, time.Now()); err != nil {
		return err
	}

	return service.seriesRepo.Update(context, loadedSeries)
}

/*
ActivateDashiFan reopens a retired subscription tier.

Parameters:
  - context: context.Context
  - seriesID, tierID: string

Returns:
  - error: apperr.NotFound or persistence errors
*/
func (service *Service) ActivateDashiFan(context context.Context, seriesID, tierID string) error {
	return service.setDashiFanActive(context, seriesID, tierID, (*Series).ActivateDashiFan)
}

/*
DeactivateDashiFan retires a subscription tier.

Parameters:
  - context: context.Context
  - seriesID, tierID: string

Returns:
  - error: apperr.NotFound or persistence errors
*/
func (service *Service) DeactivateDashiFan(context context.Context, seriesID, tierID string) error {
	return service.setDashiFanActive(context, seriesID, tierID, (*Series).DeactivateDashiFan)
}

func (service *Service) setDashiFanActive(context context.Context, seriesID, tierID string, transition func(*Series, string, time.Time) error) error {
	loadedSeries, err := service.seriesRepo.FindByID(context, seriesID)
	if err != nil {
		return err
	}

	if err := transition(loadedSeries, tierID, time.Now()); err != nil {
		return err
	}

	return service.seriesRepo.Update(context, loadedSeries)
}

// # Internal Helpers

// hydratedVolume resolves a volume on the series and loads its chapters.
func (service *Service) hydratedVolume(context context.Context, loadedSeries *Series, volumeID string) (*Volume, error) {
	volume, found := loadedSeries.Volume(volumeID)
	if !found {
		return nil, apperr.NotFound("Volume")
	}

	chapters, err := service.chapterRepo.ListByVolume(context, volume.ID)
	if err != nil {
		return nil, err
	}

	volume.Chapters = slice.Map(chapters, func(owned *chapter.Chapter) chapter.Chapter {
		return *owned
	})

	return volume, nil
}

// persistChapterNumbers writes the volume's renumbered ordinals back.
func (service *Service) persistChapterNumbers(context context.Context, volume *Volume) error {
	return service.seriesRepo.UpdateChapterNumbers(context, volume.ID, chapterNumbering(volume))
}

// chapterNumbering extracts the id -> number assignment of a volume.
func chapterNumbering(volume *Volume) map[string]int {
	numbering := make(map[string]int, len(volume.Chapters))
	for i := range volume.Chapters {
		numbering[volume.Chapters[i].ID] = volume.Chapters[i].Number
	}
	return numbering
}

// isUUID returns true if the string matches the standard UUID length.
func isUUID(s string) bool {
	return len(s) == 36
}
