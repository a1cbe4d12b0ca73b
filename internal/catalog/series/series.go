// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package series models the serialized-fiction catalog hierarchy: a Series
owns ordered Volumes, each Volume owns ordered Chapters, and the series
carries a derived content rating plus its DashiFan subscription tiers.

# Architecture

  - Ordering: Volume numbers and chapter numbers are dense 1..N integers,
    renumbered on every add, remove, or reorder. Ordinals are assigned only
    by the owning aggregate, never by callers.
  - Rating: One CategoryRating per required content category feeds a
    worst-case tier evaluation; the resulting ContentRating is stored on
    the series and recomputed on every rating change.
*/
package series

import (
	"time"

	"github.com/taibuivan/kanade/internal/catalog/chapter"
	"github.com/taibuivan/kanade/internal/platform/apperr"
	"github.com/taibuivan/kanade/internal/platform/constants"
	"github.com/taibuivan/kanade/internal/platform/validate"
	"github.com/taibuivan/kanade/pkg/uuid"
)

// # Domain Enums

// Status represents the publication status of a series.
type Status string

const (
	// StatusOngoing indicates the series is actively updating.
	StatusOngoing Status = "ongoing"

	// StatusCompleted indicates no further volumes are expected.
	StatusCompleted Status = "completed"

	// StatusHiatus indicates the series is paused indefinitely.
	StatusHiatus Status = "hiatus"

	// StatusCancelled indicates the series has been permanently discontinued.
	StatusCancelled Status = "cancelled"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOngoing, StatusCompleted, StatusHiatus, StatusCancelled:
		return true
	}
	return false
}

// Type classifies the kind of written work.
type Type string

const (
	TypeNovel      Type = "novel"
	TypeLightNovel Type = "light_novel"
	TypeShortStory Type = "short_story"
	TypeFanwork    Type = "fanwork"
)

// IsValid reports whether t is a recognised [Type] value.
func (t Type) IsValid() bool {
	switch t {
	case TypeNovel, TypeLightNovel, TypeShortStory, TypeFanwork:
		return true
	}
	return false
}

// # Content Rating

// Category is a content dimension every series must be rated on.
type Category string

const (
	CategoryViolence     Category = "violence"
	CategoryProfanity    Category = "profanity"
	CategorySexual       Category = "sexual_content"
	CategorySubstanceUse Category = "substance_use"
)

// RequiredCategories is the fixed category set a rating submission must
// cover exactly once each.
var RequiredCategories = []Category{
	CategoryViolence,
	CategoryProfanity,
	CategorySexual,
	CategorySubstanceUse,
}

// Severity bounds for a single category rating.
const (
	MinSeverity = 0
	MaxSeverity = 3
)

// CategoryRating is one severity judgement on one content category.
type CategoryRating struct {
	Category Category `json:"category"`
	Severity int      `json:"severity"`
}

// ContentRating is the single derived tier shown to readers.
type ContentRating string

const (
	RatingAllAges ContentRating = "all_ages"
	RatingTeen    ContentRating = "teen"
	RatingMature  ContentRating = "mature"
	RatingAdult   ContentRating = "adult"
)

// ratingTiers maps each severity ceiling to its tier, in ascending order.
// The derived rating is the tier of the worst (maximum) severity.
var ratingTiers = [MaxSeverity + 1]ContentRating{
	RatingAllAges,
	RatingTeen,
	RatingMature,
	RatingAdult,
}

/*
EvaluateContentRating derives the single content-rating tier for a
submitted rating set.

Description: The tier is a worst-case mapping, not an average: any one
category crossing a higher severity escalates the whole series.

Parameters:
  - ratings: []CategoryRating (must cover RequiredCategories exactly once)

Returns:
  - ContentRating: The derived tier
  - error: VALIDATION_ERROR on missing categories, duplicates, unknown
    categories, or out-of-range severities
*/
func EvaluateContentRating(ratings []CategoryRating) (ContentRating, error) {
	validator := &validate.Validator{}
	validator.Custom("ratings", len(ratings) != len(RequiredCategories), "Every content category must be rated exactly once")

	seen := make(map[Category]bool, len(ratings))
	maxSeverity := MinSeverity
	for _, rating := range ratings {
		if !isRequiredCategory(rating.Category) {
			validator.Custom("category", true, "Unknown content category: "+string(rating.Category))
			continue
		}
		if seen[rating.Category] {
			validator.Custom("category", true, "Duplicate content category: "+string(rating.Category))
			continue
		}
		seen[rating.Category] = true

		if rating.Severity < MinSeverity || rating.Severity > MaxSeverity {
			validator.Custom("severity", true, "Severity is out of range")
			continue
		}
		if rating.Severity > maxSeverity {
			maxSeverity = rating.Severity
		}
	}

	if err := validator.Err(); err != nil {
		return "", err
	}

	return ratingTiers[maxSeverity], nil
}

func isRequiredCategory(category Category) bool {
	for _, required := range RequiredCategories {
		if category == required {
			return true
		}
	}
	return false
}

// # Core Entities

// DashiFan is an author-defined subscription tier owned by a series.
// Billing references it; the catalog only defines it.
type DashiFan struct {
	ID           string    `json:"id"`
	SeriesID     string    `json:"series_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	MonthlyPrice int64     `json:"monthly_price"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Volume is an ordered container of chapters inside a series.
//
// It owns its chapters by value; chapter numbers are assigned here and
// always form a dense 1..N sequence.
type Volume struct {
	ID       string `json:"id"`
	SeriesID string `json:"series_id"`

	// Number is the dense ordinal position inside the owning series.
	Number int `json:"number"`

	Name         string `json:"name"`
	Introduction string `json:"introduction,omitempty"`

	// Chapters is ordered by chapter number. Loaded lazily; an empty
	// slice on a hydrated volume means no chapters exist.
	Chapters []chapter.Chapter `json:"chapters,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChapterCount reports the number of owned chapters.
func (volume *Volume) ChapterCount() int {
	return len(volume.Chapters)
}

// Series is the aggregate root of the catalog hierarchy.
type Series struct {
	ID           string `json:"id"`
	OwnerID      string `json:"owner_id"`
	Title        string `json:"title"`
	Synopsis     string `json:"synopsis,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Slug         string `json:"slug"`

	Type   Type   `json:"type"`
	Status Status `json:"status"`

	// CategoryRatings covers RequiredCategories exactly once each;
	// ContentRating is derived from them and kept in sync.
	CategoryRatings []CategoryRating `json:"category_ratings,omitempty"`
	ContentRating   ContentRating    `json:"content_rating"`

	// Volumes is ordered by volume number, dense 1..N.
	Volumes []Volume `json:"volumes,omitempty"`

	DashiFans []DashiFan `json:"dashi_fans,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Volume Chapter Ordering

/*
AddNewChapter appends a chapter to the volume.

Description: The chapter receives number = current chapter count + 1 and
the volume's ID; caller-supplied ordinals are ignored.

Parameters:
  - newChapter: chapter.Chapter (freshly constructed aggregate)
  - now: time.Time

Returns:
  - *chapter.Chapter: The owned copy with its assigned number
*/
func (volume *Volume) AddNewChapter(newChapter chapter.Chapter, now time.Time) *chapter.Chapter {
	newChapter.VolumeID = volume.ID
	newChapter.Number = len(volume.Chapters) + 1

	volume.Chapters = append(volume.Chapters, newChapter)
	volume.UpdatedAt = now
	return &volume.Chapters[len(volume.Chapters)-1]
}

/*
RemoveChapter deletes a chapter and closes the numbering gap.

Description: Every chapter with a higher number shifts down by one, so
numbers remain a dense 1..N sequence.

Returns:
  - error: NOT_FOUND if the chapter is not owned by this volume
*/
func (volume *Volume) RemoveChapter(chapterID string, now time.Time) error {
	index := volume.chapterIndex(chapterID)
	if index == -1 {
		return apperr.NotFound("Chapter")
	}

	volume.Chapters = append(volume.Chapters[:index], volume.Chapters[index+1:]...)
	volume.renumberChapters()
	volume.UpdatedAt = now
	return nil
}

/*
ReorderChapter moves a chapter immediately after another.

Description: afterID = "" moves the chapter to the front. All untouched
chapters keep their relative order; the dense numbering is rebuilt from
the resulting order.

Parameters:
  - movedID: string (The chapter being moved)
  - afterID: string (The chapter it lands after, or "" for the front)
  - now: time.Time

Returns:
  - error: NOT_FOUND if either id does not resolve
*/
func (volume *Volume) ReorderChapter(movedID, afterID string, now time.Time) error {
	from := volume.chapterIndex(movedID)
	if from == -1 {
		return apperr.NotFound("Chapter")
	}

	target := -1 // front
	if afterID != "" {
		target = volume.chapterIndex(afterID)
		if target == -1 {
			return apperr.NotFound("Chapter")
		}
	}

	moved := volume.Chapters[from]
	remaining := append(append([]chapter.Chapter{}, volume.Chapters[:from]...), volume.Chapters[from+1:]...)

	// Re-resolve the anchor in the remaining slice; removing the moved
	// chapter may have shifted it.
	insertAt := 0
	if afterID != "" {
		for i := range remaining {
			if remaining[i].ID == afterID {
				insertAt = i + 1
				break
			}
		}
	}

	reordered := make([]chapter.Chapter, 0, len(volume.Chapters))
	reordered = append(reordered, remaining[:insertAt]...)
	reordered = append(reordered, moved)
	reordered = append(reordered, remaining[insertAt:]...)

	volume.Chapters = reordered
	volume.renumberChapters()
	volume.UpdatedAt = now
	return nil
}

func (volume *Volume) chapterIndex(chapterID string) int {
	for i := range volume.Chapters {
		if volume.Chapters[i].ID == chapterID {
			return i
		}
	}
	return -1
}

// renumberChapters rebuilds the dense 1..N numbering from slice order.
func (volume *Volume) renumberChapters() {
	for i := range volume.Chapters {
		volume.Chapters[i].Number = i + 1
	}
}

// # Series Volume Ordering

/*
AddNewVolume appends a volume to the series.

Description: Mirrors chapter numbering one level up: the volume receives
number = current volume count + 1.

Parameters:
  - name: string (1-100 characters)
  - introduction: string (max 2000 characters)
  - now: time.Time

Returns:
  - *Volume: The owned volume with its assigned number
  - error: VALIDATION_ERROR on malformed input
*/
func (series *Series) AddNewVolume(name, introduction string, now time.Time) (*Volume, error) {
	if err := validateVolume(name, introduction); err != nil {
		return nil, err
	}

	volume := Volume{
		ID:           uuid.New(),
		SeriesID:     series.ID,
		Number:       len(series.Volumes) + 1,
		Name:         name,
		Introduction: introduction,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	series.Volumes = append(series.Volumes, volume)
	series.UpdatedAt = now
	return &series.Volumes[len(series.Volumes)-1], nil
}

/*
RemoveVolume deletes a volume and renumbers the rest densely.

Returns:
  - error: NOT_FOUND if the volume is not owned by this series
*/
func (series *Series) RemoveVolume(volumeID string, now time.Time) error {
	index := series.volumeIndex(volumeID)
	if index == -1 {
		return apperr.NotFound("Volume")
	}

	series.Volumes = append(series.Volumes[:index], series.Volumes[index+1:]...)
	series.renumberVolumes()
	series.UpdatedAt = now
	return nil
}

/*
ReorderVolume moves a volume immediately after another; afterID = ""
moves it to the front. Same contract as [Volume.ReorderChapter].

Returns:
  - error: NOT_FOUND if either id does not resolve
*/
func (series *Series) ReorderVolume(movedID, afterID string, now time.Time) error {
	from := series.volumeIndex(movedID)
	if from == -1 {
		return apperr.NotFound("Volume")
	}
	if afterID != "" && series.volumeIndex(afterID) == -1 {
		return apperr.NotFound("Volume")
	}

	moved := series.Volumes[from]
	remaining := append(append([]Volume{}, series.Volumes[:from]...), series.Volumes[from+1:]...)

	insertAt := 0
	if afterID != "" {
		for i := range remaining {
			if remaining[i].ID == afterID {
				insertAt = i + 1
				break
			}
		}
	}

	reordered := make([]Volume, 0, len(series.Volumes))
	reordered = append(reordered, remaining[:insertAt]...)
	reordered = append(reordered, moved)
	reordered = append(reordered, remaining[insertAt:]...)

	series.Volumes = reordered
	series.renumberVolumes()
	series.UpdatedAt = now
	return nil
}

// Volume returns a pointer to the owned volume with the given ID.
func (series *Series) Volume(volumeID string) (*Volume, bool) {
	index := series.volumeIndex(volumeID)
	if index == -1 {
		return nil, false
	}
	return &series.Volumes[index], true
}

func (series *Series) volumeIndex(volumeID string) int {
	for i := range series.Volumes {
		if series.Volumes[i].ID == volumeID {
			return i
		}
	}
	return -1
}

func (series *Series) renumberVolumes() {
	for i := range series.Volumes {
		series.Volumes[i].Number = i + 1
	}
}

// # Rating Management

/*
ApplyCategoryRatings replaces the series rating set and re-derives the
content-rating tier.

Returns:
  - error: VALIDATION_ERROR from [EvaluateContentRating]
*/
func (series *Series) ApplyCategoryRatings(ratings []CategoryRating, now time.Time) error {
	tier, err := EvaluateContentRating(ratings)
	if err != nil {
		return err
	}

	series.CategoryRatings = ratings
	series.ContentRating = tier
	series.UpdatedAt = now
	return nil
}

// # DashiFan Tiers

/*
AddDashiFan defines a new subscription tier on the series.

Parameters:
  - name: string (required)
  - description: string
  - monthlyPrice: int64 (positive Kana units)
  - now: time.Time

Returns:
  - *DashiFan: The created tier, active by default
  - error: VALIDATION_ERROR on malformed input
*/
func (series *Series) AddDashiFan(name, description string, monthlyPrice int64, now time.Time) (*DashiFan, error) {
	validator := &validate.Validator{}
	validator.Required("name", name)
	validator.Custom("monthly_price", monthlyPrice <= 0, "Monthly price must be positive")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	tier := DashiFan{
		ID:           uuid.New(),
		SeriesID:     series.ID,
		Name:         name,
		Description:  description,
		MonthlyPrice: monthlyPrice,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	series.DashiFans = append(series.DashiFans, tier)
	series.UpdatedAt = now
	return &series.DashiFans[len(series.DashiFans)-1], nil
}

/*
UpdateDashiFan edits a tier's presentation and price. The new price only
applies to renewals after the change.

Parameters:
  - tierID: string
  - name: string (required)
  - description: string
  - monthlyPrice: int64 (positive Kana units)
  - now: time.Time

Returns:
  - error: NOT_FOUND if the tier does not exist,
    VALIDATION_ERROR on malformed input
*/
func (series *Series) UpdateDashiFan(tierID, name, description string, monthlyPrice int64, now time.Time) error {
	validator := &validate.Validator{}
	validator.Required("name", name)
	validator.Custom("monthly_price", monthlyPrice <= 0, "Monthly price must be positive")
	if err := validator.Err(); err != nil {
		return err
	}

	tier, found := series.dashiFan(tierID)
	if !found {
		return apperr.NotFound("DashiFan tier")
	}

	tier.Name = name
	tier.Description = description
	tier.MonthlyPrice = monthlyPrice
	tier.UpdatedAt = now
	series.UpdatedAt = now
	return nil
}

/*
ActivateDashiFan reopens a retired tier for new subscriptions.

Returns:
  - error: NOT_FOUND if the tier does not exist
*/
func (series *Series) ActivateDashiFan(tierID string, now time.Time) error {
	return series.setDashiFanActive(tierID, true, now)
}

/*
DeactivateDashiFan retires a tier without deleting it; existing billing
references stay resolvable.

Returns:
  - error: NOT_FOUND if the tier does not exist
*/
func (series *Series) DeactivateDashiFan(tierID string, now time.Time) error {
	return series.setDashiFanActive(tierID, false, now)
}

func (series *Series) setDashiFanActive(tierID string, active bool, now time.Time) error {
	tier, found := series.dashiFan(tierID)
	if !found {
		return apperr.NotFound("DashiFan tier")
	}

	tier.IsActive = active
	tier.UpdatedAt = now
	series.UpdatedAt = now
	return nil
}

func (series *Series) dashiFan(tierID string) (*DashiFan, bool) {
	for i := range series.DashiFans {
		if series.DashiFans[i].ID == tierID {
			return &series.DashiFans[i], true
		}
	}
	return nil, false
}

// # Internal Helpers

// validateVolume applies the shared volume constraints.
func validateVolume(name, introduction string) error {
	validator := &validate.Validator{}
	validator.Required("name", name)
	validator.MaxLen("name", name, constants.MaxVolumeNameLength)
	validator.MaxLen("introduction", introduction, constants.MaxVolumeIntroLength)
	return validator.Err()
}
