// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package chapter defines the authored-content core of the Kanade catalogue.

It manages the full lifecycle of a serialised chapter: drafting, periodic
autosaving, version history, scheduled publication, and monetized unlocking
through the dual Kana currency (Coin/Gold).

Core Responsibility:

  - Versioning: Every authoring action appends an immutable [ChapterVersion];
    history is never rewritten, only extended.
  - Publication: A chapter is published exactly once at a time; a future
    publish timestamp makes it an "advance" chapter until the wall clock
    catches up.
  - Monetization: An optional positive Kana price gates reader access; nil
    means free.

This package acts as the source of truth for chapter state transitions.
*/
package chapter

import (
	"strconv"
	"time"

	"github.com/taibuivan/kanade/internal/platform/apperr"
	"github.com/taibuivan/kanade/internal/platform/constants"
	"github.com/taibuivan/kanade/internal/platform/validate"
	"github.com/taibuivan/kanade/pkg/uuid"
)

// # Domain Enums

// VersionStatus represents the lifecycle status of a single chapter version.
type VersionStatus string

const (
	// VersionStatusDraft indicates authored content not yet visible to readers.
	VersionStatusDraft VersionStatus = "draft"

	// VersionStatusPublished indicates the version currently served to readers.
	VersionStatusPublished VersionStatus = "published"
)

// VersionKind distinguishes deliberate drafts from periodic autosaves when
// deriving the human-readable version name.
type VersionKind string

const (
	// KindDraft marks a version created by an explicit Create/Update action.
	KindDraft VersionKind = "draft"

	// KindSave marks a version created by the editor's periodic autosave.
	KindSave VersionKind = "save"
)

// # Core Entities

// ChapterVersion is an immutable snapshot of authored content.
//
// Only the display name and the status may change after creation, and both
// transitions are performed exclusively by the owning [Chapter].
type ChapterVersion struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	ThumbnailURL string        `json:"thumbnail_url,omitempty"`
	Content      string        `json:"content"`
	Note         string        `json:"note,omitempty"`
	VersionName  string        `json:"version_name"`
	Status       VersionStatus `json:"status"`
	IsAutoSave   bool          `json:"is_auto_save"`
	CreatedAt    time.Time     `json:"created_at"`
}

// ReadingAnalytic is a single per-period reading sample appended by the
// analytics pipeline. Pure accumulation; never validated or rewritten.
type ReadingAnalytic struct {
	ReadCount int       `json:"read_count"`
	SampledAt time.Time `json:"sampled_at"`
}

// Chapter is the aggregate root for a single chapter inside a volume.
//
// It owns its version history by value. The current pointer always resolves
// to a member of Versions; the published pointer is nil until the chapter is
// published and always resolves while set.
type Chapter struct {
	ID       string `json:"id"`
	VolumeID string `json:"volume_id"`

	// Number is the dense ordinal position inside the owning volume,
	// assigned and maintained by the volume — never set directly.
	Number int `json:"number"`

	// Price is the unlock cost in Kana units. nil means free.
	Price *int `json:"price,omitempty"`

	// PublishedAt is nil until the chapter is published. A future value
	// marks the chapter as advance; derive that with [Chapter.IsAdvance]
	// at read time, never persist it.
	PublishedAt *time.Time `json:"published_at,omitempty"`

	CurrentVersionID   string  `json:"current_version_id"`
	PublishedVersionID *string `json:"published_version_id,omitempty"`

	ViewCount int64             `json:"view_count"`
	Analytics []ReadingAnalytic `json:"analytics,omitempty"`

	// Versions is the append-only history, ordered by creation.
	// Invariant: never empty.
	Versions []ChapterVersion `json:"versions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Construction

/*
New creates a chapter with a single draft, non-autosave version.

Parameters:
  - title: string (1-255 characters)
  - thumbnailURL: string (optional reference)
  - content: string (authored body)
  - note: string (optional, max 2000 characters)
  - now: time.Time (injected clock instant)

Returns:
  - *Chapter: The new aggregate with one version
  - error: VALIDATION_ERROR on malformed input
*/
func New(title, thumbnailURL, content, note string, now time.Time) (*Chapter, error) {
	if err := validateAuthoring(title, note); err != nil {
		return nil, err
	}

	chapter := &Chapter{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	chapter.appendVersion(title, thumbnailURL, content, note, KindDraft, false, now)

	return chapter, nil
}

// # Authoring Operations

/*
Update appends a new draft version and makes it current.

Description: The prior current version remains in history; nothing is
deleted. The new version carries a "draft" kind name because it represents
a deliberate authoring action.

Parameters:
  - title, thumbnailURL, content, note: authored fields
  - now: time.Time

Returns:
  - error: VALIDATION_ERROR on malformed input
*/
func (chapter *Chapter) Update(title, thumbnailURL, content, note string, now time.Time) error {
	if err := validateAuthoring(title, note); err != nil {
		return err
	}

	chapter.appendVersion(title, thumbnailURL, content, note, KindDraft, false, now)
	chapter.UpdatedAt = now
	return nil
}

/*
Save appends an autosave version and makes it current.

Description: Identical to [Chapter.Update] except the version is tagged as
an autosave with a "save" kind name, so the editor's periodic snapshots do
not masquerade as reviewable drafts.
*/
func (chapter *Chapter) Save(title, thumbnailURL, content, note string, now time.Time) error {
	if err := validateAuthoring(title, note); err != nil {
		return err
	}

	chapter.appendVersion(title, thumbnailURL, content, note, KindSave, true, now)
	chapter.UpdatedAt = now
	return nil
}

// # Publication Lifecycle

/*
PublishImmediately releases the current version to readers as of now.

Returns:
  - error: CONFLICT if the chapter is already published
*/
func (chapter *Chapter) PublishImmediately(now time.Time) error {
	return chapter.publish(now, now)
}

/*
SchedulePublish releases the current version at a future instant.

The chapter is considered advance until the wall clock passes publishAt.
Effective release state must always be re-derived via [Chapter.IsAdvance];
it is never stored.

Returns:
  - error: VALIDATION_ERROR if publishAt is not in the future,
    CONFLICT if the chapter is already published
*/
func (chapter *Chapter) SchedulePublish(publishAt, now time.Time) error {
	if !publishAt.After(now) {
		return validate.RequiredError("publish_at", "Scheduled publish date must be in the future")
	}
	return chapter.publish(publishAt, now)
}

// publish performs the shared publish-once transition.
func (chapter *Chapter) publish(publishAt, now time.Time) error {
	if chapter.PublishedAt != nil {
		return apperr.Conflict("Chapter is already published")
	}

	current := chapter.mustCurrentVersion()
	current.Status = VersionStatusPublished

	publishedID := current.ID
	chapter.PublishedVersionID = &publishedID
	chapter.PublishedAt = &publishAt
	chapter.UpdatedAt = now
	return nil
}

/*
Unpublish reverts a published chapter to draft state.

Description: Clears the publish timestamp and the published pointer and
flips the current version back to draft. Version history is untouched.

Returns:
  - error: CONFLICT if the chapter is not currently published
*/
func (chapter *Chapter) Unpublish(now time.Time) error {
	if chapter.PublishedAt == nil {
		return apperr.Conflict("Chapter is not published")
	}

	current := chapter.mustCurrentVersion()
	current.Status = VersionStatusDraft

	chapter.PublishedAt = nil
	chapter.PublishedVersionID = nil
	chapter.UpdatedAt = now
	return nil
}

// # Version History Management

/*
RestoreVersion points the current pointer at an existing historical version.

The published pointer is untouched; restoring does not itself publish.

Returns:
  - error: NOT_FOUND if versionID does not exist in the history
*/
func (chapter *Chapter) RestoreVersion(versionID string, now time.Time) error {
	if _, found := chapter.Version(versionID); !found {
		return apperr.NotFound("Chapter version")
	}

	chapter.CurrentVersionID = versionID
	chapter.UpdatedAt = now
	return nil
}

/*
RenameVersion changes the display name of a historical version.

Returns:
  - error: NOT_FOUND if versionID does not exist in the history
*/
func (chapter *Chapter) RenameVersion(versionID, newName string, now time.Time) error {
	version, found := chapter.Version(versionID)
	if !found {
		return apperr.NotFound("Chapter version")
	}

	version.VersionName = newName
	chapter.UpdatedAt = now
	return nil
}

/*
RemoveVersion deletes a historical version from the history.

Description: The current and the published versions are load-bearing and
cannot be removed.

Returns:
  - error: NOT_FOUND if versionID is absent,
    CONFLICT if the target is the current or the published version
*/
func (chapter *Chapter) RemoveVersion(versionID string, now time.Time) error {
	index := -1
	for i := range chapter.Versions {
		if chapter.Versions[i].ID == versionID {
			index = i
			break
		}
	}
	if index == -1 {
		return apperr.NotFound("Chapter version")
	}

	if versionID == chapter.CurrentVersionID {
		return apperr.Conflict("Cannot remove the current version")
	}
	if chapter.PublishedVersionID != nil && versionID == *chapter.PublishedVersionID {
		return apperr.Conflict("Cannot remove the published version")
	}

	chapter.Versions = append(chapter.Versions[:index], chapter.Versions[index+1:]...)
	chapter.UpdatedAt = now
	return nil
}

// # Monetization

/*
SetPrice sets the unlock cost in Kana units.

Passing nil marks the chapter free. A non-nil price must be positive;
zero is not a valid way to express "free".

Returns:
  - error: VALIDATION_ERROR if the price is not positive
*/
func (chapter *Chapter) SetPrice(price *int, now time.Time) error {
	if price != nil && *price <= 0 {
		return validate.RequiredError("price", "Price must be a positive amount of Kana")
	}

	chapter.Price = price
	chapter.UpdatedAt = now
	return nil
}

// IsFree reports whether the chapter carries no unlock cost.
func (chapter *Chapter) IsFree() bool {
	return chapter.Price == nil
}

// # Analytics

// AddReadingAnalytic increments the cumulative view counter and appends a
// timestamped sample. Pure accumulation; no validation.
func (chapter *Chapter) AddReadingAnalytic(readCount int, now time.Time) {
	chapter.ViewCount += int64(readCount)
	chapter.Analytics = append(chapter.Analytics, ReadingAnalytic{
		ReadCount: readCount,
		SampledAt: now,
	})
}

// # Derived State

// IsAdvance reports whether the chapter is published with a future release
// instant. Always computed against the supplied clock; never cached.
func (chapter *Chapter) IsAdvance(now time.Time) bool {
	return chapter.PublishedAt != nil && chapter.PublishedAt.After(now)
}

// IsReleased reports whether the chapter is published and its release
// instant has passed.
func (chapter *Chapter) IsReleased(now time.Time) bool {
	return chapter.PublishedAt != nil && !chapter.PublishedAt.After(now)
}

// Version returns a pointer into the history for the given version ID.
func (chapter *Chapter) Version(versionID string) (*ChapterVersion, bool) {
	for i := range chapter.Versions {
		if chapter.Versions[i].ID == versionID {
			return &chapter.Versions[i], true
		}
	}
	return nil, false
}

// CurrentVersion returns the version the current pointer resolves to.
func (chapter *Chapter) CurrentVersion() *ChapterVersion {
	return chapter.mustCurrentVersion()
}

// mustCurrentVersion resolves the current pointer. The pointer-membership
// invariant makes a miss impossible for aggregates built through this
// package, so a miss panics rather than limping on.
func (chapter *Chapter) mustCurrentVersion() *ChapterVersion {
	version, found := chapter.Version(chapter.CurrentVersionID)
	if !found {
		panic("chapter: current version pointer does not resolve (corrupt aggregate)")
	}
	return version
}

// # Internal Helpers

// appendVersion creates a new draft version, appends it to history, and
// makes it current.
func (chapter *Chapter) appendVersion(title, thumbnailURL, content, note string, kind VersionKind, autoSave bool, now time.Time) {
	version := ChapterVersion{
		ID:           uuid.New(),
		Title:        title,
		ThumbnailURL: thumbnailURL,
		Content:      content,
		Note:         note,
		VersionName:  versionName(kind, len(chapter.Versions)+1),
		Status:       VersionStatusDraft,
		IsAutoSave:   autoSave,
		CreatedAt:    now,
	}

	chapter.Versions = append(chapter.Versions, version)
	chapter.CurrentVersionID = version.ID
}

// versionName derives the default display name for a new version.
func versionName(kind VersionKind, ordinal int) string {
	if kind == KindSave {
		return "Autosave " + strconv.Itoa(ordinal)
	}
	return "Draft " + strconv.Itoa(ordinal)
}

// validateAuthoring applies the shared authoring constraints.
func validateAuthoring(title, note string) error {
	validator := &validate.Validator{}
	validator.Required("title", title)
	validator.MaxLen("title", title, constants.MaxChapterTitleLength)
	validator.MaxLen("note", note, constants.MaxChapterNoteLength)
	return validator.Err()
}
