// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kanade/internal/catalog/chapter"
	"github.com/taibuivan/kanade/internal/platform/apperr"
)

var now = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func draftChapter(t *testing.T) *chapter.Chapter {
	t.Helper()
	created, err := chapter.New("Prologue", "", "It was a dark night.", "", now)
	require.NoError(t, err)
	return created
}

/*
TestNew validates construction rules and the initial version.
*/
func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		note     string
		hasError bool
	}{
		{"valid", "Prologue", "first pass", false},
		{"empty_title", "", "", true},
		{"oversized_title", strings.Repeat("x", 256), "", true},
		{"oversized_note", "Prologue", strings.Repeat("x", 2001), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := chapter.New(tt.title, "", "body", tt.note, now)

			if tt.hasError {
				require.Error(t, err)
				assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
				return
			}

			require.NoError(t, err)
			require.Len(t, created.Versions, 1)
			assert.Equal(t, created.Versions[0].ID, created.CurrentVersionID)
			assert.Equal(t, "Draft 1", created.Versions[0].VersionName)
			assert.False(t, created.Versions[0].IsAutoSave)
			assert.Nil(t, created.PublishedAt)
			assert.True(t, created.IsFree())
		})
	}
}

/*
TestChapter_UpdateAndSave verifies every authoring action appends to the
history and moves the current pointer, never rewriting prior versions.
*/
func TestChapter_UpdateAndSave(t *testing.T) {
	c := draftChapter(t)
	firstID := c.CurrentVersionID

	require.NoError(t, c.Update("Prologue", "", "Second draft.", "tightened opening", now.Add(time.Minute)))
	require.Len(t, c.Versions, 2)
	assert.NotEqual(t, firstID, c.CurrentVersionID)
	assert.Equal(t, "Draft 2", c.CurrentVersion().VersionName)

	require.NoError(t, c.Save("Prologue", "", "Second draft, autosaved.", "", now.Add(2*time.Minute)))
	require.Len(t, c.Versions, 3)
	assert.Equal(t, "Autosave 3", c.CurrentVersion().VersionName)
	assert.True(t, c.CurrentVersion().IsAutoSave)

	// History is append-only.
	assert.Equal(t, "It was a dark night.", c.Versions[0].Content)
}

/*
TestChapter_PublishLifecycle covers the publish-once rule, unpublish, and
re-publish after unpublish.
*/
func TestChapter_PublishLifecycle(t *testing.T) {
	c := draftChapter(t)

	require.NoError(t, c.PublishImmediately(now))
	require.NotNil(t, c.PublishedAt)
	assert.Equal(t, now, *c.PublishedAt)
	require.NotNil(t, c.PublishedVersionID)
	assert.Equal(t, c.CurrentVersionID, *c.PublishedVersionID)
	assert.Equal(t, chapter.VersionStatusPublished, c.CurrentVersion().Status)

	// Publishing twice is illegal.
	err := c.PublishImmediately(now.Add(time.Hour))
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	// Unpublish reverts to draft, keeping history.
	require.NoError(t, c.Unpublish(now.Add(time.Hour)))
	assert.Nil(t, c.PublishedAt)
	assert.Nil(t, c.PublishedVersionID)
	assert.Equal(t, chapter.VersionStatusDraft, c.CurrentVersion().Status)
	assert.Len(t, c.Versions, 1)

	// Unpublishing a draft is illegal.
	err = c.Unpublish(now.Add(2 * time.Hour))
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	// A fresh publish after unpublish is legal.
	require.NoError(t, c.PublishImmediately(now.Add(3*time.Hour)))
}

/*
TestChapter_SchedulePublish verifies future-date validation and the derived
advance state flipping as the clock passes the scheduled instant.
*/
func TestChapter_SchedulePublish(t *testing.T) {
	c := draftChapter(t)

	err := c.SchedulePublish(now.Add(-time.Second), now)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	releaseAt := now.Add(48 * time.Hour)
	require.NoError(t, c.SchedulePublish(releaseAt, now))

	// Advance until the release instant passes; never stored, always derived.
	assert.True(t, c.IsAdvance(now))
	assert.False(t, c.IsReleased(now))
	assert.False(t, c.IsAdvance(releaseAt))
	assert.True(t, c.IsReleased(releaseAt.Add(time.Second)))
}

/*
TestChapter_RestoreVersion verifies restoring only moves the current
pointer, without creating a version or touching the published pointer.
*/
func TestChapter_RestoreVersion(t *testing.T) {
	c := draftChapter(t)
	firstID := c.CurrentVersionID

	require.NoError(t, c.Update("Prologue", "", "rewrite", "", now))
	require.NoError(t, c.PublishImmediately(now))
	publishedID := *c.PublishedVersionID

	require.NoError(t, c.RestoreVersion(firstID, now.Add(time.Minute)))
	assert.Equal(t, firstID, c.CurrentVersionID)
	assert.Len(t, c.Versions, 2)
	assert.Equal(t, publishedID, *c.PublishedVersionID)

	err := c.RestoreVersion("missing", now)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestChapter_RemoveVersion verifies the current and published versions are
protected from removal.
*/
func TestChapter_RemoveVersion(t *testing.T) {
	c := draftChapter(t)
	firstID := c.CurrentVersionID

	require.NoError(t, c.PublishImmediately(now))
	require.NoError(t, c.Update("Prologue", "", "post-release fix", "", now))
	secondID := c.CurrentVersionID
	require.NoError(t, c.Update("Prologue", "", "another pass", "", now))

	// firstID is published, secondID is plain history, third is current.
	err := c.RemoveVersion(firstID, now)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	err = c.RemoveVersion(c.CurrentVersionID, now)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	require.NoError(t, c.RemoveVersion(secondID, now))
	assert.Len(t, c.Versions, 2)

	err = c.RemoveVersion(secondID, now)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestChapter_SetPrice verifies nil-means-free and the positive-price rule.
*/
func TestChapter_SetPrice(t *testing.T) {
	c := draftChapter(t)

	price := 30
	require.NoError(t, c.SetPrice(&price, now))
	assert.False(t, c.IsFree())

	zero := 0
	err := c.SetPrice(&zero, now)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	require.NoError(t, c.SetPrice(nil, now))
	assert.True(t, c.IsFree())
}

/*
TestChapter_AddReadingAnalytic verifies samples accumulate alongside the
view counter.
*/
func TestChapter_AddReadingAnalytic(t *testing.T) {
	c := draftChapter(t)

	c.AddReadingAnalytic(120, now)
	c.AddReadingAnalytic(80, now.Add(24*time.Hour))

	assert.Equal(t, int64(200), c.ViewCount)
	require.Len(t, c.Analytics, 2)
	assert.Equal(t, 120, c.Analytics[0].ReadCount)
}
