// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package series_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kanade/internal/catalog/chapter"
	"github.com/taibuivan/kanade/internal/catalog/series"
	"github.com/taibuivan/kanade/internal/platform/apperr"
)

var now = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func newVolume(t *testing.T, chapterCount int) *series.Volume {
	t.Helper()

	s := &series.Series{ID: "s1"}
	volume, err := s.AddNewVolume("Volume One", "", now)
	require.NoError(t, err)

	for i := 0; i < chapterCount; i++ {
		created, err := chapter.New("Chapter", "", "body", "", now)
		require.NoError(t, err)
		volume.AddNewChapter(*created, now)
	}
	return volume
}

// assertDense verifies chapter numbers form exactly the set {1..N}.
func assertDense(t *testing.T, volume *series.Volume) {
	t.Helper()
	for i := range volume.Chapters {
		assert.Equal(t, i+1, volume.Chapters[i].Number)
	}
}

/*
TestVolume_AddNewChapter verifies appended chapters receive the next dense
number and the owning volume's ID.
*/
func TestVolume_AddNewChapter(t *testing.T) {
	volume := newVolume(t, 3)

	assert.Equal(t, 3, volume.ChapterCount())
	assertDense(t, volume)
	for i := range volume.Chapters {
		assert.Equal(t, volume.ID, volume.Chapters[i].VolumeID)
	}
}

/*
TestVolume_RemoveChapter covers the documented scenario: chapters [1,2,3],
removing #1 yields [1,2] with the survivors shifted down, and the next add
assigns #3.
*/
func TestVolume_RemoveChapter(t *testing.T) {
	volume := newVolume(t, 3)
	first := volume.Chapters[0].ID
	second := volume.Chapters[1].ID
	third := volume.Chapters[2].ID

	require.NoError(t, volume.RemoveChapter(first, now))

	require.Equal(t, 2, volume.ChapterCount())
	assert.Equal(t, second, volume.Chapters[0].ID)
	assert.Equal(t, third, volume.Chapters[1].ID)
	assertDense(t, volume)

	created, err := chapter.New("Chapter 4", "", "body", "", now)
	require.NoError(t, err)
	added := volume.AddNewChapter(*created, now)
	assert.Equal(t, 3, added.Number)

	err = volume.RemoveChapter("missing", now)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestVolume_ReorderChapter verifies both directions and the move-to-front
sentinel, with density and relative order preserved for untouched chapters.
*/
func TestVolume_ReorderChapter(t *testing.T) {
	t.Run("move_backward", func(t *testing.T) {
		volume := newVolume(t, 4)
		ids := chapterIDs(volume)

		// Move #4 right after #1: expect [1, 4, 2, 3].
		require.NoError(t, volume.ReorderChapter(ids[3], ids[0], now))

		assert.Equal(t, []string{ids[0], ids[3], ids[1], ids[2]}, chapterIDs(volume))
		assertDense(t, volume)
	})

	t.Run("move_forward", func(t *testing.T) {
		volume := newVolume(t, 4)
		ids := chapterIDs(volume)

		// Move #1 right after #3: expect [2, 3, 1, 4].
		require.NoError(t, volume.ReorderChapter(ids[0], ids[2], now))

		assert.Equal(t, []string{ids[1], ids[2], ids[0], ids[3]}, chapterIDs(volume))
		assertDense(t, volume)
	})

	t.Run("move_to_front", func(t *testing.T) {
		volume := newVolume(t, 3)
		ids := chapterIDs(volume)

		require.NoError(t, volume.ReorderChapter(ids[2], "", now))

		assert.Equal(t, []string{ids[2], ids[0], ids[1]}, chapterIDs(volume))
		assertDense(t, volume)
	})

	t.Run("unknown_ids", func(t *testing.T) {
		volume := newVolume(t, 2)
		ids := chapterIDs(volume)

		err := volume.ReorderChapter("missing", ids[0], now)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

		err = volume.ReorderChapter(ids[0], "missing", now)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

func chapterIDs(volume *series.Volume) []string {
	ids := make([]string, 0, len(volume.Chapters))
	for i := range volume.Chapters {
		ids = append(ids, volume.Chapters[i].ID)
	}
	return ids
}

/*
TestSeries_VolumeOrdering verifies series-level volume management mirrors
chapter ordering one level up.
*/
func TestSeries_VolumeOrdering(t *testing.T) {
	s := &series.Series{ID: "s1"}

	v1, err := s.AddNewVolume("One", "", now)
	require.NoError(t, err)
	v2, err := s.AddNewVolume("Two", "", now)
	require.NoError(t, err)
	v3, err := s.AddNewVolume("Three", "", now)
	require.NoError(t, err)

	assert.Equal(t, 1, v1.Number)
	assert.Equal(t, 3, v3.Number)

	require.NoError(t, s.RemoveVolume(v1.ID, now))
	assert.Equal(t, 1, s.Volumes[0].Number)
	assert.Equal(t, "Two", s.Volumes[0].Name)
	assert.Equal(t, 2, s.Volumes[1].Number)

	require.NoError(t, s.ReorderVolume(v3.ID, "", now))
	assert.Equal(t, "Three", s.Volumes[0].Name)
	assert.Equal(t, 1, s.Volumes[0].Number)
	assert.Equal(t, 2, s.Volumes[1].Number)

	_ = v2
}

/*
TestSeries_AddNewVolume_Validation covers the name and introduction limits.
*/
func TestSeries_AddNewVolume_Validation(t *testing.T) {
	tests := []struct {
		name       string
		volumeName string
		intro      string
		hasError   bool
	}{
		{"valid", "Volume One", "An opening arc.", false},
		{"empty_name", "", "", true},
		{"oversized_name", strings.Repeat("x", 101), "", true},
		{"oversized_intro", "Volume One", strings.Repeat("x", 2001), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &series.Series{ID: "s1"}
			_, err := s.AddNewVolume(tt.volumeName, tt.intro, now)

			if tt.hasError {
				require.Error(t, err)
				assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

/*
TestEvaluateContentRating verifies the worst-case tier mapping and the
category-set validation rules.
*/
func TestEvaluateContentRating(t *testing.T) {
	full := func(violence, profanity, sexual, substance int) []series.CategoryRating {
		return []series.CategoryRating{
			{Category: series.CategoryViolence, Severity: violence},
			{Category: series.CategoryProfanity, Severity: profanity},
			{Category: series.CategorySexual, Severity: sexual},
			{Category: series.CategorySubstanceUse, Severity: substance},
		}
	}

	tests := []struct {
		name    string
		ratings []series.CategoryRating
		want    series.ContentRating
		wantErr bool
	}{
		{"all_zero", full(0, 0, 0, 0), series.RatingAllAges, false},
		{"single_spike_escalates", full(0, 0, 3, 0), series.RatingAdult, false},
		{"max_not_average", full(2, 0, 0, 0), series.RatingMature, false},
		{"teen", full(1, 1, 1, 1), series.RatingTeen, false},
		{"missing_category", full(0, 0, 0, 0)[:3], "", true},
		{"duplicate_category", append(full(0, 0, 0, 0)[:3], series.CategoryRating{Category: series.CategoryViolence, Severity: 1}), "", true},
		{"severity_out_of_range", full(4, 0, 0, 0), "", true},
		{"unknown_category", append(full(0, 0, 0, 0)[:3], series.CategoryRating{Category: "gore", Severity: 1}), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rating, err := series.EvaluateContentRating(tt.ratings)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, rating)
		})
	}
}

/*
TestSeries_DashiFan verifies tier creation rules and deactivation.
*/
func TestSeries_DashiFan(t *testing.T) {
	s := &series.Series{ID: "s1"}

	tier, err := s.AddDashiFan("Early Access", "Read one week ahead", 500, now)
	require.NoError(t, err)
	assert.True(t, tier.IsActive)
	assert.Equal(t, "s1", tier.SeriesID)

	_, err = s.AddDashiFan("", "", 500, now)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	_, err = s.AddDashiFan("Free Tier", "", 0, now)
	require.Error(t, err)

	require.NoError(t, s.UpdateDashiFan(tier.ID, "Early Access+", "Read two weeks ahead", 800, now))
	assert.Equal(t, int64(800), s.DashiFans[0].MonthlyPrice)

	err = s.UpdateDashiFan(tier.ID, "", "", 800, now)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	require.NoError(t, s.DeactivateDashiFan(tier.ID, now))
	assert.False(t, s.DashiFans[0].IsActive)

	require.NoError(t, s.ActivateDashiFan(tier.ID, now))
	assert.True(t, s.DashiFans[0].IsActive)

	err = s.DeactivateDashiFan("missing", now)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
