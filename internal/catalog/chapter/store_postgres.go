// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package chapter provides the PostgreSQL implementation for chapter storage.

The repository follows an "Aggregate" pattern: the chapter row, its version
history, and its analytics samples are loaded and saved through the chapter
repository so the version pointers can never drift from the collection.

  - Batching: Version synchronization uses pgx batches to keep the save to
    a single round-trip per aggregate.
  - ACID Transactions: Row update, version sync, and analytics appends
    commit atomically.
*/
package chapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taibuivan/kanade/internal/platform/apperr"
	"github.com/taibuivan/kanade/internal/platform/database/schema"
	"github.com/taibuivan/kanade/pkg/uuid"
)

// # PostgreSQL Repositories

// chapterRepository implements the [ChapterRepository] interface using pgx.
type chapterRepository struct {
	pool *pgxpool.Pool
}

// NewChapterRepository constructs a PostgreSQL backed chapter store.
func NewChapterRepository(pool *pgxpool.Pool) ChapterRepository {
	return &chapterRepository{pool: pool}
}

// # Chapter Repository Implementation

/*
ListByVolume retrieves all chapters of a volume in reading order.

Description: Loads the chapter rows first, then hydrates every version
history with one additional query over the volume's chapter set.

Parameters:
  - context: context.Context
  - volumeID: string (Owner ID)

Returns:
  - []*Chapter: Chapters ordered by chapter number
  - error: Storage failures
*/
func (repository *chapterRepository) ListByVolume(context context.Context, volumeID string) ([]*Chapter, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC`,
		schema.CatalogChapter.ID, schema.CatalogChapter.VolumeID, schema.CatalogChapter.ChapterNumber,
		schema.CatalogChapter.Price, schema.CatalogChapter.PublishedAt, schema.CatalogChapter.CurrentVersionID,
		schema.CatalogChapter.PublishedVersionID, schema.CatalogChapter.ViewCount,
		schema.CatalogChapter.CreatedAt, schema.CatalogChapter.UpdatedAt,
		schema.CatalogChapter.Table,
		schema.CatalogChapter.VolumeID,
		schema.CatalogChapter.ChapterNumber,
	)

	rows, err := repository.pool.Query(context, query, volumeID)
	if err != nil {
		return nil, fmt.Errorf("postgres_chapter_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var chapters []*Chapter
	byID := make(map[string]*Chapter)
	for rows.Next() {
		loadedChapter := &Chapter{}
		if err := scanChapterRow(rows, loadedChapter); err != nil {
			return nil, err
		}
		chapters = append(chapters, loadedChapter)
		byID[loadedChapter.ID] = loadedChapter
	}
	if len(chapters) == 0 {
		return chapters, nil
	}

	versionQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s IN (SELECT %s FROM %s WHERE %s = $1)
		ORDER BY %s ASC`,
		schema.CatalogChapterVersion.ID, schema.CatalogChapterVersion.ChapterID, schema.CatalogChapterVersion.Title,
		schema.CatalogChapterVersion.ThumbnailURL, schema.CatalogChapterVersion.Content, schema.CatalogChapterVersion.Note,
		schema.CatalogChapterVersion.VersionName, schema.CatalogChapterVersion.Status,
		schema.CatalogChapterVersion.IsAutoSave, schema.CatalogChapterVersion.CreatedAt,
		schema.CatalogChapterVersion.Table,
		schema.CatalogChapterVersion.ChapterID, schema.CatalogChapter.ID, schema.CatalogChapter.Table, schema.CatalogChapter.VolumeID,
		schema.CatalogChapterVersion.CreatedAt,
	)

	versionRows, err := repository.pool.Query(context, versionQuery, volumeID)
	if err != nil {
		return nil, fmt.Errorf("postgres_chapter_repo_list_versions_failed: %w", err)
	}
	defer versionRows.Close()

	for versionRows.Next() {
		var chapterID string
		var version ChapterVersion
		if err := versionRows.Scan(
			&version.ID, &chapterID, &version.Title, &version.ThumbnailURL,
			&version.Content, &version.Note, &version.VersionName, &version.Status,
			&version.IsAutoSave, &version.CreatedAt,
		); err != nil {
			return nil, err
		}
		if owner, ok := byID[chapterID]; ok {
			owner.Versions = append(owner.Versions, version)
		}
	}

	return chapters, nil
}

/*
FindByID retrieves the full chapter aggregate.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Chapter: Aggregate with versions and analytics samples
  - error: apperr.NotFound if missing
*/
func (repository *chapterRepository) FindByID(context context.Context, id string) (*Chapter, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.CatalogChapter.ID, schema.CatalogChapter.VolumeID, schema.CatalogChapter.ChapterNumber,
		schema.CatalogChapter.Price, schema.CatalogChapter.PublishedAt, schema.CatalogChapter.CurrentVersionID,
		schema.CatalogChapter.PublishedVersionID, schema.CatalogChapter.ViewCount,
		schema.CatalogChapter.CreatedAt, schema.CatalogChapter.UpdatedAt,
		schema.CatalogChapter.Table,
		schema.CatalogChapter.ID,
	)

	loadedChapter := &Chapter{}
	row := repository.pool.QueryRow(context, query, id)
	if err := scanChapterRow(row, loadedChapter); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Chapter")
		}
		return nil, fmt.Errorf("postgres_chapter_repo_find_by_id_failed: %w", err)
	}

	versionQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC`,
		schema.CatalogChapterVersion.ID, schema.CatalogChapterVersion.Title, schema.CatalogChapterVersion.ThumbnailURL,
		schema.CatalogChapterVersion.Content, schema.CatalogChapterVersion.Note, schema.CatalogChapterVersion.VersionName,
		schema.CatalogChapterVersion.Status, schema.CatalogChapterVersion.IsAutoSave, schema.CatalogChapterVersion.CreatedAt,
		schema.CatalogChapterVersion.Table,
		schema.CatalogChapterVersion.ChapterID,
		schema.CatalogChapterVersion.CreatedAt,
	)

	versionRows, err := repository.pool.Query(context, versionQuery, id)
	if err != nil {
		return nil, fmt.Errorf("postgres_chapter_repo_load_versions_failed: %w", err)
	}
	defer versionRows.Close()

	for versionRows.Next() {
		var version ChapterVersion
		if err := versionRows.Scan(
			&version.ID, &version.Title, &version.ThumbnailURL, &version.Content,
			&version.Note, &version.VersionName, &version.Status, &version.IsAutoSave,
			&version.CreatedAt,
		); err != nil {
			return nil, err
		}
		loadedChapter.Versions = append(loadedChapter.Versions, version)
	}

	analyticQuery := fmt.Sprintf(`
		SELECT %s, %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
		schema.CatalogReadingAnalytic.ReadCount, schema.CatalogReadingAnalytic.SampledAt,
		schema.CatalogReadingAnalytic.Table,
		schema.CatalogReadingAnalytic.ChapterID,
		schema.CatalogReadingAnalytic.SampledAt,
	)

	analyticRows, err := repository.pool.Query(context, analyticQuery, id)
	if err != nil {
		return nil, fmt.Errorf("postgres_chapter_repo_load_analytics_failed: %w", err)
	}
	defer analyticRows.Close()

	for analyticRows.Next() {
		var sample ReadingAnalytic
		if err := analyticRows.Scan(&sample.ReadCount, &sample.SampledAt); err != nil {
			return nil, err
		}
		loadedChapter.Analytics = append(loadedChapter.Analytics, sample)
	}

	return loadedChapter, nil
}

/*
Create persists a new chapter and its initial version atomically.

Parameters:
  - context: context.Context
  - chapter: *Chapter

Returns:
  - error: Storage failure
*/
func (repository *chapterRepository) Create(context context.Context, chapter *Chapter) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_chapter_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		schema.CatalogChapter.Table,
		schema.CatalogChapter.ID, schema.CatalogChapter.VolumeID, schema.CatalogChapter.ChapterNumber,
		schema.CatalogChapter.Price, schema.CatalogChapter.PublishedAt, schema.CatalogChapter.CurrentVersionID,
		schema.CatalogChapter.PublishedVersionID, schema.CatalogChapter.ViewCount,
		schema.CatalogChapter.CreatedAt, schema.CatalogChapter.UpdatedAt,
	)

	_, err = transaction.Exec(context, insertQuery,
		chapter.ID, chapter.VolumeID, chapter.Number, chapter.Price, chapter.PublishedAt,
		chapter.CurrentVersionID, chapter.PublishedVersionID, chapter.ViewCount,
		chapter.CreatedAt, chapter.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_chapter_repo_create_failed: %w", err)
	}

	batch := &pgx.Batch{}
	for _, version := range chapter.Versions {
		queueVersionUpsert(batch, chapter.ID, version)
	}
	if err := transaction.SendBatch(context, batch).Close(); err != nil {
		return fmt.Errorf("postgres_chapter_repo_create_versions_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_chapter_repo_commit_failed: %w", err)
	}

	return nil
}

/*
Update persists the chapter aggregate in one transaction.

Description: Updates the row, upserts the entire version collection,
removes versions no longer present, and appends new analytics samples.

Parameters:
  - context: context.Context
  - chapter: *Chapter

Returns:
  - error: Update failure
*/
func (repository *chapterRepository) Update(context context.Context, chapter *Chapter) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_chapter_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	updateQuery := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $1`,
		schema.CatalogChapter.Table,
		schema.CatalogChapter.ChapterNumber, schema.CatalogChapter.Price, schema.CatalogChapter.PublishedAt,
		schema.CatalogChapter.CurrentVersionID, schema.CatalogChapter.PublishedVersionID,
		schema.CatalogChapter.UpdatedAt,
		schema.CatalogChapter.ID,
	)

	_, err = transaction.Exec(context, updateQuery,
		chapter.ID, chapter.Number, chapter.Price, chapter.PublishedAt,
		chapter.CurrentVersionID, chapter.PublishedVersionID, chapter.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_chapter_repo_update_failed: %w", err)
	}

	batch := &pgx.Batch{}
	keptIDs := make([]string, 0, len(chapter.Versions))
	for _, version := range chapter.Versions {
		keptIDs = append(keptIDs, version.ID)
		queueVersionUpsert(batch, chapter.ID, version)
	}

	// Versions removed from the aggregate are removed from storage.
	pruneQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s != ALL($2)`,
		schema.CatalogChapterVersion.Table,
		schema.CatalogChapterVersion.ChapterID, schema.CatalogChapterVersion.ID,
	)
	batch.Queue(pruneQuery, chapter.ID, keptIDs)

	analyticQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (%s, %s) DO NOTHING`,
		schema.CatalogReadingAnalytic.Table,
		schema.CatalogReadingAnalytic.ID, schema.CatalogReadingAnalytic.ChapterID,
		schema.CatalogReadingAnalytic.ReadCount, schema.CatalogReadingAnalytic.SampledAt,
		schema.CatalogReadingAnalytic.ChapterID, schema.CatalogReadingAnalytic.SampledAt,
	)
	for _, sample := range chapter.Analytics {
		batch.Queue(analyticQuery, uuid.New(), chapter.ID, sample.ReadCount, sample.SampledAt)
	}

	if err := transaction.SendBatch(context, batch).Close(); err != nil {
		return fmt.Errorf("postgres_chapter_repo_sync_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_chapter_repo_commit_failed: %w", err)
	}

	return nil
}

/*
Delete removes a chapter with its versions and analytics.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - error: Removal failure
*/
func (repository *chapterRepository) Delete(context context.Context, id string) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_chapter_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	batch := &pgx.Batch{}
	batch.Queue(fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CatalogChapterVersion.Table, schema.CatalogChapterVersion.ChapterID), id)
	batch.Queue(fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CatalogReadingAnalytic.Table, schema.CatalogReadingAnalytic.ChapterID), id)
	batch.Queue(fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CatalogChapter.Table, schema.CatalogChapter.ID), id)

	if err := transaction.SendBatch(context, batch).Close(); err != nil {
		return fmt.Errorf("postgres_chapter_repo_delete_failed: %w", err)
	}

	return transaction.Commit(context)
}

/*
IncrementViewCount atomically increments the view counter on a chapter.

Parameters:
  - context: context.Context
  - id: string (UUID)
  - delta: int64

Returns:
  - error: Atomic update failure
*/
func (repository *chapterRepository) IncrementViewCount(context context.Context, id string, delta int64) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + $2 WHERE %s = $1`,
		schema.CatalogChapter.Table,
		schema.CatalogChapter.ViewCount, schema.CatalogChapter.ViewCount,
		schema.CatalogChapter.ID,
	)

	_, err := repository.pool.Exec(context, query, id, delta)
	if err != nil {
		return fmt.Errorf("postgres_chapter_repo_increment_views_failed: %w", err)
	}

	return nil
}

// # Internal Helpers

// scanChapterRow hydrates the chapter row columns shared by list and find.
func scanChapterRow(row pgx.Row, chapter *Chapter) error {
	var publishedAt *time.Time
	err := row.Scan(
		&chapter.ID,
		&chapter.VolumeID,
		&chapter.Number,
		&chapter.Price,
		&publishedAt,
		&chapter.CurrentVersionID,
		&chapter.PublishedVersionID,
		&chapter.ViewCount,
		&chapter.CreatedAt,
		&chapter.UpdatedAt,
	)
	if err != nil {
		return err
	}
	chapter.PublishedAt = publishedAt
	return nil
}

// queueVersionUpsert adds a version upsert to the batch. Only the mutable
// columns (display name, status) change on conflict.
func queueVersionUpsert(batch *pgx.Batch, chapterID string, version ChapterVersion) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s`,
		schema.CatalogChapterVersion.Table,
		schema.CatalogChapterVersion.ID, schema.CatalogChapterVersion.ChapterID, schema.CatalogChapterVersion.Title,
		schema.CatalogChapterVersion.ThumbnailURL, schema.CatalogChapterVersion.Content, schema.CatalogChapterVersion.Note,
		schema.CatalogChapterVersion.VersionName, schema.CatalogChapterVersion.Status,
		schema.CatalogChapterVersion.IsAutoSave, schema.CatalogChapterVersion.CreatedAt,
		schema.CatalogChapterVersion.ID,
		schema.CatalogChapterVersion.VersionName, schema.CatalogChapterVersion.VersionName,
		schema.CatalogChapterVersion.Status, schema.CatalogChapterVersion.Status,
	)

	batch.Queue(query, version.ID, chapterID, version.Title, version.ThumbnailURL,
		version.Content, version.Note, version.VersionName, version.Status,
		version.IsAutoSave, version.CreatedAt)
}
