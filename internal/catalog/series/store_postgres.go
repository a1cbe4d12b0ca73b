// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package series provides the PostgreSQL implementation for the catalog's
data access.

It utilizes advanced Postgres features to keep the hierarchy consistent:
  - Window Functions: Calculates total result counts without a separate
    'COUNT' query.
  - ACID Transactions: Volume sync, rating replacement, and tier upserts
    commit atomically with the series row.
  - Batching: Ordinal rewrites run as one pgx batch per volume.
*/
package series

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taibuivan/kanade/internal/platform/apperr"
	"github.com/taibuivan/kanade/internal/platform/database/schema"
)

// # PostgreSQL Repositories

// seriesRepository implements the [SeriesRepository] interface using pgx.
type seriesRepository struct {
	pool *pgxpool.Pool
}

// NewSeriesRepository constructs a PostgreSQL backed catalog store.
func NewSeriesRepository(pool *pgxpool.Pool) SeriesRepository {
	return &seriesRepository{pool: pool}
}

// # Series Repository Implementation

/*
List retrieves a filtered page of the catalog.

Description: Builds a dynamic WHERE clause and uses COUNT(*) OVER() to
return the total match count in the same round-trip.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit, offset: int

Returns:
  - []*Series: Matched series rows
  - int: Total count matching filters
  - error: Database execution errors
*/
func (repository *seriesRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Series, int, error) {

	// Query build initialization
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(`
		SELECT
			s.id, s.ownerid, s.title, s.synopsis, s.thumbnailurl, s.slug,
			s.type, s.status, s.contentrating, s.createdat, s.updatedat,
			COUNT(*) OVER() AS total_count
		FROM catalog.series s
		WHERE s.deletedat IS NULL
	`)

	// Apply Filters (Dynamic WHERE clause construction)
	if filter.OwnerID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND s.ownerid = $%d", argID))
		args = append(args, filter.OwnerID)
		argID++
	}

	if len(filter.Status) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND s.status = ANY($%d)", argID))
		args = append(args, filter.Status)
		argID++
	}

	if len(filter.Type) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND s.type = ANY($%d)", argID))
		args = append(args, filter.Type)
		argID++
	}

	// Text Search Filtering
	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (s.title ILIKE '%%' || $%d || '%%' OR s.synopsis ILIKE '%%' || $%d || '%%')", argID, argID))
		args = append(args, filter.Search)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY s.updatedat DESC LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_series_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var (
		matches []*Series
		total   int
	)
	for rows.Next() {
		loadedSeries := &Series{}
		if err := rows.Scan(
			&loadedSeries.ID, &loadedSeries.OwnerID, &loadedSeries.Title, &loadedSeries.Synopsis,
			&loadedSeries.ThumbnailURL, &loadedSeries.Slug, &loadedSeries.Type, &loadedSeries.Status,
			&loadedSeries.ContentRating, &loadedSeries.CreatedAt, &loadedSeries.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, err
		}
		matches = append(matches, loadedSeries)
	}

	return matches, total, nil
}

/*
FindByID retrieves the full series aggregate by UUID.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Series: Hydrated aggregate (volumes, ratings, tiers)
  - error: apperr.NotFound if missing
*/
func (repository *seriesRepository) FindByID(context context.Context, id string) (*Series, error) {
	return repository.findOne(context, schema.CatalogSeries.ID, id)
}

/*
FindBySlug retrieves the full series aggregate by URL slug.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Series: Hydrated aggregate
  - error: apperr.NotFound if missing
*/
func (repository *seriesRepository) FindBySlug(context context.Context, slug string) (*Series, error) {
	return repository.findOne(context, schema.CatalogSeries.Slug, slug)
}

func (repository *seriesRepository) findOne(context context.Context, column, value string) (*Series, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL`,
		schema.CatalogSeries.ID, schema.CatalogSeries.OwnerID, schema.CatalogSeries.Title,
		schema.CatalogSeries.Synopsis, schema.CatalogSeries.ThumbnailURL, schema.CatalogSeries.Slug,
		schema.CatalogSeries.Type, schema.CatalogSeries.Status, schema.CatalogSeries.ContentRating,
		schema.CatalogSeries.CreatedAt, schema.CatalogSeries.UpdatedAt,
		schema.CatalogSeries.Table,
		column, schema.CatalogSeries.DeletedAt,
	)

	loadedSeries := &Series{}
	err := repository.pool.QueryRow(context, query, value).Scan(
		&loadedSeries.ID, &loadedSeries.OwnerID, &loadedSeries.Title, &loadedSeries.Synopsis,
		&loadedSeries.ThumbnailURL, &loadedSeries.Slug, &loadedSeries.Type, &loadedSeries.Status,
		&loadedSeries.ContentRating, &loadedSeries.CreatedAt, &loadedSeries.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Series")
		}
		return nil, fmt.Errorf("postgres_series_repo_find_failed: %w", err)
	}

	if err := repository.hydrate(context, loadedSeries); err != nil {
		return nil, err
	}

	return loadedSeries, nil
}

// hydrate loads volumes, category ratings, and DashiFan tiers.
func (repository *seriesRepository) hydrate(context context.Context, loadedSeries *Series) error {
	volumeQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC`,
		schema.CatalogVolume.ID, schema.CatalogVolume.SeriesID, schema.CatalogVolume.VolumeNumber,
		schema.CatalogVolume.Name, schema.CatalogVolume.Introduction,
		schema.CatalogVolume.CreatedAt, schema.CatalogVolume.UpdatedAt,
		schema.CatalogVolume.Table,
		schema.CatalogVolume.SeriesID,
		schema.CatalogVolume.VolumeNumber,
	)

	volumeRows, err := repository.pool.Query(context, volumeQuery, loadedSeries.ID)
	if err != nil {
		return fmt.Errorf("postgres_series_repo_load_volumes_failed: %w", err)
	}
	defer volumeRows.Close()

	for volumeRows.Next() {
		var volume Volume
		if err := volumeRows.Scan(
			&volume.ID, &volume.SeriesID, &volume.Number, &volume.Name,
			&volume.Introduction, &volume.CreatedAt, &volume.UpdatedAt,
		); err != nil {
			return err
		}
		loadedSeries.Volumes = append(loadedSeries.Volumes, volume)
	}

	ratingQuery := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1`,
		schema.CatalogCategoryRating.Category, schema.CatalogCategoryRating.Severity,
		schema.CatalogCategoryRating.Table, schema.CatalogCategoryRating.SeriesID,
	)

	ratingRows, err := repository.pool.Query(context, ratingQuery, loadedSeries.ID)
	if err != nil {
		return fmt.Errorf("postgres_series_repo_load_ratings_failed: %w", err)
	}
	defer ratingRows.Close()

	for ratingRows.Next() {
		var rating CategoryRating
		if err := ratingRows.Scan(&rating.Category, &rating.Severity); err != nil {
			return err
		}
		loadedSeries.CategoryRatings = append(loadedSeries.CategoryRatings, rating)
	}

	tierQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC`,
		schema.CatalogDashiFan.ID, schema.CatalogDashiFan.SeriesID, schema.CatalogDashiFan.Name,
		schema.CatalogDashiFan.Description, schema.CatalogDashiFan.MonthlyPrice, schema.CatalogDashiFan.IsActive,
		schema.CatalogDashiFan.CreatedAt, schema.CatalogDashiFan.UpdatedAt,
		schema.CatalogDashiFan.Table,
		schema.CatalogDashiFan.SeriesID,
		schema.CatalogDashiFan.CreatedAt,
	)

	tierRows, err := repository.pool.Query(context, tierQuery, loadedSeries.ID)
	if err != nil {
		return fmt.Errorf("postgres_series_repo_load_tiers_failed: %w", err)
	}
	defer tierRows.Close()

	for tierRows.Next() {
		var tier DashiFan
		if err := tierRows.Scan(
			&tier.ID, &tier.SeriesID, &tier.Name, &tier.Description,
			&tier.MonthlyPrice, &tier.IsActive, &tier.CreatedAt, &tier.UpdatedAt,
		); err != nil {
			return err
		}
		loadedSeries.DashiFans = append(loadedSeries.DashiFans, tier)
	}

	return nil
}

/*
Create persists a new series row.

Parameters:
  - context: context.Context
  - series: *Series

Returns:
  - error: Constraint violations or connectivity errors
*/
func (repository *seriesRepository) Create(context context.Context, series *Series) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		schema.CatalogSeries.Table,
		schema.CatalogSeries.ID, schema.CatalogSeries.OwnerID, schema.CatalogSeries.Title,
		schema.CatalogSeries.Synopsis, schema.CatalogSeries.ThumbnailURL, schema.CatalogSeries.Slug,
		schema.CatalogSeries.Type, schema.CatalogSeries.Status, schema.CatalogSeries.ContentRating,
		schema.CatalogSeries.CreatedAt, schema.CatalogSeries.UpdatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		series.ID, series.OwnerID, series.Title, series.Synopsis, series.ThumbnailURL,
		series.Slug, series.Type, series.Status, series.ContentRating,
		series.CreatedAt, series.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_series_repo_create_failed: %w", err)
	}

	return nil
}

/*
Update persists the aggregate in one transaction.

Description: Updates the series row, upserts every owned volume and
removes rows dropped from the aggregate, replaces the rating set, and
upserts DashiFan tiers.

Parameters:
  - context: context.Context
  - series: *Series

Returns:
  - error: Update failure
*/
func (repository *seriesRepository) Update(context context.Context, series *Series) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_series_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	rowQuery := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8
		WHERE %s = $1 AND %s IS NULL`,
		schema.CatalogSeries.Table,
		schema.CatalogSeries.Title, schema.CatalogSeries.Synopsis, schema.CatalogSeries.ThumbnailURL,
		schema.CatalogSeries.Type, schema.CatalogSeries.Status, schema.CatalogSeries.ContentRating,
		schema.CatalogSeries.UpdatedAt,
		schema.CatalogSeries.ID, schema.CatalogSeries.DeletedAt,
	)

	_, err = transaction.Exec(context, rowQuery,
		series.ID, series.Title, series.Synopsis, series.ThumbnailURL,
		series.Type, series.Status, series.ContentRating, series.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_series_repo_update_failed: %w", err)
	}

	batch := &pgx.Batch{}

	// Volume synchronization: upsert all, prune the rest.
	volumeUpsert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s`,
		schema.CatalogVolume.Table,
		schema.CatalogVolume.ID, schema.CatalogVolume.SeriesID, schema.CatalogVolume.VolumeNumber,
		schema.CatalogVolume.Name, schema.CatalogVolume.Introduction,
		schema.CatalogVolume.CreatedAt, schema.CatalogVolume.UpdatedAt,
		schema.CatalogVolume.ID,
		schema.CatalogVolume.VolumeNumber, schema.CatalogVolume.VolumeNumber,
		schema.CatalogVolume.Name, schema.CatalogVolume.Name,
		schema.CatalogVolume.Introduction, schema.CatalogVolume.Introduction,
		schema.CatalogVolume.UpdatedAt, schema.CatalogVolume.UpdatedAt,
	)

	keptVolumes := make([]string, 0, len(series.Volumes))
	for i := range series.Volumes {
		volume := &series.Volumes[i]
		keptVolumes = append(keptVolumes, volume.ID)
		batch.Queue(volumeUpsert, volume.ID, series.ID, volume.Number, volume.Name,
			volume.Introduction, volume.CreatedAt, volume.UpdatedAt)
	}
	batch.Queue(fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s != ALL($2)`,
		schema.CatalogVolume.Table, schema.CatalogVolume.SeriesID, schema.CatalogVolume.ID),
		series.ID, keptVolumes)

	// Rating replacement: full delete-and-insert; the set is tiny and fixed.
	batch.Queue(fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CatalogCategoryRating.Table, schema.CatalogCategoryRating.SeriesID), series.ID)
	ratingInsert := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
		schema.CatalogCategoryRating.Table,
		schema.CatalogCategoryRating.SeriesID, schema.CatalogCategoryRating.Category,
		schema.CatalogCategoryRating.Severity,
	)
	for _, rating := range series.CategoryRatings {
		batch.Queue(ratingInsert, series.ID, rating.Category, rating.Severity)
	}

	// Tier upserts. Tiers are never deleted, only deactivated.
	tierUpsert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s`,
		schema.CatalogDashiFan.Table,
		schema.CatalogDashiFan.ID, schema.CatalogDashiFan.SeriesID, schema.CatalogDashiFan.Name,
		schema.CatalogDashiFan.Description, schema.CatalogDashiFan.MonthlyPrice, schema.CatalogDashiFan.IsActive,
		schema.CatalogDashiFan.CreatedAt, schema.CatalogDashiFan.UpdatedAt,
		schema.CatalogDashiFan.ID,
		schema.CatalogDashiFan.Name, schema.CatalogDashiFan.Name,
		schema.CatalogDashiFan.Description, schema.CatalogDashiFan.Description,
		schema.CatalogDashiFan.MonthlyPrice, schema.CatalogDashiFan.MonthlyPrice,
		schema.CatalogDashiFan.IsActive, schema.CatalogDashiFan.IsActive,
		schema.CatalogDashiFan.UpdatedAt, schema.CatalogDashiFan.UpdatedAt,
	)
	for _, tier := range series.DashiFans {
		batch.Queue(tierUpsert, tier.ID, series.ID, tier.Name, tier.Description,
			tier.MonthlyPrice, tier.IsActive, tier.CreatedAt, tier.UpdatedAt)
	}

	if err := transaction.SendBatch(context, batch).Close(); err != nil {
		return fmt.Errorf("postgres_series_repo_sync_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_series_repo_commit_failed: %w", err)
	}

	return nil
}

/*
UpdateChapterNumbers rewrites chapter ordinals for one volume atomically.

Parameters:
  - context: context.Context
  - volumeID: string
  - numbering: map[string]int (chapter id -> new ordinal)

Returns:
  - error: Update failure
*/
func (repository *seriesRepository) UpdateChapterNumbers(context context.Context, volumeID string, numbering map[string]int) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_series_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`UPDATE %s SET %s = $3, %s = $4 WHERE %s = $1 AND %s = $2`,
		schema.CatalogChapter.Table,
		schema.CatalogChapter.ChapterNumber, schema.CatalogChapter.UpdatedAt,
		schema.CatalogChapter.ID, schema.CatalogChapter.VolumeID,
	)

	batch := &pgx.Batch{}
	now := time.Now()
	for chapterID, number := range numbering {
		batch.Queue(query, chapterID, volumeID, number, now)
	}

	if err := transaction.SendBatch(context, batch).Close(); err != nil {
		return fmt.Errorf("postgres_series_repo_renumber_failed: %w", err)
	}

	return transaction.Commit(context)
}

/*
SoftDelete flags a series as logically removed.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Execution failures
*/
func (repository *seriesRepository) SoftDelete(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1`,
		schema.CatalogSeries.Table, schema.CatalogSeries.DeletedAt, schema.CatalogSeries.ID)
	_, err := repository.pool.Exec(context, query, id)
	return err
}
