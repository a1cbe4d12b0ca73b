// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/kanade/internal/platform/apperr"
	"github.com/taibuivan/kanade/internal/platform/database/schema"
)

// # PostgreSQL Repository

// reportRepository implements the [ReportRepository] interface using pgx.
type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository constructs a PostgreSQL backed report store.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

/*
FindByID retrieves a report by its ID.
*/
func (repository *reportRepository) FindByID(context context.Context, id string) (*Report, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.ModerationReport.ID,
		schema.ModerationReport.ReporterID,
		schema.ModerationReport.TargetUserID,
		schema.ModerationReport.ChapterID,
		schema.ModerationReport.Reason,
		schema.ModerationReport.Status,
		schema.ModerationReport.CreatedAt,
		schema.ModerationReport.Table,
		schema.ModerationReport.ID,
	)

	var filed Report
	err := repository.pool.QueryRow(context, query, id).Scan(
		&filed.ID,
		&filed.ReporterID,
		&filed.TargetUserID,
		&filed.ChapterID,
		&filed.Reason,
		&filed.Status,
		&filed.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Report")
		}
		return nil, fmt.Errorf("postgres: failed to find report: %w", err)
	}

	return &filed, nil
}

/*
ListByStatus retrieves a page of reports in a given state, oldest first.

Description: Uses a window function to compute the total count in the same
round-trip as the page itself.
*/
func (repository *reportRepository) ListByStatus(context context.Context, status ReportStatus, limit, offset int) ([]Report, int, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s,
			COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3
	`,
		schema.ModerationReport.ID,
		schema.ModerationReport.ReporterID,
		schema.ModerationReport.TargetUserID,
		schema.ModerationReport.ChapterID,
		schema.ModerationReport.Reason,
		schema.ModerationReport.Status,
		schema.ModerationReport.CreatedAt,
		schema.ModerationReport.Table,
		schema.ModerationReport.Status,
		schema.ModerationReport.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	var totalCount int

	for rows.Next() {
		var filed Report
		err := rows.Scan(
			&filed.ID,
			&filed.ReporterID,
			&filed.TargetUserID,
			&filed.ChapterID,
			&filed.Reason,
			&filed.Status,
			&filed.CreatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan report: %w", err)
		}
		reports = append(reports, filed)
	}

	return reports, totalCount, nil
}

/*
Create persists a freshly filed report.
*/
func (repository *reportRepository) Create(context context.Context, filed *Report) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		schema.ModerationReport.Table,
		schema.ModerationReport.ID,
		schema.ModerationReport.ReporterID,
		schema.ModerationReport.TargetUserID,
		schema.ModerationReport.ChapterID,
		schema.ModerationReport.Reason,
		schema.ModerationReport.Status,
		schema.ModerationReport.CreatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		filed.ID,
		filed.ReporterID,
		filed.TargetUserID,
		filed.ChapterID,
		filed.Reason,
		filed.Status,
		filed.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to create report: %w", err)
	}

	return nil
}

/*
Update persists a report's status transition.
*/
func (repository *reportRepository) Update(context context.Context, filed *Report) error {

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2
		WHERE %s = $1
	`,
		schema.ModerationReport.Table,
		schema.ModerationReport.Status,
		schema.ModerationReport.ID,
	)

	if _, err := repository.pool.Exec(context, query, filed.ID, filed.Status); err != nil {
		return fmt.Errorf("postgres: failed to update report: %w", err)
	}

	return nil
}
