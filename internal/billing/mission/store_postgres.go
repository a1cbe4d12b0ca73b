// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mission

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

// missionRepository implements the [MissionRepository] interface using pgx.
type missionRepository struct {
	pool *pgxpool.Pool
}

// NewMissionRepository constructs a PostgreSQL backed mission store.
func NewMissionRepository(pool *pgxpool.Pool) MissionRepository {
	return &missionRepository{pool: pool}
}

/*
ListActive retrieves the missions currently running, easiest first.
*/
func (repository *missionRepository) ListActive(context context.Context) ([]Mission, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = TRUE
		ORDER BY %s ASC
	`,
		schema.BillingMission.ID,
		schema.BillingMission.Title,
		schema.BillingMission.ReadThreshold,
		schema.BillingMission.CoinReward,
		schema.BillingMission.IsActive,
		schema.BillingMission.CreatedAt,
		schema.BillingMission.UpdatedAt,
		schema.BillingMission.Table,
		schema.BillingMission.IsActive,
		schema.BillingMission.ReadThreshold,
	)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list missions: %w", err)
	}
	defer rows.Close()

	var missions []Mission
	for rows.Next() {
		var mission Mission
		err := rows.Scan(
			&mission.ID,
			&mission.Title,
			&mission.ReadThreshold,
			&mission.CoinReward,
			&mission.IsActive,
			&mission.CreatedAt,
			&mission.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan mission: %w", err)
		}
		missions = append(missions, mission)
	}

	return missions, nil
}

/*
FindByID retrieves a single mission regardless of its active flag.
*/
func (repository *missionRepository) FindByID(context context.Context, id string) (*Mission, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.BillingMission.ID,
		schema.BillingMission.Title,
		schema.BillingMission.ReadThreshold,
		schema.BillingMission.CoinReward,
		schema.BillingMission.IsActive,
		schema.BillingMission.CreatedAt,
		schema.BillingMission.UpdatedAt,
		schema.BillingMission.Table,
		schema.BillingMission.ID,
	)

	var mission Mission
	err := repository.pool.QueryRow(context, query, id).Scan(
		&mission.ID,
		&mission.Title,
		&mission.ReadThreshold,
		&mission.CoinReward,
		&mission.IsActive,
		&mission.CreatedAt,
		&mission.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Mission")
		}
		return nil, fmt.Errorf("postgres: failed to find mission: %w", err)
	}

	return &mission, nil
}
