// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mission

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/kanade/internal/billing/wallet"
	"github.com/taibuivan/kanade/internal/platform/constants"
	"github.com/taibuivan/kanade/internal/users/account"
)

// # Service Layer

// Service grants Coin for daily check-ins and read-count missions.
type Service struct {
	missionRepo MissionRepository
	progress    ProgressStore
	accountRepo account.AccountRepository
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its required collaborators.
func NewService(missionRepo MissionRepository, progress ProgressStore, accountRepo account.AccountRepository, logger *slog.Logger) *Service {
	return &Service{
		missionRepo: missionRepo,
		progress:    progress,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// # Check-in

/*
DailyCheckin credits the fixed Coin reward for the first check-in of the
calendar day.

Description: The once-per-day guard lives on the account aggregate, so the
second same-day call conflicts even across two application instances — the
account save serializes through the balance concurrency token.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *wallet.Transaction: The Checkin ledger entry
  - error: CONFLICT if already checked in today
*/
func (service *Service) DailyCheckin(context context.Context, userID string) (*wallet.Transaction, error) {
	reader, err := service.accountRepo.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := reader.RecordCheckin(now); err != nil {
		return nil, err
	}

	entry, err := reader.Wallet.Credit(wallet.CurrencyCoin, constants.DailyCheckinReward, wallet.TypeCheckin, "Daily check-in", nil, now)
	if err != nil {
		return nil, err
	}

	if err := service.accountRepo.Save(context, reader); err != nil {
		return nil, err
	}

	service.logger.Info("daily_checkin",
		slog.String("user_id", userID),
		slog.Int64("coin_reward", entry.Amount),
	)

	return entry, nil
}

// # Missions

/*
CompleteMission claims a mission reward if the user qualifies.

Description: Deliberately quiet: an inactive mission, an unmet read
threshold, or a repeat claim on the same day all return false with no
error, no ledger entry, and no balance change. The completion flag is set
atomically before crediting, so two racing claims cannot both pay out.

Parameters:
  - context: context.Context
  - userID: string
  - missionID: string

Returns:
  - bool: True if the reward was granted
  - error: apperr.NotFound for an unknown mission, or storage failures
*/
func (service *Service) CompleteMission(context context.Context, userID, missionID string) (bool, error) {
	claimed, err := service.missionRepo.FindByID(context, missionID)
	if err != nil {
		return false, err
	}
	if !claimed.IsActive {
		return false, nil
	}

	now := time.Now()

	readCount, err := service.progress.ReadCount(context, userID, now)
	if err != nil {
		return false, err
	}
	if readCount < claimed.ReadThreshold {
		return false, nil
	}

	newlyCompleted, err := service.progress.MarkCompleted(context, userID, missionID, now)
	if err != nil {
		return false, err
	}
	if !newlyCompleted {
		return false, nil
	}

	reader, err := service.accountRepo.FindByID(context, userID)
	if err != nil {
		return false, err
	}

	if _, err := reader.Wallet.Credit(wallet.CurrencyCoin, claimed.CoinReward, wallet.TypeMission, "Mission reward: "+claimed.Title, nil, now); err != nil {
		return false, err
	}

	if err := service.accountRepo.Save(context, reader); err != nil {
		return false, err
	}

	service.logger.Info("mission_completed",
		slog.String("user_id", userID),
		slog.String("mission_id", missionID),
		slog.Int64("coin_reward", claimed.CoinReward),
	)

	return true, nil
}

/*
ListProgress pairs each active mission with the caller's standing today.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []Progress: Active missions with today's read count and completion flag
  - error: Storage failures
*/
func (service *Service) ListProgress(context context.Context, userID string) ([]Progress, error) {
	missions, err := service.missionRepo.ListActive(context)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	readCount, err := service.progress.ReadCount(context, userID, now)
	if err != nil {
		return nil, err
	}

	progress := make([]Progress, 0, len(missions))
	for _, m := range missions {
		completed, err := service.progress.IsCompleted(context, userID, m.ID, now)
		if err != nil {
			return nil, err
		}
		progress = append(progress, Progress{Mission: m, ReadCount: readCount, Completed: completed})
	}

	return progress, nil
}
