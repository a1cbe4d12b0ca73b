// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mission_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kanade/internal/billing/mission"
	"github.com/taibuivan/kanade/internal/billing/wallet"
	"github.com/taibuivan/kanade/internal/platform/apperr"
	"github.com/taibuivan/kanade/internal/platform/constants"
	"github.com/taibuivan/kanade/internal/users/account"
)

// # Test Fakes

type fakeMissionRepo struct {
	missions map[string]*mission.Mission
}

func newFakeMissionRepo(missions ...*mission.Mission) *fakeMissionRepo {
	repo := &fakeMissionRepo{missions: make(map[string]*mission.Mission)}
	for _, m := range missions {
		repo.missions[m.ID] = m
	}
	return repo
}

func (repo *fakeMissionRepo) ListActive(_ context.Context) ([]mission.Mission, error) {
	var out []mission.Mission
	for _, m := range repo.missions {
		if m.IsActive {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (repo *fakeMissionRepo) FindByID(_ context.Context, id string) (*mission.Mission, error) {
	m, ok := repo.missions[id]
	if !ok {
		return nil, apperr.NotFound("Mission")
	}
	return m, nil
}

// fakeProgressStore keys reads by user and completions by user+mission,
// ignoring day rollover, which the tests never cross.
type fakeProgressStore struct {
	reads     map[string]int64
	completed map[string]bool
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{
		reads:     make(map[string]int64),
		completed: make(map[string]bool),
	}
}

func (store *fakeProgressStore) RecordRead(_ context.Context, userID string, _ time.Time) error {
	store.reads[userID]++
	return nil
}

func (store *fakeProgressStore) ReadCount(_ context.Context, userID string, _ time.Time) (int64, error) {
	return store.reads[userID], nil
}

func (store *fakeProgressStore) MarkCompleted(_ context.Context, userID, missionID string, _ time.Time) (bool, error) {
	key := userID + ":" + missionID
	if store.completed[key] {
		return false, nil
	}
	store.completed[key] = true
	return true, nil
}

func (store *fakeProgressStore) IsCompleted(_ context.Context, userID, missionID string, _ time.Time) (bool, error) {
	return store.completed[userID+":"+missionID], nil
}

type fakeAccountRepo struct {
	accounts map[string]*account.Account
	saves    int
}

func newFakeAccountRepo(accounts ...*account.Account) *fakeAccountRepo {
	repo := &fakeAccountRepo{accounts: make(map[string]*account.Account)}
	for _, a := range accounts {
		repo.accounts[a.UserID] = a
	}
	return repo
}

func (repo *fakeAccountRepo) FindByID(_ context.Context, userID string) (*account.Account, error) {
	a, ok := repo.accounts[userID]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	return a, nil
}

func (repo *fakeAccountRepo) Save(_ context.Context, a *account.Account) error {
	repo.accounts[a.UserID] = a
	repo.saves++
	return nil
}

func newService(missionRepo mission.MissionRepository, progress mission.ProgressStore, accountRepo account.AccountRepository) *mission.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return mission.NewService(missionRepo, progress, accountRepo, logger)
}

func readerAccount(userID string) *account.Account {
	return &account.Account{
		UserID: userID,
		Wallet: wallet.Wallet{UserID: userID},
	}
}

func readMission(threshold, reward int64) *mission.Mission {
	return &mission.Mission{
		ID:            "mission-1",
		Title:         "Avid Reader",
		ReadThreshold: threshold,
		CoinReward:    reward,
		IsActive:      true,
	}
}

// # Daily Check-in

/*
TestService_DailyCheckin verifies the first check-in of a day credits the
fixed Coin reward with one Checkin ledger entry, and the second conflicts
without touching the balance.
*/
func TestService_DailyCheckin(t *testing.T) {
	reader := readerAccount("user-1")
	accountRepo := newFakeAccountRepo(reader)
	service := newService(newFakeMissionRepo(), newFakeProgressStore(), accountRepo)

	entry, err := service.DailyCheckin(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, wallet.CurrencyCoin, entry.Currency)
	assert.Equal(t, wallet.TypeCheckin, entry.Type)
	assert.Equal(t, int64(constants.DailyCheckinReward), entry.Amount)
	assert.Equal(t, int64(constants.DailyCheckinReward), reader.Wallet.CoinBalance)
	assert.Equal(t, 1, accountRepo.saves)

	_, err = service.DailyCheckin(context.Background(), "user-1")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	assert.Equal(t, int64(constants.DailyCheckinReward), reader.Wallet.CoinBalance)
	assert.Equal(t, 1, accountRepo.saves)
}

// # Mission Completion

/*
TestService_CompleteMission verifies the qualifying path: threshold met,
Coin credited once, and the same-day repeat claim becomes a quiet no-op.
*/
func TestService_CompleteMission(t *testing.T) {
	reader := readerAccount("user-1")
	accountRepo := newFakeAccountRepo(reader)
	progress := newFakeProgressStore()
	service := newService(newFakeMissionRepo(readMission(3, 25)), progress, accountRepo)

	for i := 0; i < 3; i++ {
		require.NoError(t, progress.RecordRead(context.Background(), "user-1", time.Now()))
	}

	granted, err := service.CompleteMission(context.Background(), "user-1", "mission-1")
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, int64(25), reader.Wallet.CoinBalance)
	require.Len(t, reader.Wallet.PendingEntries, 1)
	assert.Equal(t, wallet.TypeMission, reader.Wallet.PendingEntries[0].Type)

	granted, err = service.CompleteMission(context.Background(), "user-1", "mission-1")
	require.NoError(t, err)
	assert.False(t, granted)
	assert.Equal(t, int64(25), reader.Wallet.CoinBalance)
	assert.Equal(t, 1, accountRepo.saves)
}

/*
TestService_CompleteMission_NoOps verifies the quiet paths: inactive
mission and unmet threshold grant nothing, error nothing, and change
nothing.
*/
func TestService_CompleteMission_NoOps(t *testing.T) {
	t.Run("inactive_mission", func(t *testing.T) {
		claimed := readMission(1, 25)
		claimed.IsActive = false
		reader := readerAccount("user-1")
		accountRepo := newFakeAccountRepo(reader)
		progress := newFakeProgressStore()
		service := newService(newFakeMissionRepo(claimed), progress, accountRepo)

		require.NoError(t, progress.RecordRead(context.Background(), "user-1", time.Now()))

		granted, err := service.CompleteMission(context.Background(), "user-1", "mission-1")
		require.NoError(t, err)
		assert.False(t, granted)
		assert.Zero(t, reader.Wallet.CoinBalance)
		assert.Empty(t, reader.Wallet.PendingEntries)
		assert.Zero(t, accountRepo.saves)
	})

	t.Run("threshold_unmet", func(t *testing.T) {
		reader := readerAccount("user-1")
		accountRepo := newFakeAccountRepo(reader)
		progress := newFakeProgressStore()
		service := newService(newFakeMissionRepo(readMission(5, 25)), progress, accountRepo)

		require.NoError(t, progress.RecordRead(context.Background(), "user-1", time.Now()))

		granted, err := service.CompleteMission(context.Background(), "user-1", "mission-1")
		require.NoError(t, err)
		assert.False(t, granted)
		assert.Zero(t, reader.Wallet.CoinBalance)
		assert.Zero(t, accountRepo.saves)
	})

	t.Run("unknown_mission", func(t *testing.T) {
		service := newService(newFakeMissionRepo(), newFakeProgressStore(), newFakeAccountRepo())

		_, err := service.CompleteMission(context.Background(), "user-1", "missing")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

/*
TestService_ListProgress verifies missions are paired with today's read
count and completion flags.
*/
func TestService_ListProgress(t *testing.T) {
	reader := readerAccount("user-1")
	progress := newFakeProgressStore()
	service := newService(newFakeMissionRepo(readMission(2, 25)), progress, newFakeAccountRepo(reader))

	require.NoError(t, progress.RecordRead(context.Background(), "user-1", time.Now()))
	require.NoError(t, progress.RecordRead(context.Background(), "user-1", time.Now()))

	granted, err := service.CompleteMission(context.Background(), "user-1", "mission-1")
	require.NoError(t, err)
	require.True(t, granted)

	listed, err := service.ListProgress(context.Background(), "user-1")
	require.NoError(t, err)

	require.Len(t, listed, 1)
	assert.Equal(t, int64(2), listed[0].ReadCount)
	assert.True(t, listed[0].Completed)
}
