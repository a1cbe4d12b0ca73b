// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kanade/internal/billing/wallet"
	"github.com/taibuivan/kanade/internal/catalog/chapter"
	"github.com/taibuivan/kanade/internal/platform/apperr"
	"github.com/taibuivan/kanade/internal/users/account"
)

// # Test Fakes

type fakeChapterRepo struct {
	chapters map[string]*chapter.Chapter
}

func newFakeChapterRepo(chapters ...*chapter.Chapter) *fakeChapterRepo {
	repo := &fakeChapterRepo{chapters: make(map[string]*chapter.Chapter)}
	for _, c := range chapters {
		repo.chapters[c.ID] = c
	}
	return repo
}

func (repo *fakeChapterRepo) ListByVolume(_ context.Context, volumeID string) ([]*chapter.Chapter, error) {
	var out []*chapter.Chapter
	for _, c := range repo.chapters {
		if c.VolumeID == volumeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (repo *fakeChapterRepo) FindByID(_ context.Context, id string) (*chapter.Chapter, error) {
	c, ok := repo.chapters[id]
	if !ok {
		return nil, apperr.NotFound("Chapter")
	}
	return c, nil
}

func (repo *fakeChapterRepo) Create(_ context.Context, c *chapter.Chapter) error {
	repo.chapters[c.ID] = c
	return nil
}

func (repo *fakeChapterRepo) Update(_ context.Context, c *chapter.Chapter) error {
	repo.chapters[c.ID] = c
	return nil
}

func (repo *fakeChapterRepo) Delete(_ context.Context, id string) error {
	delete(repo.chapters, id)
	return nil
}

func (repo *fakeChapterRepo) IncrementViewCount(_ context.Context, id string, delta int64) error {
	if c, ok := repo.chapters[id]; ok {
		c.ViewCount += delta
	}
	return nil
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

func newService(chapterRepo chapter.ChapterRepository, accountRepo account.AccountRepository) *chapter.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return chapter.NewService(chapterRepo, accountRepo, nil, logger)
}

func readerAccount(userID string, coin, gold int64) *account.Account {
	return &account.Account{
		UserID: userID,
		Wallet: wallet.Wallet{UserID: userID, CoinBalance: coin, GoldBalance: gold},
	}
}

func publishedChapter(t *testing.T, price *int) *chapter.Chapter {
	t.Helper()
	c := draftChapter(t)
	require.NoError(t, c.SetPrice(price, now))
	require.NoError(t, c.PublishImmediately(now))
	return c
}

// # Unlock Algorithm

/*
TestService_UnlockChapter_Free verifies free unlocks grant ownership with
no ledger entry.
*/
func TestService_UnlockChapter_Free(t *testing.T) {
	c := publishedChapter(t, nil)
	reader := readerAccount("u1", 0, 0)
	accountRepo := newFakeAccountRepo(reader)
	service := newService(newFakeChapterRepo(c), accountRepo)

	require.NoError(t, service.UnlockChapter(context.Background(), "u1", c.ID))

	assert.True(t, reader.HasUnlocked(c.ID))
	assert.Empty(t, reader.Wallet.PendingEntries)
	assert.Equal(t, 1, accountRepo.saves)
}

/*
TestService_UnlockChapter_CoinFirst verifies the Coin balance is debited in
full whenever it covers the price, even when Gold also could.
*/
func TestService_UnlockChapter_CoinFirst(t *testing.T) {
	price := 30
	c := publishedChapter(t, &price)
	reader := readerAccount("u1", 50, 1000)
	service := newService(newFakeChapterRepo(c), newFakeAccountRepo(reader))

	require.NoError(t, service.UnlockChapter(context.Background(), "u1", c.ID))

	assert.Equal(t, int64(20), reader.Wallet.CoinBalance)
	assert.Equal(t, int64(1000), reader.Wallet.GoldBalance)

	require.Len(t, reader.Wallet.PendingEntries, 1)
	entry := reader.Wallet.PendingEntries[0]
	assert.Equal(t, wallet.CurrencyCoin, entry.Currency)
	assert.Equal(t, wallet.TypeSpend, entry.Type)
	assert.Equal(t, int64(-30), entry.Amount)
	require.NotNil(t, entry.ChapterID)
	assert.Equal(t, c.ID, *entry.ChapterID)
}

/*
TestService_UnlockChapter_GoldFallback covers the documented scenario:
Coin=0, Gold=1000, price=30 debits Gold to 970 with one Spend entry.
*/
func TestService_UnlockChapter_GoldFallback(t *testing.T) {
	price := 30
	c := publishedChapter(t, &price)
	reader := readerAccount("u1", 0, 1000)
	service := newService(newFakeChapterRepo(c), newFakeAccountRepo(reader))

	require.NoError(t, service.UnlockChapter(context.Background(), "u1", c.ID))

	assert.Equal(t, int64(970), reader.Wallet.GoldBalance)
	require.Len(t, reader.Wallet.PendingEntries, 1)
	assert.Equal(t, wallet.CurrencyGold, reader.Wallet.PendingEntries[0].Currency)
	assert.Equal(t, int64(-30), reader.Wallet.PendingEntries[0].Amount)
}

/*
TestService_UnlockChapter_NoSplit verifies the algorithm never splits a
price across currencies: Coin=20, Gold=20, price=30 must fail even though
the combined balance covers it.
*/
func TestService_UnlockChapter_NoSplit(t *testing.T) {
	price := 30
	c := publishedChapter(t, &price)
	reader := readerAccount("u1", 20, 20)
	accountRepo := newFakeAccountRepo(reader)
	service := newService(newFakeChapterRepo(c), accountRepo)

	err := service.UnlockChapter(context.Background(), "u1", c.ID)
	require.Error(t, err)
	assert.Equal(t, "INSUFFICIENT_BALANCE", apperr.As(err).Code)

	// Failed unlocks leave everything untouched.
	assert.Equal(t, int64(20), reader.Wallet.CoinBalance)
	assert.Equal(t, int64(20), reader.Wallet.GoldBalance)
	assert.False(t, reader.HasUnlocked(c.ID))
	assert.Zero(t, accountRepo.saves)
}

/*
TestService_UnlockChapter_Guards verifies the ordered guard chain: never
published, advance, and already unlocked.
*/
func TestService_UnlockChapter_Guards(t *testing.T) {
	t.Run("never_published", func(t *testing.T) {
		c := draftChapter(t)
		service := newService(newFakeChapterRepo(c), newFakeAccountRepo(readerAccount("u1", 0, 0)))

		err := service.UnlockChapter(context.Background(), "u1", c.ID)
		require.Error(t, err)
		assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	})

	t.Run("advance", func(t *testing.T) {
		c := draftChapter(t)
		require.NoError(t, c.SchedulePublish(time.Now().Add(48*time.Hour), time.Now()))
		service := newService(newFakeChapterRepo(c), newFakeAccountRepo(readerAccount("u1", 0, 0)))

		err := service.UnlockChapter(context.Background(), "u1", c.ID)
		require.Error(t, err)
		assert.Equal(t, "POLICY_VIOLATION", apperr.As(err).Code)
	})

	t.Run("already_unlocked", func(t *testing.T) {
		c := publishedChapter(t, nil)
		reader := readerAccount("u1", 0, 0)
		require.NoError(t, reader.GrantChapter(c.ID))
		service := newService(newFakeChapterRepo(c), newFakeAccountRepo(reader))

		err := service.UnlockChapter(context.Background(), "u1", c.ID)
		require.Error(t, err)
		assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	})

	t.Run("unknown_chapter", func(t *testing.T) {
		service := newService(newFakeChapterRepo(), newFakeAccountRepo(readerAccount("u1", 0, 0)))

		err := service.UnlockChapter(context.Background(), "u1", "missing")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

// # Guest Access

/*
TestService_IsGuestAllowedToReadChapter verifies the guest predicate:
true only for free, released chapters; false (without error) for paid or
advance chapters; NotFound for unknown ids.
*/
func TestService_IsGuestAllowedToReadChapter(t *testing.T) {
	evalAt := time.Now()
	price := 10

	free := publishedChapter(t, nil)
	paid := publishedChapter(t, &price)
	advance := draftChapter(t)
	require.NoError(t, advance.SchedulePublish(evalAt.Add(time.Hour), evalAt))

	chapters := []*chapter.Chapter{free, paid, advance}
	service := newService(newFakeChapterRepo(chapters...), newFakeAccountRepo())

	allowed, err := service.IsGuestAllowedToReadChapter(chapters, free.ID, evalAt)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = service.IsGuestAllowedToReadChapter(chapters, paid.ID, evalAt)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = service.IsGuestAllowedToReadChapter(chapters, advance.ID, evalAt)
	require.NoError(t, err)
	assert.False(t, allowed)

	_, err = service.IsGuestAllowedToReadChapter(chapters, "missing", evalAt)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Publication Restriction

/*
TestService_PublishChapter_Restricted verifies an author under an active
publish restriction cannot publish.
*/
func TestService_PublishChapter_Restricted(t *testing.T) {
	c := draftChapter(t)
	author := readerAccount("a1", 0, 0)
	author.ExtendRestriction(24*time.Hour, time.Now())
	service := newService(newFakeChapterRepo(c), newFakeAccountRepo(author))

	_, err := service.PublishChapter(context.Background(), "a1", c.ID)
	require.Error(t, err)
	assert.Equal(t, "POLICY_VIOLATION", apperr.As(err).Code)
	assert.Nil(t, c.PublishedAt)
}
