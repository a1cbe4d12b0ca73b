// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package report_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kanade/internal/billing/wallet"
	"github.com/taibuivan/kanade/internal/moderation/report"
	"github.com/taibuivan/kanade/internal/platform/apperr"
	"github.com/taibuivan/kanade/internal/users/account"
	"github.com/taibuivan/kanade/pkg/pointer"
)

// # Test Fakes

type fakeReportRepo struct {
	reports map[string]*report.Report
}

func newFakeReportRepo(reports ...*report.Report) *fakeReportRepo {
	repo := &fakeReportRepo{reports: make(map[string]*report.Report)}
	for _, r := range reports {
		repo.reports[r.ID] = r
	}
	return repo
}

func (repo *fakeReportRepo) FindByID(_ context.Context, id string) (*report.Report, error) {
	r, ok := repo.reports[id]
	if !ok {
		return nil, apperr.NotFound("Report")
	}
	copied := *r
	return &copied, nil
}

func (repo *fakeReportRepo) ListByStatus(_ context.Context, status report.ReportStatus, _, _ int) ([]report.Report, int, error) {
	var out []report.Report
	for _, r := range repo.reports {
		if r.Status == status {
			out = append(out, *r)
		}
	}
	return out, len(out), nil
}

func (repo *fakeReportRepo) Create(_ context.Context, r *report.Report) error {
	copied := *r
	repo.reports[r.ID] = &copied
	return nil
}

func (repo *fakeReportRepo) Update(_ context.Context, r *report.Report) error {
	copied := *r
	repo.reports[r.ID] = &copied
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

func newService(reportRepo report.ReportRepository, accountRepo account.AccountRepository) *report.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return report.NewService(reportRepo, accountRepo, logger)
}

func readerAccount(userID string) *account.Account {
	return &account.Account{
		UserID: userID,
		Wallet: wallet.Wallet{UserID: userID},
	}
}

// # Report Filing

/*
TestService_FileReport verifies a filed report opens in the review queue
and that the reason field is bounded.
*/
func TestService_FileReport(t *testing.T) {
	reportRepo := newFakeReportRepo()
	service := newService(reportRepo, newFakeAccountRepo())

	filed, err := service.FileReport(context.Background(), "reporter-1", "author-1", pointer.To("chapter-1"), "Plagiarized chapter")
	require.NoError(t, err)
	assert.Equal(t, report.StatusOpen, filed.Status)
	require.NotNil(t, filed.ChapterID)
	assert.Equal(t, "chapter-1", *filed.ChapterID)

	open, total, err := service.ListOpenReports(context.Background(), 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, open, 1)
	assert.Equal(t, filed.ID, open[0].ID)

	tests := []struct {
		name   string
		target string
		reason string
	}{
		{"empty_reason", "author-1", ""},
		{"oversized_reason", "author-1", strings.Repeat("x", 1001)},
		{"empty_target", "", "spam"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.FileReport(context.Background(), "reporter-1", tt.target, nil, tt.reason)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

/*
TestService_ReviewReport verifies resolve/dismiss close a report exactly
once.
*/
func TestService_ReviewReport(t *testing.T) {
	reportRepo := newFakeReportRepo()
	service := newService(reportRepo, newFakeAccountRepo())

	filed, err := service.FileReport(context.Background(), "reporter-1", "author-1", nil, "spam")
	require.NoError(t, err)

	resolved, err := service.ResolveReport(context.Background(), filed.ID)
	require.NoError(t, err)
	assert.Equal(t, report.StatusResolved, resolved.Status)

	_, err = service.DismissReport(context.Background(), filed.ID)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	_, err = service.ResolveReport(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Sanctions

/*
TestService_MuteUser_Stacks verifies repeated mutes extend from the current
expiry: 10 days at T0 plus 10 days one day later still lands 20 days past
the first sanction.
*/
func TestService_MuteUser_Stacks(t *testing.T) {
	target := readerAccount("author-1")
	accountRepo := newFakeAccountRepo(target)
	service := newService(newFakeReportRepo(), accountRepo)

	start := time.Now()

	first, err := service.MuteUser(context.Background(), "author-1", 10)
	require.NoError(t, err)
	assert.WithinDuration(t, start.Add(10*24*time.Hour), *first, time.Minute)

	// The second sanction lands well before the first expires, so it must
	// stack on top of the existing window rather than restart from now.
	second, err := service.MuteUser(context.Background(), "author-1", 10)
	require.NoError(t, err)
	assert.WithinDuration(t, start.Add(20*24*time.Hour), *second, time.Minute)

	assert.Equal(t, 2, accountRepo.saves)

	allowed, err := service.IsUserAllowedToCommentOrReview(context.Background(), "author-1")
	require.NoError(t, err)
	assert.False(t, allowed)
}

/*
TestService_RestrictUser verifies the publish restriction window and its
predicate, independent of any mute.
*/
func TestService_RestrictUser(t *testing.T) {
	target := readerAccount("author-1")
	service := newService(newFakeReportRepo(), newFakeAccountRepo(target))

	until, err := service.RestrictUser(context.Background(), "author-1", 7)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), *until, time.Minute)

	canPublish, err := service.IsUserAllowedToPublish(context.Background(), "author-1")
	require.NoError(t, err)
	assert.False(t, canPublish)

	// A restriction does not mute.
	canComment, err := service.IsUserAllowedToCommentOrReview(context.Background(), "author-1")
	require.NoError(t, err)
	assert.True(t, canComment)
}

/*
TestService_MuteUser_BeyondOneYear verifies there is no upper bound on the
sanction length: only non-positive day counts are invalid.
*/
func TestService_MuteUser_BeyondOneYear(t *testing.T) {
	target := readerAccount("author-1")
	service := newService(newFakeReportRepo(), newFakeAccountRepo(target))

	until, err := service.MuteUser(context.Background(), "author-1", 400)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(400*24*time.Hour), *until, time.Minute)
}

/*
TestService_Sanction_InvalidDays verifies non-positive day counts are
rejected before any account load.
*/
func TestService_Sanction_InvalidDays(t *testing.T) {
	accountRepo := newFakeAccountRepo(readerAccount("author-1"))
	service := newService(newFakeReportRepo(), accountRepo)

	for _, days := range []int{0, -3} {
		_, err := service.MuteUser(context.Background(), "author-1", days)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

		_, err = service.RestrictUser(context.Background(), "author-1", days)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	}

	assert.Zero(t, accountRepo.saves)
}
