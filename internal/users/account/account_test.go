// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kanade/internal/platform/apperr"
	"github.com/taibuivan/kanade/internal/users/account"
)

/*
TestAccount_GrantChapter verifies ownership grants are recorded once and
queued for persistence.
*/
func TestAccount_GrantChapter(t *testing.T) {
	reader := &account.Account{UserID: "u1"}

	require.NoError(t, reader.GrantChapter("ch1"))
	assert.True(t, reader.HasUnlocked("ch1"))
	assert.Equal(t, []string{"ch1"}, reader.PendingUnlocks())

	err := reader.GrantChapter("ch1")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
	assert.Len(t, reader.PendingUnlocks(), 1)
}

/*
TestAccount_RecordCheckin covers the once-per-UTC-day check-in rule,
including instants that fall on the same local day but different UTC days.
*/
func TestAccount_RecordCheckin(t *testing.T) {
	morning := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 10, 22, 30, 0, 0, time.UTC)
	nextDay := time.Date(2026, 3, 11, 0, 0, 1, 0, time.UTC)

	reader := &account.Account{UserID: "u1"}

	require.NoError(t, reader.RecordCheckin(morning))
	require.NotNil(t, reader.LastCheckinAt)

	err := reader.RecordCheckin(evening)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	// One second past UTC midnight is a new calendar day.
	require.NoError(t, reader.RecordCheckin(nextDay))
	assert.Equal(t, nextDay, *reader.LastCheckinAt)
}

/*
TestAccount_ExtendMute_Stacks verifies punishment windows accumulate:
a second 20-day mute issued 10 days into the first one expires 40 days
after the original start.
*/
func TestAccount_ExtendMute_Stacks(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	reader := &account.Account{UserID: "u1"}

	reader.ExtendMute(20*day, start)
	require.NotNil(t, reader.MutedUntil)
	assert.Equal(t, start.Add(20*day), *reader.MutedUntil)

	// Second violation while the first window is still active.
	reader.ExtendMute(20*day, start.Add(10*day))
	assert.Equal(t, start.Add(40*day), *reader.MutedUntil)

	assert.False(t, reader.CanCommentOrReview(start.Add(39*day)))
	assert.True(t, reader.CanCommentOrReview(start.Add(40*day)))
}

/*
TestAccount_ExtendMute_AfterExpiry verifies an expired window does not
inflate a new one: extension starts from now, not the stale expiry.
*/
func TestAccount_ExtendMute_AfterExpiry(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	reader := &account.Account{UserID: "u1"}
	reader.ExtendMute(5*day, start)

	// New violation long after the first window lapsed.
	later := start.Add(30 * day)
	reader.ExtendMute(7*day, later)
	assert.Equal(t, later.Add(7*day), *reader.MutedUntil)
}

/*
TestAccount_ExtendRestriction verifies publish restrictions stack
independently of mute windows.
*/
func TestAccount_ExtendRestriction(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	reader := &account.Account{UserID: "u1"}
	assert.True(t, reader.CanPublish(now))

	reader.ExtendRestriction(3*day, now)
	assert.False(t, reader.CanPublish(now.Add(2*day)))
	assert.True(t, reader.CanPublish(now.Add(3*day)))

	// Muting does not affect publishing.
	reader.ExtendMute(10*day, now)
	assert.True(t, reader.CanPublish(now.Add(3*day)))
}
