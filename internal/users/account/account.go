// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account models the reader account aggregate: the dual Kana wallet,
chapter ownership, daily check-in state, and moderation windows.

It also retains profile and session self-management for the authenticated
user (the /me API surface).

# Architecture

  - Entities: Account (wallet + ownership + moderation state), SessionInfo.
  - Domain: Depends on the auth package for the User profile entity and on
    the wallet package for currency/ledger semantics.
  - Atomicity: AccountRepository.Save persists balance mutations, pending
    ledger entries, and pending unlocks in a single database transaction.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/kanade/internal/billing/wallet"
	"github.com/taibuivan/kanade/internal/platform/apperr"
	"github.com/taibuivan/kanade/internal/users/auth"
)

// # Domain Entities

// Account is the reader account aggregate.
//
// It is loaded and saved as one unit; every balance change it performs is
// mirrored by a pending ledger entry on the embedded wallet, and the store
// persists both in the same transaction.
type Account struct {
	UserID string `json:"user_id"`

	Wallet wallet.Wallet `json:"wallet"`

	// LastCheckinAt tracks the most recent daily check-in. Calendar-day
	// comparisons are evaluated in UTC.
	LastCheckinAt *time.Time `json:"last_checkin_at,omitempty"`

	// MutedUntil blocks comments and reviews while in the future.
	MutedUntil *time.Time `json:"muted_until,omitempty"`

	// RestrictedUntil blocks publishing while in the future.
	RestrictedUntil *time.Time `json:"restricted_until,omitempty"`

	// UnlockedChapterIDs is the set of chapters this account owns.
	UnlockedChapterIDs map[string]struct{} `json:"-"`

	// pendingUnlocks collects ownership grants since the aggregate was
	// loaded. The store drains it on save.
	pendingUnlocks []string
}

// SessionInfo provides a safety-mapped view of an active user session.
// It omits sensitive token hashes for transport.
type SessionInfo struct {
	ID         string    `json:"id"`
	DeviceName string    `json:"device_name"` // e.g. "Chrome on Windows"
	IPAddress  string    `json:"ip_address"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	IsCurrent  bool      `json:"is_current"` // True if this session belongs to the current request
}

// # Chapter Ownership

// HasUnlocked reports whether the account owns the given chapter.
func (account *Account) HasUnlocked(chapterID string) bool {
	_, owned := account.UnlockedChapterIDs[chapterID]
	return owned
}

// GrantChapter records ownership of a chapter.
//
// Returns CONFLICT if the chapter is already owned; ownership is never
// granted twice.
func (account *Account) GrantChapter(chapterID string) error {
	if account.HasUnlocked(chapterID) {
		return apperr.Conflict("Chapter is already unlocked")
	}

	if account.UnlockedChapterIDs == nil {
		account.UnlockedChapterIDs = make(map[string]struct{})
	}
	account.UnlockedChapterIDs[chapterID] = struct{}{}
	account.pendingUnlocks = append(account.pendingUnlocks, chapterID)
	return nil
}

// PendingUnlocks returns the unlocks granted since the aggregate was loaded.
func (account *Account) PendingUnlocks() []string {
	return account.pendingUnlocks
}

// # Daily Check-in

// RecordCheckin marks a daily check-in at the given instant.
//
// Returns CONFLICT if a check-in already happened on the same UTC calendar
// day. The Coin reward itself is credited by the mission service; this method
// only owns the once-per-day rule.
func (account *Account) RecordCheckin(now time.Time) error {
	if account.LastCheckinAt != nil && sameCalendarDay(*account.LastCheckinAt, now) {
		return apperr.Conflict("Already checked in today")
	}

	checkinAt := now
	account.LastCheckinAt = &checkinAt
	return nil
}

// # Moderation Windows

// ExtendMute stacks a mute window of the given duration on top of whichever
// is later: now or the current expiry. Repeated violations accumulate.
func (account *Account) ExtendMute(duration time.Duration, now time.Time) {
	account.MutedUntil = stackedExpiry(account.MutedUntil, duration, now)
}

// ExtendRestriction stacks a publish-restriction window the same way
// [Account.ExtendMute] stacks mutes.
func (account *Account) ExtendRestriction(duration time.Duration, now time.Time) {
	account.RestrictedUntil = stackedExpiry(account.RestrictedUntil, duration, now)
}

// CanCommentOrReview reports whether the account is free of an active mute.
func (account *Account) CanCommentOrReview(now time.Time) bool {
	return account.MutedUntil == nil || !account.MutedUntil.After(now)
}

// CanPublish reports whether the account is free of an active restriction.
func (account *Account) CanPublish(now time.Time) bool {
	return account.RestrictedUntil == nil || !account.RestrictedUntil.After(now)
}

// stackedExpiry extends from max(now, current expiry) so windows accumulate
// rather than reset.
func stackedExpiry(current *time.Time, duration time.Duration, now time.Time) *time.Time {
	base := now
	if current != nil && current.After(base) {
		base = *current
	}
	expiry := base.Add(duration)
	return &expiry
}

// sameCalendarDay compares two instants by UTC calendar date.
func sameCalendarDay(a, b time.Time) bool {
	aYear, aMonth, aDay := a.UTC().Date()
	bYear, bMonth, bDay := b.UTC().Date()
	return aYear == bYear && aMonth == bMonth && aDay == bDay
}

// # Repository Contracts

// AccountRepository defines the persistence contract for the reader
// account aggregate.
type AccountRepository interface {

	/*
		FindByID loads the account aggregate: wallet balances, check-in
		and moderation timestamps, and the unlocked-chapter set.

		Parameters:
		  - context: context.Context
		  - userID: string (UUID)

		Returns:
		  - *Account: Hydrated aggregate
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, userID string) (*Account, error)

	/*
		Save persists the aggregate in one transaction: balance and
		timestamp columns, pending ledger entries, pending unlocks.

		The row update carries the balances read at load time as a
		concurrency token so two interleaved unlocks cannot both spend
		the same balance.

		Parameters:
		  - context: context.Context
		  - account: *Account

		Returns:
		  - error: apperr.Conflict on a concurrency clash, or storage failures
	*/
	Save(context context.Context, account *Account) error
}

// ProfileRepository defines the persistence contract for user profiles.
type ProfileRepository interface {

	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *User: Loaded profile entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		Update modifies the mutable profile fields of an existing user.

		Parameters:
		  - context: context.Context
		  - user: *User (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		SoftDelete flags an account as logically deleted.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Execution failures
	*/
	SoftDelete(context context.Context, id string) error
}

// SessionRepository defines the visibility and revocation contract for user sessions.
type SessionRepository interface {

	/*
		FindActiveByUserID lists all valid, non-expired sessions for a user.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - []SessionInfo: List of active devices
		  - error: Retrieval errors
	*/
	FindActiveByUserID(context context.Context, userID string) ([]SessionInfo, error)

	/*
		Revoke marks a specific session as revoked.

		Parameters:
		  - context: context.Context
		  - userID: string (Security constraint: owner validation)
		  - sessionID: string

		Returns:
		  - error: Revocation failures
	*/
	Revoke(context context.Context, userID, sessionID string) error

	/*
		RevokeOthers revokes all active sessions except for a target session.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - currentSessionID: string (The whitelist target)

		Returns:
		  - error: Revocation failures
	*/
	RevokeOthers(context context.Context, userID, currentSessionID string) error
}
