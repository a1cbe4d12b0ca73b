// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account (Postgres) implements the storage layer for the reader
account aggregate and user self-management.

# Schema Table Mapping
  - users.account: Identity, profile, wallet balances, moderation windows.
  - users.chapterunlock: Per-user chapter ownership rows.
  - billing.transaction: Append-only Kana ledger.
  - users.session: Active device sessions and security metadata.
*/
package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taibuivan/kanade/internal/billing/wallet"
	"github.com/taibuivan/kanade/internal/platform/apperr"
	"github.com/taibuivan/kanade/internal/platform/database/schema"
	"github.com/taibuivan/kanade/internal/users/auth"
)

// # Repository Implementations

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new Postgres implementation for the account aggregate.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// PostgresProfileRepository implements [ProfileRepository] using pgx.
type PostgresProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new Postgres implementation for profile management.
func NewProfileRepository(pool *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

// PostgresSessionRepository implements [SessionRepository] using pgx.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new Postgres implementation for session auditing.
func NewSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

// # AccountRepository Methods

/*
FindByID loads the reader account aggregate.

Description: Hydrates wallet balances and moderation timestamps from
users.account, then loads the owned-chapter set from users.chapterunlock.

Parameters:
  - context: context.Context
  - userID: string (UUID)

Returns:
  - *Account: Hydrated aggregate
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, userID string) (*Account, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.ID, schema.UserAccount.CoinBalance, schema.UserAccount.GoldBalance,
		schema.UserAccount.LastCheckinAt, schema.UserAccount.MutedUntil, schema.UserAccount.RestrictedUntil,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	loadedAccount := &Account{}
	err := repository.pool.QueryRow(context, query, userID).Scan(
		&loadedAccount.UserID,
		&loadedAccount.Wallet.CoinBalance,
		&loadedAccount.Wallet.GoldBalance,
		&loadedAccount.LastCheckinAt,
		&loadedAccount.MutedUntil,
		&loadedAccount.RestrictedUntil,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}

	loadedAccount.Wallet.UserID = loadedAccount.UserID

	unlockQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.UserChapterUnlock.ChapterID, schema.UserChapterUnlock.Table, schema.UserChapterUnlock.UserID)

	rows, err := repository.pool.Query(context, unlockQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_load_unlocks_failed: %w", err)
	}
	defer rows.Close()

	loadedAccount.UnlockedChapterIDs = make(map[string]struct{})
	for rows.Next() {
		var chapterID string
		if err := rows.Scan(&chapterID); err != nil {
			return nil, err
		}
		loadedAccount.UnlockedChapterIDs[chapterID] = struct{}{}
	}

	return loadedAccount, nil
}

/*
Save persists the account aggregate in a single transaction.

Description: The balance update is guarded by the balances read at load
time (current balance minus the pending deltas), so two interleaved saves
cannot both spend the same funds. Pending ledger entries and pending
unlocks are inserted in the same transaction and drained on success.

Parameters:
  - context: context.Context
  - account: *Account

Returns:
  - error: apperr.Conflict on a concurrent balance change, or storage failures
*/
func (repository *PostgresAccountRepository) Save(context context.Context, account *Account) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	loadedCoin, loadedGold := balancesAtLoad(account)

	updateQuery := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $1 AND %s = $8 AND %s = $9`,
		schema.UserAccount.Table,
		schema.UserAccount.CoinBalance, schema.UserAccount.GoldBalance, schema.UserAccount.LastCheckinAt,
		schema.UserAccount.MutedUntil, schema.UserAccount.RestrictedUntil, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.CoinBalance, schema.UserAccount.GoldBalance,
	)

	tag, err := transaction.Exec(context, updateQuery,
		account.UserID,
		account.Wallet.CoinBalance,
		account.Wallet.GoldBalance,
		account.LastCheckinAt,
		account.MutedUntil,
		account.RestrictedUntil,
		time.Now(),
		loadedCoin,
		loadedGold,
	)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_save_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("Account was modified concurrently")
	}

	entryQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		schema.BillingTransaction.Table,
		schema.BillingTransaction.ID, schema.BillingTransaction.UserID, schema.BillingTransaction.Currency,
		schema.BillingTransaction.Type, schema.BillingTransaction.Amount, schema.BillingTransaction.Reason,
		schema.BillingTransaction.ChapterID, schema.BillingTransaction.CreatedAt,
	)

	for _, entry := range account.Wallet.PendingEntries {
		_, err := transaction.Exec(context, entryQuery,
			entry.ID, entry.UserID, entry.Currency, entry.Type,
			entry.Amount, entry.Reason, entry.ChapterID, entry.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("postgres_account_repo_append_ledger_failed: %w", err)
		}
	}

	unlockQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, NOW())`,
		schema.UserChapterUnlock.Table,
		schema.UserChapterUnlock.UserID, schema.UserChapterUnlock.ChapterID, schema.UserChapterUnlock.UnlockedAt,
	)

	for _, chapterID := range account.PendingUnlocks() {
		if _, err := transaction.Exec(context, unlockQuery, account.UserID, chapterID); err != nil {
			return fmt.Errorf("postgres_account_repo_grant_unlock_failed: %w", err)
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_account_repo_commit_failed: %w", err)
	}

	account.Wallet.PendingEntries = nil
	account.pendingUnlocks = nil
	return nil
}

// balancesAtLoad reconstructs the balances the aggregate was loaded with by
// reversing the pending ledger deltas.
func balancesAtLoad(account *Account) (coin, gold int64) {
	coin = account.Wallet.CoinBalance
	gold = account.Wallet.GoldBalance
	for _, entry := range account.Wallet.PendingEntries {
		if entry.Currency == wallet.CurrencyGold {
			gold -= entry.Amount
		} else {
			coin -= entry.Amount
		}
	}
	return coin, gold
}

// # ProfileRepository Methods

/*
FindByID retrieves a user record from the users.account table.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *auth.User: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresProfileRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.Password, schema.UserAccount.DisplayName, schema.UserAccount.AvatarURL,
		schema.UserAccount.Bio, schema.UserAccount.Role, schema.UserAccount.IsVerified,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	user := &auth.User{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.AvatarURL,
		&user.Bio,
		&user.Role,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_profile_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
Update modifies the mutable profile metadata of a user.

Description: Syncs the DisplayName, AvatarURL, and Bio fields while
refreshing the updatedat timestamp.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: Update failures
*/
func (repository *PostgresProfileRepository) Update(context context.Context, user *auth.User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.Table,
		schema.UserAccount.DisplayName, schema.UserAccount.AvatarURL, schema.UserAccount.Bio,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.DisplayName,
		user.AvatarURL,
		user.Bio,
		time.Now(),
	)

	// If the update fails, return an error
	if err != nil {
		return fmt.Errorf("postgres_profile_repo_update_failed: %w", err)
	}

	return nil
}

/*
SoftDelete flags a user account as logically destroyed.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Execution failures
*/
func (repository *PostgresProfileRepository) SoftDelete(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.DeletedAt, schema.UserAccount.ID)
	_, err := repository.pool.Exec(context, query, id)
	return err
}

// # SessionRepository Methods

/*
FindActiveByUserID retrieves all valid device sessions for a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []SessionInfo: Collection of active devices
  - error: Database retrieval failures
*/
func (repository *PostgresSessionRepository) FindActiveByUserID(context context.Context, userID string) ([]SessionInfo, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL AND %s > NOW()
		ORDER BY %s DESC`,
		schema.UserSession.ID, schema.UserSession.DeviceName, schema.UserSession.IPAddress,
		schema.UserSession.CreatedAt, schema.UserSession.ExpiresAt,
		schema.UserSession.Table,
		schema.UserSession.UserID, schema.UserSession.RevokedAt, schema.UserSession.ExpiresAt,
		schema.UserSession.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_session_repo_list_active_failed: %w", err)
	}
	defer rows.Close()

	var sessions []SessionInfo
	for rows.Next() {
		var sess SessionInfo
		var ip interface{}
		if err := rows.Scan(&sess.ID, &sess.DeviceName, &ip, &sess.CreatedAt, &sess.ExpiresAt); err != nil {
			return nil, err
		}
		if ip != nil {
			sess.IPAddress = fmt.Sprintf("%v", ip)
		}
		sessions = append(sessions, sess)
	}

	return sessions, nil
}

/*
Revoke marks a single session as permanently revoked.

Parameters:
  - context: context.Context
  - userID: string (Security: validation of ownership)
  - sessionID: string

Returns:
  - error: Update failures
*/
func (repository *PostgresSessionRepository) Revoke(context context.Context, userID, sessionID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s = $2`,
		schema.UserSession.Table, schema.UserSession.RevokedAt, schema.UserSession.ID, schema.UserSession.UserID)
	_, err := repository.pool.Exec(context, query, sessionID, userID)
	return err
}

/*
RevokeOthers marks all sessions except the current one as revoked.

Parameters:
  - context: context.Context
  - userID: string
  - currentSessionID: string

Returns:
  - error: Batch update failures
*/
func (repository *PostgresSessionRepository) RevokeOthers(context context.Context, userID, currentSessionID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s != $2 AND %s IS NULL`,
		schema.UserSession.Table, schema.UserSession.RevokedAt, schema.UserSession.UserID,
		schema.UserSession.ID, schema.UserSession.RevokedAt)
	_, err := repository.pool.Exec(context, query, userID, currentSessionID)
	return err
}
