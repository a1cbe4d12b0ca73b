// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/kanade/internal/billing/wallet"
	"github.com/taibuivan/kanade/internal/platform/validate"
	"github.com/taibuivan/kanade/internal/users/auth"
)

// # Service Layer

// Service orchestrates business logic for reader accounts.
//
// It covers profile self-management, the wallet/ledger read surface, and
// session security cleanup.
type Service struct {
	profileRepository ProfileRepository
	accountRepository AccountRepository
	ledgerRepository  wallet.LedgerRepository
	sessionRepository SessionRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(
	profileRepo ProfileRepository,
	accountRepo AccountRepository,
	ledgerRepo wallet.LedgerRepository,
	sessionRepo SessionRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		profileRepository: profileRepo,
		accountRepository: accountRepo,
		ledgerRepository:  ledgerRepo,
		sessionRepository: sessionRepo,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full profile for the authenticated user.

Parameters:
  - context: context.Context
  - userID: string (UUID)

Returns:
  - *auth.User: Hydrated profile entity
  - error: apperr.NotFound or storage failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	return service.profileRepository.FindByID(context, userID)
}

// UpdateProfileInput holds the mutable profile fields.
type UpdateProfileInput struct {
	DisplayName *string
	AvatarURL   *string
	Bio         *string
}

/*
UpdateProfile applies partial updates to the user's public profile.

Description: nil input fields are left untouched, allowing PATCH semantics.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated entity
  - error: Validation or persistence errors
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {

	user, err := service.profileRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.DisplayName != nil {
		validator.Required("display_name", *input.DisplayName)
		validator.MaxLen("display_name", *input.DisplayName, 50)
	}
	if input.Bio != nil {
		validator.MaxLen("bio", *input.Bio, 500)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}
	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}

	if err := service.profileRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("profile_updated", slog.String("user_id", userID))
	return user, nil
}

/*
DeleteAccount soft-deletes the user's account.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Persistence failures
*/
func (service *Service) DeleteAccount(context context.Context, userID string) error {
	if err := service.profileRepository.SoftDelete(context, userID); err != nil {
		return err
	}

	service.logger.Info("account_deleted", slog.String("user_id", userID))
	return nil
}

// # Wallet Surface

// WalletSummary is the read model returned to the /me/wallet endpoint.
type WalletSummary struct {
	CoinBalance int64 `json:"coin_balance"`
	GoldBalance int64 `json:"gold_balance"`
}

/*
GetWallet returns the current Kana balances for a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *WalletSummary: Coin and Gold balances
  - error: apperr.NotFound or storage failures
*/
func (service *Service) GetWallet(context context.Context, userID string) (*WalletSummary, error) {
	loadedAccount, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	return &WalletSummary{
		CoinBalance: loadedAccount.Wallet.CoinBalance,
		GoldBalance: loadedAccount.Wallet.GoldBalance,
	}, nil
}

/*
ListLedger returns a page of the user's transaction ledger, newest first.

Parameters:
  - context: context.Context
  - userID: string
  - limit, offset: int

Returns:
  - []*wallet.Transaction: Page of signed ledger entries
  - int: Total entry count
  - error: Storage failures
*/
func (service *Service) ListLedger(context context.Context, userID string, limit, offset int) ([]*wallet.Transaction, int, error) {
	return service.ledgerRepository.ListByUser(context, userID, limit, offset)
}

// LedgerReconciliation compares a user's stored balances against the signed
// sums of their ledger entries.
type LedgerReconciliation struct {
	UserID        string `json:"user_id"`
	CoinBalance   int64  `json:"coin_balance"`
	GoldBalance   int64  `json:"gold_balance"`
	CoinLedgerSum int64  `json:"coin_ledger_sum"`
	GoldLedgerSum int64  `json:"gold_ledger_sum"`
	Balanced      bool   `json:"balanced"`
}

/*
ReconcileWallet verifies that a user's stored balances equal the per-currency
sums of their ledger. Drift means a balance was mutated outside the account
store's write path and is logged as a warning.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *LedgerReconciliation: Balances, ledger sums, and the comparison verdict
  - error: apperr.NotFound or storage failures
*/
func (service *Service) ReconcileWallet(context context.Context, userID string) (*LedgerReconciliation, error) {
	loadedAccount, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	coinSum, goldSum, err := service.ledgerRepository.SumByUser(context, userID)
	if err != nil {
		return nil, err
	}

	result := &LedgerReconciliation{
		UserID:        userID,
		CoinBalance:   loadedAccount.Wallet.CoinBalance,
		GoldBalance:   loadedAccount.Wallet.GoldBalance,
		CoinLedgerSum: coinSum,
		GoldLedgerSum: goldSum,
		Balanced:      loadedAccount.Wallet.CoinBalance == coinSum && loadedAccount.Wallet.GoldBalance == goldSum,
	}

	if !result.Balanced {
		service.logger.Warn("wallet_ledger_drift",
			slog.String("user_id", userID),
			slog.Int64("coin_balance", result.CoinBalance),
			slog.Int64("coin_ledger_sum", coinSum),
			slog.Int64("gold_balance", result.GoldBalance),
			slog.Int64("gold_ledger_sum", goldSum),
		)
	}

	return result, nil
}

// # Session Security

/*
ListSessions lists the user's active sessions, flagging the current one.

Parameters:
  - context: context.Context
  - userID: string
  - currentSessionID: string (The session backing this request)

Returns:
  - []SessionInfo: Active devices
  - error: Retrieval errors
*/
func (service *Service) ListSessions(context context.Context, userID, currentSessionID string) ([]SessionInfo, error) {
	sessions, err := service.sessionRepository.FindActiveByUserID(context, userID)
	if err != nil {
		return nil, err
	}

	for i := range sessions {
		sessions[i].IsCurrent = sessions[i].ID == currentSessionID
	}

	return sessions, nil
}

/*
RevokeSession revokes one of the user's own sessions.

Parameters:
  - context: context.Context
  - userID: string
  - sessionID: string

Returns:
  - error: apperr.NotFound if the session does not belong to the user
*/
func (service *Service) RevokeSession(context context.Context, userID, sessionID string) error {
	if err := service.sessionRepository.Revoke(context, userID, sessionID); err != nil {
		return err
	}

	service.logger.Info("session_revoked",
		slog.String("user_id", userID),
		slog.String("session_id", sessionID),
	)
	return nil
}

/*
RevokeOtherSessions terminates every session except the current one.

Parameters:
  - context: context.Context
  - userID: string
  - currentSessionID: string

Returns:
  - error: Revocation failures
*/
func (service *Service) RevokeOtherSessions(context context.Context, userID, currentSessionID string) error {
	if err := service.sessionRepository.RevokeOthers(context, userID, currentSessionID); err != nil {
		return err
	}

	service.logger.Info("other_sessions_revoked", slog.String("user_id", userID))
	return nil
}
