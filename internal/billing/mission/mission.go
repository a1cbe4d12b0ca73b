// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mission grants Coin for reader engagement: a once-per-day check-in
and read-count missions.

A [Mission] is an admin-defined rule: read N chapters today, earn M Coin.
Progress is not stored on the mission itself; per-user, per-day read
counters and completion flags live in Redis under keys that expire at the
next UTC midnight, so day rollover is automatic rather than scheduled.

The check-in does not use Redis for its own guard: the last check-in
timestamp lives on the reader account, where the same calendar-day
comparison also serializes through the account's concurrency token.
*/
package mission

import "time"

// Mission is an admin-defined read-count reward rule.
type Mission struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	ReadThreshold int64     `json:"read_threshold"`
	CoinReward    int64     `json:"coin_reward"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Progress pairs a mission with one reader's standing for the current day.
type Progress struct {
	Mission   Mission `json:"mission"`
	ReadCount int64   `json:"read_count"`
	Completed bool    `json:"completed"`
}
