// Copyright (c) 2026 Kanade. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/kanade/internal/platform/constants"
)

// # Day-Scoped Progress Store

// RedisProgressStore implements [ProgressStore] using Redis. Keys carry the
// UTC day in their name and expire shortly after the next midnight, so a
// new day always starts from empty counters.
type RedisProgressStore struct {
	client *redis.Client
}

// NewProgressStore creates a new Redis-backed [RedisProgressStore].
func NewProgressStore(client *redis.Client) *RedisProgressStore {
	return &RedisProgressStore{client: client}
}

/*
RecordRead increments the user's read counter for the current day.

Description: The expiry is set on every increment; resetting the TTL of an
existing key is harmless because the key name already pins the day.
*/
func (store *RedisProgressStore) RecordRead(context context.Context, userID string, now time.Time) error {

	key := readCounterKey(userID, now)

	pipe := store.client.TxPipeline()
	pipe.Incr(context, key)
	pipe.Expire(context, key, untilNextMidnight(now))
	if _, err := pipe.Exec(context); err != nil {
		return fmt.Errorf("redis_read_counter_incr_failed: %w", err)
	}

	return nil
}

/*
ReadCount reports the user's read counter for the current day.
*/
func (store *RedisProgressStore) ReadCount(context context.Context, userID string, now time.Time) (int64, error) {

	count, err := store.client.Get(context, readCounterKey(userID, now)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis_read_counter_get_failed: %w", err)
	}

	return count, nil
}

/*
MarkCompleted atomically flags a mission as completed for the current day.

Description: SETNX makes the flag a one-shot per day: only the first caller
observes true, so a double-submitted completion cannot credit twice.
*/
func (store *RedisProgressStore) MarkCompleted(context context.Context, userID, missionID string, now time.Time) (bool, error) {

	key := completionKey(userID, missionID, now)

	newlySet, err := store.client.SetNX(context, key, "1", untilNextMidnight(now)).Result()
	if err != nil {
		return false, fmt.Errorf("redis_mission_done_setnx_failed: %w", err)
	}

	return newlySet, nil
}

/*
IsCompleted reports whether the mission was already completed today.
*/
func (store *RedisProgressStore) IsCompleted(context context.Context, userID, missionID string, now time.Time) (bool, error) {

	exists, err := store.client.Exists(context, completionKey(userID, missionID, now)).Result()
	if err != nil {
		return false, fmt.Errorf("redis_mission_done_exists_failed: %w", err)
	}

	return exists > 0, nil
}

// # Key Construction

func readCounterKey(userID string, now time.Time) string {
	return fmt.Sprintf("%s%s:%s", constants.RedisPrefixReadCounter, userID, dayBucket(now))
}

func completionKey(userID, missionID string, now time.Time) string {
	return fmt.Sprintf("%s%s:%s:%s", constants.RedisPrefixMissionDone, userID, missionID, dayBucket(now))
}

func dayBucket(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}

// untilNextMidnight returns the remaining lifetime of a day-scoped key,
// padded by an hour so a key never dies before its day ends.
func untilNextMidnight(now time.Time) time.Duration {
	utc := now.UTC()
	midnight := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return midnight.Sub(utc) + time.Hour
}
