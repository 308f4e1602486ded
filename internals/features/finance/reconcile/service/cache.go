package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	dto "schoolku_backend/internals/features/finance/reconcile/dto"
	helper "schoolku_backend/internals/helpers"
)

const balanceCacheTTL = 5 * time.Minute

// BalanceCache memoizes balance breakdowns in redis under a per-student
// versioned key. Invalidation is a single INCR of the version counter:
// every key minted under the old version simply ages out via TTL. A nil
// redis client disables caching without changing behavior.
type BalanceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewBalanceCache(rdb *redis.Client) *BalanceCache {
	return &BalanceCache{rdb: rdb, ttl: balanceCacheTTL}
}

func (c *BalanceCache) versionKey(studentID uuid.UUID) string {
	return helper.MakeCacheKey("fees", "ver", studentID.String())
}

func (c *BalanceCache) balanceKey(studentID uuid.UUID, version int64) string {
	return helper.MakeCacheKey("fees", "balance", studentID.String(), fmt.Sprintf("v%d", version))
}

// An absent counter reads as 0 so that the very first Bump (INCR of a
// missing key yields 1) already moves readers off the v0 entries.
func (c *BalanceCache) version(ctx context.Context, studentID uuid.UUID) int64 {
	v, err := c.rdb.Get(ctx, c.versionKey(studentID)).Int64()
	if err != nil {
		return 0
	}
	return v
}

func (c *BalanceCache) GetBreakdown(ctx context.Context, studentID uuid.UUID) (*dto.BalanceBreakdown, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, c.balanceKey(studentID, c.version(ctx, studentID))).Bytes()
	if err != nil {
		return nil, false
	}
	var b dto.BalanceBreakdown
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, false
	}
	return &b, true
}

func (c *BalanceCache) SetBreakdown(ctx context.Context, studentID uuid.UUID, b dto.BalanceBreakdown) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.balanceKey(studentID, c.version(ctx, studentID)), raw, c.ttl).Err(); err != nil {
		log.Printf("[WARN] balance cache set failed for %s: %v", studentID, err)
	}
}

// Bump invalidates everything cached for the student by advancing the
// version counter. Called after every ledger write or delete.
func (c *BalanceCache) Bump(ctx context.Context, studentID uuid.UUID) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Incr(ctx, c.versionKey(studentID)).Err(); err != nil {
		log.Printf("[WARN] balance cache bump failed for %s: %v", studentID, err)
	}
}
