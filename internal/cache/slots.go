package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/appointment-engine/internal/metrics"
)

// SlotKey identifies one computed availability list.
type SlotKey struct {
	ProfessionalID  uint
	Day             string // YYYY-MM-DD in the company's timezone
	DurationMinutes int
}

// SlotCache holds generated slot lists. It is an optimisation only: the
// booking path always re-checks against storage.
//
// Every (professional, day) pair carries a version that InvalidateDay
// bumps. Get reports the version current at lookup time and Set only stores
// under that version, so a list computed before an invalidation is never
// served after it.
type SlotCache interface {
	Get(ctx context.Context, key SlotKey) (slots []string, version int64, ok bool)
	Set(ctx context.Context, key SlotKey, version int64, slots []string)
	InvalidateDay(ctx context.Context, professionalID uint, day string)
}

type NopSlotCache struct{}

func (NopSlotCache) Get(context.Context, SlotKey) ([]string, int64, bool) { return nil, 0, false }
func (NopSlotCache) Set(context.Context, SlotKey, int64, []string) {}
func (NopSlotCache) InvalidateDay(context.Context, uint, string) {}

// ======================================================
// REDIS
// ======================================================

type RedisSlotCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewRedisSlotCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *RedisSlotCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisSlotCache{client: client, ttl: ttl, log: log}
}

func dayPrefix(professionalID uint, day string) string {
	return fmt.Sprintf("slots:%d:%s", professionalID, day)
}

func versionKey(professionalID uint, day string) string {
	return dayPrefix(professionalID, day) + ":v"
}

func slotKey(k SlotKey, version int64) string {
	return fmt.Sprintf("%s:%d:%d", dayPrefix(k.ProfessionalID, k.Day), version, k.DurationMinutes)
}

func (c *RedisSlotCache) version(ctx context.Context, professionalID uint, day string) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(professionalID, day)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return v, err
}

func (c *RedisSlotCache) Get(ctx context.Context, key SlotKey) ([]string, int64, bool) {
	version, err := c.version(ctx, key.ProfessionalID, key.Day)
	if err != nil {
		c.log.Warn().Err(err).Msg("slot cache read failed")
		metrics.SlotCacheLookups.WithLabelValues("miss").Inc()
		// -1 is never a stored version, so the following Set is a no-op.
		return nil, -1, false
	}

	raw, err := c.client.Get(ctx, slotKey(key, version)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("slot cache read failed")
		}
		metrics.SlotCacheLookups.WithLabelValues("miss").Inc()
		return nil, version, false
	}

	var slots []string
	if err := json.Unmarshal(raw, &slots); err != nil {
		metrics.SlotCacheLookups.WithLabelValues("miss").Inc()
		return nil, version, false
	}
	metrics.SlotCacheLookups.WithLabelValues("hit").Inc()
	return slots, version, true
}

func (c *RedisSlotCache) Set(ctx context.Context, key SlotKey, version int64, slots []string) {
	if version < 0 {
		return
	}

	payload, err := json.Marshal(slots)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, slotKey(key, version), payload, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("slot cache write failed")
	}
}

// InvalidateDay bumps the day's version. Lists stored under older versions
// are no longer addressed and expire on their own.
func (c *RedisSlotCache) InvalidateDay(ctx context.Context, professionalID uint, day string) {
	vk := versionKey(professionalID, day)

	// The version must outlive every list stored under it, or a reset to 0
	// could resurrect one.
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, vk)
		pipe.Expire(ctx, vk, 2*c.ttl)
		return nil
	})
	if err != nil {
		c.log.Warn().Err(err).Str("day", day).Msg("slot cache invalidation failed")
	}
}

// ======================================================
// MEMORY
// ======================================================

type dayID struct {
	professionalID uint
	day            string
}

// MemorySlotCache is a process-local SlotCache. It is only correct when
// every booking goes through this process.
type MemorySlotCache struct {
	mu       sync.Mutex
	versions map[dayID]int64
	store    *gocache.Cache
}

func NewMemorySlotCache(ttl time.Duration) *MemorySlotCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &MemorySlotCache{
		versions: map[dayID]int64{},
		store:    gocache.New(ttl, 2*ttl),
	}
}

func (c *MemorySlotCache) Get(_ context.Context, key SlotKey) ([]string, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	version := c.versions[dayID{key.ProfessionalID, key.Day}]

	cached, found := c.store.Get(slotKey(key, version))
	if !found {
		metrics.SlotCacheLookups.WithLabelValues("miss").Inc()
		return nil, version, false
	}

	metrics.SlotCacheLookups.WithLabelValues("hit").Inc()
	return append([]string(nil), cached.([]string)...), version, true
}

func (c *MemorySlotCache) Set(_ context.Context, key SlotKey, version int64, slots []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if version != c.versions[dayID{key.ProfessionalID, key.Day}] {
		return
	}
	c.store.Set(slotKey(key, version), append([]string(nil), slots...), gocache.DefaultExpiration)
}

// InvalidateDay bumps the day's version; older lists expire on their own.
func (c *MemorySlotCache) InvalidateDay(_ context.Context, professionalID uint, day string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.versions[dayID{professionalID, day}]++
}
