// Package ban tracks rate-limit strikes per client and bans repeat offenders.
package ban

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store counts strikes and holds active bans. Implementations must be safe for
// concurrent use.
type Store interface {
	// Strike records one violation for target and returns the strike count
	// within the current window.
	Strike(ctx context.Context, target string, window time.Duration) (int, error)
	Ban(ctx context.Context, target, route string, strikes int, d time.Duration) error
	IsBanned(ctx context.Context, target string) (bool, error)
}

type LogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int       `json:"strikes"`
	Time    time.Time `json:"time"`
}

const DailyBanLogKey = "ratelimit:banlog:daily"

func strikeKey(target string) string { return "ratelimit:strikes:" + target }
func banKey(target string) string    { return "ratelimit:ban:" + target }

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Strike(ctx context.Context, target string, window time.Duration) (int, error) {
	key := strikeKey(target)
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("strike %s: %w", target, err)
	}
	return int(incr.Val()), nil
}

// Ban blocks target for d, clears its strikes and appends to the daily ban log.
func (s *RedisStore) Ban(ctx context.Context, target, route string, strikes int, d time.Duration) error {
	entry, err := json.Marshal(LogEntry{Target: target, Route: route, Strikes: strikes, Time: time.Now().UTC()})
	if err != nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, banKey(target), route, d)
	pipe.Del(ctx, strikeKey(target))
	pipe.RPush(ctx, DailyBanLogKey, entry)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("ban %s: %w", target, err)
	}
	return nil
}

func (s *RedisStore) IsBanned(ctx context.Context, target string) (bool, error) {
	n, err := s.rdb.Exists(ctx, banKey(target)).Result()
	if err != nil {
		return false, fmt.Errorf("ban lookup %s: %w", target, err)
	}
	return n > 0, nil
}

// Log returns the recorded ban events, oldest first.
func (s *RedisStore) Log(ctx context.Context) ([]LogEntry, error) {
	items, err := s.rdb.LRange(ctx, DailyBanLogKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]LogEntry, 0, len(items))
	for _, item := range items {
		var e LogEntry
		if err := json.Unmarshal([]byte(item), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

type strikeWindow struct {
	count   int
	expires time.Time
}

// MemoryStore keeps strikes and bans in process. Used when no Redis is configured.
type MemoryStore struct {
	mu      sync.Mutex
	strikes map[string]strikeWindow
	bans    map[string]time.Time
	log     []LogEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		strikes: map[string]strikeWindow{},
		bans:    map[string]time.Time{},
		now:     time.Now,
	}
}

func (s *MemoryStore) Strike(_ context.Context, target string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w := s.strikes[target]
	if w.expires.IsZero() || !now.Before(w.expires) {
		w = strikeWindow{expires: now.Add(window)}
	}
	w.count++
	s.strikes[target] = w
	return w.count, nil
}

func (s *MemoryStore) Ban(_ context.Context, target, route string, strikes int, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.bans[target] = now.Add(d)
	delete(s.strikes, target)
	s.log = append(s.log, LogEntry{Target: target, Route: route, Strikes: strikes, Time: now.UTC()})
	return nil
}

func (s *MemoryStore) IsBanned(_ context.Context, target string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.bans[target]
	if !ok {
		return false, nil
	}
	if !s.now().Before(until) {
		delete(s.bans, target)
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Log(_ context.Context) ([]LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LogEntry(nil), s.log...), nil
}
