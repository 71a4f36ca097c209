package services

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/thu-furniture/thu_api/dto"
)

// ContactLimiter is the check-and-increment contract the submission pipeline
// depends on. The backing store is a swappable collaborator: an in-process
// map by default (counters reset on restart, accepted), or a shared Redis
// counter when submissions must be throttled across replicas.
type ContactLimiter interface {
	Allow(identifier string) (bool, *dto.RateLimitInfo, error)
}

type RateLimitService struct {
	appContext.DefaultService

	maxRequests int
	windowSize  time.Duration
	backend     string

	store ContactLimiter

	redisSvc *RedisService
}

const RATE_LIMIT_SVC = "rate_limit_svc"

const (
	defaultMaxRequests = 5
	defaultWindow      = 15 * time.Minute

	// Opportunistic prune threshold for the in-memory store. A heuristic to
	// bound memory, not a guarantee; the store is ephemeral per process
	// lifetime anyway.
	maxTrackedKeys = 1000
)

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *appContext.Context) error {
	svc.maxRequests = defaultMaxRequests
	if v := os.Getenv("CONTACT_RATE_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			svc.maxRequests = n
		}
	}

	svc.windowSize = defaultWindow
	if v := os.Getenv("CONTACT_RATE_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			svc.windowSize = d
		}
	}

	svc.backend = os.Getenv("RATE_LIMIT_BACKEND")
	if svc.backend == "" {
		svc.backend = "memory"
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	switch svc.backend {
	case "redis":
		svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
		client := svc.redisSvc.GetClient()
		if client == nil {
			return fmt.Errorf("rate limit backend is redis but no redis client is configured")
		}
		svc.store = newRedisLimiterStore(client, svc.maxRequests, svc.windowSize)
	case "memory":
		svc.store = newMemoryLimiterStore(svc.maxRequests, svc.windowSize)
	default:
		return fmt.Errorf("unknown rate limit backend: %s", svc.backend)
	}

	log.WithFields(log.Fields{
		"backend": svc.backend,
		"max":     svc.maxRequests,
		"window":  svc.windowSize,
	}).Info("Contact rate limiter started")

	return nil
}

func (svc *RateLimitService) Allow(identifier string) (bool, *dto.RateLimitInfo, error) {
	return svc.store.Allow(identifier)
}

// ==================== IN-MEMORY FIXED WINDOW ====================

type rateLimitRecord struct {
	count     int
	resetTime time.Time
}

type memoryLimiterStore struct {
	maxRequests int
	windowSize  time.Duration

	mutex   sync.Mutex
	records map[string]*rateLimitRecord

	now func() time.Time
}

func newMemoryLimiterStore(maxRequests int, windowSize time.Duration) *memoryLimiterStore {
	return &memoryLimiterStore{
		maxRequests: maxRequests,
		windowSize:  windowSize,
		records:     make(map[string]*rateLimitRecord),
		now:         time.Now,
	}
}

func (s *memoryLimiterStore) Allow(identifier string) (bool, *dto.RateLimitInfo, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()

	if len(s.records) > maxTrackedKeys {
		s.prune(now)
	}

	record, exists := s.records[identifier]

	// No record yet, or the window expired: fresh window with this request
	// counted as the first.
	if !exists || now.After(record.resetTime) {
		resetTime := now.Add(s.windowSize)
		s.records[identifier] = &rateLimitRecord{count: 1, resetTime: resetTime}
		return true, &dto.RateLimitInfo{
			Allowed:   true,
			Remaining: s.maxRequests - 1,
			ResetTime: &resetTime,
		}, nil
	}

	if record.count >= s.maxRequests {
		resetTime := record.resetTime
		return false, &dto.RateLimitInfo{
			Allowed:   false,
			Remaining: 0,
			ResetTime: &resetTime,
		}, nil
	}

	record.count++
	resetTime := record.resetTime
	return true, &dto.RateLimitInfo{
		Allowed:   true,
		Remaining: s.maxRequests - record.count,
		ResetTime: &resetTime,
	}, nil
}

func (s *memoryLimiterStore) prune(now time.Time) {
	for key, record := range s.records {
		if now.After(record.resetTime) {
			delete(s.records, key)
		}
	}
}

func (s *memoryLimiterStore) size() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.records)
}

// ==================== REDIS FIXED WINDOW ====================

// redisCounter is the slice of the redis client the store uses. *redis.Client
// satisfies it; tests substitute a fake.
type redisCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// redisLimiterStore counts with INCR and lets the key expire at the window
// boundary. Unlike the in-memory store the counter keeps incrementing past
// the limit; only the allow decision matters.
type redisLimiterStore struct {
	client      redisCounter
	maxRequests int
	windowSize  time.Duration
}

func newRedisLimiterStore(client redisCounter, maxRequests int, windowSize time.Duration) *redisLimiterStore {
	return &redisLimiterStore{
		client:      client,
		maxRequests: maxRequests,
		windowSize:  windowSize,
	}
}

func (s *redisLimiterStore) Allow(identifier string) (bool, *dto.RateLimitInfo, error) {
	ctx := context.Background()
	key := fmt.Sprintf("contact:ratelimit:%s", identifier)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, nil, fmt.Errorf("rate limit incr: %w", err)
	}

	if count == 1 {
		if err := s.client.Expire(ctx, key, s.windowSize).Err(); err != nil {
			return false, nil, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = s.windowSize
	}
	resetTime := time.Now().Add(ttl)

	if count > int64(s.maxRequests) {
		return false, &dto.RateLimitInfo{
			Allowed:   false,
			Remaining: 0,
			ResetTime: &resetTime,
		}, nil
	}

	remaining := s.maxRequests - int(count)
	return true, &dto.RateLimitInfo{
		Allowed:   true,
		Remaining: remaining,
		ResetTime: &resetTime,
	}, nil
}
