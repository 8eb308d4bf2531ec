package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/config"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/domain"
)

const (
	reportKeyPrefix     = "opname:report"
	latestReportKey     = reportKeyPrefix + ":latest"
	reportScanBatchSize = 100
)

// ReportCache publishes the most recent analysis report so readers can fetch it
// without recomputing.
type ReportCache interface {
	GetLatest(ctx context.Context) (*domain.Report, bool, error)
	SetLatest(ctx context.Context, report domain.Report) error
	Invalidate(ctx context.Context) error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReportCache struct{}

// memoryReportCache keeps the latest report in process. It backs the CLI and tests.
type memoryReportCache struct {
	mu     sync.RWMutex
	latest *domain.Report
}

func NewReportCache(cfg config.CacheConfig) (ReportCache, error) {
	if !cfg.Enabled {
		return &noopReportCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisReportCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopReportCache() ReportCache {
	return &noopReportCache{}
}

func NewMemoryReportCache() ReportCache {
	return &memoryReportCache{}
}

func (c *redisReportCache) GetLatest(ctx context.Context) (*domain.Report, bool, error) {
	payload, err := c.client.Get(ctx, latestReportKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var report domain.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, false, fmt.Errorf("decode report cache: %w", err)
	}

	return &report, true, nil
}

func (c *redisReportCache) SetLatest(ctx context.Context, report domain.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report cache: %w", err)
	}

	if err := c.client.Set(ctx, latestReportKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisReportCache) Invalidate(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, reportKeyPrefix, reportScanBatchSize)
}

func (n *noopReportCache) GetLatest(ctx context.Context) (*domain.Report, bool, error) {
	return nil, false, nil
}

func (n *noopReportCache) SetLatest(ctx context.Context, report domain.Report) error {
	return nil
}

func (n *noopReportCache) Invalidate(ctx context.Context) error {
	return nil
}

func (m *memoryReportCache) GetLatest(ctx context.Context) (*domain.Report, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.latest == nil {
		return nil, false, nil
	}
	report := *m.latest
	return &report, true, nil
}

func (m *memoryReportCache) SetLatest(ctx context.Context, report domain.Report) error {
	m.mu.Lock()
	m.latest = &report
	m.mu.Unlock()
	return nil
}

func (m *memoryReportCache) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	m.latest = nil
	m.mu.Unlock()
	return nil
}
