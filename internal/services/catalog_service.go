package services

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/vahango/rental-gateway/internal/models"
	"github.com/vahango/rental-gateway/internal/upstream"
)

const (
	catalogSnapshotKey = "catalog:snapshot"
	catalogSnapshotTTL = time.Hour
)

// CatalogService serves the browsable vehicle catalog. Live fetches go to
// the marketplace API; when that fails the last known snapshot is served
// instead and the response is marked degraded. A catalog fetch failure is
// never fatal to the page.
type CatalogService struct {
	upstream *upstream.Client
	redis    *redis.Client
	logger   *logrus.Logger

	// generation guards against a slow refresh overwriting a newer one
	generation atomic.Uint64

	mu         sync.RWMutex
	snapshot   []models.VehicleListing
	snapshotAt time.Time
}

// NewCatalogService creates a new catalog service. redisClient may be nil.
func NewCatalogService(upstreamClient *upstream.Client, redisClient *redis.Client, logger *logrus.Logger) *CatalogService {
	return &CatalogService{
		upstream: upstreamClient,
		redis:    redisClient,
		logger:   logger,
	}
}

// Browse fetches, groups and filters the catalog for one page view.
// degraded is true when the live fetch failed and the result came from the
// snapshot (possibly empty).
func (s *CatalogService) Browse(ctx context.Context, query models.CatalogQuery, tab, search string) ([]models.VehicleGroup, bool, error) {
	vehicles, err := s.upstream.ListVehicles(ctx, query)
	degraded := false
	if err != nil {
		s.logger.WithError(err).Warn("Catalog fetch failed, serving snapshot")
		vehicles = s.cachedSnapshot(ctx)
		degraded = true
	}

	groups := GroupVehicles(vehicles)
	groups = FilterGroupsByTab(groups, tab)
	groups = SearchGroups(groups, search)
	return groups, degraded, nil
}

// RefreshSnapshot refetches the full catalog and stores it as the fallback
// snapshot. Runs on a cron schedule. If another refresh started while this
// one was in flight, the stale result is discarded.
func (s *CatalogService) RefreshSnapshot(ctx context.Context) error {
	gen := s.generation.Add(1)

	vehicles, err := s.upstream.ListVehicles(ctx, models.CatalogQuery{})
	if err != nil {
		return err
	}

	if s.generation.Load() != gen {
		s.logger.WithField("generation", gen).Debug("Discarding stale catalog refresh")
		return nil
	}

	s.mu.Lock()
	s.snapshot = vehicles
	s.snapshotAt = time.Now()
	s.mu.Unlock()

	if s.redis != nil {
		payload, err := json.Marshal(vehicles)
		if err == nil {
			if err := s.redis.Set(ctx, catalogSnapshotKey, payload, catalogSnapshotTTL).Err(); err != nil {
				s.logger.WithError(err).Warn("Failed to store catalog snapshot in Redis")
			}
		}
	}

	s.logger.WithField("vehicles", len(vehicles)).Info("Catalog snapshot refreshed")
	return nil
}

// SnapshotAge returns how old the in-memory snapshot is, and false when no
// snapshot has been taken yet
func (s *CatalogService) SnapshotAge() (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshotAt.IsZero() {
		return 0, false
	}
	return time.Since(s.snapshotAt), true
}

// cachedSnapshot returns the best available snapshot, preferring the
// in-memory copy over Redis. Returns nil when neither exists.
func (s *CatalogService) cachedSnapshot(ctx context.Context) []models.VehicleListing {
	s.mu.RLock()
	snapshot := s.snapshot
	s.mu.RUnlock()
	if snapshot != nil {
		return snapshot
	}

	if s.redis == nil {
		return nil
	}

	payload, err := s.redis.Get(ctx, catalogSnapshotKey).Bytes()
	if err != nil {
		return nil
	}

	var vehicles []models.VehicleListing
	if err := json.Unmarshal(payload, &vehicles); err != nil {
		s.logger.WithError(err).Warn("Failed to decode catalog snapshot from Redis")
		return nil
	}
	return vehicles
}
