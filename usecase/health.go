package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/movi-app/movi/domains/health"
	"github.com/movi-app/movi/pkg/cacheaside"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const healthCheckTimeout = 2 * time.Second

type pingFunc func(ctx context.Context) error

type healthService struct {
	pingDB    pingFunc
	pingCache pingFunc

	mu   sync.RWMutex
	last map[health.Component]health.HealthRecord
}

func NewHealthService(db *gorm.DB, cache *cacheaside.Accessor) health.IHealthUsecase {
	return newHealthService(
		func(ctx context.Context) error {
			if db == nil {
				return errors.New("database not configured")
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		cache.Ping,
	)
}

func newHealthService(pingDB, pingCache pingFunc) *healthService {
	return &healthService{
		pingDB:    pingDB,
		pingCache: pingCache,
		last:      make(map[health.Component]health.HealthRecord),
	}
}

func (s *healthService) CheckDatabase(ctx context.Context) health.HealthRecord {
	return s.check(ctx, health.ComponentDatabase, s.pingDB, "Database connection healthy")
}

func (s *healthService) CheckCache(ctx context.Context) health.HealthRecord {
	return s.check(ctx, health.ComponentCache, s.pingCache, "Cache connection healthy")
}

func (s *healthService) GetStatus(ctx context.Context) []health.HealthRecord {
	return []health.HealthRecord{s.CheckDatabase(ctx), s.CheckCache(ctx)}
}

func (s *healthService) check(ctx context.Context, component health.Component, ping pingFunc, okMessage string) health.HealthRecord {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	record := health.HealthRecord{
		Component:   component,
		Status:      health.StatusOk,
		LastMessage: okMessage,
		Latency:     time.Since(start),
		LastChecked: start.UTC(),
	}
	if err != nil {
		record.Status = health.StatusError
		record.LastMessage = err.Error()
	}

	s.mu.Lock()
	prev, seen := s.last[component]
	s.last[component] = record
	s.mu.Unlock()

	if seen && prev.Status != record.Status {
		logrus.WithField("component", component).Warnf("[Health] status changed %s -> %s: %s", prev.Status, record.Status, record.LastMessage)
	}
	return record
}

// StartPeriodicChecks runs GetStatus every interval until ctx is done so that
// status transitions show up in the logs without anyone polling.
func (s *healthService) StartPeriodicChecks(ctx context.Context, interval time.Duration) {
	logrus.Infof("[Health] starting periodic health checks loop (interval: %s)", interval)
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		s.GetStatus(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.GetStatus(ctx)
			}
		}
	}()
}
