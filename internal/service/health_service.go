package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"shortlink-be/internal/cache"
	"shortlink-be/internal/models"
)

const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
	StatusDisabled     = "disabled"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthService reports whether the service can reach its backing stores
type HealthService interface {
	Hello() map[string]string
	Health(ctx context.Context) *models.HealthResponse
}

type healthService struct {
	db     Pinger
	cache  cache.Cache
	logger *zap.Logger
	now    func() time.Time
}

// NewHealthService creates a new health service. db and c may be nil when the
// process runs on the in-memory stores or without Redis.
func NewHealthService(db Pinger, c cache.Cache, logger *zap.Logger) HealthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &healthService{db: db, cache: c, logger: logger, now: time.Now}
}

func (s *healthService) Hello() map[string]string {
	return map[string]string{"message": "Hello World"}
}

// Health pings the database and the cache. Only the database decides OK.
func (s *healthService) Health(ctx context.Context) *models.HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	resp := &models.HealthResponse{
		OK:       true,
		Message:  "OK",
		Database: StatusDisabled,
		Cache:    StatusDisabled,
	}

	if s.db != nil {
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("database ping failed", zap.Error(err))
			resp.OK = false
			resp.Message = "Database unreachable"
			resp.Database = StatusDisconnected
		} else {
			resp.Database = StatusConnected
		}
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			s.logger.Warn("cache ping failed", zap.Error(err))
			resp.Cache = StatusDisconnected
		} else {
			resp.Cache = StatusConnected
		}
	}

	resp.Timestamp = s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
	return resp
}
