// Package service wires the monitoring engine together: configuration,
// logger, Postgres sink, Redis, the entity stores and the four engines,
// plus the optional stream trigger and the dashboard cache refresh
// loop.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"carewatch/internal/aggregator"
	"carewatch/internal/config"
	"carewatch/internal/consumer"
	"carewatch/internal/escalation"
	"carewatch/internal/extraction"
	"carewatch/internal/grading"
	"carewatch/internal/hypothesis"
	"carewatch/internal/ingest"
	"carewatch/internal/repository"
	"carewatch/internal/store"
	"carewatch/pkg/database"
	"carewatch/pkg/redis"
)

// MonitorService is the composed decision engine.
type MonitorService struct {
	cfg    *config.Config
	logger *zap.Logger

	db          *sql.DB
	redisClient *goredis.Client

	RiskTargets *store.RiskTargetStore
	Candidates  *store.CandidateStore
	Hypotheses  *store.HypothesisStore

	Escalation *escalation.Engine
	Grading    *grading.Engine
	Hypothesis *hypothesis.Engine
	Extraction *extraction.Engine
	Processor  *ingest.Processor
	Repository *repository.RecordRepository
	Cache      *aggregator.CacheManager

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds the service. The caller owns the logger; db and redis are
// opened here and closed by Stop.
func New(cfg *config.Config, logger *zap.Logger) (*MonitorService, error) {
	db, err := database.NewPostgresDB(&database.Config{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
		SSLMode:  cfg.Postgres.SSLMode,
		MaxConns: cfg.Postgres.MaxConns,
		MaxIdle:  cfg.Postgres.MaxIdle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	redisClient := redis.NewRedisClient(&redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := redis.Ping(ctx, redisClient); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return assemble(cfg, logger, db, redisClient), nil
}

// assemble wires the engines over already-open backends. Split out so
// tests can inject fakes.
func assemble(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *goredis.Client) *MonitorService {
	now := time.Now

	riskTargets := store.NewRiskTargetStore(now)
	candidates := store.NewCandidateStore(now)
	hypotheses := store.NewHypothesisStore(now)

	repo := repository.NewRecordRepository(db, logger)
	hypEngine := hypothesis.NewEngine(hypotheses, logger, now)
	extractor := extraction.NewEngine(candidates, logger, now)
	processor := ingest.NewProcessor(hypotheses, hypEngine, extractor, repo, logger)
	cache := aggregator.NewCacheManager(
		aggregator.NewRedisKVStore(redisClient), hypotheses, cfg.Cache.TTL, logger, now)

	return &MonitorService{
		cfg:         cfg,
		logger:      logger,
		db:          db,
		redisClient: redisClient,
		RiskTargets: riskTargets,
		Candidates:  candidates,
		Hypotheses:  hypotheses,
		Escalation:  escalation.NewEngine(riskTargets, logger, now),
		Grading:     grading.NewEngine(now),
		Hypothesis:  hypEngine,
		Extraction:  extractor,
		Processor:   processor,
		Repository:  repo,
		Cache:       cache,
	}
}

// Start launches the background loops for the configured trigger mode
// and the cache refresher. Non-blocking.
func (s *MonitorService) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	switch s.cfg.TriggerMode {
	case "stream":
		surveyConsumer := consumer.NewSurveyConsumer(s.redisClient, s.Processor, consumer.Config{
			Stream:        s.cfg.Stream.Name,
			ConsumerGroup: s.cfg.Stream.ConsumerGroup,
			ConsumerName:  s.cfg.Stream.ConsumerName,
			BatchSize:     s.cfg.Stream.BatchSize,
		}, s.logger)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := surveyConsumer.Start(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("survey consumer exited", zap.Error(err))
			}
		}()
	case "none":
		// Library/batch use: ingestion is driven by the caller.
	default:
		cancel()
		return fmt.Errorf("unknown trigger mode: %s", s.cfg.TriggerMode)
	}

	if s.cfg.Cache.RefreshInterval > 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runCacheRefresh(ctx)
		}()
	}

	s.logger.Info("monitor service started",
		zap.String("trigger_mode", s.cfg.TriggerMode),
		zap.Duration("cache_refresh_interval", s.cfg.Cache.RefreshInterval))
	return nil
}

func (s *MonitorService) runCacheRefresh(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Cache.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Cache.RefreshAll(ctx); err != nil {
				s.logger.Warn("dashboard cache refresh incomplete", zap.Error(err))
			}
		}
	}
}

// Stop cancels the background loops, waits for them and closes the
// backends.
func (s *MonitorService) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	s.logger.Info("monitor service stopped")
}
