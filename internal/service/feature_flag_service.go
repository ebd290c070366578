// FILE: internal/service/feature_flag_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vauntico-access-be/internal/entity"
	"vauntico-access-be/internal/pkg/cache"
	"vauntico-access-be/internal/pkg/logger"
	"vauntico-access-be/internal/repository/unitofwork"
	"vauntico-access-be/pkg/events"
	"vauntico-access-be/pkg/flags"
)

const flagCachePrefix = "flag:"

type IFeatureFlagService interface {
	// IsEnabled evaluates the flag for the given context. Any I/O failure
	// on the way resolves to false (default deny), never an error.
	IsEnabled(ctx context.Context, key string, evalCtx *entity.EvaluationContext) bool
	GetFlag(ctx context.Context, key string) (*entity.FeatureFlag, error)
	SetFlag(ctx context.Context, flag *entity.FeatureFlag) error
	DeleteFlag(ctx context.Context, key string) error
	ListFlags(ctx context.Context) ([]*entity.FeatureFlag, error)
	EmergencyDisableAll(ctx context.Context) error
}

type featureFlagService struct {
	uowFactory unitofwork.RepositoryFactory
	cacheStore cache.Store
	evaluator  *flags.Evaluator
	logger     logger.ILogger
	publisher  IPublisherService
	flagTTL    time.Duration
}

func NewFeatureFlagService(
	uowFactory unitofwork.RepositoryFactory,
	cacheStore cache.Store,
	evaluator *flags.Evaluator,
	sysLogger logger.ILogger,
	publisher IPublisherService,
	flagTTL time.Duration,
) IFeatureFlagService {
	return &featureFlagService{
		uowFactory: uowFactory,
		cacheStore: cacheStore,
		evaluator:  evaluator,
		logger:     sysLogger,
		publisher:  publisher,
		flagTTL:    flagTTL,
	}
}

// cachedFlag is the cache envelope. The definition is cached, never the
// decision, so percentage and user-targeting flags stay correct when many
// contexts hit the same key concurrently. Absent counts the tombstone for
// a key with no authoritative row.
type cachedFlag struct {
	Absent bool                `json:"absent,omitempty"`
	Flag   *entity.FeatureFlag `json:"flag,omitempty"`
}

func (s *featureFlagService) IsEnabled(ctx context.Context, key string, evalCtx *entity.EvaluationContext) bool {
	flag, err := s.loadFlag(ctx, key)
	if err != nil {
		s.logger.Warn("FLAGS", "Flag lookup failed, denying", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return false
	}
	return s.evaluator.Evaluate(flag, evalCtx)
}

// loadFlag is the cache-aside read of a flag definition. A cache failure
// degrades to an authoritative read; only a store failure surfaces.
func (s *featureFlagService) loadFlag(ctx context.Context, key string) (*entity.FeatureFlag, error) {
	cacheKey := flagCachePrefix + key

	if raw, found, err := s.cacheStore.Get(ctx, cacheKey); err != nil {
		s.logger.Warn("FLAGS", "Flag cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	} else if found {
		var cached cachedFlag
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			if cached.Absent {
				return nil, nil
			}
			return cached.Flag, nil
		}
		// Unreadable entry: fall through to the store and overwrite it.
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	flag, err := uow.FeatureFlagRepository().FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	s.populateCache(ctx, cacheKey, flag)
	return flag, nil
}

func (s *featureFlagService) populateCache(ctx context.Context, cacheKey string, flag *entity.FeatureFlag) {
	payload, err := json.Marshal(cachedFlag{Absent: flag == nil, Flag: flag})
	if err != nil {
		return
	}
	if err := s.cacheStore.Set(ctx, cacheKey, string(payload), s.flagTTL); err != nil {
		s.logger.Warn("FLAGS", "Flag cache write failed", map[string]interface{}{"key": cacheKey, "error": err.Error()})
	}
}

func (s *featureFlagService) GetFlag(ctx context.Context, key string) (*entity.FeatureFlag, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.FeatureFlagRepository().FindByKey(ctx, key)
}

func (s *featureFlagService) SetFlag(ctx context.Context, flag *entity.FeatureFlag) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.FeatureFlagRepository().Save(ctx, flag); err != nil {
		return fmt.Errorf("failed to save flag %s: %w", flag.Key, err)
	}

	// Write-through invalidation: the next read repopulates from the store.
	s.invalidateCache(ctx, flag.Key)

	if err := s.publisher.PublishAccessEvent(events.TypeFlagUpdated, map[string]interface{}{
		"key":     flag.Key,
		"type":    string(flag.Type),
		"enabled": flag.Enabled,
	}); err != nil {
		s.logger.Warn("FLAGS", "Failed to publish flag update event", map[string]interface{}{"key": flag.Key, "error": err.Error()})
	}

	return nil
}

func (s *featureFlagService) DeleteFlag(ctx context.Context, key string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.FeatureFlagRepository().DeleteByKey(ctx, key); err != nil {
		return fmt.Errorf("failed to delete flag %s: %w", key, err)
	}

	s.invalidateCache(ctx, key)

	if err := s.publisher.PublishAccessEvent(events.TypeFlagDeleted, map[string]interface{}{"key": key}); err != nil {
		s.logger.Warn("FLAGS", "Failed to publish flag delete event", map[string]interface{}{"key": key, "error": err.Error()})
	}

	return nil
}

func (s *featureFlagService) ListFlags(ctx context.Context) ([]*entity.FeatureFlag, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.FeatureFlagRepository().FindAll(ctx)
}

// EmergencyDisableAll force-disables every flag definition. It is
// idempotent and safe to race with readers: a reader may observe the old
// value for at most one cache TTL window.
func (s *featureFlagService) EmergencyDisableAll(ctx context.Context) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	allFlags, err := uow.FeatureFlagRepository().FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list flags for emergency disable: %w", err)
	}

	var lastErr error
	disabled := 0
	for _, flag := range allFlags {
		flag.Enabled = false
		if err := uow.FeatureFlagRepository().Save(ctx, flag); err != nil {
			s.logger.Error("FLAGS", "Failed to disable flag", map[string]interface{}{"key": flag.Key, "error": err.Error()})
			lastErr = err
			continue
		}
		s.invalidateCache(ctx, flag.Key)
		disabled++
	}

	s.logger.Warn("FLAGS", "Emergency disable executed", map[string]interface{}{
		"total":    len(allFlags),
		"disabled": disabled,
	})

	if err := s.publisher.PublishAccessEvent(events.TypeKillSwitchEngaged, map[string]interface{}{
		"total":    len(allFlags),
		"disabled": disabled,
	}); err != nil {
		s.logger.Warn("FLAGS", "Failed to publish kill switch event", map[string]interface{}{"error": err.Error()})
	}

	if lastErr != nil {
		return fmt.Errorf("emergency disable incomplete: %w", lastErr)
	}
	return nil
}

func (s *featureFlagService) invalidateCache(ctx context.Context, key string) {
	if err := s.cacheStore.Delete(ctx, flagCachePrefix+key); err != nil {
		s.logger.Warn("FLAGS", "Flag cache invalidation failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
