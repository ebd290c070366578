package service

import (
	"context"
	"errors"
	"sync"

	"vauntico-access-be/internal/entity"
	"vauntico-access-be/internal/repository/contract"
	"vauntico-access-be/internal/repository/specification"
	"vauntico-access-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes used across the service tests. They hold
// state behind a mutex so tests can exercise the services without a
// database.

type fakeLogger struct{}

func (fakeLogger) Debug(string, string, map[string]interface{}) {}
func (fakeLogger) Info(string, string, map[string]interface{})  {}
func (fakeLogger) Warn(string, string, map[string]interface{})  {}
func (fakeLogger) Error(string, string, map[string]interface{}) {}
func (fakeLogger) Sync() error                                  { return nil }

type capturedEvent struct {
	Type string
	Data map[string]interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (p *fakePublisher) PublishAccessEvent(eventType string, data map[string]interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, capturedEvent{Type: eventType, Data: data})
	return nil
}

func (p *fakePublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

type fakeFlagRepo struct {
	mu      sync.Mutex
	flags   map[string]*entity.FeatureFlag
	findErr error
	saveErr error
	finds   int
}

func newFakeFlagRepo() *fakeFlagRepo {
	return &fakeFlagRepo{flags: map[string]*entity.FeatureFlag{}}
}

func (r *fakeFlagRepo) Save(_ context.Context, flag *entity.FeatureFlag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	if flag.Id == uuid.Nil {
		flag.Id = uuid.New()
	}
	copied := *flag
	r.flags[flag.Key] = &copied
	return nil
}

func (r *fakeFlagRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, flag := range r.flags {
		if flag.Id == id {
			delete(r.flags, key)
		}
	}
	return nil
}

func (r *fakeFlagRepo) DeleteByKey(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.flags, key)
	return nil
}

func (r *fakeFlagRepo) FindOne(ctx context.Context, _ ...specification.Specification) (*entity.FeatureFlag, error) {
	return nil, errors.New("not implemented in fake")
}

func (r *fakeFlagRepo) FindByKey(_ context.Context, key string) (*entity.FeatureFlag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	if r.findErr != nil {
		return nil, r.findErr
	}
	flag, ok := r.flags[key]
	if !ok {
		return nil, nil
	}
	copied := *flag
	return &copied, nil
}

func (r *fakeFlagRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.FeatureFlag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	out := make([]*entity.FeatureFlag, 0, len(r.flags))
	for _, flag := range r.flags {
		copied := *flag
		out = append(out, &copied)
	}
	return out, nil
}

type fakeSubscriptionRepo struct {
	mu         sync.Mutex
	subs       map[string]*entity.Subscription
	premium    map[string]bool
	premiumErr error
	queries    int
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{
		subs:    map[string]*entity.Subscription{},
		premium: map[string]bool{},
	}
}

func (r *fakeSubscriptionRepo) FindByUserId(_ context.Context, userId string) (*entity.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[userId]
	if !ok {
		return nil, nil
	}
	copied := *sub
	return &copied, nil
}

func (r *fakeSubscriptionRepo) Update(_ context.Context, userId string, update *entity.SubscriptionUpdate) (*entity.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[userId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if update.Tier != nil {
		sub.Tier = *update.Tier
	}
	if update.Status != nil {
		sub.Status = *update.Status
	}
	copied := *sub
	return &copied, nil
}

func (r *fakeSubscriptionRepo) Create(_ context.Context, sub *entity.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[sub.UserId] = sub
	return nil
}

func (r *fakeSubscriptionRepo) HasActivePaidOrTrial(_ context.Context, userId string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries++
	if r.premiumErr != nil {
		return false, r.premiumErr
	}
	return r.premium[userId], nil
}

type fakeUsageRepo struct {
	mu         sync.Mutex
	usages     map[string]*entity.FeatureUsage
	incErr     error
	increments int
}

func newFakeUsageRepo() *fakeUsageRepo {
	return &fakeUsageRepo{usages: map[string]*entity.FeatureUsage{}}
}

func usageKey(userId, featureKey string) string {
	return userId + ":" + featureKey
}

func (r *fakeUsageRepo) Find(_ context.Context, userId, featureKey string) (*entity.FeatureUsage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	usage, ok := r.usages[usageKey(userId, featureKey)]
	if !ok {
		return nil, nil
	}
	copied := *usage
	return &copied, nil
}

func (r *fakeUsageRepo) Increment(_ context.Context, userId, featureKey string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.incErr != nil {
		return r.incErr
	}
	r.increments++
	key := usageKey(userId, featureKey)
	if usage, ok := r.usages[key]; ok {
		usage.UsageCount += delta
	} else {
		r.usages[key] = &entity.FeatureUsage{UserId: userId, FeatureKey: featureKey, UsageCount: delta}
	}
	return nil
}

type fakeTokenVersionRepo struct {
	mu       sync.Mutex
	versions map[string]int64
	getErr   error
}

func newFakeTokenVersionRepo() *fakeTokenVersionRepo {
	return &fakeTokenVersionRepo{versions: map[string]int64{}}
}

func (r *fakeTokenVersionRepo) Get(_ context.Context, userId string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return 0, r.getErr
	}
	if v, ok := r.versions[userId]; ok {
		return v, nil
	}
	return 1, nil
}

func (r *fakeTokenVersionRepo) Increment(_ context.Context, userId string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.versions[userId]; ok {
		r.versions[userId] = v + 1
	} else {
		r.versions[userId] = 2
	}
	return r.versions[userId], nil
}

type fakeUnitOfWork struct {
	flagRepo         *fakeFlagRepo
	subscriptionRepo *fakeSubscriptionRepo
	usageRepo        *fakeUsageRepo
	tokenVersionRepo *fakeTokenVersionRepo
}

func (u *fakeUnitOfWork) Begin(context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error               { return nil }
func (u *fakeUnitOfWork) Rollback() error             { return nil }

func (u *fakeUnitOfWork) FeatureFlagRepository() contract.FeatureFlagRepository {
	return u.flagRepo
}

func (u *fakeUnitOfWork) SubscriptionRepository() contract.SubscriptionRepository {
	return u.subscriptionRepo
}

func (u *fakeUnitOfWork) FeatureUsageRepository() contract.FeatureUsageRepository {
	return u.usageRepo
}

func (u *fakeUnitOfWork) TokenVersionRepository() contract.TokenVersionRepository {
	return u.tokenVersionRepo
}

type fakeRepositoryFactory struct {
	uow *fakeUnitOfWork
}

func newFakeRepositoryFactory() *fakeRepositoryFactory {
	return &fakeRepositoryFactory{
		uow: &fakeUnitOfWork{
			flagRepo:         newFakeFlagRepo(),
			subscriptionRepo: newFakeSubscriptionRepo(),
			usageRepo:        newFakeUsageRepo(),
			tokenVersionRepo: newFakeTokenVersionRepo(),
		},
	}
}

func (f *fakeRepositoryFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return f.uow
}
