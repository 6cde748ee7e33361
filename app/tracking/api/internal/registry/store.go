package registry

import (
	"context"

	"livetrack-platform/app/tracking/model"
)

// Store 生命周期管理依赖的持久化边界
type Store interface {
	GetOrProvisionRunner(ctx context.Context, runnerID string) (*model.Runner, error)
	FindEvent(ctx context.Context, eventID string) (*model.Event, error)
	CreateEvent(ctx context.Context, event *model.Event) error
	EnsureDefaultEvent(ctx context.Context) (*model.Event, error)
	CreateActivity(ctx context.Context, activity *model.Activity) error
	FindActivity(ctx context.Context, activityID string) (*model.Activity, error)
	FindActivitiesByRunner(ctx context.Context, runnerID string, limit int) ([]model.Activity, error)
	UpdateActivityStatus(ctx context.Context, activityID string, from, to int8, timestamps map[string]interface{}) error
}

// gormStore 用模型层实现 Store
type gormStore struct {
	runners    *model.RunnerModel
	events     *model.EventModel
	activities *model.ActivityModel
}

// NewGormStore 创建基于 gorm 模型层的持久化边界
func NewGormStore(runners *model.RunnerModel, events *model.EventModel, activities *model.ActivityModel) Store {
	return &gormStore{runners: runners, events: events, activities: activities}
}

func (s *gormStore) GetOrProvisionRunner(ctx context.Context, runnerID string) (*model.Runner, error) {
	return s.runners.GetOrProvision(ctx, runnerID)
}

func (s *gormStore) FindEvent(ctx context.Context, eventID string) (*model.Event, error) {
	return s.events.FindByID(ctx, eventID)
}

func (s *gormStore) CreateEvent(ctx context.Context, event *model.Event) error {
	return s.events.Create(ctx, event)
}

func (s *gormStore) EnsureDefaultEvent(ctx context.Context) (*model.Event, error) {
	return s.events.GetOrCreateDefault(ctx)
}

func (s *gormStore) CreateActivity(ctx context.Context, activity *model.Activity) error {
	return s.activities.Create(ctx, activity)
}

func (s *gormStore) FindActivity(ctx context.Context, activityID string) (*model.Activity, error) {
	return s.activities.FindByID(ctx, activityID)
}

func (s *gormStore) FindActivitiesByRunner(ctx context.Context, runnerID string, limit int) ([]model.Activity, error) {
	return s.activities.FindByRunner(ctx, runnerID, limit)
}

func (s *gormStore) UpdateActivityStatus(ctx context.Context, activityID string, from, to int8, timestamps map[string]interface{}) error {
	return s.activities.UpdateStatus(ctx, activityID, from, to, timestamps)
}
