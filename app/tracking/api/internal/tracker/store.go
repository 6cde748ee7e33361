package tracker

import (
	"context"

	"livetrack-platform/app/tracking/model"
)

// Store 追踪器的持久化边界
// 内存聚合只是持久化数据的缓存，任何采样必须先落库确认再进入内存
type Store interface {
	// LoadActivity 读取活动记录
	LoadActivity(ctx context.Context, activityID string) (*model.Activity, error)

	// LoadEvent 读取赛事记录（赛程距离与赛道矩形）
	LoadEvent(ctx context.Context, eventID string) (*model.Event, error)

	// LoadLastSample 读取活动最近一条被接受的采样，没有时返回 (nil, nil)
	LoadLastSample(ctx context.Context, activityID string) (*model.LocationSample, error)

	// AppendSample 追加采样
	AppendSample(ctx context.Context, sample *model.LocationSample) error

	// UpdateStats 写入聚合统计与最近采样
	UpdateStats(ctx context.Context, activityID string, cumulativeM, paceSecPerKm, lat, lng float64, sampleAt int64) error
}

// gormStore 基于 model 层的 Store 实现
type gormStore struct {
	activities *model.ActivityModel
	events     *model.EventModel
	samples    *model.LocationSampleModel
}

// NewGormStore 创建基于 model 层的 Store
func NewGormStore(activities *model.ActivityModel, events *model.EventModel, samples *model.LocationSampleModel) Store {
	return &gormStore{
		activities: activities,
		events:     events,
		samples:    samples,
	}
}

func (s *gormStore) LoadActivity(ctx context.Context, activityID string) (*model.Activity, error) {
	return s.activities.FindByID(ctx, activityID)
}

func (s *gormStore) LoadEvent(ctx context.Context, eventID string) (*model.Event, error) {
	return s.events.FindByID(ctx, eventID)
}

func (s *gormStore) LoadLastSample(ctx context.Context, activityID string) (*model.LocationSample, error) {
	return s.samples.FindLastByActivity(ctx, activityID)
}

func (s *gormStore) AppendSample(ctx context.Context, sample *model.LocationSample) error {
	return s.samples.Append(ctx, sample)
}

func (s *gormStore) UpdateStats(ctx context.Context, activityID string, cumulativeM, paceSecPerKm, lat, lng float64, sampleAt int64) error {
	return s.activities.UpdateStats(ctx, activityID, cumulativeM, paceSecPerKm, lat, lng, sampleAt)
}
