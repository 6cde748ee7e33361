package mailbox

import (
	"context"

	"livetrack-platform/app/tracking/model"
)

// Store 信箱依赖的持久化边界
type Store interface {
	FindActivity(ctx context.Context, activityID string) (*model.Activity, error)
	CreateMessage(ctx context.Context, msg *model.CheerMessage) error
	FindMessage(ctx context.Context, activityID, id string) (*model.CheerMessage, error)
	ListMessages(ctx context.Context, activityID string, limit, offset int) ([]model.CheerMessage, error)
	CountMessages(ctx context.Context, activityID string) (int64, error)
	FindUnannounced(ctx context.Context, activityID string, limit int) ([]model.CheerMessage, error)
	MarkDelivered(ctx context.Context, activityID, id string, deliveredAt int64) error
	MarkSpoken(ctx context.Context, activityID, id string, spokenAt int64) error
}

// gormStore 用模型层实现 Store
type gormStore struct {
	activities *model.ActivityModel
	messages   *model.CheerMessageModel
}

// NewGormStore 创建基于 gorm 模型层的持久化边界
func NewGormStore(activities *model.ActivityModel, messages *model.CheerMessageModel) Store {
	return &gormStore{activities: activities, messages: messages}
}

func (s *gormStore) FindActivity(ctx context.Context, activityID string) (*model.Activity, error) {
	return s.activities.FindByID(ctx, activityID)
}

func (s *gormStore) CreateMessage(ctx context.Context, msg *model.CheerMessage) error {
	return s.messages.Create(ctx, msg)
}

func (s *gormStore) FindMessage(ctx context.Context, activityID, id string) (*model.CheerMessage, error) {
	return s.messages.FindByID(ctx, activityID, id)
}

func (s *gormStore) ListMessages(ctx context.Context, activityID string, limit, offset int) ([]model.CheerMessage, error) {
	return s.messages.ListByActivity(ctx, activityID, limit, offset)
}

func (s *gormStore) CountMessages(ctx context.Context, activityID string) (int64, error) {
	return s.messages.CountByActivity(ctx, activityID)
}

func (s *gormStore) FindUnannounced(ctx context.Context, activityID string, limit int) ([]model.CheerMessage, error) {
	return s.messages.FindUnannounced(ctx, activityID, limit)
}

func (s *gormStore) MarkDelivered(ctx context.Context, activityID, id string, deliveredAt int64) error {
	return s.messages.MarkDelivered(ctx, activityID, id, deliveredAt)
}

func (s *gormStore) MarkSpoken(ctx context.Context, activityID, id string, spokenAt int64) error {
	return s.messages.MarkSpoken(ctx, activityID, id, spokenAt)
}
