package model

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("加油消息不存在")

// ==================== CheerMessage 加油消息模型 ====================
//
// 状态流转（单向，时间戳一经写入不再清除或覆盖）：
//   Created -> Delivered（跑者设备拉取） -> Spoken（设备完成语音播报）

type CheerMessage struct {
	ID string `gorm:"type:varchar(32);primaryKey" json:"id"`

	// 关联信息
	ActivityID string `gorm:"type:varchar(32);index:idx_activity_created,priority:1;not null;comment:活动ID" json:"activity_id"`

	// 消息内容（存储前已转义）
	Sender string `gorm:"type:varchar(50);not null;comment:发送者名称" json:"sender"`
	Text   string `gorm:"type:varchar(500);not null;comment:消息文本" json:"text"`

	// 生命周期时间戳
	CreatedAt   int64  `gorm:"autoCreateTime;index:idx_activity_created,priority:2" json:"created_at"`
	DeliveredAt *int64 `gorm:"default:null;comment:下发到设备的时间" json:"delivered_at"`
	SpokenAt    *int64 `gorm:"default:null;comment:设备播报完成时间" json:"spoken_at"`
}

func (CheerMessage) TableName() string {
	return "cheer_messages"
}

// IsDelivered 判断是否已下发
func (m *CheerMessage) IsDelivered() bool {
	return m.DeliveredAt != nil
}

// IsSpoken 判断是否已播报
func (m *CheerMessage) IsSpoken() bool {
	return m.SpokenAt != nil
}

// ==================== CheerMessageModel 数据访问层 ====================

type CheerMessageModel struct {
	db *gorm.DB
}

func NewCheerMessageModel(db *gorm.DB) *CheerMessageModel {
	return &CheerMessageModel{db: db}
}

// Create 创建消息
func (m *CheerMessageModel) Create(ctx context.Context, msg *CheerMessage) error {
	return m.db.WithContext(ctx).Create(msg).Error
}

// FindByID 根据ID查询
func (m *CheerMessageModel) FindByID(ctx context.Context, activityID, id string) (*CheerMessage, error) {
	var msg CheerMessage
	err := m.db.WithContext(ctx).
		Where("id = ? AND activity_id = ?", id, activityID).
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// ListByActivity 查询活动的消息列表（新的在前）
func (m *CheerMessageModel) ListByActivity(ctx context.Context, activityID string, limit, offset int) ([]CheerMessage, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	var msgs []CheerMessage
	err := m.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&msgs).Error
	return msgs, err
}

// CountByActivity 统计活动的消息总数
func (m *CheerMessageModel) CountByActivity(ctx context.Context, activityID string) (int64, error) {
	var count int64
	err := m.db.WithContext(ctx).
		Model(&CheerMessage{}).
		Where("activity_id = ?", activityID).
		Count(&count).Error
	return count, err
}

// FindUnannounced 查询未下发的消息（旧的在前，FIFO 即设备播报顺序）
func (m *CheerMessageModel) FindUnannounced(ctx context.Context, activityID string, limit int) ([]CheerMessage, error) {
	if limit <= 0 || limit > UnannouncedBatchLimit {
		limit = UnannouncedBatchLimit
	}
	var msgs []CheerMessage
	err := m.db.WithContext(ctx).
		Where("activity_id = ? AND delivered_at IS NULL", activityID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

// MarkDelivered 写入下发时间（仅当未设置时）
// 已下发的消息不受影响，保证时间戳单向且不被覆盖
func (m *CheerMessageModel) MarkDelivered(ctx context.Context, activityID, id string, deliveredAt int64) error {
	return m.db.WithContext(ctx).
		Model(&CheerMessage{}).
		Where("id = ? AND activity_id = ? AND delivered_at IS NULL", id, activityID).
		Update("delivered_at", deliveredAt).Error
}

// MarkSpoken 写入播报完成时间（仅当已下发且未设置时）
func (m *CheerMessageModel) MarkSpoken(ctx context.Context, activityID, id string, spokenAt int64) error {
	return m.db.WithContext(ctx).
		Model(&CheerMessage{}).
		Where("id = ? AND activity_id = ? AND delivered_at IS NOT NULL AND spoken_at IS NULL", id, activityID).
		Update("spoken_at", spokenAt).Error
}
