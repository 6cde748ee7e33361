package model

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrEventNotFound = errors.New("赛事不存在")

// DefaultEventID 共享默认赛事的固定标识符
// 未指定赛事信息的活动都挂在这条记录下
const DefaultEventID = "evt_default00000"

// ==================== Event 赛事模型 ====================

type Event struct {
	ID string `gorm:"type:varchar(32);primaryKey" json:"id"`

	// 基本信息
	Name string `gorm:"type:varchar(100);not null;comment:赛事名称" json:"name"`
	Type int8   `gorm:"not null;comment:赛事类型枚举" json:"type"`
	Date int64  `gorm:"default:0;comment:赛事日期" json:"date"`

	// 赛程信息
	CourseDistanceM float64 `gorm:"default:0;comment:赛程总距离(米)" json:"course_distance_m"`

	// 赛道外接矩形（可选，用于越界检测；全 0 表示未设置）
	BoundsMinLat float64 `gorm:"default:0;comment:赛道纬度下界" json:"bounds_min_lat"`
	BoundsMaxLat float64 `gorm:"default:0;comment:赛道纬度上界" json:"bounds_max_lat"`
	BoundsMinLng float64 `gorm:"default:0;comment:赛道经度下界" json:"bounds_min_lng"`
	BoundsMaxLng float64 `gorm:"default:0;comment:赛道经度上界" json:"bounds_max_lng"`

	// 时间戳
	CreatedAt int64 `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt int64 `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

// HasBounds 判断是否设置了赛道外接矩形
func (e *Event) HasBounds() bool {
	return e.BoundsMinLat != 0 || e.BoundsMaxLat != 0 ||
		e.BoundsMinLng != 0 || e.BoundsMaxLng != 0
}

// InBounds 判断坐标是否落在赛道外接矩形内
// 未设置矩形时恒为 true
func (e *Event) InBounds(lat, lng float64) bool {
	if !e.HasBounds() {
		return true
	}
	return lat >= e.BoundsMinLat && lat <= e.BoundsMaxLat &&
		lng >= e.BoundsMinLng && lng <= e.BoundsMaxLng
}

// TypeText 获取赛事类型文本
func (e *Event) TypeText() string {
	return EventTypeText(e.Type)
}

// ==================== EventModel 数据访问层 ====================

type EventModel struct {
	db *gorm.DB
}

func NewEventModel(db *gorm.DB) *EventModel {
	return &EventModel{db: db}
}

// Create 创建赛事
func (m *EventModel) Create(ctx context.Context, event *Event) error {
	return m.db.WithContext(ctx).Create(event).Error
}

// FindByID 根据ID查询
func (m *EventModel) FindByID(ctx context.Context, id string) (*Event, error) {
	var event Event
	err := m.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

// GetOrCreateDefault 获取共享默认赛事，不存在时创建
func (m *EventModel) GetOrCreateDefault(ctx context.Context) (*Event, error) {
	event := &Event{
		ID:   DefaultEventID,
		Name: "Open Training Run",
		Type: EventTypeOther,
	}
	err := m.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(event).Error
	if err != nil {
		return nil, err
	}
	return m.FindByID(ctx, DefaultEventID)
}
