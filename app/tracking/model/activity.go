package model

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ==================== 错误定义 ====================

var (
	ErrActivityNotFound      = errors.New("活动不存在")
	ErrActivityStatusInvalid = errors.New("活动状态不允许此操作")
)

// ==================== Activity 活动模型 ====================

type Activity struct {
	ID string `gorm:"type:varchar(32);primaryKey" json:"id"`

	// 关联信息（冗余存储，避免联表查询）
	RunnerID string `gorm:"type:varchar(32);index;not null;comment:跑者ID" json:"runner_id"`
	EventID  string `gorm:"type:varchar(32);index;not null;comment:赛事ID" json:"event_id"`

	// 状态
	Status int8 `gorm:"default:0;index;comment:活动状态" json:"status"`

	// 时间信息
	StartedAt int64 `gorm:"default:0;comment:开始时间" json:"started_at"`
	EndedAt   int64 `gorm:"default:0;comment:结束时间" json:"ended_at"`

	// 聚合统计（由追踪器在持久化确认后写入，只增不减）
	CumulativeDistanceM float64 `gorm:"default:0;comment:累计距离(米)" json:"cumulative_distance_m"`
	PaceSecPerKm        float64 `gorm:"default:0;comment:当前配速(秒/公里)" json:"pace_sec_per_km"`

	// 最近一次被接受的定位采样
	LastLat      float64 `gorm:"type:decimal(10,7);default:0;comment:最近采样纬度" json:"last_lat"`
	LastLng      float64 `gorm:"type:decimal(10,7);default:0;comment:最近采样经度" json:"last_lng"`
	LastSampleAt int64   `gorm:"default:0;comment:最近采样时间戳" json:"last_sample_at"`

	// 时间戳
	CreatedAt int64 `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt int64 `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Activity) TableName() string {
	return "activities"
}

// StatusText 获取状态文本
func (a *Activity) StatusText() string {
	if text, ok := ActivityStatusMap[a.Status]; ok {
		return text
	}
	return "未知"
}

// IsActive 判断活动是否进行中
func (a *Activity) IsActive() bool {
	return a.Status == ActivityStatusActive
}

// HasLastPing 判断是否已有被接受的采样
func (a *Activity) HasLastPing() bool {
	return a.LastSampleAt > 0
}

// ==================== ActivityModel 数据访问层 ====================

type ActivityModel struct {
	db *gorm.DB
}

func NewActivityModel(db *gorm.DB) *ActivityModel {
	return &ActivityModel{db: db}
}

// Create 创建活动
func (m *ActivityModel) Create(ctx context.Context, activity *Activity) error {
	return m.db.WithContext(ctx).Create(activity).Error
}

// FindByID 根据ID查询
func (m *ActivityModel) FindByID(ctx context.Context, id string) (*Activity, error) {
	var activity Activity
	err := m.db.WithContext(ctx).Where("id = ?", id).First(&activity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	return &activity, nil
}

// FindByRunner 查询跑者的活动列表（新的在前）
func (m *ActivityModel) FindByRunner(ctx context.Context, runnerID string, limit int) ([]Activity, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	var activities []Activity
	err := m.db.WithContext(ctx).
		Where("runner_id = ?", runnerID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}

// UpdateStats 写入聚合统计与最近采样
// 调用方（追踪器）保证同一活动串行写入，此处不再加乐观锁
func (m *ActivityModel) UpdateStats(ctx context.Context, id string, cumulativeM, paceSecPerKm, lat, lng float64, sampleAt int64) error {
	result := m.db.WithContext(ctx).
		Model(&Activity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"cumulative_distance_m": cumulativeM,
			"pace_sec_per_km":       paceSecPerKm,
			"last_lat":              lat,
			"last_lng":              lng,
			"last_sample_at":        sampleAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrActivityNotFound
	}
	return nil
}

// UpdateStatus 状态转换（条件更新，防止并发下的非法流转）
func (m *ActivityModel) UpdateStatus(ctx context.Context, id string, from, to int8, timestamps map[string]interface{}) error {
	if !CanTransition(from, to) {
		return ErrActivityStatusInvalid
	}

	updates := map[string]interface{}{"status": to}
	for k, v := range timestamps {
		updates[k] = v
	}

	result := m.db.WithContext(ctx).
		Model(&Activity{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 记录存在但状态已被并发修改，或记录不存在
		if _, err := m.FindByID(ctx, id); err != nil {
			return err
		}
		return ErrActivityStatusInvalid
	}
	return nil
}
