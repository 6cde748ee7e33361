package model

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ==================== LocationSample 定位采样模型 ====================
// 采样一经接受即不可变，只追加不更新

type LocationSample struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	// 关联信息
	ActivityID string `gorm:"type:varchar(32);index:idx_activity_ts,priority:1;not null;comment:活动ID" json:"activity_id"`
	RunnerID   string `gorm:"type:varchar(32);index;not null;comment:跑者ID" json:"runner_id"`

	// 位置信息
	Timestamp int64   `gorm:"index:idx_activity_ts,priority:2;not null;comment:采样时间戳" json:"timestamp"`
	Latitude  float64 `gorm:"type:decimal(10,7);not null;comment:纬度" json:"latitude"`
	Longitude float64 `gorm:"type:decimal(10,7);not null;comment:经度" json:"longitude"`

	// 可选的精度与运动数据
	AccuracyM float64 `gorm:"default:0;comment:定位精度(米)" json:"accuracy_m"`
	AltitudeM float64 `gorm:"default:0;comment:海拔(米)" json:"altitude_m"`
	SpeedMps  float64 `gorm:"default:0;comment:速度(米/秒)" json:"speed_mps"`
	Heading   float64 `gorm:"default:0;comment:航向(度)" json:"heading"`

	// 可选的生理数据
	HeartRate int `gorm:"default:0;comment:心率(次/分)" json:"heart_rate"`
	Cadence   int `gorm:"default:0;comment:步频(步/分)" json:"cadence"`

	// 时间戳
	CreatedAt int64 `gorm:"autoCreateTime" json:"created_at"`
}

func (LocationSample) TableName() string {
	return "location_samples"
}

// ==================== LocationSampleModel 数据访问层 ====================

type LocationSampleModel struct {
	db *gorm.DB
}

func NewLocationSampleModel(db *gorm.DB) *LocationSampleModel {
	return &LocationSampleModel{db: db}
}

// Append 追加采样
func (m *LocationSampleModel) Append(ctx context.Context, sample *LocationSample) error {
	return m.db.WithContext(ctx).Create(sample).Error
}

// FindLastByActivity 查询活动最近一条被接受的采样
// 没有采样时返回 (nil, nil)
func (m *LocationSampleModel) FindLastByActivity(ctx context.Context, activityID string) (*LocationSample, error) {
	var sample LocationSample
	err := m.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("timestamp DESC, id DESC").
		First(&sample).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sample, nil
}

// CountByActivity 统计活动的采样数
func (m *LocationSampleModel) CountByActivity(ctx context.Context, activityID string) (int64, error) {
	var count int64
	err := m.db.WithContext(ctx).
		Model(&LocationSample{}).
		Where("activity_id = ?", activityID).
		Count(&count).Error
	return count, err
}
