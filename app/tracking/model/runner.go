package model

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrRunnerNotFound = errors.New("跑者不存在")

// ==================== Runner 跑者模型 ====================

type Runner struct {
	ID string `gorm:"type:varchar(32);primaryKey" json:"id"`

	// 基本信息
	Name      string `gorm:"type:varchar(50);not null;comment:跑者名称" json:"name"`
	AvatarURL string `gorm:"type:varchar(500);default:'';comment:头像URL" json:"avatar_url"`

	// 占位标记：由 start() 自动补建的跑者为 true，补全资料后置 false
	Provisional bool `gorm:"default:false;comment:是否为自动补建的占位跑者" json:"provisional"`

	// 时间戳
	CreatedAt int64 `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt int64 `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Runner) TableName() string {
	return "runners"
}

// ==================== RunnerModel 数据访问层 ====================

type RunnerModel struct {
	db *gorm.DB
}

func NewRunnerModel(db *gorm.DB) *RunnerModel {
	return &RunnerModel{db: db}
}

// FindByID 根据ID查询
func (m *RunnerModel) FindByID(ctx context.Context, id string) (*Runner, error) {
	var runner Runner
	err := m.db.WithContext(ctx).Where("id = ?", id).First(&runner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunnerNotFound
		}
		return nil, err
	}
	return &runner, nil
}

// GetOrProvision 查询跑者，不存在时用占位资料补建
// 并发补建同一跑者时依赖主键冲突去重（DoNothing + 回查）
func (m *RunnerModel) GetOrProvision(ctx context.Context, id string) (*Runner, error) {
	runner := &Runner{
		ID:          id,
		Name:        fmt.Sprintf("Runner %s", shortSuffix(id)),
		Provisional: true,
	}
	err := m.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(runner).Error
	if err != nil {
		return nil, err
	}
	return m.FindByID(ctx, id)
}

// shortSuffix 取标识符的后 6 位用于占位名称
func shortSuffix(id string) string {
	if len(id) <= 6 {
		return id
	}
	return id[len(id)-6:]
}
