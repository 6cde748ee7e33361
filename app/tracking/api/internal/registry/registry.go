package registry

import (
	"context"
	"errors"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"livetrack-platform/app/tracking/model"
	"livetrack-platform/common/errorx"
	"livetrack-platform/common/utils/idgen"
)

// Flusher 活动终结时丢弃内存聚合
type Flusher interface {
	Forget(ctx context.Context, activityID string)
}

// CustomEvent 自定义赛程的创建参数
type CustomEvent struct {
	Name            string
	Type            string
	Date            int64
	CourseDistanceM float64
	BoundsMinLat    float64
	BoundsMaxLat    float64
	BoundsMinLng    float64
	BoundsMaxLng    float64
}

// StartParams 开始活动的参数
type StartParams struct {
	// ActivityID 可选：客户端生成的活动ID，用于断线重试的幂等去重
	ActivityID string
	RunnerID   string
	// EventID 可选：挂到已有赛事；与 CustomEvent 互斥，都缺省时挂共享默认赛事
	EventID     string
	CustomEvent *CustomEvent
	StartedAt   int64
}

// Registry 活动生命周期管理
//
// 开始类操作是宽松的：跑者不存在就补建占位资料，赛事缺省就挂默认赛事；
// 查询类操作是严格的：活动不存在直接报错，绝不补建。
type Registry struct {
	store   Store
	flusher Flusher
	nowFn   func() int64
}

// NewRegistry 创建活动生命周期管理器
func NewRegistry(store Store, flusher Flusher) *Registry {
	return &Registry{
		store:   store,
		flusher: flusher,
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// Start 开始一次活动
//
// 返回的 created 表示本次调用是否新建了活动；携带已存在 ActivityID 的
// 重试请求原样返回当前状态，不会重复建档。
func (r *Registry) Start(ctx context.Context, params StartParams) (activity *model.Activity, event *model.Event, created bool, err error) {
	// 幂等：同一活动ID的重复 start 直接返回当前状态；
	// 计划中的活动被 start 激活，而不是原样返回
	if params.ActivityID != "" {
		existing, ferr := r.store.FindActivity(ctx, params.ActivityID)
		if ferr == nil {
			if existing.Status == model.ActivityStatusPlanned {
				startedAt := params.StartedAt
				if startedAt <= 0 {
					startedAt = r.nowFn()
				}
				uerr := r.store.UpdateActivityStatus(ctx, existing.ID,
					model.ActivityStatusPlanned, model.ActivityStatusActive,
					map[string]interface{}{"started_at": startedAt})
				if uerr != nil {
					return nil, nil, false, mapActivityErr(uerr)
				}
				if existing, ferr = r.store.FindActivity(ctx, existing.ID); ferr != nil {
					return nil, nil, false, mapActivityErr(ferr)
				}
			}
			event, _ = r.store.FindEvent(ctx, existing.EventID)
			return existing, event, false, nil
		}
		if !errors.Is(ferr, model.ErrActivityNotFound) {
			return nil, nil, false, errorx.ErrDBError(ferr)
		}
	}

	runner, err := r.store.GetOrProvisionRunner(ctx, params.RunnerID)
	if err != nil {
		return nil, nil, false, errorx.ErrDBError(err)
	}
	if runner.Provisional {
		logx.WithContext(ctx).Infof("[Registry] 自动补建占位跑者: runnerID=%s", runner.ID)
	}

	event, err = r.resolveEvent(ctx, params)
	if err != nil {
		return nil, nil, false, err
	}

	startedAt := params.StartedAt
	if startedAt <= 0 {
		startedAt = r.nowFn()
	}
	activityID := params.ActivityID
	if activityID == "" {
		activityID = idgen.New(idgen.KindActivity)
	}

	activity = &model.Activity{
		ID:        activityID,
		RunnerID:  runner.ID,
		EventID:   event.ID,
		Status:    model.ActivityStatusActive,
		StartedAt: startedAt,
	}
	if err := r.store.CreateActivity(ctx, activity); err != nil {
		return nil, nil, false, errorx.ErrDBError(err)
	}
	return activity, event, true, nil
}

// EnsureStarted 保证活动处于进行中
//
// 采样先于 start 到达时走这里补建活动（挂默认赛事）；
// 已终结的活动不允许复活。
func (r *Registry) EnsureStarted(ctx context.Context, activityID, runnerID string) error {
	activity, err := r.store.FindActivity(ctx, activityID)
	if err == nil {
		switch {
		case activity.IsActive():
			return nil
		case model.IsTerminalStatus(activity.Status):
			return errorx.New(errorx.CodeActivityEnded)
		default:
			// Planned -> Active
			uerr := r.store.UpdateActivityStatus(ctx, activityID,
				model.ActivityStatusPlanned, model.ActivityStatusActive,
				map[string]interface{}{"started_at": r.nowFn()})
			if uerr != nil {
				return mapActivityErr(uerr)
			}
			return nil
		}
	}
	if !errors.Is(err, model.ErrActivityNotFound) {
		return errorx.ErrDBError(err)
	}

	logx.WithContext(ctx).Infof("[Registry] 采样先于开始请求到达，自动补建活动: activityID=%s, runnerID=%s", activityID, runnerID)
	_, _, _, err = r.Start(ctx, StartParams{ActivityID: activityID, RunnerID: runnerID})
	return err
}

// Finish 完赛
// 对已完赛的活动幂等；已取消的活动不可再完赛
func (r *Registry) Finish(ctx context.Context, activityID string) (*model.Activity, error) {
	return r.terminate(ctx, activityID, model.ActivityStatusFinished)
}

// Cancel 取消活动
// 对已取消的活动幂等；已完赛的活动不可再取消
func (r *Registry) Cancel(ctx context.Context, activityID string) (*model.Activity, error) {
	return r.terminate(ctx, activityID, model.ActivityStatusCancelled)
}

// Get 查询活动（严格：不存在即报错，绝不补建）
func (r *Registry) Get(ctx context.Context, activityID string) (*model.Activity, error) {
	activity, err := r.store.FindActivity(ctx, activityID)
	if err != nil {
		return nil, mapActivityErr(err)
	}
	return activity, nil
}

// GetEvent 查询赛事
func (r *Registry) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
	event, err := r.store.FindEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, model.ErrEventNotFound) {
			return nil, errorx.ErrNotFound()
		}
		return nil, errorx.ErrDBError(err)
	}
	return event, nil
}

// ListByRunner 查询跑者的活动列表（新的在前）
func (r *Registry) ListByRunner(ctx context.Context, runnerID string, limit int) ([]model.Activity, error) {
	activities, err := r.store.FindActivitiesByRunner(ctx, runnerID, limit)
	if err != nil {
		return nil, errorx.ErrDBError(err)
	}
	return activities, nil
}

// terminate 终结活动：状态流转 + 丢弃内存聚合
func (r *Registry) terminate(ctx context.Context, activityID string, target int8) (*model.Activity, error) {
	activity, err := r.store.FindActivity(ctx, activityID)
	if err != nil {
		return nil, mapActivityErr(err)
	}

	// 重复终结到同一状态是幂等的
	if activity.Status == target {
		return activity, nil
	}

	err = r.store.UpdateActivityStatus(ctx, activityID, activity.Status, target,
		map[string]interface{}{"ended_at": r.nowFn()})
	if err != nil {
		return nil, mapActivityErr(err)
	}

	if r.flusher != nil {
		r.flusher.Forget(ctx, activityID)
	}

	activity, err = r.store.FindActivity(ctx, activityID)
	if err != nil {
		return nil, mapActivityErr(err)
	}
	logx.WithContext(ctx).Infof("[Registry] 活动终结: activityID=%s, status=%s", activityID, activity.StatusText())
	return activity, nil
}

// resolveEvent 解析活动挂靠的赛事：已有赛事 > 自定义赛程 > 共享默认赛事
func (r *Registry) resolveEvent(ctx context.Context, params StartParams) (*model.Event, error) {
	if params.EventID != "" {
		event, err := r.store.FindEvent(ctx, params.EventID)
		if err != nil {
			if errors.Is(err, model.ErrEventNotFound) {
				return nil, errorx.ErrNotFound()
			}
			return nil, errorx.ErrDBError(err)
		}
		return event, nil
	}

	if ce := params.CustomEvent; ce != nil {
		event := &model.Event{
			ID:              idgen.New(idgen.KindEvent),
			Name:            ce.Name,
			Type:            model.ParseEventType(ce.Type),
			Date:            ce.Date,
			CourseDistanceM: ce.CourseDistanceM,
			BoundsMinLat:    ce.BoundsMinLat,
			BoundsMaxLat:    ce.BoundsMaxLat,
			BoundsMinLng:    ce.BoundsMinLng,
			BoundsMaxLng:    ce.BoundsMaxLng,
		}
		if event.CourseDistanceM <= 0 {
			event.CourseDistanceM = model.EventTypeDistance(event.Type)
		}
		if err := r.store.CreateEvent(ctx, event); err != nil {
			return nil, errorx.ErrDBError(err)
		}
		return event, nil
	}

	event, err := r.store.EnsureDefaultEvent(ctx)
	if err != nil {
		return nil, errorx.ErrDBError(err)
	}
	return event, nil
}

// mapActivityErr 将模型层错误映射为业务错误
func mapActivityErr(err error) error {
	switch {
	case errors.Is(err, model.ErrActivityNotFound):
		return errorx.ErrActivityNotFound()
	case errors.Is(err, model.ErrActivityStatusInvalid):
		return errorx.ErrActivityStatusInvalid()
	default:
		return errorx.ErrDBError(err)
	}
}
