package activity

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"livetrack-platform/app/tracking/api/internal/logic"
	"livetrack-platform/app/tracking/api/internal/registry"
	"livetrack-platform/app/tracking/api/internal/svc"
	"livetrack-platform/app/tracking/api/internal/tracker"
	"livetrack-platform/app/tracking/api/internal/types"
	"livetrack-platform/common/utils/idgen"
)

type StartActivityLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 开始活动（宽松：跑者不存在自动补建）
func NewStartActivityLogic(ctx context.Context, svcCtx *svc.ServiceContext) *StartActivityLogic {
	return &StartActivityLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *StartActivityLogic) StartActivity(req *types.StartActivityReq) (resp *types.StartActivityResp, err error) {
	// 1. 标识符归一化（兼容旧版 16 位格式）
	runnerID, err := idgen.Normalize(idgen.KindRunner, req.RunnerId)
	if err != nil {
		return nil, err
	}
	activityID := ""
	if req.ActivityId != "" {
		if activityID, err = idgen.Normalize(idgen.KindActivity, req.ActivityId); err != nil {
			return nil, err
		}
	}
	eventID := ""
	if req.EventId != "" {
		if eventID, err = idgen.Normalize(idgen.KindEvent, req.EventId); err != nil {
			return nil, err
		}
	}

	// 2. 组装参数
	params := registry.StartParams{
		ActivityID: activityID,
		RunnerID:   runnerID,
		EventID:    eventID,
		StartedAt:  req.StartedAt,
	}
	if req.Event != nil {
		params.CustomEvent = &registry.CustomEvent{
			Name:            req.Event.Name,
			Type:            req.Event.Type,
			Date:            req.Event.Date,
			CourseDistanceM: req.Event.CourseDistanceM,
			BoundsMinLat:    req.Event.BoundsMinLat,
			BoundsMaxLat:    req.Event.BoundsMaxLat,
			BoundsMinLng:    req.Event.BoundsMinLng,
			BoundsMaxLng:    req.Event.BoundsMaxLng,
		}
	}

	// 3. 开始活动
	act, event, created, err := l.svcCtx.Registry.Start(l.ctx, params)
	if err != nil {
		l.Errorf("[StartActivity] 失败: runnerID=%s, err=%v", runnerID, err)
		return nil, err
	}

	// 4. 新建的活动广播开始事件（幂等重试不重复广播）
	if created {
		l.svcCtx.Producer.PublishActivityStarted(l.ctx, act, event)
	}

	// 5. 设备随请求上报了初始位置：作为首条采样转发给遥测处理器，
	//    锚定首段距离的起算点。已有采样的活动（幂等重试）不再转发。
	if req.StartLocation != nil && act.LastSampleAt == 0 {
		ts := req.StartLocation.Timestamp
		if ts <= 0 {
			ts = act.StartedAt
		}
		snap, ierr := l.svcCtx.Tracker.Ingest(l.ctx, act.ID, tracker.Sample{
			RunnerID:  act.RunnerID,
			Timestamp: ts,
			Latitude:  req.StartLocation.Latitude,
			Longitude: req.StartLocation.Longitude,
		})
		if ierr != nil {
			// 活动已建档，初始位置失败不回滚，由后续采样补上
			l.Errorf("[StartActivity] 初始位置采样失败: activityID=%s, err=%v", act.ID, ierr)
		} else {
			l.svcCtx.Producer.PublishTelemetryUpdated(l.ctx, snap, 0)
			act.LastLat = snap.Latitude
			act.LastLng = snap.Longitude
			act.LastSampleAt = snap.Timestamp
		}
	}

	return &types.StartActivityResp{
		Activity: logic.ConvertActivityToApi(act),
		Created:  created,
	}, nil
}
