package activity

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"livetrack-platform/app/tracking/api/internal/logic"
	"livetrack-platform/app/tracking/api/internal/svc"
	"livetrack-platform/app/tracking/api/internal/tracker"
	"livetrack-platform/app/tracking/api/internal/types"
	"livetrack-platform/common/utils/idgen"
)

type IngestLocationLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 接收定位采样（宽松：采样先于开始请求到达时自动补建活动）
func NewIngestLocationLogic(ctx context.Context, svcCtx *svc.ServiceContext) *IngestLocationLogic {
	return &IngestLocationLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *IngestLocationLogic) IngestLocation(req *types.IngestLocationReq) (resp *types.IngestLocationResp, err error) {
	// 1. 标识符归一化
	activityID, err := idgen.Normalize(idgen.KindActivity, req.ActivityId)
	if err != nil {
		return nil, err
	}
	runnerID, err := idgen.Normalize(idgen.KindRunner, req.RunnerId)
	if err != nil {
		return nil, err
	}

	// 2. 保证活动进行中（活动不存在时补建）
	if err := l.svcCtx.Registry.EnsureStarted(l.ctx, activityID, runnerID); err != nil {
		return nil, err
	}

	// 3. 进入遥测处理器（活动级串行化 + 先落库再更新聚合）
	snapshot, err := l.svcCtx.Tracker.Ingest(l.ctx, activityID, tracker.Sample{
		RunnerID:  runnerID,
		Timestamp: req.Timestamp,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		AccuracyM: req.AccuracyM,
		AltitudeM: req.AltitudeM,
		SpeedMps:  req.SpeedMps,
		Heading:   req.Heading,
		HeartRate: req.HeartRate,
		Cadence:   req.Cadence,
	})
	if err != nil {
		l.Errorf("[IngestLocation] 失败: activityID=%s, err=%v", activityID, err)
		return nil, err
	}

	// 4. 广播聚合快照（订阅端不做再计算）
	l.svcCtx.Producer.PublishTelemetryUpdated(l.ctx, snapshot, req.HeartRate)

	return &types.IngestLocationResp{
		Snapshot: logic.ConvertSnapshotToApi(snapshot),
	}, nil
}
