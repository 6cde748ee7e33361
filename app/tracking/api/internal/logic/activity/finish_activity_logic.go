package activity

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"livetrack-platform/app/tracking/api/internal/logic"
	"livetrack-platform/app/tracking/api/internal/svc"
	"livetrack-platform/app/tracking/api/internal/types"
	"livetrack-platform/common/utils/idgen"
)

type FinishActivityLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 完赛（显式外部动作，跑完全程不会自动触发）
func NewFinishActivityLogic(ctx context.Context, svcCtx *svc.ServiceContext) *FinishActivityLogic {
	return &FinishActivityLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *FinishActivityLogic) FinishActivity(req *types.FinishActivityReq) (resp *types.FinishActivityResp, err error) {
	activityID, err := idgen.Normalize(idgen.KindActivity, req.ActivityId)
	if err != nil {
		return nil, err
	}

	act, err := l.svcCtx.Registry.Finish(l.ctx, activityID)
	if err != nil {
		l.Errorf("[FinishActivity] 失败: activityID=%s, err=%v", activityID, err)
		return nil, err
	}

	return &types.FinishActivityResp{
		Activity: logic.ConvertActivityToApi(act),
	}, nil
}
