package activity

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"livetrack-platform/app/tracking/api/internal/logic"
	"livetrack-platform/app/tracking/api/internal/svc"
	"livetrack-platform/app/tracking/api/internal/types"
	"livetrack-platform/common/utils/idgen"
)

type CancelActivityLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 取消活动（计划中或进行中均可取消）
func NewCancelActivityLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CancelActivityLogic {
	return &CancelActivityLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *CancelActivityLogic) CancelActivity(req *types.CancelActivityReq) (resp *types.CancelActivityResp, err error) {
	activityID, err := idgen.Normalize(idgen.KindActivity, req.ActivityId)
	if err != nil {
		return nil, err
	}

	act, err := l.svcCtx.Registry.Cancel(l.ctx, activityID)
	if err != nil {
		l.Errorf("[CancelActivity] 失败: activityID=%s, err=%v", activityID, err)
		return nil, err
	}

	return &types.CancelActivityResp{
		Activity: logic.ConvertActivityToApi(act),
	}, nil
}
