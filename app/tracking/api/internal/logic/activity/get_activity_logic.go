package activity

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"livetrack-platform/app/tracking/api/internal/logic"
	"livetrack-platform/app/tracking/api/internal/svc"
	"livetrack-platform/app/tracking/api/internal/types"
	"livetrack-platform/common/utils/idgen"
)

type GetActivityLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 活动详情（严格：不存在即报错，绝不补建）
func NewGetActivityLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GetActivityLogic {
	return &GetActivityLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GetActivityLogic) GetActivity(req *types.GetActivityReq) (resp *types.GetActivityResp, err error) {
	activityID, err := idgen.Normalize(idgen.KindActivity, req.ActivityId)
	if err != nil {
		return nil, err
	}

	act, err := l.svcCtx.Registry.Get(l.ctx, activityID)
	if err != nil {
		return nil, err
	}

	return &types.GetActivityResp{
		Activity: logic.ConvertActivityToApi(act),
	}, nil
}
