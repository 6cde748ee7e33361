package activity

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"livetrack-platform/app/tracking/api/internal/logic"
	"livetrack-platform/app/tracking/api/internal/svc"
	"livetrack-platform/app/tracking/api/internal/types"
	"livetrack-platform/common/utils/idgen"
)

type ListActivityLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 跑者的活动列表（新的在前）
func NewListActivityLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListActivityLogic {
	return &ListActivityLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ListActivityLogic) ListActivity(req *types.ListActivityReq) (resp *types.ListActivityResp, err error) {
	runnerID, err := idgen.Normalize(idgen.KindRunner, req.RunnerId)
	if err != nil {
		return nil, err
	}

	activities, err := l.svcCtx.Registry.ListByRunner(l.ctx, runnerID, req.Limit)
	if err != nil {
		return nil, err
	}

	list := make([]types.ActivityInfo, 0, len(activities))
	for i := range activities {
		list = append(list, logic.ConvertActivityToApi(&activities[i]))
	}
	return &types.ListActivityResp{List: list}, nil
}
