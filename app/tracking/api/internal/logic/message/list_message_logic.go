package message

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"livetrack-platform/app/tracking/api/internal/logic"
	"livetrack-platform/app/tracking/api/internal/svc"
	"livetrack-platform/app/tracking/api/internal/types"
	"livetrack-platform/app/tracking/model"
	"livetrack-platform/common/utils/idgen"
)

type ListMessageLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 活动的消息列表（新的在前，分页）
func NewListMessageLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListMessageLogic {
	return &ListMessageLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ListMessageLogic) ListMessage(req *types.ListMessageReq) (resp *types.ListMessageResp, err error) {
	activityID, err := idgen.Normalize(idgen.KindActivity, req.ActivityId)
	if err != nil {
		return nil, err
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 || pageSize > model.MaxPageSize {
		pageSize = model.DefaultPageSize
	}

	msgs, total, err := l.svcCtx.Mailbox.List(l.ctx, activityID, page, pageSize)
	if err != nil {
		return nil, err
	}

	return &types.ListMessageResp{
		List:     logic.ConvertMessagesToApi(msgs),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
