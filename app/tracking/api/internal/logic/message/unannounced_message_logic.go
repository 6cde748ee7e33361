package message

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"livetrack-platform/app/tracking/api/internal/logic"
	"livetrack-platform/app/tracking/api/internal/svc"
	"livetrack-platform/app/tracking/api/internal/types"
	"livetrack-platform/common/utils/idgen"
)

type UnannouncedMessageLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 跑者设备拉取待播报消息（先到先播，单次上限内）
func NewUnannouncedMessageLogic(ctx context.Context, svcCtx *svc.ServiceContext) *UnannouncedMessageLogic {
	return &UnannouncedMessageLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *UnannouncedMessageLogic) UnannouncedMessage(req *types.UnannouncedMessageReq) (resp *types.UnannouncedMessageResp, err error) {
	activityID, err := idgen.Normalize(idgen.KindActivity, req.ActivityId)
	if err != nil {
		return nil, err
	}

	msgs, err := l.svcCtx.Mailbox.Unannounced(l.ctx, activityID)
	if err != nil {
		return nil, err
	}

	return &types.UnannouncedMessageResp{
		List: logic.ConvertMessagesToApi(msgs),
	}, nil
}
