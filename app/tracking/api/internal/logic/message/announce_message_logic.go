package message

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"livetrack-platform/app/tracking/api/internal/logic"
	"livetrack-platform/app/tracking/api/internal/svc"
	"livetrack-platform/app/tracking/api/internal/types"
	"livetrack-platform/common/utils/idgen"
)

type AnnounceMessageLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 确认消息已下发到设备（幂等，时间戳单向）
func NewAnnounceMessageLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AnnounceMessageLogic {
	return &AnnounceMessageLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *AnnounceMessageLogic) AnnounceMessage(req *types.AnnounceMessageReq) (resp *types.AnnounceMessageResp, err error) {
	activityID, err := idgen.Normalize(idgen.KindActivity, req.ActivityId)
	if err != nil {
		return nil, err
	}
	messageID, err := idgen.Normalize(idgen.KindMessage, req.MessageId)
	if err != nil {
		return nil, err
	}

	msg, err := l.svcCtx.Mailbox.Announce(l.ctx, activityID, messageID)
	if err != nil {
		l.Errorf("[AnnounceMessage] 失败: activityID=%s, messageID=%s, err=%v", activityID, messageID, err)
		return nil, err
	}

	return &types.AnnounceMessageResp{
		Message: logic.ConvertMessageToApi(msg),
	}, nil
}
