package message

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"livetrack-platform/app/tracking/api/internal/logic"
	"livetrack-platform/app/tracking/api/internal/svc"
	"livetrack-platform/app/tracking/api/internal/types"
	"livetrack-platform/common/utils/idgen"
)

type SendMessageLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 观众发送加油消息
func NewSendMessageLogic(ctx context.Context, svcCtx *svc.ServiceContext) *SendMessageLogic {
	return &SendMessageLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *SendMessageLogic) SendMessage(req *types.SendMessageReq) (resp *types.SendMessageResp, err error) {
	activityID, err := idgen.Normalize(idgen.KindActivity, req.ActivityId)
	if err != nil {
		return nil, err
	}

	msg, err := l.svcCtx.Mailbox.Send(l.ctx, activityID, req.Sender, req.Text)
	if err != nil {
		l.Errorf("[SendMessage] 失败: activityID=%s, err=%v", activityID, err)
		return nil, err
	}

	// 实时推给观战订阅端
	l.svcCtx.Producer.PublishMessageCreated(l.ctx, msg)

	return &types.SendMessageResp{
		Message: logic.ConvertMessageToApi(msg),
	}, nil
}
