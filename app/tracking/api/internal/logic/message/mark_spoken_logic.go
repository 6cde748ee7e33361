package message

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"livetrack-platform/app/tracking/api/internal/logic"
	"livetrack-platform/app/tracking/api/internal/svc"
	"livetrack-platform/app/tracking/api/internal/types"
	"livetrack-platform/common/utils/idgen"
)

type MarkSpokenLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 设备确认语音播报完成（只能发生在下发之后，幂等）
func NewMarkSpokenLogic(ctx context.Context, svcCtx *svc.ServiceContext) *MarkSpokenLogic {
	return &MarkSpokenLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *MarkSpokenLogic) MarkSpoken(req *types.MarkSpokenReq) (resp *types.MarkSpokenResp, err error) {
	activityID, err := idgen.Normalize(idgen.KindActivity, req.ActivityId)
	if err != nil {
		return nil, err
	}
	messageID, err := idgen.Normalize(idgen.KindMessage, req.MessageId)
	if err != nil {
		return nil, err
	}

	msg, err := l.svcCtx.Mailbox.MarkSpoken(l.ctx, activityID, messageID)
	if err != nil {
		l.Errorf("[MarkSpoken] 失败: activityID=%s, messageID=%s, err=%v", activityID, messageID, err)
		return nil, err
	}

	return &types.MarkSpokenResp{
		Message: logic.ConvertMessageToApi(msg),
	}, nil
}
