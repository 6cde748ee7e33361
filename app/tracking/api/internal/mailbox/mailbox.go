package mailbox

import (
	"context"
	"errors"
	"html"
	"strings"
	"time"
	"unicode"

	"github.com/zeromicro/go-zero/core/logx"

	"livetrack-platform/app/tracking/api/internal/persist"
	"livetrack-platform/app/tracking/model"
	"livetrack-platform/common/errorx"
	"livetrack-platform/common/utils/idgen"
	"livetrack-platform/common/utils/validate"
)

const (
	// MaxTextLen 消息文本长度上限（转义后）
	MaxTextLen = 500
	// MaxSenderLen 发送者名称长度上限
	MaxSenderLen = 50
)

// Mailbox 加油消息信箱
//
// 消息生命周期单向流转：创建 -> 下发 -> 播报，时间戳一经写入不再改动，
// 重复的下发/播报确认是幂等空操作。
type Mailbox struct {
	store Store
	guard *persist.Guard
	nowFn func() int64
}

// NewMailbox 创建加油消息信箱
func NewMailbox(store Store) *Mailbox {
	return &Mailbox{
		store: store,
		guard: persist.NewGuard("mailbox-store"),
		nowFn: func() int64 { return time.Now().Unix() },
	}
}

// Send 观众发送加油消息
// 文本在存储前完成修剪与转义，设备端可直接展示/播报
func (b *Mailbox) Send(ctx context.Context, activityID, sender, text string) (*model.CheerMessage, error) {
	if _, err := b.store.FindActivity(ctx, activityID); err != nil {
		return nil, mapErr(err)
	}

	text = sanitize(text)
	if validate.IsBlank(text) {
		return nil, errorx.New(errorx.CodeMessageEmpty)
	}
	if !validate.MaxLength(text, MaxTextLen) {
		return nil, errorx.ErrInvalidParams("消息文本过长")
	}

	sender = sanitize(sender)
	if validate.IsBlank(sender) {
		return nil, errorx.ErrInvalidParams("发送者名称不能为空")
	}
	if !validate.MaxLength(sender, MaxSenderLen) {
		return nil, errorx.ErrInvalidParams("发送者名称过长")
	}

	msg := &model.CheerMessage{
		ID:         idgen.New(idgen.KindMessage),
		ActivityID: activityID,
		Sender:     sender,
		Text:       text,
	}
	// 写路径与采样落库同等防护：超时 + 重试 + 熔断
	err := b.guard.Do(ctx, func(ctx context.Context) error {
		return b.store.CreateMessage(ctx, msg)
	})
	if err != nil {
		return nil, persist.Failure(err)
	}
	logx.WithContext(ctx).Infof("[Mailbox] 收到加油消息: activityID=%s, messageID=%s", activityID, msg.ID)
	return msg, nil
}

// List 查询活动的消息列表（新的在前，分页）
func (b *Mailbox) List(ctx context.Context, activityID string, page, pageSize int) ([]model.CheerMessage, int64, error) {
	if _, err := b.store.FindActivity(ctx, activityID); err != nil {
		return nil, 0, mapErr(err)
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > model.MaxPageSize {
		pageSize = model.DefaultPageSize
	}

	msgs, err := b.store.ListMessages(ctx, activityID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, errorx.ErrDBError(err)
	}
	total, err := b.store.CountMessages(ctx, activityID)
	if err != nil {
		return nil, 0, errorx.ErrDBError(err)
	}
	return msgs, total, nil
}

// Unannounced 跑者设备拉取待播报消息
// 旧的在前（先到先播），单次至多下发 UnannouncedBatchLimit 条；
// 拉取本身不改变消息状态，设备逐条 Announce 确认
func (b *Mailbox) Unannounced(ctx context.Context, activityID string) ([]model.CheerMessage, error) {
	if _, err := b.store.FindActivity(ctx, activityID); err != nil {
		return nil, mapErr(err)
	}
	msgs, err := b.store.FindUnannounced(ctx, activityID, model.UnannouncedBatchLimit)
	if err != nil {
		return nil, errorx.ErrDBError(err)
	}
	return msgs, nil
}

// Announce 确认消息已下发到设备
// 幂等：已确认过的消息原样返回，下发时间不被覆盖
func (b *Mailbox) Announce(ctx context.Context, activityID, messageID string) (*model.CheerMessage, error) {
	msg, err := b.store.FindMessage(ctx, activityID, messageID)
	if err != nil {
		return nil, mapErr(err)
	}
	if msg.IsDelivered() {
		return msg, nil
	}

	if err := b.store.MarkDelivered(ctx, activityID, messageID, b.nowFn()); err != nil {
		return nil, errorx.ErrDBError(err)
	}
	msg, err = b.store.FindMessage(ctx, activityID, messageID)
	if err != nil {
		return nil, mapErr(err)
	}
	return msg, nil
}

// MarkSpoken 确认设备完成语音播报
// 只能发生在下发之后；重复确认是幂等空操作
func (b *Mailbox) MarkSpoken(ctx context.Context, activityID, messageID string) (*model.CheerMessage, error) {
	msg, err := b.store.FindMessage(ctx, activityID, messageID)
	if err != nil {
		return nil, mapErr(err)
	}
	if msg.IsSpoken() {
		return msg, nil
	}
	if !msg.IsDelivered() {
		return nil, errorx.ErrInvalidParams("消息尚未下发，不能确认播报")
	}

	if err := b.store.MarkSpoken(ctx, activityID, messageID, b.nowFn()); err != nil {
		return nil, errorx.ErrDBError(err)
	}
	msg, err = b.store.FindMessage(ctx, activityID, messageID)
	if err != nil {
		return nil, mapErr(err)
	}
	return msg, nil
}

// sanitize 修剪空白、去掉控制字符并转义标记
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, s)
	return html.EscapeString(s)
}

// mapErr 将模型层错误映射为业务错误
func mapErr(err error) error {
	switch {
	case errors.Is(err, model.ErrActivityNotFound):
		return errorx.ErrActivityNotFound()
	case errors.Is(err, model.ErrMessageNotFound):
		return errorx.ErrMessageNotFound()
	default:
		return errorx.ErrDBError(err)
	}
}
