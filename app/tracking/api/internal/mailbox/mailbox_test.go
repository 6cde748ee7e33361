package mailbox

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"livetrack-platform/app/tracking/model"
	"livetrack-platform/common/errorx"
)

// fakeStore 内存版持久化边界
type fakeStore struct {
	mu         sync.Mutex
	activities map[string]*model.Activity
	messages   []*model.CheerMessage
	seq        int64
	createErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{activities: map[string]*model.Activity{
		"act_b3f6h1j5n8r2": {ID: "act_b3f6h1j5n8r2", Status: model.ActivityStatusActive},
	}}
}

func (s *fakeStore) FindActivity(_ context.Context, activityID string) (*model.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.activities[activityID]
	if !ok {
		return nil, model.ErrActivityNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *fakeStore) CreateMessage(_ context.Context, msg *model.CheerMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.seq++
	cp := *msg
	cp.CreatedAt = s.seq
	s.messages = append(s.messages, &cp)
	return nil
}

func (s *fakeStore) find(activityID, id string) *model.CheerMessage {
	for _, m := range s.messages {
		if m.ActivityID == activityID && m.ID == id {
			return m
		}
	}
	return nil
}

func (s *fakeStore) FindMessage(_ context.Context, activityID, id string) (*model.CheerMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.find(activityID, id)
	if m == nil {
		return nil, model.ErrMessageNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *fakeStore) ListMessages(_ context.Context, activityID string, limit, offset int) ([]model.CheerMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []model.CheerMessage
	for _, m := range s.messages {
		if m.ActivityID == activityID {
			all = append(all, *m)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt > all[j].CreatedAt })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (s *fakeStore) CountMessages(_ context.Context, activityID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, m := range s.messages {
		if m.ActivityID == activityID {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) FindUnannounced(_ context.Context, activityID string, limit int) ([]model.CheerMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.CheerMessage
	for _, m := range s.messages {
		if m.ActivityID == activityID && m.DeliveredAt == nil {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeStore) MarkDelivered(_ context.Context, activityID, id string, deliveredAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.find(activityID, id)
	if m != nil && m.DeliveredAt == nil {
		at := deliveredAt
		m.DeliveredAt = &at
	}
	return nil
}

func (s *fakeStore) MarkSpoken(_ context.Context, activityID, id string, spokenAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.find(activityID, id)
	if m != nil && m.DeliveredAt != nil && m.SpokenAt == nil {
		at := spokenAt
		m.SpokenAt = &at
	}
	return nil
}

func newTestMailbox() (*Mailbox, *fakeStore) {
	store := newFakeStore()
	b := NewMailbox(store)
	b.nowFn = func() int64 { return 9000 }
	return b, store
}

func TestSendEscapesMarkup(t *testing.T) {
	b, _ := newTestMailbox()

	msg, err := b.Send(context.Background(), "act_b3f6h1j5n8r2",
		"Alice", `加油！<script>alert("x")</script>`)
	if err != nil {
		t.Fatalf("发送失败: %v", err)
	}
	if strings.Contains(msg.Text, "<script>") {
		t.Fatalf("标记未被转义: %s", msg.Text)
	}
	if !strings.Contains(msg.Text, "&lt;script&gt;") {
		t.Fatalf("转义结果不符: %s", msg.Text)
	}
}

func TestSendRejectsBlankText(t *testing.T) {
	b, _ := newTestMailbox()

	for _, text := range []string{"", "   ", "\n\t  \n"} {
		_, err := b.Send(context.Background(), "act_b3f6h1j5n8r2", "Alice", text)
		if !errorx.Is(err, errorx.CodeMessageEmpty) {
			t.Fatalf("空白文本 %q 应被拒绝: %v", text, err)
		}
	}
}

func TestSendRejectsOversizedText(t *testing.T) {
	b, _ := newTestMailbox()

	_, err := b.Send(context.Background(), "act_b3f6h1j5n8r2",
		"Alice", strings.Repeat("a", MaxTextLen+1))
	if !errorx.Is(err, errorx.CodeInvalidParams) {
		t.Fatalf("超长文本应被拒绝: %v", err)
	}
}

func TestSendRejectsBlankSender(t *testing.T) {
	b, store := newTestMailbox()

	for _, sender := range []string{"", "  ", "\n\t"} {
		_, err := b.Send(context.Background(), "act_b3f6h1j5n8r2", sender, "加油")
		if !errorx.Is(err, errorx.CodeInvalidParams) {
			t.Fatalf("空白发送者 %q 应被拒绝: %v", sender, err)
		}
	}
	if len(store.messages) != 0 {
		t.Fatal("被拒绝的消息不应落库")
	}
}

func TestSendStoreFailure(t *testing.T) {
	b, store := newTestMailbox()

	store.mu.Lock()
	store.createErr = errors.New("store unavailable")
	store.mu.Unlock()

	_, err := b.Send(context.Background(), "act_b3f6h1j5n8r2", "Alice", "加油")
	if !errorx.Is(err, errorx.CodeServiceUnavailable) {
		t.Fatalf("落库失败应返回服务不可用: %v", err)
	}
}

func TestSendUnknownActivity(t *testing.T) {
	b, _ := newTestMailbox()

	_, err := b.Send(context.Background(), "act_zzzzzzzzzzzz", "Alice", "加油")
	if !errorx.Is(err, errorx.CodeActivityNotFound) {
		t.Fatalf("未知活动应报错: %v", err)
	}
}

func TestUnannouncedFIFOAndLimit(t *testing.T) {
	b, _ := newTestMailbox()
	ctx := context.Background()

	// 超过单次下发上限的消息
	var ids []string
	for i := 0; i < model.UnannouncedBatchLimit+5; i++ {
		msg, err := b.Send(ctx, "act_b3f6h1j5n8r2", "Alice", "加油 "+strings.Repeat("!", i+1))
		if err != nil {
			t.Fatalf("发送失败: %v", err)
		}
		ids = append(ids, msg.ID)
	}

	msgs, err := b.Unannounced(ctx, "act_b3f6h1j5n8r2")
	if err != nil {
		t.Fatalf("拉取失败: %v", err)
	}
	if len(msgs) != model.UnannouncedBatchLimit {
		t.Fatalf("单次下发数量超限: %d", len(msgs))
	}
	// 先到先播
	for i, m := range msgs {
		if m.ID != ids[i] {
			t.Fatalf("下发顺序不是先到先播: 位置 %d 是 %s，期望 %s", i, m.ID, ids[i])
		}
	}
}

func TestUnannouncedExcludesDelivered(t *testing.T) {
	b, _ := newTestMailbox()
	ctx := context.Background()

	first, _ := b.Send(ctx, "act_b3f6h1j5n8r2", "Alice", "第一条")
	second, _ := b.Send(ctx, "act_b3f6h1j5n8r2", "Bob", "第二条")

	if _, err := b.Announce(ctx, "act_b3f6h1j5n8r2", first.ID); err != nil {
		t.Fatalf("确认下发失败: %v", err)
	}

	msgs, err := b.Unannounced(ctx, "act_b3f6h1j5n8r2")
	if err != nil {
		t.Fatalf("拉取失败: %v", err)
	}
	if len(msgs) != 1 || msgs[0].ID != second.ID {
		t.Fatalf("已下发的消息不应重复出现: %+v", msgs)
	}
}

func TestAnnounceIdempotent(t *testing.T) {
	b, store := newTestMailbox()
	ctx := context.Background()

	msg, _ := b.Send(ctx, "act_b3f6h1j5n8r2", "Alice", "加油")

	first, err := b.Announce(ctx, "act_b3f6h1j5n8r2", msg.ID)
	if err != nil {
		t.Fatalf("确认下发失败: %v", err)
	}
	if first.DeliveredAt == nil || *first.DeliveredAt != 9000 {
		t.Fatalf("下发时间未写入: %+v", first.DeliveredAt)
	}

	// 重复确认：时间戳不被覆盖
	b.nowFn = func() int64 { return 9500 }
	second, err := b.Announce(ctx, "act_b3f6h1j5n8r2", msg.ID)
	if err != nil {
		t.Fatalf("重复确认应为空操作: %v", err)
	}
	if *second.DeliveredAt != 9000 {
		t.Fatalf("重复确认覆盖了下发时间: %d", *second.DeliveredAt)
	}
	if stored := store.find("act_b3f6h1j5n8r2", msg.ID); *stored.DeliveredAt != 9000 {
		t.Fatalf("库里的下发时间被覆盖: %d", *stored.DeliveredAt)
	}
}

func TestAnnounceUnknownMessage(t *testing.T) {
	b, _ := newTestMailbox()

	_, err := b.Announce(context.Background(), "act_b3f6h1j5n8r2", "msg_zzzzzzzzzzzz")
	if !errorx.Is(err, errorx.CodeMessageNotFound) {
		t.Fatalf("未知消息应报错: %v", err)
	}
}

func TestMarkSpokenRequiresDelivery(t *testing.T) {
	b, _ := newTestMailbox()
	ctx := context.Background()

	msg, _ := b.Send(ctx, "act_b3f6h1j5n8r2", "Alice", "加油")

	// 未下发不能确认播报
	_, err := b.MarkSpoken(ctx, "act_b3f6h1j5n8r2", msg.ID)
	if !errorx.Is(err, errorx.CodeInvalidParams) {
		t.Fatalf("未下发的消息不能确认播报: %v", err)
	}

	if _, err := b.Announce(ctx, "act_b3f6h1j5n8r2", msg.ID); err != nil {
		t.Fatalf("确认下发失败: %v", err)
	}
	spoken, err := b.MarkSpoken(ctx, "act_b3f6h1j5n8r2", msg.ID)
	if err != nil {
		t.Fatalf("确认播报失败: %v", err)
	}
	if spoken.SpokenAt == nil || *spoken.SpokenAt != 9000 {
		t.Fatalf("播报时间未写入: %+v", spoken.SpokenAt)
	}

	// 重复确认幂等
	b.nowFn = func() int64 { return 9500 }
	again, err := b.MarkSpoken(ctx, "act_b3f6h1j5n8r2", msg.ID)
	if err != nil {
		t.Fatalf("重复确认应为空操作: %v", err)
	}
	if *again.SpokenAt != 9000 {
		t.Fatalf("重复确认覆盖了播报时间: %d", *again.SpokenAt)
	}
}

func TestListNewestFirst(t *testing.T) {
	b, _ := newTestMailbox()
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		msg, _ := b.Send(ctx, "act_b3f6h1j5n8r2", "Alice", "加油 "+strings.Repeat("!", i+1))
		ids = append(ids, msg.ID)
	}

	msgs, total, err := b.List(ctx, "act_b3f6h1j5n8r2", 1, 3)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if total != 5 {
		t.Fatalf("总数错误: %d", total)
	}
	if len(msgs) != 3 {
		t.Fatalf("分页大小错误: %d", len(msgs))
	}
	// 新的在前
	if msgs[0].ID != ids[4] || msgs[2].ID != ids[2] {
		t.Fatalf("排序不是新的在前: %+v", msgs)
	}
}
