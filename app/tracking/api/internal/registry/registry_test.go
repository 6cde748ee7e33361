package registry

import (
	"context"
	"sync"
	"testing"

	"livetrack-platform/app/tracking/model"
	"livetrack-platform/common/errorx"
)

// fakeStore 内存版持久化边界
type fakeStore struct {
	mu         sync.Mutex
	runners    map[string]*model.Runner
	events     map[string]*model.Event
	activities map[string]*model.Activity
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		runners:    make(map[string]*model.Runner),
		events:     make(map[string]*model.Event),
		activities: make(map[string]*model.Activity),
	}
}

func (s *fakeStore) GetOrProvisionRunner(_ context.Context, runnerID string) (*model.Runner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.runners[runnerID]; ok {
		cp := *r
		return &cp, nil
	}
	r := &model.Runner{ID: runnerID, Name: "Runner " + runnerID, Provisional: true}
	s.runners[runnerID] = r
	cp := *r
	return &cp, nil
}

func (s *fakeStore) FindEvent(_ context.Context, eventID string) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
	if !ok {
		return nil, model.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *fakeStore) CreateEvent(_ context.Context, event *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *event
	s.events[event.ID] = &cp
	return nil
}

func (s *fakeStore) EnsureDefaultEvent(_ context.Context) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.events[model.DefaultEventID]; ok {
		cp := *e
		return &cp, nil
	}
	e := &model.Event{ID: model.DefaultEventID, Name: "Open Training Run", Type: model.EventTypeOther}
	s.events[e.ID] = e
	cp := *e
	return &cp, nil
}

func (s *fakeStore) CreateActivity(_ context.Context, activity *model.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *activity
	s.activities[activity.ID] = &cp
	return nil
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

func (s *fakeStore) FindActivitiesByRunner(_ context.Context, runnerID string, limit int) ([]model.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Activity
	for _, a := range s.activities {
		if a.RunnerID == runnerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateActivityStatus(_ context.Context, activityID string, from, to int8, timestamps map[string]interface{}) error {
	if !model.CanTransition(from, to) {
		return model.ErrActivityStatusInvalid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.activities[activityID]
	if !ok {
		return model.ErrActivityNotFound
	}
	if a.Status != from {
		return model.ErrActivityStatusInvalid
	}
	a.Status = to
	if v, ok := timestamps["ended_at"]; ok {
		a.EndedAt = v.(int64)
	}
	if v, ok := timestamps["started_at"]; ok {
		a.StartedAt = v.(int64)
	}
	return nil
}

// fakeFlusher 记录被丢弃的聚合
type fakeFlusher struct {
	mu        sync.Mutex
	forgotten []string
}

func (f *fakeFlusher) Forget(_ context.Context, activityID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forgotten = append(f.forgotten, activityID)
}

func newTestRegistry() (*Registry, *fakeStore, *fakeFlusher) {
	store := newFakeStore()
	flusher := &fakeFlusher{}
	r := NewRegistry(store, flusher)
	r.nowFn = func() int64 { return 5000 }
	return r, store, flusher
}

func TestStartProvisionsRunnerAndDefaultEvent(t *testing.T) {
	r, store, _ := newTestRegistry()

	activity, event, created, err := r.Start(context.Background(), StartParams{
		RunnerID: "run_x7k2m9q4p1d8",
	})
	if err != nil {
		t.Fatalf("开始活动失败: %v", err)
	}
	if !created {
		t.Fatal("首次开始应新建活动")
	}
	if activity.Status != model.ActivityStatusActive {
		t.Fatalf("新活动应处于进行中: %d", activity.Status)
	}
	if activity.StartedAt != 5000 {
		t.Fatalf("开始时间未落到当前时刻: %d", activity.StartedAt)
	}
	if event.ID != model.DefaultEventID {
		t.Fatalf("未指定赛事时应挂默认赛事: %s", event.ID)
	}
	runner, ok := store.runners["run_x7k2m9q4p1d8"]
	if !ok {
		t.Fatal("跑者未被补建")
	}
	if !runner.Provisional {
		t.Fatal("补建跑者应带占位标记")
	}
}

func TestStartIdempotentRetry(t *testing.T) {
	r, _, _ := newTestRegistry()
	ctx := context.Background()

	first, _, created, err := r.Start(ctx, StartParams{
		ActivityID: "act_b3f6h1j5n8r2",
		RunnerID:   "run_x7k2m9q4p1d8",
	})
	if err != nil || !created {
		t.Fatalf("首次开始失败: created=%v err=%v", created, err)
	}

	// 携带同一活动ID的重试：返回当前状态，不重复建档
	second, _, created, err := r.Start(ctx, StartParams{
		ActivityID: "act_b3f6h1j5n8r2",
		RunnerID:   "run_x7k2m9q4p1d8",
	})
	if err != nil {
		t.Fatalf("幂等重试失败: %v", err)
	}
	if created {
		t.Fatal("重试不应新建活动")
	}
	if second.ID != first.ID || second.StartedAt != first.StartedAt {
		t.Fatal("重试返回的不是原活动状态")
	}
}

func TestStartActivatesPlanned(t *testing.T) {
	r, store, _ := newTestRegistry()
	store.activities["act_b3f6h1j5n8r2"] = &model.Activity{
		ID: "act_b3f6h1j5n8r2", RunnerID: "run_x7k2m9q4p1d8",
		EventID: model.DefaultEventID, Status: model.ActivityStatusPlanned,
	}

	a, _, created, err := r.Start(context.Background(), StartParams{
		ActivityID: "act_b3f6h1j5n8r2",
		RunnerID:   "run_x7k2m9q4p1d8",
	})
	if err != nil {
		t.Fatalf("开始计划中活动失败: %v", err)
	}
	if created {
		t.Fatal("激活已有活动不应算新建")
	}
	if a.Status != model.ActivityStatusActive {
		t.Fatalf("计划中活动应被激活: %d", a.Status)
	}
	if a.StartedAt != 5000 {
		t.Fatalf("激活时应记录开始时间: %d", a.StartedAt)
	}
	// 已进行中的活动不再重复流转
	again, _, _, err := r.Start(context.Background(), StartParams{
		ActivityID: "act_b3f6h1j5n8r2",
		RunnerID:   "run_x7k2m9q4p1d8",
	})
	if err != nil || again.Status != model.ActivityStatusActive {
		t.Fatalf("重复激活应为空操作: %v", err)
	}
}

func TestStartWithCustomEvent(t *testing.T) {
	r, _, _ := newTestRegistry()

	_, event, _, err := r.Start(context.Background(), StartParams{
		RunnerID: "run_x7k2m9q4p1d8",
		CustomEvent: &CustomEvent{
			Name: "Midnight Half",
			Type: "half-marathon",
		},
	})
	if err != nil {
		t.Fatalf("开始活动失败: %v", err)
	}
	if event.Type != model.EventTypeHalfMarathon {
		t.Fatalf("赛事类型解析错误: %d", event.Type)
	}
	// 未给距离时按类型补标准赛程距离
	if event.CourseDistanceM != 21097.5 {
		t.Fatalf("半马标准距离错误: %v", event.CourseDistanceM)
	}
}

func TestStartWithUnknownEventType(t *testing.T) {
	r, _, _ := newTestRegistry()

	_, event, _, err := r.Start(context.Background(), StartParams{
		RunnerID:    "run_x7k2m9q4p1d8",
		CustomEvent: &CustomEvent{Name: "Trail Jam", Type: "trail"},
	})
	if err != nil {
		t.Fatalf("开始活动失败: %v", err)
	}
	// 枚举是封闭的：未知类型归入 other，而不是报错
	if event.Type != model.EventTypeOther {
		t.Fatalf("未知赛事类型应归入 other: %d", event.Type)
	}
}

func TestStartWithMissingEvent(t *testing.T) {
	r, _, _ := newTestRegistry()

	_, _, _, err := r.Start(context.Background(), StartParams{
		RunnerID: "run_x7k2m9q4p1d8",
		EventID:  "evt_c4g7k2m5p9s1",
	})
	if !errorx.Is(err, errorx.CodeNotFound) {
		t.Fatalf("挂靠不存在的赛事应报错: %v", err)
	}
}

func TestEnsureStartedProvisionsActivity(t *testing.T) {
	r, store, _ := newTestRegistry()
	ctx := context.Background()

	// 采样先于 start 到达
	err := r.EnsureStarted(ctx, "act_b3f6h1j5n8r2", "run_x7k2m9q4p1d8")
	if err != nil {
		t.Fatalf("自动补建失败: %v", err)
	}
	a, ok := store.activities["act_b3f6h1j5n8r2"]
	if !ok {
		t.Fatal("活动未被补建")
	}
	if a.Status != model.ActivityStatusActive {
		t.Fatalf("补建的活动应处于进行中: %d", a.Status)
	}

	// 再次调用是空操作
	if err := r.EnsureStarted(ctx, "act_b3f6h1j5n8r2", "run_x7k2m9q4p1d8"); err != nil {
		t.Fatalf("对进行中活动应为空操作: %v", err)
	}
}

func TestEnsureStartedActivatesPlanned(t *testing.T) {
	r, store, _ := newTestRegistry()
	store.activities["act_b3f6h1j5n8r2"] = &model.Activity{
		ID: "act_b3f6h1j5n8r2", RunnerID: "run_x7k2m9q4p1d8",
		EventID: model.DefaultEventID, Status: model.ActivityStatusPlanned,
	}

	if err := r.EnsureStarted(context.Background(), "act_b3f6h1j5n8r2", "run_x7k2m9q4p1d8"); err != nil {
		t.Fatalf("计划中活动应被激活: %v", err)
	}
	if store.activities["act_b3f6h1j5n8r2"].Status != model.ActivityStatusActive {
		t.Fatal("状态未流转到进行中")
	}
	if store.activities["act_b3f6h1j5n8r2"].StartedAt != 5000 {
		t.Fatal("激活时应记录开始时间")
	}
}

func TestEnsureStartedRejectsTerminal(t *testing.T) {
	r, store, _ := newTestRegistry()
	store.activities["act_b3f6h1j5n8r2"] = &model.Activity{
		ID: "act_b3f6h1j5n8r2", Status: model.ActivityStatusCancelled,
	}

	err := r.EnsureStarted(context.Background(), "act_b3f6h1j5n8r2", "run_x7k2m9q4p1d8")
	if !errorx.Is(err, errorx.CodeActivityEnded) {
		t.Fatalf("已终结活动不允许复活: %v", err)
	}
}

func TestFinishFlushesAggregate(t *testing.T) {
	r, store, flusher := newTestRegistry()
	store.activities["act_b3f6h1j5n8r2"] = &model.Activity{
		ID: "act_b3f6h1j5n8r2", Status: model.ActivityStatusActive, StartedAt: 1000,
	}

	a, err := r.Finish(context.Background(), "act_b3f6h1j5n8r2")
	if err != nil {
		t.Fatalf("完赛失败: %v", err)
	}
	if a.Status != model.ActivityStatusFinished {
		t.Fatalf("状态未流转到已完赛: %d", a.Status)
	}
	if a.EndedAt != 5000 {
		t.Fatalf("结束时间未记录: %d", a.EndedAt)
	}
	if len(flusher.forgotten) != 1 || flusher.forgotten[0] != "act_b3f6h1j5n8r2" {
		t.Fatalf("完赛后应丢弃内存聚合: %v", flusher.forgotten)
	}
}

func TestFinishIdempotent(t *testing.T) {
	r, store, _ := newTestRegistry()
	store.activities["act_b3f6h1j5n8r2"] = &model.Activity{
		ID: "act_b3f6h1j5n8r2", Status: model.ActivityStatusFinished, EndedAt: 4000,
	}

	a, err := r.Finish(context.Background(), "act_b3f6h1j5n8r2")
	if err != nil {
		t.Fatalf("重复完赛应为空操作: %v", err)
	}
	if a.EndedAt != 4000 {
		t.Fatalf("重复完赛不应改写结束时间: %d", a.EndedAt)
	}
}

func TestCancelFinishedActivity(t *testing.T) {
	r, store, _ := newTestRegistry()
	store.activities["act_b3f6h1j5n8r2"] = &model.Activity{
		ID: "act_b3f6h1j5n8r2", Status: model.ActivityStatusFinished,
	}

	_, err := r.Cancel(context.Background(), "act_b3f6h1j5n8r2")
	if !errorx.Is(err, errorx.CodeActivityStatusInvalid) {
		t.Fatalf("已完赛活动不可取消: %v", err)
	}
}

func TestCancelPlannedActivity(t *testing.T) {
	r, store, _ := newTestRegistry()
	store.activities["act_b3f6h1j5n8r2"] = &model.Activity{
		ID: "act_b3f6h1j5n8r2", Status: model.ActivityStatusPlanned,
	}

	a, err := r.Cancel(context.Background(), "act_b3f6h1j5n8r2")
	if err != nil {
		t.Fatalf("计划中活动应可取消: %v", err)
	}
	if a.Status != model.ActivityStatusCancelled {
		t.Fatalf("状态未流转到已取消: %d", a.Status)
	}
}

func TestGetIsStrict(t *testing.T) {
	r, _, _ := newTestRegistry()

	// 查询绝不补建
	_, err := r.Get(context.Background(), "act_b3f6h1j5n8r2")
	if !errorx.Is(err, errorx.CodeActivityNotFound) {
		t.Fatalf("查询不存在的活动应报错: %v", err)
	}
}
