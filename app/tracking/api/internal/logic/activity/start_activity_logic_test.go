package activity

import (
	"context"
	"math"
	"sync"
	"testing"

	"livetrack-platform/app/tracking/api/internal/registry"
	"livetrack-platform/app/tracking/api/internal/svc"
	"livetrack-platform/app/tracking/api/internal/tracker"
	"livetrack-platform/app/tracking/api/internal/types"
	"livetrack-platform/app/tracking/model"
)

// fakeStores 内存版持久化边界，同时充当生命周期与遥测两侧的存储
type fakeStores struct {
	mu         sync.Mutex
	runners    map[string]*model.Runner
	events     map[string]*model.Event
	activities map[string]*model.Activity
	samples    []*model.LocationSample
}

func newFakeStores() *fakeStores {
	return &fakeStores{
		runners:    make(map[string]*model.Runner),
		events:     make(map[string]*model.Event),
		activities: make(map[string]*model.Activity),
	}
}

func (s *fakeStores) GetOrProvisionRunner(_ context.Context, runnerID string) (*model.Runner, error) {
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

func (s *fakeStores) FindEvent(_ context.Context, eventID string) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
	if !ok {
		return nil, model.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *fakeStores) CreateEvent(_ context.Context, event *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *event
	s.events[event.ID] = &cp
	return nil
}

func (s *fakeStores) EnsureDefaultEvent(_ context.Context) (*model.Event, error) {
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

func (s *fakeStores) CreateActivity(_ context.Context, activity *model.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *activity
	s.activities[activity.ID] = &cp
	return nil
}

func (s *fakeStores) FindActivity(_ context.Context, activityID string) (*model.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.activities[activityID]
	if !ok {
		return nil, model.ErrActivityNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *fakeStores) FindActivitiesByRunner(_ context.Context, runnerID string, limit int) ([]model.Activity, error) {
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

func (s *fakeStores) UpdateActivityStatus(_ context.Context, activityID string, from, to int8, timestamps map[string]interface{}) error {
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
	if v, ok := timestamps["started_at"]; ok {
		a.StartedAt = v.(int64)
	}
	if v, ok := timestamps["ended_at"]; ok {
		a.EndedAt = v.(int64)
	}
	return nil
}

func (s *fakeStores) LoadActivity(ctx context.Context, activityID string) (*model.Activity, error) {
	return s.FindActivity(ctx, activityID)
}

func (s *fakeStores) LoadEvent(ctx context.Context, eventID string) (*model.Event, error) {
	return s.FindEvent(ctx, eventID)
}

func (s *fakeStores) LoadLastSample(_ context.Context, activityID string) (*model.LocationSample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.samples) - 1; i >= 0; i-- {
		if s.samples[i].ActivityID == activityID {
			cp := *s.samples[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeStores) AppendSample(_ context.Context, sample *model.LocationSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sample
	s.samples = append(s.samples, &cp)
	return nil
}

func (s *fakeStores) UpdateStats(_ context.Context, activityID string, cumulativeM, paceSecPerKm, lat, lng float64, sampleAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.activities[activityID]
	if !ok {
		return model.ErrActivityNotFound
	}
	a.CumulativeDistanceM = cumulativeM
	a.PaceSecPerKm = paceSecPerKm
	a.LastLat = lat
	a.LastLng = lng
	a.LastSampleAt = sampleAt
	return nil
}

func newTestSvcCtx() (*svc.ServiceContext, *fakeStores) {
	fs := newFakeStores()
	trk := tracker.NewTracker(fs, nil)
	reg := registry.NewRegistry(fs, trk)
	return &svc.ServiceContext{
		Tracker:  trk,
		Registry: reg,
	}, fs
}

func TestStartForwardsStartLocation(t *testing.T) {
	svcCtx, fs := newTestSvcCtx()
	ctx := context.Background()

	resp, err := NewStartActivityLogic(ctx, svcCtx).StartActivity(&types.StartActivityReq{
		ActivityId: "act_b3f6h1j5n8r2",
		RunnerId:   "run_x7k2m9q4p1d8",
		StartedAt:  1000,
		StartLocation: &types.StartLocationInfo{
			Latitude: 52.5163, Longitude: 13.3777, Timestamp: 1000,
		},
	})
	if err != nil {
		t.Fatalf("开始活动失败: %v", err)
	}
	if !resp.Created {
		t.Fatal("首次开始应新建活动")
	}

	// 初始位置已作为首条采样落库
	if len(fs.samples) != 1 {
		t.Fatalf("初始位置未落库: %d", len(fs.samples))
	}
	if fs.samples[0].Latitude != 52.5163 || fs.samples[0].Longitude != 13.3777 {
		t.Fatalf("首条采样坐标不符: %+v", fs.samples[0])
	}

	// 首段距离以初始位置为锚点起算
	snap, err := svcCtx.Tracker.Ingest(ctx, "act_b3f6h1j5n8r2", tracker.Sample{
		RunnerID: "run_x7k2m9q4p1d8", Timestamp: 1060,
		Latitude: 52.5173, Longitude: 13.3787,
	})
	if err != nil {
		t.Fatalf("后续采样被拒绝: %v", err)
	}
	want := tracker.Haversine(52.5163, 13.3777, 52.5173, 13.3787)
	if math.Abs(snap.CumulativeDistanceM-want) > 1e-6 {
		t.Fatalf("首段距离未锚定初始位置: got=%v want=%v", snap.CumulativeDistanceM, want)
	}
}

func TestStartRetryDoesNotReforwardLocation(t *testing.T) {
	svcCtx, fs := newTestSvcCtx()
	ctx := context.Background()

	req := &types.StartActivityReq{
		ActivityId: "act_b3f6h1j5n8r2",
		RunnerId:   "run_x7k2m9q4p1d8",
		StartedAt:  1000,
		StartLocation: &types.StartLocationInfo{
			Latitude: 52.5163, Longitude: 13.3777, Timestamp: 1000,
		},
	}
	if _, err := NewStartActivityLogic(ctx, svcCtx).StartActivity(req); err != nil {
		t.Fatalf("开始活动失败: %v", err)
	}

	// 断线重试：不重复转发初始位置
	resp, err := NewStartActivityLogic(ctx, svcCtx).StartActivity(req)
	if err != nil {
		t.Fatalf("幂等重试失败: %v", err)
	}
	if resp.Created {
		t.Fatal("重试不应新建活动")
	}
	if len(fs.samples) != 1 {
		t.Fatalf("重试重复转发了初始位置: %d", len(fs.samples))
	}
}

func TestStartWithoutLocationIngestsNothing(t *testing.T) {
	svcCtx, fs := newTestSvcCtx()

	_, err := NewStartActivityLogic(context.Background(), svcCtx).StartActivity(&types.StartActivityReq{
		RunnerId: "run_x7k2m9q4p1d8",
	})
	if err != nil {
		t.Fatalf("开始活动失败: %v", err)
	}
	if len(fs.samples) != 0 {
		t.Fatalf("未上报初始位置却有采样落库: %d", len(fs.samples))
	}
}
