package tracker

import (
	"context"
	"errors"
	"sync"

	"github.com/zeromicro/go-zero/core/logx"

	"livetrack-platform/app/tracking/api/internal/persist"
	"livetrack-platform/app/tracking/model"
	"livetrack-platform/common/errorx"
	"livetrack-platform/common/utils/validate"
)

// Sample 一次定位采样的输入
type Sample struct {
	RunnerID  string
	Timestamp int64
	Latitude  float64
	Longitude float64
	AccuracyM float64
	AltitudeM float64
	SpeedMps  float64
	Heading   float64
	HeartRate int
	Cadence   int
}

// Snapshot 持久化确认后的聚合快照
type Snapshot struct {
	ActivityID          string  `json:"activity_id"`
	RunnerID            string  `json:"runner_id"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	CumulativeDistanceM float64 `json:"cumulative_distance_m"`
	PaceSecPerKm        float64 `json:"pace_sec_per_km"`
	RemainingDistanceM  float64 `json:"remaining_distance_m"`
	Timestamp           int64   `json:"timestamp"`
}

// Tracker 位置遥测处理器
//
// 每个活动的聚合状态（累计距离、最近采样）由独立的 aggregate 持有，
// 各自用互斥锁串行化读改写；不同活动之间完全并行，没有全局锁。
// 聚合只在持久化确认后更新，始终是落库数据的缓存。
type Tracker struct {
	store Store
	cache *SnapshotCache
	guard *persist.Guard

	mu         sync.Mutex
	aggregates map[string]*aggregate
}

// aggregate 单个活动的聚合状态
type aggregate struct {
	mu     sync.Mutex
	loaded bool

	runnerID        string
	status          int8
	startedAt       int64
	courseDistanceM float64
	event           *model.Event

	cumulativeM float64
	hasLast     bool
	lastLat     float64
	lastLng     float64
	lastTs      int64
}

// NewTracker 创建位置遥测处理器
func NewTracker(store Store, cache *SnapshotCache) *Tracker {
	return &Tracker{
		store:      store,
		cache:      cache,
		guard:      persist.NewGuard("tracker-store"),
		aggregates: make(map[string]*aggregate),
	}
}

// Ingest 接收一次定位采样
//
// 处理顺序（顺序即正确性）：
//  1. 校验坐标
//  2. 在活动级锁内基于上一条被接受的采样计算增量
//  3. 持久化采样与聚合统计（超时+有限重试）
//  4. 持久化确认后才更新内存聚合并返回快照
func (t *Tracker) Ingest(ctx context.Context, activityID string, sample Sample) (*Snapshot, error) {
	if !validate.IsValidLatitude(sample.Latitude) {
		return nil, errorx.ErrSampleInvalid("纬度超出合法范围")
	}
	if !validate.IsValidLongitude(sample.Longitude) {
		return nil, errorx.ErrSampleInvalid("经度超出合法范围")
	}

	agg := t.aggregate(activityID)
	agg.mu.Lock()
	defer agg.mu.Unlock()

	if !agg.loaded {
		if err := t.load(ctx, activityID, agg); err != nil {
			return nil, err
		}
	}

	if model.IsTerminalStatus(agg.status) {
		return nil, errorx.New(errorx.CodeActivityEnded)
	}

	// 增量距离：相对上一条被接受的采样，只加不减。
	// GPS 抖动导致的"后退"被单调累计吸收，这是有意的宽松策略。
	var increment float64
	if agg.hasLast {
		increment = Haversine(agg.lastLat, agg.lastLng, sample.Latitude, sample.Longitude)
	}
	newCumulative := agg.cumulativeM + increment

	// 采样时间戳乱序时照常接受距离增量，但记录的最近采样时间戳只进不退
	effectiveTs := sample.Timestamp
	if effectiveTs < agg.lastTs {
		logx.Infof("[Tracker] 采样时间戳乱序: activityID=%s, sample=%d, last=%d", activityID, sample.Timestamp, agg.lastTs)
		effectiveTs = agg.lastTs
	}

	pace := computePace(effectiveTs-agg.startedAt, newCumulative)
	remaining := agg.courseDistanceM - newCumulative
	if remaining < 0 {
		remaining = 0
	}

	// 越界只告警不拒收
	if agg.event != nil && !agg.event.InBounds(sample.Latitude, sample.Longitude) {
		logx.Infof("[Tracker] 采样越出赛道矩形: activityID=%s, lat=%v, lng=%v", activityID, sample.Latitude, sample.Longitude)
	}

	record := &model.LocationSample{
		ActivityID: activityID,
		RunnerID:   sample.RunnerID,
		Timestamp:  sample.Timestamp,
		Latitude:   sample.Latitude,
		Longitude:  sample.Longitude,
		AccuracyM:  sample.AccuracyM,
		AltitudeM:  sample.AltitudeM,
		SpeedMps:   sample.SpeedMps,
		Heading:    sample.Heading,
		HeartRate:  sample.HeartRate,
		Cadence:    sample.Cadence,
	}

	// 先落库，确认后才动内存聚合
	err := t.guard.Do(ctx, func(ctx context.Context) error {
		return t.store.AppendSample(ctx, record)
	})
	if err != nil {
		return nil, persist.Failure(err)
	}
	err = t.guard.Do(ctx, func(ctx context.Context) error {
		return t.store.UpdateStats(ctx, activityID, newCumulative, pace, sample.Latitude, sample.Longitude, effectiveTs)
	})
	if err != nil {
		return nil, persist.Failure(err)
	}

	agg.cumulativeM = newCumulative
	agg.hasLast = true
	agg.lastLat = sample.Latitude
	agg.lastLng = sample.Longitude
	agg.lastTs = effectiveTs

	snapshot := &Snapshot{
		ActivityID:          activityID,
		RunnerID:            agg.runnerID,
		Latitude:            sample.Latitude,
		Longitude:           sample.Longitude,
		CumulativeDistanceM: newCumulative,
		PaceSecPerKm:        pace,
		RemainingDistanceM:  remaining,
		Timestamp:           effectiveTs,
	}
	t.cache.Put(ctx, snapshot)

	return snapshot, nil
}

// Forget 丢弃活动的内存聚合与快照缓存
// 活动完赛或取消后调用，下次访问会从库里重新加载
func (t *Tracker) Forget(ctx context.Context, activityID string) {
	t.mu.Lock()
	delete(t.aggregates, activityID)
	t.mu.Unlock()

	t.cache.Evict(ctx, activityID)
}

// aggregate 获取或创建活动的聚合条目
func (t *Tracker) aggregate(activityID string) *aggregate {
	t.mu.Lock()
	defer t.mu.Unlock()

	agg, ok := t.aggregates[activityID]
	if !ok {
		agg = &aggregate{}
		t.aggregates[activityID] = agg
	}
	return agg
}

// load 从库里恢复聚合状态（在聚合锁内调用）
func (t *Tracker) load(ctx context.Context, activityID string, agg *aggregate) error {
	activity, err := t.store.LoadActivity(ctx, activityID)
	if err != nil {
		if errors.Is(err, model.ErrActivityNotFound) {
			return errorx.ErrActivityNotFound()
		}
		return errorx.ErrDBError(err)
	}

	agg.runnerID = activity.RunnerID
	agg.status = activity.Status
	agg.startedAt = activity.StartedAt
	agg.cumulativeM = activity.CumulativeDistanceM
	if activity.HasLastPing() {
		agg.hasLast = true
		agg.lastLat = activity.LastLat
		agg.lastLng = activity.LastLng
		agg.lastTs = activity.LastSampleAt
	} else if last, err := t.store.LoadLastSample(ctx, activityID); err == nil && last != nil {
		agg.hasLast = true
		agg.lastLat = last.Latitude
		agg.lastLng = last.Longitude
		agg.lastTs = last.Timestamp
	}

	// 赛事信息拿不到时不阻塞追踪，只是算不出剩余距离
	event, err := t.store.LoadEvent(ctx, activity.EventID)
	if err != nil {
		logx.Errorf("[Tracker] 加载赛事失败: activityID=%s, eventID=%s, err=%v", activityID, activity.EventID, err)
	} else {
		agg.event = event
		agg.courseDistanceM = event.CourseDistanceM
	}

	agg.loaded = true
	return nil
}

// computePace 计算配速（秒/公里）
// 距离为 0 时报 0，表示尚无法计算
func computePace(elapsedSec int64, distanceM float64) float64 {
	if distanceM <= 0 || elapsedSec <= 0 {
		return 0
	}
	return float64(elapsedSec) / (distanceM / 1000)
}
