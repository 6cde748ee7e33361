package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"livetrack-platform/app/tracking/api/internal/tracker"
	"livetrack-platform/app/tracking/model"
	"livetrack-platform/common/messaging"
)

// Producer 追踪服务消息发布器
// nil 安全：Producer 或 Client 为 nil 时所有方法静默返回
type Producer struct {
	client *messaging.Client
}

// NewProducer 创建消息发布器
func NewProducer(client *messaging.Client) *Producer {
	if client == nil {
		return nil
	}
	return &Producer{client: client}
}

// publishAsync 异步发布事件（核心方法）
// - 开新 goroutine，不阻塞调用方
// - defer recover 防 panic 传播
// - 3 秒超时防 goroutine 泄漏
// - 发布失败只记日志，不影响主业务
func (p *Producer) publishAsync(topic string, payload interface{}) {
	if p == nil || p.client == nil {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logx.Errorf("[MQ-Producer] panic recovered: topic=%s, err=%v", topic, r)
			}
		}()

		data, err := json.Marshal(payload)
		if err != nil {
			logx.Errorf("[MQ-Producer] 序列化失败: topic=%s, err=%v", topic, err)
			return
		}

		pubCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if err := p.client.Publish(pubCtx, topic, data); err != nil {
			logx.Errorf("[MQ-Producer] 发布失败: topic=%s, err=%v", topic, err)
			return
		}

		logx.Infof("[MQ-Producer] 发布成功: topic=%s, size=%d", topic, len(data))
	}()
}

// ==================== 追踪事件（Tracking WS 消费）====================

// PublishActivityStarted 发布活动开始事件
func (p *Producer) PublishActivityStarted(ctx context.Context, activity *model.Activity, event *model.Event) {
	eventType := ""
	if event != nil {
		eventType = event.TypeText()
	}
	p.publishAsync(messaging.TopicActivityStarted, messaging.ActivityStartedEvent{
		ActivityID: activity.ID,
		RunnerID:   activity.RunnerID,
		EventID:    activity.EventID,
		EventType:  eventType,
		StartedAt:  time.Unix(activity.StartedAt, 0),
	})
}

// PublishTelemetryUpdated 发布位置聚合更新事件
// 载荷取持久化确认后的快照，订阅端不做再计算
func (p *Producer) PublishTelemetryUpdated(ctx context.Context, snapshot *tracker.Snapshot, heartRate int) {
	p.publishAsync(messaging.TopicTelemetryUpdated, messaging.TelemetryUpdatedEvent{
		ActivityID:         snapshot.ActivityID,
		RunnerID:           snapshot.RunnerID,
		Latitude:           snapshot.Latitude,
		Longitude:          snapshot.Longitude,
		CumulativeDistance: snapshot.CumulativeDistanceM,
		PaceSecPerKm:       snapshot.PaceSecPerKm,
		RemainingDistance:  snapshot.RemainingDistanceM,
		HeartRate:          heartRate,
		Timestamp:          snapshot.Timestamp,
		ReportedAt:         time.Now(),
	})
}

// PublishMessageCreated 发布加油消息创建事件
func (p *Producer) PublishMessageCreated(ctx context.Context, msg *model.CheerMessage) {
	p.publishAsync(messaging.TopicMessageCreated, messaging.CheerMessageCreatedEvent{
		ActivityID: msg.ActivityID,
		MessageID:  msg.ID,
		Sender:     msg.Sender,
		Text:       msg.Text,
		CreatedAt:  time.Unix(msg.CreatedAt, 0),
	})
}

// Close 关闭 Producer 底层客户端
func (p *Producer) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Close()
}
