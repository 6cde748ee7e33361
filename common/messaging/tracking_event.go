package messaging

import "time"

// ==================== Topic 定义 ====================

const (
	TopicActivityStarted  = "tracking.activity.started"
	TopicTelemetryUpdated = "tracking.telemetry.updated"
	TopicMessageCreated   = "tracking.message.created"
)

// ==================== 事件结构体 ====================
// 字段类型必须与 WS 服务消费者完全匹配

// ActivityStartedEvent 活动开始事件
// 消费者：Tracking WS（推送 activity-started 帧）
type ActivityStartedEvent struct {
	ActivityID string    `json:"activity_id"`
	RunnerID   string    `json:"runner_id"`
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	StartedAt  time.Time `json:"started_at"`
}

// TelemetryUpdatedEvent 位置聚合更新事件
// 消费者：Tracking WS（推送 telemetry-update 帧）
// 载荷是持久化确认后的聚合快照，订阅端不做任何再计算
type TelemetryUpdatedEvent struct {
	ActivityID         string    `json:"activity_id"`
	RunnerID           string    `json:"runner_id"`
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	CumulativeDistance float64   `json:"cumulative_distance_m"`
	PaceSecPerKm       float64   `json:"pace_sec_per_km"`
	RemainingDistance  float64   `json:"remaining_distance_m"`
	HeartRate          int       `json:"heart_rate,omitempty"`
	Timestamp          int64     `json:"timestamp"`
	ReportedAt         time.Time `json:"reported_at"`
}

// CheerMessageCreatedEvent 加油消息创建事件
// 消费者：Tracking WS（推送 message-created 帧）
type CheerMessageCreatedEvent struct {
	ActivityID string    `json:"activity_id"`
	MessageID  string    `json:"message_id"`
	Sender     string    `json:"sender"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}
