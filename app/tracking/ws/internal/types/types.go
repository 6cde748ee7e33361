package types

import "encoding/json"

// FrameKind 帧类型
type FrameKind string

const (
	// 客户端 -> 服务端
	KindPing        FrameKind = "ping"        // 心跳
	KindSubscribe   FrameKind = "subscribe"   // 订阅活动（每个连接同时只跟一个活动）
	KindUnsubscribe FrameKind = "unsubscribe" // 退订活动，连接保持

	// 服务端 -> 客户端
	KindPong            FrameKind = "pong"             // 心跳响应
	KindSubscribed      FrameKind = "subscribed"       // 订阅成功
	KindUnsubscribed    FrameKind = "unsubscribed"     // 退订成功
	KindActivityStarted FrameKind = "activity-started" // 活动开始
	KindTelemetryUpdate FrameKind = "telemetry-update" // 位置聚合更新
	KindMessageCreated  FrameKind = "message-created"  // 新的加油消息
	KindError           FrameKind = "error"            // 错误
)

// Frame WebSocket 帧结构
type Frame struct {
	Kind       FrameKind       `json:"kind"`                  // 帧类型
	ActivityID string          `json:"activity_id,omitempty"` // 关联活动
	Timestamp  int64           `json:"timestamp"`             // 时间戳
	Data       json.RawMessage `json:"data,omitempty"`        // 载荷
}

// SubscribeData 订阅请求载荷
type SubscribeData struct {
	ActivityID string `json:"activity_id"`
}

// ErrorData 错误载荷
type ErrorData struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
