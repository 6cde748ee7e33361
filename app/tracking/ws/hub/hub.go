package hub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
	"github.com/zeromicro/go-zero/core/logx"

	"livetrack-platform/app/tracking/ws/internal/types"
	"livetrack-platform/common/constants"
	"livetrack-platform/common/messaging"
)

// Hub 观战连接管理中心
//
// 每个活动是一个独立话题；一个连接同时只跟一个活动，
// 订阅新活动时自动退出旧话题。推送是尽力而为的：
// 发送缓冲满的慢客户端丢帧，绝不阻塞话题内其他订阅者。
type Hub struct {
	// 已注册的客户端
	clients map[*Client]bool

	// 活动话题订阅 (activityID -> clients)
	topics map[string]map[*Client]bool

	// 注册请求
	register chan *Client

	// 注销请求
	unregister chan *Client

	// 消息中间件客户端
	messagingClient *messaging.Client

	// Redis 客户端（订阅人数统计）
	redisClient *redis.Client

	mu sync.RWMutex
}

// NewHub 创建新的 Hub
func NewHub(messagingClient *messaging.Client, redisClient *redis.Client) *Hub {
	return &Hub{
		clients:         make(map[*Client]bool),
		topics:          make(map[string]map[*Client]bool),
		register:        make(chan *Client),
		unregister:      make(chan *Client),
		messagingClient: messagingClient,
		redisClient:     redisClient,
	}
}

// Run 运行 Hub
func (h *Hub) Run(ctx context.Context) {
	// 订阅消息中间件的追踪事件
	go h.subscribeEvents(ctx)

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ctx.Done():
			logx.Info("Hub 正在关闭")
			return
		}
	}
}

// Register 获取注册通道
func (h *Hub) Register() chan<- *Client {
	return h.register
}

// registerClient 注册客户端
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	logx.Infof("新的观战连接已建立，当前连接数=%d", len(h.clients))
}

// unregisterClient 注销客户端
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[client]; !exists {
		return
	}
	delete(h.clients, client)
	h.leaveTopicLocked(client)
	client.shutdown()
}

// Subscribe 将客户端订阅到活动话题
// 一个连接同时只跟一个活动：订阅新活动时自动退出旧话题
func (h *Hub) Subscribe(client *Client, activityID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.activityID == activityID {
		return
	}

	// 退出旧话题
	h.leaveTopicLocked(client)

	// 加入新话题
	if _, ok := h.topics[activityID]; !ok {
		h.topics[activityID] = make(map[*Client]bool)
	}
	h.topics[activityID][client] = true
	client.activityID = activityID

	h.updateSubscriberCount(activityID, len(h.topics[activityID]))
	logx.Infof("观战订阅: activityID=%s, 话题人数=%d", activityID, len(h.topics[activityID]))
}

// Unsubscribe 将客户端从活动话题退订，连接保持
// 指定的活动与当前订阅不符时为空操作
func (h *Hub) Unsubscribe(client *Client, activityID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.activityID != activityID {
		return
	}
	h.leaveTopicLocked(client)
	logx.Infof("观战退订: activityID=%s", activityID)
}

// leaveTopicLocked 将客户端从当前话题移除（须持有 h.mu）
func (h *Hub) leaveTopicLocked(client *Client) {
	if client.activityID == "" {
		return
	}
	activityID := client.activityID
	client.activityID = ""

	clients, ok := h.topics[activityID]
	if !ok {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.topics, activityID)
	}
	h.updateSubscriberCount(activityID, len(clients))
}

// Publish 向活动话题广播一帧
// 先在读锁内拷贝订阅者快照，发送在锁外进行；
// 每个订阅者至多收到一次，慢客户端丢帧不阻塞
func (h *Hub) Publish(activityID string, frame *types.Frame) {
	h.mu.RLock()
	clients, ok := h.topics[activityID]
	if !ok {
		h.mu.RUnlock()
		return
	}
	snapshot := make([]*Client, 0, len(clients))
	for client := range clients {
		snapshot = append(snapshot, client)
	}
	h.mu.RUnlock()

	for _, client := range snapshot {
		client.SendFrame(frame)
	}
}

// subscribeEvents 订阅追踪事件并转发到对应话题
func (h *Hub) subscribeEvents(ctx context.Context) {
	// 活动开始
	h.messagingClient.Subscribe(messaging.TopicActivityStarted, "ws-activity-started-handler", func(msg *message.Message) error {
		var data messaging.ActivityStartedEvent
		if err := json.Unmarshal(msg.Payload, &data); err != nil {
			return messaging.NewNonRetryableError(err)
		}

		h.Publish(data.ActivityID, &types.Frame{
			Kind:       types.KindActivityStarted,
			ActivityID: data.ActivityID,
			Timestamp:  data.StartedAt.Unix(),
			Data:       json.RawMessage(msg.Payload),
		})
		return nil
	})

	// 位置聚合更新
	h.messagingClient.Subscribe(messaging.TopicTelemetryUpdated, "ws-telemetry-handler", func(msg *message.Message) error {
		var data messaging.TelemetryUpdatedEvent
		if err := json.Unmarshal(msg.Payload, &data); err != nil {
			return messaging.NewNonRetryableError(err)
		}

		h.Publish(data.ActivityID, &types.Frame{
			Kind:       types.KindTelemetryUpdate,
			ActivityID: data.ActivityID,
			Timestamp:  data.Timestamp,
			Data:       json.RawMessage(msg.Payload),
		})
		return nil
	})

	// 新的加油消息
	h.messagingClient.Subscribe(messaging.TopicMessageCreated, "ws-message-created-handler", func(msg *message.Message) error {
		var data messaging.CheerMessageCreatedEvent
		if err := json.Unmarshal(msg.Payload, &data); err != nil {
			return messaging.NewNonRetryableError(err)
		}

		h.Publish(data.ActivityID, &types.Frame{
			Kind:       types.KindMessageCreated,
			ActivityID: data.ActivityID,
			Timestamp:  data.CreatedAt.Unix(),
			Data:       json.RawMessage(msg.Payload),
		})
		return nil
	})

	// 启动消息订阅
	if err := h.messagingClient.Run(ctx); err != nil {
		logx.Errorf("消息中间件客户端停止: %v", err)
	}
}

// GetClientCount 获取当前连接数
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetTopicCount 获取有人观战的活动数
func (h *Hub) GetTopicCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics)
}

// GetSubscriberCount 获取活动话题的订阅人数
func (h *Hub) GetSubscriberCount(activityID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[activityID])
}

// updateSubscriberCount 将话题订阅人数写入 Redis（尽力而为）
func (h *Hub) updateSubscriberCount(activityID string, count int) {
	if h.redisClient == nil {
		return
	}
	ctx := context.Background()
	key := constants.CacheSubscribersPrefix + activityID

	if count <= 0 {
		h.redisClient.Del(ctx, key)
		return
	}
	if err := h.redisClient.Set(ctx, key, count, constants.SubscriberStatsTTL).Err(); err != nil {
		logx.Errorf("更新订阅统计失败: activityID=%s, err=%v", activityID, err)
	}
}
