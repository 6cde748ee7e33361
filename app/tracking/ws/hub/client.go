package hub

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zeromicro/go-zero/core/logx"

	"livetrack-platform/app/tracking/ws/internal/types"
	"livetrack-platform/common/utils/idgen"
)

const (
	// 写入超时时间
	writeWait = 10 * time.Second
	// 心跳超时时间
	pongWait = 60 * time.Second
	// Ping 间隔 (必须小于 pongWait)
	pingPeriod = (pongWait * 9) / 10
	// 最大消息大小
	maxMessageSize = 4 * 1024 // 观战端只发订阅与心跳，4KB 足够
)

var (
	ErrSendBufferFull = errors.New("发送缓冲区已满")
	ErrClientClosed   = errors.New("连接已关闭")
)

// Client 观战 WebSocket 客户端
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// activityID 当前订阅的活动话题（由 Hub 在锁内维护）
	activityID string

	// closed 发送通道是否已关闭，与 SendFrame 互斥，
	// 挡住注销与话题广播并发时对已关闭通道的写入
	mu     sync.Mutex
	closed bool
}

// NewClient 创建新客户端
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// ReadPump 读取消息
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logx.Errorf("WebSocket 错误: %v", err)
			}
			break
		}

		c.handleFrame(data)
	}
}

// WritePump 写入消息
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(data)

			// 批量写入队列中的帧
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendFrame 发送一帧给客户端
// 缓冲满时丢帧：慢客户端不阻塞话题内其他订阅者
func (c *Client) SendFrame(frame *types.Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		logx.Errorf("观战连接的发送缓冲区已满，丢帧: kind=%s", frame.Kind)
		return ErrSendBufferFull
	}
}

// shutdown 标记关闭并关闭发送通道，重复调用是空操作
func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// handleFrame 处理客户端发来的帧
func (c *Client) handleFrame(data []byte) {
	var frame types.Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		c.SendError(400, "帧格式错误")
		return
	}

	switch frame.Kind {
	case types.KindPing:
		c.SendFrame(&types.Frame{
			Kind:      types.KindPong,
			Timestamp: time.Now().Unix(),
		})

	case types.KindSubscribe:
		var sub types.SubscribeData
		if frame.Data != nil {
			if err := json.Unmarshal(frame.Data, &sub); err != nil {
				c.SendError(400, "订阅载荷格式错误")
				return
			}
		}
		if sub.ActivityID == "" {
			sub.ActivityID = frame.ActivityID
		}

		// 订阅端同样接受旧版 16 位标识符
		activityID, err := idgen.Normalize(idgen.KindActivity, sub.ActivityID)
		if err != nil {
			c.SendError(400, "活动标识符无效")
			return
		}

		c.hub.Subscribe(c, activityID)
		c.SendFrame(&types.Frame{
			Kind:       types.KindSubscribed,
			ActivityID: activityID,
			Timestamp:  time.Now().Unix(),
		})

	case types.KindUnsubscribe:
		var sub types.SubscribeData
		if frame.Data != nil {
			if err := json.Unmarshal(frame.Data, &sub); err != nil {
				c.SendError(400, "退订载荷格式错误")
				return
			}
		}
		if sub.ActivityID == "" {
			sub.ActivityID = frame.ActivityID
		}

		activityID, err := idgen.Normalize(idgen.KindActivity, sub.ActivityID)
		if err != nil {
			c.SendError(400, "活动标识符无效")
			return
		}

		c.hub.Unsubscribe(c, activityID)
		c.SendFrame(&types.Frame{
			Kind:       types.KindUnsubscribed,
			ActivityID: activityID,
			Timestamp:  time.Now().Unix(),
		})

	default:
		c.SendError(400, "未知的帧类型")
	}
}

// SendError 发送错误帧
func (c *Client) SendError(code int, message string) {
	data, _ := json.Marshal(types.ErrorData{
		Code:    code,
		Message: message,
	})
	c.SendFrame(&types.Frame{
		Kind:      types.KindError,
		Timestamp: time.Now().Unix(),
		Data:      data,
	})
}
