package config

import (
	"github.com/zeromicro/go-zero/rest"
)

// Config 观战 WebSocket 服务配置
type Config struct {
	rest.RestConf

	// Redis 配置（订阅统计 + 消息通道共用）
	Redis RedisConf

	// 消息通道
	Messaging MessagingConf

	// WebSocket 配置
	WebSocket WebSocketConf
}

// RedisConf Redis 配置
type RedisConf struct {
	Addr     string `json:",default=127.0.0.1:6379"`
	Password string `json:",optional"`
	DB       int    `json:",default=0"`
}

// MessagingConf 消息通道配置
type MessagingConf struct {
	ServiceName   string `json:",default=tracking-ws"`
	EnableMetrics bool   `json:",default=true"`
}

// WebSocketConf WebSocket 配置
type WebSocketConf struct {
	// 最大连接数
	MaxConnections int `json:",default=10000"`
	// 读取超时（秒）
	ReadTimeout int `json:",default=60"`
	// 写入超时（秒）
	WriteTimeout int `json:",default=10"`
}
