package config

import (
	"github.com/zeromicro/go-zero/rest"
)

type Config struct {
	rest.RestConf

	// 数据存储
	MySQL MySQLConfig // MySQL 配置
	Redis RedisConfig // Redis 配置（快照缓存 + 消息通道共用）

	// 消息通道
	Messaging MessagingConfig
}

// MySQLConfig 数据库配置
type MySQLConfig struct {
	Host            string `json:",default=127.0.0.1"`
	Port            int    `json:",default=3306"`
	Username        string
	Password        string
	Database        string
	MaxOpenConns    int `json:",default=100"`  // 最大打开连接数
	MaxIdleConns    int `json:",default=10"`   // 最大空闲连接数
	ConnMaxLifetime int `json:",default=3600"` // 连接生命周期（秒）
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Addr     string `json:",default=127.0.0.1:6379"`
	Password string `json:",optional"`
	DB       int    `json:",default=0"`
}

// MessagingConfig 消息通道配置
type MessagingConfig struct {
	ServiceName   string `json:",default=tracking-api"`
	EnableMetrics bool   `json:",default=true"`
	// Enabled 为 false 时不连消息通道，事件发布降级为空操作
	Enabled bool `json:",default=true"`
}
