package svc

import (
	"github.com/redis/go-redis/v9"

	"livetrack-platform/app/tracking/ws/internal/config"
	"livetrack-platform/common/messaging"
)

// ServiceContext 服务上下文
type ServiceContext struct {
	Config          config.Config
	MessagingClient *messaging.Client
	RedisClient     *redis.Client
}

// NewServiceContext 创建服务上下文
func NewServiceContext(c config.Config) *ServiceContext {
	// 创建 Redis 客户端（订阅统计）
	redisClient := redis.NewClient(&redis.Options{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	})

	// 创建消息中间件客户端
	msgConf := messaging.DefaultConfig()
	msgConf.Redis = messaging.RedisConfig{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	}
	msgConf.ServiceName = c.Messaging.ServiceName
	msgConf.EnableMetrics = c.Messaging.EnableMetrics

	messagingClient, err := messaging.NewClient(msgConf)
	if err != nil {
		panic(err)
	}

	return &ServiceContext{
		Config:          c,
		MessagingClient: messagingClient,
		RedisClient:     redisClient,
	}
}
