package constants

import "time"

// Redis Key 前缀规范
// 格式: {业务}:{模块}:{具体标识}
// 示例: tracking:aggregate:act_b3f6h1j5n8r2

const (
	// ============ 追踪服务 Redis Key ============

	// CacheAggregatePrefix 活动聚合快照缓存前缀
	CacheAggregatePrefix = "tracking:aggregate:"
	// CacheSubscribersPrefix 活动观战人数统计前缀
	CacheSubscribersPrefix = "tracking:subscribers:"

	// ============ TTL ============

	// AggregateSnapshotTTL 聚合快照过期时间
	// 超长赛事也不会超过一天，过期兜底防止取消的活动残留
	AggregateSnapshotTTL = 24 * time.Hour
	// SubscriberStatsTTL 观战统计过期时间
	SubscriberStatsTTL = 24 * time.Hour
)
