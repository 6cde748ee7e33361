package tracker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/zeromicro/go-zero/core/logx"

	"livetrack-platform/common/cache"
	"livetrack-platform/common/constants"
)

// SnapshotCache 聚合快照的 Redis 缓存
// 仅作加速读取用途，数据库始终是事实来源；nil 安全
type SnapshotCache struct {
	client *redis.Client
}

// NewSnapshotCache 创建快照缓存
func NewSnapshotCache(client *redis.Client) *SnapshotCache {
	if client == nil {
		return nil
	}
	return &SnapshotCache{client: client}
}

// Put 写入快照（尽力而为，失败只记日志）
func (c *SnapshotCache) Put(ctx context.Context, snapshot *Snapshot) {
	if c == nil || c.client == nil || snapshot == nil {
		return
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		logx.Errorf("[SnapshotCache] 序列化失败: activityID=%s, err=%v", snapshot.ActivityID, err)
		return
	}

	// TTL 加随机抖动，避免同批活动的快照同时过期
	key := constants.CacheAggregatePrefix + snapshot.ActivityID
	ttl := cache.RandomTTL(constants.AggregateSnapshotTTL)
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		logx.Errorf("[SnapshotCache] 写入失败: activityID=%s, err=%v", snapshot.ActivityID, err)
	}
}

// Get 读取快照，未命中返回 (nil, nil)
func (c *SnapshotCache) Get(ctx context.Context, activityID string) (*Snapshot, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}

	data, err := c.client.Get(ctx, constants.CacheAggregatePrefix+activityID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("反序列化快照失败: %w", err)
	}
	return &snapshot, nil
}

// Evict 删除快照（活动完赛/取消后调用）
func (c *SnapshotCache) Evict(ctx context.Context, activityID string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, constants.CacheAggregatePrefix+activityID).Err(); err != nil {
		logx.Errorf("[SnapshotCache] 删除失败: activityID=%s, err=%v", activityID, err)
	}
}
