package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fisker/crm-backend/internal/model"
	"github.com/fisker/crm-backend/pkg/logger"
	"github.com/fisker/crm-backend/pkg/metrics"
	"github.com/go-redis/redis/v8"
)

const (
	fieldsKeyPrefix = "crm:metadata:fields:"
	layoutKeyPrefix = "crm:metadata:layout:"
)

// Cache 按对象类型缓存解析结果。实现不返回错误：缓存故障按未命中处理
type Cache interface {
	GetFields(ctx context.Context, objectType model.ObjectType) ([]model.FieldDefinition, bool)
	SetFields(ctx context.Context, objectType model.ObjectType, fields []model.FieldDefinition)
	GetLayout(ctx context.Context, objectType model.ObjectType) (*model.PageLayoutView, bool)
	SetLayout(ctx context.Context, objectType model.ObjectType, layout *model.PageLayoutView)
	Invalidate(ctx context.Context, objectType model.ObjectType)
}

// NewCache client 为 nil（Redis 未启用）时返回不缓存的实现
func NewCache(client *redis.Client, ttl time.Duration) Cache {
	if client == nil {
		return NoopCache{}
	}
	return NewRedisCache(client, ttl)
}

// NoopCache 不缓存
type NoopCache struct{}

func (NoopCache) GetFields(context.Context, model.ObjectType) ([]model.FieldDefinition, bool) {
	return nil, false
}

func (NoopCache) SetFields(context.Context, model.ObjectType, []model.FieldDefinition) {}

func (NoopCache) GetLayout(context.Context, model.ObjectType) (*model.PageLayoutView, bool) {
	return nil, false
}

func (NoopCache) SetLayout(context.Context, model.ObjectType, *model.PageLayoutView) {}

func (NoopCache) Invalidate(context.Context, model.ObjectType) {}

// RedisCache 以 JSON 存储在 Redis 中
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func fieldsKey(objectType model.ObjectType) string {
	return fieldsKeyPrefix + string(objectType)
}

func layoutKey(objectType model.ObjectType) string {
	return layoutKeyPrefix + string(objectType)
}

func (c *RedisCache) GetFields(ctx context.Context, objectType model.ObjectType) ([]model.FieldDefinition, bool) {
	var fields []model.FieldDefinition
	if !c.get(ctx, "fields", fieldsKey(objectType), &fields) {
		return nil, false
	}
	return fields, true
}

func (c *RedisCache) SetFields(ctx context.Context, objectType model.ObjectType, fields []model.FieldDefinition) {
	c.set(ctx, fieldsKey(objectType), fields)
}

func (c *RedisCache) GetLayout(ctx context.Context, objectType model.ObjectType) (*model.PageLayoutView, bool) {
	var layout model.PageLayoutView
	if !c.get(ctx, "layout", layoutKey(objectType), &layout) {
		return nil, false
	}
	return &layout, true
}

func (c *RedisCache) SetLayout(ctx context.Context, objectType model.ObjectType, layout *model.PageLayoutView) {
	c.set(ctx, layoutKey(objectType), layout)
}

// Invalidate 删除对象类型的字段和布局缓存
func (c *RedisCache) Invalidate(ctx context.Context, objectType model.ObjectType) {
	if err := c.client.Del(ctx, fieldsKey(objectType), layoutKey(objectType)).Err(); err != nil {
		logger.Warnf("Failed to invalidate metadata cache for %s: %v", objectType, err)
	}
}

func (c *RedisCache) get(ctx context.Context, kind, key string, dest interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.MetadataCacheRequests.WithLabelValues(kind, "miss").Inc()
		return false
	}
	if err == nil {
		err = json.Unmarshal(data, dest)
	}
	if err != nil {
		metrics.MetadataCacheRequests.WithLabelValues(kind, "error").Inc()
		logger.Warnf("Metadata cache read %s failed: %v", key, err)
		return false
	}
	metrics.MetadataCacheRequests.WithLabelValues(kind, "hit").Inc()
	return true
}

func (c *RedisCache) set(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Warnf("Metadata cache encode %s failed: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warnf("Metadata cache write %s failed: %v", key, err)
	}
}
