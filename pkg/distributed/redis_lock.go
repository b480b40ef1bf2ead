package distributed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fisker/crm-backend/pkg/logger"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Lock 非阻塞互斥锁
type Lock interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock() error
}

// NewLock Redis 可用时返回分布式锁，否则返回同名共享的进程内锁
func NewLock(client *redis.Client, key string, expiry time.Duration) Lock {
	if client == nil {
		return localLock(key)
	}
	return NewRedisLock(client, key, expiry)
}

// RedisLock Redis 分布式锁
type RedisLock struct {
	client   *redis.Client
	key      string
	value    string
	expiry   time.Duration
	cancelFn context.CancelFunc
}

// MinLockExpiry 锁过期时间下限，续期间隔为其 1/3
const MinLockExpiry = time.Second

// NewRedisLock 创建 Redis 分布式锁，expiry 小于 MinLockExpiry 时按 MinLockExpiry 处理
func NewRedisLock(client *redis.Client, key string, expiry time.Duration) *RedisLock {
	if expiry < MinLockExpiry {
		expiry = MinLockExpiry
	}
	return &RedisLock{
		client: client,
		key:    key,
		value:  uuid.New().String(), // 使用 UUID 作为锁的值，防止误释放
		expiry: expiry,
	}
}

// TryLock 尝试获取锁（非阻塞），成功后自动续期直到 Unlock
func (l *RedisLock) TryLock(ctx context.Context) (bool, error) {
	// SET NX PX：key 不存在时设置并带过期时间
	ok, err := l.client.SetNX(ctx, l.key, l.value, l.expiry).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", l.key, err)
	}

	if ok {
		renewCtx, cancel := context.WithCancel(context.Background())
		l.cancelFn = cancel
		go l.autoRenew(renewCtx)
	}
	return ok, nil
}

var unlockScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

var renewScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("pexpire", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

// Unlock 释放锁，只有持有锁的实例才能释放
func (l *RedisLock) Unlock() error {
	if l.cancelFn != nil {
		l.cancelFn()
	}

	result, err := unlockScript.Run(context.Background(), l.client, []string{l.key}, l.value).Int64()
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", l.key, err)
	}
	if result == 0 {
		logger.Warnf("[RedisLock] Lock %s was not held by this instance", l.key)
	}
	return nil
}

// autoRenew 每隔 expiry/3 续期一次
func (l *RedisLock) autoRenew(ctx context.Context) {
	ticker := time.NewTicker(l.expiry / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			result, err := renewScript.Run(ctx, l.client, []string{l.key}, l.value, l.expiry.Milliseconds()).Int64()
			if err != nil {
				if ctx.Err() == nil {
					logger.Warnf("[RedisLock] Failed to renew lock %s: %v", l.key, err)
				}
				return
			}
			if result == 0 {
				logger.Warnf("[RedisLock] Lost lock %s, stopping auto-renew", l.key)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

var localLocks sync.Map // key -> *sync.Mutex

type processLock struct {
	mu *sync.Mutex
}

func localLock(key string) *processLock {
	mu, _ := localLocks.LoadOrStore(key, &sync.Mutex{})
	return &processLock{mu: mu.(*sync.Mutex)}
}

func (l *processLock) TryLock(context.Context) (bool, error) {
	return l.mu.TryLock(), nil
}

func (l *processLock) Unlock() error {
	l.mu.Unlock()
	return nil
}
