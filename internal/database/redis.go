package database

import (
	"sync"

	"kusystem/pkg/cache"
	"kusystem/pkg/config"
)

var (
	redisCacheInstance *cache.RedisCache
	redisCacheOnce     sync.Once
)

// GetRedisCache 获取Redis缓存的单例实例
func GetRedisCache() *cache.RedisCache {
	redisCacheOnce.Do(func() {
		cfg := config.GetConfig()
		redisCacheInstance = cache.NewRedisCache(&cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	})
	return redisCacheInstance
}

// CloseRedisCache 关闭Redis连接
func CloseRedisCache() error {
	if redisCacheInstance != nil {
		return redisCacheInstance.Close()
	}
	return nil
}
