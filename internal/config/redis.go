package config

import "time"

type RedisConfig struct {
	Enabled  bool
	DB       int
	Url      string
	Password string
	LockTTL  time.Duration
}

func NewRedisConfig() *RedisConfig {
	return &RedisConfig{
		Enabled:  getBool("REDIS_ENABLED", false),
		DB:       getInt("REDIS_DB", 0),
		Url:      getString("REDIS_ADDR", "localhost:6379"),
		Password: getString("REDIS_PASSWORD", ""),
		LockTTL:  getMillis("REDIS_LOCK_TTL_MS", 10*time.Second),
	}
}
